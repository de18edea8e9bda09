package game

// PublicState is the projection safe to show any viewer: hands are reduced
// to counts and the deck order is hidden.
type PublicState struct {
	Players        []PublicPlayer                 `json:"players"`
	TurnOrder      []PlayerID                     `json:"turnOrder"`
	Territories    map[TerritoryID]TerritoryState `json:"territories"`
	Turn           Turn                           `json:"turn"`
	Reinforcements int                            `json:"reinforcements"`
	PendingOccupy  *PendingOccupy                 `json:"pendingOccupy,omitempty"`
	DeckCount      int                            `json:"deckCount"`
	DiscardCount   int                            `json:"discardCount"`
	TradeCount     int                            `json:"tradeCount"`
	StateVersion   int64                          `json:"stateVersion"`
}

type PublicPlayer struct {
	ID        PlayerID     `json:"id"`
	Status    PlayerStatus `json:"status"`
	TeamID    string       `json:"teamId,omitempty"`
	CardCount int          `json:"cardCount"`
}

func (s GameState) Public() PublicState {
	players := make([]PublicPlayer, 0, len(s.Players))
	for _, p := range s.Players {
		players = append(players, PublicPlayer{
			ID:        p.ID,
			Status:    p.Status,
			TeamID:    p.TeamID,
			CardCount: len(s.Hands[p.ID]),
		})
	}
	territories := make(map[TerritoryID]TerritoryState, len(s.Territories))
	for k, v := range s.Territories {
		territories[k] = v
	}
	var pending *PendingOccupy
	if s.PendingOccupy != nil {
		p := *s.PendingOccupy
		pending = &p
	}
	return PublicState{
		Players:        players,
		TurnOrder:      append([]PlayerID(nil), s.TurnOrder...),
		Territories:    territories,
		Turn:           s.Turn,
		Reinforcements: s.Reinforcements.Remaining,
		PendingOccupy:  pending,
		DeckCount:      len(s.Deck),
		DiscardCount:   len(s.Discard),
		TradeCount:     s.TradeCount,
		StateVersion:   s.StateVersion,
	}
}
