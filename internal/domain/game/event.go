package game

type EventType string

const (
	EventReinforcementsPlaced  EventType = "reinforcements_placed"
	EventReinforcementsGranted EventType = "reinforcements_granted"
	EventCardsTraded           EventType = "cards_traded"
	EventCardDrawn             EventType = "card_drawn"
	EventAttackResolved        EventType = "attack_resolved"
	EventTerritoryCaptured     EventType = "territory_captured"
	EventOccupied              EventType = "occupied"
	EventFortified             EventType = "fortified"
	EventPhaseChanged          EventType = "phase_changed"
	EventTurnEnded             EventType = "turn_ended"
	EventPlayerEliminated      EventType = "player_eliminated"
	EventPlayerResigned        EventType = "player_resigned"
	EventGameEnded             EventType = "game_ended"
	EventTurnTimedOut          EventType = "turn_timed_out"
)

// TerritoryChange carries absolute post-event values so a frame can be
// rebuilt from events alone.
type TerritoryChange struct {
	Territory TerritoryID `json:"territory"`
	Owner     PlayerID    `json:"owner"`
	Armies    int         `json:"armies"`
}

type Event struct {
	Type       EventType         `json:"type"`
	PlayerID   PlayerID          `json:"playerId,omitempty"`
	Changes    []TerritoryChange `json:"changes,omitempty"`
	Phase      Phase             `json:"phase,omitempty"`
	Round      int               `json:"round,omitempty"`
	NextPlayer PlayerID          `json:"nextPlayerId,omitempty"`
	Winner     PlayerID          `json:"winner,omitempty"`
	WinnerTeam string            `json:"winnerTeam,omitempty"`
	Amount     int               `json:"amount,omitempty"`
	Rolls      *DiceRolls        `json:"rolls,omitempty"`
}

type DiceRolls struct {
	Attacker       []int `json:"attacker"`
	Defender       []int `json:"defender"`
	AttackerLosses int   `json:"attackerLosses"`
	DefenderLosses int   `json:"defenderLosses"`
}

// FindGameEnded returns the first game-ended event, if any.
func FindGameEnded(events []Event) (Event, bool) {
	for _, e := range events {
		if e.Type == EventGameEnded {
			return e, true
		}
	}
	return Event{}, false
}

var eventLabels = map[EventType]string{
	EventReinforcementsPlaced:  "Placed reinforcements",
	EventReinforcementsGranted: "Received reinforcements",
	EventCardsTraded:           "Traded cards",
	EventCardDrawn:             "Drew a card",
	EventAttackResolved:        "Attacked",
	EventTerritoryCaptured:     "Captured territory",
	EventOccupied:              "Occupied territory",
	EventFortified:             "Fortified",
	EventPhaseChanged:          "Changed phase",
	EventTurnEnded:             "Ended turn",
	EventPlayerEliminated:      "Eliminated a player",
	EventPlayerResigned:        "Resigned",
	EventGameEnded:             "Game over",
	EventTurnTimedOut:          "Turn timed out",
}

func (t EventType) Label() string {
	if l, ok := eventLabels[t]; ok {
		return l
	}
	return string(t)
}
