package game

// Resign removes player from the game: their territories pass to
// NeutralPlayer with armies intact and their cards go to the discard pile.
// A pending occupation is settled with its minimum move first, so the
// captured territory is never handed over empty.
// The turn only moves on when it was the resigning player's turn. If at most
// one side remains the game ends.
func Resign(state GameState, player PlayerID, m Map, rules Ruleset, calc ReinforcementCalculator) (GameState, []Event, error) {
	if state.Turn.Phase.Terminal() {
		return state, nil, Reject("game_over", "game has ended")
	}
	if !state.IsAlive(player) {
		return state, nil, Reject("not_alive", "player is not in the game")
	}

	s := state.Clone()
	var events []Event
	if p := s.PendingOccupy; p != nil && s.Turn.CurrentPlayerID == player {
		from, to := s.Territories[p.From], s.Territories[p.To]
		from.Armies -= p.MinMove
		to.Armies += p.MinMove
		s.Territories[p.From] = from
		s.Territories[p.To] = to
		s.PendingOccupy = nil
		events = append(events, Event{
			Type:     EventOccupied,
			PlayerID: player,
			Changes:  []TerritoryChange{s.Change(p.From), s.Change(p.To)},
		})
	}
	s.SetPlayerStatus(player, PlayerDefeated)

	resigned := Event{Type: EventPlayerResigned, PlayerID: player}
	for _, tid := range s.OwnedBy(player) {
		t := s.Territories[tid]
		t.Owner = NeutralPlayer
		s.Territories[tid] = t
		resigned.Changes = append(resigned.Changes, s.Change(tid))
	}
	if hand := s.Hands[player]; len(hand) > 0 {
		s.Discard = append(s.Discard, hand...)
	}
	delete(s.Hands, player)
	events = append(events, resigned)

	if winner, team, done := s.Outcome(rules.Teams.Enabled); done {
		s.Turn.Phase = PhaseGameOver
		s.PendingOccupy = nil
		s.Reinforcements = Reinforcements{}
		return s, append(events, Event{
			Type:       EventGameEnded,
			PlayerID:   player,
			Phase:      PhaseGameOver,
			Round:      s.Turn.Round,
			Winner:     winner,
			WinnerTeam: team,
		}), nil
	}

	if s.Turn.CurrentPlayerID == player {
		events = append(events, AdvanceTurn(&s, player, m, rules.Teams, calc)...)
	}
	return s, events, nil
}
