package timeline

import "warfront/internal/domain/game"

// applyEvents approximates an entry from its recorded events alone. Changes
// carry absolute values, so ownership and armies are exact; counters the
// events do not describe are left as they were.
func applyEvents(state game.GameState, events []game.Event) game.GameState {
	s := state.Clone()
	if s.Territories == nil {
		s.Territories = map[game.TerritoryID]game.TerritoryState{}
	}
	for _, e := range events {
		for _, c := range e.Changes {
			s.Territories[c.Territory] = game.TerritoryState{Owner: c.Owner, Armies: c.Armies}
		}
		if e.Phase != "" {
			s.Turn.Phase = e.Phase
		}
		if e.Round > 0 {
			s.Turn.Round = e.Round
		}
		switch e.Type {
		case game.EventTurnEnded:
			if e.NextPlayer != "" {
				s.Turn.CurrentPlayerID = e.NextPlayer
			}
			s.PendingOccupy = nil
		case game.EventReinforcementsGranted:
			s.Reinforcements = game.Reinforcements{Remaining: e.Amount}
		case game.EventReinforcementsPlaced:
			s.Reinforcements.Remaining = max(0, s.Reinforcements.Remaining-e.Amount)
		case game.EventCardsTraded:
			s.Reinforcements.Remaining += e.Amount
		case game.EventOccupied:
			s.PendingOccupy = nil
		case game.EventPlayerEliminated, game.EventPlayerResigned:
			s.SetPlayerStatus(e.PlayerID, game.PlayerDefeated)
		case game.EventGameEnded:
			s.Turn.Phase = game.PhaseGameOver
		}
	}
	return s
}
