package game

type ReinforcementCalculator interface {
	CalculateReinforcements(state GameState, player PlayerID, m Map, teams TeamsConfig, turnOrder []PlayerID) ReinforcementResult
}

// AdvanceTurn hands the turn to the next alive player after current and
// grants their reinforcements. It returns nil when nobody is left to play.
func AdvanceTurn(s *GameState, current PlayerID, m Map, teams TeamsConfig, calc ReinforcementCalculator) []Event {
	next, wrapped := s.NextAlivePlayer(current)
	if next == "" {
		return nil
	}
	if wrapped {
		s.Turn.Round++
	}
	s.CapturedThisTurn = false
	s.FortifiesUsed = 0
	s.PendingOccupy = nil
	s.Turn.CurrentPlayerID = next
	s.Turn.Phase = PhaseReinforcement
	r := calc.CalculateReinforcements(*s, next, m, teams, s.TurnOrder)
	s.Reinforcements = Reinforcements{Remaining: r.Total, Sources: r.Sources}
	return []Event{
		{Type: EventTurnEnded, PlayerID: current, NextPlayer: next, Phase: PhaseReinforcement, Round: s.Turn.Round},
		{Type: EventReinforcementsGranted, PlayerID: next, Amount: r.Total},
	}
}
