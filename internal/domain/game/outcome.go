package game

// Outcome reports the winner once at most one side remains. In team mode a
// side is a team; otherwise every player is their own side. The winning
// player is the first alive player in turn order.
func (s GameState) Outcome(teamsEnabled bool) (winner PlayerID, team string, decided bool) {
	alive := s.AlivePlayers()
	sides := len(alive)
	if teamsEnabled {
		sides = len(s.AliveTeams())
	}
	if sides > 1 {
		return "", "", false
	}
	if len(alive) == 0 {
		return "", "", true
	}
	return alive[0], s.TeamOf(alive[0]), true
}

func (s GameState) Teammates(a, b PlayerID) bool {
	if a == b {
		return true
	}
	ta, tb := s.TeamOf(a), s.TeamOf(b)
	return ta != "" && ta == tb
}

func (s GameState) Change(id TerritoryID) TerritoryChange {
	t := s.Territories[id]
	return TerritoryChange{Territory: id, Owner: t.Owner, Armies: t.Armies}
}

func (s *GameState) SetPlayerStatus(id PlayerID, status PlayerStatus) {
	for i := range s.Players {
		if s.Players[i].ID == id {
			s.Players[i].Status = status
		}
	}
}
