package ports

import (
	"context"

	"warfront/internal/domain/game"
)

// RuleEngine is the pure combat/movement rule set. ApplyAction returns a
// *game.ActionError for moves the rules reject and must not touch
// StateVersion.
type RuleEngine interface {
	ApplyAction(state game.GameState, player game.PlayerID, action game.Action, m game.Map, rules game.Ruleset) (game.GameState, []game.Event, error)
	CalculateReinforcements(state game.GameState, player game.PlayerID, m game.Map, teams game.TeamsConfig, turnOrder []game.PlayerID) game.ReinforcementResult
}

type MapProvider interface {
	Get(ctx context.Context, mapID string) (game.Map, error)
}
