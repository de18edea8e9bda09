// Package timeout auto-plays turns whose asynchronous deadline has passed.
package timeout

import "warfront/internal/domain/game"

// Step is one primitive engine call of an auto-resolution.
type Step struct {
	Action game.Action
	// OnlyIfStillTurn skips the step once the turn has already moved on.
	OnlyIfStillTurn bool
}

type Resolution struct {
	PlayerID game.PlayerID
	Steps    []Step
}

// Policy maps the current phase to a deterministic auto-play sequence.
type Policy struct{}

// Resolve returns nil when there is nothing to auto-play.
func (Policy) Resolve(state game.GameState) *Resolution {
	player := state.Turn.CurrentPlayerID
	if player == "" {
		return nil
	}
	endTurn := Step{Action: game.Action{Type: game.ActionEndTurn}}

	switch state.Turn.Phase {
	case game.PhaseReinforcement:
		owned := state.OwnedBy(player)
		if state.Reinforcements.Remaining <= 0 || len(owned) == 0 {
			return &Resolution{PlayerID: player, Steps: []Step{endTurn}}
		}
		endTurn.OnlyIfStillTurn = true
		return &Resolution{PlayerID: player, Steps: []Step{
			{Action: game.Action{Type: game.ActionPlace, Territory: owned[0], Armies: state.Reinforcements.Remaining}},
			endTurn,
		}}
	case game.PhaseAttack, game.PhaseFortify:
		return &Resolution{PlayerID: player, Steps: []Step{endTurn}}
	case game.PhaseOccupy:
		if state.PendingOccupy == nil {
			return &Resolution{PlayerID: player, Steps: []Step{endTurn}}
		}
		endTurn.OnlyIfStillTurn = true
		return &Resolution{PlayerID: player, Steps: []Step{
			{Action: game.Action{Type: game.ActionOccupy, Armies: state.PendingOccupy.MinMove}},
			endTurn,
		}}
	default:
		return nil
	}
}
