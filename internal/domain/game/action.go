package game

import (
	"errors"
	"sort"
)

type ActionType string

const (
	ActionPlace               ActionType = "place"
	ActionTradeCards          ActionType = "trade_cards"
	ActionAttack              ActionType = "attack"
	ActionOccupy              ActionType = "occupy"
	ActionFortify             ActionType = "fortify"
	ActionEndAttack           ActionType = "end_attack"
	ActionEndTurn             ActionType = "end_turn"
	ActionPlaceReinforcements ActionType = "place_reinforcements"
	ActionResign              ActionType = "resign"
)

type Placement struct {
	Territory TerritoryID `json:"territory"`
	Armies    int         `json:"armies"`
}

type Action struct {
	Type       ActionType  `json:"type"`
	Territory  TerritoryID `json:"territory,omitempty"`
	From       TerritoryID `json:"from,omitempty"`
	To         TerritoryID `json:"to,omitempty"`
	Armies     int         `json:"armies,omitempty"`
	Dice       int         `json:"dice,omitempty"`
	CardIDs    []string    `json:"cardIds,omitempty"`
	Placements []Placement `json:"placements,omitempty"`
}

// Expand returns the primitive engine calls for a placement batch.
func (a Action) Expand() []Action {
	if a.Type != ActionPlaceReinforcements {
		return []Action{a}
	}
	out := make([]Action, 0, len(a.Placements))
	for _, p := range a.Placements {
		out = append(out, Action{Type: ActionPlace, Territory: p.Territory, Armies: p.Armies})
	}
	return out
}

var ErrInvalidAction = errors.New("invalid action")

func (a Action) Validate() error {
	switch a.Type {
	case ActionPlace:
		if a.Territory == "" || a.Armies <= 0 {
			return ErrInvalidAction
		}
	case ActionPlaceReinforcements:
		if len(a.Placements) == 0 {
			return ErrInvalidAction
		}
		for _, p := range a.Placements {
			if p.Territory == "" || p.Armies <= 0 {
				return ErrInvalidAction
			}
		}
	case ActionTradeCards:
		if len(a.CardIDs) != 3 {
			return ErrInvalidAction
		}
	case ActionAttack:
		if a.From == "" || a.To == "" {
			return ErrInvalidAction
		}
	case ActionOccupy:
		if a.Armies <= 0 {
			return ErrInvalidAction
		}
	case ActionFortify:
		if a.From == "" || a.To == "" || a.Armies <= 0 {
			return ErrInvalidAction
		}
	case ActionEndAttack, ActionEndTurn, ActionResign:
	default:
		return ErrInvalidAction
	}
	return nil
}

// ActionError is returned by rule engines for moves the rules forbid.
type ActionError struct {
	Code    string
	Message string
}

func (e *ActionError) Error() string {
	if e.Message == "" {
		return e.Code
	}
	return e.Code + ": " + e.Message
}

func Reject(code, message string) *ActionError {
	return &ActionError{Code: code, Message: message}
}

func sortTerritoryIDs(ids []TerritoryID) {
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
}
