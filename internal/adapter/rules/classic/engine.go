// Package classic is the built-in rule engine: dice combat, occupation,
// fortification, card sets and continent bonuses. It is pure; all randomness
// comes from the state's seeded cursor.
package classic

import (
	"sort"

	"warfront/internal/domain/game"
	"warfront/internal/domain/seeded"
)

const (
	minReinforcements  = 3
	territoriesPerArmy = 3
)

type Engine struct{}

func (Engine) ApplyAction(state game.GameState, player game.PlayerID, action game.Action, m game.Map, rules game.Ruleset) (game.GameState, []game.Event, error) {
	if state.Turn.Phase.Terminal() {
		return state, nil, game.Reject("game_over", "game has ended")
	}
	if state.Turn.CurrentPlayerID != player {
		return state, nil, game.Reject("not_your_turn", "player is not the current player")
	}
	if err := action.Validate(); err != nil {
		return state, nil, game.Reject("invalid_action", string(action.Type))
	}

	s := state.Clone()
	var (
		events []game.Event
		err    error
	)
	switch action.Type {
	case game.ActionPlace:
		events, err = place(&s, player, action)
	case game.ActionTradeCards:
		events, err = tradeCards(&s, player, action, rules.Cards)
	case game.ActionAttack:
		events, err = attack(&s, player, action, m, rules)
	case game.ActionOccupy:
		events, err = occupy(&s, player, action)
	case game.ActionFortify:
		events, err = fortify(&s, player, action, m, rules)
	case game.ActionEndAttack:
		if s.Turn.Phase != game.PhaseAttack {
			return state, nil, game.Reject("wrong_phase", "end_attack requires attack phase")
		}
		s.Turn.Phase = game.PhaseFortify
		events = []game.Event{{Type: game.EventPhaseChanged, PlayerID: player, Phase: game.PhaseFortify, Round: s.Turn.Round}}
	case game.ActionEndTurn:
		events, err = Engine{}.endTurn(&s, player, m, rules)
	default:
		return state, nil, game.Reject("unsupported_action", string(action.Type))
	}
	if err != nil {
		return state, nil, err
	}
	return s, events, nil
}

func (Engine) CalculateReinforcements(state game.GameState, player game.PlayerID, m game.Map, _ game.TeamsConfig, _ []game.PlayerID) game.ReinforcementResult {
	owned := state.OwnedBy(player)
	base := len(owned) / territoriesPerArmy
	if base < minReinforcements {
		base = minReinforcements
	}
	res := game.ReinforcementResult{
		Total:   base,
		Sources: []game.ReinforcementSource{{Kind: "territories", Armies: base}},
	}
	for _, c := range m.Continents {
		ids := m.ContinentTerritories(c.ID)
		if len(ids) == 0 || c.Bonus <= 0 {
			continue
		}
		full := true
		for _, id := range ids {
			if state.Territories[id].Owner != player {
				full = false
				break
			}
		}
		if full {
			res.Total += c.Bonus
			res.Sources = append(res.Sources, game.ReinforcementSource{Kind: "continent", Ref: c.ID, Armies: c.Bonus})
		}
	}
	return res
}

func place(s *game.GameState, player game.PlayerID, a game.Action) ([]game.Event, error) {
	if s.Turn.Phase != game.PhaseReinforcement {
		return nil, game.Reject("wrong_phase", "placement requires reinforcement phase")
	}
	t, ok := s.Territories[a.Territory]
	if !ok || t.Owner != player {
		return nil, game.Reject("not_owner", "territory not owned by player")
	}
	if a.Armies > s.Reinforcements.Remaining {
		return nil, game.Reject("insufficient_reinforcements", "not enough reinforcements remaining")
	}
	t.Armies += a.Armies
	s.Territories[a.Territory] = t
	s.Reinforcements.Remaining -= a.Armies

	events := []game.Event{{
		Type:     game.EventReinforcementsPlaced,
		PlayerID: player,
		Changes:  []game.TerritoryChange{s.Change(a.Territory)},
		Amount:   a.Armies,
	}}
	if s.Reinforcements.Remaining == 0 {
		s.Turn.Phase = game.PhaseAttack
		events = append(events, game.Event{Type: game.EventPhaseChanged, PlayerID: player, Phase: game.PhaseAttack, Round: s.Turn.Round})
	}
	return events, nil
}

func tradeCards(s *game.GameState, player game.PlayerID, a game.Action, cfg game.CardsConfig) ([]game.Event, error) {
	if !cfg.Enabled {
		return nil, game.Reject("cards_disabled", "card trading is disabled")
	}
	if s.Turn.Phase != game.PhaseReinforcement {
		return nil, game.Reject("wrong_phase", "trading requires reinforcement phase")
	}
	hand := s.Hands[player]
	picked := make([]game.Card, 0, 3)
	rest := make([]game.Card, 0, len(hand))
	want := map[string]bool{}
	for _, id := range a.CardIDs {
		want[id] = true
	}
	if len(want) != 3 {
		return nil, game.Reject("invalid_set", "three distinct cards required")
	}
	for _, c := range hand {
		if want[c.ID] {
			picked = append(picked, c)
			continue
		}
		rest = append(rest, c)
	}
	if len(picked) != 3 {
		return nil, game.Reject("card_not_in_hand", "card not held by player")
	}
	if !validSet(picked) {
		return nil, game.Reject("invalid_set", "cards do not form a set")
	}
	bonus := cfg.TradeValue(s.TradeCount)
	s.TradeCount++
	s.Hands[player] = rest
	s.Discard = append(s.Discard, picked...)
	s.Reinforcements.Remaining += bonus
	s.Reinforcements.Sources = append(s.Reinforcements.Sources, game.ReinforcementSource{Kind: "cards", Armies: bonus})
	return []game.Event{{Type: game.EventCardsTraded, PlayerID: player, Amount: bonus}}, nil
}

func validSet(cards []game.Card) bool {
	counts := map[game.CardSymbol]int{}
	for _, c := range cards {
		counts[c.Symbol]++
	}
	if counts[game.SymbolWild] > 0 {
		return true
	}
	return len(counts) == 1 || len(counts) == 3
}

func attack(s *game.GameState, player game.PlayerID, a game.Action, m game.Map, rules game.Ruleset) ([]game.Event, error) {
	if s.Turn.Phase != game.PhaseAttack {
		return nil, game.Reject("wrong_phase", "attack requires attack phase")
	}
	from, okFrom := s.Territories[a.From]
	to, okTo := s.Territories[a.To]
	if !okFrom || !okTo {
		return nil, game.Reject("unknown_territory", "territory does not exist")
	}
	if from.Owner != player {
		return nil, game.Reject("not_owner", "attacking territory not owned by player")
	}
	if to.Owner == player || (rules.Teams.Enabled && s.Teammates(player, to.Owner)) {
		return nil, game.Reject("friendly_target", "cannot attack own or teammate territory")
	}
	if !m.Adjacent(a.From, a.To) {
		return nil, game.Reject("not_adjacent", "territories are not adjacent")
	}
	if from.Armies < 2 {
		return nil, game.Reject("insufficient_armies", "need at least two armies to attack")
	}

	attDice := minInt(rules.Combat.AttackerMaxDice, from.Armies-1)
	if a.Dice > 0 {
		attDice = minInt(attDice, a.Dice)
	}
	defDice := minInt(rules.Combat.DefenderMaxDice, to.Armies)

	rng := seeded.FromCursor(s.RNG)
	attRolls := roll(rng, attDice)
	defRolls := roll(rng, defDice)
	s.RNG = rng.Cursor()

	attLoss, defLoss := 0, 0
	for i := 0; i < minInt(len(attRolls), len(defRolls)); i++ {
		switch {
		case attRolls[i] > defRolls[i]:
			defLoss++
		case attRolls[i] == defRolls[i] && !rules.Combat.DefenderWinsTies:
			defLoss++
		default:
			attLoss++
		}
	}
	from.Armies -= attLoss
	to.Armies -= defLoss
	s.Territories[a.From] = from
	s.Territories[a.To] = to

	events := []game.Event{{
		Type:     game.EventAttackResolved,
		PlayerID: player,
		Changes:  []game.TerritoryChange{s.Change(a.From), s.Change(a.To)},
		Rolls:    &game.DiceRolls{Attacker: attRolls, Defender: defRolls, AttackerLosses: attLoss, DefenderLosses: defLoss},
	}}
	if to.Armies > 0 {
		return events, nil
	}

	defender := to.Owner
	to.Owner = player
	s.Territories[a.To] = to
	s.CapturedThisTurn = true
	minMove := minInt(attDice, from.Armies-1)
	s.PendingOccupy = &game.PendingOccupy{From: a.From, To: a.To, MinMove: minMove, MaxMove: from.Armies - 1}
	s.Turn.Phase = game.PhaseOccupy
	events = append(events, game.Event{
		Type:     game.EventTerritoryCaptured,
		PlayerID: player,
		Changes:  []game.TerritoryChange{s.Change(a.To)},
		Phase:    game.PhaseOccupy,
		Round:    s.Turn.Round,
	})

	if defender != game.NeutralPlayer && s.IsAlive(defender) && len(s.OwnedBy(defender)) == 0 {
		s.SetPlayerStatus(defender, game.PlayerDefeated)
		if s.Hands != nil {
			s.Hands[player] = append(s.Hands[player], s.Hands[defender]...)
			delete(s.Hands, defender)
		}
		events = append(events, game.Event{Type: game.EventPlayerEliminated, PlayerID: defender})
	}

	if winner, team, done := s.Outcome(rules.Teams.Enabled); done {
		move := s.PendingOccupy.MinMove
		from.Armies -= move
		to.Armies += move
		s.Territories[a.From] = from
		s.Territories[a.To] = to
		s.PendingOccupy = nil
		s.Turn.Phase = game.PhaseGameOver
		events = append(events, game.Event{
			Type:       game.EventGameEnded,
			PlayerID:   player,
			Changes:    []game.TerritoryChange{s.Change(a.From), s.Change(a.To)},
			Phase:      game.PhaseGameOver,
			Round:      s.Turn.Round,
			Winner:     winner,
			WinnerTeam: team,
		})
	}
	return events, nil
}

func roll(rng *seeded.Stream, n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = rng.NextInt(1, 6)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(out)))
	return out
}

func occupy(s *game.GameState, player game.PlayerID, a game.Action) ([]game.Event, error) {
	p := s.PendingOccupy
	if s.Turn.Phase != game.PhaseOccupy || p == nil {
		return nil, game.Reject("wrong_phase", "no pending occupation")
	}
	if a.Armies < p.MinMove || a.Armies > p.MaxMove {
		return nil, game.Reject("invalid_move_count", "move count outside allowed range")
	}
	from := s.Territories[p.From]
	to := s.Territories[p.To]
	from.Armies -= a.Armies
	to.Armies += a.Armies
	s.Territories[p.From] = from
	s.Territories[p.To] = to
	s.PendingOccupy = nil
	s.Turn.Phase = game.PhaseAttack
	return []game.Event{{
		Type:     game.EventOccupied,
		PlayerID: player,
		Changes:  []game.TerritoryChange{s.Change(p.From), s.Change(p.To)},
		Phase:    game.PhaseAttack,
		Round:    s.Turn.Round,
		Amount:   a.Armies,
	}}, nil
}

func fortify(s *game.GameState, player game.PlayerID, a game.Action, m game.Map, rules game.Ruleset) ([]game.Event, error) {
	if s.Turn.Phase != game.PhaseAttack && s.Turn.Phase != game.PhaseFortify {
		return nil, game.Reject("wrong_phase", "fortify requires attack or fortify phase")
	}
	if rules.Fortify.MaxPerTurn > 0 && s.FortifiesUsed >= rules.Fortify.MaxPerTurn {
		return nil, game.Reject("fortify_limit", "no fortifications left this turn")
	}
	from, okFrom := s.Territories[a.From]
	to, okTo := s.Territories[a.To]
	if !okFrom || !okTo || a.From == a.To {
		return nil, game.Reject("unknown_territory", "invalid fortify territories")
	}
	if from.Owner != player {
		return nil, game.Reject("not_owner", "source territory not owned by player")
	}
	friendly := func(id game.TerritoryID) bool {
		owner := s.Territories[id].Owner
		if owner == player {
			return true
		}
		return rules.Teams.Enabled && rules.Teams.AllowFortifyTeammates && s.Teammates(player, owner)
	}
	if !friendly(a.To) {
		return nil, game.Reject("not_owner", "target territory not friendly")
	}
	if a.Armies >= from.Armies {
		return nil, game.Reject("insufficient_armies", "must leave one army behind")
	}
	if rules.Fortify.RequireConnected {
		if !m.Connected(a.From, a.To, friendly) {
			return nil, game.Reject("not_connected", "no friendly path between territories")
		}
	} else if !m.Adjacent(a.From, a.To) {
		return nil, game.Reject("not_adjacent", "territories are not adjacent")
	}

	from.Armies -= a.Armies
	to.Armies += a.Armies
	s.Territories[a.From] = from
	s.Territories[a.To] = to
	s.FortifiesUsed++
	s.Turn.Phase = game.PhaseFortify
	return []game.Event{{
		Type:     game.EventFortified,
		PlayerID: player,
		Changes:  []game.TerritoryChange{s.Change(a.From), s.Change(a.To)},
		Phase:    game.PhaseFortify,
		Round:    s.Turn.Round,
		Amount:   a.Armies,
	}}, nil
}

func (e Engine) endTurn(s *game.GameState, player game.PlayerID, m game.Map, rules game.Ruleset) ([]game.Event, error) {
	switch s.Turn.Phase {
	case game.PhaseAttack, game.PhaseFortify:
	case game.PhaseReinforcement:
		if s.Reinforcements.Remaining > 0 {
			return nil, game.Reject("reinforcements_pending", "place all reinforcements first")
		}
	default:
		return nil, game.Reject("wrong_phase", "turn cannot end in phase "+string(s.Turn.Phase))
	}

	events := []game.Event{}
	if s.CapturedThisTurn && rules.Cards.Enabled {
		if len(s.Deck) == 0 && len(s.Discard) > 0 {
			rng := seeded.FromCursor(s.RNG)
			s.Deck = seeded.Shuffle(rng, s.Discard)
			s.Discard = nil
			s.RNG = rng.Cursor()
		}
		if len(s.Deck) > 0 {
			if s.Hands == nil {
				s.Hands = map[game.PlayerID][]game.Card{}
			}
			s.Hands[player] = append(s.Hands[player], s.Deck[0])
			s.Deck = s.Deck[1:]
			events = append(events, game.Event{Type: game.EventCardDrawn, PlayerID: player})
		}
	}
	return append(events, game.AdvanceTurn(s, player, m, rules.Teams, e)...), nil
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
