// Package setup builds the opening position of a game from its seed.
//
// The seeded stream is consumed in a fixed order so the same inputs always
// rebuild the same state:
//
//  1. team-aware turn order
//  2. territory shuffle, dealt round-robin in turn order
//  3. capped random distribution of the remaining starting armies
//  4. deck construction and shuffle (only when cards are enabled)
//
// The first player's reinforcements are then computed without drawing.
package setup

import (
	"errors"
	"sort"
	"strconv"

	"warfront/internal/domain/game"
	"warfront/internal/domain/seeded"
	"warfront/internal/domain/turnorder"
)

var (
	ErrTooFewPlayers  = errors.New("at least two players are required")
	ErrTooManyPlayers = errors.New("more players than territories")
)

type Seat struct {
	PlayerID game.PlayerID
	TeamID   string
}

type Input struct {
	Seed  string
	Seats []Seat
	Map   game.Map
	Rules game.Ruleset
}

func Build(in Input, calc game.ReinforcementCalculator) (game.GameState, error) {
	if len(in.Seats) < 2 {
		return game.GameState{}, ErrTooFewPlayers
	}
	territoryIDs := in.Map.TerritoryIDs()
	if len(in.Seats) > len(territoryIDs) {
		return game.GameState{}, ErrTooManyPlayers
	}

	stream := seeded.New(in.Seed, 0)

	ids := make([]string, 0, len(in.Seats))
	var teamOf map[string]string
	if in.Rules.Teams.Enabled {
		teamOf = map[string]string{}
	}
	teams := map[game.PlayerID]string{}
	for _, s := range in.Seats {
		ids = append(ids, string(s.PlayerID))
		if teamOf != nil {
			teamOf[string(s.PlayerID)] = s.TeamID
			teams[s.PlayerID] = s.TeamID
		}
	}
	ordered := turnorder.Assign(ids, teamOf, stream)

	state := game.GameState{
		Players:     make([]game.Player, 0, len(ordered)),
		TurnOrder:   make([]game.PlayerID, 0, len(ordered)),
		Territories: make(map[game.TerritoryID]game.TerritoryState, len(territoryIDs)),
		Hands:       map[game.PlayerID][]game.Card{},
	}
	for _, id := range ordered {
		pid := game.PlayerID(id)
		state.TurnOrder = append(state.TurnOrder, pid)
		state.Players = append(state.Players, game.Player{ID: pid, Status: game.PlayerAlive, TeamID: teams[pid]})
	}

	for i, tid := range seeded.Shuffle(stream, territoryIDs) {
		state.Territories[tid] = game.TerritoryState{Owner: state.TurnOrder[i%len(state.TurnOrder)], Armies: 1}
	}

	for _, pid := range state.TurnOrder {
		distribute(&state, pid, in.Rules.Setup, stream)
	}

	if in.Rules.Cards.Enabled {
		state.Deck = seeded.Shuffle(stream, buildDeck(territoryIDs, in.Rules.Cards.WildCards))
	}

	first := state.TurnOrder[0]
	state.Turn = game.Turn{CurrentPlayerID: first, Phase: game.PhaseReinforcement, Round: 1}
	r := calc.CalculateReinforcements(state, first, in.Map, in.Rules.Teams, state.TurnOrder)
	state.Reinforcements = game.Reinforcements{Remaining: r.Total, Sources: r.Sources}
	state.RNG = stream.Cursor()
	return state, nil
}

// distribute tops a player's holdings up to StartingArmies, one army per
// draw, onto a random owned territory still under the per-territory cap.
// Armies that do not fit under the cap are dropped.
func distribute(state *game.GameState, pid game.PlayerID, cfg game.SetupConfig, stream *seeded.Stream) {
	owned := state.OwnedBy(pid)
	remaining := cfg.StartingArmies - len(owned)
	for ; remaining > 0; remaining-- {
		candidates := make([]game.TerritoryID, 0, len(owned))
		for _, tid := range owned {
			if cfg.MaxArmiesPerTerritory <= 0 || state.Territories[tid].Armies < cfg.MaxArmiesPerTerritory {
				candidates = append(candidates, tid)
			}
		}
		if len(candidates) == 0 {
			return
		}
		tid := candidates[stream.NextInt(0, len(candidates)-1)]
		t := state.Territories[tid]
		t.Armies++
		state.Territories[tid] = t
	}
}

var symbolCycle = []game.CardSymbol{game.SymbolInfantry, game.SymbolCavalry, game.SymbolArtillery}

func buildDeck(territoryIDs []game.TerritoryID, wilds int) []game.Card {
	deck := make([]game.Card, 0, len(territoryIDs)+wilds)
	for i, tid := range territoryIDs {
		deck = append(deck, game.Card{ID: "card-" + string(tid), Territory: tid, Symbol: symbolCycle[i%len(symbolCycle)]})
	}
	for i := 0; i < wilds; i++ {
		deck = append(deck, game.Card{ID: "wild-" + strconv.Itoa(i+1), Symbol: game.SymbolWild})
	}
	return deck
}

// SeatsFor lists the seated participants in join order, ties broken by user
// id. Game start and history rebuilds must both seat players this way.
func SeatsFor(participants []game.Participant) []Seat {
	ps := append([]game.Participant(nil), participants...)
	sort.SliceStable(ps, func(i, j int) bool {
		if !ps[i].JoinedAt.Equal(ps[j].JoinedAt) {
			return ps[i].JoinedAt.Before(ps[j].JoinedAt)
		}
		return ps[i].UserID < ps[j].UserID
	})
	seats := make([]Seat, 0, len(ps))
	for _, p := range ps {
		if p.PlayerID == "" {
			continue
		}
		seats = append(seats, Seat{PlayerID: p.PlayerID, TeamID: p.TeamID})
	}
	return seats
}
