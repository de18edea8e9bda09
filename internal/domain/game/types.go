package game

import (
	"time"

	"warfront/internal/domain/seeded"
)

type PlayerID string

type TerritoryID string

// NeutralPlayer owns territories released by a resignation.
const NeutralPlayer PlayerID = "neutral"

type PlayerStatus string

const (
	PlayerAlive    PlayerStatus = "alive"
	PlayerDefeated PlayerStatus = "defeated"
)

type Phase string

const (
	PhaseSetup         Phase = "setup"
	PhaseReinforcement Phase = "reinforcement"
	PhaseAttack        Phase = "attack"
	PhaseOccupy        Phase = "occupy"
	PhaseFortify       Phase = "fortify"
	PhaseGameOver      Phase = "game_over"
)

func (p Phase) Terminal() bool {
	return p == PhaseGameOver
}

type Player struct {
	ID     PlayerID     `json:"id"`
	Status PlayerStatus `json:"status"`
	TeamID string       `json:"teamId,omitempty"`
}

type TerritoryState struct {
	Owner  PlayerID `json:"owner"`
	Armies int      `json:"armies"`
}

type Turn struct {
	CurrentPlayerID PlayerID `json:"currentPlayerId"`
	Phase           Phase    `json:"phase"`
	Round           int      `json:"round"`
}

type Reinforcements struct {
	Remaining int                   `json:"remaining"`
	Sources   []ReinforcementSource `json:"sources,omitempty"`
}

type ReinforcementSource struct {
	Kind   string `json:"kind"`
	Ref    string `json:"ref,omitempty"`
	Armies int    `json:"armies"`
}

type ReinforcementResult struct {
	Total   int
	Sources []ReinforcementSource
}

type PendingOccupy struct {
	From    TerritoryID `json:"from"`
	To      TerritoryID `json:"to"`
	MinMove int         `json:"minMove"`
	MaxMove int         `json:"maxMove"`
}

type CardSymbol string

const (
	SymbolInfantry  CardSymbol = "infantry"
	SymbolCavalry   CardSymbol = "cavalry"
	SymbolArtillery CardSymbol = "artillery"
	SymbolWild      CardSymbol = "wild"
)

type Card struct {
	ID        string      `json:"id"`
	Territory TerritoryID `json:"territory,omitempty"`
	Symbol    CardSymbol  `json:"symbol"`
}

// GameState is the live engine state. StateVersion grows by exactly one per
// applied primitive action.
type GameState struct {
	Players          []Player                       `json:"players"`
	TurnOrder        []PlayerID                     `json:"turnOrder"`
	Territories      map[TerritoryID]TerritoryState `json:"territories"`
	Turn             Turn                           `json:"turn"`
	Reinforcements   Reinforcements                 `json:"reinforcements"`
	PendingOccupy    *PendingOccupy                 `json:"pendingOccupy,omitempty"`
	Hands            map[PlayerID][]Card            `json:"hands,omitempty"`
	Deck             []Card                         `json:"deck,omitempty"`
	Discard          []Card                         `json:"discard,omitempty"`
	CapturedThisTurn bool                           `json:"capturedThisTurn,omitempty"`
	TradeCount       int                            `json:"tradeCount,omitempty"`
	FortifiesUsed    int                            `json:"fortifiesUsed,omitempty"`
	RNG              seeded.Cursor                  `json:"rng"`
	StateVersion     int64                          `json:"stateVersion"`
}

func (s GameState) Player(id PlayerID) (Player, bool) {
	for _, p := range s.Players {
		if p.ID == id {
			return p, true
		}
	}
	return Player{}, false
}

func (s GameState) IsAlive(id PlayerID) bool {
	p, ok := s.Player(id)
	return ok && p.Status == PlayerAlive
}

func (s GameState) TeamOf(id PlayerID) string {
	p, _ := s.Player(id)
	return p.TeamID
}

func (s GameState) AlivePlayers() []PlayerID {
	out := make([]PlayerID, 0, len(s.Players))
	for _, id := range s.TurnOrder {
		if s.IsAlive(id) {
			out = append(out, id)
		}
	}
	return out
}

// AliveTeams counts distinct teams among alive players. Players without a
// team count as their own team.
func (s GameState) AliveTeams() []string {
	seen := map[string]bool{}
	out := []string{}
	for _, id := range s.AlivePlayers() {
		key := s.TeamOf(id)
		if key == "" {
			key = "player:" + string(id)
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, key)
	}
	return out
}

func (s GameState) OwnedBy(id PlayerID) []TerritoryID {
	out := []TerritoryID{}
	for tid, t := range s.Territories {
		if t.Owner == id {
			out = append(out, tid)
		}
	}
	sortTerritoryIDs(out)
	return out
}

// NextAlivePlayer walks TurnOrder after current and reports whether the walk
// wrapped past the end of the order.
func (s GameState) NextAlivePlayer(current PlayerID) (PlayerID, bool) {
	n := len(s.TurnOrder)
	if n == 0 {
		return "", false
	}
	start := -1
	for i, id := range s.TurnOrder {
		if id == current {
			start = i
			break
		}
	}
	for step := 1; step <= n; step++ {
		idx := (start + step) % n
		if s.IsAlive(s.TurnOrder[idx]) {
			return s.TurnOrder[idx], start+step >= n
		}
	}
	return "", false
}

// Clone returns a deep copy so engine implementations can mutate freely.
func (s GameState) Clone() GameState {
	out := s
	out.Players = append([]Player(nil), s.Players...)
	out.TurnOrder = append([]PlayerID(nil), s.TurnOrder...)
	if s.Territories != nil {
		out.Territories = make(map[TerritoryID]TerritoryState, len(s.Territories))
		for k, v := range s.Territories {
			out.Territories[k] = v
		}
	}
	out.Reinforcements.Sources = append([]ReinforcementSource(nil), s.Reinforcements.Sources...)
	if s.PendingOccupy != nil {
		p := *s.PendingOccupy
		out.PendingOccupy = &p
	}
	if s.Hands != nil {
		out.Hands = make(map[PlayerID][]Card, len(s.Hands))
		for k, v := range s.Hands {
			out.Hands[k] = append([]Card(nil), v...)
		}
	}
	out.Deck = append([]Card(nil), s.Deck...)
	out.Discard = append([]Card(nil), s.Discard...)
	return out
}

type TimingMode string

const (
	TimingRealtime TimingMode = "realtime"
	TimingAsync1D  TimingMode = "async_1d"
	TimingAsync3D  TimingMode = "async_3d"
)

func (m TimingMode) Async() bool {
	return m == TimingAsync1D || m == TimingAsync3D
}

type TurnTiming struct {
	TurnStartedAt  time.Time `json:"turnStartedAt"`
	TurnDeadlineAt time.Time `json:"turnDeadlineAt"`
}

type Status string

const (
	StatusLobby    Status = "lobby"
	StatusActive   Status = "active"
	StatusFinished Status = "finished"
)

type Participant struct {
	UserID         string    `json:"userId"`
	PlayerID       PlayerID  `json:"playerId,omitempty"`
	TeamID         string    `json:"teamId,omitempty"`
	Color          string    `json:"color,omitempty"`
	PreferredColor string    `json:"preferredColor,omitempty"`
	JoinedAt       time.Time `json:"joinedAt"`
}

// Game is the persisted document wrapping the live state.
type Game struct {
	ID              string           `json:"id"`
	OwnerUserID     string           `json:"ownerUserId"`
	Status          Status           `json:"status"`
	MapID           string           `json:"mapId"`
	Rules           RulesetOverrides `json:"rules"`
	TimingMode      TimingMode       `json:"timingMode"`
	ExcludeWeekends bool             `json:"excludeWeekends"`
	TeamsEnabled    bool             `json:"teamsEnabled"`
	Participants    []Participant    `json:"participants"`
	Seed            string           `json:"seed"`
	State           GameState        `json:"state"`
	InitialState    *GameState       `json:"initialState,omitempty"`
	Timing          *TurnTiming      `json:"timing,omitempty"`
	WinnerPlayerID  PlayerID         `json:"winnerPlayerId,omitempty"`
	WinnerTeamID    string           `json:"winnerTeamId,omitempty"`
	LogLength       int              `json:"logLength"`
	CreatedAt       time.Time        `json:"createdAt"`
	UpdatedAt       time.Time        `json:"updatedAt"`
}

func (g Game) ParticipantByUser(userID string) (Participant, bool) {
	for _, p := range g.Participants {
		if p.UserID == userID {
			return p, true
		}
	}
	return Participant{}, false
}

func (g Game) ParticipantByPlayer(id PlayerID) (Participant, bool) {
	for _, p := range g.Participants {
		if p.PlayerID == id {
			return p, true
		}
	}
	return Participant{}, false
}

func (g Game) Ruleset() Ruleset {
	r := ResolveRuleset(DefaultRuleset(), g.Rules)
	if g.TeamsEnabled {
		r.Teams.Enabled = true
	}
	return r
}

type LogEntry struct {
	GameID             string    `json:"gameId"`
	Index              int       `json:"index"`
	PlayerID           PlayerID  `json:"playerId"`
	Action             Action    `json:"action"`
	StateVersionBefore int64     `json:"stateVersionBefore"`
	StateVersionAfter  int64     `json:"stateVersionAfter"`
	Events             []Event   `json:"events"`
	CreatedAt          time.Time `json:"createdAt"`
}
