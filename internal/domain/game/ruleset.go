package game

type CombatConfig struct {
	AttackerMaxDice  int  `json:"attackerMaxDice"`
	DefenderMaxDice  int  `json:"defenderMaxDice"`
	DefenderWinsTies bool `json:"defenderWinsTies"`
}

type FortifyConfig struct {
	MaxPerTurn       int  `json:"maxPerTurn"`
	RequireConnected bool `json:"requireConnected"`
}

type CardsConfig struct {
	Enabled        bool  `json:"enabled"`
	TradeValues    []int `json:"tradeValues"`
	TradeIncrement int   `json:"tradeIncrement"`
	WildCards      int   `json:"wildCards"`
}

type TeamsConfig struct {
	Enabled               bool `json:"enabled"`
	AllowFortifyTeammates bool `json:"allowFortifyTeammates"`
}

type SetupConfig struct {
	StartingArmies        int `json:"startingArmies"`
	MaxArmiesPerTerritory int `json:"maxArmiesPerTerritory"`
}

type Ruleset struct {
	Combat  CombatConfig  `json:"combat"`
	Fortify FortifyConfig `json:"fortify"`
	Cards   CardsConfig   `json:"cards"`
	Teams   TeamsConfig   `json:"teams"`
	Setup   SetupConfig   `json:"setup"`
}

func DefaultRuleset() Ruleset {
	return Ruleset{
		Combat:  CombatConfig{AttackerMaxDice: 3, DefenderMaxDice: 2, DefenderWinsTies: true},
		Fortify: FortifyConfig{MaxPerTurn: 1, RequireConnected: true},
		Cards: CardsConfig{
			Enabled:        true,
			TradeValues:    []int{4, 6, 8, 10, 12, 15},
			TradeIncrement: 5,
			WildCards:      2,
		},
		Setup: SetupConfig{
			StartingArmies:        20,
			MaxArmiesPerTerritory: 4,
		},
	}
}

// RulesetOverrides is the sparse per-game layer stored on the game document.
// A nil field keeps the default.
type RulesetOverrides struct {
	AttackerMaxDice       *int  `json:"attackerMaxDice,omitempty"`
	DefenderMaxDice       *int  `json:"defenderMaxDice,omitempty"`
	DefenderWinsTies      *bool `json:"defenderWinsTies,omitempty"`
	FortifyMaxPerTurn     *int  `json:"fortifyMaxPerTurn,omitempty"`
	FortifyConnected      *bool `json:"fortifyConnected,omitempty"`
	CardsEnabled          *bool `json:"cardsEnabled,omitempty"`
	TradeValues           []int `json:"tradeValues,omitempty"`
	TradeIncrement        *int  `json:"tradeIncrement,omitempty"`
	TeamsEnabled          *bool `json:"teamsEnabled,omitempty"`
	AllowFortifyTeammates *bool `json:"allowFortifyTeammates,omitempty"`
	StartingArmies        *int  `json:"startingArmies,omitempty"`
	MaxArmiesPerTerritory *int  `json:"maxArmiesPerTerritory,omitempty"`
}

// ResolveRuleset merges overrides onto defaults without touching either input.
func ResolveRuleset(defaults Ruleset, o RulesetOverrides) Ruleset {
	out := defaults
	out.Cards.TradeValues = append([]int(nil), defaults.Cards.TradeValues...)

	setInt(&out.Combat.AttackerMaxDice, o.AttackerMaxDice)
	setInt(&out.Combat.DefenderMaxDice, o.DefenderMaxDice)
	setBool(&out.Combat.DefenderWinsTies, o.DefenderWinsTies)
	setInt(&out.Fortify.MaxPerTurn, o.FortifyMaxPerTurn)
	setBool(&out.Fortify.RequireConnected, o.FortifyConnected)
	setBool(&out.Cards.Enabled, o.CardsEnabled)
	if len(o.TradeValues) > 0 {
		out.Cards.TradeValues = append([]int(nil), o.TradeValues...)
	}
	setInt(&out.Cards.TradeIncrement, o.TradeIncrement)
	setBool(&out.Teams.Enabled, o.TeamsEnabled)
	setBool(&out.Teams.AllowFortifyTeammates, o.AllowFortifyTeammates)
	setInt(&out.Setup.StartingArmies, o.StartingArmies)
	setInt(&out.Setup.MaxArmiesPerTerritory, o.MaxArmiesPerTerritory)
	return out
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}

// TradeValue returns the bonus for the n-th set traded (0-based).
func (c CardsConfig) TradeValue(n int) int {
	if len(c.TradeValues) == 0 {
		return 0
	}
	if n < len(c.TradeValues) {
		return c.TradeValues[n]
	}
	last := c.TradeValues[len(c.TradeValues)-1]
	return last + (n-len(c.TradeValues)+1)*c.TradeIncrement
}
