package engine

import "strings"

// TypeChart maps (attacking type, defending type) to a damage multiplier.
// Built once by NewTypeChart and read-only afterwards.
type TypeChart struct {
	m map[string]map[string]float64
}

// defaultChart lists every pair that differs from 1.0.
var defaultChart = map[string]map[string]float64{
	"normal":   {"rock": 0.5, "ghost": 0, "steel": 0.5},
	"fire":     {"fire": 0.5, "water": 0.5, "grass": 2, "ice": 2, "bug": 2, "rock": 0.5, "dragon": 0.5, "steel": 2},
	"water":    {"fire": 2, "water": 0.5, "grass": 0.5, "ground": 2, "rock": 2, "dragon": 0.5},
	"electric": {"water": 2, "electric": 0.5, "grass": 0.5, "ground": 0, "flying": 2, "dragon": 0.5},
	"grass":    {"fire": 0.5, "water": 2, "grass": 0.5, "poison": 0.5, "ground": 2, "flying": 0.5, "bug": 0.5, "rock": 2, "dragon": 0.5, "steel": 0.5},
	"ice":      {"fire": 0.5, "water": 0.5, "grass": 2, "ice": 0.5, "ground": 2, "flying": 2, "dragon": 2, "steel": 0.5},
	"fighting": {"normal": 2, "ice": 2, "poison": 0.5, "flying": 0.5, "psychic": 0.5, "bug": 0.5, "rock": 2, "ghost": 0, "dark": 2, "steel": 2, "fairy": 0.5},
	"poison":   {"grass": 2, "poison": 0.5, "ground": 0.5, "rock": 0.5, "ghost": 0.5, "steel": 0, "fairy": 2},
	"ground":   {"fire": 2, "electric": 2, "grass": 0.5, "poison": 2, "flying": 0, "bug": 0.5, "rock": 2, "steel": 2},
	"flying":   {"electric": 0.5, "grass": 2, "fighting": 2, "bug": 2, "rock": 0.5, "steel": 0.5},
	"psychic":  {"fighting": 2, "poison": 2, "psychic": 0.5, "dark": 0, "steel": 0.5},
	"bug":      {"fire": 0.5, "grass": 2, "fighting": 0.5, "poison": 0.5, "flying": 0.5, "psychic": 2, "ghost": 0.5, "dark": 2, "steel": 0.5, "fairy": 0.5},
	"rock":     {"fire": 2, "ice": 2, "fighting": 0.5, "ground": 0.5, "flying": 2, "bug": 2, "steel": 0.5},
	"ghost":    {"normal": 0, "psychic": 2, "ghost": 2, "dark": 0.5},
	"dragon":   {"dragon": 2, "steel": 0.5, "fairy": 0},
	"dark":     {"fighting": 0.5, "psychic": 2, "ghost": 2, "dark": 0.5, "fairy": 0.5},
	"steel":    {"fire": 0.5, "water": 0.5, "electric": 0.5, "ice": 2, "rock": 2, "steel": 0.5, "fairy": 2},
	"fairy":    {"fire": 0.5, "fighting": 2, "poison": 0.5, "dragon": 2, "dark": 2, "steel": 0.5},
}

// NewTypeChart returns the standard 18-type chart.
func NewTypeChart() *TypeChart {
	m := make(map[string]map[string]float64, len(defaultChart))
	for atk, row := range defaultChart {
		cp := make(map[string]float64, len(row))
		for def, v := range row {
			cp[def] = v
		}
		m[atk] = cp
	}
	return &TypeChart{m: m}
}

func normType(t string) string { return strings.ToLower(strings.TrimSpace(t)) }

// Multiplier returns the multiplier for one attacking/defending type pair,
// 1.0 when the pair is not listed.
func (tc *TypeChart) Multiplier(attackType, defenseType string) float64 {
	row, ok := tc.m[normType(attackType)]
	if !ok {
		return 1.0
	}
	v, ok := row[normType(defenseType)]
	if !ok {
		return 1.0
	}
	return v
}

// Effectiveness is the product of Multiplier over all defending types.
func (tc *TypeChart) Effectiveness(moveType string, defenderTypes []string) float64 {
	eff := 1.0
	for _, t := range defenderTypes {
		eff *= tc.Multiplier(moveType, t)
	}
	return eff
}

// types lists the attacking types known to the chart.
func (tc *TypeChart) types() []string {
	out := make([]string, 0, len(tc.m))
	for t := range tc.m {
		out = append(out, t)
	}
	return out
}
