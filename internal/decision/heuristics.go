package decision

import (
	"fmt"
	"sort"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/ericogr/creature-arena/internal/logging"
)

// Rule scores a move when Condition, an expr expression over MoveEnv, holds.
type Rule struct {
	Name      string
	Priority  int
	Condition string
}

// MoveEnv is the expression environment for one candidate move.
type MoveEnv struct {
	Name              string
	Type              string
	Class             string
	Power             int
	Index             int
	Damaging          bool
	STAB              bool
	Effectiveness     float64
	ExpectedPower     float64
	TargetHPPercent   float64
	AttackerHPPercent float64
}

// DefaultRules prefer super-effective same-type moves, then anything
// super-effective, then neutral same-type and neutral damaging moves.
var DefaultRules = []Rule{
	{Name: "super-effective-stab", Priority: 400, Condition: "Damaging && Effectiveness >= 2 && STAB"},
	{Name: "super-effective", Priority: 300, Condition: "Damaging && Effectiveness >= 2"},
	{Name: "neutral-stab", Priority: 200, Condition: "Damaging && STAB && Effectiveness >= 1"},
	{Name: "neutral-damaging", Priority: 100, Condition: "Damaging && Effectiveness >= 1"},
	{Name: "any-damaging", Priority: 50, Condition: "Damaging && Effectiveness > 0"},
}

type compiledRule struct {
	Rule
	program *vm.Program
}

// compileRules compiles every condition and sorts by priority, highest first.
func compileRules(rules []Rule) ([]compiledRule, error) {
	out := make([]compiledRule, 0, len(rules))
	for _, r := range rules {
		prog, err := expr.Compile(r.Condition, expr.Env(MoveEnv{}), expr.AsBool())
		if err != nil {
			return nil, fmt.Errorf("compile rule %q: %w", r.Name, err)
		}
		out = append(out, compiledRule{Rule: r, program: prog})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Priority > out[j].Priority
	})
	return out, nil
}

// score returns the priority and name of the first matching rule, or 0.
func score(rules []compiledRule, env MoveEnv) (int, string) {
	for _, r := range rules {
		res, err := vm.Run(r.program, env)
		if err != nil {
			logging.Warn("rule condition error", logging.Fields{"rule": r.Name, "error": err.Error()})
			continue
		}
		if ok, _ := res.(bool); ok {
			return r.Priority, r.Name
		}
	}
	return 0, ""
}
