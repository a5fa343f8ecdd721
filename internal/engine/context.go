package engine

import (
	"fmt"
	"strings"

	"github.com/ericogr/creature-arena/internal/game"
)

// turnContext accumulates narrative lines and switch notices for one turn.
type turnContext struct {
	summary  []string
	switches []game.SwitchNotice
}

func newTurnContext() *turnContext {
	return &turnContext{summary: make([]string, 0, 4)}
}

func (tc *turnContext) add(msg string) { tc.summary = append(tc.summary, msg) }

func (tc *turnContext) addf(format string, args ...any) {
	tc.add(fmt.Sprintf(format, args...))
}

func (tc *turnContext) recordSwitch(p game.Participant, from, to *game.Creature, forced bool) {
	tc.switches = append(tc.switches, game.SwitchNotice{
		Participant: p.Name(),
		From:        game.DisplayName(from),
		To:          game.DisplayName(to),
		Forced:      forced,
	})
}

// joinSummary returns the accumulated summary as a single string.
func (tc *turnContext) joinSummary() string {
	return strings.Join(tc.summary, "\n")
}
