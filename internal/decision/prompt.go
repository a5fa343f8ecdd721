package decision

import (
	"fmt"
	"strings"

	"github.com/ericogr/creature-arena/internal/game"
	"github.com/ericogr/creature-arena/internal/registry"
)

const responseFormat = `Reply with exactly one line, either "MOVE: <move name>" or "SWITCH: <creature name>". ` +
	`A JSON object {"action": "move" | "switch", "name": "<name>"} is also accepted. Do not explain.`

// systemPrompt is tuned by the difficulty persona.
func systemPrompt(p Profile, kind game.DecisionKind) string {
	persona := strings.TrimSpace(p.Persona)
	if persona == "" {
		persona = "a competent trainer"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "You are %s controlling one side of a turn-based creature battle. ", persona)
	b.WriteString("Damage depends on move power, type matchups and same-type bonus. ")
	if kind == game.DecisionSwitch {
		b.WriteString("Your active creature cannot act, so you must switch to a healthy bench creature. ")
	} else {
		b.WriteString("Pick one of your active creature's known moves, or switch to a healthy bench creature. ")
	}
	b.WriteString(responseFormat)
	return b.String()
}

// summarize renders the battle state as plain text for the reasoning service.
func summarize(dc *Context, reg *registry.Registry) string {
	var b strings.Builder
	if dc.DecisionType() == game.DecisionSwitch {
		b.WriteString("Decision required: SWITCH (your active creature cannot act)\n")
	} else {
		b.WriteString("Decision required: MOVE or SWITCH\n")
	}

	active := dc.Active()
	if active != nil {
		fmt.Fprintf(&b, "Your active creature: %s\n", creatureLine(active))
		if len(active.Moves) > 0 {
			b.WriteString("Known moves:\n")
			for _, m := range reg.MovesOf(active) {
				fmt.Fprintf(&b, "- %s\n", moveLine(m))
			}
		}
	} else {
		b.WriteString("Your active creature: none\n")
	}

	if targets := switchTargets(dc.Actor); len(targets) > 0 {
		b.WriteString("Healthy bench:\n")
		for _, c := range targets {
			fmt.Fprintf(&b, "- %s\n", creatureLine(c))
		}
	} else {
		b.WriteString("Healthy bench: none\n")
	}

	if target := dc.Target(); target != nil {
		fmt.Fprintf(&b, "Opponent active creature: %s\n", creatureLine(target))
	}
	if dc.Opponent != nil {
		fmt.Fprintf(&b, "Opponent healthy creatures: %d\n", len(switchTargets(dc.Opponent))+healthyActive(dc.Opponent))
	}

	if len(dc.History) > 0 {
		b.WriteString("Recent turns:\n")
		for _, h := range dc.History {
			for _, line := range strings.Split(h, "\n") {
				fmt.Fprintf(&b, "  %s\n", line)
			}
		}
	}
	return b.String()
}

func creatureLine(c *game.Creature) string {
	state := fmt.Sprintf("HP %d/%d", c.Stats.HP, c.MaxHP)
	if c.Fainted() {
		state = "fainted"
	}
	return fmt.Sprintf("%s [%s] %s", c.Name, strings.Join(c.Types, "/"), state)
}

func moveLine(m game.Move) string {
	if !m.IsDamaging() {
		return fmt.Sprintf("%s (%s, %s)", m.Name, m.Type, m.Class)
	}
	return fmt.Sprintf("%s (%s, %s, power %d)", m.Name, m.Type, m.Class, m.PowerValue())
}

func healthyActive(p game.Participant) int {
	if a := p.Active(); a != nil && !a.Fainted() {
		return 1
	}
	return 0
}
