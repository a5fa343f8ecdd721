package decision

import (
	"encoding/json"
	"errors"
	"regexp"
	"strings"

	"github.com/ericogr/creature-arena/internal/game"
	"github.com/ericogr/creature-arena/internal/registry"
)

// ErrUnparseable is returned when a response names no action.
var ErrUnparseable = errors.New("unparseable decision response")

var linePattern = regexp.MustCompile(`(?i)^\s*(?:\*\*)?(move|switch)(?:\*\*)?\s*[:\-=]\s*(.+?)\s*$`)

type jsonDecision struct {
	Action string `json:"action"`
	Name   string `json:"name"`
}

// ParseDecision turns free-form service text into a Decision. Move names are
// resolved through the registry (synthetic moves when unknown); switch
// targets by name within the actor's team. Legality is checked later.
func ParseDecision(text string, dc *Context, reg *registry.Registry) (game.Decision, error) {
	action, name, ok := parseJSON(text)
	if !ok {
		action, name, ok = parseLines(text)
	}
	if !ok || name == "" {
		return game.Decision{}, ErrUnparseable
	}
	switch action {
	case "move":
		return game.MoveDecision(reg.MoveOrSynthetic(name)), nil
	case "switch":
		return game.SwitchDecision(findTeamMember(dc.Actor, name)), nil
	}
	return game.Decision{}, ErrUnparseable
}

func parseJSON(text string) (string, string, bool) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return "", "", false
	}
	var jd jsonDecision
	if err := json.Unmarshal([]byte(text[start:end+1]), &jd); err != nil {
		return "", "", false
	}
	return strings.ToLower(strings.TrimSpace(jd.Action)), cleanName(jd.Name), jd.Action != ""
}

func parseLines(text string) (string, string, bool) {
	for _, line := range strings.Split(text, "\n") {
		line = strings.Trim(strings.TrimSpace(line), "`")
		if m := linePattern.FindStringSubmatch(line); m != nil {
			return strings.ToLower(m[1]), cleanName(m[2]), true
		}
	}
	return "", "", false
}

func cleanName(s string) string {
	return strings.Trim(strings.TrimSpace(s), "\"'`*.!<> ")
}

func findTeamMember(p game.Participant, name string) *game.Creature {
	if p == nil {
		return nil
	}
	for _, c := range p.Team() {
		if strings.EqualFold(c.Name, name) || strings.EqualFold(game.DisplayName(c), name) {
			return c
		}
	}
	return nil
}
