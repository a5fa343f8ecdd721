package keys

import (
	"strconv"
	"strings"
)

// MoveKey produces the canonical catalog key for a move or species name.
// Behavior: trims, lower-cases, and turns spaces and underscores into
// hyphens, so "Thunder Bolt", "thunder_bolt" and "thunder-bolt" collide.
func MoveKey(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = strings.NewReplacer(" ", "-", "_", "-").Replace(s)
	return s
}

// ActionKey identifies one submitted action for a battle turn, e.g.
// "3f2a...:4:move:1". Identical submissions share a key.
func ActionKey(battleID string, turn int, action string, index int) string {
	parts := []string{
		strings.TrimSpace(battleID),
		strconv.Itoa(turn),
		strings.ToLower(strings.TrimSpace(action)),
		strconv.Itoa(index),
	}
	return strings.Join(parts, ":")
}
