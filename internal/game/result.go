package game

// CreatureSummary is the presentation view of an active creature.
type CreatureSummary struct {
	Name    string   `json:"name"`
	Types   []string `json:"types"`
	HP      int      `json:"hp"`
	MaxHP   int      `json:"max_hp"`
	Moves   []string `json:"moves"`
	Fainted bool     `json:"fainted"`
}

type ParticipantSummary struct {
	Name       string           `json:"name"`
	Controller Controller       `json:"controller"`
	Active     *CreatureSummary `json:"active"`
	Remaining  int              `json:"remaining"`
}

// SwitchNotice records a change of active creature. Forced is set for
// auto-switches after a faint.
type SwitchNotice struct {
	Participant string `json:"participant"`
	From        string `json:"from"`
	To          string `json:"to"`
	Forced      bool   `json:"forced"`
}

// TurnResult is emitted after every resolved turn.
type TurnResult struct {
	BattleID     string               `json:"battle_id"`
	Turn         int                  `json:"turn"`
	Status       Status               `json:"status"`
	Participants []ParticipantSummary `json:"participants"`
	Narrative    string               `json:"narrative"`
	BattleEnded  bool                 `json:"battle_ended"`
	Winner       string               `json:"winner,omitempty"`
	Switches     []SwitchNotice       `json:"switches,omitempty"`
}

func SummarizeCreature(c *Creature) *CreatureSummary {
	if c == nil {
		return nil
	}
	return &CreatureSummary{
		Name:    DisplayName(c),
		Types:   append([]string(nil), c.Types...),
		HP:      c.Stats.HP,
		MaxHP:   c.MaxHP,
		Moves:   append([]string(nil), c.Moves...),
		Fainted: c.Fainted(),
	}
}

func SummarizeParticipant(p Participant) ParticipantSummary {
	remaining := 0
	for _, c := range p.Team() {
		if !c.Fainted() {
			remaining++
		}
	}
	return ParticipantSummary{
		Name:       p.Name(),
		Controller: p.Controller(),
		Active:     SummarizeCreature(p.Active()),
		Remaining:  remaining,
	}
}

// NewTurnResult snapshots the battle after a turn.
func NewTurnResult(b *Battle, turn int, narrative string, switches []SwitchNotice) *TurnResult {
	r := &TurnResult{
		BattleID:    b.ID,
		Turn:        turn,
		Status:      b.Status,
		Narrative:   narrative,
		BattleEnded: b.Status == StatusCompleted,
		Winner:      b.WinnerName(),
		Switches:    switches,
	}
	for _, p := range b.Participants {
		if p != nil {
			r.Participants = append(r.Participants, SummarizeParticipant(p))
		}
	}
	return r
}
