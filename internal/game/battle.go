package game

import "github.com/google/uuid"

// Status is the battle lifecycle state. It only moves forward.
type Status string

const (
	StatusPending    Status = "PENDING"
	StatusInProgress Status = "IN_PROGRESS"
	StatusCompleted  Status = "COMPLETED"
)

// Battle is the record owned by a session: two participants, the status
// and, once completed, the winner.
type Battle struct {
	ID           string
	Participants [2]Participant
	Status       Status
	Winner       Participant
}

// NewBattle creates a pending battle with a fresh id.
func NewBattle(first, second Participant) *Battle {
	return &Battle{
		ID:           uuid.NewString(),
		Participants: [2]Participant{first, second},
		Status:       StatusPending,
	}
}

// Start moves PENDING to IN_PROGRESS. It reports whether the status changed.
func (b *Battle) Start() bool {
	if b.Status != StatusPending {
		return false
	}
	b.Status = StatusInProgress
	return true
}

// Complete sets the winner and moves to COMPLETED. A completed battle is
// never reopened or re-awarded, and the winner must be one of the two
// participants.
func (b *Battle) Complete(winner Participant) bool {
	if b.Status == StatusCompleted || !b.Has(winner) {
		return false
	}
	b.Status = StatusCompleted
	b.Winner = winner
	return true
}

// Has reports whether p is one of the battle's participants.
func (b *Battle) Has(p Participant) bool {
	return p != nil && (p == b.Participants[0] || p == b.Participants[1])
}

// Opponent returns the other participant, or nil when p is not in the battle.
func (b *Battle) Opponent(p Participant) Participant {
	switch p {
	case b.Participants[0]:
		return b.Participants[1]
	case b.Participants[1]:
		return b.Participants[0]
	}
	return nil
}

// WinnerName returns the winner's name or "".
func (b *Battle) WinnerName() string {
	if b.Winner == nil {
		return ""
	}
	return b.Winner.Name()
}
