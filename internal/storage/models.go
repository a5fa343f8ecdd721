package storage

import (
	"time"

	"gorm.io/datatypes"
)

// BattleRecord is the persisted header of a battle.
type BattleRecord struct {
	ID         string    `gorm:"primaryKey;size:36" json:"id"`
	FirstName  string    `json:"first"`
	SecondName string    `json:"second"`
	Difficulty string    `json:"difficulty"`
	Status     string    `gorm:"index" json:"status"`
	Winner     string    `json:"winner,omitempty"`
	Turns      int       `json:"turns"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// TurnLog stores one resolved turn. Snapshot holds the full TurnResult.
type TurnLog struct {
	ID        uint           `gorm:"primaryKey" json:"-"`
	BattleID  string         `gorm:"size:36;uniqueIndex:idx_battle_turn" json:"battle_id"`
	Turn      int            `gorm:"uniqueIndex:idx_battle_turn" json:"turn"`
	Narrative string         `json:"narrative"`
	Ended     bool           `json:"ended"`
	Snapshot  datatypes.JSON `json:"snapshot"`
	CreatedAt time.Time      `json:"created_at"`
}

func (TurnLog) TableName() string { return "battle_turns" }

// BattleOutcome is written once per finished battle.
type BattleOutcome struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	BattleID  string    `gorm:"size:36;uniqueIndex" json:"battle_id"`
	Winner    string    `gorm:"index" json:"winner"`
	Loser     string    `json:"loser"`
	Turns     int       `json:"turns"`
	CreatedAt time.Time `json:"created_at"`
}

// WinnerStat is a leaderboard row.
type WinnerStat struct {
	Name string `json:"name"`
	Wins int64  `json:"wins"`
}
