package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ericogr/creature-arena/internal/game"
)

type gormRepository struct {
	db *gorm.DB
}

// NewRepository works with any dialect Open supports.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) SaveBattle(ctx context.Context, b *game.Battle, difficulty string) error {
	rec := BattleRecord{
		ID:         b.ID,
		FirstName:  participantName(b.Participants[0]),
		SecondName: participantName(b.Participants[1]),
		Difficulty: difficulty,
		Status:     string(b.Status),
		Winner:     b.WinnerName(),
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"status", "winner", "updated_at"}),
	}).Create(&rec).Error
}

func (r *gormRepository) GetBattle(ctx context.Context, id string) (*BattleRecord, error) {
	var rec BattleRecord
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("battle %s: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return &rec, nil
}

func (r *gormRepository) RecordTurn(ctx context.Context, result *game.TurnResult) error {
	snapshot, err := json.Marshal(result)
	if err != nil {
		return err
	}
	t := TurnLog{
		BattleID:  result.BattleID,
		Turn:      result.Turn,
		Narrative: result.Narrative,
		Ended:     result.BattleEnded,
		Snapshot:  datatypes.JSON(snapshot),
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "battle_id"}, {Name: "turn"}},
			DoUpdates: clause.AssignmentColumns([]string{"narrative", "ended", "snapshot"}),
		}).Create(&t).Error; err != nil {
			return err
		}
		return tx.Model(&BattleRecord{}).Where("id = ?", result.BattleID).Updates(map[string]any{
			"turns":  result.Turn,
			"status": string(result.Status),
			"winner": result.Winner,
		}).Error
	})
}

func (r *gormRepository) ListTurns(ctx context.Context, battleID string) ([]TurnLog, error) {
	var turns []TurnLog
	if err := r.db.WithContext(ctx).
		Where("battle_id = ?", battleID).
		Order("turn ASC").
		Find(&turns).Error; err != nil {
		return nil, err
	}
	return turns, nil
}

func (r *gormRepository) OnBattleEnd(ctx context.Context, b *game.Battle) error {
	winner := b.WinnerName()
	loser := ""
	if b.Winner != nil {
		loser = participantName(b.Opponent(b.Winner))
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rec BattleRecord
		turns := 0
		if err := tx.Where("id = ?", b.ID).First(&rec).Error; err == nil {
			turns = rec.Turns
		}
		out := BattleOutcome{BattleID: b.ID, Winner: winner, Loser: loser, Turns: turns}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&out).Error; err != nil {
			return err
		}
		return tx.Model(&BattleRecord{}).Where("id = ?", b.ID).Updates(map[string]any{
			"status": string(b.Status),
			"winner": winner,
		}).Error
	})
}

func (r *gormRepository) TopWinners(ctx context.Context, limit int) ([]WinnerStat, error) {
	if limit <= 0 {
		limit = 10
	}
	var stats []WinnerStat
	if err := r.db.WithContext(ctx).Model(&BattleOutcome{}).
		Select("winner AS name, COUNT(*) AS wins").
		Where("winner <> ''").
		Group("winner").
		Order("wins DESC").
		Order("name ASC").
		Limit(limit).
		Scan(&stats).Error; err != nil {
		return nil, err
	}
	return stats, nil
}

func participantName(p game.Participant) string {
	if p == nil {
		return ""
	}
	return p.Name()
}
