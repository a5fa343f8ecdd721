package storage

import (
	"context"
	"errors"

	"github.com/ericogr/creature-arena/internal/game"
)

var ErrNotFound = errors.New("record not found")

// Repository persists battles, their turns and their outcomes. It satisfies
// session.TurnRecorder and session.RewardHook.
type Repository interface {
	SaveBattle(ctx context.Context, b *game.Battle, difficulty string) error
	GetBattle(ctx context.Context, id string) (*BattleRecord, error)
	RecordTurn(ctx context.Context, result *game.TurnResult) error
	// ListTurns returns the battle's turns in order.
	ListTurns(ctx context.Context, battleID string) ([]TurnLog, error)
	// OnBattleEnd stores the outcome. Repeated calls for the same battle are
	// ignored.
	OnBattleEnd(ctx context.Context, b *game.Battle) error
	// TopWinners returns participants ordered by wins desc, then name.
	TopWinners(ctx context.Context, limit int) ([]WinnerStat, error)
}
