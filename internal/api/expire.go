package api

import (
	"context"
	"time"

	"github.com/ericogr/creature-arena/internal/constants"
	"github.com/ericogr/creature-arena/internal/game"
	"github.com/ericogr/creature-arena/internal/logging"
)

// ExpireIdle drops sessions without activity for idle. An idle battle still
// in progress is first forfeited by its human participant. Returns the
// number of sessions dropped.
func (h *BattleHandler) ExpireIdle(ctx context.Context, now time.Time, idle time.Duration) int {
	if idle <= 0 {
		return 0
	}
	expired := 0
	for _, s := range h.all() {
		if now.Sub(s.LastActive()) < idle {
			continue
		}
		if s.Snapshot().Status == game.StatusInProgress {
			for _, p := range s.Battle().Participants {
				if p.Controller() != game.ControllerHuman {
					continue
				}
				if _, err := s.Forfeit(ctx, p); err != nil {
					logging.Error("failed to forfeit idle battle", err, logging.Fields{constants.LogFieldBattleID: s.ID()})
				}
				break
			}
		}
		h.remove(s.ID())
		expired++
		logging.Info("idle battle expired", logging.Fields{constants.LogFieldBattleID: s.ID()})
	}
	return expired
}

// StartExpiryScanner runs ExpireIdle every interval until ctx is done.
func (h *BattleHandler) StartExpiryScanner(ctx context.Context, interval, idle time.Duration) {
	if idle <= 0 {
		return
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				h.ExpireIdle(ctx, now, idle)
			}
		}
	}()
}
