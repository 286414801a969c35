package cache

import (
	"context"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const sweepSchedule = "@every 5m"

// Sweeper periodically purges expired rows from the database cache.
type Sweeper struct {
	store *DBStore
	cron  *cron.Cron
}

func NewSweeper(store *DBStore) *Sweeper {
	return &Sweeper{store: store, cron: cron.New()}
}

func (s *Sweeper) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(sweepSchedule, func() {
		deleted, err := s.store.Sweep(ctx)
		if err != nil {
			zap.L().Error("cache sweep failed", zap.Error(err))
			return
		}
		if deleted > 0 {
			zap.L().Info("cache sweep done", zap.Int64("deleted", deleted))
		}
	})
	if err != nil {
		return err
	}
	s.cron.Start()
	return nil
}

func (s *Sweeper) Stop() {
	<-s.cron.Stop().Done()
}
