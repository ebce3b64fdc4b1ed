package worker

import (
	"context"
	"time"

	"estate-market/pkg/logger"
	"estate-market/services/media/internal/usecase"
)

// ExpirySweeper is the part of UploadUseCase the sweeper drives.
type ExpirySweeper interface {
	SweepExpired(ctx context.Context, now time.Time) (*usecase.SweepReport, error)
}

type Sweeper struct {
	uploads  ExpirySweeper
	interval time.Duration
	now      func() time.Time
	logger   *logger.Logger
}

func NewSweeper(uploads ExpirySweeper, interval time.Duration, logger *logger.Logger) *Sweeper {
	return &Sweeper{
		uploads:  uploads,
		interval: interval,
		now:      func() time.Time { return time.Now().UTC() },
		logger:   logger,
	}
}

// Run sweeps once immediately and then every interval until ctx is cancelled.
func (s *Sweeper) Run(ctx context.Context) {
	s.logger.Info("[SWEEPER] Started, interval %s", s.interval)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.sweep(ctx)
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("[SWEEPER] Stopped")
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *Sweeper) sweep(ctx context.Context) {
	if _, err := s.uploads.SweepExpired(ctx, s.now()); err != nil {
		s.logger.Error("[SWEEPER] Sweep failed: %v", err)
	}
}
