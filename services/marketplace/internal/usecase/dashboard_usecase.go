package usecase

import (
	"context"

	"estate-market/services/marketplace/internal/entity"
	"estate-market/services/marketplace/internal/repo/persistent"
)

type DashboardUseCase interface {
	Counters(ctx context.Context) (*entity.Counters, error)
}

type dashboardUseCase struct {
	stats persistent.StatsRepository
}

func NewDashboardUseCase(stats persistent.StatsRepository) DashboardUseCase {
	return &dashboardUseCase{stats: stats}
}

func (uc *dashboardUseCase) Counters(ctx context.Context) (*entity.Counters, error) {
	return uc.stats.Counters(ctx)
}
