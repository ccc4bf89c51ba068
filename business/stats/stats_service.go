package stats

import (
	"context"
	"runtime"
	"time"

	"bazaarHub/domain"
	"bazaarHub/pkg/logger"
)

const recentOrdersLimit = 10

type StatsRepository interface {
	Counts(ctx context.Context) (domain.StoreCounts, error)
	TotalRevenue(ctx context.Context) (float64, error)
	RecentOrders(ctx context.Context, limit int) ([]domain.RecentOrder, error)
}

type StatsService struct {
	statsRepo StatsRepository
	startedAt time.Time
	now       func() time.Time
}

func NewStatsService(statsRepo StatsRepository, startedAt time.Time) *StatsService {
	return &StatsService{
		statsRepo: statsRepo,
		startedAt: startedAt,
		now:       time.Now,
	}
}

func (s *StatsService) AdminStats(ctx context.Context) (domain.AdminStats, error) {
	counts, err := s.statsRepo.Counts(ctx)
	if err != nil {
		logger.Error("failed to count store records", err)
		return domain.AdminStats{}, err
	}

	revenue, err := s.statsRepo.TotalRevenue(ctx)
	if err != nil {
		logger.Error("failed to sum revenue", err)
		return domain.AdminStats{}, err
	}

	recent, err := s.statsRepo.RecentOrders(ctx, recentOrdersLimit)
	if err != nil {
		logger.Error("failed to load recent orders", err)
		return domain.AdminStats{}, err
	}

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	return domain.AdminStats{
		Counts:       counts,
		TotalRevenue: revenue,
		RecentOrders: recent,
		Server: domain.ServerStats{
			UptimeSeconds:  s.now().Sub(s.startedAt).Seconds(),
			Goroutines:     runtime.NumGoroutine(),
			HeapAllocBytes: mem.HeapAlloc,
		},
	}, nil
}
