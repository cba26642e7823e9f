package service

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/outpost-labs/outpost-backend/internal/domain"
	"github.com/outpost-labs/outpost-backend/internal/repository"
)

type courierLister interface {
	ListCouriers(ctx context.Context) ([]domain.User, error)
}

type deliveryCounter interface {
	ListByCourier(ctx context.Context, courierID int64) ([]domain.Package, error)
	DeliveryCounts(ctx context.Context) ([]repository.CourierDeliveryCount, error)
}

type CourierService struct {
	couriers courierLister
	packages deliveryCounter
}

func NewCourierService(couriers courierLister, packages deliveryCounter) *CourierService {
	return &CourierService{couriers: couriers, packages: packages}
}

// CourierStats summarizes one courier's workload over the packages
// originating from their assigned lockers.
type CourierStats struct {
	Total      int
	Delivered  int
	Pending    int
	Efficiency int
}

// LeaderboardEntry ranks couriers fleet-wide by delivered count, ties
// broken by efficiency.
type LeaderboardEntry struct {
	Rank       int
	CourierID  int64
	Name       string
	Score      int
	Efficiency int
}

func (s *CourierService) Stats(ctx context.Context, courierID int64) (*CourierStats, error) {
	packages, err := s.packages.ListByCourier(ctx, courierID)
	if err != nil {
		return nil, fmt.Errorf("Stats: %w", err)
	}

	stats := &CourierStats{Total: len(packages)}
	for _, p := range packages {
		if p.Status == domain.StatusDelivered || p.Status == domain.StatusCollected {
			stats.Delivered++
		}
	}
	stats.Pending = stats.Total - stats.Delivered
	stats.Efficiency = efficiency(stats.Delivered, stats.Total)
	return stats, nil
}

const leaderboardSize = 5

func (s *CourierService) Leaderboard(ctx context.Context) ([]LeaderboardEntry, error) {
	couriers, err := s.couriers.ListCouriers(ctx)
	if err != nil {
		return nil, fmt.Errorf("Leaderboard: %w", err)
	}
	counts, err := s.packages.DeliveryCounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("Leaderboard: %w", err)
	}

	byID := make(map[int64]repository.CourierDeliveryCount, len(counts))
	for _, c := range counts {
		byID[c.CourierID] = c
	}

	entries := make([]LeaderboardEntry, 0, len(couriers))
	for _, c := range couriers {
		count := byID[c.ID]
		entries = append(entries, LeaderboardEntry{
			CourierID:  c.ID,
			Name:       c.Name,
			Score:      count.Delivered,
			Efficiency: efficiency(count.Delivered, count.Total),
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		return entries[i].Efficiency > entries[j].Efficiency
	})

	if len(entries) > leaderboardSize {
		entries = entries[:leaderboardSize]
	}
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries, nil
}

func efficiency(delivered, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(delivered) / float64(total) * 100))
}
