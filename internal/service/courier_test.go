package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/outpost-labs/outpost-backend/internal/domain"
	"github.com/outpost-labs/outpost-backend/internal/repository"
)

type fakeCourierLister struct {
	couriers []domain.User
}

func (f *fakeCourierLister) ListCouriers(_ context.Context) ([]domain.User, error) {
	return f.couriers, nil
}

func TestCourierServiceStats(t *testing.T) {
	pkgSvc, repo := newTestService(&fakeRouter{})
	ctx := context.Background()

	// Four packages out of the courier's locker; deliver two, collect one
	// of those.
	var pkgs []*domain.Package
	for i := 0; i < 4; i++ {
		pkgs = append(pkgs, createPackage(t, pkgSvc))
	}
	for _, p := range pkgs[:2] {
		for _, next := range []domain.PackageStatus{domain.StatusPickedUp, domain.StatusInTransit, domain.StatusDelivered} {
			_, err := pkgSvc.Advance(ctx, courierID, p.ID, next)
			require.NoError(t, err)
		}
	}
	_, err := pkgSvc.Collect(ctx, receiverMail, pkgs[0].PickupCode)
	require.NoError(t, err)

	svc := NewCourierService(&fakeCourierLister{}, repo)
	stats, err := svc.Stats(ctx, courierID)
	require.NoError(t, err)

	assert.Equal(t, 4, stats.Total)
	assert.Equal(t, 2, stats.Delivered)
	assert.Equal(t, 2, stats.Pending)
	assert.Equal(t, 50, stats.Efficiency)
}

func TestCourierServiceStatsEmpty(t *testing.T) {
	_, repo := newTestService(&fakeRouter{})

	svc := NewCourierService(&fakeCourierLister{}, repo)
	stats, err := svc.Stats(context.Background(), courierID)
	require.NoError(t, err)

	assert.Equal(t, 0, stats.Total)
	assert.Equal(t, 0, stats.Efficiency)
}

func TestCourierServiceLeaderboard(t *testing.T) {
	_, repo := newTestService(&fakeRouter{})
	repo.counts = []repository.CourierDeliveryCount{
		{CourierID: 1, Total: 10, Delivered: 8},
		{CourierID: 2, Total: 12, Delivered: 8},
		{CourierID: 3, Total: 5, Delivered: 5},
		{CourierID: 4, Total: 20, Delivered: 3},
	}
	couriers := &fakeCourierLister{couriers: []domain.User{
		{ID: 1, Name: "Anna"},
		{ID: 2, Name: "Bartek"},
		{ID: 3, Name: "Celina"},
		{ID: 4, Name: "Darek"},
		{ID: 5, Name: "Ewa"}, // no deliveries yet
	}}

	svc := NewCourierService(couriers, repo)
	entries, err := svc.Leaderboard(context.Background())
	require.NoError(t, err)

	require.Len(t, entries, 5)

	// Ordered by delivered count, ties broken by efficiency.
	assert.Equal(t, []int64{1, 2, 3, 4, 5}, []int64{
		entries[0].CourierID, entries[1].CourierID, entries[2].CourierID,
		entries[3].CourierID, entries[4].CourierID,
	})
	assert.Equal(t, "Anna", entries[0].Name)
	assert.Equal(t, 8, entries[0].Score)
	assert.Equal(t, 80, entries[0].Efficiency)
	assert.Equal(t, 67, entries[1].Efficiency)
	assert.Equal(t, 100, entries[2].Efficiency)
	assert.Equal(t, 0, entries[4].Score)

	for i, e := range entries {
		assert.Equal(t, i+1, e.Rank)
	}
}

func TestCourierServiceLeaderboardTopFive(t *testing.T) {
	_, repo := newTestService(&fakeRouter{})
	var couriers []domain.User
	for i := int64(1); i <= 8; i++ {
		couriers = append(couriers, domain.User{ID: i, Name: "Courier"})
		repo.counts = append(repo.counts, repository.CourierDeliveryCount{
			CourierID: i, Total: 10, Delivered: int(i),
		})
	}

	svc := NewCourierService(&fakeCourierLister{couriers: couriers}, repo)
	entries, err := svc.Leaderboard(context.Background())
	require.NoError(t, err)

	require.Len(t, entries, 5)
	assert.Equal(t, int64(8), entries[0].CourierID)
	assert.Equal(t, int64(4), entries[4].CourierID)
}
