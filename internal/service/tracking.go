package service

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/outpost-labs/outpost-backend/internal/domain"
	"github.com/outpost-labs/outpost-backend/internal/geo"
	"github.com/outpost-labs/outpost-backend/internal/logging"
)

// TrackResult is what a customer-facing tracking lookup returns: the
// package with its history plus a display position. The position is a
// presentation simulation, not telemetry; it must never feed back into the
// status state machine.
type TrackResult struct {
	Package  *domain.Package
	Position *geo.Coordinates
	Location string
}

// RouteResult is the driving path shown in a courier's expanded package
// view. Fallback is set when the routing service could not be reached and
// the path degraded to a straight line.
type RouteResult struct {
	Path     []geo.Coordinates
	Fallback bool
}

// Track looks up a package by tracking number and derives its display
// position: source locker up to pickup, a synthetic in-transit point at a
// random fraction of the straight-line path (re-randomized on every
// lookup), and the destination locker from delivery on.
func (s *PackageService) Track(ctx context.Context, trackingNumber string) (*TrackResult, error) {
	pkg, err := s.packages.GetByTrackingNumber(ctx, trackingNumber)
	if err != nil {
		return nil, fmt.Errorf("Track: %w", err)
	}
	pkg.History, err = s.packages.ListEvents(ctx, pkg.ID)
	if err != nil {
		return nil, fmt.Errorf("Track: events: %w", err)
	}

	result := &TrackResult{Package: pkg}

	source, err := s.lockers.GetByID(ctx, pkg.LockerID)
	if err != nil {
		// Position is an enhancement; the lookup itself still succeeds.
		logging.FromContext(ctx).Warn("source locker unavailable for tracking",
			"package_id", pkg.ID, "locker_id", pkg.LockerID, "error", err)
		return result, nil
	}

	var dest *domain.Locker
	if pkg.DestinationLockerID != nil {
		if d, err := s.lockers.GetByID(ctx, *pkg.DestinationLockerID); err == nil {
			dest = d
		}
	}

	switch pkg.Status {
	case domain.StatusInTransit:
		if dest != nil {
			pos := geo.Interpolate(source.Coordinates(), dest.Coordinates(), transitFraction())
			result.Position = &pos
			result.Location = "On the way to " + dest.LocationName
			return result, nil
		}
		fallthrough
	case domain.StatusCreated, domain.StatusPickedUp:
		pos := source.Coordinates()
		result.Position = &pos
		result.Location = source.LocationName
	case domain.StatusDelivered, domain.StatusCollected:
		if dest != nil {
			pos := dest.Coordinates()
			result.Position = &pos
			result.Location = dest.LocationName
		} else {
			pos := source.Coordinates()
			result.Position = &pos
			result.Location = source.LocationName
		}
	}

	return result, nil
}

// transitFraction picks a uniformly random progress fraction in [0.2, 0.8).
func transitFraction() float64 {
	return 0.2 + rand.Float64()*0.6
}

// Route fetches the driving path between a package's lockers for display.
// Routing failures degrade to a two-point straight line; they never fail
// the request.
func (s *PackageService) Route(ctx context.Context, courierID, packageID int64) (*RouteResult, error) {
	pkg, err := s.getOwned(ctx, courierID, packageID)
	if err != nil {
		return nil, fmt.Errorf("Route: %w", err)
	}
	if pkg.DestinationLockerID == nil {
		return nil, fmt.Errorf("Route: %w", domain.ErrLockerNotFound)
	}

	source, err := s.lockers.GetByID(ctx, pkg.LockerID)
	if err != nil {
		return nil, fmt.Errorf("Route: %w", err)
	}
	dest, err := s.lockers.GetByID(ctx, *pkg.DestinationLockerID)
	if err != nil {
		return nil, fmt.Errorf("Route: %w", err)
	}

	path, err := s.router.DrivingRoute(ctx, source.Coordinates(), dest.Coordinates())
	if err != nil {
		logging.FromContext(ctx).Warn("routing service unavailable, falling back to straight line",
			"package_id", packageID, "error", err)
		return &RouteResult{
			Path:     []geo.Coordinates{source.Coordinates(), dest.Coordinates()},
			Fallback: true,
		}, nil
	}

	return &RouteResult{Path: path}, nil
}
