package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"

	"github.com/outpost-labs/outpost-backend/internal/domain"
	"github.com/outpost-labs/outpost-backend/internal/geo"
	"github.com/outpost-labs/outpost-backend/internal/logging"
	"github.com/outpost-labs/outpost-backend/internal/pricing"
)

type packageRepo interface {
	Create(ctx context.Context, pkg *domain.Package) error
	GetByID(ctx context.Context, id int64) (*domain.Package, error)
	GetByTrackingNumber(ctx context.Context, trackingNumber string) (*domain.Package, error)
	ListBySender(ctx context.Context, senderID int64) ([]domain.Package, error)
	ListByReceiver(ctx context.Context, email string) ([]domain.Package, error)
	ListByCourier(ctx context.Context, courierID int64) ([]domain.Package, error)
	GetForCollect(ctx context.Context, pickupCode, receiverEmail string) (*domain.Package, error)
	UpdateStatus(ctx context.Context, id int64, from, to domain.PackageStatus) error
	ListEvents(ctx context.Context, packageID int64) ([]domain.PackageEvent, error)
}

type lockerGetter interface {
	GetByID(ctx context.Context, id string) (*domain.Locker, error)
}

type receiverChecker interface {
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

type routeProvider interface {
	DrivingRoute(ctx context.Context, from, to geo.Coordinates) ([]geo.Coordinates, error)
}

type PackageService struct {
	packages packageRepo
	lockers  lockerGetter
	users    receiverChecker
	router   routeProvider
}

func NewPackageService(packages packageRepo, lockers lockerGetter, users receiverChecker, router routeProvider) *PackageService {
	return &PackageService{
		packages: packages,
		lockers:  lockers,
		users:    users,
		router:   router,
	}
}

type CreatePackageParams struct {
	ReceiverEmail       string
	Size                domain.PackageSize
	SourceLockerID      string
	DestinationLockerID string
}

// Create validates a send request, generates the tracking number and pickup
// code, and persists the package in `created` status. Validation happens
// strictly before the insert; a rejected request never touches storage.
func (s *PackageService) Create(ctx context.Context, senderID int64, params CreatePackageParams) (*domain.Package, decimal.Decimal, error) {
	log := logging.FromContext(ctx)

	source, dest, err := s.resolveRoute(ctx, params.Size, params.SourceLockerID, params.DestinationLockerID)
	if err != nil {
		return nil, decimal.Zero, fmt.Errorf("Create: %w", err)
	}

	exists, err := s.users.ExistsByEmail(ctx, params.ReceiverEmail)
	if err != nil {
		return nil, decimal.Zero, fmt.Errorf("Create: check receiver: %w", err)
	}
	if !exists {
		return nil, decimal.Zero, fmt.Errorf("Create: %w", domain.ErrReceiverNotFound)
	}

	quote, err := pricing.Quote(params.Size, geo.Distance(source.Coordinates(), dest.Coordinates()))
	if err != nil {
		return nil, decimal.Zero, fmt.Errorf("Create: %w", err)
	}

	trackingNumber, err := newTrackingNumber()
	if err != nil {
		return nil, decimal.Zero, fmt.Errorf("Create: %w", err)
	}
	pickupCode, err := newPickupCode()
	if err != nil {
		return nil, decimal.Zero, fmt.Errorf("Create: %w", err)
	}

	destID := dest.ID
	pkg := &domain.Package{
		TrackingNumber:      trackingNumber,
		PickupCode:          pickupCode,
		SenderID:            senderID,
		ReceiverEmail:       params.ReceiverEmail,
		LockerID:            source.ID,
		DestinationLockerID: &destID,
		Size:                params.Size,
		Status:              domain.StatusCreated,
	}

	if err := s.packages.Create(ctx, pkg); err != nil {
		return nil, decimal.Zero, fmt.Errorf("Create: %w", err)
	}

	log.Info("package created",
		"package_id", pkg.ID,
		"tracking_number", pkg.TrackingNumber,
		"sender_id", senderID,
		"source_locker", source.ID,
		"destination_locker", dest.ID,
		"size", params.Size,
	)

	return pkg, quote, nil
}

// Quote estimates the price for a prospective shipment without creating
// anything. Deterministic for fixed inputs.
func (s *PackageService) Quote(ctx context.Context, size domain.PackageSize, sourceLockerID, destLockerID string) (decimal.Decimal, error) {
	source, dest, err := s.resolveRoute(ctx, size, sourceLockerID, destLockerID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("Quote: %w", err)
	}
	quote, err := pricing.Quote(size, geo.Distance(source.Coordinates(), dest.Coordinates()))
	if err != nil {
		return decimal.Zero, fmt.Errorf("Quote: %w", err)
	}
	return quote, nil
}

func (s *PackageService) resolveRoute(ctx context.Context, size domain.PackageSize, sourceID, destID string) (*domain.Locker, *domain.Locker, error) {
	if !size.IsValid() {
		return nil, nil, domain.ErrInvalidSize
	}
	if sourceID == destID {
		return nil, nil, domain.ErrSameLocker
	}
	source, err := s.lockers.GetByID(ctx, sourceID)
	if err != nil {
		return nil, nil, err
	}
	dest, err := s.lockers.GetByID(ctx, destID)
	if err != nil {
		return nil, nil, err
	}
	return source, dest, nil
}

func (s *PackageService) ListSent(ctx context.Context, senderID int64) ([]domain.Package, error) {
	packages, err := s.packages.ListBySender(ctx, senderID)
	if err != nil {
		return nil, fmt.Errorf("ListSent: %w", err)
	}
	return packages, nil
}

func (s *PackageService) ListReceived(ctx context.Context, email string) ([]domain.Package, error) {
	packages, err := s.packages.ListByReceiver(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("ListReceived: %w", err)
	}
	return packages, nil
}

// ReadyForPickup counts the caller's received packages sitting in
// `delivered` status awaiting collection.
func ReadyForPickup(packages []domain.Package) int {
	count := 0
	for _, p := range packages {
		if p.Status == domain.StatusDelivered {
			count++
		}
	}
	return count
}

func (s *PackageService) ListForCourier(ctx context.Context, courierID int64) ([]domain.Package, error) {
	packages, err := s.packages.ListByCourier(ctx, courierID)
	if err != nil {
		return nil, fmt.Errorf("ListForCourier: %w", err)
	}
	return packages, nil
}

// Advance moves a package exactly one step forward on behalf of a courier.
// The courier must own the package's source locker; `collected` is
// unreachable here because collection is the client's code-gated path.
func (s *PackageService) Advance(ctx context.Context, courierID, packageID int64, target domain.PackageStatus) (*domain.Package, error) {
	log := logging.FromContext(ctx)

	pkg, err := s.getOwned(ctx, courierID, packageID)
	if err != nil {
		return nil, fmt.Errorf("Advance: %w", err)
	}

	if !target.IsValid() {
		return nil, fmt.Errorf("Advance: %w", domain.ErrInvalidStatus)
	}
	if target == domain.StatusCollected || !pkg.Status.CanTransitionTo(target) {
		return nil, fmt.Errorf("Advance: %s -> %s: %w", pkg.Status, target, domain.ErrInvalidTransition)
	}

	if err := s.packages.UpdateStatus(ctx, packageID, pkg.Status, target); err != nil {
		return nil, fmt.Errorf("Advance: %w", err)
	}

	log.Info("package status advanced",
		"package_id", packageID,
		"courier_id", courierID,
		"from", pkg.Status,
		"to", target,
	)

	// Refresh after write: re-read rather than patching in place.
	updated, err := s.packages.GetByID(ctx, packageID)
	if err != nil {
		return nil, fmt.Errorf("Advance: refresh: %w", err)
	}
	updated.History, err = s.packages.ListEvents(ctx, packageID)
	if err != nil {
		return nil, fmt.Errorf("Advance: refresh events: %w", err)
	}
	return updated, nil
}

// Collect finalizes delivery when the receiving client presents the right
// pickup code. Any miss — wrong code, wrong recipient, wrong status — is
// the same neutral failure with no state change.
func (s *PackageService) Collect(ctx context.Context, receiverEmail, pickupCode string) (*domain.Package, error) {
	log := logging.FromContext(ctx)

	pkg, err := s.packages.GetForCollect(ctx, pickupCode, receiverEmail)
	if err != nil {
		return nil, fmt.Errorf("Collect: %w", err)
	}

	if err := s.packages.UpdateStatus(ctx, pkg.ID, domain.StatusDelivered, domain.StatusCollected); err != nil {
		if errors.Is(err, domain.ErrInvalidTransition) {
			// Lost a race with another collect attempt.
			return nil, fmt.Errorf("Collect: %w", domain.ErrInvalidPickup)
		}
		return nil, fmt.Errorf("Collect: %w", err)
	}

	log.Info("package collected", "package_id", pkg.ID, "tracking_number", pkg.TrackingNumber)

	pkg.Status = domain.StatusCollected
	return pkg, nil
}

func (s *PackageService) getOwned(ctx context.Context, courierID, packageID int64) (*domain.Package, error) {
	pkg, err := s.packages.GetByID(ctx, packageID)
	if err != nil {
		return nil, err
	}
	source, err := s.lockers.GetByID(ctx, pkg.LockerID)
	if err != nil {
		return nil, err
	}
	// A courier never sees packages they do not originate, so an
	// unowned package is indistinguishable from a missing one.
	if !source.AssignedTo(courierID) {
		return nil, domain.ErrNotFound
	}
	return pkg, nil
}

func newTrackingNumber() (string, error) {
	digits := make([]byte, 6)
	for i := range digits {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", fmt.Errorf("newTrackingNumber: %w", err)
		}
		digits[i] = '0' + byte(n.Int64())
	}
	return "OP" + string(digits), nil
}

func newPickupCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(9000))
	if err != nil {
		return "", fmt.Errorf("newPickupCode: %w", err)
	}
	return fmt.Sprintf("%04d", n.Int64()+1000), nil
}
