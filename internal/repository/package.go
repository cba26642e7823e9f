package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/outpost-labs/outpost-backend/internal/domain"
)

// Package columns are aliased through p and joined with the sender's email,
// mirroring the wire shape the dashboards consume.
const packageColumns = `p.id, p.tracking_number, p.pickup_code, p.sender_id,
	u.email, p.receiver_email, p.locker_id, p.destination_locker_id,
	p.size, p.status, p.created_at`

const packageFrom = ` FROM packages p JOIN users u ON u.id = p.sender_id`

type PackageRepository struct {
	db *sql.DB
}

func NewPackageRepository(db *sql.DB) *PackageRepository {
	return &PackageRepository{db: db}
}

// Create inserts the package and its initial history event atomically.
func (r *PackageRepository) Create(ctx context.Context, pkg *domain.Package) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("Create: begin: %w", err)
	}
	defer tx.Rollback()

	err = tx.QueryRowContext(ctx,
		`INSERT INTO packages (tracking_number, pickup_code, sender_id,
		     receiver_email, locker_id, destination_locker_id, size, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id, created_at`,
		pkg.TrackingNumber, pkg.PickupCode, pkg.SenderID, pkg.ReceiverEmail,
		pkg.LockerID, pkg.DestinationLockerID, pkg.Size, pkg.Status,
	).Scan(&pkg.ID, &pkg.CreatedAt)
	if err != nil {
		return fmt.Errorf("Create: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO package_events (package_id, status) VALUES ($1, $2)`,
		pkg.ID, pkg.Status,
	)
	if err != nil {
		return fmt.Errorf("Create: event: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("Create: commit: %w", err)
	}
	return nil
}

func (r *PackageRepository) GetByID(ctx context.Context, id int64) (*domain.Package, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+packageColumns+packageFrom+` WHERE p.id = $1`, id,
	)
	p, err := scanPackage(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("GetByID: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("GetByID: %w", err)
	}
	return p, nil
}

// GetByTrackingNumber backs customer-facing tracking. Tracking numbers are
// display identifiers and not guaranteed unique; the newest match wins.
func (r *PackageRepository) GetByTrackingNumber(ctx context.Context, trackingNumber string) (*domain.Package, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+packageColumns+packageFrom+`
		 WHERE p.tracking_number = $1
		 ORDER BY p.created_at DESC
		 LIMIT 1`,
		trackingNumber,
	)
	p, err := scanPackage(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("GetByTrackingNumber: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("GetByTrackingNumber: %w", err)
	}
	return p, nil
}

func (r *PackageRepository) ListBySender(ctx context.Context, senderID int64) ([]domain.Package, error) {
	return r.list(ctx,
		`SELECT `+packageColumns+packageFrom+`
		 WHERE p.sender_id = $1
		 ORDER BY p.created_at DESC`,
		senderID,
	)
}

func (r *PackageRepository) ListByReceiver(ctx context.Context, email string) ([]domain.Package, error) {
	return r.list(ctx,
		`SELECT `+packageColumns+packageFrom+`
		 WHERE p.receiver_email = $1
		 ORDER BY p.created_at DESC`,
		email,
	)
}

// ListByCourier returns packages whose SOURCE locker is assigned to the
// courier. The restriction is derived from the locker assignment, not a
// stored relation on the package.
func (r *PackageRepository) ListByCourier(ctx context.Context, courierID int64) ([]domain.Package, error) {
	return r.list(ctx,
		`SELECT `+packageColumns+packageFrom+`
		 JOIN lockers l ON l.id = p.locker_id
		 WHERE l.courier_id = $1
		 ORDER BY p.created_at DESC`,
		courierID,
	)
}

// GetForCollect resolves a pickup attempt. All three predicates must hold;
// callers surface any miss as the same neutral failure.
func (r *PackageRepository) GetForCollect(ctx context.Context, pickupCode, receiverEmail string) (*domain.Package, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+packageColumns+packageFrom+`
		 WHERE p.pickup_code = $1
		   AND p.receiver_email = $2
		   AND p.status = $3
		 ORDER BY p.created_at
		 LIMIT 1`,
		pickupCode, receiverEmail, domain.StatusDelivered,
	)
	p, err := scanPackage(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("GetForCollect: %w", domain.ErrInvalidPickup)
		}
		return nil, fmt.Errorf("GetForCollect: %w", err)
	}
	return p, nil
}

// UpdateStatus advances a package from one status to its successor and
// appends the history event in the same transaction. The WHERE clause on
// the current status makes concurrent double-advances lose cleanly instead
// of regressing or skipping.
func (r *PackageRepository) UpdateStatus(ctx context.Context, id int64, from, to domain.PackageStatus) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("UpdateStatus: begin: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE packages SET status = $3 WHERE id = $1 AND status = $2`,
		id, from, to,
	)
	if err != nil {
		return fmt.Errorf("UpdateStatus: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("UpdateStatus: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("UpdateStatus: %w", domain.ErrInvalidTransition)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO package_events (package_id, status) VALUES ($1, $2)`,
		id, to,
	)
	if err != nil {
		return fmt.Errorf("UpdateStatus: event: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("UpdateStatus: commit: %w", err)
	}
	return nil
}

func (r *PackageRepository) ListEvents(ctx context.Context, packageID int64) ([]domain.PackageEvent, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT status, occurred_at FROM package_events
		 WHERE package_id = $1
		 ORDER BY occurred_at, id`,
		packageID,
	)
	if err != nil {
		return nil, fmt.Errorf("ListEvents: %w", err)
	}
	defer rows.Close()

	var events []domain.PackageEvent
	for rows.Next() {
		var e domain.PackageEvent
		if err := rows.Scan(&e.Status, &e.OccurredAt); err != nil {
			return nil, fmt.Errorf("ListEvents: scan: %w", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListEvents: rows: %w", err)
	}
	return events, nil
}

// CourierDeliveryCount aggregates fleet performance per courier over the
// packages originating from that courier's lockers.
type CourierDeliveryCount struct {
	CourierID int64
	Total     int
	Delivered int
}

func (r *PackageRepository) DeliveryCounts(ctx context.Context) ([]CourierDeliveryCount, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT l.courier_id,
		        COUNT(*),
		        COUNT(*) FILTER (WHERE p.status IN ($1, $2))
		 FROM packages p
		 JOIN lockers l ON l.id = p.locker_id
		 WHERE l.courier_id IS NOT NULL
		 GROUP BY l.courier_id`,
		domain.StatusDelivered, domain.StatusCollected,
	)
	if err != nil {
		return nil, fmt.Errorf("DeliveryCounts: %w", err)
	}
	defer rows.Close()

	var counts []CourierDeliveryCount
	for rows.Next() {
		var c CourierDeliveryCount
		if err := rows.Scan(&c.CourierID, &c.Total, &c.Delivered); err != nil {
			return nil, fmt.Errorf("DeliveryCounts: scan: %w", err)
		}
		counts = append(counts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("DeliveryCounts: rows: %w", err)
	}
	return counts, nil
}

func (r *PackageRepository) list(ctx context.Context, query string, args ...any) ([]domain.Package, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list: %w", err)
	}
	defer rows.Close()

	var packages []domain.Package
	for rows.Next() {
		p, err := scanPackage(rows)
		if err != nil {
			return nil, fmt.Errorf("list: scan: %w", err)
		}
		packages = append(packages, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list: rows: %w", err)
	}
	return packages, nil
}

func scanPackage(s scanner) (*domain.Package, error) {
	var p domain.Package
	var senderEmail sql.NullString
	var destLocker sql.NullString
	err := s.Scan(
		&p.ID, &p.TrackingNumber, &p.PickupCode, &p.SenderID, &senderEmail,
		&p.ReceiverEmail, &p.LockerID, &destLocker, &p.Size, &p.Status,
		&p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if senderEmail.Valid {
		p.SenderEmail = &senderEmail.String
	}
	if destLocker.Valid {
		p.DestinationLockerID = &destLocker.String
	}
	// History is fetched separately for detail views; lists stay flat.
	return &p, nil
}
