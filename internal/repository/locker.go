package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/outpost-labs/outpost-backend/internal/domain"
)

const lockerColumns = `id, location_name, address, small_slots, medium_slots,
	large_slots, latitude, longitude, courier_id`

type LockerRepository struct {
	db *sql.DB
}

func NewLockerRepository(db *sql.DB) *LockerRepository {
	return &LockerRepository{db: db}
}

func (r *LockerRepository) GetByID(ctx context.Context, id string) (*domain.Locker, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+lockerColumns+` FROM lockers WHERE id = $1`, id,
	)
	l, err := scanLocker(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("GetByID: %w", domain.ErrLockerNotFound)
		}
		return nil, fmt.Errorf("GetByID: %w", err)
	}
	return l, nil
}

func (r *LockerRepository) List(ctx context.Context) ([]domain.Locker, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+lockerColumns+` FROM lockers ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("List: %w", err)
	}
	defer rows.Close()

	var lockers []domain.Locker
	for rows.Next() {
		l, err := scanLocker(rows)
		if err != nil {
			return nil, fmt.Errorf("List: scan: %w", err)
		}
		lockers = append(lockers, *l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("List: rows: %w", err)
	}
	return lockers, nil
}

// Create exists for the external provisioning path (cmd/seed); the API
// itself never creates lockers.
func (r *LockerRepository) Create(ctx context.Context, locker *domain.Locker) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO lockers (id, location_name, address, small_slots,
		     medium_slots, large_slots, latitude, longitude, courier_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 ON CONFLICT (id) DO UPDATE SET
		     location_name = EXCLUDED.location_name,
		     address = EXCLUDED.address,
		     small_slots = EXCLUDED.small_slots,
		     medium_slots = EXCLUDED.medium_slots,
		     large_slots = EXCLUDED.large_slots,
		     latitude = EXCLUDED.latitude,
		     longitude = EXCLUDED.longitude,
		     courier_id = EXCLUDED.courier_id`,
		locker.ID, locker.LocationName, locker.Address, locker.SmallSlots,
		locker.MediumSlots, locker.LargeSlots, locker.Latitude,
		locker.Longitude, locker.CourierID,
	)
	if err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

func scanLocker(s scanner) (*domain.Locker, error) {
	var l domain.Locker
	var courierID sql.NullInt64
	err := s.Scan(
		&l.ID, &l.LocationName, &l.Address, &l.SmallSlots, &l.MediumSlots,
		&l.LargeSlots, &l.Latitude, &l.Longitude, &courierID,
	)
	if err != nil {
		return nil, err
	}
	if courierID.Valid {
		l.CourierID = &courierID.Int64
	}
	return &l, nil
}
