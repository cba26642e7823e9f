package testutil

import (
	"database/sql"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/outpost-labs/outpost-backend/internal/domain"
)

const TestPassword = "password123"

func SeedUser(t *testing.T, db *sql.DB, name, email string, role domain.Role) *domain.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}

	u := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
	}
	err = db.QueryRow(
		`INSERT INTO users (name, email, password_hash, role)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at`,
		u.Name, u.Email, u.PasswordHash, u.Role,
	).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		t.Fatalf("seed user %s: %v", email, err)
	}
	return u
}

func SeedLocker(t *testing.T, db *sql.DB, id, name string, lat, lon float64, courierID *int64) *domain.Locker {
	t.Helper()

	l := &domain.Locker{
		ID:           id,
		LocationName: name,
		Address:      name + " Street 1",
		SmallSlots:   10,
		MediumSlots:  8,
		LargeSlots:   4,
		Latitude:     lat,
		Longitude:    lon,
		CourierID:    courierID,
	}
	_, err := db.Exec(
		`INSERT INTO lockers (id, location_name, address, small_slots,
		     medium_slots, large_slots, latitude, longitude, courier_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		l.ID, l.LocationName, l.Address, l.SmallSlots, l.MediumSlots,
		l.LargeSlots, l.Latitude, l.Longitude, l.CourierID,
	)
	if err != nil {
		t.Fatalf("seed locker %s: %v", id, err)
	}
	return l
}

func SeedPackage(t *testing.T, db *sql.DB, senderID int64, receiverEmail, sourceLockerID, destLockerID string, status domain.PackageStatus) *domain.Package {
	t.Helper()

	p := &domain.Package{
		TrackingNumber:      "OP123456",
		PickupCode:          "4321",
		SenderID:            senderID,
		ReceiverEmail:       receiverEmail,
		LockerID:            sourceLockerID,
		DestinationLockerID: &destLockerID,
		Size:                domain.SizeSmall,
		Status:              status,
	}
	err := db.QueryRow(
		`INSERT INTO packages (tracking_number, pickup_code, sender_id,
		     receiver_email, locker_id, destination_locker_id, size, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id, created_at`,
		p.TrackingNumber, p.PickupCode, p.SenderID, p.ReceiverEmail,
		p.LockerID, p.DestinationLockerID, p.Size, p.Status,
	).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		t.Fatalf("seed package: %v", err)
	}

	_, err = db.Exec(
		`INSERT INTO package_events (package_id, status) VALUES ($1, $2)`,
		p.ID, domain.StatusCreated,
	)
	if err != nil {
		t.Fatalf("seed package event: %v", err)
	}
	return p
}
