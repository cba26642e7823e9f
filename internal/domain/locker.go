package domain

import "github.com/outpost-labs/outpost-backend/internal/geo"

// Locker is a fixed physical drop-off/pickup point. Lockers are provisioned
// externally and read-only from the API's perspective; the slot counters are
// static capacity figures and are not decremented on package flow.
type Locker struct {
	ID           string
	LocationName string
	Address      string
	SmallSlots   int
	MediumSlots  int
	LargeSlots   int
	Latitude     float64
	Longitude    float64
	CourierID    *int64
}

func (l *Locker) Coordinates() geo.Coordinates {
	return geo.Coordinates{Lat: l.Latitude, Lon: l.Longitude}
}

// AssignedTo reports whether the locker's assigned courier is courierID.
func (l *Locker) AssignedTo(courierID int64) bool {
	return l.CourierID != nil && *l.CourierID == courierID
}
