package domain

import "time"

type PackageSize string

const (
	SizeSmall  PackageSize = "S"
	SizeMedium PackageSize = "M"
	SizeLarge  PackageSize = "L"
)

func (s PackageSize) IsValid() bool {
	switch s {
	case SizeSmall, SizeMedium, SizeLarge:
		return true
	}
	return false
}

// PackageEvent is one entry in a package's status history, appended each
// time a transition is applied.
type PackageEvent struct {
	Status     PackageStatus
	OccurredAt time.Time
}

type Package struct {
	ID                  int64
	TrackingNumber      string
	PickupCode          string
	SenderID            int64
	SenderEmail         *string
	ReceiverEmail       string
	LockerID            string
	DestinationLockerID *string
	Size                PackageSize
	Status              PackageStatus
	History             []PackageEvent
	CreatedAt           time.Time
}
