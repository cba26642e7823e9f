package domain

type PackageStatus string

const (
	StatusCreated   PackageStatus = "created"
	StatusPickedUp  PackageStatus = "picked_up"
	StatusInTransit PackageStatus = "in_transit"
	StatusDelivered PackageStatus = "delivered"
	StatusCollected PackageStatus = "collected"
)

// statusOrder fixes the linear package lifecycle. Status only ever moves
// forward one step at a time; there is no cancel or reverse transition.
var statusOrder = map[PackageStatus]int{
	StatusCreated:   0,
	StatusPickedUp:  1,
	StatusInTransit: 2,
	StatusDelivered: 3,
	StatusCollected: 4,
}

func (s PackageStatus) IsValid() bool {
	_, ok := statusOrder[s]
	return ok
}

// Next returns the sole successor status, or false when s is terminal
// or unknown.
func (s PackageStatus) Next() (PackageStatus, bool) {
	switch s {
	case StatusCreated:
		return StatusPickedUp, true
	case StatusPickedUp:
		return StatusInTransit, true
	case StatusInTransit:
		return StatusDelivered, true
	case StatusDelivered:
		return StatusCollected, true
	}
	return "", false
}

// CanTransitionTo reports whether target is the immediate successor of s.
// Skips and regressions are never allowed.
func (s PackageStatus) CanTransitionTo(target PackageStatus) bool {
	next, ok := s.Next()
	return ok && next == target
}

// Terminal reports whether the package has reached the end of its lifecycle.
func (s PackageStatus) Terminal() bool {
	return s == StatusCollected
}
