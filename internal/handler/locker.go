package handler

import (
	"context"
	"net/http"

	"github.com/outpost-labs/outpost-backend/internal/domain"
	"github.com/outpost-labs/outpost-backend/internal/logging"
)

type lockerLister interface {
	List(ctx context.Context) ([]domain.Locker, error)
}

type LockerHandler struct {
	lockers lockerLister
}

func NewLockerHandler(lockers lockerLister) *LockerHandler {
	return &LockerHandler{lockers: lockers}
}

type lockerDTO struct {
	ID           string     `json:"id"`
	LocationName string     `json:"location_name"`
	Address      string     `json:"address"`
	SmallSlots   int        `json:"small_slots"`
	MediumSlots  int        `json:"medium_slots"`
	LargeSlots   int        `json:"large_slots"`
	Coordinates  [2]float64 `json:"coordinates"`
	CourierID    *int64     `json:"courier_id,omitempty"`
}

func toLockerDTO(l *domain.Locker) lockerDTO {
	return lockerDTO{
		ID:           l.ID,
		LocationName: l.LocationName,
		Address:      l.Address,
		SmallSlots:   l.SmallSlots,
		MediumSlots:  l.MediumSlots,
		LargeSlots:   l.LargeSlots,
		Coordinates:  l.Coordinates().LatLon(),
		CourierID:    l.CourierID,
	}
}

func (h *LockerHandler) List(w http.ResponseWriter, r *http.Request) {
	lockers, err := h.lockers.List(r.Context())
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to list lockers", "error", err)
		RespondDomainError(w, err)
		return
	}

	dtos := make([]lockerDTO, 0, len(lockers))
	for i := range lockers {
		dtos = append(dtos, toLockerDTO(&lockers[i]))
	}
	RespondSuccess(w, http.StatusOK, dtos)
}
