package handler

import (
	"context"
	"net/http"

	"github.com/outpost-labs/outpost-backend/internal/auth"
	"github.com/outpost-labs/outpost-backend/internal/logging"
	"github.com/outpost-labs/outpost-backend/internal/service"
)

type courierService interface {
	Stats(ctx context.Context, courierID int64) (*service.CourierStats, error)
	Leaderboard(ctx context.Context) ([]service.LeaderboardEntry, error)
}

type CourierHandler struct {
	couriers courierService
}

func NewCourierHandler(couriers courierService) *CourierHandler {
	return &CourierHandler{couriers: couriers}
}

type courierStatsDTO struct {
	Total      int `json:"total"`
	Delivered  int `json:"delivered"`
	Pending    int `json:"pending"`
	Efficiency int `json:"efficiency"`
}

func (h *CourierHandler) Stats(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		RespondAppError(w, ErrMissingToken, nil)
		return
	}

	stats, err := h.couriers.Stats(r.Context(), claims.UserID)
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to compute courier stats", "error", err)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, courierStatsDTO{
		Total:      stats.Total,
		Delivered:  stats.Delivered,
		Pending:    stats.Pending,
		Efficiency: stats.Efficiency,
	})
}

type leaderboardEntryDTO struct {
	Rank       int    `json:"rank"`
	CourierID  int64  `json:"courier_id"`
	Name       string `json:"name"`
	Score      int    `json:"score"`
	Efficiency int    `json:"efficiency"`
}

func (h *CourierHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	entries, err := h.couriers.Leaderboard(r.Context())
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to build leaderboard", "error", err)
		RespondDomainError(w, err)
		return
	}

	dtos := make([]leaderboardEntryDTO, 0, len(entries))
	for _, e := range entries {
		dtos = append(dtos, leaderboardEntryDTO{
			Rank:       e.Rank,
			CourierID:  e.CourierID,
			Name:       e.Name,
			Score:      e.Score,
			Efficiency: e.Efficiency,
		})
	}
	RespondSuccess(w, http.StatusOK, dtos)
}
