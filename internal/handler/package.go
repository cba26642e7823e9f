package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/outpost-labs/outpost-backend/internal/auth"
	"github.com/outpost-labs/outpost-backend/internal/domain"
	"github.com/outpost-labs/outpost-backend/internal/logging"
	"github.com/outpost-labs/outpost-backend/internal/pricing"
	"github.com/outpost-labs/outpost-backend/internal/service"
)

type packageService interface {
	Create(ctx context.Context, senderID int64, params service.CreatePackageParams) (*domain.Package, decimal.Decimal, error)
	Quote(ctx context.Context, size domain.PackageSize, sourceLockerID, destLockerID string) (decimal.Decimal, error)
	ListSent(ctx context.Context, senderID int64) ([]domain.Package, error)
	ListReceived(ctx context.Context, email string) ([]domain.Package, error)
	ListForCourier(ctx context.Context, courierID int64) ([]domain.Package, error)
	Advance(ctx context.Context, courierID, packageID int64, target domain.PackageStatus) (*domain.Package, error)
	Collect(ctx context.Context, receiverEmail, pickupCode string) (*domain.Package, error)
	Track(ctx context.Context, trackingNumber string) (*service.TrackResult, error)
	Route(ctx context.Context, courierID, packageID int64) (*service.RouteResult, error)
}

type PackageHandler struct {
	packages packageService
}

func NewPackageHandler(packages packageService) *PackageHandler {
	return &PackageHandler{packages: packages}
}

type packageEventDTO struct {
	Status     string    `json:"status"`
	OccurredAt time.Time `json:"occurred_at"`
}

type packageDTO struct {
	ID                  int64             `json:"id"`
	TrackingNumber      string            `json:"tracking_number"`
	PickupCode          string            `json:"pickup_code"`
	SenderID            int64             `json:"sender_id"`
	SenderEmail         *string           `json:"sender_email,omitempty"`
	ReceiverEmail       string            `json:"receiver_email"`
	LockerID            string            `json:"locker_id"`
	DestinationLockerID *string           `json:"destination_locker_id,omitempty"`
	Size                string            `json:"size"`
	Status              string            `json:"status"`
	History             []packageEventDTO `json:"history"`
	CreatedAt           time.Time         `json:"created_at"`
}

func toPackageDTO(p *domain.Package) packageDTO {
	history := make([]packageEventDTO, 0, len(p.History))
	for _, e := range p.History {
		history = append(history, packageEventDTO{
			Status:     string(e.Status),
			OccurredAt: e.OccurredAt,
		})
	}
	return packageDTO{
		ID:                  p.ID,
		TrackingNumber:      p.TrackingNumber,
		PickupCode:          p.PickupCode,
		SenderID:            p.SenderID,
		SenderEmail:         p.SenderEmail,
		ReceiverEmail:       p.ReceiverEmail,
		LockerID:            p.LockerID,
		DestinationLockerID: p.DestinationLockerID,
		Size:                string(p.Size),
		Status:              string(p.Status),
		History:             history,
		CreatedAt:           p.CreatedAt,
	}
}

func toPackageDTOs(packages []domain.Package) []packageDTO {
	dtos := make([]packageDTO, 0, len(packages))
	for i := range packages {
		dtos = append(dtos, toPackageDTO(&packages[i]))
	}
	return dtos
}

type createPackageRequest struct {
	ReceiverEmail       string `json:"receiver_email"`
	Size                string `json:"size"`
	SourceLockerID      string `json:"source_locker_id"`
	DestinationLockerID string `json:"destination_locker_id"`
}

func (r createPackageRequest) Validate() []FieldError {
	var errs []FieldError
	if r.ReceiverEmail == "" {
		errs = append(errs, FieldError{Field: "receiver_email", Message: "required"})
	}
	if r.Size == "" {
		errs = append(errs, FieldError{Field: "size", Message: "required"})
	}
	if r.SourceLockerID == "" {
		errs = append(errs, FieldError{Field: "source_locker_id", Message: "required"})
	}
	if r.DestinationLockerID == "" {
		errs = append(errs, FieldError{Field: "destination_locker_id", Message: "required"})
	}
	return errs
}

type createPackageResponse struct {
	Package  packageDTO `json:"package"`
	Price    string     `json:"price"`
	Currency string     `json:"currency"`
}

func (h *PackageHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		RespondAppError(w, ErrMissingToken, nil)
		return
	}

	var req createPackageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}

	if fields := req.Validate(); len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	pkg, price, err := h.packages.Create(r.Context(), claims.UserID, service.CreatePackageParams{
		ReceiverEmail:       req.ReceiverEmail,
		Size:                domain.PackageSize(req.Size),
		SourceLockerID:      req.SourceLockerID,
		DestinationLockerID: req.DestinationLockerID,
	})
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to create package", "error", err)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusCreated, createPackageResponse{
		Package:  toPackageDTO(pkg),
		Price:    price.StringFixed(2),
		Currency: pricing.Currency,
	})
}

type quoteRequest struct {
	Size                string `json:"size"`
	SourceLockerID      string `json:"source_locker_id"`
	DestinationLockerID string `json:"destination_locker_id"`
}

type quoteResponse struct {
	Price    string `json:"price"`
	Currency string `json:"currency"`
}

func (h *PackageHandler) Quote(w http.ResponseWriter, r *http.Request) {
	var req quoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}

	price, err := h.packages.Quote(r.Context(), domain.PackageSize(req.Size),
		req.SourceLockerID, req.DestinationLockerID)
	if err != nil {
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, quoteResponse{
		Price:    price.StringFixed(2),
		Currency: pricing.Currency,
	})
}

type clientPackagesResponse struct {
	Sent          []packageDTO `json:"sent"`
	Received      []packageDTO `json:"received"`
	ReadyToPickup int          `json:"ready_to_pickup"`
}

type courierPackagesResponse struct {
	Assigned []packageDTO `json:"assigned"`
}

// List is role-dependent: clients get their sent and received packages,
// couriers get packages originating from their assigned lockers. An
// optional ?status= filter narrows either view.
func (h *PackageHandler) List(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		RespondAppError(w, ErrMissingToken, nil)
		return
	}

	statusFilter := domain.PackageStatus(r.URL.Query().Get("status"))
	if statusFilter != "" && !statusFilter.IsValid() {
		RespondAppError(w, ErrInvalidStatus, nil)
		return
	}

	log := logging.FromContext(r.Context())

	if claims.Role == domain.RoleCourier {
		assigned, err := h.packages.ListForCourier(r.Context(), claims.UserID)
		if err != nil {
			log.Error("failed to list courier packages", "error", err)
			RespondDomainError(w, err)
			return
		}
		RespondSuccess(w, http.StatusOK, courierPackagesResponse{
			Assigned: toPackageDTOs(filterByStatus(assigned, statusFilter)),
		})
		return
	}

	sent, err := h.packages.ListSent(r.Context(), claims.UserID)
	if err != nil {
		log.Error("failed to list sent packages", "error", err)
		RespondDomainError(w, err)
		return
	}
	received, err := h.packages.ListReceived(r.Context(), claims.Email)
	if err != nil {
		log.Error("failed to list received packages", "error", err)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, clientPackagesResponse{
		Sent:          toPackageDTOs(filterByStatus(sent, statusFilter)),
		Received:      toPackageDTOs(filterByStatus(received, statusFilter)),
		ReadyToPickup: service.ReadyForPickup(received),
	})
}

func filterByStatus(packages []domain.Package, status domain.PackageStatus) []domain.Package {
	if status == "" {
		return packages
	}
	filtered := make([]domain.Package, 0, len(packages))
	for _, p := range packages {
		if p.Status == status {
			filtered = append(filtered, p)
		}
	}
	return filtered
}

type positionDTO struct {
	Coordinates [2]float64 `json:"coordinates"`
	Location    string     `json:"location"`
}

type trackResponse struct {
	Package  packageDTO   `json:"package"`
	Position *positionDTO `json:"position,omitempty"`
}

func (h *PackageHandler) Track(w http.ResponseWriter, r *http.Request) {
	trackingNumber := r.URL.Query().Get("tracking_number")
	if trackingNumber == "" {
		RespondValidationError(w, []FieldError{{Field: "tracking_number", Message: "required"}})
		return
	}

	result, err := h.packages.Track(r.Context(), trackingNumber)
	if err != nil {
		RespondDomainError(w, err)
		return
	}

	resp := trackResponse{Package: toPackageDTO(result.Package)}
	if result.Position != nil {
		resp.Position = &positionDTO{
			Coordinates: result.Position.LatLon(),
			Location:    result.Location,
		}
	}
	RespondSuccess(w, http.StatusOK, resp)
}

type advanceRequest struct {
	Status string `json:"status"`
}

func (h *PackageHandler) Advance(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		RespondAppError(w, ErrMissingToken, nil)
		return
	}

	packageID, appErr := pathID(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	var req advanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}

	pkg, err := h.packages.Advance(r.Context(), claims.UserID, packageID, domain.PackageStatus(req.Status))
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to advance package",
			"package_id", packageID, "error", err)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, toPackageDTO(pkg))
}

type collectRequest struct {
	PickupCode string `json:"pickup_code"`
}

func (h *PackageHandler) Collect(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		RespondAppError(w, ErrMissingToken, nil)
		return
	}

	var req collectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}
	if req.PickupCode == "" {
		RespondValidationError(w, []FieldError{{Field: "pickup_code", Message: "required"}})
		return
	}

	pkg, err := h.packages.Collect(r.Context(), claims.Email, req.PickupCode)
	if err != nil {
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, toPackageDTO(pkg))
}

type routeResponse struct {
	Path     [][2]float64 `json:"path"`
	Fallback bool         `json:"fallback"`
}

func (h *PackageHandler) Route(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		RespondAppError(w, ErrMissingToken, nil)
		return
	}

	packageID, appErr := pathID(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	result, err := h.packages.Route(r.Context(), claims.UserID, packageID)
	if err != nil {
		RespondDomainError(w, err)
		return
	}

	path := make([][2]float64, 0, len(result.Path))
	for _, c := range result.Path {
		path = append(path, c.LatLon())
	}
	RespondSuccess(w, http.StatusOK, routeResponse{
		Path:     path,
		Fallback: result.Fallback,
	})
}
