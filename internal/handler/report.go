package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/outpost-labs/outpost-backend/internal/auth"
	"github.com/outpost-labs/outpost-backend/internal/domain"
	"github.com/outpost-labs/outpost-backend/internal/logging"
)

type reportRepo interface {
	Create(ctx context.Context, report *domain.IssueReport) error
}

type ReportHandler struct {
	reports reportRepo
}

func NewReportHandler(reports reportRepo) *ReportHandler {
	return &ReportHandler{reports: reports}
}

type createReportRequest struct {
	TrackingNumber string `json:"tracking_number"`
	IssueType      string `json:"issue_type"`
	Description    string `json:"description"`
}

func (r createReportRequest) Validate() []FieldError {
	var errs []FieldError
	if r.TrackingNumber == "" {
		errs = append(errs, FieldError{Field: "tracking_number", Message: "required"})
	}
	if !domain.IssueType(r.IssueType).IsValid() {
		errs = append(errs, FieldError{Field: "issue_type", Message: "must be damage, lost, delay or other"})
	}
	if r.Description == "" {
		errs = append(errs, FieldError{Field: "description", Message: "required"})
	}
	return errs
}

type reportDTO struct {
	ID             int64     `json:"id"`
	TrackingNumber string    `json:"tracking_number"`
	IssueType      string    `json:"issue_type"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
}

func (h *ReportHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		RespondAppError(w, ErrMissingToken, nil)
		return
	}

	var req createReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}

	if fields := req.Validate(); len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	report := &domain.IssueReport{
		UserID:         claims.UserID,
		TrackingNumber: req.TrackingNumber,
		IssueType:      domain.IssueType(req.IssueType),
		Description:    req.Description,
		Status:         domain.IssueReportOpen,
	}

	if err := h.reports.Create(r.Context(), report); err != nil {
		logging.FromContext(r.Context()).Error("failed to submit issue report", "error", err)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusCreated, reportDTO{
		ID:             report.ID,
		TrackingNumber: report.TrackingNumber,
		IssueType:      string(report.IssueType),
		Status:         string(report.Status),
		CreatedAt:      report.CreatedAt,
	})
}
