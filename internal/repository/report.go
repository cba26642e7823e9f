package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/outpost-labs/outpost-backend/internal/domain"
)

type IssueReportRepository struct {
	db *sql.DB
}

func NewIssueReportRepository(db *sql.DB) *IssueReportRepository {
	return &IssueReportRepository{db: db}
}

func (r *IssueReportRepository) Create(ctx context.Context, report *domain.IssueReport) error {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO issue_reports (user_id, tracking_number, issue_type, description, status)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at`,
		report.UserID, report.TrackingNumber, report.IssueType,
		report.Description, report.Status,
	).Scan(&report.ID, &report.CreatedAt)
	if err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}
