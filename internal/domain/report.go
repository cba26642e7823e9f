package domain

import "time"

type IssueType string

const (
	IssueDamage IssueType = "damage"
	IssueLost   IssueType = "lost"
	IssueDelay  IssueType = "delay"
	IssueOther  IssueType = "other"
)

func (t IssueType) IsValid() bool {
	switch t {
	case IssueDamage, IssueLost, IssueDelay, IssueOther:
		return true
	}
	return false
}

type IssueReportStatus string

const IssueReportOpen IssueReportStatus = "open"

type IssueReport struct {
	ID             int64
	UserID         int64
	TrackingNumber string
	IssueType      IssueType
	Description    string
	Status         IssueReportStatus
	CreatedAt      time.Time
}
