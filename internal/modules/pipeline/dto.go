package pipeline

import "time"

type CreateLeadRequest struct {
	CompanyID     int64  `json:"company_id" binding:"required" validate:"required"`
	SalespersonID int64  `json:"salesperson_id" binding:"required" validate:"required"`
	Name          string `json:"name" binding:"required" validate:"required"`
	Phone         string `json:"phone"`
	Source        string `json:"source"`
}

type MoveLeadRequest struct {
	StageID int64 `json:"stage_id" binding:"required" validate:"required"`
}

// ReassignmentEntry is one audit record read back from the lead details.
type ReassignmentEntry struct {
	From     int64     `json:"reassigned_from"`
	To       int64     `json:"reassigned_to"`
	At       time.Time `json:"reassigned_at"`
	Reason   string    `json:"reason"`
	BySystem bool      `json:"reassigned_by_system"`
}
