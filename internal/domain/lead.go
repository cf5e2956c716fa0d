package domain

import "time"

// Keys written into Lead.Details by the automatic reassignment.
const (
	DetailReassignedBySystem = "reassigned_by_system"
	DetailReassignedFrom     = "reassigned_from"
	DetailReassignedTo       = "reassigned_to"
	DetailReassignedAt       = "reassigned_at"
	DetailReassignReason     = "reason"
)

// ReasonInitialContactMissed is the audit reason recorded when the sweeper
// moves a lead off a salesperson who missed the initial-contact SLA.
const ReasonInitialContactMissed = "Initial contact deadline missed."

type Lead struct {
	ID            int64          `json:"id"`
	CompanyID     int64          `json:"company_id"`
	SalespersonID int64          `json:"salesperson_id"`
	StageID       int64          `json:"stage_id"`
	Name          string         `json:"name"`
	Phone         string         `json:"phone,omitempty"`
	Source        string         `json:"source,omitempty"`
	Details       map[string]any `json:"details,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

// Reassignment is one audit entry extracted from Lead.Details.
type Reassignment struct {
	From     int64     `json:"reassigned_from"`
	To       int64     `json:"reassigned_to"`
	At       time.Time `json:"reassigned_at"`
	Reason   string    `json:"reason"`
	BySystem bool      `json:"reassigned_by_system"`
}

// MarkReassigned writes the reassignment audit trail onto the lead details.
func (l *Lead) MarkReassigned(from, to int64, at time.Time, reason string) {
	if l.Details == nil {
		l.Details = make(map[string]any)
	}
	l.Details[DetailReassignedBySystem] = true
	l.Details[DetailReassignedFrom] = from
	l.Details[DetailReassignedTo] = to
	l.Details[DetailReassignedAt] = at.Format(time.RFC3339)
	l.Details[DetailReassignReason] = reason
}
