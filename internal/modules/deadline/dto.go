package deadline

import "time"

// LeadDeadline is the countdown payload the pipeline UI polls. RemainingMS
// counts only open business time; a client re-requests it on its own
// interval.
type LeadDeadline struct {
	LeadID        int64      `json:"lead_id"`
	SalespersonID int64      `json:"salesperson_id"`
	Configured    bool       `json:"configured"`
	SLAMinutes    int        `json:"sla_minutes,omitempty"`
	Deadline      *time.Time `json:"deadline,omitempty"`
	RemainingMS   int64      `json:"remaining_ms"`
	Expired       bool       `json:"expired"`
	CompanyOpen   bool       `json:"company_open"`
}

type CompanyOpenResponse struct {
	CompanyID int64     `json:"company_id"`
	Open      bool      `json:"open"`
	CheckedAt time.Time `json:"checked_at"`
}
