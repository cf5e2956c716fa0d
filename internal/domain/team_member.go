package domain

import "time"

type MemberRole string

const (
	RoleManager     MemberRole = "manager"
	RoleSalesperson MemberRole = "salesperson"
	RoleAdmin       MemberRole = "admin"
)

type ReassignMode string

const (
	ReassignRandom   ReassignMode = "random"
	ReassignSpecific ReassignMode = "specific"
)

type TeamMember struct {
	ID           int64             `json:"id"`
	CompanyID    int64             `json:"company_id"`
	Name         string            `json:"name"`
	Email        string            `json:"email" validate:"required,email"`
	PasswordHash string            `json:"-"`
	Role         MemberRole        `json:"role"`
	Deadlines    *DeadlineSettings `json:"deadlines,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

// DeadlineSettings holds per-salesperson SLA configuration. FirstFeedback
// is carried in the data model but not enforced by the sweeper yet.
type DeadlineSettings struct {
	InitialContact DeadlinePolicy  `json:"initial_contact"`
	FirstFeedback  *DeadlinePolicy `json:"first_feedback,omitempty"`
}

type DeadlinePolicy struct {
	Minutes      int          `json:"minutes"`
	AutoReassign bool         `json:"auto_reassign_enabled"`
	Mode         ReassignMode `json:"reassignment_mode"`
	TargetID     *int64       `json:"reassignment_target_id,omitempty"`
}
