package sweeper

import (
	"context"
	"time"

	"dealercrm/internal/domain"
)

// CompanyRepository loads the companies the sweep iterates.
type CompanyRepository interface {
	GetAll(ctx context.Context) ([]domain.Company, error)
}

// TeamMemberRepository loads a company's salespeople with their deadline
// settings.
type TeamMemberRepository interface {
	GetSalespeople(ctx context.Context, companyID int64) ([]domain.TeamMember, error)
}

// LeadRepository finds and reassigns overdue leads. Reassign must be
// conditional on the expected current owner and stage and report whether
// a row was actually updated.
type LeadRepository interface {
	FindOverdue(ctx context.Context, salespersonID, stageID int64, before time.Time) ([]domain.Lead, error)
	Reassign(ctx context.Context, leadID, fromSalespersonID, stageID, toSalespersonID int64, details map[string]any) (bool, error)
}
