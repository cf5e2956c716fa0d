package deadline

import (
	"context"

	"dealercrm/internal/domain"
)

type LeadRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Lead, error)
}

type CompanyRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Company, error)
}

type TeamMemberRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.TeamMember, error)
}
