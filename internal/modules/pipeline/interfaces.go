package pipeline

import (
	"context"

	"dealercrm/internal/domain"
)

type LeadRepository interface {
	Create(ctx context.Context, l *domain.Lead) error
	GetByID(ctx context.Context, id int64) (*domain.Lead, error)
	ListByCompany(ctx context.Context, companyID int64, stageID *int64, limit, offset int) ([]domain.Lead, error)
	UpdateStage(ctx context.Context, leadID, stageID int64) error
}

type CompanyRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Company, error)
}

type TeamMemberRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.TeamMember, error)
}
