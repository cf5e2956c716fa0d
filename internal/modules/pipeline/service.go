package pipeline

import (
	"context"
	"errors"
	"time"

	"dealercrm/internal/domain"
	"dealercrm/internal/repository"

	"gorm.io/gorm"
)

// Service is the thin lead-pipeline surface: intake into the new-leads
// stage, listing, and stage moves. Moving a lead out of the new-leads
// stage is what takes it off the sweeper's radar.
type Service struct {
	leads     LeadRepository
	companies CompanyRepository
	members   TeamMemberRepository

	now func() time.Time
}

func NewService(leads LeadRepository, companies CompanyRepository, members TeamMemberRepository) *Service {
	return &Service{
		leads:     leads,
		companies: companies,
		members:   members,
		now:       time.Now,
	}
}

// CreateLead lands a new lead in the company's new-leads stage with a
// server-side creation timestamp; the SLA clock starts here.
func (s *Service) CreateLead(ctx context.Context, req CreateLeadRequest) (*domain.Lead, error) {
	company, err := s.companies.GetByID(ctx, req.CompanyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCompanyNotFound
		}
		return nil, err
	}

	stage, ok := company.StageByName(domain.StageNewLeads)
	if !ok {
		return nil, ErrNoNewLeadsStage
	}

	member, err := s.members.GetByID(ctx, req.SalespersonID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWrongSalesperson
		}
		return nil, err
	}
	if member.CompanyID != company.ID || member.Role != domain.RoleSalesperson {
		return nil, ErrWrongSalesperson
	}

	now := s.now().UTC()
	lead := &domain.Lead{
		CompanyID:     company.ID,
		SalespersonID: member.ID,
		StageID:       stage.ID,
		Name:          req.Name,
		Phone:         req.Phone,
		Source:        req.Source,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.leads.Create(ctx, lead); err != nil {
		if errors.Is(err, repository.ErrDuplicateLead) {
			return nil, ErrDuplicateLead
		}
		return nil, err
	}
	return lead, nil
}

// ListLeads returns the company's leads, optionally restricted to one stage.
func (s *Service) ListLeads(ctx context.Context, companyID int64, stageID *int64, limit, offset int) ([]domain.Lead, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.leads.ListByCompany(ctx, companyID, stageID, limit, offset)
}

// MoveLead moves a lead to another stage of its own company's pipeline.
func (s *Service) MoveLead(ctx context.Context, leadID, stageID int64) (*domain.Lead, error) {
	lead, err := s.leads.GetByID(ctx, leadID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLeadNotFound
		}
		return nil, err
	}

	company, err := s.companies.GetByID(ctx, lead.CompanyID)
	if err != nil {
		return nil, err
	}

	found := false
	for _, st := range company.PipelineStages {
		if st.ID == stageID {
			found = true
			break
		}
	}
	if !found {
		return nil, ErrUnknownStage
	}

	if err := s.leads.UpdateStage(ctx, leadID, stageID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLeadNotFound
		}
		return nil, err
	}
	return s.leads.GetByID(ctx, leadID)
}

// ReassignmentHistory reads the audit trail off the lead details. The
// details carry the most recent reassignment only.
func (s *Service) ReassignmentHistory(ctx context.Context, leadID int64) ([]ReassignmentEntry, error) {
	lead, err := s.leads.GetByID(ctx, leadID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLeadNotFound
		}
		return nil, err
	}

	entry, ok := parseReassignment(lead.Details)
	if !ok {
		return []ReassignmentEntry{}, nil
	}
	return []ReassignmentEntry{entry}, nil
}

func parseReassignment(details map[string]any) (ReassignmentEntry, bool) {
	if details == nil {
		return ReassignmentEntry{}, false
	}
	from, okFrom := asInt64(details[domain.DetailReassignedFrom])
	to, okTo := asInt64(details[domain.DetailReassignedTo])
	if !okFrom || !okTo {
		return ReassignmentEntry{}, false
	}

	entry := ReassignmentEntry{From: from, To: to}
	if reason, ok := details[domain.DetailReassignReason].(string); ok {
		entry.Reason = reason
	}
	if bySystem, ok := details[domain.DetailReassignedBySystem].(bool); ok {
		entry.BySystem = bySystem
	}
	if raw, ok := details[domain.DetailReassignedAt].(string); ok {
		if at, err := time.Parse(time.RFC3339, raw); err == nil {
			entry.At = at
		}
	}
	return entry, true
}

// asInt64 copes with JSON round-tripped numbers arriving as float64.
func asInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	case float64:
		return int64(n), true
	default:
		return 0, false
	}
}
