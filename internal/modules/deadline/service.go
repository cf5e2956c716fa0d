package deadline

import (
	"context"
	"errors"
	"time"

	"dealercrm/internal/domain"
	"dealercrm/internal/schedule"

	"gorm.io/gorm"
)

// Service computes initial-contact deadlines for the countdown UI. All the
// arithmetic lives in the schedule package; this layer only resolves the
// lead's company schedule and salesperson SLA.
type Service struct {
	leads     LeadRepository
	companies CompanyRepository
	members   TeamMemberRepository

	defaultLoc *time.Location
	now        func() time.Time
}

func NewService(
	leads LeadRepository,
	companies CompanyRepository,
	members TeamMemberRepository,
	defaultLoc *time.Location,
) *Service {
	if defaultLoc == nil {
		defaultLoc = time.UTC
	}
	return &Service{
		leads:      leads,
		companies:  companies,
		members:    members,
		defaultLoc: defaultLoc,
		now:        time.Now,
	}
}

// LeadDeadline resolves the lead's initial-contact deadline and the open
// business time left until it.
func (s *Service) LeadDeadline(ctx context.Context, leadID int64) (*LeadDeadline, error) {
	lead, err := s.leads.GetByID(ctx, leadID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLeadNotFound
		}
		return nil, err
	}

	company, err := s.companies.GetByID(ctx, lead.CompanyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCompanyNotFound
		}
		return nil, err
	}

	now := s.now()
	sched := s.scheduleFor(company)

	out := &LeadDeadline{
		LeadID:        lead.ID,
		SalespersonID: lead.SalespersonID,
		CompanyOpen:   sched.IsOpen(now),
	}

	member, err := s.members.GetByID(ctx, lead.SalespersonID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if member == nil || member.Deadlines == nil || member.Deadlines.InitialContact.Minutes <= 0 {
		// No SLA configured: nothing to count down.
		return out, nil
	}

	minutes := member.Deadlines.InitialContact.Minutes
	due := sched.Deadline(lead.CreatedAt, time.Duration(minutes)*time.Minute)
	remaining := sched.Remaining(now, due)

	out.Configured = true
	out.SLAMinutes = minutes
	out.Deadline = &due
	out.RemainingMS = remaining.Milliseconds()
	out.Expired = remaining <= 0
	return out, nil
}

// CompanyOpen answers the business-hours predicate for "now".
func (s *Service) CompanyOpen(ctx context.Context, companyID int64) (*CompanyOpenResponse, error) {
	company, err := s.companies.GetByID(ctx, companyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCompanyNotFound
		}
		return nil, err
	}

	now := s.now()
	return &CompanyOpenResponse{
		CompanyID: company.ID,
		Open:      s.scheduleFor(company).IsOpen(now),
		CheckedAt: now,
	}, nil
}

func (s *Service) scheduleFor(c *domain.Company) schedule.Schedule {
	loc := s.defaultLoc
	if c.Timezone != "" {
		loc = c.Location()
	}
	return schedule.Schedule{Hours: c.BusinessHours, Loc: loc}
}
