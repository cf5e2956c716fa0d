package sweeper

import (
	"context"
	"log"
	"math/rand"
	"sync/atomic"
	"time"

	"dealercrm/internal/domain"
	"dealercrm/internal/schedule"
)

// Summary reports what a single sweep run did.
type Summary struct {
	Companies       int `json:"companies"`
	CompaniesClosed int `json:"companies_closed"`
	Reassigned      int `json:"reassigned"`
	LostRaces       int `json:"lost_races"`
	Errors          int `json:"errors"`
}

// Service is the overdue-lead sweeper: it scans every company's new-leads
// queue and reassigns leads whose initial-contact SLA has elapsed, but only
// while the owning company is inside business hours. Per-entity failures
// are logged and skipped; the sweep is best effort.
type Service struct {
	companies CompanyRepository
	members   TeamMemberRepository
	leads     LeadRepository

	defaultLoc *time.Location
	running    atomic.Bool

	// injectable for tests
	now  func() time.Time
	intn func(n int) int
}

func NewService(
	companies CompanyRepository,
	members TeamMemberRepository,
	leads LeadRepository,
	defaultLoc *time.Location,
) *Service {
	if defaultLoc == nil {
		defaultLoc = time.UTC
	}
	return &Service{
		companies:  companies,
		members:    members,
		leads:      leads,
		defaultLoc: defaultLoc,
		now:        time.Now,
		intn:       rand.Intn,
	}
}

// Run executes one sweep. Only the companies list failing aborts the run;
// everything below that is caught, counted and skipped.
func (s *Service) Run(ctx context.Context) (Summary, error) {
	var sum Summary

	if !s.running.CompareAndSwap(false, true) {
		return sum, ErrAlreadyRunning
	}
	defer s.running.Store(false)

	companies, err := s.companies.GetAll(ctx)
	if err != nil {
		return sum, err
	}

	now := s.now()
	for i := range companies {
		company := &companies[i]
		sum.Companies++

		sched := schedule.Schedule{Hours: company.BusinessHours, Loc: s.locationFor(company)}
		if !sched.IsOpen(now) {
			// SLA clocks pause while the company is closed: nothing is
			// evaluated this run, however overdue the leads are.
			sum.CompaniesClosed++
			continue
		}

		s.sweepCompany(ctx, company, now, &sum)
	}
	return sum, nil
}

func (s *Service) sweepCompany(ctx context.Context, company *domain.Company, now time.Time, sum *Summary) {
	salespeople, err := s.members.GetSalespeople(ctx, company.ID)
	if err != nil {
		log.Printf("sweeper company=%d error=%q", company.ID, err)
		sum.Errors++
		return
	}

	stage, hasStage := company.StageByName(domain.StageNewLeads)

	for _, sp := range salespeople {
		if sp.Deadlines == nil {
			continue
		}
		policy := sp.Deadlines.InitialContact
		if !policy.AutoReassign || policy.Minutes <= 0 {
			continue
		}
		if !hasStage {
			continue
		}

		// Overdue is wall-clock elapsed since creation, on purpose; only
		// the evaluation moment is business-hours gated above.
		limit := now.Add(-time.Duration(policy.Minutes) * time.Minute)
		overdue, err := s.leads.FindOverdue(ctx, sp.ID, stage.ID, limit)
		if err != nil {
			log.Printf("sweeper company=%d salesperson=%d error=%q", company.ID, sp.ID, err)
			sum.Errors++
			continue
		}
		if len(overdue) == 0 || len(salespeople) <= 1 {
			continue
		}

		for i := range overdue {
			lead := overdue[i]
			target, ok := s.pickTarget(policy, sp.ID, salespeople)
			if !ok {
				continue
			}

			lead.MarkReassigned(sp.ID, target, now, domain.ReasonInitialContactMissed)
			moved, err := s.leads.Reassign(ctx, lead.ID, sp.ID, stage.ID, target, lead.Details)
			if err != nil {
				log.Printf("sweeper company=%d lead=%d error=%q", company.ID, lead.ID, err)
				sum.Errors++
				continue
			}
			if !moved {
				// A concurrent run or a pipeline action got there first.
				sum.LostRaces++
				continue
			}
			sum.Reassigned++
			log.Printf("sweeper company=%d lead=%d reassigned from=%d to=%d", company.ID, lead.ID, sp.ID, target)
		}
	}
}

// pickTarget resolves the reassignment target per the salesperson's policy.
// A missing target, or one equal to the current owner, is a silent no-op.
func (s *Service) pickTarget(policy domain.DeadlinePolicy, ownerID int64, team []domain.TeamMember) (int64, bool) {
	if policy.Mode == domain.ReassignSpecific {
		if policy.TargetID == nil || *policy.TargetID == ownerID {
			return 0, false
		}
		return *policy.TargetID, true
	}

	others := make([]int64, 0, len(team)-1)
	for _, tm := range team {
		if tm.ID != ownerID {
			others = append(others, tm.ID)
		}
	}
	if len(others) == 0 {
		return 0, false
	}
	return others[s.intn(len(others))], true
}

func (s *Service) locationFor(c *domain.Company) *time.Location {
	if c.Timezone == "" {
		return s.defaultLoc
	}
	return c.Location()
}
