package sweeper

import (
	"context"
	"errors"
	"testing"
	"time"

	"dealercrm/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// Mock repositories
type MockCompanyRepository struct {
	mock.Mock
}

func (m *MockCompanyRepository) GetAll(ctx context.Context) ([]domain.Company, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Company), args.Error(1)
}

type MockTeamMemberRepository struct {
	mock.Mock
}

func (m *MockTeamMemberRepository) GetSalespeople(ctx context.Context, companyID int64) ([]domain.TeamMember, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TeamMember), args.Error(1)
}

type MockLeadRepository struct {
	mock.Mock
}

func (m *MockLeadRepository) FindOverdue(ctx context.Context, salespersonID, stageID int64, before time.Time) ([]domain.Lead, error) {
	args := m.Called(ctx, salespersonID, stageID, before)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Lead), args.Error(1)
}

func (m *MockLeadRepository) Reassign(ctx context.Context, leadID, fromSalespersonID, stageID, toSalespersonID int64, details map[string]any) (bool, error) {
	args := m.Called(ctx, leadID, fromSalespersonID, stageID, toSalespersonID, details)
	return args.Bool(0), args.Error(1)
}

// Monday 2026-01-05 10:00 UTC, inside the weekday open window below.
var sweepNow = time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC)

func weekdayHours() *domain.BusinessHours {
	days := make(map[time.Weekday]domain.DaySchedule)
	for wd := time.Monday; wd <= time.Friday; wd++ {
		days[wd] = domain.DaySchedule{Open: true, Start: "09:00", End: "18:00"}
	}
	return &domain.BusinessHours{Enabled: true, Days: days}
}

func testCompany(bh *domain.BusinessHours) domain.Company {
	return domain.Company{
		ID:       7,
		Name:     "Concessionaria Horizonte",
		Timezone: "UTC",
		PipelineStages: []domain.PipelineStage{
			{ID: 100, Name: domain.StageNewLeads, Order: 0},
			{ID: 101, Name: "Em Atendimento", Order: 1},
		},
		BusinessHours: bh,
	}
}

func salesperson(id int64, policy domain.DeadlinePolicy) domain.TeamMember {
	return domain.TeamMember{
		ID:        id,
		CompanyID: 7,
		Role:      domain.RoleSalesperson,
		Deadlines: &domain.DeadlineSettings{InitialContact: policy},
	}
}

func newTestService(companies *MockCompanyRepository, members *MockTeamMemberRepository, leads *MockLeadRepository) *Service {
	svc := NewService(companies, members, leads, time.UTC)
	svc.now = func() time.Time { return sweepNow }
	return svc
}

func TestRun_ClosedCompanyShortCircuits(t *testing.T) {
	companies := new(MockCompanyRepository)
	members := new(MockTeamMemberRepository)
	leads := new(MockLeadRepository)

	// Saturday-closed schedule evaluated on a Sunday.
	svc := newTestService(companies, members, leads)
	svc.now = func() time.Time { return time.Date(2026, 1, 4, 12, 0, 0, 0, time.UTC) }

	companies.On("GetAll", mock.Anything).Return([]domain.Company{testCompany(weekdayHours())}, nil)

	summary, err := svc.Run(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, 1, summary.CompaniesClosed)
	assert.Equal(t, 0, summary.Reassigned)
	members.AssertNotCalled(t, "GetSalespeople", mock.Anything, mock.Anything)
	leads.AssertNotCalled(t, "Reassign", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRun_OutsideOpenWindowShortCircuits(t *testing.T) {
	companies := new(MockCompanyRepository)
	members := new(MockTeamMemberRepository)
	leads := new(MockLeadRepository)

	svc := newTestService(companies, members, leads)
	svc.now = func() time.Time { return time.Date(2026, 1, 5, 20, 0, 0, 0, time.UTC) } // Monday 20:00

	companies.On("GetAll", mock.Anything).Return([]domain.Company{testCompany(weekdayHours())}, nil)

	summary, err := svc.Run(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, 1, summary.CompaniesClosed)
	members.AssertNotCalled(t, "GetSalespeople", mock.Anything, mock.Anything)
}

func TestRun_SpecificTargetReassignsExactly(t *testing.T) {
	companies := new(MockCompanyRepository)
	members := new(MockTeamMemberRepository)
	leads := new(MockLeadRepository)
	svc := newTestService(companies, members, leads)

	target := int64(2)
	team := []domain.TeamMember{
		salesperson(1, domain.DeadlinePolicy{
			Minutes: 30, AutoReassign: true,
			Mode: domain.ReassignSpecific, TargetID: &target,
		}),
		salesperson(2, domain.DeadlinePolicy{}),
	}
	overdue := []domain.Lead{
		{ID: 500, CompanyID: 7, SalespersonID: 1, StageID: 100, CreatedAt: sweepNow.Add(-2 * time.Hour)},
		{ID: 501, CompanyID: 7, SalespersonID: 1, StageID: 100, CreatedAt: sweepNow.Add(-time.Hour)},
	}

	companies.On("GetAll", mock.Anything).Return([]domain.Company{testCompany(weekdayHours())}, nil)
	members.On("GetSalespeople", mock.Anything, int64(7)).Return(team, nil)
	limit := sweepNow.Add(-30 * time.Minute)
	leads.On("FindOverdue", mock.Anything, int64(1), int64(100), limit).Return(overdue, nil)
	leads.On("FindOverdue", mock.Anything, int64(2), int64(100), mock.Anything).Return([]domain.Lead{}, nil).Maybe()
	leads.On("Reassign", mock.Anything, int64(500), int64(1), int64(100), target, mock.Anything).Return(true, nil)
	leads.On("Reassign", mock.Anything, int64(501), int64(1), int64(100), target, mock.Anything).Return(true, nil)

	summary, err := svc.Run(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, 2, summary.Reassigned)
	leads.AssertExpectations(t)
}

func TestRun_ReassignWritesAuditDetails(t *testing.T) {
	companies := new(MockCompanyRepository)
	members := new(MockTeamMemberRepository)
	leads := new(MockLeadRepository)
	svc := newTestService(companies, members, leads)

	target := int64(2)
	team := []domain.TeamMember{
		salesperson(1, domain.DeadlinePolicy{
			Minutes: 30, AutoReassign: true,
			Mode: domain.ReassignSpecific, TargetID: &target,
		}),
		salesperson(2, domain.DeadlinePolicy{}),
	}
	overdue := []domain.Lead{{ID: 500, CompanyID: 7, SalespersonID: 1, StageID: 100}}

	companies.On("GetAll", mock.Anything).Return([]domain.Company{testCompany(weekdayHours())}, nil)
	members.On("GetSalespeople", mock.Anything, int64(7)).Return(team, nil)
	leads.On("FindOverdue", mock.Anything, int64(1), int64(100), mock.Anything).Return(overdue, nil)
	leads.On("FindOverdue", mock.Anything, int64(2), int64(100), mock.Anything).Return([]domain.Lead{}, nil).Maybe()

	var captured map[string]any
	leads.On("Reassign", mock.Anything, int64(500), int64(1), int64(100), target, mock.Anything).
		Run(func(args mock.Arguments) {
			captured = args.Get(5).(map[string]any)
		}).
		Return(true, nil)

	_, err := svc.Run(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, true, captured[domain.DetailReassignedBySystem])
	assert.Equal(t, int64(1), captured[domain.DetailReassignedFrom])
	assert.Equal(t, int64(2), captured[domain.DetailReassignedTo])
	assert.Equal(t, domain.ReasonInitialContactMissed, captured[domain.DetailReassignReason])
	assert.Equal(t, sweepNow.Format(time.RFC3339), captured[domain.DetailReassignedAt])
}

func TestRun_RandomTargetNeverCurrentOwner(t *testing.T) {
	for pick := 0; pick < 2; pick++ {
		companies := new(MockCompanyRepository)
		members := new(MockTeamMemberRepository)
		leads := new(MockLeadRepository)
		svc := newTestService(companies, members, leads)
		svc.intn = func(n int) int { return pick % n }

		team := []domain.TeamMember{
			salesperson(1, domain.DeadlinePolicy{Minutes: 30, AutoReassign: true, Mode: domain.ReassignRandom}),
			salesperson(2, domain.DeadlinePolicy{}),
			salesperson(3, domain.DeadlinePolicy{}),
		}
		overdue := []domain.Lead{{ID: 500, CompanyID: 7, SalespersonID: 1, StageID: 100}}

		companies.On("GetAll", mock.Anything).Return([]domain.Company{testCompany(weekdayHours())}, nil)
		members.On("GetSalespeople", mock.Anything, int64(7)).Return(team, nil)
		leads.On("FindOverdue", mock.Anything, int64(1), int64(100), mock.Anything).Return(overdue, nil)
		leads.On("FindOverdue", mock.Anything, mock.Anything, int64(100), mock.Anything).Return([]domain.Lead{}, nil).Maybe()

		expected := []int64{2, 3}[pick]
		leads.On("Reassign", mock.Anything, int64(500), int64(1), int64(100), expected, mock.Anything).Return(true, nil)

		summary, err := svc.Run(context.Background())

		assert.NoError(t, err)
		assert.Equal(t, 1, summary.Reassigned)
		leads.AssertExpectations(t)
	}
}

func TestRun_SingleSalespersonIsNoOp(t *testing.T) {
	companies := new(MockCompanyRepository)
	members := new(MockTeamMemberRepository)
	leads := new(MockLeadRepository)
	svc := newTestService(companies, members, leads)

	team := []domain.TeamMember{
		salesperson(1, domain.DeadlinePolicy{Minutes: 30, AutoReassign: true, Mode: domain.ReassignRandom}),
	}
	overdue := []domain.Lead{{ID: 500, CompanyID: 7, SalespersonID: 1, StageID: 100}}

	companies.On("GetAll", mock.Anything).Return([]domain.Company{testCompany(weekdayHours())}, nil)
	members.On("GetSalespeople", mock.Anything, int64(7)).Return(team, nil)
	leads.On("FindOverdue", mock.Anything, int64(1), int64(100), mock.Anything).Return(overdue, nil)

	summary, err := svc.Run(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, 0, summary.Reassigned)
	leads.AssertNotCalled(t, "Reassign", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRun_SpecificTargetEqualToOwnerIsNoOp(t *testing.T) {
	companies := new(MockCompanyRepository)
	members := new(MockTeamMemberRepository)
	leads := new(MockLeadRepository)
	svc := newTestService(companies, members, leads)

	self := int64(1)
	team := []domain.TeamMember{
		salesperson(1, domain.DeadlinePolicy{
			Minutes: 30, AutoReassign: true,
			Mode: domain.ReassignSpecific, TargetID: &self,
		}),
		salesperson(2, domain.DeadlinePolicy{}),
	}
	overdue := []domain.Lead{{ID: 500, CompanyID: 7, SalespersonID: 1, StageID: 100}}

	companies.On("GetAll", mock.Anything).Return([]domain.Company{testCompany(weekdayHours())}, nil)
	members.On("GetSalespeople", mock.Anything, int64(7)).Return(team, nil)
	leads.On("FindOverdue", mock.Anything, int64(1), int64(100), mock.Anything).Return(overdue, nil)
	leads.On("FindOverdue", mock.Anything, int64(2), int64(100), mock.Anything).Return([]domain.Lead{}, nil).Maybe()

	summary, err := svc.Run(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, 0, summary.Reassigned)
	leads.AssertNotCalled(t, "Reassign", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRun_PerLeadFailureDoesNotAbortBatch(t *testing.T) {
	companies := new(MockCompanyRepository)
	members := new(MockTeamMemberRepository)
	leads := new(MockLeadRepository)
	svc := newTestService(companies, members, leads)

	target := int64(2)
	team := []domain.TeamMember{
		salesperson(1, domain.DeadlinePolicy{
			Minutes: 30, AutoReassign: true,
			Mode: domain.ReassignSpecific, TargetID: &target,
		}),
		salesperson(2, domain.DeadlinePolicy{}),
	}
	overdue := []domain.Lead{
		{ID: 500, CompanyID: 7, SalespersonID: 1, StageID: 100},
		{ID: 501, CompanyID: 7, SalespersonID: 1, StageID: 100},
	}

	companies.On("GetAll", mock.Anything).Return([]domain.Company{testCompany(weekdayHours())}, nil)
	members.On("GetSalespeople", mock.Anything, int64(7)).Return(team, nil)
	leads.On("FindOverdue", mock.Anything, int64(1), int64(100), mock.Anything).Return(overdue, nil)
	leads.On("FindOverdue", mock.Anything, int64(2), int64(100), mock.Anything).Return([]domain.Lead{}, nil).Maybe()
	leads.On("Reassign", mock.Anything, int64(500), int64(1), int64(100), target, mock.Anything).Return(false, errors.New("connection reset"))
	leads.On("Reassign", mock.Anything, int64(501), int64(1), int64(100), target, mock.Anything).Return(true, nil)

	summary, err := svc.Run(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, 1, summary.Reassigned)
	assert.Equal(t, 1, summary.Errors)
}

func TestRun_LostRaceCountedNotErrored(t *testing.T) {
	companies := new(MockCompanyRepository)
	members := new(MockTeamMemberRepository)
	leads := new(MockLeadRepository)
	svc := newTestService(companies, members, leads)

	target := int64(2)
	team := []domain.TeamMember{
		salesperson(1, domain.DeadlinePolicy{
			Minutes: 30, AutoReassign: true,
			Mode: domain.ReassignSpecific, TargetID: &target,
		}),
		salesperson(2, domain.DeadlinePolicy{}),
	}
	overdue := []domain.Lead{{ID: 500, CompanyID: 7, SalespersonID: 1, StageID: 100}}

	companies.On("GetAll", mock.Anything).Return([]domain.Company{testCompany(weekdayHours())}, nil)
	members.On("GetSalespeople", mock.Anything, int64(7)).Return(team, nil)
	leads.On("FindOverdue", mock.Anything, int64(1), int64(100), mock.Anything).Return(overdue, nil)
	leads.On("FindOverdue", mock.Anything, int64(2), int64(100), mock.Anything).Return([]domain.Lead{}, nil).Maybe()
	leads.On("Reassign", mock.Anything, int64(500), int64(1), int64(100), target, mock.Anything).Return(false, nil)

	summary, err := svc.Run(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, 0, summary.Reassigned)
	assert.Equal(t, 1, summary.LostRaces)
	assert.Equal(t, 0, summary.Errors)
}

func TestRun_MissingNewLeadsStageSkipsSalesperson(t *testing.T) {
	companies := new(MockCompanyRepository)
	members := new(MockTeamMemberRepository)
	leads := new(MockLeadRepository)
	svc := newTestService(companies, members, leads)

	company := testCompany(weekdayHours())
	company.PipelineStages = []domain.PipelineStage{{ID: 101, Name: "Em Atendimento", Order: 0}}
	team := []domain.TeamMember{
		salesperson(1, domain.DeadlinePolicy{Minutes: 30, AutoReassign: true, Mode: domain.ReassignRandom}),
		salesperson(2, domain.DeadlinePolicy{}),
	}

	companies.On("GetAll", mock.Anything).Return([]domain.Company{company}, nil)
	members.On("GetSalespeople", mock.Anything, int64(7)).Return(team, nil)

	summary, err := svc.Run(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, 0, summary.Reassigned)
	leads.AssertNotCalled(t, "FindOverdue", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRun_CompanyListFailureAborts(t *testing.T) {
	companies := new(MockCompanyRepository)
	members := new(MockTeamMemberRepository)
	leads := new(MockLeadRepository)
	svc := newTestService(companies, members, leads)

	companies.On("GetAll", mock.Anything).Return(nil, errors.New("db down"))

	_, err := svc.Run(context.Background())
	assert.Error(t, err)
}

func TestRun_AlwaysOpenCompanySweptAtNight(t *testing.T) {
	companies := new(MockCompanyRepository)
	members := new(MockTeamMemberRepository)
	leads := new(MockLeadRepository)
	svc := newTestService(companies, members, leads)
	svc.now = func() time.Time { return time.Date(2026, 1, 4, 3, 0, 0, 0, time.UTC) } // Sunday 03:00

	company := testCompany(&domain.BusinessHours{Enabled: true, Is247: true})

	companies.On("GetAll", mock.Anything).Return([]domain.Company{company}, nil)
	members.On("GetSalespeople", mock.Anything, int64(7)).Return([]domain.TeamMember{}, nil)

	summary, err := svc.Run(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, 0, summary.CompaniesClosed)
	members.AssertExpectations(t)
}
