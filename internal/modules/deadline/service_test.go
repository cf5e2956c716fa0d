package deadline

import (
	"context"
	"testing"
	"time"

	"dealercrm/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type MockLeadRepository struct {
	mock.Mock
}

func (m *MockLeadRepository) GetByID(ctx context.Context, id int64) (*domain.Lead, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Lead), args.Error(1)
}

type MockCompanyRepository struct {
	mock.Mock
}

func (m *MockCompanyRepository) GetByID(ctx context.Context, id int64) (*domain.Company, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Company), args.Error(1)
}

type MockTeamMemberRepository struct {
	mock.Mock
}

func (m *MockTeamMemberRepository) GetByID(ctx context.Context, id int64) (*domain.TeamMember, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TeamMember), args.Error(1)
}

func weekdayCompany() *domain.Company {
	days := make(map[time.Weekday]domain.DaySchedule)
	for wd := time.Monday; wd <= time.Friday; wd++ {
		days[wd] = domain.DaySchedule{Open: true, Start: "09:00", End: "18:00"}
	}
	return &domain.Company{
		ID:            7,
		Timezone:      "UTC",
		BusinessHours: &domain.BusinessHours{Enabled: true, Days: days},
	}
}

func newTestService(leads *MockLeadRepository, companies *MockCompanyRepository, members *MockTeamMemberRepository, now time.Time) *Service {
	svc := NewService(leads, companies, members, time.UTC)
	svc.now = func() time.Time { return now }
	return svc
}

func TestLeadDeadline_CountdownAcrossClosedHours(t *testing.T) {
	leads := new(MockLeadRepository)
	companies := new(MockCompanyRepository)
	members := new(MockTeamMemberRepository)

	// Lead created Monday 17:30 with a 90-minute SLA: deadline lands
	// Tuesday 10:00, and at creation the full 90 minutes remain.
	created := time.Date(2026, 1, 5, 17, 30, 0, 0, time.UTC)
	svc := newTestService(leads, companies, members, created)

	leads.On("GetByID", mock.Anything, int64(500)).Return(&domain.Lead{
		ID: 500, CompanyID: 7, SalespersonID: 1, StageID: 100, CreatedAt: created,
	}, nil)
	companies.On("GetByID", mock.Anything, int64(7)).Return(weekdayCompany(), nil)
	members.On("GetByID", mock.Anything, int64(1)).Return(&domain.TeamMember{
		ID: 1, CompanyID: 7, Role: domain.RoleSalesperson,
		Deadlines: &domain.DeadlineSettings{
			InitialContact: domain.DeadlinePolicy{Minutes: 90, AutoReassign: true, Mode: domain.ReassignRandom},
		},
	}, nil)

	dl, err := svc.LeadDeadline(context.Background(), 500)
	require.NoError(t, err)

	assert.True(t, dl.Configured)
	assert.Equal(t, 90, dl.SLAMinutes)
	require.NotNil(t, dl.Deadline)
	assert.Equal(t, time.Date(2026, 1, 6, 10, 0, 0, 0, time.UTC), *dl.Deadline)
	assert.Equal(t, int64(5_400_000), dl.RemainingMS)
	assert.False(t, dl.Expired)
	assert.True(t, dl.CompanyOpen)
}

func TestLeadDeadline_ExpiredLead(t *testing.T) {
	leads := new(MockLeadRepository)
	companies := new(MockCompanyRepository)
	members := new(MockTeamMemberRepository)

	created := time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)
	now := time.Date(2026, 1, 5, 12, 0, 0, 0, time.UTC)
	svc := newTestService(leads, companies, members, now)

	leads.On("GetByID", mock.Anything, int64(500)).Return(&domain.Lead{
		ID: 500, CompanyID: 7, SalespersonID: 1, CreatedAt: created,
	}, nil)
	companies.On("GetByID", mock.Anything, int64(7)).Return(weekdayCompany(), nil)
	members.On("GetByID", mock.Anything, int64(1)).Return(&domain.TeamMember{
		ID: 1, Deadlines: &domain.DeadlineSettings{
			InitialContact: domain.DeadlinePolicy{Minutes: 30},
		},
	}, nil)

	dl, err := svc.LeadDeadline(context.Background(), 500)
	require.NoError(t, err)

	assert.True(t, dl.Expired)
	assert.Equal(t, int64(0), dl.RemainingMS)
}

func TestLeadDeadline_NoPolicyConfigured(t *testing.T) {
	leads := new(MockLeadRepository)
	companies := new(MockCompanyRepository)
	members := new(MockTeamMemberRepository)
	svc := newTestService(leads, companies, members, time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC))

	leads.On("GetByID", mock.Anything, int64(500)).Return(&domain.Lead{
		ID: 500, CompanyID: 7, SalespersonID: 1,
	}, nil)
	companies.On("GetByID", mock.Anything, int64(7)).Return(weekdayCompany(), nil)
	members.On("GetByID", mock.Anything, int64(1)).Return(&domain.TeamMember{ID: 1}, nil)

	dl, err := svc.LeadDeadline(context.Background(), 500)
	require.NoError(t, err)

	assert.False(t, dl.Configured)
	assert.Nil(t, dl.Deadline)
	assert.Equal(t, int64(0), dl.RemainingMS)
}

func TestLeadDeadline_LeadNotFound(t *testing.T) {
	leads := new(MockLeadRepository)
	companies := new(MockCompanyRepository)
	members := new(MockTeamMemberRepository)
	svc := newTestService(leads, companies, members, time.Now())

	leads.On("GetByID", mock.Anything, int64(404)).Return(nil, gorm.ErrRecordNotFound)

	_, err := svc.LeadDeadline(context.Background(), 404)
	assert.ErrorIs(t, err, ErrLeadNotFound)
}

func TestCompanyOpen_RespectsSchedule(t *testing.T) {
	leads := new(MockLeadRepository)
	companies := new(MockCompanyRepository)
	members := new(MockTeamMemberRepository)

	companies.On("GetByID", mock.Anything, int64(7)).Return(weekdayCompany(), nil)

	open := newTestService(leads, companies, members, time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC))
	res, err := open.CompanyOpen(context.Background(), 7)
	require.NoError(t, err)
	assert.True(t, res.Open)

	closed := newTestService(leads, companies, members, time.Date(2026, 1, 4, 10, 0, 0, 0, time.UTC)) // Sunday
	res, err = closed.CompanyOpen(context.Background(), 7)
	require.NoError(t, err)
	assert.False(t, res.Open)
}
