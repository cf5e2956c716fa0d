package repository

import (
	"context"
	"encoding/json"
	"time"

	"dealercrm/internal/domain"

	"gorm.io/gorm"
)

type TeamMemberRepository struct {
	db *gorm.DB
}

func NewTeamMemberRepository(db *gorm.DB) *TeamMemberRepository {
	return &TeamMemberRepository{db: db}
}

type teamMemberModel struct {
	ID           int64     `gorm:"column:id;primaryKey"`
	CompanyID    int64     `gorm:"column:company_id;index"`
	Name         string    `gorm:"column:name"`
	Email        string    `gorm:"column:email;uniqueIndex"`
	PasswordHash string    `gorm:"column:password_hash"`
	Role         string    `gorm:"column:role"`
	Deadlines    []byte    `gorm:"column:deadlines;type:json"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

func (teamMemberModel) TableName() string { return "team_members" }

func toDomainTeamMember(m teamMemberModel) (*domain.TeamMember, error) {
	tm := &domain.TeamMember{
		ID:           m.ID,
		CompanyID:    m.CompanyID,
		Name:         m.Name,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		Role:         domain.MemberRole(m.Role),
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
	if len(m.Deadlines) > 0 {
		var ds domain.DeadlineSettings
		if err := json.Unmarshal(m.Deadlines, &ds); err != nil {
			return nil, err
		}
		tm.Deadlines = &ds
	}
	return tm, nil
}

func toTeamMemberModel(tm *domain.TeamMember) (teamMemberModel, error) {
	m := teamMemberModel{
		ID:           tm.ID,
		CompanyID:    tm.CompanyID,
		Name:         tm.Name,
		Email:        tm.Email,
		PasswordHash: tm.PasswordHash,
		Role:         string(tm.Role),
		CreatedAt:    tm.CreatedAt,
		UpdatedAt:    tm.UpdatedAt,
	}
	if tm.Deadlines != nil {
		raw, err := json.Marshal(tm.Deadlines)
		if err != nil {
			return m, err
		}
		m.Deadlines = raw
	}
	return m, nil
}

func (r *TeamMemberRepository) Create(ctx context.Context, tm *domain.TeamMember) error {
	m, err := toTeamMemberModel(tm)
	if err != nil {
		return err
	}
	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		return tx.Error
	}
	tm.ID = m.ID
	tm.CreatedAt = m.CreatedAt
	tm.UpdatedAt = m.UpdatedAt
	return nil
}

func (r *TeamMemberRepository) GetByID(ctx context.Context, id int64) (*domain.TeamMember, error) {
	var m teamMemberModel
	tx := r.db.WithContext(ctx).First(&m, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainTeamMember(m)
}

// GetSalespeople returns the company's members with the salesperson role,
// deadline settings included.
func (r *TeamMemberRepository) GetSalespeople(ctx context.Context, companyID int64) ([]domain.TeamMember, error) {
	var rows []teamMemberModel
	tx := r.db.WithContext(ctx).
		Where("company_id = ? AND role = ?", companyID, string(domain.RoleSalesperson)).
		Order("id").
		Find(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}

	out := make([]domain.TeamMember, 0, len(rows))
	for _, m := range rows {
		tm, err := toDomainTeamMember(m)
		if err != nil {
			return nil, err
		}
		out = append(out, *tm)
	}
	return out, nil
}
