package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"dealercrm/internal/domain"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// ErrDuplicateLead is returned when a unique constraint on the leads table
// rejects an insert (same phone within a company).
var ErrDuplicateLead = errors.New("duplicate lead")

type LeadRepository struct {
	db *gorm.DB
}

func NewLeadRepository(db *gorm.DB) *LeadRepository {
	return &LeadRepository{db: db}
}

type leadModel struct {
	ID            int64     `gorm:"column:id;primaryKey"`
	CompanyID     int64     `gorm:"column:company_id;index"`
	SalespersonID int64     `gorm:"column:salesperson_id;index"`
	StageID       int64     `gorm:"column:stage_id;index"`
	Name          string    `gorm:"column:name"`
	Phone         string    `gorm:"column:phone"`
	Source        string    `gorm:"column:source"`
	Details       []byte    `gorm:"column:details;type:json"`
	CreatedAt     time.Time `gorm:"column:created_at"`
	UpdatedAt     time.Time `gorm:"column:updated_at"`
}

func (leadModel) TableName() string { return "leads" }

func toDomainLead(m leadModel) (*domain.Lead, error) {
	l := &domain.Lead{
		ID:            m.ID,
		CompanyID:     m.CompanyID,
		SalespersonID: m.SalespersonID,
		StageID:       m.StageID,
		Name:          m.Name,
		Phone:         m.Phone,
		Source:        m.Source,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
	if len(m.Details) > 0 {
		if err := json.Unmarshal(m.Details, &l.Details); err != nil {
			return nil, err
		}
	}
	return l, nil
}

func toLeadModel(l *domain.Lead) (leadModel, error) {
	m := leadModel{
		ID:            l.ID,
		CompanyID:     l.CompanyID,
		SalespersonID: l.SalespersonID,
		StageID:       l.StageID,
		Name:          l.Name,
		Phone:         l.Phone,
		Source:        l.Source,
		CreatedAt:     l.CreatedAt,
		UpdatedAt:     l.UpdatedAt,
	}
	if l.Details != nil {
		raw, err := json.Marshal(l.Details)
		if err != nil {
			return m, err
		}
		m.Details = raw
	}
	return m, nil
}

func (r *LeadRepository) Create(ctx context.Context, l *domain.Lead) error {
	m, err := toLeadModel(l)
	if err != nil {
		return err
	}
	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		var pgErr *pgconn.PgError
		if errors.As(tx.Error, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateLead
		}
		return tx.Error
	}
	l.ID = m.ID
	l.CreatedAt = m.CreatedAt
	l.UpdatedAt = m.UpdatedAt
	return nil
}

func (r *LeadRepository) GetByID(ctx context.Context, id int64) (*domain.Lead, error) {
	var m leadModel
	tx := r.db.WithContext(ctx).First(&m, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainLead(m)
}

// ListByCompany returns company leads, optionally filtered by stage.
func (r *LeadRepository) ListByCompany(ctx context.Context, companyID int64, stageID *int64, limit, offset int) ([]domain.Lead, error) {
	q := r.db.WithContext(ctx).Where("company_id = ?", companyID)
	if stageID != nil {
		q = q.Where("stage_id = ?", *stageID)
	}

	var rows []leadModel
	tx := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainLeads(rows)
}

// FindOverdue returns the leads still owned by the salesperson in the given
// stage whose created_at lies strictly before the wall-clock limit.
func (r *LeadRepository) FindOverdue(ctx context.Context, salespersonID, stageID int64, before time.Time) ([]domain.Lead, error) {
	var rows []leadModel
	tx := r.db.WithContext(ctx).
		Where("salesperson_id = ? AND stage_id = ? AND created_at < ?", salespersonID, stageID, before).
		Order("created_at").
		Find(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainLeads(rows)
}

// Reassign hands the lead to another salesperson, writing the audit details
// in the same statement. The update is conditional on the expected current
// owner and stage so that two overlapping sweep runs cannot both move the
// same lead; false means the lead changed hands underneath us.
func (r *LeadRepository) Reassign(ctx context.Context, leadID, fromSalespersonID, stageID, toSalespersonID int64, details map[string]any) (bool, error) {
	raw, err := json.Marshal(details)
	if err != nil {
		return false, err
	}

	tx := r.db.WithContext(ctx).Model(&leadModel{}).
		Where("id = ? AND salesperson_id = ? AND stage_id = ?", leadID, fromSalespersonID, stageID).
		Updates(map[string]any{
			"salesperson_id": toSalespersonID,
			"details":        raw,
			"updated_at":     time.Now().UTC(),
		})
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

// UpdateStage moves the lead to another pipeline stage. Leads moved out of
// the new-leads stage stop being sweeper candidates.
func (r *LeadRepository) UpdateStage(ctx context.Context, leadID, stageID int64) error {
	tx := r.db.WithContext(ctx).Model(&leadModel{}).
		Where("id = ?", leadID).
		Updates(map[string]any{
			"stage_id":   stageID,
			"updated_at": time.Now().UTC(),
		})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func toDomainLeads(rows []leadModel) ([]domain.Lead, error) {
	out := make([]domain.Lead, 0, len(rows))
	for _, m := range rows {
		l, err := toDomainLead(m)
		if err != nil {
			return nil, err
		}
		out = append(out, *l)
	}
	return out, nil
}
