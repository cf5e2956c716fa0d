package repository

import (
	"context"
	"encoding/json"
	"time"

	"dealercrm/internal/domain"

	"gorm.io/gorm"
)

type CompanyRepository struct {
	db *gorm.DB
}

func NewCompanyRepository(db *gorm.DB) *CompanyRepository {
	return &CompanyRepository{db: db}
}

type companyModel struct {
	ID             int64     `gorm:"column:id;primaryKey"`
	Name           string    `gorm:"column:name"`
	Timezone       string    `gorm:"column:timezone"`
	PipelineStages []byte    `gorm:"column:pipeline_stages;type:json"`
	BusinessHours  []byte    `gorm:"column:business_hours;type:json"`
	CreatedAt      time.Time `gorm:"column:created_at"`
	UpdatedAt      time.Time `gorm:"column:updated_at"`
}

func (companyModel) TableName() string { return "companies" }

func toDomainCompany(m companyModel) (*domain.Company, error) {
	c := &domain.Company{
		ID:        m.ID,
		Name:      m.Name,
		Timezone:  m.Timezone,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
	if len(m.PipelineStages) > 0 {
		if err := json.Unmarshal(m.PipelineStages, &c.PipelineStages); err != nil {
			return nil, err
		}
	}
	if len(m.BusinessHours) > 0 {
		var bh domain.BusinessHours
		if err := json.Unmarshal(m.BusinessHours, &bh); err != nil {
			return nil, err
		}
		c.BusinessHours = &bh
	}
	return c, nil
}

func toCompanyModel(c *domain.Company) (companyModel, error) {
	m := companyModel{
		ID:        c.ID,
		Name:      c.Name,
		Timezone:  c.Timezone,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
	if len(c.PipelineStages) > 0 {
		raw, err := json.Marshal(c.PipelineStages)
		if err != nil {
			return m, err
		}
		m.PipelineStages = raw
	}
	if c.BusinessHours != nil {
		raw, err := json.Marshal(c.BusinessHours)
		if err != nil {
			return m, err
		}
		m.BusinessHours = raw
	}
	return m, nil
}

func (r *CompanyRepository) Create(ctx context.Context, c *domain.Company) error {
	m, err := toCompanyModel(c)
	if err != nil {
		return err
	}
	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		return tx.Error
	}
	c.ID = m.ID
	c.CreatedAt = m.CreatedAt
	c.UpdatedAt = m.UpdatedAt
	return nil
}

func (r *CompanyRepository) GetByID(ctx context.Context, id int64) (*domain.Company, error) {
	var m companyModel
	tx := r.db.WithContext(ctx).First(&m, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainCompany(m)
}

// GetAll returns every company, pipeline stages and business hours included.
// The sweeper iterates this once per run.
func (r *CompanyRepository) GetAll(ctx context.Context) ([]domain.Company, error) {
	var rows []companyModel
	tx := r.db.WithContext(ctx).Order("id").Find(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}

	out := make([]domain.Company, 0, len(rows))
	for _, m := range rows {
		c, err := toDomainCompany(m)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, nil
}
