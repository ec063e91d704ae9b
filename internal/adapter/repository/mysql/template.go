package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"separation-engine/internal/domain/template"
)

type TemplateRepository struct{ db *gorm.DB }

func NewTemplateRepository(db *gorm.DB) *TemplateRepository { return &TemplateRepository{db: db} }

var _ template.Repository = (*TemplateRepository)(nil)

func (r *TemplateRepository) Get(ctx context.Context) (*template.Defaults, error) {
	var out template.Defaults
	err := r.db.WithContext(ctx).First(&out, template.SingletonID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &template.Defaults{ID: template.SingletonID}, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Save always writes the singleton row.
func (r *TemplateRepository) Save(ctx context.Context, d *template.Defaults) error {
	d.ID = template.SingletonID
	return r.db.WithContext(ctx).Save(d).Error
}
