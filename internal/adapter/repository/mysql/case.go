package mysql

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "separation-engine/internal/domain/separation"
)

type CaseRepository struct{ db *gorm.DB }

func NewCaseRepository(db *gorm.DB) *CaseRepository { return &CaseRepository{db: db} }

var _ domain.Repository = (*CaseRepository)(nil)

func (r *CaseRepository) GetByEmployeeID(ctx context.Context, employeeID string) (*domain.Case, error) {
	return r.first(r.db.WithContext(ctx), employeeID)
}

// GetByEmployeeIDForUpdate must run inside a transaction; the lock is held until it ends.
func (r *CaseRepository) GetByEmployeeIDForUpdate(ctx context.Context, employeeID string) (*domain.Case, error) {
	return r.first(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), employeeID)
}

func (r *CaseRepository) first(q *gorm.DB, employeeID string) (*domain.Case, error) {
	var out domain.Case
	err := q.Where("employee_id = ?", employeeID).First(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Upsert inserts a new case or writes every column of an existing one.
func (r *CaseRepository) Upsert(ctx context.Context, c *domain.Case) error {
	if c.ID == 0 {
		err := r.db.WithContext(ctx).Create(c).Error
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.ID = 0
			return fmt.Errorf("%w: %s", domain.ErrCaseExists, c.EmployeeID)
		}
		return err
	}
	return r.db.WithContext(ctx).Save(c).Error
}

// Delete hard-deletes so the unique employee index frees up for a new case.
func (r *CaseRepository) Delete(ctx context.Context, employeeID string) error {
	res := r.db.WithContext(ctx).Where("employee_id = ?", employeeID).Delete(&domain.Case{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *CaseRepository) List(ctx context.Context, f domain.ListFilter) ([]domain.Case, error) {
	q := r.db.WithContext(ctx).Model(&domain.Case{})
	if f.ResignationStatus != nil {
		q = q.Where("resignation_status = ?", *f.ResignationStatus)
	}
	// terminated is a reserved word in MySQL; clause.Eq quotes the column.
	if f.Completed != nil {
		q = q.Where(clause.Eq{Column: clause.Column{Name: "completed"}, Value: *f.Completed})
	}
	if f.Terminated != nil {
		q = q.Where(clause.Eq{Column: clause.Column{Name: "terminated"}, Value: *f.Terminated})
	}
	if f.ExpiresBefore != nil {
		q = q.Where("account_expires_at IS NOT NULL AND account_expires_at < ?", f.ExpiresBefore.UTC())
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}
	if f.Offset > 0 {
		q = q.Offset(f.Offset)
	}
	var out []domain.Case
	if err := q.Order("id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
