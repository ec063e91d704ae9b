package mysql

import (
	"context"

	"gorm.io/gorm"

	domain "separation-engine/internal/domain/separation"
	"separation-engine/internal/domain/uow"
)

type GormUoW struct{ db *gorm.DB }

func NewGormUoW(db *gorm.DB) *GormUoW { return &GormUoW{db: db} }

var _ uow.UnitOfWork = (*GormUoW)(nil)

func repos(tx *gorm.DB) uow.Repos {
	return uow.Repos{
		Cases:     &CaseRepository{db: tx},
		Templates: &TemplateRepository{db: tx},
	}
}

func (u *GormUoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(repos(tx))
	})
}

func (u *GormUoW) WithinCaseTx(ctx context.Context, employeeID string, fn func(r uow.Repos, c *domain.Case) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r := repos(tx)
		// lock the case row up-front to prevent races
		c, err := r.Cases.GetByEmployeeIDForUpdate(ctx, employeeID)
		if err != nil {
			return err
		}
		return fn(r, c)
	})
}
