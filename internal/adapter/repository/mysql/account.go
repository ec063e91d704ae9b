package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"separation-engine/internal/domain/actor"
)

// AccountRepository is the gorm-backed actor.Directory.
type AccountRepository struct{ db *gorm.DB }

func NewAccountRepository(db *gorm.DB) *AccountRepository { return &AccountRepository{db: db} }

var _ actor.Directory = (*AccountRepository)(nil)

func (r *AccountRepository) byAccountID(ctx context.Context, accountID string) (*actor.Account, error) {
	var out actor.Account
	err := r.db.WithContext(ctx).Where("account_id = ?", accountID).First(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, actor.ErrUnknownAccount
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *AccountRepository) Resolve(ctx context.Context, accountID string) (*actor.Actor, error) {
	acc, err := r.byAccountID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	a := acc.Actor()
	return &a, nil
}

func (r *AccountRepository) Employee(ctx context.Context, employeeID string) (*actor.Account, error) {
	acc, err := r.byAccountID(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	if acc.Role != actor.RoleEmployee {
		return nil, actor.ErrUnknownAccount
	}
	return acc, nil
}

func (r *AccountRepository) HRRecipients(ctx context.Context) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).Model(&actor.Account{}).
		Where("role = ?", actor.RoleHR).
		Order("account_id ASC").
		Pluck("account_id", &ids).Error
	return ids, err
}

// Upsert inserts the account or updates it in place, keyed by account id.
func (r *AccountRepository) Upsert(ctx context.Context, acc *actor.Account) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "account_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "role", "agency_id", "deployed", "updated_at"}),
	}).Create(acc).Error
}
