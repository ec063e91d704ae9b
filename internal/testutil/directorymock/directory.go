package directorymock

import (
	"context"
	"sort"

	"separation-engine/internal/domain/actor"
)

// Directory is a function-backed mock of actor.Directory. Unset functions
// answer from Accounts.
type Directory struct {
	ResolveFn      func(ctx context.Context, accountID string) (*actor.Actor, error)
	EmployeeFn     func(ctx context.Context, employeeID string) (*actor.Account, error)
	HRRecipientsFn func(ctx context.Context) ([]string, error)

	Accounts map[string]actor.Account
}

var _ actor.Directory = (*Directory)(nil)

func New(accounts ...actor.Account) *Directory {
	d := &Directory{Accounts: map[string]actor.Account{}}
	for _, a := range accounts {
		d.Accounts[a.AccountID] = a
	}
	return d
}

func (d *Directory) Resolve(ctx context.Context, accountID string) (*actor.Actor, error) {
	if d.ResolveFn != nil {
		return d.ResolveFn(ctx, accountID)
	}
	acc, ok := d.Accounts[accountID]
	if !ok {
		return nil, actor.ErrUnknownAccount
	}
	a := acc.Actor()
	return &a, nil
}

func (d *Directory) Employee(ctx context.Context, employeeID string) (*actor.Account, error) {
	if d.EmployeeFn != nil {
		return d.EmployeeFn(ctx, employeeID)
	}
	acc, ok := d.Accounts[employeeID]
	if !ok || acc.Role != actor.RoleEmployee {
		return nil, actor.ErrUnknownAccount
	}
	return &acc, nil
}

func (d *Directory) HRRecipients(ctx context.Context) ([]string, error) {
	if d.HRRecipientsFn != nil {
		return d.HRRecipientsFn(ctx)
	}
	var out []string
	for id, acc := range d.Accounts {
		if acc.Role == actor.RoleHR {
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out, nil
}
