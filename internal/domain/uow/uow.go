package uow

import (
	"context"

	"separation-engine/internal/domain/separation"
	"separation-engine/internal/domain/template"
)

type Repos struct {
	Cases     separation.Repository
	Templates template.Repository
}

type UnitOfWork interface {
	// plain tx
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// convenience: lock the employee's case first, then pass it in.
	// Returns separation.ErrNotFound when the employee has no case.
	WithinCaseTx(ctx context.Context, employeeID string, fn func(r Repos, c *separation.Case) error) error
}
