package separation

import (
	"context"
	"time"
)

// AccountGracePeriod is how long a terminated employee keeps access.
const AccountGracePeriod = 30 * 24 * time.Hour

// ListFilter narrows the HR queue. Nil fields do not filter.
type ListFilter struct {
	ResignationStatus *ResignationStatus
	Completed         *bool
	Terminated        *bool
	ExpiresBefore     *time.Time
	Limit             int
	Offset            int
}

type Repository interface {
	// GetByEmployeeID returns ErrNotFound when the employee has no case.
	GetByEmployeeID(ctx context.Context, employeeID string) (*Case, error)
	// GetByEmployeeIDForUpdate locks the row for the surrounding transaction.
	GetByEmployeeIDForUpdate(ctx context.Context, employeeID string) (*Case, error)
	// Upsert writes the full case keyed by employee id.
	Upsert(ctx context.Context, c *Case) error
	Delete(ctx context.Context, employeeID string) error
	List(ctx context.Context, f ListFilter) ([]Case, error)
}
