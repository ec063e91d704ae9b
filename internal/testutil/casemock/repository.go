package casemock

import (
	"context"
	"sort"
	"sync"

	domain "separation-engine/internal/domain/separation"
)

// Repo is a function-backed mock that satisfies domain.Repository.
// Unset functions fall through to an in-memory store, so tests only stub
// the calls they want to observe or break.
type Repo struct {
	GetByEmployeeIDFn          func(ctx context.Context, employeeID string) (*domain.Case, error)
	GetByEmployeeIDForUpdateFn func(ctx context.Context, employeeID string) (*domain.Case, error)
	UpsertFn                   func(ctx context.Context, c *domain.Case) error
	DeleteFn                   func(ctx context.Context, employeeID string) error
	ListFn                     func(ctx context.Context, f domain.ListFilter) ([]domain.Case, error)

	mu     sync.Mutex
	rows   map[string]domain.Case
	nextID uint64
}

var _ domain.Repository = (*Repo)(nil)

// New returns a mock pre-seeded with the given cases.
func New(seed ...*domain.Case) *Repo {
	m := &Repo{}
	for _, c := range seed {
		_ = m.store(c)
	}
	return m
}

func clone(c domain.Case) *domain.Case {
	cp := c
	cp.FinalDocuments = append(domain.FinalDocuments{}, c.FinalDocuments...)
	return &cp
}

func (m *Repo) store(c *domain.Case) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.rows == nil {
		m.rows = map[string]domain.Case{}
	}
	if c.ID == 0 {
		m.nextID++
		c.ID = m.nextID
	}
	m.rows[c.EmployeeID] = *clone(*c)
	return nil
}

func (m *Repo) get(employeeID string) (*domain.Case, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.rows[employeeID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return clone(c), nil
}

// Stored returns the persisted copy of a case, or nil.
func (m *Repo) Stored(employeeID string) *domain.Case {
	c, _ := m.get(employeeID)
	return c
}

func (m *Repo) GetByEmployeeID(ctx context.Context, employeeID string) (*domain.Case, error) {
	if m.GetByEmployeeIDFn != nil {
		return m.GetByEmployeeIDFn(ctx, employeeID)
	}
	return m.get(employeeID)
}

func (m *Repo) GetByEmployeeIDForUpdate(ctx context.Context, employeeID string) (*domain.Case, error) {
	if m.GetByEmployeeIDForUpdateFn != nil {
		return m.GetByEmployeeIDForUpdateFn(ctx, employeeID)
	}
	return m.get(employeeID)
}

func (m *Repo) Upsert(ctx context.Context, c *domain.Case) error {
	if m.UpsertFn != nil {
		return m.UpsertFn(ctx, c)
	}
	return m.store(c)
}

func (m *Repo) Delete(ctx context.Context, employeeID string) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, employeeID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.rows, employeeID)
	return nil
}

func (m *Repo) List(ctx context.Context, f domain.ListFilter) ([]domain.Case, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, f)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Case, 0, len(m.rows))
	for _, c := range m.rows {
		if f.ResignationStatus != nil && c.ResignationStatus != *f.ResignationStatus {
			continue
		}
		if f.Completed != nil && c.Completed != *f.Completed {
			continue
		}
		if f.Terminated != nil && c.Terminated != *f.Terminated {
			continue
		}
		if f.ExpiresBefore != nil && (c.AccountExpiresAt == nil || !c.AccountExpiresAt.Before(*f.ExpiresBefore)) {
			continue
		}
		out = append(out, *clone(c))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
