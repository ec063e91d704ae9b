package templatemock

import (
	"context"
	"sync"

	"separation-engine/internal/domain/template"
)

// Repo is a function-backed mock that satisfies template.Repository.
// Unset functions keep the defaults in memory.
type Repo struct {
	GetFn  func(ctx context.Context) (*template.Defaults, error)
	SaveFn func(ctx context.Context, d *template.Defaults) error

	mu       sync.Mutex
	defaults template.Defaults
}

var _ template.Repository = (*Repo)(nil)

func New(d template.Defaults) *Repo { return &Repo{defaults: d} }

func (m *Repo) Get(ctx context.Context) (*template.Defaults, error) {
	if m.GetFn != nil {
		return m.GetFn(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	d := m.defaults
	return &d, nil
}

func (m *Repo) Save(ctx context.Context, d *template.Defaults) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, d)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaults = *d
	return nil
}
