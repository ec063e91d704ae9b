package template

import (
	"context"
	"time"

	"separation-engine/internal/domain/document"
)

// SingletonID is the primary key of the only Defaults row.
const SingletonID uint64 = 1

// Defaults is the global pair of blank exit forms handed to every case that
// has no case-specific form.
type Defaults struct {
	ID        uint64       `gorm:"primaryKey;column:id;autoIncrement:false" json:"-"`
	Clearance document.Ref `gorm:"embedded;embeddedPrefix:clearance_" json:"clearance"`
	Interview document.Ref `gorm:"embedded;embeddedPrefix:interview_" json:"interview"`
	UpdatedBy string       `gorm:"size:64" json:"updated_by,omitempty"`
	UpdatedAt time.Time    `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Defaults) TableName() string { return "exit_form_templates" }

type Repository interface {
	// Get returns the stored defaults, or an empty Defaults when none were set.
	Get(ctx context.Context) (*Defaults, error)
	Save(ctx context.Context, d *Defaults) error
}
