package mysql

import (
	"context"
	"testing"
	"time"

	"separation-engine/internal/domain/document"
	"separation-engine/internal/domain/template"
)

func TestTemplateRepository_EmptyThenSave(t *testing.T) {
	repo := NewTemplateRepository(openTestDB(t))
	ctx := context.Background()

	d, err := repo.Get(ctx)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if d.ID != template.SingletonID || !d.Clearance.IsZero() || !d.Interview.IsZero() {
		t.Fatalf("empty defaults = %+v", d)
	}

	now := time.Now()
	d.Clearance = document.NewRef("templates/forms/exit-clearance/a-c.pdf", "c.pdf", now)
	d.UpdatedBy = "hr-1"
	if err := repo.Save(ctx, d); err != nil {
		t.Fatalf("Save insert: %v", err)
	}

	d.Interview = document.NewRef("templates/forms/exit-interview/b-i.pdf", "i.pdf", now)
	if err := repo.Save(ctx, d); err != nil {
		t.Fatalf("Save update: %v", err)
	}

	got, err := repo.Get(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if got.Clearance.Name != "c.pdf" || got.Interview.Name != "i.pdf" || got.UpdatedBy != "hr-1" {
		t.Fatalf("defaults = %+v", got)
	}

	var rows int64
	if err := repo.db.Model(&template.Defaults{}).Count(&rows).Error; err != nil {
		t.Fatal(err)
	}
	if rows != 1 {
		t.Fatalf("rows = %d, want a single row", rows)
	}
}
