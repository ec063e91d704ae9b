package separation

import (
	"testing"
	"time"

	"separation-engine/internal/domain/document"
)

func TestResolveForm_Precedence(t *testing.T) {
	now := time.Now()
	upload := document.NewRef("up", "up.pdf", now)
	current := ProvidedForm{Document: document.NewRef("cur", "cur.pdf", now)}
	def := document.NewRef("def", "def.pdf", now)

	tests := []struct {
		name     string
		upload   *document.Ref
		current  ProvidedForm
		def      document.Ref
		want     string
		template bool
		ok       bool
	}{
		{"upload beats everything", &upload, current, def, "up", false, true},
		{"case override beats default", nil, current, def, "cur", false, true},
		{"default fills empty slot", nil, ProvidedForm{}, def, "def", true, true},
		{"nothing available", nil, ProvidedForm{}, document.Ref{}, "", false, false},
		{"empty upload ignored", &document.Ref{}, ProvidedForm{}, def, "def", true, true},
		{"newer default replaces applied template", nil, ProvidedForm{Document: document.NewRef("old-def", "old.pdf", now), FromTemplate: true}, def, "def", true, true},
		{"applied template kept without default", nil, ProvidedForm{Document: document.NewRef("old-def", "old.pdf", now), FromTemplate: true}, document.Ref{}, "old-def", true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ResolveForm(tt.upload, tt.current, tt.def)
			if ok != tt.ok || got.Document.Handle != tt.want || got.FromTemplate != tt.template {
				t.Fatalf("ResolveForm = (%+v, %v), want handle %q template %v ok %v", got, ok, tt.want, tt.template, tt.ok)
			}
		})
	}
}
