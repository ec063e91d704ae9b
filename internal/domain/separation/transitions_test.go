package separation

import (
	"testing"
	"time"

	"separation-engine/internal/domain/document"
)

func TestRejectExitDocument_ClearsReference(t *testing.T) {
	now := time.Date(2025, 9, 6, 10, 0, 0, 0, time.UTC)
	c := validatedCase()
	doc := document.NewRef("separations/e/exit-clearance/a.pdf", "a.pdf", now)
	if replaced := c.SubmitExitDocument(ExitClearance, doc, now); !replaced.IsZero() {
		t.Fatalf("first submission replaced %+v", replaced)
	}

	cleared := c.RejectExitDocument(ExitClearance, "hr-1", now)
	if cleared.Handle != doc.Handle {
		t.Fatalf("cleared = %+v, want %+v", cleared, doc)
	}
	if !c.ExitClearance.Document.IsZero() || c.ExitClearance.Status != DocumentResubmissionRequired {
		t.Fatalf("clearance after reject = %+v", c.ExitClearance)
	}
	if c.ExitInterview.Status != DocumentNone {
		t.Fatalf("interview touched: %+v", c.ExitInterview)
	}
}

func TestTerminate_ExpiryIsThirtyDays(t *testing.T) {
	now := time.Date(2025, 1, 31, 23, 30, 0, 0, time.FixedZone("X", 3600))
	c := validatedCase()
	c.Completed = true
	c.Terminate(document.Ref{}, now, AccountGracePeriod)
	if !c.Terminated || c.TerminatedAt == nil || c.AccountExpiresAt == nil {
		t.Fatalf("termination fields missing: %+v", c)
	}
	if got := c.AccountExpiresAt.Sub(*c.TerminatedAt); got != 30*24*time.Hour {
		t.Fatalf("expiry window = %v", got)
	}
}

func TestProvideForm_DoesNotReleaseTemplateObjects(t *testing.T) {
	now := time.Now()
	c := validatedCase()
	tmpl := ProvidedForm{Document: document.NewRef("templates/forms/exit-clearance/t.pdf", "t.pdf", now), FromTemplate: true}
	if r := c.ProvideForm(ExitClearance, tmpl); !r.IsZero() {
		t.Fatalf("empty slot replaced %+v", r)
	}
	custom := ProvidedForm{Document: document.NewRef("separations/e/forms/exit-clearance/c.pdf", "c.pdf", now)}
	if r := c.ProvideForm(ExitClearance, custom); !r.IsZero() {
		t.Fatalf("template object must not be released, got %+v", r)
	}
	next := ProvidedForm{Document: document.NewRef("separations/e/forms/exit-clearance/d.pdf", "d.pdf", now)}
	if r := c.ProvideForm(ExitClearance, next); r.Handle != custom.Document.Handle {
		t.Fatalf("replaced = %+v, want custom form", r)
	}
}

func TestReferencesAndLookup(t *testing.T) {
	now := time.Now()
	c := validatedCase()
	c.ResignationLetter = document.NewRef("letter", "letter.pdf", now)
	c.HRProvidedForms.Clearance = ProvidedForm{Document: document.NewRef("tmpl", "t.pdf", now), FromTemplate: true}
	c.AppendFinalDocuments(document.NewRef("final-1", "a.pdf", now), document.NewRef("final-2", "b.pdf", now))

	refs := c.References()
	if len(refs) != 3 {
		t.Fatalf("references = %+v, want letter + 2 finals", refs)
	}
	for _, h := range []string{"letter", "tmpl", "final-2"} {
		if ref, ok := c.Lookup(h); !ok || ref.Handle != h {
			t.Fatalf("Lookup(%q) = %+v, %v", h, ref, ok)
		}
	}
	if ref, _ := c.Lookup("final-2"); ref.Name != "b.pdf" {
		t.Fatalf("final document name = %q", ref.Name)
	}
	if _, ok := c.Lookup(""); ok {
		t.Fatal("empty handle found")
	}
	if _, ok := c.Lookup("other"); ok {
		t.Fatal("unrelated handle found")
	}
}
