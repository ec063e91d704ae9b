package separation

import (
	"errors"
	"testing"
	"time"

	"separation-engine/internal/domain/document"
)

func validatedCase() *Case {
	c := NewCase("emp-1", TypeResignation)
	c.ResignationStatus = ResignationValidated
	return c
}

func TestStageOf(t *testing.T) {
	tests := []struct {
		name string
		mk   func() *Case
		want Stage
	}{
		{"nil case", func() *Case { return nil }, StagePending},
		{"new case", func() *Case { return NewCase("e", TypeResignation) }, StagePending},
		{"submitted", func() *Case {
			c := NewCase("e", TypeResignation)
			c.ResignationStatus = ResignationSubmitted
			return c
		}, StagePending},
		{"validated", validatedCase, StageClearanceUnlocked},
		{"one exit validated", func() *Case {
			c := validatedCase()
			c.ExitClearance.Status = DocumentValidated
			return c
		}, StageClearanceUnlocked},
		{"both exit validated", func() *Case {
			c := validatedCase()
			c.ExitClearance.Status = DocumentValidated
			c.ExitInterview.Status = DocumentValidated
			return c
		}, StageFinalReview},
		{"exit validated without resignation", func() *Case {
			c := NewCase("e", TypeResignation)
			c.ExitClearance.Status = DocumentValidated
			c.ExitInterview.Status = DocumentValidated
			return c
		}, StagePending},
		{"completed wins", func() *Case {
			c := NewCase("e", TypeResignation)
			c.Completed = true
			return c
		}, StageCompleted},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StageOf(tt.mk()); got != tt.want {
				t.Fatalf("StageOf = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStage_Before(t *testing.T) {
	order := []Stage{StagePending, StageClearanceUnlocked, StageFinalReview, StageCompleted}
	for i := range order {
		for j := range order {
			if got := order[i].Before(order[j]); got != (i < j) {
				t.Fatalf("%s.Before(%s) = %v", order[i], order[j], got)
			}
		}
	}
}

// Walks the happy path and checks the stage never moves backwards.
func TestStage_MonotonicAlongValidTransitions(t *testing.T) {
	now := time.Date(2025, 9, 6, 10, 0, 0, 0, time.UTC)
	ref := func(h string) document.Ref { return document.NewRef(h, h, now) }

	var c *Case
	if err := c.CanSubmitResignation(); err != nil {
		t.Fatalf("first submission: %v", err)
	}
	c = NewCase("emp-1", TypeResignation)
	prev := c.Stage()
	step := func(name string, guard error, apply func()) {
		t.Helper()
		if guard != nil {
			t.Fatalf("%s guard: %v", name, guard)
		}
		apply()
		if st := c.Stage(); st.Before(prev) {
			t.Fatalf("%s regressed stage %s -> %s", name, prev, st)
		} else {
			prev = st
		}
	}

	step("submit", c.CanSubmitResignation(), func() { c.SubmitResignation(ref("letter"), now) })
	step("approve", c.CanApproveResignation(), func() { c.ApproveResignation("hr-1", now) })
	step("clearance", c.CanSubmitExitDocument(ExitClearance), func() { c.SubmitExitDocument(ExitClearance, ref("c1"), now) })
	step("validate clearance", c.CanReviewExitDocument(ExitClearance), func() { c.ValidateExitDocument(ExitClearance, "hr-1", now) })
	step("interview", c.CanSubmitExitDocument(ExitInterview), func() { c.SubmitExitDocument(ExitInterview, ref("i1"), now) })
	step("validate interview", c.CanReviewExitDocument(ExitInterview), func() { c.ValidateExitDocument(ExitInterview, "hr-1", now) })
	step("final docs", c.CanAttachFinalDocuments(), func() { c.AppendFinalDocuments(ref("f1")) })
	step("complete", c.CanComplete(), func() { c.Complete(now) })
	step("terminate", c.CanTerminate(), func() { c.Terminate(document.Ref{}, now, AccountGracePeriod) })

	if prev != StageCompleted {
		t.Fatalf("final stage = %s, want completed", prev)
	}
}

func TestGuards(t *testing.T) {
	submitted := func() *Case {
		c := NewCase("e", TypeResignation)
		c.ResignationStatus = ResignationSubmitted
		return c
	}
	finalReview := func() *Case {
		c := validatedCase()
		c.ExitClearance.Status = DocumentValidated
		c.ExitInterview.Status = DocumentValidated
		return c
	}
	completed := func() *Case {
		c := finalReview()
		c.Completed = true
		return c
	}
	terminated := func() *Case {
		c := completed()
		c.Terminated = true
		return c
	}

	tests := []struct {
		name  string
		guard func() error
		want  error
	}{
		{"resubmit while submitted", func() error { return submitted().CanSubmitResignation() }, nil},
		{"resubmit after validation", func() error { return validatedCase().CanSubmitResignation() }, ErrInvalidStage},
		{"resubmit after completion", func() error { return completed().CanSubmitResignation() }, ErrAlreadyTerminal},
		{"approve submitted", func() error { return submitted().CanApproveResignation() }, nil},
		{"approve none", func() error { return NewCase("e", TypeResignation).CanApproveResignation() }, ErrInvalidStage},
		{"approve validated", func() error { return validatedCase().CanApproveResignation() }, ErrInvalidStage},
		{"revert validated", func() error { return validatedCase().CanRevertApproval() }, nil},
		{"revert submitted", func() error { return submitted().CanRevertApproval() }, ErrInvalidStage},
		{"revert with exit in progress", func() error {
			c := validatedCase()
			c.ExitInterview.Status = DocumentSubmitted
			return c.CanRevertApproval()
		}, ErrInvalidStage},
		{"revert dismissal", func() error {
			c := NewCase("e", TypeImmediate)
			c.Dismiss("hr", time.Now())
			return c.CanRevertApproval()
		}, ErrInvalidStage},
		{"exit before validation", func() error { return submitted().CanSubmitExitDocument(ExitClearance) }, ErrInvalidStage},
		{"exit none", func() error { return validatedCase().CanSubmitExitDocument(ExitClearance) }, nil},
		{"exit resubmission", func() error {
			c := validatedCase()
			c.ExitClearance.Status = DocumentResubmissionRequired
			return c.CanSubmitExitDocument(ExitClearance)
		}, nil},
		{"exit already validated", func() error {
			c := validatedCase()
			c.ExitClearance.Status = DocumentValidated
			return c.CanSubmitExitDocument(ExitClearance)
		}, ErrInvalidStage},
		{"exit other still open", func() error {
			c := validatedCase()
			c.ExitClearance.Status = DocumentValidated
			return c.CanSubmitExitDocument(ExitInterview)
		}, nil},
		{"review submitted", func() error {
			c := validatedCase()
			c.ExitInterview.Status = DocumentSubmitted
			return c.CanReviewExitDocument(ExitInterview)
		}, nil},
		{"review none", func() error { return validatedCase().CanReviewExitDocument(ExitInterview) }, ErrInvalidStage},
		{"final docs one validated", func() error {
			c := validatedCase()
			c.ExitClearance.Status = DocumentValidated
			return c.CanAttachFinalDocuments()
		}, ErrInvalidStage},
		{"final docs both validated", func() error { return finalReview().CanAttachFinalDocuments() }, nil},
		{"final docs after completion", func() error { return completed().CanAttachFinalDocuments() }, ErrAlreadyTerminal},
		{"complete final review", func() error { return finalReview().CanComplete() }, nil},
		{"complete early", func() error { return validatedCase().CanComplete() }, ErrInvalidStage},
		{"complete twice", func() error { return completed().CanComplete() }, ErrAlreadyTerminal},
		{"terminate completed", func() error { return completed().CanTerminate() }, nil},
		{"terminate early", func() error { return finalReview().CanTerminate() }, ErrInvalidStage},
		{"terminate twice", func() error { return terminated().CanTerminate() }, ErrAlreadyTerminal},
		{"delete submitted", func() error { return submitted().CanDelete() }, nil},
		{"delete validated", func() error { return validatedCase().CanDelete() }, ErrInvalidStage},
		{"forms on open case", func() error { return submitted().CanProvideExitForms() }, nil},
		{"forms on completed case", func() error { return completed().CanProvideExitForms() }, ErrAlreadyTerminal},
		{"dismiss without case", func() error { var c *Case; return c.CanInitiateDismissal() }, nil},
		{"dismiss existing", func() error { return submitted().CanInitiateDismissal() }, ErrInvalidStage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.guard()
			if tt.want == nil && err != nil {
				t.Fatalf("unexpected err: %v", err)
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Fatalf("want %v, got %v", tt.want, err)
			}
		})
	}
}
