package separation

import (
	"fmt"
	"time"

	"separation-engine/internal/domain/document"
)

// Guards return nil when the transition is legal, otherwise an error wrapping
// ErrInvalidStage or ErrAlreadyTerminal. They never mutate the case.

func (c *Case) closed() error {
	if c.Terminated {
		return fmt.Errorf("%w: account already terminated", ErrAlreadyTerminal)
	}
	if c.Completed {
		return fmt.Errorf("%w: separation already completed", ErrAlreadyTerminal)
	}
	return nil
}

// CanSubmitResignation accepts a nil case (first submission).
func (c *Case) CanSubmitResignation() error {
	if c == nil {
		return nil
	}
	if err := c.closed(); err != nil {
		return err
	}
	if c.ResignationStatus == ResignationValidated {
		return fmt.Errorf("%w: resignation already validated", ErrInvalidStage)
	}
	return nil
}

// CanResubmitAs rejects a resubmission naming a type other than the stored
// one. An empty type keeps the stored value.
func (c *Case) CanResubmitAs(t Type) error {
	if c == nil || t == "" || t == c.Type {
		return nil
	}
	return fmt.Errorf("%w: case type is %q and cannot change to %q", ErrInvalidInput, c.Type, t)
}

func (c *Case) CanApproveResignation() error {
	if err := c.closed(); err != nil {
		return err
	}
	if c.ResignationStatus != ResignationSubmitted {
		return fmt.Errorf("%w: resignation status is %q, want %q", ErrInvalidStage, c.ResignationStatus, ResignationSubmitted)
	}
	return nil
}

// CanRevertApproval only allows reverting while neither exit sub-document has
// left "none", so no exit paperwork is ever orphaned behind a pending resignation.
func (c *Case) CanRevertApproval() error {
	if err := c.closed(); err != nil {
		return err
	}
	if c.ResignationStatus != ResignationValidated {
		return fmt.Errorf("%w: resignation is not validated", ErrInvalidStage)
	}
	if !c.ResignationLetterRequired {
		return fmt.Errorf("%w: dismissal cases have no resignation to revert", ErrInvalidStage)
	}
	if c.ExitClearance.Status != DocumentNone || c.ExitInterview.Status != DocumentNone {
		return fmt.Errorf("%w: exit documents already in progress", ErrInvalidStage)
	}
	return nil
}

func (c *Case) CanProvideExitForms() error {
	return c.closed()
}

func (c *Case) CanSubmitExitDocument(kind ExitKind) error {
	if err := c.closed(); err != nil {
		return err
	}
	if st := c.Stage(); st != StageClearanceUnlocked {
		return fmt.Errorf("%w: exit documents require stage %q, case is %q", ErrInvalidStage, StageClearanceUnlocked, st)
	}
	if c.Exit(kind).Status == DocumentValidated {
		return fmt.Errorf("%w: %s already validated", ErrInvalidStage, kind)
	}
	return nil
}

func (c *Case) CanReviewExitDocument(kind ExitKind) error {
	if err := c.closed(); err != nil {
		return err
	}
	if st := c.Exit(kind).Status; st != DocumentSubmitted {
		return fmt.Errorf("%w: %s status is %q, want %q", ErrInvalidStage, kind, st, DocumentSubmitted)
	}
	return nil
}

func (c *Case) CanAttachFinalDocuments() error {
	if err := c.closed(); err != nil {
		return err
	}
	if c.ExitClearance.Status != DocumentValidated || c.ExitInterview.Status != DocumentValidated {
		return fmt.Errorf("%w: both exit documents must be validated", ErrInvalidStage)
	}
	return nil
}

func (c *Case) CanComplete() error {
	if err := c.closed(); err != nil {
		return err
	}
	if st := c.Stage(); st != StageFinalReview {
		return fmt.Errorf("%w: completion requires stage %q, case is %q", ErrInvalidStage, StageFinalReview, st)
	}
	return nil
}

func (c *Case) CanTerminate() error {
	if c.Terminated {
		return fmt.Errorf("%w: account already terminated", ErrAlreadyTerminal)
	}
	if !c.Completed {
		return fmt.Errorf("%w: termination requires a completed separation", ErrInvalidStage)
	}
	return nil
}

func (c *Case) CanDelete() error {
	if c.ResignationStatus == ResignationValidated {
		return fmt.Errorf("%w: validated cases cannot be deleted", ErrInvalidStage)
	}
	return nil
}

// CanInitiateDismissal accepts only a nil case.
func (c *Case) CanInitiateDismissal() error {
	if c != nil {
		return fmt.Errorf("%w: a separation case already exists", ErrInvalidStage)
	}
	return nil
}

// Mutators assume the matching guard passed. Each returns the references it
// displaced so the caller can release them after the write commits.

// SubmitResignation never touches Type; it is fixed by NewCase.
func (c *Case) SubmitResignation(letter document.Ref, now time.Time) (replaced document.Ref) {
	replaced = c.ResignationLetter
	c.ResignationLetter = letter
	c.ResignationStatus = ResignationSubmitted
	c.ResignationLetterRequired = true
	c.ResignationSubmittedAt = utc(now)
	return replaced
}

func (c *Case) ApproveResignation(validator string, now time.Time) {
	c.ResignationStatus = ResignationValidated
	c.ResignationValidatedAt = utc(now)
	c.ResignationValidatedBy = validator
}

func (c *Case) RevertApproval() {
	c.ResignationStatus = ResignationSubmitted
	c.ResignationValidatedAt = nil
	c.ResignationValidatedBy = ""
}

// Dismiss opens the case directly at the clearance stage without a letter.
func (c *Case) Dismiss(hrID string, now time.Time) {
	c.Type = TypeImmediate
	c.ResignationLetterRequired = false
	c.ResignationStatus = ResignationValidated
	c.ResignationValidatedAt = utc(now)
	c.ResignationValidatedBy = hrID
}

// ProvideForm replaces a form slot. The previous document is returned only
// when the case owned it.
func (c *Case) ProvideForm(kind ExitKind, form ProvidedForm) (replaced document.Ref) {
	slot := c.Form(kind)
	if slot.Document.Handle != form.Document.Handle && !slot.FromTemplate {
		replaced = slot.Document
	}
	*slot = form
	return replaced
}

func (c *Case) SubmitExitDocument(kind ExitKind, doc document.Ref, now time.Time) (replaced document.Ref) {
	sub := c.Exit(kind)
	replaced = sub.Document
	sub.Document = doc
	sub.Status = DocumentSubmitted
	sub.SubmittedAt = utc(now)
	sub.ReviewedAt = nil
	sub.ReviewedBy = ""
	return replaced
}

func (c *Case) ValidateExitDocument(kind ExitKind, reviewer string, now time.Time) {
	sub := c.Exit(kind)
	sub.Status = DocumentValidated
	sub.ReviewedAt = utc(now)
	sub.ReviewedBy = reviewer
}

// RejectExitDocument clears the stored reference so the employee must upload again.
func (c *Case) RejectExitDocument(kind ExitKind, reviewer string, now time.Time) (cleared document.Ref) {
	sub := c.Exit(kind)
	cleared = sub.Document
	sub.Document = document.Ref{}
	sub.Status = DocumentResubmissionRequired
	sub.ReviewedAt = utc(now)
	sub.ReviewedBy = reviewer
	return cleared
}

func (c *Case) AppendFinalDocuments(docs ...document.Ref) {
	for _, d := range docs {
		c.FinalDocuments = append(c.FinalDocuments, FinalDocument{Name: d.Name, Handle: d.Handle, UploadedAt: d.UploadedAt})
	}
}

func (c *Case) Complete(now time.Time) {
	c.Completed = true
	c.CompletedAt = utc(now)
}

func (c *Case) Terminate(doc document.Ref, now time.Time, grace time.Duration) {
	c.Terminated = true
	c.TerminationDocument = doc
	c.TerminatedAt = utc(now)
	c.AccountExpiresAt = utc(now.Add(grace))
}

func utc(t time.Time) *time.Time {
	u := t.UTC()
	return &u
}
