package separation

import (
	"fmt"
	"time"

	"separation-engine/internal/domain/document"
)

type Type string

const (
	TypeResignation Type = "resignation"
	TypeImmediate   Type = "immediate"
)

func ParseType(s string) (Type, error) {
	switch t := Type(s); t {
	case TypeResignation, TypeImmediate:
		return t, nil
	}
	return "", fmt.Errorf("%w: unknown separation type %q", ErrInvalidInput, s)
}

type ResignationStatus string

const (
	ResignationNone      ResignationStatus = "none"
	ResignationSubmitted ResignationStatus = "submitted"
	ResignationValidated ResignationStatus = "validated"
)

type DocumentStatus string

const (
	DocumentNone                 DocumentStatus = "none"
	DocumentSubmitted            DocumentStatus = "submitted"
	DocumentValidated            DocumentStatus = "validated"
	DocumentResubmissionRequired DocumentStatus = "resubmission_required"
)

// ExitKind selects one of the two exit sub-documents.
type ExitKind string

const (
	ExitClearance ExitKind = "clearance"
	ExitInterview ExitKind = "interview"
)

func ParseExitKind(s string) (ExitKind, error) {
	switch k := ExitKind(s); k {
	case ExitClearance, ExitInterview:
		return k, nil
	}
	return "", fmt.Errorf("%w: unknown exit document kind %q", ErrInvalidInput, s)
}

// ExitDocument is one independently gated exit sub-document.
type ExitDocument struct {
	Document    document.Ref   `gorm:"embedded;embeddedPrefix:doc_" json:"document"`
	Status      DocumentStatus `gorm:"size:32" json:"status"`
	SubmittedAt *time.Time     `json:"submitted_at,omitempty"`
	ReviewedAt  *time.Time     `json:"reviewed_at,omitempty"`
	ReviewedBy  string         `gorm:"size:64" json:"reviewed_by,omitempty"`
}

// ProvidedForm is a blank form HR hands out. FromTemplate marks a reference to
// the shared global template object, which the case does not own.
type ProvidedForm struct {
	Document     document.Ref `gorm:"embedded;embeddedPrefix:doc_" json:"document"`
	FromTemplate bool         `json:"from_template"`
}

type ProvidedForms struct {
	Clearance ProvidedForm `gorm:"embedded;embeddedPrefix:clearance_" json:"clearance"`
	Interview ProvidedForm `gorm:"embedded;embeddedPrefix:interview_" json:"interview"`
}

// Case is the per-employee separation record.
type Case struct {
	ID         uint64 `gorm:"primaryKey;column:id" json:"-"`
	EmployeeID string `gorm:"size:64;uniqueIndex:ux_separation_cases_employee_id" json:"employee_id"`
	Type       Type   `gorm:"size:16" json:"type"`

	ResignationLetter         document.Ref      `gorm:"embedded;embeddedPrefix:resignation_letter_" json:"resignation_letter"`
	ResignationStatus         ResignationStatus `gorm:"size:16;index:idx_separation_cases_resignation_status" json:"resignation_status"`
	ResignationLetterRequired bool              `json:"resignation_letter_required"`
	ResignationSubmittedAt    *time.Time        `json:"resignation_submitted_at,omitempty"`
	ResignationValidatedAt    *time.Time        `json:"resignation_validated_at,omitempty"`
	ResignationValidatedBy    string            `gorm:"size:64" json:"resignation_validated_by,omitempty"`

	ExitClearance   ExitDocument  `gorm:"embedded;embeddedPrefix:clearance_" json:"exit_clearance"`
	ExitInterview   ExitDocument  `gorm:"embedded;embeddedPrefix:interview_" json:"exit_interview"`
	HRProvidedForms ProvidedForms `gorm:"embedded;embeddedPrefix:forms_" json:"hr_provided_forms"`

	FinalDocuments FinalDocuments `gorm:"type:text" json:"final_documents"`

	Completed   bool       `gorm:"index:idx_separation_cases_completed" json:"completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	Terminated          bool         `json:"terminated"`
	TerminationDocument document.Ref `gorm:"embedded;embeddedPrefix:termination_doc_" json:"termination_document"`
	TerminatedAt        *time.Time   `json:"terminated_at,omitempty"`
	AccountExpiresAt    *time.Time   `gorm:"index:idx_separation_cases_account_expires_at" json:"account_expires_at,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Case) TableName() string { return "separation_cases" }

// NewCase returns an empty case for the employee with every status at its initial value.
func NewCase(employeeID string, t Type) *Case {
	return &Case{
		EmployeeID:                employeeID,
		Type:                      t,
		ResignationStatus:         ResignationNone,
		ResignationLetterRequired: true,
		ExitClearance:             ExitDocument{Status: DocumentNone},
		ExitInterview:             ExitDocument{Status: DocumentNone},
		FinalDocuments:            FinalDocuments{},
	}
}

// Exit returns the sub-document selected by kind.
func (c *Case) Exit(kind ExitKind) *ExitDocument {
	if kind == ExitInterview {
		return &c.ExitInterview
	}
	return &c.ExitClearance
}

// Form returns the HR-provided form slot matching kind.
func (c *Case) Form(kind ExitKind) *ProvidedForm {
	if kind == ExitInterview {
		return &c.HRProvidedForms.Interview
	}
	return &c.HRProvidedForms.Clearance
}

// References lists every stored document the case owns. Template-sourced
// forms are excluded since the global default owns them.
func (c *Case) References() []document.Ref {
	var out []document.Ref
	add := func(r document.Ref) {
		if !r.IsZero() {
			out = append(out, r)
		}
	}
	add(c.ResignationLetter)
	add(c.ExitClearance.Document)
	add(c.ExitInterview.Document)
	for _, f := range []ProvidedForm{c.HRProvidedForms.Clearance, c.HRProvidedForms.Interview} {
		if !f.FromTemplate {
			add(f.Document)
		}
	}
	for _, fd := range c.FinalDocuments {
		add(fd.Ref())
	}
	add(c.TerminationDocument)
	return out
}

// Lookup finds a document visible through this case by handle, including
// template-sourced forms.
func (c *Case) Lookup(handle string) (document.Ref, bool) {
	if handle == "" {
		return document.Ref{}, false
	}
	for _, f := range []ProvidedForm{c.HRProvidedForms.Clearance, c.HRProvidedForms.Interview} {
		if f.Document.Handle == handle {
			return f.Document, true
		}
	}
	for _, r := range c.References() {
		if r.Handle == handle {
			return r, true
		}
	}
	return document.Ref{}, false
}
