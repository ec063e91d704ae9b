package separation

import (
	"time"

	domain "separation-engine/internal/domain/separation"
)

// File is an uploaded binary with its original filename.
type File struct {
	Name    string
	Content []byte
}

func (f *File) empty() bool { return f == nil || len(f.Content) == 0 }

type SubmitResignationInput struct {
	EmployeeID string
	Type       domain.Type
	Letter     File
}

type ProvideExitFormsInput struct {
	EmployeeID string
	Clearance  *File
	Interview  *File
}

type SubmitExitDocumentInput struct {
	EmployeeID string
	Kind       domain.ExitKind
	File       File
}

type AttachFinalDocumentsInput struct {
	EmployeeID string
	Files      []File
}

type TerminateInput struct {
	EmployeeID string
	Document   *File
}

type SetTemplateDefaultsInput struct {
	Clearance *File
	Interview *File
}

// CaseDTO is a case plus what is derived from it for the caller.
type CaseDTO struct {
	*domain.Case
	Stage          domain.Stage `json:"stage"`
	AllowedActions []Action     `json:"allowed_actions"`
}

type ListInput struct {
	ResignationStatus *domain.ResignationStatus
	Completed         *bool
	Terminated        *bool
	ExpiresBefore     *time.Time
	Limit             int
	Offset            int
}
