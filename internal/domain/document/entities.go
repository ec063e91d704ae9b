package document

import (
	"path"
	"time"

	"separation-engine/pkg/id"
)

// Ref points at an object held by a Store. Values are never mutated in place;
// replacing a document means assigning a new Ref.
type Ref struct {
	Handle     string     `gorm:"size:512" json:"handle"`
	Name       string     `gorm:"size:255" json:"name"`
	UploadedAt *time.Time `json:"uploaded_at,omitempty"`
}

func NewRef(handle, name string, uploadedAt time.Time) Ref {
	at := uploadedAt.UTC()
	return Ref{Handle: handle, Name: name, UploadedAt: &at}
}

// IsZero reports whether the reference points at nothing.
func (r Ref) IsZero() bool { return r.Handle == "" }

// Slot names the place a document occupies on a case; it becomes part of the object path.
type Slot string

const (
	SlotResignationLetter Slot = "resignation-letter"
	SlotClearance         Slot = "exit-clearance"
	SlotInterview         Slot = "exit-interview"
	SlotClearanceForm     Slot = "forms/exit-clearance"
	SlotInterviewForm     Slot = "forms/exit-interview"
	SlotFinal             Slot = "final"
	SlotTermination       Slot = "termination"
)

// ObjectPath builds "separations/<employee>/<slot>/<id>-<filename>".
func ObjectPath(employeeID string, slot Slot, filename string) string {
	return path.Join("separations", employeeID, string(slot), id.ObjectName(filename))
}

// TemplatePath builds the path for a global exit-form template.
func TemplatePath(slot Slot, filename string) string {
	return path.Join("templates", string(slot), id.ObjectName(filename))
}
