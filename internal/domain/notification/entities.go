package notification

import (
	"context"
	"time"

	"separation-engine/internal/domain/actor"
)

type Kind string

// Employee-facing kinds.
const (
	KindResignationValidated  Kind = "resignation_validated"
	KindExitFormsUploaded     Kind = "exit_forms_uploaded"
	KindClearanceValidated    Kind = "clearance_validated"
	KindInterviewValidated    Kind = "interview_validated"
	KindClearanceResubmission Kind = "clearance_resubmission"
	KindInterviewResubmission Kind = "interview_resubmission"
	KindSeparationCompleted   Kind = "separation_completed"
	KindAccountTermination    Kind = "account_termination"
)

// HR-facing kinds.
const (
	KindResignationSubmitted Kind = "separation_resignation_submitted"
	KindClearanceSubmitted   Kind = "separation_clearance_submitted"
	KindInterviewSubmitted   Kind = "separation_interview_submitted"
)

// Notification is one message for one recipient. A notification addressed to a
// role (RecipientRole set, RecipientID empty) is fanned out by the dispatcher to
// every account holding that role.
type Notification struct {
	ID             uint64     `gorm:"primaryKey;column:id" json:"-"`
	NotificationID string     `gorm:"size:32;uniqueIndex:ux_notifications_notification_id" json:"notification_id"`
	RecipientID    string     `gorm:"size:64;index:idx_notifications_recipient" json:"recipient_id"`
	RecipientRole  actor.Role `gorm:"-" json:"-"`
	Kind           Kind       `gorm:"size:64" json:"kind"`
	Title          string     `gorm:"size:255" json:"title"`
	Message        string     `gorm:"type:text" json:"message"`
	EmployeeID     string     `gorm:"size:64;index:idx_notifications_employee" json:"employee_id"`
	ReadAt         *time.Time `json:"read_at,omitempty"`
	CreatedAt      time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

func (Notification) TableName() string { return "notifications" }

// Dispatcher accepts notifications for delivery. Notify must not block on
// delivery and never reports failure to the caller.
type Dispatcher interface {
	Notify(ctx context.Context, n Notification)
}

// Sink delivers a single, already addressed notification.
type Sink interface {
	Deliver(ctx context.Context, n Notification) error
}
