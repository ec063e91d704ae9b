package separation

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"separation-engine/internal/domain/actor"
	"separation-engine/internal/domain/document"
	domain "separation-engine/internal/domain/separation"
	"separation-engine/internal/domain/notification"
)

type nopDispatcher struct{}

func (nopDispatcher) Notify(context.Context, notification.Notification) {}

// Notifications are handed off after the write commits and detached from the
// request context so a finished request does not cancel delivery.

func (u *Usecase) notifyEmployee(ctx context.Context, employeeID string, kind notification.Kind, title, message string) {
	u.notifier.Notify(context.WithoutCancel(ctx), notification.Notification{
		RecipientID: employeeID,
		EmployeeID:  employeeID,
		Kind:        kind,
		Title:       title,
		Message:     message,
	})
}

func (u *Usecase) notifyHR(ctx context.Context, employeeID string, kind notification.Kind, title, message string) {
	u.notifier.Notify(context.WithoutCancel(ctx), notification.Notification{
		RecipientRole: actor.RoleHR,
		EmployeeID:    employeeID,
		Kind:          kind,
		Title:         title,
		Message:       message,
	})
}

func exitLabel(k domain.ExitKind) string {
	if k == domain.ExitInterview {
		return "exit interview form"
	}
	return "exit clearance form"
}

func submittedKind(k domain.ExitKind) notification.Kind {
	if k == domain.ExitInterview {
		return notification.KindInterviewSubmitted
	}
	return notification.KindClearanceSubmitted
}

func validatedNotice(k domain.ExitKind) (notification.Kind, string, string) {
	if k == domain.ExitInterview {
		return notification.KindInterviewValidated, "Exit interview validated",
			"Your exit interview form has been validated by HR."
	}
	return notification.KindClearanceValidated, "Exit clearance validated",
		"Your exit clearance form has been validated by HR. Stage 3 (final documentation) is now unlocked."
}

func resubmissionNotice(k domain.ExitKind) (notification.Kind, string, string) {
	kind := notification.KindClearanceResubmission
	if k == domain.ExitInterview {
		kind = notification.KindInterviewResubmission
	}
	label := exitLabel(k)
	return kind, "Resubmission required",
		fmt.Sprintf("HR has requested that you resubmit your %s. Please upload a new signed copy.", label)
}

// release deletes objects nothing references anymore. Failures are logged only.
func (u *Usecase) release(ctx context.Context, employeeID string, refs ...document.Ref) {
	for _, r := range refs {
		if r.IsZero() {
			continue
		}
		if err := u.store.Delete(ctx, r.Handle); err != nil {
			u.log.Warn("failed to delete stored document",
				zap.String("employee_id", employeeID),
				zap.String("handle", r.Handle),
				zap.Error(err))
		}
	}
}
