package separation

import (
	"context"
	"errors"
	"fmt"

	"separation-engine/internal/domain/actor"
	domain "separation-engine/internal/domain/separation"
)

type Action string

const (
	ActionSubmitResignation    Action = "submit_resignation"
	ActionApproveResignation   Action = "approve_resignation"
	ActionRevertApproval       Action = "revert_approval"
	ActionInitiateDismissal    Action = "initiate_dismissal"
	ActionProvideExitForms     Action = "provide_exit_forms"
	ActionSubmitClearance      Action = "submit_clearance"
	ActionSubmitInterview      Action = "submit_interview"
	ActionValidateClearance    Action = "validate_clearance"
	ActionValidateInterview    Action = "validate_interview"
	ActionRejectClearance      Action = "reject_clearance"
	ActionRejectInterview      Action = "reject_interview"
	ActionAttachFinalDocuments Action = "attach_final_documents"
	ActionMarkCompleted        Action = "mark_completed"
	ActionTerminate            Action = "terminate"
	ActionDeleteCase           Action = "delete_case"
	ActionViewCase             Action = "view_case"
	ActionListCases            Action = "list_cases"
	ActionManageTemplates      Action = "manage_templates"
)

var (
	submitters = []actor.Role{actor.RoleEmployee, actor.RoleAgency}
	hrOnly     = []actor.Role{actor.RoleHR}
	viewers    = []actor.Role{actor.RoleEmployee, actor.RoleAgency, actor.RoleHR}
)

// policy is the single (action -> roles) table every operation checks.
var policy = map[Action][]actor.Role{
	ActionSubmitResignation:    submitters,
	ActionSubmitClearance:      submitters,
	ActionSubmitInterview:      submitters,
	ActionApproveResignation:   hrOnly,
	ActionRevertApproval:       hrOnly,
	ActionInitiateDismissal:    hrOnly,
	ActionProvideExitForms:     hrOnly,
	ActionValidateClearance:    hrOnly,
	ActionValidateInterview:    hrOnly,
	ActionRejectClearance:      hrOnly,
	ActionRejectInterview:      hrOnly,
	ActionAttachFinalDocuments: hrOnly,
	ActionMarkCompleted:        hrOnly,
	ActionTerminate:            hrOnly,
	ActionDeleteCase:           hrOnly,
	ActionListCases:            hrOnly,
	ActionManageTemplates:      hrOnly,
	ActionViewCase:             viewers,
}

// caseActions are the transitions reported back as allowed actions, in display order.
var caseActions = []Action{
	ActionSubmitResignation, ActionApproveResignation, ActionRevertApproval,
	ActionProvideExitForms, ActionSubmitClearance, ActionSubmitInterview,
	ActionValidateClearance, ActionValidateInterview, ActionRejectClearance, ActionRejectInterview,
	ActionAttachFinalDocuments, ActionMarkCompleted, ActionTerminate, ActionDeleteCase,
}

func submitAction(k domain.ExitKind) Action {
	if k == domain.ExitInterview {
		return ActionSubmitInterview
	}
	return ActionSubmitClearance
}

func validateAction(k domain.ExitKind) Action {
	if k == domain.ExitInterview {
		return ActionValidateInterview
	}
	return ActionValidateClearance
}

func rejectAction(k domain.ExitKind) Action {
	if k == domain.ExitInterview {
		return ActionRejectInterview
	}
	return ActionRejectClearance
}

func permits(action Action, role actor.Role) bool {
	for _, r := range policy[action] {
		if r == role {
			return true
		}
	}
	return false
}

// guard maps an action to the case precondition it requires.
func guard(c *domain.Case, action Action) error {
	switch action {
	case ActionSubmitResignation:
		return c.CanSubmitResignation()
	case ActionApproveResignation:
		return c.CanApproveResignation()
	case ActionRevertApproval:
		return c.CanRevertApproval()
	case ActionInitiateDismissal:
		return c.CanInitiateDismissal()
	case ActionProvideExitForms:
		return c.CanProvideExitForms()
	case ActionSubmitClearance:
		return c.CanSubmitExitDocument(domain.ExitClearance)
	case ActionSubmitInterview:
		return c.CanSubmitExitDocument(domain.ExitInterview)
	case ActionValidateClearance, ActionRejectClearance:
		return c.CanReviewExitDocument(domain.ExitClearance)
	case ActionValidateInterview, ActionRejectInterview:
		return c.CanReviewExitDocument(domain.ExitInterview)
	case ActionAttachFinalDocuments:
		return c.CanAttachFinalDocuments()
	case ActionMarkCompleted:
		return c.CanComplete()
	case ActionTerminate:
		return c.CanTerminate()
	case ActionDeleteCase:
		return c.CanDelete()
	}
	return nil
}

// AllowedActions lists the transitions the role may take on the case right now.
func AllowedActions(c *domain.Case, role actor.Role) []Action {
	out := []Action{}
	if c == nil {
		return out
	}
	for _, a := range caseActions {
		if permits(a, role) && guard(c, a) == nil {
			out = append(out, a)
		}
	}
	return out
}

// authorize checks the role table, then that a non-HR actor acts for the
// employee who owns the case.
func (u *Usecase) authorize(ctx context.Context, a actor.Actor, action Action, employeeID string) error {
	if !permits(action, a.Role) {
		return fmt.Errorf("%w: role %q may not %s", domain.ErrUnauthorized, a.Role, action)
	}
	if a.IsHR() {
		return nil
	}
	if employeeID == "" {
		return fmt.Errorf("%w: no employee to act for", domain.ErrUnauthorized)
	}
	emp, err := u.directory.Employee(ctx, employeeID)
	switch {
	case errors.Is(err, actor.ErrUnknownAccount):
		return fmt.Errorf("%w: unknown employee %s", domain.ErrUnauthorized, employeeID)
	case err != nil:
		return fmt.Errorf("%w: resolve employee: %v", domain.ErrPersistenceFailure, err)
	}
	if !a.ActsFor(emp) {
		return fmt.Errorf("%w: %s %s may not act for employee %s", domain.ErrUnauthorized, a.Role, a.ID, employeeID)
	}
	return nil
}
