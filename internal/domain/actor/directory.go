package actor

import "context"

// Directory resolves callers and case owners.
type Directory interface {
	// Resolve returns the actor behind an account id, or ErrUnknownAccount.
	Resolve(ctx context.Context, accountID string) (*Actor, error)
	// Employee returns the employee account a case belongs to, or ErrUnknownAccount.
	Employee(ctx context.Context, employeeID string) (*Account, error)
	// HRRecipients lists the account ids of every HR account.
	HRRecipients(ctx context.Context) ([]string, error)
}
