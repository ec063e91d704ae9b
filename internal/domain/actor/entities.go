package actor

import (
	"errors"
	"time"
)

var ErrUnknownAccount = errors.New("account not found")

type Role string

const (
	RoleEmployee Role = "employee"
	RoleAgency   Role = "agency"
	RoleHR       Role = "hr"
)

// Account is a directory entry. For employees AgencyID names the agency that
// deployed them (empty for direct hires); for agency accounts it names the
// agency the account represents.
type Account struct {
	ID        uint64    `gorm:"primaryKey;column:id" json:"-"`
	AccountID string    `gorm:"size:64;uniqueIndex:ux_accounts_account_id" json:"account_id"`
	Name      string    `gorm:"size:255" json:"name"`
	Role      Role      `gorm:"size:16;index:idx_accounts_role" json:"role"`
	AgencyID  string    `gorm:"size:64;index:idx_accounts_agency" json:"agency_id,omitempty"`
	Deployed  bool      `json:"deployed"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Account) TableName() string { return "accounts" }

// Actor is the resolved caller of an operation.
type Actor struct {
	ID       string
	Role     Role
	AgencyID string
}

func (a Actor) IsHR() bool { return a.Role == RoleHR }

// ActsFor reports whether the actor may submit paperwork on the employee's behalf:
// the employee themself, or the agency that deployed them.
func (a Actor) ActsFor(employee *Account) bool {
	if employee == nil || employee.Role != RoleEmployee {
		return false
	}
	switch a.Role {
	case RoleEmployee:
		return a.ID == employee.AccountID
	case RoleAgency:
		return a.AgencyID != "" && employee.Deployed && a.AgencyID == employee.AgencyID
	}
	return false
}

func (acc Account) Actor() Actor {
	return Actor{ID: acc.AccountID, Role: acc.Role, AgencyID: acc.AgencyID}
}
