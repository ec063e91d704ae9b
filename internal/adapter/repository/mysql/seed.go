package mysql

import (
	"context"
	"fmt"
	"io"
	"os"

	json "github.com/goccy/go-json"

	"separation-engine/internal/domain/actor"
)

// DecodeAccounts reads a JSON array of accounts.
func DecodeAccounts(r io.Reader) ([]actor.Account, error) {
	var out []actor.Account
	if err := json.NewDecoder(r).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode accounts: %w", err)
	}
	for i, acc := range out {
		switch acc.Role {
		case actor.RoleEmployee, actor.RoleAgency, actor.RoleHR:
		default:
			return nil, fmt.Errorf("account %d (%q): unknown role %q", i, acc.AccountID, acc.Role)
		}
		if acc.AccountID == "" {
			return nil, fmt.Errorf("account %d: missing account_id", i)
		}
	}
	return out, nil
}

// SeedAccountsFile upserts every account in the file and returns how many were written.
func (r *AccountRepository) SeedAccountsFile(ctx context.Context, path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	accounts, err := DecodeAccounts(f)
	if err != nil {
		return 0, err
	}
	for i := range accounts {
		if err := r.Upsert(ctx, &accounts[i]); err != nil {
			return i, fmt.Errorf("upsert account %s: %w", accounts[i].AccountID, err)
		}
	}
	return len(accounts), nil
}
