package tradebook

import (
	"fmt"
	"os"
	"path/filepath"
)

// LoadAccount reads an account log file and rebuilds the account. The error
// wraps fs.ErrNotExist when the file does not exist, so callers can
// distinguish a missing log from a corrupt one.
func LoadAccount(path string, oracle PriceOracle, opts ...Option) (*Account, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open account log: %w", err)
	}
	defer f.Close()

	a, err := DecodeAccount(f, oracle, opts...)
	if err != nil {
		return nil, fmt.Errorf("cannot load account log %q: %w", path, err)
	}
	return a, nil
}

// SaveAccount writes the account's transaction log to a file, creating parent
// directories as needed. The whole log is rewritten, keeping the file in
// chronological order.
func SaveAccount(path string, a *Account) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("cannot create account log directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("cannot create account log: %w", err)
	}
	defer f.Close()

	if err := EncodeAccount(f, a); err != nil {
		return fmt.Errorf("cannot save account log %q: %w", path, err)
	}
	return f.Close()
}
