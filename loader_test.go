package tradebook

import (
	"errors"
	"io/fs"
	"path/filepath"
	"testing"
	"time"
)

func TestSaveLoadAccount(t *testing.T) {
	a := newTestAccount(t, M(10000, "USD"))
	if _, err := a.Buy("AAPL", Q(30), time.Time{}); err != nil {
		t.Fatalf("Buy() error = %v", err)
	}

	path := filepath.Join(t.TempDir(), "books", "account.jsonl")
	if err := SaveAccount(path, a); err != nil {
		t.Fatalf("SaveAccount() error = %v", err)
	}

	loaded, err := LoadAccount(path, DefaultPrices())
	if err != nil {
		t.Fatalf("LoadAccount() error = %v", err)
	}
	if got, want := loaded.CashBalance(time.Time{}), a.CashBalance(time.Time{}); !got.Equal(want) {
		t.Errorf("CashBalance() = %s, want %s", got, want)
	}
	if got, want := loaded.Position("AAPL", time.Time{}), Q(30); !got.Equal(want) {
		t.Errorf("Position(AAPL) = %s, want %s", got, want)
	}
}

func TestLoadAccount_Missing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope.jsonl")
	_, err := LoadAccount(path, DefaultPrices())
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("LoadAccount() error = %v, want fs.ErrNotExist", err)
	}
}
