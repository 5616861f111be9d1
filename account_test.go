package tradebook

import (
	"errors"
	"testing"
	"time"
)

// testClock returns a deterministic clock that advances one minute per call.
func testClock(start time.Time) func() time.Time {
	now := start
	return func() time.Time {
		now = now.Add(time.Minute)
		return now
	}
}

func newTestAccount(t *testing.T, initial Money) *Account {
	t.Helper()
	a, err := New(initial, DefaultPrices(), WithClock(testClock(time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC))))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return a
}

func TestAccount_TradingSession(t *testing.T) {
	a := newTestAccount(t, M(10000, "USD"))

	if _, err := a.Buy("AAPL", Q(30), time.Time{}); err != nil {
		t.Fatalf("Buy() error = %v", err)
	}
	if got, want := a.CashBalance(time.Time{}), M(5500, "USD"); !got.Equal(want) {
		t.Errorf("CashBalance() after buy = %s, want %s", got, want)
	}

	if _, err := a.Sell("AAPL", Q(10), time.Time{}); err != nil {
		t.Fatalf("Sell() error = %v", err)
	}
	if got, want := a.CashBalance(time.Time{}), M(7000, "USD"); !got.Equal(want) {
		t.Errorf("CashBalance() after sell = %s, want %s", got, want)
	}
	if got, want := a.Position("AAPL", time.Time{}), Q(20); !got.Equal(want) {
		t.Errorf("Position(AAPL) = %s, want %s", got, want)
	}

	if _, err := a.Deposit(M(2000, "USD"), time.Time{}); err != nil {
		t.Fatalf("Deposit() error = %v", err)
	}
	if got, want := a.CashBalance(time.Time{}), M(9000, "USD"); !got.Equal(want) {
		t.Errorf("CashBalance() after deposit = %s, want %s", got, want)
	}

	value, err := a.PortfolioValue(time.Time{})
	if err != nil {
		t.Fatalf("PortfolioValue() error = %v", err)
	}
	if want := M(12000, "USD"); !value.Equal(want) {
		t.Errorf("PortfolioValue() = %s, want %s", value, want)
	}

	pnl, err := a.ProfitLoss(time.Time{})
	if err != nil {
		t.Fatalf("ProfitLoss() error = %v", err)
	}
	if want := M(2000, "USD"); !pnl.Equal(want) {
		t.Errorf("ProfitLoss() = %s, want %s", pnl, want)
	}
}

func TestAccount_RoundTrips(t *testing.T) {
	t.Run("withdraw then deposit restores the balance", func(t *testing.T) {
		a := newTestAccount(t, M(10000, "USD"))
		before := a.CashBalance(time.Time{})

		if _, err := a.Withdraw(M(1234.56, "USD"), time.Time{}); err != nil {
			t.Fatalf("Withdraw() error = %v", err)
		}
		if _, err := a.Deposit(M(1234.56, "USD"), time.Time{}); err != nil {
			t.Fatalf("Deposit() error = %v", err)
		}
		if got := a.CashBalance(time.Time{}); !got.Equal(before) {
			t.Errorf("CashBalance() after round trip = %s, want %s", got, before)
		}
	})

	t.Run("buy then sell restores balance and holdings", func(t *testing.T) {
		a := newTestAccount(t, M(10000, "USD"))
		before := a.CashBalance(time.Time{})

		if _, err := a.Buy("TSLA", Q(2.5), time.Time{}); err != nil {
			t.Fatalf("Buy() error = %v", err)
		}
		if _, err := a.Sell("TSLA", Q(2.5), time.Time{}); err != nil {
			t.Fatalf("Sell() error = %v", err)
		}
		if got := a.CashBalance(time.Time{}); !got.Equal(before) {
			t.Errorf("CashBalance() after round trip = %s, want %s", got, before)
		}
		if got := a.Position("TSLA", time.Time{}); !got.IsZero() {
			t.Errorf("Position(TSLA) after round trip = %s, want 0", got)
		}
	})
}

func TestNew(t *testing.T) {
	t.Run("records the initial deposit", func(t *testing.T) {
		a := newTestAccount(t, M(10000, "USD"))
		if got, want := a.InitialDeposit(), M(10000, "USD"); !got.Equal(want) {
			t.Errorf("InitialDeposit() = %s, want %s", got, want)
		}
		if got, want := a.CashBalance(time.Time{}), M(10000, "USD"); !got.Equal(want) {
			t.Errorf("CashBalance() = %s, want %s", got, want)
		}
		pnl, err := a.ProfitLoss(time.Time{})
		if err != nil {
			t.Fatalf("ProfitLoss() error = %v", err)
		}
		if !pnl.IsZero() {
			t.Errorf("ProfitLoss() of a fresh account = %s, want zero", pnl)
		}
	})

	t.Run("defaults the currency", func(t *testing.T) {
		a, err := New(M(100, ""), DefaultPrices())
		if err != nil {
			t.Fatalf("New() error = %v", err)
		}
		if got := a.Currency(); got != "USD" {
			t.Errorf("Currency() = %q, want %q", got, "USD")
		}
	})

	t.Run("rejects a non-positive deposit", func(t *testing.T) {
		for _, amount := range []Money{M(0, "USD"), M(-100, "USD")} {
			if _, err := New(amount, DefaultPrices()); !errors.Is(err, ErrInvalidQuantity) {
				t.Errorf("New(%s) error = %v, want ErrInvalidQuantity", amount, err)
			}
		}
	})

	t.Run("rejects a nil oracle", func(t *testing.T) {
		if _, err := New(M(100, "USD"), nil); err == nil {
			t.Error("New() with nil oracle succeeded, want error")
		}
	})

	t.Run("rejects an unknown currency", func(t *testing.T) {
		if _, err := New(M(100, "ZZZ"), DefaultPrices()); err == nil {
			t.Error("New() with unknown currency succeeded, want error")
		}
	})
}

func TestAccount_ErrorsLeaveStateUnchanged(t *testing.T) {
	testCases := []struct {
		name    string
		mutate  func(a *Account) error
		wantErr error
	}{
		{
			name:    "overdrawn withdrawal",
			mutate:  func(a *Account) error { _, err := a.Withdraw(M(20000, "USD"), time.Time{}); return err },
			wantErr: ErrInsufficientFunds,
		},
		{
			name:    "non-positive withdrawal",
			mutate:  func(a *Account) error { _, err := a.Withdraw(M(0, "USD"), time.Time{}); return err },
			wantErr: ErrInvalidQuantity,
		},
		{
			name:    "non-positive deposit",
			mutate:  func(a *Account) error { _, err := a.Deposit(M(-5, "USD"), time.Time{}); return err },
			wantErr: ErrInvalidQuantity,
		},
		{
			name:    "unaffordable purchase",
			mutate:  func(a *Account) error { _, err := a.Buy("GOOGL", Q(100), time.Time{}); return err },
			wantErr: ErrInsufficientFunds,
		},
		{
			name:    "unknown buy symbol",
			mutate:  func(a *Account) error { _, err := a.Buy("WHAT", Q(1), time.Time{}); return err },
			wantErr: ErrInvalidSymbol,
		},
		{
			name:    "non-positive buy quantity",
			mutate:  func(a *Account) error { _, err := a.Buy("AAPL", Q(0), time.Time{}); return err },
			wantErr: ErrInvalidQuantity,
		},
		{
			name:    "oversold position",
			mutate:  func(a *Account) error { _, err := a.Sell("AAPL", Q(99), time.Time{}); return err },
			wantErr: ErrInsufficientHoldings,
		},
		{
			name:    "selling a symbol never bought",
			mutate:  func(a *Account) error { _, err := a.Sell("TSLA", Q(1), time.Time{}); return err },
			wantErr: ErrInsufficientHoldings,
		},
		{
			name:    "non-positive sell quantity",
			mutate:  func(a *Account) error { _, err := a.Sell("AAPL", Q(-3), time.Time{}); return err },
			wantErr: ErrInvalidQuantity,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			a := newTestAccount(t, M(10000, "USD"))
			if _, err := a.Buy("AAPL", Q(10), time.Time{}); err != nil {
				t.Fatalf("Buy() error = %v", err)
			}
			cash := a.CashBalance(time.Time{})
			pos := a.Position("AAPL", time.Time{})

			err := tc.mutate(a)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("error = %v, want %v", err, tc.wantErr)
			}
			if got := a.CashBalance(time.Time{}); !got.Equal(cash) {
				t.Errorf("CashBalance() after failed operation = %s, want %s", got, cash)
			}
			if got := a.Position("AAPL", time.Time{}); !got.Equal(pos) {
				t.Errorf("Position(AAPL) after failed operation = %s, want %s", got, pos)
			}
		})
	}
}

func TestAccount_AsOfQueries(t *testing.T) {
	a := newTestAccount(t, M(10000, "USD"))

	t1 := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)
	t2 := time.Date(2025, 6, 3, 10, 0, 0, 0, time.UTC)
	t3 := time.Date(2025, 6, 4, 10, 0, 0, 0, time.UTC)

	if _, err := a.Buy("AAPL", Q(30), t1); err != nil {
		t.Fatalf("Buy() error = %v", err)
	}
	if _, err := a.Sell("AAPL", Q(10), t2); err != nil {
		t.Fatalf("Sell() error = %v", err)
	}
	if _, err := a.Deposit(M(2000, "USD"), t3); err != nil {
		t.Fatalf("Deposit() error = %v", err)
	}

	testCases := []struct {
		name     string
		asOf     time.Time
		wantCash Money
		wantPos  Quantity
	}{
		{"before any trade", t1.Add(-time.Hour), M(10000, "USD"), Q(0)},
		{"on the buy instant", t1, M(5500, "USD"), Q(30)},
		{"between buy and sell", t1.Add(time.Hour), M(5500, "USD"), Q(30)},
		{"on the sell instant", t2, M(7000, "USD"), Q(20)},
		{"after the deposit", t3.Add(time.Hour), M(9000, "USD"), Q(20)},
		{"latest", time.Time{}, M(9000, "USD"), Q(20)},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := a.CashBalance(tc.asOf); !got.Equal(tc.wantCash) {
				t.Errorf("CashBalance(%s) = %s, want %s", tc.asOf, got, tc.wantCash)
			}
			if got := a.Position("AAPL", tc.asOf); !got.Equal(tc.wantPos) {
				t.Errorf("Position(AAPL, %s) = %s, want %s", tc.asOf, got, tc.wantPos)
			}
		})
	}
}

func TestAccount_BackdatedOverdraftRejected(t *testing.T) {
	a := newTestAccount(t, M(1000, "USD"))

	t1 := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)
	t2 := time.Date(2025, 6, 3, 10, 0, 0, 0, time.UTC)

	if _, err := a.Deposit(M(5000, "USD"), t2); err != nil {
		t.Fatalf("Deposit() error = %v", err)
	}

	// The latest balance covers it, but the balance on t1 does not.
	if _, err := a.Withdraw(M(3000, "USD"), t1); !errors.Is(err, ErrInsufficientFunds) {
		t.Errorf("backdated Withdraw() error = %v, want ErrInsufficientFunds", err)
	}
	if _, err := a.Buy("AAPL", Q(10), t1); !errors.Is(err, ErrInsufficientFunds) {
		t.Errorf("backdated Buy() error = %v, want ErrInsufficientFunds", err)
	}
}

func TestAccount_Holdings(t *testing.T) {
	a := newTestAccount(t, M(10000, "USD"))

	if _, err := a.Buy("AAPL", Q(10), time.Time{}); err != nil {
		t.Fatalf("Buy() error = %v", err)
	}
	if _, err := a.Buy("TSLA", Q(5), time.Time{}); err != nil {
		t.Fatalf("Buy() error = %v", err)
	}
	if _, err := a.Sell("TSLA", Q(5), time.Time{}); err != nil {
		t.Fatalf("Sell() error = %v", err)
	}

	holdings := a.Holdings(time.Time{})
	if len(holdings) != 1 {
		t.Fatalf("Holdings() = %v, want the closed TSLA position omitted", holdings)
	}
	if got, want := holdings["AAPL"], Q(10); !got.Equal(want) {
		t.Errorf("Holdings()[AAPL] = %s, want %s", got, want)
	}
}

func TestAccount_TransactionTimes(t *testing.T) {
	a := newTestAccount(t, M(10000, "USD"))

	oldest := a.OldestTransactionTime()
	if oldest.IsZero() {
		t.Fatal("OldestTransactionTime() is zero after the initial deposit")
	}

	later := oldest.Add(24 * time.Hour)
	if _, err := a.Deposit(M(100, "USD"), later); err != nil {
		t.Fatalf("Deposit() error = %v", err)
	}

	if got := a.OldestTransactionTime(); !got.Equal(oldest) {
		t.Errorf("OldestTransactionTime() = %s, want %s", got, oldest)
	}
	if got := a.NewestTransactionTime(); !got.Equal(later) {
		t.Errorf("NewestTransactionTime() = %s, want %s", got, later)
	}
}

func TestAccount_Transactions(t *testing.T) {
	a := newTestAccount(t, M(10000, "USD"))

	t1 := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)
	t2 := time.Date(2025, 6, 3, 10, 0, 0, 0, time.UTC)
	t3 := time.Date(2025, 6, 4, 10, 0, 0, 0, time.UTC)

	if _, err := a.Buy("AAPL", Q(10), t1); err != nil {
		t.Fatalf("Buy() error = %v", err)
	}
	if _, err := a.Buy("TSLA", Q(2), t2); err != nil {
		t.Fatalf("Buy() error = %v", err)
	}
	if _, err := a.Sell("AAPL", Q(5), t3); err != nil {
		t.Fatalf("Sell() error = %v", err)
	}

	count := func(filters ...func(Transaction) bool) int {
		n := 0
		for range a.Transactions(filters...) {
			n++
		}
		return n
	}

	if got := count(AcceptAll); got != 4 {
		t.Errorf("Transactions(AcceptAll) yields %d, want 4", got)
	}
	if got := count(ByKind(TxBuy)); got != 2 {
		t.Errorf("Transactions(ByKind(buy)) yields %d, want 2", got)
	}
	if got := count(BySymbol("AAPL")); got != 2 {
		t.Errorf("Transactions(BySymbol(AAPL)) yields %d, want 2", got)
	}
	// A transaction is accepted when any filter matches.
	if got := count(ByKind(TxSell), BySymbol("TSLA")); got != 2 {
		t.Errorf("Transactions(ByKind(sell), BySymbol(TSLA)) yields %d, want 2", got)
	}

	var history []Transaction
	for tx := range a.History(t1, t2) {
		history = append(history, tx)
	}
	if len(history) != 2 {
		t.Fatalf("History(t1, t2) yields %d transactions, want 2", len(history))
	}
	for i := 1; i < len(history); i++ {
		if history[i].When().Before(history[i-1].When()) {
			t.Errorf("History() out of chronological order at %d", i)
		}
	}
}
