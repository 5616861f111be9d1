package tradebook

import "testing"

func TestParseMoney(t *testing.T) {
	m, err := ParseMoney("1234.56", "USD")
	if err != nil {
		t.Fatalf("ParseMoney() error = %v", err)
	}
	if want := M(1234.56, "USD"); !m.Equal(want) {
		t.Errorf("ParseMoney() = %s, want %s", m, want)
	}

	if _, err := ParseMoney("abc", "USD"); err == nil {
		t.Error("ParseMoney() accepted a malformed amount")
	}
}

func TestMoney_Arithmetic(t *testing.T) {
	a := M(100, "USD")
	b := M(40, "USD")

	if got, want := a.Add(b), M(140, "USD"); !got.Equal(want) {
		t.Errorf("Add() = %s, want %s", got, want)
	}
	if got, want := a.Sub(b), M(60, "USD"); !got.Equal(want) {
		t.Errorf("Sub() = %s, want %s", got, want)
	}
	if got, want := a.Neg(), M(-100, "USD"); !got.Equal(want) {
		t.Errorf("Neg() = %s, want %s", got, want)
	}
	if got, want := M(150, "USD").Mul(Q(30)), M(4500, "USD"); !got.Equal(want) {
		t.Errorf("Mul() = %s, want %s", got, want)
	}
}

func TestMoney_WeakCurrency(t *testing.T) {
	// The empty currency adopts the other operand's currency.
	got := M(100, "").Add(M(40, "USD"))
	if got.Currency() != "USD" {
		t.Errorf("Add() currency = %q, want %q", got.Currency(), "USD")
	}

	defer func() {
		if recover() == nil {
			t.Error("Add() with mismatched currencies did not panic")
		}
	}()
	M(100, "USD").Add(M(40, "EUR"))
}

func TestMoney_String(t *testing.T) {
	testCases := []struct {
		m    Money
		want string
	}{
		{M(150, "USD"), "$150.00"},
		{M(1234.56, "USD"), "$1,234.56"},
		{M(-500, "USD"), "-$500.00"},
	}
	for _, tc := range testCases {
		if got := tc.m.String(); got != tc.want {
			t.Errorf("String(%v) = %q, want %q", tc.m, got, tc.want)
		}
	}
}

func TestMoney_SignedString(t *testing.T) {
	if got := M(0, "USD").SignedString(); got != "-" {
		t.Errorf("SignedString(0) = %q, want %q", got, "-")
	}
	if got := M(150, "USD").SignedString(); got != "+$150.00" {
		t.Errorf("SignedString(150) = %q, want %q", got, "+$150.00")
	}
}

func TestValidateCurrency(t *testing.T) {
	if err := ValidateCurrency("USD"); err != nil {
		t.Errorf("ValidateCurrency(USD) error = %v", err)
	}
	if err := ValidateCurrency("ZZZ"); err == nil {
		t.Error("ValidateCurrency(ZZZ) accepted an unknown code")
	}
}

func TestQuantity(t *testing.T) {
	q, err := ParseQuantity("2.5")
	if err != nil {
		t.Fatalf("ParseQuantity() error = %v", err)
	}
	if want := Q(2.5); !q.Equal(want) {
		t.Errorf("ParseQuantity() = %s, want %s", q, want)
	}

	// Exact decimals: buying then selling the same quantity cancels to zero.
	if got := Q(0.1).Add(Q(0.2)).Sub(Q(0.3)); !got.IsZero() {
		t.Errorf("0.1 + 0.2 - 0.3 = %s, want 0", got)
	}

	if got := Q(-3).SignedString(); got != "-3" {
		t.Errorf("SignedString(-3) = %q, want %q", got, "-3")
	}
	if got := Q(3).SignedString(); got != "+3" {
		t.Errorf("SignedString(3) = %q, want %q", got, "+3")
	}
	if got := Q(0).SignedString(); got != "-" {
		t.Errorf("SignedString(0) = %q, want %q", got, "-")
	}
}
