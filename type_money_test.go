package moneyclip

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestMoneyArithmetic(t *testing.T) {
	a := M(dec("10.50"), "EUR")
	b := M(dec("0.25"), "EUR")

	if got, want := a.Add(b), M(dec("10.75"), "EUR"); !got.Equal(want) {
		t.Errorf("Add = %v, want %v", got, want)
	}
	if got, want := a.Sub(b), M(dec("10.25"), "EUR"); !got.Equal(want) {
		t.Errorf("Sub = %v, want %v", got, want)
	}
	if got, want := a.Neg(), M(dec("-10.50"), "EUR"); !got.Equal(want) {
		t.Errorf("Neg = %v, want %v", got, want)
	}
	if got, want := a.Neg().Abs(), a; !got.Equal(want) {
		t.Errorf("Abs = %v, want %v", got, want)
	}
	if got, want := a.Mul(Q(3)), M(dec("31.50"), "EUR"); !got.Equal(want) {
		t.Errorf("Mul = %v, want %v", got, want)
	}
}

func TestMoneyMismatchPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("adding EUR to USD did not panic")
		}
	}()
	M(1, "EUR").Add(M(1, "USD"))
}

// The zero Money works as an accumulator seed: "" is a weak currency that
// takes the other operand's.
func TestMoneyZeroSeed(t *testing.T) {
	var total Money
	for _, v := range []int{3, 4, 5} {
		total = total.Add(M(v, "JPY"))
	}
	if want := M(12, "JPY"); !total.Equal(want) {
		t.Errorf("accumulated = %v, want %v", total, want)
	}
}

func TestMoneyRoundBank(t *testing.T) {
	tests := []struct {
		in, currency, want string
	}{
		{"2.675", "USD", "2.68"},
		{"2.665", "USD", "2.66"}, // ties to even
		{"2.625", "USD", "2.62"},
		{"100.5", "JPY", "100"}, // zero-decimal currency
		{"101.5", "JPY", "102"},
		{"1.2345", "BHD", "1.234"}, // three-decimal currency, ties to even
	}
	for _, tt := range tests {
		in, err := MParse(tt.in, tt.currency)
		if err != nil {
			t.Fatal(err)
		}
		if got := in.Round(); !got.Amount().Equal(dec(tt.want)) {
			t.Errorf("Round(%s %s) = %s, want %s", tt.in, tt.currency, got.Amount(), tt.want)
		}
	}
}

func TestValidateCurrency(t *testing.T) {
	for _, code := range []string{"USD", "EUR", "INR", "JPY"} {
		if err := ValidateCurrency(code); err != nil {
			t.Errorf("ValidateCurrency(%s) = %v", code, err)
		}
	}
	var unknown *UnknownEntityError
	if err := ValidateCurrency("DOGE"); !errors.As(err, &unknown) {
		t.Errorf("ValidateCurrency(DOGE) = %v, want UnknownEntityError", err)
	}
}

func TestMoneyJSON(t *testing.T) {
	b, err := json.Marshal(M(dec("10.50"), "EUR"))
	if err != nil {
		t.Fatal(err)
	}
	if got, want := string(b), `{"currency":"EUR","amount":"10.5"}`; got != want {
		t.Errorf("MarshalJSON = %s, want %s", got, want)
	}
}

func TestQuantityMin(t *testing.T) {
	if got := Q(3).Min(Q(7)); !got.Equal(Q(3)) {
		t.Errorf("Min(3,7) = %v", got)
	}
	if got := Q(7).Min(Q(3)); !got.Equal(Q(3)) {
		t.Errorf("Min(7,3) = %v", got)
	}
}
