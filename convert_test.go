package moneyclip

import (
	"errors"
	"testing"

	"github.com/alphavelocity/moneyclip/date"
	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// testConverter returns a converter over a small fixed rate set, base USD.
func testConverter(t *testing.T) *Converter {
	t.Helper()
	s := NewRateStore()
	day := date.New(2025, 3, 10)
	for _, r := range []struct {
		base, quote string
		rate        string
	}{
		{"USD", "EUR", "0.92"},
		{"USD", "INR", "84.00"},
		{"USD", "JPY", "149.50"},
		{"GBP", "USD", "1.27"},
	} {
		if err := s.AddRate(r.base, r.quote, day, dec(r.rate)); err != nil {
			t.Fatalf("AddRate(%s%s) = %v", r.base, r.quote, err)
		}
	}
	c, err := NewConverter(s, "USD")
	if err != nil {
		t.Fatalf("NewConverter() = %v", err)
	}
	return c
}

func TestConvertDirect(t *testing.T) {
	c := testConverter(t)
	on := date.New(2025, 3, 10)

	got, err := c.Convert(M(100, "USD"), "EUR", on)
	if err != nil {
		t.Fatalf("Convert() = %v", err)
	}
	if want := M(92, "EUR"); !got.Equal(want) {
		t.Errorf("Convert(100 USD, EUR) = %v, want %v", got, want)
	}
}

func TestConvertInverse(t *testing.T) {
	c := testConverter(t)
	on := date.New(2025, 3, 10)

	// Only GBP/USD is stored; USD->GBP must use the reciprocal.
	got, err := c.Convert(M(127, "USD"), "GBP", on)
	if err != nil {
		t.Fatalf("Convert() = %v", err)
	}
	if want := M(100, "GBP"); !got.Equal(want) {
		t.Errorf("Convert(127 USD, GBP) = %v, want %v", got, want)
	}
}

func TestConvertIdentity(t *testing.T) {
	c := testConverter(t)
	on := date.New(2025, 3, 10)

	in := M(dec("10.123"), "USD") // deliberately sub-cent
	got, err := c.Convert(in, "USD", on)
	if err != nil {
		t.Fatalf("Convert() = %v", err)
	}
	if !got.Equal(in) {
		t.Errorf("identity conversion altered the amount: got %v, want %v", got, in)
	}
}

// Round-tripping an amount through another currency and back must land
// within one minor unit of the original.
func TestConvertRoundTrip(t *testing.T) {
	c := testConverter(t)
	on := date.New(2025, 3, 10)

	tests := []struct {
		amount string
		via    string
	}{
		{"100.00", "EUR"},
		{"0.01", "EUR"},
		{"1234.56", "INR"},
		{"99.99", "JPY"},
		{"-75.30", "EUR"},
	}
	oneCent := dec("0.01")
	for _, tt := range tests {
		t.Run(tt.amount+" via "+tt.via, func(t *testing.T) {
			in, err := MParse(tt.amount, "USD")
			if err != nil {
				t.Fatal(err)
			}
			there, err := c.Convert(in, tt.via, on)
			if err != nil {
				t.Fatalf("Convert to %s: %v", tt.via, err)
			}
			back, err := c.Convert(there, "USD", on)
			if err != nil {
				t.Fatalf("Convert back: %v", err)
			}
			drift := back.Amount().Sub(in.Amount()).Abs()
			if drift.GreaterThan(oneCent) {
				t.Errorf("round trip %s USD via %s drifted by %s", tt.amount, tt.via, drift)
			}
		})
	}
}

// EUR->INR has no stored pair in either direction; it must triangulate
// through the base and agree exactly with the two-leg computation.
func TestConvertTriangulation(t *testing.T) {
	c := testConverter(t)
	on := date.New(2025, 3, 10)

	rate, err := c.Rate("EUR", "INR", on)
	if err != nil {
		t.Fatalf("Rate(EUR, INR) = %v", err)
	}
	if rate.Via != "USD" {
		t.Errorf("Rate(EUR, INR).Via = %q, want USD", rate.Via)
	}
	// rate(EUR,INR) = rate(EUR,USD) / rate(INR,USD) = (1/0.92) / (1/84.00)
	want := dec("84.00").Div(dec("0.92"))
	if !rate.Value.Equal(want) {
		t.Errorf("Rate(EUR, INR) = %s, want %s", rate.Value, want)
	}

	got, err := c.Convert(M(10, "EUR"), "INR", on)
	if err != nil {
		t.Fatalf("Convert() = %v", err)
	}
	if want := M(dec("10").Mul(want), "INR").Round(); !got.Equal(want) {
		t.Errorf("Convert(10 EUR, INR) = %v, want %v", got, want)
	}
}

func TestRateFallsBackToPriorDate(t *testing.T) {
	s := NewRateStore()
	if err := s.AddRate("USD", "EUR", date.New(2025, 3, 10), dec("0.92")); err != nil {
		t.Fatal(err)
	}
	c, err := NewConverter(s, "USD")
	if err != nil {
		t.Fatal(err)
	}

	// A later date uses the last published observation.
	rate, err := c.Rate("USD", "EUR", date.New(2025, 3, 14))
	if err != nil {
		t.Fatalf("Rate() = %v", err)
	}
	if want := date.New(2025, 3, 10); rate.Observed != want {
		t.Errorf("Rate().Observed = %v, want %v", rate.Observed, want)
	}

	// An earlier date must not see the future observation.
	_, err = c.Rate("USD", "EUR", date.New(2025, 3, 7))
	var unavailable *RateUnavailableError
	if !errors.As(err, &unavailable) {
		t.Fatalf("Rate() before first observation = %v, want RateUnavailableError", err)
	}
	if unavailable.From != "USD" || unavailable.To != "EUR" {
		t.Errorf("RateUnavailableError names %s->%s, want USD->EUR", unavailable.From, unavailable.To)
	}
}

func TestRateUnavailable(t *testing.T) {
	c := testConverter(t)

	_, err := c.Convert(M(10, "CHF"), "EUR", date.New(2025, 3, 10))
	var unavailable *RateUnavailableError
	if !errors.As(err, &unavailable) {
		t.Fatalf("Convert with no CHF rate = %v, want RateUnavailableError", err)
	}
}

func TestRateSupersede(t *testing.T) {
	s := NewRateStore()
	day := date.New(2025, 3, 10)
	if err := s.AddRate("USD", "EUR", day, dec("0.92")); err != nil {
		t.Fatal(err)
	}
	if err := s.AddRate("USD", "EUR", day, dec("0.93")); err != nil {
		t.Fatal(err)
	}
	_, rate, ok := s.RateAsOf("USD", "EUR", day)
	if !ok {
		t.Fatal("RateAsOf() not found")
	}
	if !rate.Equal(dec("0.93")) {
		t.Errorf("re-published rate = %s, want 0.93", rate)
	}
}

func TestAddRateRejectsNonPositive(t *testing.T) {
	s := NewRateStore()
	day := date.New(2025, 3, 10)
	for _, r := range []string{"0", "-1.2"} {
		err := s.AddRate("USD", "EUR", day, dec(r))
		var invalid *InvalidAmountError
		if !errors.As(err, &invalid) {
			t.Errorf("AddRate(%s) = %v, want InvalidAmountError", r, err)
		}
	}
}

func TestConverterRejectsUnknownCurrency(t *testing.T) {
	s := NewRateStore()
	if _, err := NewConverter(s, "XQZ"); err == nil {
		t.Error("NewConverter(XQZ) accepted an unknown currency")
	}
	var unknown *UnknownEntityError
	if err := s.AddRate("XQZ", "EUR", date.New(2025, 3, 10), dec("1")); !errors.As(err, &unknown) {
		t.Errorf("AddRate(XQZ) = %v, want UnknownEntityError", err)
	}
}

// Half-even rounding is applied once at the final step: 2.5 cents rounds
// to 2 cents, 3.5 cents rounds to 4 cents.
func TestConvertRoundsHalfEven(t *testing.T) {
	s := NewRateStore()
	day := date.New(2025, 3, 10)
	if err := s.AddRate("USD", "EUR", day, dec("0.5")); err != nil {
		t.Fatal(err)
	}
	c, err := NewConverter(s, "USD")
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		in   string
		want string
	}{
		{"0.05", "0.02"}, // 2.5 cents -> even neighbor 2
		{"0.07", "0.04"}, // 3.5 cents -> even neighbor 4
		{"0.08", "0.04"},
	}
	for _, tt := range tests {
		in, _ := MParse(tt.in, "USD")
		got, err := c.Convert(in, "EUR", day)
		if err != nil {
			t.Fatalf("Convert(%s) = %v", tt.in, err)
		}
		if !got.Amount().Equal(dec(tt.want)) {
			t.Errorf("Convert(%s USD) = %s EUR, want %s", tt.in, got.Amount(), tt.want)
		}
	}
}
