package date

import (
	"testing"
	"time"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in      string
		want    Date
		wantErr bool
	}{
		{in: "2025-08-10", want: New(2025, time.August, 10)},
		{in: "2025-8-1", want: New(2025, time.August, 1)},
		{in: "2025-13-01", wantErr: true},
		{in: "not-a-date", wantErr: true},
	}
	for _, tc := range tests {
		got, err := Parse(tc.in)
		if (err != nil) != tc.wantErr {
			t.Errorf("Parse(%q) error = %v, wantErr %v", tc.in, err, tc.wantErr)
			continue
		}
		if !tc.wantErr && got != tc.want {
			t.Errorf("Parse(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestDateOrdering(t *testing.T) {
	a := New(2025, time.January, 31)
	b := New(2025, time.February, 1)
	if !a.Before(b) {
		t.Errorf("%v should be before %v", a, b)
	}
	if !b.After(a) {
		t.Errorf("%v should be after %v", b, a)
	}
	if a.Add(1) != b {
		t.Errorf("%v.Add(1) = %v, want %v", a, a.Add(1), b)
	}
}

func TestMonth(t *testing.T) {
	m := MustParseMonth("2025-08")
	if got := m.Start(); got != New(2025, time.August, 1) {
		t.Errorf("Start() = %v", got)
	}
	if got := m.End(); got != New(2025, time.August, 31) {
		t.Errorf("End() = %v", got)
	}
	if got := m.Next(); got != MustParseMonth("2025-09") {
		t.Errorf("Next() = %v", got)
	}
	if got := m.Prev(); got != MustParseMonth("2025-07") {
		t.Errorf("Prev() = %v", got)
	}
	if !m.Contains(New(2025, time.August, 15)) {
		t.Error("Contains() should include mid-month date")
	}
	if m.Contains(New(2025, time.September, 1)) {
		t.Error("Contains() should exclude next month")
	}
	// December wraps into the next year.
	if got := MustParseMonth("2025-12").Next(); got != MustParseMonth("2026-01") {
		t.Errorf("December.Next() = %v", got)
	}
}

func TestMonthEndLeapYear(t *testing.T) {
	if got := MustParseMonth("2024-02").End(); got != New(2024, time.February, 29) {
		t.Errorf("leap February End() = %v", got)
	}
	if got := MustParseMonth("2025-02").End(); got != New(2025, time.February, 28) {
		t.Errorf("February End() = %v", got)
	}
}

func TestHistoryValueAsOf(t *testing.T) {
	var h History[string]
	h.Append(New(2025, time.August, 10), "a")
	h.Append(New(2025, time.August, 1), "b") // out of order on purpose
	h.Append(New(2025, time.August, 20), "c")

	if on, v, ok := h.ValueAsOf(New(2025, time.August, 10)); !ok || v != "a" || on != New(2025, time.August, 10) {
		t.Errorf("exact lookup = %v %q %v", on, v, ok)
	}
	if on, v, ok := h.ValueAsOf(New(2025, time.August, 15)); !ok || v != "a" || on != New(2025, time.August, 10) {
		t.Errorf("prior lookup = %v %q %v", on, v, ok)
	}
	if _, _, ok := h.ValueAsOf(New(2025, time.July, 31)); ok {
		t.Error("lookup before first observation should fail")
	}
	// No forward fallback: nothing before the first day.
	if _, v, ok := h.ValueAsOf(New(2025, time.December, 31)); !ok || v != "c" {
		t.Errorf("latest lookup = %q %v", v, ok)
	}
}

func TestHistoryAppendOverwrites(t *testing.T) {
	var h History[string]
	day := New(2025, time.August, 10)
	h.Append(day, "old").Append(day, "new")
	if h.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", h.Len())
	}
	if v, ok := h.Get(day); !ok || v != "new" {
		t.Errorf("Get() = %q %v", v, ok)
	}
}
