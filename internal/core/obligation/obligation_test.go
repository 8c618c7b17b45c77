package obligation

import (
	"testing"

	"dutybot/internal/platform/civil"
)

func date(t *testing.T, s string) civil.Date {
	t.Helper()
	d, err := civil.ParseDate(s)
	if err != nil {
		t.Fatalf("ParseDate(%q): %v", s, err)
	}
	return d
}

func TestResolveDefaultPattern(t *testing.T) {
	// week of 2026-08-24 (Monday) .. 2026-08-30 (Sunday)
	tests := []struct {
		date string
		want Level
	}{
		{"2026-08-24", Full},
		{"2026-08-25", Full},
		{"2026-08-26", Full},
		{"2026-08-27", Full},
		{"2026-08-28", Full},
		{"2026-08-29", None},
		{"2026-08-30", None},
	}
	for _, tc := range tests {
		if got := Resolve(nil, date(t, tc.date)); got != tc.want {
			t.Fatalf("Resolve(default, %s) = %v, want %v", tc.date, got, tc.want)
		}
	}
}

func TestResolveOverridePattern(t *testing.T) {
	p := NewPattern(0, 5) // Monday and Saturday

	if got := Resolve(p, date(t, "2026-08-24")); got != Full {
		t.Fatalf("Monday on pattern = %v, want Full", got)
	}
	if got := Resolve(p, date(t, "2026-08-29")); got != ReportOnly {
		t.Fatalf("Saturday on pattern = %v, want ReportOnly", got)
	}
	if got := Resolve(p, date(t, "2026-08-25")); got != None {
		t.Fatalf("Tuesday off pattern = %v, want None", got)
	}
}

func TestResolveEmptyOverrideIsInactive(t *testing.T) {
	p := NewPattern()
	for _, d := range []string{"2026-08-24", "2026-08-26", "2026-08-29", "2026-08-30"} {
		if got := Resolve(p, date(t, d)); got != None {
			t.Fatalf("empty pattern %s = %v, want None", d, got)
		}
	}
}

func TestPredicates(t *testing.T) {
	if !OwesReport(Full) || !OwesReport(ReportOnly) || OwesReport(None) {
		t.Fatalf("OwesReport wrong")
	}
	if !OwesFull(Full) || OwesFull(ReportOnly) || OwesFull(None) {
		t.Fatalf("OwesFull wrong")
	}
}

func TestNewPatternIgnoresOutOfRange(t *testing.T) {
	p := NewPattern(-1, 0, 6, 7, 42)
	got := p.Days()
	if len(got) != 2 || got[0] != 0 || got[1] != 6 {
		t.Fatalf("Days = %v", got)
	}
}
