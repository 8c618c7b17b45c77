package civil

import (
	"testing"
	"time"
)

func TestWeekdayMondayZero(t *testing.T) {
	tests := []struct {
		date string
		want int
	}{
		{"2026-08-24", 0}, // Monday
		{"2026-08-26", 2}, // Wednesday
		{"2026-08-28", 4}, // Friday
		{"2026-08-29", 5}, // Saturday
		{"2026-08-30", 6}, // Sunday
	}
	for _, tc := range tests {
		d, err := ParseDate(tc.date)
		if err != nil {
			t.Fatalf("ParseDate(%q): %v", tc.date, err)
		}
		if got := d.Weekday(); got != tc.want {
			t.Fatalf("Weekday(%s) = %d, want %d", tc.date, got, tc.want)
		}
	}
}

func TestParseDateRejectsJunk(t *testing.T) {
	for _, s := range []string{"", "yesterday", "2026-13-01", "26-08-2026"} {
		if _, err := ParseDate(s); err == nil {
			t.Fatalf("ParseDate(%q) should fail", s)
		}
	}
}

func TestAddDaysAndBefore(t *testing.T) {
	d, _ := ParseDate("2026-03-01")
	prev := d.AddDays(-2)
	if prev.String() != "2026-02-27" {
		t.Fatalf("AddDays(-2) = %s", prev)
	}
	if !prev.Before(d) || d.Before(prev) {
		t.Fatalf("Before ordering broken: %s vs %s", prev, d)
	}
}

func TestRoundTripString(t *testing.T) {
	d, _ := ParseDate("2026-08-29")
	if d.String() != "2026-08-29" {
		t.Fatalf("String = %s", d)
	}
}

func TestTimeOfDayParse(t *testing.T) {
	tod, err := ParseTimeOfDay("19:00")
	if err != nil || tod.Hour != 19 || tod.Minute != 0 {
		t.Fatalf("ParseTimeOfDay = %+v, %v", tod, err)
	}
	for _, s := range []string{"24:00", "12:60", "noon", ""} {
		if _, err := ParseTimeOfDay(s); err == nil {
			t.Fatalf("ParseTimeOfDay(%q) should fail", s)
		}
	}
}

func TestTimeOfDayNext(t *testing.T) {
	msk := time.FixedZone("MSK", 3*3600)
	now := time.Date(2026, 8, 26, 20, 0, 0, 0, msk) // Wed 20:00

	early := TimeOfDay{Hour: 19, Minute: 0}
	next := early.Next(now)
	if next.Day() != 27 || next.Hour() != 19 {
		t.Fatalf("passed time should roll to tomorrow, got %v", next)
	}

	late := TimeOfDay{Hour: 21, Minute: 0}
	next = late.Next(now)
	if next.Day() != 26 || next.Hour() != 21 {
		t.Fatalf("future time should fire today, got %v", next)
	}
}
