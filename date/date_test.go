package date

import (
	"encoding/json"
	"testing"
	"time"
)

// TestTime assert that the time() is cannonical and gives comparable times.
func TestTime(t *testing.T) {
	d1 := New(2025, 7, 31)
	d2 := New(2025, 7, 31)

	if d1.time() != d2.time() {
		// Note that usually time.Time are not comparable (there is a pointer for the timezone) this
		// tests also checks that the property remain true
		t.Errorf("invalid time() function same day gives two different time")
	}
}

func TestNew_Normalizes(t *testing.T) {
	got := New(2025, time.February, 29)
	if want := New(2025, time.March, 1); got != want {
		t.Errorf("New(2025, 2, 29) = %v, want %v", got, want)
	}
}

func TestFromTime(t *testing.T) {
	paris, err := time.LoadLocation("Europe/Paris")
	if err != nil {
		t.Skipf("no tz database: %v", err)
	}
	// 00:30 in Paris is still the previous day in UTC, the local day wins.
	tm := time.Date(2025, time.June, 2, 0, 30, 0, 0, paris)
	if got, want := FromTime(tm), New(2025, time.June, 2); got != want {
		t.Errorf("FromTime() = %v, want %v", got, want)
	}
}

func TestDaysSince(t *testing.T) {
	testCases := []struct {
		name string
		from Date
		to   Date
		want int
	}{
		{"Same day", New(2024, 1, 1), New(2024, 1, 1), 0},
		{"Leap year", New(2024, 1, 1), New(2025, 1, 1), 366},
		{"Regular year", New(2025, 1, 1), New(2026, 1, 1), 365},
		{"Backward", New(2025, 1, 10), New(2025, 1, 1), -9},
		{"Across DST", New(2025, 3, 29), New(2025, 3, 31), 2},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.to.DaysSince(tc.from); got != tc.want {
				t.Errorf("%v.DaysSince(%v) = %d, want %d", tc.to, tc.from, got, tc.want)
			}
		})
	}
}

func TestParse(t *testing.T) {
	testCases := []struct {
		in      string
		want    Date
		wantErr bool
	}{
		{"2025-07-01", New(2025, 7, 1), false},
		{"2025-7-1", New(2025, 7, 1), false},
		{"01/07/2025", Date{}, true},
		{"", Date{}, true},
	}
	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := Parse(tc.in)
			if (err != nil) != tc.wantErr {
				t.Fatalf("Parse(%q) error = %v, wantErr %v", tc.in, err, tc.wantErr)
			}
			if got != tc.want {
				t.Errorf("Parse(%q) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestDate_JSON(t *testing.T) {
	in := New(2025, 7, 1)
	data, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("json.Marshal() error = %v", err)
	}
	if string(data) != `"2025-07-01"` {
		t.Errorf("json.Marshal() = %s, want %q", data, "2025-07-01")
	}
	var out Date
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("json.Unmarshal() error = %v", err)
	}
	if !out.Equal(in) {
		t.Errorf("json.Unmarshal() = %v, want %v", out, in)
	}
}
