package domain

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"2024-01-02", "2024-01-02", false},
		{"2024-1-2", "2024-01-02", false},
		{" 2024-12-31 ", "2024-12-31", false},
		{"02/01/2024", "", true},
		{"2024-13-01", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := ParseDate(tt.in)
		if tt.wantErr {
			if !errors.Is(err, ErrInvalidDate) {
				t.Fatalf("ParseDate(%q): expected ErrInvalidDate, got %v", tt.in, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParseDate(%q): unexpected error %v", tt.in, err)
		}
		if got.String() != tt.want {
			t.Fatalf("ParseDate(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestDateOrderingMatchesCanonicalStrings(t *testing.T) {
	t.Parallel()

	a := MustParseDate("2024-9-30")
	b := MustParseDate("2024-10-01")

	if !a.Before(b) || a.Compare(b) != -1 {
		t.Fatalf("expected %s before %s", a, b)
	}
	if !(a.String() < b.String()) {
		t.Fatalf("expected canonical strings to order lexicographically: %s, %s", a, b)
	}
}

func TestDateOfDropsTime(t *testing.T) {
	t.Parallel()

	loc := time.FixedZone("IST", 5*3600+1800)
	d := DateOf(time.Date(2024, 3, 4, 23, 59, 0, 0, loc))

	if d.String() != "2024-03-04" {
		t.Fatalf("expected local calendar day, got %s", d)
	}
	if !d.Time().Equal(time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected midnight UTC, got %s", d.Time())
	}
}

func TestDateJSON(t *testing.T) {
	t.Parallel()

	var payload struct {
		Date Date `json:"date"`
	}

	if err := json.Unmarshal([]byte(`{"date":"2024-2-9"}`), &payload); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	out, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if string(out) != `{"date":"2024-02-09"}` {
		t.Fatalf("unexpected json %s", out)
	}

	if err := json.Unmarshal([]byte(`{"date":""}`), &payload); err != nil || !payload.Date.IsZero() {
		t.Fatalf("expected empty string to leave date unset, got %v err=%v", payload.Date, err)
	}

	if err := json.Unmarshal([]byte(`{"date":"yesterday"}`), &payload); !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}
}

func TestDateFormat(t *testing.T) {
	t.Parallel()

	d := NewDate(2024, time.January, 2)
	if got := d.Format("02/01/2006"); got != "02/01/2024" {
		t.Fatalf("expected display format, got %s", got)
	}
	if got := (Date{}).Format("02/01/2006"); got != "" {
		t.Fatalf("expected empty string for zero date, got %q", got)
	}
}
