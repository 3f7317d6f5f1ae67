package timeutil

import (
	"testing"
	"time"
)

func TestParseWindowDefault(t *testing.T) {
	got, err := ParseWindow("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != Week {
		t.Fatalf("expected one week, got %v", got)
	}
}

func TestParseWindowComposite(t *testing.T) {
	got, err := ParseWindow("1w 2d")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if Days(got) != 9 {
		t.Fatalf("expected 9 days, got %d", Days(got))
	}
}

func TestParseWindowInvalid(t *testing.T) {
	for _, in := range []string{"abc", "5", "3h", "0d", "2d!"} {
		if _, err := ParseWindow(in); err == nil {
			t.Fatalf("expected error for %q", in)
		}
	}
}

func TestFormatAge(t *testing.T) {
	cases := map[time.Duration]string{
		30 * time.Second:                 "just now",
		12 * time.Minute:                 "12m ago",
		2*time.Hour + 5*time.Minute:      "2h5m ago",
		3*Day + 4*time.Hour + time.Minute: "3d4h ago",
		Week + 10*time.Minute:            "1w ago",
	}
	for in, want := range cases {
		if got := FormatAge(in); got != want {
			t.Fatalf("FormatAge(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestParseWindowBounded(t *testing.T) {
	if got, err := ParseWindow("520w10d"); err != nil || got != MaxWindow {
		t.Fatalf("expected the maximum window, got %v, %v", got, err)
	}
	for _, in := range []string{"3651d", "522w", "9223372036854775807d", "1w99999999999999999d"} {
		if _, err := ParseWindow(in); err == nil {
			t.Fatalf("expected %q to be rejected", in)
		}
	}
}
