package format

import (
	"fmt"
	"sort"
	"strings"
	"testing"
	"time"
)

func TestCount(t *testing.T) {
	tests := []struct {
		input int64
		want  string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1.0K"},
		{1250, "1.2K"},
		{45300, "45.3K"},
		{1500000, "1.5M"},
		{2300000, "2.3M"},
	}

	for _, tt := range tests {
		if got := Count(tt.input); got != tt.want {
			t.Errorf("Count(%d) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestCount_MonotonicWithinSuffix(t *testing.T) {
	prev := -1.0
	for n := int64(1000); n < 1_000_000; n += 7919 {
		s := Count(n)
		if !strings.HasSuffix(s, "K") {
			t.Fatalf("Count(%d) = %q, want K suffix", n, s)
		}
		var v float64
		if _, err := fmt.Sscan(strings.TrimSuffix(s, "K"), &v); err != nil {
			t.Fatalf("parse %q: %v", s, err)
		}
		if v < prev {
			t.Errorf("Count(%d) = %q is smaller than previous %.1fK", n, s, prev)
		}
		prev = v
	}
}

func TestCountPtr(t *testing.T) {
	if got := CountPtr(nil); got != "0" {
		t.Errorf("CountPtr(nil) = %q, want %q", got, "0")
	}
	n := int64(2500)
	if got := CountPtr(&n); got != "2.5K" {
		t.Errorf("CountPtr(2500) = %q, want %q", got, "2.5K")
	}
}

func TestRelative(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	at := func(d time.Duration) *time.Time {
		v := now.Add(-d)
		return &v
	}

	tests := []struct {
		name string
		ts   *time.Time
		want string
	}{
		{"nil", nil, UnknownDate},
		{"30 minutes", at(30 * time.Minute), "Il y a 30min"},
		{"90 minutes", at(90 * time.Minute), "Il y a 1h"},
		{"one day", at(25 * time.Hour), "Il y a 1 jour"},
		{"two days", at(48 * time.Hour), "Il y a 2 jours"},
		{"future clamps to zero", at(-5 * time.Minute), "Il y a 0min"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Relative(tt.ts, now); got != tt.want {
				t.Errorf("Relative() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPostAge(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	threeHours := now.Add(-3 * time.Hour)
	twoDays := now.Add(-50 * time.Hour)
	old := now.Add(-10 * 24 * time.Hour)

	if got := PostAge(&threeHours, now, time.UTC); got != "Il y a 3h" {
		t.Errorf("PostAge(3h) = %q, want %q", got, "Il y a 3h")
	}
	if got := PostAge(&twoDays, now, time.UTC); got != "Il y a 2j" {
		t.Errorf("PostAge(50h) = %q, want %q", got, "Il y a 2j")
	}
	if got := PostAge(&old, now, time.UTC); got != "28/02/2025" {
		t.Errorf("PostAge(10d) = %q, want %q", got, "28/02/2025")
	}
	if got := PostAge(nil, now, time.UTC); got != UnknownDate {
		t.Errorf("PostAge(nil) = %q, want %q", got, UnknownDate)
	}
}

func TestPostAge_DateInLocation(t *testing.T) {
	paris, err := time.LoadLocation("Europe/Paris")
	if err != nil {
		t.Skipf("no tzdata: %v", err)
	}
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	lateEvening := time.Date(2025, 2, 28, 23, 30, 0, 0, time.UTC)

	if got := PostAge(&lateEvening, now, paris); got != "01/03/2025" {
		t.Errorf("PostAge in Paris = %q, want %q", got, "01/03/2025")
	}
	if got := PostAge(&lateEvening, now, nil); got != "28/02/2025" {
		t.Errorf("PostAge with nil location = %q, want %q", got, "28/02/2025")
	}
}

func TestParseRelative(t *testing.T) {
	tests := []struct {
		input string
		want  int
	}{
		{"Il y a 12min", 12},
		{"Il y a 3h", 180},
		{"Il y a 1 jour", 1440},
		{"Il y a 2 jours", 2880},
		{"Il y a 4j", 5760},
	}

	for _, tt := range tests {
		if got := ParseRelative(tt.input); got != tt.want {
			t.Errorf("ParseRelative(%q) = %d, want %d", tt.input, got, tt.want)
		}
	}

	if got := ParseRelative(UnknownDate); got <= ParseRelative("Il y a 30 jours") {
		t.Errorf("ParseRelative(%q) = %d, want it to sort after everything", UnknownDate, got)
	}
}

func TestParseRelative_PreservesOrdering(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	ages := []time.Duration{
		5 * time.Minute,
		59 * time.Minute,
		2 * time.Hour,
		23 * time.Hour,
		30 * time.Hour,
		72 * time.Hour,
		15 * 24 * time.Hour,
	}

	var parsed []int
	for _, d := range ages {
		ts := now.Add(-d)
		parsed = append(parsed, ParseRelative(Relative(&ts, now)))
	}

	if !sort.IntsAreSorted(parsed) {
		t.Errorf("parsed minutes %v are not ordered like their timestamps", parsed)
	}
}

func TestGoalPercentage(t *testing.T) {
	tests := []struct {
		current, target int64
		want            float64
	}{
		{0, 25, 0},
		{25, 25, 100},
		{10, 50, 20},
		{80, 50, 100},
		{5, 0, 0},
		{5, -1, 0},
	}

	for _, tt := range tests {
		if got := GoalPercentage(tt.current, tt.target); got != tt.want {
			t.Errorf("GoalPercentage(%d, %d) = %v, want %v", tt.current, tt.target, got, tt.want)
		}
	}

	for c := int64(0); c < 200; c += 13 {
		for tgt := int64(1); tgt < 120; tgt += 17 {
			p := GoalPercentage(c, tgt)
			if p < 0 || p > 100 {
				t.Fatalf("GoalPercentage(%d, %d) = %v, out of [0,100]", c, tgt, p)
			}
		}
	}
}

func TestRound1(t *testing.T) {
	if got := Round1(12.345); got != 12.3 {
		t.Errorf("Round1(12.345) = %v, want 12.3", got)
	}
	if got := Round1(0); got != 0 {
		t.Errorf("Round1(0) = %v, want 0", got)
	}
}
