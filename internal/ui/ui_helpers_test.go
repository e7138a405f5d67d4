package ui

import (
	"errors"
	"testing"
	"time"
)

func TestTruncate(t *testing.T) {
	cases := []struct {
		in    string
		limit int
		want  string
	}{
		{"  hello  ", 10, "hello"},
		{"hello world", 8, "hello..."},
		{"hello", 3, "hel"},
		{"hello", 0, ""},
		{"héllo wörld", 8, "héllo..."},
	}
	for _, tc := range cases {
		if got := truncate(tc.in, tc.limit); got != tc.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tc.in, tc.limit, got, tc.want)
		}
	}
}

func TestTruncateMiddle(t *testing.T) {
	if got := truncateMiddle("  ", 10); got != "" {
		t.Fatalf("truncateMiddle blank = %q, want empty", got)
	}
	if got := truncateMiddle("abcd", 2); got != "ab" {
		t.Fatalf("truncateMiddle limit<=3 = %q, want ab", got)
	}
	got := truncateMiddle("https://example.com/a/very/long/path", 15)
	if len([]rune(got)) != 15 {
		t.Fatalf("got %q (%d runes), want 15", got, len([]rune(got)))
	}
	if got[:7] != "https:/" {
		t.Fatalf("prefix not kept: %q", got)
	}
}

func TestSingleLine(t *testing.T) {
	if got := singleLine("a\n b\t\tc  "); got != "a b c" {
		t.Fatalf("singleLine = %q", got)
	}
}

func TestHumanizeAge(t *testing.T) {
	now := time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)
	cases := []struct {
		ago  time.Duration
		want string
	}{
		{10 * time.Second, "just now"},
		{5 * time.Minute, "5m ago"},
		{3 * time.Hour, "3h ago"},
		{50 * time.Hour, "2d ago"},
	}
	for _, tc := range cases {
		if got := humanizeAge(now.Add(-tc.ago), now); got != tc.want {
			t.Errorf("humanizeAge(-%v) = %q, want %q", tc.ago, got, tc.want)
		}
	}
	if got := humanizeAge(time.Time{}, now); got != "" {
		t.Errorf("humanizeAge(zero) = %q, want empty", got)
	}
}

func TestClamp(t *testing.T) {
	if clamp(5, 0, 3) != 3 || clamp(-1, 0, 3) != 0 || clamp(2, 0, 3) != 2 {
		t.Fatalf("clamp out of range")
	}
	if clamp(4, 0, -1) != 0 {
		t.Fatalf("clamp with empty range should return lo")
	}
}

func TestThemeCycle(t *testing.T) {
	names := ThemeNames()
	if len(names) != 3 {
		t.Fatalf("ThemeNames() = %v, want 3 names", names)
	}
	for i, name := range names {
		want := names[(i+1)%len(names)]
		if got := NextTheme(name); got != want {
			t.Errorf("NextTheme(%q) = %q, want %q", name, got, want)
		}
	}
	if got := NextTheme("Unknown"); got != names[0] {
		t.Errorf("NextTheme(Unknown) = %q, want %q", got, names[0])
	}
	if got := GetTheme("Unknown").Name; got != "Nightfox" {
		t.Errorf("GetTheme(Unknown) = %q, want Nightfox", got)
	}
}

func TestLevelColor(t *testing.T) {
	th := GetTheme("Slate")
	if th.LevelColor("error") != th.Danger || th.LevelColor(" WARN ") != th.Warning {
		t.Fatalf("level colors not mapped")
	}
	if th.LevelColor("") != th.Muted {
		t.Fatalf("unknown level should be muted")
	}
}

func TestClassifyConnectionError(t *testing.T) {
	cases := map[string]string{
		"dial tcp [::1]:7172: connect: connection refused": "OFFLINE",
		"dial tcp: lookup nowhere: no such host":           "HOST NOT FOUND",
		"context deadline exceeded":                        "TIMEOUT",
		"api /settings returned status 500":                "ERROR",
	}
	for msg, want := range cases {
		if got := classifyConnectionError(errors.New(msg)); got != want {
			t.Errorf("classifyConnectionError(%q) = %q, want %q", msg, got, want)
		}
	}
	if got := classifyConnectionError(nil); got != "OFFLINE" {
		t.Errorf("classifyConnectionError(nil) = %q", got)
	}
}
