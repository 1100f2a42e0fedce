package report

import (
	"strings"
	"testing"
	"time"

	"github.com/codyseavey/tcg-price-digest/internal/performance"
)

func f(v float64) *float64 { return &v }

func TestNewItemLine_Classification(t *testing.T) {
	tests := []struct {
		name     string
		previous *float64
		current  *float64
		expected LineStatus
	}{
		{"no price found", nil, nil, StatusFailed},
		{"fetch failed with prior price", f(4.0), nil, StatusFailed},
		{"new item", nil, f(4.25), StatusNew},
		{"price up", f(12.0), f(13.5), StatusUp},
		{"price down", f(13.5), f(12.0), StatusDown},
		{"unchanged", f(4.25), f(4.25), StatusUnchanged},
		{"sub-cent move counts as unchanged", f(4.25), f(4.251), StatusUnchanged},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			line := NewItemLine("1", "Pikachu", tt.previous, tt.current)
			if line.Status != tt.expected {
				t.Errorf("expected status %s, got %s", tt.expected, line.Status)
			}
		})
	}
}

func TestSortLines_DescendingAbsentLast(t *testing.T) {
	lines := []ItemLine{
		NewItemLine("a", "A", nil, f(3.00)),
		NewItemLine("b", "B", nil, nil),
		NewItemLine("c", "C", nil, f(7.50)),
	}

	SortLines(lines)

	got := []string{lines[0].ProductID, lines[1].ProductID, lines[2].ProductID}
	want := []string{"c", "a", "b"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected order %v, got %v", want, got)
		}
	}
}

func TestFormatLine(t *testing.T) {
	tests := []struct {
		name     string
		line     ItemLine
		expected string
	}{
		{"failed", NewItemLine("1", "Pikachu", nil, nil), "❌ Pikachu: no price found"},
		{"new", NewItemLine("1", "Pikachu", nil, f(4.25)), "🆕 Pikachu: $4.25"},
		{"up", NewItemLine("1", "Pikachu", f(12.0), f(13.5)), "🔺 Pikachu: $12.00 → $13.50 (+1.50)"},
		{"down", NewItemLine("1", "Pikachu", f(13.5), f(12.0)), "🔻 Pikachu: $13.50 → $12.00 (-1.50)"},
		{"unchanged", NewItemLine("1", "Pikachu", f(4.25), f(4.25)), "➡️ Pikachu: $4.25 (no change)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatLine(tt.line); got != tt.expected {
				t.Errorf("FormatLine() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestFormatPerformance(t *testing.T) {
	deltas := map[performance.Period]*float64{
		performance.PeriodWeek:  f(1.50),
		performance.PeriodMonth: f(-2.00),
		performance.PeriodYear:  f(0),
		performance.PeriodAll:   nil,
	}

	got := FormatPerformance(deltas)
	want := "WTD 🔺 +1.50 · MTD 🔻 -2.00 · YTD ➡️ +0.00 · ALL n/a"
	if got != want {
		t.Errorf("FormatPerformance() = %q, want %q", got, want)
	}
}

func TestToWebhook(t *testing.T) {
	lastRun := time.Date(2025, 8, 26, 9, 0, 0, 0, time.UTC)
	rep := &Report{
		RunID:       "1a2b3c4d",
		GeneratedAt: time.Date(2025, 8, 26, 12, 30, 0, 0, time.UTC),
		LastRun:     &lastRun,
		Sections: []Section{
			{
				Owner:  "Ben",
				Total:  17.75,
				Deltas: map[performance.Period]*float64{performance.PeriodWeek: f(1.50)},
				Lines: []ItemLine{
					NewItemLine("1", "Charizard", f(12.0), f(13.5)),
					NewItemLine("2", "Pikachu", nil, f(4.25)),
				},
			},
			{
				Owner:  "Alice",
				Total:  0,
				Deltas: map[performance.Period]*float64{},
				Lines: []ItemLine{
					NewItemLine("3", "Mew", nil, nil),
				},
			},
		},
	}

	msg := ToWebhook(rep)

	if !strings.Contains(msg.Content, "2025-08-26 12:30") {
		t.Errorf("content missing timestamp: %q", msg.Content)
	}
	if len(msg.Embeds) != 2 {
		t.Fatalf("expected 2 embeds, got %d", len(msg.Embeds))
	}

	ben := msg.Embeds[0]
	if ben.Title != "Ben — $17.75" {
		t.Errorf("unexpected title: %q", ben.Title)
	}
	if ben.Color != colorUp {
		t.Errorf("expected up color for positive WTD, got %#x", ben.Color)
	}
	if ben.Footer != nil {
		t.Error("last-run footer must only appear on the final embed")
	}

	alice := msg.Embeds[1]
	if alice.Color != colorNeutral {
		t.Errorf("expected neutral color without WTD, got %#x", alice.Color)
	}
	if alice.Footer == nil {
		t.Fatal("expected footer on the final embed")
	}
	if !strings.Contains(alice.Footer.Text, "3h30m ago") {
		t.Errorf("footer missing time since last run: %q", alice.Footer.Text)
	}
	if !strings.Contains(alice.Footer.Text, "run 1a2b3c4d") {
		t.Errorf("footer missing run id: %q", alice.Footer.Text)
	}
}

func TestToWebhook_FirstRunFooter(t *testing.T) {
	rep := &Report{
		RunID:       "1a2b3c4d",
		GeneratedAt: time.Date(2025, 8, 26, 12, 30, 0, 0, time.UTC),
		Sections:    []Section{{Owner: "Ben"}},
	}

	msg := ToWebhook(rep)
	if msg.Embeds[0].Footer == nil || !strings.Contains(msg.Embeds[0].Footer.Text, "First run") {
		t.Errorf("expected first-run footer, got %+v", msg.Embeds[0].Footer)
	}
}

func TestFormatSince(t *testing.T) {
	tests := []struct {
		d        time.Duration
		expected string
	}{
		{30 * time.Second, "moments"},
		{5 * time.Minute, "5m"},
		{3*time.Hour + 12*time.Minute, "3h12m"},
		{72 * time.Hour, "3d0h"},
	}
	for _, tt := range tests {
		if got := formatSince(tt.d); got != tt.expected {
			t.Errorf("formatSince(%v) = %q, want %q", tt.d, got, tt.expected)
		}
	}
}
