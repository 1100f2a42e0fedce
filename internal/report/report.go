// Package report assembles the per-owner price summary and renders it as a
// webhook message.
package report

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/codyseavey/tcg-price-digest/internal/discord"
	"github.com/codyseavey/tcg-price-digest/internal/performance"
)

// LineStatus classifies one item line's wording.
type LineStatus string

const (
	StatusFailed    LineStatus = "failed"    // no price found this run
	StatusNew       LineStatus = "new"       // price found, no prior stored price
	StatusUp        LineStatus = "up"        // price rose against the prior stored price
	StatusDown      LineStatus = "down"      // price fell against the prior stored price
	StatusUnchanged LineStatus = "unchanged" // price matches the prior stored price
)

// Embed accent colors keyed off the owner's weekly direction.
const (
	colorUp      = 0x2ECC71
	colorDown    = 0xE74C3C
	colorNeutral = 0x95A5A6
)

// ItemLine is one rendered item within an owner's section.
type ItemLine struct {
	ProductID string     `json:"product_id"`
	Name      string     `json:"name"`
	Status    LineStatus `json:"status"`
	Price     *float64   `json:"price,omitempty"`
	Previous  *float64   `json:"previous,omitempty"`
	Delta     float64    `json:"delta"`
}

// Section is one owner's block of the report.
type Section struct {
	Owner  string                          `json:"owner"`
	Total  float64                         `json:"total"`
	Deltas map[performance.Period]*float64 `json:"deltas"`
	Lines  []ItemLine                      `json:"lines"`
}

// Report is the ephemeral result of one run, rebuilt from scratch every time.
type Report struct {
	RunID       string     `json:"run_id"`
	GeneratedAt time.Time  `json:"generated_at"`
	LastRun     *time.Time `json:"last_run,omitempty"`
	Sections    []Section  `json:"sections"`
}

// NewItemLine classifies an item against its previously stored price. A nil
// current price marks a fetch failure; a nil previous price marks a freshly
// tracked item.
func NewItemLine(productID, name string, previous, current *float64) ItemLine {
	line := ItemLine{
		ProductID: productID,
		Name:      name,
		Price:     current,
		Previous:  previous,
	}

	switch {
	case current == nil:
		line.Status = StatusFailed
	case previous == nil:
		line.Status = StatusNew
	default:
		line.Delta = performance.Round2(*current - *previous)
		switch {
		case line.Delta > 0:
			line.Status = StatusUp
		case line.Delta < 0:
			line.Status = StatusDown
		default:
			line.Status = StatusUnchanged
		}
	}
	return line
}

// SortLines orders lines descending by current price; items without a price
// sort as zero, to the bottom. Ties keep catalog order.
func SortLines(lines []ItemLine) {
	price := func(l ItemLine) float64 {
		if l.Price == nil {
			return 0
		}
		return *l.Price
	}
	sort.SliceStable(lines, func(i, j int) bool {
		return price(lines[i]) > price(lines[j])
	})
}

// FormatLine renders one item line in report wording.
func FormatLine(l ItemLine) string {
	switch l.Status {
	case StatusFailed:
		return fmt.Sprintf("❌ %s: no price found", l.Name)
	case StatusNew:
		return fmt.Sprintf("🆕 %s: $%.2f", l.Name, *l.Price)
	case StatusUp:
		return fmt.Sprintf("🔺 %s: $%.2f → $%.2f (%+.2f)", l.Name, *l.Previous, *l.Price, l.Delta)
	case StatusDown:
		return fmt.Sprintf("🔻 %s: $%.2f → $%.2f (%+.2f)", l.Name, *l.Previous, *l.Price, l.Delta)
	default:
		return fmt.Sprintf("➡️ %s: $%.2f (no change)", l.Name, *l.Price)
	}
}

// FormatPerformance renders the WTD/MTD/YTD/ALL figures on one line.
func FormatPerformance(deltas map[performance.Period]*float64) string {
	parts := make([]string, 0, 4)
	for _, p := range performance.Periods() {
		d := deltas[p]
		if d == nil {
			parts = append(parts, fmt.Sprintf("%s n/a", p))
			continue
		}
		parts = append(parts, fmt.Sprintf("%s %s %+.2f", p, deltaMarker(*d), *d))
	}
	return strings.Join(parts, " · ")
}

func deltaMarker(d float64) string {
	switch {
	case d > 0:
		return "🔺"
	case d < 0:
		return "🔻"
	default:
		return "➡️"
	}
}

func sectionColor(s Section) int {
	wtd := s.Deltas[performance.PeriodWeek]
	switch {
	case wtd == nil:
		return colorNeutral
	case *wtd > 0:
		return colorUp
	case *wtd < 0:
		return colorDown
	default:
		return colorNeutral
	}
}

// ToWebhook renders the report as a webhook message: a content header plus
// one embed per owner. The last-run annotation belongs to the report as a
// whole, so it is rendered once, on the final embed's footer.
func ToWebhook(r *Report) discord.Message {
	msg := discord.Message{
		Username: "TCG Price Digest",
		Content:  fmt.Sprintf("📊 **TCG Price Digest** (%s)", r.GeneratedAt.Format("2006-01-02 15:04")),
	}

	for i, s := range r.Sections {
		lines := make([]string, 0, len(s.Lines))
		for _, l := range s.Lines {
			lines = append(lines, FormatLine(l))
		}
		if len(lines) == 0 {
			lines = append(lines, "no items tracked")
		}

		embed := discord.Embed{
			Title: fmt.Sprintf("%s — $%.2f", s.Owner, s.Total),
			Color: sectionColor(s),
			Fields: []discord.EmbedField{
				{Name: "Items", Value: strings.Join(lines, "\n")},
				{Name: "Performance", Value: FormatPerformance(s.Deltas)},
			},
		}

		if i == len(r.Sections)-1 {
			embed.Footer = &discord.EmbedFooter{Text: footerText(r)}
		}
		msg.Embeds = append(msg.Embeds, embed)
	}

	return msg
}

func footerText(r *Report) string {
	if r.LastRun == nil {
		return fmt.Sprintf("First run · run %s", r.RunID)
	}
	return fmt.Sprintf("Last run %s ago · run %s", formatSince(r.GeneratedAt.Sub(*r.LastRun)), r.RunID)
}

// formatSince renders a duration as a coarse "3h12m" style string.
func formatSince(d time.Duration) string {
	if d < time.Minute {
		return "moments"
	}
	d = d.Round(time.Minute)
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	if h == 0 {
		return fmt.Sprintf("%dm", m)
	}
	if h >= 48 {
		return fmt.Sprintf("%dd%dh", h/24, h%24)
	}
	return fmt.Sprintf("%dh%dm", h, m)
}
