// Package performance derives period-over-period price deltas from an item's
// observation history. A delta compares the latest observation against a
// baseline: the most recent observation at or before the period's start date.
package performance

import (
	"math"
	"time"

	"github.com/codyseavey/tcg-price-digest/internal/models"
)

// Period is a fixed look-back window for a performance delta.
type Period string

const (
	PeriodWeek  Period = "WTD" // since start of the current ISO week (Monday)
	PeriodMonth Period = "MTD" // since start of the current calendar month
	PeriodYear  Period = "YTD" // since start of the current calendar year
	PeriodAll   Period = "ALL" // since the earliest recorded observation
)

// Periods returns all reporting periods in render order.
func Periods() []Period {
	return []Period{PeriodWeek, PeriodMonth, PeriodYear, PeriodAll}
}

// Round2 rounds a dollar amount to cents.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// BaselineAt returns the price of the most recent observation dated at or
// before target, or nil when every observation is newer than target.
func BaselineAt(history []models.PriceObservation, target string) *float64 {
	var baseline *models.PriceObservation
	for i := range history {
		obs := &history[i]
		if obs.Date > target {
			continue
		}
		if baseline == nil || obs.Date > baseline.Date {
			baseline = obs
		}
	}
	if baseline == nil {
		return nil
	}
	price := baseline.Market
	return &price
}

// Since computes the delta between the chronologically last observation and
// the baseline at target, rounded to cents. Absent when either side is
// missing. A single-observation history measured against its own date yields
// 0.00, not absent.
func Since(history []models.PriceObservation, target string) *float64 {
	rec := models.ItemRecord{History: history}
	latest, ok := rec.Latest()
	if !ok {
		return nil
	}
	baseline := BaselineAt(history, target)
	if baseline == nil {
		return nil
	}
	delta := Round2(latest.Market - *baseline)
	return &delta
}

// TargetDate resolves a period to its baseline date for the given run time.
// For PeriodAll the target is the item's own earliest observation; ok is
// false when the history is empty.
func TargetDate(p Period, now time.Time, history []models.PriceObservation) (string, bool) {
	switch p {
	case PeriodWeek:
		return StartOfISOWeek(now).Format(models.DateFormat), true
	case PeriodMonth:
		return StartOfMonth(now).Format(models.DateFormat), true
	case PeriodYear:
		return StartOfYear(now).Format(models.DateFormat), true
	case PeriodAll:
		earliest, ok := models.ItemRecord{History: history}.Earliest()
		if !ok {
			return "", false
		}
		return earliest.Date, true
	}
	return "", false
}

// Deltas computes the four fixed-period deltas for one item's history.
func Deltas(history []models.PriceObservation, now time.Time) map[Period]*float64 {
	out := make(map[Period]*float64, 4)
	for _, p := range Periods() {
		target, ok := TargetDate(p, now, history)
		if !ok {
			out[p] = nil
			continue
		}
		out[p] = Since(history, target)
	}
	return out
}

// OwnerDeltas aggregates period deltas across one owner's items: the delta is
// the owner's current total minus the sum of each item's own baseline. An
// item without a baseline for a period contributes zero to the baseline sum
// while its current price stays in the total. That asymmetry is the observed,
// documented behavior of this aggregate, not an oversight. A period in which
// no item has a baseline is absent.
func OwnerDeltas(histories [][]models.PriceObservation, currentTotal float64, now time.Time) map[Period]*float64 {
	out := make(map[Period]*float64, 4)
	for _, p := range Periods() {
		var baselineSum float64
		found := false
		for _, h := range histories {
			target, ok := TargetDate(p, now, h)
			if !ok {
				continue
			}
			if baseline := BaselineAt(h, target); baseline != nil {
				baselineSum += *baseline
				found = true
			}
		}
		if !found {
			out[p] = nil
			continue
		}
		delta := Round2(currentTotal - baselineSum)
		out[p] = &delta
	}
	return out
}

// StartOfISOWeek returns the Monday of t's ISO week, at day granularity.
func StartOfISOWeek(t time.Time) time.Time {
	weekday := int(t.Weekday())
	if weekday == 0 {
		weekday = 7 // Sunday belongs to the week that started six days earlier
	}
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return day.AddDate(0, 0, -(weekday - 1))
}

// StartOfMonth returns the first day of t's month.
func StartOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// StartOfYear returns January 1st of t's year.
func StartOfYear(t time.Time) time.Time {
	return time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, t.Location())
}
