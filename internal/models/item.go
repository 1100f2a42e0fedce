package models

// DateFormat is the calendar-day format used for observation dates.
const DateFormat = "2006-01-02"

// PriceObservation is one observed market price for a single calendar day.
// Observations are immutable once recorded; a record holds at most one per day.
type PriceObservation struct {
	Date   string  `json:"date"`
	Market float64 `json:"market"`
}

// ItemRecord is the persisted state for one tracked product: the latest
// observed price plus an append-only per-day price history.
type ItemRecord struct {
	Price   float64            `json:"price"`
	History []PriceObservation `json:"history"`
}

// Latest returns the chronologically last observation in the history.
// Insertion order is not guaranteed to be sorted, so this scans for the
// maximum date rather than trusting the final element.
func (r ItemRecord) Latest() (PriceObservation, bool) {
	if len(r.History) == 0 {
		return PriceObservation{}, false
	}
	latest := r.History[0]
	for _, obs := range r.History[1:] {
		// ISO dates compare correctly as strings
		if obs.Date >= latest.Date {
			latest = obs
		}
	}
	return latest, true
}

// Earliest returns the chronologically first observation in the history.
func (r ItemRecord) Earliest() (PriceObservation, bool) {
	if len(r.History) == 0 {
		return PriceObservation{}, false
	}
	earliest := r.History[0]
	for _, obs := range r.History[1:] {
		if obs.Date < earliest.Date {
			earliest = obs
		}
	}
	return earliest, true
}

// HasObservationOn reports whether an observation already exists for the given day.
func (r ItemRecord) HasObservationOn(date string) bool {
	for _, obs := range r.History {
		if obs.Date == date {
			return true
		}
	}
	return false
}
