package models

import (
	"time"
)

// OwnerValueSnapshot stores one owner's total tracked value for a single day.
// Written after every run; the unique (owner, snapshot_date) index makes
// same-day re-runs upsert instead of duplicating rows.
type OwnerValueSnapshot struct {
	ID           uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	Owner        string    `json:"owner" gorm:"uniqueIndex:idx_owner_date;not null"`
	SnapshotDate string    `json:"snapshot_date" gorm:"uniqueIndex:idx_owner_date;not null"` // YYYY-MM-DD
	TotalValue   float64   `json:"total_value"`
	ItemCount    int       `json:"item_count"`
	PricedCount  int       `json:"priced_count"`
	CreatedAt    time.Time `json:"created_at"`
}

// ValueHistoryResponse is the API response for owner value history
type ValueHistoryResponse struct {
	Owner     string               `json:"owner"`
	Period    string               `json:"period"` // "week", "month", "year", "all"
	Snapshots []OwnerValueSnapshot `json:"snapshots"`
}
