// Package snapshot archives each owner's total tracked value per day to
// SQLite, giving the daemon-mode history API something to query. The archive
// is supplementary: the JSON price state stays the canonical store.
package snapshot

import (
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/codyseavey/tcg-price-digest/internal/models"
	"github.com/codyseavey/tcg-price-digest/internal/report"
)

// Service records and queries owner value snapshots.
type Service struct {
	db *gorm.DB
}

// NewService creates a snapshot service over an opened database.
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Record upserts one owner's value for a given day. Same-day re-runs replace
// the row instead of duplicating it.
func (s *Service) Record(owner, date string, totalValue float64, itemCount, pricedCount int) error {
	snap := models.OwnerValueSnapshot{
		Owner:        owner,
		SnapshotDate: date,
		TotalValue:   totalValue,
		ItemCount:    itemCount,
		PricedCount:  pricedCount,
		CreatedAt:    time.Now(),
	}

	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "owner"}, {Name: "snapshot_date"}},
		DoUpdates: clause.AssignmentColumns([]string{"total_value", "item_count", "priced_count"}),
	}).Create(&snap).Error
	if err != nil {
		return fmt.Errorf("failed to record snapshot for %s on %s: %w", owner, date, err)
	}
	return nil
}

// RecordReport archives every owner section of a finished run.
func (s *Service) RecordReport(r *report.Report) error {
	date := r.GeneratedAt.Format(models.DateFormat)
	for _, section := range r.Sections {
		priced := 0
		for _, l := range section.Lines {
			if l.Price != nil {
				priced++
			}
		}
		if err := s.Record(section.Owner, date, section.Total, len(section.Lines), priced); err != nil {
			return err
		}
	}
	return nil
}

// History returns an owner's snapshots for a look-back period, oldest first.
func (s *Service) History(owner, period string, now time.Time) ([]models.OwnerValueSnapshot, error) {
	var startDate time.Time

	switch period {
	case "week":
		startDate = now.AddDate(0, 0, -7)
	case "month":
		startDate = now.AddDate(0, -1, 0)
	case "year":
		startDate = now.AddDate(-1, 0, 0)
	case "all":
		startDate = time.Time{} // No filter
	default:
		startDate = now.AddDate(0, -1, 0) // Default to 1 month
	}

	query := s.db.Where("owner = ?", owner).Order("snapshot_date ASC")
	if !startDate.IsZero() {
		query = query.Where("snapshot_date >= ?", startDate.Format(models.DateFormat))
	}

	var snapshots []models.OwnerValueSnapshot
	if err := query.Find(&snapshots).Error; err != nil {
		return nil, fmt.Errorf("failed to load snapshots for %s: %w", owner, err)
	}
	return snapshots, nil
}
