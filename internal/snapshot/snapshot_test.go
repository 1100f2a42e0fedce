package snapshot

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/codyseavey/tcg-price-digest/internal/database"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "snapshots.db"))
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	return NewService(db)
}

func TestRecord_SameDayUpsert(t *testing.T) {
	svc := newTestService(t)
	now := time.Date(2025, 8, 26, 12, 0, 0, 0, time.UTC)

	if err := svc.Record("Ben", "2025-08-26", 17.75, 3, 2); err != nil {
		t.Fatalf("record failed: %v", err)
	}
	// Re-run later the same day: row is replaced, not duplicated
	if err := svc.Record("Ben", "2025-08-26", 18.00, 3, 3); err != nil {
		t.Fatalf("same-day record failed: %v", err)
	}

	snaps, err := svc.History("Ben", "week", now)
	if err != nil {
		t.Fatalf("history failed: %v", err)
	}
	if len(snaps) != 1 {
		t.Fatalf("expected 1 snapshot after same-day re-run, got %d", len(snaps))
	}
	if snaps[0].TotalValue != 18.00 {
		t.Errorf("expected upserted value 18.00, got %v", snaps[0].TotalValue)
	}
	if snaps[0].PricedCount != 3 {
		t.Errorf("expected upserted priced count 3, got %d", snaps[0].PricedCount)
	}
}

func TestHistory_PeriodFilterAndOrder(t *testing.T) {
	svc := newTestService(t)
	now := time.Date(2025, 8, 26, 12, 0, 0, 0, time.UTC)

	for _, row := range []struct {
		date  string
		value float64
	}{
		{"2025-08-25", 16.00},
		{"2025-08-20", 15.00},
		{"2025-06-01", 10.00}, // outside the month window
	} {
		if err := svc.Record("Ben", row.date, row.value, 2, 2); err != nil {
			t.Fatalf("record failed: %v", err)
		}
	}
	// Another owner's rows must not leak in
	if err := svc.Record("Alice", "2025-08-25", 99.00, 1, 1); err != nil {
		t.Fatalf("record failed: %v", err)
	}

	snaps, err := svc.History("Ben", "month", now)
	if err != nil {
		t.Fatalf("history failed: %v", err)
	}
	if len(snaps) != 2 {
		t.Fatalf("expected 2 snapshots in month window, got %d", len(snaps))
	}
	if snaps[0].SnapshotDate != "2025-08-20" || snaps[1].SnapshotDate != "2025-08-25" {
		t.Errorf("snapshots out of order: %s, %s", snaps[0].SnapshotDate, snaps[1].SnapshotDate)
	}

	all, err := svc.History("Ben", "all", now)
	if err != nil {
		t.Fatalf("history failed: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("expected 3 snapshots for all period, got %d", len(all))
	}
}
