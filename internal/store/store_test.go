package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/codyseavey/tcg-price-digest/internal/models"
)

func newTestStore(t *testing.T) *FileStore {
	t.Helper()
	dir := t.TempDir()
	return NewFileStore(filepath.Join(dir, "data.json"), filepath.Join(dir, "lastrun.txt"))
}

func TestLoad_MissingFile(t *testing.T) {
	s := newTestStore(t)
	records := s.Load()
	if len(records) != 0 {
		t.Errorf("expected empty state for missing file, got %d records", len(records))
	}
}

func TestLoad_CorruptFile(t *testing.T) {
	s := newTestStore(t)
	if err := os.WriteFile(s.dataPath, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	records := s.Load()
	if len(records) != 0 {
		t.Errorf("expected empty state for corrupt file, got %d records", len(records))
	}
}

func TestLoad_LegacyUpgrade(t *testing.T) {
	s := newTestStore(t)
	if err := os.WriteFile(s.dataPath, []byte(`{"123": 4.5}`), 0644); err != nil {
		t.Fatal(err)
	}

	records := s.Load()
	rec, ok := records["123"]
	if !ok {
		t.Fatal("expected record for product 123")
	}
	if rec.Price != 4.5 {
		t.Errorf("expected upgraded price 4.5, got %v", rec.Price)
	}
	if rec.History == nil || len(rec.History) != 0 {
		t.Errorf("expected empty history after upgrade, got %v", rec.History)
	}
}

func TestLoad_MixedLegacyAndCurrent(t *testing.T) {
	s := newTestStore(t)
	state := `{
		"123": 4.5,
		"456": {"price": 9.0, "history": [{"date": "2025-01-10", "market": 8.5}]}
	}`
	if err := os.WriteFile(s.dataPath, []byte(state), 0644); err != nil {
		t.Fatal(err)
	}

	records := s.Load()
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records["123"].Price != 4.5 {
		t.Errorf("legacy record lost its price: %v", records["123"].Price)
	}
	if len(records["456"].History) != 1 || records["456"].History[0].Market != 8.5 {
		t.Errorf("current-form record mangled: %+v", records["456"])
	}
}

func TestSaveLoad_Roundtrip(t *testing.T) {
	s := newTestStore(t)
	records := map[string]models.ItemRecord{
		"509980": {
			Price: 4.25,
			History: []models.PriceObservation{
				{Date: "2025-08-26", Market: 4.25},
			},
		},
	}

	if err := s.Save(records); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded := s.Load()
	rec := loaded["509980"]
	if rec.Price != 4.25 {
		t.Errorf("expected price 4.25, got %v", rec.Price)
	}
	if len(rec.History) != 1 || rec.History[0].Date != "2025-08-26" {
		t.Errorf("unexpected history: %v", rec.History)
	}
}

func TestRecordObservation_Idempotent(t *testing.T) {
	rec := models.ItemRecord{}

	rec = RecordObservation(rec, "2025-08-26", 4.25)
	if len(rec.History) != 1 {
		t.Fatalf("expected 1 observation, got %d", len(rec.History))
	}

	// Same-day re-run with a different price: no duplicate entry, but the
	// latest price still updates.
	rec = RecordObservation(rec, "2025-08-26", 4.50)
	if len(rec.History) != 1 {
		t.Errorf("expected same-day re-run to keep 1 observation, got %d", len(rec.History))
	}
	if rec.History[0].Market != 4.25 {
		t.Errorf("recorded observation must be immutable, got %v", rec.History[0].Market)
	}
	if rec.Price != 4.50 {
		t.Errorf("expected latest price 4.50, got %v", rec.Price)
	}

	// Next day appends
	rec = RecordObservation(rec, "2025-08-27", 4.75)
	if len(rec.History) != 2 {
		t.Errorf("expected 2 observations after new day, got %d", len(rec.History))
	}
}

func TestLastRun_Roundtrip(t *testing.T) {
	s := newTestStore(t)

	if _, ok := s.LoadLastRun(); ok {
		t.Error("expected no last-run timestamp on first run")
	}

	ts := time.Date(2025, 8, 26, 14, 30, 0, 0, time.UTC)
	if err := s.SaveLastRun(ts); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, ok := s.LoadLastRun()
	if !ok {
		t.Fatal("expected a last-run timestamp")
	}
	if !loaded.Equal(ts) {
		t.Errorf("expected %v, got %v", ts, loaded)
	}
}

func TestLastRun_Corrupt(t *testing.T) {
	s := newTestStore(t)
	if err := os.WriteFile(s.lastRunPath, []byte("yesterday-ish"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, ok := s.LoadLastRun(); ok {
		t.Error("expected corrupt timestamp to be treated as absent")
	}
}
