// Package store persists the per-item price state and the run metadata.
// The price state is a single JSON file mapping product id to ItemRecord;
// a legacy form mapping product id to a bare number is upgraded on load.
package store

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/codyseavey/tcg-price-digest/internal/models"
)

// FileStore reads and writes the two persisted files: the price state and
// the last-run timestamp. The store is read once at the start of a run and
// written once at the end.
type FileStore struct {
	dataPath    string
	lastRunPath string
}

// NewFileStore creates a store over the given file paths.
func NewFileStore(dataPath, lastRunPath string) *FileStore {
	return &FileStore{
		dataPath:    dataPath,
		lastRunPath: lastRunPath,
	}
}

// Load reads the persisted price state. A missing or unparsable file is
// treated as "no prior data", never as a fatal condition.
func (s *FileStore) Load() map[string]models.ItemRecord {
	data, err := os.ReadFile(s.dataPath)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("Store: failed to read %s, starting empty: %v", s.dataPath, err)
		}
		return map[string]models.ItemRecord{}
	}

	records, err := decodeRecords(data)
	if err != nil {
		log.Printf("Store: %s is unparsable, starting empty: %v", s.dataPath, err)
		return map[string]models.ItemRecord{}
	}
	return records
}

// decodeRecords parses the persisted JSON object, upgrading any legacy
// entries it contains.
func decodeRecords(data []byte) (map[string]models.ItemRecord, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse price state: %w", err)
	}

	records := make(map[string]models.ItemRecord, len(raw))
	for id, entry := range raw {
		rec, err := upgradeRecord(entry)
		if err != nil {
			return nil, fmt.Errorf("product %s: %w", id, err)
		}
		records[id] = rec
	}
	return records, nil
}

// upgradeRecord decodes one persisted entry. The current form is an object
// with price and history; the legacy form is a bare number, upgraded to a
// record with an empty history so the numeric value is never lost.
func upgradeRecord(entry json.RawMessage) (models.ItemRecord, error) {
	trimmed := strings.TrimSpace(string(entry))
	if strings.HasPrefix(trimmed, "{") {
		var rec models.ItemRecord
		if err := json.Unmarshal(entry, &rec); err != nil {
			return models.ItemRecord{}, fmt.Errorf("invalid record: %w", err)
		}
		if rec.History == nil {
			rec.History = []models.PriceObservation{}
		}
		return rec, nil
	}

	var price float64
	if err := json.Unmarshal(entry, &price); err != nil {
		return models.ItemRecord{}, fmt.Errorf("invalid legacy price: %w", err)
	}
	return models.ItemRecord{Price: price, History: []models.PriceObservation{}}, nil
}

// RecordObservation merges a freshly fetched price into a record. The latest
// price is always overwritten; a history observation is appended only when
// the day has none yet, so same-day re-runs never duplicate entries.
func RecordObservation(rec models.ItemRecord, date string, price float64) models.ItemRecord {
	rec.Price = price
	if !rec.HasObservationOn(date) {
		rec.History = append(rec.History, models.PriceObservation{Date: date, Market: price})
	}
	return rec
}

// Save rewrites the whole price state file.
func (s *FileStore) Save(records map[string]models.ItemRecord) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode price state: %w", err)
	}
	if err := os.WriteFile(s.dataPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", s.dataPath, err)
	}
	return nil
}

// LoadLastRun returns the previous run's timestamp, if one was recorded.
func (s *FileStore) LoadLastRun() (time.Time, bool) {
	data, err := os.ReadFile(s.lastRunPath)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("Store: failed to read %s: %v", s.lastRunPath, err)
		}
		return time.Time{}, false
	}

	ts, err := time.Parse(time.RFC3339, strings.TrimSpace(string(data)))
	if err != nil {
		log.Printf("Store: unparsable last-run timestamp in %s: %v", s.lastRunPath, err)
		return time.Time{}, false
	}
	return ts, true
}

// SaveLastRun records the run timestamp. Used only for display on the next
// run, so failures are the caller's to log, not to abort on.
func (s *FileStore) SaveLastRun(ts time.Time) error {
	data := ts.Format(time.RFC3339) + "\n"
	if err := os.WriteFile(s.lastRunPath, []byte(data), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", s.lastRunPath, err)
	}
	return nil
}
