// Package config gathers the environment-derived settings into one explicit
// struct so components take their configuration by value instead of reading
// globals.
package config

import (
	"os"
)

// Config holds every externally supplied setting.
type Config struct {
	// CatalogPath is the ownership declaration file.
	CatalogPath string
	// DataPath is the persisted price state (JSON).
	DataPath string
	// LastRunPath is the persisted run timestamp.
	LastRunPath string
	// WebhookURL enables report delivery when set. Its absence disables
	// delivery only, never the fetch/persist pipeline.
	WebhookURL string
	// SnapshotDBPath enables the SQLite value-snapshot archive when set.
	SnapshotDBPath string
	// Port is the HTTP listen port for serve mode.
	Port string
}

// FromEnv reads the configuration from the environment, falling back to
// the conventional file names.
func FromEnv() Config {
	return Config{
		CatalogPath:    envOr("URLS_FILE", "urls.txt"),
		DataPath:       envOr("DATA_FILE", "data.json"),
		LastRunPath:    envOr("LASTRUN_FILE", "lastrun.txt"),
		WebhookURL:     os.Getenv("DISCORD_WEBHOOK_URL"),
		SnapshotDBPath: os.Getenv("SNAPSHOT_DB_PATH"),
		Port:           envOr("PORT", "8080"),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
