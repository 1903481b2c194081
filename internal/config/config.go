package config

import (
	"fmt"
	"os"
	"time"
)

type Config struct {
	Port string

	// Upstream generation service
	UpstreamURL    string
	UpstreamAPIKey string

	// Auth
	MdliveAPIKey string

	// Persistence
	StoreBackend  string // "badger" or "remote"
	BadgerPath    string
	KVStoreURL    string
	KVStoreAPIKey string

	// Sync engine
	PatchDebounce    time.Duration
	SnapshotDebounce time.Duration
	SessionTTL       time.Duration

	// Fallback outline material (empty = built-in default)
	OutlinePath string
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8090"),

		UpstreamURL:    envOr("UPSTREAM_URL", "http://localhost:8080"),
		UpstreamAPIKey: os.Getenv("UPSTREAM_API_KEY"),

		MdliveAPIKey: os.Getenv("MDLIVE_API_KEY"),

		StoreBackend:  envOr("STORE_BACKEND", "badger"),
		BadgerPath:    envOr("BADGER_PATH", "./data/mdlive"),
		KVStoreURL:    envOr("KVSTORE_URL", "http://localhost:8081"),
		KVStoreAPIKey: os.Getenv("KVSTORE_API_KEY"),

		PatchDebounce:    envDuration("PATCH_DEBOUNCE", 250*time.Millisecond),
		SnapshotDebounce: envDuration("SNAPSHOT_DEBOUNCE", 250*time.Millisecond),
		SessionTTL:       envDuration("SESSION_TTL", 1*time.Hour),

		OutlinePath: os.Getenv("OUTLINE_PATH"),
	}

	if cfg.PatchDebounce <= 0 {
		cfg.PatchDebounce = 250 * time.Millisecond
	}
	if cfg.SnapshotDebounce <= 0 {
		cfg.SnapshotDebounce = 250 * time.Millisecond
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 1 * time.Hour
	}

	return cfg
}

func (c Config) Validate() error {
	if c.MdliveAPIKey == "" {
		return fmt.Errorf("MDLIVE_API_KEY is required")
	}
	switch c.StoreBackend {
	case "badger":
		if c.BadgerPath == "" {
			return fmt.Errorf("BADGER_PATH is required for the badger backend")
		}
	case "remote":
		if c.KVStoreAPIKey == "" {
			return fmt.Errorf("KVSTORE_API_KEY is required for the remote backend")
		}
	default:
		return fmt.Errorf("unknown STORE_BACKEND: %q", c.StoreBackend)
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
