package config

import (
	"os"
	"path/filepath"
	"strconv"

	"granolad/internal/digest"
)

type Config struct {
	Addr      string
	CachePath string
	// Identity overrides. When unset, identity is detected from the cache.
	UserID    string
	UserEmail string
	UserName  string

	DaysBack    int
	RecentLimit int
	RulesPath   string

	// Webhook publishing - empty URL disables the publisher
	ZapierWebhookURL string
	DigestSchedule   string
	RunOnStart       bool

	LogLevel string
}

func Load() Config {
	return Config{
		Addr:             getenv("GRANOLA_ADDR", ":11434"),
		CachePath:        getenv("GRANOLA_CACHE_PATH", defaultCachePath()),
		UserID:           getenv("GRANOLA_USER_ID", ""),
		UserEmail:        getenv("GRANOLA_USER_EMAIL", ""),
		UserName:         getenv("GRANOLA_USER_NAME", ""),
		DaysBack:         getenvInt("GRANOLA_DAYS_BACK", 7),
		RecentLimit:      getenvInt("GRANOLA_RECENT_LIMIT", 10),
		RulesPath:        getenv("CLASSIFIER_RULES", ""),
		ZapierWebhookURL: getenv("ZAPIER_WEBHOOK_URL", ""),
		DigestSchedule:   getenv("DIGEST_SCHEDULE", ""),
		RunOnStart:       getenv("DIGEST_RUN_ON_START", "") == "true",
		LogLevel:         getenv("LOG_LEVEL", "info"),
	}
}

func (c Config) Identity() digest.Identity {
	return digest.Identity{
		UserID: c.UserID,
		Email:  c.UserEmail,
		Name:   c.UserName,
	}
}

// defaultCachePath points at the note-taking app's cache in the user's
// Library directory, matching where the desktop client writes it.
func defaultCachePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "cache-v3.json"
	}
	return filepath.Join(home, "Library", "Application Support", "Granola", "cache-v3.json")
}

func getenv(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getenvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}
