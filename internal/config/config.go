package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	ListenAddr string
	DataPath   string

	SessionTTL    time.Duration
	CookieSecure  bool
	NoteSortOrder string

	AssistantURL   string
	AssistantKey   string
	AssistantModel string
}

func Load() Config {
	cfg := Config{
		ListenAddr:     envOr("ZETTEL_LISTEN_ADDR", "127.0.0.1:8080"),
		DataPath:       os.Getenv("ZETTEL_DATA_PATH"),
		SessionTTL:     parseDurationOr("ZETTEL_SESSION_TTL", 30*24*time.Hour),
		CookieSecure:   parseBoolOr("ZETTEL_COOKIE_SECURE", false),
		NoteSortOrder:  envOr("ZETTEL_NOTE_SORT", "asc"),
		AssistantURL:   os.Getenv("ZETTEL_ASSISTANT_URL"),
		AssistantKey:   os.Getenv("ZETTEL_ASSISTANT_KEY"),
		AssistantModel: envOr("ZETTEL_ASSISTANT_MODEL", "gpt-4o-mini"),
	}
	if path := strings.TrimSpace(os.Getenv("ZETTEL_CONFIG")); path != "" {
		cfg = overlayFile(cfg, path)
	}
	return cfg
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return fallback
}

func parseBoolOr(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
