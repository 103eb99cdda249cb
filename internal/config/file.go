package config

import (
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// fileConfig mirrors Config for the optional YAML file. Only set fields
// override; environment values win when the file leaves a field empty.
type fileConfig struct {
	ListenAddr     string `yaml:"listen_addr"`
	DataPath       string `yaml:"data_path"`
	SessionTTL     string `yaml:"session_ttl"`
	CookieSecure   *bool  `yaml:"cookie_secure"`
	NoteSortOrder  string `yaml:"note_sort"`
	AssistantURL   string `yaml:"assistant_url"`
	AssistantKey   string `yaml:"assistant_key"`
	AssistantModel string `yaml:"assistant_model"`
}

func overlayFile(cfg Config, path string) Config {
	raw, err := os.ReadFile(path)
	if err != nil {
		slog.Warn("config file unreadable, using env only", "path", path, "err", err)
		return cfg
	}
	var fc fileConfig
	if err := yaml.Unmarshal(raw, &fc); err != nil {
		slog.Warn("config file invalid, using env only", "path", path, "err", err)
		return cfg
	}
	if fc.ListenAddr != "" {
		cfg.ListenAddr = fc.ListenAddr
	}
	if fc.DataPath != "" {
		cfg.DataPath = fc.DataPath
	}
	if fc.SessionTTL != "" {
		if d, err := time.ParseDuration(fc.SessionTTL); err == nil && d > 0 {
			cfg.SessionTTL = d
		}
	}
	if fc.CookieSecure != nil {
		cfg.CookieSecure = *fc.CookieSecure
	}
	if fc.NoteSortOrder != "" {
		cfg.NoteSortOrder = fc.NoteSortOrder
	}
	if fc.AssistantURL != "" {
		cfg.AssistantURL = fc.AssistantURL
	}
	if fc.AssistantKey != "" {
		cfg.AssistantKey = fc.AssistantKey
	}
	if fc.AssistantModel != "" {
		cfg.AssistantModel = fc.AssistantModel
	}
	return cfg
}
