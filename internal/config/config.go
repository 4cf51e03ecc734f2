package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Storage drivers.
const (
	StorageSQLite   = "sqlite"
	StoragePostgres = "postgres"
	StorageNone     = "none"
)

type EditorConfig struct {
	Version int `yaml:"version"`
	Editor  struct {
		ID   string `yaml:"id"`
		Name string `yaml:"name"`
	} `yaml:"editor"`
	Network struct {
		HTTPPort int `yaml:"http_port"`
	} `yaml:"network"`
	Storage struct {
		Driver     string `yaml:"driver"`
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"storage"`
	Autosave struct {
		Interval string `yaml:"interval"`
	} `yaml:"autosave"`
	History struct {
		Limit int `yaml:"limit"`
	} `yaml:"history"`
	CatalogPath string `yaml:"catalog_path"`
	WatchFile   bool   `yaml:"watch_file"`
	MQTT        struct {
		Enabled     bool   `yaml:"enabled"`
		ClientID    string `yaml:"client_id"`
		TopicPrefix string `yaml:"topic_prefix"`
	} `yaml:"mqtt"`
	Observatories map[string]ObservatoryConfig `yaml:"observatories"`
}

type ObservatoryConfig struct {
	Name     string `yaml:"name"`
	Required bool   `yaml:"required"`
}

// Default returns the configuration used when no file is given.
func Default() *EditorConfig {
	cfg := &EditorConfig{Version: 1}
	cfg.Editor.ID = "editor"
	cfg.Storage.Driver = StorageSQLite
	return cfg
}

// EditorID returns the configured editor id, defaulting to "editor".
func (c *EditorConfig) EditorID() string {
	if c.Editor.ID == "" {
		return "editor"
	}
	return c.Editor.ID
}

// HTTPPort returns the configured HTTP port, defaulting to 8080 if not set.
func (c *EditorConfig) HTTPPort() int {
	if c.Network.HTTPPort == 0 {
		return 8080
	}
	return c.Network.HTTPPort
}

// StorageDriver returns the storage driver, defaulting to sqlite.
func (c *EditorConfig) StorageDriver() string {
	if c.Storage.Driver == "" {
		return StorageSQLite
	}
	return c.Storage.Driver
}

// SQLitePath returns the sqlite database path, defaulting to ./ninaseq.db.
func (c *EditorConfig) SQLitePath() string {
	if c.Storage.SQLitePath == "" {
		return "ninaseq.db"
	}
	return c.Storage.SQLitePath
}

// AutosaveInterval parses autosave.interval. Empty means 5m; "0" disables.
func (c *EditorConfig) AutosaveInterval() (time.Duration, error) {
	switch c.Autosave.Interval {
	case "":
		return 5 * time.Minute, nil
	case "0":
		return 0, nil
	}
	d, err := time.ParseDuration(c.Autosave.Interval)
	if err != nil {
		return 0, fmt.Errorf("invalid autosave.interval %q: %w", c.Autosave.Interval, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid autosave.interval %q: negative", c.Autosave.Interval)
	}
	return d, nil
}

// HistoryLimit returns history.limit, defaulting to 50.
func (c *EditorConfig) HistoryLimit() int {
	if c.History.Limit <= 0 {
		return 50
	}
	return c.History.Limit
}

// MQTTClientID returns the MQTT client id, defaulting to "ninaseq-<editor id>".
func (c *EditorConfig) MQTTClientID() string {
	if c.MQTT.ClientID == "" {
		return "ninaseq-" + c.EditorID()
	}
	return c.MQTT.ClientID
}

func LoadEditorConfig(path string) (*EditorConfig, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, err
	}

	if cfg.Version != 1 {
		return nil, fmt.Errorf("unsupported editor.yaml version: %d", cfg.Version)
	}

	switch cfg.StorageDriver() {
	case StorageSQLite, StoragePostgres, StorageNone:
	default:
		return nil, fmt.Errorf("unknown storage driver: %s", cfg.Storage.Driver)
	}

	if _, err := cfg.AutosaveInterval(); err != nil {
		return nil, err
	}

	return cfg, nil
}
