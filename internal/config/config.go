// Package config resolves loandash settings from built-in defaults, an
// optional TOML file and LOANDASH_* environment variables, in that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/knadh/koanf"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
)

const (
	appName   = "loandash"
	EnvPrefix = "LOANDASH_"
)

type Config struct {
	API       APIConfig       `koanf:"api"`
	Server    ServerConfig    `koanf:"server"`
	Store     StoreConfig     `koanf:"store"`
	Dashboard DashboardConfig `koanf:"dashboard"`
	Log       LogConfig       `koanf:"log"`
}

// APIConfig is where the dashboard and the query command find the loans endpoint.
type APIConfig struct {
	URL     string        `koanf:"url"`
	Timeout time.Duration `koanf:"timeout"`
}

type ServerConfig struct {
	Addr    string        `koanf:"addr"`
	Latency time.Duration `koanf:"latency"`
}

// StoreConfig selects and configures the record store behind the endpoint.
type StoreConfig struct {
	Driver          string `koanf:"driver"`
	SQLitePath      string `koanf:"sqlite_path"`
	MongoURI        string `koanf:"mongo_uri"`
	MongoDatabase   string `koanf:"mongo_database"`
	MongoCollection string `koanf:"mongo_collection"`
	Count           int    `koanf:"count"`
	Seed            int64  `koanf:"seed"`
}

type DashboardConfig struct {
	PageSize    int           `koanf:"page_size"`
	RowHeight   float64       `koanf:"row_height"`
	VisibleRows int           `koanf:"visible_rows"`
	Debounce    time.Duration `koanf:"debounce"`
	WheelStep   float64       `koanf:"wheel_step"`
}

type LogConfig struct {
	Level      string `koanf:"level"`
	File       string `koanf:"file"`
	MaxSize    int    `koanf:"max_size"`
	MaxBackups int    `koanf:"max_backups"`
	Compress   bool   `koanf:"compress"`
	Stderr     bool   `koanf:"stderr"`
}

func defaults() map[string]interface{} {
	return map[string]interface{}{
		"api.url":                "http://localhost:8080",
		"api.timeout":            10 * time.Second,
		"server.addr":            ":8080",
		"server.latency":         300 * time.Millisecond,
		"store.driver":           "memory",
		"store.sqlite_path":      filepath.Join(xdg.DataHome, appName, "loans.db"),
		"store.mongo_uri":        "mongodb://localhost:27017",
		"store.mongo_database":   appName,
		"store.mongo_collection": "loans",
		"store.count":            50000,
		"store.seed":             int64(1),
		"dashboard.page_size":    100,
		"dashboard.row_height":   60.0,
		"dashboard.visible_rows": 10,
		"dashboard.debounce":     500 * time.Millisecond,
		"dashboard.wheel_step":   20.0,
		"log.level":              "info",
		"log.file":               filepath.Join(xdg.StateHome, appName, appName+".log"),
		"log.max_size":           10,
		"log.max_backups":        3,
		"log.compress":           false,
		"log.stderr":             false,
	}
}

// DefaultPath is the config file read when no explicit path is given.
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, appName, "config.toml")
}

// Load builds the configuration. An explicit path must exist; the default
// path is skipped when absent.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	} else if explicit || !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &cfg, nil
}

// envKey maps LOANDASH_STORE__MONGO_URI to store.mongo_uri.
func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(s, "__", ".")
}
