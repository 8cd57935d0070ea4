package config

import (
	"log"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	configPathEnv  = "GAPDESK_CONFIG"
	apiBaseEnv     = "GAPDESK_API_BASE"
	downloadDirEnv = "GAPDESK_DOWNLOAD_DIR"
	logFileEnv     = "GAPDESK_LOG_FILE"
	logLevelEnv    = "GAPDESK_LOG_LEVEL"
	ledgerDSNEnv   = "GAPDESK_LEDGER_DSN"
)

// Config holds high-level settings required across the application.
type Config struct {
	API       APIConfig      `yaml:"api"`
	Downloads DownloadConfig `yaml:"downloads"`
	Logging   LoggingConfig  `yaml:"logging"`
	Ledger    LedgerConfig   `yaml:"ledger"`
}

// APIConfig describes how to reach the analysis backend.
type APIConfig struct {
	BaseURL string        `yaml:"baseUrl"`
	Timeout time.Duration `yaml:"timeout"`
}

// DownloadConfig controls where exported files are written.
type DownloadConfig struct {
	Dir string `yaml:"dir"`
}

// LoggingConfig selects level and destination file for slog output.
type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// LedgerConfig enables the optional Postgres export ledger when DSN is set.
type LedgerConfig struct {
	DSN string `yaml:"dsn"`
}

// Load reads YAML configuration (if present) and applies environment overrides.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()
	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(apiBaseEnv); v != "" {
		c.API.BaseURL = v
	}

	if v := os.Getenv(downloadDirEnv); v != "" {
		c.Downloads.Dir = v
	}

	if v := os.Getenv(logFileEnv); v != "" {
		c.Logging.File = v
	}

	if v := os.Getenv(logLevelEnv); v != "" {
		c.Logging.Level = v
	}

	if v := os.Getenv(ledgerDSNEnv); v != "" {
		c.Ledger.DSN = v
	}
}

func mergeConfig(base, override Config) Config {
	if override.API.BaseURL != "" {
		base.API.BaseURL = override.API.BaseURL
	}
	if override.API.Timeout > 0 {
		base.API.Timeout = override.API.Timeout
	}

	if override.Downloads.Dir != "" {
		base.Downloads = override.Downloads
	}

	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}
	if override.Logging.File != "" {
		base.Logging.File = override.Logging.File
	}

	if override.Ledger.DSN != "" {
		base.Ledger = override.Ledger
	}

	return base
}

func defaultConfig() Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}

	return Config{
		API: APIConfig{
			BaseURL: "http://127.0.0.1:8000",
			Timeout: 0, // batch analysis can run for minutes; the backend bounds it
		},
		Downloads: DownloadConfig{Dir: filepath.Join(home, "Downloads")},
		Logging: LoggingConfig{
			Level: "info",
			File:  filepath.Join(home, ".gapdesk", "gapdesk.log"),
		},
		Ledger: LedgerConfig{DSN: ""},
	}
}
