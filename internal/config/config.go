package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/xxxsen/common/logger"

	"github.com/lexkit/lexdoc/internal/summarizer"
)

type Config struct {
	Port        int              `json:"port"`
	JWTSecret   string           `json:"jwt_secret"`
	JWTTTLHours int              `json:"jwt_ttl_hours"`
	LogConfig   logger.LogConfig `json:"log_config"`
	Database    DatabaseConfig   `json:"database"`
	FileStore   FileStoreConfig  `json:"file_store"`
	Upload      UploadConfig     `json:"upload"`
	Summarizer  SummarizerConfig `json:"summarizer"`
	AI          AIConfig         `json:"ai"`
	Jobs        JobsConfig       `json:"jobs"`
}

type DatabaseConfig struct {
	DSN      string `json:"dsn"`
	Host     string `json:"host"`
	Port     int    `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	DBName   string `json:"dbname"`
	SSLMode  string `json:"sslmode"`
}

type FileStoreConfig struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

type UploadConfig struct {
	MaxSizeBytes int64 `json:"max_size_bytes"`
}

// SummarizerConfig selects the summary engine and overrides the
// extractive summarizer's keyword list and tier budgets.
type SummarizerConfig struct {
	Engine      string                  `json:"engine"`
	DefaultTier string                  `json:"default_tier"`
	Keywords    []string                `json:"keywords"`
	TierBudgets map[summarizer.Tier]int `json:"tier_budgets"`
}

type AIConfig struct {
	Provider       string      `json:"provider"`
	Model          string      `json:"model"`
	TimeoutSeconds int         `json:"timeout_seconds"`
	Data           interface{} `json:"data"`
}

type JobsConfig struct {
	SummarySpec         string `json:"summary_spec"`
	SummaryDelaySeconds int64  `json:"summary_delay_seconds"`
}

func Load(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	var cfg Config
	if err := json.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if cfg.Port == 0 {
		return nil, fmt.Errorf("port is required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("jwt_secret is required")
	}
	if cfg.JWTTTLHours == 0 {
		cfg.JWTTTLHours = 72
	}
	if cfg.LogConfig.Level == "" {
		cfg.LogConfig.Level = "info"
	}
	if cfg.Database.DSN == "" && cfg.Database.Host == "" {
		return nil, fmt.Errorf("database.dsn or database.host is required")
	}
	if cfg.FileStore.Type == "" {
		cfg.FileStore.Type = "local"
		cfg.FileStore.Data = map[string]interface{}{"dir": "./storage"}
	}
	if cfg.Upload.MaxSizeBytes <= 0 {
		cfg.Upload.MaxSizeBytes = 10 * 1024 * 1024
	}
	if cfg.Summarizer.Engine == "" {
		cfg.Summarizer.Engine = "smart"
	}
	if cfg.Summarizer.DefaultTier == "" {
		cfg.Summarizer.DefaultTier = string(summarizer.TierMedium)
	}
	if cfg.Jobs.SummarySpec == "" {
		cfg.Jobs.SummarySpec = "*/5 * * * *"
	}
	if cfg.Jobs.SummaryDelaySeconds <= 0 {
		cfg.Jobs.SummaryDelaySeconds = 60
	}
	return &cfg, nil
}

// SummarizerSettings converts the config section into the summarizer's
// own Config, falling back to the built-in legal keyword set.
func (c *Config) SummarizerSettings() summarizer.Config {
	cfg := summarizer.DefaultConfig()
	if len(c.Summarizer.Keywords) > 0 {
		cfg.Keywords = c.Summarizer.Keywords
	}
	if len(c.Summarizer.TierBudgets) > 0 {
		cfg.TierBudgets = c.Summarizer.TierBudgets
	}
	return cfg
}
