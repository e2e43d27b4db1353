package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Server struct {
		Port           string `yaml:"port"`
		AllowedOrigins string `yaml:"allowed_origins"`
	} `yaml:"server"`
	Provider struct {
		Name            string            `yaml:"name"`
		APIKey          string            `yaml:"api_key"`
		BaseURL         string            `yaml:"base_url"`
		TimeoutSeconds  int               `yaml:"timeout_seconds"`
		SymbolOverrides map[string]string `yaml:"symbol_overrides"`
	} `yaml:"provider"`
	Analysis struct {
		Workers         int    `yaml:"workers"`
		DefaultUniverse string `yaml:"default_universe"`
	} `yaml:"analysis"`
	Cache struct {
		SQLitePath string `yaml:"sqlite_path"`
		TTLHours   int    `yaml:"ttl_hours"`
	} `yaml:"cache"`
	Warmup struct {
		Cron     string `yaml:"cron"`
		Universe string `yaml:"universe"`
		Days     int    `yaml:"days"`
	} `yaml:"warmup"`
	// Universes adds or replaces curated ticker lists by name.
	Universes map[string][]string `yaml:"universes"`
	Proxy     string              `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable
// overrides. A .env file in the working directory is folded into the process
// environment first.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("PORT"); v != "" {
		cfg.Server.Port = v
	}
	if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
		cfg.Server.AllowedOrigins = v
	}
	if v := os.Getenv("FINANCE_API_PROVIDER"); v != "" {
		cfg.Provider.Name = v
	}
	if v := os.Getenv("FINANCE_API_KEY"); v != "" {
		cfg.Provider.APIKey = v
	}
	if v := os.Getenv("FINANCE_API_BASE_URL"); v != "" {
		cfg.Provider.BaseURL = v
	}
	if v := os.Getenv("ANALYSIS_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Analysis.Workers = n
		}
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Cache.SQLitePath = v
	}
	if v := os.Getenv("WARMUP_CRON"); v != "" {
		cfg.Warmup.Cron = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}

	// Defaults
	if cfg.Server.Port == "" {
		cfg.Server.Port = "8080"
	}
	if cfg.Server.AllowedOrigins == "" {
		cfg.Server.AllowedOrigins = "*"
	}
	if cfg.Provider.Name == "" {
		cfg.Provider.Name = "stooq"
	}
	if cfg.Provider.TimeoutSeconds == 0 {
		cfg.Provider.TimeoutSeconds = 20
	}
	if cfg.Analysis.Workers == 0 {
		cfg.Analysis.Workers = 5
	}
	if cfg.Analysis.DefaultUniverse == "" {
		cfg.Analysis.DefaultUniverse = "NASDAQ"
	}
	if cfg.Cache.TTLHours == 0 {
		cfg.Cache.TTLHours = 12
	}
	if cfg.Warmup.Universe == "" {
		cfg.Warmup.Universe = cfg.Analysis.DefaultUniverse
	}
	if cfg.Warmup.Days == 0 {
		cfg.Warmup.Days = 90
	}

	return cfg, nil
}

// Validate checks that the loaded configuration is internally consistent.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Provider.Name) {
	case "stooq":
	case "alpha_vantage", "alphavantage":
		if c.Provider.APIKey == "" {
			return fmt.Errorf("provider.api_key is required for alpha_vantage")
		}
	default:
		return fmt.Errorf("provider.name must be stooq or alpha_vantage, got %q", c.Provider.Name)
	}
	if c.Provider.TimeoutSeconds <= 0 {
		return fmt.Errorf("provider.timeout_seconds must be positive")
	}
	if c.Analysis.Workers <= 0 {
		return fmt.Errorf("analysis.workers must be positive")
	}
	if c.Warmup.Days < 0 {
		return fmt.Errorf("warmup.days must not be negative")
	}
	return nil
}

// ProviderTimeout returns the per-call provider timeout.
func (c *Config) ProviderTimeout() time.Duration {
	return time.Duration(c.Provider.TimeoutSeconds) * time.Second
}

// CacheTTL returns how long cached series stay fresh.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Cache.TTLHours) * time.Hour
}

// AllowedOrigins splits the comma-separated CORS origin list.
func (c *Config) AllowedOrigins() []string {
	raw := strings.TrimSpace(c.Server.AllowedOrigins)
	if raw == "" || raw == "*" {
		return []string{"*"}
	}
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}
