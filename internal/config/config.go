package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/eugenenazirov/warehouse-allocator/internal/layout"
	"github.com/eugenenazirov/warehouse-allocator/internal/storage"
	"github.com/eugenenazirov/warehouse-allocator/internal/warehouse"
)

const (
	defaultPort           = "8080"
	defaultLogLevel       = "info"
	defaultRateLimitRPS   = 25.0
	defaultRateLimitBurst = 50
	defaultMaxBatchSize   = 10_000
	defaultMaxRooms       = 1_000
)

// Config aggregates runtime configuration resolved from multiple sources.
// Precedence: CLI flags > YAML config > Environment variables > Defaults
type Config struct {
	Port                 string
	LogLevel             string
	InitialRooms         []warehouse.RoomSpec
	MaxBatchSize         int
	MaxRooms             int
	ShutdownGracePeriod  time.Duration
	ReadHeaderTimeout    time.Duration
	WriteTimeout         time.Duration
	IdleTimeout          time.Duration
	EnableRequestLogging bool
	RateLimitRPS         float64
	RateLimitBurst       int
}

// yamlConfig represents the YAML configuration file structure.
type yamlConfig struct {
	Port                 string               `yaml:"port"`
	LogLevel             string               `yaml:"log_level"`
	LayoutFile           string               `yaml:"layout_file"`
	Rooms                []warehouse.RoomSpec `yaml:"rooms"`
	MaxBatchSize         int                  `yaml:"max_batch_size"`
	MaxRooms             int                  `yaml:"max_rooms"`
	ShutdownGracePeriod  string               `yaml:"shutdown_grace_period"`
	ReadHeaderTimeout    string               `yaml:"read_header_timeout"`
	WriteTimeout         string               `yaml:"write_timeout"`
	IdleTimeout          string               `yaml:"idle_timeout"`
	EnableRequestLogging *bool                `yaml:"enable_request_logging"`
	RateLimit            *yamlRateLimit       `yaml:"rate_limit"`
}

// yamlRateLimit represents the rate limit section in YAML.
type yamlRateLimit struct {
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

// CLIOverrides holds command-line flag overrides.
type CLIOverrides struct {
	ConfigFile     string
	Port           *string
	LogLevel       *string
	LayoutFile     *string
	MaxBatchSize   *int
	MaxRooms       *int
	RateLimitRPS   *float64
	RateLimitBurst *int
}

// Load extracts configuration from multiple sources with precedence:
// CLI flags > YAML config > Environment variables > Defaults
func Load(overrides *CLIOverrides) (Config, error) {
	cfg := defaultConfig()

	// Environment first; YAML and CLI flags override it.
	if err := applyEnvConfig(&cfg); err != nil {
		return Config{}, err
	}

	if overrides != nil && overrides.ConfigFile != "" {
		yamlCfg, err := loadFromFile(overrides.ConfigFile)
		if err != nil {
			return Config{}, fmt.Errorf("load YAML config: %w", err)
		}
		if err := applyYAMLConfig(&cfg, yamlCfg); err != nil {
			return Config{}, err
		}
	}

	if overrides != nil {
		if err := applyCLIOverrides(&cfg, overrides); err != nil {
			return Config{}, err
		}
	}

	if err := validateConfig(cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// defaultConfig returns a Config with default values.
func defaultConfig() Config {
	return Config{
		Port:                 defaultPort,
		LogLevel:             defaultLogLevel,
		InitialRooms:         storage.DefaultRooms(),
		MaxBatchSize:         defaultMaxBatchSize,
		MaxRooms:             defaultMaxRooms,
		ShutdownGracePeriod:  10 * time.Second,
		ReadHeaderTimeout:    5 * time.Second,
		WriteTimeout:         15 * time.Second,
		IdleTimeout:          60 * time.Second,
		EnableRequestLogging: true,
		RateLimitRPS:         defaultRateLimitRPS,
		RateLimitBurst:       defaultRateLimitBurst,
	}
}

// loadFromFile loads configuration from a YAML file.
func loadFromFile(path string) (*yamlConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	var yamlCfg yamlConfig
	if err := yaml.Unmarshal(data, &yamlCfg); err != nil {
		return nil, fmt.Errorf("parse YAML: %w", err)
	}

	return &yamlCfg, nil
}

// applyYAMLConfig applies YAML configuration to the Config struct. An inline
// rooms list wins over layout_file when both are present.
func applyYAMLConfig(cfg *Config, yamlCfg *yamlConfig) error {
	if yamlCfg.Port != "" {
		cfg.Port = yamlCfg.Port
	}

	if yamlCfg.LogLevel != "" {
		cfg.LogLevel = yamlCfg.LogLevel
	}

	switch {
	case len(yamlCfg.Rooms) > 0:
		cfg.InitialRooms = yamlCfg.Rooms
	case yamlCfg.LayoutFile != "":
		rooms, err := layout.ReadRooms(yamlCfg.LayoutFile)
		if err != nil {
			return fmt.Errorf("load layout: %w", err)
		}
		cfg.InitialRooms = rooms
	}

	if yamlCfg.MaxBatchSize > 0 {
		cfg.MaxBatchSize = yamlCfg.MaxBatchSize
	}

	if yamlCfg.MaxRooms > 0 {
		cfg.MaxRooms = yamlCfg.MaxRooms
	}

	durations := []struct {
		raw    string
		target *time.Duration
	}{
		{yamlCfg.ShutdownGracePeriod, &cfg.ShutdownGracePeriod},
		{yamlCfg.ReadHeaderTimeout, &cfg.ReadHeaderTimeout},
		{yamlCfg.WriteTimeout, &cfg.WriteTimeout},
		{yamlCfg.IdleTimeout, &cfg.IdleTimeout},
	}
	for _, d := range durations {
		if d.raw == "" {
			continue
		}
		parsed, err := time.ParseDuration(d.raw)
		if err != nil {
			return fmt.Errorf("parse duration %q: %w", d.raw, err)
		}
		*d.target = parsed
	}

	if yamlCfg.EnableRequestLogging != nil {
		cfg.EnableRequestLogging = *yamlCfg.EnableRequestLogging
	}

	if yamlCfg.RateLimit != nil {
		if yamlCfg.RateLimit.RPS >= 0 {
			cfg.RateLimitRPS = yamlCfg.RateLimit.RPS
		}
		if yamlCfg.RateLimit.Burst >= 0 {
			cfg.RateLimitBurst = yamlCfg.RateLimit.Burst
		}
	}

	return nil
}

// applyEnvConfig applies environment variable configuration.
func applyEnvConfig(cfg *Config) error {
	if port := strings.TrimSpace(os.Getenv("PORT")); port != "" {
		cfg.Port = port
	}

	if level := strings.TrimSpace(os.Getenv("LOG_LEVEL")); level != "" {
		cfg.LogLevel = level
	}

	if path := strings.TrimSpace(os.Getenv("LAYOUT_FILE")); path != "" {
		rooms, err := layout.ReadRooms(path)
		if err != nil {
			return fmt.Errorf("load LAYOUT_FILE: %w", err)
		}
		cfg.InitialRooms = rooms
	}

	if size := strings.TrimSpace(os.Getenv("MAX_BATCH_SIZE")); size != "" {
		if value, err := strconv.Atoi(size); err == nil && value > 0 {
			cfg.MaxBatchSize = value
		}
	}

	if limit := strings.TrimSpace(os.Getenv("MAX_ROOMS")); limit != "" {
		if value, err := strconv.Atoi(limit); err == nil && value > 0 {
			cfg.MaxRooms = value
		}
	}

	if rps := strings.TrimSpace(os.Getenv("RATE_LIMIT_RPS")); rps != "" {
		if value, err := strconv.ParseFloat(rps, 64); err == nil && value >= 0 {
			cfg.RateLimitRPS = value
		}
	}

	if burst := strings.TrimSpace(os.Getenv("RATE_LIMIT_BURST")); burst != "" {
		if value, err := strconv.Atoi(burst); err == nil && value >= 0 {
			cfg.RateLimitBurst = value
		}
	}

	return nil
}

// applyCLIOverrides applies command-line flag overrides.
func applyCLIOverrides(cfg *Config, overrides *CLIOverrides) error {
	if overrides.Port != nil && *overrides.Port != "" {
		cfg.Port = *overrides.Port
	}

	if overrides.LogLevel != nil && *overrides.LogLevel != "" {
		cfg.LogLevel = *overrides.LogLevel
	}

	if overrides.LayoutFile != nil && *overrides.LayoutFile != "" {
		rooms, err := layout.ReadRooms(*overrides.LayoutFile)
		if err != nil {
			return fmt.Errorf("load layout: %w", err)
		}
		cfg.InitialRooms = rooms
	}

	if overrides.MaxBatchSize != nil && *overrides.MaxBatchSize > 0 {
		cfg.MaxBatchSize = *overrides.MaxBatchSize
	}

	if overrides.MaxRooms != nil && *overrides.MaxRooms > 0 {
		cfg.MaxRooms = *overrides.MaxRooms
	}

	if overrides.RateLimitRPS != nil && *overrides.RateLimitRPS >= 0 {
		cfg.RateLimitRPS = *overrides.RateLimitRPS
	}

	if overrides.RateLimitBurst != nil && *overrides.RateLimitBurst >= 0 {
		cfg.RateLimitBurst = *overrides.RateLimitBurst
	}

	return nil
}

// validateConfig validates the final configuration.
func validateConfig(cfg Config) error {
	if cfg.RateLimitRPS < 0 {
		return fmt.Errorf("RATE_LIMIT_RPS must be >= 0")
	}
	if cfg.RateLimitBurst < 0 {
		return fmt.Errorf("RATE_LIMIT_BURST must be >= 0")
	}
	if cfg.MaxBatchSize <= 0 {
		return fmt.Errorf("max batch size must be positive")
	}
	if cfg.MaxRooms <= 0 {
		return fmt.Errorf("max rooms must be positive")
	}
	if len(cfg.InitialRooms) > cfg.MaxRooms {
		return fmt.Errorf("layout has %d rooms, the limit is %d", len(cfg.InitialRooms), cfg.MaxRooms)
	}
	switch strings.ToLower(cfg.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unsupported log level %q", cfg.LogLevel)
	}
	if err := warehouse.ValidateRoomSpecs(cfg.InitialRooms); err != nil {
		return fmt.Errorf("invalid rooms: %w", err)
	}
	return nil
}
