package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database DatabaseConfig
	Redis    RedisConfig
	CORS     CORSConfig
	Log      LogConfig
	Solver   SolverConfig
	Clashes  ClashConfig
	Export   ExportConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// SolverConfig bounds the auto-timetabler search.
type SolverConfig struct {
	NodeBudget int
	Timeout    time.Duration
}

// ClashConfig controls caching of clash-detection results.
type ClashConfig struct {
	CacheEnabled bool
	CacheTTL     time.Duration
}

// ExportConfig governs timetable export output.
type ExportConfig struct {
	Enabled bool
	Title   string
}

// Load reads configuration from the environment, with optional .env support.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 3001)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "")
	v.SetDefault("DB_NAME", "timetable")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 20)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("CORS_ALLOWED_ORIGINS", "")

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("SOLVER_NODE_BUDGET", 200000)
	v.SetDefault("SOLVER_TIMEOUT", "1s")

	v.SetDefault("CLASH_CACHE_ENABLED", true)
	v.SetDefault("CLASH_CACHE_TTL", "5m")

	v.SetDefault("EXPORT_ENABLED", true)
	v.SetDefault("EXPORT_TITLE", "Weekly Timetable")

	cfg := &Config{
		Env:       v.GetString("ENV"),
		Port:      v.GetInt("PORT"),
		APIPrefix: v.GetString("API_PREFIX"),
		Database: DatabaseConfig{
			Host:         v.GetString("DB_HOST"),
			Port:         v.GetInt("DB_PORT"),
			User:         v.GetString("DB_USER"),
			Password:     v.GetString("DB_PASSWORD"),
			Name:         v.GetString("DB_NAME"),
			SSLMode:      v.GetString("DB_SSLMODE"),
			MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetInt("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitAndTrim(v.GetString("CORS_ALLOWED_ORIGINS")),
		},
		Log: LogConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
		Solver: SolverConfig{
			NodeBudget: v.GetInt("SOLVER_NODE_BUDGET"),
			Timeout:    v.GetDuration("SOLVER_TIMEOUT"),
		},
		Clashes: ClashConfig{
			CacheEnabled: v.GetBool("CLASH_CACHE_ENABLED"),
			CacheTTL:     v.GetDuration("CLASH_CACHE_TTL"),
		},
		Export: ExportConfig{
			Enabled: v.GetBool("EXPORT_ENABLED"),
			Title:   v.GetString("EXPORT_TITLE"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Env != EnvDevelopment && c.Env != EnvProduction {
		return errors.New("ENV must be development or production")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return errors.New("PORT must be a valid TCP port")
	}
	if c.Solver.NodeBudget <= 0 {
		return errors.New("SOLVER_NODE_BUDGET must be positive")
	}
	if c.Solver.Timeout <= 0 {
		return errors.New("SOLVER_TIMEOUT must be positive")
	}
	return nil
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
