package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the SPAS API service.
type Config struct {
	AppName        string
	AppEnv         string
	AppPort        string
	DataDir        string
	ResultsDir     string
	JWTSecret      string
	SessionSecret  string
	ExamDuration   time.Duration
	MaxQuestions   int
	RedisURL       string
	ReportCacheTTL time.Duration
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("SPAS")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "SPAS API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("data.dir", "data")
	v.SetDefault("results.dir", "data/results")
	v.SetDefault("exam.duration", "30m")
	v.SetDefault("exam.max_questions", 20)
	v.SetDefault("report.cache_ttl", "5m")

	duration, err := time.ParseDuration(v.GetString("exam.duration"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid exam duration: %w", err)
	}

	ttl, err := time.ParseDuration(v.GetString("report.cache_ttl"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid report cache ttl: %w", err)
	}

	cfg := Config{
		AppName:        v.GetString("app.name"),
		AppEnv:         v.GetString("app.env"),
		AppPort:        v.GetString("app.port"),
		DataDir:        v.GetString("data.dir"),
		ResultsDir:     v.GetString("results.dir"),
		JWTSecret:      v.GetString("jwt.secret"),
		SessionSecret:  v.GetString("session.secret"),
		ExamDuration:   duration,
		MaxQuestions:   v.GetInt("exam.max_questions"),
		RedisURL:       v.GetString("redis.url"),
		ReportCacheTTL: ttl,
	}

	if cfg.JWTSecret == "" || cfg.SessionSecret == "" {
		return Config{}, fmt.Errorf("jwt and session secrets must be provided")
	}

	if cfg.ExamDuration <= 0 {
		cfg.ExamDuration = 30 * time.Minute
	}

	if cfg.MaxQuestions <= 0 {
		cfg.MaxQuestions = 20
	}

	return cfg, nil
}
