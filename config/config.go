package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	EnvDevelopment = "DEV"
	EnvProduction  = "PROD"
)

const (
	defaultUserAgent = "PainPointScraper/1.0"
	defaultAuthURL   = "https://www.reddit.com/api/v1/access_token"
	defaultAPIBase   = "https://oauth.reddit.com"
)

type AppConfig struct {
	RedditClientID     string
	RedditClientSecret string
	RedditUserAgent    string
	RedditAuthURL      string
	RedditAPIBase      string
	ProxyURL           string
	HTTPTimeout        time.Duration
	Pacing             time.Duration
	ConcurrentFeeds    bool
	APIKey             string
	Port               string
	AppEnv             string // EnvDevelopment or EnvProduction
	LogLevel           slog.Level
}

var Config AppConfig

// LoadConfig loads the configuration into Config and exits the process when a
// required variable is missing.
func LoadConfig() {
	cfg, err := Load()
	if err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}
	Config = cfg
}

// Load reads the configuration from the environment.
func Load() (AppConfig, error) {
	cfg := AppConfig{}
	var missing []string

	cfg.AppEnv = os.Getenv("APP_ENV")
	cfg.RedditClientID = loadRequired("REDDIT_CLIENT_ID", &missing)
	cfg.RedditClientSecret = loadRequired("REDDIT_CLIENT_SECRET", &missing)
	cfg.RedditUserAgent = loadOptional("REDDIT_USER_AGENT", defaultUserAgent)
	cfg.RedditAuthURL = loadOptional("REDDIT_AUTH_URL", defaultAuthURL)
	cfg.RedditAPIBase = strings.TrimRight(loadOptional("REDDIT_API_BASE", defaultAPIBase), "/")
	cfg.ProxyURL = os.Getenv("PROXY_URL")
	cfg.APIKey = os.Getenv("API_KEY")
	cfg.Port = loadOptional("PORT", "8080")

	if len(missing) > 0 {
		return AppConfig{}, fmt.Errorf("required env vars not set: %s", strings.Join(missing, ", "))
	}

	timeoutSec, err := loadInt("HTTP_TIMEOUT_SECONDS", 10, 1)
	if err != nil {
		return AppConfig{}, err
	}
	cfg.HTTPTimeout = time.Duration(timeoutSec) * time.Second

	pacingMs, err := loadInt("PACING_MS", 1000, 0)
	if err != nil {
		return AppConfig{}, err
	}
	cfg.Pacing = time.Duration(pacingMs) * time.Millisecond

	concurrent := loadOptional("CONCURRENT_FEEDS", "false")
	cfg.ConcurrentFeeds, err = strconv.ParseBool(concurrent)
	if err != nil {
		return AppConfig{}, fmt.Errorf("invalid CONCURRENT_FEEDS %q: %w", concurrent, err)
	}

	lvlString := loadOptional("LOG_LEVEL", "INFO")
	cfg.LogLevel, err = parseLogLevel(lvlString)
	if err != nil {
		slog.Error("Invalid LOG_LEVEL", "error", err)
		cfg.LogLevel = slog.LevelInfo
	}

	return cfg, nil
}

func parseLogLevel(s string) (slog.Level, error) {
	var level slog.Level
	var err = level.UnmarshalText([]byte(s))
	return level, err
}

func loadRequired(key string, missing *[]string) string {
	value := os.Getenv(key)
	if value == "" {
		*missing = append(*missing, key)
	}
	return value
}

func loadOptional(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func loadInt(key string, defaultValue, minValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil || n < minValue {
		return 0, fmt.Errorf("invalid %s %q: must be an integer >= %d", key, value, minValue)
	}
	return n, nil
}

func (c AppConfig) IsProduction() bool {
	return c.AppEnv == EnvProduction
}
