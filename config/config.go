package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const defaultAPIKey = "carrier-api-key-change-in-production"

// Config holds the application configuration.
type Config struct {
	Port           string
	APIKey         string
	RequireHTTPS   bool
	CORSOrigins    []string
	LogLevel       slog.Level
	Database       DatabaseConfig
	FMCSA          FMCSAConfig
	Redis          RedisConfig
	RateLimitRPS   int
	RateLimitBurst int
}

type DatabaseConfig struct {
	Driver     string
	DSN        string
	MaxRetries uint64
}

type FMCSAConfig struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	// CacheTTL of zero disables the verification cache.
	CacheTTL time.Duration
}

// FileConfig represents the structure of the optional YAML config file.
type FileConfig struct {
	Server struct {
		Port         string   `yaml:"port"`
		APIKey       string   `yaml:"api_key"`
		RequireHTTPS bool     `yaml:"require_https"`
		CORSOrigins  []string `yaml:"cors_origins"`
		LogLevel     string   `yaml:"log_level"`
	} `yaml:"server"`
	Database struct {
		Driver     string `yaml:"driver"`
		DSN        string `yaml:"dsn"`
		MaxRetries uint64 `yaml:"max_retries"`
		MySQL      struct {
			User     string `yaml:"user"`
			Password string `yaml:"password"`
			Host     string `yaml:"host"`
			Database string `yaml:"database"`
		} `yaml:"mysql"`
	} `yaml:"database"`
	FMCSA struct {
		APIKey  string `yaml:"api_key"`
		BaseURL string `yaml:"base_url"`
		Timeout string `yaml:"timeout"`
	} `yaml:"fmcsa"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		CacheTTL string `yaml:"cache_ttl"`
	} `yaml:"redis"`
	RateLimit struct {
		RPS   int `yaml:"rps"`
		Burst int `yaml:"burst"`
	} `yaml:"rate_limit"`
}

// Load reads the config file at path (optional, may be empty) and applies
// environment variables on top. Environment variables take precedence.
func Load(path string) (*Config, error) {
	fc := &FileConfig{}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, fc); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	cfg := &Config{
		Port:         getEnvOrDefault("PORT", orDefault(fc.Server.Port, "8000")),
		APIKey:       getEnvOrDefault("API_KEY", orDefault(fc.Server.APIKey, defaultAPIKey)),
		RequireHTTPS: getEnvBool("REQUIRE_HTTPS", fc.Server.RequireHTTPS),
		CORSOrigins:  parseOrigins(getEnvOrDefault("CORS_ORIGINS", strings.Join(fc.Server.CORSOrigins, ","))),
		LogLevel:     parseLevel(getEnvOrDefault("LOG_LEVEL", orDefault(fc.Server.LogLevel, "warn"))),
		Database: DatabaseConfig{
			Driver:     getEnvOrDefault("DB_DRIVER", orDefault(fc.Database.Driver, "sqlite")),
			DSN:        getEnvOrDefault("DB_DSN", fc.Database.DSN),
			MaxRetries: fc.Database.MaxRetries,
		},
		FMCSA: FMCSAConfig{
			APIKey:  getEnvOrDefault("FMCSA_API_KEY", fc.FMCSA.APIKey),
			BaseURL: getEnvOrDefault("FMCSA_BASE_URL", orDefault(fc.FMCSA.BaseURL, "https://mobile.fmcsa.dot.gov/qc/services")),
		},
		Redis: RedisConfig{
			Addr:     getEnvOrDefault("REDIS_ADDR", fc.Redis.Addr),
			Password: getEnvOrDefault("REDIS_PASSWORD", fc.Redis.Password),
			DB:       fc.Redis.DB,
		},
		RateLimitRPS:   getEnvInt("RATE_LIMIT_RPS", orDefaultInt(fc.RateLimit.RPS, 20)),
		RateLimitBurst: getEnvInt("RATE_LIMIT_BURST", orDefaultInt(fc.RateLimit.Burst, 40)),
	}
	if cfg.Database.MaxRetries == 0 {
		cfg.Database.MaxRetries = 5
	}

	var err error
	if cfg.FMCSA.Timeout, err = parseDuration(getEnvOrDefault("FMCSA_TIMEOUT", orDefault(fc.FMCSA.Timeout, "10s"))); err != nil {
		return nil, fmt.Errorf("FMCSA_TIMEOUT: %w", err)
	}
	if cfg.Redis.CacheTTL, err = parseDuration(getEnvOrDefault("VERIFICATION_CACHE_TTL", orDefault(fc.Redis.CacheTTL, "0s"))); err != nil {
		return nil, fmt.Errorf("VERIFICATION_CACHE_TTL: %w", err)
	}

	if cfg.Database.DSN == "" {
		cfg.Database.DSN = defaultDSN(cfg.Database.Driver, fc)
	}
	return cfg, nil
}

// defaultDSN builds the MySQL DSN from MYSQL_* variables, or a local SQLite file.
func defaultDSN(driver string, fc *FileConfig) string {
	if driver != "mysql" {
		return "file:carrier_engagement.db?_pragma=busy_timeout(5000)"
	}
	user := getEnvOrDefault("MYSQL_USER", orDefault(fc.Database.MySQL.User, "user"))
	pwd := getEnvOrDefault("MYSQL_PWD", orDefault(fc.Database.MySQL.Password, "password"))
	host := getEnvOrDefault("MYSQL_HOST", orDefault(fc.Database.MySQL.Host, "tcp(127.0.0.1:3306)"))
	dbName := getEnvOrDefault("MYSQL_DATABASE", orDefault(fc.Database.MySQL.Database, "carrier_db"))
	return fmt.Sprintf("%s:%s@%s/%s?parseTime=true&loc=Local", user, pwd, host, dbName)
}

// SecurityIssues lists configuration weaknesses worth warning about at startup.
func (c *Config) SecurityIssues() []string {
	var issues []string
	if len(c.APIKey) < 32 {
		issues = append(issues, fmt.Sprintf("API key is too short (%d chars, minimum 32)", len(c.APIKey)))
	}
	switch c.APIKey {
	case defaultAPIKey, "test-key", "demo-key":
		issues = append(issues, "using default/weak API key")
	}
	if !c.RequireHTTPS {
		issues = append(issues, "HTTPS not required")
	}
	return issues
}

// getEnvOrDefault returns the environment variable value if set,
// otherwise returns the default value.
func getEnvOrDefault(envVar, defaultValue string) string {
	if val := os.Getenv(envVar); val != "" {
		return val
	}
	return defaultValue
}

func getEnvBool(envVar string, defaultValue bool) bool {
	if val := os.Getenv(envVar); val != "" {
		return strings.EqualFold(val, "true")
	}
	return defaultValue
}

func getEnvInt(envVar string, defaultValue int) int {
	if val := os.Getenv(envVar); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return defaultValue
}

func orDefault(v, d string) string {
	if v == "" {
		return d
	}
	return v
}

func orDefaultInt(v, d int) int {
	if v == 0 {
		return d
	}
	return v
}

func parseOrigins(v string) []string {
	if v == "" || v == "*" {
		return []string{"*"}
	}
	var out []string
	for _, o := range strings.Split(v, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

func parseLevel(v string) slog.Level {
	switch strings.ToLower(v) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error", "critical":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

// parseDuration accepts Go durations ("10s") or plain seconds ("10").
func parseDuration(v string) (time.Duration, error) {
	if secs, err := strconv.ParseFloat(v, 64); err == nil {
		return time.Duration(secs * float64(time.Second)), nil
	}
	return time.ParseDuration(v)
}
