package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/caarlos0/env/v11"
)

// AppConfig holds environment driven configuration values.
// Sensitive data should never have defaults inside code and must be provided via config files or the environment.
type AppConfig struct {
	AppPort string `env:"APP_PORT"`
	GinMode string `env:"GIN_MODE"`

	JWTSecret string        `env:"JWT_SECRET"`
	JWTIssuer string        `env:"JWT_ISSUER"`
	JWTTTL    time.Duration `env:"JWT_TTL"`

	DBDriver      string `env:"DB_DRIVER"`
	DatabaseURI   string `env:"DATABASE_URI"`
	DBHost        string `env:"DB_HOST"`
	DBPort        string `env:"DB_PORT"`
	DBUser        string `env:"DB_USER"`
	DBPassword    string `env:"DB_PASSWORD"`
	DBName        string `env:"DB_NAME"`
	DBSQLitePath  string `env:"DB_SQLITE_PATH"`
	DBMigrateMode string `env:"DB_MIGRATE_MODE"`

	RedisHost     string `env:"REDIS_HOST"`
	RedisPort     int    `env:"REDIS_PORT"`
	RedisDB       int    `env:"REDIS_DB"`
	RedisPassword string `env:"REDIS_PASSWORD"`

	RateLimitPerMinute int      `env:"RATE_LIMIT_PER_MINUTE"`
	AllowedOrigins     []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:","`

	GitHubClientID     string `env:"GITHUB_CLIENT_ID"`
	GitHubClientSecret string `env:"GITHUB_CLIENT_SECRET"`
	GoogleClientID     string `env:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `env:"GOOGLE_CLIENT_SECRET"`
	OAuthRedirectBase  string `env:"OAUTH_REDIRECT_BASE_URL"`

	// Registration hardening; zero disables the check.
	RegisterMaxPerIPPerDay     int `env:"REGISTER_MAX_PER_IP_PER_DAY"`
	RegisterAttemptCooldownSec int `env:"REGISTER_ATTEMPT_COOLDOWN_SEC"`

	LogLevel      string `env:"LOG_LEVEL"`
	LogPath       string `env:"LOG_PATH"`
	LogMaxSizeMB  int    `env:"LOG_MAX_SIZE_MB"`
	LogMaxBackups int    `env:"LOG_MAX_BACKUPS"`
	LogMaxAgeDays int    `env:"LOG_MAX_AGE_DAYS"`
	LogCompress   bool   `env:"LOG_COMPRESS"`
}

// DefaultConfigPath is where Load looks for the optional JSON file.
var DefaultConfigPath = filepath.Join("config", "config.json")

var (
	cfg    AppConfig
	loaded bool
	mu     sync.Mutex
)

// ErrMissingJWTSecret is returned when no signing secret is configured.
var ErrMissingJWTSecret = errors.New("JWT_SECRET must be set in config or environment")

// Load loads the application configuration once and caches it.
func Load() (AppConfig, error) {
	mu.Lock()
	defer mu.Unlock()
	if loaded {
		return cfg, nil
	}
	c, err := LoadFrom(DefaultConfigPath)
	if err != nil {
		return AppConfig{}, err
	}
	cfg = c
	loaded = true
	return cfg, nil
}

// Get returns the cached configuration. Load must have succeeded before.
func Get() AppConfig {
	mu.Lock()
	defer mu.Unlock()
	return cfg
}

// LoadFrom builds a configuration without touching the cache.
// Values set in the environment override the JSON file; defaults fill whatever is still empty.
func LoadFrom(path string) (AppConfig, error) {
	var c AppConfig
	if err := loadJSONConfig(path, &c); err != nil {
		return AppConfig{}, fmt.Errorf("read %s: %w", path, err)
	}

	if err := env.Parse(&c); err != nil {
		return AppConfig{}, fmt.Errorf("parse env: %w", err)
	}

	applyDefaults(&c)
	c.AllowedOrigins = splitAndTrim(c.AllowedOrigins)

	if c.JWTSecret == "" {
		return AppConfig{}, ErrMissingJWTSecret
	}
	return c, nil
}

// fileConfig mirrors the grouped layout of config.json.
type fileConfig struct {
	App struct {
		AppPort            string   `json:"AppPort"`
		GinMode            string   `json:"GinMode"`
		JWTSecret          string   `json:"JWTSecret"`
		JWTIssuer          string   `json:"JWTIssuer"`
		JWTTTLHours        int      `json:"JWTTTLHours"`
		RateLimitPerMinute int      `json:"RateLimitPerMinute"`
		AllowedOrigins     []string `json:"AllowedOrigins"`
	} `json:"app"`
	Database struct {
		Driver      string `json:"Driver"`
		URI         string `json:"URI"`
		Host        string `json:"Host"`
		Port        string `json:"Port"`
		User        string `json:"User"`
		Password    string `json:"Password"`
		Name        string `json:"Name"`
		SQLitePath  string `json:"SQLitePath"`
		MigrateMode string `json:"MigrateMode"`
	} `json:"database"`
	Redis struct {
		Host     string `json:"Host"`
		Port     int    `json:"Port"`
		DB       int    `json:"DB"`
		Password string `json:"Password"`
	} `json:"redis"`
	OAuth struct {
		GitHubClientID     string `json:"GitHubClientID"`
		GitHubClientSecret string `json:"GitHubClientSecret"`
		GoogleClientID     string `json:"GoogleClientID"`
		GoogleClientSecret string `json:"GoogleClientSecret"`
		RedirectBase       string `json:"RedirectBase"`
	} `json:"oauth"`
	Register struct {
		MaxPerIPPerDay     int `json:"MaxPerIPPerDay"`
		AttemptCooldownSec int `json:"AttemptCooldownSec"`
	} `json:"register"`
	Log struct {
		Level      string `json:"Level"`
		Path       string `json:"Path"`
		MaxSizeMB  int    `json:"MaxSizeMB"`
		MaxBackups int    `json:"MaxBackups"`
		MaxAgeDays int    `json:"MaxAgeDays"`
		Compress   bool   `json:"Compress"`
	} `json:"log"`
}

// loadJSONConfig reads the JSON file into out if present. Returns error only for invalid JSON.
func loadJSONConfig(path string, out *AppConfig) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil // silently ignore missing file
	}

	var f fileConfig
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}

	out.AppPort = f.App.AppPort
	out.GinMode = f.App.GinMode
	out.JWTSecret = f.App.JWTSecret
	out.JWTIssuer = f.App.JWTIssuer
	if f.App.JWTTTLHours > 0 {
		out.JWTTTL = time.Duration(f.App.JWTTTLHours) * time.Hour
	}
	out.RateLimitPerMinute = f.App.RateLimitPerMinute
	out.AllowedOrigins = f.App.AllowedOrigins

	out.DBDriver = f.Database.Driver
	out.DatabaseURI = f.Database.URI
	out.DBHost = f.Database.Host
	out.DBPort = f.Database.Port
	out.DBUser = f.Database.User
	out.DBPassword = f.Database.Password
	out.DBName = f.Database.Name
	out.DBSQLitePath = f.Database.SQLitePath
	out.DBMigrateMode = f.Database.MigrateMode

	out.RedisHost = f.Redis.Host
	out.RedisPort = f.Redis.Port
	out.RedisDB = f.Redis.DB
	out.RedisPassword = f.Redis.Password

	out.GitHubClientID = f.OAuth.GitHubClientID
	out.GitHubClientSecret = f.OAuth.GitHubClientSecret
	out.GoogleClientID = f.OAuth.GoogleClientID
	out.GoogleClientSecret = f.OAuth.GoogleClientSecret
	out.OAuthRedirectBase = f.OAuth.RedirectBase

	out.RegisterMaxPerIPPerDay = f.Register.MaxPerIPPerDay
	out.RegisterAttemptCooldownSec = f.Register.AttemptCooldownSec

	out.LogLevel = f.Log.Level
	out.LogPath = f.Log.Path
	out.LogMaxSizeMB = f.Log.MaxSizeMB
	out.LogMaxBackups = f.Log.MaxBackups
	out.LogMaxAgeDays = f.Log.MaxAgeDays
	out.LogCompress = f.Log.Compress
	return nil
}

// applyDefaults fills zero values.
func applyDefaults(c *AppConfig) {
	if c.AppPort == "" {
		c.AppPort = "8080"
	}
	if c.GinMode == "" {
		c.GinMode = "release"
	}
	if c.JWTIssuer == "" {
		c.JWTIssuer = "mdd"
	}
	if c.JWTTTL == 0 {
		c.JWTTTL = 24 * time.Hour
	}
	c.DBDriver = strings.ToLower(strings.TrimSpace(c.DBDriver))
	if c.DBDriver == "" {
		c.DBDriver = DriverMySQL
	}
	if c.DBHost == "" {
		c.DBHost = "127.0.0.1"
	}
	if c.DBPort == "" {
		if c.DBDriver == DriverPostgres {
			c.DBPort = "5432"
		} else {
			c.DBPort = "3306"
		}
	}
	if c.DBUser == "" {
		if c.DBDriver == DriverPostgres {
			c.DBUser = "postgres"
		} else {
			c.DBUser = "root"
		}
	}
	if c.DBName == "" {
		c.DBName = "mdd"
	}
	if c.DBSQLitePath == "" {
		c.DBSQLitePath = "mdd.sqlite"
	}
	if c.DBMigrateMode == "" {
		c.DBMigrateMode = MigrateSQL
	}
	if c.RedisPort == 0 {
		c.RedisPort = 6379
	}
	if c.RateLimitPerMinute == 0 {
		c.RateLimitPerMinute = 60
	}
	if len(c.AllowedOrigins) == 0 {
		c.AllowedOrigins = []string{"*"}
	}
	if c.OAuthRedirectBase == "" {
		c.OAuthRedirectBase = "http://localhost:8080"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.LogMaxSizeMB == 0 {
		c.LogMaxSizeMB = 100
	}
	if c.LogMaxBackups == 0 {
		c.LogMaxBackups = 3
	}
	if c.LogMaxAgeDays == 0 {
		c.LogMaxAgeDays = 7
	}
}

func splitAndTrim(raw []string) []string {
	items := []string{}
	for _, item := range raw {
		for _, part := range strings.Split(item, ",") {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				items = append(items, trimmed)
			}
		}
	}
	return items
}
