package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	c, err := LoadFrom(filepath.Join(t.TempDir(), "missing.json"))
	require.NoError(t, err)

	assert.Equal(t, "8080", c.AppPort)
	assert.Equal(t, "mdd", c.JWTIssuer)
	assert.Equal(t, 24*time.Hour, c.JWTTTL)
	assert.Equal(t, DriverMySQL, c.DBDriver)
	assert.Equal(t, "3306", c.DBPort)
	assert.Equal(t, MigrateSQL, c.DBMigrateMode)
	assert.Equal(t, []string{"*"}, c.AllowedOrigins)
	assert.Equal(t, 60, c.RateLimitPerMinute)
	assert.Equal(t, "info", c.LogLevel)
}

func TestLoadFromMissingSecret(t *testing.T) {
	unsetEnv(t, "JWT_SECRET")

	_, err := LoadFrom(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorIs(t, err, ErrMissingJWTSecret)
}

func TestLoadFromJSONThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	body := `{
		"app": {"AppPort": "9000", "JWTSecret": "from-file", "JWTTTLHours": 2, "AllowedOrigins": ["http://a.test", " http://b.test "]},
		"database": {"Driver": "Postgres", "Name": "forum"},
		"log": {"Level": "debug"}
	}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	unsetEnv(t, "JWT_SECRET")
	t.Setenv("APP_PORT", "9100")
	t.Setenv("REDIS_HOST", "cache.internal")

	c, err := LoadFrom(path)
	require.NoError(t, err)

	assert.Equal(t, "9100", c.AppPort, "env overrides file")
	assert.Equal(t, "from-file", c.JWTSecret)
	assert.Equal(t, 2*time.Hour, c.JWTTTL)
	assert.Equal(t, DriverPostgres, c.DBDriver)
	assert.Equal(t, "5432", c.DBPort)
	assert.Equal(t, "postgres", c.DBUser)
	assert.Equal(t, "forum", c.DBName)
	assert.Equal(t, "cache.internal", c.RedisHost)
	assert.Equal(t, "debug", c.LogLevel)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, c.AllowedOrigins)
}

func TestLoadFromInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))
	t.Setenv("JWT_SECRET", "x")

	_, err := LoadFrom(path)
	assert.Error(t, err)
}

func TestEnvListOverride(t *testing.T) {
	t.Setenv("JWT_SECRET", "x")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://one.test, http://two.test")
	t.Setenv("JWT_TTL", "90m")

	c, err := LoadFrom(filepath.Join(t.TempDir(), "missing.json"))
	require.NoError(t, err)
	assert.Equal(t, []string{"http://one.test", "http://two.test"}, c.AllowedOrigins)
	assert.Equal(t, 90*time.Minute, c.JWTTTL)
}

func TestDialectorFor(t *testing.T) {
	_, err := dialectorFor(AppConfig{DBDriver: "oracle"})
	assert.Error(t, err)

	d, err := dialectorFor(AppConfig{DBDriver: DriverSQLite, DBSQLitePath: ":memory:"})
	require.NoError(t, err)
	assert.Equal(t, "sqlite", d.Name())
}

func TestMySQLDSN(t *testing.T) {
	c := AppConfig{DBUser: "u", DBPassword: "p", DBHost: "h", DBPort: "1", DBName: "n"}
	assert.Equal(t, "u:p@tcp(h:1)/n?charset=utf8mb4&parseTime=True&loc=Local", mysqlDSN(c))

	c.DatabaseURI = "custom"
	assert.Equal(t, "custom", mysqlDSN(c))
}

func unsetEnv(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	require.NoError(t, os.Unsetenv(key))
}
