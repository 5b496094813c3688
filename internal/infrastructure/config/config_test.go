package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	originalEnv := map[string]string{
		"APP_NAME":             os.Getenv("APP_NAME"),
		"APP_ENV":              os.Getenv("APP_ENV"),
		"APP_PORT":             os.Getenv("APP_PORT"),
		"DB_HOST":              os.Getenv("DB_HOST"),
		"DB_PORT":              os.Getenv("DB_PORT"),
		"DB_USER":              os.Getenv("DB_USER"),
		"DB_PASSWORD":          os.Getenv("DB_PASSWORD"),
		"DB_NAME":              os.Getenv("DB_NAME"),
		"DB_SSL_MODE":          os.Getenv("DB_SSL_MODE"),
		"DB_MAX_OPEN_CONNS":    os.Getenv("DB_MAX_OPEN_CONNS"),
		"DB_MAX_IDLE_CONNS":    os.Getenv("DB_MAX_IDLE_CONNS"),
		"JWT_SECRET":           os.Getenv("JWT_SECRET"),
	}

	defer func() {
		for k, v := range originalEnv {
			if v == "" {
				os.Unsetenv(k)
			} else {
				os.Setenv(k, v)
			}
		}
	}()

	clearEnv := func() {
		for k := range originalEnv {
			os.Unsetenv(k)
		}
	}

	t.Run("loads default values when env vars not set", func(t *testing.T) {
		clearEnv()

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "erp-backend", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, "postgres", cfg.Database.User)
		assert.Equal(t, "", cfg.Database.Password)
		assert.Equal(t, "erp", cfg.Database.DBName)
		assert.Equal(t, "disable", cfg.Database.SSLMode)
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
		assert.Equal(t, 5, cfg.Database.MaxIdleConns)
	})

	t.Run("loads values from environment variables", func(t *testing.T) {
		clearEnv()
		os.Setenv("APP_NAME", "test-app")
		os.Setenv("APP_ENV", "testing")
		os.Setenv("APP_PORT", "9000")
		os.Setenv("DB_HOST", "testdb.local")
		os.Setenv("DB_PORT", "5433")
		os.Setenv("DB_USER", "testuser")
		os.Setenv("DB_PASSWORD", "testpass")
		os.Setenv("DB_NAME", "testdb")
		os.Setenv("DB_SSL_MODE", "require")
		os.Setenv("DB_MAX_OPEN_CONNS", "50")
		os.Setenv("DB_MAX_IDLE_CONNS", "10")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "test-app", cfg.App.Name)
		assert.Equal(t, "testing", cfg.App.Env)
		assert.Equal(t, "9000", cfg.App.Port)
		assert.Equal(t, "testdb.local", cfg.Database.Host)
		assert.Equal(t, 5433, cfg.Database.Port)
		assert.Equal(t, "testuser", cfg.Database.User)
		assert.Equal(t, "testpass", cfg.Database.Password)
		assert.Equal(t, "testdb", cfg.Database.DBName)
		assert.Equal(t, "require", cfg.Database.SSLMode)
		assert.Equal(t, 50, cfg.Database.MaxOpenConns)
		assert.Equal(t, 10, cfg.Database.MaxIdleConns)
	})

	t.Run("validates MaxIdleConns cannot exceed MaxOpenConns", func(t *testing.T) {
		clearEnv()
		os.Setenv("DB_MAX_OPEN_CONNS", "10")
		os.Setenv("DB_MAX_IDLE_CONNS", "20")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "DB_MAX_IDLE_CONNS")
		assert.Contains(t, err.Error(), "cannot exceed")
	})

	t.Run("zero MaxOpenConns uses default", func(t *testing.T) {
		clearEnv()
		os.Setenv("DB_MAX_OPEN_CONNS", "0")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
	})

	t.Run("validates MaxIdleConns cannot be negative", func(t *testing.T) {
		clearEnv()
		os.Setenv("DB_MAX_IDLE_CONNS", "-1")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "DB_MAX_IDLE_CONNS cannot be negative")
	})
}

func TestLoad_ProductionValidation(t *testing.T) {
	originalEnv := map[string]string{
		"APP_ENV":                     os.Getenv("APP_ENV"),
		"JWT_SECRET":                  os.Getenv("JWT_SECRET"),
		"DB_PASSWORD":                 os.Getenv("DB_PASSWORD"),
		"DB_SSL_MODE":                 os.Getenv("DB_SSL_MODE"),
		"TELEMETRY_DB_LOG_FULL_SQL":   os.Getenv("TELEMETRY_DB_LOG_FULL_SQL"),
		"TELEMETRY_DB_TRACE_ENABLED":  os.Getenv("TELEMETRY_DB_TRACE_ENABLED"),
	}

	defer func() {
		for k, v := range originalEnv {
			if v == "" {
				os.Unsetenv(k)
			} else {
				os.Setenv(k, v)
			}
		}
	}()

	clearEnv := func() {
		for k := range originalEnv {
			os.Unsetenv(k)
		}
	}

	setValidProductionBase := func() {
		os.Setenv("APP_ENV", "production")
		os.Setenv("JWT_SECRET", "this-is-a-very-secure-jwt-secret-key-32chars")
		os.Setenv("DB_PASSWORD", "secure-password")
		os.Setenv("DB_SSL_MODE", "require")
	}

	t.Run("requires jwt secret in production", func(t *testing.T) {
		clearEnv()
		os.Setenv("APP_ENV", "production")
		os.Setenv("DB_PASSWORD", "secure-password")
		os.Setenv("DB_SSL_MODE", "require")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "JWT_SECRET is required in production")
	})

	t.Run("requires jwt secret at least 32 characters in production", func(t *testing.T) {
		clearEnv()
		os.Setenv("APP_ENV", "production")
		os.Setenv("JWT_SECRET", "short-secret")
		os.Setenv("DB_PASSWORD", "secure-password")
		os.Setenv("DB_SSL_MODE", "require")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "JWT_SECRET must be at least 32 characters")
	})

	t.Run("requires database password in production", func(t *testing.T) {
		clearEnv()
		os.Setenv("APP_ENV", "production")
		os.Setenv("JWT_SECRET", "this-is-a-very-secure-jwt-secret-key-32chars")
		os.Setenv("DB_SSL_MODE", "require")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "DB_PASSWORD is required in production")
	})

	t.Run("requires ssl enabled in production", func(t *testing.T) {
		clearEnv()
		os.Setenv("APP_ENV", "production")
		os.Setenv("JWT_SECRET", "this-is-a-very-secure-jwt-secret-key-32chars")
		os.Setenv("DB_PASSWORD", "secure-password")
		os.Setenv("DB_SSL_MODE", "disable")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "DB_SSL_MODE cannot be 'disable' in production")
	})

	t.Run("passes validation with valid production config", func(t *testing.T) {
		clearEnv()
		setValidProductionBase()

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "production", cfg.App.Env)
	})

	t.Run("fails if db_log_full_sql enabled in production", func(t *testing.T) {
		clearEnv()
		setValidProductionBase()
		os.Setenv("TELEMETRY_DB_LOG_FULL_SQL", "true")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "TELEMETRY_DB_LOG_FULL_SQL must be false in production")
	})

	t.Run("passes with db_log_full_sql disabled in production", func(t *testing.T) {
		clearEnv()
		setValidProductionBase()
		os.Setenv("TELEMETRY_DB_LOG_FULL_SQL", "false")
		os.Setenv("TELEMETRY_DB_TRACE_ENABLED", "true")

		cfg, err := Load()
		require.NoError(t, err)
		assert.True(t, cfg.Telemetry.DBTraceEnabled)
		assert.False(t, cfg.Telemetry.DBLogFullSQL)
	})
}

func TestDatabaseConfig_DSN(t *testing.T) {
	t.Run("generates valid DSN", func(t *testing.T) {
		cfg := DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "testuser",
			Password: "testpass",
			DBName:   "testdb",
			SSLMode:  "disable",
		}

		dsn := cfg.DSN()
		assert.Contains(t, dsn, "localhost")
		assert.Contains(t, dsn, "5432")
		assert.Contains(t, dsn, "testuser")
		assert.Contains(t, dsn, "testdb")
		assert.Contains(t, dsn, "sslmode=disable")
	})

	t.Run("escapes special characters in password", func(t *testing.T) {
		cfg := DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "user",
			Password: "pass@word#123",
			DBName:   "db",
			SSLMode:  "disable",
		}

		dsn := cfg.DSN()
		assert.Contains(t, dsn, "pass%40word%23123")
	})

	t.Run("handles empty password", func(t *testing.T) {
		cfg := DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "user",
			Password: "",
			DBName:   "db",
			SSLMode:  "disable",
		}

		dsn := cfg.DSN()
		assert.NotEmpty(t, dsn)
	})
}

func TestLoad_TelemetryConfig(t *testing.T) {
	originalEnv := map[string]string{
		"TELEMETRY_ENABLED":                 os.Getenv("TELEMETRY_ENABLED"),
		"TELEMETRY_COLLECTOR_ENDPOINT":       os.Getenv("TELEMETRY_COLLECTOR_ENDPOINT"),
		"TELEMETRY_SAMPLING_RATIO":           os.Getenv("TELEMETRY_SAMPLING_RATIO"),
		"TELEMETRY_SERVICE_NAME":             os.Getenv("TELEMETRY_SERVICE_NAME"),
		"TELEMETRY_INSECURE":                 os.Getenv("TELEMETRY_INSECURE"),
		"TELEMETRY_DB_TRACE_ENABLED":         os.Getenv("TELEMETRY_DB_TRACE_ENABLED"),
		"TELEMETRY_DB_LOG_FULL_SQL":          os.Getenv("TELEMETRY_DB_LOG_FULL_SQL"),
		"TELEMETRY_DB_SLOW_QUERY_THRESHOLD":  os.Getenv("TELEMETRY_DB_SLOW_QUERY_THRESHOLD"),
	}

	defer func() {
		for k, v := range originalEnv {
			if v == "" {
				os.Unsetenv(k)
			} else {
				os.Setenv(k, v)
			}
		}
	}()

	clearEnv := func() {
		for k := range originalEnv {
			os.Unsetenv(k)
		}
	}

	t.Run("loads default telemetry values", func(t *testing.T) {
		clearEnv()

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "localhost:14317", cfg.Telemetry.CollectorEndpoint)
		assert.Equal(t, 1.0, cfg.Telemetry.SamplingRatio)
		assert.Equal(t, "erp-backend", cfg.Telemetry.ServiceName)
		assert.False(t, cfg.Telemetry.Enabled)
	})

	t.Run("loads telemetry values from env vars", func(t *testing.T) {
		clearEnv()
		os.Setenv("TELEMETRY_ENABLED", "true")
		os.Setenv("TELEMETRY_COLLECTOR_ENDPOINT", "otel-collector:14317")
		os.Setenv("TELEMETRY_SAMPLING_RATIO", "0.5")
		os.Setenv("TELEMETRY_SERVICE_NAME", "my-erp-service")

		cfg, err := Load()
		require.NoError(t, err)

		assert.True(t, cfg.Telemetry.Enabled)
		assert.Equal(t, "otel-collector:14317", cfg.Telemetry.CollectorEndpoint)
		assert.Equal(t, 0.5, cfg.Telemetry.SamplingRatio)
		assert.Equal(t, "my-erp-service", cfg.Telemetry.ServiceName)
	})

	t.Run("validates sampling ratio bounds", func(t *testing.T) {
		clearEnv()
		os.Setenv("TELEMETRY_SAMPLING_RATIO", "1.5")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "telemetry.sampling_ratio must be between 0.0 and 1.0")
	})

	t.Run("validates negative sampling ratio", func(t *testing.T) {
		clearEnv()
		os.Setenv("TELEMETRY_SAMPLING_RATIO", "-0.1")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "telemetry.sampling_ratio must be between 0.0 and 1.0")
	})

	t.Run("loads insecure config", func(t *testing.T) {
		clearEnv()
		os.Setenv("TELEMETRY_INSECURE", "true")

		cfg, err := Load()
		require.NoError(t, err)
		assert.True(t, cfg.Telemetry.Insecure)
	})

	t.Run("loads database tracing config", func(t *testing.T) {
		clearEnv()
		os.Setenv("TELEMETRY_DB_TRACE_ENABLED", "true")
		os.Setenv("TELEMETRY_DB_LOG_FULL_SQL", "false")
		os.Setenv("TELEMETRY_DB_SLOW_QUERY_THRESHOLD", "500ms")

		cfg, err := Load()
		require.NoError(t, err)
		assert.True(t, cfg.Telemetry.DBTraceEnabled)
		assert.False(t, cfg.Telemetry.DBLogFullSQL)
		assert.Equal(t, 500*time.Millisecond, cfg.Telemetry.DBSlowQueryThresh)
	})

	t.Run("defaults db_slow_query_threshold to 200ms", func(t *testing.T) {
		clearEnv()

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, 200*time.Millisecond, cfg.Telemetry.DBSlowQueryThresh)
	})
}
