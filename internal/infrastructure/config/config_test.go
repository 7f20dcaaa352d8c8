package config

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv unsets every FACTURATOR_ variable for the duration of the test
func clearEnv(t *testing.T) {
	t.Helper()
	for _, kv := range os.Environ() {
		key, _, _ := strings.Cut(kv, "=")
		if strings.HasPrefix(key, "FACTURATOR_") {
			t.Setenv(key, "")
			os.Unsetenv(key)
		}
	}
}

func TestLoad(t *testing.T) {
	t.Run("loads default values when env vars not set", func(t *testing.T) {
		clearEnv(t)

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "facturator", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, "facturator", cfg.Database.DBName)
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
		assert.Equal(t, 5, cfg.Database.MaxIdleConns)
		assert.Equal(t, DefaultJWTSecret, cfg.JWT.Secret)
		assert.Equal(t, 30*time.Minute, cfg.JWT.AccessTokenExpiration)
		assert.Equal(t, "token", cfg.Cookie.Name)
		assert.Equal(t, "TEST", cfg.Invoicing.CodePrefix)
		assert.Equal(t, int64(0), cfg.Invoicing.StartingNumber)
		assert.Equal(t, "batch", cfg.Invoicing.NumberingMode)
		assert.Equal(t, "first", cfg.Invoicing.PayerMatchPolicy)
		assert.Equal(t, "wkhtmltopdf", cfg.Printing.Engine)
		assert.Equal(t, "none", cfg.Storage.Type)
		assert.Equal(t, "facturator", cfg.Telemetry.ServiceName)
	})

	t.Run("loads values from environment variables with FACTURATOR prefix", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("FACTURATOR_APP_PORT", "9000")
		t.Setenv("FACTURATOR_DATABASE_HOST", "testdb.local")
		t.Setenv("FACTURATOR_DATABASE_PORT", "5433")
		t.Setenv("FACTURATOR_DATABASE_MAX_OPEN_CONNS", "50")
		t.Setenv("FACTURATOR_DATABASE_MAX_IDLE_CONNS", "10")
		t.Setenv("FACTURATOR_INVOICING_CODE_PREFIX", "FAC")
		t.Setenv("FACTURATOR_INVOICING_STARTING_NUMBER", "41")
		t.Setenv("FACTURATOR_INVOICING_NUMBERING_MODE", "persistent")
		t.Setenv("FACTURATOR_INVOICING_ISSUER_NAME", "Some Professional")
		t.Setenv("FACTURATOR_UPLOAD_DEDUP_TTL", "2h")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "9000", cfg.App.Port)
		assert.Equal(t, "testdb.local", cfg.Database.Host)
		assert.Equal(t, 5433, cfg.Database.Port)
		assert.Equal(t, 50, cfg.Database.MaxOpenConns)
		assert.Equal(t, 10, cfg.Database.MaxIdleConns)
		assert.Equal(t, "FAC", cfg.Invoicing.CodePrefix)
		assert.Equal(t, int64(41), cfg.Invoicing.StartingNumber)
		assert.Equal(t, "persistent", cfg.Invoicing.NumberingMode)
		assert.Equal(t, "Some Professional", cfg.Invoicing.Issuer.Name)
		assert.Equal(t, 2*time.Hour, cfg.Upload.DedupTTL)
	})

	t.Run("rejects idle connections above open connections", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("FACTURATOR_DATABASE_MAX_OPEN_CONNS", "5")
		t.Setenv("FACTURATOR_DATABASE_MAX_IDLE_CONNS", "10")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot exceed")
	})

	t.Run("rejects unknown invoicing modes", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("FACTURATOR_INVOICING_NUMBERING_MODE", "global")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "numbering_mode")

		clearEnv(t)
		t.Setenv("FACTURATOR_INVOICING_PAYER_MATCH_POLICY", "best")
		_, err = Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "payer_match_policy")
	})

	t.Run("requires a bucket for s3 storage", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("FACTURATOR_STORAGE_TYPE", "s3")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "storage.s3.bucket")
	})
}

func TestLoad_ProductionValidation(t *testing.T) {
	setValidProductionBase := func(t *testing.T) {
		clearEnv(t)
		t.Setenv("FACTURATOR_APP_ENV", "production")
		t.Setenv("FACTURATOR_JWT_SECRET", "this-is-a-very-secure-jwt-secret-key-32chars")
		t.Setenv("FACTURATOR_DATABASE_PASSWORD", "secure-password")
		t.Setenv("FACTURATOR_COOKIE_SECURE", "true")
	}

	t.Run("rejects the development jwt secret", func(t *testing.T) {
		setValidProductionBase(t)
		os.Unsetenv("FACTURATOR_JWT_SECRET")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "jwt.secret must be set in production")
	})

	t.Run("requires jwt.secret at least 32 characters", func(t *testing.T) {
		setValidProductionBase(t)
		t.Setenv("FACTURATOR_JWT_SECRET", "short-secret")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "at least 32 characters")
	})

	t.Run("requires database.password", func(t *testing.T) {
		setValidProductionBase(t)
		os.Unsetenv("FACTURATOR_DATABASE_PASSWORD")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.password is required in production")
	})

	t.Run("requires secure cookies", func(t *testing.T) {
		setValidProductionBase(t)
		t.Setenv("FACTURATOR_COOKIE_SECURE", "false")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cookie.secure must be true")
	})

	t.Run("passes validation with valid production config", func(t *testing.T) {
		setValidProductionBase(t)

		cfg, err := Load()
		require.NoError(t, err)
		assert.True(t, cfg.IsProduction())
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
		assert.Contains(t, dsn, "localhost:5432")
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

		assert.Contains(t, cfg.DSN(), "pass%40word%23123")
	})
}

func TestRedisConfig_Addr(t *testing.T) {
	cfg := RedisConfig{Host: "cache", Port: 6380}
	assert.Equal(t, "cache:6380", cfg.Addr())
}
