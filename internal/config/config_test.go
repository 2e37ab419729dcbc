package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "DATABASE_URL", "DB_MAX_CONNS", "ENVIRONMENT", "LOG_LEVEL", "LOG_FORMAT", "ARCHIVE_ENABLED", "S3_BUCKET"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 10, cfg.DBMaxConns)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "pantry-completions", cfg.S3Bucket)
	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.ArchiveConfigured())
}

func TestLoad_Overrides(t *testing.T) {
	t.Run("values from environment", func(t *testing.T) {
		t.Setenv("PORT", "9090")
		t.Setenv("DB_MAX_CONNS", "25")
		t.Setenv("ENVIRONMENT", "production")
		t.Setenv("LOG_LEVEL", "DEBUG")

		cfg := Load()

		assert.Equal(t, "9090", cfg.Port)
		assert.Equal(t, 25, cfg.DBMaxConns)
		assert.True(t, cfg.IsProduction())
		assert.Equal(t, "debug", cfg.LogLevel)
	})

	t.Run("malformed numbers and bools keep defaults", func(t *testing.T) {
		t.Setenv("DB_MAX_CONNS", "many")
		t.Setenv("ARCHIVE_ENABLED", "perhaps")

		cfg := Load()

		assert.Equal(t, 10, cfg.DBMaxConns)
		assert.False(t, cfg.ArchiveEnabled)
	})

	t.Run("archive needs credentials", func(t *testing.T) {
		t.Setenv("ARCHIVE_ENABLED", "true")
		t.Setenv("S3_ACCESS_KEY", "")
		assert.False(t, Load().ArchiveConfigured())

		t.Setenv("S3_ACCESS_KEY", "key")
		t.Setenv("S3_SECRET_KEY", "secret")
		assert.True(t, Load().ArchiveConfigured())
	})
}
