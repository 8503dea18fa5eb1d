package config

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_defaults(t *testing.T) {
	t.Setenv("GO_ENV", "test")
	for _, k := range []string{"DATABASE_URL", "PORT", "JWT_SECRET", "MEDIA_ROOT", "CORS_ALLOWED_ORIGINS",
		"REQUEST_TIMEOUT", "IMAGE_MAX_WIDTH", "IMAGE_MAX_HEIGHT", "IMAGE_QUALITY", "MAX_UPLOAD_BYTES"} {
		t.Setenv(k, "")
	}

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "media", cfg.MediaRoot)
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
	assert.Equal(t, ImageConfig{MaxWidth: 1920, MaxHeight: 1080, Quality: 85, MaxUploadBytes: 10_485_760}, cfg.Image)
	assert.NotEmpty(t, cfg.DBUrl)
	assert.NotEmpty(t, cfg.JWTSecret)
}

func TestLoad_overrides(t *testing.T) {
	t.Setenv("GO_ENV", "test")
	t.Setenv("PORT", "9090")
	t.Setenv("MEDIA_ROOT", "/srv/media")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test,http://b.test")
	t.Setenv("REQUEST_TIMEOUT", "2s")
	t.Setenv("IMAGE_MAX_WIDTH", "800")
	t.Setenv("IMAGE_MAX_HEIGHT", "600")
	t.Setenv("IMAGE_QUALITY", "70")
	t.Setenv("MAX_UPLOAD_BYTES", "1024")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "/srv/media", cfg.MediaRoot)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, 2*time.Second, cfg.RequestTimeout)
	assert.Equal(t, ImageConfig{MaxWidth: 800, MaxHeight: 600, Quality: 70, MaxUploadBytes: 1024}, cfg.Image)
}

func TestLoad_invalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"width not a number", "IMAGE_MAX_WIDTH", "wide"},
		{"negative height", "IMAGE_MAX_HEIGHT", "-1"},
		{"quality above 100", "IMAGE_QUALITY", "101"},
		{"zero upload cap", "MAX_UPLOAD_BYTES", "0"},
		{"bad timeout", "REQUEST_TIMEOUT", "soon"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("GO_ENV", "test")
			t.Setenv(tt.key, tt.val)
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.key)
		})
	}
}

func TestLoad_productionRequiresSecret(t *testing.T) {
	t.Setenv("GO_ENV", "production")
	t.Setenv("JWT_SECRET", "")
	_, err := Load()
	require.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, "production", "warn")
	logger.Info("hidden")
	logger.Warn("shown", "k", "v")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "shown", rec["msg"])
	assert.Equal(t, "v", rec["k"])

	assert.Equal(t, slog.LevelDebug, parseLevel("DEBUG"))
	assert.Equal(t, slog.LevelInfo, parseLevel("bogus"))
}
