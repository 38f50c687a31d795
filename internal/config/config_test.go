package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "test-secret")
	t.Setenv("CORS_ORIGINS", "")
	t.Setenv("FRONTEND_URL", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 50, cfg.RateLimit.Requests)
	assert.Equal(t, 30*time.Second, cfg.RateLimit.Window)
	assert.Equal(t, int64(5*1024*1024), cfg.Upload.MaxBytes)
	assert.Equal(t, 40_000_000, cfg.Upload.MaxPixels)
	assert.Equal(t, []string{"patientToken", "doctorToken", "adminToken"}, cfg.JWT.Cookies())
	assert.Equal(t, "us-east-1", cfg.Assets.Region)
	assert.Contains(t, cfg.CORS.AllowedOrigins, "http://localhost:5173")
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "test-secret")
	t.Setenv("RATE_LIMIT_REQUESTS", "10")
	t.Setenv("RATE_LIMIT_WINDOW", "1m")
	t.Setenv("CORS_ORIGINS", "https://a.example, ,https://b.example")
	t.Setenv("ASSETS_BUCKET", "medhaven-assets")
	t.Setenv("ASSETS_PATH_STYLE", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 10, cfg.RateLimit.Requests)
	assert.Equal(t, time.Minute, cfg.RateLimit.Window)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, "medhaven-assets", cfg.Assets.Bucket)
	assert.True(t, cfg.Assets.PathStyle)
}

func TestLoad_RequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_RejectsBadOrigin(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "test-secret")
	t.Setenv("CORS_ORIGINS", "localhost:5173")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CORS origin")
}

func TestLoad_RejectsNonPositivePixelBound(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "test-secret")
	t.Setenv("UPLOAD_MAX_PIXELS", "0")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "UPLOAD_MAX_PIXELS")
}
