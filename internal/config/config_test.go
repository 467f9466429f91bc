package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("STORAGE_BUCKET", "sintegra-upload")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, ProviderS3, cfg.Storage.Provider)
	assert.Equal(t, "EXTRACT/", cfg.Storage.Folder)
	assert.Equal(t, []string{".txt"}, cfg.Upload.AllowedExtensions)
	assert.True(t, cfg.Upload.AllowEmpty)
	assert.Equal(t, 2*time.Hour, cfg.Session.TTL)
	assert.Equal(t, 5*time.Minute, cfg.Session.CleanupInterval)
	assert.Equal(t, int64(200<<20), cfg.Upload.MaxUploadBytes())
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("STORAGE_BUCKET", "bucket")
	t.Setenv("STORAGE_PROVIDER", "MINIO")
	t.Setenv("STORAGE_ENDPOINT", "localhost:9000")
	t.Setenv("STORAGE_TIMEOUT", "15s")
	t.Setenv("UPLOAD_ALLOWED_EXTENSIONS", ".txt, .csv ,")
	t.Setenv("UPLOAD_ALLOW_EMPTY", "false")
	t.Setenv("PORT", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ProviderMinio, cfg.Storage.Provider)
	assert.Equal(t, 15*time.Second, cfg.Storage.Timeout)
	assert.Equal(t, []string{".txt", ".csv"}, cfg.Upload.AllowedExtensions)
	assert.False(t, cfg.Upload.AllowEmpty)
	assert.Equal(t, 8080, cfg.Server.Port)
}

func TestLoad_Validation(t *testing.T) {
	t.Run("bucket is required", func(t *testing.T) {
		t.Setenv("STORAGE_BUCKET", "")
		_, err := Load()
		assert.ErrorContains(t, err, "STORAGE_BUCKET")
	})

	t.Run("unknown provider", func(t *testing.T) {
		t.Setenv("STORAGE_BUCKET", "bucket")
		t.Setenv("STORAGE_PROVIDER", "gcs")
		_, err := Load()
		assert.ErrorContains(t, err, "unsupported STORAGE_PROVIDER")
	})

	t.Run("minio needs endpoint", func(t *testing.T) {
		t.Setenv("STORAGE_BUCKET", "bucket")
		t.Setenv("STORAGE_PROVIDER", "minio")
		t.Setenv("STORAGE_ENDPOINT", "")
		_, err := Load()
		assert.ErrorContains(t, err, "STORAGE_ENDPOINT")
	})
}

func TestUploadConfig_Location(t *testing.T) {
	assert.Equal(t, time.Local, UploadConfig{}.Location())
	assert.Equal(t, time.Local, UploadConfig{Timezone: "Not/AZone"}.Location())
	assert.Equal(t, "UTC", UploadConfig{Timezone: "UTC"}.Location().String())
}
