package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, StorageFile, cfg.Storage.Backend)
	assert.Equal(t, "info@thegrandtheatre.com", cfg.Mail.ContactInbox)
	assert.Equal(t, 587, cfg.SMTP.Port)
	assert.False(t, cfg.SMTPEnabled())
	assert.Nil(t, cfg.AllowedOrigins)
}

func TestLoadFromEnv(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("PORT", "9090")
	t.Setenv("STORAGE_BACKEND", "Redis")
	t.Setenv("SMTP_HOST", "smtp.example.com")
	t.Setenv("SMTP_PORT", "not-a-number")
	t.Setenv("SMTP_TIMEOUT", "3s")
	t.Setenv("SMTP_USE_TLS", "false")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, ,https://b.example")

	cfg := Load()

	assert.Equal(t, ":9090", cfg.GetServerAddress())
	assert.Equal(t, StorageRedis, cfg.Storage.Backend)
	assert.True(t, cfg.SMTPEnabled())
	assert.Equal(t, 587, cfg.SMTP.Port)
	assert.Equal(t, 3*time.Second, cfg.SMTP.Timeout)
	assert.False(t, cfg.SMTP.UseTLS)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
}

func TestStoragePath(t *testing.T) {
	s := StorageConfig{DataDir: "/var/lib/theatre"}

	assert.Equal(t, filepath.Join("/var/lib/theatre", "contact.txt"), s.Path("contact.txt"))
	assert.Equal(t, "/tmp/abs.txt", s.Path("/tmp/abs.txt"))
}

// chdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatal(err)
		}
	})
}
