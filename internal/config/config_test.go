package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoader_Defaults(t *testing.T) {
	t.Setenv("SERVER_PORT", "")
	t.Setenv("ACCESS_TOKEN_DURATION", "")
	os.Unsetenv("SERVER_PORT")
	os.Unsetenv("ACCESS_TOKEN_DURATION")

	cfg := loader{}.load()

	assert.Equal(t, 8080, cfg.ServerPort)
	assert.Equal(t, 24*time.Hour, cfg.AccessTokenDuration)
	assert.Equal(t, int64(10*1024*1024), cfg.Storage.MaxImageSize)
	assert.Equal(t, "http://localhost:8080", cfg.Storage.PublicBaseURL)
}

func TestLoader_AuthRateLimit(t *testing.T) {
	t.Setenv("AUTH_RATE_LIMIT_TRUSTED_PROXIES", "10.0.0.0/8, 192.168.1.1")
	t.Setenv("AUTH_RATE_LIMIT_IDLE_TTL", "5m")

	cfg := loader{}.load()

	assert.Equal(t, []string{"10.0.0.0/8", "192.168.1.1"}, cfg.AuthRateLimit.TrustedProxies)
	assert.Equal(t, 5*time.Minute, cfg.AuthRateLimit.IdleTTL)
}

func TestLoader_EnvOverridesFile(t *testing.T) {
	t.Setenv("DB_HOST", "db.internal")

	l := loader{file: map[string]string{
		"DB_HOST":     "from-file",
		"DB_NAME":     "diary_from_file",
		"SERVER_PORT": "9090",
	}}
	cfg := l.load()

	assert.Equal(t, "db.internal", cfg.DB.DbHOST)
	assert.Equal(t, "diary_from_file", cfg.DB.DbNAME)
}

func TestLoadINI_FlattensSections(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mydiary.ini")
	content := "JWT_SECRET_KEY = secret\n\n[db]\nhost = ini-host\nport = 6543\n\n[storage]\ndriver = minio\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	values, err := loadINI(path)
	require.NoError(t, err)

	assert.Equal(t, "secret", values["JWT_SECRET_KEY"])
	assert.Equal(t, "ini-host", values["DB_HOST"])
	assert.Equal(t, "6543", values["DB_PORT"])
	assert.Equal(t, "minio", values["STORAGE_DRIVER"])
}

func TestParseHelpers(t *testing.T) {
	assert.Equal(t, 2*time.Hour, parseDuration("7d", 2*time.Hour))
	assert.Equal(t, 90*time.Minute, parseDuration("90m", 2*time.Hour))
	assert.Equal(t, int64(10*1024*1024), parseMaxImageSize("abc"))
	assert.Equal(t, int64(5*1024*1024), parseMaxImageSize("5MiB"))
	assert.Equal(t, int64(2048), parseMaxImageSize("2048"))
	assert.Equal(t, []string{"http://a", "http://b"}, parseList(" http://a, ,http://b "))
	assert.Equal(t, time.UTC, parseLocation("Not/AZone"))
}
