package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleTOML = `
[server]
http_port = 8090

[database]
host = "localhost"
user = "medilog"
password = "secret"
dbname = "scheduling"

[logs]
level = "debug"

[doctor_service]
url = "http://doctors:8080"
timeout = 3

[scheduling]
operation_timeout_ms = 1500
timezone = "Europe/Moscow"

[cors]
allowed_origins = ["http://localhost:3000"]
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_FileWithDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleTOML))
	require.NoError(t, err)

	assert.Equal(t, 8090, cfg.Server.HTTPPort)
	assert.Equal(t, 10, cfg.Server.ShutdownTimeout)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "disable", cfg.Database.SSLMode)
	assert.Equal(t, 1500*time.Millisecond, cfg.Scheduling.OperationTimeout())
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, "medilog.bookings", cfg.Events.Exchange)
	assert.Contains(t, cfg.Database.DSN(), "dbname=scheduling")
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("MEDILOG_DATABASE_PASSWORD", "from-env")
	t.Setenv("MEDILOG_SCHEDULING_OPERATION_TIMEOUT_MS", "250")
	t.Setenv("MEDILOG_DOCTOR_SERVICE_URL", "http://doctor-directory")

	cfg, err := Load(writeConfig(t, sampleTOML))
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.Database.Password)
	assert.Equal(t, 250, cfg.Scheduling.OperationTimeoutMs)
	assert.Equal(t, "http://doctor-directory", cfg.DoctorService.URL)
	assert.Equal(t, "localhost", cfg.Database.Host)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"missing doctor service", `
[database]
host = "localhost"
dbname = "x"
`},
		{"events without url", `
[database]
host = "localhost"
dbname = "x"
[doctor_service]
url = "http://d"
[events]
enabled = true
`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestLoad_UnknownTimezone(t *testing.T) {
	t.Setenv("MEDILOG_SCHEDULING_TIMEZONE", "Mars/Olympus")

	_, err := Load(writeConfig(t, sampleTOML))
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	assert.Error(t, err)
}
