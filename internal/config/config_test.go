package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load(New(""))
	require.NoError(t, err)

	assert.Equal(t, 115200, cfg.Serial.BaudRate)
	assert.Equal(t, time.Second, cfg.Serial.ConnectTimeout)
	assert.Equal(t, time.Second, cfg.Serial.ReadTimeout)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Empty(t, cfg.Log.File.Path)
	assert.Equal(t, "127.0.0.1:7878", cfg.Server.Addr)
	assert.Equal(t, 5*time.Second, cfg.Server.ShutdownTimeout)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "v5serial.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
serial:
  baud_rate: 230400
  connect_timeout: 2500ms
log:
  level: debug
  format: json
  file:
    path: /tmp/v5serial.log
server:
  addr: 0.0.0.0:9000
`), 0644))

	cfg, err := Load(New(path))
	require.NoError(t, err)

	assert.Equal(t, 230400, cfg.Serial.BaudRate)
	assert.Equal(t, 2500*time.Millisecond, cfg.Serial.ConnectTimeout)
	assert.Equal(t, time.Second, cfg.Serial.ReadTimeout, "unset keys keep defaults")
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "/tmp/v5serial.log", cfg.Log.File.Path)
	assert.Equal(t, 10, cfg.Log.File.MaxSize)
	assert.Equal(t, "0.0.0.0:9000", cfg.Server.Addr)
}

func TestLoadEnvOverride(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("V5SERIAL_SERIAL_CONNECT_TIMEOUT", "3s")
	t.Setenv("V5SERIAL_LOG_LEVEL", "warn")

	cfg, err := Load(New(""))
	require.NoError(t, err)

	assert.Equal(t, 3*time.Second, cfg.Serial.ConnectTimeout)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(New(filepath.Join(t.TempDir(), "absent.yaml")))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Serial: SerialConfig{BaudRate: 115200, ConnectTimeout: time.Second},
			Log:    LogConfig{Format: "console"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"json format", func(c *Config) { c.Log.Format = "JSON" }, false},
		{"zero baud", func(c *Config) { c.Serial.BaudRate = 0 }, true},
		{"negative timeout", func(c *Config) { c.Serial.ConnectTimeout = -time.Second }, true},
		{"unknown format", func(c *Config) { c.Log.Format = "xml" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(&c)
			err := c.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

// chdir changes the working directory for the duration of the test.
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(wd); err != nil {
			t.Fatal(err)
		}
	})
}
