package tool

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moyoez/trng-go/seed"
	"github.com/moyoez/trng-go/types"
)

func TestLoadConfigWritesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	// second load reads the file back
	again, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, again)
}

func TestLoadConfigParsesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte(`deviceAddress: 10.0.0.5:8080
key: 000102030405060708090a0b0c0d0e0f
cipherMode: ECB
framing: line
readBufferSize: 512
`)
	require.NoError(t, os.WriteFile(path, data, 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.5:8080", cfg.DeviceAddress)
	assert.Equal(t, "ecb", cfg.CipherMode)
	assert.Equal(t, FramingLine, cfg.Framing)
	assert.Equal(t, 512, cfg.ReadBufferSize)
	// unset fields keep their defaults
	assert.Equal(t, 53318, cfg.ListenPort)
}

func TestLoadConfigRejectsDirectory(t *testing.T) {
	_, err := LoadConfig(t.TempDir())
	assert.ErrorContains(t, err, "directory")
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*types.AppConfig)
		want   string
	}{
		{"empty address", func(c *types.AppConfig) { c.DeviceAddress = "" }, "deviceAddress"},
		{"unknown mode", func(c *types.AppConfig) { c.CipherMode = "gcm" }, "gcm"},
		{"unknown framing", func(c *types.AppConfig) { c.Framing = "stream" }, "framing"},
		{"zero buffer", func(c *types.AppConfig) { c.ReadBufferSize = 0 }, "readBufferSize"},
		{"negative dial timeout", func(c *types.AppConfig) { c.DialTimeoutSec = -1 }, "dialTimeoutSec"},
		{"short key", func(c *types.AppConfig) { c.Key = "2B7E" }, "invalid key"},
		{"non hex key", func(c *types.AppConfig) { c.Key = "zz7E151628AED2A6ABF7158809CF4F3C" }, "invalid key"},
		{"missing iv in cbc", func(c *types.AppConfig) { c.IV = "" }, "invalid iv"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := ValidateConfig(&cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestValidateConfigModeErrorIsTyped(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CipherMode = "ctr"
	assert.ErrorIs(t, ValidateConfig(&cfg), seed.ErrUnsupportedMode)
}

func TestDecodeSecret(t *testing.T) {
	cfg := DefaultConfig()
	secret, err := DecodeSecret(cfg)
	require.NoError(t, err)
	assert.Equal(t, byte(0x2B), secret.Key[0])
	assert.Equal(t, byte(0x3C), secret.Key[15])
	assert.Equal(t, byte(0xFF), secret.IV[0])

	cfg.CipherMode = "ecb"
	cfg.IV = ""
	secret, err = DecodeSecret(cfg)
	require.NoError(t, err)
	assert.Equal(t, [16]byte{}, secret.IV)
}

func TestApplyFlagOverrides(t *testing.T) {
	cfg := DefaultConfig()
	cfg.NotifySocketPath = "/tmp/trng.sock"
	err := ApplyFlagOverrides(&cfg, types.Config{
		UseDeviceAddress: "127.0.0.1:9000",
		UseFraming:       "LINE",
		UseListenPort:    8080,
		SkipNotify:       true,
	})
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9000", cfg.DeviceAddress)
	assert.Equal(t, FramingLine, cfg.Framing)
	assert.Equal(t, 8080, cfg.ListenPort)
	assert.Empty(t, cfg.NotifySocketPath)
	assert.Equal(t, cfg, *GetCurrentConfig())

	err = ApplyFlagOverrides(&cfg, types.Config{UseCipherMode: "xts"})
	assert.ErrorIs(t, err, seed.ErrUnsupportedMode)
}

func TestDialTimeout(t *testing.T) {
	cfg := DefaultConfig()
	assert.Zero(t, DialTimeout(cfg))
	cfg.DialTimeoutSec = 4
	assert.Equal(t, 4*time.Second, DialTimeout(cfg))
}
