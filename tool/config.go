package tool

import (
	"encoding/hex"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/moyoez/trng-go/seed"
	"github.com/moyoez/trng-go/types"
)

const (
	FramingSingle = "single" // one read, no reassembly. what the firmware has always been talked to with.
	FramingLine   = "line"   // read up to the first newline.
)

var (
	ConfigPath    = "config.yaml" // be aware that it can be changed, default to ./config.yaml
	CurrentConfig types.AppConfig
)

// DefaultConfig returns the values matching the stock firmware.
func DefaultConfig() types.AppConfig {
	return types.AppConfig{
		DeviceAddress:         "192.168.4.1:80",                   // ESP32 soft-AP address
		Key:                   "2B7E151628AED2A6ABF7158809CF4F3C", // must match the firmware key
		IV:                    "FF0102030405060708090A0B0C0D0E0F",
		CipherMode:            string(seed.ModeCBC),
		Framing:               FramingSingle,
		ReadBufferSize:        256,
		DialTimeoutSec:        0,
		ListenPort:            53318,
		GenerateRatePerMinute: 30,
		ResultTTLSec:          120,
		QRSize:                256,
		NotifySocketPath:      "",
		NotifyUsingWebsocket:  true,
	}
}

func LoadConfig(path string) (types.AppConfig, error) {
	if path == "" {
		path = ConfigPath
	}
	ConfigPath = path

	cfg := DefaultConfig()

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			if writeErr := writeDefaultConfig(path, cfg); writeErr != nil {
				return cfg, fmt.Errorf("config file not found, and failed to generate default config: %v", writeErr)
			}
			DefaultLogger.Infof("Created new config file at %s", path)
			CurrentConfig = cfg
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config file: %v", err)
	}
	if info.IsDir() {
		return cfg, fmt.Errorf("config file path is a directory: %s", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %v", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config file: %v", err)
	}
	if err := ValidateConfig(&cfg); err != nil {
		return cfg, err
	}

	CurrentConfig = cfg
	return cfg, nil
}

// ValidateConfig normalizes enum fields and rejects values the client cannot work with.
func ValidateConfig(cfg *types.AppConfig) error {
	cfg.CipherMode = strings.ToLower(strings.TrimSpace(cfg.CipherMode))
	cfg.Framing = strings.ToLower(strings.TrimSpace(cfg.Framing))
	if cfg.DeviceAddress == "" {
		return fmt.Errorf("config: deviceAddress must not be empty")
	}
	if _, err := seed.ParseMode(cfg.CipherMode); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if cfg.Framing != FramingSingle && cfg.Framing != FramingLine {
		return fmt.Errorf("config: unknown framing %q (want %s or %s)", cfg.Framing, FramingSingle, FramingLine)
	}
	if cfg.ReadBufferSize <= 0 {
		return fmt.Errorf("config: readBufferSize must be positive, got %d", cfg.ReadBufferSize)
	}
	if cfg.DialTimeoutSec < 0 {
		return fmt.Errorf("config: dialTimeoutSec must not be negative")
	}
	if _, err := DecodeSecret(*cfg); err != nil {
		return err
	}
	return nil
}

// DecodeSecret turns the hex key/iv of the config into the shared secret.
// The iv is only required in cbc mode.
func DecodeSecret(cfg types.AppConfig) (seed.Secret, error) {
	var secret seed.Secret
	key, err := decodeHex16(cfg.Key)
	if err != nil {
		return secret, fmt.Errorf("config: invalid key: %v", err)
	}
	secret.Key = key
	mode, err := seed.ParseMode(cfg.CipherMode)
	if err != nil {
		return secret, fmt.Errorf("config: %w", err)
	}
	if mode == seed.ModeCBC || cfg.IV != "" {
		iv, err := decodeHex16(cfg.IV)
		if err != nil {
			return secret, fmt.Errorf("config: invalid iv: %v", err)
		}
		secret.IV = iv
	}
	return secret, nil
}

func decodeHex16(s string) ([16]byte, error) {
	var out [16]byte
	raw, err := hex.DecodeString(strings.TrimSpace(s))
	if err != nil {
		return out, err
	}
	if len(raw) != len(out) {
		return out, fmt.Errorf("want 16 bytes, got %d", len(raw))
	}
	copy(out[:], raw)
	return out, nil
}

// DialTimeout converts the configured seconds, zero keeps dialing unbounded.
func DialTimeout(cfg types.AppConfig) time.Duration {
	return time.Duration(cfg.DialTimeoutSec) * time.Second
}

// ApplyFlagOverrides copies non-empty CLI overrides into the loaded config.
func ApplyFlagOverrides(cfg *types.AppConfig, flags types.Config) error {
	if flags.UseDeviceAddress != "" {
		cfg.DeviceAddress = flags.UseDeviceAddress
	}
	if flags.UseCipherMode != "" {
		cfg.CipherMode = flags.UseCipherMode
	}
	if flags.UseFraming != "" {
		cfg.Framing = flags.UseFraming
	}
	if flags.UseListenPort > 0 {
		cfg.ListenPort = flags.UseListenPort
	}
	if flags.SkipNotify {
		cfg.NotifySocketPath = ""
	}
	if err := ValidateConfig(cfg); err != nil {
		return err
	}
	CurrentConfig = *cfg
	return nil
}

func writeDefaultConfig(path string, cfg types.AppConfig) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

func GetCurrentConfig() *types.AppConfig {
	return &CurrentConfig
}
