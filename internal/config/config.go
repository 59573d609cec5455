package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const defaultAPIURL = "http://localhost:3333"

type Config struct {
	// APIURL is the REST backend base URL. MENUCLI_API_URL and --api-url
	// take precedence over the stored value.
	APIURL string `json:"apiUrl,omitempty"`

	// DeviceID is a stable per-machine identifier sent on the realtime
	// handshake so the server can tell replicas apart.
	DeviceID string `json:"deviceId,omitempty"`

	// LastStoreID remembers the most recently managed store for the TUI.
	LastStoreID string `json:"lastStoreId,omitempty"`

	// TUI holds optional user preferences for the interactive console.
	TUI *TUIConfig `json:"tui,omitempty"`
}

type TUIConfig struct {
	// Style is the glamour style for menu rendering ("auto", "dark", "light").
	Style string `json:"style,omitempty"`
}

func Dir() (string, error) {
	// Test/advanced override (keeps unit tests from touching ~/.menucli).
	if v := strings.TrimSpace(os.Getenv("MENUCLI_CONFIG_DIR")); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".menucli"), nil
}

func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}
	var cfg Config
	if err := json.Unmarshal(b, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func Save(cfg *Config) error {
	path, err := Path()
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	// Unique temp file name + atomic rename so concurrent CLI/TUI processes
	// don't clobber each other.
	return AtomicWriteFile(dir, "config.json.*.tmp", path, b, 0o600)
}

// ResolveAPIURL returns the effective backend URL: flag value, then
// MENUCLI_API_URL, then the stored config, then the local default.
func ResolveAPIURL(flagValue string) (string, error) {
	if v := strings.TrimSpace(flagValue); v != "" {
		return v, nil
	}
	if v := strings.TrimSpace(os.Getenv("MENUCLI_API_URL")); v != "" {
		return v, nil
	}
	cfg, err := Load()
	if err != nil {
		return "", err
	}
	if v := strings.TrimSpace(cfg.APIURL); v != "" {
		return v, nil
	}
	return defaultAPIURL, nil
}

// EnsureDeviceID returns the stored device id, minting and persisting one on
// first use.
func EnsureDeviceID() (string, error) {
	cfg, err := Load()
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(cfg.DeviceID) != "" {
		return cfg.DeviceID, nil
	}
	cfg.DeviceID = uuid.NewString()
	if err := Save(cfg); err != nil {
		return "", err
	}
	return cfg.DeviceID, nil
}

func AtomicWriteFile(dir, tmpPattern, path string, b []byte, perm os.FileMode) error {
	f, err := os.CreateTemp(dir, tmpPattern)
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() { _ = os.Remove(tmp) }()
	if _, err := f.Write(b); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	_ = os.Chmod(tmp, perm)
	return os.Rename(tmp, path)
}
