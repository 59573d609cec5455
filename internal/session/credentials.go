package session

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"menucli/internal/config"
)

const credentialsFileName = "credentials.json"

// CredentialFile is the CLI analog of the browser cookie: the encoded session
// token plus its expiry, stored 0600 under the config dir. An expired entry
// behaves exactly like a missing one.
type CredentialFile struct {
	// Dir overrides the config dir when non-empty (tests).
	Dir string
}

type credentialDoc struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func (c CredentialFile) path() (string, error) {
	if c.Dir != "" {
		return filepath.Join(c.Dir, credentialsFileName), nil
	}
	dir, err := config.Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, credentialsFileName), nil
}

// Read returns the stored token, or "" when none is stored or the entry has
// expired (the stale file is removed on the way out).
func (c CredentialFile) Read() (string, error) {
	path, err := c.path()
	if err != nil {
		return "", err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", err
	}
	var doc credentialDoc
	if err := json.Unmarshal(b, &doc); err != nil {
		// Corrupt file: treat as logged out.
		_ = os.Remove(path)
		return "", nil
	}
	if strings.TrimSpace(doc.Token) == "" || !doc.ExpiresAt.After(time.Now()) {
		_ = os.Remove(path)
		return "", nil
	}
	return doc.Token, nil
}

func (c CredentialFile) Write(token string, now time.Time) error {
	path, err := c.path()
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(credentialDoc{
		Token:     token,
		ExpiresAt: now.Add(TokenTTL),
	}, "", "  ")
	if err != nil {
		return err
	}
	return config.AtomicWriteFile(dir, credentialsFileName+".*.tmp", path, b, 0o600)
}

func (c CredentialFile) Remove() error {
	path, err := c.path()
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
