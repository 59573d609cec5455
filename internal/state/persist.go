package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"menucli/internal/config"
	"menucli/internal/model"
)

const stateFileName = "state.json"

// stateVersion is the current on-disk schema version. Bump it together with
// a new entry in migrations.
const stateVersion = 1

// migrations upgrade a raw persisted document from version k to k+1. Keyed by
// the source version.
var migrations = map[int]func(map[string]any) error{}

// persistedState is the on-disk shape. Only the auth slice is persisted;
// menu/category data must never survive a relaunch here (it would shadow the
// server on the next load), so there is deliberately no field for it.
type persistedState struct {
	Version int       `json:"version"`
	Auth    authSlice `json:"auth"`
}

type authSlice struct {
	User *model.User `json:"user"`
}

// Persistor reads and writes the whitelisted state slice under the config
// dir. Best effort: a missing or unreadable file rehydrates to defaults.
type Persistor struct {
	// Dir overrides the config dir when non-empty (tests).
	Dir string
}

func (p Persistor) path() (string, error) {
	if p.Dir != "" {
		return filepath.Join(p.Dir, stateFileName), nil
	}
	dir, err := config.Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, stateFileName), nil
}

func defaultDocument() map[string]any {
	return map[string]any{
		"version": stateVersion,
		"auth": map[string]any{
			"user": nil,
		},
	}
}

// Load rehydrates the persisted auth slice. The raw document is migrated to
// the current version, then deep-merged over the defaults so fields added in
// newer releases get sane zero values without discarding persisted ones.
func (p Persistor) Load() (*model.User, error) {
	path, err := p.path()
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var raw map[string]any
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, fmt.Errorf("rehydrate state: %w", err)
	}

	version := 0
	if v, ok := raw["version"].(float64); ok {
		version = int(v)
	}
	for version < stateVersion {
		migrate, ok := migrations[version]
		if !ok {
			// No path forward; start over rather than guess.
			return nil, nil
		}
		if err := migrate(raw); err != nil {
			return nil, fmt.Errorf("migrate state v%d: %w", version, err)
		}
		version++
		raw["version"] = version
	}

	merged := deepMerge(defaultDocument(), raw)

	buf, err := json.Marshal(merged)
	if err != nil {
		return nil, err
	}
	var doc persistedState
	if err := json.Unmarshal(buf, &doc); err != nil {
		return nil, fmt.Errorf("rehydrate state: %w", err)
	}
	return doc.Auth.User, nil
}

func (p Persistor) Save(user *model.User) error {
	path, err := p.path()
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	doc := persistedState{
		Version: stateVersion,
		Auth:    authSlice{User: user},
	}
	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	return config.AtomicWriteFile(dir, stateFileName+".*.tmp", path, b, 0o600)
}

// Purge removes the persisted slice entirely (logout).
func (p Persistor) Purge() error {
	path, err := p.path()
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// deepMerge returns target with source's values layered on top. Maps merge
// recursively; scalars, arrays and nulls from source replace target values.
func deepMerge(target, source map[string]any) map[string]any {
	merged := make(map[string]any, len(target)+len(source))
	for k, v := range target {
		merged[k] = v
	}
	for k, sv := range source {
		sm, sok := sv.(map[string]any)
		tm, tok := merged[k].(map[string]any)
		if sok && tok {
			merged[k] = deepMerge(tm, sm)
			continue
		}
		merged[k] = sv
	}
	return merged
}
