package state

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"menucli/internal/model"
)

func TestPersistor_SaveLoadRoundTrip(t *testing.T) {
	t.Parallel()

	p := Persistor{Dir: t.TempDir()}
	u := &model.User{
		ID:    3,
		Name:  "Bea",
		Email: "bea@example.com",
		Stores: []model.StoreSummary{
			{ID: "st-9", Name: "Quiosque", Slug: "quiosque"},
		},
	}
	if err := p.Save(u); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := p.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := cmp.Diff(u, got); diff != "" {
		t.Fatalf("user mismatch (-want +got):\n%s", diff)
	}
}

func TestPersistor_LoadAbsentFile(t *testing.T) {
	t.Parallel()

	p := Persistor{Dir: t.TempDir()}
	got, err := p.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil user, got=%+v", got)
	}
}

func TestPersistor_OnlyAuthSliceIsPersisted(t *testing.T) {
	t.Parallel()

	p := Persistor{Dir: t.TempDir()}
	if err := p.Save(&model.User{ID: 1}); err != nil {
		t.Fatalf("save: %v", err)
	}
	b, err := os.ReadFile(filepath.Join(p.Dir, "state.json"))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	doc := string(b)
	if !strings.Contains(doc, `"auth"`) {
		t.Fatalf("expected auth slice in document, got=%s", doc)
	}
	for _, forbidden := range []string{`"categories"`, `"items"`, `"store"`} {
		if strings.Contains(doc, forbidden) {
			t.Fatalf("expected %s to never be persisted, got=%s", forbidden, doc)
		}
	}
}

func TestPersistor_UnknownVersionStartsOver(t *testing.T) {
	t.Parallel()

	p := Persistor{Dir: t.TempDir()}
	raw := `{"version":99,"auth":{"user":{"id":5}}}`
	if err := os.WriteFile(filepath.Join(p.Dir, "state.json"), []byte(raw), 0o600); err != nil {
		t.Fatalf("seed: %v", err)
	}
	got, err := p.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	// 99 > current and there is no downgrade path, but the loop only runs for
	// older versions, so the document passes through merge unchanged.
	if got == nil || got.ID != 5 {
		t.Fatalf("expected user from newer document, got=%+v", got)
	}

	// An older version with no registered migration rehydrates to defaults.
	raw = `{"version":0,"auth":{"user":{"id":5}}}`
	if err := os.WriteFile(filepath.Join(p.Dir, "state.json"), []byte(raw), 0o600); err != nil {
		t.Fatalf("seed: %v", err)
	}
	got, err = p.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got != nil {
		t.Fatalf("expected defaults for unmigratable document, got=%+v", got)
	}
}

func TestPersistor_MissingFieldsMergeOverDefaults(t *testing.T) {
	t.Parallel()

	p := Persistor{Dir: t.TempDir()}
	// Document from a build that knew nothing but the version.
	raw := `{"version":1}`
	if err := os.WriteFile(filepath.Join(p.Dir, "state.json"), []byte(raw), 0o600); err != nil {
		t.Fatalf("seed: %v", err)
	}
	got, err := p.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got != nil {
		t.Fatalf("expected default (nil) user, got=%+v", got)
	}
}

func TestPersistor_Purge(t *testing.T) {
	t.Parallel()

	p := Persistor{Dir: t.TempDir()}
	if err := p.Save(&model.User{ID: 1}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := p.Purge(); err != nil {
		t.Fatalf("purge: %v", err)
	}
	if _, err := os.Stat(filepath.Join(p.Dir, "state.json")); !os.IsNotExist(err) {
		t.Fatalf("expected file removed, got=%v", err)
	}
	if err := p.Purge(); err != nil {
		t.Fatalf("second purge should be a no-op: %v", err)
	}
}

func TestDeepMerge(t *testing.T) {
	t.Parallel()

	target := map[string]any{
		"version": 1,
		"auth":    map[string]any{"user": nil, "flag": true},
	}
	source := map[string]any{
		"auth":  map[string]any{"user": map[string]any{"id": float64(2)}},
		"extra": "kept",
	}
	got := deepMerge(target, source)

	auth, ok := got["auth"].(map[string]any)
	if !ok {
		t.Fatalf("expected merged auth map, got=%T", got["auth"])
	}
	if auth["flag"] != true {
		t.Fatal("expected default-only key to survive the merge")
	}
	if _, ok := auth["user"].(map[string]any); !ok {
		t.Fatalf("expected source user to win, got=%v", auth["user"])
	}
	if got["extra"] != "kept" {
		t.Fatal("expected source-only key to be kept")
	}
	if got["version"] != 1 {
		t.Fatalf("expected target version untouched, got=%v", got["version"])
	}
}
