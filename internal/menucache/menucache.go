// Package menucache keeps the last successfully fetched menu per store in a
// local SQLite file, so the storefront view can still render something when
// the backend is unreachable.
package menucache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"menucli/internal/config"
	"menucli/internal/model"
)

const cacheFileName = "menu.sqlite"

// schemaVersion is recorded in cache_meta; a mismatch drops and rebuilds the
// cache (it is only ever a copy of server data).
const schemaVersion = 1

var ErrNotCached = errors.New("store not in cache")

type Snapshot struct {
	Store      model.Store
	Categories []model.Category
	FetchedAt  time.Time
}

type Cache struct {
	// Dir overrides the config dir when non-empty (tests).
	Dir string
}

func (c Cache) dbPath() (string, error) {
	dir := c.Dir
	if dir == "" {
		d, err := config.Dir()
		if err != nil {
			return "", err
		}
		dir = d
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return filepath.Join(dir, cacheFileName), nil
}

func (c Cache) open(ctx context.Context) (*sql.DB, error) {
	path, err := c.dbPath()
	if err != nil {
		return nil, err
	}
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if err := migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func migrate(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS cache_meta (
			k TEXT PRIMARY KEY,
			v TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS stores (
			id TEXT PRIMARY KEY,
			json TEXT NOT NULL,
			fetched_at_unixms INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS categories (
			id INTEGER PRIMARY KEY,
			store_id TEXT NOT NULL,
			ord INTEGER NOT NULL,
			json TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_categories_store ON categories(store_id, ord);`,
		`CREATE TABLE IF NOT EXISTS items (
			id INTEGER PRIMARY KEY,
			category_id INTEGER NOT NULL,
			ord INTEGER NOT NULL,
			json TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_items_category ON items(category_id, ord);`,
	}
	for _, q := range stmts {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return err
		}
	}

	var have string
	err := db.QueryRowContext(ctx, `SELECT v FROM cache_meta WHERE k = 'schema_version'`).Scan(&have)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		_, err = db.ExecContext(ctx, `INSERT OR REPLACE INTO cache_meta(k, v) VALUES('schema_version', ?)`, fmt.Sprintf("%d", schemaVersion))
		return err
	case err != nil:
		return err
	}
	if have != fmt.Sprintf("%d", schemaVersion) {
		// Cache only; wipe and restamp.
		for _, t := range []string{"stores", "categories", "items"} {
			if _, err := db.ExecContext(ctx, `DELETE FROM `+t); err != nil {
				return err
			}
		}
		_, err = db.ExecContext(ctx, `INSERT OR REPLACE INTO cache_meta(k, v) VALUES('schema_version', ?)`, fmt.Sprintf("%d", schemaVersion))
		return err
	}
	return nil
}

// Save replaces the cached snapshot for snap.Store.ID in one transaction.
func (c Cache) Save(ctx context.Context, snap Snapshot) error {
	db, err := c.open(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	storeID := snap.Store.ID
	if _, err := tx.ExecContext(ctx, `DELETE FROM items WHERE category_id IN (SELECT id FROM categories WHERE store_id = ?)`, storeID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM categories WHERE store_id = ?`, storeID); err != nil {
		return err
	}

	fetchedAt := snap.FetchedAt
	if fetchedAt.IsZero() {
		fetchedAt = time.Now()
	}
	storeJSON, err := json.Marshal(snap.Store)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `INSERT OR REPLACE INTO stores(id, json, fetched_at_unixms) VALUES(?, ?, ?)`,
		storeID, string(storeJSON), fetchedAt.UTC().UnixMilli()); err != nil {
		return err
	}

	for _, cat := range snap.Categories {
		catJSON, err := json.Marshal(cat)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO categories(id, store_id, ord, json) VALUES(?, ?, ?, ?)`,
			cat.ID, storeID, cat.Order, string(catJSON)); err != nil {
			return err
		}
		for _, it := range cat.Items {
			itemJSON, err := json.Marshal(it)
			if err != nil {
				return err
			}
			if _, err := tx.ExecContext(ctx, `INSERT INTO items(id, category_id, ord, json) VALUES(?, ?, ?, ?)`,
				it.ID, cat.ID, it.Order, string(itemJSON)); err != nil {
				return err
			}
		}
	}
	return tx.Commit()
}

// Load returns the cached snapshot for storeID, categories and items sorted
// by their stored order.
func (c Cache) Load(ctx context.Context, storeID string) (*Snapshot, error) {
	db, err := c.open(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	var storeJSON string
	var fetchedMs int64
	err = db.QueryRowContext(ctx, `SELECT json, fetched_at_unixms FROM stores WHERE id = ?`, storeID).Scan(&storeJSON, &fetchedMs)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotCached
	}
	if err != nil {
		return nil, err
	}

	snap := Snapshot{FetchedAt: time.UnixMilli(fetchedMs).UTC()}
	if err := json.Unmarshal([]byte(storeJSON), &snap.Store); err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `SELECT id, json FROM categories WHERE store_id = ? ORDER BY ord, id`, storeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var catIDs []int64
	for rows.Next() {
		var id int64
		var raw string
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, err
		}
		var cat model.Category
		if err := json.Unmarshal([]byte(raw), &cat); err != nil {
			return nil, err
		}
		cat.Items = nil
		snap.Categories = append(snap.Categories, cat)
		catIDs = append(catIDs, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i, catID := range catIDs {
		items, err := c.loadItems(ctx, db, catID)
		if err != nil {
			return nil, err
		}
		snap.Categories[i].Items = items
	}
	return &snap, nil
}

func (c Cache) loadItems(ctx context.Context, db *sql.DB, categoryID int64) ([]model.Item, error) {
	rows, err := db.QueryContext(ctx, `SELECT json FROM items WHERE category_id = ? ORDER BY ord, id`, categoryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []model.Item
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		var it model.Item
		if err := json.Unmarshal([]byte(raw), &it); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}
