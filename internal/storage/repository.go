// Package storage persists opaque state records in a sqlite database, keyed by
// application-defined identifiers.
package storage

import (
	"database/sql"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	_ "modernc.org/sqlite"
)

// Key identifies a stored record.
type Key uint32

const (
	KeyTimerState Key = 1
	KeyLapHistory Key = 2
)

type Repository struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path.
func Open(path string) (*Repository, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, errors.Wrapf(err, "create data directory %s", dir)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrapf(err, "open database %s", path)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, errors.Wrapf(err, "open database %s", path)
	}

	repo := &Repository{db: db}
	if err := repo.init(); err != nil {
		db.Close()
		return nil, err
	}

	return repo, nil
}

func (r *Repository) init() error {
	query := `
	CREATE TABLE IF NOT EXISTS records (
		key INTEGER PRIMARY KEY,
		data BLOB NOT NULL,
		updated_at INTEGER NOT NULL DEFAULT (strftime('%s', 'now'))
	)
	`
	_, err := r.db.Exec(query)
	return errors.Wrap(err, "create records table")
}

// Read returns the record stored under key. A missing record is reported with
// found == false and a nil error.
func (r *Repository) Read(key Key) (data []byte, found bool, err error) {
	err = r.db.QueryRow("SELECT data FROM records WHERE key = ?", int64(key)).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrapf(err, "read record %d", key)
	}
	return data, true, nil
}

// Write stores data under key, replacing any previous record.
func (r *Repository) Write(key Key, data []byte) error {
	if data == nil {
		data = []byte{}
	}
	_, err := r.db.Exec(
		`INSERT INTO records (key, data, updated_at) VALUES (?, ?, strftime('%s', 'now'))
		 ON CONFLICT(key) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		int64(key), data,
	)
	return errors.Wrapf(err, "write record %d", key)
}

// Delete removes the record stored under key. Deleting a missing record is
// not an error.
func (r *Repository) Delete(key Key) error {
	_, err := r.db.Exec("DELETE FROM records WHERE key = ?", int64(key))
	return errors.Wrapf(err, "delete record %d", key)
}

// Keys lists the keys of every stored record.
func (r *Repository) Keys() ([]Key, error) {
	rows, err := r.db.Query("SELECT key FROM records ORDER BY key")
	if err != nil {
		return nil, errors.Wrap(err, "list records")
	}
	defer rows.Close()

	var keys []Key
	for rows.Next() {
		var k int64
		if err := rows.Scan(&k); err != nil {
			return nil, errors.Wrap(err, "list records")
		}
		keys = append(keys, Key(k))
	}
	return keys, errors.Wrap(rows.Err(), "list records")
}

func (r *Repository) Close() error {
	return r.db.Close()
}
