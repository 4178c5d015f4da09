// Package durable provides implementations of the cache's durable store
// contract. The cache itself only depends on the types.DurableStore
// interface; anything that round-trips strings under a key works.
package durable

import (
	"database/sql"
	"errors"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS cache_kv (
	k TEXT PRIMARY KEY,
	v TEXT NOT NULL
);`

/*
SQLiteStore persists cache entries in a single sqlite table.

The pure-Go driver keeps the library cgo-free. One connection is enough:
the cache funnels durable writes through a single policy, and sqlite
serializes writers anyway.
*/
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the database at path.
// Use ":memory:" for an ephemeral store.
func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Read(key string) (string, bool, error) {
	var v string
	err := s.db.QueryRow(`SELECT v FROM cache_kv WHERE k = ?`, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (s *SQLiteStore) Write(key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO cache_kv (k, v) VALUES (?, ?)
		 ON CONFLICT(k) DO UPDATE SET v = excluded.v`,
		key, value,
	)
	return err
}

func (s *SQLiteStore) Remove(key string) error {
	_, err := s.db.Exec(`DELETE FROM cache_kv WHERE k = ?`, key)
	return err
}

// ListKeys returns every key starting with prefix. substr avoids LIKE
// metacharacter handling, so any prefix byte sequence works.
func (s *SQLiteStore) ListKeys(prefix string) ([]string, error) {
	rows, err := s.db.Query(
		`SELECT k FROM cache_kv WHERE substr(k, 1, ?) = ? ORDER BY k`,
		len(prefix), prefix,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
