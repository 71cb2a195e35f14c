package database

import (
	"database/sql"
	"encoding/hex"

	_ "github.com/mattn/go-sqlite3"
)

const kvTable = `CREATE TABLE IF NOT EXISTS kv (
	key TEXT NOT NULL PRIMARY KEY,
	value BLOB NOT NULL
);`

// SqliteStore is a KeyValueStore backed by a single sqlite kv table.
// Keys are hex encoded so they stay printable in the db file.
type SqliteStore struct {
	db        *sql.DB
	stmtCache *StmtCache
}

func OpenSqliteStore(path string) (*SqliteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	return NewSqliteStore(db)
}

func NewSqliteStore(db *sql.DB) (*SqliteStore, error) {
	if _, err := db.Exec(kvTable); err != nil {
		return nil, err
	}
	return &SqliteStore{
		db:        db,
		stmtCache: NewStmtCache(db),
	}, nil
}

func (s *SqliteStore) Get(key []byte) ([]byte, error) {
	stmt, err := s.stmtCache.Prepare(`SELECT value FROM kv WHERE key = ?`)
	if err != nil {
		return nil, err
	}

	var value []byte
	if err := stmt.QueryRow(hex.EncodeToString(key)).Scan(&value); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return value, nil
}

func (s *SqliteStore) Put(key []byte, value []byte) error {
	stmt, err := s.stmtCache.Prepare(`INSERT OR REPLACE INTO kv (key, value) VALUES (?, ?)`)
	if err != nil {
		return err
	}
	_, err = stmt.Exec(hex.EncodeToString(key), value)
	return err
}

func (s *SqliteStore) Delete(key []byte) error {
	stmt, err := s.stmtCache.Prepare(`DELETE FROM kv WHERE key = ?`)
	if err != nil {
		return err
	}
	_, err = stmt.Exec(hex.EncodeToString(key))
	return err
}

func (s *SqliteStore) Close() error {
	s.stmtCache.Clear()
	return s.db.Close()
}
