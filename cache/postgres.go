package cache

import (
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
)

type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore connects via the DSN and ensures the entries table exists.
func NewPostgresStore(dsn string) (*PostgresStore, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("error opening postgres connection: %w", err)
	}

	// Verify connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("error connecting to postgres: %w", err)
	}

	createEntriesTable := `
    CREATE TABLE IF NOT EXISTS kv_entries (
        key   TEXT PRIMARY KEY,
        value TEXT NOT NULL
    );`

	if _, err := db.Exec(createEntriesTable); err != nil {
		return nil, fmt.Errorf("creating kv_entries table: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}

func (s *PostgresStore) Get(key string) (string, bool, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM kv_entries WHERE key = $1`, key).Scan(&value)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", false, nil
		}
		return "", false, err
	}
	return value, true, nil
}

func (s *PostgresStore) Set(key, value string) error {
	query := `
    INSERT INTO kv_entries (key, value) VALUES ($1, $2)
    ON CONFLICT (key) DO UPDATE SET value = excluded.value`

	_, err := s.db.Exec(query, key, value)
	return err
}

func (s *PostgresStore) Remove(key string) error {
	_, err := s.db.Exec(`DELETE FROM kv_entries WHERE key = $1`, key)
	return err
}

func (s *PostgresStore) Keys(prefix string) ([]string, error) {
	rows, err := s.db.Query(`SELECT key FROM kv_entries WHERE key LIKE $1`, prefix+"%")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}

	return keys, rows.Err()
}
