package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/mr1hm/go-neo-impact/internal/models"
)

var _ RecordCache = (*SQLiteDB)(nil)

type SQLiteDB struct {
	db *sql.DB
}

func NewSQLiteDB(path string) (*SQLiteDB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}
	// One connection: SQLite has a single writer, and ":memory:" databases
	// are per connection.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("error while pinging database: %w", err)
	}

	s := &SQLiteDB{
		db: db,
	}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("error while migrating to database: %w", err)
	}

	return s, nil
}

func (s *SQLiteDB) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS neo_cache (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			record BLOB NOT NULL,
			fetched_at INTEGER NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_neo_cache_fetched_at ON neo_cache(fetched_at);
	`

	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteDB) GetRecord(ctx context.Context, id string) (models.NEORecord, time.Time, bool, error) {
	var (
		raw       []byte
		fetchedAt int64
	)
	err := s.db.QueryRowContext(ctx, `SELECT record, fetched_at FROM neo_cache WHERE id = ?`, id).Scan(&raw, &fetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.NEORecord{}, time.Time{}, false, nil
	}
	if err != nil {
		return models.NEORecord{}, time.Time{}, false, fmt.Errorf("error querying cache for %s: %w", id, err)
	}

	var rec models.NEORecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return models.NEORecord{}, time.Time{}, false, fmt.Errorf("error decoding cached record %s: %w", id, err)
	}
	return rec, time.Unix(0, fetchedAt), true, nil
}

func (s *SQLiteDB) PutRecord(ctx context.Context, id string, rec models.NEORecord, fetchedAt time.Time) error {
	if rec.IsSynthetic() {
		return fmt.Errorf("refusing to cache synthetic record for %s", id)
	}

	raw, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("error encoding record %s: %w", id, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO neo_cache (id, name, record, fetched_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET name = excluded.name, record = excluded.record, fetched_at = excluded.fetched_at
	`, id, rec.Name, raw, fetchedAt.UnixNano())
	if err != nil {
		return fmt.Errorf("error writing cache for %s: %w", id, err)
	}
	return nil
}

// DeleteExpired removes entries fetched before the cutoff.
func (s *SQLiteDB) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM neo_cache WHERE fetched_at < ?`, before.UnixNano())
	if err != nil {
		return 0, fmt.Errorf("error pruning cache: %w", err)
	}
	return res.RowsAffected()
}

func (s *SQLiteDB) Close() error {
	return s.db.Close()
}
