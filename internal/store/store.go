// Package store handles SQLite persistence of imported wreck records.
package store

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"

	"github.com/didi520rain/cs230-shipwreck-explorer/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Store wraps SQLite access for the wreck snapshot. Only the raw CSV
// fields are persisted; derived columns are recomputed on load.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS wrecks (
			id INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			year INTEGER,
			vessel_type TEXT NOT NULL,
			lives_lost INTEGER,
			location TEXT NOT NULL,
			cause TEXT NOT NULL,
			latitude REAL,
			longitude REAL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_wrecks_year ON wrecks(year);`,
		`CREATE INDEX IF NOT EXISTS idx_wrecks_vessel_type ON wrecks(vessel_type);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// InsertWrecks stores the records in one transaction and reports how
// many were written. Missing numeric fields persist as NULL.
func (s *Store) InsertWrecks(ctx context.Context, records []model.WreckRecord) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO wrecks (name, year, vessel_type, lives_lost, location, cause, latitude, longitude)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, err
	}
	defer func() {
		if cerr := stmt.Close(); cerr != nil {
			// Best-effort statement close.
			_ = cerr
		}
	}()

	for _, rec := range records {
		_, err = stmt.ExecContext(ctx,
			rec.Name,
			nullInt(rec.Year),
			rec.VesselType,
			nullInt(rec.LivesLost),
			rec.Location,
			rec.Cause,
			nullFloat(rec.Latitude),
			nullFloat(rec.Longitude),
		)
		if err != nil {
			return 0, err
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, err
	}
	return len(records), nil
}

// ListWrecks returns the stored records in insertion order.
func (s *Store) ListWrecks(ctx context.Context) ([]model.WreckRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name, year, vessel_type, lives_lost, location, cause, latitude, longitude
		 FROM wrecks
		 ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var records []model.WreckRecord
	for rows.Next() {
		var rec model.WreckRecord
		var year, lives sql.NullInt64
		var lat, lon sql.NullFloat64
		if err := rows.Scan(&rec.Name, &year, &rec.VesselType, &lives, &rec.Location, &rec.Cause, &lat, &lon); err != nil {
			return nil, err
		}
		if year.Valid {
			y := int(year.Int64)
			rec.Year = &y
		}
		if lives.Valid {
			l := int(lives.Int64)
			rec.LivesLost = &l
		}
		if lat.Valid {
			v := lat.Float64
			rec.Latitude = &v
		}
		if lon.Valid {
			v := lon.Float64
			rec.Longitude = &v
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

// Count returns the number of stored records.
func (s *Store) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM wrecks`).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// Clear removes every stored record.
func (s *Store) Clear(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM wrecks`)
	return err
}

func nullInt(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}

func nullFloat(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}
