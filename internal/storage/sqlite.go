package storage

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/emcr30/chicago-web/internal/models"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS crimes (
	id TEXT PRIMARY KEY,
	case_number TEXT,
	date TEXT,
	block TEXT,
	iucr TEXT,
	primary_type TEXT,
	description TEXT,
	location_description TEXT,
	arrest INTEGER,
	domestic INTEGER,
	beat TEXT,
	district TEXT,
	ward TEXT,
	community_area TEXT,
	fbi_code TEXT,
	year INTEGER,
	updated_on TEXT,
	latitude REAL,
	longitude REAL
)`

// SQLiteStore persists incidents to an embedded SQLite database file.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (creating if absent) the database at path and
// ensures the crimes table exists.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %q: %w", path, err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)

	// WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: enable WAL: %w", err)
	}

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: create schema: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: ping: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Persist inserts incidents whose ID is not already present. Existing
// rows are never modified. Returns the number of newly inserted rows.
func (s *SQLiteStore) Persist(incidents []models.Incident) (int, error) {
	if len(incidents) == 0 {
		return 0, nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("sqlite: begin transaction: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT OR IGNORE INTO crimes
		(id, case_number, date, block, iucr, primary_type, description,
		 location_description, arrest, domestic, beat, district, ward,
		 community_area, fbi_code, year, updated_on, latitude, longitude)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		return 0, fmt.Errorf("sqlite: prepare insert: %w", err)
	}
	defer stmt.Close()

	inserted := 0
	for i := range incidents {
		inc := &incidents[i]
		res, err := stmt.Exec(
			inc.ID, inc.CaseNumber, inc.Date.UTC().Format(time.RFC3339),
			inc.Block, inc.IUCR, inc.PrimaryType, inc.Description,
			inc.LocationDescription, boolToInt(inc.Arrest), boolToInt(inc.Domestic),
			inc.Beat, inc.District, inc.Ward, inc.CommunityArea, inc.FBICode,
			inc.Year, inc.UpdatedOn.UTC().Format(time.RFC3339),
			nullFloat(inc.Latitude), nullFloat(inc.Longitude),
		)
		if err != nil {
			tx.Rollback()
			return 0, fmt.Errorf("sqlite: insert incident %s: %w", inc.ID, err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			inserted++
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("sqlite: commit: %w", err)
	}

	return inserted, nil
}

// List returns stored incidents ordered by date descending, optionally
// bounded by a date range.
func (s *SQLiteStore) List(filter models.StoreFilter) ([]models.Incident, error) {
	query := selectColumns + " FROM crimes"
	var conditions []string
	var args []interface{}

	if !filter.From.IsZero() {
		conditions = append(conditions, "date >= ?")
		args = append(args, filter.From.UTC().Format(time.RFC3339))
	}
	if !filter.To.IsZero() {
		conditions = append(conditions, "date <= ?")
		args = append(args, filter.To.UTC().Format(time.RFC3339))
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	query += " ORDER BY date DESC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: query incidents: %w", err)
	}
	defer rows.Close()

	return scanIncidents(rows)
}

// GetByID retrieves a single stored incident.
func (s *SQLiteStore) GetByID(id string) (*models.Incident, error) {
	row := s.db.QueryRow(selectColumns+" FROM crimes WHERE id = ?", id)
	inc, err := scanIncident(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: query incident %s: %w", id, err)
	}
	return inc, nil
}

// DeleteByID removes a stored incident, reporting whether a row existed.
func (s *SQLiteStore) DeleteByID(id string) (bool, error) {
	res, err := s.db.Exec("DELETE FROM crimes WHERE id = ?", id)
	if err != nil {
		return false, fmt.Errorf("sqlite: delete incident %s: %w", id, err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// Clear removes every stored incident, returning the number of rows
// deleted.
func (s *SQLiteStore) Clear() (int64, error) {
	res, err := s.db.Exec("DELETE FROM crimes")
	if err != nil {
		return 0, fmt.Errorf("sqlite: clear incidents: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

// Count returns the number of stored incidents.
func (s *SQLiteStore) Count() (int64, error) {
	var n int64
	if err := s.db.QueryRow("SELECT COUNT(*) FROM crimes").Scan(&n); err != nil {
		return 0, fmt.Errorf("sqlite: count incidents: %w", err)
	}
	return n, nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
