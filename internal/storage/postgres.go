package storage

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/lib/pq"

	"github.com/emcr30/chicago-web/internal/models"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS crimes (
	id TEXT PRIMARY KEY,
	case_number TEXT,
	date TIMESTAMPTZ,
	block TEXT,
	iucr TEXT,
	primary_type TEXT,
	description TEXT,
	location_description TEXT,
	arrest BOOLEAN,
	domestic BOOLEAN,
	beat TEXT,
	district TEXT,
	ward TEXT,
	community_area TEXT,
	fbi_code TEXT,
	year INTEGER,
	updated_on TIMESTAMPTZ,
	latitude DOUBLE PRECISION,
	longitude DOUBLE PRECISION
)`

// PostgresStore persists incidents to PostgreSQL. It satisfies the same
// IncidentStore contract as SQLiteStore and is selected via DB_MODE.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore connects to PostgreSQL and ensures the crimes table
// exists.
func NewPostgresStore(dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("postgres: ping: %w", err)
	}

	if _, err := db.Exec(postgresSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("postgres: create schema: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

// Persist inserts incidents whose ID is not already present, leaving
// existing rows untouched.
func (p *PostgresStore) Persist(incidents []models.Incident) (int, error) {
	if len(incidents) == 0 {
		return 0, nil
	}

	const cols = 19
	valueStrings := make([]string, 0, len(incidents))
	valueArgs := make([]interface{}, 0, len(incidents)*cols)

	for idx := range incidents {
		inc := &incidents[idx]
		base := idx * cols
		placeholders := make([]string, cols)
		for i := range placeholders {
			placeholders[i] = fmt.Sprintf("$%d", base+i+1)
		}
		valueStrings = append(valueStrings, "("+strings.Join(placeholders, ",")+")")
		valueArgs = append(valueArgs,
			inc.ID, inc.CaseNumber, inc.Date.UTC(), inc.Block, inc.IUCR,
			inc.PrimaryType, inc.Description, inc.LocationDescription,
			inc.Arrest, inc.Domestic, inc.Beat, inc.District, inc.Ward,
			inc.CommunityArea, inc.FBICode, inc.Year, inc.UpdatedOn.UTC(),
			nullFloat(inc.Latitude), nullFloat(inc.Longitude),
		)
	}

	query := fmt.Sprintf(`
		INSERT INTO crimes (id, case_number, date, block, iucr, primary_type,
			description, location_description, arrest, domestic, beat, district,
			ward, community_area, fbi_code, year, updated_on, latitude, longitude)
		VALUES %s
		ON CONFLICT (id) DO NOTHING
	`, strings.Join(valueStrings, ","))

	res, err := p.db.Exec(query, valueArgs...)
	if err != nil {
		return 0, fmt.Errorf("postgres: insert incidents: %w", err)
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

// List returns stored incidents ordered by date descending, optionally
// bounded by a date range.
func (p *PostgresStore) List(filter models.StoreFilter) ([]models.Incident, error) {
	query := selectColumns + " FROM crimes"
	var conditions []string
	var args []interface{}

	if !filter.From.IsZero() {
		conditions = append(conditions, fmt.Sprintf("date >= $%d", len(args)+1))
		args = append(args, filter.From.UTC())
	}
	if !filter.To.IsZero() {
		conditions = append(conditions, fmt.Sprintf("date <= $%d", len(args)+1))
		args = append(args, filter.To.UTC())
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	query += " ORDER BY date DESC"
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", len(args)+1)
		args = append(args, filter.Limit)
	}

	rows, err := p.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("postgres: query incidents: %w", err)
	}
	defer rows.Close()

	var incidents []models.Incident
	for rows.Next() {
		inc, err := scanPostgresIncident(rows)
		if err != nil {
			return nil, err
		}
		incidents = append(incidents, *inc)
	}
	return incidents, rows.Err()
}

// GetByID retrieves a single stored incident.
func (p *PostgresStore) GetByID(id string) (*models.Incident, error) {
	row := p.db.QueryRow(selectColumns+" FROM crimes WHERE id = $1", id)
	inc, err := scanPostgresIncident(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("postgres: query incident %s: %w", id, err)
	}
	return inc, nil
}

// DeleteByID removes a stored incident, reporting whether a row existed.
func (p *PostgresStore) DeleteByID(id string) (bool, error) {
	res, err := p.db.Exec("DELETE FROM crimes WHERE id = $1", id)
	if err != nil {
		return false, fmt.Errorf("postgres: delete incident %s: %w", id, err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// Clear removes every stored incident, returning the number of rows
// deleted.
func (p *PostgresStore) Clear() (int64, error) {
	res, err := p.db.Exec("DELETE FROM crimes")
	if err != nil {
		return 0, fmt.Errorf("postgres: clear incidents: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

// Count returns the number of stored incidents.
func (p *PostgresStore) Count() (int64, error) {
	var n int64
	if err := p.db.QueryRow("SELECT COUNT(*) FROM crimes").Scan(&n); err != nil {
		return 0, fmt.Errorf("postgres: count incidents: %w", err)
	}
	return n, nil
}

// Close closes the underlying database.
func (p *PostgresStore) Close() error {
	return p.db.Close()
}

// scanPostgresIncident reads one row using native Postgres types
// (timestamps and booleans come back typed, unlike the SQLite text schema).
func scanPostgresIncident(row rowScanner) (*models.Incident, error) {
	var inc models.Incident
	var lat, lon sql.NullFloat64

	err := row.Scan(
		&inc.ID, &inc.CaseNumber, &inc.Date, &inc.Block, &inc.IUCR,
		&inc.PrimaryType, &inc.Description, &inc.LocationDescription,
		&inc.Arrest, &inc.Domestic, &inc.Beat, &inc.District, &inc.Ward,
		&inc.CommunityArea, &inc.FBICode, &inc.Year, &inc.UpdatedOn, &lat, &lon,
	)
	if err != nil {
		return nil, err
	}

	if lat.Valid {
		inc.Latitude = &lat.Float64
	}
	if lon.Valid {
		inc.Longitude = &lon.Float64
	}

	return &inc, nil
}
