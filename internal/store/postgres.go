// Package store provides a postgres-backed population source for
// deployments whose ward reference data lives in a database rather than on
// disk. It satisfies the same catalog.Source contract as the file layouts.
package store

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"

	"github.com/BernardOforiBoateng/chat-mrpt-sub006/internal/catalog"
	"github.com/BernardOforiBoateng/chat-mrpt-sub006/internal/config"
	"github.com/BernardOforiBoateng/chat-mrpt-sub006/internal/region"
)

// Source serves ward population records from a ward_population table.
type Source struct {
	db *sql.DB
}

// Open connects using the standard PG* environment variables.
func Open() (*Source, error) {
	host := config.GetEnv("PGHOST", "localhost")
	port := config.GetEnv("PGPORT", "5432")
	user := config.GetEnv("PGUSER", "user")
	password := config.GetEnv("PGPASSWORD", "password")
	dbname := config.GetEnv("PGDATABASE", "chat_mrpt")

	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, dbname)

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)

	return &Source{db: db}, nil
}

// Close closes the underlying connection pool.
func (s *Source) Close() error {
	return s.db.Close()
}

// Name implements catalog.Source.
func (s *Source) Name() string { return "postgres" }

// Load implements catalog.Source.
func (s *Source) Load(r region.Region) ([]catalog.Record, error) {
	rows, err := s.db.Query(`
		SELECT ward_name, COALESCE(ward_code, ''), COALESCE(lga_name, ''),
		       population, latitude, longitude
		FROM ward_population
		WHERE state_name = $1
		ORDER BY lga_name, ward_name
	`, r.Name)
	if err != nil {
		return nil, fmt.Errorf("query ward_population for %s: %w", r.Name, err)
	}
	defer rows.Close()

	var records []catalog.Record
	for rows.Next() {
		var rec catalog.Record
		var lat, lon sql.NullFloat64
		if err := rows.Scan(&rec.WardName, &rec.WardCode, &rec.LGAName,
			&rec.Population, &lat, &lon); err != nil {
			return nil, fmt.Errorf("scan ward_population row for %s: %w", r.Name, err)
		}
		if rec.Population < 0 {
			continue
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
		return nil, fmt.Errorf("scan ward_population for %s: %w", r.Name, err)
	}
	if len(records) == 0 {
		return nil, catalog.ErrNoData
	}
	return records, nil
}

// Regions implements catalog.Source.
func (s *Source) Regions() ([]region.Region, error) {
	rows, err := s.db.Query(`SELECT DISTINCT state_name FROM ward_population ORDER BY state_name`)
	if err != nil {
		return nil, fmt.Errorf("query distinct states: %w", err)
	}
	defer rows.Close()

	var regions []region.Region
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan state name: %w", err)
		}
		// Unknown state names in the table are skipped, not fatal.
		r, err := region.Resolve(name)
		if err != nil {
			continue
		}
		regions = append(regions, r)
	}
	return regions, rows.Err()
}
