package sqlite

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/skybrief/wx-hub/pkg/logger"
)

// ReportRecord represents one fetched weather report in the database
type ReportRecord struct {
	ID             int64     `json:"id"`
	Station        string    `json:"station"`
	Product        string    `json:"product"` // metar, taf, pirep
	Raw            string    `json:"raw"`
	FlightCategory string    `json:"flight_category,omitempty"`
	FetchedAt      time.Time `json:"fetched_at"`
}

// ReportStorage handles persistence of fetched weather reports
type ReportStorage struct {
	db     *sql.DB
	logger *logger.Logger
}

// NewReportStorage opens (or creates) the SQLite database at dbPath and
// prepares the reports schema.
func NewReportStorage(dbPath string, log *logger.Logger) (*ReportStorage, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// modernc.org/sqlite is serialized per connection; a single connection
	// avoids SQLITE_BUSY under concurrent writes.
	db.SetMaxOpenConns(1)

	storage := &ReportStorage{
		db:     db,
		logger: log.Named("sqlite-reports"),
	}

	if err := storage.initDB(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize report storage: %w", err)
	}

	return storage, nil
}

// initDB initializes the database tables
func (s *ReportStorage) initDB() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS reports (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			station TEXT NOT NULL,
			product TEXT NOT NULL,
			raw TEXT NOT NULL,
			flight_category TEXT,
			fetched_at TIMESTAMP NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create reports table: %w", err)
	}

	_, err = s.db.Exec(`CREATE INDEX IF NOT EXISTS idx_reports_station ON reports(station)`)
	if err != nil {
		return fmt.Errorf("failed to create station index: %w", err)
	}

	_, err = s.db.Exec(`CREATE INDEX IF NOT EXISTS idx_reports_fetched_at ON reports(fetched_at)`)
	if err != nil {
		return fmt.Errorf("failed to create fetched_at index: %w", err)
	}

	return nil
}

// RecordReport stores one fetched report. Consecutive refreshes often return
// the same observation, so an identical (station, product, raw) row as the
// most recent entry is skipped rather than duplicated.
func (s *ReportStorage) RecordReport(station, product, raw, flightCategory string, fetchedAt time.Time) error {
	station = strings.ToUpper(station)

	var lastRaw string
	err := s.db.QueryRow(
		`SELECT raw FROM reports WHERE station = ? AND product = ? ORDER BY fetched_at DESC, id DESC LIMIT 1`,
		station, product,
	).Scan(&lastRaw)
	if err != nil && err != sql.ErrNoRows {
		return fmt.Errorf("failed to query last report: %w", err)
	}
	if err == nil && lastRaw == raw {
		return nil
	}

	_, err = s.db.Exec(
		`INSERT INTO reports (station, product, raw, flight_category, fetched_at) VALUES (?, ?, ?, ?, ?)`,
		station, product, raw, flightCategory, fetchedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to insert report: %w", err)
	}

	s.logger.Debug("Report recorded",
		logger.String("station", station),
		logger.String("product", product))
	return nil
}

// GetHistory returns the most recent reports for a station, newest first.
// product filters to one product type when non-empty.
func (s *ReportStorage) GetHistory(station, product string, limit int) ([]ReportRecord, error) {
	station = strings.ToUpper(station)
	if limit <= 0 {
		limit = 100
	}

	query := `SELECT id, station, product, raw, flight_category, fetched_at
		FROM reports WHERE station = ?`
	args := []any{station}
	if product != "" {
		query += ` AND product = ?`
		args = append(args, product)
	}
	query += ` ORDER BY fetched_at DESC, id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query report history: %w", err)
	}
	defer rows.Close()

	var records []ReportRecord
	for rows.Next() {
		var (
			rec       ReportRecord
			category  sql.NullString
			fetchedAt string
		)
		if err := rows.Scan(&rec.ID, &rec.Station, &rec.Product, &rec.Raw, &category, &fetchedAt); err != nil {
			return nil, fmt.Errorf("failed to scan report row: %w", err)
		}
		rec.FlightCategory = category.String
		if ts, err := time.Parse(time.RFC3339, fetchedAt); err == nil {
			rec.FetchedAt = ts
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate report rows: %w", err)
	}

	return records, nil
}

// TrimOlderThan deletes reports fetched before the retention window.
func (s *ReportStorage) TrimOlderThan(retentionDays int) (int64, error) {
	if retentionDays <= 0 {
		return 0, nil
	}

	cutoff := time.Now().UTC().AddDate(0, 0, -retentionDays).Format(time.RFC3339)
	result, err := s.db.Exec(`DELETE FROM reports WHERE fetched_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to trim old reports: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count trimmed reports: %w", err)
	}
	if deleted > 0 {
		s.logger.Info("Trimmed old reports",
			logger.Int64("deleted", deleted),
			logger.Int("retention_days", retentionDays))
	}
	return deleted, nil
}

// GetDB returns the underlying database handle for sharing with other stores
func (s *ReportStorage) GetDB() *sql.DB {
	return s.db
}

// Close closes the database connection
func (s *ReportStorage) Close() error {
	return s.db.Close()
}
