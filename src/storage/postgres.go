package storage

import (
	"database/sql"
	"fmt"
	"regexp"
	"strings"
	"time"

	"stock-insight/src/logger"
	"stock-insight/src/models"

	_ "github.com/lib/pq"
)

const defaultPostgresSchema = "stock_insight"

var schemaUnsafe = regexp.MustCompile(`[^a-z0-9_]+`)

// -----------------------------------------------------------------------------

type PostgresDB struct {
	Config *models.MConfig
	DB     *sql.DB
	Schema string
	Logger *logger.Logger
}

// -----------------------------------------------------------------------------

func NewPostgresDB(cfg *models.MConfig, log *logger.Logger) (*PostgresDB, error) {
	if cfg.Storage.DBConnectionString == "" {
		return nil, fmt.Errorf("postgres storage requires storage.db_connection_string")
	}

	return &PostgresDB{
		Config: cfg,
		Schema: schemaName(cfg.Name),
		Logger: log,
	}, nil
}

// -----------------------------------------------------------------------------

// schemaName derives the schema from the application name.
func schemaName(name string) string {
	name = schemaUnsafe.ReplaceAllString(strings.ToLower(name), "_")
	name = strings.Trim(name, "_")
	if name == "" {
		return defaultPostgresSchema
	}
	return name
}

// -----------------------------------------------------------------------------

func (d *PostgresDB) Initialize() error {
	dsn := d.Config.Storage.DBConnectionString
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return err
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return err
	}

	d.DB = db

	// Create Schema
	if _, err := d.DB.Exec(fmt.Sprintf(`CREATE SCHEMA IF NOT EXISTS "%s"`, d.Schema)); err != nil {
		return fmt.Errorf("failed to create schema %s: %w", d.Schema, err)
	}

	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS "%s"."lookups" (
			id BIGSERIAL PRIMARY KEY,
			symbol TEXT NOT NULL,
			requested_at TIMESTAMPTZ NOT NULL,
			outcome TEXT NOT NULL,
			error_kind TEXT,
			records INTEGER,
			latency_ms BIGINT
		);
	`, d.Schema)
	if _, err := d.DB.Exec(query); err != nil {
		return fmt.Errorf("failed to create lookups: %w", err)
	}

	d.Logger.Info("PostgresDB initialized successfully (Schema: %s)", d.Schema)
	return nil
}

// -----------------------------------------------------------------------------

func (d *PostgresDB) Record(rec models.MLookupRecord) error {
	_, err := d.DB.Exec(fmt.Sprintf(`
		INSERT INTO "%s"."lookups" (symbol, requested_at, outcome, error_kind, records, latency_ms)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, d.Schema), rec.Symbol, rec.RequestedAt.UTC(), rec.Outcome, rec.ErrorKind, rec.Records, rec.LatencyMS)
	return err
}

// -----------------------------------------------------------------------------

func (d *PostgresDB) Recent(limit int) ([]models.MLookupRecord, error) {
	if limit <= 0 {
		return []models.MLookupRecord{}, nil
	}

	rows, err := d.DB.Query(fmt.Sprintf(`
		SELECT symbol, requested_at, outcome, COALESCE(error_kind, ''), records, latency_ms
		FROM "%s"."lookups"
		ORDER BY requested_at DESC, id DESC
		LIMIT $1
	`, d.Schema), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]models.MLookupRecord, 0, limit)
	for rows.Next() {
		var rec models.MLookupRecord
		if err := rows.Scan(&rec.Symbol, &rec.RequestedAt, &rec.Outcome, &rec.ErrorKind, &rec.Records, &rec.LatencyMS); err != nil {
			return nil, err
		}
		rec.RequestedAt = rec.RequestedAt.UTC()
		out = append(out, rec)
	}
	return out, rows.Err()
}

// -----------------------------------------------------------------------------

func (d *PostgresDB) CleanupOldData() error {
	retentionDays := d.Config.Storage.RetentionDays
	cutoff := retentionCutoff(time.Now(), retentionDays)

	d.Logger.Debug("Cleaning up lookups older than %d days (before %s)...", retentionDays, cutoff.Format(time.RFC3339))

	if _, err := d.DB.Exec(fmt.Sprintf(`DELETE FROM "%s"."lookups" WHERE requested_at < $1`, d.Schema), cutoff); err != nil {
		d.Logger.Error("Cleanup lookups error: %v", err)
		return err
	}
	return nil
}

// -----------------------------------------------------------------------------

func (d *PostgresDB) Close() error {
	if d.DB != nil {
		return d.DB.Close()
	}
	return nil
}
