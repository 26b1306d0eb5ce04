package storage

import (
	"database/sql"
	"fmt"
	"time"

	"stock-insight/src/logger"
	"stock-insight/src/models"

	_ "modernc.org/sqlite"
)

// -----------------------------------------------------------------------------

type AsyncSQLiteDB struct {
	Config *models.MConfig
	DB     *sql.DB
	Logger *logger.Logger
}

// -----------------------------------------------------------------------------

func NewAsyncSQLiteDB(cfg *models.MConfig, log *logger.Logger) (*AsyncSQLiteDB, error) {
	if cfg.Storage.DBPath == "" {
		return nil, fmt.Errorf("sqlite storage requires storage.db_path")
	}
	return &AsyncSQLiteDB{
		Config: cfg,
		Logger: log,
	}, nil
}

// -----------------------------------------------------------------------------

func (d *AsyncSQLiteDB) Initialize() error {
	dsn := d.Config.Storage.DBPath

	// Open DB
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return err
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return err
	}

	d.DB = db

	// PRAGMA optimizations
	if _, err := db.Exec("PRAGMA journal_mode = WAL;"); err != nil {
		d.Logger.Warning("Failed to set WAL mode: %v", err)
	}
	if _, err := db.Exec("PRAGMA synchronous = NORMAL;"); err != nil {
		d.Logger.Warning("Failed to set synchronous mode: %v", err)
	}

	return d.createTables()
}

// -----------------------------------------------------------------------------

func (d *AsyncSQLiteDB) createTables() error {
	// SQLite types: INTEGER for int64, TEXT for string
	query := `
		CREATE TABLE IF NOT EXISTS lookups (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			symbol TEXT NOT NULL,
			requested_at INTEGER NOT NULL,
			outcome TEXT NOT NULL,
			error_kind TEXT,
			records INTEGER,
			latency_ms INTEGER
		);
	`
	if _, err := d.DB.Exec(query); err != nil {
		return fmt.Errorf("failed to create lookups: %w", err)
	}

	if _, err := d.DB.Exec("CREATE INDEX IF NOT EXISTS idx_lookups_requested_at ON lookups (requested_at)"); err != nil {
		return fmt.Errorf("failed to index lookups: %w", err)
	}
	return nil
}

// -----------------------------------------------------------------------------

func (d *AsyncSQLiteDB) Record(rec models.MLookupRecord) error {
	_, err := d.DB.Exec(`
		INSERT INTO lookups (symbol, requested_at, outcome, error_kind, records, latency_ms)
		VALUES (?, ?, ?, ?, ?, ?)
	`, rec.Symbol, rec.RequestedAt.UTC().UnixMilli(), rec.Outcome, rec.ErrorKind, rec.Records, rec.LatencyMS)
	return err
}

// -----------------------------------------------------------------------------

func (d *AsyncSQLiteDB) Recent(limit int) ([]models.MLookupRecord, error) {
	if limit <= 0 {
		return []models.MLookupRecord{}, nil
	}

	rows, err := d.DB.Query(`
		SELECT symbol, requested_at, outcome, COALESCE(error_kind, ''), records, latency_ms
		FROM lookups
		ORDER BY requested_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]models.MLookupRecord, 0, limit)
	for rows.Next() {
		var rec models.MLookupRecord
		var requestedAt int64
		if err := rows.Scan(&rec.Symbol, &requestedAt, &rec.Outcome, &rec.ErrorKind, &rec.Records, &rec.LatencyMS); err != nil {
			return nil, err
		}
		rec.RequestedAt = time.UnixMilli(requestedAt).UTC()
		out = append(out, rec)
	}
	return out, rows.Err()
}

// -----------------------------------------------------------------------------

func (d *AsyncSQLiteDB) CleanupOldData() error {
	retentionDays := d.Config.Storage.RetentionDays
	cutoff := retentionCutoff(time.Now(), retentionDays)

	d.Logger.Debug("Cleaning up lookups older than %d days (requested_at < %d)...", retentionDays, cutoff.UnixMilli())

	res, err := d.DB.Exec("DELETE FROM lookups WHERE requested_at < ?", cutoff.UnixMilli())
	if err != nil {
		d.Logger.Error("Cleanup lookups error: %v", err)
		return err
	}

	if n, err := res.RowsAffected(); err == nil {
		d.Logger.Info("Cleanup completed (%d removed)", n)
	}
	return nil
}

// -----------------------------------------------------------------------------

func (d *AsyncSQLiteDB) Close() error {
	if d.DB != nil {
		return d.DB.Close()
	}
	return nil
}
