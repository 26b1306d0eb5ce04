package storage

import (
	"fmt"
	"strings"
	"time"

	"stock-insight/src/interfaces"
	"stock-insight/src/logger"
	"stock-insight/src/models"
)

// Storage backends
const (
	DBTypeMemory   = "memory"
	DBTypeSQLite   = "sqlite"
	DBTypePostgres = "postgres"
)

const defaultRetentionDays = 7

// -----------------------------------------------------------------------------

// NewRecorder builds the lookup recorder selected by storage.db_type.
// The returned recorder is not initialized yet.
func NewRecorder(cfg *models.MConfig, log *logger.Logger) (interfaces.ILookupRecorder, error) {
	switch strings.ToLower(cfg.Storage.DBType) {
	case "", DBTypeMemory:
		return NewMemoryDB(cfg, log), nil
	case DBTypeSQLite:
		return NewAsyncSQLiteDB(cfg, log)
	case DBTypePostgres:
		return NewPostgresDB(cfg, log)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.Storage.DBType)
	}
}

// -----------------------------------------------------------------------------

func retentionCutoff(now time.Time, retentionDays int) time.Time {
	if retentionDays <= 0 {
		retentionDays = defaultRetentionDays
	}
	return now.UTC().AddDate(0, 0, -retentionDays)
}
