package storage

import (
	"io"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"stock-insight/src/logger"
	"stock-insight/src/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *logger.Logger {
	return logger.NewLoggerTo(io.Discard, nil, "test")
}

func lookup(symbol string, at time.Time) models.MLookupRecord {
	return models.MLookupRecord{Symbol: symbol, RequestedAt: at, Outcome: models.OutcomeOK, Records: 100, LatencyMS: 12}
}

func TestMemoryDBRecentNewestFirst(t *testing.T) {
	cfg := &models.MConfig{Storage: models.MStorageConfig{MemoryCapacity: 3}}
	db := NewMemoryDB(cfg, testLogger())
	require.NoError(t, db.Initialize())

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, s := range []string{"A", "B", "C", "D"} {
		require.NoError(t, db.Record(lookup(s, base.Add(time.Duration(i)*time.Minute))))
	}

	recent, err := db.Recent(10)
	require.NoError(t, err)
	require.Len(t, recent, 3)
	assert.Equal(t, "D", recent[0].Symbol)
	assert.Equal(t, "B", recent[2].Symbol)

	recent, err = db.Recent(1)
	require.NoError(t, err)
	assert.Equal(t, "D", recent[0].Symbol)
}

func TestMemoryDBCleanupOldData(t *testing.T) {
	cfg := &models.MConfig{Storage: models.MStorageConfig{RetentionDays: 2}}
	db := NewMemoryDB(cfg, testLogger())
	now := time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)
	db.now = func() time.Time { return now }

	require.NoError(t, db.Record(lookup("OLD", now.AddDate(0, 0, -5))))
	require.NoError(t, db.Record(lookup("NEW", now.Add(-time.Hour))))

	require.NoError(t, db.CleanupOldData())

	recent, err := db.Recent(10)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, "NEW", recent[0].Symbol)
}

func TestSQLiteRoundTrip(t *testing.T) {
	cfg := &models.MConfig{Storage: models.MStorageConfig{
		DBType: DBTypeSQLite, DBPath: filepath.Join(t.TempDir(), "lookups.db"), RetentionDays: 7,
	}}
	rec, err := NewRecorder(cfg, testLogger())
	require.NoError(t, err)
	require.NoError(t, rec.Initialize())
	t.Cleanup(func() { rec.Close() })

	now := time.Now().UTC().Truncate(time.Millisecond)
	failed := models.MLookupRecord{Symbol: "NOPE", RequestedAt: now, Outcome: models.OutcomeError, ErrorKind: "unexpected_shape", LatencyMS: 40}
	require.NoError(t, rec.Record(lookup("IBM", now.Add(-time.Minute))))
	require.NoError(t, rec.Record(failed))
	require.NoError(t, rec.Record(lookup("STALE", now.AddDate(0, 0, -30))))

	recent, err := rec.Recent(10)
	require.NoError(t, err)
	require.Len(t, recent, 3)
	assert.Equal(t, failed, recent[0])
	assert.Equal(t, "IBM", recent[1].Symbol)

	require.NoError(t, rec.CleanupOldData())

	recent, err = rec.Recent(10)
	require.NoError(t, err)
	assert.Len(t, recent, 2)

	empty, err := rec.Recent(0)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestNewRecorderSelectsBackend(t *testing.T) {
	rec, err := NewRecorder(&models.MConfig{}, testLogger())
	require.NoError(t, err)
	assert.IsType(t, &MemoryDB{}, rec)

	_, err = NewRecorder(&models.MConfig{Storage: models.MStorageConfig{DBType: DBTypeSQLite}}, testLogger())
	assert.Error(t, err)

	_, err = NewRecorder(&models.MConfig{Storage: models.MStorageConfig{DBType: DBTypePostgres}}, testLogger())
	assert.Error(t, err)

	_, err = NewRecorder(&models.MConfig{Storage: models.MStorageConfig{DBType: "mongo"}}, testLogger())
	assert.Error(t, err)
}

func TestSchemaName(t *testing.T) {
	assert.Equal(t, "stock_insight", schemaName("Stock Insight"))
	assert.Equal(t, defaultPostgresSchema, schemaName("--"))
}

type countingRecorder struct {
	MemoryDB
	cleanups atomic.Int32
}

func (c *countingRecorder) CleanupOldData() error {
	c.cleanups.Add(1)
	return nil
}

func TestCleanupScheduler(t *testing.T) {
	rec := &countingRecorder{}

	_, err := NewCleanupScheduler("not a cron", rec, testLogger())
	assert.Error(t, err)

	s, err := NewCleanupScheduler("", rec, testLogger())
	require.NoError(t, err)
	assert.Len(t, s.Cron.Entries(), 1)

	s.RunNow()
	assert.Equal(t, int32(1), rec.cleanups.Load())

	s.Start()
	s.Stop()
}
