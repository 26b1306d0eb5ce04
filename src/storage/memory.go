package storage

import (
	"sync"
	"time"

	"stock-insight/src/logger"
	"stock-insight/src/models"
	"stock-insight/src/utils"
)

// -----------------------------------------------------------------------------

// MemoryDB keeps the lookup history in a bounded ring buffer. The oldest
// entries are overwritten once the capacity is reached.
type MemoryDB struct {
	Config *models.MConfig
	Logger *logger.Logger

	mu     sync.RWMutex
	buffer *utils.RingBuffer[models.MLookupRecord]
	now    func() time.Time
}

// -----------------------------------------------------------------------------

func NewMemoryDB(cfg *models.MConfig, log *logger.Logger) *MemoryDB {
	return &MemoryDB{
		Config: cfg,
		Logger: log,
		buffer: utils.NewRingBuffer[models.MLookupRecord](cfg.Storage.MemoryCapacity),
		now:    time.Now,
	}
}

// -----------------------------------------------------------------------------

func (d *MemoryDB) Initialize() error {
	d.Logger.Info("MemoryDB initialized (capacity: %d)", d.buffer.Capacity())
	return nil
}

// -----------------------------------------------------------------------------

func (d *MemoryDB) Record(rec models.MLookupRecord) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.buffer.Append(rec)
	return nil
}

// -----------------------------------------------------------------------------

func (d *MemoryDB) Recent(limit int) ([]models.MLookupRecord, error) {
	d.mu.RLock()
	latest := d.buffer.GetLatest(limit)
	d.mu.RUnlock()

	// newest first
	for i, j := 0, len(latest)-1; i < j; i, j = i+1, j-1 {
		latest[i], latest[j] = latest[j], latest[i]
	}
	return latest, nil
}

// -----------------------------------------------------------------------------

func (d *MemoryDB) CleanupOldData() error {
	cutoff := retentionCutoff(d.now(), d.Config.Storage.RetentionDays)

	d.mu.Lock()
	removed := d.buffer.Retain(func(r models.MLookupRecord) bool {
		return !r.RequestedAt.Before(cutoff)
	})
	d.mu.Unlock()

	d.Logger.Debug("Cleanup removed %d lookup(s) older than %s", removed, cutoff.Format(time.RFC3339))
	return nil
}

// -----------------------------------------------------------------------------

func (d *MemoryDB) Close() error {
	return nil
}
