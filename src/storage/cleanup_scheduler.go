package storage

import (
	"fmt"

	"stock-insight/src/interfaces"
	"stock-insight/src/logger"

	"github.com/robfig/cron/v3"
)

// DefaultCleanupCron runs the retention job at the top of every hour.
const DefaultCleanupCron = "0 0 * * * *"

// -----------------------------------------------------------------------------

// CleanupScheduler periodically applies the retention policy to a recorder.
type CleanupScheduler struct {
	Cron     *cron.Cron
	Recorder interfaces.ILookupRecorder
	Logger   *logger.Logger
}

// -----------------------------------------------------------------------------

// NewCleanupScheduler registers the cleanup job on schedule, a six-field cron
// expression (with seconds).
func NewCleanupScheduler(schedule string, rec interfaces.ILookupRecorder, log *logger.Logger) (*CleanupScheduler, error) {
	if schedule == "" {
		schedule = DefaultCleanupCron
	}

	s := &CleanupScheduler{
		Cron:     cron.New(cron.WithSeconds()),
		Recorder: rec,
		Logger:   log,
	}

	if _, err := s.Cron.AddFunc(schedule, s.RunNow); err != nil {
		return nil, fmt.Errorf("register cleanup task: %w", err)
	}
	return s, nil
}

// -----------------------------------------------------------------------------

func (s *CleanupScheduler) Start() {
	s.Cron.Start()
	s.Logger.Info("Cleanup scheduler started")
}

// -----------------------------------------------------------------------------

// Stop waits for a running cleanup to finish.
func (s *CleanupScheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.Logger.Info("Cleanup scheduler stopped")
}

// -----------------------------------------------------------------------------

func (s *CleanupScheduler) RunNow() {
	if err := s.Recorder.CleanupOldData(); err != nil {
		s.Logger.Error("Lookup history cleanup failed: %v", err)
	}
}
