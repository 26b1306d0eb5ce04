package interfaces

import "stock-insight/src/models"

// -----------------------------------------------------------------------------
// ILookupRecorder defines the contract for the lookup history store.
// -----------------------------------------------------------------------------

type ILookupRecorder interface {

	// -----------------------------------------------------------------------------

	// Initialize sets up the schema. Called once at startup.
	Initialize() error

	// -----------------------------------------------------------------------------

	// Record appends one lookup entry.
	Record(rec models.MLookupRecord) error

	// -----------------------------------------------------------------------------

	// Recent returns up to limit entries, newest first.
	Recent(limit int) ([]models.MLookupRecord, error)

	// -----------------------------------------------------------------------------

	// CleanupOldData removes entries older than the retention policy.
	CleanupOldData() error

	// -----------------------------------------------------------------------------

	// Close the underlying connection
	Close() error
}
