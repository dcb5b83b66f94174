package driven

import (
	"context"

	"github.com/custodia-labs/typefinder/internal/core/domain"
)

// ScanCatalog persists scan records.
type ScanCatalog interface {
	// Save stores or replaces a scan record.
	Save(ctx context.Context, record domain.ScanRecord) error

	// Get retrieves a scan record by ID.
	// Returns domain.ErrNotFound if the record does not exist.
	Get(ctx context.Context, id string) (*domain.ScanRecord, error)

	// List returns up to limit records, newest first. A limit <= 0 returns all.
	List(ctx context.Context, limit int) ([]domain.ScanRecord, error)

	// Delete removes a scan record. Deleting a missing record is not an error.
	Delete(ctx context.Context, id string) error
}
