package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/typefinder/internal/core/domain"
	"github.com/custodia-labs/typefinder/internal/core/ports/driven"
)

// Ensure ScanCatalog implements the interface.
var _ driven.ScanCatalog = (*ScanCatalog)(nil)

// ScanCatalog is an in-memory implementation of driven.ScanCatalog.
type ScanCatalog struct {
	mu      sync.RWMutex
	records map[string]domain.ScanRecord
}

// NewScanCatalog creates a new in-memory scan catalog.
func NewScanCatalog() *ScanCatalog {
	return &ScanCatalog{records: make(map[string]domain.ScanRecord)}
}

// Save stores or replaces a record.
func (c *ScanCatalog) Save(_ context.Context, record domain.ScanRecord) error {
	if record.ID == "" {
		return domain.ErrInvalidInput
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.records[record.ID] = record
	return nil
}

// Get retrieves a record by ID.
func (c *ScanCatalog) Get(_ context.Context, id string) (*domain.ScanRecord, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	record, ok := c.records[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &record, nil
}

// List returns up to limit records, newest first.
func (c *ScanCatalog) List(_ context.Context, limit int) ([]domain.ScanRecord, error) {
	c.mu.RLock()
	result := make([]domain.ScanRecord, 0, len(c.records))
	for _, record := range c.records {
		result = append(result, record)
	}
	c.mu.RUnlock()

	sort.Slice(result, func(i, j int) bool {
		if result[i].StartedAt.Equal(result[j].StartedAt) {
			return result[i].ID > result[j].ID
		}
		return result[i].StartedAt.After(result[j].StartedAt)
	})
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// Delete removes a record.
func (c *ScanCatalog) Delete(_ context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.records, id)
	return nil
}
