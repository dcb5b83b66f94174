package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/typefinder/internal/core/domain"
	"github.com/custodia-labs/typefinder/internal/core/ports/driven"
	"github.com/custodia-labs/typefinder/internal/core/ports/driving"
)

// Ensure CatalogService implements the interface.
var _ driving.CatalogService = (*CatalogService)(nil)

// CatalogService records scan outcomes in a ScanCatalog.
type CatalogService struct {
	catalog driven.ScanCatalog
	now     func() time.Time
}

// NewCatalogService creates a catalog service. catalog may be nil, in which
// case every operation fails with domain.ErrNotFound.
func NewCatalogService(catalog driven.ScanCatalog) *CatalogService {
	return &CatalogService{catalog: catalog, now: time.Now}
}

// Record stores the outcome of a scan and returns the saved record.
func (s *CatalogService) Record(ctx context.Context, scan driving.ScanOutcome) (*domain.ScanRecord, error) {
	if s.catalog == nil {
		return nil, domain.ErrNotFound
	}
	if scan.Contract.IsZero() {
		return nil, domain.ErrInvalidInput
	}

	started := scan.StartedAt
	if started.IsZero() {
		started = s.now()
	}

	record := domain.ScanRecord{
		ID:           uuid.New().String(),
		Contract:     scan.Contract.String(),
		ConcreteOnly: scan.ConcreteOnly,
		StartedAt:    started,
		Duration:     s.now().Sub(started),
		Modules:      domain.ModuleNames(scan.Modules),
		Types:        domain.TypeIDs(scan.Types),
	}

	var agg *domain.TypeEnumerationError
	switch {
	case scan.Err == nil:
	case errors.As(scan.Err, &agg):
		record.Failures = agg.Messages()
	default:
		record.Failures = []string{scan.Err.Error()}
	}

	if err := s.catalog.Save(ctx, record); err != nil {
		return nil, err
	}
	return &record, nil
}

// Get retrieves a record by ID.
func (s *CatalogService) Get(ctx context.Context, id string) (*domain.ScanRecord, error) {
	if s.catalog == nil {
		return nil, domain.ErrNotFound
	}
	if id == "" {
		return nil, domain.ErrInvalidInput
	}
	return s.catalog.Get(ctx, id)
}

// List returns up to limit records, newest first.
func (s *CatalogService) List(ctx context.Context, limit int) ([]domain.ScanRecord, error) {
	if s.catalog == nil {
		return nil, domain.ErrNotFound
	}
	return s.catalog.List(ctx, limit)
}
