package driving

import (
	"context"
	"time"

	"github.com/custodia-labs/typefinder/internal/core/domain"
)

// TypeFinder locates types satisfying a contract across the working set of
// loaded modules.
type TypeFinder interface {
	// FindTypes returns every class in the working set matching contract.
	// With concreteOnly, abstract classes are excluded. Interfaces never match.
	// In strict mode a *domain.TypeEnumerationError is returned after every
	// module was attempted, together with the matches from healthy modules.
	FindTypes(contract domain.Contract, concreteOnly bool) ([]domain.TypeDescriptor, error)

	// FindTypesIn is FindTypes over an explicit module set instead of the working set.
	FindTypesIn(contract domain.Contract, modules []domain.Module, concreteOnly bool) ([]domain.TypeDescriptor, error)

	// FindDerivedOf returns every type whose direct base is a closed instance
	// of one of the given generic definitions.
	FindDerivedOf(definitions ...domain.TypeID) ([]domain.TypeDescriptor, error)

	// WorkingModuleSet returns the deduplicated, ordered modules a scan considers.
	WorkingModuleSet() ([]domain.Module, error)

	// AugmentFromDirectory loads eligible module files from dir that are not
	// already loaded. Per-file failures are swallowed; only configuration
	// errors are returned.
	AugmentFromDirectory(dir string) error

	// IsEligible reports whether a module full name passes the filter.
	IsEligible(moduleFullName string) (bool, error)

	// Filter returns a copy of the current filter configuration.
	Filter() domain.FilterConfig

	// SetFilter validates and replaces the filter configuration.
	SetFilter(cfg domain.FilterConfig) error
}

// CatalogService records and retrieves scan summaries.
type CatalogService interface {
	// Record stores the outcome of a scan and returns the saved record.
	Record(ctx context.Context, scan ScanOutcome) (*domain.ScanRecord, error)

	// Get retrieves a record by ID.
	Get(ctx context.Context, id string) (*domain.ScanRecord, error)

	// List returns the most recent records, newest first.
	List(ctx context.Context, limit int) ([]domain.ScanRecord, error)
}

// ScanOutcome is what a caller hands to CatalogService.Record.
// Err is nil or the error returned by the scan; failures of a
// *domain.TypeEnumerationError are stored per module.
type ScanOutcome struct {
	Contract     domain.Contract
	ConcreteOnly bool
	StartedAt    time.Time
	Modules      []domain.Module
	Types        []domain.TypeDescriptor
	Err          error
}
