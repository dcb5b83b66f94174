package services

import (
	"errors"
	"sync"

	"github.com/custodia-labs/typefinder/internal/core/domain"
	"github.com/custodia-labs/typefinder/internal/core/ports/driven"
	"github.com/custodia-labs/typefinder/internal/core/ports/driving"
)

// Ensure TypeFinder implements the interface.
var _ driving.TypeFinder = (*TypeFinder)(nil)

// TypeFinder discovers types satisfying a contract across the loaded modules
// of a host. Scans are synchronous; each one works on a snapshot of the
// filter configuration taken when it starts.
type TypeFinder struct {
	host         driven.ModuleHost
	introspector driven.TypeIntrospector
	files        driven.FileProvider

	mu     sync.RWMutex
	filter domain.FilterConfig

	patterns *patternFilter

	// loadMu serializes directory scans so two scans never load the same file.
	loadMu sync.Mutex
}

// NewTypeFinder creates a type finder over the given host.
// If files is nil, AugmentFromDirectory is a no-op.
func NewTypeFinder(
	host driven.ModuleHost,
	introspector driven.TypeIntrospector,
	files driven.FileProvider,
) *TypeFinder {
	return &TypeFinder{
		host:         host,
		introspector: introspector,
		files:        files,
		filter:       domain.DefaultFilterConfig(),
		patterns:     newPatternFilter(),
	}
}

// Filter returns a copy of the current filter configuration.
func (f *TypeFinder) Filter() domain.FilterConfig {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.filter.Clone()
}

// SetFilter validates both patterns and replaces the filter configuration.
// An invalid pattern is rejected with domain.ErrInvalidPattern and the
// previous configuration stays in place.
func (f *TypeFinder) SetFilter(cfg domain.FilterConfig) error {
	if err := f.patterns.validate(cfg); err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.filter = cfg.Clone()
	return nil
}

// IsEligible reports whether a module full name passes the current filter.
func (f *TypeFinder) IsEligible(moduleFullName string) (bool, error) {
	return f.patterns.isEligible(f.Filter(), moduleFullName)
}

// WorkingModuleSet returns the deduplicated, ordered modules a scan considers.
func (f *TypeFinder) WorkingModuleSet() ([]domain.Module, error) {
	return f.buildWorkingSet(f.Filter())
}

// FindTypes returns every class in the working set matching contract.
func (f *TypeFinder) FindTypes(contract domain.Contract, concreteOnly bool) ([]domain.TypeDescriptor, error) {
	cfg := f.Filter()
	modules, err := f.buildWorkingSet(cfg)
	if err != nil {
		return nil, err
	}
	return f.findTypes(cfg, contract, modules, concreteOnly)
}

// FindTypesIn returns every class in modules matching contract.
func (f *TypeFinder) FindTypesIn(
	contract domain.Contract,
	modules []domain.Module,
	concreteOnly bool,
) ([]domain.TypeDescriptor, error) {
	return f.findTypes(f.Filter(), contract, modules, concreteOnly)
}

// FindDerivedOf returns every type in the working set whose direct base is
// a closed instance of one of definitions.
func (f *TypeFinder) FindDerivedOf(definitions ...domain.TypeID) ([]domain.TypeDescriptor, error) {
	cfg := f.Filter()
	modules, err := f.buildWorkingSet(cfg)
	if err != nil {
		return nil, err
	}
	return f.findDerivedOf(cfg, modules, definitions)
}

// AugmentFromDirectory loads eligible module files from dir.
func (f *TypeFinder) AugmentFromDirectory(dir string) error {
	if f.files == nil {
		return nil
	}

	f.loadMu.Lock()
	defer f.loadMu.Unlock()
	return f.augmentFromDirectory(f.Filter(), dir)
}

// IsConfigurationError reports whether err is a fatal configuration error
// rather than a type enumeration failure.
func IsConfigurationError(err error) bool {
	return errors.Is(err, domain.ErrInvalidPattern) || errors.Is(err, domain.ErrModuleNotFound)
}
