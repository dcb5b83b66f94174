package driven

import "github.com/custodia-labs/typefinder/internal/core/domain"

// ModuleHost is the process-scoped registry of loaded modules.
// It is injected into the engine rather than read from a global so tests
// can substitute an in-memory registry.
type ModuleHost interface {
	// LoadedModules returns the modules currently loaded in the host.
	// Order is unspecified; the engine sorts it.
	LoadedModules() []domain.Module

	// LoadByName loads a module by its logical or full name.
	// Returns an error wrapping domain.ErrModuleNotFound if the name cannot be resolved.
	LoadByName(name string) (domain.Module, error)

	// LoadFile loads the module image at path into the host.
	// Loading an already-loaded image must be idempotent or fail safely.
	LoadFile(path string) (domain.Module, error)

	// ReadIdentity reads the module identity stored in the file at path
	// without loading it. Returns an error wrapping domain.ErrBadImageFormat
	// if the file is not a module image.
	ReadIdentity(path string) (domain.Module, error)

	// FilePattern is the glob matching module image file names (e.g., "*.so").
	FilePattern() string
}
