package driven

import "github.com/custodia-labs/typefinder/internal/core/domain"

// TypeIntrospector exposes the runtime type metadata of loaded modules.
// Implementations may use native reflection, a static registry populated at
// init time, or a generated registration table; the matching algorithm is
// the same for all of them.
type TypeIntrospector interface {
	// Types enumerates every type declared in module, in a stable order.
	// A partial failure (e.g., a missing dependency) returns an error,
	// typically a *domain.TypeLoadError.
	Types(module domain.Module) ([]domain.TypeDescriptor, error)

	// IsAssignable reports whether t implements or derives from target.
	IsAssignable(target domain.TypeID, t domain.TypeDescriptor) bool
}
