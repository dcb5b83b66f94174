package services

import (
	"github.com/custodia-labs/typefinder/internal/core/domain"
	"github.com/custodia-labs/typefinder/internal/logger"
)

// findTypes matches every type of every module against contract, in module
// order then type order. Enumeration failures are handled by enumerate.
func (f *TypeFinder) findTypes(
	cfg domain.FilterConfig,
	contract domain.Contract,
	modules []domain.Module,
	concreteOnly bool,
) ([]domain.TypeDescriptor, error) {
	var matches []domain.TypeDescriptor
	err := f.enumerate(cfg, modules, func(t domain.TypeDescriptor) {
		if f.satisfies(contract, t, concreteOnly) {
			matches = append(matches, t)
		}
	})
	return matches, err
}

// findDerivedOf collects types whose direct base is a closed instance of one
// of definitions.
func (f *TypeFinder) findDerivedOf(
	cfg domain.FilterConfig,
	modules []domain.Module,
	definitions []domain.TypeID,
) ([]domain.TypeDescriptor, error) {
	if len(definitions) == 0 {
		return nil, nil
	}
	wanted := make(map[domain.TypeID]struct{}, len(definitions))
	for _, d := range definitions {
		wanted[d] = struct{}{}
	}

	var matches []domain.TypeDescriptor
	err := f.enumerate(cfg, modules, func(t domain.TypeDescriptor) {
		if t.Base == nil {
			return
		}
		base := genericShape(*t.Base)
		if !base.IsGeneric() {
			return
		}
		if _, ok := wanted[base.Definition]; ok {
			matches = append(matches, t)
		}
	})
	return matches, err
}

// enumerate calls visit for every type of every module. A module whose types
// cannot be enumerated is treated as empty; in strict mode its failure is
// recorded and all failures are returned together once every module was tried.
func (f *TypeFinder) enumerate(cfg domain.FilterConfig, modules []domain.Module, visit func(domain.TypeDescriptor)) error {
	var failures []domain.ModuleFailure

	for _, m := range modules {
		types, err := f.introspector.Types(m)
		if err != nil {
			if !cfg.Strict {
				logger.Warn("ignoring types of %s: %v", m.FullName(), err)
				continue
			}
			failures = append(failures, domain.ModuleFailure{Module: m.FullName(), Err: err})
			continue
		}

		for _, t := range types {
			visit(t)
		}
	}

	if len(failures) > 0 {
		return &domain.TypeEnumerationError{Failures: failures}
	}
	return nil
}

// satisfies decides whether t matches contract.
func (f *TypeFinder) satisfies(contract domain.Contract, t domain.TypeDescriptor, concreteOnly bool) bool {
	if t.IsInterface() {
		return false
	}

	var ok bool
	if contract.IsOpenGeneric() {
		ok = implementsOpenGeneric(t, contract.ID())
	} else {
		ok = f.introspector.IsAssignable(contract.ID(), t)
	}
	if !ok {
		return false
	}

	if concreteOnly {
		return t.IsConcrete()
	}
	return true
}

// implementsOpenGeneric reports whether t implements a closed generic
// interface whose definition is definition. The first match decides.
func implementsOpenGeneric(t domain.TypeDescriptor, definition domain.TypeID) bool {
	for _, iface := range t.Interfaces {
		ref := genericShape(iface)
		if ref.IsGeneric() && ref.Definition == definition {
			return true
		}
	}
	return false
}

// genericShape fills in the generic definition of ref from its ID when the
// introspector left it empty.
func genericShape(ref domain.TypeRef) domain.TypeRef {
	if ref.IsGeneric() {
		return ref
	}
	return domain.ParseTypeRef(ref.ID)
}
