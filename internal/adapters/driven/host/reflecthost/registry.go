package reflecthost

import (
	"fmt"
	"reflect"
	"runtime/debug"
	"sort"
	"sync"

	"github.com/custodia-labs/typefinder/internal/core/domain"
	"github.com/custodia-labs/typefinder/internal/core/ports/driven"
)

// Ensure Registry implements the interfaces.
var (
	_ driven.ModuleHost       = (*Registry)(nil)
	_ driven.TypeIntrospector = (*Registry)(nil)
)

// Default is the registry compiled-in packages register with from init.
var Default = NewRegistry()

type entry struct {
	typ      reflect.Type
	module   string
	abstract bool
}

type module struct {
	info  domain.Module
	types []domain.TypeID
}

// Registry maps Go types to the modules that declare them. Every registered
// module counts as loaded: its code is linked into the process.
type Registry struct {
	mu      sync.RWMutex
	modules map[string]*module
	byPath  map[string]string
	order   []string
	types   map[domain.TypeID]entry
	ifaces  map[domain.TypeID]reflect.Type
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		modules: make(map[string]*module),
		byPath:  make(map[string]string),
		types:   make(map[domain.TypeID]entry),
		ifaces:  make(map[domain.TypeID]reflect.Type),
	}
}

// Of returns the reflect.Type of T, for use with Register.
func Of[T any]() reflect.Type {
	return reflect.TypeFor[T]()
}

// Register adds types to module, creating the module on first use.
// Registering a type twice is a no-op; registering it under a second
// module is an error.
func (r *Registry) Register(m domain.Module, types ...reflect.Type) error {
	return r.register(m, false, types)
}

// RegisterAbstract is Register for types that must not be instantiated,
// such as embeddable base structs.
func (r *Registry) RegisterAbstract(m domain.Module, types ...reflect.Type) error {
	return r.register(m, true, types)
}

func (r *Registry) register(m domain.Module, abstract bool, types []reflect.Type) error {
	if m.Path == "" {
		return fmt.Errorf("%w: module path is required", domain.ErrInvalidInput)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	name := m.FullName()
	mod, ok := r.modules[name]
	if !ok {
		mod = &module{info: m}
		r.modules[name] = mod
		r.byPath[m.Path] = name
		r.order = append(r.order, name)
	}

	for _, t := range types {
		if t == nil {
			return fmt.Errorf("%w: nil type for %s", domain.ErrInvalidInput, name)
		}
		t = elem(t)
		id := TypeIDOf(t)
		if existing, dup := r.types[id]; dup {
			if existing.module != name {
				return fmt.Errorf("%w: %s already registered by %s", domain.ErrInvalidInput, id, existing.module)
			}
			continue
		}
		r.types[id] = entry{typ: t, module: name, abstract: abstract}
		if t.Kind() == reflect.Interface {
			r.ifaces[id] = t
		}
		mod.types = append(mod.types, id)
	}
	return nil
}

// TypeOf returns the Go type registered under id.
func (r *Registry) TypeOf(id domain.TypeID) (reflect.Type, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.types[id]
	return e.typ, ok
}

// New returns a pointer to a new zero value of the concrete type id.
func (r *Registry) New(id domain.TypeID) (any, error) {
	r.mu.RLock()
	e, ok := r.types[id]
	r.mu.RUnlock()
	switch {
	case !ok:
		return nil, fmt.Errorf("%w: type %s", domain.ErrNotFound, id)
	case e.abstract || e.typ.Kind() == reflect.Interface:
		return nil, fmt.Errorf("%w: %s cannot be instantiated", domain.ErrInvalidInput, id)
	}
	return reflect.New(e.typ).Interface(), nil
}

// LoadedModules returns registered modules in registration order.
func (r *Registry) LoadedModules() []domain.Module {
	r.mu.RLock()
	defer r.mu.RUnlock()
	modules := make([]domain.Module, 0, len(r.order))
	for _, name := range r.order {
		modules = append(modules, r.modules[name].info)
	}
	return modules
}

// LoadByName resolves a registered module by full name or path. Go cannot
// load code by name at runtime, so unregistered names are not found.
func (r *Registry) LoadByName(name string) (domain.Module, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if mod, ok := r.lookup(name); ok {
		return mod.info, nil
	}
	return domain.Module{}, fmt.Errorf("%w: %s is not linked into this binary", domain.ErrModuleNotFound, name)
}

// LoadFile always fails: compiled-in modules have no files.
func (r *Registry) LoadFile(path string) (domain.Module, error) {
	return domain.Module{}, fmt.Errorf("%w: %s", domain.ErrBadImageFormat, path)
}

// ReadIdentity always fails: compiled-in modules have no files.
func (r *Registry) ReadIdentity(path string) (domain.Module, error) {
	return domain.Module{}, fmt.Errorf("%w: %s", domain.ErrBadImageFormat, path)
}

// FilePattern returns "": there are no module files.
func (r *Registry) FilePattern() string {
	return ""
}

// Types returns descriptors for the types of module in registration order.
func (r *Registry) Types(m domain.Module) ([]domain.TypeDescriptor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	mod, ok := r.modules[m.FullName()]
	if !ok {
		return nil, &domain.TypeLoadError{Module: m.FullName(), Messages: []string{"module is not registered"}}
	}

	out := make([]domain.TypeDescriptor, 0, len(mod.types))
	for _, id := range mod.types {
		out = append(out, r.describe(id, r.types[id]))
	}
	return out, nil
}

// IsAssignable reports whether t is target, implements the registered
// interface target, or embeds target along its chain of first embedded structs.
func (r *Registry) IsAssignable(target domain.TypeID, t domain.TypeDescriptor) bool {
	if t.ID == target {
		return true
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.types[t.ID]
	if !ok {
		return false
	}
	if iface, ok := r.ifaces[target]; ok {
		return implements(e.typ, iface)
	}
	seen := map[reflect.Type]bool{e.typ: true}
	for base := embeddedBase(e.typ); base != nil && !seen[base]; base = embeddedBase(base) {
		if TypeIDOf(base) == target {
			return true
		}
		seen[base] = true
	}
	return false
}

func (r *Registry) lookup(name string) (*module, bool) {
	if mod, ok := r.modules[name]; ok {
		return mod, true
	}
	full, ok := r.byPath[name]
	if !ok {
		return nil, false
	}
	return r.modules[full], true
}

// describe builds a descriptor (caller must hold lock). Interfaces are
// computed against every registered interface, so registering a plugin's
// interfaces later extends the descriptors of existing types.
func (r *Registry) describe(id domain.TypeID, e entry) domain.TypeDescriptor {
	ref := domain.ParseTypeRef(id)
	t := domain.TypeDescriptor{
		ID:         id,
		Name:       shortName(e.typ),
		Module:     e.module,
		Kind:       domain.KindClass,
		Abstract:   e.abstract,
		Definition: ref.Definition,
		Args:       ref.Args,
	}
	if e.typ.Kind() == reflect.Interface {
		t.Kind = domain.KindInterface
	}
	if base := embeddedBase(e.typ); base != nil {
		b := domain.ParseTypeRef(TypeIDOf(base))
		t.Base = &b
	}

	ifaceIDs := make([]domain.TypeID, 0)
	for ifaceID, iface := range r.ifaces {
		if ifaceID != id && implements(e.typ, iface) {
			ifaceIDs = append(ifaceIDs, ifaceID)
		}
	}
	sort.Slice(ifaceIDs, func(i, j int) bool { return ifaceIDs[i] < ifaceIDs[j] })
	for _, ifaceID := range ifaceIDs {
		t.Interfaces = append(t.Interfaces, domain.ParseTypeRef(ifaceID))
	}
	return t
}

// TypeIDOf returns the fully-qualified name of t. Pointers are dereferenced.
func TypeIDOf(t reflect.Type) domain.TypeID {
	t = elem(t)
	if t.Name() == "" || t.PkgPath() == "" {
		return domain.TypeID(t.String())
	}
	return domain.TypeID(t.PkgPath() + "." + t.Name())
}

// ContractOf returns the closed contract for T.
func ContractOf[T any]() domain.Contract {
	return domain.Closed(TypeIDOf(reflect.TypeFor[T]()))
}

// OpenContractOf returns the open contract for the generic definition of
// the instantiated type T: OpenContractOf[Repository[any]]() matches every
// Repository[X].
func OpenContractOf[T any]() (domain.Contract, error) {
	return domain.OpenContractFor(domain.ParseTypeRef(TypeIDOf(reflect.TypeFor[T]())))
}

// BuildModule returns the module for path with its version taken from the
// running binary's build info, when path is the main module or a dependency.
func BuildModule(path string) domain.Module {
	m := domain.Module{Path: path}
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return m
	}
	if info.Main.Path == path {
		m.Version = version(info.Main.Version)
		return m
	}
	for _, dep := range info.Deps {
		if dep.Path == path {
			m.Version = version(dep.Version)
			break
		}
	}
	return m
}

// version drops the placeholder Go reports for unversioned builds.
func version(v string) string {
	if v == "(devel)" {
		return ""
	}
	return v
}

func elem(t reflect.Type) reflect.Type {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}

func implements(t, iface reflect.Type) bool {
	return t.Implements(iface) || reflect.PointerTo(t).Implements(iface)
}

// embeddedBase returns the first embedded named struct of t, the Go
// counterpart of a base class.
func embeddedBase(t reflect.Type) reflect.Type {
	if t.Kind() != reflect.Struct {
		return nil
	}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.Anonymous {
			continue
		}
		ft := elem(f.Type)
		if ft.Kind() == reflect.Struct && ft.Name() != "" {
			return ft
		}
	}
	return nil
}

func shortName(t reflect.Type) string {
	if t.Name() == "" {
		return t.String()
	}
	return t.Name()
}
