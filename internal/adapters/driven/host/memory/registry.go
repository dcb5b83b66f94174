package memory

import (
	"fmt"
	"sync"

	"github.com/custodia-labs/typefinder/internal/core/domain"
	"github.com/custodia-labs/typefinder/internal/core/ports/driven"
)

// Ensure Registry implements the interfaces.
var (
	_ driven.ModuleHost       = (*Registry)(nil)
	_ driven.TypeIntrospector = (*Registry)(nil)
)

// DefaultFilePattern is the module file pattern of an in-memory registry.
const DefaultFilePattern = "*.module"

// ModuleDef declares a module and the types it contains.
type ModuleDef struct {
	// Module is the module identity.
	Module domain.Module

	// Requires lists full names of modules that must be loaded for the
	// types of this module to be enumerable.
	Requires []string

	// Types are the declared types in enumeration order.
	Types []domain.TypeDescriptor
}

// Registry is an in-memory module host and type introspector.
// Modules are defined first, then loaded by name, by file, or preloaded.
type Registry struct {
	mu sync.RWMutex

	defs      map[string]ModuleDef
	byPath    map[string]string
	loaded    map[string]domain.Module
	loadOrder []string

	index map[domain.TypeID]domain.TypeDescriptor

	files        map[string]string
	badImages    map[string]struct{}
	loadFailures map[string]error
	typeFailures map[string]error
	fileLoads    map[string]int

	filePattern string
}

// NewRegistry creates an empty in-memory registry.
func NewRegistry() *Registry {
	return &Registry{
		defs:         make(map[string]ModuleDef),
		byPath:       make(map[string]string),
		loaded:       make(map[string]domain.Module),
		index:        make(map[domain.TypeID]domain.TypeDescriptor),
		files:        make(map[string]string),
		badImages:    make(map[string]struct{}),
		loadFailures: make(map[string]error),
		typeFailures: make(map[string]error),
		fileLoads:    make(map[string]int),
		filePattern:  DefaultFilePattern,
	}
}

// SetFilePattern changes the glob returned by FilePattern.
func (r *Registry) SetFilePattern(pattern string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.filePattern = pattern
}

// FilePattern returns the glob matching module files.
func (r *Registry) FilePattern() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.filePattern
}

// Define makes a module resolvable without loading it.
// Redefining a module replaces its types but keeps its loaded state.
func (r *Registry) Define(def ModuleDef) error {
	if def.Module.Path == "" {
		return fmt.Errorf("%w: module path is required", domain.ErrInvalidInput)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.define(def)
	return nil
}

// define stores def (caller must hold lock).
func (r *Registry) define(def ModuleDef) {
	name := def.Module.FullName()
	if old, ok := r.defs[name]; ok {
		for _, t := range old.Types {
			delete(r.index, t.ID)
		}
	}

	types := make([]domain.TypeDescriptor, 0, len(def.Types))
	for _, t := range def.Types {
		t = normalize(t, name)
		types = append(types, t)
		r.index[t.ID] = t
	}
	def.Types = types
	def.Requires = append([]string(nil), def.Requires...)

	r.defs[name] = def
	r.byPath[def.Module.Path] = name
}

// Load defines def and marks it loaded in one step.
func (r *Registry) Load(def ModuleDef) (domain.Module, error) {
	if def.Module.Path == "" {
		return domain.Module{}, fmt.Errorf("%w: module path is required", domain.ErrInvalidInput)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.define(def)
	return r.markLoaded(def.Module.FullName(), def.Module.Location), nil
}

// Preload marks defined modules as loaded, as if compiled into the host.
func (r *Registry) Preload(names ...string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, name := range names {
		full, ok := r.resolve(name)
		if !ok {
			return fmt.Errorf("%w: %s", domain.ErrModuleNotFound, name)
		}
		r.markLoaded(full, "")
	}
	return nil
}

// MapFile makes the file at path contain the defined module name.
func (r *Registry) MapFile(path, name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.files[path] = name
}

// MapBadImage makes the file at path an invalid module image.
func (r *Registry) MapBadImage(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.badImages[path] = struct{}{}
}

// FailLoad makes loading the file at path fail with err.
func (r *Registry) FailLoad(path string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loadFailures[path] = err
}

// FailTypes makes type enumeration of module name fail with err.
func (r *Registry) FailTypes(name string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.typeFailures[name] = err
}

// FileLoads returns how many times the file at path was loaded.
func (r *Registry) FileLoads(path string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.fileLoads[path]
}

// IsLoaded reports whether the module name is loaded.
func (r *Registry) IsLoaded(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	full, ok := r.resolve(name)
	if !ok {
		return false
	}
	_, loaded := r.loaded[full]
	return loaded
}

// LoadedModules returns the loaded modules in load order.
func (r *Registry) LoadedModules() []domain.Module {
	r.mu.RLock()
	defer r.mu.RUnlock()

	modules := make([]domain.Module, 0, len(r.loadOrder))
	for _, name := range r.loadOrder {
		modules = append(modules, r.loaded[name])
	}
	return modules
}

// LoadByName loads a defined module by full name or module path.
func (r *Registry) LoadByName(name string) (domain.Module, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	full, ok := r.resolve(name)
	if !ok {
		return domain.Module{}, fmt.Errorf("%w: %s", domain.ErrModuleNotFound, name)
	}
	if m, loaded := r.loaded[full]; loaded {
		return m, nil
	}
	return r.markLoaded(full, ""), nil
}

// LoadFile loads the module mapped to path.
func (r *Registry) LoadFile(path string) (domain.Module, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err, ok := r.loadFailures[path]; ok {
		return domain.Module{}, err
	}
	if _, bad := r.badImages[path]; bad {
		return domain.Module{}, fmt.Errorf("%w: %s", domain.ErrBadImageFormat, path)
	}
	name, ok := r.files[path]
	if !ok {
		return domain.Module{}, fmt.Errorf("%w: no module file %s", domain.ErrNotFound, path)
	}
	full, ok := r.resolve(name)
	if !ok {
		return domain.Module{}, fmt.Errorf("%w: %s", domain.ErrModuleNotFound, name)
	}

	r.fileLoads[path]++
	if m, loaded := r.loaded[full]; loaded {
		return m, nil
	}
	return r.markLoaded(full, path), nil
}

// ReadIdentity returns the identity of the module mapped to path without loading it.
func (r *Registry) ReadIdentity(path string) (domain.Module, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if _, bad := r.badImages[path]; bad {
		return domain.Module{}, fmt.Errorf("%w: %s", domain.ErrBadImageFormat, path)
	}
	name, ok := r.files[path]
	if !ok {
		return domain.Module{}, fmt.Errorf("%w: no module file %s", domain.ErrNotFound, path)
	}
	full, ok := r.resolve(name)
	if !ok {
		return domain.Module{}, fmt.Errorf("%w: %s", domain.ErrModuleNotFound, name)
	}
	m := r.defs[full].Module
	m.Location = path
	return m, nil
}

// Types enumerates the declared types of module. A module whose required
// modules are not loaded fails with a *domain.TypeLoadError naming each
// missing dependency.
func (r *Registry) Types(module domain.Module) ([]domain.TypeDescriptor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	name := module.FullName()
	if err, ok := r.typeFailures[name]; ok {
		return nil, err
	}
	def, ok := r.defs[name]
	if !ok {
		return nil, &domain.TypeLoadError{Module: name, Messages: []string{"module is not defined"}}
	}

	var missing []string
	for _, dep := range def.Requires {
		full, ok := r.resolve(dep)
		if !ok {
			missing = append(missing, fmt.Sprintf("could not load dependency %s: not found", dep))
			continue
		}
		if _, loaded := r.loaded[full]; !loaded {
			missing = append(missing, fmt.Sprintf("could not load dependency %s: not loaded", dep))
		}
	}
	if len(missing) > 0 {
		return nil, &domain.TypeLoadError{Module: name, Messages: missing}
	}

	types := make([]domain.TypeDescriptor, 0, len(def.Types))
	for _, t := range def.Types {
		types = append(types, r.withInherited(t))
	}
	return types, nil
}

// Lookup returns the descriptor of a defined type.
func (r *Registry) Lookup(id domain.TypeID) (domain.TypeDescriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.index[id]
	if !ok {
		return domain.TypeDescriptor{}, false
	}
	return r.withInherited(t), true
}

// IsAssignable reports whether t is target, implements target, or derives
// from target through its base chain.
func (r *Registry) IsAssignable(target domain.TypeID, t domain.TypeDescriptor) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	visited := make(map[domain.TypeID]struct{})
	current := &t
	for current != nil {
		if current.ID == target {
			return true
		}
		for _, iface := range current.Interfaces {
			if iface.ID == target {
				return true
			}
		}
		if _, seen := visited[current.ID]; seen {
			return false
		}
		visited[current.ID] = struct{}{}

		if current.Base == nil {
			return false
		}
		if current.Base.ID == target {
			return true
		}
		base, ok := r.index[current.Base.ID]
		if !ok {
			return false
		}
		current = &base
	}
	return false
}

// withInherited returns t with the interfaces of its base chain appended
// after its own, each interface once (caller must hold lock).
func (r *Registry) withInherited(t domain.TypeDescriptor) domain.TypeDescriptor {
	if t.Base == nil {
		return t
	}
	seen := make(map[domain.TypeID]struct{}, len(t.Interfaces))
	ifaces := make([]domain.TypeRef, 0, len(t.Interfaces))
	add := func(refs []domain.TypeRef) {
		for _, ref := range refs {
			if _, ok := seen[ref.ID]; ok {
				continue
			}
			seen[ref.ID] = struct{}{}
			ifaces = append(ifaces, ref)
		}
	}
	add(t.Interfaces)

	visited := map[domain.TypeID]struct{}{t.ID: {}}
	for base := t.Base; base != nil; {
		if _, ok := visited[base.ID]; ok {
			break
		}
		visited[base.ID] = struct{}{}
		b, ok := r.index[base.ID]
		if !ok {
			break
		}
		add(b.Interfaces)
		base = b.Base
	}

	if len(ifaces) > 0 {
		t.Interfaces = ifaces
	}
	return t
}

// resolve maps a full name or module path to a defined full name
// (caller must hold lock).
func (r *Registry) resolve(name string) (string, bool) {
	if _, ok := r.defs[name]; ok {
		return name, true
	}
	full, ok := r.byPath[name]
	return full, ok
}

// markLoaded records a module as loaded (caller must hold lock).
func (r *Registry) markLoaded(full, location string) domain.Module {
	if m, ok := r.loaded[full]; ok {
		return m
	}
	m := r.defs[full].Module
	if location != "" {
		m.Location = location
	}
	r.loaded[full] = m
	r.loadOrder = append(r.loadOrder, full)
	return m
}

// normalize fills derived fields of a declared type.
func normalize(t domain.TypeDescriptor, module string) domain.TypeDescriptor {
	t.Module = module
	if t.Name == "" {
		t.Name = shortName(t.ID)
	}
	if t.Definition == "" && !t.Open {
		ref := domain.ParseTypeRef(t.ID)
		t.Definition, t.Args = ref.Definition, ref.Args
	}
	if t.Base != nil {
		base := normalizeRef(*t.Base)
		t.Base = &base
	}
	if len(t.Interfaces) > 0 {
		ifaces := make([]domain.TypeRef, 0, len(t.Interfaces))
		for _, iface := range t.Interfaces {
			ifaces = append(ifaces, normalizeRef(iface))
		}
		t.Interfaces = ifaces
	}
	return t
}

func normalizeRef(ref domain.TypeRef) domain.TypeRef {
	if ref.IsGeneric() {
		return ref
	}
	return domain.ParseTypeRef(ref.ID)
}

// shortName strips the package path from a type ID: "a/b.C[x.Y]" -> "C[x.Y]".
func shortName(id domain.TypeID) string {
	s := string(id)
	end := len(s)
	for i := 0; i < len(s); i++ {
		if s[i] == '[' {
			end = i
			break
		}
	}
	for i := end - 1; i >= 0; i-- {
		if s[i] == '.' {
			return s[i+1:]
		}
	}
	return s
}
