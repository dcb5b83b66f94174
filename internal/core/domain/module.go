package domain

// Module is a loaded unit of compiled code as reported by the host runtime.
// The engine only reads its identity; modules are never unloaded.
type Module struct {
	// Path is the module path (e.g., "github.com/acme/billing").
	Path string

	// Version is the module version. Empty for unversioned modules.
	Version string

	// Location is the file the module was loaded from.
	// Empty for modules compiled into the host.
	Location string
}

// FullName returns the fully-qualified module name used for filtering
// and deduplication.
func (m Module) FullName() string {
	if m.Version == "" {
		return m.Path
	}
	return m.Path + "@" + m.Version
}

// String implements fmt.Stringer.
func (m Module) String() string {
	return m.FullName()
}

// ModuleNames returns the full names of the given modules in order.
func ModuleNames(modules []Module) []string {
	names := make([]string, 0, len(modules))
	for _, m := range modules {
		names = append(names, m.FullName())
	}
	return names
}
