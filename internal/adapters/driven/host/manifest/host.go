package manifest

import (
	"github.com/custodia-labs/typefinder/internal/adapters/driven/host/memory"
	"github.com/custodia-labs/typefinder/internal/core/domain"
	"github.com/custodia-labs/typefinder/internal/core/ports/driven"
)

// Ensure Host implements the interfaces.
var (
	_ driven.ModuleHost       = (*Host)(nil)
	_ driven.TypeIntrospector = (*Host)(nil)
)

// FilePattern matches TOML and YAML manifests.
const FilePattern = "*.module.*"

// Host loads declarative module manifests into a memory registry.
type Host struct {
	*memory.Registry
}

// NewHost creates a manifest host over registry. A nil registry gets a
// fresh one.
func NewHost(registry *memory.Registry) *Host {
	if registry == nil {
		registry = memory.NewRegistry()
	}
	return &Host{Registry: registry}
}

// FilePattern returns the glob matching manifest files.
func (h *Host) FilePattern() string {
	return FilePattern
}

// ReadIdentity decodes only the module header of the manifest at path.
// Files that are not manifests fail with domain.ErrBadImageFormat.
func (h *Host) ReadIdentity(path string) (domain.Module, error) {
	data, format, err := read(path)
	if err != nil {
		return domain.Module{}, err
	}
	header, err := DecodeHeader(data, format)
	if err != nil {
		return domain.Module{}, err
	}
	m := header.Identity()
	m.Location = path
	return m, nil
}

// LoadFile decodes the manifest at path and loads its module. Loading a
// module that is already loaded returns it unchanged.
func (h *Host) LoadFile(path string) (domain.Module, error) {
	identity, err := h.ReadIdentity(path)
	if err != nil {
		return domain.Module{}, err
	}
	if h.IsLoaded(identity.FullName()) {
		return h.LoadByName(identity.FullName())
	}

	manifest, err := ReadFile(path)
	if err != nil {
		return domain.Module{}, err
	}
	def, err := manifest.ModuleDef(path)
	if err != nil {
		return domain.Module{}, err
	}
	return h.Load(def)
}
