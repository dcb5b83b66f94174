// Package goplugin provides a module host for Go plugin shared objects.
//
// A plugin is built with -buildmode=plugin and may export
//
//	func RegisterTypes(r *reflecthost.Registry, m domain.Module) error
//
// which is called once when the plugin is opened so it can register its
// types. Module identity is read from the embedded build info without
// opening the plugin.
package goplugin

import (
	"debug/buildinfo"
	"fmt"
	"plugin"
	"runtime/debug"
	"sync"

	"github.com/custodia-labs/typefinder/internal/adapters/driven/host/reflecthost"
	"github.com/custodia-labs/typefinder/internal/core/domain"
	"github.com/custodia-labs/typefinder/internal/core/ports/driven"
	"github.com/custodia-labs/typefinder/internal/logger"
)

// Ensure Host implements the interfaces.
var (
	_ driven.ModuleHost       = (*Host)(nil)
	_ driven.TypeIntrospector = (*Host)(nil)
)

const (
	// FilePattern matches plugin shared objects.
	FilePattern = "*.so"

	// RegisterSymbol is the optional registration function a plugin exports.
	RegisterSymbol = "RegisterTypes"
)

// RegisterFunc is the signature of RegisterSymbol.
type RegisterFunc = func(*reflecthost.Registry, domain.Module) error

// symbols is the part of *plugin.Plugin the host uses.
type symbols interface {
	Lookup(name string) (plugin.Symbol, error)
}

// Host opens plugins and keeps their types in a reflecthost registry.
// Plugins can never be closed, so a file is opened at most once.
type Host struct {
	*reflecthost.Registry

	mu     sync.Mutex
	opened map[string]domain.Module

	open     func(path string) (symbols, error)
	readInfo func(path string) (*debug.BuildInfo, error)
}

// NewHost creates a plugin host over registry. A nil registry uses
// reflecthost.Default, so compiled-in registrations are visible too.
func NewHost(registry *reflecthost.Registry) *Host {
	if registry == nil {
		registry = reflecthost.Default
	}
	return &Host{
		Registry: registry,
		opened:   make(map[string]domain.Module),
		open: func(path string) (symbols, error) {
			return plugin.Open(path)
		},
		readInfo: buildinfo.ReadFile,
	}
}

// FilePattern returns the glob matching plugin files.
func (h *Host) FilePattern() string {
	return FilePattern
}

// ReadIdentity reads the main module path and version recorded in the Go
// binary at path. Files that are not Go binaries fail with
// domain.ErrBadImageFormat.
func (h *Host) ReadIdentity(path string) (domain.Module, error) {
	info, err := h.readInfo(path)
	if err != nil {
		return domain.Module{}, fmt.Errorf("%w: %s: %v", domain.ErrBadImageFormat, path, err)
	}

	m := domain.Module{Path: info.Main.Path, Version: info.Main.Version, Location: path}
	if m.Path == "" {
		m.Path = info.Path
	}
	if m.Version == "(devel)" {
		m.Version = ""
	}
	if m.Path == "" {
		return domain.Module{}, fmt.Errorf("%w: %s has no module path", domain.ErrBadImageFormat, path)
	}
	return m, nil
}

// LoadFile opens the plugin at path and runs its registration function.
// A path that was opened before returns the same module without reopening.
func (h *Host) LoadFile(path string) (domain.Module, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if m, ok := h.opened[path]; ok {
		return m, nil
	}

	identity, err := h.ReadIdentity(path)
	if err != nil {
		return domain.Module{}, err
	}
	if m, err := h.LoadByName(identity.FullName()); err == nil {
		logger.Debug("plugin %s provides already loaded module %s", path, m.FullName())
		h.opened[path] = m
		return m, nil
	}

	p, err := h.open(path)
	if err != nil {
		return domain.Module{}, fmt.Errorf("opening plugin %s: %w", path, err)
	}

	if err := h.register(p, identity); err != nil {
		return domain.Module{}, fmt.Errorf("registering plugin %s: %w", path, err)
	}

	h.opened[path] = identity
	return identity, nil
}

// register runs the plugin's RegisterTypes, or registers the module with no
// types when the plugin exports none.
func (h *Host) register(p symbols, identity domain.Module) error {
	sym, err := p.Lookup(RegisterSymbol)
	if err != nil {
		logger.Debug("plugin %s exports no %s", identity.FullName(), RegisterSymbol)
		return h.Register(identity)
	}

	fn, ok := sym.(RegisterFunc)
	if !ok {
		return fmt.Errorf("%w: %s has type %T", domain.ErrInvalidInput, RegisterSymbol, sym)
	}
	if err := fn(h.Registry, identity); err != nil {
		return err
	}
	// ensure the module is listed even if it registered nothing
	return h.Register(identity)
}
