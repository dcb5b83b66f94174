package services

import (
	"errors"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	hostmemory "github.com/custodia-labs/typefinder/internal/adapters/driven/host/memory"
	"github.com/custodia-labs/typefinder/internal/core/domain"
	"github.com/custodia-labs/typefinder/internal/core/ports/driven"
)

const (
	shopPath    = "github.com/acme/shop"
	configPath  = "github.com/acme/config"
	billingPath = "github.com/acme/billing"
	pluginPath  = "github.com/acme/plugin"
)

func shopType(name string) domain.TypeID {
	return domain.TypeID(shopPath + "." + name)
}

func repositoryOf(arg string) domain.TypeID {
	return domain.TypeID(shopPath + ".Repository[" + string(shopType(arg)) + "]")
}

// shopModule declares entities, a generic repository interface and its
// implementations.
func shopModule() hostmemory.ModuleDef {
	return hostmemory.ModuleDef{
		Module: domain.Module{Path: shopPath, Version: "v1.2.0"},
		Types: []domain.TypeDescriptor{
			{ID: shopType("Entity"), Kind: domain.KindInterface},
			{ID: shopType("Repository"), Kind: domain.KindInterface, Open: true},
			{ID: shopType("BaseEntity"), Kind: domain.KindClass, Abstract: true,
				Interfaces: []domain.TypeRef{{ID: shopType("Entity")}}},
			{ID: shopType("Customer"), Base: &domain.TypeRef{ID: shopType("BaseEntity")},
				Interfaces: []domain.TypeRef{{ID: shopType("Entity")}}},
			{ID: shopType("Order"), Base: &domain.TypeRef{ID: shopType("BaseEntity")},
				Interfaces: []domain.TypeRef{{ID: shopType("Entity")}}},
			{ID: shopType("CustomerRepository"),
				Interfaces: []domain.TypeRef{{ID: shopType("Entity")}, {ID: repositoryOf("Customer")}}},
			{ID: shopType("OrderRepository"),
				Interfaces: []domain.TypeRef{{ID: repositoryOf("Order")}}},
			{ID: shopType("AbstractRepository"), Abstract: true,
				Interfaces: []domain.TypeRef{{ID: repositoryOf("Customer")}}},
		},
	}
}

// configModule declares configuration classes bound to entities.
func configModule() hostmemory.ModuleDef {
	return hostmemory.ModuleDef{
		Module: domain.Module{Path: configPath, Version: "v0.3.0"},
		Types: []domain.TypeDescriptor{
			{ID: configPath + ".EntityConfig", Open: true, Abstract: true},
			{ID: configPath + ".CustomerConfig",
				Base: &domain.TypeRef{ID: domain.TypeID(configPath + ".EntityConfig[" + string(shopType("Customer")) + "]")}},
			{ID: configPath + ".OrderConfig",
				Base: &domain.TypeRef{ID: domain.TypeID(configPath + ".EntityConfig[" + string(shopType("Order")) + "]")}},
			{ID: configPath + ".CustomerConfig2",
				Base: &domain.TypeRef{ID: domain.TypeID(configPath + ".SomethingElse[" + string(shopType("Customer")) + "]")}},
			{ID: configPath + ".PlainConfig",
				Base: &domain.TypeRef{ID: configPath + ".Settings"}},
		},
	}
}

// billingModule requires a module that is never loaded, so its types
// cannot be enumerated.
func billingModule() hostmemory.ModuleDef {
	return hostmemory.ModuleDef{
		Module:   domain.Module{Path: billingPath, Version: "v2.0.0"},
		Requires: []string{"github.com/acme/ledger"},
		Types: []domain.TypeDescriptor{
			{ID: billingPath + ".InvoiceRepository",
				Interfaces: []domain.TypeRef{{ID: domain.TypeID(shopPath + ".Repository[" + billingPath + ".Invoice]")}}},
		},
	}
}

// pluginModule is only reachable through a module file.
func pluginModule() hostmemory.ModuleDef {
	return hostmemory.ModuleDef{
		Module: domain.Module{Path: pluginPath, Version: "v0.1.0"},
		Types: []domain.TypeDescriptor{
			{ID: pluginPath + ".CachedCustomerRepository",
				Interfaces: []domain.TypeRef{{ID: repositoryOf("Customer")}}},
		},
	}
}

// newRegistry defines defs and preloads them in the given order.
func newRegistry(t *testing.T, defs ...hostmemory.ModuleDef) *hostmemory.Registry {
	t.Helper()
	r := hostmemory.NewRegistry()
	for _, def := range defs {
		require.NoError(t, r.Define(def))
		require.NoError(t, r.Preload(def.Module.FullName()))
	}
	return r
}

// openFilter admits every module, including vendor prefixes.
func openFilter() domain.FilterConfig {
	cfg := domain.DefaultFilterConfig()
	cfg.SkipPattern = ""
	return cfg
}

func newFinder(t *testing.T, r *hostmemory.Registry, files driven.FileProvider) *TypeFinder {
	t.Helper()
	f := NewTypeFinder(r, r, files)
	require.NoError(t, f.SetFilter(openFilter()))
	return f
}

// stubFiles is an in-memory FileProvider keyed by directory.
type stubFiles struct {
	dirs    map[string][]string
	listErr error
	listed  int
}

func newStubFiles() *stubFiles {
	return &stubFiles{dirs: make(map[string][]string)}
}

func (s *stubFiles) add(dir string, files ...string) {
	s.dirs[dir] = append(s.dirs[dir], files...)
}

func (s *stubFiles) DirectoryExists(path string) bool {
	_, ok := s.dirs[path]
	return ok
}

func (s *stubFiles) ListFiles(path, pattern string) ([]string, error) {
	s.listed++
	if s.listErr != nil {
		return nil, s.listErr
	}
	suffix := strings.TrimPrefix(pattern, "*")
	var out []string
	for _, f := range s.dirs[path] {
		if strings.HasSuffix(f, suffix) {
			out = append(out, f)
		}
	}
	sort.Strings(out)
	return out, nil
}

var errBoom = errors.New("boom")

func moduleNames(modules []domain.Module) []string {
	return domain.ModuleNames(modules)
}
