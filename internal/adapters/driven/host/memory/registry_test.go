package memory

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/typefinder/internal/core/domain"
)

const (
	shop    = "github.com/acme/shop"
	billing = "github.com/acme/billing"
)

func shopDef() ModuleDef {
	return ModuleDef{
		Module: domain.Module{Path: shop, Version: "v1.0.0"},
		Types: []domain.TypeDescriptor{
			{ID: shop + ".Entity", Kind: domain.KindInterface},
			{ID: shop + ".BaseEntity", Kind: domain.KindClass, Abstract: true,
				Interfaces: []domain.TypeRef{{ID: shop + ".Entity"}}},
			{ID: shop + ".Customer", Kind: domain.KindClass,
				Base: &domain.TypeRef{ID: shop + ".BaseEntity"}},
			{ID: shop + ".CustomerRepository", Kind: domain.KindClass,
				Interfaces: []domain.TypeRef{{ID: shop + ".Repository[" + shop + ".Customer]"}}},
		},
	}
}

func TestRegistry_DefineAndPreload(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Define(shopDef()))

	assert.Empty(t, r.LoadedModules())
	assert.False(t, r.IsLoaded(shop))

	require.NoError(t, r.Preload(shop))

	loaded := r.LoadedModules()
	require.Len(t, loaded, 1)
	assert.Equal(t, shop+"@v1.0.0", loaded[0].FullName())
	assert.True(t, r.IsLoaded(shop+"@v1.0.0"))
}

func TestRegistry_Define_RequiresPath(t *testing.T) {
	r := NewRegistry()

	err := r.Define(ModuleDef{})

	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestRegistry_Preload_Unknown(t *testing.T) {
	r := NewRegistry()

	err := r.Preload("github.com/acme/missing")

	assert.True(t, errors.Is(err, domain.ErrModuleNotFound))
}

func TestRegistry_LoadByName(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Define(shopDef()))

	t.Run("resolves by path", func(t *testing.T) {
		m, err := r.LoadByName(shop)

		require.NoError(t, err)
		assert.Equal(t, shop+"@v1.0.0", m.FullName())
		assert.True(t, r.IsLoaded(shop))
	})

	t.Run("loading twice keeps one entry", func(t *testing.T) {
		_, err := r.LoadByName(shop + "@v1.0.0")

		require.NoError(t, err)
		assert.Len(t, r.LoadedModules(), 1)
	})

	t.Run("unknown name", func(t *testing.T) {
		_, err := r.LoadByName("github.com/acme/missing")

		assert.True(t, errors.Is(err, domain.ErrModuleNotFound))
	})
}

func TestRegistry_Files(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Define(shopDef()))
	r.MapFile("/plugins/shop.module", shop)
	r.MapBadImage("/plugins/readme.module")
	r.FailLoad("/plugins/broken.module", errors.New("boom"))

	t.Run("identity without loading", func(t *testing.T) {
		m, err := r.ReadIdentity("/plugins/shop.module")

		require.NoError(t, err)
		assert.Equal(t, shop+"@v1.0.0", m.FullName())
		assert.Equal(t, "/plugins/shop.module", m.Location)
		assert.False(t, r.IsLoaded(shop))
	})

	t.Run("bad image", func(t *testing.T) {
		_, err := r.ReadIdentity("/plugins/readme.module")
		assert.True(t, errors.Is(err, domain.ErrBadImageFormat))

		_, err = r.LoadFile("/plugins/readme.module")
		assert.True(t, errors.Is(err, domain.ErrBadImageFormat))
	})

	t.Run("unknown file", func(t *testing.T) {
		_, err := r.ReadIdentity("/plugins/none.module")
		assert.True(t, errors.Is(err, domain.ErrNotFound))
	})

	t.Run("injected load failure", func(t *testing.T) {
		_, err := r.LoadFile("/plugins/broken.module")
		assert.EqualError(t, err, "boom")
	})

	t.Run("load file", func(t *testing.T) {
		m, err := r.LoadFile("/plugins/shop.module")

		require.NoError(t, err)
		assert.Equal(t, "/plugins/shop.module", m.Location)
		assert.True(t, r.IsLoaded(shop))
		assert.Equal(t, 1, r.FileLoads("/plugins/shop.module"))
	})
}

func TestRegistry_Types(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Define(shopDef()))
	require.NoError(t, r.Preload(shop))
	m := r.LoadedModules()[0]

	types, err := r.Types(m)

	require.NoError(t, err)
	require.Len(t, types, 4)
	assert.Equal(t, domain.TypeID(shop+".Entity"), types[0].ID)
	assert.Equal(t, "Entity", types[0].Name)
	assert.Equal(t, shop+"@v1.0.0", types[0].Module)

	repo := types[3]
	require.Len(t, repo.Interfaces, 1)
	assert.Equal(t, domain.TypeID(shop+".Repository"), repo.Interfaces[0].Definition)
	assert.Equal(t, []domain.TypeID{shop + ".Customer"}, repo.Interfaces[0].Args)
}

func TestRegistry_Types_InheritedInterfaces(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Define(ModuleDef{
		Module: domain.Module{Path: "a"},
		Types: []domain.TypeDescriptor{
			{ID: "a.Root", Interfaces: []domain.TypeRef{{ID: "a.Entity"}, {ID: "a.Repo[a.X]"}}},
			{ID: "a.Mid", Base: &domain.TypeRef{ID: "a.Root"}, Interfaces: []domain.TypeRef{{ID: "a.Entity"}}},
			{ID: "a.Leaf", Base: &domain.TypeRef{ID: "a.Mid"}, Interfaces: []domain.TypeRef{{ID: "a.Named"}}},
		},
	}))
	require.NoError(t, r.Preload("a"))

	types, err := r.Types(r.LoadedModules()[0])
	require.NoError(t, err)
	require.Len(t, types, 3)

	leaf := types[2]
	assert.Equal(t, []domain.TypeID{"a.Named", "a.Entity", "a.Repo[a.X]"}, refIDs(leaf.Interfaces))
	assert.Equal(t, domain.TypeID("a.Repo"), leaf.Interfaces[2].Definition)

	looked, ok := r.Lookup("a.Mid")
	require.True(t, ok)
	assert.Equal(t, []domain.TypeID{"a.Entity", "a.Repo[a.X]"}, refIDs(looked.Interfaces))
}

func TestRegistry_Types_InheritedInterfaces_CyclicBase(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Define(ModuleDef{
		Module: domain.Module{Path: "a"},
		Types: []domain.TypeDescriptor{
			{ID: "a.X", Base: &domain.TypeRef{ID: "a.Y"}, Interfaces: []domain.TypeRef{{ID: "a.I"}}},
			{ID: "a.Y", Base: &domain.TypeRef{ID: "a.X"}, Interfaces: []domain.TypeRef{{ID: "a.J"}}},
		},
	}))

	x, ok := r.Lookup("a.X")
	require.True(t, ok)
	assert.Equal(t, []domain.TypeID{"a.I", "a.J"}, refIDs(x.Interfaces))
}

func refIDs(refs []domain.TypeRef) []domain.TypeID {
	ids := make([]domain.TypeID, 0, len(refs))
	for _, ref := range refs {
		ids = append(ids, ref.ID)
	}
	return ids
}

func TestRegistry_Types_MissingDependency(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Define(shopDef()))
	require.NoError(t, r.Define(ModuleDef{
		Module:   domain.Module{Path: billing},
		Requires: []string{shop, "github.com/acme/ledger"},
		Types:    []domain.TypeDescriptor{{ID: billing + ".Invoice"}},
	}))
	require.NoError(t, r.Preload(billing))

	_, err := r.Types(domain.Module{Path: billing})

	var tle *domain.TypeLoadError
	require.True(t, errors.As(err, &tle))
	assert.Equal(t, billing, tle.Module)
	assert.Equal(t, []string{
		"could not load dependency " + shop + ": not loaded",
		"could not load dependency github.com/acme/ledger: not found",
	}, tle.Messages)

	require.NoError(t, r.Preload(shop))
	require.NoError(t, r.Define(ModuleDef{Module: domain.Module{Path: "github.com/acme/ledger"}}))
	require.NoError(t, r.Preload("github.com/acme/ledger"))

	types, err := r.Types(domain.Module{Path: billing})
	require.NoError(t, err)
	assert.Len(t, types, 1)
}

func TestRegistry_Types_InjectedFailure(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Define(shopDef()))
	r.FailTypes(shop+"@v1.0.0", errors.New("corrupt metadata"))

	_, err := r.Types(domain.Module{Path: shop, Version: "v1.0.0"})

	assert.EqualError(t, err, "corrupt metadata")
}

func TestRegistry_IsAssignable(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Define(shopDef()))
	customer, ok := r.Lookup(shop + ".Customer")
	require.True(t, ok)
	repo, ok := r.Lookup(shop + ".CustomerRepository")
	require.True(t, ok)

	tests := []struct {
		name   string
		target domain.TypeID
		t      domain.TypeDescriptor
		want   bool
	}{
		{"identity", shop + ".Customer", customer, true},
		{"direct base", shop + ".BaseEntity", customer, true},
		{"interface through base", shop + ".Entity", customer, true},
		{"closed generic interface", shop + ".Repository[" + shop + ".Customer]", repo, true},
		{"other closed generic", shop + ".Repository[" + shop + ".Order]", repo, false},
		{"unrelated", shop + ".Entity", repo, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.IsAssignable(tt.target, tt.t))
		})
	}
}

func TestRegistry_IsAssignable_CyclicBase(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Define(ModuleDef{
		Module: domain.Module{Path: "a"},
		Types: []domain.TypeDescriptor{
			{ID: "a.X", Base: &domain.TypeRef{ID: "a.Y"}},
			{ID: "a.Y", Base: &domain.TypeRef{ID: "a.X"}},
		},
	}))
	x, _ := r.Lookup("a.X")

	assert.False(t, r.IsAssignable("a.Z", x))
}

func TestRegistry_FilePattern(t *testing.T) {
	r := NewRegistry()
	assert.Equal(t, DefaultFilePattern, r.FilePattern())

	r.SetFilePattern("*.so")
	assert.Equal(t, "*.so", r.FilePattern())
}

func TestRegistry_ConcurrentAccess(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Define(shopDef()))

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = r.LoadByName(shop)
			_ = r.LoadedModules()
			_, _ = r.Types(domain.Module{Path: shop, Version: "v1.0.0"})
		}()
	}
	wg.Wait()

	assert.Len(t, r.LoadedModules(), 1)
}
