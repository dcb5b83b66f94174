package file

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigStore_Success(t *testing.T) {
	tmpDir := t.TempDir()

	store, err := NewConfigStore(tmpDir)

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(tmpDir, "config.toml"), store.Path())
}

func TestNewConfigStore_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "typefinder")

	_, err := NewConfigStore(dir)

	require.NoError(t, err)
	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestDefaultDir(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("Cannot determine home directory")
	}

	dir, err := DefaultDir()

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".typefinder"), dir)
}

func TestConfigStore_TypedGetters(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("filter.skip_pattern", "^vendor/"))
	require.NoError(t, store.Set("filter.strict", true))
	require.NoError(t, store.Set("catalog.limit", 25))
	require.NoError(t, store.Set("filter.modules", []string{"github.com/acme/shop"}))

	assert.Equal(t, "^vendor/", store.GetString("filter.skip_pattern"))
	assert.True(t, store.GetBool("filter.strict"))
	assert.Equal(t, 25, store.GetInt("catalog.limit"))
	assert.Equal(t, []string{"github.com/acme/shop"}, store.GetStringSlice("filter.modules"))

	// wrong types and missing keys give zero values
	assert.Equal(t, "", store.GetString("filter.strict"))
	assert.Equal(t, 0, store.GetInt("filter.skip_pattern"))
	assert.False(t, store.GetBool("missing"))
	assert.Nil(t, store.GetStringSlice("filter.strict"))

	_, ok := store.Get("missing")
	assert.False(t, ok)
}

func TestConfigStore_PersistsNestedTables(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	require.NoError(t, store.Set("filter.strict", true))
	require.NoError(t, store.Set("filter.modules", []string{"github.com/acme/shop", "github.com/acme/billing"}))
	require.NoError(t, store.Set("plugins.dir", "/opt/plugins"))

	data, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Contains(t, string(data), "[filter]")
	assert.Contains(t, string(data), "[plugins]")

	reloaded, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	assert.True(t, reloaded.GetBool("filter.strict"))
	assert.Equal(t, []string{"github.com/acme/shop", "github.com/acme/billing"}, reloaded.GetStringSlice("filter.modules"))
	assert.Equal(t, "/opt/plugins", reloaded.GetString("plugins.dir"))
}

func TestConfigStore_LoadHandWrittenFile(t *testing.T) {
	tmpDir := t.TempDir()
	content := `
[filter]
skip_pattern = ""
restrict_pattern = "^github.com/acme/"
include_loaded = false

[catalog]
dir = "/var/lib/typefinder"
limit = 10
`
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte(content), 0600))

	store, err := NewConfigStore(tmpDir)

	require.NoError(t, err)
	val, ok := store.Get("filter.skip_pattern")
	assert.True(t, ok)
	assert.Equal(t, "", val)
	assert.Equal(t, "^github.com/acme/", store.GetString("filter.restrict_pattern"))
	assert.False(t, store.GetBool("filter.include_loaded"))
	assert.Equal(t, "/var/lib/typefinder", store.GetString("catalog.dir"))
	assert.Equal(t, 10, store.GetInt("catalog.limit"))
}

func TestConfigStore_Load_NonExistent(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Load())

	_, ok := store.Get("anything")
	assert.False(t, ok)
}

func TestConfigStore_EmptyFile(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), nil, 0600))

	store, err := NewConfigStore(tmpDir)

	require.NoError(t, err)
	_, ok := store.Get("anything")
	assert.False(t, ok)
}

func TestNewConfigStore_InvalidTOML(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte("invalid [[[ toml"), 0600))

	_, err := NewConfigStore(tmpDir)

	assert.Error(t, err)
}

func TestConfigStore_FilePermissions(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("filter.strict", false))

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestConfigStore_Save_WriteFileError(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	require.NoError(t, os.Mkdir(store.Path(), 0700))

	err = store.Save()

	assert.Error(t, err)
}

func TestConfigStore_Concurrency(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = store.Set("filter.strict", true)
		}()
		go func() {
			defer wg.Done()
			_ = store.GetBool("filter.strict")
		}()
	}
	wg.Wait()

	assert.True(t, store.GetBool("filter.strict"))
}
