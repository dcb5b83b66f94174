package memory

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigStore_Seeded(t *testing.T) {
	store := NewConfigStore(
		map[string]any{"filter.strict": true, "plugins.dir": "/opt"},
		map[string]any{"plugins.dir": "/srv"},
	)

	assert.True(t, store.GetBool("filter.strict"))
	assert.Equal(t, "/srv", store.GetString("plugins.dir"))
	assert.Equal(t, ":memory:", store.Path())
	assert.NoError(t, store.Save())
	assert.NoError(t, store.Load())
}

func TestConfigStore_TypedGetters(t *testing.T) {
	store := NewConfigStore()
	require.NoError(t, store.Set("filter.modules", []any{"a", "b"}))
	require.NoError(t, store.Set("catalog.limit", int64(5)))

	assert.Equal(t, []string{"a", "b"}, store.GetStringSlice("filter.modules"))
	assert.Equal(t, 5, store.GetInt("catalog.limit"))
	assert.Equal(t, "", store.GetString("catalog.limit"))
	assert.Nil(t, store.GetStringSlice("missing"))
}

func TestConfigStore_Concurrency(t *testing.T) {
	store := NewConfigStore()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			_ = store.Set("catalog.limit", n)
		}(i)
		go func() {
			defer wg.Done()
			_ = store.GetInt("catalog.limit")
		}()
	}
	wg.Wait()

	_, ok := store.Get("catalog.limit")
	assert.True(t, ok)
}
