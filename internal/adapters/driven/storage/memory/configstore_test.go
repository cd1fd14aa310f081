package memory

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigStore(t *testing.T) {
	store := NewConfigStore()
	require.NotNil(t, store)
	assert.NotNil(t, store.values)
	assert.Empty(t, store.Keys())
}

func TestConfigStore_SetAndGet(t *testing.T) {
	store := NewConfigStore()

	require.NoError(t, store.Set("resolver.workers", 4))
	require.NoError(t, store.Set("resolver.workers", 8))

	val, ok := store.Get("resolver.workers")
	assert.True(t, ok)
	assert.Equal(t, 8, val)

	_, ok = store.Get("missing")
	assert.False(t, ok)
}

func TestConfigStore_TypedGetters(t *testing.T) {
	store := NewConfigStore()
	_ = store.Set("storage.data_dir", "/data")
	_ = store.Set("resolver.workers", int64(4))
	_ = store.Set("fetch.rate_per_second", 2)
	_ = store.Set("resolver.system_types", []any{"Concept", "Event"})

	assert.Equal(t, "/data", store.GetString("storage.data_dir"))
	assert.Empty(t, store.GetString("resolver.workers"))
	assert.Equal(t, 4, store.GetInt("resolver.workers"))
	assert.InDelta(t, 2.0, store.GetFloat("fetch.rate_per_second"), 0.0001)
	assert.Equal(t, []string{"Concept", "Event"}, store.GetStringSlice("resolver.system_types"))

	assert.Empty(t, store.GetString("missing"))
	assert.Zero(t, store.GetInt("missing"))
	assert.Zero(t, store.GetFloat("missing"))
	assert.Nil(t, store.GetStringSlice("missing"))
}

func TestConfigStore_Keys_Sorted(t *testing.T) {
	store := NewConfigStore()
	_ = store.Set("storage.data_dir", "/data")
	_ = store.Set("fetch.timeout_seconds", 30)
	_ = store.Set("resolver.workers", 2)

	assert.Equal(t, []string{"fetch.timeout_seconds", "resolver.workers", "storage.data_dir"}, store.Keys())
}

func TestConfigStore_SaveLoadPath(t *testing.T) {
	store := NewConfigStore()
	_ = store.Set("key", "value")

	require.NoError(t, store.Save())
	require.NoError(t, store.Load())
	assert.Equal(t, "value", store.GetString("key"))
	assert.Equal(t, ":memory:", store.Path())
}

func TestConfigStore_Concurrency(t *testing.T) {
	store := NewConfigStore()
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			key := fmt.Sprintf("key-%d", id%5)
			_ = store.Set(key, id)
			_ = store.GetInt(key)
			_ = store.Keys()
		}(i)
	}
	wg.Wait()

	assert.Len(t, store.Keys(), 5)
}
