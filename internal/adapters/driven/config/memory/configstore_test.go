package memory

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigStore_CopiesSeed(t *testing.T) {
	seed := map[string]any{"llm.model": "m"}

	store := NewConfigStore(seed)
	seed["llm.model"] = "changed"

	assert.Equal(t, "m", store.GetString("llm.model"))
}

func TestNewConfigStore_NilSeed(t *testing.T) {
	store := NewConfigStore(nil)

	require.NoError(t, store.Set("k", "v"))
	assert.Equal(t, "v", store.GetString("k"))
}

func TestConfigStore_Getters(t *testing.T) {
	store := NewConfigStore(map[string]any{
		"str":     "value",
		"int":     42,
		"int64":   int64(7),
		"float":   3.9,
		"bool":    true,
		"strs":    []string{"a", "b"},
		"anys":    []any{"a", 1, "b"},
		"invalid": struct{}{},
	})

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"string", store.GetString("str"), "value"},
		{"string wrong type", store.GetString("int"), ""},
		{"string missing", store.GetString("missing"), ""},
		{"int", store.GetInt("int"), 42},
		{"int from int64", store.GetInt("int64"), 7},
		{"int from float", store.GetInt("float"), 3},
		{"int wrong type", store.GetInt("str"), 0},
		{"bool", store.GetBool("bool"), true},
		{"bool wrong type", store.GetBool("str"), false},
		{"slice", store.GetStringSlice("strs"), []string{"a", "b"}},
		{"slice from any", store.GetStringSlice("anys"), []string{"a", "b"}},
		{"slice wrong type", store.GetStringSlice("invalid"), []string(nil)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.got)
		})
	}
}

func TestConfigStore_PersistenceIsNoOp(t *testing.T) {
	store := NewConfigStore(nil)
	require.NoError(t, store.Set("k", 1))

	require.NoError(t, store.Save())
	require.NoError(t, store.Load())

	assert.Equal(t, 1, store.GetInt("k"))
	assert.Equal(t, ":memory:", store.Path())
}

func TestConfigStore_Concurrency(t *testing.T) {
	store := NewConfigStore(nil)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_ = store.Set("counter", n)
			_ = store.GetInt("counter")
		}(i)
	}
	wg.Wait()

	_, ok := store.Get("counter")
	assert.True(t, ok)
}
