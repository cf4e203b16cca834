package cache

import (
	"testing"

	"github.com/Agenta-AI/agenta-sub003/internal/observability/model"
	"github.com/dgraph-io/ristretto"
	"github.com/stretchr/testify/assert"
)

func TestWriteBehindCacheImpl_Get(t *testing.T) {
	t.Run("Returns error if key is not found", func(t *testing.T) {
		wbc := getNewWriteBehindCacheImpl()
		_, err := wbc.Get("key")
		if err == nil {
			t.Error("Expected error, got nil")
		}
		assert.Equal(t, ErrKeyNotFound, err)
	})

	t.Run("Returns value if key is found", func(t *testing.T) {
		wbc := getNewWriteBehindCacheImpl()
		key := "key"
		value := []model.Span{
			{
				TraceID: "0x0123456789abcdef1122334455667788",
				SpanID:  "0xaabbccddeeff0011",
			},
		}
		err := wbc.Put(key, value)
		assert.Nil(t, err)
		wbc.cache.Wait()
		res, err := wbc.Get(key)
		assert.Nil(t, err)
		assert.Equal(t, value, res)
	})
}

func TestWriteBehindCacheImpl_Put(t *testing.T) {
	t.Run("Sets value if key is not found", func(t *testing.T) {
		wbc := getNewWriteBehindCacheImpl()
		key := "key"
		value := []model.Span{
			{
				TraceID: "0x0123456789abcdef1122334455667788",
				SpanID:  "0xaabbccddeeff0011",
			},
		}
		err := wbc.Put(key, value)
		assert.Nil(t, err)
		wbc.cache.Wait()
		res, err := wbc.Get(key)
		assert.Nil(t, err)
		assert.Equal(t, value, res)
	})

	t.Run("Appends value if key is found", func(t *testing.T) {
		wbc := getNewWriteBehindCacheImpl()
		key := "key"
		value := []model.Span{
			{
				TraceID: "0x0123456789abcdef1122334455667788",
				SpanID:  "0xaabbccddeeff0011",
			},
		}
		err := wbc.Put(key, value)
		assert.Nil(t, err)
		wbc.cache.Wait()
		err = wbc.Put(key, value)
		assert.Nil(t, err)
		wbc.cache.Wait()
		res, err := wbc.Get(key)
		assert.Nil(t, err)
		assert.Equal(t, append(value, value...), res)
	})
}

func getNewWriteBehindCacheImpl() *WriteBehindCacheImpl[model.Span] {
	cache, _ := ristretto.NewCache(&ristretto.Config{
		NumCounters: (1 << 20) * 10,
		MaxCost:     1 << 20,
		BufferItems: 64,
	})
	return NewWriteBehindCacheImpl[model.Span](cache)
}
