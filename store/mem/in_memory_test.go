package mem

import (
	"context"
	"testing"

	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
	"github.com/warriorguo/pipeline/store"
)

func TestMemStore_SetGetRemove(t *testing.T) {
	s := NewMemStore()
	ctx := context.Background()

	assert.Nil(t, s.Set(ctx, "/record/", "model-1", []byte("v1")))
	v, err := s.Get(ctx, "/record/", "model-1")
	assert.Nil(t, err)
	assert.Equal(t, []byte("v1"), v)

	v, err = s.Get(ctx, "/record/", "missing")
	assert.Nil(t, err)
	assert.Nil(t, v)

	assert.Nil(t, s.Remove(ctx, "/record/", "model-1"))
	assert.Nil(t, s.Remove(ctx, "/record/", "model-1"))
	v, err = s.Get(ctx, "/record/", "model-1")
	assert.Nil(t, err)
	assert.Nil(t, v)
}

func TestMemStore_ListSortedAndScoped(t *testing.T) {
	s := NewMemStore()
	ctx := context.Background()

	assert.Nil(t, s.Set(ctx, "/record/", "sink-4", nil))
	assert.Nil(t, s.Set(ctx, "/record/", "datasource-1", nil))
	assert.Nil(t, s.Set(ctx, "/record/", "model-3", nil))
	assert.Nil(t, s.Set(ctx, "/run/", "generation", nil))

	keys := make([]string, 0)
	assert.Nil(t, s.List(ctx, "/record/", func(key string) bool {
		keys = append(keys, key)
		return true
	}))
	assert.Equal(t, []string{"datasource-1", "model-3", "sink-4"}, keys)

	keys = keys[:0]
	assert.Nil(t, s.List(ctx, "/record/", func(key string) bool {
		keys = append(keys, key)
		return false
	}))
	assert.Equal(t, []string{"datasource-1"}, keys)
}

func TestRemovePrefix(t *testing.T) {
	s := NewMemStore()
	ctx := context.Background()

	assert.Nil(t, s.Set(ctx, "/record/", "a", []byte("1")))
	assert.Nil(t, s.Set(ctx, "/record/", "b", []byte("2")))
	assert.Nil(t, s.Set(ctx, "/run/", "generation", []byte("3")))

	assert.Nil(t, store.RemovePrefix(ctx, s, "/record/"))

	count := 0
	assert.Nil(t, s.List(ctx, "/record/", func(string) bool { count++; return true }))
	assert.Equal(t, 0, count)

	v, err := s.Get(ctx, "/run/", "generation")
	assert.Nil(t, err)
	assert.Equal(t, []byte("3"), v)
}

func TestMemStore_ErrHandler(t *testing.T) {
	s := NewMemStoreWithErrHandler(func() error { return errors.New("store down") })
	ctx := context.Background()

	assert.NotNil(t, s.Set(ctx, "/record/", "a", []byte("1")))
	_, err := s.Get(ctx, "/record/", "a")
	assert.NotNil(t, err)
	assert.NotNil(t, store.RemovePrefix(ctx, s, "/record/"))
}
