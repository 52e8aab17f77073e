package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilter(t *testing.T) {
	src := []int{1, 2, 3, 4, 5}
	even := Filter(src, func(v int) bool { return v%2 == 0 })
	assert.Equal(t, []int{2, 4}, even)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, src)

	assert.Empty(t, Filter([]int{}, func(int) bool { return true }))
}

func TestIndexOf(t *testing.T) {
	src := []string{"a", "b", "c"}
	assert.Equal(t, 1, IndexOf(src, func(s string) bool { return s == "b" }))
	assert.Equal(t, -1, IndexOf(src, func(s string) bool { return s == "z" }))
}

func TestClone(t *testing.T) {
	src := []int{1, 2}
	c := Clone(src)
	c[0] = 9
	assert.Equal(t, 1, src[0])
	assert.NotNil(t, Clone[int](nil))
}

func TestSerializeRoundTrip(t *testing.T) {
	type rec struct {
		Name string
	}
	b, err := Serialize(&rec{Name: "model-3"})
	assert.Nil(t, err)

	out := &rec{}
	assert.Nil(t, Unserialize(b, out))
	assert.Equal(t, "model-3", out.Name)
	assert.NotNil(t, Unserialize(nil, out))
}
