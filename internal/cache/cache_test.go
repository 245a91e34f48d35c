package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_SetGetDelete(t *testing.T) {
	ctx := context.Background()
	c := NewMemory(time.Minute, 0)
	defer c.Close()

	require.NoError(t, c.Set(ctx, "products:item:1", []byte("a"), 0))
	v, ok, err := c.Get(ctx, "products:item:1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("a"), v)

	require.NoError(t, c.Delete(ctx, "products:item:1"))
	_, ok, _ = c.Get(ctx, "products:item:1")
	assert.False(t, ok)
}

func TestMemory_Expiry(t *testing.T) {
	ctx := context.Background()
	c := NewMemory(time.Minute, 0)
	defer c.Close()

	require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Nanosecond))
	time.Sleep(time.Millisecond)

	_, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)

	c.sweep()
	assert.Equal(t, 0, c.Size())
}

func TestMemory_DeleteByPrefix(t *testing.T) {
	ctx := context.Background()
	c := NewMemory(time.Minute, 0)
	defer c.Close()

	for _, k := range []string{"blogs:list:a", "blogs:list:b", "blogs:item:1", "faqs:list:a"} {
		require.NoError(t, c.Set(ctx, k, []byte("x"), 0))
	}
	require.NoError(t, c.DeleteByPrefix(ctx, "blogs:list:"))

	assert.Equal(t, 2, c.Size())
	_, ok, _ := c.Get(ctx, "blogs:item:1")
	assert.True(t, ok)
	_, ok, _ = c.Get(ctx, "faqs:list:a")
	assert.True(t, ok)
}

func TestMemory_CopiesValue(t *testing.T) {
	ctx := context.Background()
	c := NewMemory(time.Minute, 0)
	defer c.Close()

	buf := []byte("abc")
	require.NoError(t, c.Set(ctx, "k", buf, 0))
	buf[0] = 'z'

	v, _, _ := c.Get(ctx, "k")
	assert.Equal(t, "abc", string(v))
}

func TestMarshalUnmarshal(t *testing.T) {
	ctx := context.Background()
	c := NewMemory(time.Minute, 0)
	defer c.Close()

	type page struct {
		Total int      `json:"total"`
		Names []string `json:"names"`
	}
	require.NoError(t, Marshal(ctx, c, "p", page{Total: 2, Names: []string{"a", "b"}}, 0))

	var got page
	found, err := Unmarshal(ctx, c, "p", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, page{Total: 2, Names: []string{"a", "b"}}, got)

	found, err = Unmarshal(ctx, c, "missing", &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestMemory_CloseIsIdempotent(t *testing.T) {
	c := NewMemory(time.Minute, time.Hour)
	c.Close()
	c.Close()
}
