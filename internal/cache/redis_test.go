package cache

import (
	"context"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
)

func TestRedis_KeysAreNamespaced(t *testing.T) {
	r := NewRedis(nil, "oils-admin:prod", time.Minute)
	assert.Equal(t, "oils-admin:prod:products:list:page=1", r.key("products:list:page=1"))
}

func TestRedis_UnreachableServerReturnsErrors(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 200 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()
	r := NewRedis(client, "test", time.Minute)
	ctx := context.Background()

	_, found, err := r.Get(ctx, "k")
	assert.Error(t, err)
	assert.False(t, found)
	assert.Error(t, r.Set(ctx, "k", []byte("v"), 0))
	assert.Error(t, r.DeleteByPrefix(ctx, "products:"))

	var target map[string]string
	found, err = Unmarshal(ctx, r, "k", &target)
	assert.Error(t, err)
	assert.False(t, found)
}
