package storage

import (
	"context"
	"testing"

	"github.com/redis/go-redis/v9"
)

// newTestRedis creates a Redis store on DB 15 of a local Redis instance.
// Tests are skipped if Redis is unavailable.
func newTestRedis(t *testing.T) *Redis {
	t.Helper()

	client := redis.NewClient(&redis.Options{
		Addr: "localhost:6379",
		DB:   15, // use DB 15 for tests to avoid conflicts
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("skipping: Redis not available: %v", err)
	}

	prefix := "placeswipe_test:"
	cleanup := func() {
		iter := client.Scan(ctx, 0, prefix+"*", 100).Iterator()
		for iter.Next(ctx) {
			client.Del(ctx, iter.Val())
		}
	}
	cleanup()
	t.Cleanup(func() {
		cleanup()
		client.Close()
	})

	return NewRedis(client, prefix)
}

func TestRedis_GetSet(t *testing.T) {
	store := newTestRedis(t)
	ctx := context.Background()

	if _, ok, err := store.Get(ctx, KeyRadius); ok || err != nil {
		t.Fatalf("expected miss, got ok=%v err=%v", ok, err)
	}

	if err := store.Set(ctx, KeyRadius, "12.5"); err != nil {
		t.Fatalf("Set() error: %v", err)
	}

	v, ok, err := store.Get(ctx, KeyRadius)
	if err != nil || !ok || v != "12.5" {
		t.Errorf("Get() = %q, %v, %v", v, ok, err)
	}
}

func TestRedis_PrefixIsolation(t *testing.T) {
	store := newTestRedis(t)
	ctx := context.Background()

	if err := store.Set(ctx, KeyLat, "41.5"); err != nil {
		t.Fatalf("Set() error: %v", err)
	}

	other := NewRedis(store.client, "someone_else:")
	if _, ok, _ := other.Get(ctx, KeyLat); ok {
		t.Error("expected prefix to isolate keys")
	}
}

func TestDialRedis_Unreachable(t *testing.T) {
	if _, err := DialRedis("127.0.0.1:1", 0, DefaultPrefix); err == nil {
		t.Error("expected an error dialing an unreachable Redis")
	}
}
