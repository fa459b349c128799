package repository

import (
	"context"
	"testing"
	"time"
)

func TestMemoryCacheSetGetDelete(t *testing.T) {

	cache := NewMemoryCache()
	ctx := context.Background()

	if _, ok, _ := cache.Get(ctx, "k"); ok {
		t.Fatalf("expected miss on empty cache")
	}

	if err := cache.Set(ctx, "k", "v", 0); err != nil {
		t.Fatalf("set: %v", err)
	}
	val, ok, err := cache.Get(ctx, "k")
	if err != nil || !ok || val != "v" {
		t.Fatalf("expected hit with v, got %q %v %v", val, ok, err)
	}

	if err := cache.Delete(ctx, "k"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok, _ := cache.Get(ctx, "k"); ok {
		t.Errorf("expected miss after delete")
	}
}

func TestMemoryCacheExpires(t *testing.T) {

	cache := NewMemoryCache()
	now := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return now }
	ctx := context.Background()

	cache.Set(ctx, "k", "v", time.Minute)

	now = now.Add(59 * time.Second)
	if _, ok, _ := cache.Get(ctx, "k"); !ok {
		t.Fatalf("expected hit before ttl")
	}

	now = now.Add(time.Second)
	if _, ok, _ := cache.Get(ctx, "k"); ok {
		t.Errorf("expected miss once ttl elapsed")
	}
}

func TestRedisCacheUnreachableReturnsError(t *testing.T) {

	cache := NewRedisCache("127.0.0.1:1", "costseer:")
	defer cache.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if _, ok, err := cache.Get(ctx, "k"); err == nil || ok {
		t.Errorf("expected error from unreachable redis, got ok=%v err=%v", ok, err)
	}
}
