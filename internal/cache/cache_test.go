package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to create miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	return redis.NewClient(&redis.Options{Addr: mr.Addr()}), mr
}

type sample struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestRedisCache_SetGet(t *testing.T) {
	client, mr := setupTestRedis(t)
	c := NewRedisCache(client, "papers:", time.Minute)
	ctx := context.Background()

	if err := c.Set(ctx, "stats", sample{Name: "a", Count: 3}); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	if !mr.Exists("papers:stats") {
		t.Error("Set() should namespace the key")
	}
	if ttl := mr.TTL("papers:stats"); ttl != time.Minute {
		t.Errorf("TTL = %v, want 1m", ttl)
	}

	var got sample
	if err := c.Get(ctx, "stats", &got); err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Name != "a" || got.Count != 3 {
		t.Errorf("Get() = %+v", got)
	}
}

func TestRedisCache_Miss(t *testing.T) {
	client, _ := setupTestRedis(t)
	c := NewRedisCache(client, "", time.Minute)

	var got sample
	if err := c.Get(context.Background(), "absent", &got); !errors.Is(err, ErrMiss) {
		t.Errorf("Get() error = %v, want ErrMiss", err)
	}
}

func TestRedisCache_Delete(t *testing.T) {
	client, mr := setupTestRedis(t)
	c := NewRedisCache(client, "p:", time.Minute)
	ctx := context.Background()

	_ = c.Set(ctx, "a", 1)
	_ = c.Set(ctx, "b", 2)

	if err := c.Delete(ctx, "a", "b"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if mr.Exists("p:a") || mr.Exists("p:b") {
		t.Error("Delete() should remove every key")
	}
	if err := c.Delete(ctx); err != nil {
		t.Errorf("Delete() without keys error = %v", err)
	}
}

func TestRedisCache_ServerDown(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to create miniredis: %v", err)
	}
	c := NewRedisCache(redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1}), "", time.Minute)
	mr.Close()

	var got sample
	err = c.Get(context.Background(), "stats", &got)
	if err == nil || errors.Is(err, ErrMiss) {
		t.Errorf("Get() error = %v, want a connection error", err)
	}
}

func TestNoop(t *testing.T) {
	c := NewNoop()
	ctx := context.Background()

	if err := c.Set(ctx, "k", 1); err != nil {
		t.Errorf("Set() error = %v", err)
	}
	var got int
	if err := c.Get(ctx, "k", &got); !errors.Is(err, ErrMiss) {
		t.Errorf("Get() error = %v, want ErrMiss", err)
	}
}
