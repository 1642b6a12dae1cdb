package redis

import (
	"testing"
	"time"

	"github.com/flashnacks/flashnacks-backend/pkg/config"
)

func TestOptionsFromConfigRequiresTarget(t *testing.T) {
	t.Parallel()

	if _, err := optionsFromConfig(config.RedisConfig{}); err == nil {
		t.Fatal("expected error when url and address are both empty")
	}
}

func TestOptionsFromConfigURL(t *testing.T) {
	t.Parallel()

	opts, err := optionsFromConfig(config.RedisConfig{
		URL:          "redis://:pass@localhost:6380/2",
		PoolSize:     7,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 4 * time.Second,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.Addr != "localhost:6380" {
		t.Fatalf("unexpected addr %s", opts.Addr)
	}
	if opts.DB != 2 {
		t.Fatalf("expected db from url, got %d", opts.DB)
	}
	if opts.PoolSize != 7 {
		t.Fatalf("expected pool size fallback, got %d", opts.PoolSize)
	}
}

func TestOptionsFromConfigAddress(t *testing.T) {
	t.Parallel()

	opts, err := optionsFromConfig(config.RedisConfig{Address: "127.0.0.1:6379", DB: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.Addr != "127.0.0.1:6379" || opts.DB != 1 {
		t.Fatalf("unexpected options %+v", opts)
	}
}

func TestKeyBuilders(t *testing.T) {
	t.Parallel()

	c := &Client{}
	if got := c.IdempotencyKey("checkout", "abc"); got != "fs:idempotency:checkout:abc" {
		t.Fatalf("unexpected idempotency key %s", got)
	}
	if got := c.LockKey("cron"); got != "fs:lock:cron" {
		t.Fatalf("unexpected lock key %s", got)
	}
	if got := c.CounterKey(""); got != "fs:counter" {
		t.Fatalf("empty parts must be skipped, got %s", got)
	}
}
