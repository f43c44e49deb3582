package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRememberWithoutRedisAlwaysLoads(t *testing.T) {
	calls := 0
	load := func() (*int, error) {
		calls++
		v := calls
		return &v, nil
	}
	for i := 1; i <= 2; i++ {
		got, err := Remember(context.Background(), "dashboard:test", time.Minute, false, load)
		if err != nil {
			t.Fatalf("remember failed: %v", err)
		}
		if *got != i {
			t.Fatalf("want fresh value %d got %d", i, *got)
		}
	}
}

func TestRememberPropagatesLoadError(t *testing.T) {
	boom := errors.New("boom")
	got, err := Remember(context.Background(), "dashboard:test", time.Minute, true, func() (*int, error) {
		return nil, boom
	})
	if !errors.Is(err, boom) || got != nil {
		t.Fatalf("want load error, got value=%v err=%v", got, err)
	}
}

func TestKeyUsesPrefix(t *testing.T) {
	previous := redisPrefix
	redisPrefix = "fh"
	t.Cleanup(func() { redisPrefix = previous })

	if got := Key(" events:orders "); got != "fh:events:orders" {
		t.Fatalf("unexpected key: %s", got)
	}
	if got := Key(""); got != "fh" {
		t.Fatalf("empty key should return prefix, got %s", got)
	}
}
