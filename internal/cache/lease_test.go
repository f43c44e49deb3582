package cache

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestMemoryLeaseExclusiveAcquire(t *testing.T) {
	lease := NewMemoryLease()
	ctx := context.Background()

	grant, err := lease.Acquire(ctx, "supplier:1", "order:10", time.Minute)
	if err != nil || !grant.Acquired() || grant.Holder != "order:10" {
		t.Fatalf("first acquire failed: grant=%+v err=%v", grant, err)
	}
	grant, err = lease.Acquire(ctx, "supplier:1", "order:11", time.Minute)
	if err != nil {
		t.Fatalf("second acquire failed: %v", err)
	}
	if grant.Granted || grant.Holder != "order:10" {
		t.Fatalf("second holder should be rejected, grant=%+v", grant)
	}
	grant, err = lease.Acquire(ctx, "supplier:1", "order:10", time.Minute)
	if err != nil || !grant.Granted || !grant.Renewed || grant.Acquired() {
		t.Fatalf("same holder should renew lease, grant=%+v", grant)
	}
}

func TestMemoryLeaseReleaseAndSwapRequireHolder(t *testing.T) {
	lease := NewMemoryLease()
	ctx := context.Background()
	if _, err := lease.Acquire(ctx, "supplier:2", "order:20", time.Minute); err != nil {
		t.Fatalf("acquire failed: %v", err)
	}

	released, err := lease.Release(ctx, "supplier:2", "order:99")
	if err != nil || released {
		t.Fatalf("foreign release should be ignored")
	}
	swapped, err := lease.Swap(ctx, "supplier:2", "order:99", "order:21", time.Minute)
	if err != nil || swapped {
		t.Fatalf("swap with wrong expected holder should fail")
	}
	swapped, err = lease.Swap(ctx, "supplier:2", "order:20", "order:21", time.Minute)
	if err != nil || !swapped {
		t.Fatalf("swap with expected holder should succeed")
	}
	released, err = lease.Release(ctx, "supplier:2", "order:21")
	if err != nil || !released {
		t.Fatalf("holder release should succeed")
	}
	grant, err := lease.Acquire(ctx, "supplier:2", "order:22", time.Minute)
	if err != nil || !grant.Acquired() {
		t.Fatalf("acquire after release should succeed")
	}
}

func TestMemoryLeaseExpires(t *testing.T) {
	lease := NewMemoryLease()
	now := time.Now()
	lease.now = func() time.Time { return now }
	ctx := context.Background()

	if _, err := lease.Acquire(ctx, "supplier:3", "order:30", time.Second); err != nil {
		t.Fatalf("acquire failed: %v", err)
	}
	now = now.Add(2 * time.Second)
	grant, err := lease.Acquire(ctx, "supplier:3", "order:31", time.Second)
	if err != nil || !grant.Acquired() || grant.Holder != "order:31" {
		t.Fatalf("expired lease should be acquirable, grant=%+v err=%v", grant, err)
	}
}

func TestMemoryLeaseConcurrentAcquireSingleWinner(t *testing.T) {
	lease := NewMemoryLease()
	ctx := context.Background()

	var wg sync.WaitGroup
	var mu sync.Mutex
	winners := 0
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			grant, err := lease.Acquire(ctx, "supplier:4", "order:"+string(rune('a'+idx)), time.Minute)
			if err != nil {
				t.Errorf("acquire failed: %v", err)
				return
			}
			if grant.Granted {
				mu.Lock()
				winners++
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()
	if winners != 1 {
		t.Fatalf("exactly one goroutine should win the lease, got %d", winners)
	}
}

func TestNewLeaseFallsBackWithoutRedis(t *testing.T) {
	if Enabled() {
		t.Skip("redis enabled in test environment")
	}
	if _, ok := NewLease().(*MemoryLease); !ok {
		t.Fatalf("without redis NewLease should return memory lease")
	}
}
