package cache

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Grant 获取租约的结果
type Grant struct {
	// Granted 调用方当前持有租约
	Granted bool
	// Renewed 调用前已由同一持有者持有，本次只是续期
	Renewed bool
	// Holder 调用结束时的持有者
	Holder string
}

// Acquired 本次调用新取得租约（不含续期）
func (g Grant) Acquired() bool {
	return g.Granted && !g.Renewed
}

// Lease 带持有者标识的排他租约
type Lease interface {
	// Acquire 尝试获取租约；同一持有者重复获取视为续期。
	Acquire(ctx context.Context, key, holder string, ttl time.Duration) (Grant, error)
	// Swap 仅当当前持有者为 expected 时转交给 holder
	Swap(ctx context.Context, key, expected, holder string, ttl time.Duration) (bool, error)
	// Release 仅当当前持有者为 holder 时释放
	Release(ctx context.Context, key, holder string) (bool, error)
}

// NewLease 根据 Redis 是否启用选择租约实现
func NewLease() Lease {
	if client := Client(); client != nil {
		return NewRedisLease(client)
	}
	return NewMemoryLease()
}

var (
	releaseScript = redis.NewScript(`
if redis.call('GET', KEYS[1]) == ARGV[1] then
	return redis.call('DEL', KEYS[1])
end
return 0
`)
	swapScript = redis.NewScript(`
if redis.call('GET', KEYS[1]) == ARGV[1] then
	redis.call('SET', KEYS[1], ARGV[2], 'PX', ARGV[3])
	return 1
end
return 0
`)
)

// RedisLease 基于 SET NX PX 的租约
type RedisLease struct {
	client *redis.Client
}

// NewRedisLease 创建 Redis 租约
func NewRedisLease(client *redis.Client) *RedisLease {
	return &RedisLease{client: client}
}

// Acquire 获取租约
func (l *RedisLease) Acquire(ctx context.Context, key, holder string, ttl time.Duration) (Grant, error) {
	fullKey := buildKey(key)
	for attempt := 0; attempt < 2; attempt++ {
		ok, err := l.client.SetNX(ctx, fullKey, holder, ttl).Result()
		if err != nil {
			return Grant{}, err
		}
		if ok {
			return Grant{Granted: true, Holder: holder}, nil
		}
		current, err := l.client.Get(ctx, fullKey).Result()
		if errors.Is(err, redis.Nil) {
			// 期间被释放，重试一次
			continue
		}
		if err != nil {
			return Grant{}, err
		}
		if current != holder {
			return Grant{Holder: current}, nil
		}
		if err := l.client.PExpire(ctx, fullKey, ttl).Err(); err != nil {
			return Grant{Holder: current}, err
		}
		return Grant{Granted: true, Renewed: true, Holder: current}, nil
	}
	return Grant{}, nil
}

// Swap 比较并转交租约
func (l *RedisLease) Swap(ctx context.Context, key, expected, holder string, ttl time.Duration) (bool, error) {
	res, err := swapScript.Run(ctx, l.client, []string{buildKey(key)}, expected, holder, ttl.Milliseconds()).Int()
	if err != nil {
		return false, err
	}
	return res == 1, nil
}

// Release 比较并删除租约
func (l *RedisLease) Release(ctx context.Context, key, holder string) (bool, error) {
	res, err := releaseScript.Run(ctx, l.client, []string{buildKey(key)}, holder).Int()
	if err != nil {
		return false, err
	}
	return res == 1, nil
}

type memoryLeaseEntry struct {
	holder    string
	expiresAt time.Time
}

// MemoryLease 进程内租约，Redis 未启用时使用（仅单实例有效）
type MemoryLease struct {
	mu      sync.Mutex
	entries map[string]memoryLeaseEntry
	now     func() time.Time
}

// NewMemoryLease 创建进程内租约
func NewMemoryLease() *MemoryLease {
	return &MemoryLease{
		entries: make(map[string]memoryLeaseEntry),
		now:     time.Now,
	}
}

func (l *MemoryLease) current(key string) (memoryLeaseEntry, bool) {
	entry, ok := l.entries[key]
	if !ok {
		return memoryLeaseEntry{}, false
	}
	if !entry.expiresAt.IsZero() && !l.now().Before(entry.expiresAt) {
		delete(l.entries, key)
		return memoryLeaseEntry{}, false
	}
	return entry, true
}

func (l *MemoryLease) set(key, holder string, ttl time.Duration) {
	entry := memoryLeaseEntry{holder: holder}
	if ttl > 0 {
		entry.expiresAt = l.now().Add(ttl)
	}
	l.entries[key] = entry
}

// Acquire 获取租约
func (l *MemoryLease) Acquire(_ context.Context, key, holder string, ttl time.Duration) (Grant, error) {
	key = strings.TrimSpace(key)
	l.mu.Lock()
	defer l.mu.Unlock()
	entry, ok := l.current(key)
	if ok && entry.holder != holder {
		return Grant{Holder: entry.holder}, nil
	}
	l.set(key, holder, ttl)
	return Grant{Granted: true, Renewed: ok, Holder: holder}, nil
}

// Swap 比较并转交租约
func (l *MemoryLease) Swap(_ context.Context, key, expected, holder string, ttl time.Duration) (bool, error) {
	key = strings.TrimSpace(key)
	l.mu.Lock()
	defer l.mu.Unlock()
	entry, ok := l.current(key)
	if !ok || entry.holder != expected {
		return false, nil
	}
	l.set(key, holder, ttl)
	return true, nil
}

// Release 比较并删除租约
func (l *MemoryLease) Release(_ context.Context, key, holder string) (bool, error) {
	key = strings.TrimSpace(key)
	l.mu.Lock()
	defer l.mu.Unlock()
	entry, ok := l.current(key)
	if !ok || entry.holder != holder {
		return false, nil
	}
	delete(l.entries, key)
	return true, nil
}
