package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/SyncShire/E-Commerce/internal/cache"
	"github.com/SyncShire/E-Commerce/internal/logger"
)

const defaultInflightTTL = 30 * time.Second

// inflightGuard 同一用户同一幂等键的下单互斥；Redis 不可用时退化为进程内互斥
type inflightGuard struct {
	store *cache.Store
	ttl   time.Duration

	mu    sync.Mutex
	local map[string]time.Time
}

func newInflightGuard(store *cache.Store, ttl time.Duration) *inflightGuard {
	if ttl <= 0 {
		ttl = defaultInflightTTL
	}
	return &inflightGuard{
		store: store,
		ttl:   ttl,
		local: make(map[string]time.Time),
	}
}

func inflightKey(userID uint, idempotencyKey string) string {
	if idempotencyKey == "" {
		idempotencyKey = "default"
	}
	return fmt.Sprintf("checkout:inflight:%d:%s", userID, idempotencyKey)
}

// Acquire 获取互斥，返回释放函数；已被占用时 ok 为 false
func (g *inflightGuard) Acquire(ctx context.Context, key string) (release func(), ok bool) {
	if g.store.Enabled() {
		acquired, err := g.store.SetNX(ctx, key, "1", g.ttl)
		if err == nil {
			if !acquired {
				return nil, false
			}
			return func() {
				if err := g.store.Del(context.Background(), key); err != nil {
					logger.Warnw("checkout_inflight_release_failed", "key", key, "error", err)
				}
			}, true
		}
		logger.Ctx(ctx).Warnw("checkout_inflight_redis_failed", "key", key, "error", err)
	}
	return g.acquireLocal(key)
}

func (g *inflightGuard) acquireLocal(key string) (func(), bool) {
	now := time.Now()
	g.mu.Lock()
	defer g.mu.Unlock()
	if expires, exists := g.local[key]; exists && now.Before(expires) {
		return nil, false
	}
	g.local[key] = now.Add(g.ttl)
	return func() {
		g.mu.Lock()
		delete(g.local, key)
		g.mu.Unlock()
	}, true
}
