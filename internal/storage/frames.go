package storage

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/eleven-am/cortexview/internal/capture"
	"github.com/eleven-am/cortexview/internal/shared"
	"github.com/redis/go-redis/v9"
)

// FrameCache keeps the most recent capture per handle for re-analysis.
type FrameCache interface {
	Put(ctx context.Context, handle capture.Handle, image []byte) error
	Latest(ctx context.Context, handle capture.Handle) ([]byte, error)
	Delete(ctx context.Context, handle capture.Handle) error
}

type MemoryFrameCache struct {
	mu     sync.RWMutex
	frames map[capture.Handle][]byte
}

func NewMemoryFrameCache() *MemoryFrameCache {
	return &MemoryFrameCache{frames: make(map[capture.Handle][]byte)}
}

func (c *MemoryFrameCache) Put(_ context.Context, handle capture.Handle, image []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.frames[handle] = append([]byte(nil), image...)
	return nil
}

func (c *MemoryFrameCache) Latest(_ context.Context, handle capture.Handle) ([]byte, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	data, ok := c.frames[handle]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return append([]byte(nil), data...), nil
}

func (c *MemoryFrameCache) Delete(_ context.Context, handle capture.Handle) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.frames, handle)
	return nil
}

type RedisFrameCache struct {
	redis    *redis.Client
	frameTTL time.Duration
}

func NewRedisFrameCache(redisClient *redis.Client, frameTTL time.Duration) *RedisFrameCache {
	if frameTTL == 0 {
		frameTTL = time.Hour
	}
	return &RedisFrameCache{
		redis:    redisClient,
		frameTTL: frameTTL,
	}
}

func frameKey(handle capture.Handle) string {
	return fmt.Sprintf("capture:%s:last", handle)
}

func (c *RedisFrameCache) Put(ctx context.Context, handle capture.Handle, image []byte) error {
	return c.redis.Set(ctx, frameKey(handle), image, c.frameTTL).Err()
}

func (c *RedisFrameCache) Latest(ctx context.Context, handle capture.Handle) ([]byte, error) {
	data, err := c.redis.Get(ctx, frameKey(handle)).Bytes()
	if err == redis.Nil {
		return nil, shared.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (c *RedisFrameCache) Delete(ctx context.Context, handle capture.Handle) error {
	return c.redis.Del(ctx, frameKey(handle)).Err()
}
