package xcache

import (
	"time"

	"github.com/dgraph-io/ristretto"
)

// Cache 基于 ristretto 的本地缓存
// ristretto 的写入是异步的，Set 返回后不保证立即可读
type Cache struct {
	raw        *ristretto.Cache
	defaultTTL time.Duration
}

func (c *Cache) Get(key string) (any, bool) {
	return c.raw.Get(key)
}

// Set 使用默认 TTL，cost=1
func (c *Cache) Set(key string, value any) bool {
	return c.raw.SetWithTTL(key, value, 1, c.defaultTTL)
}

// SetWithCost 指定 cost（字节），使用默认 TTL
func (c *Cache) SetWithCost(key string, value any, cost int64) bool {
	return c.raw.SetWithTTL(key, value, cost, c.defaultTTL)
}

func (c *Cache) SetWithCostAndTTL(key string, value any, cost int64, ttl time.Duration) bool {
	return c.raw.SetWithTTL(key, value, cost, ttl)
}

func (c *Cache) Del(key string) {
	c.raw.Del(key)
}

func (c *Cache) Clear() {
	c.raw.Clear()
}

// Wait 等待缓冲区中的写入生效，主要用于测试
func (c *Cache) Wait() {
	c.raw.Wait()
}

func (c *Cache) Close() {
	c.raw.Close()
}

// Metrics 命中率等统计，未开启时返回 nil
func (c *Cache) Metrics() *ristretto.Metrics {
	return c.raw.Metrics
}
