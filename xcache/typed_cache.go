package xcache

import (
	"golang.org/x/sync/singleflight"
)

// TypedCache 类型安全的缓存视图，同一个 key 的并发加载只执行一次
type TypedCache[V any] struct {
	cache *Cache
	group *singleflight.Group
}

// Of 无参数时使用默认缓存，有参数时按名称获取
func Of[V any](name ...string) *TypedCache[V] {
	var cache *Cache
	if len(name) > 0 {
		cache = C(name[0])
	} else {
		cache = global()
	}
	return &TypedCache[V]{cache: cache, group: &singleflight.Group{}}
}

func (c *TypedCache[V]) Get(key string) (V, bool) {
	var zero V
	if c.cache == nil {
		return zero, false
	}
	val, ok := c.cache.Get(key)
	if !ok {
		return zero, false
	}
	typed, ok := val.(V)
	return typed, ok
}

// Set cost 以字节计
func (c *TypedCache[V]) Set(key string, value V, cost int64) bool {
	if c.cache == nil {
		return false
	}
	return c.cache.SetWithCost(key, value, cost)
}

func (c *TypedCache[V]) Del(key string) {
	if c.cache == nil {
		return
	}
	c.cache.Del(key)
}

func (c *TypedCache[V]) Wait() {
	if c.cache == nil {
		return
	}
	c.cache.Wait()
}

// GetOrLoad 未命中时调用 load 加载并写入缓存，load 返回值的第二项为 cost
// 缓存不可用时直接调用 load
func (c *TypedCache[V]) GetOrLoad(key string, load func() (V, int64, error)) (V, error) {
	if v, ok := c.Get(key); ok {
		return v, nil
	}
	if c.cache == nil {
		v, _, err := load()
		return v, err
	}
	res, err, _ := c.group.Do(key, func() (any, error) {
		v, cost, err := load()
		if err != nil {
			return v, err
		}
		c.cache.SetWithCost(key, v, cost)
		return v, nil
	})
	if err != nil {
		var zero V
		return zero, err
	}
	return res.(V), nil
}
