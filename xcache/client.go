package xcache

import (
	"context"
	"strings"
	"sync"

	"github.com/xiaoshicae/xplayer/xlog"
	"github.com/xiaoshicae/xplayer/xutil"
)

const (
	defaultCacheName = "__default_cache__"

	keySep = ":"
)

// Sized 能报告自身字节数的值，CostOf 用它计算 cost
type Sized interface {
	Size() int64
}

var (
	cacheMap = make(map[string]*Cache)
	cacheMu  sync.RWMutex

	// globalCache 未配置 XCache 时懒初始化的默认缓存
	globalCache *Cache
)

// C 按名称获取缓存，name 为空时返回默认缓存
func C(name ...string) *Cache {
	if cache := get(name...); cache != nil {
		return cache
	}
	n := ""
	if len(name) > 0 {
		n = name[0]
	}
	xlog.Error(context.Background(), "no cache found for name: %s, maybe config not assigned", n)
	return nil
}

// global 返回默认缓存，没有配置时懒初始化一个
func global() *Cache {
	if cache := get(); cache != nil {
		return cache
	}

	cacheMu.Lock()
	defer cacheMu.Unlock()
	if cache := cacheMap[defaultCacheName]; cache != nil {
		return cache
	}
	if globalCache != nil {
		return globalCache
	}
	c, err := newCache(configMergeDefault(nil))
	if err != nil {
		xutil.ErrorIfEnableDebug("XPlayer xcache create default global cache failed, err=[%v]", err)
		return nil
	}
	globalCache = c
	return globalCache
}

func get(name ...string) *Cache {
	n := defaultCacheName
	if len(name) > 0 && name[0] != "" {
		n = name[0]
	}
	cacheMu.RLock()
	defer cacheMu.RUnlock()
	return cacheMap[n]
}

func set(name string, cache *Cache) {
	cacheMu.Lock()
	defer cacheMu.Unlock()
	cacheMap[name] = cache
}

// Key 拼接缓存 key：<namespace>:<part>:<part>...，空的部分跳过
func Key(namespace string, parts ...string) string {
	b := strings.Builder{}
	b.WriteString(namespace)
	for _, p := range parts {
		if p == "" {
			continue
		}
		b.WriteString(keySep)
		b.WriteString(p)
	}
	return b.String()
}

// CostOf 按字节计算 cost，MaxCost 以字节配置；无法计算时按 1
func CostOf(v any) int64 {
	switch t := v.(type) {
	case Sized:
		return max(t.Size(), 1)
	case []byte:
		return max(int64(len(t)), 1)
	case string:
		return max(int64(len(t)), 1)
	default:
		return 1
	}
}
