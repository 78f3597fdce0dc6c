package xcache

import (
	"github.com/xiaoshicae/xplayer/xconfig"
	"github.com/xiaoshicae/xplayer/xerror"
	"github.com/xiaoshicae/xplayer/xhook"
	"github.com/xiaoshicae/xplayer/xutil"

	"github.com/dgraph-io/ristretto"
)

func init() {
	xhook.BeforeStart(initXCache, xhook.Order(4))
	xhook.BeforeStop(closeXCache, xhook.Order(800))
}

func initXCache() error {
	if !xconfig.ContainKey(XCacheConfigKey) {
		xutil.WarnIfEnableDebug("XPlayer init %s skipped, config key [%s] not exists, use lazy default cache", XCacheConfigKey, XCacheConfigKey)
		return nil
	}
	if xutil.IsSlice(xconfig.GetConfig(XCacheConfigKey)) {
		return initMulti()
	}
	return initSingle()
}

func initSingle() error {
	c := &Config{}
	if err := xconfig.UnmarshalConfig(XCacheConfigKey, c); err != nil {
		return xerror.Newf("xcache", "init", "unmarshal config failed, err=[%w]", err)
	}
	c = configMergeDefault(c)
	xutil.InfoIfEnableDebug("XPlayer init %s got config: %s", XCacheConfigKey, xutil.ToJsonString(c))

	cache, err := newCache(c)
	if err != nil {
		return err
	}
	set(defaultCacheName, cache)
	if c.Name != "" {
		set(c.Name, cache)
	}
	return nil
}

func initMulti() error {
	var configs []*Config
	if err := xconfig.UnmarshalConfig(XCacheConfigKey, &configs); err != nil {
		return xerror.Newf("xcache", "init", "unmarshal multi config failed, err=[%w]", err)
	}
	xutil.InfoIfEnableDebug("XPlayer init %s got config: %s", XCacheConfigKey, xutil.ToJsonString(configs))

	for idx, c := range configs {
		c = configMergeDefault(c)
		if c.Name == "" {
			return xerror.Newf("xcache", "init", "multi config XCache[%d].Name can not be empty", idx)
		}
		cache, err := newCache(c)
		if err != nil {
			return err
		}
		set(c.Name, cache)
		// 第一个为 C() 默认获取的 cache
		if idx == 0 {
			set(defaultCacheName, cache)
		}
	}
	return nil
}

func closeXCache() error {
	cacheMu.Lock()
	defer cacheMu.Unlock()

	// 同一个 *Cache 可能注册在多个名称下
	closed := make(map[*Cache]struct{})
	for _, cache := range cacheMap {
		if _, ok := closed[cache]; ok {
			continue
		}
		closed[cache] = struct{}{}
		cache.Close()
	}
	clear(cacheMap)

	if globalCache != nil {
		if _, ok := closed[globalCache]; !ok {
			globalCache.Close()
		}
		globalCache = nil
	}
	return nil
}

func newCache(c *Config) (*Cache, error) {
	raw, err := ristretto.NewCache(&ristretto.Config{
		NumCounters:        c.NumCounters,
		MaxCost:            c.MaxCost,
		BufferItems:        c.BufferItems,
		IgnoreInternalCost: true,
		Metrics:            xutil.EnableDebug(),
	})
	if err != nil {
		return nil, xerror.Newf("xcache", "newCache", "ristretto.NewCache failed, err=[%w]", err)
	}
	return &Cache{raw: raw, defaultTTL: xutil.ToDuration(c.DefaultTTL)}, nil
}
