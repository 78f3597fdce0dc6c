package xconfig

import (
	"fmt"
	"reflect"
	"sync"
	"time"

	"github.com/xiaoshicae/xplayer/xutil"

	"github.com/spf13/viper"
)

var (
	vip   *viper.Viper
	vipMu sync.RWMutex
)

// UnmarshalConfig 将 key 对应的配置反序列化到 conf（必须为指针）
func UnmarshalConfig(key string, conf any) error {
	if key == "" {
		return fmt.Errorf("param key is empty")
	}
	if conf == nil || reflect.TypeOf(conf).Kind() != reflect.Ptr {
		return fmt.Errorf("param conf must be a non-nil ptr")
	}
	return getViperConfig().UnmarshalKey(key, conf)
}

func GetConfig(key string) any {
	return getViperConfig().Get(key)
}

func ContainKey(key string) bool {
	return getViperConfig().IsSet(key)
}

func GetString(key string) string {
	return getViperConfig().GetString(key)
}

func GetBool(key string) bool {
	return getViperConfig().GetBool(key)
}

func GetInt(key string) int {
	return getViperConfig().GetInt(key)
}

func GetDuration(key string) time.Duration {
	return xutil.ToDuration(getViperConfig().GetString(key))
}

// GetServerName 获取 Server.Name，未配置时返回默认值
func GetServerName() string {
	return xutil.GetOrDefault(GetString(ServerConfigKey+".Name"), defaultServerName)
}

// GetServerVersion 获取 Server.Version，未配置时返回默认值
func GetServerVersion() string {
	return xutil.GetOrDefault(GetString(ServerConfigKey+".Version"), defaultServerVersion)
}

// Set 覆盖单个配置项，用于启动参数覆盖和测试
func Set(key string, value any) {
	vipMu.Lock()
	defer vipMu.Unlock()
	if vip == nil {
		vip = viper.New()
	}
	applyNested(vip, map[string]any{key: value})
}

// Reset 清空已加载的配置，用于测试
func Reset() {
	setViperConfig(nil)
}

func getViperConfig() *viper.Viper {
	vipMu.RLock()
	defer vipMu.RUnlock()
	if vip == nil {
		return viper.New()
	}
	return vip
}

func setViperConfig(vp *viper.Viper) {
	vipMu.Lock()
	vip = vp
	vipMu.Unlock()
}
