package xtrace

import "github.com/xiaoshicae/xplayer/xutil"

const XTraceConfigKey = "XTrace"

type Config struct {
	// Enable 是否开启 trace，未配置视为开启
	// optional default true
	Enable *bool `mapstructure:"Enable"`

	// Console span 是否打印到控制台
	// optional default false
	Console bool `mapstructure:"Console"`
}

func configMergeDefault(c *Config) *Config {
	if c == nil {
		c = &Config{}
	}
	if c.Enable == nil {
		c.Enable = xutil.ToPtr(true)
	}
	return c
}
