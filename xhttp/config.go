package xhttp

import "github.com/xiaoshicae/xplayer/xutil"

const XHttpConfigKey = "XHttp"

// Config 拉取远程帧使用的 http client 配置
type Config struct {
	// Timeout 单次请求超时时间
	// optional default "10s"
	Timeout string `mapstructure:"Timeout"`

	// DialTimeout 建立 TCP 连接超时时间
	// optional default "5s"
	DialTimeout string `mapstructure:"DialTimeout"`

	// MaxIdleConnsPerHost 每个 host 最大空闲连接数
	// optional default 10
	MaxIdleConnsPerHost int `mapstructure:"MaxIdleConnsPerHost"`

	// IdleConnTimeout 空闲连接超时时间
	// optional default "90s"
	IdleConnTimeout string `mapstructure:"IdleConnTimeout"`

	// RetryCount 重试次数
	// optional default 0 (不重试)
	RetryCount int `mapstructure:"RetryCount"`

	// RetryWaitTime 重试等待时间
	// optional default "100ms"
	RetryWaitTime string `mapstructure:"RetryWaitTime"`
}

func configMergeDefault(c *Config) *Config {
	if c == nil {
		c = &Config{}
	}
	cp := *c
	cp.Timeout = xutil.GetOrDefault(cp.Timeout, "10s")
	cp.DialTimeout = xutil.GetOrDefault(cp.DialTimeout, "5s")
	cp.IdleConnTimeout = xutil.GetOrDefault(cp.IdleConnTimeout, "90s")
	cp.RetryWaitTime = xutil.GetOrDefault(cp.RetryWaitTime, "100ms")
	if cp.MaxIdleConnsPerHost <= 0 {
		cp.MaxIdleConnsPerHost = 10
	}
	return &cp
}
