// Package xrender 提供流水线 sink 端的渲染实现
package xrender

import (
	"github.com/xiaoshicae/xplayer/xerror"
	"github.com/xiaoshicae/xplayer/xpipeline"
)

const (
	TypeLog  = "log"
	TypeDir  = "dir"
	TypeHTTP = "http"

	defaultHTTPAddr = "127.0.0.1:8090"
	defaultDir      = "./frames"
)

// Config 渲染配置
type Config struct {
	// Type 渲染方式 log / dir / http
	// optional default "log"
	Type string `mapstructure:"Type" validate:"omitempty,oneof=log dir http"`

	// Addr http 预览服务监听地址
	// optional default "127.0.0.1:8090"
	Addr string `mapstructure:"Addr"`

	// Dir dir 渲染的输出目录
	// optional default "./frames"
	Dir string `mapstructure:"Dir"`

	// CancelAfter log 渲染展示 N 帧后请求停止，<=0 表示不停止
	// optional default 0
	CancelAfter int `mapstructure:"CancelAfter"`
}

func configMergeDefault(c *Config) *Config {
	if c == nil {
		c = &Config{}
	}
	cp := *c
	if cp.Type == "" {
		cp.Type = TypeLog
	}
	if cp.Addr == "" {
		cp.Addr = defaultHTTPAddr
	}
	if cp.Dir == "" {
		cp.Dir = defaultDir
	}
	return &cp
}

// New 按配置创建渲染器
func New(c *Config) (xpipeline.FrameRenderer, error) {
	c = configMergeDefault(c)
	switch c.Type {
	case TypeLog:
		return NewLogRenderer(c.CancelAfter), nil
	case TypeDir:
		return NewDirRenderer(c.Dir), nil
	case TypeHTTP:
		return NewHTTPRenderer(c.Addr), nil
	default:
		return nil, xerror.Newf("xrender", "new", "unknown renderer type [%s]", c.Type)
	}
}
