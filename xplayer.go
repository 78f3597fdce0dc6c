// Package xplayer 三阶段帧流水线播放器：source -> transform -> sink
package xplayer

import (
	_ "github.com/xiaoshicae/xplayer/xcache" // 注册缓存 hook
	"github.com/xiaoshicae/xplayer/xpipeline"
	"github.com/xiaoshicae/xplayer/xserver"
	_ "github.com/xiaoshicae/xplayer/xtrace" // 注册 trace hook
)

// RunPlayer 加载配置并播放，阻塞直到播放结束或收到退出信号
func RunPlayer(opts ...xpipeline.Option) error {
	return xserver.Run(NewPlayer(nil, opts...))
}

// RunPlayerWithConfig 使用指定配置播放，不读取 XPlayer 配置
func RunPlayerWithConfig(c *Config, opts ...xpipeline.Option) error {
	return xserver.Run(NewPlayer(c, opts...))
}

// R 只执行启动 hook（加载配置、初始化日志等），用于调试
func R() error {
	return xserver.R()
}
