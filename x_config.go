package xplayer

import (
	"github.com/xiaoshicae/xplayer/xconfig"
	"github.com/xiaoshicae/xplayer/xerror"
	"github.com/xiaoshicae/xplayer/xrender"
	"github.com/xiaoshicae/xplayer/xutil"

	"github.com/go-playground/validator/v10"
)

const (
	XPlayerConfigKey = "XPlayer"

	// sourceArgKey 启动参数 --xplayer.source 覆盖 XPlayer.Source
	sourceArgKey = "xplayer.source"

	defaultSource    = "synthetic://72"
	defaultTransform = "grayscale"
)

// Config 播放器配置，流水线本身的参数在 XPipeline 下配置
type Config struct {
	// Source 数据源：synthetic://<n>?w=&h=、视频文件、图片目录、单张图片或 http(s) 图片地址
	// optional default "synthetic://72"
	Source string `mapstructure:"Source" validate:"required"`

	// Transform 转换名称，多个用 "|" 串联
	// optional default "grayscale"
	Transform string `mapstructure:"Transform" validate:"required"`

	// Renderer 渲染配置
	// optional default {Type: "log"}
	Renderer *xrender.Config `mapstructure:"Renderer"`

	// MaxFrames >0 时覆盖 XPipeline.MaxFrames
	// optional default 0
	MaxFrames int `mapstructure:"MaxFrames" validate:"gte=0"`

	// CacheName 图片解码缓存使用的 xcache 名称
	// optional default ""
	CacheName string `mapstructure:"CacheName"`

	// FFmpeg 视频解码使用的 ffmpeg，名称或路径
	// optional default "ffmpeg"
	FFmpeg string `mapstructure:"FFmpeg"`

	// FFprobe 读取视频宽高和帧数使用的 ffprobe
	// optional default "ffprobe"
	FFprobe string `mapstructure:"FFprobe"`
}

func configMergeDefault(c *Config) *Config {
	if c == nil {
		c = &Config{}
	}
	cp := *c
	cp.Source = xutil.GetOrDefault(cp.Source, defaultSource)
	cp.Transform = xutil.GetOrDefault(cp.Transform, defaultTransform)
	if cp.Renderer == nil {
		cp.Renderer = &xrender.Config{}
	}
	return &cp
}

var validate = validator.New()

func validateConfig(c *Config) error {
	if err := validate.Struct(c); err != nil {
		return xerror.Newf("xplayer", "validateConfig", "%w", err)
	}
	if err := validate.Struct(c.Renderer); err != nil {
		return xerror.Newf("xplayer", "validateConfig", "%w", err)
	}
	return nil
}

// GetConfig 读取 XPlayer 配置，启动参数 --xplayer.source 优先
func GetConfig() (*Config, error) {
	c := &Config{}
	if err := xconfig.UnmarshalConfig(XPlayerConfigKey, c); err != nil {
		return nil, xerror.Newf("xplayer", "getConfig", "unmarshal config failed, err=[%w]", err)
	}
	if src, err := xutil.GetConfigFromArgs(sourceArgKey); err == nil && src != "" {
		c.Source = src
	}
	c = configMergeDefault(c)
	xutil.InfoIfEnableDebug("XPlayer got config: %s", xutil.ToJsonString(c))
	return c, nil
}
