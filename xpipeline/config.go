package xpipeline

import (
	"time"

	"github.com/xiaoshicae/xplayer/xconfig"
	"github.com/xiaoshicae/xplayer/xerror"
	"github.com/xiaoshicae/xplayer/xutil"

	"github.com/go-playground/validator/v10"
)

// XPipelineConfigKey 配置 key
const XPipelineConfigKey = "XPipeline"

const (
	defaultChannelCapacity  = 10
	defaultFrameDelayMillis = 42
)

// FailurePolicy 单帧转换失败时的处理方式
type FailurePolicy string

const (
	// PolicyAbort 中止转换，向下游发送结束标记，并丢弃上游剩余数据直到上游结束
	PolicyAbort FailurePolicy = "abort"
	// PolicySkip 丢弃失败的帧，继续处理
	PolicySkip FailurePolicy = "skip"
)

// Config xpipeline 配置
type Config struct {
	// ChannelCapacity stage 之间 channel 的容量
	// optional default 10
	ChannelCapacity int `mapstructure:"ChannelCapacity" validate:"gte=0"`

	// MaxFrames 最多读取的帧数，<=0 表示不限制
	// optional default 0
	MaxFrames int `mapstructure:"MaxFrames"`

	// FrameDelayMillis sink 每帧展示后的等待时间，0 表示不等待
	// optional default 42
	FrameDelayMillis *int `mapstructure:"FrameDelayMillis" validate:"omitempty,gte=0"`

	// JoinTimeout 等待全部 stage 结束的超时时间，如 "30s"，为空表示一直等待
	// 超时后取消本次运行的 ctx，让仍阻塞的 stage 退出
	// optional default ""
	JoinTimeout string `mapstructure:"JoinTimeout"`

	// TransformFailurePolicy 转换失败处理方式，abort 或 skip
	// optional default "abort"
	TransformFailurePolicy FailurePolicy `mapstructure:"TransformFailurePolicy" validate:"omitempty,oneof=abort skip"`

	// CancelUpstream sink 提前退出（取消或渲染失败）时是否同时取消 source/transform
	// optional default false
	CancelUpstream bool `mapstructure:"CancelUpstream"`

	// DisableMonitor 是否禁用监控
	// optional default false
	DisableMonitor bool `mapstructure:"DisableMonitor"`
}

// FrameDelay 每帧展示后的等待时间
func (c *Config) FrameDelay() time.Duration {
	if c.FrameDelayMillis == nil {
		return defaultFrameDelayMillis * time.Millisecond
	}
	return time.Duration(*c.FrameDelayMillis) * time.Millisecond
}

// JoinTimeoutDuration 解析 JoinTimeout，未配置返回 0
func (c *Config) JoinTimeoutDuration() time.Duration {
	return xutil.ToDuration(c.JoinTimeout)
}

func configMergeDefault(c *Config) *Config {
	if c == nil {
		c = &Config{}
	}
	cp := *c
	cp.ChannelCapacity = xutil.GetOrDefault(cp.ChannelCapacity, defaultChannelCapacity)
	cp.TransformFailurePolicy = xutil.GetOrDefault(cp.TransformFailurePolicy, PolicyAbort)
	if cp.FrameDelayMillis == nil {
		cp.FrameDelayMillis = xutil.ToPtr(defaultFrameDelayMillis)
	}
	return &cp
}

var validate = validator.New()

func validateConfig(c *Config) error {
	if err := validate.Struct(c); err != nil {
		return xerror.Newf("xpipeline", "validateConfig", "%w", err)
	}
	if c.JoinTimeout != "" && c.JoinTimeoutDuration() <= 0 {
		return xerror.Newf("xpipeline", "validateConfig", "invalid JoinTimeout [%s]", c.JoinTimeout)
	}
	return nil
}

// GetConfig 获取 XPipeline 配置，未配置时使用默认值
func GetConfig() *Config {
	c := &Config{}
	if err := xconfig.UnmarshalConfig(XPipelineConfigKey, c); err != nil {
		xutil.WarnIfEnableDebug("XPlayer xpipeline unmarshal config failed, use default, err=[%v]", err)
		c = nil
	}
	return configMergeDefault(c)
}
