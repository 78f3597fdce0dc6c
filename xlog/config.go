package xlog

const XLogConfigKey = "XLog"

type Config struct {
	// Level 日志级别
	// optional default "info"
	Level string `mapstructure:"Level"`

	// Name 日志文件名称
	// optional default "xplayer"
	Name string `mapstructure:"Name"`

	// Path 日志目录
	// optional default "./log"
	Path string `mapstructure:"Path"`

	// Console 是否同时打印到控制台
	// optional default true
	Console *bool `mapstructure:"Console"`

	// ConsoleFormatIsRaw 控制台是否直接打印 json 原文
	// optional default false
	ConsoleFormatIsRaw bool `mapstructure:"ConsoleFormatIsRaw"`

	// MaxAge 日志保留时长
	// optional default "7d"
	MaxAge string `mapstructure:"MaxAge"`

	// RotateTime 日志切割周期
	// optional default "1d"
	RotateTime string `mapstructure:"RotateTime"`

	// Timezone 日志时间时区
	// optional default "Local"
	Timezone string `mapstructure:"Timezone"`
}

func configMergeDefault(c *Config) *Config {
	if c == nil {
		c = &Config{}
	}
	if c.Level == "" {
		c.Level = "info"
	}
	if c.Name == "" {
		c.Name = "xplayer"
	}
	if c.Path == "" {
		c.Path = "./log"
	}
	if c.Console == nil {
		console := true
		c.Console = &console
	}
	if c.MaxAge == "" {
		c.MaxAge = "7d"
	}
	if c.RotateTime == "" {
		c.RotateTime = "1d"
	}
	if c.Timezone == "" {
		c.Timezone = "Local"
	}
	return c
}
