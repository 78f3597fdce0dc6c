package xconfig

const (
	ServerConfigKey = "Server"

	defaultServerName    = "xplayer"
	defaultServerVersion = "v0.0.1"
)

type Server struct {
	// Name 服务名，会写入日志与 trace resource
	// optional default "xplayer"
	Name string `mapstructure:"Name"`

	// Version 服务版本号
	// optional default "v0.0.1"
	Version string `mapstructure:"Version"`

	// Profiles 环境相关配置
	// optional default nil
	Profiles *Profiles `mapstructure:"Profiles"`
}

type Profiles struct {
	// Active 启用的环境，加载 application-<Active>.yml 覆盖基础配置
	Active string `mapstructure:"Active"`
}
