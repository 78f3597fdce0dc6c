package xconfig

import (
	"os"

	"github.com/xiaoshicae/xplayer/xutil"
)

const (
	configLocationArgKey = "server.config.location"
	configLocationEnvKey = "SERVER_CONFIG_LOCATION"
)

// configLocationPaths 默认搜索路径，按优先级排列
var configLocationPaths = []string{
	"./application.yml",
	"./application.yaml",
	"./conf/application.yml",
	"./conf/application.yaml",
	"./config/application.yml",
	"./config/application.yaml",
}

// detectConfigLocation 依次从启动参数、环境变量、默认路径探测配置文件
func detectConfigLocation() string {
	if loc, _ := xutil.GetConfigFromArgs(configLocationArgKey); loc != "" {
		xutil.InfoIfEnableDebug("XPlayer detect config location [%s] from arg", loc)
		return loc
	}
	if loc := os.Getenv(configLocationEnvKey); loc != "" {
		xutil.InfoIfEnableDebug("XPlayer detect config location [%s] from env", loc)
		return loc
	}
	for _, loc := range configLocationPaths {
		if xutil.FileExist(loc) {
			xutil.InfoIfEnableDebug("XPlayer detect config location [%s] from current dir", loc)
			return loc
		}
	}
	return ""
}
