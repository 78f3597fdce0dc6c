package xconfig

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xiaoshicae/xplayer/xutil"

	"github.com/spf13/viper"
)

const (
	profilesActiveArgKey    = "server.profiles.active"
	profilesActiveEnvKey    = "SERVER_PROFILES_ACTIVE"
	profilesActiveConfigKey = ServerConfigKey + ".Profiles.Active"
)

func detectProfilesActive(vp *viper.Viper) string {
	if pa, _ := xutil.GetConfigFromArgs(profilesActiveArgKey); pa != "" {
		return pa
	}
	if pa := os.Getenv(profilesActiveEnvKey); pa != "" {
		return pa
	}
	if vp != nil {
		return vp.GetString(profilesActiveConfigKey)
	}
	return ""
}

// profileLocation application.yml + dev -> application-dev.yml
func profileLocation(configLocation, profile string) (string, error) {
	ext := filepath.Ext(configLocation)
	if ext == "" {
		return "", fmt.Errorf("config file [%s] has no extension", configLocation)
	}
	return strings.TrimSuffix(configLocation, ext) + "-" + profile + ext, nil
}

// mergeProfile profile 中的一级 key 整体覆盖基础配置，Server 下按二级 key 覆盖
func mergeProfile(base, profile *viper.Viper) *viper.Viper {
	vp := viper.New()
	for k, v := range base.AllSettings() {
		vp.Set(k, v)
	}
	for k, v := range profile.AllSettings() {
		if !strings.EqualFold(k, ServerConfigKey) {
			vp.Set(k, v)
			continue
		}
		server, ok := v.(map[string]any)
		if !ok {
			continue
		}
		for sk, sv := range server {
			if strings.EqualFold(sk, "profiles") {
				continue
			}
			vp.Set(k+"."+sk, sv)
		}
	}
	return vp
}
