package xconfig

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/xiaoshicae/xplayer/xerror"
	"github.com/xiaoshicae/xplayer/xhook"
	"github.com/xiaoshicae/xplayer/xutil"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const dotEnvFileName = ".env"

// ${VAR} 或 ${VAR:-default}
var envPlaceholderRegex = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

func init() {
	xhook.BeforeStart(initXConfig, xhook.Order(1))
}

func initXConfig() error {
	loc := detectConfigLocation()
	if loc == "" {
		xutil.WarnIfEnableDebug("XPlayer config file not found, use default config")
		return nil
	}
	return Load(loc)
}

// Load 加载指定位置的配置文件（含同目录 .env 与激活的 profile）
func Load(location string) error {
	if err := loadDotEnvIfExist(location); err != nil {
		return xerror.Newf("xconfig", "init", "load .env failed, err=[%w]", err)
	}
	vp, err := parseConfig(location)
	if err != nil {
		return xerror.New("xconfig", "init", err)
	}
	if xutil.EnableDebug() {
		fmt.Printf("********** XPlayer load config **********\n%s\n", xutil.ToJsonStringIndent(vp.AllSettings()))
	}
	setViperConfig(vp)
	return nil
}

func loadDotEnvIfExist(location string) error {
	envFile := filepath.Join(filepath.Dir(location), dotEnvFileName)
	if !xutil.FileExist(envFile) {
		return nil
	}
	return godotenv.Load(envFile)
}

func parseConfig(location string) (*viper.Viper, error) {
	vp, err := readConfigFile(location)
	if err != nil {
		return nil, fmt.Errorf("read config [%s] failed, err=[%w]", location, err)
	}

	if profile := detectProfilesActive(vp); profile != "" {
		profileLoc, err := profileLocation(location, profile)
		if err != nil {
			return nil, err
		}
		pvp, err := readConfigFile(profileLoc)
		if err != nil {
			return nil, fmt.Errorf("read profile config [%s] failed, err=[%w]", profileLoc, err)
		}
		vp = mergeProfile(vp, pvp)
	}

	expandEnvPlaceholders(vp)
	return vp, nil
}

func readConfigFile(location string) (*viper.Viper, error) {
	vp := viper.New()
	vp.SetConfigFile(location)
	if err := vp.ReadInConfig(); err != nil {
		return nil, err
	}
	return vp, nil
}

// expandEnvPlaceholders 展开字符串配置中的环境变量占位符
func expandEnvPlaceholders(vp *viper.Viper) {
	expansions := make(map[string]any)
	for _, key := range vp.AllKeys() {
		raw, ok := vp.Get(key).(string)
		if !ok || !strings.Contains(raw, "${") {
			continue
		}
		expanded := envPlaceholderRegex.ReplaceAllStringFunc(raw, func(match string) string {
			m := envPlaceholderRegex.FindStringSubmatch(match)
			if len(m) < 3 {
				return match
			}
			if v := os.Getenv(m[1]); v != "" {
				return v
			}
			return m[2]
		})
		if expanded != raw {
			expansions[key] = expanded
		}
	}
	if len(expansions) > 0 {
		applyNested(vp, expansions)
	}
}

// applyNested 直接 Set 嵌套 key 会让 override 遮住同级的其他配置，
// 因此在 AllSettings 上修改后按一级 key 整体写回
func applyNested(vp *viper.Viper, values map[string]any) {
	all := vp.AllSettings()
	for key, val := range values {
		setNestedValue(all, strings.ToLower(key), val)
	}
	for k, v := range all {
		vp.Set(k, v)
	}
}

func setNestedValue(m map[string]any, key string, value any) {
	keys := strings.Split(key, ".")
	current := m
	for _, k := range keys[:len(keys)-1] {
		next, ok := current[k].(map[string]any)
		if !ok {
			next = make(map[string]any)
			current[k] = next
		}
		current = next
	}
	current[keys[len(keys)-1]] = value
}
