package xlog

import (
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/xiaoshicae/xplayer/xconfig"
	"github.com/xiaoshicae/xplayer/xerror"
	"github.com/xiaoshicae/xplayer/xhook"
	"github.com/xiaoshicae/xplayer/xutil"

	rotatelogs "github.com/lestrrat-go/file-rotatelogs"
	"github.com/sirupsen/logrus"
	logwriter "github.com/sirupsen/logrus/hooks/writer"
)

func init() {
	xhook.BeforeStart(initXLog, xhook.Order(2))
}

func initXLog() error {
	c := &Config{}
	if err := xconfig.UnmarshalConfig(XLogConfigKey, c); err != nil {
		return xerror.Newf("xlog", "init", "unmarshal config failed, err=[%w]", err)
	}
	c = configMergeDefault(c)
	xutil.InfoIfEnableDebug("XPlayer initXLog got config: %s", xutil.ToJsonString(c))
	return initXLogByConfig(c)
}

func initXLogByConfig(c *Config) error {
	if err := os.MkdirAll(c.Path, os.ModePerm); err != nil {
		return xerror.Newf("xlog", "init", "mkdir [%s] failed, err=[%w]", c.Path, err)
	}

	logFile := filepath.Join(c.Path, c.Name+".log")
	fileWriter, err := rotatelogs.New(
		logFile+".%Y%m%d",
		rotatelogs.WithLinkName(logFile),
		rotatelogs.WithMaxAge(xutil.ToDuration(c.MaxAge)),
		rotatelogs.WithRotationTime(xutil.ToDuration(c.RotateTime)),
	)
	if err != nil {
		return xerror.Newf("xlog", "init", "rotatelogs.New failed, err=[%w]", err)
	}
	xhook.BeforeStop(func() error {
		return fileWriter.Close()
	}, xhook.Order(1000))

	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		xutil.WarnIfEnableDebug("XPlayer initXLog load timezone [%s] failed, use Local, err=[%v]", c.Timezone, err)
		loc = time.Local
	}

	logger := logrus.StandardLogger()
	logger.ReplaceHooks(make(logrus.LevelHooks))
	logger.SetOutput(io.Discard)
	logger.SetFormatter(timeFormatter{
		Formatter: &logrus.JSONFormatter{
			TimestampFormat: "2006-01-02 15:04:05.999",
			CallerPrettyfier: func(*runtime.Frame) (string, string) {
				return "", ""
			},
		},
		Location: loc,
	})
	logger.AddHook(&xLogHook{
		ServerName:         xconfig.GetServerName(),
		Pid:                strconv.Itoa(os.Getpid()),
		Console:            *c.Console,
		ConsoleFormatIsRaw: c.ConsoleFormatIsRaw,
		Writer:             os.Stdout,
	})
	logger.AddHook(&logwriter.Hook{
		Writer:    fileWriter,
		LogLevels: enabledLevels(c.Level),
	})

	level, err := logrus.ParseLevel(c.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
	return nil
}

// enabledLevels 写入文件的级别，未知级别按 info 处理
func enabledLevels(l string) []logrus.Level {
	level, err := logrus.ParseLevel(strings.ToLower(l))
	if err != nil {
		level = logrus.InfoLevel
	}
	levels := make([]logrus.Level, 0, len(logrus.AllLevels))
	for _, lv := range logrus.AllLevels {
		if lv <= level {
			levels = append(levels, lv)
		}
	}
	return levels
}
