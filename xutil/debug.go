package xutil

import (
	"fmt"
	"os"
	"path"
	"runtime"
	"strings"

	"github.com/sirupsen/logrus"
)

// 这里的日志只用于 XPlayer 启动过程的 debug 输出，只会打印在屏幕上

const (
	DebugKey = "XPLAYER_ENABLE_DEBUG"

	debugFilePath      = "/xutil/debug.go"
	maximumCallerDepth = 25
	minimumCallerDepth = 4
)

var debugLogger = newDebugLogger()

// EnableDebug 是否启用 debug 模式
func EnableDebug() bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(DebugKey))) {
	case "true", "1", "t", "yes", "y", "on":
		return true
	default:
		return false
	}
}

func InfoIfEnableDebug(msg string, args ...any) {
	LogIfEnableDebug(logrus.InfoLevel, msg, args...)
}

func WarnIfEnableDebug(msg string, args ...any) {
	LogIfEnableDebug(logrus.WarnLevel, msg, args...)
}

func ErrorIfEnableDebug(msg string, args ...any) {
	LogIfEnableDebug(logrus.ErrorLevel, msg, args...)
}

func LogIfEnableDebug(level logrus.Level, msg string, args ...any) {
	if EnableDebug() {
		debugLogger.Logf(level, msg, args...)
	}
}

// GetLogCaller 返回第一个文件名不以 suffixToIgnore 结尾、且不属于 logrus 的调用栈
func GetLogCaller(callDepth int, suffixToIgnore []string) *runtime.Frame {
	pcs := make([]uintptr, maximumCallerDepth)
	depth := runtime.Callers(minimumCallerDepth+callDepth, pcs)
	frames := runtime.CallersFrames(pcs[:depth])

	var last *runtime.Frame
	for f, more := frames.Next(); ; f, more = frames.Next() {
		frame := f
		last = &frame
		if !ignoredCaller(f.File, suffixToIgnore) {
			return last
		}
		if !more {
			return last
		}
	}
}

func ignoredCaller(file string, suffixToIgnore []string) bool {
	if strings.Contains(file, "sirupsen/logrus") {
		return true
	}
	for _, s := range suffixToIgnore {
		if strings.HasSuffix(file, s) {
			return true
		}
	}
	return false
}

func debugCallerPretty(_ *runtime.Frame) (string, string) {
	frame := GetLogCaller(0, []string{debugFilePath})
	if frame == nil {
		return "", " ???"
	}
	return "", fmt.Sprintf(" \x1b[34m%s:%d\x1b[0m", path.Base(frame.File), frame.Line)
}

func newDebugLogger() *logrus.Logger {
	l := logrus.New()
	l.Formatter = &logrus.TextFormatter{
		ForceColors:      true,
		FullTimestamp:    true,
		TimestampFormat:  "2006-01-02 15:04:05.999",
		CallerPrettyfier: debugCallerPretty,
	}
	l.SetReportCaller(true)
	l.SetLevel(logrus.InfoLevel)
	l.SetOutput(os.Stdout)
	return l
}
