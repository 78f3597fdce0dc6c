package xlog

import (
	"context"
	"fmt"
	"io"
	"path"
	"runtime"
	"strings"
	"time"

	"github.com/xiaoshicae/xplayer/xutil"

	"github.com/sirupsen/logrus"
)

const (
	colorRed    = 31
	colorYellow = 33
	colorBlue   = 36
	colorGray   = 37
)

var callerIgnoreSuffixes = []string{
	"/xlog/util.go",
	"/xlog/xlog_hook.go",
}

// xLogHook 补充公共字段，并按需打印到控制台
type xLogHook struct {
	ServerName         string
	Pid                string
	Console            bool
	ConsoleFormatIsRaw bool
	Writer             io.Writer
}

func (h *xLogHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (h *xLogHook) Fire(entry *logrus.Entry) error {
	if _, ok := entry.Data["servername"]; !ok {
		entry.Data["servername"] = h.ServerName
	}
	entry.Data["pid"] = h.Pid

	caller := entry.Caller
	if caller == nil {
		caller = xutil.GetLogCaller(0, callerIgnoreSuffixes)
	}
	if caller != nil {
		entry.Data["filename"] = fmt.Sprintf("%s:%d", path.Base(caller.File), caller.Line)
	}

	if traceID := xutil.GetTraceIDFromCtx(entry.Context); traceID != "" {
		entry.Data["traceid"] = traceID
		entry.Data["spanid"] = xutil.GetSpanIDFromCtx(entry.Context)
	}
	for k, v := range kvFromCtx(entry.Context) {
		entry.Data[k] = v
	}

	if !h.Console {
		return nil
	}
	return h.printConsole(entry, caller)
}

func (h *xLogHook) printConsole(entry *logrus.Entry, caller *runtime.Frame) error {
	if h.ConsoleFormatIsRaw {
		line, err := entry.Bytes()
		if err != nil {
			return err
		}
		_, err = h.Writer.Write(line)
		return err
	}

	fileName := "???"
	if caller != nil {
		fileName = fmt.Sprintf("%s:%d", path.Base(caller.File), caller.Line)
	}
	traceID, _ := entry.Data["traceid"].(string)
	msg := fmt.Sprintf("\x1b[%dm%s\x1b[0m[%s] \x1b[34m%s\x1b[0m %s %s\n",
		levelColor(entry.Level),
		strings.ToUpper(entry.Level.String()),
		entry.Time.Format("2006-01-02 15:04:05.999"),
		fileName, traceID, entry.Message)
	_, err := io.WriteString(h.Writer, msg)
	return err
}

func levelColor(l logrus.Level) int {
	switch l {
	case logrus.DebugLevel, logrus.TraceLevel:
		return colorGray
	case logrus.WarnLevel:
		return colorYellow
	case logrus.ErrorLevel, logrus.FatalLevel, logrus.PanicLevel:
		return colorRed
	default:
		return colorBlue
	}
}

// timeFormatter 按配置时区格式化时间，复制 entry 避免多 writer 并发修改
type timeFormatter struct {
	logrus.Formatter
	Location *time.Location
}

func (t timeFormatter) Format(e *logrus.Entry) ([]byte, error) {
	cp := *e
	if cp.Context == nil {
		cp.Context = context.Background()
	}
	if t.Location != nil {
		cp.Time = cp.Time.In(t.Location)
	}
	return t.Formatter.Format(&cp)
}
