package xlog

import (
	"context"
	"maps"

	"github.com/sirupsen/logrus"
)

type ctxKVKey struct{}

func Error(ctx context.Context, msg string, args ...any) {
	RawLog(ctx, logrus.ErrorLevel, msg, args...)
}

func Warn(ctx context.Context, msg string, args ...any) {
	RawLog(ctx, logrus.WarnLevel, msg, args...)
}

func Info(ctx context.Context, msg string, args ...any) {
	RawLog(ctx, logrus.InfoLevel, msg, args...)
}

func Debug(ctx context.Context, msg string, args ...any) {
	RawLog(ctx, logrus.DebugLevel, msg, args...)
}

// RawLog args 中的 Option 作为附加字段，其余参数用于格式化 msg
func RawLog(ctx context.Context, level logrus.Level, msg string, args ...any) {
	if ctx == nil {
		ctx = context.Background()
	}
	if !logrus.IsLevelEnabled(level) {
		return
	}
	entry := logrus.WithContext(ctx)
	if len(args) == 0 {
		entry.Log(level, msg)
		return
	}

	fmtArgs := make([]any, 0, len(args))
	var opts *options
	for _, arg := range args {
		opt, ok := arg.(Option)
		if !ok {
			fmtArgs = append(fmtArgs, arg)
			continue
		}
		if opts == nil {
			opts = defaultOptions()
		}
		opt(opts)
	}
	if opts != nil {
		entry = entry.WithFields(opts.KV)
	}
	entry.Logf(level, msg, fmtArgs...)
}

// CtxWithKV 向 ctx 注入 kv，之后使用该 ctx 打印的日志都会带上这些字段
func CtxWithKV(ctx context.Context, kvs map[string]any) context.Context {
	merged := make(map[string]any, len(kvs))
	maps.Copy(merged, kvFromCtx(ctx))
	maps.Copy(merged, kvs)
	return context.WithValue(ctx, ctxKVKey{}, merged)
}

func kvFromCtx(ctx context.Context) map[string]any {
	if ctx == nil {
		return nil
	}
	kv, _ := ctx.Value(ctxKVKey{}).(map[string]any)
	return kv
}
