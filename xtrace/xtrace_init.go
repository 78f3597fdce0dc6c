package xtrace

import (
	"context"
	"time"

	"github.com/xiaoshicae/xplayer/xconfig"
	"github.com/xiaoshicae/xplayer/xerror"
	"github.com/xiaoshicae/xplayer/xhook"
	"github.com/xiaoshicae/xplayer/xutil"

	"go.opentelemetry.io/contrib/propagators/b3"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

const defaultShutdownTimeout = 5 * time.Second

var shutdownFunc func() error

func init() {
	xhook.BeforeStart(initXTrace, xhook.Order(3))
	xhook.BeforeStop(shutdownXTrace, xhook.Order(900))
}

func initXTrace() error {
	c := &Config{}
	if err := xconfig.UnmarshalConfig(XTraceConfigKey, c); err != nil {
		return xerror.Newf("xtrace", "init", "unmarshal config failed, err=[%w]", err)
	}
	return initXTraceByConfig(configMergeDefault(c), xconfig.GetServerName(), xconfig.GetServerVersion())
}

func initXTraceByConfig(c *Config, serviceName, serviceVersion string) error {
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
		b3.New(b3.WithInjectEncoding(b3.B3MultipleHeader)),
	))

	if !*c.Enable {
		otel.SetTracerProvider(noop.NewTracerProvider())
		xutil.InfoIfEnableDebug("XPlayer initXTrace ignored, XTrace.Enable=false")
		return nil
	}

	r, err := resource.New(context.Background(),
		resource.WithFromEnv(),
		resource.WithProcess(),
		resource.WithTelemetrySDK(),
		resource.WithAttributes(
			attribute.String("service.name", serviceName),
			attribute.String("service.version", serviceVersion),
		),
	)
	if err != nil {
		return xerror.Newf("xtrace", "init", "resource.New failed, err=[%w]", err)
	}

	opts := []sdktrace.TracerProviderOption{
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithResource(r),
	}
	if c.Console {
		exporter, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
		if err != nil {
			return xerror.Newf("xtrace", "init", "stdouttrace.New failed, err=[%w]", err)
		}
		opts = append(opts, sdktrace.WithBatcher(exporter))
	}

	tp := sdktrace.NewTracerProvider(opts...)
	otel.SetTracerProvider(tp)
	shutdownFunc = func() error {
		ctx, cancel := context.WithTimeout(context.Background(), defaultShutdownTimeout)
		defer cancel()
		return tp.Shutdown(ctx)
	}
	return nil
}

func shutdownXTrace() error {
	fn := shutdownFunc
	shutdownFunc = nil
	if fn == nil {
		return nil
	}
	return fn()
}

// Tracer 返回 XPlayer 各模块使用的 tracer
func Tracer(name string) trace.Tracer {
	return otel.Tracer("github.com/xiaoshicae/xplayer/" + name)
}
