package xutil

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/bytedance/mockey"
	c "github.com/smartystreets/goconvey/convey"
	"go.opentelemetry.io/otel/trace"
)

func TestGetOrDefault(t *testing.T) {
	mockey.PatchConvey("TestGetOrDefault", t, func() {
		c.So(GetOrDefault(0, 10), c.ShouldEqual, 10)
		c.So(GetOrDefault(3, 10), c.ShouldEqual, 3)
		c.So(GetOrDefault("", "log"), c.ShouldEqual, "log")
		c.So(GetOrDefault("http", "log"), c.ShouldEqual, "http")
		c.So(*ToPtr(42), c.ShouldEqual, 42)
	})
}

func TestAtLeast(t *testing.T) {
	mockey.PatchConvey("TestAtLeast", t, func() {
		c.So(AtLeast(0, 1), c.ShouldEqual, 1)
		c.So(AtLeast(-5, 1), c.ShouldEqual, 1)
		c.So(AtLeast(10, 1), c.ShouldEqual, 10)
	})
}

func TestToDuration(t *testing.T) {
	mockey.PatchConvey("TestToDuration", t, func() {
		c.So(ToDuration(nil), c.ShouldEqual, 0)
		c.So(ToDuration("42ms"), c.ShouldEqual, 42*time.Millisecond)
		c.So(ToDuration("1d"), c.ShouldEqual, 24*time.Hour)
		c.So(ToDuration("2d12h"), c.ShouldEqual, 60*time.Hour)
		s := "3s"
		c.So(ToDuration(&s), c.ShouldEqual, 3*time.Second)
		c.So(ToDuration((*string)(nil)), c.ShouldEqual, 0)
		c.So(ToDuration(5*time.Second), c.ShouldEqual, 5*time.Second)
	})
}

func TestLookupArg(t *testing.T) {
	mockey.PatchConvey("TestLookupArg", t, func() {
		mockey.PatchConvey("空格写法", func() {
			v, err := lookupArg([]string{"--server.config.location", "a.yml"}, "server.config.location")
			c.So(err, c.ShouldBeNil)
			c.So(v, c.ShouldEqual, "a.yml")
		})

		mockey.PatchConvey("等号写法", func() {
			v, err := lookupArg([]string{"-x", "--server.profiles.active=dev"}, "server.profiles.active")
			c.So(err, c.ShouldBeNil)
			c.So(v, c.ShouldEqual, "dev")
		})

		mockey.PatchConvey("缺少值", func() {
			_, err := lookupArg([]string{"--k"}, "k")
			c.So(err, c.ShouldNotBeNil)
		})

		mockey.PatchConvey("非法 key", func() {
			_, err := lookupArg([]string{"--k"}, "1 k")
			c.So(err, c.ShouldNotBeNil)
		})

		mockey.PatchConvey("未找到", func() {
			_, err := lookupArg(nil, "k")
			c.So(err, c.ShouldNotBeNil)
		})
	})
}

func TestFileExist(t *testing.T) {
	mockey.PatchConvey("TestFileExist", t, func() {
		dir := t.TempDir()
		f := filepath.Join(dir, "a.txt")
		c.So(os.WriteFile(f, []byte("x"), 0o644), c.ShouldBeNil)

		c.So(FileExist(f), c.ShouldBeTrue)
		c.So(FileExist(dir), c.ShouldBeFalse)
		c.So(DirExist(dir), c.ShouldBeTrue)
		c.So(DirExist(f), c.ShouldBeFalse)
		c.So(FileExist(filepath.Join(dir, "missing")), c.ShouldBeFalse)
	})
}

func TestEnableDebug(t *testing.T) {
	mockey.PatchConvey("TestEnableDebug", t, func() {
		t.Setenv(DebugKey, "on")
		c.So(EnableDebug(), c.ShouldBeTrue)
		t.Setenv(DebugKey, "no")
		c.So(EnableDebug(), c.ShouldBeFalse)
		c.So(func() { InfoIfEnableDebug("hello %d", 1) }, c.ShouldNotPanic)
	})
}

func TestGetFuncInfo(t *testing.T) {
	mockey.PatchConvey("TestGetFuncInfo", t, func() {
		file, line, name := GetFuncInfo(TestGetFuncInfo)
		c.So(file, c.ShouldEndWith, "xutil_test.go")
		c.So(line, c.ShouldBeGreaterThan, 0)
		c.So(name, c.ShouldEqual, "TestGetFuncInfo")

		_, _, name = GetFuncInfo("not a func")
		c.So(name, c.ShouldBeEmpty)
		_, _, name = GetFuncInfo(nil)
		c.So(name, c.ShouldBeEmpty)
	})
}

func TestTraceIDFromCtx(t *testing.T) {
	mockey.PatchConvey("TestTraceIDFromCtx", t, func() {
		c.So(GetTraceIDFromCtx(context.Background()), c.ShouldBeEmpty)

		sc := trace.NewSpanContext(trace.SpanContextConfig{
			TraceID: trace.TraceID{1},
			SpanID:  trace.SpanID{2},
		})
		ctx := trace.ContextWithSpanContext(context.Background(), sc)
		c.So(GetTraceIDFromCtx(ctx), c.ShouldEqual, sc.TraceID().String())
		c.So(GetSpanIDFromCtx(ctx), c.ShouldEqual, sc.SpanID().String())
	})
}

func TestToJsonString(t *testing.T) {
	mockey.PatchConvey("TestToJsonString", t, func() {
		c.So(ToJsonString(map[string]int{"a": 1}), c.ShouldEqual, `{"a":1}`)
		c.So(IsSlice([]int{1}), c.ShouldBeTrue)
		c.So(IsSlice(1), c.ShouldBeFalse)
	})
}
