package xconfig

import (
	"os"
	"path/filepath"
	"testing"

	. "github.com/bytedance/mockey"
	"github.com/smartystreets/goconvey/convey"
)

const baseYml = `
Server:
  Name: player.test
  Profiles:
    Active: dev
XPipeline:
  ChannelCapacity: 10
  MaxFrames: 72
XPlayer:
  Source: ${XPLAYER_TEST_SOURCE:-synthetic://72}
  Transform: grayscale
`

const devYml = `
Server:
  Version: v1.2.3
XPlayer:
  Source: ${XPLAYER_TEST_SOURCE:-synthetic://10}
  Transform: invert
`

func writeFile(t *testing.T, dir, name, content string) string {
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestLoad(t *testing.T) {
	PatchConvey("TestLoad", t, func() {
		Reset()
		dir := t.TempDir()
		loc := writeFile(t, dir, "application.yml", baseYml)

		PatchConvey("base + profile 合并", func() {
			writeFile(t, dir, "application-dev.yml", devYml)
			convey.So(Load(loc), convey.ShouldBeNil)

			convey.So(GetServerName(), convey.ShouldEqual, "player.test")
			convey.So(GetServerVersion(), convey.ShouldEqual, "v1.2.3")
			convey.So(GetString("XPlayer.Transform"), convey.ShouldEqual, "invert")
			convey.So(GetString("XPlayer.Source"), convey.ShouldEqual, "synthetic://10")
			convey.So(GetInt("XPipeline.MaxFrames"), convey.ShouldEqual, 72)
			convey.So(ContainKey("XPipeline.ChannelCapacity"), convey.ShouldBeTrue)
		})

		PatchConvey("环境变量占位符与 .env", func() {
			writeFile(t, dir, "application-dev.yml", devYml)
			writeFile(t, dir, ".env", "XPLAYER_TEST_SOURCE=/tmp/frames\n")
			t.Cleanup(func() { _ = os.Unsetenv("XPLAYER_TEST_SOURCE") })

			convey.So(Load(loc), convey.ShouldBeNil)
			convey.So(GetString("XPlayer.Source"), convey.ShouldEqual, "/tmp/frames")
			// 占位符展开不能遮住同级配置
			convey.So(GetString("XPlayer.Transform"), convey.ShouldEqual, "invert")
		})

		PatchConvey("profile 文件缺失", func() {
			err := Load(loc)
			convey.So(err, convey.ShouldNotBeNil)
			convey.So(err.Error(), convey.ShouldContainSubstring, "application-dev.yml")
		})

		PatchConvey("配置文件缺失", func() {
			convey.So(Load(filepath.Join(dir, "missing.yml")), convey.ShouldNotBeNil)
		})
	})
}

func TestSet(t *testing.T) {
	PatchConvey("TestSet", t, func() {
		Reset()
		convey.So(GetServerName(), convey.ShouldEqual, defaultServerName)

		Set("XPipeline.ChannelCapacity", 4)
		Set("XPipeline.MaxFrames", 8)
		convey.So(GetInt("XPipeline.ChannelCapacity"), convey.ShouldEqual, 4)
		convey.So(GetInt("XPipeline.MaxFrames"), convey.ShouldEqual, 8)

		var c struct {
			ChannelCapacity int `mapstructure:"ChannelCapacity"`
			MaxFrames       int `mapstructure:"MaxFrames"`
		}
		convey.So(UnmarshalConfig("XPipeline", &c), convey.ShouldBeNil)
		convey.So(c.ChannelCapacity, convey.ShouldEqual, 4)
		convey.So(c.MaxFrames, convey.ShouldEqual, 8)
		Reset()
	})
}

func TestUnmarshalConfigParam(t *testing.T) {
	PatchConvey("TestUnmarshalConfigParam", t, func() {
		var c struct{}
		convey.So(UnmarshalConfig("", &c), convey.ShouldNotBeNil)
		convey.So(UnmarshalConfig("k", nil), convey.ShouldNotBeNil)
		convey.So(UnmarshalConfig("k", c), convey.ShouldNotBeNil)
	})
}

func TestProfileLocation(t *testing.T) {
	PatchConvey("TestProfileLocation", t, func() {
		loc, err := profileLocation("./conf/application.yml", "prod")
		convey.So(err, convey.ShouldBeNil)
		convey.So(loc, convey.ShouldEqual, "./conf/application-prod.yml")

		_, err = profileLocation("./conf/application", "prod")
		convey.So(err, convey.ShouldNotBeNil)
	})
}

func TestDetectConfigLocation(t *testing.T) {
	PatchConvey("TestDetectConfigLocation", t, func() {
		PatchConvey("env 优先于默认路径", func() {
			t.Setenv(configLocationEnvKey, "/etc/xplayer/application.yml")
			convey.So(detectConfigLocation(), convey.ShouldEqual, "/etc/xplayer/application.yml")
		})

		PatchConvey("都没有", func() {
			t.Setenv(configLocationEnvKey, "")
			MockValue(&configLocationPaths).To([]string{"./not-exist.yml"})
			convey.So(detectConfigLocation(), convey.ShouldBeEmpty)
		})
	})
}
