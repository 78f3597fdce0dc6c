package xrender

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"image/jpeg"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/xiaoshicae/xplayer/xframe"

	. "github.com/bytedance/mockey"
	. "github.com/smartystreets/goconvey/convey"
)

func testFrame() *xframe.Frame {
	f, _ := xframe.New(4, 2, xframe.BGR24)
	for i := range f.Pix {
		f.Pix[i] = 128
	}
	return f
}

func TestNew(t *testing.T) {
	PatchConvey("TestNew", t, func() {
		r, err := New(nil)
		So(err, ShouldBeNil)
		_, ok := r.(*LogRenderer)
		So(ok, ShouldBeTrue)

		r, err = New(&Config{Type: TypeDir, Dir: "/tmp/x"})
		So(err, ShouldBeNil)
		So(r.(*DirRenderer).Dir(), ShouldEqual, "/tmp/x")

		r, err = New(&Config{Type: TypeHTTP})
		So(err, ShouldBeNil)
		So(r.(*HTTPRenderer).addr, ShouldEqual, defaultHTTPAddr)

		_, err = New(&Config{Type: "window"})
		So(err, ShouldNotBeNil)
	})
}

func TestLogRenderer(t *testing.T) {
	PatchConvey("TestLogRenderer-CancelAfter", t, func() {
		r := NewLogRenderer(2)
		So(r.Show(context.Background(), testFrame()), ShouldBeNil)
		So(r.PollCancel(), ShouldBeFalse)
		So(r.Show(context.Background(), testFrame()), ShouldBeNil)
		So(r.PollCancel(), ShouldBeTrue)
		So(r.ReleaseSurface(), ShouldBeNil)
		So(r.Shown(), ShouldEqual, 0)
		So(r.PollCancel(), ShouldBeFalse)
	})

	PatchConvey("TestLogRenderer-InvalidFrame", t, func() {
		r := NewLogRenderer(0)
		err := r.Show(context.Background(), &xframe.Frame{Width: 2, Height: 2, Format: xframe.BGR24})
		So(err, ShouldNotBeNil)
		So(r.PollCancel(), ShouldBeFalse)
	})
}

func TestDirRenderer(t *testing.T) {
	PatchConvey("TestDirRenderer", t, func() {
		dir := filepath.Join(t.TempDir(), "out")
		r := NewDirRenderer(dir)
		So(r.Show(context.Background(), testFrame()), ShouldBeNil)
		So(r.Show(context.Background(), testFrame()), ShouldBeNil)
		So(r.PollCancel(), ShouldBeFalse)

		entries, err := os.ReadDir(dir)
		So(err, ShouldBeNil)
		So(len(entries), ShouldEqual, 2)
		So(entries[0].Name(), ShouldEqual, "frame_000000.png")
		So(r.ReleaseSurface(), ShouldBeNil)
	})

	PatchConvey("TestDirRenderer-MkdirErr", t, func() {
		file := filepath.Join(t.TempDir(), "file")
		So(os.WriteFile(file, []byte("x"), 0o644), ShouldBeNil)
		r := NewDirRenderer(filepath.Join(file, "sub"))
		So(r.Show(context.Background(), testFrame()), ShouldNotBeNil)
	})
}

func TestHTTPRenderer(t *testing.T) {
	PatchConvey("TestHTTPRenderer-Handler", t, func() {
		r := NewHTTPRenderer("127.0.0.1:0")
		srv := httptest.NewServer(r.Handler())
		defer srv.Close()

		resp, err := http.Get(srv.URL + "/frame")
		So(err, ShouldBeNil)
		So(resp.StatusCode, ShouldEqual, http.StatusNotFound)
		resp.Body.Close()

		r.mu.Lock()
		r.latest, r.shown = testFrame(), 1
		r.mu.Unlock()

		resp, err = http.Get(srv.URL + "/frame")
		So(err, ShouldBeNil)
		So(resp.StatusCode, ShouldEqual, http.StatusOK)
		So(resp.Header.Get("Content-Type"), ShouldEqual, "image/jpeg")
		img, err := jpeg.Decode(resp.Body)
		resp.Body.Close()
		So(err, ShouldBeNil)
		So(img.Bounds().Dx(), ShouldEqual, 4)

		resp, err = http.Get(srv.URL + "/frame?format=base64")
		So(err, ShouldBeNil)
		var buf bytes.Buffer
		_, _ = buf.ReadFrom(resp.Body)
		resp.Body.Close()
		raw, err := base64.StdEncoding.DecodeString(buf.String())
		So(err, ShouldBeNil)
		_, err = jpeg.Decode(bytes.NewReader(raw))
		So(err, ShouldBeNil)

		resp, err = http.Get(srv.URL + "/stats")
		So(err, ShouldBeNil)
		var stats Stats
		So(json.NewDecoder(resp.Body).Decode(&stats), ShouldBeNil)
		resp.Body.Close()
		So(stats.Shown, ShouldEqual, 1)
		So(stats.Format, ShouldEqual, "BGR24")
		So(stats.Stopped, ShouldBeFalse)

		So(r.PollCancel(), ShouldBeFalse)
		resp, err = http.Post(srv.URL+"/stop", "application/json", nil)
		So(err, ShouldBeNil)
		resp.Body.Close()
		So(resp.StatusCode, ShouldEqual, http.StatusAccepted)
		So(r.PollCancel(), ShouldBeTrue)

		resp, err = http.Get(srv.URL + "/stop")
		So(err, ShouldBeNil)
		resp.Body.Close()
		So(resp.StatusCode, ShouldEqual, http.StatusMethodNotAllowed)
	})

	PatchConvey("TestHTTPRenderer-ListenAndRelease", t, func() {
		r := NewHTTPRenderer("127.0.0.1:0")
		So(r.Addr(), ShouldEqual, "")
		So(r.Show(context.Background(), testFrame()), ShouldBeNil)
		So(r.Show(context.Background(), testFrame()), ShouldBeNil)
		addr := r.Addr()
		So(addr, ShouldNotEqual, "")

		resp, err := http.Get("http://" + addr + "/stats")
		So(err, ShouldBeNil)
		var stats Stats
		So(json.NewDecoder(resp.Body).Decode(&stats), ShouldBeNil)
		resp.Body.Close()
		So(stats.Shown, ShouldEqual, 2)

		r.stopped.Store(true)
		So(r.ReleaseSurface(), ShouldBeNil)
		So(r.Addr(), ShouldEqual, "")
		So(r.PollCancel(), ShouldBeFalse)
		_, err = http.Get("http://" + addr + "/stats")
		So(err, ShouldNotBeNil)
		So(r.ReleaseSurface(), ShouldBeNil)
	})

	PatchConvey("TestHTTPRenderer-ListenErr", t, func() {
		r := NewHTTPRenderer("256.0.0.1:1")
		err := r.Show(context.Background(), testFrame())
		So(err, ShouldNotBeNil)
		So(err.Error(), ShouldContainSubstring, "listen")
	})
}
