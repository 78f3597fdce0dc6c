package xrender

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"image/jpeg"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/xiaoshicae/xplayer/xerror"
	"github.com/xiaoshicae/xplayer/xframe"
	"github.com/xiaoshicae/xplayer/xlog"
	"github.com/xiaoshicae/xplayer/xutil"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	framePath = "/frame"
	statsPath = "/stats"
	stopPath  = "/stop"

	jpegQuality          = 85
	defaultShutdownAfter = 5 * time.Second
)

// HTTPRenderer 浏览器预览：GET /frame 返回最新一帧（JPEG，?format=base64 返回 base64 文本），
// GET /stats 返回统计，POST /stop 请求停止播放
// 首次 Show 时开始监听，ReleaseSurface 时关闭服务
type HTTPRenderer struct {
	addr    string
	handler http.Handler

	mu        sync.RWMutex
	latest    *xframe.Frame
	shown     int
	lastShown time.Time
	srv       *http.Server
	boundAddr string

	stopped atomic.Bool
}

// Stats GET /stats 返回内容
type Stats struct {
	Shown     int       `json:"shown"`
	Width     int       `json:"width"`
	Height    int       `json:"height"`
	Format    string    `json:"format"`
	Stopped   bool      `json:"stopped"`
	LastShown time.Time `json:"lastShown"`
}

func NewHTTPRenderer(addr string) *HTTPRenderer {
	r := &HTTPRenderer{addr: addr}
	r.handler = otelhttp.NewHandler(r.engine(), "xrender.preview")
	return r
}

func (r *HTTPRenderer) engine() *gin.Engine {
	if xutil.EnableDebug() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	e := gin.New()
	e.HandleMethodNotAllowed = true
	e.Use(recoverMiddleware(), logMiddleware())
	e.GET(framePath, r.handleFrame)
	e.GET(statsPath, r.handleStats)
	e.POST(stopPath, r.handleStop)
	return e
}

// Handler 预览服务的 http.Handler
func (r *HTTPRenderer) Handler() http.Handler {
	return r.handler
}

// Addr 实际监听地址，未启动时返回空
func (r *HTTPRenderer) Addr() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.boundAddr
}

func (r *HTTPRenderer) Show(ctx context.Context, f *xframe.Frame) error {
	if err := f.Validate(); err != nil {
		return err
	}
	if err := r.listen(ctx); err != nil {
		return err
	}
	r.mu.Lock()
	r.latest = f
	r.shown++
	r.lastShown = time.Now()
	r.mu.Unlock()
	return nil
}

func (r *HTTPRenderer) PollCancel() bool {
	return r.stopped.Load()
}

// ReleaseSurface 关闭预览服务并清空状态，同一个实例可以用于下一次运行
func (r *HTTPRenderer) ReleaseSurface() error {
	r.mu.Lock()
	srv := r.srv
	r.srv, r.boundAddr, r.latest, r.shown = nil, "", nil, 0
	r.mu.Unlock()
	r.stopped.Store(false)

	if srv == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), defaultShutdownAfter)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return xerror.Newf("xrender", "release", "preview server shutdown failed, err=[%w]", err)
	}
	return nil
}

func (r *HTTPRenderer) listen(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.srv != nil {
		return nil
	}
	ln, err := net.Listen("tcp", r.addr)
	if err != nil {
		return xerror.Newf("xrender", "listen", "listen [%s] failed, err=[%w]", r.addr, err)
	}
	srv := &http.Server{Handler: r.handler, ReadHeaderTimeout: 5 * time.Second}
	r.srv, r.boundAddr = srv, ln.Addr().String()
	xlog.Info(ctx, "[xrender] preview server listen on: http://%s%s", r.boundAddr, framePath)

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			xlog.Error(context.Background(), "[xrender] preview server stopped, err=[%v]", err)
		}
	}()
	return nil
}

func (r *HTTPRenderer) handleFrame(c *gin.Context) {
	r.mu.RLock()
	f := r.latest
	r.mu.RUnlock()
	if f == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no frame shown yet"})
		return
	}

	img, err := f.ToImage()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if c.Query("format") == "base64" {
		c.String(http.StatusOK, base64.StdEncoding.EncodeToString(buf.Bytes()))
		return
	}
	c.Data(http.StatusOK, "image/jpeg", buf.Bytes())
}

func (r *HTTPRenderer) handleStats(c *gin.Context) {
	c.JSON(http.StatusOK, r.Stats())
}

func (r *HTTPRenderer) handleStop(c *gin.Context) {
	r.stopped.Store(true)
	xlog.Info(c.Request.Context(), "[xrender] stop requested from preview")
	c.JSON(http.StatusAccepted, gin.H{"stopped": true})
}

func (r *HTTPRenderer) Stats() Stats {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s := Stats{Shown: r.shown, Stopped: r.stopped.Load(), LastShown: r.lastShown}
	if r.latest != nil {
		s.Width, s.Height, s.Format = r.latest.Width, r.latest.Height, r.latest.Format.String()
	}
	return s
}
