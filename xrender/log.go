package xrender

import (
	"context"
	"sync"

	"github.com/xiaoshicae/xplayer/xframe"
	"github.com/xiaoshicae/xplayer/xlog"
)

// LogRenderer 无界面渲染，每帧打一条日志
type LogRenderer struct {
	cancelAfter int

	mu    sync.Mutex
	shown int
}

func NewLogRenderer(cancelAfter int) *LogRenderer {
	return &LogRenderer{cancelAfter: cancelAfter}
}

func (r *LogRenderer) Show(ctx context.Context, f *xframe.Frame) error {
	if err := f.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	idx := r.shown
	r.shown++
	r.mu.Unlock()
	xlog.Info(ctx, "[xrender] displaying frame %d, %s", idx, f, xlog.KV("frameIndex", idx))
	return nil
}

func (r *LogRenderer) PollCancel() bool {
	if r.cancelAfter <= 0 {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.shown >= r.cancelAfter
}

// ReleaseSurface 重置计数，同一个实例可以用于下一次运行
func (r *LogRenderer) ReleaseSurface() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	xlog.Info(context.Background(), "[xrender] finished displaying all frames, shown=[%d]", r.shown)
	r.shown = 0
	return nil
}

func (r *LogRenderer) Shown() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.shown
}
