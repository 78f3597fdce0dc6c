package xrender

import (
	"context"
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"sync"

	"github.com/xiaoshicae/xplayer/xerror"
	"github.com/xiaoshicae/xplayer/xframe"
)

// DirRenderer 把每帧写成 PNG 文件：<dir>/frame_000000.png
type DirRenderer struct {
	dir string

	mu       sync.Mutex
	written  int
	prepared bool
}

func NewDirRenderer(dir string) *DirRenderer {
	return &DirRenderer{dir: dir}
}

func (r *DirRenderer) Show(_ context.Context, f *xframe.Frame) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.prepared {
		if err := os.MkdirAll(r.dir, os.ModePerm); err != nil {
			return xerror.Newf("xrender", "show", "mkdir [%s] failed, err=[%w]", r.dir, err)
		}
		r.prepared = true
	}

	img, err := f.ToImage()
	if err != nil {
		return err
	}
	path := filepath.Join(r.dir, fmt.Sprintf("frame_%06d.png", r.written))
	file, err := os.Create(path)
	if err != nil {
		return xerror.Newf("xrender", "show", "create [%s] failed, err=[%w]", path, err)
	}
	if err := png.Encode(file, img); err != nil {
		_ = file.Close()
		return xerror.Newf("xrender", "show", "encode [%s] failed, err=[%w]", path, err)
	}
	if err := file.Close(); err != nil {
		return err
	}
	r.written++
	return nil
}

func (r *DirRenderer) PollCancel() bool {
	return false
}

func (r *DirRenderer) ReleaseSurface() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.written = 0
	r.prepared = false
	return nil
}

func (r *DirRenderer) Dir() string {
	return r.dir
}
