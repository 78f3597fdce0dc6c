// Package xsource 提供流水线的数据源：合成帧、视频文件、图片目录、单张图片和远程图片
package xsource

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/xiaoshicae/xplayer/xcache"
	"github.com/xiaoshicae/xplayer/xerror"
	"github.com/xiaoshicae/xplayer/xframe"
	"github.com/xiaoshicae/xplayer/xlog"
	"github.com/xiaoshicae/xplayer/xpipeline"
	"github.com/xiaoshicae/xplayer/xutil"
)

// Opener 根据 identifier 选择数据源
//   - synthetic://<n>?w=&h= 生成 n 帧确定性的 BGR 帧
//   - 目录：按文件名排序读取其中的图片
//   - 视频文件（.mp4 .mov .mkv .avi .webm）：由 ffmpeg 子进程解码，读到文件结束
//   - 文件：单张图片，只产生一帧
//   - http(s)://：远程单张图片，只产生一帧
type Opener struct {
	images  *xcache.TypedCache[*xframe.Frame]
	ffmpeg  string
	ffprobe string
}

var _ xpipeline.SourceOpener = (*Opener)(nil)

func NewOpener(opts ...Option) *Opener {
	o := &options{ffmpeg: defaultFFmpeg, ffprobe: defaultFFprobe}
	for _, opt := range opts {
		opt(o)
	}
	op := &Opener{ffmpeg: o.ffmpeg, ffprobe: o.ffprobe}
	if !o.disableCache {
		if o.cacheName != "" {
			op.images = xcache.Of[*xframe.Frame](o.cacheName)
		} else {
			op.images = xcache.Of[*xframe.Frame]()
		}
	}
	return op
}

func (o *Opener) Open(ctx context.Context, identifier string) (xpipeline.FrameSource, error) {
	if strings.TrimSpace(identifier) == "" {
		return nil, xerror.Newf("xsource", "open", "empty source identifier")
	}
	if hasScheme(identifier, SyntheticScheme) {
		return openSynthetic(identifier)
	}
	if isRemote(identifier) {
		f, err := o.fetch(ctx, identifier)
		if err != nil {
			return nil, err
		}
		return &remoteSource{frame: f}, nil
	}

	path := filepath.Clean(identifier)
	switch {
	case xutil.DirExist(path):
		files, err := listImages(path)
		if err != nil {
			return nil, err
		}
		xlog.Info(ctx, "[xsource] open image dir, path=[%s], frames=[%d]", path, len(files))
		return &imageSource{files: files, decode: o.decode}, nil
	case xutil.FileExist(path) && isVideo(path):
		src, err := openVideo(ctx, o.ffmpeg, o.ffprobe, path)
		if err != nil {
			return nil, err
		}
		return src, nil
	case xutil.FileExist(path):
		if !isImage(path) {
			return nil, xerror.Newf("xsource", "open", "unsupported file type [%s]", path)
		}
		return &imageSource{files: []string{path}, decode: o.decode}, nil
	default:
		return nil, xerror.New("xsource", "open", &os.PathError{Op: "open", Path: identifier, Err: os.ErrNotExist})
	}
}

func (o *Opener) fetch(ctx context.Context, url string) (*xframe.Frame, error) {
	if o.images == nil {
		return fetchImage(ctx, url)
	}
	f, err := o.images.GetOrLoad(xcache.Key(remoteCacheNamespace, url), func() (*xframe.Frame, int64, error) {
		f, err := fetchImage(ctx, url)
		if err != nil {
			return nil, 0, err
		}
		return f, xcache.CostOf(f), nil
	})
	if err != nil {
		return nil, err
	}
	return f.Clone(), nil
}

func hasScheme(identifier, scheme string) bool {
	return strings.HasPrefix(identifier, scheme+"://")
}

// decode 命中缓存时返回副本，保证每个 stage 拿到的帧互不共享
func (o *Opener) decode(path string) (*xframe.Frame, error) {
	if o.images == nil {
		return decodeFile(path)
	}
	key := xcache.Key(imageCacheNamespace, path)
	if info, err := os.Stat(path); err == nil {
		key = xcache.Key(imageCacheNamespace, path, info.ModTime().String())
	}
	f, err := o.images.GetOrLoad(key, func() (*xframe.Frame, int64, error) {
		f, err := decodeFile(path)
		if err != nil {
			return nil, 0, err
		}
		return f, xcache.CostOf(f), nil
	})
	if err != nil {
		return nil, err
	}
	return f.Clone(), nil
}
