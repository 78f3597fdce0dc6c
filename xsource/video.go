package xsource

import (
	"bufio"
	"context"
	"errors"
	"io"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"

	"github.com/xiaoshicae/xplayer/xerror"
	"github.com/xiaoshicae/xplayer/xframe"
	"github.com/xiaoshicae/xplayer/xlog"

	"github.com/spf13/cast"
	"golang.org/x/exp/slices"
)

// ErrFFmpegNotFound ffmpeg 或 ffprobe 不在 PATH 中
var ErrFFmpegNotFound = errors.New("ffmpeg not found in PATH")

var videoExts = []string{".mp4", ".mov", ".mkv", ".avi", ".webm"}

// stderrLimit 只保留 ffmpeg stderr 的前若干字节用于错误信息
const stderrLimit = 4096

// videoInfo ffprobe 得到的视频流信息
type videoInfo struct {
	Width  int
	Height int
	// Frames 容器记录的帧数，未知时为 0
	Frames int
}

// videoSource 由 ffmpeg 子进程解码成 bgr24 原始帧，每次读取 w*h*3 字节
type videoSource struct {
	path   string
	info   *videoInfo
	cmd    *exec.Cmd
	reader *bufio.Reader
	stderr *limitedBuffer

	eof      bool
	waitOnce sync.Once
	waitErr  error
}

func isVideo(name string) bool {
	return slices.Contains(videoExts, strings.ToLower(filepath.Ext(name)))
}

// openVideo ctx 取消时 ffmpeg 子进程会被杀掉
func openVideo(ctx context.Context, ffmpeg, ffprobe, path string) (*videoSource, error) {
	ffmpegPath, err := exec.LookPath(ffmpeg)
	if err != nil {
		return nil, xerror.Newf("xsource", "open", "%w, bin=[%s], err=[%v]", ErrFFmpegNotFound, ffmpeg, err)
	}
	ffprobePath, err := exec.LookPath(ffprobe)
	if err != nil {
		return nil, xerror.Newf("xsource", "open", "%w, bin=[%s], err=[%v]", ErrFFmpegNotFound, ffprobe, err)
	}

	info, err := probeVideo(ctx, ffprobePath, path)
	if err != nil {
		return nil, err
	}

	cmd := exec.CommandContext(ctx, ffmpegPath, "-v", "error", "-nostdin", "-i", path,
		"-f", "rawvideo", "-pix_fmt", "bgr24", "-")
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, xerror.Newf("xsource", "open", "ffmpeg stdout pipe failed, err=[%w]", err)
	}
	stderr := &limitedBuffer{max: stderrLimit}
	cmd.Stderr = stderr
	if err := cmd.Start(); err != nil {
		return nil, xerror.Newf("xsource", "open", "start ffmpeg failed, err=[%w]", err)
	}

	xlog.Info(ctx, "[xsource] open video, path=[%s], size=[%dx%d], frames=[%d]", path, info.Width, info.Height, info.Frames)
	return &videoSource{
		path:   path,
		info:   info,
		cmd:    cmd,
		reader: bufio.NewReaderSize(stdout, info.Width*info.Height*3),
		stderr: stderr,
	}, nil
}

func probeVideo(ctx context.Context, ffprobe, path string) (*videoInfo, error) {
	cmd := exec.CommandContext(ctx, ffprobe, "-v", "error", "-select_streams", "v:0",
		"-show_entries", "stream=width,height,nb_frames", "-of", "default=noprint_wrappers=1", path)
	stderr := &limitedBuffer{max: stderrLimit}
	cmd.Stderr = stderr
	out, err := cmd.Output()
	if err != nil {
		return nil, xerror.Newf("xsource", "open", "ffprobe [%s] failed, err=[%w], stderr=[%s]", path, err, stderr.String())
	}
	info, err := parseProbe(string(out))
	if err != nil {
		return nil, xerror.Newf("xsource", "open", "ffprobe [%s] failed, err=[%w]", path, err)
	}
	return info, nil
}

// parseProbe 解析 key=value 形式的 ffprobe 输出，nb_frames 可能为 N/A
func parseProbe(out string) (*videoInfo, error) {
	info := &videoInfo{}
	for _, line := range strings.Split(out, "\n") {
		k, v, ok := strings.Cut(strings.TrimSpace(line), "=")
		if !ok {
			continue
		}
		switch k {
		case "width":
			info.Width = cast.ToInt(v)
		case "height":
			info.Height = cast.ToInt(v)
		case "nb_frames":
			info.Frames = cast.ToInt(v)
		}
	}
	if info.Width <= 0 || info.Height <= 0 {
		return nil, errors.New("no video stream found")
	}
	return info, nil
}

func (s *videoSource) ReadNext(ctx context.Context) (*xframe.Frame, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	if s.eof {
		return nil, false, nil
	}
	f, err := xframe.New(s.info.Width, s.info.Height, xframe.BGR24)
	if err != nil {
		return nil, false, err
	}

	_, err = io.ReadFull(s.reader, f.Pix)
	switch {
	case err == nil:
		return f, true, nil
	case errors.Is(err, io.EOF):
		s.eof = true
		if werr := s.wait(); werr != nil {
			return nil, false, xerror.Newf("xsource", "read", "ffmpeg decode [%s] failed, err=[%w]", s.path, werr)
		}
		return nil, false, nil
	default:
		// 读到半帧说明 ffmpeg 异常退出
		s.eof = true
		return nil, false, xerror.Newf("xsource", "read", "read frame from [%s] failed, err=[%w], ffmpeg=[%v]", s.path, err, s.wait())
	}
}

// Close 未读完时杀掉 ffmpeg 并回收进程
func (s *videoSource) Close() error {
	if !s.eof && s.cmd.Process != nil {
		_ = s.cmd.Process.Kill()
	}
	s.eof = true
	_ = s.wait()
	return nil
}

func (s *videoSource) wait() error {
	s.waitOnce.Do(func() {
		if err := s.cmd.Wait(); err != nil {
			if msg := strings.TrimSpace(s.stderr.String()); msg != "" {
				err = errors.Join(err, errors.New(msg))
			}
			s.waitErr = err
		}
	})
	return s.waitErr
}

// limitedBuffer 超过 max 的部分直接丢弃，不阻塞子进程
type limitedBuffer struct {
	mu  sync.Mutex
	buf []byte
	max int
}

func (b *limitedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if room := b.max - len(b.buf); room > 0 {
		if len(p) < room {
			room = len(p)
		}
		b.buf = append(b.buf, p[:room]...)
	}
	return len(p), nil
}

func (b *limitedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return string(b.buf)
}
