package xsource

import (
	"context"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/xiaoshicae/xplayer/xerror"
	"github.com/xiaoshicae/xplayer/xframe"

	_ "golang.org/x/image/bmp"
	"golang.org/x/exp/slices"
)

// imageSource 按顺序解码图片文件，每个文件一帧
type imageSource struct {
	files  []string
	next   int
	decode func(path string) (*xframe.Frame, error)
}

func (s *imageSource) ReadNext(ctx context.Context) (*xframe.Frame, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	if s.next >= len(s.files) {
		return nil, false, nil
	}
	f, err := s.decode(s.files[s.next])
	if err != nil {
		return nil, false, err
	}
	s.next++
	return f, true, nil
}

func (s *imageSource) Close() error {
	s.files = nil
	return nil
}

func listImages(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, xerror.Newf("xsource", "open", "read dir [%s] failed, err=[%w]", dir, err)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() || !isImage(e.Name()) {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	sort.Strings(files)
	return files, nil
}

func isImage(name string) bool {
	return slices.Contains(imageExts, strings.ToLower(filepath.Ext(name)))
}

func decodeFile(path string) (*xframe.Frame, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, xerror.Newf("xsource", "decode", "open [%s] failed, err=[%w]", path, err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, xerror.Newf("xsource", "decode", "decode [%s] failed, err=[%w]", path, err)
	}
	return xframe.FromImage(img)
}
