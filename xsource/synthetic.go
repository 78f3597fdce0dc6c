package xsource

import (
	"context"
	"net/url"
	"strconv"

	"github.com/xiaoshicae/xplayer/xerror"
	"github.com/xiaoshicae/xplayer/xframe"

	"github.com/spf13/cast"
)

// syntheticSource 第 i 帧像素 (x, y) 的 B/G/R 分别为 x+i, y+i, i（取低 8 位）
type syntheticSource struct {
	total  int
	next   int
	width  int
	height int
}

func openSynthetic(identifier string) (*syntheticSource, error) {
	u, err := url.Parse(identifier)
	if err != nil {
		return nil, xerror.Newf("xsource", "open", "parse [%s] failed, err=[%w]", identifier, err)
	}
	total, err := strconv.Atoi(u.Host)
	if err != nil || total < 0 {
		return nil, xerror.Newf("xsource", "open", "invalid synthetic frame count [%s]", u.Host)
	}
	q := u.Query()
	s := &syntheticSource{
		total:  total,
		width:  cast.ToInt(q.Get("w")),
		height: cast.ToInt(q.Get("h")),
	}
	if s.width <= 0 {
		s.width = defaultSyntheticWidth
	}
	if s.height <= 0 {
		s.height = defaultSyntheticHeight
	}
	return s, nil
}

func (s *syntheticSource) ReadNext(ctx context.Context) (*xframe.Frame, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	if s.next >= s.total {
		return nil, false, nil
	}
	f, err := Synthetic(s.next, s.width, s.height)
	if err != nil {
		return nil, false, err
	}
	s.next++
	return f, true, nil
}

func (s *syntheticSource) Close() error {
	return nil
}

// Synthetic 生成第 seq 帧合成图像
func Synthetic(seq, width, height int) (*xframe.Frame, error) {
	f, err := xframe.New(width, height, xframe.BGR24)
	if err != nil {
		return nil, err
	}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			f.Set(x, y, byte(x+seq), byte(y+seq), byte(seq))
		}
	}
	return f, nil
}
