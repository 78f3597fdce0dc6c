package xsource

import (
	"bytes"
	"context"
	"image"
	"net/http"

	"github.com/xiaoshicae/xplayer/xerror"
	"github.com/xiaoshicae/xplayer/xframe"
	"github.com/xiaoshicae/xplayer/xhttp"
)

// remoteSource 远程单张图片，Open 时已拉取并解码
type remoteSource struct {
	frame *xframe.Frame
}

func (s *remoteSource) ReadNext(ctx context.Context) (*xframe.Frame, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	if s.frame == nil {
		return nil, false, nil
	}
	f := s.frame
	s.frame = nil
	return f, true, nil
}

func (s *remoteSource) Close() error {
	s.frame = nil
	return nil
}

func isRemote(identifier string) bool {
	return hasScheme(identifier, "http") || hasScheme(identifier, "https")
}

func fetchImage(ctx context.Context, url string) (*xframe.Frame, error) {
	resp, err := xhttp.RWithCtx(ctx).Get(url)
	if err != nil {
		return nil, xerror.Newf("xsource", "fetch", "get [%s] failed, err=[%w]", url, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, xerror.Newf("xsource", "fetch", "get [%s] failed, status=[%d]", url, resp.StatusCode())
	}
	img, _, err := image.Decode(bytes.NewReader(resp.Body()))
	if err != nil {
		return nil, xerror.Newf("xsource", "fetch", "decode [%s] failed, err=[%w]", url, err)
	}
	return xframe.FromImage(img)
}
