// Package xtransform 按名称提供逐帧转换
package xtransform

import (
	"fmt"
	"image"
	"strconv"
	"strings"

	"github.com/xiaoshicae/xplayer/xerror"
	"github.com/xiaoshicae/xplayer/xframe"
	"github.com/xiaoshicae/xplayer/xpipeline"

	"golang.org/x/exp/slices"
	"golang.org/x/image/draw"
)

const (
	Identity  = "identity"
	Grayscale = "grayscale"
	Invert    = "invert"
	// Resize resize=<w>x<h>，双线性缩放
	Resize = "resize"
)

var builtin = map[string]xpipeline.TransformFunc{
	Identity: func(f *xframe.Frame) (*xframe.Frame, error) {
		return f, nil
	},
	Grayscale: func(f *xframe.Frame) (*xframe.Frame, error) {
		return f.Grayscale()
	},
	Invert: func(f *xframe.Frame) (*xframe.Frame, error) {
		return f.Invert()
	},
}

// Names 内置转换名称
func Names() []string {
	names := []string{Resize}
	for name := range builtin {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// ByName 按名称查找转换，多个名称用 "|" 串联，如 "grayscale|resize=320x240"
func ByName(name string) (xpipeline.FrameTransform, error) {
	parts := strings.Split(name, "|")
	chain := make([]xpipeline.FrameTransform, 0, len(parts))
	for _, part := range parts {
		t, err := single(strings.TrimSpace(part))
		if err != nil {
			return nil, err
		}
		chain = append(chain, t)
	}
	if len(chain) == 1 {
		return chain[0], nil
	}
	return Chain(chain...), nil
}

func single(name string) (xpipeline.FrameTransform, error) {
	if t, ok := builtin[strings.ToLower(name)]; ok {
		return t, nil
	}
	if arg, ok := strings.CutPrefix(name, Resize+"="); ok {
		w, h, err := parseSize(arg)
		if err != nil {
			return nil, err
		}
		return ResizeTo(w, h), nil
	}
	return nil, xerror.Newf("xtransform", "byName", "unknown transform [%s], available=%v", name, Names())
}

func parseSize(s string) (int, int, error) {
	ws, hs, ok := strings.Cut(strings.ToLower(s), "x")
	if !ok {
		return 0, 0, xerror.Newf("xtransform", "byName", "invalid size [%s], want <w>x<h>", s)
	}
	w, errW := strconv.Atoi(ws)
	h, errH := strconv.Atoi(hs)
	if errW != nil || errH != nil || w <= 0 || h <= 0 {
		return 0, 0, xerror.Newf("xtransform", "byName", "invalid size [%s], want <w>x<h>", s)
	}
	return w, h, nil
}

// Chain 依次执行多个转换
func Chain(ts ...xpipeline.FrameTransform) xpipeline.FrameTransform {
	return xpipeline.TransformFunc(func(f *xframe.Frame) (*xframe.Frame, error) {
		var err error
		for i, t := range ts {
			if f, err = t.Apply(f); err != nil {
				return nil, fmt.Errorf("chain step %d: %w", i, err)
			}
		}
		return f, nil
	})
}

// ResizeTo 缩放到 w x h，保持像素格式
func ResizeTo(w, h int) xpipeline.FrameTransform {
	return xpipeline.TransformFunc(func(f *xframe.Frame) (*xframe.Frame, error) {
		if f.Width == w && f.Height == h {
			return f, nil
		}
		src, err := f.ToImage()
		if err != nil {
			return nil, err
		}
		rect := image.Rect(0, 0, w, h)
		var dst draw.Image
		if f.Format == xframe.Gray8 {
			dst = image.NewGray(rect)
		} else {
			dst = image.NewRGBA(rect)
		}
		draw.ApproxBiLinear.Scale(dst, rect, src, src.Bounds(), draw.Src, nil)
		return xframe.FromImage(dst)
	})
}
