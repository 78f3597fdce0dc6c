// Package xframe 定义在流水线中传递的视频帧
package xframe

import (
	"bytes"
	"fmt"
)

// Format 像素格式
type Format int

const (
	// BGR24 每像素 3 字节，顺序为 B、G、R
	BGR24 Format = iota
	// Gray8 每像素 1 字节灰度
	Gray8
)

func (f Format) String() string {
	switch f {
	case BGR24:
		return "BGR24"
	case Gray8:
		return "Gray8"
	default:
		return "Unknown"
	}
}

// Channels 每像素字节数
func (f Format) Channels() int {
	switch f {
	case BGR24:
		return 3
	case Gray8:
		return 1
	default:
		return 0
	}
}

// Frame 一帧图像，Pix 按行连续存储，无行间填充
// 同一时刻只由一个 stage 持有，跨 channel 传递的是所有权而不是副本
type Frame struct {
	Width  int
	Height int
	Format Format
	Pix    []byte
}

// New 创建一帧全零图像
func New(width, height int, format Format) (*Frame, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid frame size %dx%d", width, height)
	}
	if format.Channels() == 0 {
		return nil, fmt.Errorf("unsupported frame format %d", format)
	}
	return &Frame{
		Width:  width,
		Height: height,
		Format: format,
		Pix:    make([]byte, width*height*format.Channels()),
	}, nil
}

// Stride 一行的字节数
func (f *Frame) Stride() int {
	return f.Width * f.Format.Channels()
}

// Validate Pix 长度与尺寸、格式是否一致
func (f *Frame) Validate() error {
	if f == nil {
		return fmt.Errorf("frame is nil")
	}
	if want := f.Stride() * f.Height; len(f.Pix) != want || want == 0 {
		return fmt.Errorf("frame %dx%d %s expects %d bytes, got %d", f.Width, f.Height, f.Format, want, len(f.Pix))
	}
	return nil
}

// Offset (x, y) 像素首字节在 Pix 中的下标
func (f *Frame) Offset(x, y int) int {
	return y*f.Stride() + x*f.Format.Channels()
}

// At 返回 (x, y) 像素的各通道值
func (f *Frame) At(x, y int) []byte {
	i := f.Offset(x, y)
	return f.Pix[i : i+f.Format.Channels()]
}

// Set 写入 (x, y) 像素，len(px) 必须等于通道数
func (f *Frame) Set(x, y int, px ...byte) {
	copy(f.At(x, y), px)
}

// Size 像素数据的字节数
func (f *Frame) Size() int64 {
	if f == nil {
		return 0
	}
	return int64(len(f.Pix))
}

// Clone 深拷贝
func (f *Frame) Clone() *Frame {
	cp := *f
	cp.Pix = bytes.Clone(f.Pix)
	return &cp
}

// Equal 尺寸、格式、像素完全一致
func (f *Frame) Equal(o *Frame) bool {
	if f == nil || o == nil {
		return f == o
	}
	return f.Width == o.Width && f.Height == o.Height && f.Format == o.Format && bytes.Equal(f.Pix, o.Pix)
}

func (f *Frame) String() string {
	return fmt.Sprintf("%dx%d %s", f.Width, f.Height, f.Format)
}
