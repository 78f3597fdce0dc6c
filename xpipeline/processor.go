package xpipeline

import (
	"context"
	"errors"

	"github.com/xiaoshicae/xplayer/xframe"
)

// FrameSource 已打开的数据源
type FrameSource interface {
	// ReadNext 读取下一帧，ok=false 表示读完；err!=nil 表示读取失败
	ReadNext(ctx context.Context) (frame *xframe.Frame, ok bool, err error)
	// Close 释放数据源
	Close() error
}

// SourceOpener 根据标识（如文件路径）打开数据源
type SourceOpener interface {
	Open(ctx context.Context, identifier string) (FrameSource, error)
}

// SourceOpenerFunc 函数适配 SourceOpener
type SourceOpenerFunc func(ctx context.Context, identifier string) (FrameSource, error)

func (f SourceOpenerFunc) Open(ctx context.Context, identifier string) (FrameSource, error) {
	return f(ctx, identifier)
}

// FrameTransform 单帧转换，实现必须是无共享可变状态的纯函数
type FrameTransform interface {
	Apply(frame *xframe.Frame) (*xframe.Frame, error)
}

// TransformFunc 函数适配 FrameTransform
type TransformFunc func(frame *xframe.Frame) (*xframe.Frame, error)

func (f TransformFunc) Apply(frame *xframe.Frame) (*xframe.Frame, error) {
	return f(frame)
}

// FrameRenderer 渲染输出
type FrameRenderer interface {
	// Show 展示一帧
	Show(ctx context.Context, frame *xframe.Frame) error
	// PollCancel 非阻塞地检查用户是否请求停止
	PollCancel() bool
	// ReleaseSurface 释放渲染资源，sink 退出时一定会调用
	ReleaseSurface() error
}

var (
	errNilSource = errors.New("opener returned nil source")
	errNilFrame  = errors.New("transform returned nil frame")
)
