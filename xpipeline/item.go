package xpipeline

import (
	"fmt"

	"github.com/xiaoshicae/xplayer/xframe"
)

// Item channel 中传递的元素，只有 *FrameItem 和 *EndOfStream 两种实现
type Item interface {
	ItemType() string
	sealed()
}

// FrameItem 携带一帧数据，Seq 为 source 读取时的序号（从 0 开始）
type FrameItem struct {
	Seq   int
	Frame *xframe.Frame
}

func (*FrameItem) ItemType() string { return "frame" }
func (*FrameItem) sealed()          {}

// EndReason 结束原因
type EndReason int

const (
	// SourceExhausted 数据源读完，正常结束
	SourceExhausted EndReason = iota
	// MaxFramesReached 达到 MaxFrames 上限
	MaxFramesReached
	// SourceOpenFailure 数据源无法打开
	SourceOpenFailure
	// SourceReadFailure 读取过程中出错
	SourceReadFailure
	// TransformFailure 转换失败后中止
	TransformFailure
	// StagePanic stage 内部 panic
	StagePanic
	// RunCancelled 运行 ctx 被取消
	RunCancelled
)

func (r EndReason) String() string {
	switch r {
	case SourceExhausted:
		return "SourceExhausted"
	case MaxFramesReached:
		return "MaxFramesReached"
	case SourceOpenFailure:
		return "SourceOpenFailure"
	case SourceReadFailure:
		return "SourceReadFailure"
	case TransformFailure:
		return "TransformFailure"
	case StagePanic:
		return "StagePanic"
	case RunCancelled:
		return "RunCancelled"
	default:
		return fmt.Sprintf("EndReason(%d)", int(r))
	}
}

// EndOfStream 结束标记，每个 channel 每次运行只会收到一个，且一定是最后一个元素
type EndOfStream struct {
	Reason EndReason
	Err    error
}

func (*EndOfStream) ItemType() string { return "end" }
func (*EndOfStream) sealed()          {}

// Graceful 是否为正常结束（读完或达到上限）
func (e *EndOfStream) Graceful() bool {
	return e.Reason == SourceExhausted || e.Reason == MaxFramesReached
}

func (e *EndOfStream) String() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Reason, e.Err)
	}
	return e.Reason.String()
}
