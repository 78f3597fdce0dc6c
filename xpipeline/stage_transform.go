package xpipeline

import (
	"context"
	"time"

	"github.com/xiaoshicae/xplayer/xframe"
	"github.com/xiaoshicae/xplayer/xlog"
)

// TransformStage 逐帧转换，结束标记原样转发
type TransformStage struct {
	transform FrameTransform
	in        *BoundedChannel[Item]
	out       *BoundedChannel[Item]
	policy    FailurePolicy
}

func NewTransformStage(transform FrameTransform, in, out *BoundedChannel[Item], policy FailurePolicy) *TransformStage {
	if policy == "" {
		policy = PolicyAbort
	}
	return &TransformStage{transform: transform, in: in, out: out, policy: policy}
}

func (t *TransformStage) Name() string {
	return TransformStageName
}

func (t *TransformStage) Run(ctx context.Context) (res *StageResult) {
	start := time.Now()
	res = newStageResult(t.Name())
	var end *EndOfStream
	emitted := false
	defer func() {
		if r := recover(); r != nil {
			err := panicError(r)
			res.fail(err)
			if !emitted {
				end = &EndOfStream{Reason: StagePanic, Err: err}
			}
		}
		if !emitted {
			if end == nil {
				end = &EndOfStream{Reason: RunCancelled, Err: ctx.Err()}
			}
			emitEnd(ctx, t.out, end)
		}
		res.End = end
		res.Duration = time.Since(start)
	}()

	for {
		item, err := t.in.Get(ctx)
		if err != nil {
			end = &EndOfStream{Reason: RunCancelled, Err: err}
			res.cancel(err)
			return res
		}

		switch it := item.(type) {
		case *EndOfStream:
			end = it
			if it.Reason == RunCancelled {
				res.cancel(it.Err)
			}
			return res
		case *FrameItem:
			frame, panicked, err := safeApply(t.transform, it.Frame)
			if err != nil {
				if !panicked && t.policy == PolicySkip {
					res.Skipped++
					xlog.Warn(ctx, "[xpipeline] transform frame failed, skip, seq=[%d], err=[%v]", it.Seq, err)
					continue
				}
				reason := TransformFailure
				if panicked {
					reason = StagePanic
				}
				xlog.Error(ctx, "[xpipeline] transform frame failed, abort, seq=[%d], err=[%v]", it.Seq, err)
				end = &EndOfStream{Reason: reason, Err: err}
				res.fail(err)
				emitEnd(ctx, t.out, end)
				emitted = true
				res.Discarded = t.drain(ctx)
				return res
			}
			if err := t.out.Put(ctx, &FrameItem{Seq: it.Seq, Frame: frame}); err != nil {
				end = &EndOfStream{Reason: RunCancelled, Err: err}
				res.cancel(err)
				return res
			}
			res.Frames++
		}
	}
}

// drain 丢弃上游剩余的帧直到收到结束标记，让 source 能够正常退出
func (t *TransformStage) drain(ctx context.Context) int {
	discarded := 0
	for {
		item, err := t.in.Get(ctx)
		if err != nil {
			return discarded
		}
		if _, ok := item.(*EndOfStream); ok {
			return discarded
		}
		discarded++
	}
}

// safeApply 执行转换，捕获 panic 并附带堆栈
func safeApply(t FrameTransform, in *xframe.Frame) (out *xframe.Frame, panicked bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			out, panicked, err = nil, true, panicError(r)
		}
	}()
	out, err = t.Apply(in)
	if err == nil && out == nil {
		err = errNilFrame
	}
	return out, false, err
}
