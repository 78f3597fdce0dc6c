package xpipeline

import (
	"context"
	"time"

	"github.com/xiaoshicae/xplayer/xlog"
)

// SourceStage 从数据源读取帧写入输出 channel，结束时写入唯一的结束标记
type SourceStage struct {
	opener     SourceOpener
	identifier string
	out        *BoundedChannel[Item]
	// maxFrames <=0 表示不限制
	maxFrames int
}

func NewSourceStage(opener SourceOpener, identifier string, out *BoundedChannel[Item], maxFrames int) *SourceStage {
	return &SourceStage{opener: opener, identifier: identifier, out: out, maxFrames: maxFrames}
}

func (s *SourceStage) Name() string {
	return SourceStageName
}

func (s *SourceStage) Run(ctx context.Context) (res *StageResult) {
	start := time.Now()
	res = newStageResult(s.Name())
	end := &EndOfStream{Reason: SourceExhausted}
	defer func() {
		if r := recover(); r != nil {
			err := panicError(r)
			end = &EndOfStream{Reason: StagePanic, Err: err}
			res.fail(err)
		}
		emitEnd(ctx, s.out, end)
		res.End = end
		res.Duration = time.Since(start)
	}()

	src, err := s.opener.Open(ctx, s.identifier)
	if err == nil && src == nil {
		err = errNilSource
	}
	if err != nil {
		xlog.Warn(ctx, "[xpipeline] open source failed, identifier=[%s], err=[%v]", s.identifier, err)
		end = &EndOfStream{Reason: SourceOpenFailure, Err: err}
		res.fail(err)
		return res
	}
	defer func() {
		if err := src.Close(); err != nil {
			xlog.Warn(ctx, "[xpipeline] close source failed, identifier=[%s], err=[%v]", s.identifier, err)
		}
	}()

	for seq := 0; ; seq++ {
		if s.maxFrames > 0 && seq >= s.maxFrames {
			end = &EndOfStream{Reason: MaxFramesReached}
			return res
		}
		if err := ctx.Err(); err != nil {
			end = &EndOfStream{Reason: RunCancelled, Err: err}
			res.cancel(err)
			return res
		}

		frame, ok, err := src.ReadNext(ctx)
		if err != nil {
			if ctx.Err() != nil {
				end = &EndOfStream{Reason: RunCancelled, Err: ctx.Err()}
				res.cancel(ctx.Err())
				return res
			}
			end = &EndOfStream{Reason: SourceReadFailure, Err: err}
			res.fail(err)
			return res
		}
		if !ok {
			return res
		}

		if err := s.out.Put(ctx, &FrameItem{Seq: seq, Frame: frame}); err != nil {
			end = &EndOfStream{Reason: RunCancelled, Err: err}
			res.cancel(err)
			return res
		}
		res.Frames++
	}
}
