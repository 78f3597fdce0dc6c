package xpipeline

import (
	"context"
	"time"

	"github.com/xiaoshicae/xplayer/xlog"
)

// SinkStage 逐帧渲染，收到结束标记或取消信号后退出，退出时一定释放渲染资源
// 取消后不再消费 channel 中剩余的帧
type SinkStage struct {
	renderer FrameRenderer
	in       *BoundedChannel[Item]
	delay    time.Duration
	// stop 本次运行的取消信号，关闭即取消
	stop <-chan struct{}
}

func NewSinkStage(renderer FrameRenderer, in *BoundedChannel[Item], delay time.Duration, stop <-chan struct{}) *SinkStage {
	return &SinkStage{renderer: renderer, in: in, delay: delay, stop: stop}
}

func (s *SinkStage) Name() string {
	return SinkStageName
}

func (s *SinkStage) Run(ctx context.Context) (res *StageResult) {
	start := time.Now()
	res = newStageResult(s.Name())
	defer func() {
		if r := recover(); r != nil {
			res.fail(panicError(r))
		}
		res.Duration = time.Since(start)
	}()
	defer func() {
		if err := s.renderer.ReleaseSurface(); err != nil {
			xlog.Warn(ctx, "[xpipeline] release render surface failed, err=[%v]", err)
		}
	}()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	if s.stop != nil {
		go func() {
			select {
			case <-s.stop:
				cancel()
			case <-ctx.Done():
			}
		}()
	}

	for {
		item, err := s.in.Get(ctx)
		if err != nil {
			s.cancelled(res, err)
			return res
		}

		switch it := item.(type) {
		case *EndOfStream:
			res.End = it
			if it.Reason == RunCancelled {
				s.cancelled(res, it.Err)
			}
			return res
		case *FrameItem:
			if err := s.renderer.Show(ctx, it.Frame); err != nil {
				if ctx.Err() != nil {
					s.cancelled(res, ctx.Err())
					return res
				}
				xlog.Error(ctx, "[xpipeline] render frame failed, seq=[%d], err=[%v]", it.Seq, err)
				res.fail(err)
				return res
			}
			res.Frames++

			s.wait(ctx)
			if ctx.Err() != nil {
				s.cancelled(res, ctx.Err())
				return res
			}
			if s.renderer.PollCancel() {
				xlog.Info(ctx, "[xpipeline] renderer requested stop, rendered=[%d]", res.Frames)
				res.Status = StageCancelled
				return res
			}
		}
	}
}

// wait 展示后等待 delay，ctx 取消时提前返回
func (s *SinkStage) wait(ctx context.Context) {
	if s.delay <= 0 {
		return
	}
	timer := time.NewTimer(s.delay)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}

// cancelled 用户取消不记录错误，外部 ctx 取消记录 ctx 错误
func (s *SinkStage) cancelled(res *StageResult, err error) {
	if s.stopped() {
		res.Status = StageCancelled
		return
	}
	res.cancel(err)
}

func (s *SinkStage) stopped() bool {
	if s.stop == nil {
		return false
	}
	select {
	case <-s.stop:
		return true
	default:
		return false
	}
}
