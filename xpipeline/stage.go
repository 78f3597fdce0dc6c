package xpipeline

import (
	"context"
	"fmt"
	"runtime/debug"

	"github.com/xiaoshicae/xplayer/xlog"
)

// Stage 流水线中独立运行的一个阶段
type Stage interface {
	Name() string
	// Run 阻塞直到本阶段结束，失败和取消都记录在返回的结果中
	Run(ctx context.Context) *StageResult
}

const (
	SourceStageName    = "source"
	TransformStageName = "transform"
	SinkStageName      = "sink"
)

func panicError(r any) error {
	return fmt.Errorf("panic: %v\n%s", r, debug.Stack())
}

// emitEnd 发送结束标记，ctx 取消且 channel 已满时放弃，此时下游也会因 ctx 取消而退出
func emitEnd(ctx context.Context, ch *BoundedChannel[Item], end *EndOfStream) {
	if err := ch.Put(ctx, end); err != nil {
		xlog.Warn(ctx, "[xpipeline] emit end marker failed, reason=[%s], err=[%v]", end.Reason, err)
	}
}
