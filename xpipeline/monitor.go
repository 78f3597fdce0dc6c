package xpipeline

import (
	"context"
	"sync"
	"time"

	"github.com/xiaoshicae/xplayer/xlog"
)

// StageEvent stage 结束事件
type StageEvent struct {
	PipelineName string
	RunID        string
	Result       *StageResult
}

// PipelineEvent 一次运行结束事件
type PipelineEvent struct {
	PipelineName string
	RunID        string
	Result       ResultSummary
	Duration     time.Duration
}

// Monitor 观测流水线运行，回调在 stage goroutine 中执行，实现必须并发安全
type Monitor interface {
	OnStageDone(ctx context.Context, event *StageEvent)
	OnPipelineDone(ctx context.Context, event *PipelineEvent)
}

type defaultMonitor struct{}

func (d *defaultMonitor) OnStageDone(ctx context.Context, e *StageEvent) {
	r := e.Result
	fields := xlog.KVMap(stageFields(r))
	if r.Err != nil && r.Status == StageFailed {
		xlog.Warn(ctx, "[xpipeline] pipeline=[%s] stage=[%s] frames=[%d] duration=[%s] status=[%s] err=[%v]",
			e.PipelineName, r.Stage, r.Frames, r.Duration, r.Status, r.Err, fields)
		return
	}
	xlog.Info(ctx, "[xpipeline] pipeline=[%s] stage=[%s] frames=[%d] duration=[%s] status=[%s]",
		e.PipelineName, r.Stage, r.Frames, r.Duration, r.Status, fields)
}

func (d *defaultMonitor) OnPipelineDone(ctx context.Context, e *PipelineEvent) {
	xlog.Info(ctx, "[xpipeline] pipeline=[%s] duration=[%s] %s", e.PipelineName, e.Duration, e.Result)
}

// stageFields stage 结果作为日志字段，便于按 stage 检索
func stageFields(r *StageResult) map[string]any {
	fields := map[string]any{
		"stage":       r.Stage,
		"stageStatus": r.Status.String(),
		"frames":      r.Frames,
		"durationMs":  r.Duration.Milliseconds(),
	}
	if r.Skipped > 0 {
		fields["skipped"] = r.Skipped
	}
	if r.Discarded > 0 {
		fields["discarded"] = r.Discarded
	}
	if r.End != nil {
		fields["endReason"] = r.End.Reason.String()
	}
	return fields
}

var (
	defaultMonitorInstance Monitor = &defaultMonitor{}
	monitorMu              sync.RWMutex
)

// SetDefaultMonitor 替换全局默认 Monitor
func SetDefaultMonitor(m Monitor) {
	monitorMu.Lock()
	defer monitorMu.Unlock()
	defaultMonitorInstance = m
}

// GetDefaultMonitor 获取全局默认 Monitor
func GetDefaultMonitor() Monitor {
	monitorMu.RLock()
	defer monitorMu.RUnlock()
	return defaultMonitorInstance
}
