package xpipeline

import (
	"fmt"
	"time"
)

// StageStatus stage 退出状态
type StageStatus int

const (
	// StageCompleted 收到（或发出）结束标记后正常退出
	StageCompleted StageStatus = iota
	// StageCancelled 因用户取消或 ctx 取消提前退出
	StageCancelled
	// StageFailed 因错误提前退出
	StageFailed
	// StageUnfinished JoinTimeout 到期时仍未退出
	StageUnfinished
)

func (s StageStatus) String() string {
	switch s {
	case StageCompleted:
		return "completed"
	case StageCancelled:
		return "cancelled"
	case StageFailed:
		return "failed"
	case StageUnfinished:
		return "unfinished"
	default:
		return "unknown"
	}
}

// StageResult 单个 stage 的运行结果
type StageResult struct {
	Stage  string
	Status StageStatus
	// Frames 本 stage 成功输出（source/transform）或渲染（sink）的帧数
	Frames int
	// Skipped skip 策略下丢弃的帧数
	Skipped int
	// Discarded abort 之后为等待上游结束标记而丢弃的帧数
	Discarded int
	// End 本 stage 发出（source/transform）或收到（sink）的结束标记
	End      *EndOfStream
	Err      error
	Duration time.Duration
}

func newStageResult(stage string) *StageResult {
	return &StageResult{Stage: stage, Status: StageCompleted}
}

func (r *StageResult) fail(err error) {
	r.Status = StageFailed
	r.Err = err
}

func (r *StageResult) cancel(err error) {
	if r.Status == StageCompleted {
		r.Status = StageCancelled
	}
	if r.Err == nil {
		r.Err = err
	}
}

// StepError stage 错误，包含 stage 名称和原始错误
type StepError struct {
	StageName string
	Err       error
}

func (se *StepError) Error() string {
	return fmt.Sprintf("stage=[%s], err=[%v]", se.StageName, se.Err)
}

// Unwrap 支持 errors.Is / errors.As
func (se *StepError) Unwrap() error {
	return se.Err
}

// ResultSummary 供 Monitor 使用的结果摘要
type ResultSummary interface {
	Success() bool
	HasErrors() bool
	fmt.Stringer
}

// RunResult 一次运行的结果，stage 的失败都记录在这里，不会作为 error 返回
type RunResult struct {
	RunID  string
	Stages []*StageResult
	Errors []*StepError
	// Rendered sink 渲染的帧数
	Rendered int
	// Cancelled sink 因取消提前退出
	Cancelled bool
	// TimedOut JoinTimeout 到期时仍有 stage 未退出
	TimedOut bool
	Duration time.Duration
}

// Stage 按名称查找 stage 结果
func (r *RunResult) Stage(name string) *StageResult {
	for _, s := range r.Stages {
		if s != nil && s.Stage == name {
			return s
		}
	}
	return nil
}

// Success 没有 stage 失败且未超时
func (r *RunResult) Success() bool {
	return len(r.Errors) == 0 && !r.TimedOut
}

func (r *RunResult) HasErrors() bool {
	return len(r.Errors) > 0
}

func (r *RunResult) String() string {
	status := "success"
	switch {
	case r.TimedOut:
		status = "timeout"
	case r.HasErrors():
		status = "failed"
	case r.Cancelled:
		status = "cancelled"
	}
	return fmt.Sprintf("run=[%s] status=[%s] rendered=[%d] errors=[%d]", r.RunID, status, r.Rendered, len(r.Errors))
}
