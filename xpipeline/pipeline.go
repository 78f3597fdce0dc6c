package xpipeline

import (
	"context"
	"sync"
	"time"

	"github.com/xiaoshicae/xplayer/xerror"
	"github.com/xiaoshicae/xplayer/xlog"
	"github.com/xiaoshicae/xplayer/xtrace"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Pipeline 三阶段流水线：source -> channel A -> transform -> channel B -> sink
// 同一个 Pipeline 可以多次 Start，每次运行使用独立的 channel 和取消信号
type Pipeline struct {
	name       string
	config     *Config
	monitor    Monitor
	opener     SourceOpener
	identifier string
	transform  FrameTransform
	renderer   FrameRenderer
}

type Option func(*Pipeline)

// WithConfig 指定配置，未指定时使用 XPipeline 配置
func WithConfig(c *Config) Option {
	return func(p *Pipeline) {
		p.config = configMergeDefault(c)
	}
}

// WithMonitor 指定 Monitor，未指定时使用全局默认 Monitor
func WithMonitor(m Monitor) Option {
	return func(p *Pipeline) {
		p.monitor = m
	}
}

func WithSource(opener SourceOpener, identifier string) Option {
	return func(p *Pipeline) {
		p.opener = opener
		p.identifier = identifier
	}
}

func WithTransform(t FrameTransform) Option {
	return func(p *Pipeline) {
		p.transform = t
	}
}

func WithRenderer(r FrameRenderer) Option {
	return func(p *Pipeline) {
		p.renderer = r
	}
}

func New(name string, opts ...Option) *Pipeline {
	p := &Pipeline{name: name}
	for _, opt := range opts {
		opt(p)
	}
	if p.config == nil {
		p.config = GetConfig()
	}
	return p
}

func (p *Pipeline) Name() string {
	return p.name
}

func (p *Pipeline) Config() *Config {
	return p.config
}

// Run 启动并等待全部 stage 结束
func (p *Pipeline) Run(ctx context.Context) (*RunResult, error) {
	run, err := p.Start(ctx)
	if err != nil {
		return nil, err
	}
	return run.Wait(), nil
}

// Start 启动三个 stage，只有装配或配置错误才返回 error，运行期失败记录在 RunResult 中
func (p *Pipeline) Start(ctx context.Context) (*Run, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := p.check(); err != nil {
		return nil, err
	}

	cfg := p.config
	r := &Run{
		ID:          uuid.NewString(),
		pipeline:    p,
		monitor:     p.resolveMonitor(),
		joinTimeout: cfg.JoinTimeoutDuration(),
		stop:        make(chan struct{}),
		sinkDone:    make(chan struct{}),
		done:        make(chan struct{}),
		start:       time.Now(),
	}

	ctx = xlog.CtxWithKV(ctx, map[string]any{"pipeline": p.name, "runId": r.ID})
	ctx, r.span = xtrace.Tracer("xpipeline").Start(ctx, "xpipeline.run", trace.WithAttributes(
		attribute.String("pipeline.name", p.name),
		attribute.String("pipeline.run_id", r.ID),
		attribute.String("pipeline.source", p.identifier),
	))
	r.ctx, r.cancelCtx = context.WithCancel(ctx)

	chA := NewBoundedChannel[Item](cfg.ChannelCapacity)
	chB := NewBoundedChannel[Item](cfg.ChannelCapacity)
	r.stages = []Stage{
		NewSourceStage(p.opener, p.identifier, chA, cfg.MaxFrames),
		NewTransformStage(p.transform, chA, chB, cfg.TransformFailurePolicy),
		NewSinkStage(p.renderer, chB, cfg.FrameDelay(), r.stop),
	}
	r.results = make([]*StageResult, len(r.stages))

	xlog.Info(r.ctx, "[xpipeline] pipeline start, source=[%s], capacity=[%d], maxFrames=[%d]",
		p.identifier, cfg.ChannelCapacity, cfg.MaxFrames)

	var wg sync.WaitGroup
	for i, st := range r.stages {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res := r.runStage(st)
			r.record(i, res)
			if st.Name() != SinkStageName {
				return
			}
			close(r.sinkDone)
			if cfg.CancelUpstream && res.Status != StageCompleted {
				xlog.Info(r.ctx, "[xpipeline] sink exited early, cancel upstream stages")
				r.cancelCtx()
			}
			if r.cancelRequested() {
				r.cancelCtx()
			}
		}()
	}
	go func() {
		wg.Wait()
		close(r.done)
	}()
	return r, nil
}

func (p *Pipeline) check() error {
	if p.opener == nil {
		return xerror.Newf("xpipeline", "start", "pipeline [%s] has no source", p.name)
	}
	if p.transform == nil {
		return xerror.Newf("xpipeline", "start", "pipeline [%s] has no transform", p.name)
	}
	if p.renderer == nil {
		return xerror.Newf("xpipeline", "start", "pipeline [%s] has no renderer", p.name)
	}
	return validateConfig(p.config)
}

// resolveMonitor config 禁用时返回 nil
func (p *Pipeline) resolveMonitor() Monitor {
	if p.config.DisableMonitor {
		return nil
	}
	if p.monitor != nil {
		return p.monitor
	}
	return GetDefaultMonitor()
}

// Run 一次运行的句柄，持有三个 stage 并负责等待它们全部结束
type Run struct {
	ID string

	pipeline    *Pipeline
	monitor     Monitor
	joinTimeout time.Duration
	ctx         context.Context
	cancelCtx   context.CancelFunc
	span        trace.Span
	start       time.Time

	stages  []Stage
	mu      sync.Mutex
	results []*StageResult

	stop     chan struct{}
	stopOnce sync.Once
	// sinkDone sink 退出后关闭
	sinkDone chan struct{}
	done     chan struct{}

	waitOnce sync.Once
	result   *RunResult
}

// Cancel 发出本次运行的取消信号，sink 在当前帧结束后退出，可重复调用
// sink 退出后上游已经没有消费者，此时一并取消运行 ctx，避免 transform 中止后仍在等待上游结束标记
func (r *Run) Cancel() {
	r.stopOnce.Do(func() {
		close(r.stop)
	})
	select {
	case <-r.sinkDone:
		r.cancelCtx()
	default:
	}
}

func (r *Run) cancelRequested() bool {
	select {
	case <-r.stop:
		return true
	default:
		return false
	}
}

// Done 全部 stage 结束后关闭
func (r *Run) Done() <-chan struct{} {
	return r.done
}

// Wait 等待全部 stage 结束，配置了 JoinTimeout 时最多等待该时长
// 超时后取消本次运行的 ctx 让仍阻塞的 stage 退出，但不再等待它们
func (r *Run) Wait() *RunResult {
	r.waitOnce.Do(func() {
		timedOut := false
		if r.joinTimeout > 0 {
			timer := time.NewTimer(r.joinTimeout)
			select {
			case <-r.done:
			case <-timer.C:
				timedOut = true
			}
			timer.Stop()
		} else {
			<-r.done
		}
		r.cancelCtx()
		r.result = r.buildResult(timedOut)
		r.finish()
	})
	return r.result
}

func (r *Run) runStage(st Stage) (res *StageResult) {
	ctx, span := xtrace.Tracer("xpipeline").Start(r.ctx, "xpipeline."+st.Name())
	defer span.End()
	defer func() {
		if rec := recover(); rec != nil {
			res = newStageResult(st.Name())
			res.fail(panicError(rec))
		}
		if res == nil {
			res = newStageResult(st.Name())
		}
		span.SetAttributes(
			attribute.Int("stage.frames", res.Frames),
			attribute.String("stage.status", res.Status.String()),
		)
		if res.End != nil {
			span.SetAttributes(attribute.String("stage.end_reason", res.End.Reason.String()))
		}
		if res.Status == StageFailed {
			span.RecordError(res.Err)
			span.SetStatus(codes.Error, res.Err.Error())
		}
		if r.monitor != nil {
			r.monitor.OnStageDone(ctx, &StageEvent{PipelineName: r.pipeline.name, RunID: r.ID, Result: res})
		}
	}()
	return st.Run(ctx)
}

func (r *Run) record(i int, res *StageResult) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.results[i] = res
}

func (r *Run) buildResult(timedOut bool) *RunResult {
	r.mu.Lock()
	defer r.mu.Unlock()

	result := &RunResult{RunID: r.ID, TimedOut: timedOut, Duration: time.Since(r.start)}
	for i, st := range r.stages {
		res := r.results[i]
		if res == nil {
			res = &StageResult{Stage: st.Name(), Status: StageUnfinished}
		} else {
			cp := *res
			res = &cp
		}
		result.Stages = append(result.Stages, res)
		if res.Status == StageFailed {
			result.Errors = append(result.Errors, &StepError{StageName: res.Stage, Err: res.Err})
		}
		if res.Stage == SinkStageName {
			result.Rendered = res.Frames
			result.Cancelled = res.Status == StageCancelled
		}
	}
	return result
}

func (r *Run) finish() {
	res := r.result
	r.span.SetAttributes(
		attribute.Int("pipeline.rendered", res.Rendered),
		attribute.Bool("pipeline.cancelled", res.Cancelled),
		attribute.Bool("pipeline.timed_out", res.TimedOut),
	)
	if !res.Success() {
		r.span.SetStatus(codes.Error, res.String())
	}
	r.span.End()

	if res.TimedOut {
		xlog.Warn(r.ctx, "[xpipeline] pipeline join timeout, timeout=[%s], %s", r.joinTimeout, res)
	}
	if r.monitor != nil {
		r.monitor.OnPipelineDone(r.ctx, &PipelineEvent{
			PipelineName: r.pipeline.name,
			RunID:        r.ID,
			Result:       res,
			Duration:     res.Duration,
		})
	}
}
