package xplayer

import (
	"context"
	"sync"

	"github.com/xiaoshicae/xplayer/xerror"
	"github.com/xiaoshicae/xplayer/xlog"
	"github.com/xiaoshicae/xplayer/xpipeline"
	"github.com/xiaoshicae/xplayer/xrender"
	"github.com/xiaoshicae/xplayer/xserver"
	"github.com/xiaoshicae/xplayer/xsource"
	"github.com/xiaoshicae/xplayer/xtransform"
)

// Player 把一次流水线运行包装成 xserver.Server
// 配置在 Run 时读取，此时启动 hook 已完成配置加载
type Player struct {
	config *Config
	opts   []xpipeline.Option

	mu      sync.Mutex
	cancel  context.CancelFunc
	run     *xpipeline.Run
	result  *xpipeline.RunResult
	stopped bool
}

var _ xserver.Server = (*Player)(nil)

// NewPlayer c 为 nil 时在 Run 时读取 XPlayer 配置，opts 追加到流水线选项之后
func NewPlayer(c *Config, opts ...xpipeline.Option) *Player {
	return &Player{config: c, opts: opts}
}

// Build 按配置组装流水线
func (p *Player) Build() (*xpipeline.Pipeline, error) {
	c := p.config
	if c == nil {
		var err error
		if c, err = GetConfig(); err != nil {
			return nil, err
		}
	} else {
		c = configMergeDefault(c)
	}
	if err := validateConfig(c); err != nil {
		return nil, err
	}

	transform, err := xtransform.ByName(c.Transform)
	if err != nil {
		return nil, err
	}
	renderer, err := xrender.New(c.Renderer)
	if err != nil {
		return nil, err
	}

	pipelineConfig := xpipeline.GetConfig()
	if c.MaxFrames > 0 {
		pipelineConfig.MaxFrames = c.MaxFrames
	}

	sourceOpts := []xsource.Option{xsource.WithFFmpeg(c.FFmpeg, c.FFprobe)}
	if c.CacheName != "" {
		sourceOpts = append(sourceOpts, xsource.WithCacheName(c.CacheName))
	}
	opts := []xpipeline.Option{
		xpipeline.WithConfig(pipelineConfig),
		xpipeline.WithSource(xsource.NewOpener(sourceOpts...), c.Source),
		xpipeline.WithTransform(transform),
		xpipeline.WithRenderer(renderer),
	}
	return xpipeline.New("xplayer", append(opts, p.opts...)...), nil
}

// Run 播放直到结束、被取消或 Stop，运行期失败只记录日志，不作为错误返回
func (p *Player) Run() error {
	pipeline, err := p.Build()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return nil
	}
	run, err := pipeline.Start(ctx)
	if err != nil {
		p.mu.Unlock()
		return xerror.New("xplayer", "run", err)
	}
	p.run, p.cancel = run, cancel
	p.mu.Unlock()

	res := run.Wait()
	p.mu.Lock()
	p.result = res
	p.mu.Unlock()

	if res.Success() {
		xlog.Info(ctx, "XPlayer playback finished, %s", res)
	} else {
		for _, se := range res.Errors {
			xlog.Error(ctx, "XPlayer playback stage failed, %v", se)
		}
		xlog.Warn(ctx, "XPlayer playback finished with errors, %s", res)
	}
	return nil
}

// Stop 进程退出时调用：发出取消信号，同时取消三个 stage
func (p *Player) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopped = true
	if p.run != nil {
		p.run.Cancel()
	}
	if p.cancel != nil {
		p.cancel()
	}
	return nil
}

// Result 最近一次运行结果，未运行完时返回 nil
func (p *Player) Result() *xpipeline.RunResult {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.result
}
