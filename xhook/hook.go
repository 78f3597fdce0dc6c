package xhook

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/xiaoshicae/xplayer/xerror"
	"github.com/xiaoshicae/xplayer/xutil"

	"golang.org/x/exp/slices"
)

const maxHookNum = 1000

// HookFunc Hook 函数
type HookFunc func() error

type hook struct {
	fn   HookFunc
	opts *options
}

// registry 一类 hook 的注册表，注册时去重，执行前按 Order 稳定排序
type registry struct {
	kind   string
	hooks  []hook
	sorted bool
	seen   map[uintptr]struct{}
}

func newRegistry(kind string) *registry {
	return &registry{kind: kind, sorted: true, seen: make(map[uintptr]struct{})}
}

var (
	mu          sync.Mutex
	startHooks  = newRegistry("BeforeStart")
	stopHooks   = newRegistry("BeforeStop")
	stopTimeout = 30 * time.Second
)

// SetStopTimeout 设置 BeforeStop hooks 的整体超时
func SetStopTimeout(timeout time.Duration) {
	if timeout <= 0 {
		return
	}
	mu.Lock()
	stopTimeout = timeout
	mu.Unlock()
}

// BeforeStart 注册启动前执行的 hook
func BeforeStart(f HookFunc, opts ...Option) {
	register(startHooks, f, opts)
}

// BeforeStop 注册停止前执行的 hook
func BeforeStop(f HookFunc, opts ...Option) {
	register(stopHooks, f, opts)
}

func register(r *registry, f HookFunc, opts []Option) {
	if f == nil {
		panic(fmt.Sprintf("XPlayer %s hook can not be nil", r.kind))
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	mu.Lock()
	defer mu.Unlock()

	if len(r.hooks) >= maxHookNum {
		panic(fmt.Sprintf("XPlayer %s hook can not be more than %d", r.kind, maxHookNum))
	}
	// 闭包的函数指针相同，只对具名函数去重
	fp := reflect.ValueOf(f).Pointer()
	if !isClosure(f) {
		if _, ok := r.seen[fp]; ok {
			xutil.WarnIfEnableDebug("XPlayer %s hook duplicate registration, func=[%s]", r.kind, funcName(f))
			return
		}
		r.seen[fp] = struct{}{}
	}
	r.hooks = append(r.hooks, hook{fn: f, opts: o})
	r.sorted = false
}

func isClosure(f HookFunc) bool {
	_, _, name := xutil.GetFuncInfo(f)
	return strings.Contains(name, ".func")
}

func snapshot(r *registry) []hook {
	mu.Lock()
	defer mu.Unlock()
	if !r.sorted {
		slices.SortStableFunc(r.hooks, func(a, b hook) int { return a.opts.Order - b.opts.Order })
		r.sorted = true
	}
	return slices.Clone(r.hooks)
}

// InvokeBeforeStartHook 按顺序执行 BeforeStart hooks
// MustInvokeSuccess=true 的 hook 失败时立即返回错误
func InvokeBeforeStartHook() error {
	for _, h := range snapshot(startHooks) {
		name := funcName(h.fn)
		err := invokeWithTimeout(h.fn, h.opts.Timeout)
		switch {
		case err == nil:
			xutil.InfoIfEnableDebug("XPlayer before start hook success, func=[%s]", name)
		case h.opts.MustInvokeSuccess:
			xutil.ErrorIfEnableDebug("XPlayer before start hook failed, func=[%s], err=[%v]", name, err)
			return xerror.Newf("xhook", "BeforeStart", "func=[%s], err=[%w]", name, err)
		default:
			xutil.WarnIfEnableDebug("XPlayer before start hook failed and ignored, func=[%s], err=[%v]", name, err)
		}
	}
	return nil
}

// InvokeBeforeStopHook 执行全部 BeforeStop hooks，单个失败不影响后续 hook，整体受 stopTimeout 约束
func InvokeBeforeStopHook() error {
	hooks := snapshot(stopHooks)
	if len(hooks) == 0 {
		return nil
	}

	mu.Lock()
	timeout := stopTimeout
	mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- invokeStopHooks(ctx, hooks)
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return xerror.Newf("xhook", "BeforeStop", "timeout after %v", timeout)
	}
}

func invokeStopHooks(ctx context.Context, hooks []hook) error {
	var failed []string
	for i, h := range hooks {
		if ctx.Err() != nil {
			return xerror.Newf("xhook", "BeforeStop", "interrupted, completed %d/%d hooks", i, len(hooks))
		}
		timeout := h.opts.Timeout
		if deadline, ok := ctx.Deadline(); ok {
			if remaining := time.Until(deadline); timeout <= 0 || remaining < timeout {
				timeout = remaining
			}
		}
		name := funcName(h.fn)
		if err := invokeWithTimeout(h.fn, timeout); err != nil {
			xutil.ErrorIfEnableDebug("XPlayer before stop hook failed, func=[%s], err=[%v]", name, err)
			failed = append(failed, fmt.Sprintf("func=[%s], err=[%v]", name, err))
			continue
		}
		xutil.InfoIfEnableDebug("XPlayer before stop hook success, func=[%s]", name)
	}
	if len(failed) > 0 {
		return xerror.Newf("xhook", "BeforeStop", "%s", strings.Join(failed, "; "))
	}
	return nil
}

// invokeWithTimeout 超时只代表放弃等待，hook 所在 goroutine 会继续运行直到返回
func invokeWithTimeout(f HookFunc, timeout time.Duration) error {
	if timeout <= 0 {
		return safeInvoke(f)
	}
	ch := make(chan error, 1)
	go func() {
		ch <- safeInvoke(f)
	}()
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case err := <-ch:
		return err
	case <-timer.C:
		return xerror.Newf("xhook", "invoke", "hook timeout after %v", timeout)
	}
}

func safeInvoke(f HookFunc) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = xerror.Newf("xhook", "invoke", "panic occurred, %v", r)
		}
	}()
	return f()
}

func funcName(f HookFunc) string {
	file, line, name := xutil.GetFuncInfo(f)
	return fmt.Sprintf("%s:%d %s()", file, line, name)
}
