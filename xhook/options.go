package xhook

import "time"

const (
	defaultOrder       = 100
	defaultHookTimeout = 10 * time.Second
)

type Option func(*options)

type options struct {
	Order             int
	MustInvokeSuccess bool
	Timeout           time.Duration
}

// Order 执行顺序，越小越先执行
func Order(order int) Option {
	return func(o *options) {
		o.Order = order
	}
}

// MustInvokeSuccess BeforeStart 失败时是否中断启动
func MustInvokeSuccess(success bool) Option {
	return func(o *options) {
		o.MustInvokeSuccess = success
	}
}

// Timeout 单个 hook 的超时时间，<=0 表示不限制
func Timeout(timeout time.Duration) Option {
	return func(o *options) {
		o.Timeout = timeout
	}
}

func defaultOptions() *options {
	return &options{
		Order:             defaultOrder,
		MustInvokeSuccess: true,
		Timeout:           defaultHookTimeout,
	}
}
