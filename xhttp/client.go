// Package xhttp 提供带 trace 的 http client，xsource 用它拉取远程帧
package xhttp

import (
	"context"
	"sync"

	"github.com/go-resty/resty/v2"
)

var (
	clientMu      sync.RWMutex
	defaultClient *resty.Client
)

// C 获取 http client，未执行启动 hook 时按默认配置创建
func C() *resty.Client {
	clientMu.RLock()
	cli := defaultClient
	clientMu.RUnlock()
	if cli != nil {
		return cli
	}

	clientMu.Lock()
	defer clientMu.Unlock()
	if defaultClient == nil {
		defaultClient = newClient(configMergeDefault(nil))
	}
	return defaultClient
}

// RWithCtx 保证 ctx 中的 trace 和取消信号传递到请求
func RWithCtx(ctx context.Context) *resty.Request {
	return C().R().SetContext(ctx)
}

func setDefaultClient(client *resty.Client) {
	clientMu.Lock()
	defaultClient = client
	clientMu.Unlock()
}
