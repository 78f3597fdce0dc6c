package xhttp

import (
	"net"
	"net/http"

	"github.com/xiaoshicae/xplayer/xconfig"
	"github.com/xiaoshicae/xplayer/xerror"
	"github.com/xiaoshicae/xplayer/xhook"
	"github.com/xiaoshicae/xplayer/xutil"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

func init() {
	xhook.BeforeStart(initXHttp, xhook.Order(5))
}

func initXHttp() error {
	c, err := getConfig()
	if err != nil {
		return xerror.Newf("xhttp", "init", "getConfig failed, err=[%w]", err)
	}
	xutil.InfoIfEnableDebug("XPlayer initXHttp got config: %s", xutil.ToJsonString(c))
	setDefaultClient(newClient(c))
	return nil
}

func newClient(c *Config) *resty.Client {
	var transport http.RoundTripper = http.DefaultTransport
	if t, ok := transport.(*http.Transport); ok {
		t = t.Clone()
		t.MaxIdleConnsPerHost = c.MaxIdleConnsPerHost
		t.IdleConnTimeout = xutil.ToDuration(c.IdleConnTimeout)
		t.DialContext = (&net.Dialer{Timeout: xutil.ToDuration(c.DialTimeout)}).DialContext
		transport = t
	}

	// trace 未开启时全局 provider 为 noop，这里无需判断
	raw := &http.Client{
		Transport: otelhttp.NewTransport(transport,
			otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
				return r.Method + " " + r.URL.Path
			}),
		),
		Timeout: xutil.ToDuration(c.Timeout),
	}

	cli := resty.NewWithClient(raw)
	if c.RetryCount > 0 {
		cli.SetRetryCount(c.RetryCount).
			SetRetryWaitTime(xutil.ToDuration(c.RetryWaitTime)).
			AddRetryCondition(func(r *resty.Response, err error) bool {
				return err != nil || (r != nil && r.StatusCode() >= http.StatusInternalServerError)
			})
	}
	return cli
}

func getConfig() (*Config, error) {
	c := &Config{}
	if err := xconfig.UnmarshalConfig(XHttpConfigKey, c); err != nil {
		return nil, err
	}
	return configMergeDefault(c), nil
}
