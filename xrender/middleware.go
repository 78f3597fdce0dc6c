package xrender

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const maxStackSize = 16384

// recoverMiddleware panic 时记录堆栈并返回 500
func recoverMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				buf := make([]byte, maxStackSize)
				buf = buf[:runtime.Stack(buf, false)]
				logrus.WithContext(c.Request.Context()).WithFields(logrus.Fields{
					"panic_err":   fmt.Sprintf("%v", err),
					"panic_stack": string(buf),
				}).Errorf("[xrender] preview panic recover, err=[%v]", err)
				if !c.Writer.Written() {
					c.AbortWithStatus(http.StatusInternalServerError)
					return
				}
				c.Abort()
			}
		}()
		c.Next()
	}
}

// logMiddleware 请求日志，/frame 轮询频繁，使用 debug 级别
func logMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		begin := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		entry := logrus.WithContext(c.Request.Context()).WithFields(logrus.Fields{
			"request_method":  c.Request.Method,
			"request_urlPath": c.Request.URL.Path,
			"response_status": c.Writer.Status(),
			"process_latency": time.Since(begin).Milliseconds(),
		})
		if route == framePath {
			entry.Debugf("[xrender] %s %s request processed.", c.Request.Method, route)
			return
		}
		entry.Infof("[xrender] %s %s request processed.", c.Request.Method, route)
	}
}
