package xserver

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/xiaoshicae/xplayer/xhook"
	"github.com/xiaoshicae/xplayer/xutil"
)

// stopWait Stop 之后等待 Run 返回的最长时间
var stopWait = 30 * time.Second

// Run 执行启动 hook 后阻塞运行 server，直到 server 结束或收到退出信号，最后执行停止 hook
func Run(server Server) error {
	if server == nil {
		return errors.New("XPlayer Run server failed, err=[server is nil]")
	}
	return run(server)
}

// R 只执行启动 hook，用于调试或在已有程序中复用 XPlayer 的配置与日志
func R() error {
	return run(nil)
}

func run(server Server) error {
	if err := xhook.InvokeBeforeStartHook(); err != nil {
		return err
	}
	if server == nil {
		return nil
	}

	serverRunErr := runWithServer(server)
	beforeStopHookErr := xhook.InvokeBeforeStopHook()
	if serverRunErr != nil || beforeStopHookErr != nil {
		return errors.Join(serverRunErr, beforeStopHookErr)
	}
	return nil
}

func runWithServer(s Server) error {
	serverRunErrChan := make(chan error, 1)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, quitSignals...)
	defer signal.Stop(quit)

	go safeInvokeServerRun(s, serverRunErrChan)

	select {
	case err := <-serverRunErrChan:
		if err != nil {
			return fmt.Errorf("XPlayer Run server failed, err=[%v]", err)
		}
		xutil.InfoIfEnableDebug("XPlayer Run server finished")
		return nil
	case sig := <-quit:
		xutil.InfoIfEnableDebug("********** XPlayer Stop server begin, signal=[%v] **********", sig)
		if err := safeInvokeServerStop(s); err != nil {
			return fmt.Errorf("XPlayer Stop server failed, err=[%v]", err)
		}
		// Stop 后 Run 通常很快返回，超时则不再等待
		select {
		case err := <-serverRunErrChan:
			if err != nil {
				xutil.WarnIfEnableDebug("XPlayer Run server returned after stop, err=[%v]", err)
			}
		case <-time.After(stopWait):
			xutil.WarnIfEnableDebug("XPlayer Run server not returned in %v after stop", stopWait)
		}
		xutil.InfoIfEnableDebug("********** XPlayer Stop server success **********")
		return nil
	}
}

func safeInvokeServerRun(s Server, serverRunErrChan chan<- error) {
	defer func() {
		if r := recover(); r != nil {
			serverRunErrChan <- fmt.Errorf("panic occurred, %v", r)
		}
	}()

	err := s.Run()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		serverRunErrChan <- err
		return
	}
	serverRunErrChan <- nil
}

func safeInvokeServerStop(s Server) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic occurred, %v", r)
		}
	}()
	return s.Stop()
}

var quitSignals = []os.Signal{
	syscall.SIGHUP,
	syscall.SIGINT,
	syscall.SIGTERM,
}
