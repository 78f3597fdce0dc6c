// Package xserver 负责运行 XPlayer 的长时间任务：执行启动 hook，运行 Server，等待退出信号，执行停止 hook
package xserver

// Server 由 xserver 托管运行的服务
type Server interface {
	// Run 阻塞运行，返回即视为服务结束（例如播放完成）
	Run() error

	// Stop 收到退出信号时调用，需要让 Run 尽快返回
	Stop() error
}
