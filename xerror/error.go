// Package xerror 提供 XPlayer 统一错误类型
package xerror

import (
	"errors"
	"fmt"
)

// XPlayerError 统一错误类型，记录出错的模块、操作和原始错误
type XPlayerError struct {
	Module string // 模块名，如 "xconfig", "xsource"
	Op     string // 操作名，如 "init", "open"
	Err    error
}

func (e *XPlayerError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("XPlayer %s %s failed", e.Module, e.Op)
	}
	return fmt.Sprintf("XPlayer %s %s failed, err=[%v]", e.Module, e.Op, e.Err)
}

// Unwrap 支持 errors.Is / errors.As
func (e *XPlayerError) Unwrap() error {
	return e.Err
}

// New 创建 XPlayerError
func New(module, op string, err error) *XPlayerError {
	return &XPlayerError{Module: module, Op: op, Err: err}
}

// Newf 创建带格式化消息的 XPlayerError，格式中的 %w 会被保留为错误链
func Newf(module, op, format string, args ...any) *XPlayerError {
	return &XPlayerError{Module: module, Op: op, Err: fmt.Errorf(format, args...)}
}

// Is 判断 err 链中是否存在指定模块的 XPlayerError
func Is(err error, module string) bool {
	return Module(err) == module && module != ""
}

// Module 提取 err 链中最外层 XPlayerError 的模块名
func Module(err error) string {
	var xe *XPlayerError
	if errors.As(err, &xe) {
		return xe.Module
	}
	return ""
}
