package xutil

import (
	"reflect"
	"runtime"
	"strings"
)

// IsSlice 是否为 slice 类型
func IsSlice(v any) bool {
	return v != nil && reflect.TypeOf(v).Kind() == reflect.Slice
}

// GetFuncInfo 获取函数的源文件、行号和短名称，非函数返回零值
func GetFuncInfo(fc any) (file string, line int, name string) {
	if fc == nil {
		return "", 0, ""
	}
	f := reflect.ValueOf(fc)
	if f.Kind() != reflect.Func || f.IsNil() {
		return "", 0, ""
	}
	fn := runtime.FuncForPC(f.Pointer())
	if fn == nil {
		return "", 0, ""
	}
	fullName := fn.Name()
	if idx := strings.LastIndex(fullName, "/"); idx != -1 {
		fullName = fullName[idx+1:]
	}
	_, name, found := strings.Cut(fullName, ".")
	if !found {
		return "", 0, ""
	}
	file, line = fn.FileLine(f.Pointer())
	return file, line, name
}
