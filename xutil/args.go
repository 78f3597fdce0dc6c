package xutil

import (
	"fmt"
	"os"
	"regexp"
	"strings"
)

var argKeyPattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_.-]*$`)

// GetConfigFromArgs 从启动参数中获取 key 对应的值，支持 --key value 与 --key=value 两种写法
func GetConfigFromArgs(key string) (string, error) {
	return lookupArg(os.Args[1:], key)
}

func lookupArg(args []string, key string) (string, error) {
	if !argKeyPattern.MatchString(key) {
		return "", fmt.Errorf("key must match regexp: %s", argKeyPattern.String())
	}
	for i, arg := range args {
		arg = strings.TrimLeft(arg, "-")
		if arg == key {
			if i+1 == len(args) {
				return "", fmt.Errorf("arg [%s] has no value", key)
			}
			return args[i+1], nil
		}
		if v, ok := strings.CutPrefix(arg, key+"="); ok {
			return v, nil
		}
	}
	return "", fmt.Errorf("arg [%s] not found", key)
}
