package main

import (
	"fmt"
	"os"

	"github.com/xiaoshicae/xplayer"
)

// 用法：xplayer [--server.config.location ./application.yml] [--xplayer.source ./frames]
func main() {
	if err := xplayer.RunPlayer(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
