package main

import (
	"os"
	"runtime/debug"

	"github.com/chainbook/chainbook/cmd"
	"github.com/chainbook/chainbook/logx"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			_ = logx.Errorf("CRASHED: %v\n%s", r, debug.Stack())
			os.Exit(1)
		}
	}()

	cmd.Execute()
}
