package main

import (
	"os"

	"github.com/conneroisu/dimens/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(cmd.ExitCode(err))
	}
}
