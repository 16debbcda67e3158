package main

import (
	"os"

	"github.com/nemanja-m/gridexec/internal/cli"
)

func main() {
	if err := cli.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
