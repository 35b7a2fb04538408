package main

import (
	"os"

	"github.com/kisaragi-hiiragi/plotline/internal/cli"
)

func main() {
	if err := cli.RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
