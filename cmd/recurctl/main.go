package main

import (
	"os"

	"github.com/coachkit/taskplan/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
