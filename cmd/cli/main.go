package main

import (
	"os"

	"github.com/academia-dev/academia/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
