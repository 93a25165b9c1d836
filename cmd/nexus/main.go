package main

import (
	"os"

	"nexus-cli/internal/cli"
)

func main() {
	os.Exit(cli.Run())
}
