package main

import (
	"os"

	"github.com/trebuchet-org/govlock/internal/cli"
	"github.com/trebuchet-org/govlock/internal/config"
)

// Set with -ldflags "-X main.version=..."
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	config.SetBuildFlags(version, commit, date)
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
