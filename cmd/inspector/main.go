package main

import (
	"os"

	"github.com/conduit-lang/inspector/internal/cli/commands"
)

// Version information is set at build time:
//
//	go build -ldflags "-X github.com/conduit-lang/inspector/internal/cli/commands.Version=v0.1.0"
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
