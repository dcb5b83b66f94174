// Command typefinder discovers types satisfying a contract across the
// modules loaded into a host.
package main

import (
	"context"
	"os"

	"github.com/charmbracelet/fang"

	"github.com/custodia-labs/typefinder/internal/adapters/driving/cli"
	"github.com/custodia-labs/typefinder/internal/logger"
)

// version is set via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cli.SetVersion(version)
	cli.SetBootstrap(bootstrap)

	err := fang.Execute(
		context.Background(),
		cli.RootCommand(),
		fang.WithVersion(version),
		fang.WithNotifySignal(os.Interrupt),
	)
	if closeErr := cli.Release(); closeErr != nil {
		logger.Error("closing: %v", closeErr)
	}
	if err != nil {
		os.Exit(1)
	}
}
