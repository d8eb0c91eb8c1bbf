package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/TFMV/simplegraph/cli"
)

// version is set at build time:
//
//	go build -ldflags "-X main.version=v1.0.0"
var version = "dev"

func main() {
	// Create a context that is canceled on SIGINT/SIGTERM
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := rootCommand(os.Stderr).ExecuteContext(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			os.Exit(130)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// rootCommand builds the CLI stamped with the build version.
func rootCommand(logw io.Writer) *cobra.Command {
	cli.SetVersion(version)
	return cli.NewRootCommand(logw)
}
