package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/buildrig/buildrig/internal/checkout"
	"github.com/buildrig/buildrig/internal/cli"
)

// main is the entrypoint for the reposync binary.
func main() {
	// Use a minimal logger until the full one is configured.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	// The real main function handles errors and exit codes.
	if err := run(os.Stdout, os.Args[1:]); err != nil {
		if exitErr, ok := err.(*cli.ExitError); ok {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run encapsulates the sync logic for easier testing and error handling.
func run(outW io.Writer, args []string) error {
	opts, shouldExit, err := cli.ParseReposync(args, outW)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	return checkout.Run(context.Background(), outW, opts)
}
