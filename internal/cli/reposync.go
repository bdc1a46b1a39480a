package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"

	"github.com/buildrig/buildrig/internal/checkout"
)

// ParseReposync processes command-line arguments for the reposync binary.
// It returns populated checkout.Options, a boolean indicating if the
// program should exit cleanly, or an ExitError.
func ParseReposync(args []string, output io.Writer) (*checkout.Options, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("reposync", flag.ContinueOnError)
	flagSet.SetOutput(output)

	// Custom usage/help text function
	flagSet.Usage = func() {
		fmt.Fprint(output, `
reposync - Clones and updates the repositories a workspace builds from.

Usage:
  reposync --config CONFIG --source-root DIR [options]

Options:
`)
		flagSet.PrintDefaults()
	}

	configFlag := flagSet.String("config", "", "Path to the checkout configuration file.")
	sourceRootFlag := flagSet.String("source-root", "", "Directory the repositories are checked out into.")
	schemeFlag := flagSet.String("scheme", "", "Branch scheme to apply, by name or alias. Empty uses the config's default.")
	cloneFlag := flagSet.Bool("clone", false, "Clone repositories missing from the source root.")
	updateFlag := flagSet.Bool("update", false, "Fetch and rebase repositories already present.")
	logFormatFlag := flagSet.String("log-format", "json", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	if !*cloneFlag && !*updateFlag {
		slog.Debug("No operation requested, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}

	logFormat, logLevel, err := validateLogFlags(*logFormatFlag, *logLevelFlag)
	if err != nil {
		return nil, false, err
	}
	slog.Debug("CLI parameter validation complete.")

	opts, err := checkout.NewOptions(checkout.Options{
		ConfigPath: *configFlag,
		SourceRoot: *sourceRootFlag,
		Scheme:     *schemeFlag,
		Clone:      *cloneFlag,
		Update:     *updateFlag,
		LogFormat:  logFormat,
		LogLevel:   logLevel,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "options", opts)
	return opts, false, nil
}
