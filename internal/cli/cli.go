package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/buildrig/buildrig/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments for the buildrig binary. It returns
// a populated app.Config, a boolean indicating if the program should exit
// cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("buildrig", flag.ContinueOnError)
	flagSet.SetOutput(output)

	// Custom usage/help text function
	flagSet.Usage = func() {
		fmt.Fprint(output, `
buildrig - A declarative orchestrator for multi-product builds.

Usage:
  buildrig [options] [WORKSPACE_PATH]

Arguments:
  WORKSPACE_PATH
    Path to a single .hcl workspace file or a directory containing .hcl files.

Options:
`)
		flagSet.PrintDefaults()
	}

	workspaceFlag := flagSet.String("workspace", "", "Path to the workspace file or directory.")
	wFlag := flagSet.String("w", "", "Path to the workspace file or directory (shorthand).")
	productsPathFlag := flagSet.String("products-path", "products", "Path to the directory containing product adapter manifests.")
	hostTargetFlag := flagSet.String("host-target", "", "Host target tag, e.g. 'linux-x86_64'. Empty autodetects.")
	dryRunFlag := flagSet.Bool("dry-run", false, "Log external build commands without executing them.")
	healthPortFlag := flagSet.Int("healthcheck-port", 0, "Port for the HTTP health check server. 0 is disabled.")
	logFormatFlag := flagSet.String("log-format", "json", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	path := ""
	if *workspaceFlag != "" {
		path = *workspaceFlag
	} else if *wFlag != "" {
		path = *wFlag
	} else if flagSet.NArg() > 0 {
		path = flagSet.Arg(0)
	}
	slog.Debug("Workspace path determined.", "path", path)

	if path == "" {
		slog.Debug("No workspace path provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}

	logFormat, logLevel, err := validateLogFlags(*logFormatFlag, *logLevelFlag)
	if err != nil {
		return nil, false, err
	}
	slog.Debug("CLI parameter validation complete.")

	config, err := app.NewConfig(app.Config{
		WorkspacePath:   path,
		ProductsPath:    *productsPathFlag,
		HostTarget:      *hostTargetFlag,
		DryRun:          *dryRunFlag,
		HealthcheckPort: *healthPortFlag,
		LogFormat:       logFormat,
		LogLevel:        logLevel,
	})

	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}

// validateLogFlags normalizes and checks the logging flags shared by both
// binaries.
func validateLogFlags(formatFlag, levelFlag string) (string, string, error) {
	logFormat := strings.ToLower(formatFlag)
	if logFormat != "text" && logFormat != "json" {
		return "", "", &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(levelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return "", "", &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}

	return logFormat, logLevel, nil
}
