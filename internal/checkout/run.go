package checkout

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/buildrig/buildrig/internal/ctxlog"
	"github.com/buildrig/buildrig/internal/fsutil"
	"github.com/buildrig/buildrig/internal/shell"
	"github.com/buildrig/buildrig/internal/toolchain"
)

// Options holds all the necessary configuration for a reposync run.
type Options struct {
	ConfigPath string
	SourceRoot string

	// Scheme selects a branch scheme by name or alias. Empty uses the
	// config's default.
	Scheme string

	Clone  bool
	Update bool

	LogFormat string
	LogLevel  string
}

// NewOptions validates reposync options.
func NewOptions(opts Options) (*Options, error) {
	if opts.ConfigPath == "" {
		return nil, errors.New("ConfigPath is a required configuration field and cannot be empty")
	}
	if opts.SourceRoot == "" {
		return nil, errors.New("SourceRoot is a required configuration field and cannot be empty")
	}
	return &opts, nil
}

// Run executes the requested checkout operations: load the configuration,
// select the branch scheme, then clone and/or update.
func Run(ctx context.Context, outW io.Writer, opts *Options) error {
	logger := ctxlog.NewLogger(opts.LogLevel, opts.LogFormat, outW)
	ctx = ctxlog.WithLogger(ctx, logger)

	cfg, err := LoadConfig(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("failed to load checkout configuration: %w", err)
	}

	scheme, err := cfg.SelectScheme(opts.Scheme)
	if err != nil {
		return err
	}
	logger.Info("Branch scheme selected.", "scheme", scheme.Name, "repos", len(scheme.Refs))

	tc := toolchain.Resolve(ctx, toolchain.Overrides{}, "")
	if err := tc.Require(toolchain.ToolGit); err != nil {
		return err
	}

	if err := fsutil.EnsureDir(opts.SourceRoot); err != nil {
		return err
	}

	runner := &shell.ExecRunner{Stdout: os.Stdout, Stderr: os.Stderr}
	mgr := NewManager(cfg, opts.SourceRoot, tc.Path(toolchain.ToolGit), runner)

	logger.Info("🚀 Syncing repositories...", "source_root", opts.SourceRoot, "clone", opts.Clone, "update", opts.Update)
	if opts.Clone {
		if err := mgr.Clone(ctx, scheme); err != nil {
			return err
		}
	}
	if opts.Update {
		if err := mgr.Update(ctx, scheme); err != nil {
			return err
		}
	}
	logger.Info("🏁 Checkout finished.")

	return nil
}
