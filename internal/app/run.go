package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/buildrig/buildrig/internal/config"
	"github.com/buildrig/buildrig/internal/ctxlog"
	"github.com/buildrig/buildrig/internal/dag"
	"github.com/buildrig/buildrig/internal/executor"
	"github.com/buildrig/buildrig/internal/product"
	"github.com/buildrig/buildrig/internal/shell"
	"github.com/buildrig/buildrig/internal/target"
	"github.com/buildrig/buildrig/internal/toolchain"
)

// Run executes the main application logic based on the provided configuration.
func (a *App) Run(ctx context.Context, appConfig *Config) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	if appConfig.HealthcheckPort > 0 {
		a.startHealthcheckServer(appConfig.HealthcheckPort)
	}

	ws := a.config.Workspace

	tgt, err := resolveTarget(appConfig, ws)
	if err != nil {
		return err
	}
	a.logger.Info("Host target resolved.", "target", tgt.String())

	a.logger.Debug("Building dependency graph from config model...")
	graph, err := dag.Build(ctx, a.config, a.registry)
	if err != nil {
		return fmt.Errorf("failed to build dependency graph: %w", err)
	}
	a.logger.Debug("Dependency graph built.", "node_count", len(graph.Nodes))

	tc := toolchain.Resolve(ctx, toolchainOverrides(a.config.Toolchain), installedBinDir(ws))
	if !appConfig.DryRun {
		if err := a.requireProductTools(tc); err != nil {
			return err
		}
	}

	runner := &shell.ExecRunner{Stdout: os.Stdout, Stderr: os.Stderr, DryRun: appConfig.DryRun}
	env := &product.Environment{
		Workspace: ws,
		Toolchain: tc,
		Target:    tgt,
		Shell:     runner,
	}

	if len(graph.Nodes) > 0 {
		a.logger.Info("🚀 Starting execution...", "products", len(graph.Nodes), "dry_run", appConfig.DryRun)
		exec := executor.New(graph, a.registry, a.converter, env)
		if err := exec.Run(ctx); err != nil {
			return fmt.Errorf("execution failed: %w", err)
		}
		a.logger.Info("🏁 Execution finished.")
	} else {
		a.logger.Warn("No products found in configuration, execution not required.")
	}

	a.logger.Debug("App.Run method finished.")
	return nil
}

// resolveTarget picks the host target: the CLI flag wins, then the
// workspace's host_target attribute, then autodetection.
func resolveTarget(appConfig *Config, ws *config.Workspace) (target.Target, error) {
	tag := appConfig.HostTarget
	if tag == "" && ws != nil {
		tag = ws.HostTarget
	}
	if tag != "" {
		return target.Parse(tag)
	}
	return target.Host()
}

// toolchainOverrides converts the model's toolchain block, which may be
// absent, into resolver overrides.
func toolchainOverrides(tc *config.ToolchainOverrides) toolchain.Overrides {
	if tc == nil {
		return toolchain.Overrides{}
	}
	return toolchain.Overrides{
		CC:    tc.CC,
		CMake: tc.CMake,
		Ninja: tc.Ninja,
		Bazel: tc.Bazel,
		Git:   tc.Git,
	}
}

// installedBinDir returns the bin directory of a previously installed
// toolchain under the workspace's install destination, or "".
func installedBinDir(ws *config.Workspace) string {
	if ws == nil || ws.InstallDestDir == "" {
		return ""
	}
	return filepath.Join(ws.InstallDestDir, ws.InstallPrefix, "bin")
}

// requireProductTools verifies, per product that will run, that every tool
// its adapter manifest declares was resolved.
func (a *App) requireProductTools(tc *toolchain.Toolchain) error {
	for _, p := range a.config.Products {
		if !p.BuildEnabled && !p.TestEnabled && !p.InstallEnabled {
			continue
		}
		def, ok := a.registry.DefinitionRegistry[p.AdapterType]
		if !ok || len(def.Tools) == 0 {
			continue
		}
		if err := tc.Require(def.Tools...); err != nil {
			return fmt.Errorf("product %q %q: %w", p.AdapterType, p.Name, err)
		}
	}
	return nil
}
