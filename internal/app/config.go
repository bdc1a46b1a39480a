package app

import "errors"

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	WorkspacePath string // hcl files: workspace, toolchain, product blocks
	ProductsPath  string // hcl files: adapter manifests

	// HostTarget overrides both autodetection and the workspace's
	// host_target attribute. Empty means "defer".
	HostTarget string

	// DryRun logs external commands instead of running them.
	DryRun bool

	LogFormat       string
	LogLevel        string
	HealthcheckPort int
}

func NewConfig(cfg Config) (*Config, error) {
	if cfg.WorkspacePath == "" {
		return nil, errors.New("WorkspacePath is a required configuration field and cannot be empty")
	}

	// Future validations for other fields can be added here.

	return &cfg, nil
}
