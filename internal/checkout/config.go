package checkout

import (
	"fmt"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// --- HCL schema ---

type fileSchema struct {
	Defaults *defaultsSchema `hcl:"defaults,block"`
	Repos    []*repoSchema   `hcl:"repo,block"`
	Schemes  []*schemeSchema `hcl:"scheme,block"`
}

type defaultsSchema struct {
	Scheme     string `hcl:"scheme"`
	RemoteBase string `hcl:"remote_base"`
}

type repoSchema struct {
	Name   string `hcl:"name,label"`
	Remote string `hcl:"remote,optional"`
	Path   string `hcl:"path,optional"`
}

type schemeSchema struct {
	Name     string          `hcl:"name,label"`
	Aliases  []string        `hcl:"aliases,optional"`
	Branches []*branchSchema `hcl:"branch,block"`
}

type branchSchema struct {
	Repo string `hcl:"repo,label"`
	Ref  string `hcl:"ref"`
}

// --- Model ---

// Config is the loaded checkout configuration: the repositories under
// management and the branch schemes pinning their refs.
type Config struct {
	DefaultScheme string
	RemoteBase    string
	Repos         map[string]*Repo
	Schemes       map[string]*Scheme

	// aliases maps every scheme alias to its scheme name. Collisions are
	// load errors, so lookups are unambiguous.
	aliases map[string]string
}

// Repo is one repository under management.
type Repo struct {
	Name   string
	Remote string
	Path   string
}

// Scheme pins one ref per participating repository. A repo without a
// branch entry does not take part in the scheme.
type Scheme struct {
	Name    string
	Aliases []string
	Refs    map[string]string
}

// LoadConfig reads and validates a checkout configuration file.
func LoadConfig(path string) (*Config, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse checkout config %s: %w", path, diags)
	}

	var root fileSchema
	if diags := gohcl.DecodeBody(hclFile.Body, nil, &root); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode checkout config %s: %w", path, diags)
	}

	if root.Defaults == nil {
		return nil, fmt.Errorf("checkout config %s has no defaults block", path)
	}

	cfg := &Config{
		DefaultScheme: root.Defaults.Scheme,
		RemoteBase:    root.Defaults.RemoteBase,
		Repos:         make(map[string]*Repo, len(root.Repos)),
		Schemes:       make(map[string]*Scheme, len(root.Schemes)),
		aliases:       make(map[string]string),
	}

	for _, r := range root.Repos {
		if _, dup := cfg.Repos[r.Name]; dup {
			return nil, fmt.Errorf("duplicate repo %q", r.Name)
		}
		repo := &Repo{Name: r.Name, Remote: r.Remote, Path: r.Path}
		if repo.Remote == "" {
			repo.Remote = cfg.RemoteBase + "/" + r.Name + ".git"
		}
		if repo.Path == "" {
			repo.Path = r.Name
		}
		cfg.Repos[r.Name] = repo
	}

	for _, s := range root.Schemes {
		if _, dup := cfg.Schemes[s.Name]; dup {
			return nil, fmt.Errorf("duplicate scheme %q", s.Name)
		}
		scheme := &Scheme{
			Name:    s.Name,
			Aliases: s.Aliases,
			Refs:    make(map[string]string, len(s.Branches)),
		}
		for _, b := range s.Branches {
			if _, ok := cfg.Repos[b.Repo]; !ok {
				return nil, fmt.Errorf("scheme %q pins unknown repo %q", s.Name, b.Repo)
			}
			if _, dup := scheme.Refs[b.Repo]; dup {
				return nil, fmt.Errorf("scheme %q pins repo %q twice", s.Name, b.Repo)
			}
			scheme.Refs[b.Repo] = b.Ref
		}
		cfg.Schemes[s.Name] = scheme
	}

	for _, s := range root.Schemes {
		for _, alias := range s.Aliases {
			if _, clash := cfg.Schemes[alias]; clash {
				return nil, fmt.Errorf("scheme %q alias %q collides with a scheme name", s.Name, alias)
			}
			if owner, clash := cfg.aliases[alias]; clash {
				return nil, fmt.Errorf("alias %q claimed by both scheme %q and scheme %q", alias, owner, s.Name)
			}
			cfg.aliases[alias] = s.Name
		}
	}

	if _, ok := cfg.Schemes[cfg.DefaultScheme]; !ok {
		return nil, fmt.Errorf("default scheme %q is not defined", cfg.DefaultScheme)
	}

	return cfg, nil
}

// SelectScheme resolves a scheme by name or alias. An empty name selects
// the configured default.
func (c *Config) SelectScheme(name string) (*Scheme, error) {
	if name == "" {
		return c.Schemes[c.DefaultScheme], nil
	}
	if scheme, ok := c.Schemes[name]; ok {
		return scheme, nil
	}
	if owner, ok := c.aliases[name]; ok {
		return c.Schemes[owner], nil
	}
	return nil, fmt.Errorf("unknown branch scheme %q", name)
}
