package checkout

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/buildrig/buildrig/internal/ctxlog"
	"github.com/buildrig/buildrig/internal/shell"
)

// Manager drives git to materialize a branch scheme under the source root.
type Manager struct {
	cfg        *Config
	sourceRoot string
	git        string
	shell      shell.Runner
}

// NewManager creates a Manager. git is the resolved git executable path.
func NewManager(cfg *Config, sourceRoot, git string, runner shell.Runner) *Manager {
	return &Manager{cfg: cfg, sourceRoot: sourceRoot, git: git, shell: runner}
}

// Clone materializes every repo of the scheme that is not yet present under
// the source root. Existing checkouts are left untouched.
func (m *Manager) Clone(ctx context.Context, scheme *Scheme) error {
	logger := ctxlog.FromContext(ctx)

	for _, repo := range m.schemeRepos(scheme) {
		dir := filepath.Join(m.sourceRoot, repo.Path)
		if _, err := os.Stat(dir); err == nil {
			logger.Info("Repository already present, skipping clone.", "repo", repo.Name, "dir", dir)
			continue
		}

		logger.Info("Cloning repository.", "repo", repo.Name, "remote", repo.Remote)
		err := m.shell.Run(ctx, &shell.Command{
			Argv: []string{m.git, "clone", repo.Remote, repo.Path},
			Dir:  m.sourceRoot,
		})
		if err != nil {
			return fmt.Errorf("cloning %q: %w", repo.Name, err)
		}

		ref := scheme.Refs[repo.Name]
		err = m.shell.Run(ctx, &shell.Command{
			Argv: []string{m.git, "checkout", ref},
			Dir:  dir,
		})
		if err != nil {
			return fmt.Errorf("checking out %q at %q: %w", repo.Name, ref, err)
		}
	}
	return nil
}

// Update fetches and rebases every repo of the scheme that exists locally.
// Repos missing from the source root are skipped with a warning.
func (m *Manager) Update(ctx context.Context, scheme *Scheme) error {
	logger := ctxlog.FromContext(ctx)

	for _, repo := range m.schemeRepos(scheme) {
		dir := filepath.Join(m.sourceRoot, repo.Path)
		if _, err := os.Stat(dir); err != nil {
			logger.Warn("Repository missing locally, skipping update.", "repo", repo.Name, "dir", dir)
			continue
		}

		ref := scheme.Refs[repo.Name]
		logger.Info("Updating repository.", "repo", repo.Name, "ref", ref)

		err := m.shell.Run(ctx, &shell.Command{
			Argv: []string{m.git, "fetch", "origin"},
			Dir:  dir,
		})
		if err != nil {
			return fmt.Errorf("fetching %q: %w", repo.Name, err)
		}

		err = m.shell.Run(ctx, &shell.Command{
			Argv: []string{m.git, "checkout", ref},
			Dir:  dir,
		})
		if err != nil {
			return fmt.Errorf("checking out %q at %q: %w", repo.Name, ref, err)
		}

		// A tag or detached sha has no upstream branch to rebase onto.
		if !m.remoteBranchExists(ctx, dir, ref) {
			logger.Info("Ref is not a branch on origin, skipping rebase.", "repo", repo.Name, "ref", ref)
			continue
		}

		err = m.shell.Run(ctx, &shell.Command{
			Argv: []string{m.git, "rebase", "--autostash", "origin/" + ref},
			Dir:  dir,
		})
		if err != nil {
			return fmt.Errorf("rebasing %q onto origin/%s: %w", repo.Name, ref, err)
		}
	}
	return nil
}

// remoteBranchExists probes whether origin carries ref as a branch. A
// failing probe means no.
func (m *Manager) remoteBranchExists(ctx context.Context, dir, ref string) bool {
	err := m.shell.Run(ctx, &shell.Command{
		Argv: []string{m.git, "show-ref", "--verify", "--quiet", "refs/remotes/origin/" + ref},
		Dir:  dir,
	})
	return err == nil
}

// schemeRepos returns the repos participating in scheme, sorted by name.
func (m *Manager) schemeRepos(scheme *Scheme) []*Repo {
	names := make([]string, 0, len(scheme.Refs))
	for name := range scheme.Refs {
		names = append(names, name)
	}
	sort.Strings(names)

	repos := make([]*Repo, 0, len(names))
	for _, name := range names {
		repos = append(repos, m.cfg.Repos[name])
	}
	return repos
}
