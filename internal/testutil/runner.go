package testutil

import (
	"context"
	"sync"

	"github.com/buildrig/buildrig/internal/shell"
)

// RecordedCommand is one shell invocation captured by a RecordingRunner.
type RecordedCommand struct {
	Argv     []string
	Dir      string
	HasStdin bool
}

// RecordingRunner is a shell.Runner that captures commands instead of
// executing them. Individual commands can be scripted to fail.
type RecordingRunner struct {
	mu       sync.Mutex
	commands []RecordedCommand
	failOn   map[string]error
}

// NewRecordingRunner creates an empty RecordingRunner.
func NewRecordingRunner() *RecordingRunner {
	return &RecordingRunner{failOn: make(map[string]error)}
}

// FailOn makes every subsequent command whose argv contains token fail
// with err.
func (r *RecordingRunner) FailOn(token string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failOn[token] = err
}

// Run implements shell.Runner.
func (r *RecordingRunner) Run(ctx context.Context, cmd *shell.Command) error {
	return r.record(cmd)
}

// Output implements shell.Runner. Captured commands produce no output.
func (r *RecordingRunner) Output(ctx context.Context, cmd *shell.Command) (string, error) {
	return "", r.record(cmd)
}

func (r *RecordingRunner) record(cmd *shell.Command) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.commands = append(r.commands, RecordedCommand{
		Argv:     append([]string(nil), cmd.Argv...),
		Dir:      cmd.Dir,
		HasStdin: cmd.Stdin != nil,
	})

	for _, arg := range cmd.Argv {
		if err, ok := r.failOn[arg]; ok {
			return err
		}
	}
	return nil
}

// Commands returns a snapshot of every command run so far.
func (r *RecordingRunner) Commands() []RecordedCommand {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]RecordedCommand(nil), r.commands...)
}
