// Package runnertest provides a scripted runner.Runner for tests.
package runnertest

import (
	"context"
	"strings"
	"sync"

	"github.com/PolarWolf314/passman/internal/runner"
)

// Handler produces the outcome of one command.
type Handler func(cmd runner.Command) (*runner.Result, error)

// Fake records every command it receives and answers from Handlers keyed by
// command line prefix. Commands without a matching handler succeed with
// empty output.
type Fake struct {
	mu       sync.Mutex
	Calls    []runner.Command
	Handlers map[string]Handler
}

// New returns an empty Fake.
func New() *Fake {
	return &Fake{Handlers: map[string]Handler{}}
}

// On registers a handler for commands whose rendered line starts with prefix.
func (f *Fake) On(prefix string, h Handler) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Handlers[prefix] = h
	return f
}

// Fail makes commands starting with prefix exit with the given code and stderr.
func (f *Fake) Fail(prefix string, code int, stderr string) *Fake {
	return f.On(prefix, func(runner.Command) (*runner.Result, error) {
		return &runner.Result{ExitCode: code, Stderr: []byte(stderr)}, nil
	})
}

// Run implements runner.Runner.
func (f *Fake) Run(_ context.Context, cmd runner.Command) (*runner.Result, error) {
	f.mu.Lock()
	f.Calls = append(f.Calls, cmd)
	h := f.match(cmd.String())
	f.mu.Unlock()

	if h == nil {
		return &runner.Result{}, nil
	}
	return h(cmd)
}

// match picks the longest registered prefix.
func (f *Fake) match(line string) Handler {
	var best string
	var h Handler
	for prefix, handler := range f.Handlers {
		if strings.HasPrefix(line, prefix) && len(prefix) >= len(best) {
			best, h = prefix, handler
		}
	}
	return h
}

// Lines returns the rendered command lines received so far.
func (f *Fake) Lines() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	lines := make([]string, len(f.Calls))
	for i, c := range f.Calls {
		lines[i] = c.String()
	}
	return lines
}
