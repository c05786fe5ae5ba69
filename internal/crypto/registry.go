package crypto

import (
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	kerrors "github.com/PolarWolf314/passman/internal/errors"
	"github.com/PolarWolf314/passman/internal/runner"
)

// DefaultExtension is used when nothing else decides the backend.
const DefaultExtension = "rage"

// installHint is appended to ErrBackendUnavailable.
const installHint = "Neither `rage` nor `age` is installed. Please install one:\n" +
	"  - rage: https://github.com/str4d/rage\n" +
	"  - age:  https://github.com/FiloSottile/age"

// Chooser asks the operator to pick one of several options.
type Chooser interface {
	Choose(question string, options []string) (string, error)
}

// Registry maps extensions to backends.
type Registry struct {
	backends map[string]Backend
	order    []string
	fallback string

	// LookPath finds installed tools. Defaults to exec.LookPath.
	LookPath runner.LookPathFunc
}

// NewRegistry returns a registry holding the rage and age backends.
// fallback names the backend used for unknown extensions; empty means
// DefaultExtension.
func NewRegistry(r runner.Runner, fallback string) *Registry {
	reg := &Registry{
		backends: map[string]Backend{},
		LookPath: exec.LookPath,
	}
	reg.Register(Rage(r))
	reg.Register(Age(r))
	reg.SetFallback(fallback)
	return reg
}

// Register adds or replaces a backend.
func (r *Registry) Register(b Backend) {
	ext := b.Extension()
	if _, ok := r.backends[ext]; !ok {
		r.order = append(r.order, ext)
	}
	r.backends[ext] = b
}

// SetFallback changes the backend used for unknown extensions. Unknown
// names are ignored.
func (r *Registry) SetFallback(ext string) {
	ext = trimExt(ext)
	if ext == "" {
		ext = DefaultExtension
	}
	if _, ok := r.backends[ext]; ok {
		r.fallback = ext
	}
}

// Extensions lists the registered extensions in registration order.
func (r *Registry) Extensions() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Lookup returns the backend registered for ext.
func (r *Registry) Lookup(ext string) (Backend, bool) {
	b, ok := r.backends[trimExt(ext)]
	return b, ok
}

// Select picks the backend for an extension hint, falling back to the
// configured default when the hint is empty or unknown.
func (r *Registry) Select(hint string) Backend {
	if b, ok := r.Lookup(hint); ok {
		return b
	}
	return r.backends[r.fallback]
}

// ForPath selects the backend by the file's extension.
func (r *Registry) ForPath(path string) Backend {
	return r.Select(filepath.Ext(path))
}

// Detect returns the registered backends whose tool is on $PATH.
func (r *Registry) Detect() []string {
	var found []string
	for _, ext := range r.order {
		if _, err := r.LookPath(r.backends[ext].Name()); err == nil {
			found = append(found, ext)
		}
	}
	return found
}

// Choose resolves the backend for new entries. A known preferred extension
// wins outright. Otherwise $PATH is searched: no tool is an error,
// a single tool is used silently and several tools are put to the chooser.
func (r *Registry) Choose(preferred string, chooser Chooser) (Backend, error) {
	if b, ok := r.Lookup(preferred); ok {
		return b, nil
	}

	available := r.Detect()
	switch len(available) {
	case 0:
		return nil, fmt.Errorf("%w: %s", kerrors.ErrBackendUnavailable, installHint)
	case 1:
		return r.backends[available[0]], nil
	}

	if chooser == nil {
		return r.backends[available[0]], nil
	}

	question := fmt.Sprintf("Both %s are installed. Which do you want to use?", strings.Join(available, " and "))
	choice, err := chooser.Choose(question, available)
	if err != nil {
		return nil, fmt.Errorf("failed to choose encryption backend: %w", err)
	}
	b, ok := r.Lookup(choice)
	if !ok {
		return nil, fmt.Errorf("%w: unknown backend %q", kerrors.ErrBackendUnavailable, choice)
	}
	return b, nil
}

func trimExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}
