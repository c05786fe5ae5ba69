// Package errors provides typed error values for passman.
//
// Using sentinel errors allows callers to handle specific error conditions
// programmatically with errors.Is() rather than string matching.
//
// # Error Categories
//
//   - Entry errors: ErrNotFound, ErrAlreadyExists, ErrAlreadyArchived, ErrTypeMismatch
//   - Backend errors: ErrBackendUnavailable, ErrBackendLaunch, ErrCryptoFailure
//   - Editor errors: ErrEditorFailure, ErrEmptyContent
//   - Filesystem and git errors: ErrIO, ErrGitStep
//
// # Usage
//
// Wrap errors with additional context:
//
//	return fmt.Errorf("%w: %s", kerrors.ErrNotFound, path)
//
// Handle errors in the CLI layer:
//
//	if errors.Is(err, kerrors.ErrAlreadyExists) {
//	    // suggest --force
//	}
//
// ErrGitStep is the one error that never reaches the command layer: the
// sync engine records it and moves on.
package errors
