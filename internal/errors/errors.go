package errors

import "errors"

// Entry errors indicate problems locating or naming vault entries.
var (
	// ErrNotFound indicates the entry, file, or directory does not exist.
	ErrNotFound = errors.New("entry not found")

	// ErrInvalidName indicates an entry name that is empty or would resolve
	// outside the vault.
	ErrInvalidName = errors.New("invalid entry name")

	// ErrAlreadyExists indicates an entry already exists at the target path.
	ErrAlreadyExists = errors.New("entry already exists")

	// ErrAlreadyArchived indicates the entry is already hidden with a leading dot.
	ErrAlreadyArchived = errors.New("entry already archived")

	// ErrNotArchived indicates a restore was requested for an entry that is not archived.
	ErrNotArchived = errors.New("entry is not archived")

	// ErrTypeMismatch indicates a file was expected but a directory was found, or vice versa.
	ErrTypeMismatch = errors.New("entry type mismatch")

	// ErrLineOutOfRange indicates the requested line does not exist in the entry.
	ErrLineOutOfRange = errors.New("line out of range")
)

// Backend errors indicate the encryption tooling is missing or misbehaving.
var (
	// ErrBackendUnavailable indicates neither supported encryption tool is installed.
	ErrBackendUnavailable = errors.New("no encryption backend available")

	// ErrBackendLaunch indicates an encryption tool could not be started.
	ErrBackendLaunch = errors.New("failed to launch encryption backend")

	// ErrCryptoFailure indicates an encryption tool exited with a non-zero status.
	ErrCryptoFailure = errors.New("encryption backend failed")

	// ErrInvalidRecipient indicates the public key file does not hold a usable recipient.
	ErrInvalidRecipient = errors.New("invalid recipient")
)

// Editor errors indicate the plaintext could not be obtained from the operator.
var (
	// ErrEditorFailure indicates the editor exited with an error or produced nothing usable.
	ErrEditorFailure = errors.New("editor failed")

	// ErrEmptyContent indicates the operator supplied no content.
	ErrEmptyContent = errors.New("no content")
)

// Filesystem and version control errors.
var (
	// ErrIO indicates a filesystem operation failed.
	ErrIO = errors.New("filesystem operation failed")

	// ErrGitStep indicates a git subcommand failed. Sync treats it as non-fatal.
	ErrGitStep = errors.New("git step failed")
)
