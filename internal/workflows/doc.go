// Package workflows provides high-level orchestration for passman commands.
//
// Workflows coordinate the vault layout, the encryption backends, the
// editor, the git mirror and the audit trail to implement complete
// user-facing features. Each workflow handles a single command's business
// logic, independent of CLI concerns like flag parsing, spinners, and
// output formatting.
//
// # Design Philosophy
//
// The cmd/ package should be a thin layer that:
//   - Parses command-line flags and arguments
//   - Builds a Deps value from the loaded configuration
//   - Calls the appropriate workflow function
//   - Formats the result for display
//
// Workflows handle everything else:
//   - Resolving entry names to files
//   - Picking the backend from the entry's extension
//   - Performing the mutation
//   - Syncing the vault and recording audit trail entries
//
// # Available Workflows
//
//   - Create: Encrypts a new entry from the editor or a prompt
//   - Show: Decrypts an entry, optionally a single line
//   - Edit: Decrypts, edits and re-encrypts an entry in place
//   - Remove: Deletes an entry and prunes empty directories
//   - Archive, Unarchive: Hide or restore an entry or directory
//   - List, Find: Browse entry names
//   - Init: Runs the bootstrap state machine
//   - Log: Reads the audit trail
//   - DumpConfig: Reports the runtime configuration
//
// # Sync
//
// Create, Edit and Remove sync the vault after the file is written. The
// sync outcome is returned in the result and never turns into an error.
// Archive and Unarchive are local bookkeeping and do not sync; the rename
// is picked up by the next sync.
//
// # Error Handling
//
// Workflows return typed errors from the internal/errors package, allowing
// the CLI layer to provide appropriate user-facing messages without string
// matching:
//
//	result, err := workflows.Create(ctx, deps, opts)
//	if errors.Is(err, kerrors.ErrAlreadyExists) {
//	    // Suggest --force
//	}
//
// # Context Usage
//
// All workflow functions accept a context.Context as their first parameter.
// It is passed to every external process.
package workflows
