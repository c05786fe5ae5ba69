// Package configs loads the runtime configuration of passman.
//
// Values come from three layers, highest precedence first:
//
//  1. Environment: PASSMAN_DIR, XDG_DATA_HOME, EDITOR, PASSMAN_PUBLIC_KEY,
//     PASSMAN_BACKEND
//  2. The settings file <base_dir>/config.toml
//  3. Built-in defaults
//
// # Layout
//
//	<base_dir>/vault/**/<name>.<ext>   encrypted entries (git working tree)
//	<base_dir>/private.<ext>           identity
//	<base_dir>/public.key              recipient
//	<base_dir>/config.toml             settings
//	<base_dir>/audit.jsonl             audit trail
//
// The Config value is immutable once built. The backend choice, which may
// need an interactive prompt, produces a new value through WithExtension
// rather than updating shared state.
package configs
