// Package vault maps logical entry names onto files below the vault root.
//
// An entry named "mail/example.com" encrypted with rage lives at
// <vault_root>/mail/example.com.rage. Archived entries keep their content
// and gain a leading dot on the basename, e.g. mail/.example.com.rage.
//
// The package also renders the vault as a tree and matches entry names
// against glob patterns for the find command.
package vault
