package vault

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/PolarWolf314/passman/internal/configs"
	kerrors "github.com/PolarWolf314/passman/internal/errors"
)

// GitDir is never listed, searched or archived.
const GitDir = ".git"

// CleanName normalizes a logical entry name: forward slashes, no leading
// or trailing separators.
func CleanName(name string) string {
	name = filepath.ToSlash(strings.TrimSpace(name))
	return strings.Trim(name, "/")
}

// ValidateName cleans name and rejects names that are empty, climb out of
// the vault with a ".." segment, or reach into the git directory.
func ValidateName(name string) (string, error) {
	clean := CleanName(name)
	if clean == "" {
		return "", fmt.Errorf("%w: entry name must not be empty", kerrors.ErrInvalidName)
	}
	for _, seg := range strings.Split(clean, "/") {
		switch seg {
		case "..":
			return "", fmt.Errorf("%w: %q leaves the vault", kerrors.ErrInvalidName, name)
		case GitDir:
			return "", fmt.Errorf("%w: %q is inside %s", kerrors.ErrInvalidName, name, GitDir)
		}
	}
	if clean = path.Clean(clean); clean == "." {
		return "", fmt.Errorf("%w: %q names the vault root", kerrors.ErrInvalidName, name)
	}
	return clean, nil
}

// Within reports whether target lies strictly below root.
func Within(root, target string) bool {
	rel, err := filepath.Rel(root, target)
	if err != nil || rel == "." {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) && !filepath.IsAbs(rel)
}

// EntryPath returns the encrypted file for name under the configured
// extension. It does no I/O.
func EntryPath(cfg configs.Config, name string) string {
	return entryPath(cfg.VaultRoot, name, cfg.CryptoExtension)
}

func entryPath(root, name, ext string) string {
	return filepath.Join(root, filepath.FromSlash(CleanName(name))+"."+ext)
}

// DisplayName strips the ".ext" suffix from a name or path, if present.
func DisplayName(name, ext string) string {
	ext = strings.TrimPrefix(ext, ".")
	if ext == "" {
		return name
	}
	return strings.TrimSuffix(name, "."+ext)
}

// NameOf returns the logical name of an encrypted file below the vault
// root, stripping whichever of exts the file carries.
func NameOf(cfg configs.Config, path string, exts []string) (string, error) {
	if !Within(cfg.VaultRoot, path) {
		return "", fmt.Errorf("%w: %s is outside the vault", kerrors.ErrInvalidName, path)
	}
	rel, err := filepath.Rel(cfg.VaultRoot, path)
	if err != nil {
		return "", fmt.Errorf("%w: %v", kerrors.ErrInvalidName, err)
	}
	rel = filepath.ToSlash(rel)
	if ext, ok := knownExtension(rel, exts); ok {
		return DisplayName(rel, ext), nil
	}
	return rel, nil
}

// Locate finds the existing encrypted file for name. The configured
// extension is tried first, then every other extension in exts, so entries
// written by a different backend are still found.
func Locate(cfg configs.Config, name string, exts []string) (string, error) {
	name, err := ValidateName(name)
	if err != nil {
		return "", err
	}
	candidates := make([]string, 0, len(exts)+1)
	if cfg.CryptoExtension != "" {
		candidates = append(candidates, cfg.CryptoExtension)
	}
	for _, ext := range exts {
		if ext != cfg.CryptoExtension {
			candidates = append(candidates, ext)
		}
	}

	for _, ext := range candidates {
		path := entryPath(cfg.VaultRoot, name, ext)
		if !Within(cfg.VaultRoot, path) {
			return "", fmt.Errorf("%w: %s is outside the vault", kerrors.ErrInvalidName, path)
		}
		info, err := os.Stat(path)
		if err == nil && info.Mode().IsRegular() {
			return path, nil
		}
		if err != nil && !os.IsNotExist(err) {
			return "", fmt.Errorf("%w: failed to stat %s: %v", kerrors.ErrIO, path, err)
		}
	}
	return "", fmt.Errorf("%w: %s", kerrors.ErrNotFound, name)
}

// Exists reports whether name has an encrypted file under any of exts or
// the configured extension.
func Exists(cfg configs.Config, name string, exts []string) bool {
	_, err := Locate(cfg, name, exts)
	return err == nil
}

// ArchiveTarget resolves the path an archive or restore acts on.
// Directories are taken as given. In file mode a name that already ends in
// one of exts is used as is; otherwise the extension is appended, preferring
// one whose file (or archived twin) exists. A bare name that exists on disk
// (a directory, say) is returned unchanged so callers can report the type
// mismatch; anything else falls back to the configured extension.
//
// Returns ErrInvalidName for names that fail ValidateName.
func ArchiveTarget(cfg configs.Config, name string, dir bool, exts []string) (string, error) {
	name, err := ValidateName(name)
	if err != nil {
		return "", err
	}
	path := filepath.Join(cfg.VaultRoot, filepath.FromSlash(name))
	if !Within(cfg.VaultRoot, path) {
		return "", fmt.Errorf("%w: %s is outside the vault", kerrors.ErrInvalidName, path)
	}
	if dir {
		return path, nil
	}
	if _, ok := knownExtension(name, exts); ok {
		return path, nil
	}

	candidates := append([]string{cfg.CryptoExtension}, exts...)
	for _, ext := range candidates {
		if ext == "" {
			continue
		}
		p := path + "." + ext
		if fileExists(p) || fileExists(ArchivedPath(p)) || fileExists(RestoredPath(p)) {
			return p, nil
		}
	}
	if _, err := os.Lstat(path); err == nil {
		return path, nil
	}
	return path + "." + cfg.CryptoExtension, nil
}

// IsArchived reports whether the basename of path is dot-prefixed.
func IsArchived(path string) bool {
	return strings.HasPrefix(filepath.Base(path), ".")
}

// ArchivedPath returns path with a dot prepended to its basename.
func ArchivedPath(path string) string {
	return filepath.Join(filepath.Dir(path), "."+filepath.Base(path))
}

// RestoredPath strips the leading dot from the basename of path.
func RestoredPath(path string) string {
	return filepath.Join(filepath.Dir(path), strings.TrimPrefix(filepath.Base(path), "."))
}

func knownExtension(name string, exts []string) (string, bool) {
	for _, ext := range exts {
		if strings.HasSuffix(name, "."+ext) && len(name) > len(ext)+1 {
			return ext, true
		}
	}
	return "", false
}

func fileExists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}
