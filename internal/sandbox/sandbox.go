// Package sandbox writes generated files, refusing any path that would land
// outside the output directory.
package sandbox

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bianoble/ssg/internal/relpath"
)

// ValidatePath checks that relPath stays within root once symlinks are
// resolved, and returns the resolved absolute path.
func ValidatePath(root, relPath string) (string, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("resolving output root: %w", err)
	}
	realRoot, err := filepath.EvalSymlinks(absRoot)
	if err != nil {
		return "", fmt.Errorf("resolving output root symlinks: %w", err)
	}

	candidate := filepath.Clean(filepath.Join(realRoot, relPath))

	// The path may not exist yet, so resolve as much as we can.
	resolved, err := resolveExistingPath(candidate)
	if err != nil {
		return "", fmt.Errorf("resolving target path: %w", err)
	}

	// Trailing separator keeps "out2" from matching root "out".
	rootPrefix := realRoot + string(filepath.Separator)
	if resolved != realRoot && !strings.HasPrefix(resolved, rootPrefix) {
		return "", fmt.Errorf("path '%s' resolves to '%s' which is outside the output root '%s'", relPath, resolved, realRoot)
	}

	return resolved, nil
}

// resolveExistingPath resolves symlinks for the longest existing prefix of
// path and appends the part that does not exist yet.
func resolveExistingPath(path string) (string, error) {
	resolved, err := filepath.EvalSymlinks(path)
	if err == nil {
		return resolved, nil
	}

	dir := filepath.Dir(path)
	base := filepath.Base(path)

	if dir == path {
		return path, nil
	}

	resolvedDir, err := resolveExistingPath(dir)
	if err != nil {
		return "", err
	}

	return filepath.Join(resolvedDir, base), nil
}

// SafeWrite writes content to relPath under root, creating parent
// directories as needed. The file is replaced atomically, so concurrent
// writers of the same path never interleave bytes.
func SafeWrite(root, relPath string, content []byte, perm os.FileMode) error {
	resolved, err := ValidatePath(root, relPath)
	if err != nil {
		return err
	}

	if _, err := ValidatePath(root, filepath.Dir(relPath)); err != nil {
		return fmt.Errorf("parent directory escapes output root: %w", err)
	}
	dir := filepath.Dir(resolved)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".ssg-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(content); err != nil {
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, perm); err != nil {
		return fmt.Errorf("setting permissions: %w", err)
	}

	if err := os.Rename(tmpPath, resolved); err != nil {
		return fmt.Errorf("renaming temp file to %s: %w", resolved, err)
	}

	success = true
	return nil
}

// SafeRemove removes a file within root.
func SafeRemove(root, relPath string) error {
	resolved, err := ValidatePath(root, relPath)
	if err != nil {
		return err
	}
	return os.Remove(resolved)
}

// Writer writes targets under a fixed output directory.
type Writer struct {
	Root string
	Perm os.FileMode // 0 means 0644
}

// Write stores content at the target's location under w.Root. The output
// directory itself is created on first use.
func (w Writer) Write(p relpath.Path, content []byte) error {
	if err := os.MkdirAll(w.Root, 0755); err != nil {
		return fmt.Errorf("creating output directory %s: %w", w.Root, err)
	}
	perm := w.Perm
	if perm == 0 {
		perm = 0644
	}
	return SafeWrite(w.Root, filepath.FromSlash(strings.TrimPrefix(p.String(), "/")), content, perm)
}

// Remove deletes the target's file under w.Root.
func (w Writer) Remove(p relpath.Path) error {
	return SafeRemove(w.Root, filepath.FromSlash(strings.TrimPrefix(p.String(), "/")))
}
