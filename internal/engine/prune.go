package engine

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/bianoble/ssg/internal/relpath"
	"github.com/bianoble/ssg/internal/sandbox"
)

// Prune removes files under outputDir that are not among declared, then
// removes directories left empty. A missing outputDir is treated as empty.
func Prune(ctx context.Context, outputDir string, declared []relpath.Path, dryRun bool) (*PruneResult, error) {
	result := &PruneResult{}
	keep := relpath.NewSet(declared...)

	if _, err := os.Stat(outputDir); errors.Is(err, fs.ErrNotExist) {
		return result, nil
	}

	var stale []relpath.Path
	var dirs []string
	err := filepath.WalkDir(outputDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		rel, err := filepath.Rel(outputDir, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		if d.IsDir() {
			dirs = append(dirs, path)
			return nil
		}
		p, err := relpath.Parse(filepath.ToSlash(rel))
		if err != nil {
			return fmt.Errorf("unexpected file %s: %w", path, err)
		}
		if !keep.Has(p) {
			stale = append(stale, p)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning output directory: %w", err)
	}

	relpath.Sort(stale)
	action := "removed"
	if dryRun {
		action = "would remove"
	}

	w := sandbox.Writer{Root: outputDir}
	for _, p := range stale {
		if !dryRun {
			if err := w.Remove(p); err != nil {
				return result, &IOError{Op: "remove", Path: p.FilePath(outputDir), Err: err}
			}
		}
		result.Removed = append(result.Removed, FileAction{Path: p.String(), Action: action})
	}

	if dryRun {
		return result, nil
	}

	// Deepest first so parents empty out before they are checked.
	sort.Slice(dirs, func(i, j int) bool { return len(dirs[i]) > len(dirs[j]) })
	for _, dir := range dirs {
		entries, err := os.ReadDir(dir)
		if err != nil || len(entries) > 0 {
			continue
		}
		_ = os.Remove(dir)
	}

	return result, nil
}
