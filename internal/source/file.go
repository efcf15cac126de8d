package source

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bianoble/ssg/internal/target"
)

// File produces the bytes of a file under the project root.
type File struct {
	Root string
	Path string // relative to Root
}

func (f File) Produce(ctx context.Context, _ target.Targets) (FileContents, error) {
	data, err := f.read()
	if err != nil {
		return FileContents{}, err
	}
	return Contents(data), nil
}

func (f File) read() ([]byte, error) {
	if f.Path == "" {
		return nil, &Error{Kind: KindRead, Err: fmt.Errorf("path is required")}
	}

	realRoot, err := filepath.Abs(f.Root)
	if err != nil {
		return nil, &Error{Kind: KindRead, Err: fmt.Errorf("resolving project root: %w", err)}
	}
	realPath, err := filepath.Abs(filepath.Join(f.Root, f.Path))
	if err != nil {
		return nil, &Error{Kind: KindRead, Err: fmt.Errorf("resolving path: %w", err)}
	}

	rootPrefix := realRoot + string(filepath.Separator)
	if realPath != realRoot && !strings.HasPrefix(realPath, rootPrefix) {
		return nil, &Error{Kind: KindRead, Err: fmt.Errorf("path '%s' resolves outside project root", f.Path)}
	}

	info, err := os.Stat(realPath)
	if err != nil {
		return nil, &Error{Kind: KindRead, Err: fmt.Errorf("stat %s: %w", f.Path, err), Hint: "check that the path exists"}
	}
	if info.IsDir() {
		return nil, &Error{Kind: KindRead, Err: fmt.Errorf("'%s' is a directory", f.Path)}
	}

	data, err := os.ReadFile(realPath)
	if err != nil {
		return nil, &Error{Kind: KindRead, Err: fmt.Errorf("reading %s: %w", f.Path, err)}
	}
	return data, nil
}
