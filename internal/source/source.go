// Package source implements the content sources that produce the bytes of
// each generated target.
package source

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/bianoble/ssg/internal/relpath"
	"github.com/bianoble/ssg/internal/target"
)

// Source produces the contents of one target. Implementations must be safe
// for concurrent use: every target of a run is produced at the same time.
type Source interface {
	Produce(ctx context.Context, t target.Targets) (FileContents, error)
}

// Func adapts a plain function to Source.
type Func func(ctx context.Context, t target.Targets) (FileContents, error)

func (f Func) Produce(ctx context.Context, t target.Targets) (FileContents, error) {
	return f(ctx, t)
}

// FileContents are the bytes of a target plus the other targets those bytes
// depend on existing by the end of the run.
type FileContents struct {
	Bytes    []byte
	Expected relpath.Set
}

// Contents builds FileContents expecting the given targets.
func Contents(b []byte, expected ...relpath.Path) FileContents {
	fc := FileContents{Bytes: b}
	if len(expected) > 0 {
		fc.Expected = relpath.NewSet(expected...)
	}
	return fc
}

// Expect adds to the expected set, allocating it if needed.
func (fc *FileContents) Expect(paths ...relpath.Path) {
	if len(paths) == 0 {
		return
	}
	if fc.Expected == nil {
		fc.Expected = make(relpath.Set, len(paths))
	}
	for _, p := range paths {
		fc.Expected.Add(p)
	}
}

// Kind classifies source failures.
type Kind string

const (
	KindFetch     Kind = "fetch"
	KindRead      Kind = "read"
	KindRender    Kind = "render"
	KindReference Kind = "reference"
)

// Sentinels matched by *Error of the corresponding kind.
var (
	ErrFetch  = errors.New("fetch failed")
	ErrRead   = errors.New("read failed")
	ErrRender = errors.New("render failed")
)

// Error is a failure to produce content.
type Error struct {
	Kind Kind
	Err  error
	Hint string
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Kind, e.Err)
	if e.Hint != "" {
		msg += " (" + e.Hint + ")"
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the sentinel of e's kind. Reference errors match
// target.ErrTargetNotFound through Unwrap.
func (e *Error) Is(t error) bool {
	switch e.Kind {
	case KindFetch:
		return t == ErrFetch
	case KindRead:
		return t == ErrRead
	case KindRender:
		return t == ErrRender
	}
	return false
}

// Classify wraps err for reporting. Lookups of undeclared targets become
// reference errors, *Error values pass through, anything else is a render error.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	var se *Error
	if errors.As(err, &se) {
		return err
	}
	if errors.Is(err, target.ErrTargetNotFound) {
		return &Error{Kind: KindReference, Err: err, Hint: "declare the target or fix the link"}
	}
	return &Error{Kind: KindRender, Err: err}
}

// Expect decorates src so its contents also expect paths.
func Expect(src Source, paths ...relpath.Path) Source {
	if len(paths) == 0 {
		return src
	}
	return Func(func(ctx context.Context, t target.Targets) (FileContents, error) {
		fc, err := src.Produce(ctx, t)
		if err != nil {
			return FileContents{}, err
		}
		fc.Expect(paths...)
		return fc, nil
	})
}

// HTTPClient abstracts HTTP operations for testing.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// DefaultHTTPClient sends requests with http.DefaultClient.
type DefaultHTTPClient struct{}

func (DefaultHTTPClient) Do(req *http.Request) (*http.Response, error) {
	return http.DefaultClient.Do(req)
}

// MergeVars merges global variables with per-file variables.
// Per-file vars override global vars.
func MergeVars(global map[string]string, perFile map[string]string) map[string]string {
	merged := make(map[string]string, len(global)+len(perFile))
	for k, v := range global {
		merged[k] = v
	}
	for k, v := range perFile {
		merged[k] = v
	}
	return merged
}
