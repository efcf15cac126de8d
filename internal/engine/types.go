package engine

import (
	"fmt"

	"github.com/bianoble/ssg/internal/relpath"
	"github.com/bianoble/ssg/internal/source"
)

// FileSpec pairs a target with the source producing its bytes.
type FileSpec struct {
	Target relpath.Path
	Source source.Source
}

// Spec is a convenience constructor that panics on an invalid target path.
func Spec(target string, src source.Source) FileSpec {
	return FileSpec{Target: relpath.MustParse(target), Source: src}
}

// TargetSuccess is reported once a target's bytes are produced and written.
type TargetSuccess struct {
	Target   relpath.Path
	Expected relpath.Set
	Size     int
	Written  bool // false in dry runs
}

// TargetError is reported when producing or writing a target failed.
// Cause is a *source.Error or an *IOError.
type TargetError struct {
	Target relpath.Path
	Cause  error
}

func (e *TargetError) Error() string {
	return fmt.Sprintf("%s: %s", e.Target, e.Cause)
}

func (e *TargetError) Unwrap() error {
	return e.Cause
}

// IOError is a failure on the output side.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %s", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// Result is the outcome for one target. Exactly one field is set.
type Result struct {
	Success *TargetSuccess
	Err     *TargetError
}

// OK reports whether the target succeeded.
func (r Result) OK() bool { return r.Err == nil }

// Target returns the target the result belongs to.
func (r Result) Target() relpath.Path {
	if r.Err != nil {
		return r.Err.Target
	}
	return r.Success.Target
}

// FileAction represents an action taken on a single file during prune.
type FileAction struct {
	Path   string
	Action string // "removed", "would remove"
}

// PruneResult holds the outcome of a prune operation.
type PruneResult struct {
	Removed []FileAction
}
