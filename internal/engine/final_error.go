package engine

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bianoble/ssg/internal/relpath"
)

// Sentinels matched by a *FinalError holding the corresponding category.
var (
	ErrDuplicateTarget = errors.New("duplicate target")
	ErrMissingTarget   = errors.New("missing expected target")
	ErrFailedTarget    = errors.New("failed target")
)

// FinalError aggregates every defect found in one run. A nil field means
// the category is empty; at least one field is always set.
type FinalError struct {
	// Duplicates maps targets produced more than once to their count.
	Duplicates map[relpath.Path]int
	// Missing maps targets expected but never declared to the targets expecting them.
	Missing map[relpath.Path]relpath.Set
	// Failed maps failed targets to their cause.
	Failed map[relpath.Path]error
}

func (e *FinalError) Error() string {
	var b strings.Builder
	b.WriteString("generation failed:")

	if len(e.Duplicates) > 0 {
		b.WriteString("\n  duplicate targets:")
		for _, p := range e.DuplicateTargets() {
			fmt.Fprintf(&b, "\n    %s (%d times)", p, e.Duplicates[p])
		}
	}
	if len(e.Missing) > 0 {
		b.WriteString("\n  missing targets:")
		for _, p := range e.MissingTargets() {
			fmt.Fprintf(&b, "\n    %s (expected by %s)", p, strings.Join(e.Missing[p].Strings(), ", "))
		}
	}
	if len(e.Failed) > 0 {
		b.WriteString("\n  failed targets:")
		for _, p := range e.FailedTargets() {
			fmt.Fprintf(&b, "\n    %s: %s", p, e.Failed[p])
		}
	}
	return b.String()
}

// Is reports whether e holds the category named by target.
func (e *FinalError) Is(target error) bool {
	switch target {
	case ErrDuplicateTarget:
		return len(e.Duplicates) > 0
	case ErrMissingTarget:
		return len(e.Missing) > 0
	case ErrFailedTarget:
		return len(e.Failed) > 0
	}
	return false
}

// Unwrap returns the per-target failures so errors.Is and errors.As reach
// their causes.
func (e *FinalError) Unwrap() []error {
	out := make([]error, 0, len(e.Failed))
	for _, p := range e.FailedTargets() {
		out = append(out, &TargetError{Target: p, Cause: e.Failed[p]})
	}
	return out
}

// DuplicateTargets returns the duplicated targets in order.
func (e *FinalError) DuplicateTargets() []relpath.Path { return sortedKeys(e.Duplicates) }

// MissingTargets returns the missing targets in order.
func (e *FinalError) MissingTargets() []relpath.Path { return sortedKeys(e.Missing) }

// FailedTargets returns the failed targets in order.
func (e *FinalError) FailedTargets() []relpath.Path { return sortedKeys(e.Failed) }

func sortedKeys[V any](m map[relpath.Path]V) []relpath.Path {
	out := make([]relpath.Path, 0, len(m))
	for p := range m {
		out = append(out, p)
	}
	relpath.Sort(out)
	return out
}

// finalErrorBuilder folds per-target results. It is owned by a single
// goroutine.
type finalErrorBuilder struct {
	processed map[relpath.Path]int
	expected  map[relpath.Path]relpath.Set // expected target -> targets expecting it
	failed    map[relpath.Path]error
}

func newFinalErrorBuilder() *finalErrorBuilder {
	return &finalErrorBuilder{
		processed: make(map[relpath.Path]int),
		expected:  make(map[relpath.Path]relpath.Set),
		failed:    make(map[relpath.Path]error),
	}
}

func (b *finalErrorBuilder) add(res Result) {
	t := res.Target()
	b.processed[t]++

	if res.Err != nil {
		b.failed[t] = res.Err.Cause
		return
	}
	for exp := range res.Success.Expected {
		expecters, ok := b.expected[exp]
		if !ok {
			expecters = make(relpath.Set)
			b.expected[exp] = expecters
		}
		expecters.Add(t)
	}
}

// build returns nil when the run was clean.
func (b *finalErrorBuilder) build() *FinalError {
	var fe FinalError

	for p, n := range b.processed {
		if n > 1 {
			if fe.Duplicates == nil {
				fe.Duplicates = make(map[relpath.Path]int)
			}
			fe.Duplicates[p] = n
		}
	}

	for p, expecters := range b.expected {
		if b.processed[p] > 0 {
			continue
		}
		if fe.Missing == nil {
			fe.Missing = make(map[relpath.Path]relpath.Set)
		}
		fe.Missing[p] = expecters
	}

	if len(b.failed) > 0 {
		fe.Failed = b.failed
	}

	if fe.Duplicates == nil && fe.Missing == nil && fe.Failed == nil {
		return nil
	}
	return &fe
}

// counts reports how many targets were processed and how many failed.
func (b *finalErrorBuilder) counts() (processed, failed int) {
	for _, n := range b.processed {
		processed += n
	}
	return processed, len(b.failed)
}
