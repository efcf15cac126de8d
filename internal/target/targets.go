// Package target holds the frozen registry of declared targets that every
// content source consults while a generation run is in flight.
package target

import (
	"errors"
	"fmt"

	"github.com/bianoble/ssg/internal/relpath"
)

// ErrTargetNotFound is matched by lookups of paths that no file spec declared.
var ErrTargetNotFound = errors.New("target not found")

// NotFoundError reports a lookup of an undeclared target.
type NotFoundError struct {
	Path relpath.Path
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("target %s not found", e.Path)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrTargetNotFound
}

// indexPath is served as "/".
var indexPath = relpath.MustParse("/index.html")

// PublicPath is the URL path under which a target is served.
type PublicPath string

func (p PublicPath) String() string { return string(p) }

// PublicPathOf applies the index rewrite to p.
func PublicPathOf(p relpath.Path) PublicPath {
	if p == indexPath {
		return "/"
	}
	return PublicPath(p.String())
}

// Set is the frozen collection of all targets declared for one run.
// It is never modified after NewSet returns.
type Set struct {
	paths  relpath.Set
	sorted []relpath.Path
}

// NewSet freezes paths. Duplicates collapse into one member.
func NewSet(paths ...relpath.Path) *Set {
	members := relpath.NewSet(paths...)
	return &Set{paths: members, sorted: members.Sorted()}
}

// Len returns the number of distinct targets.
func (s *Set) Len() int { return len(s.sorted) }

// Has reports whether p was declared.
func (s *Set) Has(p relpath.Path) bool { return s.paths.Has(p) }

// All returns the declared targets in ascending order.
func (s *Set) All() []relpath.Path {
	out := make([]relpath.Path, len(s.sorted))
	copy(out, s.sorted)
	return out
}

// For returns the view handed to the source producing current.
// It panics if current was not declared.
func (s *Set) For(current relpath.Path) Targets {
	if !s.Has(current) {
		panic(fmt.Sprintf("target: %s is not a member of the declared set", current))
	}
	return Targets{set: s, current: current}
}

// Targets is a read-only view over a Set with one target marked current.
// Copies share the underlying set.
type Targets struct {
	set     *Set
	current relpath.Path
}

// Resolve returns the public path of p, or a *NotFoundError if p was not declared.
func (t Targets) Resolve(p relpath.Path) (PublicPath, error) {
	if t.set == nil || !t.set.Has(p) {
		return "", &NotFoundError{Path: p}
	}
	return PublicPathOf(p), nil
}

// ResolveString parses s and resolves it.
func (t Targets) ResolveString(s string) (PublicPath, error) {
	p, err := relpath.Parse(s)
	if err != nil {
		return "", err
	}
	return t.Resolve(p)
}

// Current returns the target being produced.
func (t Targets) Current() relpath.Path { return t.current }

// CurrentPublicPath returns the public path of the target being produced.
func (t Targets) CurrentPublicPath() PublicPath { return PublicPathOf(t.current) }

// Has reports whether p was declared.
func (t Targets) Has(p relpath.Path) bool { return t.set != nil && t.set.Has(p) }

// All returns every declared target in ascending order.
func (t Targets) All() []relpath.Path {
	if t.set == nil {
		return nil
	}
	return t.set.All()
}

// Len returns the number of declared targets.
func (t Targets) Len() int {
	if t.set == nil {
		return 0
	}
	return t.set.Len()
}
