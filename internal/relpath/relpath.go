// Package relpath provides the normalized, root-relative path used as the
// key for every generated file.
package relpath

import (
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"slices"
	"strings"
)

// ErrInvalidPath is matched by every error returned from Parse.
var ErrInvalidPath = errors.New("invalid path")

// InvalidPathError describes why an input could not be parsed.
type InvalidPathError struct {
	Input  string
	Reason string
}

func (e *InvalidPathError) Error() string {
	return fmt.Sprintf("invalid path %q: %s", e.Input, e.Reason)
}

func (e *InvalidPathError) Is(target error) bool {
	return target == ErrInvalidPath
}

// Path is a cleaned path rooted at the output directory, always starting
// with a single "/". The zero value is not a valid path.
type Path struct {
	s string
}

// Parse normalizes s into a Path. Leading slashes are optional and
// backslashes are treated as separators.
func Parse(s string) (Path, error) {
	switch {
	case strings.TrimSpace(s) == "":
		return Path{}, &InvalidPathError{Input: s, Reason: "empty"}
	case strings.TrimSpace(s) != s:
		return Path{}, &InvalidPathError{Input: s, Reason: "leading or trailing whitespace"}
	case hasDriveLetter(s):
		return Path{}, &InvalidPathError{Input: s, Reason: "is a filesystem path with a drive letter"}
	}

	rel := strings.ReplaceAll(s, `\`, "/")
	rel = path.Clean(strings.TrimLeft(rel, "/"))

	switch {
	case rel == ".":
		return Path{}, &InvalidPathError{Input: s, Reason: "refers to the root directory"}
	case rel == ".." || strings.HasPrefix(rel, "../"):
		return Path{}, &InvalidPathError{Input: s, Reason: "escapes the output root"}
	}

	return Path{s: "/" + rel}, nil
}

// hasDriveLetter reports inputs like "C:\\x" or "c:/x".
func hasDriveLetter(s string) bool {
	if len(s) < 2 || s[1] != ':' {
		return false
	}
	c := s[0] | 0x20
	return c >= 'a' && c <= 'z'
}

// MustParse is like Parse but panics on invalid input.
func MustParse(s string) Path {
	p, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return p
}

// String returns the normalized form, e.g. "/index.html".
func (p Path) String() string { return p.s }

// IsZero reports whether p is the zero value.
func (p Path) IsZero() bool { return p.s == "" }

// Compare orders paths by their normalized string.
func (p Path) Compare(other Path) int { return strings.Compare(p.s, other.s) }

// FilePath joins p onto an OS directory.
func (p Path) FilePath(root string) string {
	return filepath.Join(root, filepath.FromSlash(strings.TrimPrefix(p.s, "/")))
}

// MarshalText implements encoding.TextMarshaler.
func (p Path) MarshalText() ([]byte, error) {
	return []byte(p.s), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Path) UnmarshalText(b []byte) error {
	parsed, err := Parse(string(b))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// Sort sorts paths in place.
func Sort(paths []Path) {
	slices.SortFunc(paths, Path.Compare)
}

// Set is an unordered set of paths.
type Set map[Path]struct{}

// NewSet returns a set holding paths.
func NewSet(paths ...Path) Set {
	s := make(Set, len(paths))
	for _, p := range paths {
		s[p] = struct{}{}
	}
	return s
}

// Add inserts p.
func (s Set) Add(p Path) { s[p] = struct{}{} }

// Has reports whether p is a member. A nil set has no members.
func (s Set) Has(p Path) bool {
	_, ok := s[p]
	return ok
}

// Sorted returns the members in ascending order.
func (s Set) Sorted() []Path {
	out := make([]Path, 0, len(s))
	for p := range s {
		out = append(out, p)
	}
	Sort(out)
	return out
}

// Strings returns the sorted members as strings.
func (s Set) Strings() []string {
	sorted := s.Sorted()
	out := make([]string, len(sorted))
	for i, p := range sorted {
		out[i] = p.String()
	}
	return out
}
