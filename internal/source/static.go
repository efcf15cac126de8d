package source

import (
	"context"

	"github.com/bianoble/ssg/internal/relpath"
	"github.com/bianoble/ssg/internal/target"
)

type static struct {
	bytes    []byte
	expected []relpath.Path
}

// Static returns a source that always produces a copy of b.
func Static(b []byte, expected ...relpath.Path) Source {
	buf := make([]byte, len(b))
	copy(buf, b)
	exp := make([]relpath.Path, len(expected))
	copy(exp, expected)
	return static{bytes: buf, expected: exp}
}

// StaticString is Static for text content.
func StaticString(s string, expected ...relpath.Path) Source {
	return Static([]byte(s), expected...)
}

func (s static) Produce(_ context.Context, _ target.Targets) (FileContents, error) {
	out := make([]byte, len(s.bytes))
	copy(out, s.bytes)
	return Contents(out, s.expected...), nil
}
