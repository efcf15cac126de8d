package source

import (
	"context"

	"github.com/bianoble/ssg/internal/target"
)

type computed struct {
	fn Func
}

// Computed returns a source whose contents are derived from the registry
// view by fn. Errors from undeclared lookups are reported as reference
// errors, other failures as render errors.
func Computed(fn func(ctx context.Context, t target.Targets) (FileContents, error)) Source {
	return computed{fn: fn}
}

func (c computed) Produce(ctx context.Context, t target.Targets) (FileContents, error) {
	fc, err := c.fn(ctx, t)
	if err != nil {
		return FileContents{}, Classify(err)
	}
	return fc, nil
}
