package source

import (
	"bytes"
	"context"
	"fmt"

	"github.com/a-h/templ"

	"github.com/bianoble/ssg/internal/target"
)

// ComponentFunc builds the templ component for the target being produced.
type ComponentFunc func(ctx context.Context, t target.Targets) (templ.Component, error)

type component struct {
	build ComponentFunc
}

// Component returns a source that renders a templ component. Lookups of
// undeclared targets made while building or rendering are reference errors.
func Component(build ComponentFunc) Source {
	return component{build: build}
}

func (c component) Produce(ctx context.Context, t target.Targets) (FileContents, error) {
	comp, err := c.build(ctx, t)
	if err != nil {
		return FileContents{}, Classify(err)
	}
	if comp == nil {
		return FileContents{}, &Error{Kind: KindRender, Err: fmt.Errorf("no component for %s", t.Current())}
	}

	var buf bytes.Buffer
	if err := comp.Render(ctx, &buf); err != nil {
		return FileContents{}, Classify(err)
	}
	return Contents(buf.Bytes()), nil
}
