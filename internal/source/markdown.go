package source

import (
	"bytes"
	"context"
	"fmt"
	"sync"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/bianoble/ssg/internal/target"
)

// The goldmark converter is configured once and shared; Convert keeps its
// state per call.
var (
	markdownInstance goldmark.Markdown
	markdownOnce     sync.Once
)

func markdownConverter() goldmark.Markdown {
	markdownOnce.Do(func() {
		markdownInstance = goldmark.New(
			goldmark.WithExtensions(
				extension.GFM,
				extension.DefinitionList,
			),
			goldmark.WithRendererOptions(html.WithUnsafe()),
		)
	})
	return markdownInstance
}

// Markdown renders GitHub-flavored markdown to HTML. With a Layout, the
// rendered HTML is passed to the layout as {{ .Content }} and Title as
// {{ .Title }}. Root-relative links in the final HTML become expected targets.
type Markdown struct {
	Text   string
	From   Source // when set, its bytes replace Text
	Title  string
	Layout *Template
}

func (m Markdown) Produce(ctx context.Context, t target.Targets) (FileContents, error) {
	text := []byte(m.Text)
	if m.From != nil {
		fc, err := m.From.Produce(ctx, t)
		if err != nil {
			return FileContents{}, err
		}
		text = fc.Bytes
	}

	var buf bytes.Buffer
	if err := markdownConverter().Convert(text, &buf); err != nil {
		return FileContents{}, &Error{Kind: KindRender, Err: fmt.Errorf("converting markdown: %w", err)}
	}

	fc := FileContents{Bytes: buf.Bytes()}
	if m.Layout != nil {
		var err error
		fc, err = m.Layout.render(ctx, t, PageData{Title: m.Title, Content: buf.String()})
		if err != nil {
			return FileContents{}, err
		}
	}

	links, err := LinkTargets(bytes.NewReader(fc.Bytes))
	if err != nil {
		return FileContents{}, &Error{Kind: KindRender, Err: err}
	}
	fc.Expect(links...)
	return fc, nil
}
