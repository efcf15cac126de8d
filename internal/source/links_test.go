package source

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bianoble/ssg/internal/relpath"
)

func TestLinkTargets(t *testing.T) {
	doc := `<html><head>
<link rel="stylesheet" href="/css/site.css">
<script src="/js/app.js?v=3"></script>
<script src="//cdn.example.com/x.js"></script>
</head><body>
<a href="/">home</a>
<a href="/mobs/">mobs</a>
<a href="/about.html#team">about</a>
<a href="https://example.com/page.html">external</a>
<a href="relative.html">relative</a>
<a href="mailto:hi@example.com">mail</a>
<a href="/about.html">about again</a>
<img src="/img/logo.svg" alt="">
</body></html>`

	got, err := LinkTargets(strings.NewReader(doc))
	require.NoError(t, err)

	want := []string{"/about.html", "/css/site.css", "/img/logo.svg", "/index.html", "/js/app.js", "/mobs/index.html"}
	gotStrings := make([]string, len(got))
	for i, p := range got {
		gotStrings[i] = p.String()
	}
	assert.Equal(t, want, gotStrings)
}

func TestLinkTargetsIgnoresEscapes(t *testing.T) {
	got, err := LinkTargets(strings.NewReader(`<a href="/../etc/passwd">x</a>`))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestScanLinksDecorator(t *testing.T) {
	src := ScanLinks(StaticString(`<a href='/page.html'>page</a>`, relpath.MustParse("/style.css")))
	fc, err := src.Produce(context.Background(), view("/index.html"))
	require.NoError(t, err)

	assert.Equal(t, `<a href='/page.html'>page</a>`, string(fc.Bytes))
	assert.Equal(t, []string{"/page.html", "/style.css"}, fc.Expected.Strings())
}
