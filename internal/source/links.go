package source

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"golang.org/x/net/html"

	"github.com/bianoble/ssg/internal/relpath"
	"github.com/bianoble/ssg/internal/target"
)

// linkAttrs are the attributes whose values are scanned for links.
var linkAttrs = map[string]bool{"href": true, "src": true}

// LinkTargets parses HTML and returns the targets referenced by
// root-relative href and src attributes, sorted and deduplicated.
// Directory links ("/", "/blog/") refer to their index.html. Absolute URLs,
// protocol-relative URLs and relative links are ignored.
func LinkTargets(r io.Reader) ([]relpath.Path, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing html: %w", err)
	}

	found := make(relpath.Set)
	var traverse func(*html.Node)
	traverse = func(n *html.Node) {
		if n.Type == html.ElementNode {
			for _, attr := range n.Attr {
				if !linkAttrs[attr.Key] {
					continue
				}
				if p, ok := linkTarget(attr.Val); ok {
					found.Add(p)
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			traverse(c)
		}
	}
	traverse(doc)

	return found.Sorted(), nil
}

func linkTarget(val string) (relpath.Path, bool) {
	val = strings.TrimSpace(val)
	if !strings.HasPrefix(val, "/") || strings.HasPrefix(val, "//") {
		return relpath.Path{}, false
	}
	u, err := url.Parse(val)
	if err != nil || u.Path == "" {
		return relpath.Path{}, false
	}
	parsed, err := relpath.Parse(directoryIndex(u.Path))
	if err != nil {
		return relpath.Path{}, false
	}
	return parsed, true
}

// ScanLinks decorates src so root-relative links in its HTML output become
// expected targets.
func ScanLinks(src Source) Source {
	return Func(func(ctx context.Context, t target.Targets) (FileContents, error) {
		fc, err := src.Produce(ctx, t)
		if err != nil {
			return FileContents{}, err
		}
		links, err := LinkTargets(bytes.NewReader(fc.Bytes))
		if err != nil {
			return FileContents{}, &Error{Kind: KindRender, Err: err}
		}
		fc.Expect(links...)
		return fc, nil
	})
}

// directoryIndex maps a directory link such as "/" or "/blog/" to the
// index.html it is served from.
func directoryIndex(p string) string {
	if strings.HasSuffix(p, "/") {
		return p + "index.html"
	}
	return p
}
