package relpath

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"index.html", "/index.html"},
		{"/index.html", "/index.html"},
		{"//a//b.html", "/a/b.html"},
		{"/a/./b.html", "/a/b.html"},
		{"/a/c/../b.html", "/a/b.html"},
		{`a\b\c.css`, "/a/b/c.css"},
		{"/fonts/", "/fonts"},
	}

	for _, tt := range tests {
		got, err := Parse(tt.in)
		if err != nil {
			t.Errorf("Parse(%q): %v", tt.in, err)
			continue
		}
		if got.String() != tt.want {
			t.Errorf("Parse(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseInvalid(t *testing.T) {
	for _, in := range []string{
		"", "   ", "/", ".", "..", "/../x.html", "a/../../b", `..\x`,
		" /a.html ", "/a.html\n", "\t/a.html",
		`C:\x\y.html`, "c:/x.html",
	} {
		_, err := Parse(in)
		if err == nil {
			t.Errorf("Parse(%q): expected error", in)
			continue
		}
		if !errors.Is(err, ErrInvalidPath) {
			t.Errorf("Parse(%q): error %v does not match ErrInvalidPath", in, err)
		}
	}
}

func TestSortUsesCompare(t *testing.T) {
	paths := []Path{MustParse("/b.html"), MustParse("/a/z.html"), MustParse("/a.html")}
	Sort(paths)

	got := []string{paths[0].String(), paths[1].String(), paths[2].String()}
	want := []string{"/a.html", "/a/z.html", "/b.html"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("sorted = %v, want %v", got, want)
		}
	}
	if paths[0].Compare(paths[2]) >= 0 || paths[1].Compare(paths[1]) != 0 {
		t.Error("Compare disagrees with Sort")
	}
}

func TestMustParsePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	MustParse("../escape")
}

func TestFilePath(t *testing.T) {
	p := MustParse("/css/site.css")
	got := p.FilePath("/out")
	want := filepath.Join("/out", "css", "site.css")
	if got != want {
		t.Errorf("FilePath = %q, want %q", got, want)
	}
}

func TestSetSorted(t *testing.T) {
	s := NewSet(MustParse("/b.html"), MustParse("/a.html"), MustParse("/a.html"))
	s.Add(MustParse("/c/index.html"))

	got := strings.Join(s.Strings(), ",")
	if got != "/a.html,/b.html,/c/index.html" {
		t.Errorf("sorted = %s", got)
	}
	if !s.Has(MustParse("a.html")) {
		t.Error("expected /a.html to be a member")
	}

	var empty Set
	if empty.Has(MustParse("/a.html")) {
		t.Error("nil set should have no members")
	}
}

func TestUnmarshalText(t *testing.T) {
	var p Path
	if err := p.UnmarshalText([]byte("about/index.html")); err != nil {
		t.Fatalf("UnmarshalText: %v", err)
	}
	if p.String() != "/about/index.html" {
		t.Errorf("path = %q", p)
	}
	if err := p.UnmarshalText([]byte("../x")); err == nil {
		t.Error("expected error")
	}
}

func TestParseProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.Rng.Seed(4242)
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)

	properties.Property("parsing is idempotent", prop.ForAll(
		func(segments []string) bool {
			if len(segments) == 0 {
				return true
			}
			p, err := Parse(strings.Join(segments, "/"))
			if err != nil {
				return false
			}
			again, err := Parse(p.String())
			return err == nil && again == p
		},
		gen.SliceOf(gen.Identifier()),
	))

	properties.Property("leading and repeated slashes do not matter", prop.ForAll(
		func(segments []string) bool {
			if len(segments) == 0 {
				return true
			}
			a, errA := Parse(strings.Join(segments, "/"))
			b, errB := Parse("///" + strings.Join(segments, "//"))
			return errA == nil && errB == nil && a == b
		},
		gen.SliceOf(gen.Identifier()),
	))

	properties.Property("parsed paths never escape the root", prop.ForAll(
		func(segments []string, ups int) bool {
			in := strings.Repeat("../", ups) + strings.Join(segments, "/")
			p, err := Parse(in)
			if err != nil {
				return errors.Is(err, ErrInvalidPath)
			}
			return strings.HasPrefix(p.String(), "/") && !strings.Contains(p.String(), "..")
		},
		gen.SliceOf(gen.Identifier()),
		gen.IntRange(0, 3),
	))

	properties.TestingRun(t)
}
