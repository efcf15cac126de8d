package target

import (
	"errors"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/bianoble/ssg/internal/relpath"
)

func paths(ss ...string) []relpath.Path {
	out := make([]relpath.Path, len(ss))
	for i, s := range ss {
		out[i] = relpath.MustParse(s)
	}
	return out
}

func TestResolveIndexRewrite(t *testing.T) {
	set := NewSet(paths("/index.html", "/about.html", "/blog/index.html")...)
	view := set.For(relpath.MustParse("/index.html"))

	tests := []struct {
		in   string
		want PublicPath
	}{
		{"/index.html", "/"},
		{"/about.html", "/about.html"},
		{"/blog/index.html", "/blog/index.html"},
	}
	for _, tt := range tests {
		got, err := view.ResolveString(tt.in)
		if err != nil {
			t.Errorf("Resolve(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Resolve(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}

	if got := view.CurrentPublicPath(); got != "/" {
		t.Errorf("CurrentPublicPath = %q, want /", got)
	}
	if got := set.For(relpath.MustParse("/about.html")).CurrentPublicPath(); got != "/about.html" {
		t.Errorf("CurrentPublicPath = %q, want /about.html", got)
	}
}

func TestResolveUnknown(t *testing.T) {
	view := NewSet(paths("/a.html")...).For(relpath.MustParse("/a.html"))

	_, err := view.ResolveString("/b.html")
	if !errors.Is(err, ErrTargetNotFound) {
		t.Fatalf("expected ErrTargetNotFound, got %v", err)
	}
	var nf *NotFoundError
	if !errors.As(err, &nf) || nf.Path.String() != "/b.html" {
		t.Errorf("NotFoundError path = %v", nf)
	}

	_, err = view.ResolveString("../x")
	if !errors.Is(err, relpath.ErrInvalidPath) {
		t.Errorf("expected ErrInvalidPath, got %v", err)
	}
}

func TestForUndeclaredPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	NewSet(paths("/a.html")...).For(relpath.MustParse("/b.html"))
}

func TestSetIsFrozen(t *testing.T) {
	in := paths("/b.html", "/a.html", "/a.html")
	set := NewSet(in...)
	in[0] = relpath.MustParse("/z.html")

	if set.Len() != 2 {
		t.Errorf("len = %d, want 2", set.Len())
	}
	all := set.All()
	all[0] = relpath.MustParse("/mutated.html")
	if set.All()[0].String() != "/a.html" {
		t.Error("All must return a copy")
	}
	if set.Has(relpath.MustParse("/z.html")) {
		t.Error("set must not observe caller mutation")
	}
}

func TestZeroTargets(t *testing.T) {
	var view Targets
	if _, err := view.ResolveString("/a.html"); !errors.Is(err, ErrTargetNotFound) {
		t.Errorf("zero view should resolve nothing, got %v", err)
	}
	if view.Len() != 0 || view.All() != nil {
		t.Error("zero view should be empty")
	}
}

func TestTargetsProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.Rng.Seed(1337)
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)

	declared := gen.SliceOf(gen.Identifier()).Map(func(names []string) []relpath.Path {
		out := make([]relpath.Path, 0, len(names)+1)
		out = append(out, relpath.MustParse("/index.html"))
		for _, n := range names {
			out = append(out, relpath.MustParse("/"+n+".html"))
		}
		return out
	})

	properties.Property("declared paths resolve to themselves except the root index", prop.ForAll(
		func(ps []relpath.Path) bool {
			set := NewSet(ps...)
			for _, p := range ps {
				view := set.For(p)
				got, err := view.Resolve(p)
				if err != nil {
					return false
				}
				want := PublicPath(p.String())
				if p.String() == "/index.html" {
					want = "/"
				}
				if got != want || view.CurrentPublicPath() != want {
					return false
				}
			}
			return true
		},
		declared,
	))

	properties.Property("undeclared paths are never found", prop.ForAll(
		func(ps []relpath.Path, name string) bool {
			set := NewSet(ps...)
			candidate := relpath.MustParse("/missing/" + name)
			_, err := set.For(ps[0]).Resolve(candidate)
			return errors.Is(err, ErrTargetNotFound) && strings.Contains(err.Error(), candidate.String())
		},
		declared,
		gen.Identifier(),
	))

	properties.TestingRun(t)
}
