package source

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"text/template"

	"github.com/bianoble/ssg/internal/relpath"
	"github.com/bianoble/ssg/internal/target"
)

// Template renders Go text/template text against the registry view.
//
// Functions available to the template:
//
//	link "/about.html"   public path of a declared target; the target becomes expected
//	current              public path of the target being produced
//	var "site_name"      a site variable; missing names are an error
//
// The data passed to the template is a PageData.
type Template struct {
	Name string
	Text string
	From Source // when set, its bytes replace Text
	Vars map[string]string
}

// PageData is the template data.
type PageData struct {
	Vars    map[string]string
	Current string
	Title   string
	Content string
}

func (tp Template) Produce(ctx context.Context, t target.Targets) (FileContents, error) {
	return tp.render(ctx, t, PageData{})
}

func (tp Template) render(ctx context.Context, t target.Targets, data PageData) (FileContents, error) {
	text := tp.Text
	if tp.From != nil {
		fc, err := tp.From.Produce(ctx, t)
		if err != nil {
			return FileContents{}, err
		}
		text = string(fc.Bytes)
	}

	links := &linkRecorder{targets: t}
	tmpl, err := template.New(tp.name(t)).
		Option("missingkey=error").
		Funcs(template.FuncMap{
			"link":    links.link,
			"current": func() string { return t.CurrentPublicPath().String() },
			"var":     tp.variable,
		}).
		Parse(text)
	if err != nil {
		return FileContents{}, &Error{Kind: KindRender, Err: fmt.Errorf("parsing template: %w", err)}
	}

	data.Vars = tp.Vars
	data.Current = t.CurrentPublicPath().String()

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		if lookupErr := links.failure(); lookupErr != nil {
			return FileContents{}, Classify(lookupErr)
		}
		return FileContents{}, &Error{Kind: KindRender, Err: fmt.Errorf("executing template: %w", err)}
	}

	fc := FileContents{Bytes: buf.Bytes()}
	fc.Expect(links.expected()...)
	return fc, nil
}

func (tp Template) name(t target.Targets) string {
	if tp.Name != "" {
		return tp.Name
	}
	return t.Current().String()
}

func (tp Template) variable(name string) (string, error) {
	v, ok := tp.Vars[name]
	if !ok {
		return "", fmt.Errorf("variable '%s' is not defined", name)
	}
	return v, nil
}

// linkRecorder resolves links for one render and remembers what it saw.
type linkRecorder struct {
	targets target.Targets

	mu      sync.Mutex
	seen    []relpath.Path
	lookErr error
}

func (l *linkRecorder) link(s string) (string, error) {
	p, err := relpath.Parse(directoryIndex(s))
	if err != nil {
		return "", err
	}
	public, err := l.targets.Resolve(p)

	l.mu.Lock()
	defer l.mu.Unlock()
	if err != nil {
		if l.lookErr == nil {
			l.lookErr = err
		}
		return "", err
	}
	l.seen = append(l.seen, p)
	return public.String(), nil
}

func (l *linkRecorder) expected() []relpath.Path {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.seen
}

func (l *linkRecorder) failure() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.lookErr
}
