package source

import (
	"fmt"
	"sort"
	"strings"

	"github.com/bianoble/ssg/internal/config"
	"github.com/bianoble/ssg/internal/relpath"
)

// Env is what factories need beyond the file entry itself.
type Env struct {
	SiteRoot  string
	Variables map[string]string
	Layouts   map[string]string // layout name -> path under SiteRoot
	Fetcher   *Fetcher
}

// Factory builds the source for one configured file.
type Factory func(f config.File, env Env) (Source, error)

// Registry maps file type strings to Factory implementations.
type Registry struct {
	factories map[string]Factory
}

// NewRegistry creates a new empty source registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// DefaultRegistry returns a registry with every built-in file type.
func DefaultRegistry() *Registry {
	reg := NewRegistry()
	reg.Register(config.TypeStatic, staticFactory)
	reg.Register(config.TypeURL, urlFactory)
	reg.Register(config.TypeFile, fileFactory)
	reg.Register(config.TypeTemplate, templateFactory)
	reg.Register(config.TypeMarkdown, markdownFactory)
	return reg
}

// Register adds a factory for the given file type.
func (r *Registry) Register(fileType string, factory Factory) {
	r.factories[fileType] = factory
}

// Get returns the factory for the given file type.
func (r *Registry) Get(fileType string) (Factory, error) {
	f, ok := r.factories[fileType]
	if !ok {
		return nil, fmt.Errorf("unknown file type '%s': supported types: %s", fileType, r.supportedTypes())
	}
	return f, nil
}

// Build creates the source for f, applying its expects and scan_links settings.
func (r *Registry) Build(f config.File, env Env) (Source, error) {
	factory, err := r.Get(f.Type)
	if err != nil {
		return nil, err
	}
	src, err := factory(f, env)
	if err != nil {
		return nil, fmt.Errorf("file '%s': %w", f.Target, err)
	}

	if f.ScanLinks && f.Type != config.TypeMarkdown {
		src = ScanLinks(src)
	}

	expects := make([]relpath.Path, 0, len(f.Expects))
	for _, e := range f.Expects {
		p, err := relpath.Parse(e)
		if err != nil {
			return nil, fmt.Errorf("file '%s': expects: %w", f.Target, err)
		}
		expects = append(expects, p)
	}
	return Expect(src, expects...), nil
}

func (r *Registry) supportedTypes() string {
	types := make([]string, 0, len(r.factories))
	for t := range r.factories {
		types = append(types, t)
	}
	if len(types) == 0 {
		return "(none registered)"
	}
	sort.Strings(types)
	return strings.Join(types, ", ")
}

func staticFactory(f config.File, _ Env) (Source, error) {
	return StaticString(f.Content), nil
}

func urlFactory(f config.File, env Env) (Source, error) {
	if f.URL == "" {
		return nil, fmt.Errorf("url is required")
	}
	return HTTP{URL: f.URL, Fetcher: env.Fetcher}, nil
}

func fileFactory(f config.File, env Env) (Source, error) {
	if f.Path == "" {
		return nil, fmt.Errorf("path is required")
	}
	return File{Root: env.SiteRoot, Path: f.Path}, nil
}

func templateFactory(f config.File, env Env) (Source, error) {
	tp := Template{Name: f.Target, Text: f.Content, Vars: MergeVars(env.Variables, f.Vars)}
	if f.Path != "" {
		tp.Name = f.Path
		tp.From = File{Root: env.SiteRoot, Path: f.Path}
	}
	return tp, nil
}

func markdownFactory(f config.File, env Env) (Source, error) {
	md := Markdown{Text: f.Content, Title: f.Title}
	if f.Path != "" {
		md.From = File{Root: env.SiteRoot, Path: f.Path}
	}
	if f.Layout != "" {
		layoutPath, ok := env.Layouts[f.Layout]
		if !ok {
			return nil, fmt.Errorf("undefined layout '%s'", f.Layout)
		}
		md.Layout = &Template{
			Name: layoutPath,
			From: File{Root: env.SiteRoot, Path: layoutPath},
			Vars: MergeVars(env.Variables, f.Vars),
		}
	}
	return md, nil
}
