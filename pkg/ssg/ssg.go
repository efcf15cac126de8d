// Package ssg provides the public Go library API for ssg.
//
// ssg builds a static site from a declarative ssg.yaml. Every configured
// file becomes one target in the output directory. Targets are produced
// concurrently and may link to each other; a run reports duplicate,
// missing and failed targets together.
//
// # Basic Usage
//
//	client, err := ssg.New(ssg.Options{
//	    ProjectRoot: "/path/to/site",
//	    ConfigPath:  "ssg.yaml",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Generate the site
//	err = client.Build(ctx, ssg.BuildOptions{})
//
//	// Remove files that are no longer declared
//	result, err := client.Prune(ctx, ssg.PruneOptions{})
package ssg

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/bianoble/ssg/internal/cache"
	"github.com/bianoble/ssg/internal/config"
	"github.com/bianoble/ssg/internal/engine"
	"github.com/bianoble/ssg/internal/relpath"
	"github.com/bianoble/ssg/internal/source"
	"github.com/bianoble/ssg/internal/target"
)

// Options configures an ssg client.
type Options struct {
	// ProjectRoot is the directory relative paths in the config resolve
	// against. If empty, defaults to the directory containing the project
	// config.
	ProjectRoot string

	// ConfigPath is the path to the config file. If empty, ssg.yaml is
	// searched for upward from Start.
	ConfigPath string

	// Start is where the ssg.yaml search begins. Empty means the working
	// directory. Ignored when ConfigPath is set.
	Start string

	// CacheDir overrides the cache directory from the config.
	// If both are empty, uses the default (~/.cache/ssg).
	CacheDir string

	// NoCache disables the fetch cache.
	NoCache bool

	// NoInherit skips the system and user config layers.
	NoInherit bool

	// Logger receives structured logs. Nil discards.
	Logger *slog.Logger
}

// BuildOptions configures a build.
type BuildOptions struct {
	DryRun bool

	// Concurrency overrides the configured bound when > 0.
	Concurrency int

	// OutputDir overrides the configured output directory.
	OutputDir string

	// Progress, when non-nil, receives every per-target result and is
	// closed when the build finishes.
	Progress chan<- Result
}

// PruneOptions configures a prune operation.
type PruneOptions struct {
	DryRun    bool
	OutputDir string
}

// TargetInfo describes one declared target.
type TargetInfo struct {
	Target     relpath.Path
	PublicPath target.PublicPath
	Type       string
}

// Client is the main entry point for the ssg library.
type Client struct {
	cfg         *config.Config
	layers      []config.ConfigLayerInfo
	registry    *source.Registry
	fetcher     *source.Fetcher
	cache       *cache.Cache
	projectRoot string
	logger      *slog.Logger
}

// New loads the layered configuration and prepares a Client.
func New(opts Options) (*Client, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	cfg, layers, err := config.LoadLayered(config.DiscoverOptions{
		ProjectPath: opts.ConfigPath,
		Start:       opts.Start,
		NoInherit:   opts.NoInherit || config.EnvNoInherit(),
	})
	if err != nil {
		if len(layers) == 0 {
			return nil, fmt.Errorf("loading config: %w", err)
		}
		return nil, fmt.Errorf("loading config %s: %w", layers[len(layers)-1].Path, err)
	}
	config.ApplyEnv(cfg)

	// The project layer is always last.
	root := firstNonEmpty(opts.ProjectRoot, layers[len(layers)-1].Dir)

	timeout, err := cfg.Fetch.TimeoutDuration()
	if err != nil {
		return nil, err
	}

	c := &Client{
		cfg:         cfg,
		layers:      layers,
		registry:    source.DefaultRegistry(),
		projectRoot: root,
		logger:      logger,
	}

	layered := &cache.Layered{}
	if !opts.NoCache && !cfg.Cache.Disabled {
		mem, err := cache.NewMemory(cfg.Cache.MemoryEntries)
		if err != nil {
			return nil, err
		}
		disk, err := cache.New(c.cacheDir(opts.CacheDir))
		if err != nil {
			return nil, fmt.Errorf("initializing cache: %w", err)
		}
		layered.Memory = mem
		layered.Disk = disk
		c.cache = disk
	}

	c.fetcher = &source.Fetcher{
		Client:  source.DefaultHTTPClient{},
		MaxSize: cfg.Fetch.MaxSize,
		Timeout: timeout,
		Cache:   layered,
		Logger:  logger,
	}

	for _, l := range layers {
		if l.Loaded {
			logger.Debug("config layer loaded", "level", string(l.Level), "path", l.Path)
		}
	}
	return c, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func (c *Client) cacheDir(override string) string {
	switch {
	case override != "":
		return override
	case c.cfg.Cache.Dir != "":
		return c.resolve(c.cfg.Cache.Dir)
	default:
		return cache.DefaultDir()
	}
}

func (c *Client) resolve(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.projectRoot, p)
}

// Config returns the merged configuration.
func (c *Client) Config() *config.Config { return c.cfg }

// Layers reports which config layers were discovered and loaded.
func (c *Client) Layers() []config.ConfigLayerInfo { return c.layers }

// Cache returns the disk cache, or nil when caching is disabled.
func (c *Client) Cache() *cache.Cache { return c.cache }

// OutputDir returns the absolute output directory, honoring override.
func (c *Client) OutputDir(override string) string {
	if override != "" {
		return c.resolve(override)
	}
	return c.resolve(c.cfg.Output())
}

// Specs builds one file spec per configured file, in config order.
func (c *Client) Specs() ([]engine.FileSpec, error) {
	env := source.Env{
		SiteRoot:  c.projectRoot,
		Variables: c.cfg.Variables,
		Layouts:   c.cfg.Layouts,
		Fetcher:   c.fetcher,
	}

	specs := make([]engine.FileSpec, 0, len(c.cfg.Files))
	for _, f := range c.cfg.Files {
		t, err := relpath.Parse(f.Target)
		if err != nil {
			return nil, fmt.Errorf("file '%s': %w", f.Target, err)
		}
		src, err := c.registry.Build(f, env)
		if err != nil {
			return nil, err
		}
		specs = append(specs, engine.FileSpec{Target: t, Source: src})
	}
	return specs, nil
}

// Build generates every configured target. The error is nil, a *FinalError
// describing every defect of the run, or a setup error.
func (c *Client) Build(ctx context.Context, opts BuildOptions) error {
	specs, err := c.Specs()
	if err != nil {
		if opts.Progress != nil {
			close(opts.Progress)
		}
		return err
	}

	concurrency := c.cfg.Concurrency
	if opts.Concurrency > 0 {
		concurrency = opts.Concurrency
	}

	g := &engine.Generator{
		OutputDir:   c.OutputDir(opts.OutputDir),
		Concurrency: concurrency,
		DryRun:      opts.DryRun,
		Logger:      c.logger,
	}
	return g.Generate(ctx, specs, opts.Progress)
}

// Prune removes files in the output directory that no configured file declares.
func (c *Client) Prune(ctx context.Context, opts PruneOptions) (*PruneResult, error) {
	declared := make([]relpath.Path, 0, len(c.cfg.Files))
	for _, f := range c.cfg.Files {
		t, err := relpath.Parse(f.Target)
		if err != nil {
			return nil, fmt.Errorf("file '%s': %w", f.Target, err)
		}
		declared = append(declared, t)
	}
	return engine.Prune(ctx, c.OutputDir(opts.OutputDir), declared, opts.DryRun)
}

// Targets lists the declared targets in ascending order.
func (c *Client) Targets() ([]TargetInfo, error) {
	infos := make([]TargetInfo, 0, len(c.cfg.Files))
	for _, f := range c.cfg.Files {
		t, err := relpath.Parse(f.Target)
		if err != nil {
			return nil, fmt.Errorf("file '%s': %w", f.Target, err)
		}
		infos = append(infos, TargetInfo{Target: t, PublicPath: target.PublicPathOf(t), Type: f.Type})
	}
	sortTargets(infos)
	return infos, nil
}
