package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/bianoble/ssg/internal/relpath"
)

// Load reads and validates an ssg.yaml configuration file.
func Load(path string) (*Config, error) {
	cfg, err := parse(path)
	if err != nil {
		return nil, err
	}

	if errs := Validate(cfg); len(errs) > 0 {
		return nil, &ValidationError{Errors: errs}
	}

	return cfg, nil
}

func parse(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return &cfg, nil
}

// LoadLayered loads every discovered layer that exists, merges them from
// lowest to highest precedence and validates the result. The project layer
// must exist. Layer load status is reported in the returned slice.
//
// Each layer is read together with the .env file beside it, whose values
// override that layer's variables. A relative cache.dir in an inherited
// layer is resolved against that layer's directory.
func LoadLayered(opts DiscoverOptions) (*Config, []ConfigLayerInfo, error) {
	layers, err := DiscoverPaths(opts)
	if err != nil {
		return nil, nil, err
	}

	var configs []*Config
	for i := range layers {
		layer := &layers[i]
		if layer.Level != LevelProject {
			if _, err := os.Stat(layer.Path); errors.Is(err, os.ErrNotExist) {
				continue
			}
		}
		cfg, err := loadLayer(*layer)
		if err != nil {
			layer.Err = err
			return nil, layers, err
		}
		layer.Loaded = true
		configs = append(configs, cfg)
	}

	merged, err := MergeAll(configs)
	if err != nil {
		return nil, layers, err
	}
	if errs := Validate(merged); len(errs) > 0 {
		return nil, layers, &ValidationError{Errors: errs}
	}
	return merged, layers, nil
}

func loadLayer(layer ConfigLayerInfo) (*Config, error) {
	cfg, err := parse(layer.Path)
	if err != nil {
		return nil, err
	}

	dotenv, err := LoadDotEnv(filepath.Join(layer.Dir, DotEnvFile))
	if err != nil {
		return nil, err
	}
	cfg.Variables = mergeMaps(cfg.Variables, dotenv)

	if layer.Level != LevelProject && cfg.Cache.Dir != "" && !filepath.IsAbs(cfg.Cache.Dir) {
		cfg.Cache.Dir = filepath.Join(layer.Dir, cfg.Cache.Dir)
	}
	return cfg, nil
}

// ValidationError holds multiple validation failures.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation failed:\n  - %s", strings.Join(e.Errors, "\n  - "))
}

// Validate checks a Config for semantic correctness.
// Returns a list of validation error messages (empty if valid).
// Two files declaring the same target are not rejected here; the
// generation run reports them with the rest of its findings.
func Validate(cfg *Config) []string {
	var errs []string

	if cfg.Version != 1 {
		errs = append(errs, fmt.Sprintf("unsupported version %d: only version 1 is supported", cfg.Version))
	}
	if cfg.Concurrency < 0 {
		errs = append(errs, fmt.Sprintf("concurrency must not be negative, got %d", cfg.Concurrency))
	}
	if cfg.Cache.MemoryEntries < 0 {
		errs = append(errs, fmt.Sprintf("cache.memory_entries must not be negative, got %d", cfg.Cache.MemoryEntries))
	}
	if cfg.Fetch.MaxSize < 0 {
		errs = append(errs, fmt.Sprintf("fetch.max_size must not be negative, got %d", cfg.Fetch.MaxSize))
	}
	if _, err := cfg.Fetch.TimeoutDuration(); err != nil {
		errs = append(errs, err.Error())
	}

	for name, path := range cfg.Layouts {
		if path == "" {
			errs = append(errs, fmt.Sprintf("layout '%s': path is required", name))
		}
	}

	if len(cfg.Files) == 0 {
		errs = append(errs, "at least one file is required")
	}

	for i, f := range cfg.Files {
		prefix := fmt.Sprintf("file[%d]", i)
		if f.Target != "" {
			prefix = fmt.Sprintf("file '%s'", f.Target)
		}

		if f.Target == "" {
			errs = append(errs, fmt.Sprintf("%s: 'target' is required", prefix))
		} else if _, err := relpath.Parse(f.Target); err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", prefix, err))
		}

		for _, exp := range f.Expects {
			if _, err := relpath.Parse(exp); err != nil {
				errs = append(errs, fmt.Sprintf("%s: expects: %v", prefix, err))
			}
		}

		errs = append(errs, validateFile(f, cfg.Layouts, prefix)...)
	}

	return errs
}

func validateFile(f File, layouts map[string]string, prefix string) []string {
	var errs []string

	switch f.Type {
	case TypeStatic:
		if f.Path != "" || f.URL != "" {
			errs = append(errs, fmt.Sprintf("%s: type 'static' takes only 'content': use type 'file' or 'url' instead", prefix))
		}
	case TypeURL:
		if f.URL == "" {
			errs = append(errs, fmt.Sprintf("%s: type 'url' requires 'url': add 'url: https://...' to the file definition", prefix))
		} else if u, err := url.Parse(f.URL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			errs = append(errs, fmt.Sprintf("%s: invalid url '%s': must be an absolute http or https URL", prefix, f.URL))
		}
	case TypeFile:
		if f.Path == "" {
			errs = append(errs, fmt.Sprintf("%s: type 'file' requires 'path': add 'path: ./assets/...' to the file definition", prefix))
		}
	case TypeTemplate, TypeMarkdown:
		if (f.Content == "") == (f.Path == "") {
			errs = append(errs, fmt.Sprintf("%s: type '%s' requires exactly one of 'content' or 'path'", prefix, f.Type))
		}
	case "":
		errs = append(errs, fmt.Sprintf("%s: 'type' is required: must be one of: %s", prefix, strings.Join(Types(), ", ")))
	default:
		errs = append(errs, fmt.Sprintf("%s: unknown type '%s': must be one of: %s", prefix, f.Type, strings.Join(Types(), ", ")))
	}

	if f.Layout != "" {
		if f.Type != TypeMarkdown {
			errs = append(errs, fmt.Sprintf("%s: 'layout' is only supported for markdown files", prefix))
		} else if _, ok := layouts[f.Layout]; !ok {
			errs = append(errs, fmt.Sprintf("%s: references undefined layout '%s'", prefix, f.Layout))
		}
	}

	return errs
}

// Types lists the supported file types.
func Types() []string {
	return []string{TypeStatic, TypeURL, TypeFile, TypeTemplate, TypeMarkdown}
}
