package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// FileName is the project config file name searched for by FindProject.
const FileName = "ssg.yaml"

const configDirName = "ssg"

// ErrNoProject is returned when no ssg.yaml is found above the start directory.
var ErrNoProject = errors.New("no " + FileName + " found")

// ConfigLevel represents the precedence level of a configuration file.
type ConfigLevel string

const (
	LevelSystem  ConfigLevel = "system"
	LevelUser    ConfigLevel = "user"
	LevelProject ConfigLevel = "project"
)

// ConfigLayerInfo describes a discovered config file and its load status.
type ConfigLayerInfo struct {
	Err    error // non-nil if the file exists but failed to load
	Path   string
	Dir    string // directory holding Path; the layer's .env and relative cache dir live here
	Level  ConfigLevel
	Loaded bool
}

// DiscoverOptions controls how config paths are discovered.
type DiscoverOptions struct {
	// ProjectPath is the project config. Empty means search upward from
	// Start with FindProject.
	ProjectPath string

	// Start is where the upward search begins. Empty means the working directory.
	Start string

	// SystemConfigPath overrides the default system config path.
	// Empty means use the OS default. Set to a nonexistent path to skip.
	SystemConfigPath string

	// UserConfigPath overrides the default user config path.
	// Empty means use the OS default. Set to a nonexistent path to skip.
	UserConfigPath string

	// NoInherit skips the system and user layers.
	NoInherit bool
}

// FindProject looks for ssg.yaml in start and then in each parent
// directory. The search stops at the first directory holding a .git entry,
// so a site nested in a repository never picks up a config from outside it.
func FindProject(start string) (string, error) {
	if start == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("finding working directory: %w", err)
		}
		start = wd
	}
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", start, err)
	}

	for {
		candidate := filepath.Join(dir, FileName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}
		if _, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
			break
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", fmt.Errorf("%w in %s or any parent directory", ErrNoProject, start)
}

// layerList collects layers in precedence order, dropping repeats of a
// file already listed.
type layerList struct {
	layers []ConfigLayerInfo
	seen   map[string]bool
}

func (l *layerList) add(level ConfigLevel, path string) {
	if path == "" {
		return
	}
	abs := absOr(path)
	if l.seen[abs] {
		return
	}
	l.seen[abs] = true
	l.layers = append(l.layers, ConfigLayerInfo{Path: path, Dir: filepath.Dir(abs), Level: level})
}

// DiscoverPaths returns the config layers to load, from lowest precedence
// (system) to highest (project). The project layer is always present and
// last. It fails only when ProjectPath is empty and no ssg.yaml is found.
func DiscoverPaths(opts DiscoverOptions) ([]ConfigLayerInfo, error) {
	project := opts.ProjectPath
	if project == "" {
		found, err := FindProject(opts.Start)
		if err != nil {
			return nil, err
		}
		project = found
	}

	// Inherited paths naming the project file itself are skipped.
	list := layerList{seen: map[string]bool{absOr(project): true}}
	if !opts.NoInherit && !EnvNoInherit() {
		list.add(LevelSystem, firstNonZero(opts.SystemConfigPath, defaultSystemConfigPath()))
		list.add(LevelUser, firstNonZero(opts.UserConfigPath, defaultUserConfigPath()))
	}
	list.layers = append(list.layers, ConfigLayerInfo{
		Path:  project,
		Dir:   filepath.Dir(absOr(project)),
		Level: LevelProject,
	})
	return list.layers, nil
}

func absOr(p string) string {
	abs, err := filepath.Abs(p)
	if err != nil {
		return p
	}
	return abs
}

func defaultSystemConfigPath() string {
	if runtime.GOOS == "windows" {
		return filepath.Join(firstNonZero(os.Getenv("ProgramData"), `C:\ProgramData`), configDirName, FileName)
	}
	return filepath.Join("/etc", configDirName, FileName)
}

func defaultUserConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, configDirName, FileName)
}

// EnvNoInherit returns true if SSG_NO_INHERIT is set to "1" or "true".
func EnvNoInherit() bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv("SSG_NO_INHERIT")))
	return v == "1" || v == "true"
}
