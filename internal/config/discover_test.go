package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDiscoverPathsOrder(t *testing.T) {
	t.Setenv("SSG_NO_INHERIT", "")
	dir := t.TempDir()
	layers, err := DiscoverPaths(DiscoverOptions{
		ProjectPath:      filepath.Join(dir, "site", "ssg.yaml"),
		SystemConfigPath: filepath.Join(dir, "etc", "system.yaml"),
		UserConfigPath:   filepath.Join(dir, "home", "user.yaml"),
	})
	if err != nil {
		t.Fatalf("DiscoverPaths: %v", err)
	}

	want := []struct {
		level ConfigLevel
		dir   string
	}{
		{LevelSystem, filepath.Join(dir, "etc")},
		{LevelUser, filepath.Join(dir, "home")},
		{LevelProject, filepath.Join(dir, "site")},
	}
	if len(layers) != len(want) {
		t.Fatalf("layers = %+v", layers)
	}
	for i, l := range layers {
		if l.Level != want[i].level || l.Dir != want[i].dir {
			t.Errorf("layer %d = %s in %s, want %s in %s", i, l.Level, l.Dir, want[i].level, want[i].dir)
		}
	}
}

func TestDiscoverPathsDeduplicates(t *testing.T) {
	t.Setenv("SSG_NO_INHERIT", "")
	path := filepath.Join(t.TempDir(), "ssg.yaml")
	layers, err := DiscoverPaths(DiscoverOptions{
		ProjectPath:      path,
		SystemConfigPath: path,
		UserConfigPath:   path,
	})
	if err != nil {
		t.Fatalf("DiscoverPaths: %v", err)
	}
	if len(layers) != 1 || layers[0].Level != LevelProject {
		t.Errorf("expected only the project layer, got %+v", layers)
	}
}

func TestDiscoverPathsNoInherit(t *testing.T) {
	project := filepath.Join(t.TempDir(), "ssg.yaml")

	layers, err := DiscoverPaths(DiscoverOptions{ProjectPath: project, NoInherit: true})
	if err != nil || len(layers) != 1 || layers[0].Level != LevelProject {
		t.Errorf("NoInherit layers = %+v, %v", layers, err)
	}

	t.Setenv("SSG_NO_INHERIT", "TRUE")
	layers, err = DiscoverPaths(DiscoverOptions{ProjectPath: project})
	if err != nil || len(layers) != 1 {
		t.Errorf("SSG_NO_INHERIT layers = %+v, %v", layers, err)
	}
}

func TestDiscoverPathsSearchesFromStart(t *testing.T) {
	root := t.TempDir()
	project := writeConfig(t, root, "version: 1\n")
	nested := filepath.Join(root, "content", "posts")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatal(err)
	}

	layers, err := DiscoverPaths(DiscoverOptions{Start: nested, NoInherit: true})
	if err != nil {
		t.Fatalf("DiscoverPaths: %v", err)
	}
	if len(layers) != 1 || layers[0].Path != project || layers[0].Dir != root {
		t.Errorf("layers = %+v, want project %s", layers, project)
	}
}

func TestFindProjectWalksUp(t *testing.T) {
	root := t.TempDir()
	want := writeConfig(t, root, "version: 1\n")
	nested := filepath.Join(root, "a", "b", "c")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatal(err)
	}

	got, err := FindProject(nested)
	if err != nil {
		t.Fatalf("FindProject: %v", err)
	}
	if got != want {
		t.Errorf("FindProject = %s, want %s", got, want)
	}
}

func TestFindProjectPrefersNearest(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, "version: 1\n")
	inner := filepath.Join(root, "docs")
	if err := os.MkdirAll(inner, 0755); err != nil {
		t.Fatal(err)
	}
	want := writeConfig(t, inner, "version: 1\n")

	got, err := FindProject(inner)
	if err != nil || got != want {
		t.Errorf("FindProject = %s, %v; want %s", got, err, want)
	}
}

func TestFindProjectStopsAtRepositoryRoot(t *testing.T) {
	outer := t.TempDir()
	writeConfig(t, outer, "version: 1\n")
	repo := filepath.Join(outer, "repo")
	nested := filepath.Join(repo, "site")
	if err := os.MkdirAll(filepath.Join(repo, ".git"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatal(err)
	}

	_, err := FindProject(nested)
	if !errors.Is(err, ErrNoProject) {
		t.Errorf("expected ErrNoProject, got %v", err)
	}
}

func TestFindProjectIgnoresDirectoryNamedLikeConfig(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, FileName), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(root, ".git"), 0755); err != nil {
		t.Fatal(err)
	}

	_, err := FindProject(root)
	if !errors.Is(err, ErrNoProject) {
		t.Errorf("expected ErrNoProject, got %v", err)
	}
}

func TestDiscoverPathsNoProjectFound(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, ".git"), 0755); err != nil {
		t.Fatal(err)
	}

	layers, err := DiscoverPaths(DiscoverOptions{Start: root, NoInherit: true})
	if !errors.Is(err, ErrNoProject) || layers != nil {
		t.Errorf("DiscoverPaths = %+v, %v; want ErrNoProject", layers, err)
	}
}
