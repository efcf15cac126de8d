package ssg

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeConfig writes content as the project config and returns its path.
func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	cfgPath := filepath.Join(dir, "ssg.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(content), 0644))
	return cfgPath
}

// newTestClient creates a client with isolated paths and no inherited layers.
func newTestClient(t *testing.T, dir, cfgPath string) *Client {
	t.Helper()
	client, err := New(Options{
		ProjectRoot: dir,
		ConfigPath:  cfgPath,
		CacheDir:    filepath.Join(dir, ".cache"),
		NoInherit:   true,
	})
	require.NoError(t, err)
	return client
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(b)
}

const siteConfig = `version: 1
variables:
  site_name: Mob Time
files:
  - target: /index.html
    type: template
    content: '<a href="{{ link "/about.html" }}">{{ var "site_name" }}</a> at {{ current }}'
  - target: /about.html
    type: markdown
    content: "# About\n\nBack [home](/)."
  - target: /robots.txt
    type: static
    content: "User-agent: *"
`

func TestBuild(t *testing.T) {
	dir := t.TempDir()
	client := newTestClient(t, dir, writeConfig(t, dir, siteConfig))

	require.NoError(t, client.Build(context.Background(), BuildOptions{}))

	out := filepath.Join(dir, "public")
	assert.Equal(t, `<a href="/about.html">Mob Time</a> at /`, readFile(t, filepath.Join(out, "index.html")))
	assert.Contains(t, readFile(t, filepath.Join(out, "about.html")), `<a href="/">home</a>`)
	assert.Equal(t, "User-agent: *", readFile(t, filepath.Join(out, "robots.txt")))
}

func TestBuildOutputOverrideAndDryRun(t *testing.T) {
	dir := t.TempDir()
	client := newTestClient(t, dir, writeConfig(t, dir, siteConfig))

	require.NoError(t, client.Build(context.Background(), BuildOptions{OutputDir: "dist", DryRun: true}))
	assert.NoDirExists(t, filepath.Join(dir, "dist"))

	require.NoError(t, client.Build(context.Background(), BuildOptions{OutputDir: "dist", Concurrency: 1}))
	assert.FileExists(t, filepath.Join(dir, "dist", "robots.txt"))
}

func TestBuildReportsEveryDefect(t *testing.T) {
	dir := t.TempDir()
	client := newTestClient(t, dir, writeConfig(t, dir, `version: 1
files:
  - target: /a.html
    type: static
    content: a
    expects: [/b.html]
  - target: /a.html
    type: static
    content: again
  - target: /c.html
    type: template
    content: '{{ link "/nowhere.html" }}'
`))

	progress := make(chan Result, 8)
	err := client.Build(context.Background(), BuildOptions{Progress: progress})
	require.Error(t, err)

	var n int
	for range progress {
		n++
	}
	assert.Equal(t, 3, n)

	var fe *FinalError
	require.ErrorAs(t, err, &fe)
	assert.ErrorIs(t, err, ErrDuplicateTarget)
	assert.ErrorIs(t, err, ErrMissingTarget)
	assert.ErrorIs(t, err, ErrFailedTarget)
	assert.Equal(t, "/a.html", fe.DuplicateTargets()[0].String())
	assert.Equal(t, "/b.html", fe.MissingTargets()[0].String())
	assert.Equal(t, "/c.html", fe.FailedTargets()[0].String())
}

func TestTargets(t *testing.T) {
	dir := t.TempDir()
	client := newTestClient(t, dir, writeConfig(t, dir, siteConfig))

	infos, err := client.Targets()
	require.NoError(t, err)
	require.Len(t, infos, 3)

	assert.Equal(t, "/about.html", infos[0].Target.String())
	assert.Equal(t, "markdown", infos[0].Type)
	assert.Equal(t, "/index.html", infos[1].Target.String())
	assert.Equal(t, "/", infos[1].PublicPath.String())
	assert.Equal(t, "/robots.txt", infos[2].Target.String())
}

func TestPrune(t *testing.T) {
	dir := t.TempDir()
	client := newTestClient(t, dir, writeConfig(t, dir, siteConfig))
	require.NoError(t, client.Build(context.Background(), BuildOptions{}))

	stale := filepath.Join(dir, "public", "old", "page.html")
	require.NoError(t, os.MkdirAll(filepath.Dir(stale), 0755))
	require.NoError(t, os.WriteFile(stale, []byte("old"), 0644))

	res, err := client.Prune(context.Background(), PruneOptions{})
	require.NoError(t, err)
	require.Len(t, res.Removed, 1)
	assert.Equal(t, "/old/page.html", res.Removed[0].Path)
	assert.NoFileExists(t, stale)
	assert.FileExists(t, filepath.Join(dir, "public", "index.html"))
}

func TestBuildFetchesThroughCache(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits++
		fmt.Fprint(w, "font-bytes")
	}))

	dir := t.TempDir()
	cfgPath := writeConfig(t, dir, fmt.Sprintf(`version: 1
files:
  - target: /fonts/inter.woff2
    type: url
    url: %s/inter.woff2
`, srv.URL))

	require.NoError(t, newTestClient(t, dir, cfgPath).Build(context.Background(), BuildOptions{}))
	srv.Close()

	// A fresh client with an empty memory layer is served from disk.
	require.NoError(t, newTestClient(t, dir, cfgPath).Build(context.Background(), BuildOptions{}))
	assert.Equal(t, 1, hits)
	assert.Equal(t, "font-bytes", readFile(t, filepath.Join(dir, "public", "fonts", "inter.woff2")))
}

func TestEnvOverridesVariables(t *testing.T) {
	t.Setenv("SSG_VAR_SITE_NAME", "Ensemble")
	dir := t.TempDir()
	client := newTestClient(t, dir, writeConfig(t, dir, siteConfig))

	require.NoError(t, client.Build(context.Background(), BuildOptions{}))
	assert.Contains(t, readFile(t, filepath.Join(dir, "public", "index.html")), "Ensemble")
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	_, err := New(Options{ProjectRoot: dir, ConfigPath: writeConfig(t, dir, "version: 2\n"), NoInherit: true, NoCache: true})
	assert.Error(t, err)
}

func TestNewDiscoversProjectFromSubdirectory(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, siteConfig)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("site_name=From Dotenv\n"), 0644))
	nested := filepath.Join(dir, "content", "posts")
	require.NoError(t, os.MkdirAll(nested, 0755))

	client, err := New(Options{Start: nested, NoInherit: true, NoCache: true})
	require.NoError(t, err)
	require.NoError(t, client.Build(context.Background(), BuildOptions{}))

	index := filepath.Join(dir, "public", "index.html")
	assert.Contains(t, readFile(t, index), "From Dotenv")
	assert.NoDirExists(t, filepath.Join(nested, "public"))
}

func TestNewWithoutProject(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, ".git"), 0755))

	_, err := New(Options{Start: dir, NoInherit: true, NoCache: true})
	assert.ErrorIs(t, err, ErrNoProject)
}
