package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoad_ProjectTOML(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "vela.toml"), `
[project]
name = "demo"
version = "0.1.0"
license = "MIT"

[build]
sources = ["main.vl", "lib/util.vl"]
recover = true

[diagnostics]
color = "never"
`)

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "demo", cfg.Project.Name)
	assert.Equal(t, "0.1.0", cfg.Project.Version)
	assert.Equal(t, "MIT", cfg.Project.License)
	assert.Equal(t, []string{"main.vl", "lib/util.vl"}, cfg.Build.Sources)
	assert.True(t, cfg.Build.Recover)
	assert.True(t, cfg.Build.Semantic, "unset keys keep defaults")
	assert.Equal(t, "src", cfg.Build.SourceDir)
	assert.Equal(t, "never", cfg.Diagnostics.Color)
	assert.Equal(t, "pretty", cfg.Diagnostics.Format)
	assert.Equal(t, filepath.Join(dir, "vela.toml"), cfg.Path)
}

func TestLoad_ProjectYAML(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "vela.yaml"), `
project:
  name: demo
build:
  source_dir: code
  semantic: false
diagnostics:
  format: json
`)

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "demo", cfg.Project.Name)
	assert.Equal(t, "code", cfg.Build.SourceDir)
	assert.False(t, cfg.Build.Semantic)
	assert.Equal(t, "json", cfg.Diagnostics.Format)
	assert.Equal(t, "auto", cfg.Diagnostics.Color)
}

func TestLoad_TOMLWinsOverYAML(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "vela.toml"), "[project]\nname = \"from-toml\"\n")
	writeFile(t, filepath.Join(dir, "vela.yaml"), "project:\n  name: from-yaml\n")

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "from-toml", cfg.Project.Name)
}

func TestLoad_FindsProjectInParent(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "vela.toml"), "[project]\nname = \"parent\"\n")
	sub := filepath.Join(dir, "src", "deep")
	require.NoError(t, os.MkdirAll(sub, 0o755))

	cfg, err := Load(sub)
	require.NoError(t, err)
	assert.Equal(t, "parent", cfg.Project.Name)
	assert.True(t, cfg.HasProject())
	assert.Equal(t, dir, cfg.Root())
}

func TestLoad_UserFallback(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	writeFile(t, filepath.Join(home, ".vela", "config.toml"), "[diagnostics]\ncolor = \"always\"\n")

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "always", cfg.Diagnostics.Color)
	assert.False(t, cfg.HasProject())
	assert.Equal(t, ".", cfg.Root())
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, ".", cfg.Root())
}

func TestLoad_InvalidFiles(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "vela.toml"), "[project\nname = 1")
	_, err := Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse")

	dir = t.TempDir()
	writeFile(t, filepath.Join(dir, "vela.toml"), "[diagnostics]\ncolor = \"sometimes\"\n")
	_, err = Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "diagnostics.color")

	dir = t.TempDir()
	writeFile(t, filepath.Join(dir, "vela.yaml"), "diagnostics:\n  format: xml\n")
	_, err = Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "diagnostics.format")

	dir = t.TempDir()
	writeFile(t, filepath.Join(dir, "vela.yaml"), "diagnostics:\n  format: short\n")
	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "short", cfg.Diagnostics.Format)
}

func TestFindProject_None(t *testing.T) {
	_, err := FindProject(t.TempDir())
	// Tolerate a project file above the temp dir.
	if err != nil {
		assert.True(t, errors.Is(err, ErrNoProject))
	}
}

func TestSourceFiles_Explicit(t *testing.T) {
	cfg := Default()
	cfg.Build.Sources = []string{"a.vl", "/abs/b.vl"}
	files, err := cfg.SourceFiles("root")
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join("root", "a.vl"), "/abs/b.vl"}, files)
}

func TestSourceFiles_Scan(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "src", "b.vl"), "")
	writeFile(t, filepath.Join(root, "src", "a.vl"), "")
	writeFile(t, filepath.Join(root, "src", "nested", "c.vl"), "")
	writeFile(t, filepath.Join(root, "src", "notes.txt"), "")
	writeFile(t, filepath.Join(root, "other.vl"), "")

	files, err := Default().SourceFiles(root)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(root, "src", "a.vl"),
		filepath.Join(root, "src", "b.vl"),
		filepath.Join(root, "src", "nested", "c.vl"),
	}, files)
}

func TestSourceFiles_MissingDir(t *testing.T) {
	_, err := Default().SourceFiles(t.TempDir())
	require.Error(t, err)
}
