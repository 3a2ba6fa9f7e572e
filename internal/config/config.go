// Package config loads Vela project and user configuration.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/thomasrohde/vela/pkg/diagnostics"
)

// ErrNoProject is returned when no project file is found in a directory or
// any of its parents.
var ErrNoProject = errors.New("no vela project file found")

// Project file names, in lookup order.
var projectFiles = []string{"vela.toml", "vela.yaml", "vela.yml"}

// SourceExt is the extension of Vela source files.
const SourceExt = ".vl"

// Config holds the complete project configuration.
type Config struct {
	Project     ProjectConfig     `toml:"project" yaml:"project"`
	Build       BuildConfig       `toml:"build" yaml:"build"`
	Diagnostics DiagnosticsConfig `toml:"diagnostics" yaml:"diagnostics"`

	// Path is the file the configuration was read from; empty for defaults.
	Path string `toml:"-" yaml:"-"`

	user bool
}

// ProjectConfig describes the project.
type ProjectConfig struct {
	Name    string `toml:"name" yaml:"name"`
	Version string `toml:"version" yaml:"version"`
	License string `toml:"license" yaml:"license"`
}

// BuildConfig controls which files are compiled and how.
type BuildConfig struct {
	SourceDir string   `toml:"source_dir" yaml:"source_dir"`
	Sources   []string `toml:"sources" yaml:"sources"`
	Recover   bool     `toml:"recover" yaml:"recover"`
	Semantic  bool     `toml:"semantic" yaml:"semantic"`
}

// DiagnosticsConfig controls diagnostic rendering.
type DiagnosticsConfig struct {
	Color  string `toml:"color" yaml:"color"`
	Format string `toml:"format" yaml:"format"`
}

// Default returns the configuration used when no file is found.
func Default() *Config {
	return &Config{
		Build: BuildConfig{
			SourceDir: "src",
			Semantic:  true,
		},
		Diagnostics: DiagnosticsConfig{
			Color:  "auto",
			Format: "pretty",
		},
	}
}

// Load loads configuration for the project containing dir.
// Precedence: project file (vela.toml, vela.yaml) in dir or a parent →
// user file (~/.vela/config.toml) → defaults.
func Load(dir string) (*Config, error) {
	path, err := FindProject(dir)
	if err == nil {
		return LoadFile(path)
	}
	if !errors.Is(err, ErrNoProject) {
		return nil, err
	}

	if home, err := os.UserHomeDir(); err == nil {
		userPath := filepath.Join(home, ".vela", "config.toml")
		if _, err := os.Stat(userPath); err == nil {
			cfg, err := LoadFile(userPath)
			if err != nil {
				return nil, err
			}
			cfg.user = true
			return cfg, nil
		}
	}
	return Default(), nil
}

// FindProject returns the path of the nearest project file in dir or one of
// its parents.
func FindProject(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", dir, err)
	}
	for {
		for _, name := range projectFiles {
			path := filepath.Join(abs, name)
			if info, err := os.Stat(path); err == nil && !info.IsDir() {
				return path, nil
			}
		}
		parent := filepath.Dir(abs)
		if parent == abs {
			return "", fmt.Errorf("%w in %s or its parents", ErrNoProject, dir)
		}
		abs = parent
	}
}

// LoadFile reads one configuration file. The format follows the extension:
// .yaml and .yml are YAML, anything else TOML. Keys missing from the file keep
// their defaults.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg := Default()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	default:
		_, err = toml.Decode(string(data), cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg.Path = path
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks enumerated settings.
func (c *Config) Validate() error {
	if _, err := diagnostics.ParseColorMode(c.Diagnostics.Color); err != nil {
		return fmt.Errorf("diagnostics.color: %w", err)
	}
	switch c.Diagnostics.Format {
	case "", "pretty", "short", "json":
	default:
		return fmt.Errorf("diagnostics.format: invalid format %q (want pretty, short or json)", c.Diagnostics.Format)
	}
	return nil
}

// HasProject reports whether the configuration came from a project file.
func (c *Config) HasProject() bool {
	return c.Path != "" && !c.user
}

// Root is the directory relative paths in the configuration resolve
// against: the directory holding the project file, or "." otherwise.
func (c *Config) Root() string {
	if !c.HasProject() {
		return "."
	}
	return filepath.Dir(c.Path)
}

// SourceFiles resolves the files to compile: the explicit sources list
// relative to root, or else every *.vl file under root/source_dir in
// lexical order.
func (c *Config) SourceFiles(root string) ([]string, error) {
	if len(c.Build.Sources) > 0 {
		files := make([]string, len(c.Build.Sources))
		for i, src := range c.Build.Sources {
			if filepath.IsAbs(src) {
				files[i] = src
			} else {
				files[i] = filepath.Join(root, src)
			}
		}
		return files, nil
	}

	dir := filepath.Join(root, c.Build.SourceDir)
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && filepath.Ext(path) == SourceExt {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan sources: %w", err)
	}
	return files, nil
}
