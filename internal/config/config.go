// Package config loads the views.yaml file that describes template search
// paths, default params and theme settings for viewctl.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	theme "github.com/goliatone/go-theme"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-views/pkg/view"
	"github.com/goliatone/go-views/pkg/view/pongo"
)

// File mirrors views.yaml.
type File struct {
	Extension string                    `yaml:"extension,omitempty"`
	Cache     *bool                     `yaml:"cache,omitempty"`
	Paths     []view.TemplatePath       `yaml:"paths,omitempty"`
	Defaults  map[string]map[string]any `yaml:"defaults,omitempty"`
	EnvFiles  []string                  `yaml:"envFiles,omitempty"`
	Theme     *Theme                    `yaml:"theme,omitempty"`

	baseDir string
}

// Theme is the subset of a go-theme selection configurable from YAML.
type Theme struct {
	Name        string            `yaml:"name"`
	Variant     string            `yaml:"variant,omitempty"`
	Tokens      map[string]string `yaml:"tokens,omitempty"`
	Partials    map[string]string `yaml:"partials,omitempty"`
	AssetPrefix string            `yaml:"assetPrefix,omitempty"`
}

// Load reads and parses path. Relative template paths and env files resolve
// against the directory holding the file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(data, filepath.Dir(path))
}

// Parse decodes YAML content; baseDir anchors relative paths.
func Parse(data []byte, baseDir string) (*File, error) {
	cfg := &File{baseDir: baseDir}
	if len(strings.TrimSpace(string(data))) == 0 {
		return cfg, nil
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (f *File) validate() error {
	for i, entry := range f.Paths {
		if strings.TrimSpace(entry.Path) == "" {
			return fmt.Errorf("config: paths[%d]: path is required", i)
		}
	}
	for template, params := range f.Defaults {
		if strings.TrimSpace(template) == "" {
			return errors.New("config: defaults: template key is required")
		}
		for key := range params {
			if strings.TrimSpace(key) == "" {
				return fmt.Errorf("config: defaults[%s]: param name is required", template)
			}
		}
	}
	if f.Theme != nil && strings.TrimSpace(f.Theme.Name) == "" {
		return errors.New("config: theme: name is required")
	}
	return nil
}

// TemplatePaths returns the configured paths with relative entries anchored
// to the config directory.
func (f *File) TemplatePaths() []view.TemplatePath {
	out := make([]view.TemplatePath, 0, len(f.Paths))
	for _, entry := range f.Paths {
		out = append(out, view.TemplatePath{
			Path:      f.resolve(entry.Path),
			Namespace: strings.TrimSpace(entry.Namespace),
		})
	}
	return out
}

// EnvVars loads the configured .env files, later files overriding earlier ones.
func (f *File) EnvVars() (map[string]string, error) {
	if len(f.EnvFiles) == 0 {
		return nil, nil
	}
	out := make(map[string]string)
	for _, name := range f.EnvFiles {
		if strings.TrimSpace(name) == "" {
			continue
		}
		path := f.resolve(name)
		vars, err := godotenv.Read(path)
		if err != nil {
			return nil, fmt.Errorf("config: load env file %q: %w", path, err)
		}
		for key, value := range vars {
			out[key] = value
		}
	}
	return out, nil
}

// RendererConfig converts the theme block into a go-theme renderer config.
// Tokens double as CSS custom properties ("brand" -> "--brand").
func (t *Theme) RendererConfig() *theme.RendererConfig {
	if t == nil {
		return nil
	}
	cssVars := make(map[string]string, len(t.Tokens))
	for key, value := range t.Tokens {
		cssVars["--"+key] = value
	}
	prefix := strings.TrimRight(strings.TrimSpace(t.AssetPrefix), "/")

	return &theme.RendererConfig{
		Theme:    t.Name,
		Variant:  t.Variant,
		Tokens:   t.Tokens,
		CSSVars:  cssVars,
		Partials: t.Partials,
		AssetURL: func(key string) string {
			if key == "" {
				return ""
			}
			if prefix == "" {
				return key
			}
			return prefix + "/" + strings.TrimLeft(key, "/")
		},
	}
}

// NewRenderer builds a pongo renderer from the file, registering extra paths
// after the configured ones and extra defaults over the configured ones.
func (f *File) NewRenderer(extraPaths []view.TemplatePath, extraDefaults map[string]map[string]any) (*pongo.Renderer, error) {
	engineOpts := []pongo.EngineOption{pongo.WithExtension(f.Extension)}
	if f.Cache != nil {
		engineOpts = append(engineOpts, pongo.WithCache(*f.Cache))
	}
	engine, err := pongo.NewEngine(engineOpts...)
	if err != nil {
		return nil, fmt.Errorf("config: create engine: %w", err)
	}

	env, err := f.EnvVars()
	if err != nil {
		return nil, err
	}

	options := []pongo.Option{
		pongo.WithEngine(engine),
		pongo.WithPaths(f.TemplatePaths()...),
		pongo.WithPaths(extraPaths...),
		pongo.WithDefaults(f.Defaults),
	}
	if env != nil {
		options = append(options, pongo.WithDefaults(map[string]map[string]any{
			view.TemplateAll: {"env": env},
		}))
	}
	options = append(options, pongo.WithDefaults(extraDefaults))
	if f.Theme != nil {
		options = append(options, pongo.WithTheme(f.Theme.RendererConfig()))
	}

	return pongo.New(options...)
}

func (f *File) resolve(path string) string {
	path = strings.TrimSpace(path)
	if path == "" || filepath.IsAbs(path) || f.baseDir == "" {
		return path
	}
	return filepath.Join(f.baseDir, path)
}
