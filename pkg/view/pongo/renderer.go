package pongo

import (
	"fmt"
	"sort"
	"strings"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-views/pkg/view"
)

// Option configures a Renderer.
type Option func(*rendererConfig)

type rendererConfig struct {
	engine   *Engine
	paths    []view.TemplatePath
	defaults map[string]map[string]any
	theme    *theme.RendererConfig
}

// WithEngine supplies a pre-built engine. Engines without a loader get a
// FilesystemLoader attached.
func WithEngine(engine *Engine) Option {
	return func(cfg *rendererConfig) {
		if engine != nil {
			cfg.engine = engine
		}
	}
}

// WithPaths registers search paths on construction, in order.
func WithPaths(paths ...view.TemplatePath) Option {
	return func(cfg *rendererConfig) {
		cfg.paths = append(cfg.paths, paths...)
	}
}

// WithDefaults seeds default params keyed by template name or view.TemplateAll.
func WithDefaults(defaults map[string]map[string]any) Option {
	return func(cfg *rendererConfig) {
		if len(defaults) == 0 {
			return
		}
		if cfg.defaults == nil {
			cfg.defaults = make(map[string]map[string]any, len(defaults))
		}
		for template, params := range defaults {
			merged := cfg.defaults[template]
			if merged == nil {
				merged = make(map[string]any, len(params))
				cfg.defaults[template] = merged
			}
			for key, value := range params {
				merged[key] = value
			}
		}
	}
}

// WithTheme exposes a go-theme selection to every template as "theme".
func WithTheme(selection *theme.RendererConfig) Option {
	return func(cfg *rendererConfig) {
		cfg.theme = selection
	}
}

// Renderer adapts Engine to view.Renderer, adding default parameters.
type Renderer struct {
	engine   *Engine
	defaults *view.DefaultParams
}

var _ view.Renderer = (*Renderer)(nil)

// New builds a Renderer. Without WithEngine a fresh engine backed by a
// FilesystemLoader is created.
func New(options ...Option) (*Renderer, error) {
	var cfg rendererConfig
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	engine := cfg.engine
	if engine == nil {
		var err error
		engine, err = NewEngine()
		if err != nil {
			return nil, fmt.Errorf("pongo: create engine: %w", err)
		}
	}
	if engine.Loader() == nil {
		loader, err := NewFilesystemLoader()
		if err != nil {
			return nil, fmt.Errorf("pongo: create loader: %w", err)
		}
		engine.SetLoader(loader)
	}

	r := &Renderer{
		engine:   engine,
		defaults: view.NewDefaultParams(),
	}

	for _, entry := range cfg.paths {
		if err := r.AddPath(entry.Path, entry.Namespace); err != nil {
			return nil, err
		}
	}

	templates := make([]string, 0, len(cfg.defaults))
	for template := range cfg.defaults {
		templates = append(templates, template)
	}
	sort.Strings(templates)
	for _, template := range templates {
		for key, value := range cfg.defaults[template] {
			if err := r.AddDefaultParam(template, key, value); err != nil {
				return nil, err
			}
		}
	}

	if cfg.theme != nil {
		if err := r.AddDefaultParam(view.TemplateAll, "theme", themeContext(cfg.theme)); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// Engine exposes the wrapped engine for filter and global registration.
func (r *Renderer) Engine() *Engine {
	return r.engine
}

// AddPath registers a template directory, optionally namespaced.
func (r *Renderer) AddPath(path string, namespace ...string) error {
	return r.engine.AddPath(path, namespace...)
}

// Paths lists the registered directories in insertion order.
func (r *Renderer) Paths() []view.TemplatePath {
	loader := r.engine.Loader()
	if loader == nil {
		return nil
	}
	return loader.Paths()
}

// AddDefaultParam stores a default for template or view.TemplateAll.
func (r *Renderer) AddDefaultParam(template, key string, value any) error {
	return r.defaults.Add(template, key, value)
}

// Render validates params, layers defaults under them and renders name.
func (r *Renderer) Render(name string, params any) (string, error) {
	values, err := view.NormalizeParams(params)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(name) == "" {
		return "", fmt.Errorf("%w: template name is required", view.ErrInvalidArgument)
	}

	return r.engine.RenderTemplate(name, r.defaults.Merge(name, values))
}
