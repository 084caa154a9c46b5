package pongo

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"

	"github.com/goliatone/go-views/pkg/view"
)

// ErrNoLoader is returned when rendering through an engine that was never
// given a template loader.
var ErrNoLoader = errors.New("pongo: engine has no template loader")

// EngineOption configures the engine before construction.
type EngineOption func(*engineConfig)

type engineConfig struct {
	name       string
	loader     Loader
	extension  string
	cache      bool
	templateFn map[string]any
	filters    map[string]func(input any, param any) (any, error)
	globalData map[string]any
}

// WithLoader attaches a loader up front. Without one the engine starts
// unconfigured and Renderer attaches a FilesystemLoader.
func WithLoader(loader Loader) EngineOption {
	return func(cfg *engineConfig) {
		cfg.loader = loader
	}
}

// WithSetName names the underlying pongo2 template set.
func WithSetName(name string) EngineOption {
	return func(cfg *engineConfig) {
		if trimmed := strings.TrimSpace(name); trimmed != "" {
			cfg.name = trimmed
		}
	}
}

// WithExtension overrides the suffix appended to names without one.
func WithExtension(ext string) EngineOption {
	return func(cfg *engineConfig) {
		if normalized := view.NormalizeExtension(ext); normalized != "" {
			cfg.extension = normalized
		}
	}
}

// WithCache toggles the parsed template cache. Disable it to pick up template
// edits without restarting.
func WithCache(enabled bool) EngineOption {
	return func(cfg *engineConfig) {
		cfg.cache = enabled
	}
}

// WithTemplateFunc registers helper functions or filters when the engine loads.
func WithTemplateFunc(funcs map[string]any) EngineOption {
	return func(cfg *engineConfig) {
		if len(funcs) == 0 {
			return
		}
		if cfg.templateFn == nil {
			cfg.templateFn = make(map[string]any, len(funcs))
		}
		for name, fn := range funcs {
			cfg.templateFn[strings.TrimSpace(name)] = fn
		}
	}
}

// WithFilter registers a named filter on construction. pongo2 filters are
// process-wide, so a name that is already registered keeps its first function.
func WithFilter(name string, fn func(input any, param any) (any, error)) EngineOption {
	return func(cfg *engineConfig) {
		if cfg.filters == nil {
			cfg.filters = make(map[string]func(any, any) (any, error))
		}
		cfg.filters[strings.TrimSpace(name)] = fn
	}
}

// WithGlobalData seeds global context values available to every template.
func WithGlobalData(data map[string]any) EngineOption {
	return func(cfg *engineConfig) {
		if len(data) == 0 {
			return
		}
		if cfg.globalData == nil {
			cfg.globalData = make(map[string]any, len(data))
		}
		for key, value := range data {
			cfg.globalData[strings.TrimSpace(key)] = value
		}
	}
}

// Engine wraps a pongo2 template set and caches parsed templates by their
// resolved reference.
type Engine struct {
	mu sync.RWMutex

	name      string
	loader    Loader
	set       *pongo2.TemplateSet
	globals   pongo2.Context
	templates map[string]*pongo2.Template
	cache     bool
	tplExt    string
}

// NewEngine constructs an Engine using the provided configuration options.
func NewEngine(options ...EngineOption) (*Engine, error) {
	cfg := &engineConfig{
		name:      "views",
		extension: view.DefaultExtension,
		cache:     true,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(cfg)
	}

	engine := &Engine{
		name:      cfg.name,
		globals:   make(pongo2.Context),
		templates: make(map[string]*pongo2.Template),
		cache:     cfg.cache,
		tplExt:    cfg.extension,
	}
	registerDefaultFilters()

	if err := engine.GlobalContext(cfg.globalData); err != nil {
		return nil, fmt.Errorf("pongo: apply global data: %w", err)
	}
	for name, fn := range cfg.templateFn {
		if err := engine.registerTemplateFunc(name, fn); err != nil {
			return nil, fmt.Errorf("pongo: register template func %q: %w", name, err)
		}
	}
	for name, fn := range cfg.filters {
		if pongo2.FilterExists(name) {
			continue
		}
		if err := engine.RegisterFilter(name, fn); err != nil {
			return nil, err
		}
	}
	if cfg.loader != nil {
		engine.SetLoader(cfg.loader)
	}

	return engine, nil
}

// Loader returns the attached loader, or nil when none was configured.
func (e *Engine) Loader() Loader {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.loader
}

// SetLoader attaches loader, rebuilding the template set and dropping any
// cached templates.
func (e *Engine) SetLoader(loader Loader) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.loader = loader
	e.templates = make(map[string]*pongo2.Template)
	if loader == nil {
		e.set = nil
		return
	}
	e.set = pongo2.NewSet(e.name, loader)
	e.set.Globals = e.globals
}

// Extension reports the suffix appended to bare template names.
func (e *Engine) Extension() string {
	return e.tplExt
}

// AddPath registers a search path on the attached loader.
func (e *Engine) AddPath(path string, namespace ...string) error {
	loader := e.Loader()
	if loader == nil {
		return ErrNoLoader
	}
	if err := loader.AddPath(path, namespace...); err != nil {
		return err
	}

	e.mu.Lock()
	e.templates = make(map[string]*pongo2.Template)
	e.mu.Unlock()
	return nil
}

// Render treats name as inline template content when it carries template
// tags, and as a template reference otherwise.
func (e *Engine) Render(name string, data any, out ...io.Writer) (string, error) {
	if isTemplateContent(name) {
		return e.RenderString(name, data, out...)
	}
	return e.RenderTemplate(name, data, out...)
}

// RenderTemplate resolves name through the loader and executes it.
func (e *Engine) RenderTemplate(name string, data any, out ...io.Writer) (string, error) {
	if e == nil {
		return "", errors.New("pongo: engine is nil")
	}
	ref, err := view.ParseTemplateName(name, e.tplExt)
	if err != nil {
		return "", err
	}
	templatePath := ref.String()

	tmpl, err := e.getTemplate(templatePath)
	if err != nil {
		return "", err
	}

	viewContext, err := convertToContext(data)
	if err != nil {
		return "", fmt.Errorf("pongo: convert data: %w", err)
	}

	var buf bytes.Buffer

	e.mu.RLock()
	err = tmpl.ExecuteWriter(viewContext, &buf)
	e.mu.RUnlock()

	if err != nil {
		return "", fmt.Errorf("pongo: execute template %q: %w", templatePath, nestedNotFound(e.Loader(), err))
	}

	return writeOutput(buf.String(), out)
}

// RenderString parses and executes inline template content.
func (e *Engine) RenderString(templateContent string, data any, out ...io.Writer) (string, error) {
	if e == nil {
		return "", errors.New("pongo: engine is nil")
	}

	e.mu.RLock()
	set := e.set
	e.mu.RUnlock()
	if set == nil {
		return "", ErrNoLoader
	}

	tmpl, err := set.FromString(templateContent)
	if err != nil {
		return "", fmt.Errorf("pongo: parse template string: %w", err)
	}

	viewContext, err := convertToContext(data)
	if err != nil {
		return "", fmt.Errorf("pongo: convert data: %w", err)
	}

	var buf bytes.Buffer

	e.mu.RLock()
	err = tmpl.ExecuteWriter(viewContext, &buf)
	e.mu.RUnlock()

	if err != nil {
		return "", fmt.Errorf("pongo: execute template string: %w", err)
	}

	return writeOutput(buf.String(), out)
}

// GlobalContext merges data into the globals visible to every template.
func (e *Engine) GlobalContext(data any) error {
	if e == nil {
		return errors.New("pongo: engine is nil")
	}
	if data == nil {
		return nil
	}

	globalCtx, err := convertToContext(data)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.globals.Update(globalCtx)
	return nil
}

func (e *Engine) registerTemplateFunc(name string, fn any) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" || fn == nil {
		return nil
	}

	if filter, ok := fn.(pongo2.FilterFunction); ok {
		if pongo2.FilterExists(trimmed) {
			return nil
		}
		return pongo2.RegisterFilter(trimmed, filter)
	}

	if !isCallable(fn) {
		return fmt.Errorf("pongo: template func %q is not a function", trimmed)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.globals[trimmed] = fn
	return nil
}

func (e *Engine) getTemplate(path string) (*pongo2.Template, error) {
	e.mu.RLock()
	if tmpl, ok := e.templates[path]; ok {
		e.mu.RUnlock()
		return tmpl, nil
	}
	set, loader := e.set, e.loader
	e.mu.RUnlock()

	if set == nil || loader == nil {
		return nil, ErrNoLoader
	}

	// Missing files must surface as view.ErrTemplateNotFound, not a pongo2 error.
	if _, err := loader.Resolve(path); err != nil {
		return nil, fmt.Errorf("pongo: load template %q: %w", path, err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if tmpl, ok := e.templates[path]; ok {
		return tmpl, nil
	}

	tmpl, err := set.FromFile(path)
	if err != nil {
		return nil, fmt.Errorf("pongo: load template %q: %w", path, nestedNotFound(loader, err))
	}

	if e.cache {
		e.templates[path] = tmpl
	}
	return tmpl, nil
}

// nestedNotFound reports a missing include or extends target as
// view.ErrTemplateNotFound. pongo2 drops the loader error, so the failing
// name is resolved again to recover it.
func nestedNotFound(loader Loader, err error) error {
	var perr *pongo2.Error
	if loader == nil || !errors.As(err, &perr) || perr.Filename == "" {
		return err
	}
	if _, rerr := loader.Resolve(perr.Filename); errors.Is(rerr, view.ErrTemplateNotFound) {
		return fmt.Errorf("%w (%v)", rerr, err)
	}
	return err
}

func writeOutput(rendered string, out []io.Writer) (string, error) {
	for _, w := range out {
		if w == nil {
			continue
		}
		if _, err := io.WriteString(w, rendered); err != nil {
			return "", err
		}
	}
	return rendered, nil
}

func isTemplateContent(s string) bool {
	return strings.Contains(s, "{{") || strings.Contains(s, "{%")
}
