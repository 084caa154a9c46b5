package view

// TemplateAll is the default-parameter key that applies to every template.
const TemplateAll = "*"

// TemplatePath is a registered lookup root. An empty Namespace places the
// directory in the global scope.
type TemplatePath struct {
	Path      string `json:"path" yaml:"path"`
	Namespace string `json:"namespace,omitempty" yaml:"namespace,omitempty"`
}

// Renderer is the seam web handlers rely on to turn a template name plus
// parameters into output.
type Renderer interface {
	// AddPath registers a template directory, optionally under a namespace.
	AddPath(path string, namespace ...string) error
	// Paths returns the registered directories in insertion order.
	Paths() []TemplatePath
	// AddDefaultParam stores a value injected when rendering template (or
	// every template when template is TemplateAll).
	AddDefaultParam(template, key string, value any) error
	// Render resolves name, merges defaults with params and returns the
	// rendered output. params must be nil, a string-keyed map or a struct.
	Render(name string, params any) (string, error)
}
