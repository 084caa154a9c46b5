// Package views renders application templates through pongo2 with
// namespaced search paths and layered default parameters.
package views

import (
	"github.com/goliatone/go-views/pkg/view"
	"github.com/goliatone/go-views/pkg/view/pongo"
)

// TemplateAll aliases view.TemplateAll, the default-param key for every template.
const TemplateAll = view.TemplateAll

// Renderer aliases the framework-level rendering contract.
type Renderer = view.Renderer

// TemplatePath aliases view.TemplatePath.
type TemplatePath = view.TemplatePath

// NewRenderer returns a pongo2-backed renderer, the same as pongo.New.
func NewRenderer(options ...pongo.Option) (*pongo.Renderer, error) {
	return pongo.New(options...)
}

// NewRendererWithPaths builds a renderer and registers paths in order.
func NewRendererWithPaths(paths ...TemplatePath) (*pongo.Renderer, error) {
	return pongo.New(pongo.WithPaths(paths...))
}
