package views

import (
	"path/filepath"
	"testing"
)

func TestNewRendererWithPaths(t *testing.T) {
	renderer, err := NewRendererWithPaths(TemplatePath{
		Path:      filepath.Join("testdata", "templates", "mail"),
		Namespace: "mail",
	})
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	if err := renderer.AddDefaultParam(TemplateAll, "site", "Acme"); err != nil {
		t.Fatalf("add default: %v", err)
	}

	var r Renderer = renderer
	got, err := r.Render("mail::welcome.txt", map[string]any{"name": "Ada"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if want := "Hi Ada,\nWelcome to Acme.\n"; got != want {
		t.Fatalf("render mismatch\nwant: %q\n got: %q", want, got)
	}
}

func TestNewRenderer(t *testing.T) {
	renderer, err := NewRenderer()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	if len(renderer.Paths()) != 0 {
		t.Fatalf("expected no paths")
	}
}
