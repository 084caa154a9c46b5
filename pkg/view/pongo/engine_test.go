package pongo_test

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goliatone/go-views/pkg/testsupport"
	"github.com/goliatone/go-views/pkg/view"
	"github.com/goliatone/go-views/pkg/view/pongo"
)

func TestEngine_RenderTemplateWritesOutput(t *testing.T) {
	engine := newEngine(t)

	result, written := testsupport.CaptureTemplateOutput(t, func(w io.Writer) (string, error) {
		return engine.RenderTemplate("twig", map[string]any{"name": "Ada"}, w)
	})

	want := substitute(t, "twig.html", "Ada")
	if result != want {
		t.Fatalf("render template mismatch result\nwant: %q\n got: %q", want, result)
	}
	if written != want {
		t.Fatalf("render template mismatch writer\nwant: %q\n got: %q", want, written)
	}
}

func TestEngine_GlobalContext(t *testing.T) {
	engine, err := pongo.NewEngine(
		pongo.WithLoader(mustLoader(t)),
		pongo.WithTemplateFunc(map[string]any{
			"greeting": func(s string) string { return "hi " + s },
		}),
	)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	if err := engine.GlobalContext(map[string]any{
		"settings": map[string]any{"env": "staging"},
	}); err != nil {
		t.Fatalf("global context: %v", err)
	}

	got, err := engine.RenderTemplate("globals", map[string]any{"name": "Ada"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if want := "Hello Ada from staging hi x\n"; got != want {
		t.Fatalf("render mismatch\nwant: %q\n got: %q", want, got)
	}
}

func TestEngine_RegisterFilter(t *testing.T) {
	engine := newEngine(t)
	err := engine.RegisterFilter("views_shout", func(input any, _ any) (any, error) {
		if input == nil {
			return "", nil
		}
		return fmt.Sprintf("%s!", strings.ToUpper(fmt.Sprint(input))), nil
	})
	if err != nil {
		t.Fatalf("register filter: %v", err)
	}
	if err := engine.RegisterFilter("views_shout", func(any, any) (any, error) { return nil, nil }); err == nil {
		t.Fatalf("expected duplicate filter registration to fail")
	}

	got, err := engine.Render("{{ name|views_shout }}", map[string]any{"name": "Ada"})
	if err != nil {
		t.Fatalf("render string: %v", err)
	}
	if got != "ADA!" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestEngine_WithFilterAcrossEngines(t *testing.T) {
	option := pongo.WithFilter("views_exclaim", func(input any, _ any) (any, error) {
		return fmt.Sprintf("%v!", input), nil
	})

	for i := 0; i < 2; i++ {
		engine, err := pongo.NewEngine(pongo.WithLoader(mustLoader(t)), option)
		if err != nil {
			t.Fatalf("new engine %d: %v", i, err)
		}
		got, err := engine.RenderString("{{ name|views_exclaim }}", map[string]any{"name": "Ada"})
		if err != nil {
			t.Fatalf("render string %d: %v", i, err)
		}
		if got != "Ada!" {
			t.Fatalf("engine %d: unexpected output %q", i, got)
		}
	}
}

func TestEngine_SanitizeFilter(t *testing.T) {
	engine := newEngine(t)

	got, err := engine.RenderString("{{ body|sanitize }}", map[string]any{
		"body": `<p onclick="steal()">hi <script>alert(1)</script><b>there</b></p>`,
	})
	if err != nil {
		t.Fatalf("render string: %v", err)
	}
	if want := "<p>hi <b>there</b></p>"; got != want {
		t.Fatalf("sanitize mismatch\nwant: %q\n got: %q", want, got)
	}
}

func TestEngine_WithoutLoader(t *testing.T) {
	engine, err := pongo.NewEngine()
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	if _, err := engine.RenderTemplate("twig", nil); !errors.Is(err, pongo.ErrNoLoader) {
		t.Fatalf("expected ErrNoLoader, got %v", err)
	}
	if err := engine.AddPath(templatesDir); !errors.Is(err, pongo.ErrNoLoader) {
		t.Fatalf("expected ErrNoLoader on AddPath, got %v", err)
	}
}

func TestEngine_CustomExtension(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "mail.txt"), "Dear {{ name }}")

	loader, err := pongo.NewFilesystemLoader(view.TemplatePath{Path: dir})
	if err != nil {
		t.Fatalf("new loader: %v", err)
	}
	engine, err := pongo.NewEngine(pongo.WithLoader(loader), pongo.WithExtension("txt"))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	if engine.Extension() != ".txt" {
		t.Fatalf("unexpected extension %q", engine.Extension())
	}

	got, err := engine.RenderTemplate("mail", map[string]any{"name": "Ada"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got != "Dear Ada" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestEngine_CacheToggle(t *testing.T) {
	for _, tc := range []struct {
		name  string
		cache bool
		want  string
	}{
		{name: "cached", cache: true, want: "v1"},
		{name: "uncached", cache: false, want: "v2"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			dir := t.TempDir()
			file := filepath.Join(dir, "page.html")
			writeFile(t, file, "v1")

			loader, err := pongo.NewFilesystemLoader(view.TemplatePath{Path: dir})
			if err != nil {
				t.Fatalf("new loader: %v", err)
			}
			engine, err := pongo.NewEngine(pongo.WithLoader(loader), pongo.WithCache(tc.cache))
			if err != nil {
				t.Fatalf("new engine: %v", err)
			}

			if _, err := engine.RenderTemplate("page", nil); err != nil {
				t.Fatalf("first render: %v", err)
			}
			writeFile(t, file, "v2")

			got, err := engine.RenderTemplate("page", nil)
			if err != nil {
				t.Fatalf("second render: %v", err)
			}
			if got != tc.want {
				t.Fatalf("want %q, got %q", tc.want, got)
			}
		})
	}
}

func TestEngine_AddPathDropsCache(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "page.html"), "cached")

	loader, err := pongo.NewFilesystemLoader(view.TemplatePath{Path: dir})
	if err != nil {
		t.Fatalf("new loader: %v", err)
	}
	engine, err := pongo.NewEngine(pongo.WithLoader(loader))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	if _, err := engine.RenderTemplate("page", nil); err != nil {
		t.Fatalf("first render: %v", err)
	}

	writeFile(t, filepath.Join(dir, "page.html"), "reloaded")
	if err := engine.AddPath(t.TempDir()); err != nil {
		t.Fatalf("add path: %v", err)
	}

	got, err := engine.RenderTemplate("page", nil)
	if err != nil {
		t.Fatalf("second render: %v", err)
	}
	if got != "reloaded" {
		t.Fatalf("expected cache reset after AddPath, got %q", got)
	}
}

func newEngine(t *testing.T) *pongo.Engine {
	t.Helper()

	engine, err := pongo.NewEngine(pongo.WithLoader(mustLoader(t)))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return engine
}

func mustLoader(t *testing.T) *pongo.FilesystemLoader {
	t.Helper()

	loader, err := pongo.NewFilesystemLoader(view.TemplatePath{Path: templatesDir})
	if err != nil {
		t.Fatalf("new loader: %v", err)
	}
	return loader
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
