package pongo

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"

	"github.com/goliatone/go-views/pkg/view"
)

// Loader is a pongo2 template loader that also manages namespaced search
// paths. Engine and Renderer only depend on this contract.
type Loader interface {
	pongo2.TemplateLoader
	AddPath(path string, namespace ...string) error
	Paths() []view.TemplatePath
	Resolve(name string) (string, error)
}

// FilesystemLoader looks templates up in registered directories, in the
// order they were added. Names take the form "namespace::relative/path";
// names without a namespace search the global directories.
type FilesystemLoader struct {
	mu    sync.RWMutex
	paths []view.TemplatePath
}

var _ Loader = (*FilesystemLoader)(nil)

// NewFilesystemLoader builds a loader seeded with paths.
func NewFilesystemLoader(paths ...view.TemplatePath) (*FilesystemLoader, error) {
	loader := &FilesystemLoader{}
	for _, entry := range paths {
		if err := loader.AddPath(entry.Path, entry.Namespace); err != nil {
			return nil, err
		}
	}
	return loader, nil
}

// AddPath appends dir to the search list of namespace (global when omitted).
func (l *FilesystemLoader) AddPath(dir string, namespace ...string) error {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return fmt.Errorf("%w: template path is required", view.ErrInvalidArgument)
	}
	ns := ""
	if len(namespace) > 0 {
		ns = strings.TrimSpace(namespace[0])
	}

	l.mu.Lock()
	l.paths = append(l.paths, view.TemplatePath{Path: dir, Namespace: ns})
	l.mu.Unlock()
	return nil
}

// Paths returns a copy of the registered entries in insertion order.
func (l *FilesystemLoader) Paths() []view.TemplatePath {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]view.TemplatePath, len(l.paths))
	copy(out, l.paths)
	return out
}

// Resolve maps a template reference to the first matching file on disk.
func (l *FilesystemLoader) Resolve(name string) (string, error) {
	ref, err := view.ParseTemplateName(name, "")
	if err != nil {
		return "", err
	}
	if !fs.ValidPath(ref.Name) {
		return "", fmt.Errorf("%w: template name %q must be a relative path", view.ErrInvalidArgument, name)
	}

	l.mu.RLock()
	defer l.mu.RUnlock()

	var searched []string
	for _, entry := range l.paths {
		if entry.Namespace != ref.Namespace {
			continue
		}
		searched = append(searched, entry.Path)

		info, err := fs.Stat(os.DirFS(entry.Path), ref.Name)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return "", fmt.Errorf("pongo: stat template %q: %w", name, err)
		}
		if info.IsDir() {
			continue
		}
		return filepath.Join(entry.Path, filepath.FromSlash(ref.Name)), nil
	}

	if len(searched) == 0 {
		return "", fmt.Errorf("%w: %q (no paths registered for namespace %q)", view.ErrTemplateNotFound, name, ref.Namespace)
	}
	return "", fmt.Errorf("%w: %q (searched %s)", view.ErrTemplateNotFound, name, strings.Join(searched, ", "))
}

// Abs keeps logical names intact so includes and extends inside templates
// go through the same namespaced lookup.
func (l *FilesystemLoader) Abs(_, name string) string {
	return name
}

// Get satisfies pongo2.TemplateLoader.
func (l *FilesystemLoader) Get(name string) (io.Reader, error) {
	file, err := l.Resolve(name)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("pongo: read template %q: %w", name, err)
	}
	return bytes.NewReader(data), nil
}
