package view

import (
	"fmt"
	"regexp"
	"strings"
)

// NamespaceSeparator splits "namespace::template" references.
const NamespaceSeparator = "::"

// DefaultExtension is appended to template names that carry no suffix.
const DefaultExtension = ".html"

var suffixPattern = regexp.MustCompile(`\.[A-Za-z]+$`)

// TemplateName is a parsed template reference.
type TemplateName struct {
	Namespace string
	Name      string
}

// String renders the reference back into "namespace::name" form.
func (n TemplateName) String() string {
	if n.Namespace == "" {
		return n.Name
	}
	return n.Namespace + NamespaceSeparator + n.Name
}

// ParseTemplateName splits raw into namespace and file name, appending ext
// when the name has no suffix of its own. An empty ext disables the suffix.
func ParseTemplateName(raw, ext string) (TemplateName, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return TemplateName{}, fmt.Errorf("%w: template name is required", ErrInvalidArgument)
	}

	var out TemplateName
	if ns, rest, ok := strings.Cut(trimmed, NamespaceSeparator); ok {
		out.Namespace = strings.TrimSpace(ns)
		out.Name = strings.TrimSpace(rest)
		if out.Namespace == "" || out.Name == "" {
			return TemplateName{}, fmt.Errorf("%w: malformed template reference %q", ErrInvalidArgument, raw)
		}
	} else {
		out.Name = trimmed
	}

	out.Name = WithExtension(out.Name, ext)
	return out, nil
}

// WithExtension appends ext to name unless name already ends in a suffix.
func WithExtension(name, ext string) string {
	ext = NormalizeExtension(ext)
	if ext == "" || suffixPattern.MatchString(name) {
		return name
	}
	return name + ext
}

// NormalizeExtension trims ext and ensures it starts with a dot.
func NormalizeExtension(ext string) string {
	trimmed := strings.TrimSpace(ext)
	if trimmed == "" {
		return ""
	}
	if !strings.HasPrefix(trimmed, ".") {
		trimmed = "." + trimmed
	}
	return trimmed
}
