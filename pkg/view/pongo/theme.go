package pongo

import (
	"sort"
	"strings"

	theme "github.com/goliatone/go-theme"
)

func themeContext(cfg *theme.RendererConfig) map[string]any {
	assetURL := func(key string) string {
		if cfg.AssetURL == nil {
			return ""
		}
		return cfg.AssetURL(strings.TrimSpace(key))
	}

	return map[string]any{
		"name":           cfg.Theme,
		"variant":        cfg.Variant,
		"tokens":         copyStringMap(cfg.Tokens),
		"css_vars":       copyStringMap(cfg.CSSVars),
		"css_vars_style": cssVarsStyle(cfg.CSSVars),
		"partials":       copyStringMap(cfg.Partials),
		"asset_url":      assetURL,
	}
}

func copyStringMap(in map[string]string) map[string]any {
	out := make(map[string]any, len(in))
	for key, value := range in {
		out[key] = value
	}
	return out
}

func cssVarsStyle(vars map[string]string) string {
	if len(vars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(vars))
	for key := range vars {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(":root {\n")
	for _, key := range keys {
		b.WriteString(key)
		b.WriteString(": ")
		b.WriteString(vars[key])
		b.WriteString(";\n")
	}
	b.WriteString("}")
	return b.String()
}
