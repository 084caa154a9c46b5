package view

import (
	"fmt"
	"strings"
	"sync"
)

// DefaultParams holds parameters injected at render time, keyed by template
// name or TemplateAll. The zero value is ready to use.
type DefaultParams struct {
	mu    sync.RWMutex
	table map[string]map[string]any
}

// NewDefaultParams returns an empty table.
func NewDefaultParams() *DefaultParams {
	return &DefaultParams{table: make(map[string]map[string]any)}
}

// Add stores value under key for template. Repeated keys overwrite.
func (d *DefaultParams) Add(template, key string, value any) error {
	template = strings.TrimSpace(template)
	key = strings.TrimSpace(key)
	if template == "" {
		return fmt.Errorf("%w: default param template is required", ErrInvalidArgument)
	}
	if key == "" {
		return fmt.Errorf("%w: default param name is required", ErrInvalidArgument)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.table == nil {
		d.table = make(map[string]map[string]any)
	}
	params, ok := d.table[template]
	if !ok {
		params = make(map[string]any)
		d.table[template] = params
	}
	params[key] = value
	return nil
}

// Merge layers the TemplateAll defaults, the defaults for template and then
// params, later layers winning on key collisions. The inputs are not mutated.
func (d *DefaultParams) Merge(template string, params map[string]any) map[string]any {
	template = strings.TrimSpace(template)

	d.mu.RLock()
	shared := d.table[TemplateAll]
	var specific map[string]any
	if template != TemplateAll {
		specific = d.table[template]
	}

	out := make(map[string]any, len(shared)+len(specific)+len(params))
	for key, value := range shared {
		out[key] = value
	}
	for key, value := range specific {
		out[key] = value
	}
	d.mu.RUnlock()

	for key, value := range params {
		out[key] = value
	}
	return out
}
