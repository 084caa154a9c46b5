package view_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-views/pkg/view"
)

func TestNormalizeParams_RejectsScalars(t *testing.T) {
	cases := map[string]any{
		"true":       true,
		"false":      false,
		"zero":       0,
		"int":        1,
		"zero-float": 0.0,
		"float":      1.1,
		"string":     "value",
		"slice":      []string{"a"},
		"int-map":    map[int]string{1: "a"},
	}

	for name, params := range cases {
		t.Run(name, func(t *testing.T) {
			out, err := view.NormalizeParams(params)
			if !errors.Is(err, view.ErrInvalidArgument) {
				t.Fatalf("expected ErrInvalidArgument, got %v", err)
			}
			if out != nil {
				t.Fatalf("expected nil params on error, got %v", out)
			}
		})
	}
}

func TestNormalizeParams_AcceptsMappings(t *testing.T) {
	type page struct {
		Name  string  `json:"name"`
		Count int     `json:"count"`
		Ratio float64 `json:"ratio"`
	}
	var nilMap map[string]any
	var nilPage *page

	cases := []struct {
		name   string
		params any
		want   map[string]any
	}{
		{name: "nil", params: nil, want: map[string]any{}},
		{name: "typed nil map", params: nilMap, want: map[string]any{}},
		{name: "nil struct pointer", params: nilPage, want: map[string]any{}},
		{name: "map", params: map[string]any{"name": "Ada"}, want: map[string]any{"name": "Ada"}},
		{name: "string map", params: map[string]string{"name": "Ada"}, want: map[string]any{"name": "Ada"}},
		{name: "struct", params: page{Name: "Ada"}, want: map[string]any{"name": "Ada", "count": int64(0), "ratio": int64(0)}},
		{name: "struct pointer", params: &page{Name: "Grace", Count: 2, Ratio: 0.5}, want: map[string]any{"name": "Grace", "count": int64(2), "ratio": 0.5}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := view.NormalizeParams(tc.params)
			if err != nil {
				t.Fatalf("normalize: %v", err)
			}
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Fatalf("params mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestNormalizeParams_CopiesInput(t *testing.T) {
	in := map[string]any{"name": "Ada"}
	out, err := view.NormalizeParams(in)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	out["name"] = "changed"
	if in["name"] != "Ada" {
		t.Fatalf("input map mutated: %v", in)
	}
}
