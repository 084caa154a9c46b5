// Package cli defines the viewctl command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-views/internal/config"
	"github.com/goliatone/go-views/internal/logging"
	"github.com/goliatone/go-views/pkg/view"
	"github.com/goliatone/go-views/pkg/view/pongo"
)

// Options stores global flags shared between commands.
type Options struct {
	ConfigPath string
	Paths      []string
	Extension  string
}

// Execute builds the root command, runs it with args and returns any error.
// Command output goes to out; diagnostics go through logger.
func Execute(args []string, out io.Writer, logger *slog.Logger) error {
	if logger == nil {
		logger = logging.NewLogger(os.Stderr, slog.LevelInfo)
	}
	if out == nil {
		out = os.Stdout
	}

	cmd := newRootCommand(&Options{}, logger)
	cmd.SetArgs(args)
	cmd.SetOut(out)
	return cmd.ExecuteContext(context.Background())
}

func newRootCommand(opts *Options, logger *slog.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "viewctl",
		Short:         "viewctl renders pongo2 templates from namespaced search paths",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			level := logging.ParseLevel(cmd.Flag("log-level").Value.String())
			if level != slog.LevelInfo {
				logger = logging.NewLogger(os.Stderr, level)
			}
			cmd.SetContext(logging.WithLogger(cmd.Context(), logger))
			logger.Debug("logger initialized", "level", level)
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "Path to a views.yaml configuration file")
	cmd.PersistentFlags().StringArrayVarP(&opts.Paths, "path", "p", nil, "Template directory, optionally namespaced as ns=dir (repeatable)")
	cmd.PersistentFlags().StringVar(&opts.Extension, "ext", "", "Suffix appended to template names without one (default .html)")
	cmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")

	cmd.AddCommand(
		newRenderCommand(opts),
		newPathsCommand(opts),
	)
	return cmd
}

// buildRenderer loads the optional config file and layers flag values on top.
func buildRenderer(ctx context.Context, opts *Options, defaults map[string]map[string]any) (*pongo.Renderer, error) {
	logger := logging.FromContext(ctx)

	cfg := &config.File{}
	if strings.TrimSpace(opts.ConfigPath) != "" {
		loaded, err := config.Load(opts.ConfigPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
		logger.Debug("config loaded", "path", opts.ConfigPath, "paths", len(cfg.Paths))
	}
	if opts.Extension != "" {
		cfg.Extension = opts.Extension
	}

	paths, err := parsePathFlags(opts.Paths)
	if err != nil {
		return nil, err
	}

	renderer, err := cfg.NewRenderer(paths, defaults)
	if err != nil {
		return nil, err
	}
	logger.Debug("renderer configured", "paths", len(renderer.Paths()))
	return renderer, nil
}

// parsePathFlags turns "dir" and "ns=dir" flag values into template paths.
func parsePathFlags(values []string) ([]view.TemplatePath, error) {
	out := make([]view.TemplatePath, 0, len(values))
	for _, raw := range values {
		entry := view.TemplatePath{Path: strings.TrimSpace(raw)}
		if ns, dir, ok := strings.Cut(raw, "="); ok {
			entry = view.TemplatePath{Path: strings.TrimSpace(dir), Namespace: strings.TrimSpace(ns)}
		}
		if entry.Path == "" {
			return nil, fmt.Errorf("invalid --path %q: directory is required", raw)
		}
		out = append(out, entry)
	}
	return out, nil
}

// parseParamFlags turns "key=value" flag values into a params map.
func parseParamFlags(values []string) (map[string]any, error) {
	out := make(map[string]any, len(values))
	for _, raw := range values {
		key, value, ok := strings.Cut(raw, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --param %q: expected key=value", raw)
		}
		out[key] = value
	}
	return out, nil
}

// loadDataFile reads a JSON or YAML mapping used as render params.
func loadDataFile(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read data file %s: %w", path, err)
	}
	out := map[string]any{}
	if err := yaml.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("parse data file %s: %w", path, err)
	}
	return out, nil
}
