package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-views/internal/logging"
	"github.com/goliatone/go-views/pkg/view"
)

func newRenderCommand(opts *Options) *cobra.Command {
	var (
		params   []string
		shared   []string
		dataFile string
		output   string
	)

	cmd := &cobra.Command{
		Use:   "render NAME",
		Short: "Render a template (name or namespace::name) to stdout or a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logging.FromContext(cmd.Context())
			name := args[0]

			sharedDefaults, err := parseParamFlags(shared)
			if err != nil {
				return err
			}
			var defaults map[string]map[string]any
			if len(sharedDefaults) > 0 {
				defaults = map[string]map[string]any{view.TemplateAll: sharedDefaults}
			}

			renderer, err := buildRenderer(cmd.Context(), opts, defaults)
			if err != nil {
				return err
			}

			values := map[string]any{}
			if dataFile != "" {
				values, err = loadDataFile(dataFile)
				if err != nil {
					return err
				}
			}
			inline, err := parseParamFlags(params)
			if err != nil {
				return err
			}
			for key, value := range inline {
				values[key] = value
			}

			rendered, err := renderer.Render(name, values)
			if err != nil {
				return fmt.Errorf("render %s: %w", name, err)
			}
			logger.Debug("template rendered", "template", name, "bytes", len(rendered))

			if output == "" {
				_, err := io.WriteString(cmd.OutOrStdout(), rendered)
				return err
			}
			if err := os.WriteFile(output, []byte(rendered), 0o644); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			logger.Info("template written", "template", name, "output", output)
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&params, "param", nil, "Render param as key=value (repeatable)")
	cmd.Flags().StringArrayVar(&shared, "default", nil, "Default param for every template as key=value (repeatable)")
	cmd.Flags().StringVar(&dataFile, "data", "", "JSON or YAML file with render params")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write output to file instead of stdout")

	return cmd
}
