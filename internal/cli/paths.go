package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newPathsCommand(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "paths",
		Short: "List template search paths in lookup order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			renderer, err := buildRenderer(cmd.Context(), opts, nil)
			if err != nil {
				return err
			}

			for _, entry := range renderer.Paths() {
				ns := entry.Namespace
				if ns == "" {
					ns = "-"
				}
				if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", ns, entry.Path); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
