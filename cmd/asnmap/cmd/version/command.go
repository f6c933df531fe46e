// Package version provides the version command.
package version

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/asnmap/asnmap/cmd/application"
)

// NewCommand creates the version command.
func NewCommand(app application.Application) *cobra.Command {
	var detailed bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := app.Stdout()
			if _, err := fmt.Fprintf(w, "asnmap %s\n", app.Version()); err != nil {
				return err
			}
			if detailed {
				fmt.Fprintf(w, "  commit:   %s\n", app.Commit())
				fmt.Fprintf(w, "  built:    %s\n", app.Date())
				fmt.Fprintf(w, "  built by: %s\n", app.BuiltBy())
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&detailed, "detailed", "d", false, "Show build details")

	return cmd
}
