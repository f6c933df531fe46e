// Package cache provides the cache command for the download cache.
package cache

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/asnmap/asnmap/cmd/application"
)

// NewCommand creates the cache command using app context.
func NewCommand(app application.Application) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "cache",
		GroupID: "management",
		Short:   "Manage the download cache",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(newPathCommand(app))
	cmd.AddCommand(newClearCommand(app))

	return cmd
}

func newPathCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			_, err := fmt.Fprintln(app.Stdout(), app.FetchClient().CacheDir)
			return err
		},
	}
}

func newClearCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached source file",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			client := app.FetchClient()
			if err := client.Clear(); err != nil {
				return err
			}
			app.Logger().Info().Str("path", client.CacheDir).Msg("Cleared cache")
			return nil
		},
	}
}
