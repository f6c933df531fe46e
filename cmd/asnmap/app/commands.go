package app

import (
	"github.com/spf13/cobra"

	"github.com/asnmap/asnmap/cmd/asnmap/cmd/build"
	"github.com/asnmap/asnmap/cmd/asnmap/cmd/cache"
	"github.com/asnmap/asnmap/cmd/asnmap/cmd/clean"
	"github.com/asnmap/asnmap/cmd/asnmap/cmd/lookup"
	srccmd "github.com/asnmap/asnmap/cmd/asnmap/cmd/sources"
	"github.com/asnmap/asnmap/cmd/asnmap/cmd/version"
)

// registerCommands registers all subcommands with the root command.
func (a *App) registerCommands(rootCmd *cobra.Command) {
	// Core commands
	rootCmd.AddCommand(build.NewCommand(a))
	rootCmd.AddCommand(lookup.NewCommand(a))
	rootCmd.AddCommand(clean.NewCommand(a))

	// Management commands
	rootCmd.AddCommand(srccmd.NewCommand(a))
	rootCmd.AddCommand(cache.NewCommand(a))

	// Utility commands
	rootCmd.AddCommand(version.NewCommand(a))
}
