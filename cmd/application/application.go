// Package application provides the application interface for asnmap commands.
//
// The Application interface defines the contract between the application layer
// and command implementations, so commands can be tested against Mock instead
// of a fully configured App.
//
// Usage in Commands:
//
//	func NewCommand(app application.Application) *cobra.Command {
//	    return &cobra.Command{
//	        RunE: func(cmd *cobra.Command, args []string) error {
//	            r, err := app.Resolver()
//	            if err != nil {
//	                return err
//	            }
//	            result, err := r.Resolve(cmd.Context())
//	            // ... write result
//	        },
//	    }
//	}
package application

import (
	"io"

	"github.com/rs/zerolog"

	"github.com/asnmap/asnmap"
	"github.com/asnmap/asnmap/internal/fetch"
)

// Application provides what commands need from the application.
// The App struct from cmd/asnmap/app implements this interface.
type Application interface {
	// Resolver builds a resolver from the loaded configuration. Extra
	// options are applied after the configured ones and take precedence.
	Resolver(opts ...asnmap.Option) (*asnmap.Resolver, error)

	// FetchClient returns a fetch client using the configured cache settings.
	FetchClient() *fetch.Client

	// Logger returns the configured logger instance.
	Logger() *zerolog.Logger

	// Stdout returns where command output is written.
	Stdout() io.Writer

	// OutputFormat returns the configured output format (csv, table, json, yaml, markdown).
	OutputFormat() string

	// Version returns the application version string.
	Version() string

	// Commit returns the git commit hash.
	Commit() string

	// Date returns the build date.
	Date() string

	// BuiltBy returns the build system identifier.
	BuiltBy() string
}
