// Package build provides the build command, which resolves every source and
// writes the ASN name table.
package build

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/asnmap/asnmap"
	"github.com/asnmap/asnmap/cmd/application"
	"github.com/asnmap/asnmap/internal/cmd/cmdutil"
	"github.com/asnmap/asnmap/internal/output"
	"github.com/asnmap/asnmap/pkg/provenance"
	"github.com/asnmap/asnmap/pkg/types"
)

// Flags holds the build command flags.
type Flags struct {
	Sources    *cmdutil.SourceFlags
	Out        string
	Provenance string
	Report     bool
}

// NewCommand creates the build command using app context.
func NewCommand(app application.Application) *cobra.Command {
	flags := &Flags{}

	cmd := &cobra.Command{
		Use:     "build",
		GroupID: "core",
		Short:   "Build the ASN to organization name table",
		Args:    cobra.NoArgs,
		Long: `Build fetches every enabled source, parses it and merges the results
lowest priority first, so each ASN keeps the name from the most trusted
source that knows it. Every name is then cleaned of legal-entity suffixes.

Downloads are cached and reused until the cache TTL expires. With
--offline only cached files are read.`,
		Example: `  asnmap build                              # Print the table
  asnmap build --out asn.csv                # Write CSV to a file
  asnmap build --only ripe,peeringdb        # Resolve two sources
  asnmap build --disable iptoasn --report   # Skip the flat dataset, summarize overrides
  asnmap build --offline -o json            # Use cached downloads, print JSON`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return Execute(cmd, app, flags)
		},
	}

	flags.Sources = cmdutil.AddSourceFlags(cmd)
	cmd.Flags().StringVar(&flags.Out, "out", "", "Write the table to this file instead of stdout")
	cmd.Flags().StringVar(&flags.Provenance, "provenance", "", "Write per-ASN source history to this YAML file")
	cmd.Flags().BoolVar(&flags.Report, "report", false, "Print a summary of source overrides to stderr")

	return cmd
}

// Execute runs a build with the given flags.
func Execute(cmd *cobra.Command, app application.Application, flags *Flags) error {
	logger := app.Logger()

	opts, err := flags.Sources.Options()
	if err != nil {
		return err
	}

	tracking := flags.Provenance != "" || flags.Report
	tracker := provenance.NewTracker(tracking)
	opts = append(opts, asnmap.WithProvenance(tracker))

	r, err := app.Resolver(opts...)
	if err != nil {
		return err
	}

	r.OnSourceStarted(func(source types.SourceID, identifiers []string) {
		logger.Debug().Str("source", source.String()).Strs("identifiers", identifiers).Msg("Loading source")
	})
	r.OnSourceLoaded(func(report asnmap.SourceReport) {
		logger.Debug().
			Str("source", report.Source.String()).
			Int("entries", report.Entries).
			Int("total", report.Total).
			Dur("duration", report.Duration.Round(time.Millisecond)).
			Msg("Loaded source")
	})

	result, err := r.Resolve(cmd.Context())
	if err != nil {
		return err
	}

	if flags.Provenance != "" {
		if err := provenance.Save(flags.Provenance, tracker.Map()); err != nil {
			return err
		}
		logger.Info().Str("path", flags.Provenance).Msg("Wrote provenance")
	}

	if flags.Report {
		fmt.Fprint(cmd.ErrOrStderr(), provenance.GenerateReport(tracker.Map()).String())
	}

	entries := result.Entries()

	if flags.Out != "" {
		format := output.FormatCSV
		if f := app.OutputFormat(); f != "" {
			if format, err = output.ParseFormat(f); err != nil {
				return err
			}
		}
		if err := output.WriteFile(flags.Out, format, entries); err != nil {
			return err
		}
		logger.Info().Str("path", flags.Out).Int("entries", len(entries)).Msg("Wrote table")
		return nil
	}

	format, err := output.ParseFormat(app.OutputFormat())
	if err != nil {
		return err
	}
	return output.NewFormatter(output.DetectFormat(string(format))).Format(app.Stdout(), entries)
}
