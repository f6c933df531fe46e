// Package lookup provides the lookup command, which resolves names for a
// few ASNs.
package lookup

import (
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"

	"github.com/asnmap/asnmap"
	"github.com/asnmap/asnmap/cmd/application"
	"github.com/asnmap/asnmap/internal/cmd/cmdutil"
	"github.com/asnmap/asnmap/internal/output"
	"github.com/asnmap/asnmap/pkg/errors"
	"github.com/asnmap/asnmap/pkg/provenance"
	"github.com/asnmap/asnmap/pkg/types"
)

// NewCommand creates the lookup command using app context.
func NewCommand(app application.Application) *cobra.Command {
	var explain bool
	var sourceFlags *cmdutil.SourceFlags

	cmd := &cobra.Command{
		Use:     "lookup <asn>...",
		GroupID: "core",
		Short:   "Resolve organization names for ASNs",
		Aliases: []string{"get"},
		Args:    cobra.MinimumNArgs(1),
		Example: `  asnmap lookup 174                         # Cogent
  asnmap lookup AS13335 AS15169             # Prefixed form works too
  asnmap lookup 64512 --explain             # Show every source's name
  asnmap lookup 3320 --only ripe --offline  # Cached RIPE dump only`,
		RunE: func(cmd *cobra.Command, args []string) error {
			asns, err := parseASNs(args)
			if err != nil {
				return err
			}

			opts, err := sourceFlags.Options()
			if err != nil {
				return err
			}
			tracker := provenance.NewTracker(explain)
			opts = append(opts, asnmap.WithProvenance(tracker))

			r, err := app.Resolver(opts...)
			if err != nil {
				return err
			}
			result, err := r.Resolve(cmd.Context())
			if err != nil {
				return err
			}

			found, missing := result.Select(asns...)
			for _, asn := range missing {
				app.Logger().Warn().Str("asn", asn.Label()).Msg("No name found")
			}
			if len(found) == 0 {
				return errors.NewNotFoundError("asn", joinASNs(missing))
			}

			format, err := output.ParseFormat(app.OutputFormat())
			if err != nil {
				return err
			}
			formatter := output.NewFormatter(output.DetectFormat(string(format)))

			if explain {
				return formatter.Format(app.Stdout(), explainData(found, tracker))
			}
			return formatter.Format(app.Stdout(), found)
		},
	}

	sourceFlags = cmdutil.AddSourceFlags(cmd)
	cmd.Flags().BoolVar(&explain, "explain", false, "Show the name each source supplied, in application order")

	return cmd
}

// parseASNs accepts both "174" and "AS174".
func parseASNs(args []string) ([]types.ASN, error) {
	asns := make([]types.ASN, 0, len(args))
	for _, arg := range args {
		asn, err := types.ParseASNLoose(arg)
		if err != nil {
			return nil, errors.WrapValidation("asn", err)
		}
		asns = append(asns, asn)
	}
	return asns, nil
}

func joinASNs(asns []types.ASN) string {
	labels := make([]string, len(asns))
	for i, asn := range asns {
		labels[i] = asn.Label()
	}
	return strings.Join(labels, ", ")
}

// explainData lists every application for each found ASN followed by the
// cleaned result.
func explainData(found []types.Entry, tracker provenance.Tracker) output.Data {
	data := output.Data{
		Headers:         []string{"asn", "step", "source", "name"},
		ColumnAlignment: []tw.Align{tw.AlignRight, tw.AlignRight, tw.AlignLeft, tw.AlignLeft},
	}
	for _, e := range found {
		for _, p := range tracker.Explain(e.ASN) {
			data.Rows = append(data.Rows, []string{e.ASN.String(), strconv.Itoa(p.Order), p.Source.String(), p.Value})
		}
		data.Rows = append(data.Rows, []string{e.ASN.String(), "cleaned", e.Source.String(), e.Name})
	}
	return data
}
