// Package clean provides the clean command, which runs the name cleaner on
// a single name.
package clean

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/asnmap/asnmap/cmd/application"
	"github.com/asnmap/asnmap/pkg/cleaner"
	"github.com/asnmap/asnmap/pkg/errors"
	"github.com/asnmap/asnmap/pkg/types"
)

// NewCommand creates the clean command using app context.
func NewCommand(app application.Application) *cobra.Command {
	var asnFlag string
	var sourceFlag string

	cmd := &cobra.Command{
		Use:     "clean <name>",
		GroupID: "core",
		Short:   "Clean an organization name",
		Long: `Clean strips trailing punctuation, legal-entity suffixes such as
"Inc." or "GmbH" and references to the ASN itself ("AS64512") from a
name, the same way build does for every merged entry.`,
		Example: `  asnmap clean "Example Networks, Inc." --asn 64512
  asnmap clean "FOO-AS64512" --asn 64512`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			asn, err := types.ParseASNLoose(asnFlag)
			if err != nil {
				return errors.WrapValidation("asn", err)
			}

			source := types.SourceID("")
			if sourceFlag != "" {
				id, ok := types.ParseSourceID(sourceFlag)
				if !ok {
					return errors.NewValidationError("source", sourceFlag, "unknown source "+sourceFlag)
				}
				source = id
			}

			name := strings.Join(args, " ")
			cleaned := cleaner.Clean(name, asn, source)
			app.Logger().Debug().Str("name", name).Str("cleaned", cleaned).Str("asn", asn.Label()).Msg("Cleaned name")

			_, err = fmt.Fprintln(app.Stdout(), cleaned)
			return err
		},
	}

	cmd.Flags().StringVar(&asnFlag, "asn", "", "ASN the name belongs to (required)")
	cmd.Flags().StringVar(&sourceFlag, "source", "", "Source the name came from")
	_ = cmd.MarkFlagRequired("asn")

	return cmd
}
