// Package cmdutil provides flags shared by the asnmap commands that run the
// resolver.
package cmdutil

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/asnmap/asnmap"
	"github.com/asnmap/asnmap/internal/fetch"
	"github.com/asnmap/asnmap/pkg/errors"
	"github.com/asnmap/asnmap/pkg/types"
)

// SourceFlags selects sources and fetch behaviour for a resolve run.
type SourceFlags struct {
	Only     []string
	Disable  []string
	CacheDir string
	Offline  bool
}

// AddSourceFlags adds source selection flags to a command.
func AddSourceFlags(cmd *cobra.Command) *SourceFlags {
	flags := &SourceFlags{}

	cmd.Flags().StringSliceVar(&flags.Only, "only", nil,
		"Resolve only these sources (e.g., 'ripe,peeringdb')")
	cmd.Flags().StringSliceVar(&flags.Disable, "disable", nil,
		"Skip these sources")
	cmd.Flags().StringVar(&flags.CacheDir, "cache-dir", "",
		"Directory for downloaded source files")
	cmd.Flags().BoolVar(&flags.Offline, "offline", false,
		"Use cached source files only")

	return flags
}

// Options converts the flags into resolver options.
func (f *SourceFlags) Options() ([]asnmap.Option, error) {
	var opts []asnmap.Option

	only, err := ParseSourceIDs("only", f.Only)
	if err != nil {
		return nil, err
	}
	if len(only) > 0 {
		opts = append(opts, asnmap.WithOnly(only...))
	}

	disabled, err := ParseSourceIDs("disable", f.Disable)
	if err != nil {
		return nil, err
	}
	if len(disabled) > 0 {
		opts = append(opts, asnmap.WithDisabledSource(disabled...))
	}

	var fetchOpts []fetch.Option
	if f.CacheDir != "" {
		fetchOpts = append(fetchOpts, fetch.WithCacheDir(f.CacheDir))
	}
	if f.Offline {
		fetchOpts = append(fetchOpts, fetch.WithOffline(true))
	}
	if len(fetchOpts) > 0 {
		opts = append(opts, asnmap.WithFetchOptions(fetchOpts...))
	}

	return opts, nil
}

// ParseSourceIDs converts flag values to source IDs.
func ParseSourceIDs(field string, values []string) ([]types.SourceID, error) {
	ids := make([]types.SourceID, 0, len(values))
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			continue
		}
		id, ok := types.ParseSourceID(v)
		if !ok {
			return nil, errors.NewValidationError(field, v, "unknown source "+v)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
