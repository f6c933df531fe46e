// Package sources provides the sources command, which lists the configured
// source chain.
package sources

import (
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/asnmap/asnmap/cmd/application"
	"github.com/asnmap/asnmap/internal/fetch"
	"github.com/asnmap/asnmap/internal/output"
	"github.com/asnmap/asnmap/internal/sources"
)

// Row is one source in the listing.
type Row struct {
	ID          string   `json:"id" yaml:"id"`
	Kind        string   `json:"kind" yaml:"kind"`
	Priority    int      `json:"priority" yaml:"priority"`
	Cached      string   `json:"cached" yaml:"cached"`
	Identifiers []string `json:"identifiers" yaml:"identifiers"`
}

// NewCommand creates the sources command using app context.
func NewCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:     "sources",
		GroupID: "management",
		Short:   "List configured sources in application order",
		Long: `Sources lists the enabled sources after config file and environment
overrides, lowest priority first. A later source overwrites the names of
earlier ones, so the last source that knows an ASN wins.`,
		Aliases: []string{"source", "src"},
		Args:    cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			r, err := app.Resolver()
			if err != nil {
				return err
			}

			rows := Rows(r.Sources(), app.FetchClient(), time.Now())

			format, err := output.ParseFormat(app.OutputFormat())
			if err != nil {
				return err
			}
			return output.NewFormatter(output.DetectFormat(string(format))).Format(app.Stdout(), rows)
		},
	}
}

// Rows describes each source and the age of its cached files.
func Rows(list []sources.Source, client *fetch.Client, now time.Time) []Row {
	rows := make([]Row, 0, len(list))
	for _, src := range list {
		rows = append(rows, Row{
			ID:          src.ID().String(),
			Kind:        src.ID().Kind().String(),
			Priority:    src.Priority(),
			Cached:      cacheAge(client, src.Identifiers(), now),
			Identifiers: src.Identifiers(),
		})
	}
	return rows
}

// cacheAge reports the age of the oldest cached file, "no" when any file is
// missing and "local" when every identifier is a local path.
func cacheAge(client *fetch.Client, identifiers []string, now time.Time) string {
	var oldest time.Time
	remote := false
	for _, id := range identifiers {
		if !fetch.IsRemote(id) {
			continue
		}
		remote = true
		info, err := os.Stat(client.CachePath(id))
		if err != nil {
			return "no"
		}
		if oldest.IsZero() || info.ModTime().Before(oldest) {
			oldest = info.ModTime()
		}
	}
	if !remote {
		return "local"
	}
	return now.Sub(oldest).Round(time.Minute).String()
}
