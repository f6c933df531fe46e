// Package provenance records which sources supplied a name for each ASN,
// in the order they were applied.
package provenance

import (
	"fmt"
	"maps"
	"os"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-yaml"

	"github.com/asnmap/asnmap/pkg/constants"
	"github.com/asnmap/asnmap/pkg/errors"
	"github.com/asnmap/asnmap/pkg/types"
)

// Provenance is one name a source supplied for an ASN.
type Provenance struct {
	Source    types.SourceID `yaml:"source" json:"source"`
	Value     string         `yaml:"value" json:"value"` // raw name before cleaning
	Order     int            `yaml:"order" json:"order"` // application step, starting at 1
	Timestamp time.Time      `yaml:"timestamp" json:"timestamp"`
}

// Map holds the application history of every tracked ASN.
// The last element of each history is the winner.
type Map map[types.ASN][]Provenance

// Tracker records provenance while sources are merged.
type Tracker interface {
	// Track appends one application to the history of asn
	Track(asn types.ASN, history Provenance)

	// Explain returns the history of asn, oldest first
	Explain(asn types.ASN) []Provenance

	// Map returns the complete provenance map
	Map() Map

	// Enabled reports whether Track records anything
	Enabled() bool

	// Clear removes all provenance data
	Clear()
}

// tracker is the default implementation.
type tracker struct {
	mu         sync.RWMutex
	provenance Map
	enabled    bool
}

// NewTracker creates a new provenance tracker. A disabled tracker is a no-op.
func NewTracker(enabled bool) Tracker {
	return &tracker{
		provenance: make(Map),
		enabled:    enabled,
	}
}

func (p *tracker) Enabled() bool {
	return p.enabled
}

func (p *tracker) Track(asn types.ASN, history Provenance) {
	if !p.enabled {
		return
	}
	if history.Timestamp.IsZero() {
		history.Timestamp = time.Now()
	}

	p.mu.Lock()
	p.provenance[asn] = append(p.provenance[asn], history)
	p.mu.Unlock()
}

func (p *tracker) Explain(asn types.ASN) []Provenance {
	if !p.enabled {
		return nil
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	return slices.Clone(p.provenance[asn])
}

func (p *tracker) Map() Map {
	if !p.enabled {
		return nil
	}

	p.mu.RLock()
	defer p.mu.RUnlock()

	// copy so callers cannot mutate the tracker
	result := make(Map, len(p.provenance))
	for k, v := range p.provenance {
		result[k] = slices.Clone(v)
	}
	return result
}

func (p *tracker) Clear() {
	p.mu.Lock()
	p.provenance = make(Map)
	p.mu.Unlock()
}

// Report summarizes how often sources overrode each other.
type Report struct {
	ASNs      int                    // tracked ASNs
	Contested int                    // ASNs supplied by more than one source
	Overrides map[types.SourceID]int // times each source replaced another source's name
	Losses    map[types.SourceID]int // times each source's name was replaced
	Examples  []Contest              // a few contested ASNs, ascending
}

// Contest is an ASN whose name was supplied by several sources.
type Contest struct {
	ASN     types.ASN
	History []Provenance
}

// maxExamples bounds Report.Examples.
const maxExamples = 10

// GenerateReport creates a report from a provenance map.
func GenerateReport(provenance Map) *Report {
	report := &Report{
		ASNs:      len(provenance),
		Overrides: make(map[types.SourceID]int),
		Losses:    make(map[types.SourceID]int),
	}

	for _, asn := range slices.Sorted(maps.Keys(provenance)) {
		history := provenance[asn]
		if len(history) < 2 {
			continue
		}
		report.Contested++
		for i := 1; i < len(history); i++ {
			if history[i].Source == history[i-1].Source {
				continue
			}
			report.Overrides[history[i].Source]++
			report.Losses[history[i-1].Source]++
		}
		if len(report.Examples) < maxExamples {
			report.Examples = append(report.Examples, Contest{ASN: asn, History: history})
		}
	}

	return report
}

// String generates a human-readable representation of the report.
func (r *Report) String() string {
	var sb strings.Builder

	sb.WriteString("Provenance Report\n")
	sb.WriteString("=================\n\n")
	fmt.Fprintf(&sb, "ASNs tracked: %d\n", r.ASNs)
	fmt.Fprintf(&sb, "Contested:    %d\n\n", r.Contested)

	sources := maps.Clone(r.Overrides)
	for id := range r.Losses {
		sources[id] += 0
	}
	for _, id := range slices.Sorted(maps.Keys(sources)) {
		fmt.Fprintf(&sb, "  %-10s overrode %d, overridden %d\n", id, r.Overrides[id], r.Losses[id])
	}

	if len(r.Examples) > 0 {
		sb.WriteString("\nExamples:\n")
		for _, c := range r.Examples {
			fmt.Fprintf(&sb, "  %s\n", c.ASN.Label())
			for _, p := range c.History {
				fmt.Fprintf(&sb, "    - %q from %s\n", p.Value, p.Source)
			}
		}
	}

	return sb.String()
}

// File is the on-disk form of a provenance map.
type File struct {
	Provenance Map `yaml:"provenance"`
}

// Save writes the provenance map as YAML.
func Save(path string, provenance Map) error {
	data, err := yaml.Marshal(File{Provenance: provenance})
	if err != nil {
		return errors.WrapParse("yaml", path, err)
	}
	if err := os.WriteFile(path, data, constants.FilePermissions); err != nil {
		return errors.WrapIO("write", path, err)
	}
	return nil
}

// Load reads provenance data from a YAML file.
// Returns nil, nil if the file doesn't exist.
func Load(path string) (*File, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, nil
	}

	data, err := os.ReadFile(path) //nolint:gosec // path is chosen by the operator
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}

	var pf File
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return nil, errors.WrapParse("yaml", path, err)
	}

	return &pf, nil
}
