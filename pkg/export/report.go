package export

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dd0wney/tbd/pkg/logging"
	"github.com/dd0wney/tbd/pkg/tbd"
)

// ErrUnknownFormat is returned for an unsupported report format.
var ErrUnknownFormat = errors.New("unknown report format")

// Format is a report encoding.
type Format string

const (
	JSON Format = "json"
	YAML Format = "yaml"
)

// ParseFormat accepts "json", "yaml" or "yml", case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "json":
		return JSON, nil
	case "yaml", "yml":
		return YAML, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// Ext returns the file extension of f, with the dot.
func (f Format) Ext() string {
	if f == YAML {
		return ".yaml"
	}
	return ".json"
}

// LogEntry is a diagnostic as written in a report.
type LogEntry struct {
	Level   string         `json:"level" yaml:"level"`
	Message string         `json:"message" yaml:"message"`
	Fields  map[string]any `json:"fields,omitempty" yaml:"fields,omitempty"`
}

// Summary aggregates a run.
type Summary struct {
	Edges         int                `json:"edges" yaml:"edges"`
	Surfaces      int                `json:"surfaces" yaml:"surfaces"`
	Derated       int                `json:"derated" yaml:"derated"`
	HeatLoss      float64            `json:"heat_loss" yaml:"heat_loss"`
	Unapportioned float64            `json:"unapportioned" yaml:"unapportioned"`
	ByType        map[string]float64 `json:"heat_loss_by_type" yaml:"heat_loss_by_type"`
}

// Report is the serializable form of a run.
type Report struct {
	RunID    string              `json:"run_id" yaml:"run_id"`
	Status   string              `json:"status" yaml:"status"`
	Summary  Summary             `json:"summary" yaml:"summary"`
	Surfaces []tbd.SurfaceResult `json:"surfaces" yaml:"surfaces"`
	Edges    []tbd.EdgeResult    `json:"edges" yaml:"edges"`
	Log      []LogEntry          `json:"log,omitempty" yaml:"log,omitempty"`
}

// NewReport builds a report from res. Surfaces are sorted by id and log
// entries below minLevel are left out.
func NewReport(res *tbd.Result, minLevel logging.Level) *Report {
	r := &Report{
		RunID:  res.RunID,
		Status: res.Status.String(),
		Edges:  res.Edges,
		Summary: Summary{
			Edges:         len(res.Edges),
			Surfaces:      len(res.Surfaces),
			HeatLoss:      res.HeatLoss(),
			Unapportioned: res.Unapportioned,
			ByType:        make(map[string]float64),
		},
	}
	for _, id := range slices.Sorted(maps.Keys(res.Surfaces)) {
		s := res.Surfaces[id]
		if s.Applied {
			r.Summary.Derated++
		}
		r.Surfaces = append(r.Surfaces, s)
	}
	for _, e := range res.Edges {
		r.Summary.ByType[string(e.Type)] += e.HeatLoss
	}
	for _, rec := range res.Log {
		if rec.Level < minLevel {
			continue
		}
		le := LogEntry{Level: rec.Level.String(), Message: rec.Message}
		if len(rec.Fields) > 0 {
			le.Fields = make(map[string]any, len(rec.Fields))
			for _, f := range rec.Fields {
				if err, ok := f.Value.(error); ok {
					le.Fields[f.Key] = err.Error()
					continue
				}
				le.Fields[f.Key] = f.Value
			}
		}
		r.Log = append(r.Log, le)
	}
	return r
}

// Encode writes v to w in format f.
func Encode(w io.Writer, v any, f Format) error {
	switch f {
	case JSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
	case YAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, f)
	}
	return nil
}
