// Package report turns an allocation run into a serialisable summary and
// renders it as JSON, YAML or an XLSX workbook.
package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/eugenenazirov/warehouse-allocator/internal/warehouse"
)

// ErrUnsupportedFormat is returned for an unknown output format.
var ErrUnsupportedFormat = errors.New("unsupported report format")

// Format is an output encoding for a Report.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatXLSX Format = "xlsx"
)

// ParseFormat validates a user supplied format name.
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(name))); f {
	case FormatJSON, FormatYAML, FormatXLSX:
		return f, nil
	case "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, name)
	}
}

// Report summarises the outcome of one allocation run.
type Report struct {
	BatchID       string        `json:"batchId" yaml:"batch_id"`
	Rooms         []RoomReport  `json:"rooms" yaml:"rooms"`
	Rejected      []RejectedBox `json:"rejected" yaml:"rejected"`
	AcceptedCount int           `json:"acceptedCount" yaml:"accepted_count"`
	RejectedCount int           `json:"rejectedCount" yaml:"rejected_count"`
}

// RoomReport lists the contents of one room after allocation.
type RoomReport struct {
	Name       string                `json:"name" yaml:"name"`
	Capacity   int                   `json:"capacity" yaml:"capacity"`
	Stairs     bool                  `json:"stairs" yaml:"stairs"`
	Hazards    warehouse.HazardFlags `json:"hazards" yaml:"hazards"`
	UsedVolume int                   `json:"usedVolume" yaml:"used_volume"`
	Remaining  int                   `json:"remainingVolume" yaml:"remaining_volume"`
	Boxes      []string              `json:"boxes" yaml:"boxes"`
}

// RejectedBox describes a box that could not be placed and why.
type RejectedBox struct {
	Name    string                `json:"name" yaml:"name"`
	Volume  int                   `json:"volume" yaml:"volume"`
	Hazards warehouse.HazardFlags `json:"hazards" yaml:"hazards"`
	Reason  warehouse.Reason      `json:"reason" yaml:"reason"`
}

// New builds a report from the rooms an allocation ran against and its result.
func New(batchID string, rooms []*warehouse.Room, result warehouse.Result) Report {
	rep := Report{
		BatchID:       batchID,
		Rooms:         make([]RoomReport, len(rooms)),
		Rejected:      make([]RejectedBox, len(result.Rejections)),
		AcceptedCount: len(result.Placements),
		RejectedCount: len(result.Rejections),
	}

	for i, room := range rooms {
		contents := room.Boxes()
		boxNames := make([]string, len(contents))
		for j, box := range contents {
			boxNames[j] = box.Name()
		}
		rep.Rooms[i] = RoomReport{
			Name:       room.Name(),
			Capacity:   room.Capacity(),
			Stairs:     room.HasStairs(),
			Hazards:    room.Hazards(),
			UsedVolume: room.UsedVolume(),
			Remaining:  room.RemainingVolume(),
			Boxes:      boxNames,
		}
	}

	for i, rejection := range result.Rejections {
		rep.Rejected[i] = RejectedBox{
			Name:    rejection.Box.Name(),
			Volume:  rejection.Box.Volume(),
			Hazards: rejection.Box.Hazards(),
			Reason:  rejection.Reason,
		}
	}

	return rep
}

// Write renders the report to w.
func Write(w io.Writer, rep Report, format Format) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(rep); err != nil {
			return fmt.Errorf("encode JSON: %w", err)
		}
		return nil
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(rep); err != nil {
			return fmt.Errorf("encode YAML: %w", err)
		}
		return enc.Close()
	case FormatXLSX:
		return writeXLSX(w, rep)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}
