// Package layout reads warehouse layouts and box batches from disk. YAML files
// (.yaml, .yml) are decoded with yaml.v3; everything else is treated as JSON
// extended with comments and trailing commas (JSONC).
package layout

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/eugenenazirov/warehouse-allocator/internal/warehouse"
)

// ErrUnsupportedFormat is returned for an unknown format name.
var ErrUnsupportedFormat = errors.New("unsupported layout format")

// Format identifies the encoding of a layout or batch document.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// Batch is a set of boxes to allocate, optionally with its own rooms.
type Batch struct {
	Rooms []warehouse.RoomSpec `json:"rooms,omitempty" yaml:"rooms,omitempty"`
	Boxes []warehouse.BoxSpec  `json:"boxes" yaml:"boxes"`
}

// Document is the on-disk shape of a layout file.
type Document struct {
	Rooms []warehouse.RoomSpec `json:"rooms" yaml:"rooms"`
}

// FormatFromPath picks the decoder from the file extension.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// ParseFormat validates a user supplied format name.
func ParseFormat(name string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(name))) {
	case FormatYAML, "yml":
		return FormatYAML, nil
	case FormatJSON, "jsonc":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, name)
	}
}

// Decode unmarshals data in the given format into out. JSON input may carry
// comments and trailing commas. Unknown fields are rejected.
func Decode(data []byte, format Format, out any) error {
	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(out); err != nil {
			return fmt.Errorf("parse YAML: %w", err)
		}
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(jsonc.ToJSON(data)))
		dec.DisallowUnknownFields()
		if err := dec.Decode(out); err != nil {
			return fmt.Errorf("parse JSON: %w", err)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	return nil
}

// ParseRooms decodes a layout document and validates it.
func ParseRooms(data []byte, format Format) ([]warehouse.RoomSpec, error) {
	var doc Document
	if err := Decode(data, format, &doc); err != nil {
		return nil, err
	}
	if err := warehouse.ValidateRoomSpecs(doc.Rooms); err != nil {
		return nil, fmt.Errorf("invalid layout: %w", err)
	}
	return doc.Rooms, nil
}

// ReadRooms reads and validates a layout file.
func ReadRooms(path string) ([]warehouse.RoomSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	rooms, err := ParseRooms(data, FormatFromPath(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rooms, nil
}

// ParseBatch decodes a batch document. Boxes are validated; rooms are validated
// only when present, since a batch may rely on a separate layout.
func ParseBatch(data []byte, format Format) (*Batch, error) {
	var batch Batch
	if err := Decode(data, format, &batch); err != nil {
		return nil, err
	}
	if err := warehouse.ValidateBoxSpecs(batch.Boxes); err != nil {
		return nil, fmt.Errorf("invalid boxes: %w", err)
	}
	if len(batch.Rooms) > 0 {
		if err := warehouse.ValidateRoomSpecs(batch.Rooms); err != nil {
			return nil, fmt.Errorf("invalid rooms: %w", err)
		}
	}
	return &batch, nil
}

// ReadBatch reads and validates a batch file.
func ReadBatch(path string) (*Batch, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	batch, err := ParseBatch(data, FormatFromPath(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return batch, nil
}
