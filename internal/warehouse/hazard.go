package warehouse

import (
	"encoding/json"
	"fmt"
	"math/bits"
	"strings"

	"gopkg.in/yaml.v3"
)

// HazardFlags is a bitmask of hazard categories. The zero value marks ordinary goods.
type HazardFlags uint32

const (
	Chemical HazardFlags = 1 << iota
	Nuclear
	Biological
	Flammable

	// None marks a box with no hazards or a room certified for none.
	None HazardFlags = 0
)

var hazardNames = []struct {
	flag HazardFlags
	name string
}{
	{Chemical, "chemical"},
	{Nuclear, "nuclear"},
	{Biological, "biological"},
	{Flammable, "flammable"},
}

const knownHazards = Chemical | Nuclear | Biological | Flammable

// Contains reports whether every category in other is also set in h.
func (h HazardFlags) Contains(other HazardFlags) bool {
	return other&^h == 0
}

// Names returns the lowercase category names set in h, in bit order.
func (h HazardFlags) Names() []string {
	names := make([]string, 0, bits.OnesCount32(uint32(h)))
	for _, entry := range hazardNames {
		if h&entry.flag != 0 {
			names = append(names, entry.name)
		}
	}
	return names
}

func (h HazardFlags) String() string {
	if h == None {
		return "none"
	}
	return strings.Join(h.Names(), "|")
}

// ParseHazards converts category names into a mask. "none" and empty strings are ignored.
func ParseHazards(names ...string) (HazardFlags, error) {
	var flags HazardFlags
	for _, raw := range names {
		name := strings.ToLower(strings.TrimSpace(raw))
		if name == "" || name == "none" {
			continue
		}
		flag, ok := lookupHazard(name)
		if !ok {
			return None, fmt.Errorf("%w: %q", ErrUnknownHazard, raw)
		}
		flags |= flag
	}
	return flags, nil
}

func lookupHazard(name string) (HazardFlags, bool) {
	for _, entry := range hazardNames {
		if entry.name == name {
			return entry.flag, true
		}
	}
	return None, false
}

func fromMask(mask uint64) (HazardFlags, error) {
	if mask&^uint64(knownHazards) != 0 {
		return None, fmt.Errorf("%w: mask %#x", ErrUnknownHazard, mask)
	}
	return HazardFlags(mask), nil
}

// MarshalJSON encodes the mask as a list of names.
func (h HazardFlags) MarshalJSON() ([]byte, error) {
	return json.Marshal(h.Names())
}

// UnmarshalJSON accepts either a list of names or an integer mask.
func (h *HazardFlags) UnmarshalJSON(data []byte) error {
	var names []string
	if err := json.Unmarshal(data, &names); err == nil {
		parsed, err := ParseHazards(names...)
		if err != nil {
			return err
		}
		*h = parsed
		return nil
	}

	var mask uint64
	if err := json.Unmarshal(data, &mask); err != nil {
		return fmt.Errorf("hazards must be a list of names or an integer mask: %w", err)
	}
	parsed, err := fromMask(mask)
	if err != nil {
		return err
	}
	*h = parsed
	return nil
}

// MarshalYAML encodes the mask as a list of names.
func (h HazardFlags) MarshalYAML() (any, error) {
	return h.Names(), nil
}

// UnmarshalYAML accepts a sequence of names, a single name, or an integer mask.
func (h *HazardFlags) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.SequenceNode:
		var names []string
		if err := node.Decode(&names); err != nil {
			return err
		}
		parsed, err := ParseHazards(names...)
		if err != nil {
			return err
		}
		*h = parsed
		return nil
	case yaml.ScalarNode:
		var mask uint64
		if err := node.Decode(&mask); err == nil {
			parsed, err := fromMask(mask)
			if err != nil {
				return err
			}
			*h = parsed
			return nil
		}
		parsed, err := ParseHazards(strings.Split(node.Value, "|")...)
		if err != nil {
			return err
		}
		*h = parsed
		return nil
	default:
		return fmt.Errorf("line %d: hazards must be a list of names or an integer mask", node.Line)
	}
}
