package warehouse

import (
	"fmt"

	"go.uber.org/multierr"
)

// ValidateRoomSpecs checks a layout before it is stored or allocated against.
// All problems are reported together.
func ValidateRoomSpecs(specs []RoomSpec) error {
	if len(specs) == 0 {
		return ErrNoRooms
	}

	var err error
	seen := make(map[string]struct{}, len(specs))
	for i, spec := range specs {
		err = multierr.Append(err, checkName("room", i, spec.Name, seen))
		if spec.Capacity < 0 {
			err = multierr.Append(err, fmt.Errorf("room %d (%s): %w", i, spec.Name, ErrNegativeCapacity))
		}
		if _, ferr := fromMask(uint64(spec.Hazards)); ferr != nil {
			err = multierr.Append(err, fmt.Errorf("room %d (%s): %w", i, spec.Name, ferr))
		}
	}
	return err
}

// ValidateBoxSpecs checks a batch of boxes. An empty batch is valid.
func ValidateBoxSpecs(specs []BoxSpec) error {
	var err error
	seen := make(map[string]struct{}, len(specs))
	for i, spec := range specs {
		err = multierr.Append(err, checkName("box", i, spec.Name, seen))
		if spec.Volume < 0 {
			err = multierr.Append(err, fmt.Errorf("box %d (%s): %w", i, spec.Name, ErrNegativeVolume))
		}
		if _, ferr := fromMask(uint64(spec.Hazards)); ferr != nil {
			err = multierr.Append(err, fmt.Errorf("box %d (%s): %w", i, spec.Name, ferr))
		}
	}
	return err
}

// Validate applies the same checks to already-built rooms and boxes. Callers that
// construct inputs programmatically use it as the precondition check ahead of Allocate.
func Validate(rooms []*Room, boxes []*Box) error {
	roomSpecs := make([]RoomSpec, len(rooms))
	for i, room := range rooms {
		roomSpecs[i] = RoomSpec{Name: room.name, Capacity: room.capacity, Stairs: room.stairs, Hazards: room.hazards}
	}
	boxSpecs := make([]BoxSpec, len(boxes))
	for i, box := range boxes {
		boxSpecs[i] = BoxSpec{Name: box.name, Volume: box.volume, Hazards: box.hazards}
	}
	return multierr.Combine(ValidateRoomSpecs(roomSpecs), ValidateBoxSpecs(boxSpecs))
}

func checkName(kind string, index int, name string, seen map[string]struct{}) error {
	if name == "" {
		return fmt.Errorf("%s %d: %w", kind, index, ErrEmptyName)
	}
	if _, dup := seen[name]; dup {
		return fmt.Errorf("%s %d (%s): %w", kind, index, name, ErrDuplicateName)
	}
	seen[name] = struct{}{}
	return nil
}
