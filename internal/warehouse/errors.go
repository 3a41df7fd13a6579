package warehouse

import "errors"

var (
	// ErrUnknownHazard is returned when a hazard name or mask bit is not recognised.
	ErrUnknownHazard = errors.New("unknown hazard category")
	// ErrNegativeVolume is returned when a box declares a negative volume.
	ErrNegativeVolume = errors.New("box volume must be a non-negative integer")
	// ErrNegativeCapacity is returned when a room declares a negative capacity.
	ErrNegativeCapacity = errors.New("room capacity must be a non-negative integer")
	// ErrEmptyName is returned when a room or box has no name.
	ErrEmptyName = errors.New("name must not be empty")
	// ErrDuplicateName is returned when two rooms or two boxes share a name.
	ErrDuplicateName = errors.New("name must be unique")
	// ErrNoRooms is returned when a layout contains no rooms.
	ErrNoRooms = errors.New("layout must contain at least one room")
)
