package warehouse

// Box is an immutable item waiting to be stored.
type Box struct {
	name    string
	volume  int
	hazards HazardFlags
}

// NewBox creates a box. Volume is expected to be non-negative; see Validate.
func NewBox(name string, volume int, hazards HazardFlags) *Box {
	return &Box{name: name, volume: volume, hazards: hazards}
}

func (b *Box) Name() string         { return b.name }
func (b *Box) Volume() int          { return b.volume }
func (b *Box) Hazards() HazardFlags { return b.hazards }
func (b *Box) String() string       { return b.name }

// Room is a capacity-bounded container. Its contents only grow, in acceptance order.
type Room struct {
	name     string
	capacity int
	stairs   bool
	hazards  HazardFlags
	boxes    []*Box
	used     int
}

// NewRoom creates an empty room.
func NewRoom(name string, capacity int, stairs bool, hazards HazardFlags) *Room {
	return &Room{
		name:     name,
		capacity: capacity,
		stairs:   stairs,
		hazards:  hazards,
	}
}

func (r *Room) Name() string         { return r.name }
func (r *Room) Capacity() int        { return r.capacity }
func (r *Room) HasStairs() bool      { return r.stairs }
func (r *Room) Hazards() HazardFlags { return r.hazards }

// UsedVolume returns the total volume of the boxes stored so far.
func (r *Room) UsedVolume() int { return r.used }

// RemainingVolume returns the unused capacity.
func (r *Room) RemainingVolume() int { return r.capacity - r.used }

// Boxes returns a copy of the room contents in acceptance order.
func (r *Room) Boxes() []*Box {
	out := make([]*Box, len(r.boxes))
	copy(out, r.boxes)
	return out
}

// AddBox appends a box without any legality check; the Allocator enforces the rules.
func (r *Room) AddBox(box *Box) {
	r.boxes = append(r.boxes, box)
	r.used += box.volume
}

// RoomSpec is the serialisable definition of a room in a warehouse layout.
type RoomSpec struct {
	Name     string      `json:"name" yaml:"name"`
	Capacity int         `json:"capacity" yaml:"capacity"`
	Stairs   bool        `json:"stairs" yaml:"stairs"`
	Hazards  HazardFlags `json:"hazards" yaml:"hazards"`
}

// Build returns a fresh, empty room for this definition.
func (s RoomSpec) Build() *Room {
	return NewRoom(s.Name, s.Capacity, s.Stairs, s.Hazards)
}

// BoxSpec is the serialisable definition of a box in a batch.
type BoxSpec struct {
	Name    string      `json:"name" yaml:"name"`
	Volume  int         `json:"volume" yaml:"volume"`
	Hazards HazardFlags `json:"hazards" yaml:"hazards"`
}

// Build returns the box described by the spec.
func (s BoxSpec) Build() *Box {
	return NewBox(s.Name, s.Volume, s.Hazards)
}

// BuildRooms creates fresh rooms from a layout, preserving its order.
func BuildRooms(specs []RoomSpec) []*Room {
	rooms := make([]*Room, len(specs))
	for i, spec := range specs {
		rooms[i] = spec.Build()
	}
	return rooms
}

// BuildBoxes creates boxes from their specs, preserving order.
func BuildBoxes(specs []BoxSpec) []*Box {
	boxes := make([]*Box, len(specs))
	for i, spec := range specs {
		boxes[i] = spec.Build()
	}
	return boxes
}
