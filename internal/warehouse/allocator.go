package warehouse

import (
	"math/bits"

	"go.uber.org/zap"
)

// StairsVolumeLimit is the largest box volume that may be carried into a room with stairs.
const StairsVolumeLimit = 50

// Reason classifies why a box was rejected.
type Reason string

const (
	// ReasonIncompatible means no room is hazard- and stairs-compatible with the box.
	ReasonIncompatible Reason = "incompatible"
	// ReasonCapacity means every compatible room lacks the raw capacity for the box.
	ReasonCapacity Reason = "capacity"
	// ReasonReserved means a compatible room had raw capacity, but using it would
	// strand a later box that has no other legal room.
	ReasonReserved Reason = "reserved"
)

// Placement records a box accepted into rooms[Room].
type Placement struct {
	Box  *Box
	Room int
}

// Rejection records a box that could not be placed.
type Rejection struct {
	Box    *Box
	Reason Reason
}

// Result describes one allocation run. Both slices follow box arrival order.
type Result struct {
	Placements []Placement
	Rejections []Rejection
}

// Rejected returns the rejected boxes in arrival order.
func (r Result) Rejected() []*Box {
	out := make([]*Box, len(r.Rejections))
	for i, rejection := range r.Rejections {
		out[i] = rejection.Box
	}
	return out
}

// Option configures an Allocator.
type Option func(*Allocator)

// WithLogger makes the allocator emit a debug entry per decision.
func WithLogger(logger *zap.Logger) Option {
	return func(a *Allocator) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// Allocator assigns boxes to rooms in a single forward pass. It holds no state
// between runs and may be shared, but a given room slice must not be allocated
// against concurrently.
type Allocator struct {
	logger *zap.Logger
}

// New creates an Allocator.
func New(opts ...Option) *Allocator {
	a := &Allocator{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Allocate places boxes into rooms and returns the rejected boxes in arrival order.
func Allocate(rooms []*Room, boxes []*Box) []*Box {
	return New().Allocate(rooms, boxes)
}

// Allocate places boxes into rooms and returns the rejected boxes in arrival order.
func (a *Allocator) Allocate(rooms []*Room, boxes []*Box) []*Box {
	return a.Run(rooms, boxes).Rejected()
}

// Legal reports whether box may ever be stored in room, ignoring capacity.
func Legal(room *Room, box *Box) bool {
	if !room.hazards.Contains(box.hazards) {
		return false
	}
	return !(box.volume > StairsVolumeLimit && room.stairs)
}

// Run places every box into the first legal room with space, in arrival order.
// A box with exactly one legal room may use all of that room's free capacity.
// A box with several legal rooms must also leave room for the later boxes that
// can only go to a given room: their total volume is reserved in that room.
func (a *Allocator) Run(rooms []*Room, boxes []*Box) Result {
	feasible := make([][]int, len(boxes))
	reserved := make([]tally, len(rooms))
	for i, box := range boxes {
		feasible[i] = feasibleRooms(rooms, box)
		if len(feasible[i]) == 1 {
			reserved[feasible[i][0]].add(box.volume)
		}
	}

	result := Result{
		Placements: make([]Placement, 0, len(boxes)),
	}
	for i, box := range boxes {
		candidates := feasible[i]

		var (
			target = -1
			reason Reason
		)
		switch len(candidates) {
		case 0:
			reason = ReasonIncompatible
		case 1:
			idx := candidates[0]
			reserved[idx].sub(box.volume)
			if fits(rooms[idx], box, tally{}) {
				target = idx
			} else {
				reason = ReasonCapacity
			}
		default:
			reason = ReasonCapacity
			for _, idx := range candidates {
				if fits(rooms[idx], box, reserved[idx]) {
					target = idx
					break
				}
				if fits(rooms[idx], box, tally{}) {
					reason = ReasonReserved
				}
			}
		}

		if target < 0 {
			a.logger.Debug("box rejected",
				zap.String("box", box.name),
				zap.Int("volume", box.volume),
				zap.Int("candidates", len(candidates)),
				zap.String("reason", string(reason)),
			)
			result.Rejections = append(result.Rejections, Rejection{Box: box, Reason: reason})
			continue
		}

		rooms[target].AddBox(box)
		a.logger.Debug("box placed",
			zap.String("box", box.name),
			zap.Int("volume", box.volume),
			zap.String("room", rooms[target].name),
			zap.Int("room_used", rooms[target].used),
		)
		result.Placements = append(result.Placements, Placement{Box: box, Room: target})
	}

	return result
}

func feasibleRooms(rooms []*Room, box *Box) []int {
	var out []int
	for idx, room := range rooms {
		if Legal(room, box) {
			out = append(out, idx)
		}
	}
	return out
}

// fits reports whether box can enter room while keeping reserve volume free.
// It never overflows: volumes and capacities may be as large as math.MaxInt.
func fits(room *Room, box *Box, reserve tally) bool {
	free := room.capacity - room.used
	if free < 0 || !reserve.atMost(free) {
		return false
	}
	return box.volume <= free-int(reserve.lo)
}

// tally is an exact running sum of non-negative volumes. Reservations against
// one room can exceed math.MaxInt, so the sum is kept in 128 bits.
type tally struct {
	hi, lo uint64
}

func (t *tally) add(v int) {
	var carry uint64
	t.lo, carry = bits.Add64(t.lo, uint64(v), 0)
	t.hi += carry
}

func (t *tally) sub(v int) {
	var borrow uint64
	t.lo, borrow = bits.Sub64(t.lo, uint64(v), 0)
	t.hi -= borrow
}

// atMost reports whether the sum is no larger than limit, which must be non-negative.
func (t tally) atMost(limit int) bool {
	return t.hi == 0 && t.lo <= uint64(limit)
}
