package storage

import (
	"sync"

	"github.com/eugenenazirov/warehouse-allocator/internal/warehouse"
)

var defaultLayout = []warehouse.RoomSpec{
	{Name: "loading-dock", Capacity: 100},
	{Name: "chem-loft", Capacity: 100, Stairs: true, Hazards: warehouse.Chemical},
	{Name: "vault", Capacity: 150, Hazards: warehouse.Chemical | warehouse.Nuclear},
	{Name: "main-storage", Capacity: 1000},
}

// Storage provides access to the warehouse layout used by the allocator.
type Storage interface {
	GetRooms() ([]warehouse.RoomSpec, error)
	SetRooms(rooms []warehouse.RoomSpec) error
}

// MemoryStorage keeps the room layout in-memory and guards access with a RWMutex.
type MemoryStorage struct {
	mu    sync.RWMutex
	rooms []warehouse.RoomSpec
}

// NewMemoryStorage initialises storage with a copy of the default layout.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		rooms: clone(defaultLayout),
	}
}

// DefaultRooms returns a copy of the default layout.
func DefaultRooms() []warehouse.RoomSpec {
	return clone(defaultLayout)
}

// GetRooms returns a defensive copy of the current layout, in priority order.
func (s *MemoryStorage) GetRooms() ([]warehouse.RoomSpec, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return clone(s.rooms), nil
}

// SetRooms validates and stores the provided layout. Room order is kept as given
// since it defines placement priority.
func (s *MemoryStorage) SetRooms(rooms []warehouse.RoomSpec) error {
	if err := warehouse.ValidateRoomSpecs(rooms); err != nil {
		return err
	}

	stored := clone(rooms)
	s.mu.Lock()
	s.rooms = stored
	s.mu.Unlock()

	return nil
}

func clone(src []warehouse.RoomSpec) []warehouse.RoomSpec {
	out := make([]warehouse.RoomSpec, len(src))
	copy(out, src)
	return out
}
