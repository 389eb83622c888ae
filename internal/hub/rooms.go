package hub

import (
	"sync"

	"github.com/collabhub-in/collabhub/internal/core"
	"github.com/collabhub-in/collabhub/internal/domain"
)

// Rooms maps (kind, name) to its membership set. Rooms are created
// lazily on first use and live for the process lifetime, matching the
// state registry.
type Rooms struct {
	mu    sync.RWMutex
	rooms map[domain.RoomKey]core.Room
}

func NewRooms() *Rooms {
	return &Rooms{rooms: make(map[domain.RoomKey]core.Room)}
}

func (f *Rooms) GetOrCreate(key domain.RoomKey) core.Room {
	f.mu.RLock()
	room, ok := f.rooms[key]
	f.mu.RUnlock()
	if ok {
		return room
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if room, ok = f.rooms[key]; ok {
		return room
	}
	room = core.NewRoom()
	f.rooms[key] = room
	return room
}

// Get returns the room only if it already exists.
func (f *Rooms) Get(key domain.RoomKey) (core.Room, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	room, ok := f.rooms[key]
	return room, ok
}
