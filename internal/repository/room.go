package repository

import (
	"context"
	"sync"

	"github.com/rocketscienceinc/ginyuforce-backend/internal/apperror"
	"github.com/rocketscienceinc/ginyuforce-backend/internal/entity"
)

// RoomRepository holds the live rooms. Returned rooms are shared, callers
// serialise access to each room themselves.
type RoomRepository interface {
	Create(ctx context.Context, room *entity.Room) error
	GetByID(ctx context.Context, id string) (*entity.Room, error)
	DeleteByID(ctx context.Context, id string) error
	List(ctx context.Context) ([]*entity.Room, error)
}

type memoryRooms struct {
	mu    sync.RWMutex
	rooms map[string]*entity.Room
}

func NewRoomRepository() RoomRepository {
	return &memoryRooms{
		rooms: make(map[string]*entity.Room),
	}
}

func (that *memoryRooms) Create(_ context.Context, room *entity.Room) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if _, ok := that.rooms[room.ID]; ok {
		return apperror.ErrRoomExists
	}

	that.rooms[room.ID] = room

	return nil
}

func (that *memoryRooms) GetByID(_ context.Context, id string) (*entity.Room, error) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	room, ok := that.rooms[id]
	if !ok {
		return nil, apperror.ErrRoomNotFound
	}

	return room, nil
}

func (that *memoryRooms) DeleteByID(_ context.Context, id string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if _, ok := that.rooms[id]; !ok {
		return apperror.ErrRoomNotFound
	}

	delete(that.rooms, id)

	return nil
}

func (that *memoryRooms) List(_ context.Context) ([]*entity.Room, error) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	rooms := make([]*entity.Room, 0, len(that.rooms))
	for _, room := range that.rooms {
		rooms = append(rooms, room)
	}

	return rooms, nil
}
