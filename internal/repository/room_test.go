package repository

import (
	"context"
	"testing"

	"github.com/rocketscienceinc/ginyuforce-backend/internal/apperror"
	"github.com/rocketscienceinc/ginyuforce-backend/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoomRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("Create and get", func(t *testing.T) {
		roomRepo := NewRoomRepository()

		// Given: a stored room
		room := entity.NewRoom("42", "host", entity.ModeSingle, 15, 5, 4)
		require.NoError(t, roomRepo.Create(ctx, room))

		// When: it is fetched
		retrieved, err := roomRepo.GetByID(ctx, "42")

		// Then: the same live room is returned
		require.NoError(t, err)
		assert.Same(t, room, retrieved)
	})

	t.Run("Duplicate id", func(t *testing.T) {
		roomRepo := NewRoomRepository()
		require.NoError(t, roomRepo.Create(ctx, entity.NewRoom("42", "a", entity.ModeSingle, 15, 5, 4)))

		err := roomRepo.Create(ctx, entity.NewRoom("42", "b", entity.ModeSingle, 15, 5, 4))

		require.ErrorIs(t, err, apperror.ErrRoomExists)
	})

	t.Run("Delete and list", func(t *testing.T) {
		roomRepo := NewRoomRepository()
		require.NoError(t, roomRepo.Create(ctx, entity.NewRoom("11", "a", entity.ModeSingle, 15, 5, 4)))
		require.NoError(t, roomRepo.Create(ctx, entity.NewRoom("12", "b", entity.ModeDual, 15, 5, 4)))

		require.NoError(t, roomRepo.DeleteByID(ctx, "11"))
		require.ErrorIs(t, roomRepo.DeleteByID(ctx, "11"), apperror.ErrRoomNotFound)

		rooms, err := roomRepo.List(ctx)
		require.NoError(t, err)
		require.Len(t, rooms, 1)
		assert.Equal(t, "12", rooms[0].ID)

		_, err = roomRepo.GetByID(ctx, "11")
		require.ErrorIs(t, err, apperror.ErrRoomNotFound)
	})
}
