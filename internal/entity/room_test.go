package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDualRoom() *Room {
	room := NewRoom("42", "a", ModeDual, 9, 5, 4)
	room.Players = []*Player{
		{ID: "a", ColorIndex: 0, Role1: RoleGinyu, Role2: RoleJeice},
		{ID: "b", ColorIndex: 1, Role1: RoleLogan, Role2: RoleGuldo},
	}

	return room
}

func TestRoom_ActiveRole(t *testing.T) {
	t.Run("Dual mode uses the active slot", func(t *testing.T) {
		// Given: a dual room at player 1, slot 2
		room := newDualRoom()
		room.TurnIndex = 1
		room.TurnSlot = 2

		// Then: the slot 2 role and token are active
		assert.Equal(t, RoleGuldo, room.ActiveRole())
		assert.Equal(t, Token(1, 2), room.ActiveToken())
		assert.Equal(t, RoleGuldo, room.RoleOfToken(Token(1, 2)))
		assert.Equal(t, RoleGinyu, room.RoleOfToken(Token(0, 1)))
	})

	t.Run("Single mode always uses slot 1", func(t *testing.T) {
		room := newDualRoom()
		room.Mode = ModeSingle
		room.TurnSlot = 2

		assert.Equal(t, 1, room.ActiveSlot())
		assert.Equal(t, RoleGinyu, room.ActiveRole())
	})
}

func TestRoom_Clone(t *testing.T) {
	// Given: a room with an active session and a move record
	room := newDualRoom()
	room.Ability = &SwapSession{OwnerIndex: 0, Sources: []Point{{1, 1}}}
	room.LastMove = &MoveRecord{PlayerID: "a"}

	// When: the clone is mutated
	clone := room.Clone()
	clone.Board.Set(0, 0, 1)
	clone.Players[0].Wins = 3
	clone.Ability.(*SwapSession).Sources[0] = Point{2, 2}
	clone.LastMove.PlayerID = "b"

	// Then: the original is untouched
	assert.Equal(t, Empty, room.Board.At(0, 0))
	assert.Zero(t, room.Players[0].Wins)
	assert.Equal(t, Point{1, 1}, room.Ability.(*SwapSession).Sources[0])
	assert.Equal(t, "a", room.LastMove.PlayerID)
}

func TestPlayer_IsConfigured(t *testing.T) {
	player := NewPlayer("a", "alice")
	require.False(t, player.IsConfigured(ModeSingle))

	player.ColorIndex = 2
	player.Role1 = RoleBurter
	require.True(t, player.IsConfigured(ModeSingle))
	require.False(t, player.IsConfigured(ModeDual))

	player.Role2 = RoleBurter
	require.False(t, player.IsConfigured(ModeDual))

	player.Role2 = RoleRecoome
	require.True(t, player.IsConfigured(ModeDual))
}

func TestRoom_Snapshot(t *testing.T) {
	room := newDualRoom()
	room.Ability = &PushSession{OwnerIndex: 0}

	snapshot := room.Snapshot()
	snapshot.Board.Set(0, 0, 1)

	assert.Equal(t, AbilityPush, snapshot.Ability)
	assert.Len(t, snapshot.Players, 2)
	assert.Equal(t, Empty, room.Board.At(0, 0))
}
