package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/ginyuforce-backend/internal/apperror"
	"github.com/rocketscienceinc/ginyuforce-backend/internal/entity"
)

func TestGameManager_PlacePiece(t *testing.T) {
	ctx := context.Background()

	t.Run("Broadcasts the placement and the next turn", func(t *testing.T) {
		// Given: a started two player room
		f := newFixture()
		roomID := f.startedRoom(t, "alice", "bob")
		f.notifier.reset()

		// When: alice places
		out, err := f.manager.PlacePiece(ctx, roomID, "alice", 4, 4)

		// Then: both players hear about the board and the turn moves to bob
		require.NoError(t, err)
		assert.True(t, out.TurnAdvanced)
		assert.Equal(t, []string{entity.EventPlaced, entity.EventTurnChanged}, f.notifier.names())

		turn, ok := f.notifier.last(entity.EventTurnChanged)
		require.True(t, ok)
		assert.ElementsMatch(t, []string{"alice", "bob"}, turn.to)
		assert.Equal(t, "bob", turn.payload.(entity.TurnNotice).PlayerID)

		snapshot := f.snapshots.get(roomID)
		require.NotNil(t, snapshot)
		assert.Equal(t, entity.Token(0, 1), snapshot.Board[4][4])
	})

	t.Run("Rejects a move out of turn without notifications", func(t *testing.T) {
		// Given: a started room on alice's turn
		f := newFixture()
		roomID := f.startedRoom(t, "alice", "bob")
		f.notifier.reset()

		// When: bob tries to place
		_, err := f.manager.PlacePiece(ctx, roomID, "bob", 0, 0)

		// Then: the violation surfaces and nothing is broadcast
		require.ErrorIs(t, err, apperror.ErrNotYourTurn)
		assert.True(t, apperror.IsViolation(err))
		assert.Empty(t, f.notifier.names())
	})

	t.Run("Unknown room", func(t *testing.T) {
		f := newFixture()

		_, err := f.manager.PlacePiece(ctx, "77", "alice", 0, 0)

		require.ErrorIs(t, err, apperror.ErrRoomNotFound)
	})

	t.Run("Win ends the game and schedules the restart", func(t *testing.T) {
		// Given: alice is one piece away from five in a row
		f := newFixture()
		roomID := f.startedRoom(t, "alice", "bob")

		for x := 0; x < 4; x++ {
			_, err := f.manager.PlacePiece(ctx, roomID, "alice", x, 0)
			require.NoError(t, err)
			_, err = f.manager.PlacePiece(ctx, roomID, "bob", x, 2)
			require.NoError(t, err)
		}

		// When: alice completes the line
		out, err := f.manager.PlacePiece(ctx, roomID, "alice", 4, 0)

		// Then: the game ends and the restart waits on the timer
		require.NoError(t, err)
		assert.True(t, out.Won)

		ended, ok := f.notifier.last(entity.EventGameEnded)
		require.True(t, ok)
		notice := ended.payload.(entity.GameEndedNotice)
		assert.Equal(t, "alice", notice.WinnerID)
		assert.Equal(t, 1, notice.Wins)

		require.Equal(t, 1, f.scheduler.pending())
		assert.Equal(t, testGameConfig().RestartDelay, f.scheduler.delays[0])

		room, err := f.manager.Room(ctx, roomID)
		require.NoError(t, err)
		assert.Equal(t, entity.StatusEnded, room.Status)

		// When: the restart timer fires
		f.scheduler.runNext(t)

		// Then: the room is back in the lobby with roles kept
		room, err = f.manager.Room(ctx, roomID)
		require.NoError(t, err)
		assert.Equal(t, entity.StatusLobby, room.Status)
		assert.True(t, room.Board.IsEmpty())
		assert.Equal(t, entity.RoleGinyu, room.Players[0].Role1)
		assert.False(t, room.Players[0].Ready)

		_, ok = f.notifier.last(entity.EventRoomUpdated)
		assert.True(t, ok)
	})
}

func TestGameManager_Abilities(t *testing.T) {
	ctx := context.Background()

	t.Run("No options is reported to the caller", func(t *testing.T) {
		// Given: an empty board and a Ginyu on turn
		f := newFixture()
		roomID := f.startedRoom(t, "alice", "bob")

		// When: starting a swap
		_, err := f.manager.StartSwap(ctx, roomID, "alice")

		// Then: there is nothing to swap
		require.ErrorIs(t, err, apperror.ErrNoOptions)
		assert.Equal(t, "no piece can swap right now", apperror.Message(err))
	})

	t.Run("Swap through the manager", func(t *testing.T) {
		// Given: alice at (4,4) next to bob at (5,4)
		f := newFixture()
		roomID := f.startedRoom(t, "alice", "bob")

		_, err := f.manager.PlacePiece(ctx, roomID, "alice", 4, 4)
		require.NoError(t, err)
		_, err = f.manager.PlacePiece(ctx, roomID, "bob", 5, 4)
		require.NoError(t, err)

		// When: alice swaps her piece with bob's
		out, err := f.manager.StartSwap(ctx, roomID, "alice")
		require.NoError(t, err)
		assert.Contains(t, out.Sources, entity.Point{X: 4, Y: 4})

		_, err = f.manager.SelectSwapSource(ctx, roomID, "alice", 4, 4)
		require.NoError(t, err)

		out, err = f.manager.SelectSwapTarget(ctx, roomID, "alice", 5, 4)
		require.NoError(t, err)

		// Then: the pieces traded places and alice still has her placement
		assert.False(t, out.TurnAdvanced)
		assert.Equal(t, []entity.Point{{X: 4, Y: 4}, {X: 5, Y: 4}}, out.Swapped)

		room, err := f.manager.Room(ctx, roomID)
		require.NoError(t, err)
		assert.Equal(t, entity.Token(1, 1), room.Board.At(4, 4))
		assert.Equal(t, entity.Token(0, 1), room.Board.At(5, 4))
		assert.Equal(t, 0, room.TurnIndex)

		placed, ok := f.notifier.last(entity.EventPlaced)
		require.True(t, ok)
		assert.Equal(t, entity.Token(1, 1), placed.payload.(*entity.PlacedNotice).Board[4][4])
	})
}

func TestGameManager_Room(t *testing.T) {
	t.Run("Returns an independent copy", func(t *testing.T) {
		// Given: a started room
		f := newFixture()
		ctx := context.Background()
		roomID := f.startedRoom(t, "alice", "bob")

		// When: the copy is modified
		room, err := f.manager.Room(ctx, roomID)
		require.NoError(t, err)
		room.Board.Set(0, 0, 3)
		room.Players[0].Wins = 9

		// Then: the live room is untouched
		again, err := f.manager.Room(ctx, roomID)
		require.NoError(t, err)
		assert.Equal(t, entity.Empty, again.Board.At(0, 0))
		assert.Equal(t, 0, again.Players[0].Wins)
	})
}

func TestGameManager_AIScheduling(t *testing.T) {
	ctx := context.Background()

	t.Run("AI turn is scheduled once after a human move", func(t *testing.T) {
		// Given: alice against the AI, alice moves first
		f := newFixture()
		ai := &fakeAI{}
		f.manager.SetAI(ai)

		snapshot, err := f.manager.CreateRoom(ctx, "alice", "alice", entity.ModeSingle, 2)
		require.NoError(t, err)
		f.configure(t, snapshot.ID, "alice", 0, entity.RoleGinyu)

		snapshot, err = f.manager.AddAI(ctx, snapshot.ID, "alice")
		require.NoError(t, err)
		aiID := snapshot.Players[1].ID

		_, err = f.manager.StartGame(ctx, snapshot.ID, "alice")
		require.NoError(t, err)
		require.Equal(t, 0, f.scheduler.pending())

		// When: alice places and the scheduler is asked again for the same turn
		_, err = f.manager.PlacePiece(ctx, snapshot.ID, "alice", 4, 4)
		require.NoError(t, err)
		f.manager.maybeScheduleAI(snapshot.ID)

		// Then: exactly one delayed AI turn is queued
		require.Equal(t, 1, f.scheduler.pending())
		delay := f.scheduler.delays[0]
		assert.GreaterOrEqual(t, delay, 400*time.Millisecond)
		assert.Less(t, delay, 900*time.Millisecond)

		f.scheduler.runNext(t)
		assert.Equal(t, []string{aiID}, ai.turns)
	})

	t.Run("AI moving first is scheduled on start", func(t *testing.T) {
		// Given: the AI sits in the first seat
		f := newFixture()
		ai := &fakeAI{}
		f.manager.SetAI(ai)

		snapshot, err := f.manager.CreateRoom(ctx, "alice", "alice", entity.ModeSingle, 2)
		require.NoError(t, err)
		_, err = f.manager.AddAI(ctx, snapshot.ID, "alice")
		require.NoError(t, err)
		f.configure(t, snapshot.ID, "alice", 0, entity.RoleGinyu)

		room, err := f.rooms.GetByID(ctx, snapshot.ID)
		require.NoError(t, err)
		room.Players[0], room.Players[1] = room.Players[1], room.Players[0]

		// When: the game starts
		_, err = f.manager.StartGame(ctx, snapshot.ID, "alice")

		// Then: the AI turn is queued right away
		require.NoError(t, err)
		require.Equal(t, 1, f.scheduler.pending())
		f.scheduler.runNext(t)
		assert.Len(t, ai.turns, 1)
	})
}

func TestGameManager_SnapshotWrites(t *testing.T) {
	ctx := context.Background()

	t.Run("Every write happens under the room lock", func(t *testing.T) {
		// Given: a room played to a win
		f := newFixture()
		roomID := f.startedRoom(t, "alice", "bob")

		for x := 0; x < 4; x++ {
			_, err := f.manager.PlacePiece(ctx, roomID, "alice", x, 0)
			require.NoError(t, err)
			_, err = f.manager.PlacePiece(ctx, roomID, "bob", x, 2)
			require.NoError(t, err)
		}
		_, err := f.manager.PlacePiece(ctx, roomID, "alice", 4, 0)
		require.NoError(t, err)

		// When: the restart fires and everyone leaves
		f.scheduler.runNext(t)
		assert.Equal(t, entity.StatusLobby, f.snapshots.get(roomID).Status)

		require.NoError(t, f.manager.LeaveRoom(ctx, roomID, "bob"))
		assert.Len(t, f.snapshots.get(roomID).Players, 1)
		require.NoError(t, f.manager.LeaveRoom(ctx, roomID, "alice"))

		// Then: no save or delete ran without the lock held
		assert.Empty(t, f.snapshots.writesWithoutLock())
		assert.Nil(t, f.snapshots.get(roomID))
	})
}
