package usecase

import (
	"context"
	"io"
	"log/slog"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/ginyuforce-backend/internal/config"
	"github.com/rocketscienceinc/ginyuforce-backend/internal/entity"
	"github.com/rocketscienceinc/ginyuforce-backend/internal/repository"
)

type sentEvent struct {
	to      []string
	event   string
	payload any
}

type fakeNotifier struct {
	mu     sync.Mutex
	events []sentEvent
}

func (that *fakeNotifier) Broadcast(_ context.Context, playerIDs []string, event string, payload any) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.events = append(that.events, sentEvent{to: playerIDs, event: event, payload: payload})
}

func (that *fakeNotifier) Send(_ context.Context, playerID, event string, payload any) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.events = append(that.events, sentEvent{to: []string{playerID}, event: event, payload: payload})
}

func (that *fakeNotifier) names() []string {
	that.mu.Lock()
	defer that.mu.Unlock()

	names := make([]string, 0, len(that.events))
	for _, event := range that.events {
		names = append(names, event.event)
	}

	return names
}

func (that *fakeNotifier) last(event string) (sentEvent, bool) {
	that.mu.Lock()
	defer that.mu.Unlock()

	for i := len(that.events) - 1; i >= 0; i-- {
		if that.events[i].event == event {
			return that.events[i], true
		}
	}

	return sentEvent{}, false
}

func (that *fakeNotifier) reset() {
	that.mu.Lock()
	that.events = nil
	that.mu.Unlock()
}

// fakeScheduler queues callbacks until the test runs them.
type fakeScheduler struct {
	mu     sync.Mutex
	delays []time.Duration
	queue  []func()
}

func (that *fakeScheduler) AfterFunc(delay time.Duration, f func()) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.delays = append(that.delays, delay)
	that.queue = append(that.queue, f)
}

func (that *fakeScheduler) pending() int {
	that.mu.Lock()
	defer that.mu.Unlock()

	return len(that.queue)
}

// runNext runs the oldest queued callback.
func (that *fakeScheduler) runNext(t *testing.T) {
	t.Helper()

	that.mu.Lock()
	require.NotEmpty(t, that.queue, "nothing scheduled")
	f := that.queue[0]
	that.queue = that.queue[1:]
	that.mu.Unlock()

	f()
}

type fakeSnapshots struct {
	mu    sync.Mutex
	saved map[string]*entity.RoomSnapshot

	// held reports whether the room lock is taken. Writes made without it
	// are collected in unlocked.
	held     func(roomID string) bool
	unlocked []string
}

func (that *fakeSnapshots) CreateOrUpdate(_ context.Context, snapshot *entity.RoomSnapshot) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.checkHeld("save", snapshot.ID)
	that.saved[snapshot.ID] = snapshot

	return nil
}

func (that *fakeSnapshots) DeleteByID(_ context.Context, id string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.checkHeld("delete", id)
	delete(that.saved, id)

	return nil
}

func (that *fakeSnapshots) checkHeld(write, id string) {
	if that.held != nil && !that.held(id) {
		that.unlocked = append(that.unlocked, write+" "+id)
	}
}

func (that *fakeSnapshots) writesWithoutLock() []string {
	that.mu.Lock()
	defer that.mu.Unlock()

	return append([]string(nil), that.unlocked...)
}

func (that *fakeSnapshots) get(id string) *entity.RoomSnapshot {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.saved[id]
}

type fakeAI struct {
	mu    sync.Mutex
	turns []string
}

func (that *fakeAI) PlayTurn(_ context.Context, _, playerID string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.turns = append(that.turns, playerID)

	return nil
}

type fixture struct {
	manager   *GameManager
	rooms     repository.RoomRepository
	notifier  *fakeNotifier
	scheduler *fakeScheduler
	snapshots *fakeSnapshots
}

func testGameConfig() config.Game {
	return config.Game{
		BoardSize:    9,
		TargetN:      5,
		MaxPlayers:   4,
		RestartDelay: 2 * time.Second,
		AIDelayMin:   400 * time.Millisecond,
		AIDelayMax:   900 * time.Millisecond,
	}
}

func newFixture() *fixture {
	f := &fixture{
		rooms:     repository.NewRoomRepository(),
		notifier:  &fakeNotifier{},
		scheduler: &fakeScheduler{},
		snapshots: &fakeSnapshots{saved: make(map[string]*entity.RoomSnapshot)},
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	f.manager = NewGameManager(logger, testGameConfig(), f.rooms, f.snapshots, f.notifier, f.scheduler, rand.New(rand.NewSource(1)))
	f.snapshots.held = f.manager.lockHeld

	return f
}

// lockHeld reports whether someone holds the lock of roomID.
func (that *GameManager) lockHeld(roomID string) bool {
	that.locksMu.Lock()
	mu, ok := that.locks[roomID]
	that.locksMu.Unlock()

	if !ok {
		return false
	}

	if mu.TryLock() {
		mu.Unlock()
		return false
	}

	return true
}

// startedRoom creates a single mode room for the given player ids, all
// playing Ginyu, and starts it.
func (that *fixture) startedRoom(t *testing.T, ids ...string) string {
	t.Helper()

	ctx := context.Background()

	snapshot, err := that.manager.CreateRoom(ctx, ids[0], ids[0], entity.ModeSingle, 0)
	require.NoError(t, err)

	for _, id := range ids[1:] {
		_, err = that.manager.JoinRoom(ctx, snapshot.ID, id, id)
		require.NoError(t, err)
	}

	for i, id := range ids {
		that.configure(t, snapshot.ID, id, i, entity.RoleGinyu)
	}

	_, err = that.manager.StartGame(ctx, snapshot.ID, ids[0])
	require.NoError(t, err)

	return snapshot.ID
}

func (that *fixture) configure(t *testing.T, roomID, playerID string, color int, role entity.Role) {
	t.Helper()

	ctx := context.Background()

	_, err := that.manager.PickColor(ctx, roomID, playerID, color)
	require.NoError(t, err)

	_, err = that.manager.PickRole(ctx, roomID, playerID, 1, role)
	require.NoError(t, err)

	_, err = that.manager.ReadyUp(ctx, roomID, playerID)
	require.NoError(t, err)
}
