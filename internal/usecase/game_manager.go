package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/rocketscienceinc/ginyuforce-backend/internal/config"
	"github.com/rocketscienceinc/ginyuforce-backend/internal/entity"
	"github.com/rocketscienceinc/ginyuforce-backend/internal/gomoku"
)

type roomRepo interface {
	Create(ctx context.Context, room *entity.Room) error
	GetByID(ctx context.Context, id string) (*entity.Room, error)
	DeleteByID(ctx context.Context, id string) error
	List(ctx context.Context) ([]*entity.Room, error)
}

type snapshotRepo interface {
	CreateOrUpdate(ctx context.Context, snapshot *entity.RoomSnapshot) error
	DeleteByID(ctx context.Context, id string) error
}

type notifier interface {
	Broadcast(ctx context.Context, playerIDs []string, event string, payload any)
	Send(ctx context.Context, playerID, event string, payload any)
}

type scheduler interface {
	AfterFunc(delay time.Duration, f func())
}

type aiPlayer interface {
	PlayTurn(ctx context.Context, roomID, playerID string) error
}

// TimerScheduler runs callbacks on runtime timers.
type TimerScheduler struct{}

func (TimerScheduler) AfterFunc(delay time.Duration, f func()) {
	time.AfterFunc(delay, f)
}

// GameManager serialises every operation on a room and fans out the resulting notifications.
type GameManager struct {
	logger    *slog.Logger
	conf      config.Game
	rooms     roomRepo
	snapshots snapshotRepo
	notifier  notifier
	scheduler scheduler
	ai        aiPlayer
	now       func() time.Time

	randMu sync.Mutex
	rand   *rand.Rand

	locksMu sync.Mutex
	locks   map[string]*sync.Mutex

	pendingMu sync.Mutex
	pendingAI map[string]string
}

// NewGameManager builds the manager. snapshots may be nil when no snapshot storage is configured.
func NewGameManager(
	logger *slog.Logger,
	conf config.Game,
	rooms roomRepo,
	snapshots snapshotRepo,
	notifier notifier,
	scheduler scheduler,
	rnd *rand.Rand,
) *GameManager {
	return &GameManager{
		logger: logger,
		conf:   conf,

		rooms:     rooms,
		snapshots: snapshots,
		notifier:  notifier,
		scheduler: scheduler,
		now:       time.Now,

		rand:      rnd,
		locks:     make(map[string]*sync.Mutex),
		pendingAI: make(map[string]string),
	}
}

// SetAI attaches the agent that plays AI seats.
func (that *GameManager) SetAI(ai aiPlayer) {
	that.ai = ai
}

// Room returns a copy of the room for read-only use.
func (that *GameManager) Room(ctx context.Context, roomID string) (*entity.Room, error) {
	unlock := that.lock(roomID)
	defer unlock()

	room, err := that.rooms.GetByID(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("failed to get room: %w", err)
	}

	return room.Clone(), nil
}

// Snapshot returns the public view of the live room.
func (that *GameManager) Snapshot(ctx context.Context, roomID string) (*entity.RoomSnapshot, error) {
	unlock := that.lock(roomID)
	defer unlock()

	room, err := that.rooms.GetByID(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("failed to get room: %w", err)
	}

	return room.Snapshot(), nil
}

func (that *GameManager) PlacePiece(ctx context.Context, roomID, playerID string, x, y int) (gomoku.Outcome, error) {
	return that.play(ctx, "PlacePiece", roomID, playerID, func(room *entity.Room) (gomoku.Outcome, error) {
		return gomoku.PlacePiece(room, playerID, x, y)
	})
}

func (that *GameManager) UndoMove(ctx context.Context, roomID, playerID string) (gomoku.Outcome, error) {
	return that.play(ctx, "UndoMove", roomID, playerID, func(room *entity.Room) (gomoku.Outcome, error) {
		return gomoku.UndoMove(room, playerID)
	})
}

func (that *GameManager) StartSwap(ctx context.Context, roomID, playerID string) (gomoku.Outcome, error) {
	return that.play(ctx, "StartSwap", roomID, playerID, func(room *entity.Room) (gomoku.Outcome, error) {
		return gomoku.StartSwap(room, playerID)
	})
}

func (that *GameManager) SelectSwapSource(ctx context.Context, roomID, playerID string, x, y int) (gomoku.Outcome, error) {
	return that.play(ctx, "SelectSwapSource", roomID, playerID, func(room *entity.Room) (gomoku.Outcome, error) {
		return gomoku.SelectSwapSource(room, playerID, x, y)
	})
}

func (that *GameManager) SelectSwapTarget(ctx context.Context, roomID, playerID string, x, y int) (gomoku.Outcome, error) {
	return that.play(ctx, "SelectSwapTarget", roomID, playerID, func(room *entity.Room) (gomoku.Outcome, error) {
		return gomoku.SelectSwapTarget(room, playerID, x, y)
	})
}

func (that *GameManager) CancelSwap(ctx context.Context, roomID, playerID string) (gomoku.Outcome, error) {
	return that.play(ctx, "CancelSwap", roomID, playerID, func(room *entity.Room) (gomoku.Outcome, error) {
		return gomoku.CancelSwap(room, playerID)
	})
}

func (that *GameManager) StartRelocate(ctx context.Context, roomID, playerID string) (gomoku.Outcome, error) {
	return that.play(ctx, "StartRelocate", roomID, playerID, func(room *entity.Room) (gomoku.Outcome, error) {
		return gomoku.StartRelocate(room, playerID)
	})
}

func (that *GameManager) SelectRelocateSource(ctx context.Context, roomID, playerID string, x, y int) (gomoku.Outcome, error) {
	return that.play(ctx, "SelectRelocateSource", roomID, playerID, func(room *entity.Room) (gomoku.Outcome, error) {
		return gomoku.SelectRelocateSource(room, playerID, x, y)
	})
}

func (that *GameManager) SelectRelocateTarget(ctx context.Context, roomID, playerID string, x, y int) (gomoku.Outcome, error) {
	return that.play(ctx, "SelectRelocateTarget", roomID, playerID, func(room *entity.Room) (gomoku.Outcome, error) {
		return gomoku.SelectRelocateTarget(room, playerID, x, y)
	})
}

func (that *GameManager) MoveRelocatedPiece(ctx context.Context, roomID, playerID string, x, y int) (gomoku.Outcome, error) {
	return that.play(ctx, "MoveRelocatedPiece", roomID, playerID, func(room *entity.Room) (gomoku.Outcome, error) {
		return gomoku.MoveRelocatedPiece(room, playerID, x, y)
	})
}

func (that *GameManager) CancelRelocate(ctx context.Context, roomID, playerID string) (gomoku.Outcome, error) {
	return that.play(ctx, "CancelRelocate", roomID, playerID, func(room *entity.Room) (gomoku.Outcome, error) {
		return gomoku.CancelRelocate(room, playerID)
	})
}

func (that *GameManager) StartPush(ctx context.Context, roomID, playerID string) (gomoku.Outcome, error) {
	return that.play(ctx, "StartPush", roomID, playerID, func(room *entity.Room) (gomoku.Outcome, error) {
		return gomoku.StartPush(room, playerID)
	})
}

func (that *GameManager) SelectPushTarget(ctx context.Context, roomID, playerID string, x, y int) (gomoku.Outcome, error) {
	return that.play(ctx, "SelectPushTarget", roomID, playerID, func(room *entity.Room) (gomoku.Outcome, error) {
		return gomoku.SelectPushTarget(room, playerID, x, y)
	})
}

func (that *GameManager) CancelPush(ctx context.Context, roomID, playerID string) (gomoku.Outcome, error) {
	return that.play(ctx, "CancelPush", roomID, playerID, func(room *entity.Room) (gomoku.Outcome, error) {
		return gomoku.CancelPush(room, playerID)
	})
}

// play runs one in-game operation under the room lock, then publishes its
// outcome and schedules the follow-up timers.
func (that *GameManager) play(
	ctx context.Context,
	method, roomID, playerID string,
	op func(room *entity.Room) (gomoku.Outcome, error),
) (gomoku.Outcome, error) {
	log := that.logger.With("method", method, "roomID", roomID, "playerID", playerID)

	unlock := that.lock(roomID)

	room, err := that.rooms.GetByID(ctx, roomID)
	if err != nil {
		unlock()
		return gomoku.Outcome{WinnerIndex: entity.NoWinner}, fmt.Errorf("failed to get room: %w", err)
	}

	out, opErr := op(room)
	room.LastActiveAt = that.now()
	that.publish(ctx, room, playerID, out)
	if out.Changed() {
		that.saveSnapshot(ctx, room.Snapshot())
	}

	unlock()

	if out.Won {
		log.Info("game ended", "winner", out.WinnerIndex)
		that.scheduleRestart(roomID)
	}

	if out.TurnAdvanced {
		that.maybeScheduleAI(roomID)
	}

	if opErr != nil {
		log.Debug("operation rejected", "error", opErr)
		return out, fmt.Errorf("%s failed: %w", method, opErr)
	}

	return out, nil
}

// publish emits the notifications for out. Called with the room lock held.
func (that *GameManager) publish(ctx context.Context, room *entity.Room, actorID string, out gomoku.Outcome) {
	if out.Cancelled != nil {
		that.notifier.Send(ctx, actorID, entity.EventAbilityCancelled, entity.AbilityCancelledNotice{
			Ability: out.Cancelled.Ability,
			Reason:  out.Cancelled.Reason,
		})
	}

	if !out.Changed() {
		return
	}

	ids := room.PlayerIDs()
	that.notifier.Broadcast(ctx, ids, entity.EventPlaced, room.PlacedNotice())

	if out.Won {
		winner := room.Players[out.WinnerIndex]
		that.notifier.Broadcast(ctx, ids, entity.EventGameEnded, entity.GameEndedNotice{
			WinnerIndex: out.WinnerIndex,
			WinnerID:    winner.ID,
			WinnerName:  winner.Name,
			Wins:        winner.Wins,
		})

		return
	}

	that.notifier.Broadcast(ctx, ids, entity.EventTurnChanged, gomoku.TurnInfo(room))
}

// scheduleRestart returns an ended room to the lobby after the restart delay.
func (that *GameManager) scheduleRestart(roomID string) {
	that.scheduler.AfterFunc(that.conf.RestartDelay, func() {
		ctx := context.Background()
		log := that.logger.With("method", "scheduleRestart", "roomID", roomID)

		unlock := that.lock(roomID)

		room, err := that.rooms.GetByID(ctx, roomID)
		if err != nil || room.Status != entity.StatusEnded {
			unlock()
			return
		}

		if err = gomoku.RestartGame(room); err != nil {
			unlock()
			log.Error("failed to restart game", "error", err)
			return
		}

		snapshot := room.Snapshot()
		that.notifier.Broadcast(ctx, room.PlayerIDs(), entity.EventRoomUpdated, snapshot)
		that.saveSnapshot(ctx, snapshot)

		unlock()

		that.clearPendingAI(roomID)
		log.Info("room returned to lobby")
	})
}

// maybeScheduleAI hands the current turn to the AI agent after a random delay
// when an AI seat is to move. Each turn is scheduled at most once.
func (that *GameManager) maybeScheduleAI(roomID string) {
	if that.ai == nil {
		return
	}

	log := that.logger.With("method", "maybeScheduleAI", "roomID", roomID)

	unlock := that.lock(roomID)

	room, err := that.rooms.GetByID(context.Background(), roomID)
	if err != nil || room.Status != entity.StatusPlaying {
		unlock()
		return
	}

	player := room.CurrentPlayer()
	if player == nil || !player.IsAI {
		unlock()
		return
	}

	playerID := player.ID
	key := fmt.Sprintf("%d:%d:%d", room.TurnIndex, room.ActiveSlot(), room.RoundCount)

	unlock()

	that.pendingMu.Lock()
	if that.pendingAI[roomID] == key {
		that.pendingMu.Unlock()
		return
	}
	that.pendingAI[roomID] = key
	that.pendingMu.Unlock()

	that.scheduler.AfterFunc(that.aiDelay(), func() {
		if err := that.ai.PlayTurn(context.Background(), roomID, playerID); err != nil {
			log.Error("AI turn failed", "playerID", playerID, "error", err)
		}
	})
}

func (that *GameManager) clearPendingAI(roomID string) {
	that.pendingMu.Lock()
	delete(that.pendingAI, roomID)
	that.pendingMu.Unlock()
}

func (that *GameManager) aiDelay() time.Duration {
	low, high := that.conf.AIDelayMin, that.conf.AIDelayMax
	if high <= low {
		return low
	}

	that.randMu.Lock()
	defer that.randMu.Unlock()

	return low + time.Duration(that.rand.Int63n(int64(high-low)))
}

// saveSnapshot must be called with the room lock held so writes land in order.
func (that *GameManager) saveSnapshot(ctx context.Context, snapshot *entity.RoomSnapshot) {
	if that.snapshots == nil {
		return
	}

	if err := that.snapshots.CreateOrUpdate(ctx, snapshot); err != nil {
		that.logger.Error("failed to save room snapshot", "roomID", snapshot.ID, "error", err)
	}
}

// lock acquires the mutex of one room and returns its release.
func (that *GameManager) lock(roomID string) func() {
	that.locksMu.Lock()
	mu, ok := that.locks[roomID]
	if !ok {
		mu = &sync.Mutex{}
		that.locks[roomID] = mu
	}
	that.locksMu.Unlock()

	mu.Lock()

	return mu.Unlock
}

func (that *GameManager) forgetRoom(ctx context.Context, roomID string) {
	if err := that.rooms.DeleteByID(ctx, roomID); err != nil {
		that.logger.Warn("failed to delete room", "roomID", roomID, "error", err)
	}

	if that.snapshots != nil {
		if err := that.snapshots.DeleteByID(ctx, roomID); err != nil {
			that.logger.Debug("failed to delete room snapshot", "roomID", roomID, "error", err)
		}
	}

	that.clearPendingAI(roomID)
}
