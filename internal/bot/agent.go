// Package bot plays AI seats through the same operations a human client uses.
package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"

	"github.com/rocketscienceinc/ginyuforce-backend/internal/entity"
	"github.com/rocketscienceinc/ginyuforce-backend/internal/gomoku"
)

// maxSteps bounds the actions of one turn: an ability, two placements and a push.
const maxSteps = 4

var ErrNoLegalMove = errors.New("no legal move")

type gameClient interface {
	Room(ctx context.Context, roomID string) (*entity.Room, error)

	PlacePiece(ctx context.Context, roomID, playerID string, x, y int) (gomoku.Outcome, error)

	StartSwap(ctx context.Context, roomID, playerID string) (gomoku.Outcome, error)
	SelectSwapSource(ctx context.Context, roomID, playerID string, x, y int) (gomoku.Outcome, error)
	SelectSwapTarget(ctx context.Context, roomID, playerID string, x, y int) (gomoku.Outcome, error)

	StartRelocate(ctx context.Context, roomID, playerID string) (gomoku.Outcome, error)
	SelectRelocateSource(ctx context.Context, roomID, playerID string, x, y int) (gomoku.Outcome, error)
	SelectRelocateTarget(ctx context.Context, roomID, playerID string, x, y int) (gomoku.Outcome, error)
	MoveRelocatedPiece(ctx context.Context, roomID, playerID string, x, y int) (gomoku.Outcome, error)

	StartPush(ctx context.Context, roomID, playerID string) (gomoku.Outcome, error)
	SelectPushTarget(ctx context.Context, roomID, playerID string, x, y int) (gomoku.Outcome, error)
	CancelPush(ctx context.Context, roomID, playerID string) (gomoku.Outcome, error)
}

type Agent struct {
	logger *slog.Logger
	client gameClient

	mu   sync.Mutex
	rand *rand.Rand
}

func NewAgent(logger *slog.Logger, client gameClient, rnd *rand.Rand) *Agent {
	return &Agent{
		logger: logger,
		client: client,
		rand:   rnd,
	}
}

// PlayTurn performs the whole current turn of playerID. It returns nil
// without acting when it is not that player's turn.
func (that *Agent) PlayTurn(ctx context.Context, roomID, playerID string) error {
	log := that.logger.With("method", "PlayTurn", "roomID", roomID, "playerID", playerID)

	round := -1
	triedAbility := false

	for step := 0; step < maxSteps; step++ {
		room, err := that.client.Room(ctx, roomID)
		if err != nil {
			return fmt.Errorf("failed to get room: %w", err)
		}

		if room.Status != entity.StatusPlaying || room.PlayerIndex(playerID) != room.TurnIndex {
			return nil
		}

		if round == -1 {
			round = room.RoundCount
		} else if room.RoundCount != round {
			return nil
		}

		player := room.CurrentPlayer()
		role := room.ActiveRole()

		if role == entity.RoleJeice {
			return that.playPush(ctx, room, playerID)
		}

		if !triedAbility && player.PlacedThisTurn == 0 && room.Ability == nil {
			triedAbility = true

			used, err := that.tryAbility(ctx, room, playerID)
			if err != nil {
				log.Warn("ability attempt failed", "error", err)
			}
			if used {
				continue
			}
		}

		if _, err = that.place(ctx, room, playerID); err != nil {
			return fmt.Errorf("failed to place piece: %w", err)
		}
	}

	return nil
}

// tryAbility runs a swap or relocate when simulation finds one worth taking.
func (that *Agent) tryAbility(ctx context.Context, room *entity.Room, playerID string) (bool, error) {
	player := room.CurrentPlayer()

	switch {
	case room.ActiveRole() == entity.RoleGinyu && !player.UsedSwap:
		move, ok := bestSwap(room)
		if !ok || move.score < abilityThreshold {
			return false, nil
		}

		if _, err := that.client.StartSwap(ctx, room.ID, playerID); err != nil {
			return false, fmt.Errorf("failed to start swap: %w", err)
		}
		if _, err := that.client.SelectSwapSource(ctx, room.ID, playerID, move.source.X, move.source.Y); err != nil {
			return false, fmt.Errorf("failed to select swap source: %w", err)
		}
		if _, err := that.client.SelectSwapTarget(ctx, room.ID, playerID, move.target.X, move.target.Y); err != nil {
			return false, fmt.Errorf("failed to select swap target: %w", err)
		}

		return true, nil
	case room.ActiveRole() == entity.RoleGuldo && !player.UsedRelocate:
		move, ok := bestRelocate(room)
		if !ok || move.score < abilityThreshold {
			return false, nil
		}

		if _, err := that.client.StartRelocate(ctx, room.ID, playerID); err != nil {
			return false, fmt.Errorf("failed to start relocate: %w", err)
		}
		if _, err := that.client.SelectRelocateSource(ctx, room.ID, playerID, move.source.X, move.source.Y); err != nil {
			return false, fmt.Errorf("failed to select relocate source: %w", err)
		}
		if _, err := that.client.SelectRelocateTarget(ctx, room.ID, playerID, move.target.X, move.target.Y); err != nil {
			return false, fmt.Errorf("failed to select relocate target: %w", err)
		}
		if _, err := that.client.MoveRelocatedPiece(ctx, room.ID, playerID, move.dest.X, move.dest.Y); err != nil {
			return false, fmt.Errorf("failed to move relocated piece: %w", err)
		}

		return true, nil
	}

	return false, nil
}

// playPush places Jeice's piece and resolves the push that follows.
func (that *Agent) playPush(ctx context.Context, room *entity.Room, playerID string) error {
	log := that.logger.With("method", "playPush", "roomID", room.ID)

	player := room.CurrentPlayer()
	if room.Ability == nil && player.PlacedThisTurn == 0 && !player.UsedPush {
		if _, err := that.client.StartPush(ctx, room.ID, playerID); err != nil {
			log.Warn("failed to start push", "error", err)
		}
	}

	out, err := that.place(ctx, room, playerID)
	if err != nil {
		return fmt.Errorf("failed to place piece: %w", err)
	}

	if len(out.Targets) == 0 || out.Placed == nil {
		return nil
	}

	after, err := that.client.Room(ctx, room.ID)
	if err != nil {
		return fmt.Errorf("failed to get room: %w", err)
	}

	best, bestScore := out.Targets[0], -1.0
	for _, target := range out.Targets {
		if score := pushValue(after, *out.Placed, target); score > bestScore {
			best, bestScore = target, score
		}
	}

	if bestScore < 0 {
		if _, err = that.client.CancelPush(ctx, room.ID, playerID); err != nil {
			return fmt.Errorf("failed to decline push: %w", err)
		}

		return nil
	}

	if _, err = that.client.SelectPushTarget(ctx, room.ID, playerID, best.X, best.Y); err != nil {
		return fmt.Errorf("failed to select push target: %w", err)
	}

	return nil
}

// place picks the best legal cell for the active role and places there.
func (that *Agent) place(ctx context.Context, room *entity.Room, playerID string) (gomoku.Outcome, error) {
	move, ok := that.choosePlacement(room)
	if !ok {
		return gomoku.Outcome{}, ErrNoLegalMove
	}

	out, err := that.client.PlacePiece(ctx, room.ID, playerID, move.X, move.Y)
	if err != nil {
		return out, fmt.Errorf("failed to place at %d,%d: %w", move.X, move.Y, err)
	}

	return out, nil
}

func (that *Agent) choosePlacement(room *entity.Room) (entity.Point, bool) {
	moves := legalPlacements(room)
	if len(moves) == 0 {
		return entity.Point{}, false
	}

	best := moves[0].at
	bestScore := -winScore * 2

	for _, move := range moves {
		score := scorePlacement(room, move)
		if score >= winScore {
			return move.at, true
		}

		score += that.jitter()
		if score > bestScore {
			best, bestScore = move.at, score
		}
	}

	return best, true
}

func (that *Agent) jitter() float64 {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.rand.Float64() * 0.5
}
