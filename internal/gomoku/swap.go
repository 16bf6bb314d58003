package gomoku

import (
	"github.com/rocketscienceinc/ginyuforce-backend/internal/apperror"
	"github.com/rocketscienceinc/ginyuforce-backend/internal/entity"
)

// SwapSources returns the cells holding token that share a row or column
// with at least one foreign token.
func SwapSources(board entity.Board, token int) []entity.Point {
	var sources []entity.Point
	for y := range board {
		for x := range board[y] {
			if board.At(x, y) != token {
				continue
			}

			if len(SwapTargets(board, entity.Point{X: x, Y: y}, token)) > 0 {
				sources = append(sources, entity.Point{X: x, Y: y})
			}
		}
	}

	return sources
}

// SwapTargets returns the foreign tokens on the row and column of source.
func SwapTargets(board entity.Board, source entity.Point, token int) []entity.Point {
	var targets []entity.Point
	for x := 0; x < board.Size(); x++ {
		if x != source.X && entity.IsForeign(board.At(x, source.Y), token) {
			targets = append(targets, entity.Point{X: x, Y: source.Y})
		}
	}

	for y := 0; y < board.Size(); y++ {
		if y != source.Y && entity.IsForeign(board.At(source.X, y), token) {
			targets = append(targets, entity.Point{X: source.X, Y: y})
		}
	}

	return targets
}

// StartSwap opens a swap session for Ginyu before any move this turn.
func StartSwap(room *entity.Room, playerID string) (Outcome, error) {
	out := none()

	player, index, err := authorize(room, playerID)
	if err != nil {
		return out, err
	}

	if room.ActiveRole() != entity.RoleGinyu {
		return out, apperror.ErrWrongRole
	}

	if player.PlacedThisTurn > 0 {
		return out, apperror.ErrAlreadyPlaced
	}

	if player.UsedSwap {
		return out, apperror.ErrAbilityUsed
	}

	if room.Ability != nil {
		return out, apperror.ErrAbilityActive
	}

	sources := SwapSources(room.Board, room.ActiveToken())
	if len(sources) == 0 {
		return out, apperror.ErrNoSwapSources
	}

	room.Ability = &entity.SwapSession{
		OwnerIndex: index,
		Step:       entity.SwapSourcesOffered,
		Sources:    sources,
	}
	out.Sources = sources

	return out, nil
}

// SelectSwapSource picks one of the offered sources and offers its targets.
func SelectSwapSource(room *entity.Room, playerID string, x, y int) (Outcome, error) {
	out := none()

	session, err := swapSession(room, playerID)
	if err != nil {
		return out, err
	}

	source := entity.Point{X: x, Y: y}
	token := room.ActiveToken()

	if session.Step != entity.SwapSourcesOffered || !entity.ContainsPoint(session.Sources, source) ||
		room.Board.At(x, y) != token {
		return cancel(room, out, apperror.ErrSelectionInvalid)
	}

	targets := SwapTargets(room.Board, source, token)
	if len(targets) == 0 {
		return cancel(room, out, apperror.ErrNoSwapTargets)
	}

	session.Step = entity.SwapSourceChosen
	session.Source = source
	session.Targets = targets
	out.Targets = targets

	return out, nil
}

// SelectSwapTarget exchanges the chosen source with the target. The swap does
// not consume the turn's placement.
func SelectSwapTarget(room *entity.Room, playerID string, x, y int) (Outcome, error) {
	out := none()

	session, err := swapSession(room, playerID)
	if err != nil {
		return out, err
	}

	target := entity.Point{X: x, Y: y}
	token := room.ActiveToken()

	if session.Step != entity.SwapSourceChosen || !entity.ContainsPoint(session.Targets, target) {
		return cancel(room, out, apperror.ErrSelectionInvalid)
	}

	source := session.Source
	if room.Board.At(source.X, source.Y) != token || !entity.IsForeign(room.Board.At(x, y), token) {
		return cancel(room, out, apperror.ErrTargetGone)
	}

	sourceValue := room.Board.At(source.X, source.Y)
	room.Board.Set(source.X, source.Y, room.Board.At(x, y))
	room.Board.Set(x, y, sourceValue)

	room.Players[session.OwnerIndex].UsedSwap = true
	room.Ability = nil
	out.Swapped = []entity.Point{source, target}

	settle(room, &out)

	return out, nil
}

// CancelSwap discards the swap session without touching the board.
func CancelSwap(room *entity.Room, playerID string) (Outcome, error) {
	out := none()

	if _, err := swapSession(room, playerID); err != nil {
		return out, err
	}

	room.Ability = nil
	out.Cancelled = &Cancellation{Ability: entity.AbilitySwap, Reason: "swap cancelled"}

	return out, nil
}

func swapSession(room *entity.Room, playerID string) (*entity.SwapSession, error) {
	_, index, err := authorize(room, playerID)
	if err != nil {
		return nil, err
	}

	session, ok := room.Ability.(*entity.SwapSession)
	if !ok || session.OwnerIndex != index {
		return nil, apperror.ErrNoActiveAbility
	}

	return session, nil
}

// cancel discards the active session and reports why.
func cancel(room *entity.Room, out Outcome, reason error) (Outcome, error) {
	if room.Ability != nil {
		out.Cancelled = &Cancellation{Ability: room.Ability.Kind(), Reason: apperror.Message(reason)}
	}

	room.Ability = nil

	return out, reason
}
