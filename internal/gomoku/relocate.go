package gomoku

import (
	"github.com/rocketscienceinc/ginyuforce-backend/internal/apperror"
	"github.com/rocketscienceinc/ginyuforce-backend/internal/entity"
)

// RelocateSources returns every cell holding token.
func RelocateSources(board entity.Board, token int) []entity.Point {
	var sources []entity.Point
	for y := range board {
		for x := range board[y] {
			if board.At(x, y) == token {
				sources = append(sources, entity.Point{X: x, Y: y})
			}
		}
	}

	return sources
}

// RelocateTargets returns the foreign tokens around source.
func RelocateTargets(board entity.Board, source entity.Point, token int) []entity.Point {
	var targets []entity.Point
	for _, p := range board.Neighbors(source.X, source.Y) {
		if entity.IsForeign(board.At(p.X, p.Y), token) {
			targets = append(targets, p)
		}
	}

	return targets
}

// StartRelocate opens a relocate session for Guldo before any move this turn.
func StartRelocate(room *entity.Room, playerID string) (Outcome, error) {
	out := none()

	player, index, err := authorize(room, playerID)
	if err != nil {
		return out, err
	}

	if room.ActiveRole() != entity.RoleGuldo {
		return out, apperror.ErrWrongRole
	}

	if player.PlacedThisTurn > 0 {
		return out, apperror.ErrAlreadyPlaced
	}

	if player.UsedRelocate {
		return out, apperror.ErrAbilityUsed
	}

	if room.Ability != nil {
		return out, apperror.ErrAbilityActive
	}

	sources := RelocateSources(room.Board, room.ActiveToken())
	if len(sources) == 0 {
		return out, apperror.ErrNoRelocateSources
	}

	room.Ability = &entity.RelocateSession{
		OwnerIndex: index,
		Step:       entity.RelocateSourcesOffered,
		Sources:    sources,
	}
	out.Sources = sources

	return out, nil
}

// SelectRelocateSource picks an own piece and offers the foreign pieces around it.
func SelectRelocateSource(room *entity.Room, playerID string, x, y int) (Outcome, error) {
	out := none()

	session, err := relocateSession(room, playerID)
	if err != nil {
		return out, err
	}

	source := entity.Point{X: x, Y: y}
	token := room.ActiveToken()

	if session.Step != entity.RelocateSourcesOffered || !entity.ContainsPoint(session.Sources, source) ||
		room.Board.At(x, y) != token {
		return cancel(room, out, apperror.ErrSelectionInvalid)
	}

	targets := RelocateTargets(room.Board, source, token)
	if len(targets) == 0 {
		return cancel(room, out, apperror.ErrNoRelocateTargets)
	}

	session.Step = entity.RelocateSourceChosen
	session.Source = source
	session.Targets = targets
	out.Targets = targets

	return out, nil
}

// SelectRelocateTarget picks the foreign piece to move and offers the empty cells around it.
func SelectRelocateTarget(room *entity.Room, playerID string, x, y int) (Outcome, error) {
	out := none()

	session, err := relocateSession(room, playerID)
	if err != nil {
		return out, err
	}

	target := entity.Point{X: x, Y: y}
	token := room.ActiveToken()

	if session.Step != entity.RelocateSourceChosen || !entity.ContainsPoint(session.Targets, target) {
		return cancel(room, out, apperror.ErrSelectionInvalid)
	}

	if !entity.IsForeign(room.Board.At(x, y), token) {
		return cancel(room, out, apperror.ErrTargetGone)
	}

	empties := room.Board.EmptyAround(x, y)
	if len(empties) == 0 {
		return cancel(room, out, apperror.ErrNoEmptyAround)
	}

	session.Step = entity.RelocateTargetChosen
	session.Target = target
	session.Empties = empties
	out.Empties = empties

	return out, nil
}

// MoveRelocatedPiece moves the chosen foreign piece to one of the offered empty cells.
func MoveRelocatedPiece(room *entity.Room, playerID string, x, y int) (Outcome, error) {
	out := none()

	session, err := relocateSession(room, playerID)
	if err != nil {
		return out, err
	}

	if session.Step != entity.RelocateTargetChosen {
		return cancel(room, out, apperror.ErrSelectionInvalid)
	}

	target := session.Target
	value := room.Board.At(target.X, target.Y)
	if !entity.IsForeign(value, room.ActiveToken()) {
		return cancel(room, out, apperror.ErrTargetGone)
	}

	destination := entity.Point{X: x, Y: y}
	if !entity.ContainsPoint(session.Empties, destination) || room.Board.At(x, y) != entity.Empty {
		return cancel(room, out, apperror.ErrSelectionInvalid)
	}

	room.Board.Set(target.X, target.Y, entity.Empty)
	room.Board.Set(x, y, value)

	room.Players[session.OwnerIndex].UsedRelocate = true
	room.Ability = nil
	out.Relocated = []entity.Point{target, destination}

	settle(room, &out)

	return out, nil
}

// CancelRelocate discards the relocate session without touching the board.
func CancelRelocate(room *entity.Room, playerID string) (Outcome, error) {
	out := none()

	if _, err := relocateSession(room, playerID); err != nil {
		return out, err
	}

	room.Ability = nil
	out.Cancelled = &Cancellation{Ability: entity.AbilityRelocate, Reason: "relocate cancelled"}

	return out, nil
}

func relocateSession(room *entity.Room, playerID string) (*entity.RelocateSession, error) {
	_, index, err := authorize(room, playerID)
	if err != nil {
		return nil, err
	}

	session, ok := room.Ability.(*entity.RelocateSession)
	if !ok || session.OwnerIndex != index {
		return nil, apperror.ErrNoActiveAbility
	}

	return session, nil
}
