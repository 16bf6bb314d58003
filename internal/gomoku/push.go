package gomoku

import (
	"github.com/rocketscienceinc/ginyuforce-backend/internal/apperror"
	"github.com/rocketscienceinc/ginyuforce-backend/internal/entity"
)

// PushDestination computes where a push from placed moves target.
// It returns the destination and the number of cells moved (0, 1 or 2).
func PushDestination(board entity.Board, placed, target entity.Point) (entity.Point, int) {
	d := entity.Point{X: sign(target.X - placed.X), Y: sign(target.Y - placed.Y)}
	one := target.Add(d)
	two := one.Add(d)

	if !board.InBounds(one.X, one.Y) || board.At(one.X, one.Y) != entity.Empty {
		return target, 0
	}

	if board.InBounds(two.X, two.Y) && board.At(two.X, two.Y) == entity.Empty {
		return two, 2
	}

	return one, 1
}

// PushTargets returns the foreign tokens around the placed cell.
func PushTargets(board entity.Board, placed entity.Point, token int) []entity.Point {
	var targets []entity.Point
	for _, p := range board.Neighbors(placed.X, placed.Y) {
		if entity.IsForeign(board.At(p.X, p.Y), token) {
			targets = append(targets, p)
		}
	}

	return targets
}

// StartPush arms Jeice's push before the placement. The placement itself
// opens the target step.
func StartPush(room *entity.Room, playerID string) (Outcome, error) {
	out := none()

	player, index, err := authorize(room, playerID)
	if err != nil {
		return out, err
	}

	if room.ActiveRole() != entity.RoleJeice {
		return out, apperror.ErrWrongRole
	}

	if player.PlacedThisTurn > 0 {
		return out, apperror.ErrAlreadyPlaced
	}

	if player.UsedPush {
		return out, apperror.ErrAbilityUsed
	}

	if room.Ability != nil {
		return out, apperror.ErrAbilityActive
	}

	room.Ability = &entity.PushSession{OwnerIndex: index, Step: entity.PushAwaitingPlacement}

	return out, nil
}

// SelectPushTarget pushes the chosen neighbor away from the placed piece and
// closes the turn. A selection outside the offered targets declines the push.
func SelectPushTarget(room *entity.Room, playerID string, x, y int) (Outcome, error) {
	out := none()

	session, err := pushSession(room, playerID)
	if err != nil {
		return out, err
	}

	if session.Step != entity.PushTargetOffered {
		return out, apperror.ErrNoActiveAbility
	}

	target := entity.Point{X: x, Y: y}
	if !entity.ContainsPoint(session.Targets, target) || !entity.IsForeign(room.Board.At(x, y), room.ActiveToken()) {
		out.Cancelled = &Cancellation{Ability: entity.AbilityPush, Reason: apperror.Message(apperror.ErrSelectionInvalid)}
		closePush(room, session, &out)

		return out, apperror.ErrSelectionInvalid
	}

	destination, moved := PushDestination(room.Board, session.Placed, target)
	if moved > 0 {
		room.Board.Set(destination.X, destination.Y, room.Board.At(x, y))
		room.Board.Set(x, y, entity.Empty)
	}

	out.Pushed = &PushResult{From: target, To: destination, Moved: moved}
	room.Players[session.OwnerIndex].UsedPush = true
	room.Ability = nil

	if settle(room, &out) {
		return out, nil
	}

	advanceTurn(room)
	out.TurnAdvanced = true

	return out, nil
}

// CancelPush declines the push. Once the piece is placed this closes the turn.
func CancelPush(room *entity.Room, playerID string) (Outcome, error) {
	out := none()

	session, err := pushSession(room, playerID)
	if err != nil {
		return out, err
	}

	out.Cancelled = &Cancellation{Ability: entity.AbilityPush, Reason: "push declined"}

	if session.Step == entity.PushAwaitingPlacement {
		room.Ability = nil
		return out, nil
	}

	closePush(room, session, &out)

	return out, nil
}

func closePush(room *entity.Room, session *entity.PushSession, out *Outcome) {
	room.Players[session.OwnerIndex].UsedPush = true
	room.Ability = nil
	advanceTurn(room)
	out.TurnAdvanced = true
}

func pushSession(room *entity.Room, playerID string) (*entity.PushSession, error) {
	_, index, err := authorize(room, playerID)
	if err != nil {
		return nil, err
	}

	session, ok := room.Ability.(*entity.PushSession)
	if !ok || session.OwnerIndex != index {
		return nil, apperror.ErrNoActiveAbility
	}

	return session, nil
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}
