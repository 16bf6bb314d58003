// Package roles holds the placement rules of every playable role.
package roles

import (
	"github.com/rocketscienceinc/ginyuforce-backend/internal/apperror"
	"github.com/rocketscienceinc/ginyuforce-backend/internal/entity"
)

// BurterWinLength is the fixed line length Burter needs to win.
const BurterWinLength = 6

// Rule is the placement contract of a single role.
type Rule interface {
	Role() entity.Role
	MovesPerTurn() int
	CanOverride() bool
	UsesCrossMarker() bool
	CanUndo() bool
	WinLength(targetN int) int

	// Place validates and applies one move. movesMade is the number of moves
	// already made this turn. On error the board is unchanged.
	Place(board entity.Board, x, y, token, owner, movesMade int) error
}

// For returns the rule of role. Unknown roles place like a plain one-move piece.
func For(role entity.Role) Rule {
	switch role {
	case entity.RoleBurter:
		return burter{}
	case entity.RoleRecoome:
		return recoome{}
	case entity.RoleLogan:
		return logan{}
	default:
		return standard{role: role}
	}
}

// standard covers Ginyu, Guldo and Jeice: one move onto an empty cell.
type standard struct {
	role entity.Role
}

func (that standard) Role() entity.Role { return that.role }
func (that standard) MovesPerTurn() int { return 1 }
func (that standard) CanOverride() bool { return false }
func (that standard) UsesCrossMarker() bool { return false }
func (that standard) CanUndo() bool { return false }
func (that standard) WinLength(targetN int) int { return targetN }

func (that standard) Place(board entity.Board, x, y, token, _, movesMade int) error {
	return placeOnEmpty(board, x, y, token, movesMade, that.MovesPerTurn())
}

type burter struct{}

func (burter) Role() entity.Role { return entity.RoleBurter }
func (burter) MovesPerTurn() int { return 2 }
func (burter) CanOverride() bool { return false }
func (burter) UsesCrossMarker() bool { return false }
func (burter) CanUndo() bool { return true }
func (burter) WinLength(_ int) int { return BurterWinLength }

func (that burter) Place(board entity.Board, x, y, token, _, movesMade int) error {
	return placeOnEmpty(board, x, y, token, movesMade, that.MovesPerTurn())
}

type recoome struct{}

func (recoome) Role() entity.Role { return entity.RoleRecoome }
func (recoome) MovesPerTurn() int { return 1 }
func (recoome) CanOverride() bool { return true }
func (recoome) UsesCrossMarker() bool { return false }
func (recoome) CanUndo() bool { return false }
func (recoome) WinLength(targetN int) int { return targetN }

// Place overrides any cell except a cross or a cell already holding this exact token.
// The owner's other-slot token may be overwritten.
func (that recoome) Place(board entity.Board, x, y, token, _, movesMade int) error {
	if !board.InBounds(x, y) {
		return apperror.ErrOutOfBounds
	}

	if movesMade >= that.MovesPerTurn() {
		return apperror.ErrTurnBudgetSpent
	}

	cell := board.At(x, y)
	if entity.IsCross(cell) {
		return apperror.ErrCrossBlocked
	}

	if cell == token {
		return apperror.ErrSameToken
	}

	board.Set(x, y, token)

	return nil
}

type logan struct{}

func (logan) Role() entity.Role { return entity.RoleLogan }
func (logan) MovesPerTurn() int { return 2 }
func (logan) CanOverride() bool { return false }
func (logan) UsesCrossMarker() bool { return true }
func (logan) CanUndo() bool { return true }
func (logan) WinLength(targetN int) int { return targetN }

// Place writes the token on the first move, onto an empty cell or the owner's
// own cross. The second move writes a cross onto an empty cell.
func (that logan) Place(board entity.Board, x, y, token, owner, movesMade int) error {
	if !board.InBounds(x, y) {
		return apperror.ErrOutOfBounds
	}

	cell := board.At(x, y)

	switch movesMade {
	case 0:
		if cell != entity.Empty && cell != entity.Cross(owner) {
			return occupied(cell)
		}
		board.Set(x, y, token)
	case 1:
		if cell != entity.Empty {
			return apperror.ErrCrossNeedsEmpty
		}
		board.Set(x, y, entity.Cross(owner))
	default:
		return apperror.ErrTurnBudgetSpent
	}

	return nil
}

func placeOnEmpty(board entity.Board, x, y, token, movesMade, budget int) error {
	if !board.InBounds(x, y) {
		return apperror.ErrOutOfBounds
	}

	if movesMade >= budget {
		return apperror.ErrTurnBudgetSpent
	}

	if cell := board.At(x, y); cell != entity.Empty {
		return occupied(cell)
	}

	board.Set(x, y, token)

	return nil
}

func occupied(cell int) error {
	if entity.IsCross(cell) {
		return apperror.ErrCrossBlocked
	}

	return apperror.ErrCellOccupied
}
