package roles

import (
	"testing"

	"github.com/rocketscienceinc/ginyuforce-backend/internal/apperror"
	"github.com/rocketscienceinc/ginyuforce-backend/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFor_Metadata(t *testing.T) {
	tests := []struct {
		role      entity.Role
		moves     int
		override  bool
		cross     bool
		undo      bool
		winLength int
	}{
		{entity.RoleGinyu, 1, false, false, false, 5},
		{entity.RoleBurter, 2, false, false, true, 6},
		{entity.RoleRecoome, 1, true, false, false, 5},
		{entity.RoleLogan, 2, false, true, true, 5},
		{entity.RoleGuldo, 1, false, false, false, 5},
		{entity.RoleJeice, 1, false, false, false, 5},
	}

	for _, tt := range tests {
		t.Run(tt.role.String(), func(t *testing.T) {
			rule := For(tt.role)

			assert.Equal(t, tt.role, rule.Role())
			assert.Equal(t, tt.moves, rule.MovesPerTurn())
			assert.Equal(t, tt.override, rule.CanOverride())
			assert.Equal(t, tt.cross, rule.UsesCrossMarker())
			assert.Equal(t, tt.undo, rule.CanUndo())
			assert.Equal(t, tt.winLength, rule.WinLength(5))
		})
	}
}

func TestStandard_Place(t *testing.T) {
	t.Run("Empty cell", func(t *testing.T) {
		// Given: an empty board
		board := entity.NewBoard(5)

		// When: Ginyu places at (2,3)
		err := For(entity.RoleGinyu).Place(board, 2, 3, 1, 0, 0)

		// Then: the token is written
		require.NoError(t, err)
		assert.Equal(t, 1, board.At(2, 3))
	})

	t.Run("Occupied cell", func(t *testing.T) {
		board := entity.NewBoard(5)
		board.Set(1, 1, 3)

		err := For(entity.RoleGuldo).Place(board, 1, 1, 1, 0, 0)

		require.ErrorIs(t, err, apperror.ErrCellOccupied)
		assert.Equal(t, 3, board.At(1, 1))
	})

	t.Run("Cross cell", func(t *testing.T) {
		board := entity.NewBoard(5)
		board.Set(1, 1, entity.Cross(1))

		err := For(entity.RoleJeice).Place(board, 1, 1, 1, 0, 0)

		require.ErrorIs(t, err, apperror.ErrCrossBlocked)
		require.ErrorIs(t, err, apperror.ErrRuleViolation)
	})

	t.Run("Out of bounds", func(t *testing.T) {
		board := entity.NewBoard(5)

		err := For(entity.RoleGinyu).Place(board, 5, 0, 1, 0, 0)

		require.ErrorIs(t, err, apperror.ErrOutOfBounds)
	})

	t.Run("Burter places twice", func(t *testing.T) {
		board := entity.NewBoard(5)
		rule := For(entity.RoleBurter)

		require.NoError(t, rule.Place(board, 0, 0, 1, 0, 0))
		require.NoError(t, rule.Place(board, 1, 0, 1, 0, 1))
		require.ErrorIs(t, rule.Place(board, 2, 0, 1, 0, 2), apperror.ErrTurnBudgetSpent)
		assert.Equal(t, entity.Empty, board.At(2, 0))
	})
}

func TestRecoome_Place(t *testing.T) {
	rule := For(entity.RoleRecoome)

	t.Run("Overrides an opponent", func(t *testing.T) {
		// Given: an opponent token at (2,2)
		board := entity.NewBoard(5)
		board.Set(2, 2, entity.Token(1, 1))

		// When: Recoome places on it
		err := rule.Place(board, 2, 2, entity.Token(0, 1), 0, 0)

		// Then: the cell now holds Recoome's token
		require.NoError(t, err)
		assert.Equal(t, entity.Token(0, 1), board.At(2, 2))
	})

	t.Run("Overrides own other slot", func(t *testing.T) {
		board := entity.NewBoard(5)
		board.Set(2, 2, entity.Token(0, 2))

		err := rule.Place(board, 2, 2, entity.Token(0, 1), 0, 0)

		require.NoError(t, err)
		assert.Equal(t, entity.Token(0, 1), board.At(2, 2))
	})

	t.Run("Same token is rejected", func(t *testing.T) {
		board := entity.NewBoard(5)
		board.Set(2, 2, entity.Token(0, 1))

		err := rule.Place(board, 2, 2, entity.Token(0, 1), 0, 0)

		require.ErrorIs(t, err, apperror.ErrSameToken)
	})

	t.Run("Cross is rejected", func(t *testing.T) {
		board := entity.NewBoard(5)
		board.Set(2, 2, entity.Cross(0))

		err := rule.Place(board, 2, 2, entity.Token(0, 1), 0, 0)

		require.ErrorIs(t, err, apperror.ErrCrossBlocked)
		assert.Equal(t, entity.Cross(0), board.At(2, 2))
	})
}

func TestLogan_Place(t *testing.T) {
	rule := For(entity.RoleLogan)
	token := entity.Token(1, 1)

	t.Run("First move on empty and second writes a cross", func(t *testing.T) {
		board := entity.NewBoard(5)

		require.NoError(t, rule.Place(board, 0, 0, token, 1, 0))
		require.NoError(t, rule.Place(board, 4, 4, token, 1, 1))

		assert.Equal(t, token, board.At(0, 0))
		assert.Equal(t, entity.Cross(1), board.At(4, 4))
	})

	t.Run("First move converts own cross", func(t *testing.T) {
		board := entity.NewBoard(5)
		board.Set(2, 2, entity.Cross(1))

		err := rule.Place(board, 2, 2, token, 1, 0)

		require.NoError(t, err)
		assert.Equal(t, token, board.At(2, 2))
	})

	t.Run("First move fails on anything else", func(t *testing.T) {
		cells := []int{entity.Cross(0), entity.Token(0, 1), token}
		for _, cell := range cells {
			board := entity.NewBoard(5)
			board.Set(2, 2, cell)

			err := rule.Place(board, 2, 2, token, 1, 0)

			require.ErrorIs(t, err, apperror.ErrRuleViolation)
			assert.Equal(t, cell, board.At(2, 2))
		}
	})

	t.Run("Second move fails on any non-empty cell", func(t *testing.T) {
		cells := []int{entity.Cross(0), entity.Cross(1), entity.Token(0, 1), token}
		for _, cell := range cells {
			board := entity.NewBoard(5)
			board.Set(3, 3, cell)

			err := rule.Place(board, 3, 3, token, 1, 1)

			require.ErrorIs(t, err, apperror.ErrCrossNeedsEmpty)
			assert.Equal(t, cell, board.At(3, 3))
		}
	})

	t.Run("Third move fails", func(t *testing.T) {
		board := entity.NewBoard(5)

		err := rule.Place(board, 0, 0, token, 1, 2)

		require.ErrorIs(t, err, apperror.ErrTurnBudgetSpent)
		assert.True(t, board.IsEmpty())
	})
}
