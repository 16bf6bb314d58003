package gomoku

import (
	"github.com/rocketscienceinc/ginyuforce-backend/internal/entity"
	"github.com/rocketscienceinc/ginyuforce-backend/internal/roles"
)

// CheckWinner reports whether (x, y) holds token and lies on a run of at
// least winLength tokens along one of the four axes.
func CheckWinner(board entity.Board, x, y, token, winLength int) bool {
	if !board.InBounds(x, y) || board.At(x, y) != token {
		return false
	}

	for _, d := range entity.Directions {
		if board.LineLength(x, y, d, token) >= winLength {
			return true
		}
	}

	return false
}

// CheckAnyWinner scans every token on the board and returns the first owner
// whose piece completes a line of its role's win length.
func CheckAnyWinner(room *entity.Room) (int, bool) {
	board := room.Board
	for y := range board {
		for x := range board[y] {
			token := board.At(x, y)
			if !entity.IsToken(token) {
				continue
			}

			owner, _ := entity.DecodeToken(token)
			if owner >= len(room.Players) {
				continue
			}

			if CheckWinner(board, x, y, token, WinLength(room, token)) {
				return owner, true
			}
		}
	}

	return entity.NoWinner, false
}

// WinLength is the run length the given token needs in this room.
func WinLength(room *entity.Room, token int) int {
	return roles.For(room.RoleOfToken(token)).WinLength(room.TargetN)
}
