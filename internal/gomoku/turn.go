package gomoku

import (
	"fmt"

	"github.com/rocketscienceinc/ginyuforce-backend/internal/apperror"
	"github.com/rocketscienceinc/ginyuforce-backend/internal/entity"
	"github.com/rocketscienceinc/ginyuforce-backend/internal/roles"
)

// authorize checks that playerID may act on the room right now.
func authorize(room *entity.Room, playerID string) (*entity.Player, int, error) {
	if room == nil {
		return nil, -1, apperror.ErrRoomNotFound
	}

	if room.Status != entity.StatusPlaying {
		return nil, -1, apperror.ErrGameIsNotStarted
	}

	index := room.PlayerIndex(playerID)
	if index < 0 {
		return nil, -1, apperror.ErrPlayerNotFound
	}

	if index != room.TurnIndex {
		return nil, -1, apperror.ErrNotYourTurn
	}

	return room.Players[index], index, nil
}

// StartGame clears the board and hands the first turn to player 0, slot 1.
func StartGame(room *entity.Room) error {
	if room == nil {
		return apperror.ErrRoomNotFound
	}

	if room.Status == entity.StatusPlaying {
		return apperror.ErrGameAlreadyStarted
	}

	if len(room.Players) == 0 {
		return apperror.ErrNotConfigured
	}

	for _, player := range room.Players {
		if !player.IsConfigured(room.Mode) {
			return apperror.ErrNotConfigured
		}
	}

	room.Board = entity.NewBoard(room.BoardSize)
	room.Status = entity.StatusPlaying
	room.TurnIndex = 0
	room.TurnSlot = 1
	room.RoundCount = 1
	room.WinnerIndex = entity.NoWinner
	room.Ability = nil
	room.LastMove = nil

	for _, player := range room.Players {
		player.ResetTurn()
	}

	return nil
}

// RestartGame returns the room to the lobby. Colors, roles and wins are kept;
// humans have to ready up again.
func RestartGame(room *entity.Room) error {
	if room == nil {
		return apperror.ErrRoomNotFound
	}

	room.Board = entity.NewBoard(room.BoardSize)
	room.Status = entity.StatusLobby
	room.TurnIndex = 0
	room.TurnSlot = 1
	room.RoundCount = 0
	room.WinnerIndex = entity.NoWinner
	room.Ability = nil
	room.LastMove = nil

	for _, player := range room.Players {
		player.ResetTurn()
		player.Ready = player.IsAI && player.IsConfigured(room.Mode)
	}

	return nil
}

// PlacePiece places the active token of playerID at (x, y).
func PlacePiece(room *entity.Room, playerID string, x, y int) (Outcome, error) {
	out := none()

	player, index, err := authorize(room, playerID)
	if err != nil {
		return out, err
	}

	if push, ok := room.Ability.(*entity.PushSession); ok && push.Step == entity.PushTargetOffered {
		return out, apperror.ErrPushPending
	}

	role := room.ActiveRole()
	rule := roles.For(role)
	token := room.ActiveToken()

	if player.PlacedThisTurn >= rule.MovesPerTurn() {
		return out, apperror.ErrTurnBudgetSpent
	}

	if !room.Board.InBounds(x, y) {
		return out, apperror.ErrOutOfBounds
	}

	previous := room.Board.At(x, y)
	if err = rule.Place(room.Board, x, y, token, index, player.PlacedThisTurn); err != nil {
		return out, fmt.Errorf("failed to place %s piece: %w", role, err)
	}

	at := entity.Point{X: x, Y: y}
	out.Placed = &at

	// a legal placement abandons an unfinished swap or relocate
	switch session := room.Ability.(type) {
	case *entity.SwapSession, *entity.RelocateSession:
		out.Cancelled = &Cancellation{Ability: session.Kind(), Reason: "a piece was placed"}
		room.Ability = nil
	}

	if rule.CanUndo() && player.PlacedThisTurn == 0 {
		room.LastMove = &entity.MoveRecord{
			PlayerIndex: index,
			PlayerID:    player.ID,
			Slot:        room.ActiveSlot(),
			Role:        role,
			TurnIndex:   room.TurnIndex,
			RoundCount:  room.RoundCount,
			At:          at,
			Previous:    previous,
		}
	} else {
		room.LastMove = nil
	}

	player.PlacedThisTurn++

	if CheckWinner(room.Board, x, y, token, rule.WinLength(room.TargetN)) {
		endGame(room, index, &out)
		return out, nil
	}

	if role == entity.RoleJeice {
		targets := PushTargets(room.Board, at, token)
		if len(targets) == 0 {
			room.Ability = nil
			advanceTurn(room)
			out.TurnAdvanced = true

			return out, nil
		}

		room.Ability = &entity.PushSession{
			OwnerIndex: index,
			Step:       entity.PushTargetOffered,
			Placed:     at,
			Targets:    targets,
		}
		out.Targets = targets

		return out, nil
	}

	if player.PlacedThisTurn >= rule.MovesPerTurn() {
		advanceTurn(room)
		out.TurnAdvanced = true
	}

	return out, nil
}

// UndoMove retracts the first move of an undo-capable role's turn.
func UndoMove(room *entity.Room, playerID string) (Outcome, error) {
	out := none()

	player, index, err := authorize(room, playerID)
	if err != nil {
		return out, err
	}

	role := room.ActiveRole()
	if !roles.For(role).CanUndo() {
		return out, apperror.ErrUndoNotAllowed
	}

	if room.Ability != nil {
		return out, apperror.ErrAbilityActive
	}

	move := room.LastMove
	if move == nil || player.PlacedThisTurn != 1 {
		return out, apperror.ErrNothingToUndo
	}

	if move.PlayerIndex != index || move.PlayerID != player.ID || move.TurnIndex != room.TurnIndex ||
		move.Slot != room.ActiveSlot() || move.Role != role || move.RoundCount != room.RoundCount {
		room.LastMove = nil
		return out, apperror.ErrUndoStale
	}

	room.Board.Set(move.At.X, move.At.Y, move.Previous)
	player.PlacedThisTurn = 0
	room.LastMove = nil

	at := move.At
	out.Undone = &at

	return out, nil
}

// TurnInfo describes the current turn for observers.
func TurnInfo(room *entity.Room) entity.TurnNotice {
	notice := entity.TurnNotice{
		PlayerIndex: room.TurnIndex,
		Slot:        room.ActiveSlot(),
		RoundCount:  room.RoundCount,
	}

	player := room.CurrentPlayer()
	if player == nil {
		return notice
	}

	role := room.ActiveRole()
	rule := roles.For(role)

	notice.PlayerID = player.ID
	notice.Role = role
	notice.RoleName = role.String()
	notice.RemainingMoves = max(rule.MovesPerTurn()-player.PlacedThisTurn, 0)
	notice.CanUndo = rule.CanUndo() && player.PlacedThisTurn == 1 && room.Ability == nil && room.LastMove != nil

	return notice
}

// advanceTurn passes the turn. In dual mode the slot flips each time the
// turn order wraps around.
func advanceTurn(room *entity.Room) {
	if current := room.CurrentPlayer(); current != nil {
		current.ResetTurn()
	}

	room.Ability = nil
	room.LastMove = nil

	room.TurnIndex++
	if room.TurnIndex >= len(room.Players) {
		room.TurnIndex = 0
		if room.Mode == entity.ModeDual {
			room.TurnSlot = 3 - room.ActiveSlot()
		}
	}

	if next := room.CurrentPlayer(); next != nil {
		next.ResetTurn()
	}

	room.RoundCount++
}

func endGame(room *entity.Room, winner int, out *Outcome) {
	room.Status = entity.StatusEnded
	room.WinnerIndex = winner
	room.Ability = nil
	room.LastMove = nil
	room.Players[winner].Wins++

	out.Won = true
	out.WinnerIndex = winner
}

// settle ends the game if any piece on the board completes a line.
func settle(room *entity.Room, out *Outcome) bool {
	winner, ok := CheckAnyWinner(room)
	if ok {
		endGame(room, winner, out)
	}

	return ok
}
