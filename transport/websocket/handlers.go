package websocket

import (
	"context"

	"github.com/rocketscienceinc/ginyuforce-backend/internal/entity"
	"github.com/rocketscienceinc/ginyuforce-backend/internal/gomoku"
)

type (
	playOp  func(ctx context.Context, roomID, playerID string) (gomoku.Outcome, error)
	pointOp func(ctx context.Context, roomID, playerID string, x, y int) (gomoku.Outcome, error)
	roomOp  func(ctx context.Context, roomID, playerID string) (*entity.RoomSnapshot, error)
)

func (that *Server) routes() map[string]handler {
	return map[string]handler{
		"room:create": that.handleCreateRoom,
		"room:join":   that.handleJoinRoom,
		"room:leave":  that.handleLeaveRoom,
		"room:color":  that.handlePickColor,
		"room:role":   that.handlePickRole,
		"room:ready":  room(that.manager.ReadyUp),
		"room:kick":   that.handleKick,

		"room:randomRole": that.handleRandomRole,
		"room:addAI":      room(that.manager.AddAI),
		"room:aiColor":    that.handleSetAIColor,
		"room:aiRole":     that.handleSetAIRole,
		"room:aiRandom":   that.handleRandomizeAI,

		"game:start":   room(that.manager.StartGame),
		"game:restart": room(that.manager.RestartGame),
		"game:place":   point(that.manager.PlacePiece),
		"game:undo":    play(that.manager.UndoMove),

		"swap:start":  play(that.manager.StartSwap),
		"swap:source": point(that.manager.SelectSwapSource),
		"swap:target": point(that.manager.SelectSwapTarget),
		"swap:cancel": play(that.manager.CancelSwap),

		"relocate:start":  play(that.manager.StartRelocate),
		"relocate:source": point(that.manager.SelectRelocateSource),
		"relocate:target": point(that.manager.SelectRelocateTarget),
		"relocate:move":   point(that.manager.MoveRelocatedPiece),
		"relocate:cancel": play(that.manager.CancelRelocate),

		"push:start":  play(that.manager.StartPush),
		"push:target": point(that.manager.SelectPushTarget),
		"push:cancel": play(that.manager.CancelPush),
	}
}

func (that *Server) handleCreateRoom(ctx context.Context, playerID string, req *Payload) (*Response, error) {
	snapshot, err := that.manager.CreateRoom(ctx, playerID, req.Name, req.Mode, req.MaxPlayers)
	if err != nil {
		return nil, err
	}

	that.logger.Info("room created by player", "method", "handleCreateRoom", "roomID", snapshot.ID, "playerID", playerID)

	return &Response{Room: snapshot}, nil
}

func (that *Server) handleJoinRoom(ctx context.Context, playerID string, req *Payload) (*Response, error) {
	snapshot, err := that.manager.JoinRoom(ctx, req.RoomID, playerID, req.Name)
	if err != nil {
		return nil, err
	}

	return &Response{Room: snapshot}, nil
}

func (that *Server) handleLeaveRoom(ctx context.Context, playerID string, req *Payload) (*Response, error) {
	if err := that.manager.LeaveRoom(ctx, req.RoomID, playerID); err != nil {
		return nil, err
	}

	return &Response{}, nil
}

func (that *Server) handlePickColor(ctx context.Context, playerID string, req *Payload) (*Response, error) {
	snapshot, err := that.manager.PickColor(ctx, req.RoomID, playerID, req.Color)
	if err != nil {
		return nil, err
	}

	return &Response{Room: snapshot}, nil
}

func (that *Server) handlePickRole(ctx context.Context, playerID string, req *Payload) (*Response, error) {
	snapshot, err := that.manager.PickRole(ctx, req.RoomID, playerID, slotOrFirst(req.Slot), req.Role)
	if err != nil {
		return nil, err
	}

	return &Response{Room: snapshot}, nil
}

// handleRandomRole draws for the caller unless a target is named.
func (that *Server) handleRandomRole(ctx context.Context, playerID string, req *Payload) (*Response, error) {
	targetID := req.TargetID
	if targetID == "" {
		targetID = playerID
	}

	snapshot, err := that.manager.RandomRole(ctx, req.RoomID, playerID, targetID, slotOrFirst(req.Slot))
	if err != nil {
		return nil, err
	}

	return &Response{Room: snapshot}, nil
}

func (that *Server) handleSetAIColor(ctx context.Context, playerID string, req *Payload) (*Response, error) {
	snapshot, err := that.manager.SetAIColor(ctx, req.RoomID, playerID, req.TargetID, req.Color)
	if err != nil {
		return nil, err
	}

	return &Response{Room: snapshot}, nil
}

func (that *Server) handleSetAIRole(ctx context.Context, playerID string, req *Payload) (*Response, error) {
	snapshot, err := that.manager.SetAIRole(ctx, req.RoomID, playerID, req.TargetID, slotOrFirst(req.Slot), req.Role)
	if err != nil {
		return nil, err
	}

	return &Response{Room: snapshot}, nil
}

func (that *Server) handleRandomizeAI(ctx context.Context, playerID string, req *Payload) (*Response, error) {
	snapshot, err := that.manager.RandomizeAI(ctx, req.RoomID, playerID, req.TargetID)
	if err != nil {
		return nil, err
	}

	return &Response{Room: snapshot}, nil
}

func (that *Server) handleKick(ctx context.Context, playerID string, req *Payload) (*Response, error) {
	snapshot, err := that.manager.KickPlayer(ctx, req.RoomID, playerID, req.TargetID)
	if err != nil {
		return nil, err
	}

	return &Response{Room: snapshot}, nil
}

// slotOrFirst defaults a missing slot to 1.
func slotOrFirst(slot int) int {
	if slot == 0 {
		return 1
	}

	return slot
}

func room(op roomOp) handler {
	return func(ctx context.Context, playerID string, req *Payload) (*Response, error) {
		snapshot, err := op(ctx, req.RoomID, playerID)
		if err != nil {
			return nil, err
		}

		return &Response{Room: snapshot}, nil
	}
}

// play and point reply with the outcome even on failure, so a cancelled
// ability still reaches the client.
func play(op playOp) handler {
	return func(ctx context.Context, playerID string, req *Payload) (*Response, error) {
		out, err := op(ctx, req.RoomID, playerID)

		return &Response{Outcome: newOutcomeView(out)}, err
	}
}

func point(op pointOp) handler {
	return func(ctx context.Context, playerID string, req *Payload) (*Response, error) {
		out, err := op(ctx, req.RoomID, playerID, req.X, req.Y)

		return &Response{Outcome: newOutcomeView(out)}, err
	}
}
