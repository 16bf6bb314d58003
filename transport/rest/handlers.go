package rest

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/rocketscienceinc/ginyuforce-backend/internal/apperror"
	"github.com/rocketscienceinc/ginyuforce-backend/internal/entity"
	"github.com/rocketscienceinc/ginyuforce-backend/internal/repository"
)

type Handlers interface {
	PingHandler(w http.ResponseWriter, _ *http.Request)

	GetRoom(w http.ResponseWriter, r *http.Request)
}

// SnapshotFunc looks up the public snapshot of a room.
type SnapshotFunc func(ctx context.Context, roomID string) (*entity.RoomSnapshot, error)

type handlers struct {
	logger   *slog.Logger
	snapshot SnapshotFunc
}

func NewHandlers(logger *slog.Logger, snapshot SnapshotFunc) Handlers {
	return &handlers{
		logger:   logger,
		snapshot: snapshot,
	}
}

func (that *handlers) PingHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("pong")); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
}

func (that *handlers) GetRoom(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "GetRoom")

	roomID := r.PathValue("id")

	snapshot, err := that.snapshot(r.Context(), roomID)
	if errors.Is(err, repository.ErrSnapshotNotFound) || errors.Is(err, apperror.ErrRoomNotFound) {
		http.Error(w, "room not found", http.StatusNotFound)
		return
	}

	if err != nil {
		log.Error("failed to get room snapshot", "roomID", roomID, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err = json.NewEncoder(w).Encode(snapshot); err != nil {
		log.Error("failed to encode room snapshot", "error", err)
	}
}
