package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/ginyuforce-backend/internal/apperror"
	"github.com/rocketscienceinc/ginyuforce-backend/internal/entity"
	"github.com/rocketscienceinc/ginyuforce-backend/internal/gomoku"
	"github.com/rocketscienceinc/ginyuforce-backend/internal/pkg"
)

const (
	sessionCookie = "user_session"

	writeWait  = 5 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10

	// actionConnected greets a new connection with its player id.
	actionConnected = "connected"
)

type gameManager interface {
	CreateRoom(ctx context.Context, hostID, name string, mode entity.Mode, maxPlayers int) (*entity.RoomSnapshot, error)
	JoinRoom(ctx context.Context, roomID, playerID, name string) (*entity.RoomSnapshot, error)
	LeaveRoom(ctx context.Context, roomID, playerID string) error
	Disconnect(ctx context.Context, playerID string) error
	PickColor(ctx context.Context, roomID, playerID string, color int) (*entity.RoomSnapshot, error)
	PickRole(ctx context.Context, roomID, playerID string, slot int, role entity.Role) (*entity.RoomSnapshot, error)
	ReadyUp(ctx context.Context, roomID, playerID string) (*entity.RoomSnapshot, error)
	RandomRole(ctx context.Context, roomID, playerID, targetID string, slot int) (*entity.RoomSnapshot, error)
	AddAI(ctx context.Context, roomID, playerID string) (*entity.RoomSnapshot, error)
	SetAIColor(ctx context.Context, roomID, playerID, targetID string, color int) (*entity.RoomSnapshot, error)
	SetAIRole(ctx context.Context, roomID, playerID, targetID string, slot int, role entity.Role) (*entity.RoomSnapshot, error)
	RandomizeAI(ctx context.Context, roomID, playerID, targetID string) (*entity.RoomSnapshot, error)
	KickPlayer(ctx context.Context, roomID, playerID, targetID string) (*entity.RoomSnapshot, error)
	StartGame(ctx context.Context, roomID, playerID string) (*entity.RoomSnapshot, error)
	RestartGame(ctx context.Context, roomID, playerID string) (*entity.RoomSnapshot, error)

	PlacePiece(ctx context.Context, roomID, playerID string, x, y int) (gomoku.Outcome, error)
	UndoMove(ctx context.Context, roomID, playerID string) (gomoku.Outcome, error)
	StartSwap(ctx context.Context, roomID, playerID string) (gomoku.Outcome, error)
	SelectSwapSource(ctx context.Context, roomID, playerID string, x, y int) (gomoku.Outcome, error)
	SelectSwapTarget(ctx context.Context, roomID, playerID string, x, y int) (gomoku.Outcome, error)
	CancelSwap(ctx context.Context, roomID, playerID string) (gomoku.Outcome, error)
	StartRelocate(ctx context.Context, roomID, playerID string) (gomoku.Outcome, error)
	SelectRelocateSource(ctx context.Context, roomID, playerID string, x, y int) (gomoku.Outcome, error)
	SelectRelocateTarget(ctx context.Context, roomID, playerID string, x, y int) (gomoku.Outcome, error)
	MoveRelocatedPiece(ctx context.Context, roomID, playerID string, x, y int) (gomoku.Outcome, error)
	CancelRelocate(ctx context.Context, roomID, playerID string) (gomoku.Outcome, error)
	StartPush(ctx context.Context, roomID, playerID string) (gomoku.Outcome, error)
	SelectPushTarget(ctx context.Context, roomID, playerID string, x, y int) (gomoku.Outcome, error)
	CancelPush(ctx context.Context, roomID, playerID string) (gomoku.Outcome, error)
}

type handler func(ctx context.Context, playerID string, req *Payload) (*Response, error)

type Server struct {
	logger  *slog.Logger
	manager gameManager
	hub     *Hub

	upgrader websocket.Upgrader
	handlers map[string]handler
}

func New(logger *slog.Logger, manager gameManager, hub *Hub) *Server {
	server := &Server{
		logger:  logger,
		manager: manager,
		hub:     hub,

		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}

	server.handlers = server.routes()

	return server
}

// Start - starts WebSocket server. It stops when ctx is done.
func (that *Server) Start(ctx context.Context, port string) error {
	mux := http.NewServeMux()
	mux.Handle("/ws", that.Handler(ctx))

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       30 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			that.logger.Error("failed to shutdown websocket server", "error", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Handler upgrades requests to WebSocket connections bound to a player session.
func (that *Server) Handler(ctx context.Context) http.HandlerFunc {
	return func(writer http.ResponseWriter, req *http.Request) {
		that.serveConnection(ctx, writer, req)
	}
}

func (that *Server) serveConnection(ctx context.Context, writer http.ResponseWriter, req *http.Request) {
	log := that.logger.With("method", "serveConnection")

	playerID, header := that.session(req)

	conn, err := that.upgrader.Upgrade(writer, req, header)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}
	defer conn.Close()

	log = log.With("playerID", playerID)
	log.Info("WebSocket connection established")

	c := newClient(playerID)
	that.hub.register(c)

	connCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	go that.writePump(connCtx, cancel, conn, c)

	greeting, err := encode(actionConnected, "", Response{OK: true, PlayerID: playerID})
	if err == nil {
		that.hub.deliver(connCtx, playerID, greeting)
	}

	that.readPump(connCtx, conn, c)

	if that.hub.unregister(c) {
		if err = that.manager.Disconnect(context.WithoutCancel(ctx), playerID); err != nil {
			log.Error("failed to disconnect player", "error", err)
		}
	}

	log.Info("WebSocket connection closed")
}

// session reads the player id from the session cookie, issuing a new one when absent.
func (that *Server) session(req *http.Request) (string, http.Header) {
	cookie, err := req.Cookie(sessionCookie)
	if err == nil && cookie.Value != "" {
		return cookie.Value, nil
	}

	cookie = &http.Cookie{
		Name:    sessionCookie,
		Value:   pkg.NewPlayerID(),
		Expires: time.Now().Add(24 * time.Hour),
		Path:    "/ws",
	}

	header := http.Header{}
	header.Add("Set-Cookie", cookie.String())

	return cookie.Value, header
}

func (that *Server) readPump(ctx context.Context, conn *websocket.Conn, c *client) {
	log := that.logger.With("method", "readPump", "playerID", c.playerID)

	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, body, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn("connection lost", "error", err)
			}
			return
		}

		var message Message
		if err = json.Unmarshal(body, &message); err != nil {
			log.Warn("failed to unmarshal message", "error", err)
			continue
		}

		that.dispatch(ctx, c, &message)
	}
}

func (that *Server) writePump(ctx context.Context, cancel context.CancelFunc, conn *websocket.Conn, c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		cancel()
		conn.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case message, ok := <-c.send:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "replaced"))
				return
			}

			if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// dispatch runs the handler of message and queues its reply.
func (that *Server) dispatch(ctx context.Context, c *client, message *Message) {
	log := that.logger.With("method", "dispatch", "action", message.Action, "playerID", c.playerID)

	resp := that.handle(ctx, c.playerID, message)

	if !resp.OK {
		log.Debug("action rejected", "message", resp.Message)
	}

	reply, err := encode(message.Action, message.ID, resp)
	if err != nil {
		log.Error("failed to encode response", "error", err)
		return
	}

	that.hub.deliver(ctx, c.playerID, reply)
}

func (that *Server) handle(ctx context.Context, playerID string, message *Message) *Response {
	log := that.logger.With("method", "handle", "action", message.Action)

	route, ok := that.handlers[message.Action]
	if !ok {
		return &Response{Message: "unknown action"}
	}

	var req Payload
	if len(message.Payload) > 0 {
		if err := json.Unmarshal(message.Payload, &req); err != nil {
			return &Response{Message: "invalid payload"}
		}
	}

	resp, err := route(ctx, playerID, &req)
	if err != nil {
		if !apperror.IsViolation(err) {
			log.Error("failed to handle action", "error", err)
		}

		if resp == nil {
			resp = &Response{}
		}
		resp.OK = false
		resp.Message = apperror.Message(err)

		return resp
	}

	resp.OK = true

	return resp
}
