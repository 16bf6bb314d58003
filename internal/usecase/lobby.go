package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rocketscienceinc/ginyuforce-backend/internal/apperror"
	"github.com/rocketscienceinc/ginyuforce-backend/internal/entity"
	"github.com/rocketscienceinc/ginyuforce-backend/internal/gomoku"
	"github.com/rocketscienceinc/ginyuforce-backend/internal/pkg"
)

const (
	roomCodeAttempts = 50
	aiName           = "AI"
)

// CreateRoom opens a lobby hosted by hostID.
func (that *GameManager) CreateRoom(ctx context.Context, hostID, name string, mode entity.Mode, maxPlayers int) (*entity.RoomSnapshot, error) {
	log := that.logger.With("method", "CreateRoom", "playerID", hostID)

	name, err := validateName(name)
	if err != nil {
		return nil, err
	}

	if maxPlayers <= 0 || maxPlayers > that.conf.MaxPlayers {
		maxPlayers = that.conf.MaxPlayers
	}

	for attempt := 0; attempt < roomCodeAttempts; attempt++ {
		room := entity.NewRoom(that.newRoomID(), hostID, mode, that.conf.BoardSize, that.conf.TargetN, maxPlayers)
		room.Players = append(room.Players, entity.NewPlayer(hostID, name))
		room.LastActiveAt = that.now()

		unlock := that.lock(room.ID)

		err = that.rooms.Create(ctx, room)
		if errors.Is(err, apperror.ErrRoomExists) {
			unlock()
			continue
		}

		if err != nil {
			unlock()
			return nil, fmt.Errorf("failed to create room: %w", err)
		}

		snapshot := room.Snapshot()
		that.notifier.Send(ctx, hostID, entity.EventRoomUpdated, snapshot)
		that.saveSnapshot(ctx, snapshot)

		unlock()

		log.Info("room created", "roomID", room.ID, "mode", room.Mode)

		return snapshot, nil
	}

	return nil, apperror.ErrNoFreeRoom
}

// JoinRoom adds playerID to a lobby. A disconnected player may take their
// seat back by name at any time.
func (that *GameManager) JoinRoom(ctx context.Context, roomID, playerID, name string) (*entity.RoomSnapshot, error) {
	name, err := validateName(name)
	if err != nil {
		return nil, err
	}

	return that.lobby(ctx, "JoinRoom", roomID, func(room *entity.Room) error {
		if existing := room.PlayerByName(name); existing != nil {
			return rejoin(room, existing, playerID)
		}

		if player := room.PlayerByID(playerID); player != nil {
			player.Connected = true
			return nil
		}

		if room.Status != entity.StatusLobby {
			return apperror.ErrGameAlreadyStarted
		}

		if len(room.Players) >= room.MaxPlayers {
			return apperror.ErrRoomFull
		}

		room.Players = append(room.Players, entity.NewPlayer(playerID, name))

		return nil
	})
}

func rejoin(room *entity.Room, existing *entity.Player, playerID string) error {
	if existing.IsAI {
		return apperror.ErrNameReserved
	}

	if existing.ID == playerID {
		existing.Connected = true
		return nil
	}

	if existing.Connected {
		return apperror.ErrNameTaken
	}

	if room.HostID == existing.ID {
		room.HostID = playerID
	}

	existing.ID = playerID
	existing.Connected = true

	return nil
}

// LeaveRoom removes the player from a lobby, or marks them disconnected
// during a game. The room is closed once no human seat is left.
func (that *GameManager) LeaveRoom(ctx context.Context, roomID, playerID string) error {
	log := that.logger.With("method", "LeaveRoom", "roomID", roomID, "playerID", playerID)

	unlock := that.lock(roomID)

	room, err := that.rooms.GetByID(ctx, roomID)
	if err != nil {
		unlock()
		return fmt.Errorf("failed to get room: %w", err)
	}

	index := room.PlayerIndex(playerID)
	if index < 0 {
		unlock()
		return apperror.ErrPlayerNotFound
	}

	if room.Status == entity.StatusLobby {
		room.Players = append(room.Players[:index], room.Players[index+1:]...)
	} else {
		room.Players[index].Connected = false
	}

	transferHost(room)
	room.LastActiveAt = that.now()

	if !hasHuman(room) {
		that.forgetRoom(ctx, roomID)
		unlock()
		log.Info("room closed")

		return nil
	}

	snapshot := room.Snapshot()
	that.notifier.Broadcast(ctx, room.PlayerIDs(), entity.EventRoomUpdated, snapshot)
	that.saveSnapshot(ctx, snapshot)
	unlock()

	return nil
}

// Disconnect marks playerID offline in every room it sits in. The seat is
// kept so the player can rejoin by name until the janitor closes the room.
func (that *GameManager) Disconnect(ctx context.Context, playerID string) error {
	rooms, err := that.rooms.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list rooms: %w", err)
	}

	for _, candidate := range rooms {
		_, err = that.lobby(ctx, "Disconnect", candidate.ID, func(room *entity.Room) error {
			player := room.PlayerByID(playerID)
			if player == nil {
				return apperror.ErrPlayerNotFound
			}

			player.Connected = false
			transferHost(room)

			return nil
		})
		if err != nil && !errors.Is(err, apperror.ErrPlayerNotFound) && !errors.Is(err, apperror.ErrRoomNotFound) {
			return err
		}
	}

	return nil
}

func (that *GameManager) PickColor(ctx context.Context, roomID, playerID string, color int) (*entity.RoomSnapshot, error) {
	return that.lobby(ctx, "PickColor", roomID, func(room *entity.Room) error {
		player, err := lobbyPlayer(room, playerID)
		if err != nil {
			return err
		}

		return setColor(player, color)
	})
}

// PickRole sets the role of one slot. In single mode the slot is ignored.
func (that *GameManager) PickRole(ctx context.Context, roomID, playerID string, slot int, role entity.Role) (*entity.RoomSnapshot, error) {
	return that.lobby(ctx, "PickRole", roomID, func(room *entity.Room) error {
		player, err := lobbyPlayer(room, playerID)
		if err != nil {
			return err
		}

		return setRole(room, player, slot, role)
	})
}

// RandomRole draws a role for one slot of targetID, never the role of its
// other slot. Players may draw for themselves, the host for anyone.
func (that *GameManager) RandomRole(ctx context.Context, roomID, playerID, targetID string, slot int) (*entity.RoomSnapshot, error) {
	return that.lobby(ctx, "RandomRole", roomID, func(room *entity.Room) error {
		if targetID != playerID && room.HostID != playerID {
			return apperror.ErrNotHost
		}

		target, err := lobbyPlayer(room, targetID)
		if err != nil {
			return err
		}

		exclude := entity.RoleNone
		if room.Mode == entity.ModeDual {
			switch slot {
			case 1:
				exclude = target.Role2
			case 2:
				exclude = target.Role1
			default:
				return apperror.ErrInvalidSlot
			}
		}

		if err = setRole(room, target, slot, that.randomRole(exclude)); err != nil {
			return err
		}

		if target.IsAI {
			target.Ready = target.IsConfigured(room.Mode)
		}

		return nil
	})
}

func (that *GameManager) ReadyUp(ctx context.Context, roomID, playerID string) (*entity.RoomSnapshot, error) {
	return that.lobby(ctx, "ReadyUp", roomID, func(room *entity.Room) error {
		player, err := lobbyPlayer(room, playerID)
		if err != nil {
			return err
		}

		if player.ColorIndex == entity.NoColor {
			return apperror.ErrColorRequired
		}

		if !player.IsConfigured(room.Mode) {
			return apperror.ErrRoleRequired
		}

		player.Ready = true

		return nil
	})
}

// AddAI seats one AI player with a random color and roles. Host only.
func (that *GameManager) AddAI(ctx context.Context, roomID, playerID string) (*entity.RoomSnapshot, error) {
	return that.lobby(ctx, "AddAI", roomID, func(room *entity.Room) error {
		if err := hostInLobby(room, playerID); err != nil {
			return err
		}

		for _, player := range room.Players {
			if player.IsAI {
				return apperror.ErrAIAlreadyExists
			}
		}

		if len(room.Players) >= room.MaxPlayers {
			return apperror.ErrRoomFull
		}

		ai := entity.NewPlayer(pkg.NewAIID(room.ID, len(room.Players)), aiName)
		ai.IsAI = true
		that.randomizeAI(room, ai)
		room.Players = append(room.Players, ai)

		return nil
	})
}

// SetAIColor picks the color of the AI seat targetID. Host only.
func (that *GameManager) SetAIColor(ctx context.Context, roomID, playerID, targetID string, color int) (*entity.RoomSnapshot, error) {
	return that.lobby(ctx, "SetAIColor", roomID, func(room *entity.Room) error {
		ai, err := lobbyAI(room, playerID, targetID)
		if err != nil {
			return err
		}

		return setColor(ai, color)
	})
}

// SetAIRole picks one role of the AI seat targetID. Host only.
func (that *GameManager) SetAIRole(ctx context.Context, roomID, playerID, targetID string, slot int, role entity.Role) (*entity.RoomSnapshot, error) {
	return that.lobby(ctx, "SetAIRole", roomID, func(room *entity.Room) error {
		ai, err := lobbyAI(room, playerID, targetID)
		if err != nil {
			return err
		}

		if err = setRole(room, ai, slot, role); err != nil {
			return err
		}

		ai.Ready = ai.IsConfigured(room.Mode)

		return nil
	})
}

// RandomizeAI draws a new color and roles for the AI seat. An empty targetID
// selects the room's AI. Host only.
func (that *GameManager) RandomizeAI(ctx context.Context, roomID, playerID, targetID string) (*entity.RoomSnapshot, error) {
	return that.lobby(ctx, "RandomizeAI", roomID, func(room *entity.Room) error {
		if targetID == "" {
			for _, player := range room.Players {
				if player.IsAI {
					targetID = player.ID
					break
				}
			}
		}

		ai, err := lobbyAI(room, playerID, targetID)
		if err != nil {
			return err
		}

		that.randomizeAI(room, ai)

		return nil
	})
}

// KickPlayer removes another player or the AI from the lobby. Host only.
func (that *GameManager) KickPlayer(ctx context.Context, roomID, playerID, targetID string) (*entity.RoomSnapshot, error) {
	snapshot, err := that.lobby(ctx, "KickPlayer", roomID, func(room *entity.Room) error {
		if err := hostInLobby(room, playerID); err != nil {
			return err
		}

		if targetID == playerID {
			return apperror.ErrCannotKickSelf
		}

		index := room.PlayerIndex(targetID)
		if index < 0 {
			return apperror.ErrPlayerNotFound
		}

		room.Players = append(room.Players[:index], room.Players[index+1:]...)

		return nil
	})
	if err != nil {
		return nil, err
	}

	that.notifier.Send(ctx, targetID, entity.EventRoomUpdated, snapshot)

	return snapshot, nil
}

// StartGame starts play once every player is configured and every human is ready. Host only.
func (that *GameManager) StartGame(ctx context.Context, roomID, playerID string) (*entity.RoomSnapshot, error) {
	log := that.logger.With("method", "StartGame", "roomID", roomID, "playerID", playerID)

	unlock := that.lock(roomID)

	room, err := that.rooms.GetByID(ctx, roomID)
	if err != nil {
		unlock()
		return nil, fmt.Errorf("failed to get room: %w", err)
	}

	if err = checkStart(room, playerID); err != nil {
		unlock()
		return nil, fmt.Errorf("StartGame failed: %w", err)
	}

	if err = gomoku.StartGame(room); err != nil {
		unlock()
		return nil, fmt.Errorf("StartGame failed: %w", err)
	}

	room.LastActiveAt = that.now()
	snapshot := room.Snapshot()
	ids := room.PlayerIDs()
	that.notifier.Broadcast(ctx, ids, entity.EventRoomUpdated, snapshot)
	that.notifier.Broadcast(ctx, ids, entity.EventTurnChanged, gomoku.TurnInfo(room))
	that.saveSnapshot(ctx, snapshot)

	unlock()

	that.clearPendingAI(roomID)
	that.maybeScheduleAI(roomID)
	log.Info("game started", "players", len(ids))

	return snapshot, nil
}

func checkStart(room *entity.Room, playerID string) error {
	if room.HostID != playerID {
		return apperror.ErrNotHost
	}

	if room.Status == entity.StatusPlaying {
		return apperror.ErrGameAlreadyStarted
	}

	for _, player := range room.Players {
		if !player.IsConfigured(room.Mode) {
			return apperror.ErrNotConfigured
		}

		if player.IsAI {
			player.Ready = true
		}
	}

	for _, player := range room.Players {
		if !player.Ready {
			return apperror.ErrPlayersNotReady
		}
	}

	return nil
}

// RestartGame returns the room to the lobby at once.
func (that *GameManager) RestartGame(ctx context.Context, roomID, playerID string) (*entity.RoomSnapshot, error) {
	snapshot, err := that.lobby(ctx, "RestartGame", roomID, func(room *entity.Room) error {
		if room.PlayerByID(playerID) == nil {
			return apperror.ErrPlayerNotFound
		}

		return gomoku.RestartGame(room)
	})
	if err != nil {
		return nil, err
	}

	that.clearPendingAI(roomID)

	return snapshot, nil
}

// RunJanitor closes rooms that have had no connected human and no activity
// for longer than ttl. It blocks until ctx is done.
func (that *GameManager) RunJanitor(ctx context.Context, ttl, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			that.Sweep(ctx, ttl)
		}
	}
}

// Sweep runs one janitor pass and returns the number of closed rooms.
func (that *GameManager) Sweep(ctx context.Context, ttl time.Duration) int {
	log := that.logger.With("method", "Sweep")

	rooms, err := that.rooms.List(ctx)
	if err != nil {
		log.Error("failed to list rooms", "error", err)
		return 0
	}

	closed := 0
	for _, candidate := range rooms {
		unlock := that.lock(candidate.ID)
		idle := !candidate.HasConnectedHuman() && that.now().Sub(candidate.LastActiveAt) > ttl
		if idle {
			that.forgetRoom(ctx, candidate.ID)
		}
		unlock()

		if idle {
			closed++
			log.Info("idle room closed", "roomID", candidate.ID)
		}
	}

	return closed
}

// lobby runs a room-level operation under the room lock and broadcasts the new room state.
func (that *GameManager) lobby(ctx context.Context, method, roomID string, op func(room *entity.Room) error) (*entity.RoomSnapshot, error) {
	log := that.logger.With("method", method, "roomID", roomID)

	unlock := that.lock(roomID)

	room, err := that.rooms.GetByID(ctx, roomID)
	if err != nil {
		unlock()
		return nil, fmt.Errorf("failed to get room: %w", err)
	}

	if err = op(room); err != nil {
		unlock()
		log.Debug("operation rejected", "error", err)

		return nil, fmt.Errorf("%s failed: %w", method, err)
	}

	room.LastActiveAt = that.now()
	snapshot := room.Snapshot()
	that.notifier.Broadcast(ctx, room.PlayerIDs(), entity.EventRoomUpdated, snapshot)
	that.saveSnapshot(ctx, snapshot)

	unlock()

	return snapshot, nil
}

func (that *GameManager) randomizeAI(room *entity.Room, ai *entity.Player) {
	that.randMu.Lock()
	defer that.randMu.Unlock()

	used := make(map[int]bool)
	for _, player := range room.Players {
		if player != ai {
			used[player.ColorIndex] = true
		}
	}

	var free []int
	for color := 0; color < entity.ColorCount; color++ {
		if !used[color] {
			free = append(free, color)
		}
	}

	if len(free) > 0 {
		ai.ColorIndex = free[that.rand.Intn(len(free))]
	} else {
		ai.ColorIndex = that.rand.Intn(entity.ColorCount)
	}

	order := that.rand.Perm(len(entity.Roles))
	ai.Role1 = entity.Roles[order[0]]
	ai.Role2 = entity.RoleNone
	if room.Mode == entity.ModeDual {
		ai.Role2 = entity.Roles[order[1]]
	}

	ai.Ready = true
}

// randomRole draws any role except exclude.
func (that *GameManager) randomRole(exclude entity.Role) entity.Role {
	that.randMu.Lock()
	defer that.randMu.Unlock()

	pool := make([]entity.Role, 0, len(entity.Roles))
	for _, role := range entity.Roles {
		if role != exclude {
			pool = append(pool, role)
		}
	}

	return pool[that.rand.Intn(len(pool))]
}

func (that *GameManager) newRoomID() string {
	that.randMu.Lock()
	defer that.randMu.Unlock()

	return pkg.NewRoomID(that.rand)
}

func validateName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", apperror.ErrNameRequired
	}

	if strings.EqualFold(name, aiName) {
		return "", apperror.ErrNameReserved
	}

	return name, nil
}

func lobbyPlayer(room *entity.Room, playerID string) (*entity.Player, error) {
	if room.Status != entity.StatusLobby {
		return nil, apperror.ErrNotInLobby
	}

	player := room.PlayerByID(playerID)
	if player == nil {
		return nil, apperror.ErrPlayerNotFound
	}

	return player, nil
}

// lobbyAI returns the AI seat targetID for a host acting in the lobby.
func lobbyAI(room *entity.Room, playerID, targetID string) (*entity.Player, error) {
	if err := hostInLobby(room, playerID); err != nil {
		return nil, err
	}

	ai := room.PlayerByID(targetID)
	if ai == nil {
		return nil, apperror.ErrPlayerNotFound
	}

	if !ai.IsAI {
		return nil, apperror.ErrNotAI
	}

	return ai, nil
}

func setColor(player *entity.Player, color int) error {
	if color < 0 || color >= entity.ColorCount {
		return apperror.ErrInvalidColor
	}

	player.ColorIndex = color

	return nil
}

// setRole sets the role of one slot. In single mode the slot is ignored.
func setRole(room *entity.Room, player *entity.Player, slot int, role entity.Role) error {
	if !role.Valid() {
		return apperror.ErrUnknownRole
	}

	if room.Mode != entity.ModeDual {
		player.Role1 = role
		return nil
	}

	switch slot {
	case 1:
		if player.Role2 == role {
			return apperror.ErrDuplicateRole
		}
		player.Role1 = role
	case 2:
		if player.Role1 == role {
			return apperror.ErrDuplicateRole
		}
		player.Role2 = role
	default:
		return apperror.ErrInvalidSlot
	}

	return nil
}

func hostInLobby(room *entity.Room, playerID string) error {
	if room.HostID != playerID {
		return apperror.ErrNotHost
	}

	if room.Status != entity.StatusLobby {
		return apperror.ErrNotInLobby
	}

	return nil
}

func hasHuman(room *entity.Room) bool {
	for _, player := range room.Players {
		if !player.IsAI {
			return true
		}
	}

	return false
}

// transferHost hands the room to the first connected human when the host is gone.
func transferHost(room *entity.Room) {
	if host := room.PlayerByID(room.HostID); host != nil && host.Connected {
		return
	}

	for _, player := range room.Players {
		if !player.IsAI && player.Connected {
			room.HostID = player.ID
			return
		}
	}
}
