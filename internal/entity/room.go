package entity

import "time"

type Mode string

const (
	ModeSingle Mode = "SINGLE"
	ModeDual   Mode = "DUAL"
)

type Status string

const (
	StatusLobby   Status = "LOBBY"
	StatusPlaying Status = "PLAYING"
	StatusEnded   Status = "ENDED"
)

// NoWinner is the WinnerIndex of a room nobody has won yet.
const NoWinner = -1

// MoveRecord remembers the first move of an undo-capable turn.
type MoveRecord struct {
	PlayerIndex int
	PlayerID    string
	Slot        int
	Role        Role
	TurnIndex   int
	RoundCount  int
	At          Point
	Previous    int
}

type Room struct {
	ID         string
	HostID     string
	Mode       Mode
	Status     Status
	BoardSize  int
	TargetN    int
	MaxPlayers int

	Board   Board
	Players []*Player

	TurnIndex   int
	TurnSlot    int
	RoundCount  int
	WinnerIndex int

	Ability  AbilitySession
	LastMove *MoveRecord

	LastActiveAt time.Time
}

func NewRoom(id, hostID string, mode Mode, boardSize, targetN, maxPlayers int) *Room {
	if mode != ModeDual {
		mode = ModeSingle
	}

	return &Room{
		ID:          id,
		HostID:      hostID,
		Mode:        mode,
		Status:      StatusLobby,
		BoardSize:   boardSize,
		TargetN:     targetN,
		MaxPlayers:  maxPlayers,
		Board:       NewBoard(boardSize),
		TurnSlot:    1,
		WinnerIndex: NoWinner,
	}
}

// PlayerIndex returns the turn-order index of the player, or -1.
func (that *Room) PlayerIndex(playerID string) int {
	for i, player := range that.Players {
		if player.ID == playerID {
			return i
		}
	}

	return -1
}

func (that *Room) PlayerByID(playerID string) *Player {
	if i := that.PlayerIndex(playerID); i >= 0 {
		return that.Players[i]
	}

	return nil
}

func (that *Room) PlayerByName(name string) *Player {
	for _, player := range that.Players {
		if player.Name == name {
			return player
		}
	}

	return nil
}

func (that *Room) CurrentPlayer() *Player {
	if that.TurnIndex < 0 || that.TurnIndex >= len(that.Players) {
		return nil
	}

	return that.Players[that.TurnIndex]
}

// ActiveSlot is the slot whose token is being placed this turn.
func (that *Room) ActiveSlot() int {
	if that.Mode == ModeDual && that.TurnSlot == 2 {
		return 2
	}

	return 1
}

func (that *Room) ActiveRole() Role {
	player := that.CurrentPlayer()
	if player == nil {
		return RoleNone
	}

	return player.RoleForSlot(that.Mode, that.ActiveSlot())
}

func (that *Room) ActiveToken() int {
	return Token(that.TurnIndex, that.ActiveSlot())
}

// RoleOfToken returns the role that placed the given token.
func (that *Room) RoleOfToken(token int) Role {
	owner, slot := DecodeToken(token)
	if owner < 0 || owner >= len(that.Players) {
		return RoleNone
	}

	return that.Players[owner].RoleForSlot(that.Mode, slot)
}

func (that *Room) PlayerIDs() []string {
	ids := make([]string, 0, len(that.Players))
	for _, player := range that.Players {
		ids = append(ids, player.ID)
	}

	return ids
}

// HasConnectedHuman reports whether any non-AI player is still connected.
func (that *Room) HasConnectedHuman() bool {
	for _, player := range that.Players {
		if !player.IsAI && player.Connected {
			return true
		}
	}

	return false
}

func (that *Room) Clone() *Room {
	room := *that
	room.Board = that.Board.Clone()

	room.Players = make([]*Player, len(that.Players))
	for i, player := range that.Players {
		p := *player
		room.Players[i] = &p
	}

	if that.Ability != nil {
		room.Ability = that.Ability.clone()
	}

	if that.LastMove != nil {
		move := *that.LastMove
		room.LastMove = &move
	}

	return &room
}
