package entity

// Outbound event names.
const (
	EventRoomUpdated      = "roomUpdated"
	EventPlaced           = "placed"
	EventTurnChanged      = "turnChanged"
	EventGameEnded        = "gameEnded"
	EventAbilityCancelled = "abilityCancelled"
)

type TurnNotice struct {
	PlayerIndex    int    `json:"playerIndex"`
	PlayerID       string `json:"playerId"`
	Slot           int    `json:"slot"`
	Role           Role   `json:"role"`
	RoleName       string `json:"roleName"`
	RemainingMoves int    `json:"remainingMoves"`
	CanUndo        bool   `json:"canUndo"`
	RoundCount     int    `json:"roundCount"`
}

type WinNotice struct {
	WinnerIndex int    `json:"winnerIndex"`
	WinnerID    string `json:"winnerId"`
}

type PlacedNotice struct {
	Board      Board      `json:"board"`
	TurnIndex  int        `json:"turnIndex"`
	TurnSlot   int        `json:"turnSlot"`
	RoundCount int        `json:"roundCount"`
	Status     Status     `json:"status"`
	Win        *WinNotice `json:"win,omitempty"`
}

type GameEndedNotice struct {
	WinnerIndex int    `json:"winnerIndex"`
	WinnerID    string `json:"winnerId"`
	WinnerName  string `json:"winnerName"`
	Wins        int    `json:"wins"`
}

type AbilityCancelledNotice struct {
	Ability AbilityKind `json:"ability"`
	Reason  string      `json:"reason"`
}

// RoomSnapshot is the public read model of a room.
type RoomSnapshot struct {
	ID          string      `json:"id"`
	HostID      string      `json:"hostId"`
	Mode        Mode        `json:"mode"`
	Status      Status      `json:"status"`
	BoardSize   int         `json:"boardSize"`
	TargetN     int         `json:"targetN"`
	MaxPlayers  int         `json:"maxPlayers"`
	Board       Board       `json:"board"`
	Players     []Player    `json:"players"`
	TurnIndex   int         `json:"turnIndex"`
	TurnSlot    int         `json:"turnSlot"`
	RoundCount  int         `json:"roundCount"`
	WinnerIndex int         `json:"winnerIndex"`
	Ability     AbilityKind `json:"ability,omitempty"`
}

func (that *Room) Snapshot() *RoomSnapshot {
	snapshot := &RoomSnapshot{
		ID:          that.ID,
		HostID:      that.HostID,
		Mode:        that.Mode,
		Status:      that.Status,
		BoardSize:   that.BoardSize,
		TargetN:     that.TargetN,
		MaxPlayers:  that.MaxPlayers,
		Board:       that.Board.Clone(),
		Players:     make([]Player, 0, len(that.Players)),
		TurnIndex:   that.TurnIndex,
		TurnSlot:    that.TurnSlot,
		RoundCount:  that.RoundCount,
		WinnerIndex: that.WinnerIndex,
	}

	for _, player := range that.Players {
		snapshot.Players = append(snapshot.Players, *player)
	}

	if that.Ability != nil {
		snapshot.Ability = that.Ability.Kind()
	}

	return snapshot
}

func (that *Room) PlacedNotice() *PlacedNotice {
	notice := &PlacedNotice{
		Board:      that.Board.Clone(),
		TurnIndex:  that.TurnIndex,
		TurnSlot:   that.TurnSlot,
		RoundCount: that.RoundCount,
		Status:     that.Status,
	}

	if that.WinnerIndex != NoWinner && that.Status == StatusEnded {
		notice.Win = &WinNotice{
			WinnerIndex: that.WinnerIndex,
			WinnerID:    that.Players[that.WinnerIndex].ID,
		}
	}

	return notice
}
