package entity

// Role is a playable character. The zero value means no role picked.
type Role int

const (
	RoleNone Role = iota
	RoleGinyu
	RoleBurter
	RoleRecoome
	RoleLogan
	RoleGuldo
	RoleJeice
)

// Roles lists every pickable role.
var Roles = []Role{RoleGinyu, RoleBurter, RoleRecoome, RoleLogan, RoleGuldo, RoleJeice}

func (that Role) String() string {
	switch that {
	case RoleGinyu:
		return "ginyu"
	case RoleBurter:
		return "burter"
	case RoleRecoome:
		return "recoome"
	case RoleLogan:
		return "logan"
	case RoleGuldo:
		return "guldo"
	case RoleJeice:
		return "jeice"
	default:
		return "none"
	}
}

func (that Role) Valid() bool {
	return that >= RoleGinyu && that <= RoleJeice
}

// NoColor marks a player who has not picked a color yet.
const NoColor = -1

// ColorCount is the size of the palette players pick from.
const ColorCount = 8

type Player struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	ColorIndex int    `json:"colorIndex"`

	// Role1 is the only role in single mode.
	Role1 Role `json:"role1"`
	Role2 Role `json:"role2"`

	Ready     bool `json:"ready"`
	IsAI      bool `json:"isAI"`
	Connected bool `json:"connected"`
	Wins      int  `json:"wins"`

	PlacedThisTurn int  `json:"placedThisTurn"`
	UsedSwap       bool `json:"usedSwap"`
	UsedRelocate   bool `json:"usedRelocate"`
	UsedPush       bool `json:"usedPush"`
}

func NewPlayer(id, name string) *Player {
	return &Player{
		ID:         id,
		Name:       name,
		ColorIndex: NoColor,
		Connected:  true,
	}
}

// RoleForSlot returns the role playing the given slot.
func (that *Player) RoleForSlot(mode Mode, slot int) Role {
	if mode == ModeDual && slot == 2 {
		return that.Role2
	}

	return that.Role1
}

// IsConfigured reports whether the player picked a color and every role the mode needs.
func (that *Player) IsConfigured(mode Mode) bool {
	if that.ColorIndex == NoColor || !that.Role1.Valid() {
		return false
	}

	if mode == ModeDual {
		return that.Role2.Valid() && that.Role1 != that.Role2
	}

	return true
}

// ResetTurn clears the per-turn counters.
func (that *Player) ResetTurn() {
	that.PlacedThisTurn = 0
	that.UsedSwap = false
	that.UsedRelocate = false
	that.UsedPush = false
}
