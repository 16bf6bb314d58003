package websocket

import (
	"encoding/json"

	"github.com/rocketscienceinc/ginyuforce-backend/internal/entity"
	"github.com/rocketscienceinc/ginyuforce-backend/internal/gomoku"
)

// Message is the envelope of every frame in both directions. Replies carry
// the ID of the request they answer.
type Message struct {
	ID      string          `json:"id,omitempty"`
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Payload holds the arguments of every action. Each action reads only its own fields.
type Payload struct {
	RoomID     string      `json:"roomId"`
	Name       string      `json:"name"`
	Mode       entity.Mode `json:"mode"`
	MaxPlayers int         `json:"maxPlayers"`
	Color      int         `json:"color"`
	Slot       int         `json:"slot"`
	Role       entity.Role `json:"role"`
	TargetID   string      `json:"targetId"`
	X          int         `json:"x"`
	Y          int         `json:"y"`
}

type Response struct {
	OK       bool                 `json:"ok"`
	Message  string               `json:"message,omitempty"`
	PlayerID string               `json:"playerId,omitempty"`
	Room     *entity.RoomSnapshot `json:"room,omitempty"`
	Outcome  *OutcomeView         `json:"outcome,omitempty"`
}

// OutcomeView is the wire form of a game operation result.
type OutcomeView struct {
	Placed       *entity.Point  `json:"placed,omitempty"`
	Undone       *entity.Point  `json:"undone,omitempty"`
	Swapped      []entity.Point `json:"swapped,omitempty"`
	Relocated    []entity.Point `json:"relocated,omitempty"`
	PushedFrom   *entity.Point  `json:"pushedFrom,omitempty"`
	PushedTo     *entity.Point  `json:"pushedTo,omitempty"`
	Sources      []entity.Point `json:"sources,omitempty"`
	Targets      []entity.Point `json:"targets,omitempty"`
	Empties      []entity.Point `json:"empties,omitempty"`
	TurnAdvanced bool           `json:"turnAdvanced"`
	Won          bool           `json:"won"`
}

func newOutcomeView(out gomoku.Outcome) *OutcomeView {
	view := &OutcomeView{
		Placed:       out.Placed,
		Undone:       out.Undone,
		Swapped:      out.Swapped,
		Relocated:    out.Relocated,
		Sources:      out.Sources,
		Targets:      out.Targets,
		Empties:      out.Empties,
		TurnAdvanced: out.TurnAdvanced,
		Won:          out.Won,
	}

	if out.Pushed != nil {
		from, to := out.Pushed.From, out.Pushed.To
		view.PushedFrom, view.PushedTo = &from, &to
	}

	return view
}
