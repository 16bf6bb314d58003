// Package gomoku is the turn and ability state machine of a room.
//
// Every operation takes the room explicitly and either applies all of its
// mutations or none of them. Callers serialise access per room.
package gomoku

import "github.com/rocketscienceinc/ginyuforce-backend/internal/entity"

// Cancellation tells the actor why their ability session was discarded.
type Cancellation struct {
	Ability entity.AbilityKind
	Reason  string
}

// PushResult describes a resolved push. Moved is 0, 1 or 2 cells.
type PushResult struct {
	From  entity.Point
	To    entity.Point
	Moved int
}

// Outcome is the observable result of one operation.
type Outcome struct {
	Placed    *entity.Point
	Undone    *entity.Point
	Swapped   []entity.Point
	Relocated []entity.Point
	Pushed    *PushResult

	// Ability offers for the next selection step.
	Sources []entity.Point
	Targets []entity.Point
	Empties []entity.Point

	Cancelled    *Cancellation
	TurnAdvanced bool
	Won          bool
	WinnerIndex  int
}

// BoardChanged reports whether the operation mutated the board.
func (that Outcome) BoardChanged() bool {
	return that.Placed != nil || that.Undone != nil || len(that.Swapped) > 0 ||
		len(that.Relocated) > 0 || (that.Pushed != nil && that.Pushed.Moved > 0)
}

// Changed reports whether observers need a new board or turn state.
func (that Outcome) Changed() bool {
	return that.BoardChanged() || that.TurnAdvanced || that.Won || that.Pushed != nil
}

func none() Outcome {
	return Outcome{WinnerIndex: entity.NoWinner}
}
