package apperror

import "errors"

// Kinds of violations. Every concrete error below unwraps to exactly one of them.
var (
	ErrRuleViolation = errors.New("rule violation")
	ErrStaleSession  = errors.New("stale session")
	ErrNoOptions     = errors.New("no legal options")
)

type violation struct {
	kind    error
	message string
}

func (that *violation) Error() string {
	return that.message
}

func (that *violation) Unwrap() error {
	return that.kind
}

func rule(message string) error {
	return &violation{kind: ErrRuleViolation, message: message}
}

func stale(message string) error {
	return &violation{kind: ErrStaleSession, message: message}
}

func noOptions(message string) error {
	return &violation{kind: ErrNoOptions, message: message}
}

// ErrRoomExists is returned by storage when a room id is already taken.
var ErrRoomExists = errors.New("room already exists")

// room and lobby
var (
	ErrNoFreeRoom         = rule("no free room code, try again later")
	ErrInvalidColor       = rule("unknown color")
	ErrCannotKickSelf     = rule("the host cannot remove themselves")
	ErrRoomNotFound       = rule("room does not exist")
	ErrPlayerNotFound     = rule("player is not in this room")
	ErrNotHost            = rule("only the host can do this")
	ErrRoomFull           = rule("room is full")
	ErrGameAlreadyStarted = rule("game has already started")
	ErrNotInLobby         = rule("room is not in the lobby")
	ErrNameRequired       = rule("name is required")
	ErrNameTaken          = rule("name is already used in this room")
	ErrNameReserved       = rule("name is reserved")
	ErrAIAlreadyExists    = rule("room already has an AI player")
	ErrNotAI              = rule("player is not an AI")
	ErrInvalidSlot        = rule("role slot must be 1 or 2 in dual mode")
	ErrDuplicateRole      = rule("both role slots cannot use the same role")
	ErrUnknownRole        = rule("unknown role")
	ErrColorRequired      = rule("pick a color first")
	ErrRoleRequired       = rule("pick your role first")
	ErrPlayersNotReady    = rule("some players are not ready")
	ErrNotConfigured      = rule("some players have not picked color and role")
)

// turn and placement
var (
	ErrGameIsNotStarted = rule("game is not started")
	ErrNotYourTurn      = rule("it's not your turn")
	ErrOutOfBounds      = rule("cell is outside the board")
	ErrCellOccupied     = rule("cell is already occupied")
	ErrCrossBlocked     = rule("cannot place on a cross marker")
	ErrSameToken        = rule("cell already holds your piece")
	ErrCrossNeedsEmpty  = rule("cross marker must go on an empty cell")
	ErrTurnBudgetSpent  = rule("no moves left this turn")
	ErrPushPending      = rule("choose a push target or decline first")
)

// undo
var (
	ErrUndoNotAllowed = rule("this role cannot undo")
	ErrNothingToUndo  = rule("nothing to undo")
	ErrUndoStale      = stale("undo no longer matches the current turn")
)

// abilities
var (
	ErrWrongRole        = rule("your current role cannot use this ability")
	ErrAlreadyPlaced    = rule("a piece was already placed this turn")
	ErrAbilityUsed      = rule("ability already used this turn")
	ErrAbilityActive    = rule("another ability is in progress")
	ErrNoActiveAbility  = stale("ability is not active")
	ErrSelectionInvalid = stale("selection is not one of the offered cells, ability cancelled")
	ErrTargetGone       = stale("target piece is gone, ability cancelled")

	ErrNoSwapSources     = noOptions("no piece can swap right now")
	ErrNoSwapTargets     = noOptions("this piece has no swap targets, ability cancelled")
	ErrNoRelocateSources = noOptions("no piece can use relocate")
	ErrNoRelocateTargets = noOptions("no other pieces around, relocate cancelled")
	ErrNoEmptyAround     = noOptions("no empty cells around the target, relocate cancelled")
)

// IsViolation reports whether err is any recoverable game violation.
func IsViolation(err error) bool {
	return errors.Is(err, ErrRuleViolation) || errors.Is(err, ErrStaleSession) || errors.Is(err, ErrNoOptions)
}

// Message returns the client-facing text of the innermost violation in err.
func Message(err error) string {
	var v *violation
	if errors.As(err, &v) {
		return v.message
	}
	return err.Error()
}
