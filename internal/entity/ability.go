package entity

type AbilityKind string

const (
	AbilitySwap     AbilityKind = "swap"
	AbilityRelocate AbilityKind = "relocate"
	AbilityPush     AbilityKind = "push"
)

// AbilitySession is the single active ability of a room.
// It is implemented only by SwapSession, RelocateSession and PushSession.
type AbilitySession interface {
	Kind() AbilityKind
	Owner() int
	clone() AbilitySession
}

type SwapStep int

const (
	SwapSourcesOffered SwapStep = iota
	SwapSourceChosen
)

type SwapSession struct {
	OwnerIndex int
	Step       SwapStep
	Sources    []Point
	Source     Point
	Targets    []Point
}

func (that *SwapSession) Kind() AbilityKind { return AbilitySwap }
func (that *SwapSession) Owner() int { return that.OwnerIndex }

func (that *SwapSession) clone() AbilitySession {
	session := *that
	session.Sources = clonePoints(that.Sources)
	session.Targets = clonePoints(that.Targets)

	return &session
}

type RelocateStep int

const (
	RelocateSourcesOffered RelocateStep = iota
	RelocateSourceChosen
	RelocateTargetChosen
)

type RelocateSession struct {
	OwnerIndex int
	Step       RelocateStep
	Sources    []Point
	Source     Point
	Targets    []Point
	Target     Point
	Empties    []Point
}

func (that *RelocateSession) Kind() AbilityKind { return AbilityRelocate }
func (that *RelocateSession) Owner() int { return that.OwnerIndex }

func (that *RelocateSession) clone() AbilitySession {
	session := *that
	session.Sources = clonePoints(that.Sources)
	session.Targets = clonePoints(that.Targets)
	session.Empties = clonePoints(that.Empties)

	return &session
}

type PushStep int

const (
	// PushAwaitingPlacement is an explicitly started push before its piece is placed.
	PushAwaitingPlacement PushStep = iota
	PushTargetOffered
)

type PushSession struct {
	OwnerIndex int
	Step       PushStep
	Placed     Point
	Targets    []Point
}

func (that *PushSession) Kind() AbilityKind { return AbilityPush }
func (that *PushSession) Owner() int { return that.OwnerIndex }

func (that *PushSession) clone() AbilitySession {
	session := *that
	session.Targets = clonePoints(that.Targets)

	return &session
}

func clonePoints(points []Point) []Point {
	if points == nil {
		return nil
	}

	return append([]Point(nil), points...)
}
