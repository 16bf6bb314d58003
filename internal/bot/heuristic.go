package bot

import (
	"github.com/rocketscienceinc/ginyuforce-backend/internal/entity"
	"github.com/rocketscienceinc/ginyuforce-backend/internal/gomoku"
	"github.com/rocketscienceinc/ginyuforce-backend/internal/roles"
)

const (
	candidateRadius = 2

	winScore = 1_000_000.0

	// minimum simulated score before a swap or relocate is worth the ability
	abilityThreshold = 40.0
)

// Candidates returns every cell within candidateRadius of an occupied cell,
// or the center when the board is empty.
func Candidates(board entity.Board) []entity.Point {
	size := board.Size()
	if board.IsEmpty() {
		return []entity.Point{{X: size / 2, Y: size / 2}}
	}

	seen := make(map[entity.Point]bool)
	var points []entity.Point

	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			if board.At(x, y) == entity.Empty {
				continue
			}

			for dy := -candidateRadius; dy <= candidateRadius; dy++ {
				for dx := -candidateRadius; dx <= candidateRadius; dx++ {
					p := entity.Point{X: x + dx, Y: y + dy}
					if !board.InBounds(p.X, p.Y) || seen[p] {
						continue
					}
					seen[p] = true
					points = append(points, p)
				}
			}
		}
	}

	return points
}

// placement is a legal move for the active role and its resulting board.
type placement struct {
	at    entity.Point
	after entity.Board
}

// legalPlacements simulates the active role's next move on every candidate.
func legalPlacements(room *entity.Room) []placement {
	player := room.CurrentPlayer()
	rule := roles.For(room.ActiveRole())
	token := room.ActiveToken()

	var moves []placement
	for _, p := range Candidates(room.Board) {
		board := room.Board.Clone()
		if err := rule.Place(board, p.X, p.Y, token, room.TurnIndex, player.PlacedThisTurn); err != nil {
			continue
		}
		moves = append(moves, placement{at: p, after: board})
	}

	if len(moves) > 0 {
		return moves
	}

	// nothing near the action is legal, fall back to the whole board
	for y := 0; y < room.Board.Size(); y++ {
		for x := 0; x < room.Board.Size(); x++ {
			board := room.Board.Clone()
			if err := rule.Place(board, x, y, token, room.TurnIndex, player.PlacedThisTurn); err == nil {
				moves = append(moves, placement{at: entity.Point{X: x, Y: y}, after: board})
			}
		}
	}

	return moves
}

// scorePlacement rates a simulated move for the active player.
func scorePlacement(room *entity.Room, move placement) float64 {
	token := room.ActiveToken()
	role := room.ActiveRole()
	rule := roles.For(role)
	at := move.at
	before := room.Board.At(at.X, at.Y)

	if gomoku.CheckWinner(move.after, at.X, at.Y, token, rule.WinLength(room.TargetN)) {
		return winScore
	}

	score := centerScore(room.Board, at) + float64(density(room.Board, at))

	if move.after.At(at.X, at.Y) == token {
		own := longestLine(move.after, at, token)
		score += float64(own*own) * 3
	}

	block := longestForeignLine(room.Board, at, token)
	score += float64(block*block) * 2

	switch {
	case role == entity.RoleRecoome && entity.IsForeign(before, token):
		score += 5 + float64(longestLine(room.Board, at, before))*4
	case rule.UsesCrossMarker() && entity.IsCross(move.after.At(at.X, at.Y)):
		score += float64(foreignNeighbors(room.Board, at, token)) * 3
	}

	return score
}

// centerScore is higher closer to the middle of the board.
func centerScore(board entity.Board, p entity.Point) float64 {
	center := board.Size() / 2

	return -0.5 * float64(abs(p.X-center)+abs(p.Y-center))
}

func density(board entity.Board, p entity.Point) int {
	count := 0
	for _, n := range board.Neighbors(p.X, p.Y) {
		if board.At(n.X, n.Y) != entity.Empty {
			count++
		}
	}

	return count
}

func foreignNeighbors(board entity.Board, p entity.Point, token int) int {
	count := 0
	for _, n := range board.Neighbors(p.X, p.Y) {
		if entity.IsForeign(board.At(n.X, n.Y), token) {
			count++
		}
	}

	return count
}

// longestLine is the longest run of token through p over the four axes.
func longestLine(board entity.Board, p entity.Point, token int) int {
	best := 0
	for _, d := range entity.Directions {
		best = max(best, board.LineLength(p.X, p.Y, d, token))
	}

	return best
}

// longestForeignLine is the longest foreign run that ends next to p.
func longestForeignLine(board entity.Board, p entity.Point, token int) int {
	best := 0
	for _, d := range entity.Directions {
		for _, step := range []entity.Point{d, {X: -d.X, Y: -d.Y}} {
			n := p.Add(step)
			if !board.InBounds(n.X, n.Y) {
				continue
			}

			value := board.At(n.X, n.Y)
			if !entity.IsForeign(value, token) {
				continue
			}

			best = max(best, 1+board.CountDirection(n.X, n.Y, step.X, step.Y, value))
		}
	}

	return best
}

// pushValue rates pushing target away from placed. Negative means decline.
func pushValue(room *entity.Room, placed, target entity.Point) float64 {
	_, moved := gomoku.PushDestination(room.Board, placed, target)
	if moved == 0 {
		return -1
	}

	value := room.Board.At(target.X, target.Y)
	score := float64(moved)
	if moved == 2 {
		score += 2
	}

	return score + float64(longestLine(room.Board, target, value))
}

// abilityMove is a simulated swap or relocate.
type abilityMove struct {
	source entity.Point
	target entity.Point
	dest   entity.Point
	score  float64
}

// bestSwap simulates every offered swap and returns the best one.
func bestSwap(room *entity.Room) (abilityMove, bool) {
	token := room.ActiveToken()
	best := abilityMove{score: -winScore}
	found := false

	for _, source := range gomoku.SwapSources(room.Board, token) {
		for _, target := range gomoku.SwapTargets(room.Board, source, token) {
			sim := room.Clone()
			other := sim.Board.At(target.X, target.Y)
			sim.Board.Set(source.X, source.Y, other)
			sim.Board.Set(target.X, target.Y, token)

			score, ok := rateAbility(room, sim, target, token)
			if ok && score > best.score {
				best = abilityMove{source: source, target: target, score: score}
				found = true
			}
		}
	}

	return best, found
}

// bestRelocate simulates every relocate option and returns the best one.
func bestRelocate(room *entity.Room) (abilityMove, bool) {
	token := room.ActiveToken()
	best := abilityMove{score: -winScore}
	found := false

	for _, source := range gomoku.RelocateSources(room.Board, token) {
		for _, target := range gomoku.RelocateTargets(room.Board, source, token) {
			value := room.Board.At(target.X, target.Y)
			disruption := longestLine(room.Board, target, value)

			for _, dest := range room.Board.EmptyAround(target.X, target.Y) {
				sim := room.Clone()
				sim.Board.Set(target.X, target.Y, entity.Empty)
				sim.Board.Set(dest.X, dest.Y, value)

				score, ok := rateAbility(room, sim, source, token)
				if !ok {
					continue
				}

				score += float64(disruption-longestLine(sim.Board, dest, value)) * 15
				if score > best.score {
					best = abilityMove{source: source, target: target, dest: dest, score: score}
					found = true
				}
			}
		}
	}

	return best, found
}

// rateAbility scores a simulated board. It rejects boards on which someone
// else wins.
func rateAbility(room, sim *entity.Room, focus entity.Point, token int) (float64, bool) {
	if winner, ok := gomoku.CheckAnyWinner(sim); ok {
		if winner == room.TurnIndex {
			return winScore, true
		}
		return 0, false
	}

	own := longestLine(sim.Board, focus, token)

	return float64(own) * 10, true
}

func abs(v int) int {
	if v < 0 {
		return -v
	}

	return v
}
