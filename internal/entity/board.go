package entity

// Empty is the value of an unclaimed cell.
const Empty = 0

type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (that Point) Add(d Point) Point {
	return Point{X: that.X + d.X, Y: that.Y + d.Y}
}

// Directions are the four line axes: horizontal, vertical and both diagonals.
var Directions = [4]Point{{1, 0}, {0, 1}, {1, 1}, {1, -1}}

// Board is a square grid indexed as board[y][x].
// 0 is empty, a positive value is a token, a negative value is a cross marker.
type Board [][]int

func NewBoard(size int) Board {
	board := make(Board, size)
	for y := range board {
		board[y] = make([]int, size)
	}

	return board
}

func (that Board) Size() int {
	return len(that)
}

func (that Board) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && y < len(that) && x < len(that[y])
}

func (that Board) At(x, y int) int {
	return that[y][x]
}

func (that Board) Set(x, y, value int) {
	that[y][x] = value
}

func (that Board) Clone() Board {
	board := make(Board, len(that))
	for y := range that {
		board[y] = append([]int(nil), that[y]...)
	}

	return board
}

// IsEmpty reports whether no cell is claimed.
func (that Board) IsEmpty() bool {
	for y := range that {
		for x := range that[y] {
			if that[y][x] != Empty {
				return false
			}
		}
	}

	return true
}

// Neighbors returns the in-bounds cells at Chebyshev distance 1 from (x, y).
func (that Board) Neighbors(x, y int) []Point {
	points := make([]Point, 0, 8)
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			if that.InBounds(x+dx, y+dy) {
				points = append(points, Point{X: x + dx, Y: y + dy})
			}
		}
	}

	return points
}

// EmptyAround returns the empty neighbors of (x, y).
func (that Board) EmptyAround(x, y int) []Point {
	var points []Point
	for _, p := range that.Neighbors(x, y) {
		if that.At(p.X, p.Y) == Empty {
			points = append(points, p)
		}
	}

	return points
}

// CountDirection counts consecutive cells equal to value starting one step
// away from (x, y) in direction (dx, dy). The origin is not counted.
func (that Board) CountDirection(x, y, dx, dy, value int) int {
	count := 0
	for cx, cy := x+dx, y+dy; that.InBounds(cx, cy) && that.At(cx, cy) == value; cx, cy = cx+dx, cy+dy {
		count++
	}

	return count
}

// LineLength is the length of the run of value through (x, y) along d,
// counting the origin once.
func (that Board) LineLength(x, y int, d Point, value int) int {
	return 1 + that.CountDirection(x, y, d.X, d.Y, value) + that.CountDirection(x, y, -d.X, -d.Y, value)
}

// Token encodes an owner index and role slot into a positive cell value.
func Token(owner, slot int) int {
	return owner*2 + slot
}

// DecodeToken is the inverse of Token.
func DecodeToken(token int) (owner, slot int) {
	return (token - 1) / 2, (token-1)%2 + 1
}

// Cross encodes the cross marker owned by owner.
func Cross(owner int) int {
	return -(owner + 1)
}

// CrossOwner is the inverse of Cross.
func CrossOwner(value int) int {
	return -value - 1
}

func IsToken(value int) bool {
	return value > 0
}

func IsCross(value int) bool {
	return value < 0
}

// IsForeign reports whether value is a token other than token.
func IsForeign(value, token int) bool {
	return value > 0 && value != token
}

func ContainsPoint(points []Point, p Point) bool {
	for _, candidate := range points {
		if candidate == p {
			return true
		}
	}

	return false
}
