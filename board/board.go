package board

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// MinDim is the smallest playable board. Anything smaller cannot
	// hold a five-in-a-row in every direction comfortably.
	MinDim = 9
	// MaxDim is bounded by the single-letter column notation.
	MaxDim = 26
	// WinLength is the run length that ends the game. Runs longer
	// than five also win; there is no exact-five restriction.
	WinLength = 5
)

var (
	ErrOutOfBounds  = errors.New("position out of bounds")
	ErrCellOccupied = errors.New("cell is already occupied")
	ErrEmptyHistory = errors.New("no moves to undo")
)

// Board is the mutable game state: an N×N grid, a move history stack
// and the last move played. It is not safe for concurrent use; each
// search worker operates on its own Clone.
type Board struct {
	dim     int
	cells   []Stone
	history []Move
}

// New creates an empty dim×dim board.
func New(dim int) (*Board, error) {
	if dim < MinDim || dim > MaxDim {
		return nil, fmt.Errorf("board dimension %d out of range [%d, %d]", dim, MinDim, MaxDim)
	}
	return &Board{
		dim:   dim,
		cells: make([]Stone, dim*dim),
	}, nil
}

func (b *Board) Dim() int {
	return b.dim
}

func (b *Board) index(p Pos) int {
	return int(p.Row)*b.dim + int(p.Col)
}

func (b *Board) inBounds(p Pos) bool {
	return p.Row >= 0 && int(p.Row) < b.dim && p.Col >= 0 && int(p.Col) < b.dim
}

// Get returns the stone at p, or Empty for an in-bounds empty cell.
// It panics out of bounds; bounds are the caller's responsibility on
// the read path.
func (b *Board) Get(p Pos) Stone {
	return b.cells[b.index(p)]
}

// GetIdx returns the stone at a flat cell index.
func (b *Board) GetIdx(i int) Stone {
	return b.cells[i]
}

// MakeMove places a stone and pushes it onto the history stack.
func (b *Board) MakeMove(p Pos, s Stone) error {
	if !b.inBounds(p) {
		return fmt.Errorf("%w: %s on %dx%d board", ErrOutOfBounds, p, b.dim, b.dim)
	}
	if s == Empty {
		return errors.New("cannot place an empty stone")
	}
	i := b.index(p)
	if b.cells[i] != Empty {
		return fmt.Errorf("%w: %s holds %s", ErrCellOccupied, p, b.cells[i])
	}
	b.cells[i] = s
	b.history = append(b.history, Move{Pos: p, Stone: s})
	return nil
}

// UndoMove pops the last move off the history stack and clears its
// cell, returning the removed move.
func (b *Board) UndoMove() (Move, error) {
	if len(b.history) == 0 {
		return Move{}, ErrEmptyHistory
	}
	m := b.history[len(b.history)-1]
	b.history = b.history[:len(b.history)-1]
	b.cells[b.index(m.Pos)] = Empty
	return m, nil
}

// LastMove returns the most recent move, if any.
func (b *Board) LastMove() (Move, bool) {
	if len(b.history) == 0 {
		return Move{}, false
	}
	return b.history[len(b.history)-1], true
}

// MoveCount returns the number of stones placed (history depth).
func (b *Board) MoveCount() int {
	return len(b.history)
}

// History returns the move history, oldest first. The returned slice
// is owned by the board.
func (b *Board) History() []Move {
	return b.history
}

// winDirections are the four line directions through a cell; the
// opposite directions are covered by scanning backwards.
var winDirections = [4][2]int8{
	{0, 1},  // horizontal
	{1, 0},  // vertical
	{1, 1},  // diagonal ↘
	{1, -1}, // diagonal ↗
}

// CheckWin scans the four lines through p and reports whether the
// stone at p completes a run of at least WinLength. Only the lines
// through p can have changed, so this is all a post-move win check
// needs.
func (b *Board) CheckWin(p Pos) (Stone, bool) {
	if !b.inBounds(p) {
		return Empty, false
	}
	s := b.Get(p)
	if s == Empty {
		return Empty, false
	}
	for _, d := range winDirections {
		run := 1
		run += b.runLength(p, s, d[0], d[1])
		run += b.runLength(p, s, -d[0], -d[1])
		if run >= WinLength {
			return s, true
		}
	}
	return Empty, false
}

func (b *Board) runLength(p Pos, s Stone, dr, dc int8) int {
	n := 0
	for {
		p = Pos{Row: p.Row + dr, Col: p.Col + dc}
		if !b.inBounds(p) || b.Get(p) != s {
			return n
		}
		n++
	}
}

// IsFull reports whether no empty cell remains (draw if no win).
func (b *Board) IsFull() bool {
	return len(b.history) == b.dim*b.dim
}

// Clone returns a deep copy sharing nothing with the receiver.
func (b *Board) Clone() *Board {
	c := &Board{
		dim:     b.dim,
		cells:   make([]Stone, len(b.cells)),
		history: make([]Move, len(b.history), cap(b.history)),
	}
	copy(c.cells, b.cells)
	copy(c.history, b.history)
	return c
}

// Equal reports whether two boards hold identical grids. History is
// deliberately ignored; transpositions compare equal.
func (b *Board) Equal(o *Board) bool {
	if b.dim != o.dim {
		return false
	}
	for i := range b.cells {
		if b.cells[i] != o.cells[i] {
			return false
		}
	}
	return true
}

// String renders the grid with column letters and 1-based row numbers.
func (b *Board) String() string {
	var sb strings.Builder
	indent := ""
	if b.dim >= 10 {
		indent = " "
	}
	sb.WriteString(indent + " ")
	for c := 0; c < b.dim; c++ {
		sb.WriteRune('a' + rune(c))
	}
	sb.WriteByte('\n')
	for r := 0; r < b.dim; r++ {
		if r+1 < 10 {
			sb.WriteString(indent)
		}
		fmt.Fprintf(&sb, "%d", r+1)
		for c := 0; c < b.dim; c++ {
			sb.WriteRune(b.cells[r*b.dim+c].Rune())
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
