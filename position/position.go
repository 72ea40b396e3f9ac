// Package position reads and writes board snapshots: a plain text
// grid format for hand-edited files, and a compact single-line form
// for logs and tests.
package position

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/lverne/gobang/board"
)

var (
	ErrMalformed = errors.New("malformed position")
	// ErrImbalanced means the stone counts cannot arise from
	// alternating play starting with black.
	ErrImbalanced = errors.New("stone counts are inconsistent with alternating play")
)

// Parse reads a text grid: one row per line, one rune per cell, '-'
// for empty, 'x' for black, 'o' for white. Blank lines and leading or
// trailing space around each row are ignored. The grid must be square
// and at least board.MinDim on a side.
func Parse(text string) (*board.Board, error) {
	var rows []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		rows = append(rows, line)
	}
	dim := len(rows)
	b, err := board.New(dim)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	var blacks, whites []board.Pos
	for r, row := range rows {
		cells := []rune(row)
		if len(cells) != dim {
			return nil, fmt.Errorf("%w: row %d has %d cells, want %d", ErrMalformed, r+1, len(cells), dim)
		}
		for c, cell := range cells {
			p := board.Pos{Row: int8(r), Col: int8(c)}
			switch cell {
			case '-':
			case 'x', 'X':
				blacks = append(blacks, p)
			case 'o', 'O':
				whites = append(whites, p)
			default:
				return nil, fmt.Errorf("%w: unexpected rune %q at row %d col %d", ErrMalformed, cell, r+1, c+1)
			}
		}
	}
	if err := placeAlternating(b, blacks, whites); err != nil {
		return nil, err
	}
	return b, nil
}

// ParseFile reads a grid file from disk.
func ParseFile(path string) (*board.Board, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read position file: %w", err)
	}
	return Parse(string(data))
}

// placeAlternating replays the stones through the board in an
// arbitrary but alternating order, so the resulting history is legal.
func placeAlternating(b *board.Board, blacks, whites []board.Pos) error {
	nb, nw := len(blacks), len(whites)
	if nb != nw && nb != nw+1 {
		return fmt.Errorf("%w: %d black vs %d white", ErrImbalanced, nb, nw)
	}
	for i := 0; i < nw; i++ {
		if err := b.MakeMove(blacks[i], board.Black); err != nil {
			return fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		if err := b.MakeMove(whites[i], board.White); err != nil {
			return fmt.Errorf("%w: %v", ErrMalformed, err)
		}
	}
	if nb > nw {
		if err := b.MakeMove(blacks[nb-1], board.Black); err != nil {
			return fmt.Errorf("%w: %v", ErrMalformed, err)
		}
	}
	return nil
}

// SideToMove derives whose turn it is from the stone counts. Black
// always opens.
func SideToMove(b *board.Board) board.Stone {
	blacks, whites := 0, 0
	dim := b.Dim()
	for i := 0; i < dim*dim; i++ {
		switch b.GetIdx(i) {
		case board.Black:
			blacks++
		case board.White:
			whites++
		}
	}
	if blacks > whites {
		return board.White
	}
	return board.Black
}

// Render writes the board back in the grid format Parse accepts.
func Render(b *board.Board) string {
	dim := b.Dim()
	var sb strings.Builder
	for r := 0; r < dim; r++ {
		for c := 0; c < dim; c++ {
			switch b.GetIdx(r*dim + c) {
			case board.Black:
				sb.WriteByte('x')
			case board.White:
				sb.WriteByte('o')
			default:
				sb.WriteByte('-')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
