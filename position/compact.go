package position

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lverne/gobang/board"
)

// Compact renders a board as a single line: the dimension, a '|', and
// the rows joined by '/', with runs of empty cells written as their
// length. A fresh 9x9 board is "9|9/9/9/9/9/9/9/9/9".
func Compact(b *board.Board) string {
	dim := b.Dim()
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d|", dim)
	for r := 0; r < dim; r++ {
		if r > 0 {
			sb.WriteByte('/')
		}
		run := 0
		for c := 0; c < dim; c++ {
			s := b.GetIdx(r*dim + c)
			if s == board.Empty {
				run++
				continue
			}
			if run > 0 {
				sb.WriteString(strconv.Itoa(run))
				run = 0
			}
			if s == board.Black {
				sb.WriteByte('x')
			} else {
				sb.WriteByte('o')
			}
		}
		if run > 0 {
			sb.WriteString(strconv.Itoa(run))
		}
	}
	return sb.String()
}

// ParseCompact reverses Compact.
func ParseCompact(s string) (*board.Board, error) {
	dimStr, rest, found := strings.Cut(s, "|")
	if !found {
		return nil, fmt.Errorf("%w: missing '|' separator", ErrMalformed)
	}
	dim, err := strconv.Atoi(dimStr)
	if err != nil {
		return nil, fmt.Errorf("%w: bad dimension %q", ErrMalformed, dimStr)
	}
	b, err := board.New(dim)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	rows := strings.Split(rest, "/")
	if len(rows) != dim {
		return nil, fmt.Errorf("%w: %d rows, want %d", ErrMalformed, len(rows), dim)
	}

	var blacks, whites []board.Pos
	for r, row := range rows {
		c := 0
		i := 0
		for i < len(row) {
			ch := row[i]
			switch {
			case ch >= '0' && ch <= '9':
				j := i
				for j < len(row) && row[j] >= '0' && row[j] <= '9' {
					j++
				}
				n, _ := strconv.Atoi(row[i:j])
				c += n
				i = j
			case ch == 'x':
				blacks = append(blacks, board.Pos{Row: int8(r), Col: int8(c)})
				c++
				i++
			case ch == 'o':
				whites = append(whites, board.Pos{Row: int8(r), Col: int8(c)})
				c++
				i++
			default:
				return nil, fmt.Errorf("%w: unexpected byte %q in row %d", ErrMalformed, ch, r+1)
			}
		}
		if c != dim {
			return nil, fmt.Errorf("%w: row %d has %d cells, want %d", ErrMalformed, r+1, c, dim)
		}
	}
	if err := placeAlternating(b, blacks, whites); err != nil {
		return nil, err
	}
	return b, nil
}
