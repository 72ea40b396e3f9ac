package board

import "fmt"

// A Stone is the contents of a single cell.
type Stone uint8

const (
	Empty Stone = iota
	Black       // plays 'x'
	White       // plays 'o'
)

// Other returns the opposing stone. It panics on Empty, which is
// always a caller bug.
func (s Stone) Other() Stone {
	switch s {
	case Black:
		return White
	case White:
		return Black
	}
	panic("board: Empty has no opponent")
}

func (s Stone) Rune() rune {
	switch s {
	case Black:
		return 'x'
	case White:
		return 'o'
	}
	return '-'
}

func (s Stone) String() string {
	switch s {
	case Black:
		return "x"
	case White:
		return "o"
	case Empty:
		return "-"
	}
	return fmt.Sprintf("Stone(%d)", uint8(s))
}

// ParseStone converts a user-supplied player character into a stone.
func ParseStone(c string) (Stone, error) {
	switch c {
	case "x", "X":
		return Black, nil
	case "o", "O":
		return White, nil
	}
	return Empty, fmt.Errorf("invalid player %q; must be x or o", c)
}
