package board

import (
	"fmt"
	"strconv"
)

// A Pos addresses a single cell. Row and Col are 0-based; the user
// notation is a column letter followed by a 1-based row number, so
// "a1" is the top-left corner.
type Pos struct {
	Row int8
	Col int8
}

func (p Pos) String() string {
	return fmt.Sprintf("%c%d", 'a'+rune(p.Col), p.Row+1)
}

// ParsePos parses user move notation such as "d6".
func ParsePos(s string) (Pos, error) {
	if len(s) < 2 {
		return Pos{}, fmt.Errorf("invalid move %q", s)
	}
	col := s[0]
	if col >= 'A' && col <= 'Z' {
		col += 'a' - 'A'
	}
	if col < 'a' || col > 'z' {
		return Pos{}, fmt.Errorf("invalid column in move %q", s)
	}
	row, err := strconv.Atoi(s[1:])
	if err != nil || row < 1 {
		return Pos{}, fmt.Errorf("invalid row in move %q", s)
	}
	return Pos{Row: int8(row - 1), Col: int8(col - 'a')}, nil
}

// A Move is a stone placed at a position. The board keeps these on
// its history stack.
type Move struct {
	Pos   Pos
	Stone Stone
}

func (m Move) String() string {
	return fmt.Sprintf("%s%s", m.Stone, m.Pos)
}
