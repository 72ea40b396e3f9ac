package board

import "sync"

// A Line is a full row, column or diagonal expressed as flat cell
// indices in scan order.
type Line []int

// lineCache holds the generated line tables per dimension. Boards of
// the same size share one immutable table.
var lineCache sync.Map // int -> []Line

// Lines returns every row, column and diagonal of a dim×dim board:
// 2*dim straights and 2*(2*dim-1) diagonals, 6*dim-2 lines in total.
// Diagonals shorter than WinLength are still included; the evaluator
// scores them as zero.
func Lines(dim int) []Line {
	if cached, ok := lineCache.Load(dim); ok {
		return cached.([]Line)
	}
	lines := generateLines(dim)
	actual, _ := lineCache.LoadOrStore(dim, lines)
	return actual.([]Line)
}

func generateLines(dim int) []Line {
	lines := make([]Line, 0, 6*dim-2)

	for r := 0; r < dim; r++ {
		row := make(Line, dim)
		for c := 0; c < dim; c++ {
			row[c] = r*dim + c
		}
		lines = append(lines, row)
	}
	for c := 0; c < dim; c++ {
		col := make(Line, dim)
		for r := 0; r < dim; r++ {
			col[r] = r*dim + c
		}
		lines = append(lines, col)
	}
	// ↘ diagonals, indexed by r-c.
	for k := -(dim - 1); k <= dim-1; k++ {
		var diag Line
		for r := 0; r < dim; r++ {
			c := r - k
			if c >= 0 && c < dim {
				diag = append(diag, r*dim+c)
			}
		}
		lines = append(lines, diag)
	}
	// ↗ diagonals, indexed by r+c.
	for k := 0; k <= 2*(dim-1); k++ {
		var diag Line
		for r := 0; r < dim; r++ {
			c := k - r
			if c >= 0 && c < dim {
				diag = append(diag, r*dim+c)
			}
		}
		lines = append(lines, diag)
	}
	return lines
}

// LinesThrough returns the four lines that pass through p: its row,
// its column and both diagonals.
func LinesThrough(dim int, p Pos) [4]Line {
	lines := Lines(dim)
	r, c := int(p.Row), int(p.Col)
	return [4]Line{
		lines[r],
		lines[dim+c],
		lines[2*dim+(dim-1)+(r-c)],
		lines[4*dim-1+(r+c)],
	}
}
