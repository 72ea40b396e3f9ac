// Package movegen produces the pruned, ordered candidate move set for
// the search. Gomoku branching is tamed by only considering empty
// cells near existing stones; anything further away cannot interact
// with a five-in-a-row threat soon enough to matter.
package movegen

import (
	"sort"

	"github.com/lverne/gobang/board"
)

// DefaultRadius is the Chebyshev distance from occupied cells within
// which empty cells are considered tactically relevant.
const DefaultRadius = 2

// Generator produces candidate moves for a board. The zero value is
// not usable; call New.
type Generator struct {
	radius int
}

func New(radius int) *Generator {
	if radius <= 0 {
		radius = DefaultRadius
	}
	return &Generator{radius: radius}
}

// Candidates returns the empty cells within the generator radius of
// any occupied cell, in row-major order. On an empty board only the
// center cell is returned.
func (g *Generator) Candidates(b *board.Board) []board.Pos {
	dim := b.Dim()
	if b.MoveCount() == 0 {
		center := int8(dim / 2)
		return []board.Pos{{Row: center, Col: center}}
	}

	near := make([]bool, dim*dim)
	for _, m := range b.History() {
		for dr := -g.radius; dr <= g.radius; dr++ {
			for dc := -g.radius; dc <= g.radius; dc++ {
				r := int(m.Pos.Row) + dr
				c := int(m.Pos.Col) + dc
				if r < 0 || r >= dim || c < 0 || c >= dim {
					continue
				}
				near[r*dim+c] = true
			}
		}
	}

	var cands []board.Pos
	for i, ok := range near {
		if ok && b.GetIdx(i) == board.Empty {
			cands = append(cands, board.Pos{Row: int8(i / dim), Col: int8(i % dim)})
		}
	}
	return cands
}

// Order sorts candidates for alpha-beta cutoff rate: a transposition
// table best move first, then by a cheap adjacency heuristic, with
// row-major scan order breaking ties for determinism. ttMove may be
// nil. The slice is sorted in place and returned.
func (g *Generator) Order(b *board.Board, cands []board.Pos, ttMove *board.Pos) []board.Pos {
	dim := b.Dim()
	type scored struct {
		pos   board.Pos
		score int
		idx   int
	}
	ss := make([]scored, len(cands))
	for i, p := range cands {
		s := adjacencyScore(b, p)
		if ttMove != nil && p == *ttMove {
			s += 1 << 20
		}
		ss[i] = scored{pos: p, score: s, idx: int(p.Row)*dim + int(p.Col)}
	}
	sort.SliceStable(ss, func(i, j int) bool {
		if ss[i].score != ss[j].score {
			return ss[i].score > ss[j].score
		}
		return ss[i].idx < ss[j].idx
	})
	for i := range ss {
		cands[i] = ss[i].pos
	}
	return cands
}

// adjacencyScore counts occupied neighbors weighted by closeness.
// Cells touching more stones tend to create or block more patterns.
func adjacencyScore(b *board.Board, p board.Pos) int {
	dim := b.Dim()
	score := 0
	for dr := -2; dr <= 2; dr++ {
		for dc := -2; dc <= 2; dc++ {
			if dr == 0 && dc == 0 {
				continue
			}
			r := int(p.Row) + dr
			c := int(p.Col) + dc
			if r < 0 || r >= dim || c < 0 || c >= dim {
				continue
			}
			if b.GetIdx(r*dim+c) != board.Empty {
				if dr >= -1 && dr <= 1 && dc >= -1 && dc <= 1 {
					score += 3
				} else {
					score++
				}
			}
		}
	}
	return score
}
