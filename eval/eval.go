// Package eval implements the static heuristic scorer. It scans every
// row, column and diagonal of the board, classifying runs of stones
// by length, openness and holes, and sums the weighted contributions
// for both sides.
package eval

import (
	"github.com/cespare/xxhash"

	"github.com/lverne/gobang/board"
)

// WinScore is the terminal sentinel. It exceeds any achievable sum of
// heuristic pattern weights, so a completed five dominates heuristic
// comparisons at any depth.
const WinScore int64 = 1_000_000_000_000

// maxCacheEntries bounds the per-evaluator line cache. When exceeded
// the cache is dropped wholesale and rebuilt.
const maxCacheEntries = 1 << 20

// lineEval is the cached evaluation of one line's contents.
type lineEval struct {
	black, white int64
	blackWin     bool
	whiteWin     bool
}

// Evaluator scores non-terminal positions. It keeps a cache of line
// evaluations keyed by the xxhash of the line's cells; lines repeat
// heavily between sibling positions. An Evaluator is not safe for
// concurrent use: each search worker owns one.
type Evaluator struct {
	weights Weights
	cache   map[uint64]lineEval
	buf     []byte
}

func New(weights Weights) *Evaluator {
	return &Evaluator{
		weights: weights,
		cache:   make(map[uint64]lineEval),
	}
}

func (e *Evaluator) Weights() Weights {
	return e.weights
}

// Evaluate returns the score of the position from pov's perspective.
// Symmetric by construction: Evaluate(b, s) == -Evaluate(b, s.Other()).
// A completed five for either side returns ±WinScore.
func (e *Evaluator) Evaluate(b *board.Board, pov board.Stone) int64 {
	var total lineEval
	for _, line := range board.Lines(b.Dim()) {
		le := e.evalLine(b, line)
		total.black += le.black
		total.white += le.white
		total.blackWin = total.blackWin || le.blackWin
		total.whiteWin = total.whiteWin || le.whiteWin
	}

	povWin, oppWin := total.blackWin, total.whiteWin
	score := total.black - total.white
	if pov == board.White {
		povWin, oppWin = oppWin, povWin
		score = -score
	}
	switch {
	case povWin:
		return WinScore
	case oppWin:
		return -WinScore
	}
	return score
}

func (e *Evaluator) evalLine(b *board.Board, line board.Line) lineEval {
	if cap(e.buf) < len(line) {
		e.buf = make([]byte, len(line))
	}
	buf := e.buf[:len(line)]
	for i, idx := range line {
		buf[i] = byte(b.GetIdx(idx))
	}
	key := xxhash.Sum64(buf)
	if le, ok := e.cache[key]; ok {
		return le
	}

	le := e.scanLine(buf)
	if len(e.cache) >= maxCacheEntries {
		e.cache = make(map[uint64]lineEval)
	}
	e.cache[key] = le
	return le
}

// scanLine runs the pattern state machine over one line. It tracks
// the current run owner, its length, the number of open ends, and
// whether the run spans a single one-cell hole.
func (e *Evaluator) scanLine(cells []byte) lineEval {
	var le lineEval

	current := board.Black
	consecutive := 0
	openEnds := 0
	hasHole := false

	flush := func() {
		score, win := e.weights.shapeScore(consecutive, openEnds, hasHole)
		if current == board.Black {
			le.black += score
			le.blackWin = le.blackWin || win
		} else {
			le.white += score
			le.whiteWin = le.whiteWin || win
		}
	}

	for i, c := range cells {
		s := board.Stone(c)
		switch {
		case s == current:
			consecutive++

		case s != board.Empty:
			// Opponent stone closes the current run with no open end
			// on this side.
			if consecutive > 0 {
				flush()
				openEnds = 0
				hasHole = false
			}
			consecutive = 1
			current = s

		default: // empty cell
			if consecutive == 0 {
				openEnds = 1
				hasHole = false
				continue
			}
			// A single gap inside a short run joins it into one holed
			// shape instead of splitting it.
			if !hasHole && consecutive < 5 && i+1 < len(cells) && board.Stone(cells[i+1]) == current {
				hasHole = true
				consecutive++
				continue
			}
			openEnds++
			flush()
			consecutive = 0
			openEnds = 1
			hasHole = false
		}
	}
	if consecutive > 0 {
		flush()
	}
	return le
}
