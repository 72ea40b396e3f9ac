package search

import (
	"context"

	"github.com/lverne/gobang/board"
	"github.com/lverne/gobang/eval"
)

// negamax evaluates b from stm's point of view to the given remaining
// depth. key is the incremental position hash for b with stm to move.
// Scores are negated on return so both sides maximize.
func (e *Engine) negamax(ctx context.Context, b *board.Board, ev *eval.Evaluator, key uint64, depth int, alpha, beta int64, stm board.Stone) (int64, error) {
	e.nodes.Add(1)
	if e.nodes.Load()&1023 == 0 && e.checkExpired(ctx) {
		return 0, errAborted
	}

	alphaOrig := alpha
	if depth > 0 {
		if score, ok := e.ttable.Probe(key, depth, alpha, beta); ok {
			return score, nil
		}
	}

	// The previous move is the only one that can have just won.
	if m, ok := b.LastMove(); ok {
		if _, won := b.CheckWin(m.Pos); won {
			// stm is the loser: the opponent completed five.
			return -eval.WinScore, nil
		}
	}
	if b.IsFull() {
		return 0, nil
	}
	if depth == 0 {
		return ev.Evaluate(b, stm), nil
	}

	cands := e.gen.Candidates(b)
	var ttMove *board.Pos
	if mv, ok := e.ttable.BestMove(key); ok {
		ttMove = &mv
	}
	e.gen.Order(b, cands, ttMove)

	best := -hugeScore
	var bestMove board.Pos
	haveBest := false
	for _, p := range cands {
		if err := b.MakeMove(p, stm); err != nil {
			return 0, err
		}
		childKey := e.zobrist.AddMove(key, p, stm)
		v, err := e.negamax(ctx, b, ev, childKey, depth-1, -beta, -alpha, stm.Other())
		if _, uerr := b.UndoMove(); uerr != nil {
			return 0, uerr
		}
		if err != nil {
			return 0, err
		}
		score := -v
		if score > best {
			best = score
			bestMove = p
			haveBest = true
		}
		if best > alpha {
			alpha = best
		}
		if alpha >= beta {
			break
		}
	}

	storeDepth := depth
	if storeDepth > 255 {
		storeDepth = 255
	}
	entry := TableEntry{
		Hash:  key,
		Score: best,
		Depth: uint8(storeDepth),
	}
	if haveBest {
		entry.Move = bestMove
		entry.HasMove = true
	}
	switch {
	case best <= alphaOrig:
		entry.Bound = BoundUpper
	case best >= beta:
		entry.Bound = BoundLower
	default:
		entry.Bound = BoundExact
	}
	e.ttable.Store(key, entry)

	return best, nil
}
