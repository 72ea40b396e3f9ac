// Package search drives the move decision: a time-bounded, parallel
// iterative-deepening alpha-beta search over candidate moves, backed
// by a shared transposition table.
package search

import (
	"context"
	"errors"
	"math"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"github.com/lverne/gobang/board"
	"github.com/lverne/gobang/eval"
	"github.com/lverne/gobang/movegen"
	"github.com/lverne/gobang/zobrist"
)

const hugeScore = int64(math.MaxInt64 / 2)

var (
	// ErrNoWorkerResult is returned when every root worker failed
	// before producing a result; the engine reports failure rather
	// than guessing a move.
	ErrNoWorkerResult = errors.New("no search worker produced a result")
	// ErrNoCompletedDepth is returned when the budget (or the
	// caller's context) expired before even the first depth finished.
	// The workers were healthy; the caller needs a larger budget.
	ErrNoCompletedDepth = errors.New("budget expired before any depth completed")
	// ErrGameOver is returned when the position is already decided.
	ErrGameOver = errors.New("game already ended")
	// ErrNoMoves is returned when the board has no empty cells.
	ErrNoMoves = errors.New("no empty cells left")

	errAborted = errors.New("search pass aborted")
)

// Engine composes the board, hasher, evaluator, move generator and
// transposition table into the iterative-deepening search. One Engine
// serves one game at a time; the transposition table it owns persists
// between invocations so deep results stay warm across moves.
type Engine struct {
	zobrist *zobrist.Zobrist
	ttable  *TranspositionTable
	weights eval.Weights
	gen     *movegen.Generator

	threads int

	// Per-invocation state.
	budget  Budget
	expired atomic.Bool
	nodes   atomic.Uint64
}

// NewEngine builds an engine around an initialized key table and
// transposition table.
func NewEngine(z *zobrist.Zobrist, tt *TranspositionTable, w eval.Weights, gen *movegen.Generator) *Engine {
	return &Engine{
		zobrist: z,
		ttable:  tt,
		weights: w,
		gen:     gen,
		threads: runtime.NumCPU(),
	}
}

// SetThreads fixes the root worker pool size. Values below 2 select
// the sequential configuration, which is also fully deterministic
// under a node budget.
func (e *Engine) SetThreads(n int) {
	if n < 1 {
		n = 1
	}
	e.threads = n
}

func (e *Engine) Threads() int {
	return e.threads
}

func (e *Engine) Nodes() uint64 {
	return e.nodes.Load()
}

// rootMove is one root candidate's outcome within a single deepening
// pass.
type rootMove struct {
	pos   board.Pos
	score int64
	done  bool
	err   error
}

// FindBestMove searches b for the best move for stm within budget and
// returns the result of the deepest fully completed iteration.
// Partial iterations cut off by the budget are discarded, so the
// returned score is always consistent with a fully explored tree.
func (e *Engine) FindBestMove(ctx context.Context, b *board.Board, stm board.Stone, budget Budget) (SearchResult, error) {
	if stm == board.Empty {
		return SearchResult{}, errors.New("side to move must be a stone")
	}
	if !budget.valid() {
		return SearchResult{}, errors.New("search budget must set a deadline, node limit or depth limit")
	}
	// A completed five anywhere ends the game, not just one through
	// the latest history entry; loaded positions synthesize history
	// in scan order.
	if s := eval.New(e.weights).Evaluate(b, stm); s >= eval.WinScore || s <= -eval.WinScore {
		return SearchResult{}, ErrGameOver
	}
	if b.IsFull() {
		return SearchResult{}, ErrNoMoves
	}

	e.budget = budget
	e.expired.Store(false)
	e.nodes.Store(0)
	tstart := time.Now()

	rootHash := e.zobrist.Hash(b, stm)
	cands := e.gen.Candidates(b)
	var ttMove *board.Pos
	if mv, ok := e.ttable.BestMove(rootHash); ok {
		ttMove = &mv
	}
	e.gen.Order(b, cands, ttMove)

	maxDepth := b.Dim()*b.Dim() - b.MoveCount()
	var best *SearchResult

	// Node throughput ticker, for debugging long searches.
	tickerDone := make(chan struct{})
	tickerGroup := errgroup.Group{}
	tickerGroup.Go(func() error {
		ticker := time.NewTicker(1 * time.Second)
		defer ticker.Stop()
		var lastNodes uint64
		for {
			select {
			case <-tickerDone:
				return nil
			case <-ticker.C:
				nodes := e.nodes.Load()
				log.Debug().Uint64("nps", nodes-lastNodes).Msg("nodes-per-second")
				lastNodes = nodes
			}
		}
	})
	defer func() {
		close(tickerDone)
		tickerGroup.Wait() //nolint:errcheck // ticker never errors
	}()

	aborted := false
	if budget.MaxDepth > 0 && budget.MaxDepth < maxDepth {
		maxDepth = budget.MaxDepth
	}
	for depth := 1; depth <= maxDepth; depth++ {
		log.Debug().Int("depth", depth).Int("candidates", len(cands)).Msg("deepening-iteratively")

		results, err := e.searchRoot(ctx, b, stm, rootHash, cands, depth)
		if err != nil {
			if errors.Is(err, errAborted) {
				// The pass was cut off mid-tree; its partial result is
				// discarded.
				aborted = true
				break
			}
			if best == nil {
				return SearchResult{}, err
			}
			log.Warn().Err(err).Int("depth", depth).Msg("deepening-pass-failed")
			break
		}

		completed := lo.Filter(results, func(r rootMove, _ int) bool { return r.done })
		if len(completed) == 0 {
			if best == nil {
				return SearchResult{}, ErrNoWorkerResult
			}
			break
		}
		top := lo.MaxBy(completed, func(a, b rootMove) bool { return a.score > b.score })

		best = &SearchResult{
			Move:    top.pos,
			Score:   top.score,
			Depth:   depth,
			Nodes:   e.nodes.Load(),
			Elapsed: time.Since(tstart),
		}
		log.Debug().
			Int64("score", top.score).
			Int("depth", depth).
			Str("move", top.pos.String()).
			Msg("best-val")

		// Reorder the root list by this pass's scores so the next
		// iteration searches the most promising moves first. The sort
		// is stable, preserving generation-order tie-breaks.
		e.reorderCandidates(cands, results)

		if top.score >= eval.WinScore || top.score <= -eval.WinScore {
			// A forced outcome was proven; deeper search cannot
			// change the move.
			break
		}
	}

	if best == nil {
		if aborted {
			return SearchResult{}, ErrNoCompletedDepth
		}
		return SearchResult{}, ErrNoWorkerResult
	}
	best.Nodes = e.nodes.Load()
	best.Elapsed = time.Since(tstart)

	lookups, hits, stores, collisions := e.ttable.Stats()
	log.Info().
		Str("move", best.Move.String()).
		Int64("score", best.Score).
		Int("depth", best.Depth).
		Uint64("nodes", best.Nodes).
		Uint64("ttable-lookups", lookups).
		Uint64("ttable-hits", hits).
		Uint64("ttable-stores", stores).
		Uint64("ttable-t2collisions", collisions).
		Float64("time-elapsed-sec", best.Elapsed.Seconds()).
		Msg("search-returning")
	return *best, nil
}

// searchRoot runs one full-depth pass over the ordered root
// candidates, distributing them across the worker pool. Workers pull
// moves from a shared cursor, search against their own board clone
// and evaluator, and share the transposition table plus an atomic
// best-score bound used purely for extra pruning.
func (e *Engine) searchRoot(ctx context.Context, b *board.Board, stm board.Stone, rootHash uint64, cands []board.Pos, depth int) ([]rootMove, error) {
	results := make([]rootMove, len(cands))
	for i, p := range cands {
		results[i] = rootMove{pos: p}
	}

	var cursor atomic.Int64
	var sharedAlpha atomic.Int64
	sharedAlpha.Store(-hugeScore)

	workers := e.threads
	if workers > len(cands) {
		workers = len(cands)
	}

	g := errgroup.Group{}
	for t := 0; t < workers; t++ {
		g.Go(func() error {
			wb := b.Clone()
			ev := eval.New(e.weights)
			for {
				i := int(cursor.Add(1)) - 1
				if i >= len(cands) {
					return nil
				}
				if e.checkExpired(ctx) {
					return errAborted
				}

				p := cands[i]
				if err := wb.MakeMove(p, stm); err != nil {
					results[i].err = err
					continue
				}
				childKey := e.zobrist.AddMove(rootHash, p, stm)
				alpha := sharedAlpha.Load()
				v, err := e.negamax(ctx, wb, ev, childKey, depth-1, -hugeScore, -alpha, stm.Other())
				if _, uerr := wb.UndoMove(); uerr != nil {
					return uerr
				}
				if err != nil {
					if errors.Is(err, errAborted) {
						return err
					}
					results[i].err = err
					continue
				}
				score := -v
				results[i].score = score
				results[i].done = true

				// Opportunistically raise the shared bound; losing the
				// race just means slightly less pruning.
				for {
					cur := sharedAlpha.Load()
					if score <= cur || sharedAlpha.CompareAndSwap(cur, score) {
						break
					}
				}
			}
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var firstErr error
	anyDone := false
	for _, r := range results {
		if r.done {
			anyDone = true
		} else if r.err != nil && firstErr == nil {
			firstErr = r.err
		}
	}
	if !anyDone && firstErr != nil {
		return nil, firstErr
	}
	return results, nil
}

func (e *Engine) reorderCandidates(cands []board.Pos, results []rootMove) {
	scoreOf := make(map[board.Pos]int64, len(results))
	for _, r := range results {
		if r.done {
			scoreOf[r.pos] = r.score
		} else {
			scoreOf[r.pos] = -hugeScore
		}
	}
	// Stable insertion keeps generation order among equal scores.
	ordered := make([]board.Pos, len(cands))
	copy(ordered, cands)
	for i := 1; i < len(ordered); i++ {
		for j := i; j > 0 && scoreOf[ordered[j]] > scoreOf[ordered[j-1]]; j-- {
			ordered[j], ordered[j-1] = ordered[j-1], ordered[j]
		}
	}
	copy(cands, ordered)
}

// checkExpired consults the budget and context. Once either trips,
// the whole pass aborts; the flag makes the other workers notice
// promptly.
func (e *Engine) checkExpired(ctx context.Context) bool {
	if e.expired.Load() {
		return true
	}
	if ctx.Err() != nil || e.budget.Expired(e.nodes.Load()) {
		e.expired.Store(true)
		return true
	}
	return false
}
