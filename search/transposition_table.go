package search

import (
	"math"
	"sync"
	"sync/atomic"

	"github.com/pbnjay/memory"
	"github.com/rs/zerolog/log"

	"github.com/lverne/gobang/board"
)

// Bound classifies a stored score relative to the search window that
// produced it.
type Bound uint8

const (
	BoundNone Bound = iota
	BoundExact
	BoundLower
	BoundUpper
)

// TableEntry is one transposition table slot. The full position hash
// is stored for collision verification: two different boards landing
// in the same slot are detected and treated as a miss.
type TableEntry struct {
	Hash    uint64
	Score   int64
	Move    board.Pos
	HasMove bool
	Depth   uint8
	Bound   Bound
}

// minSizePowerOf2 guarantees a usable table even on machines whose
// reported memory is tiny.
const minSizePowerOf2 = 16

const entrySize = 24 // bytes, approximate

// numStripes must be a power of two.
const numStripes = 256

// TranspositionTable maps position hashes to prior search results. It
// has fixed capacity, is indexed by hash & mask with
// overwrite-on-collision, and is shared by all search workers. Entry
// reads and writes are made atomic units by striping the table with
// RWMutexes; a lock covers only the single slot access, never a
// recursive search call.
type TranspositionTable struct {
	table        []TableEntry
	stripes      [numStripes]sync.RWMutex
	sizeMask     uint64
	sizePowerOf2 int

	lookups      atomic.Uint64
	hits         atomic.Uint64
	stores       atomic.Uint64
	t2collisions atomic.Uint64
	rejected     atomic.Uint64
}

// Reset sizes the table to roughly fractionOfMemory of total system
// memory, rounded down to a power of two, and clears it. Reusing the
// table across searches keeps deep results warm between moves.
func (t *TranspositionTable) Reset(fractionOfMemory float64) {
	totalMem := memory.TotalMemory()
	desiredNElems := fractionOfMemory * (float64(totalMem) / float64(entrySize))
	t.sizePowerOf2 = int(math.Log2(desiredNElems))
	if t.sizePowerOf2 < minSizePowerOf2 {
		t.sizePowerOf2 = minSizePowerOf2
	}
	t.resetElems(1 << t.sizePowerOf2)

	log.Info().Int("num-elems", len(t.table)).
		Float64("desired-num-elems", desiredNElems).
		Int("estimated-total-memory-bytes", len(t.table)*entrySize).
		Uint64("total-system-memory-bytes", totalMem).
		Msg("transposition-table-size")
}

// ResetElems sizes the table to exactly n slots (rounded up to a
// power of two). Meant for tests that need small tables.
func (t *TranspositionTable) ResetElems(n int) {
	p := 0
	for 1<<p < n {
		p++
	}
	t.sizePowerOf2 = p
	t.resetElems(1 << p)
}

func (t *TranspositionTable) resetElems(n int) {
	if t.table != nil && len(t.table) == n {
		clear(t.table)
	} else {
		t.table = make([]TableEntry, n)
	}
	t.sizeMask = uint64(n - 1)
	t.lookups.Store(0)
	t.hits.Store(0)
	t.stores.Store(0)
	t.t2collisions.Store(0)
	t.rejected.Store(0)
}

func (t *TranspositionTable) stripe(idx uint64) *sync.RWMutex {
	return &t.stripes[idx&(numStripes-1)]
}

// Lookup returns the entry stored for hash, if any. A slot occupied
// by a different position is an ordinary miss.
func (t *TranspositionTable) Lookup(hash uint64) (TableEntry, bool) {
	t.lookups.Add(1)
	idx := hash & t.sizeMask

	mu := t.stripe(idx)
	mu.RLock()
	entry := t.table[idx]
	mu.RUnlock()

	if entry.Bound == BoundNone {
		return TableEntry{}, false
	}
	if entry.Hash != hash {
		t.t2collisions.Add(1)
		return TableEntry{}, false
	}
	t.hits.Add(1)
	return entry, true
}

// Probe implements the alpha-beta cutoff check: the stored score is
// usable when the entry is at least as deep as requested and its
// bound is compatible with the [alpha, beta] window.
func (t *TranspositionTable) Probe(hash uint64, depth int, alpha, beta int64) (int64, bool) {
	entry, ok := t.Lookup(hash)
	if !ok || int(entry.Depth) < depth {
		return 0, false
	}
	switch entry.Bound {
	case BoundExact:
		return entry.Score, true
	case BoundLower:
		if entry.Score >= beta {
			return entry.Score, true
		}
	case BoundUpper:
		if entry.Score <= alpha {
			return entry.Score, true
		}
	}
	return 0, false
}

// Store writes an entry under the depth-preferred replacement policy:
// an occupied slot is only overwritten by an entry searched at least
// as deep, so a shallow result never displaces a deeper one.
func (t *TranspositionTable) Store(hash uint64, entry TableEntry) {
	entry.Hash = hash
	idx := hash & t.sizeMask

	mu := t.stripe(idx)
	mu.Lock()
	existing := t.table[idx]
	if existing.Bound != BoundNone && existing.Depth > entry.Depth {
		mu.Unlock()
		t.rejected.Add(1)
		return
	}
	t.table[idx] = entry
	mu.Unlock()
	t.stores.Add(1)
}

// BestMove returns the stored best move for hash, used to seed move
// ordering.
func (t *TranspositionTable) BestMove(hash uint64) (board.Pos, bool) {
	entry, ok := t.Lookup(hash)
	if !ok || !entry.HasMove {
		return board.Pos{}, false
	}
	return entry.Move, true
}

// Stats returns lookup/hit/store/collision counters since last reset.
func (t *TranspositionTable) Stats() (lookups, hits, stores, collisions uint64) {
	return t.lookups.Load(), t.hits.Load(), t.stores.Load(), t.t2collisions.Load()
}
