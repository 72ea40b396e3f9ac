// Package zobrist generates incremental structural hashes of gomoku
// positions. Each (cell, stone) pair gets an independent random key;
// the position hash is the XOR of the keys of all occupied cells plus
// a side-to-move key.
// https://en.wikipedia.org/wiki/Zobrist_hashing
package zobrist

import (
	"lukechampine.com/frand"

	"github.com/lverne/gobang/board"
)

// DefaultSeed keys the table deterministically so that runs are
// reproducible. Pass RandomSeed to New for per-process random keys.
const DefaultSeed uint64 = 0x6f6d6f6b75 // "omoku"

// RandomSeed requests keys drawn from a secure random source.
const RandomSeed uint64 = 0

// Zobrist holds the immutable key table for one board dimension. It
// is constructed once and passed by reference into every search;
// independent games never share mutable hashing state. All methods
// are safe for concurrent use after construction.
type Zobrist struct {
	dim       int
	posTable  [][2]uint64 // cell index -> key per stone
	whiteTurn uint64
}

// New builds a key table for a dim×dim board.
func New(dim int, seed uint64) *Zobrist {
	var rng *frand.RNG
	if seed == RandomSeed {
		rng = frand.New()
	} else {
		var s [32]byte
		for i := 0; i < 8; i++ {
			s[i] = byte(seed >> (8 * i))
		}
		rng = frand.NewCustom(s[:], 1024, 12)
	}

	z := &Zobrist{
		dim:      dim,
		posTable: make([][2]uint64, dim*dim),
	}
	for i := range z.posTable {
		z.posTable[i][0] = rng.Uint64n(1<<63-2) + 1
		z.posTable[i][1] = rng.Uint64n(1<<63-2) + 1
	}
	z.whiteTurn = rng.Uint64n(1<<63-2) + 1
	return z
}

func (z *Zobrist) Dim() int {
	return z.dim
}

func stoneIdx(s board.Stone) int {
	if s == board.Black {
		return 0
	}
	return 1
}

// Hash computes the full hash of a board with the given side to move.
func (z *Zobrist) Hash(b *board.Board, stm board.Stone) uint64 {
	var key uint64
	for i := 0; i < z.dim*z.dim; i++ {
		if s := b.GetIdx(i); s != board.Empty {
			key ^= z.posTable[i][stoneIdx(s)]
		}
	}
	if stm == board.White {
		key ^= z.whiteTurn
	}
	return key
}

// AddMove folds a move into the key and flips the side to move. XOR
// is its own inverse, so applying the same move again undoes it.
func (z *Zobrist) AddMove(key uint64, p board.Pos, s board.Stone) uint64 {
	key ^= z.posTable[int(p.Row)*z.dim+int(p.Col)][stoneIdx(s)]
	key ^= z.whiteTurn
	return key
}
