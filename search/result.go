package search

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/lverne/gobang/board"
)

// SearchResult is the outcome of the deepest fully completed
// iteration of one search invocation.
type SearchResult struct {
	Move    board.Pos
	Score   int64
	Depth   int
	Nodes   uint64
	Elapsed time.Duration
}

func (r SearchResult) String() string {
	return fmt.Sprintf("%s (score %d, depth %d, %s nodes, %v)",
		r.Move, r.Score, r.Depth, FormatCount(float64(r.Nodes)), r.Elapsed.Round(time.Millisecond))
}

// FormatCount renders a large count with a k/M/G suffix.
func FormatCount(n float64) string {
	if n < 1000 {
		return fmt.Sprintf("%.0f", n)
	}
	suffixes := []string{"", "k", "M", "G", "T"}
	i := int(math.Log(n) / math.Log(1000))
	if i >= len(suffixes) {
		i = len(suffixes) - 1
	}
	v := n / math.Pow(1000, float64(i))
	s := strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.2f", v), "0"), ".")
	return s + suffixes[i]
}
