package search

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/matryer/is"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/lverne/gobang/board"
	"github.com/lverne/gobang/eval"
	"github.com/lverne/gobang/movegen"
	"github.com/lverne/gobang/zobrist"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	os.Exit(m.Run())
}

func testEngine(t *testing.T, dim, threads int) *Engine {
	t.Helper()
	z := zobrist.New(dim, zobrist.DefaultSeed)
	tt := &TranspositionTable{}
	tt.ResetElems(1 << 18)
	e := NewEngine(z, tt, eval.DefaultWeights(), movegen.New(movegen.DefaultRadius))
	e.SetThreads(threads)
	return e
}

func mustPlay(t *testing.T, b *board.Board, s board.Stone, squares ...string) {
	t.Helper()
	for _, sq := range squares {
		p, err := board.ParsePos(sq)
		if err != nil {
			t.Fatal(err)
		}
		if err := b.MakeMove(p, s); err != nil {
			t.Fatal(err)
		}
	}
}

func TestFirstMoveIsCenter(t *testing.T) {
	is := is.New(t)
	b, err := board.New(13)
	is.NoErr(err)
	e := testEngine(t, 13, 1)

	res, err := e.FindBestMove(context.Background(), b, board.Black, NodeBudget(10_000))
	is.NoErr(err)
	is.Equal(res.Move, board.Pos{Row: 6, Col: 6})
	is.True(res.Depth >= 1)
}

func TestCompletesFour(t *testing.T) {
	is := is.New(t)
	b, err := board.New(13)
	is.NoErr(err)
	// Black has an open four on row 7; White's replies are elsewhere.
	mustPlay(t, b, board.Black, "d7", "e7", "f7", "g7")
	mustPlay(t, b, board.White, "d9", "e9", "f9")

	e := testEngine(t, 13, 1)
	res, err := e.FindBestMove(context.Background(), b, board.Black, NodeBudget(200_000))
	is.NoErr(err)
	is.True(res.Score >= eval.WinScore)

	c7, _ := board.ParsePos("c7")
	h7, _ := board.ParsePos("h7")
	is.True(res.Move == c7 || res.Move == h7)

	// Play it out: the move must actually win.
	is.NoErr(b.MakeMove(res.Move, board.Black))
	winner, won := b.CheckWin(res.Move)
	is.True(won)
	is.Equal(winner, board.Black)
}

func TestBlocksSimpleFour(t *testing.T) {
	is := is.New(t)
	b, err := board.New(13)
	is.NoErr(err)
	// Black threatens five only at c7: the right end is already
	// capped by a White stone.
	mustPlay(t, b, board.Black, "d7", "e7", "f7", "g7")
	mustPlay(t, b, board.White, "h7", "d9", "e9")

	e := testEngine(t, 13, 1)
	res, err := e.FindBestMove(context.Background(), b, board.White, NodeBudget(2_000_000))
	is.NoErr(err)
	is.True(res.Depth >= 2)

	c7, _ := board.ParsePos("c7")
	is.Equal(res.Move, c7)
}

func TestDeterministicWithNodeBudget(t *testing.T) {
	is := is.New(t)
	run := func() SearchResult {
		b, err := board.New(13)
		is.NoErr(err)
		mustPlay(t, b, board.Black, "g7", "h8")
		mustPlay(t, b, board.White, "g8", "f6")

		e := testEngine(t, 13, 1)
		res, err := e.FindBestMove(context.Background(), b, board.Black, NodeBudget(100_000))
		is.NoErr(err)
		return res
	}

	first := run()
	second := run()
	is.Equal(first.Move, second.Move)
	is.Equal(first.Score, second.Score)
	is.Equal(first.Depth, second.Depth)
	is.Equal(first.Nodes, second.Nodes)
}

func TestDeeperBudgetSearchesDeeper(t *testing.T) {
	setup := func() *board.Board {
		b, _ := board.New(13)
		mustPlay(t, b, board.Black, "g7")
		mustPlay(t, b, board.White, "h8")
		return b
	}

	e1 := testEngine(t, 13, 1)
	shallow, err := e1.FindBestMove(context.Background(), setup(), board.Black, NodeBudget(3_000))
	assert.NoError(t, err)

	e2 := testEngine(t, 13, 1)
	deep, err := e2.FindBestMove(context.Background(), setup(), board.Black, NodeBudget(300_000))
	assert.NoError(t, err)

	assert.GreaterOrEqual(t, deep.Depth, shallow.Depth)
}

func TestDepthBudgetCapsDeepening(t *testing.T) {
	is := is.New(t)
	setup := func() *board.Board {
		b, err := board.New(13)
		is.NoErr(err)
		mustPlay(t, b, board.Black, "g7", "h8")
		mustPlay(t, b, board.White, "g8", "f6")
		return b
	}

	for _, depth := range []int{1, 2, 3} {
		e := testEngine(t, 13, 1)
		res, err := e.FindBestMove(context.Background(), setup(), board.Black, DepthBudget(depth))
		is.NoErr(err)
		is.Equal(res.Depth, depth) // every capped depth completes fully
	}
}

// A double open four is unstoppable: the opponent can block only one
// of the four winning squares. Deeper search proves the forced win,
// so the deeper score can only improve on the shallow heuristic one.
func TestScoreNonRegressionToForcedWin(t *testing.T) {
	is := is.New(t)
	setup := func() *board.Board {
		b, err := board.New(13)
		is.NoErr(err)
		mustPlay(t, b, board.Black, "d8", "e8", "f8", "g5", "g6", "g7")
		mustPlay(t, b, board.White, "b11", "d11", "f11", "h11", "j11")
		return b
	}

	e1 := testEngine(t, 13, 1)
	shallow, err := e1.FindBestMove(context.Background(), setup(), board.Black, DepthBudget(1))
	is.NoErr(err)
	is.True(shallow.Score < eval.WinScore)

	e2 := testEngine(t, 13, 1)
	deep, err := e2.FindBestMove(context.Background(), setup(), board.Black, DepthBudget(3))
	is.NoErr(err)
	is.Equal(deep.Score, eval.WinScore)
	is.True(deep.Score >= shallow.Score)

	// The chosen move must be one of the four-making squares that
	// force the win.
	winners := map[string]bool{"g8": true, "c8": true, "g4": true}
	is.True(winners[deep.Move.String()])
}

func TestParallelSearchAgreesOnForcedWin(t *testing.T) {
	is := is.New(t)
	b, err := board.New(13)
	is.NoErr(err)
	mustPlay(t, b, board.Black, "d7", "e7", "f7", "g7")
	mustPlay(t, b, board.White, "d9", "e9", "f9")

	e := testEngine(t, 13, 4)
	res, err := e.FindBestMove(context.Background(), b, board.Black, TimeBudget(2*time.Second))
	is.NoErr(err)
	is.True(res.Score >= eval.WinScore)

	is.NoErr(b.MakeMove(res.Move, board.Black))
	_, won := b.CheckWin(res.Move)
	is.True(won)
}

func TestTimeBudgetReturnsCompletedDepth(t *testing.T) {
	is := is.New(t)
	b, err := board.New(15)
	is.NoErr(err)
	mustPlay(t, b, board.Black, "h8", "i9")
	mustPlay(t, b, board.White, "h9", "g7")

	e := testEngine(t, 15, 2)
	start := time.Now()
	res, err := e.FindBestMove(context.Background(), b, board.White, TimeBudget(300*time.Millisecond))
	is.NoErr(err)
	is.True(time.Since(start) < 3*time.Second)
	is.True(res.Depth >= 1)
	is.True(res.Nodes > 0)
}

func TestSearchErrors(t *testing.T) {
	is := is.New(t)
	b, err := board.New(13)
	is.NoErr(err)
	e := testEngine(t, 13, 1)

	// Budget must be set.
	_, err = e.FindBestMove(context.Background(), b, board.Black, Budget{})
	is.True(err != nil)

	// Side to move must be a stone.
	_, err = e.FindBestMove(context.Background(), b, board.Empty, NodeBudget(100))
	is.True(err != nil)

	// Finished games are rejected.
	mustPlay(t, b, board.Black, "d7", "e7", "f7", "g7")
	mustPlay(t, b, board.White, "d9", "e9", "f9", "g9")
	mustPlay(t, b, board.Black, "h7")
	_, err = e.FindBestMove(context.Background(), b, board.White, NodeBudget(100))
	is.Equal(err, ErrGameOver)
}

func TestGameOverDetectedAwayFromLastMove(t *testing.T) {
	is := is.New(t)
	b, err := board.New(13)
	is.NoErr(err)
	// The five is completed before the final history entry, as
	// happens when a position file is replayed in scan order.
	mustPlay(t, b, board.Black, "d7", "e7", "f7", "g7", "h7")
	mustPlay(t, b, board.White, "d9", "e9", "f9", "g9", "j9")

	e := testEngine(t, 13, 1)
	_, err = e.FindBestMove(context.Background(), b, board.White, NodeBudget(100))
	is.Equal(err, ErrGameOver)
}

func TestExpiredBudgetIsNotWorkerFailure(t *testing.T) {
	is := is.New(t)
	b, err := board.New(13)
	is.NoErr(err)
	mustPlay(t, b, board.Black, "g7")
	mustPlay(t, b, board.White, "h8")

	e := testEngine(t, 13, 1)
	_, err = e.FindBestMove(context.Background(), b, board.Black, TimeBudget(-time.Millisecond))
	is.True(errors.Is(err, ErrNoCompletedDepth))
	is.True(!errors.Is(err, ErrNoWorkerResult))
}

func TestCancelledContextAbortsSearch(t *testing.T) {
	is := is.New(t)
	b, err := board.New(15)
	is.NoErr(err)
	mustPlay(t, b, board.Black, "h8")
	mustPlay(t, b, board.White, "h9")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	e := testEngine(t, 15, 2)
	_, err = e.FindBestMove(ctx, b, board.Black, TimeBudget(time.Minute))
	is.True(errors.Is(err, ErrNoCompletedDepth))
}
