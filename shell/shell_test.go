package shell

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matryer/is"

	"github.com/lverne/gobang/board"
	"github.com/lverne/gobang/config"
	"github.com/lverne/gobang/eval"
)

func TestExtractFields(t *testing.T) {
	is := is.New(t)
	type testdata struct {
		line   string
		expCmd *shellcmd
		expErr error
	}
	cases := []testdata{
		{"", nil, errNoData},
		{"load -file /path/to/pos.txt",
			&shellcmd{"load", nil, map[string]string{"file": "/path/to/pos.txt"}},
			nil},
		{"move h8",
			&shellcmd{"move", []string{"h8"}, map[string]string{}},
			nil},
		{"set threads 4 -verbose yes ",
			&shellcmd{"set",
				[]string{"threads", "4"},
				map[string]string{"verbose": "yes"}},
			nil,
		},
		{"load pos.txt -file",
			nil, errWrongOptionSyntax},
	}
	for _, c := range cases {
		cmd, err := extractFields(c.line)
		is.Equal(cmd, c.expCmd)
		is.Equal(err, c.expErr)
	}
}

func testController(t *testing.T) (*ShellController, *bytes.Buffer) {
	t.Helper()
	out := &bytes.Buffer{}
	cfg := config.Default()
	cfg.BoardDim = 9
	cfg.Threads = 1
	cfg.TTMemFraction = 0.0001 // keep test tables tiny
	sc := &ShellController{
		out:     out,
		cfg:     cfg,
		weights: eval.DefaultWeights(),
	}
	if err := sc.newGame(cfg.BoardDim); err != nil {
		t.Fatal(err)
	}
	return sc, out
}

func TestHandleMoveAlternates(t *testing.T) {
	is := is.New(t)
	sc, _ := testController(t)

	is.NoErr(sc.handleMove("e5"))
	is.NoErr(sc.handleMove("d4"))

	e5, _ := board.ParsePos("e5")
	d4, _ := board.ParsePos("d4")
	is.Equal(sc.b.Get(e5), board.Black)
	is.Equal(sc.b.Get(d4), board.White)
}

func TestHandleMoveRejectsOccupied(t *testing.T) {
	is := is.New(t)
	sc, _ := testController(t)

	is.NoErr(sc.handleMove("e5"))
	is.True(sc.handleMove("e5") != nil)
}

func TestHandleUndo(t *testing.T) {
	is := is.New(t)
	sc, out := testController(t)

	is.True(sc.handleUndo() != nil) // nothing to take back

	is.NoErr(sc.handleMove("e5"))
	out.Reset()
	is.NoErr(sc.handleUndo())
	is.Equal(sc.b.MoveCount(), 0)
	is.True(strings.Contains(out.String(), "took back e5"))
}

func TestDispatchUnknownCommand(t *testing.T) {
	is := is.New(t)
	sc, out := testController(t)

	is.NoErr(sc.dispatch("frobnicate", nil))
	is.True(strings.Contains(out.String(), "unknown command"))
}

func TestDispatchCompact(t *testing.T) {
	is := is.New(t)
	sc, out := testController(t)

	is.NoErr(sc.dispatch("compact", nil))
	is.True(strings.Contains(out.String(), "9|9/9/9/9/9/9/9/9/9"))
}

func TestDispatchLoadCompact(t *testing.T) {
	is := is.New(t)
	sc, out := testController(t)

	is.NoErr(sc.dispatch("load 9|4x4/9/9/9/9/9/9/9/9", nil))
	is.Equal(sc.b.MoveCount(), 1)

	out.Reset()
	is.NoErr(sc.dispatch("load 9|bogus", nil))
	is.True(strings.Contains(out.String(), "Error"))
}

func TestDispatchSetThreads(t *testing.T) {
	is := is.New(t)
	sc, _ := testController(t)

	is.NoErr(sc.dispatch("set threads 3", nil))
	is.Equal(sc.engine.Threads(), 3)

	sc2, out := testController(t)
	is.NoErr(sc2.dispatch("set threads zero", nil))
	is.True(strings.Contains(out.String(), "Error"))
}

func TestDispatchSolveFile(t *testing.T) {
	is := is.New(t)
	sc, out := testController(t)

	path := filepath.Join(t.TempDir(), "pos.txt")
	grid := "---------\n---------\n---------\n---xxxx--\n---o-----\n---o-----\n---o-----\n---------\n---------\n"
	is.NoErr(os.WriteFile(path, []byte(grid), 0o644))

	is.NoErr(sc.dispatch("solve -file "+path+" -time 500", nil))
	is.True(strings.Contains(out.String(), "best: "))
	is.Equal(sc.b.MoveCount(), 7) // solve does not play the move
}

func TestEngineRespondsToPlay(t *testing.T) {
	is := is.New(t)
	sc, out := testController(t)

	is.NoErr(sc.handleMove("e5"))
	out.Reset()
	is.NoErr(sc.dispatch("play 200", nil))
	is.True(strings.Contains(out.String(), "best: "))
	is.Equal(sc.b.MoveCount(), 2)
}
