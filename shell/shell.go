// Package shell is the interactive console: it owns a game in
// progress and drives the search engine from typed commands.
package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/chzyer/readline"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/lverne/gobang/board"
	"github.com/lverne/gobang/config"
	"github.com/lverne/gobang/eval"
	"github.com/lverne/gobang/movegen"
	"github.com/lverne/gobang/position"
	"github.com/lverne/gobang/search"
	"github.com/lverne/gobang/zobrist"
)

const defaultSearchTime = 5 * time.Second

type ShellController struct {
	l   *readline.Instance
	out io.Writer

	cfg     *config.Config
	weights eval.Weights

	b      *board.Board
	engine *search.Engine
	budget time.Duration
}

func filterInput(r rune) (rune, bool) {
	switch r {
	// block CtrlZ feature
	case readline.CharCtrlZ:
		return r, false
	}
	return r, true
}

func showMessage(msg string, w io.Writer) {
	io.WriteString(w, msg)
	io.WriteString(w, "\n")
}

func NewShellController(cfg *config.Config) *ShellController {
	l, err := readline.NewEx(&readline.Config{
		Prompt:          "\033[31mgobang>\033[0m ",
		HistoryFile:     "/tmp/gobang-readline.tmp",
		EOFPrompt:       "exit",
		InterruptPrompt: "^C",
		AutoComplete:    completer,

		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
	})
	if err != nil {
		panic(err)
	}

	sc := &ShellController{
		l:      l,
		out:    l.Stdout(),
		cfg:    cfg,
		budget: defaultSearchTime,
	}
	sc.weights = sc.loadWeights(cfg.WeightsFile)
	sc.newGame(cfg.BoardDim)
	return sc
}

func (sc *ShellController) loadWeights(path string) eval.Weights {
	if path == "" {
		return eval.DefaultWeights()
	}
	w, err := eval.LoadWeights(path)
	if err != nil {
		log.Warn().Err(err).Str("file", path).Msg("using default weights")
	}
	return w
}

func (sc *ShellController) newGame(dim int) error {
	b, err := board.New(dim)
	if err != nil {
		return err
	}
	sc.b = b
	sc.attachEngine()
	return nil
}

// setBoard swaps in a loaded position, rebuilding the engine if the
// dimension changed.
func (sc *ShellController) setBoard(b *board.Board) {
	rebuild := sc.b == nil || sc.b.Dim() != b.Dim()
	sc.b = b
	if rebuild {
		sc.attachEngine()
	}
}

func (sc *ShellController) attachEngine() {
	z := zobrist.New(sc.b.Dim(), sc.cfg.ZobristSeed)
	tt := &search.TranspositionTable{}
	tt.Reset(sc.cfg.TTMemFraction)
	sc.engine = search.NewEngine(z, tt, sc.weights, movegen.New(sc.cfg.CandidateRadius))
	sc.engine.SetThreads(sc.cfg.Threads)
}

func (sc *ShellController) showMessage(msg string) {
	showMessage(msg, sc.out)
}

func (sc *ShellController) showError(err error) {
	showMessage("Error: "+err.Error(), sc.out)
}

func (sc *ShellController) showBoard() {
	sc.showMessage(sc.b.String())
	sc.showMessage(position.SideToMove(sc.b).String() + " to move")
}

// handleMove plays the side-to-move stone at the given square and
// reports a win if it completes five.
func (sc *ShellController) handleMove(sq string) error {
	p, err := board.ParsePos(sq)
	if err != nil {
		return err
	}
	stm := position.SideToMove(sc.b)
	if err := sc.b.MakeMove(p, stm); err != nil {
		return err
	}
	if winner, won := sc.b.CheckWin(p); won {
		sc.showBoard()
		sc.showMessage(winner.String() + " wins!")
		return nil
	}
	sc.showBoard()
	return nil
}

// runSearch searches the current position for the side to move. When
// commit is true the best move is played on the board.
func (sc *ShellController) runSearch(budget search.Budget, commit bool) error {
	stm := position.SideToMove(sc.b)
	res, err := sc.engine.FindBestMove(context.Background(), sc.b, stm, budget)
	if err != nil {
		return err
	}
	sc.showMessage("best: " + res.String())
	if !commit {
		return nil
	}
	if err := sc.b.MakeMove(res.Move, stm); err != nil {
		return err
	}
	if winner, won := sc.b.CheckWin(res.Move); won {
		sc.showBoard()
		sc.showMessage(winner.String() + " wins!")
		return nil
	}
	sc.showBoard()
	return nil
}

func (sc *ShellController) searchBudget(args []string) (search.Budget, error) {
	if len(args) == 0 {
		return search.TimeBudget(sc.budget), nil
	}
	ms, err := strconv.Atoi(args[0])
	if err != nil || ms <= 0 {
		return search.Budget{}, fmt.Errorf("bad time limit %q, want milliseconds", args[0])
	}
	return search.TimeBudget(time.Duration(ms) * time.Millisecond), nil
}

func (sc *ShellController) handleUndo() error {
	m, err := sc.b.UndoMove()
	if err != nil {
		return err
	}
	sc.showMessage("took back " + m.Pos.String())
	sc.showBoard()
	return nil
}

func (sc *ShellController) handleLoad(cmd *shellcmd) error {
	var b *board.Board
	var err error
	switch {
	case cmd.options["file"] != "":
		b, err = position.ParseFile(cmd.options["file"])
	case len(cmd.args) == 1 && strings.Contains(cmd.args[0], "|"):
		b, err = position.ParseCompact(cmd.args[0])
	case len(cmd.args) == 1:
		b, err = position.ParseFile(cmd.args[0])
	default:
		return errors.New("usage: load <file> | load -file <file> | load <compact>")
	}
	if err != nil {
		return err
	}
	sc.setBoard(b)
	sc.showBoard()
	return nil
}

// handleSolve loads a position (or uses the current one) and runs a
// single search, printing the board, the chosen move and the stats.
func (sc *ShellController) handleSolve(cmd *shellcmd) error {
	if path := cmd.options["file"]; path != "" {
		b, err := position.ParseFile(path)
		if err != nil {
			return err
		}
		sc.setBoard(b)
	}
	budget := search.TimeBudget(sc.budget)
	if ms := cmd.options["time"]; ms != "" {
		var err error
		budget, err = sc.searchBudget([]string{ms})
		if err != nil {
			return err
		}
	}
	sc.showBoard()
	return sc.runSearch(budget, false)
}

// handlePerf measures raw evaluation throughput on the current
// position, fanning out over the configured worker count for roughly
// the given number of seconds.
func (sc *ShellController) handlePerf(args []string) error {
	secs := 3
	if len(args) == 1 {
		s, err := strconv.Atoi(args[0])
		if err != nil || s <= 0 {
			return fmt.Errorf("bad duration %q, want seconds", args[0])
		}
		secs = s
	}
	deadline := time.Now().Add(time.Duration(secs) * time.Second)
	var count atomic.Uint64
	start := time.Now()

	g := errgroup.Group{}
	for t := 0; t < sc.cfg.Threads; t++ {
		g.Go(func() error {
			ev := eval.New(sc.weights)
			wb := sc.b.Clone()
			for time.Now().Before(deadline) {
				for i := 0; i < 1000; i++ {
					ev.Evaluate(wb, board.Black)
				}
				count.Add(1000)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	elapsed := time.Since(start)
	sc.showMessage(fmt.Sprintf("%s evals in %v across %d workers (%s evals/sec)",
		search.FormatCount(float64(count.Load())), elapsed.Round(time.Millisecond),
		sc.cfg.Threads,
		search.FormatCount(float64(count.Load())/elapsed.Seconds())))
	return nil
}

func (sc *ShellController) handleSet(args []string) error {
	if len(args) != 2 {
		return errors.New("usage: set <threads|time> <value>")
	}
	n, err := strconv.Atoi(args[1])
	if err != nil || n <= 0 {
		return fmt.Errorf("bad value %q", args[1])
	}
	switch args[0] {
	case "threads":
		sc.engine.SetThreads(n)
		sc.cfg.Threads = n
		sc.showMessage(fmt.Sprintf("threads set to %d", sc.engine.Threads()))
	case "time":
		sc.budget = time.Duration(n) * time.Millisecond
		sc.showMessage("time limit set to " + sc.budget.String())
	default:
		return fmt.Errorf("unknown setting %q", args[0])
	}
	return nil
}

func (sc *ShellController) dispatch(line string, sig chan os.Signal) error {
	cmd, err := extractFields(line)
	if err != nil {
		if errors.Is(err, errNoData) {
			return nil
		}
		sc.showError(err)
		return nil
	}

	switch cmd.cmd {
	case "new":
		dim := sc.cfg.BoardDim
		if len(cmd.args) == 1 {
			dim, err = strconv.Atoi(cmd.args[0])
			if err != nil {
				sc.showError(err)
				return nil
			}
		}
		if err := sc.newGame(dim); err != nil {
			sc.showError(err)
			return nil
		}
		sc.showBoard()
	case "show", "s":
		sc.showBoard()
	case "compact":
		sc.showMessage(position.Compact(sc.b))
	case "move", "m":
		if len(cmd.args) != 1 {
			sc.showError(errors.New("usage: move <square>, e.g. move h8"))
			return nil
		}
		if err := sc.handleMove(cmd.args[0]); err != nil {
			sc.showError(err)
		}
	case "play", "p":
		budget, err := sc.searchBudget(cmd.args)
		if err != nil {
			sc.showError(err)
			return nil
		}
		if err := sc.runSearch(budget, true); err != nil {
			sc.showError(err)
		}
	case "search":
		budget, err := sc.searchBudget(cmd.args)
		if err != nil {
			sc.showError(err)
			return nil
		}
		if err := sc.runSearch(budget, false); err != nil {
			sc.showError(err)
		}
	case "undo", "takeback":
		if err := sc.handleUndo(); err != nil {
			sc.showError(err)
		}
	case "solve":
		if err := sc.handleSolve(cmd); err != nil {
			sc.showError(err)
		}
	case "load":
		if err := sc.handleLoad(cmd); err != nil {
			sc.showError(err)
		}
	case "perf":
		if err := sc.handlePerf(cmd.args); err != nil {
			sc.showError(err)
		}
	case "weights":
		if len(cmd.args) != 1 {
			sc.showError(errors.New("usage: weights <file.yaml>"))
			return nil
		}
		sc.weights = sc.loadWeights(cmd.args[0])
		sc.attachEngine()
		sc.showMessage("weights loaded, transposition table cleared")
	case "set":
		if err := sc.handleSet(cmd.args); err != nil {
			sc.showError(err)
		}
	case "help":
		usage(sc.out)
	case "bye", "exit", "quit":
		sig <- syscall.SIGINT
		return errors.New("sending quit signal")
	default:
		sc.showMessage("unknown command " + strconv.Quote(cmd.cmd) + "; try `help`")
	}
	return nil
}

// Execute runs a single command line and returns, for one-shot
// invocations from the command line.
func (sc *ShellController) Execute(sig chan os.Signal, line string) {
	if err := sc.dispatch(strings.TrimSpace(line), sig); err != nil {
		log.Error().Err(err).Msg("")
	}
}

func (sc *ShellController) Loop(sig chan os.Signal) {
	defer sc.l.Close()

	for {
		line, err := sc.l.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				sig <- syscall.SIGINT
				break
			}
			continue
		} else if err == io.EOF {
			sig <- syscall.SIGINT
			break
		}
		line = strings.TrimSpace(line)

		if err := sc.dispatch(line, sig); err != nil {
			log.Error().Err(err).Msg("")
			break
		}
	}
	log.Debug().Msgf("Exiting readline loop...")
}
