package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/hailam/athena/internal/board"
	"github.com/hailam/athena/internal/engine"
	"github.com/hailam/athena/internal/errors"
	"github.com/hailam/athena/internal/game"
	"github.com/hailam/athena/internal/storage"
)

// settings are the flags shared by commands that run the engine.
type settings struct {
	fs        *flag.FlagSet
	db        *string
	depth     *int
	verbose   *bool
	maxPlies  *int
	savePrefs *bool
}

func newFlagSet(name string, out io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(out)
	return fs
}

func engineFlags(fs *flag.FlagSet) *settings {
	defaults := storage.DefaultPreferences()
	return &settings{
		fs:        fs,
		db:        fs.String("db", "", "database directory (default: per-user data directory)"),
		depth:     fs.Int("depth", defaults.Depth, "search depth in plies"),
		verbose:   fs.Bool("v", defaults.Verbose, "log every search"),
		maxPlies:  fs.Int("max-plies", defaults.MaxPlies, "end self-play games as drawn after this many plies (0 = no limit)"),
		savePrefs: fs.Bool("save-prefs", false, "store the effective settings as the new preferences"),
	}
}

func openStore(dir string) (*storage.Storage, error) {
	if dir == "" {
		return storage.NewStorage()
	}
	return storage.Open(dir)
}

// resolve merges stored preferences with the flags given explicitly on the
// command line, which take precedence.
func (s *settings) resolve(store *storage.Storage) (*storage.Preferences, error) {
	prefs, err := store.LoadPreferences()
	if err != nil {
		return nil, errors.Wrap(err, "load preferences")
	}
	s.fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "depth":
			prefs.Depth = *s.depth
		case "v":
			prefs.Verbose = *s.verbose
		case "max-plies":
			prefs.MaxPlies = *s.maxPlies
		}
	})
	if err := (engine.Options{Depth: prefs.Depth}).Validate(); err != nil {
		return nil, err
	}
	if prefs.MaxPlies < 0 {
		return nil, fmt.Errorf("negative ply limit %d", prefs.MaxPlies)
	}
	if *s.savePrefs {
		if err := store.SavePreferences(prefs); err != nil {
			return nil, errors.Wrap(err, "save preferences")
		}
	}
	return prefs, nil
}

func parsePosition(fen string) (*board.Position, error) {
	pos, err := board.ParseFEN(fen)
	if err != nil {
		return nil, &errors.PositionError{Err: err, FEN: fen}
	}
	return pos, nil
}

func cmdBestMove(args []string, out io.Writer) error {
	fs := newFlagSet("bestmove", out)
	fen := fs.String("fen", board.StartFEN, "position to search")
	s := engineFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	pos, err := parsePosition(*fen)
	if err != nil {
		return err
	}
	store, err := openStore(*s.db)
	if err != nil {
		return err
	}
	defer store.Close()
	prefs, err := s.resolve(store)
	if err != nil {
		return err
	}

	eng, err := engine.NewEngine(engine.Options{Depth: prefs.Depth, Verbose: prefs.Verbose})
	if err != nil {
		return err
	}
	var info engine.SearchInfo
	eng.OnInfo = func(si engine.SearchInfo) { info = si }

	m := eng.Search(pos.Copy())
	if m.IsNull() {
		fmt.Fprintf(out, "bestmove 0000 (%s)\n", game.Classify(pos))
		return nil
	}
	fmt.Fprintf(out, "bestmove %s %s\n", m, board.SAN(pos, m))
	fmt.Fprintf(out, "score %s depth %d nodes %d qnodes %d time %v\n",
		engine.ScoreString(info.Score, info.Depth), info.Depth, info.Nodes, info.QNodes, info.Time.Round(time.Millisecond))
	return nil
}

func cmdEval(args []string, out io.Writer) error {
	fs := newFlagSet("eval", out)
	fen := fs.String("fen", board.StartFEN, "position to evaluate")
	if err := fs.Parse(args); err != nil {
		return err
	}
	pos, err := parsePosition(*fen)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "eval %d (side to move)\n", engine.Evaluate(pos))
	fmt.Fprintf(out, "material %d (white)\n", engine.EvaluateMaterial(pos))
	fmt.Fprintf(out, "endgame %v\n", engine.IsEndgame(pos))
	return nil
}

func cmdPerft(args []string, out io.Writer) error {
	fs := newFlagSet("perft", out)
	fen := fs.String("fen", board.StartFEN, "root position")
	depth := fs.Int("depth", 4, "depth in plies")
	divide := fs.Bool("divide", false, "print the count below each root move")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *depth < 0 {
		return errors.Wrapf(errors.ErrInvalidDepth, "perft depth %d", *depth)
	}
	pos, err := parsePosition(*fen)
	if err != nil {
		return err
	}

	start := time.Now()
	var nodes uint64
	if *divide && *depth > 0 {
		for _, e := range board.Divide(pos, *depth) {
			fmt.Fprintf(out, "%s: %d\n", e.Move, e.Nodes)
			nodes += e.Nodes
		}
	} else {
		nodes = board.Perft(pos, *depth)
	}
	elapsed := time.Since(start)

	fmt.Fprintf(out, "nodes %d time %v\n", nodes, elapsed.Round(time.Millisecond))
	return nil
}

func cmdSelfPlay(args []string, out io.Writer) error {
	fs := newFlagSet("selfplay", out)
	fen := fs.String("fen", board.StartFEN, "starting position")
	games := fs.Int("games", 1, "number of games to play")
	s := engineFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if _, err := parsePosition(*fen); err != nil {
		return err
	}

	store, err := openStore(*s.db)
	if err != nil {
		return err
	}
	defer store.Close()
	prefs, err := s.resolve(store)
	if err != nil {
		return err
	}
	eng, err := engine.NewEngine(engine.Options{Depth: prefs.Depth, Verbose: prefs.Verbose})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	for i := 0; i < *games; i++ {
		g, err := game.NewFromFEN(*fen)
		if err != nil {
			return err
		}
		g.MaxPlies = prefs.MaxPlies
		if prefs.Verbose {
			g.OnMove = func(ply int, m board.Move, san string) {
				fmt.Fprintf(out, "  %d. %s\n", ply, san)
			}
		}

		start := time.Now()
		outcome, playErr := g.Play(ctx, eng)
		if playErr != nil && !errors.Is(playErr, context.Canceled) {
			return playErr
		}

		rec := &storage.GameRecord{
			StartFEN: g.StartFEN(),
			FinalFEN: g.Position().FEN(),
			Moves:    g.UCIMoves(),
			SAN:      g.SAN(),
			Result:   outcome.Result.String(),
			Depth:    prefs.Depth,
			Duration: time.Since(start),
		}
		if outcome.IsOver() {
			rec.Termination = outcome.Termination.String()
		}
		id, err := store.SaveGame(rec)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "game %d: %s, %d plies\n", id, outcome, g.Plies())
		fmt.Fprintln(out, g.MoveText())

		if playErr != nil {
			return playErr
		}
	}
	return nil
}

func cmdGames(args []string, out io.Writer) error {
	fs := newFlagSet("games", out)
	db := fs.String("db", "", "database directory (default: per-user data directory)")
	limit := fs.Int("n", 20, "number of games to list (0 = all)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	store, err := openStore(*db)
	if err != nil {
		return err
	}
	defer store.Close()

	games, err := store.ListGames(*limit)
	if err != nil {
		return err
	}
	if len(games) == 0 {
		fmt.Fprintln(out, "no games stored")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPLAYED\tRESULT\tTERMINATION\tPLIES\tDEPTH")
	for _, g := range games {
		term := g.Termination
		if term == "" {
			term = "-"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d\t%d\n",
			g.ID, g.PlayedAt.Format("2006-01-02 15:04"), g.Result, term, len(g.Moves), g.Depth)
	}
	return w.Flush()
}

func cmdShow(args []string, out io.Writer) error {
	fs := newFlagSet("show", out)
	db := fs.String("db", "", "database directory (default: per-user data directory)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("show takes exactly one game id")
	}
	id, err := strconv.ParseUint(fs.Arg(0), 10, 64)
	if err != nil {
		return fmt.Errorf("bad game id %q: %w", fs.Arg(0), err)
	}

	store, err := openStore(*db)
	if err != nil {
		return err
	}
	defer store.Close()
	rec, err := store.LoadGame(id)
	if err != nil {
		return err
	}

	g, err := game.NewFromFEN(rec.StartFEN)
	if err != nil {
		return err
	}
	if rec.Termination == game.PlyLimit.String() {
		g.MaxPlies = len(rec.Moves)
	}
	for _, m := range rec.Moves {
		if _, err := g.Push(m); err != nil {
			return errors.Wrapf(err, "replay game %d", id)
		}
	}

	fmt.Fprintf(out, "[Game %d]\n", rec.ID)
	fmt.Fprintf(out, "[Date %s]\n", rec.PlayedAt.Format("2006.01.02"))
	fmt.Fprintf(out, "[Result %s]\n", rec.Result)
	if rec.Termination != "" {
		fmt.Fprintf(out, "[Termination %s]\n", rec.Termination)
	}
	fmt.Fprintf(out, "[Depth %d]\n", rec.Depth)
	if rec.StartFEN != board.StartFEN {
		fmt.Fprintf(out, "[FEN %s]\n", rec.StartFEN)
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, g.MoveText())
	return nil
}

func cmdStats(args []string, out io.Writer) error {
	fs := newFlagSet("stats", out)
	db := fs.String("db", "", "database directory (default: per-user data directory)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	store, err := openStore(*db)
	if err != nil {
		return err
	}
	defer store.Close()

	st, err := store.LoadStats()
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "games played:  %d\n", st.GamesPlayed)
	fmt.Fprintf(out, "white wins:    %d\n", st.WhiteWins)
	fmt.Fprintf(out, "black wins:    %d\n", st.BlackWins)
	fmt.Fprintf(out, "draws:         %d (%.1f%%)\n", st.Draws, st.DrawRate())
	fmt.Fprintf(out, "unfinished:    %d\n", st.Unfinished)
	fmt.Fprintf(out, "average plies: %.1f\n", st.AveragePlies())
	fmt.Fprintf(out, "longest game:  %d plies\n", st.LongestGame)
	fmt.Fprintf(out, "play time:     %v\n", st.TotalPlayTime.Round(time.Second))
	for term, n := range st.ByTermination {
		fmt.Fprintf(out, "  %s: %d\n", term, n)
	}
	return nil
}

func cmdPrefs(args []string, out io.Writer) error {
	fs := newFlagSet("prefs", out)
	s := engineFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	store, err := openStore(*s.db)
	if err != nil {
		return err
	}
	defer store.Close()

	// any explicit setting is stored
	fs.Visit(func(f *flag.Flag) {
		if f.Name != "db" {
			*s.savePrefs = true
		}
	})
	prefs, err := s.resolve(store)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "depth %d\nverbose %v\nmax-plies %d\n", prefs.Depth, prefs.Verbose, prefs.MaxPlies)
	return nil
}
