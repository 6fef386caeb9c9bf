package engine

import (
	"fmt"
	"log"
	"time"

	"github.com/hailam/athena/internal/board"
	"github.com/hailam/athena/internal/errors"
)

// SearchInfo describes a completed root search.
type SearchInfo struct {
	Depth  int
	Score  int
	Nodes  uint64
	QNodes uint64
	Time   time.Duration
	Move   board.Move
}

// NPS returns nodes (main plus quiescence) per second.
func (si SearchInfo) NPS() uint64 {
	if si.Time <= 0 {
		return 0
	}
	return uint64(float64(si.Nodes+si.QNodes) / si.Time.Seconds())
}

// Options configures the engine.
type Options struct {
	Depth   int  // search depth in plies, 1..MaxDepth
	Verbose bool // log a line per search
}

// DefaultOptions returns the options used when none are given.
func DefaultOptions() Options {
	return Options{Depth: 4}
}

// Validate checks that Depth is within 1..MaxDepth.
func (o Options) Validate() error {
	if o.Depth < 1 || o.Depth > MaxDepth {
		return errors.Wrapf(errors.ErrInvalidDepth, "depth %d outside 1..%d", o.Depth, MaxDepth)
	}
	return nil
}

// Engine is the chess AI engine.
type Engine struct {
	searcher *Searcher
	opts     Options

	// Callbacks
	OnInfo func(SearchInfo)
}

// NewEngine creates an engine with the given options.
func NewEngine(opts Options) (*Engine, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &Engine{
		searcher: NewSearcher(),
		opts:     opts,
	}, nil
}

// Options returns the current options.
func (e *Engine) Options() Options {
	return e.opts
}

// SetDepth changes the default search depth.
func (e *Engine) SetDepth(depth int) error {
	opts := e.opts
	opts.Depth = depth
	if err := opts.Validate(); err != nil {
		return err
	}
	e.opts = opts
	return nil
}

// Search finds the best move at the configured depth.
func (e *Engine) Search(pos *board.Position) board.Move {
	m, _ := e.SearchDepth(pos, e.opts.Depth)
	return m
}

// SearchDepth finds the best move searching depth plies. It returns
// board.NoMove with a nil error when the side to move has no legal move.
func (e *Engine) SearchDepth(pos *board.Position, depth int) (board.Move, error) {
	if err := (Options{Depth: depth}).Validate(); err != nil {
		return board.NoMove, err
	}

	e.searcher.Reset()
	start := time.Now()
	move, score := e.searcher.Search(pos, depth)

	info := SearchInfo{
		Depth:  depth,
		Score:  score,
		Nodes:  e.searcher.Nodes(),
		QNodes: e.searcher.QNodes(),
		Time:   time.Since(start),
		Move:   move,
	}
	if e.opts.Verbose {
		log.Printf("[Search] depth %d best %s score %s nodes %d qnodes %d time %v",
			depth, move, ScoreString(score, depth), info.Nodes, info.QNodes, info.Time)
	}
	if e.OnInfo != nil {
		e.OnInfo(info)
	}
	return move, nil
}

// Perft counts leaf nodes of the legal move tree (for debugging move generation).
func (e *Engine) Perft(pos *board.Position, depth int) uint64 {
	return board.Perft(pos, depth)
}

// Evaluate returns the static evaluation of a position.
func (e *Engine) Evaluate(pos *board.Position) int {
	return Evaluate(pos)
}

// ScoreString formats a root score from a search of the given depth in UCI
// form: "cp N", or "mate N" in moves (negative when being mated).
func ScoreString(score, depth int) string {
	if !IsMateScore(score) {
		return fmt.Sprintf("cp %d", score)
	}

	plies := depth - (abs(score) - MateScore)
	if plies < 1 {
		plies = 1
	}
	moves := (plies + 1) / 2
	if score < 0 {
		moves = -moves
	}
	return fmt.Sprintf("mate %d", moves)
}
