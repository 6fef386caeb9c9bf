// Package game drives a full game through the board and engine packages:
// it applies moves, keeps the move record and decides when the game is over.
package game

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/hailam/athena/internal/board"
	"github.com/hailam/athena/internal/errors"
)

// ErrGameOver is returned when a move is pushed after the game has ended.
var ErrGameOver = errors.Wrap(errors.ErrIllegalMove, "game is over")

// Mover picks a move for the side to move, or board.NoMove if there is none.
// *engine.Engine satisfies it.
type Mover interface {
	Search(pos *board.Position) board.Move
}

// Game is a position together with the moves that led to it.
type Game struct {
	pos      *board.Position
	startFEN string
	moves    []board.Move
	san      []string
	outcome  Outcome

	// MaxPlies ends the game as a draw after that many plies; 0 means no limit.
	MaxPlies int

	// Callbacks
	OnMove func(ply int, m board.Move, san string)
}

// New starts a game from the standard initial position.
func New() *Game {
	g, _ := NewFromFEN(board.StartFEN)
	return g
}

// NewFromFEN starts a game from fen, which must be a complete, valid FEN.
func NewFromFEN(fen string) (*Game, error) {
	pos, err := board.ParseFEN(fen)
	if err != nil {
		return nil, err
	}
	g := &Game{pos: pos, startFEN: pos.FEN()}
	g.outcome = Classify(pos)
	return g, nil
}

// Position returns a copy of the current position.
func (g *Game) Position() *board.Position {
	return g.pos.Copy()
}

// StartFEN returns the FEN the game started from.
func (g *Game) StartFEN() string {
	return g.startFEN
}

// Moves returns the moves played so far.
func (g *Game) Moves() []board.Move {
	return append([]board.Move(nil), g.moves...)
}

// SAN returns the moves played so far in standard algebraic notation.
func (g *Game) SAN() []string {
	return append([]string(nil), g.san...)
}

// UCIMoves returns the moves played so far in coordinate notation.
func (g *Game) UCIMoves() []string {
	out := make([]string, len(g.moves))
	for i, m := range g.moves {
		out[i] = m.String()
	}
	return out
}

// Plies returns the number of moves played.
func (g *Game) Plies() int {
	return len(g.moves)
}

// Outcome returns the current state of the game.
func (g *Game) Outcome() Outcome {
	return g.outcome
}

// Push plays a move given in coordinate or algebraic notation.
func (g *Game) Push(text string) (board.Move, error) {
	if g.outcome.IsOver() {
		return board.NoMove, ErrGameOver
	}
	m, err := board.ParseMove(g.pos, text)
	if err != nil {
		return board.NoMove, &errors.PositionError{Err: err, FEN: g.pos.FEN(), Ply: len(g.moves) + 1}
	}
	g.play(m)
	return m, nil
}

// PushMove plays m, which must be legal in the current position.
func (g *Game) PushMove(m board.Move) error {
	if g.outcome.IsOver() {
		return ErrGameOver
	}
	if !g.pos.GenerateLegalMoves().Contains(m) {
		return &errors.PositionError{
			Err: errors.Wrapf(errors.ErrIllegalMove, "move %s", m),
			FEN: g.pos.FEN(),
			Ply: len(g.moves) + 1,
		}
	}
	g.play(m)
	return nil
}

func (g *Game) play(m board.Move) {
	san := board.SAN(g.pos, m)
	g.pos.Apply(m, true)
	g.moves = append(g.moves, m)
	g.san = append(g.san, san)

	g.outcome = Classify(g.pos)
	if !g.outcome.IsOver() && g.MaxPlies > 0 && len(g.moves) >= g.MaxPlies {
		g.outcome = Outcome{Result: Draw, Termination: PlyLimit}
	}

	if g.OnMove != nil {
		g.OnMove(len(g.moves), m, san)
	}
}

// Play asks mover for moves until the game ends or ctx is done. The context
// is checked between moves; a search in progress is not interrupted.
func (g *Game) Play(ctx context.Context, mover Mover) (Outcome, error) {
	if err := g.checkPlies(); err != nil {
		return g.outcome, err
	}
	for !g.outcome.IsOver() {
		if err := ctx.Err(); err != nil {
			return g.outcome, err
		}
		m := mover.Search(g.pos.Copy())
		if m.IsNull() {
			// Classify already reports positions without moves.
			return g.outcome, fmt.Errorf("no move returned in %s", g.pos.FEN())
		}
		if err := g.PushMove(m); err != nil {
			return g.outcome, err
		}
	}
	log.Printf("[Game] %s after %d plies", g.outcome, len(g.moves))
	return g.outcome, nil
}

func (g *Game) checkPlies() error {
	if g.MaxPlies < 0 {
		return fmt.Errorf("negative ply limit %d", g.MaxPlies)
	}
	return nil
}

// MoveText renders the moves as numbered algebraic movetext followed by the
// result token, e.g. "1. e4 e5 2. Nf3 *".
func (g *Game) MoveText() string {
	start := board.LoadFEN(g.startFEN)
	number := start.FullMoveNumber
	black := start.SideToMove == board.Black

	var sb strings.Builder
	for i, san := range g.san {
		if !black {
			sb.WriteString(strconv.Itoa(number))
			sb.WriteString(". ")
		} else if i == 0 {
			sb.WriteString(strconv.Itoa(number))
			sb.WriteString("... ")
		}
		sb.WriteString(san)
		sb.WriteByte(' ')
		if black {
			number++
		}
		black = !black
	}
	sb.WriteString(g.outcome.Result.String())
	return sb.String()
}
