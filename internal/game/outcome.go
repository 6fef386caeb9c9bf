package game

import "github.com/hailam/athena/internal/board"

// Result is the score of a finished game.
type Result int

const (
	Ongoing Result = iota
	WhiteWins
	BlackWins
	Draw
)

// String returns the PGN result token.
func (r Result) String() string {
	switch r {
	case WhiteWins:
		return "1-0"
	case BlackWins:
		return "0-1"
	case Draw:
		return "1/2-1/2"
	default:
		return "*"
	}
}

// Termination says why a game ended.
type Termination int

const (
	NotTerminated Termination = iota
	Checkmate
	Stalemate
	ThreefoldRepetition
	FiftyMoveRule
	PlyLimit
)

func (t Termination) String() string {
	switch t {
	case Checkmate:
		return "checkmate"
	case Stalemate:
		return "stalemate"
	case ThreefoldRepetition:
		return "threefold repetition"
	case FiftyMoveRule:
		return "fifty-move rule"
	case PlyLimit:
		return "ply limit"
	default:
		return "in progress"
	}
}

// Outcome pairs a result with its cause.
type Outcome struct {
	Result      Result
	Termination Termination
}

// IsOver reports whether the game has ended.
func (o Outcome) IsOver() bool {
	return o.Result != Ongoing
}

func (o Outcome) String() string {
	if !o.IsOver() {
		return o.Result.String()
	}
	return o.Result.String() + " (" + o.Termination.String() + ")"
}

// Classify reports whether pos ends the game. With no legal move the side to
// move is checkmated if in check and stalemated otherwise. Threefold
// repetition and the fifty-move rule are checked after that.
func Classify(pos *board.Position) Outcome {
	if !pos.HasLegalMoves() {
		if pos.InCheck() {
			return Outcome{Result: winnerResult(pos.SideToMove.Other()), Termination: Checkmate}
		}
		return Outcome{Result: Draw, Termination: Stalemate}
	}
	if pos.IsThreefoldRepetition() {
		return Outcome{Result: Draw, Termination: ThreefoldRepetition}
	}
	if pos.IsFiftyMoveRule() {
		return Outcome{Result: Draw, Termination: FiftyMoveRule}
	}
	return Outcome{}
}

func winnerResult(c board.Color) Result {
	if c == board.White {
		return WhiteWins
	}
	return BlackWins
}
