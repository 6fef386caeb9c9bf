package engine

import (
	"sort"

	"github.com/hailam/athena/internal/board"
)

// Move ordering priorities
const (
	CaptureBase    = 1000 // base score for any capture before MVV-LVA
	PromotionBonus = 900  // added to every promotion
	InCheckBonus   = 500  // added to every move while the mover is in check
)

// ScoreMove rates m for ordering: captures score CaptureBase plus victim
// value minus attacker value, promotions add PromotionBonus, and every move
// gets InCheckBonus when the side to move is in check.
func ScoreMove(m board.Move, inCheck bool) int {
	score := 0
	if m.Captured != board.NoPiece {
		score += CaptureBase + pieceValues[m.Captured.Type()] - pieceValues[m.Piece.Type()]
	}
	if m.IsPromotion() {
		score += PromotionBonus
	}
	if inCheck {
		score += InCheckBonus
	}
	return score
}

type scoredMove struct {
	move  board.Move
	score int
}

// OrderMoves returns the moves of ml sorted by descending ScoreMove.
// Moves with equal scores keep their generation order.
func OrderMoves(pos *board.Position, ml *board.MoveList) []board.Move {
	inCheck := pos.InCheck()
	scored := make([]scoredMove, ml.Len())
	for i := range scored {
		m := ml.Get(i)
		scored[i] = scoredMove{move: m, score: ScoreMove(m, inCheck)}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})

	moves := make([]board.Move, len(scored))
	for i, sm := range scored {
		moves[i] = sm.move
	}
	return moves
}
