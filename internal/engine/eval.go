// Package engine implements static evaluation and the alpha-beta search
// that picks a move for the side to move.
package engine

import (
	"github.com/hailam/athena/internal/board"
)

// Evaluation constants
const (
	PawnValue   = 100
	KnightValue = 300
	BishopValue = 300
	RookValue   = 500
	QueenValue  = 900
	KingValue   = 20000
)

// Piece values array for quick lookup
var pieceValues = [7]int{PawnValue, KnightValue, BishopValue, RookValue, QueenValue, KingValue, 0}

// PieceValue returns the material value of pt, or 0 for NoPieceType.
func PieceValue(pt board.PieceType) int {
	return pieceValues[pt]
}

// Passed pawn bonuses by rank, counted from the pawn's own side.
var passedPawnBonus = [8]int{0, 5, 10, 20, 40, 80, 200, 0}

// Pawn structure terms
const (
	centerPawnBonus          = 10
	passedPawnConnectedBonus = 30
	doubledPawnPenalty       = -20
	isolatedPawnPenalty      = -15

	// isolated passed pawns keep 85% of their bonus
	isolatedPassedNum = 85
	isolatedPassedDen = 100
)

// mobilityDivisor scales the legal move count difference.
const mobilityDivisor = 10

// endgameMaterial is the combined non-pawn, non-king material of both sides
// at or below which the king switches to its endgame table.
const endgameMaterial = 2400

// Piece-square tables are laid out as seen from White's side of the board:
// the first row is rank 8, the last row rank 1.

var pawnPST = [64]int{
	0, 0, 0, 0, 0, 0, 0, 0,
	50, 50, 50, 50, 50, 50, 50, 50,
	10, 10, 20, 30, 30, 20, 10, 10,
	5, 5, 10, 25, 25, 10, 5, 5,
	0, 0, 0, 20, 20, 0, 0, 0,
	5, -5, -10, 0, 0, -10, -5, 5,
	5, 10, 10, -20, -20, 10, 10, 5,
	0, 0, 0, 0, 0, 0, 0, 0,
}

var knightPST = [64]int{
	-50, -40, -30, -30, -30, -30, -40, -50,
	-40, -20, 0, 0, 0, 0, -20, -40,
	-30, 0, 10, 15, 15, 10, 0, -30,
	-30, 5, 15, 20, 20, 15, 5, -30,
	-30, 0, 15, 20, 20, 15, 0, -30,
	-30, 5, 10, 15, 15, 10, 5, -30,
	-40, -20, 0, 5, 5, 0, -20, -40,
	-50, -40, -30, -30, -30, -30, -40, -50,
}

var bishopPST = [64]int{
	-20, -10, -10, -10, -10, -10, -10, -20,
	-10, 5, 0, 0, 0, 0, 5, -10,
	-10, 10, 10, 10, 10, 10, 10, -10,
	-10, 0, 10, 10, 10, 10, 0, -10,
	-10, 5, 5, 10, 10, 5, 5, -10,
	-10, 0, 5, 10, 10, 5, 0, -10,
	-10, 0, 0, 0, 0, 0, 0, -10,
	-20, -10, -10, -10, -10, -10, -10, -20,
}

var rookPST = [64]int{
	0, 0, 0, 5, 5, 0, 0, 0,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	5, 10, 10, 10, 10, 10, 10, 5,
	0, 0, 0, 0, 0, 0, 0, 0,
}

var queenPST = [64]int{
	-20, -10, -10, -5, -5, -10, -10, -20,
	-10, 0, 0, 0, 0, 0, 0, -10,
	-10, 0, 5, 5, 5, 5, 0, -10,
	-5, 0, 5, 5, 5, 5, 0, -5,
	0, 0, 5, 5, 5, 5, 0, -5,
	-10, 5, 5, 5, 5, 5, 0, -10,
	-10, 0, 5, 0, 0, 0, 0, -10,
	-20, -10, -10, -5, -5, -10, -10, -20,
}

var kingMidgamePST = [64]int{
	-30, -40, -40, -50, -50, -40, -40, -30,
	-30, -40, -40, -50, -50, -40, -40, -30,
	-30, -40, -40, -50, -50, -40, -40, -30,
	-30, -40, -40, -50, -50, -40, -40, -30,
	-20, -30, -30, -40, -40, -30, -30, -20,
	-10, -20, -20, -20, -20, -20, -20, -10,
	20, 20, 0, 0, 0, 0, 20, 20,
	20, 30, 10, 0, 0, 10, 30, 20,
}

var kingEndgamePST = [64]int{
	-50, -40, -30, -20, -20, -30, -40, -50,
	-30, -20, -10, 0, 0, -10, -20, -30,
	-30, -10, 20, 30, 30, 20, -10, -30,
	-30, -10, 30, 40, 40, 30, -10, -30,
	-30, -10, 30, 40, 40, 30, -10, -30,
	-30, -10, 20, 30, 30, 20, -10, -30,
	-30, -30, 0, 0, 0, 0, -30, -30,
	-50, -30, -30, -30, -30, -30, -30, -50,
}

// psts indexes the non-king tables by piece type.
var psts = [...][64]int{
	board.Pawn:   pawnPST,
	board.Knight: knightPST,
	board.Bishop: bishopPST,
	board.Rook:   rookPST,
	board.Queen:  queenPST,
}

// pstIndex maps sq to the table row layout for color c. White reads the
// rank-mirrored entry since the tables list rank 8 first.
func pstIndex(sq board.Square, c board.Color) board.Square {
	if c == board.White {
		return sq.Mirror()
	}
	return sq
}

// Evaluate returns the static score of pos from the side to move's point of
// view; positive values favor the mover.
//
// If the side not to move is in check and its king has no legal step, the
// position is scored as won for the mover. Positions already drawn by
// repetition or the fifty-move rule score exactly 0.
func Evaluate(pos *board.Position) int {
	if kingIsTrapped(pos) {
		return MateScore
	}
	if pos.IsDraw() {
		return 0
	}

	score := EvaluateMaterial(pos) +
		evaluatePieceSquares(pos) +
		evaluatePawnStructure(pos) +
		evaluateMobility(pos)

	return score * pos.SideToMove.Sign()
}

// kingIsTrapped approximates a mate on the side not to move: it is in check
// and none of its king steps are legal. Other evasions are ignored.
func kingIsTrapped(pos *board.Position) bool {
	them := pos.SideToMove.Other()
	if !pos.IsKingInCheck(them) {
		return false
	}

	moves := forceSide(pos, them).GenerateLegalMoves()
	for i := 0; i < moves.Len(); i++ {
		m := moves.Get(i)
		if m.Piece.Type() == board.King && !m.IsCastling() {
			return false
		}
	}
	return true
}

// EvaluateMaterial returns the material balance from White's point of view.
func EvaluateMaterial(pos *board.Position) int {
	score := 0
	for _, pt := range board.PieceTypes {
		diff := pos.Pieces[board.White][pt].PopCount() - pos.Pieces[board.Black][pt].PopCount()
		score += diff * pieceValues[pt]
	}
	return score
}

// IsEndgame reports whether the combined knight, bishop, rook and queen
// material of both sides is at most endgameMaterial.
func IsEndgame(pos *board.Position) bool {
	total := 0
	for c := board.White; c <= board.Black; c++ {
		for pt := board.Knight; pt <= board.Queen; pt++ {
			total += pos.Pieces[c][pt].PopCount() * pieceValues[pt]
		}
	}
	return total <= endgameMaterial
}

// evaluatePieceSquares sums table bonuses, White minus Black.
func evaluatePieceSquares(pos *board.Position) int {
	kingPST := &kingMidgamePST
	if IsEndgame(pos) {
		kingPST = &kingEndgamePST
	}

	score := 0
	for c := board.White; c <= board.Black; c++ {
		sign := c.Sign()
		for pt := board.Pawn; pt <= board.King; pt++ {
			bb := pos.Pieces[c][pt]
			for bb != 0 {
				idx := pstIndex(bb.PopLSB(), c)
				if pt == board.King {
					score += sign * kingPST[idx]
				} else {
					score += sign * psts[pt][idx]
				}
			}
		}
	}
	return score
}

// aheadMask returns every square on ranks strictly in front of rank for color c.
func aheadMask(rank int, c board.Color) board.Bitboard {
	if c == board.White {
		return board.Universe << (8 * (rank + 1))
	}
	return board.Universe >> (8 * (8 - rank))
}

func isPassedPawn(pos *board.Position, sq board.Square, c board.Color) bool {
	files := board.FileMask[sq.File()] | board.AdjacentFiles(sq.File())
	enemyPawns := pos.Pieces[c.Other()][board.Pawn]
	return enemyPawns&files&aheadMask(sq.Rank(), c) == 0
}

func isIsolatedPawn(pos *board.Position, sq board.Square, c board.Color) bool {
	return pos.Pieces[c][board.Pawn]&board.AdjacentFiles(sq.File()) == 0
}

// isConnectedPawn reports a friendly pawn beside sq on the same rank.
func isConnectedPawn(pos *board.Position, sq board.Square, c board.Color) bool {
	side := board.AdjacentFiles(sq.File()) & board.RankMask[sq.Rank()]
	return pos.Pieces[c][board.Pawn]&side != 0
}

func isDoubledPawn(pos *board.Position, sq board.Square, c board.Color) bool {
	return (pos.Pieces[c][board.Pawn] & board.FileMask[sq.File()]).PopCount() > 1
}

// scorePawns scores c's pawns from c's own point of view.
func scorePawns(pos *board.Position, c board.Color) int {
	score := 0
	pawns := pos.Pieces[c][board.Pawn]
	for pawns != 0 {
		sq := pawns.PopLSB()

		if board.Center.IsSet(sq) {
			score += centerPawnBonus
		}

		if isPassedPawn(pos, sq, c) {
			bonus := passedPawnBonus[sq.RelativeRank(c)]
			if isConnectedPawn(pos, sq, c) {
				bonus += passedPawnConnectedBonus
			}
			if isIsolatedPawn(pos, sq, c) {
				bonus = bonus * isolatedPassedNum / isolatedPassedDen
			}
			score += bonus
			continue
		}

		if isIsolatedPawn(pos, sq, c) {
			score += isolatedPawnPenalty
		}
		if isDoubledPawn(pos, sq, c) {
			score += doubledPawnPenalty
		}
	}
	return score
}

// evaluatePawnStructure returns the pawn structure balance from White's point of view.
func evaluatePawnStructure(pos *board.Position) int {
	return scorePawns(pos, board.White) - scorePawns(pos, board.Black)
}

// evaluateMobility compares the legal move counts of both sides, each taken
// on a copy with that side forced to move.
func evaluateMobility(pos *board.Position) int {
	white := forceSide(pos, board.White).GenerateLegalMoves().Len()
	black := forceSide(pos, board.Black).GenerateLegalMoves().Len()
	return (white - black) / mobilityDivisor
}

// forceSide returns a copy of pos with c to move. The en passant target only
// belongs to the real side to move, so it is dropped when c differs.
func forceSide(pos *board.Position, c board.Color) *board.Position {
	probe := pos.Copy()
	if probe.SideToMove != c {
		probe.SideToMove = c
		probe.EnPassant = board.NoSquare
	}
	return probe
}
