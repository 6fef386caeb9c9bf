package board

// Square offsets for one step in each direction (LERF numbering).
const (
	north     = 8
	south     = -8
	east      = 1
	west      = -1
	northEast = 9
	northWest = 7
	southEast = -7
	southWest = -9
)

var (
	rookDirections   = []int{north, south, east, west}
	bishopDirections = []int{northEast, northWest, southEast, southWest}
	queenDirections  = []int{north, south, east, west, northEast, northWest, southEast, southWest}

	knightOffsets = []int{17, 15, 10, 6, -6, -10, -15, -17}

	// pawnCaptureOffsets are the two forward diagonals per color.
	pawnCaptureOffsets = [2][]int{
		White: {northWest, northEast},
		Black: {southWest, southEast},
	}
)

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// step moves one king-step from sq by offset. It fails when the target is
// off the board or the file changed by more than one, which is how a raw
// offset wraps around the a/h edge.
func step(sq Square, offset int) (Square, bool) {
	to := int(sq) + offset
	if to < 0 || to > 63 {
		return NoSquare, false
	}
	if abs(to&7-int(sq)&7) > 1 {
		return NoSquare, false
	}
	return Square(to), true
}

// knightStep applies a knight offset and accepts it only if the file and
// rank deltas form a real (1,2) or (2,1) jump.
func knightStep(sq Square, offset int) (Square, bool) {
	to := int(sq) + offset
	if to < 0 || to > 63 {
		return NoSquare, false
	}
	df := abs(to&7 - int(sq)&7)
	dr := abs(to>>3 - int(sq)>>3)
	if (df == 1 && dr == 2) || (df == 2 && dr == 1) {
		return Square(to), true
	}
	return NoSquare, false
}

// rayAttacks walks each direction one square at a time and stops on the
// first occupied square, which is included.
func rayAttacks(sq Square, occupied Bitboard, directions []int) Bitboard {
	var attacks Bitboard
	for _, d := range directions {
		for to, ok := step(sq, d); ok; to, ok = step(to, d) {
			attacks = attacks.Set(to)
			if occupied.IsSet(to) {
				break
			}
		}
	}
	return attacks
}

func stepAttacks(sq Square, offsets []int, next func(Square, int) (Square, bool)) Bitboard {
	var attacks Bitboard
	for _, off := range offsets {
		if to, ok := next(sq, off); ok {
			attacks = attacks.Set(to)
		}
	}
	return attacks
}

// attackFunc returns the squares a piece of color c on sq attacks.
type attackFunc func(sq Square, c Color, occupied Bitboard) Bitboard

// attackers is the per-kind dispatch table for attack patterns.
var attackers = [6]attackFunc{
	Pawn: func(sq Square, c Color, _ Bitboard) Bitboard {
		return stepAttacks(sq, pawnCaptureOffsets[c], step)
	},
	Knight: func(sq Square, _ Color, _ Bitboard) Bitboard {
		return stepAttacks(sq, knightOffsets, knightStep)
	},
	Bishop: func(sq Square, _ Color, occ Bitboard) Bitboard {
		return rayAttacks(sq, occ, bishopDirections)
	},
	Rook: func(sq Square, _ Color, occ Bitboard) Bitboard {
		return rayAttacks(sq, occ, rookDirections)
	},
	Queen: func(sq Square, _ Color, occ Bitboard) Bitboard {
		return rayAttacks(sq, occ, queenDirections)
	},
	King: func(sq Square, _ Color, _ Bitboard) Bitboard {
		return stepAttacks(sq, queenDirections, step)
	},
}

// Attacks returns the squares attacked by a piece of kind pt and color c on
// sq, given the board occupancy.
func Attacks(pt PieceType, c Color, sq Square, occupied Bitboard) Bitboard {
	return attackers[pt](sq, c, occupied)
}

// IsSquareAttackedBy reports whether any piece of kind pt belonging to by
// attacks sq. Each such piece's pattern is rebuilt from its own square.
func (p *Position) IsSquareAttackedBy(sq Square, by Color, pt PieceType) bool {
	bb := p.Pieces[by][pt]
	for bb != 0 {
		from := bb.PopLSB()
		if attackers[pt](from, by, p.AllOccupied).IsSet(sq) {
			return true
		}
	}
	return false
}

// IsSquareAttacked reports whether side by attacks sq with any piece kind.
func (p *Position) IsSquareAttacked(sq Square, by Color) bool {
	for _, pt := range PieceTypes {
		if p.IsSquareAttackedBy(sq, by, pt) {
			return true
		}
	}
	return false
}

// IsKingInCheck reports whether side's king is attacked. A side without a
// king is never in check.
func (p *Position) IsKingInCheck(side Color) bool {
	ksq := p.KingSquare(side)
	if ksq == NoSquare {
		return false
	}
	return p.IsSquareAttacked(ksq, side.Other())
}
