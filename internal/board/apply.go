package board

// castlingRookSquares returns the rook's origin and destination for a
// castling king landing on kingTo.
func castlingRookSquares(kingTo Square) (from, to Square) {
	switch kingTo {
	case G1:
		return H1, F1
	case C1:
		return A1, D1
	case G8:
		return H8, F8
	case C8:
		return A8, D8
	}
	return NoSquare, NoSquare
}

// Apply plays m on the position. When switchSide is false the side to move
// is left as it was, which lets the legality filter ask whether the mover's
// own king is attacked after the move.
//
// The hash is updated in this order:
//
//  1. the old castling key and the old en-passant key are removed
//  2. the mover is removed from its origin
//  3. the captured piece is removed (the passed pawn's square for en passant)
//  4. the mover, or the promoted piece, is added on the destination
//  5. for castling, the rook is removed from its corner and added on its new square
//  6. the new castling key and the new en-passant key are added
//  7. the side key is toggled if the side switches
//
// m must come from this position's move list; anything else leaves the
// position in an unspecified state.
func (p *Position) Apply(m Move, switchSide bool) {
	us := m.Piece.Color()
	isPawn := m.Piece.Type() == Pawn

	p.Hash ^= p.keys.Castling(p.Castling)
	if p.EnPassant != NoSquare {
		p.Hash ^= p.keys.EnPassant(p.EnPassant)
	}

	p.removePiece(m.Piece, m.From)

	if m.IsCapture() {
		capSq := m.To
		if m.IsEnPassant() {
			capSq = NewSquare(m.To.File(), m.From.Rank())
		}
		p.removePiece(m.Captured, capSq)
	}

	if m.IsPromotion() {
		p.putPiece(m.Promotion, m.To)
	} else {
		p.putPiece(m.Piece, m.To)
	}

	if m.IsCastling() {
		rookFrom, rookTo := castlingRookSquares(m.To)
		rook := NewPiece(Rook, us)
		p.removePiece(rook, rookFrom)
		p.putPiece(rook, rookTo)
	}

	p.updateOccupancy()

	switch m.Piece.Type() {
	case King:
		p.Castling &^= sideRights[us]
	case Rook:
		p.Castling &^= rookHomeRights[m.From]
	}
	if m.IsCapture() {
		p.Castling &^= rookHomeRights[m.To]
	}

	if isPawn || m.IsCapture() {
		p.HalfMoveClock = 0
	} else {
		p.HalfMoveClock++
	}
	if us == Black {
		p.FullMoveNumber++
	}

	p.EnPassant = NoSquare
	if m.IsDoublePush() {
		p.EnPassant = Square((int(m.From) + int(m.To)) / 2)
	}

	p.Hash ^= p.keys.Castling(p.Castling)
	if p.EnPassant != NoSquare {
		p.Hash ^= p.keys.EnPassant(p.EnPassant)
	}

	if switchSide {
		p.SideToMove = us.Other()
		p.Hash ^= p.keys.Side()
	}

	if isPawn {
		p.history = nil
	} else {
		p.record()
	}
}
