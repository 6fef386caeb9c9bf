package board

import "log"

// DebugMoveValidation enables tracing of moves rejected by the legality filter.
var DebugMoveValidation = false

var promotionKinds = [4]PieceType{Queen, Rook, Bishop, Knight}

// generator emits the pseudo-legal moves of the piece of the side to move on from.
type generator func(p *Position, from Square, ml *MoveList)

// generators is the per-kind dispatch table used by GeneratePseudoLegalMoves.
var generators = [6]generator{
	Pawn:   generatePawnMoves,
	Knight: generateKnightMoves,
	Bishop: sliderGenerator(Bishop),
	Rook:   sliderGenerator(Rook),
	Queen:  sliderGenerator(Queen),
	King:   generateKingMoves,
}

// GeneratePseudoLegalMoves returns every move the side to move's pieces can
// make by their movement rules, without checking king safety.
func (p *Position) GeneratePseudoLegalMoves() *MoveList {
	ml := NewMoveList()
	us := p.SideToMove
	for _, pt := range PieceTypes {
		bb := p.Pieces[us][pt]
		for bb != 0 {
			generators[pt](p, bb.PopLSB(), ml)
		}
	}
	return ml
}

// GenerateLegalMoves returns the moves that do not leave the mover's king in
// check. Each candidate is played on a scratch copy with the side left
// unchanged and rejected if the mover's king is then attacked.
func (p *Position) GenerateLegalMoves() *MoveList {
	pseudo := p.GeneratePseudoLegalMoves()
	legal := NewMoveList()
	us := p.SideToMove
	for _, m := range pseudo.Slice() {
		if m.IsCastling() && !p.castlingPathSafe(m) {
			if DebugMoveValidation {
				log.Printf("[MoveGen] %s rejected: castling path attacked", m)
			}
			continue
		}
		scratch := *p
		scratch.Apply(m, false)
		if scratch.IsKingInCheck(us) {
			if DebugMoveValidation {
				log.Printf("[MoveGen] %s rejected: leaves king in check", m)
			}
			continue
		}
		legal.Add(m)
	}
	return legal
}

// GenerateCaptures returns the legal moves that capture a piece.
func (p *Position) GenerateCaptures() *MoveList {
	all := p.GenerateLegalMoves()
	captures := NewMoveList()
	for _, m := range all.Slice() {
		if m.Captured != NoPiece {
			captures.Add(m)
		}
	}
	return captures
}

// HasLegalMoves reports whether the side to move has any legal move.
func (p *Position) HasLegalMoves() bool {
	return p.GenerateLegalMoves().Len() > 0
}

// IsCheckmate reports whether the side to move is checkmated.
func (p *Position) IsCheckmate() bool {
	return p.InCheck() && !p.HasLegalMoves()
}

// IsStalemate reports whether the side to move has no moves but is not in check.
func (p *Position) IsStalemate() bool {
	return !p.InCheck() && !p.HasLegalMoves()
}

// addTargets classifies each target square as quiet move or capture.
// Squares held by the mover's own pieces are skipped.
func addTargets(p *Position, from Square, piece Piece, targets Bitboard, ml *MoveList) {
	for targets != 0 {
		to := targets.PopLSB()
		victim := p.PieceAt(to)
		switch {
		case victim == NoPiece:
			ml.Add(Move{From: from, To: to, Piece: piece, Captured: NoPiece, Promotion: NoPiece})
		case victim.Color() != piece.Color():
			ml.Add(Move{From: from, To: to, Piece: piece, Captured: victim, Promotion: NoPiece, Flags: FlagCapture})
		}
	}
}

func generatePawnMoves(p *Position, from Square, ml *MoveList) {
	us := p.SideToMove
	them := us.Other()
	pawn := NewPiece(Pawn, us)

	forward := north
	if us == Black {
		forward = south
	}

	if one, ok := step(from, forward); ok && p.IsEmpty(one) {
		if one.RelativeRank(us) == 7 {
			addPromotions(ml, from, one, pawn, NoPiece, us)
		} else {
			ml.Add(Move{From: from, To: one, Piece: pawn, Captured: NoPiece, Promotion: NoPiece})
			if from.RelativeRank(us) == 1 {
				if two, ok := step(one, forward); ok && p.IsEmpty(two) {
					ml.Add(Move{From: from, To: two, Piece: pawn, Captured: NoPiece, Promotion: NoPiece, Flags: FlagDoublePush})
				}
			}
		}
	}

	for _, off := range pawnCaptureOffsets[us] {
		to, ok := step(from, off)
		if !ok {
			continue
		}
		victim := p.PieceAt(to)
		switch {
		case victim != NoPiece && victim.Color() == them:
			if to.RelativeRank(us) == 7 {
				addPromotions(ml, from, to, pawn, victim, us)
			} else {
				ml.Add(Move{From: from, To: to, Piece: pawn, Captured: victim, Promotion: NoPiece, Flags: FlagCapture})
			}
		case victim == NoPiece && to == p.EnPassant:
			ml.Add(Move{
				From:      from,
				To:        to,
				Piece:     pawn,
				Captured:  NewPiece(Pawn, them),
				Promotion: NoPiece,
				Flags:     FlagCapture | FlagEnPassant,
			})
		}
	}
}

// addPromotions emits one move per promotion kind, queen first.
func addPromotions(ml *MoveList, from, to Square, pawn, victim Piece, us Color) {
	flags := FlagPromotion
	if victim != NoPiece {
		flags |= FlagCapture
	}
	for _, pt := range promotionKinds {
		ml.Add(Move{From: from, To: to, Piece: pawn, Captured: victim, Promotion: NewPiece(pt, us), Flags: flags})
	}
}

func generateKnightMoves(p *Position, from Square, ml *MoveList) {
	knight := NewPiece(Knight, p.SideToMove)
	addTargets(p, from, knight, Attacks(Knight, p.SideToMove, from, p.AllOccupied), ml)
}

func sliderGenerator(pt PieceType) generator {
	return func(p *Position, from Square, ml *MoveList) {
		piece := NewPiece(pt, p.SideToMove)
		addTargets(p, from, piece, Attacks(pt, p.SideToMove, from, p.AllOccupied), ml)
	}
}

func generateKingMoves(p *Position, from Square, ml *MoveList) {
	us := p.SideToMove
	king := NewPiece(King, us)
	addTargets(p, from, king, Attacks(King, us, from, p.AllOccupied), ml)
	generateCastlingMoves(p, from, ml)
}

// castlingOption describes one castling move on fixed squares.
type castlingOption struct {
	right    CastlingRights
	kingFrom Square
	kingTo   Square
	rookFrom Square
	between  Bitboard // squares strictly between king and rook
}

var castlingOptions = [2][2]castlingOption{
	White: {
		{WhiteKingSide, E1, G1, H1, SquareBB(F1) | SquareBB(G1)},
		{WhiteQueenSide, E1, C1, A1, SquareBB(B1) | SquareBB(C1) | SquareBB(D1)},
	},
	Black: {
		{BlackKingSide, E8, G8, H8, SquareBB(F8) | SquareBB(G8)},
		{BlackQueenSide, E8, C8, A8, SquareBB(B8) | SquareBB(C8) | SquareBB(D8)},
	},
}

// generateCastlingMoves emits castling when the right is held, the squares
// between king and rook are empty, the rook is on its corner and the king is
// not in check. Whether the king's path is attacked is left to the legality
// filter.
func generateCastlingMoves(p *Position, from Square, ml *MoveList) {
	us := p.SideToMove
	king := NewPiece(King, us)
	rook := NewPiece(Rook, us)
	checked := false
	for _, opt := range castlingOptions[us] {
		if from != opt.kingFrom || !p.Castling.Has(opt.right) {
			continue
		}
		if p.AllOccupied&opt.between != 0 || p.PieceAt(opt.rookFrom) != rook {
			continue
		}
		if !checked {
			if p.IsKingInCheck(us) {
				return
			}
			checked = true
		}
		ml.Add(Move{From: opt.kingFrom, To: opt.kingTo, Piece: king, Captured: NoPiece, Promotion: NoPiece, Flags: FlagCastling})
	}
}

// castlingPathSafe places the king on each square from its origin to its
// destination, on a fresh scratch copy each time, and fails if any of them
// is attacked.
func (p *Position) castlingPathSafe(m Move) bool {
	us := m.Piece.Color()
	dir := east
	if m.To < m.From {
		dir = west
	}
	for sq := m.From; ; sq = Square(int(sq) + dir) {
		probe := *p
		probe.Pieces[us][King] = SquareBB(sq)
		probe.updateOccupancy()
		if probe.IsKingInCheck(us) {
			return false
		}
		if sq == m.To {
			return true
		}
	}
}
