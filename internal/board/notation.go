package board

import (
	"strings"

	"github.com/hailam/athena/internal/errors"
)

// MatchMove finds the legal move written in coordinate notation
// ("e2e4", "e7e8q"). A missing promotion letter selects the queen.
func MatchMove(pos *Position, text string) (Move, error) {
	text = strings.ToLower(strings.TrimSpace(text))
	if len(text) != 4 && len(text) != 5 {
		return NoMove, errors.Wrapf(errors.ErrIllegalMove, "%q", text)
	}
	from, err := ParseSquare(text[0:2])
	if err != nil {
		return NoMove, errors.Wrapf(errors.ErrIllegalMove, "%q: %v", text, err)
	}
	to, err := ParseSquare(text[2:4])
	if err != nil {
		return NoMove, errors.Wrapf(errors.ErrIllegalMove, "%q: %v", text, err)
	}
	promo := Queen
	if len(text) == 5 {
		promo = NoPieceType
		for _, pt := range promotionKinds {
			if pt.Char() == text[4] {
				promo = pt
			}
		}
		if promo == NoPieceType {
			return NoMove, errors.Wrapf(errors.ErrIllegalMove, "%q: promotion letter", text)
		}
	}

	for _, m := range pos.GenerateLegalMoves().Slice() {
		if m.From != from || m.To != to {
			continue
		}
		if m.IsPromotion() && m.Promotion.Type() != promo {
			continue
		}
		return m, nil
	}
	return NoMove, errors.Wrapf(errors.ErrIllegalMove, "%q in %s", text, pos.FEN())
}

// SAN renders m in Standard Algebraic Notation for pos, including check
// and mate markers.
func SAN(pos *Position, m Move) string {
	if m.IsNull() {
		return "--"
	}
	if m.IsCastling() {
		s := "O-O"
		if m.To < m.From {
			s = "O-O-O"
		}
		return s + checkSuffix(pos, m)
	}

	var sb strings.Builder
	pt := m.Piece.Type()
	if pt != Pawn {
		sb.WriteByte(NewPiece(pt, White).String()[0])
		sb.WriteString(disambiguation(pos, m))
	}
	if m.IsCapture() {
		if pt == Pawn {
			sb.WriteByte(byte('a' + m.From.File()))
		}
		sb.WriteByte('x')
	}
	sb.WriteString(m.To.String())
	if m.IsPromotion() {
		sb.WriteByte('=')
		sb.WriteString(NewPiece(m.Promotion.Type(), White).String())
	}
	sb.WriteString(checkSuffix(pos, m))
	return sb.String()
}

func checkSuffix(pos *Position, m Move) string {
	next := *pos
	next.Apply(m, true)
	if !next.InCheck() {
		return ""
	}
	if !next.HasLegalMoves() {
		return "#"
	}
	return "+"
}

// disambiguation returns the origin file, rank or square needed when another
// piece of the same kind can reach the same destination.
func disambiguation(pos *Position, m Move) string {
	var rivals []Square
	for _, other := range pos.GenerateLegalMoves().Slice() {
		if other.To == m.To && other.Piece == m.Piece && other.From != m.From {
			rivals = append(rivals, other.From)
		}
	}
	if len(rivals) == 0 {
		return ""
	}
	sameFile, sameRank := false, false
	for _, sq := range rivals {
		sameFile = sameFile || sq.File() == m.From.File()
		sameRank = sameRank || sq.Rank() == m.From.Rank()
	}
	switch {
	case !sameFile:
		return string(rune('a' + m.From.File()))
	case !sameRank:
		return string(rune('1' + m.From.Rank()))
	default:
		return m.From.String()
	}
}

// ParseSAN finds the legal move written in Standard Algebraic Notation.
func ParseSAN(pos *Position, text string) (Move, error) {
	s := strings.TrimRight(strings.TrimSpace(text), "+#!?")
	legal := pos.GenerateLegalMoves().Slice()

	if s == "O-O" || s == "0-0" || s == "O-O-O" || s == "0-0-0" {
		long := len(s) == 5
		for _, m := range legal {
			if m.IsCastling() && (m.To < m.From) == long {
				return m, nil
			}
		}
		return NoMove, errors.Wrapf(errors.ErrIllegalMove, "%q", text)
	}

	promo := NoPieceType
	if i := strings.IndexByte(s, '='); i >= 0 && i+1 < len(s) {
		promo = PieceFromChar(s[i+1]).Type()
		s = s[:i]
	}
	capture := strings.Contains(s, "x")
	s = strings.ReplaceAll(s, "x", "")

	pt := Pawn
	if len(s) > 0 && s[0] >= 'A' && s[0] <= 'Z' {
		pt = PieceFromChar(s[0]).Type()
		s = s[1:]
	}
	if len(s) < 2 || pt == NoPieceType {
		return NoMove, errors.Wrapf(errors.ErrIllegalMove, "%q", text)
	}
	to, err := ParseSquare(s[len(s)-2:])
	if err != nil {
		return NoMove, errors.Wrapf(errors.ErrIllegalMove, "%q: %v", text, err)
	}
	fileHint, rankHint := -1, -1
	for _, c := range s[:len(s)-2] {
		switch {
		case c >= 'a' && c <= 'h':
			fileHint = int(c - 'a')
		case c >= '1' && c <= '8':
			rankHint = int(c - '1')
		}
	}

	for _, m := range legal {
		if m.To != to || m.Piece.Type() != pt {
			continue
		}
		if (fileHint >= 0 && m.From.File() != fileHint) || (rankHint >= 0 && m.From.Rank() != rankHint) {
			continue
		}
		if capture && !m.IsCapture() {
			continue
		}
		if m.IsPromotion() != (promo != NoPieceType) {
			continue
		}
		if m.IsPromotion() && m.Promotion.Type() != promo {
			continue
		}
		return m, nil
	}
	return NoMove, errors.Wrapf(errors.ErrIllegalMove, "%q in %s", text, pos.FEN())
}

// ParseMove accepts either coordinate notation or SAN.
func ParseMove(pos *Position, text string) (Move, error) {
	if m, err := MatchMove(pos, text); err == nil {
		return m, nil
	}
	return ParseSAN(pos, text)
}
