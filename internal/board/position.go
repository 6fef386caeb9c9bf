package board

import (
	"fmt"
	"strings"

	"github.com/hailam/athena/internal/errors"
)

// CastlingRights is a bitmask of the four castling permissions.
type CastlingRights uint8

const (
	WhiteKingSide CastlingRights = 1 << iota
	WhiteQueenSide
	BlackKingSide
	BlackQueenSide

	NoCastling  CastlingRights = 0
	AllCastling                = WhiteKingSide | WhiteQueenSide | BlackKingSide | BlackQueenSide
)

// Has reports whether every right in r is held.
func (cr CastlingRights) Has(r CastlingRights) bool {
	return cr&r == r
}

// String returns the FEN field, e.g. "KQkq" or "-".
func (cr CastlingRights) String() string {
	if cr&AllCastling == 0 {
		return "-"
	}
	var sb strings.Builder
	for i, c := range "KQkq" {
		if cr.Has(1 << i) {
			sb.WriteRune(c)
		}
	}
	return sb.String()
}

var (
	// sideRights is cleared by any king move of that side.
	sideRights = [2]CastlingRights{
		White: WhiteKingSide | WhiteQueenSide,
		Black: BlackKingSide | BlackQueenSide,
	}

	// rookHomeRights maps each home rook square to the right it guards.
	rookHomeRights = [64]CastlingRights{
		H1: WhiteKingSide,
		A1: WhiteQueenSide,
		H8: BlackKingSide,
		A8: BlackQueenSide,
	}
)

// repetition is one entry of the persistent repetition table. Entries are
// never mutated once linked, so value copies of a Position can share them.
type repetition struct {
	hash  uint64
	count int
	prev  *repetition
}

// Position is the full game state. It is a plain value: copying a Position
// (child := *pos) gives an independent scratch position for search and
// legality probes.
//
// The zero value has no hash keys; build positions with NewPosition,
// EmptyPosition, LoadFEN or ParseFEN.
type Position struct {
	Pieces      [2][6]Bitboard // [Color][PieceType]
	Occupied    [2]Bitboard    // by color, derived from Pieces
	AllOccupied Bitboard

	SideToMove     Color
	EnPassant      Square // NoSquare when there is no target
	Castling       CastlingRights
	HalfMoveClock  int
	FullMoveNumber int

	Hash uint64

	keys    *Zobrist
	history *repetition // positions since the last pawn move, newest first
}

// NewPosition returns the standard starting position.
func NewPosition() *Position {
	return LoadFEN(StartFEN)
}

// EmptyPosition returns a board with no pieces, White to move, hashed with keys.
// A nil keys selects DefaultZobrist.
func EmptyPosition(keys *Zobrist) *Position {
	if keys == nil {
		keys = DefaultZobrist()
	}
	p := &Position{
		EnPassant:      NoSquare,
		FullMoveNumber: 1,
		keys:           keys,
	}
	p.Hash = p.ComputeHash()
	return p
}

// Copy returns an independent copy of the position.
func (p *Position) Copy() *Position {
	c := *p
	return &c
}

// Keys returns the Zobrist key set the position hashes with.
func (p *Position) Keys() *Zobrist {
	return p.keys
}

// PieceAt returns the piece on sq, or NoPiece.
func (p *Position) PieceAt(sq Square) Piece {
	if !p.AllOccupied.IsSet(sq) {
		return NoPiece
	}
	c := White
	if p.Occupied[Black].IsSet(sq) {
		c = Black
	}
	for _, pt := range PieceTypes {
		if p.Pieces[c][pt].IsSet(sq) {
			return NewPiece(pt, c)
		}
	}
	return NoPiece
}

// IsEmpty reports whether sq holds no piece.
func (p *Position) IsEmpty(sq Square) bool {
	return !p.AllOccupied.IsSet(sq)
}

// Place puts piece on an empty sq, keeping occupancy and hash in step.
// It is meant for building positions; moves go through Apply.
func (p *Position) Place(piece Piece, sq Square) {
	p.putPiece(piece, sq)
	p.updateOccupancy()
}

// putPiece and removePiece touch only the piece bitboard and the hash;
// callers recompute occupancy once the whole mutation is done.
func (p *Position) putPiece(piece Piece, sq Square) {
	p.Pieces[piece.Color()][piece.Type()] = p.Pieces[piece.Color()][piece.Type()].Set(sq)
	p.Hash ^= p.keys.Piece(piece, sq)
}

func (p *Position) removePiece(piece Piece, sq Square) {
	p.Pieces[piece.Color()][piece.Type()] = p.Pieces[piece.Color()][piece.Type()].Clear(sq)
	p.Hash ^= p.keys.Piece(piece, sq)
}

func (p *Position) updateOccupancy() {
	for c := White; c <= Black; c++ {
		var occ Bitboard
		for _, bb := range p.Pieces[c] {
			occ |= bb
		}
		p.Occupied[c] = occ
	}
	p.AllOccupied = p.Occupied[White] | p.Occupied[Black]
}

// KingSquare returns the square of c's king, or NoSquare if it has none.
func (p *Position) KingSquare(c Color) Square {
	return p.Pieces[c][King].LSB()
}

// InCheck reports whether the side to move is in check.
func (p *Position) InCheck() bool {
	return p.IsKingInCheck(p.SideToMove)
}

// ComputeHash recomputes the Zobrist hash from scratch. After every Apply it
// must equal the incrementally maintained Hash.
func (p *Position) ComputeHash() uint64 {
	var h uint64
	for c := White; c <= Black; c++ {
		for _, pt := range PieceTypes {
			piece := NewPiece(pt, c)
			bb := p.Pieces[c][pt]
			for bb != 0 {
				h ^= p.keys.Piece(piece, bb.PopLSB())
			}
		}
	}
	h ^= p.keys.Castling(p.Castling)
	if p.EnPassant != NoSquare {
		h ^= p.keys.EnPassant(p.EnPassant)
	}
	if p.SideToMove == Black {
		h ^= p.keys.Side()
	}
	return h
}

// record adds the current hash to the repetition table.
func (p *Position) record() {
	count := 1
	for r := p.history; r != nil; r = r.prev {
		if r.hash == p.Hash {
			count = r.count + 1
			break
		}
	}
	p.history = &repetition{hash: p.Hash, count: count, prev: p.history}
}

// Repetitions returns how often the current hash has been reached since the
// last pawn move. Positions loaded from FEN start at zero.
func (p *Position) Repetitions() int {
	for r := p.history; r != nil; r = r.prev {
		if r.hash == p.Hash {
			return r.count
		}
	}
	return 0
}

// IsThreefoldRepetition reports a draw by repetition.
func (p *Position) IsThreefoldRepetition() bool {
	return p.Repetitions() >= 3
}

// IsFiftyMoveRule reports a draw by the no-progress rule.
func (p *Position) IsFiftyMoveRule() bool {
	return p.HalfMoveClock >= 100
}

// IsDraw reports either automatic draw condition.
func (p *Position) IsDraw() bool {
	return p.IsFiftyMoveRule() || p.IsThreefoldRepetition()
}

// Validate checks the structural invariants: disjoint side occupancies that
// match the piece bitboards, one king per side, no pawns on the back ranks,
// and a consistent hash.
func (p *Position) Validate() error {
	var seen [2]Bitboard
	for c := White; c <= Black; c++ {
		for _, bb := range p.Pieces[c] {
			if seen[c]&bb != 0 {
				return errors.Wrapf(errors.ErrInvalidPosition, "%s piece bitboards overlap", c)
			}
			seen[c] |= bb
		}
		if seen[c] != p.Occupied[c] {
			return errors.Wrapf(errors.ErrInvalidPosition, "%s occupancy out of date", c)
		}
		if n := p.Pieces[c][King].PopCount(); n != 1 {
			return errors.Wrapf(errors.ErrInvalidPosition, "%s has %d kings", c, n)
		}
	}
	if p.Occupied[White]&p.Occupied[Black] != 0 {
		return errors.Wrap(errors.ErrInvalidPosition, "side occupancies intersect")
	}
	if p.AllOccupied != p.Occupied[White]|p.Occupied[Black] {
		return errors.Wrap(errors.ErrInvalidPosition, "total occupancy out of date")
	}
	if (p.Pieces[White][Pawn]|p.Pieces[Black][Pawn])&(Rank1|Rank8) != 0 {
		return errors.Wrap(errors.ErrInvalidPosition, "pawn on first or last rank")
	}
	if p.Hash != p.ComputeHash() {
		return errors.Wrapf(errors.ErrInvalidPosition, "hash %016x, recomputed %016x", p.Hash, p.ComputeHash())
	}
	return nil
}

func (p *Position) String() string {
	var sb strings.Builder
	sb.WriteByte('\n')
	for rank := 7; rank >= 0; rank-- {
		fmt.Fprintf(&sb, "%d  ", rank+1)
		for file := 0; file < 8; file++ {
			sb.WriteString(p.PieceAt(NewSquare(file, rank)).String())
			sb.WriteByte(' ')
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("\n   a b c d e f g h\n\n")
	fmt.Fprintf(&sb, "Side to move: %s\n", p.SideToMove)
	fmt.Fprintf(&sb, "Castling: %s\n", p.Castling)
	fmt.Fprintf(&sb, "En passant: %s\n", p.EnPassant)
	fmt.Fprintf(&sb, "Half-move clock: %d\n", p.HalfMoveClock)
	fmt.Fprintf(&sb, "Full move: %d\n", p.FullMoveNumber)
	fmt.Fprintf(&sb, "Hash: %016x\n", p.Hash)
	return sb.String()
}
