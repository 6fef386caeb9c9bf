package board

import "strings"

// MoveFlag is the set of special-move markers carried by a Move.
type MoveFlag uint8

const (
	FlagCapture MoveFlag = 1 << iota
	FlagEnPassant
	FlagCastling
	FlagPromotion
	FlagDoublePush
)

// Has reports whether all bits of f2 are set in f.
func (f MoveFlag) Has(f2 MoveFlag) bool {
	return f&f2 == f2
}

// Move is an immutable description of one ply. Two moves are the same move
// exactly when all fields compare equal, so Move values work with ==.
//
// A Move is only meaningful for the position it was generated from.
type Move struct {
	From      Square
	To        Square
	Piece     Piece // the moving piece
	Captured  Piece // NoPiece for quiet moves
	Promotion Piece // NoPiece unless FlagPromotion is set
	Flags     MoveFlag
}

// NoMove is the null move returned when no move is available.
var NoMove = Move{From: NoSquare, To: NoSquare, Piece: NoPiece, Captured: NoPiece, Promotion: NoPiece}

// IsNull reports whether m does not name a real origin and destination.
func (m Move) IsNull() bool {
	return !m.From.IsValid() || !m.To.IsValid()
}

// IsCapture reports whether the move removes an enemy piece (en passant included).
func (m Move) IsCapture() bool {
	return m.Flags.Has(FlagCapture)
}

// IsPromotion reports whether a pawn is replaced on arrival.
func (m Move) IsPromotion() bool {
	return m.Flags.Has(FlagPromotion)
}

// IsCastling reports whether the move is a king's castling step.
func (m Move) IsCastling() bool {
	return m.Flags.Has(FlagCastling)
}

// IsEnPassant reports whether the move is an en-passant capture.
func (m Move) IsEnPassant() bool {
	return m.Flags.Has(FlagEnPassant)
}

// IsDoublePush reports whether a pawn advanced two ranks.
func (m Move) IsDoublePush() bool {
	return m.Flags.Has(FlagDoublePush)
}

// String returns coordinate notation ("e2e4", "e7e8q"), or "0000" for the null move.
func (m Move) String() string {
	if m.IsNull() {
		return "0000"
	}
	s := m.From.String() + m.To.String()
	if m.IsPromotion() {
		s += string(m.Promotion.Type().Char())
	}
	return s
}

// MoveList is a fixed-capacity move buffer. No legal chess position has
// more than 218 moves, so generation never allocates.
type MoveList struct {
	moves [256]Move
	count int
}

// NewMoveList returns an empty list.
func NewMoveList() *MoveList {
	return &MoveList{}
}

// Add appends a move.
func (ml *MoveList) Add(m Move) {
	ml.moves[ml.count] = m
	ml.count++
}

// Len returns the number of moves.
func (ml *MoveList) Len() int {
	return ml.count
}

// Get returns the move at index i.
func (ml *MoveList) Get(i int) Move {
	return ml.moves[i]
}

// Swap exchanges two entries.
func (ml *MoveList) Swap(i, j int) {
	ml.moves[i], ml.moves[j] = ml.moves[j], ml.moves[i]
}

// Clear empties the list.
func (ml *MoveList) Clear() {
	ml.count = 0
}

// Contains reports whether m is in the list.
func (ml *MoveList) Contains(m Move) bool {
	for i := 0; i < ml.count; i++ {
		if ml.moves[i] == m {
			return true
		}
	}
	return false
}

// Slice returns the live moves. The slice aliases the list's storage.
func (ml *MoveList) Slice() []Move {
	return ml.moves[:ml.count]
}

// Strings returns the moves in coordinate notation, in list order.
func (ml *MoveList) Strings() []string {
	out := make([]string, ml.count)
	for i := 0; i < ml.count; i++ {
		out[i] = ml.moves[i].String()
	}
	return out
}

func (ml *MoveList) String() string {
	return strings.Join(ml.Strings(), " ")
}
