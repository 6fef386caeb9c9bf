package board

import "sync"

// DefaultZobristSeed seeds the process-wide key set.
const DefaultZobristSeed uint64 = 0x98F107A2BEEF1234

// Zobrist is an immutable set of random keys for incremental position
// hashing. Build one with NewZobrist and share it between positions by
// pointer; nothing mutates it after construction.
type Zobrist struct {
	piece     [12][64]uint64
	enPassant [64]uint64
	castling  [16]uint64
	side      uint64
}

// xorshift64* generator
type prng struct {
	state uint64
}

func (p *prng) next() uint64 {
	p.state ^= p.state >> 12
	p.state ^= p.state << 25
	p.state ^= p.state >> 27
	return p.state * 0x2545F4914F6CDD1D
}

// NewZobrist draws a full key set from seed. Equal seeds give equal keys.
func NewZobrist(seed uint64) *Zobrist {
	if seed == 0 {
		seed = DefaultZobristSeed // xorshift never leaves the all-zero state
	}
	rng := &prng{state: seed}
	z := &Zobrist{}
	for pc := range z.piece {
		for sq := range z.piece[pc] {
			z.piece[pc][sq] = rng.next()
		}
	}
	for sq := range z.enPassant {
		z.enPassant[sq] = rng.next()
	}
	for cr := range z.castling {
		z.castling[cr] = rng.next()
	}
	z.side = rng.next()
	return z
}

var defaultZobrist = sync.OnceValue(func() *Zobrist {
	return NewZobrist(DefaultZobristSeed)
})

// DefaultZobrist returns the shared key set used by NewPosition and LoadFEN.
func DefaultZobrist() *Zobrist {
	return defaultZobrist()
}

// Piece returns the key for p standing on sq.
func (z *Zobrist) Piece(p Piece, sq Square) uint64 {
	return z.piece[p][sq]
}

// EnPassant returns the key for an en-passant target on sq.
func (z *Zobrist) EnPassant(sq Square) uint64 {
	return z.enPassant[sq]
}

// Castling returns the key for a full castling-rights state.
func (z *Zobrist) Castling(cr CastlingRights) uint64 {
	return z.castling[cr&AllCastling]
}

// Side returns the key folded in while Black is to move.
func (z *Zobrist) Side() uint64 {
	return z.side
}
