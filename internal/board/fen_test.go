package board

import (
	"testing"

	"github.com/hailam/athena/internal/errors"
)

func TestFENRoundTrip(t *testing.T) {
	fens := []string{
		StartFEN,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 13 47",
		"rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8",
	}
	for _, fen := range fens {
		t.Run(fen, func(t *testing.T) {
			pos := mustParseFEN(t, fen)
			if got := pos.FEN(); got != fen {
				t.Errorf("FEN() = %q, want %q", got, fen)
			}
			if got := LoadFEN(fen).FEN(); got != fen {
				t.Errorf("LoadFEN().FEN() = %q, want %q", got, fen)
			}
		})
	}
}

func TestFENAfterMoves(t *testing.T) {
	pos := NewPosition()
	playMoves(t, pos, "e2e4", "c7c5", "g1f3")
	want := "rnbqkbnr/pp1ppppp/8/2p5/4P3/5N2/PPPP1PPP/RNBQKB1R b KQkq - 1 2"
	if got := pos.FEN(); got != want {
		t.Errorf("FEN() = %q, want %q", got, want)
	}
}

func TestParseFENErrors(t *testing.T) {
	tests := []struct {
		name string
		fen  string
	}{
		{"empty", ""},
		{"missing fields", "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq -"},
		{"seven ranks", "rnbqkbnr/pppppppp/8/8/8/8/RNBQKBNR w KQkq - 0 1"},
		{"bad piece", "rnbqkbnr/ppppxppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"},
		{"short rank", "rnbqkbnr/ppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"},
		{"long rank", "rnbqkbnr/ppppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"},
		{"bad side", "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR x KQkq - 0 1"},
		{"bad castling", "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KZkq - 0 1"},
		{"bad en passant", "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq e9 0 1"},
		{"bad clock", "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - x 1"},
		{"no white king", "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQ1BNR w kq - 0 1"},
		{"two black kings", "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNk w - - 0 1"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pos, err := ParseFEN(tc.fen)
			if err == nil {
				t.Fatalf("ParseFEN(%q) = %v, want error", tc.fen, pos.FEN())
			}
			if !errors.Is(err, errors.ErrInvalidFEN) {
				t.Errorf("error %v does not wrap ErrInvalidFEN", err)
			}
			var pe *errors.PositionError
			if !errors.As(err, &pe) || pe.FEN != tc.fen {
				t.Errorf("error %v does not carry the FEN", err)
			}
		})
	}
}

func TestLoadFENIsLenient(t *testing.T) {
	pos := LoadFEN("4k3/8/8/8/8/8/8/4K2R")
	if pos.PieceAt(H1) != WhiteRook || pos.PieceAt(E8) != BlackKing {
		t.Errorf("placement not loaded:\n%s", pos)
	}
	if pos.SideToMove != White || pos.Castling != NoCastling || pos.EnPassant != NoSquare {
		t.Errorf("defaults not kept: side %s castling %s ep %s", pos.SideToMove, pos.Castling, pos.EnPassant)
	}
	if pos.FullMoveNumber != 1 {
		t.Errorf("full move = %d, want 1", pos.FullMoveNumber)
	}

	junk := LoadFEN("4k3/8/8/8/8/8/8/4K2R? w Kz - 0 1")
	if junk.PieceAt(H1) != WhiteRook || !junk.Castling.Has(WhiteKingSide) {
		t.Errorf("lenient load dropped valid parts:\n%s", junk)
	}
	if junk.Hash != junk.ComputeHash() {
		t.Error("lenient load left an inconsistent hash")
	}
}

func TestSquareText(t *testing.T) {
	for sq := A1; sq <= H8; sq++ {
		got, err := ParseSquare(sq.String())
		if err != nil || got != sq {
			t.Fatalf("ParseSquare(%q) = %v, %v", sq.String(), got, err)
		}
	}
	if NoSquare.String() != "-" {
		t.Errorf("NoSquare.String() = %q", NoSquare.String())
	}
	for _, bad := range []string{"", "e", "i1", "a0", "a9", "e44"} {
		if _, err := ParseSquare(bad); !errors.Is(err, errors.ErrInvalidSquare) {
			t.Errorf("ParseSquare(%q) error = %v, want ErrInvalidSquare", bad, err)
		}
	}
	if E4.File() != 4 || E4.Rank() != 3 || E4.Mirror() != E5 {
		t.Errorf("e4 file/rank/mirror = %d/%d/%s", E4.File(), E4.Rank(), E4.Mirror())
	}
}

func TestPieceText(t *testing.T) {
	for pc := WhitePawn; pc < NoPiece; pc++ {
		if got := PieceFromChar(pc.String()[0]); got != pc {
			t.Errorf("PieceFromChar(%q) = %v, want %v", pc.String(), got, pc)
		}
		if NewPiece(pc.Type(), pc.Color()) != pc {
			t.Errorf("NewPiece(%v, %v) != %v", pc.Type(), pc.Color(), pc)
		}
	}
	if PieceFromChar('x') != NoPiece {
		t.Error("unknown letter mapped to a piece")
	}
}
