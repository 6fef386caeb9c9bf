package board

import (
	"math/rand/v2"
	"testing"

	"github.com/google/go-cmp/cmp"
)

var playoutFENs = []string{
	StartFEN,
	"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
	"r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1",
	"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
}

// playMoves applies coordinate-notation moves, failing the test on the first illegal one.
func playMoves(t *testing.T, pos *Position, moves ...string) {
	t.Helper()
	for _, text := range moves {
		m, err := MatchMove(pos, text)
		if err != nil {
			t.Fatalf("move %s: %v", text, err)
		}
		pos.Apply(m, true)
	}
}

func checkInvariants(t *testing.T, pos *Position, context string) {
	t.Helper()
	for c := White; c <= Black; c++ {
		var union Bitboard
		for _, bb := range pos.Pieces[c] {
			union |= bb
		}
		if union != pos.Occupied[c] {
			t.Fatalf("%s: %s occupancy %x, union of pieces %x", context, c, uint64(pos.Occupied[c]), uint64(union))
		}
	}
	if pos.Occupied[White]&pos.Occupied[Black] != 0 {
		t.Fatalf("%s: side occupancies intersect", context)
	}
	if got, want := pos.Hash, pos.ComputeHash(); got != want {
		t.Fatalf("%s: incremental hash %016x, recomputed %016x", context, got, want)
	}
}

func TestRandomPlayoutInvariants(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	games := 40
	if testing.Short() {
		games = 8
	}

	for _, fen := range playoutFENs {
		for g := 0; g < games; g++ {
			pos := mustParseFEN(t, fen)
			for ply := 0; ply < 120; ply++ {
				moves := pos.GenerateLegalMoves()
				if moves.Len() == 0 || pos.IsDraw() {
					break
				}
				m := moves.Get(rng.IntN(moves.Len()))
				pos.Apply(m, true)
				checkInvariants(t, pos, fen+" after "+m.String())
				if err := pos.Validate(); err != nil {
					t.Fatalf("%s after %s: %v", fen, m, err)
				}
			}
		}
	}
}

func TestApplyWithoutSwitchingSide(t *testing.T) {
	pos := NewPosition()
	m, err := MatchMove(pos, "g1f3")
	if err != nil {
		t.Fatal(err)
	}
	pos.Apply(m, false)
	if pos.SideToMove != White {
		t.Errorf("side to move = %s, want White", pos.SideToMove)
	}
	checkInvariants(t, pos, "g1f3 without switch")
}

func TestHashTracksSideAndEnPassant(t *testing.T) {
	a := NewPosition()
	b := NewPosition()
	playMoves(t, a, "g1f3", "g8f6", "f3g1", "f6g8")
	if a.Hash != b.Hash {
		t.Errorf("knight round trip changed hash: %016x vs %016x", a.Hash, b.Hash)
	}

	c := NewPosition()
	playMoves(t, c, "e2e4")
	d := LoadFEN("rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq - 0 1")
	if c.Hash == d.Hash {
		t.Error("en passant target not reflected in hash")
	}
	if c.Hash != LoadFEN(c.FEN()).Hash {
		t.Error("hash differs from the same position loaded from FEN")
	}
}

func TestZobristKeysAreSharedAndDeterministic(t *testing.T) {
	if DefaultZobrist() != DefaultZobrist() {
		t.Error("DefaultZobrist returned different key sets")
	}
	a, b := NewZobrist(42), NewZobrist(42)
	if diff := cmp.Diff(*a, *b, cmp.AllowUnexported(Zobrist{})); diff != "" {
		t.Errorf("equal seeds gave different keys (-a +b):\n%s", diff)
	}
	if NewZobrist(42).Side() == NewZobrist(43).Side() {
		t.Error("different seeds gave the same side key")
	}

	pos := NewPosition()
	child := *pos
	if child.Keys() != pos.Keys() {
		t.Error("copied position does not share key set")
	}

	custom := LoadFENWithKeys(StartFEN, NewZobrist(7))
	if custom.Hash == pos.Hash {
		t.Error("custom key set produced the default hash")
	}
	if custom.Hash != custom.ComputeHash() {
		t.Error("custom key set hash inconsistent")
	}
}

func TestCastlingRightsUpdates(t *testing.T) {
	const fen = "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1"
	tests := []struct {
		name  string
		moves []string
		want  CastlingRights
	}{
		{"king move", []string{"e1e2"}, BlackKingSide | BlackQueenSide},
		{"castle", []string{"e1g1"}, BlackKingSide | BlackQueenSide},
		{"kingside rook", []string{"h1h2"}, WhiteQueenSide | BlackKingSide | BlackQueenSide},
		{"queenside rook", []string{"a1a2"}, WhiteKingSide | BlackKingSide | BlackQueenSide},
		{"rook captures rook", []string{"a1a8"}, WhiteKingSide | BlackKingSide},
		{"black king", []string{"e1d1", "e8d8"}, NoCastling},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pos := mustParseFEN(t, fen)
			playMoves(t, pos, tc.moves...)
			if pos.Castling != tc.want {
				t.Errorf("castling = %s, want %s", pos.Castling, tc.want)
			}
		})
	}
}

func TestCastlingMovesRook(t *testing.T) {
	tests := []struct {
		move     string
		fen      string
		rookFrom Square
		rookTo   Square
		rook     Piece
	}{
		{"e1g1", "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1", H1, F1, WhiteRook},
		{"e1c1", "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1", A1, D1, WhiteRook},
		{"e8g8", "r3k2r/8/8/8/8/8/8/R3K2R b KQkq - 0 1", H8, F8, BlackRook},
		{"e8c8", "r3k2r/8/8/8/8/8/8/R3K2R b KQkq - 0 1", A8, D8, BlackRook},
	}

	for _, tc := range tests {
		t.Run(tc.move, func(t *testing.T) {
			pos := mustParseFEN(t, tc.fen)
			playMoves(t, pos, tc.move)
			if got := pos.PieceAt(tc.rookFrom); got != NoPiece {
				t.Errorf("%s still holds %v", tc.rookFrom, got)
			}
			if got := pos.PieceAt(tc.rookTo); got != tc.rook {
				t.Errorf("%s holds %v, want %v", tc.rookTo, got, tc.rook)
			}
			checkInvariants(t, pos, tc.move)
		})
	}
}

func TestMoveCounters(t *testing.T) {
	pos := NewPosition()
	playMoves(t, pos, "g1f3")
	if pos.HalfMoveClock != 1 || pos.FullMoveNumber != 1 {
		t.Errorf("after g1f3: clock %d, move %d; want 1, 1", pos.HalfMoveClock, pos.FullMoveNumber)
	}
	playMoves(t, pos, "g8f6")
	if pos.HalfMoveClock != 2 || pos.FullMoveNumber != 2 {
		t.Errorf("after g8f6: clock %d, move %d; want 2, 2", pos.HalfMoveClock, pos.FullMoveNumber)
	}
	playMoves(t, pos, "e2e4")
	if pos.HalfMoveClock != 0 {
		t.Errorf("pawn move left clock at %d", pos.HalfMoveClock)
	}
	playMoves(t, pos, "f6e4")
	if pos.HalfMoveClock != 0 {
		t.Errorf("capture left clock at %d", pos.HalfMoveClock)
	}
}

func TestThreefoldRepetition(t *testing.T) {
	pos := mustParseFEN(t, "r3k3/8/8/8/8/8/8/4K2R w - - 0 1")
	cycle := []string{"h1h2", "a8a7", "h2h1", "a7a8"}

	playMoves(t, pos, cycle...)
	if pos.IsThreefoldRepetition() {
		t.Fatal("threefold after one cycle")
	}
	playMoves(t, pos, cycle...)
	if pos.IsThreefoldRepetition() {
		t.Fatal("threefold after two cycles")
	}
	playMoves(t, pos, cycle...)
	if !pos.IsThreefoldRepetition() {
		t.Errorf("no threefold after three cycles (count %d)", pos.Repetitions())
	}
	if !pos.IsDraw() {
		t.Error("IsDraw = false on threefold")
	}
}

func TestPawnMoveResetsRepetition(t *testing.T) {
	pos := mustParseFEN(t, "r3k3/7p/8/8/8/8/P7/4K2R w - - 0 1")
	cycle := []string{"h1h2", "a8a7", "h2h1", "a7a8"}

	playMoves(t, pos, cycle...)
	playMoves(t, pos, cycle...)
	playMoves(t, pos, "a2a3", "h7h6")
	playMoves(t, pos, cycle...)
	if pos.IsThreefoldRepetition() {
		t.Errorf("threefold signalled across pawn moves (count %d)", pos.Repetitions())
	}
}

func TestNoRepetitionWithoutRecurrence(t *testing.T) {
	pos := mustParseFEN(t, "4k3/8/8/8/8/8/8/4K3 w - - 0 1")
	playMoves(t, pos, "e1e2", "e8e7", "e2e1", "e7e8")
	if pos.IsThreefoldRepetition() {
		t.Error("threefold after a single return")
	}
	if pos.IsFiftyMoveRule() {
		t.Error("fifty-move rule after four plies")
	}
}

func TestFiftyMoveRule(t *testing.T) {
	pos := mustParseFEN(t, "1n2k3/8/8/8/8/8/8/1N2K3 w - - 0 1")
	shuffle := []string{"b1c3", "b8c6", "c3b1", "c6b8"}

	for i := 0; i < 24; i++ {
		playMoves(t, pos, shuffle...)
	}
	if pos.HalfMoveClock != 96 {
		t.Fatalf("clock = %d after 96 plies, want 96", pos.HalfMoveClock)
	}
	if pos.IsFiftyMoveRule() {
		t.Fatal("fifty-move rule before clock reaches 100")
	}
	playMoves(t, pos, shuffle...)
	if pos.HalfMoveClock != 100 {
		t.Fatalf("clock = %d, want 100", pos.HalfMoveClock)
	}
	if !pos.IsFiftyMoveRule() {
		t.Error("fifty-move rule not signalled at 100")
	}
}

func TestFiftyMoveClockResetByCapture(t *testing.T) {
	pos := mustParseFEN(t, "1n2k3/8/8/3p4/8/8/8/1N2K3 w - - 0 1")
	shuffle := []string{"b1c3", "b8c6", "c3b1", "c6b8"}
	for i := 0; i < 12; i++ {
		playMoves(t, pos, shuffle...)
	}
	playMoves(t, pos, "b1c3", "b8c6")
	if pos.HalfMoveClock != 50 {
		t.Fatalf("clock = %d, want 50", pos.HalfMoveClock)
	}
	playMoves(t, pos, "c3d5")
	if pos.HalfMoveClock != 0 {
		t.Errorf("capture left clock at %d", pos.HalfMoveClock)
	}
}
