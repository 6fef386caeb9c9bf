package engine

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/hailam/athena/internal/board"
)

// fullWidth is negamax without pruning, scoring leaves with the same
// quiescence search over a full window.
func fullWidth(s *Searcher, pos *board.Position, depth int) int {
	if depth == 0 {
		return s.quiescence(pos, -Infinity, Infinity)
	}
	moves := pos.GenerateLegalMoves()
	if moves.Len() == 0 {
		if pos.InCheck() {
			return -(MateScore + depth)
		}
		return 0
	}
	best := -Infinity
	for _, m := range moves.Slice() {
		child := *pos
		child.Apply(m, true)
		if score := -fullWidth(s, &child, depth-1); score > best {
			best = score
		}
	}
	return best
}

func TestSearchTakesHangingQueen(t *testing.T) {
	pos := mustFEN(t, "4k3/8/8/3q4/4P3/8/8/4K3 w - - 0 1")
	s := NewSearcher()
	if got := s.FindBestMove(pos, 1); got.String() != "e4d5" {
		t.Errorf("FindBestMove = %s, want e4d5", got)
	}
}

func TestSearchPrefersWinningCapture(t *testing.T) {
	// The rook on d5 is defended by the e6 pawn; the knight on b4 is free.
	pos := mustFEN(t, "4k3/8/4p3/3r4/1n6/8/3Q4/4K3 w - - 0 1")
	s := NewSearcher()
	if got := s.FindBestMove(pos, 1); got.String() != "d2b4" {
		t.Errorf("FindBestMove(depth 1) = %s, want d2b4", got)
	}
	if move, score := s.Search(pos, 2); move.Captured == board.BlackRook {
		t.Errorf("Search(depth 2) took the defended rook: %s (score %d)", move, score)
	}
}

func TestAlphaBetaMatchesFullWidth(t *testing.T) {
	tests := []struct {
		fen   string
		depth int
	}{
		{"4k3/8/8/3q4/4P3/8/8/4K3 w - - 0 1", 2},
		{"4k3/8/8/3q4/4P3/8/8/4K3 w - - 0 1", 3},
		{"6k1/5ppp/8/8/8/8/8/R5K1 w - - 0 1", 2},
		{"r3k3/1p6/8/3n4/4P3/2N5/8/4K2R w K - 0 1", 2},
	}
	for _, tc := range tests {
		t.Run(tc.fen, func(t *testing.T) {
			if testing.Short() && tc.depth > 2 {
				t.Skip("deep comparison skipped in short mode")
			}
			pos := mustFEN(t, tc.fen)
			s := NewSearcher()

			_, got := s.Search(pos, tc.depth)

			want := -Infinity
			for _, m := range pos.GenerateLegalMoves().Slice() {
				child := *pos
				child.Apply(m, true)
				if score := -fullWidth(s, &child, tc.depth-1); score > want {
					want = score
				}
			}
			if got != want {
				t.Errorf("alpha-beta score %d, full-width score %d", got, want)
			}
		})
	}
}

func TestSearchFindsMateInOne(t *testing.T) {
	pos := mustFEN(t, "6k1/5ppp/8/8/8/8/8/R5K1 w - - 0 1")
	s := NewSearcher()
	move, score := s.Search(pos, 3)
	if move.String() != "a1a8" {
		t.Errorf("Search = %s, want a1a8", move)
	}
	if score != MateScore+2 {
		t.Errorf("score = %d, want %d", score, MateScore+2)
	}
	if got := ScoreString(score, 3); got != "mate 1" {
		t.Errorf("ScoreString = %q, want \"mate 1\"", got)
	}
	if s.Nodes() == 0 || s.QNodes() == 0 {
		t.Errorf("node counters not updated: nodes %d, qnodes %d", s.Nodes(), s.QNodes())
	}
}

func TestNegamaxTerminalScores(t *testing.T) {
	s := NewSearcher()

	mated := mustFEN(t, "R5k1/5ppp/8/8/8/8/8/6K1 b - - 1 1")
	if got := s.negamax(mated, 2, -Infinity, Infinity); got != -(MateScore + 2) {
		t.Errorf("negamax(mated, 2) = %d, want %d", got, -(MateScore + 2))
	}
	if got := s.negamax(mated, 1, -Infinity, Infinity); got != -(MateScore + 1) {
		t.Errorf("negamax(mated, 1) = %d, want %d", got, -(MateScore + 1))
	}

	stalemate := mustFEN(t, "7k/5Q2/6K1/8/8/8/8/8 b - - 0 1")
	if got := s.negamax(stalemate, 2, -Infinity, Infinity); got != 0 {
		t.Errorf("negamax(stalemate) = %d, want 0", got)
	}
}

func TestFindBestMoveWithoutMoves(t *testing.T) {
	tests := []struct {
		name string
		fen  string
	}{
		{"checkmate", "R5k1/5ppp/8/8/8/8/8/6K1 b - - 1 1"},
		{"stalemate", "7k/5Q2/6K1/8/8/8/8/8 b - - 0 1"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := NewSearcher().FindBestMove(mustFEN(t, tc.fen), 2)
			if !got.IsNull() {
				t.Errorf("FindBestMove = %s, want the null move", got)
			}
			if got != board.NoMove {
				t.Errorf("FindBestMove = %+v, want NoMove", got)
			}
		})
	}
}

func TestOrderMoves(t *testing.T) {
	pos := mustFEN(t, "4k3/8/8/3q4/4P3/8/8/3QK3 w - - 0 1")
	moves := OrderMoves(pos, pos.GenerateLegalMoves())
	var first []string
	for _, m := range moves[:2] {
		first = append(first, m.String())
	}
	if diff := cmp.Diff([]string{"e4d5", "d1d5"}, first); diff != "" {
		t.Errorf("capture order mismatch (-want +got):\n%s", diff)
	}
	for i := 1; i < len(moves); i++ {
		if ScoreMove(moves[i], false) > ScoreMove(moves[i-1], false) {
			t.Fatalf("moves not sorted by score at %d: %s after %s", i, moves[i], moves[i-1])
		}
	}
}

func TestScoreMove(t *testing.T) {
	pawnTakesQueen := board.Move{From: board.E4, To: board.D5, Piece: board.WhitePawn, Captured: board.BlackQueen, Promotion: board.NoPiece, Flags: board.FlagCapture}
	queenTakesPawn := board.Move{From: board.D1, To: board.D5, Piece: board.WhiteQueen, Captured: board.BlackPawn, Promotion: board.NoPiece, Flags: board.FlagCapture}
	promotion := board.Move{From: board.A7, To: board.A8, Piece: board.WhitePawn, Captured: board.NoPiece, Promotion: board.WhiteQueen, Flags: board.FlagPromotion}
	quiet := board.Move{From: board.G1, To: board.F3, Piece: board.WhiteKnight, Captured: board.NoPiece, Promotion: board.NoPiece}

	tests := []struct {
		name    string
		move    board.Move
		inCheck bool
		want    int
	}{
		{"pawn takes queen", pawnTakesQueen, false, CaptureBase + QueenValue - PawnValue},
		{"queen takes pawn", queenTakesPawn, false, CaptureBase + PawnValue - QueenValue},
		{"promotion", promotion, false, PromotionBonus},
		{"quiet", quiet, false, 0},
		{"quiet in check", quiet, true, InCheckBonus},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := ScoreMove(tc.move, tc.inCheck); got != tc.want {
				t.Errorf("ScoreMove = %d, want %d", got, tc.want)
			}
		})
	}
}
