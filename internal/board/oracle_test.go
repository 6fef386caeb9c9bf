package board

import (
	"math/rand/v2"
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/notnil/chess"
)

// oracleMoves lists the legal moves of fen according to an independent
// move generator.
func oracleMoves(t *testing.T, fen string) []string {
	t.Helper()
	opt, err := chess.FEN(fen)
	if err != nil {
		t.Fatalf("oracle rejected FEN %q: %v", fen, err)
	}
	game := chess.NewGame(opt)
	var out []string
	for _, m := range game.Position().ValidMoves() {
		out = append(out, m.String())
	}
	sort.Strings(out)
	return out
}

func TestLegalMovesMatchOracle(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 5))
	plies := 80
	if testing.Short() {
		plies = 20
	}

	for _, start := range playoutFENs {
		pos := mustParseFEN(t, start)
		for ply := 0; ply < plies; ply++ {
			fen := pos.FEN()
			got := sortedMoves(pos.GenerateLegalMoves())
			want := oracleMoves(t, fen)
			if len(got) == 0 {
				got = nil
			}
			if diff := cmp.Diff(want, got); diff != "" {
				t.Fatalf("%s: legal moves mismatch (-oracle +ours):\n%s", fen, diff)
			}
			if len(got) == 0 {
				break
			}
			m, err := MatchMove(pos, got[rng.IntN(len(got))])
			if err != nil {
				t.Fatal(err)
			}
			pos.Apply(m, true)
		}
	}
}
