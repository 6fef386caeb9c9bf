package engine

import (
	"github.com/hailam/athena/internal/board"
)

// Search constants
const (
	Infinity  = 1_000_000
	MateScore = 900_000
	MaxDepth  = 10
)

// Searcher performs a fixed-depth negamax alpha-beta search with a
// quiescence extension on captures. It holds only counters, so one
// Searcher must not be shared by concurrent searches.
type Searcher struct {
	nodes  uint64
	qnodes uint64
}

// NewSearcher creates a new searcher.
func NewSearcher() *Searcher {
	return &Searcher{}
}

// Reset clears the node counters.
func (s *Searcher) Reset() {
	s.nodes = 0
	s.qnodes = 0
}

// Nodes returns the number of main search nodes visited since the last Reset.
func (s *Searcher) Nodes() uint64 {
	return s.nodes
}

// QNodes returns the number of quiescence nodes visited since the last Reset.
func (s *Searcher) QNodes() uint64 {
	return s.qnodes
}

// FindBestMove returns the best move for the side to move searched to depth
// plies, or board.NoMove if there is no legal move. depth must be at least 1.
func (s *Searcher) FindBestMove(pos *board.Position, depth int) board.Move {
	m, _ := s.Search(pos, depth)
	return m
}

// Search is FindBestMove that also returns the root score.
func (s *Searcher) Search(pos *board.Position, depth int) (board.Move, int) {
	moves := OrderMoves(pos, pos.GenerateLegalMoves())

	bestMove := board.NoMove
	bestScore := -Infinity
	alpha, beta := -Infinity, Infinity

	for _, m := range moves {
		child := *pos
		child.Apply(m, true)

		score := -s.negamax(&child, depth-1, -beta, -alpha)
		if score > bestScore {
			bestScore = score
			bestMove = m
		}
		if bestScore > alpha {
			alpha = bestScore
		}
	}
	return bestMove, bestScore
}

func (s *Searcher) negamax(pos *board.Position, depth, alpha, beta int) int {
	if depth == 0 {
		return s.quiescence(pos, alpha, beta)
	}
	s.nodes++

	legal := pos.GenerateLegalMoves()
	if legal.Len() == 0 {
		if pos.InCheck() {
			// more remaining depth means a quicker mate
			return -(MateScore + depth)
		}
		return 0
	}

	best := -Infinity
	for _, m := range OrderMoves(pos, legal) {
		child := *pos
		child.Apply(m, true)

		score := -s.negamax(&child, depth-1, -beta, -alpha)
		if score > best {
			best = score
		}
		if best > alpha {
			alpha = best
		}
		if alpha >= beta {
			break
		}
	}
	return best
}

// quiescence searches captures only until the position is quiet. There is
// no depth limit; capture sequences end when material runs out.
func (s *Searcher) quiescence(pos *board.Position, alpha, beta int) int {
	s.qnodes++

	standPat := Evaluate(pos)
	if standPat >= beta {
		return beta
	}
	if standPat > alpha {
		alpha = standPat
	}

	for _, m := range OrderMoves(pos, pos.GenerateCaptures()) {
		child := *pos
		child.Apply(m, true)

		score := -s.quiescence(&child, -beta, -alpha)
		if score >= beta {
			return beta
		}
		if score > alpha {
			alpha = score
		}
	}
	return alpha
}

// IsMateScore reports whether score encodes a forced mate for either side.
func IsMateScore(score int) bool {
	return abs(score) >= MateScore
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
