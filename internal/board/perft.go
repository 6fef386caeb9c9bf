package board

// Perft counts the leaf nodes of the legal move tree to the given depth.
func Perft(pos *Position, depth int) uint64 {
	if depth <= 0 {
		return 1
	}
	moves := pos.GenerateLegalMoves()
	if depth == 1 {
		return uint64(moves.Len())
	}
	var nodes uint64
	for _, m := range moves.Slice() {
		child := *pos
		child.Apply(m, true)
		nodes += Perft(&child, depth-1)
	}
	return nodes
}

// DivideEntry is the subtree size below one root move.
type DivideEntry struct {
	Move  Move
	Nodes uint64
}

// Divide runs Perft below each root move, in generation order.
func Divide(pos *Position, depth int) []DivideEntry {
	moves := pos.GenerateLegalMoves()
	out := make([]DivideEntry, 0, moves.Len())
	for _, m := range moves.Slice() {
		child := *pos
		child.Apply(m, true)
		out = append(out, DivideEntry{Move: m, Nodes: Perft(&child, depth-1)})
	}
	return out
}
