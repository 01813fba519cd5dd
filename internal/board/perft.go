package board

import "fmt"

// Perft counts the leaf nodes of the legal move tree at the given
// depth. It is the standard correctness check for move generation and
// make/unmake.
func Perft(p *Position, depth int) uint64 {
	if depth == 0 {
		return 1
	}

	moves := p.GenerateLegalMoves()
	if depth == 1 {
		return uint64(moves.Len())
	}

	var nodes uint64
	for _, m := range moves.Slice() {
		p.MakeMove(m)
		nodes += Perft(p, depth-1)
		p.UnmakeMove(m)
	}
	return nodes
}

// PerftDivide returns the per-root-move subtree counts and the total.
func PerftDivide(p *Position, depth int) ([]string, uint64) {
	moves := p.GenerateLegalMoves()
	lines := make([]string, 0, moves.Len())

	var total uint64
	for _, m := range moves.Slice() {
		var nodes uint64 = 1
		if depth > 1 {
			p.MakeMove(m)
			nodes = Perft(p, depth-1)
			p.UnmakeMove(m)
		}
		total += nodes
		lines = append(lines, fmt.Sprintf("%s: %d", m, nodes))
	}
	return lines, total
}

// PerftChecked is the self-testing variant: at every node it verifies
// that the incremental Zobrist key matches a fresh recomputation from
// the position state, catching any make/unmake desynchronization.
func PerftChecked(p *Position, depth int) (uint64, error) {
	if p.Hash != p.ComputeHash() {
		return 0, fmt.Errorf("zobrist mismatch: incremental %016x, recomputed %016x", p.Hash, p.ComputeHash())
	}
	if depth == 0 {
		return 1, nil
	}

	moves := p.GenerateLegalMoves()
	if depth == 1 {
		return uint64(moves.Len()), nil
	}

	var nodes uint64
	for _, m := range moves.Slice() {
		before := p.Hash
		p.MakeMove(m)
		n, err := PerftChecked(p, depth-1)
		p.UnmakeMove(m)
		if err != nil {
			return 0, err
		}
		if p.Hash != before {
			return 0, fmt.Errorf("hash not restored after %s: %016x != %016x", m, p.Hash, before)
		}
		nodes += n
	}
	return nodes, nil
}
