package board

import "testing"

// The standard perft suite. Each position exercises a different cluster
// of edge cases (castling, en passant, promotions, pins).
func runPerft(t *testing.T, fen string, depths []uint64) {
	t.Helper()

	pos, err := ParseFEN(fen)
	if err != nil {
		t.Fatalf("Failed to parse FEN %q: %v", fen, err)
	}

	for i, expected := range depths {
		depth := i + 1
		got := Perft(pos, depth)
		if got != expected {
			t.Errorf("perft(%d) = %d, want %d", depth, got, expected)
		}
	}
}

func TestPerftStartingPosition(t *testing.T) {
	depths := []uint64{20, 400, 8902, 197281}
	if !testing.Short() {
		depths = append(depths, 4865609)
	}
	runPerft(t, StartFEN, depths)
}

func TestPerftKiwipete(t *testing.T) {
	depths := []uint64{48, 2039, 97862}
	if !testing.Short() {
		depths = append(depths, 4085603)
	}
	runPerft(t, "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1", depths)
}

func TestPerftPosition3(t *testing.T) {
	depths := []uint64{14, 191, 2812, 43238}
	if !testing.Short() {
		depths = append(depths, 674624)
	}
	runPerft(t, "8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1", depths)
}

func TestPerftPosition4(t *testing.T) {
	depths := []uint64{6, 264, 9467}
	if !testing.Short() {
		depths = append(depths, 422333)
	}
	runPerft(t, "r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1", depths)
}

func TestPerftPosition5(t *testing.T) {
	runPerft(t, "rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8",
		[]uint64{44, 1486, 62379})
}

func TestPerftPosition6(t *testing.T) {
	runPerft(t, "r4rk1/1pp1qppp/p1np1n2/2b1p1B1/2B1P1b1/P1NP1N2/1PP1QPPP/R4RK1 w - - 0 10",
		[]uint64{46, 2079, 89890})
}

// TestPerftZobristConsistency runs the self-checking perft, which
// recomputes the Zobrist key from scratch at every node and compares it
// to the incrementally maintained one.
func TestPerftZobristConsistency(t *testing.T) {
	fens := []string{
		StartFEN,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
	}

	for _, fen := range fens {
		pos, err := ParseFEN(fen)
		if err != nil {
			t.Fatalf("Failed to parse FEN %q: %v", fen, err)
		}
		if _, err := PerftChecked(pos, 3); err != nil {
			t.Errorf("%s: %v", fen, err)
		}
	}
}

// TestPerftEnPassantPin covers the horizontal-pin case: the en passant
// capture would expose the black king on a4 to the rook on h4.
func TestPerftEnPassantPin(t *testing.T) {
	pos, err := ParseFEN("8/8/8/8/k2Pp2R/8/8/4K3 b - d3 0 1")
	if err != nil {
		t.Fatalf("Failed to parse FEN: %v", err)
	}

	for _, m := range pos.GenerateLegalMoves().Slice() {
		if m.Kind == EnPassant {
			t.Errorf("en passant move %v should be illegal (horizontal pin)", m)
		}
	}

	runPerft(t, "8/8/8/8/k2Pp2R/8/8/4K3 b - d3 0 1", []uint64{6, 94})
}

func TestPerftDivideTotal(t *testing.T) {
	pos := NewPosition()
	lines, total := PerftDivide(pos, 3)
	if len(lines) != 20 {
		t.Errorf("expected 20 root moves, got %d", len(lines))
	}
	if total != 8902 {
		t.Errorf("divide total = %d, want 8902", total)
	}
}
