package board

import "testing"

// TestGenModesPartition: captures and quiets partition the full move
// set with no overlap.
func TestGenModesPartition(t *testing.T) {
	fens := []string{
		StartFEN,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8",
		"rnbqkbnr/pppp1ppp/8/4p3/4P3/8/PPPP1PPP/RNBQKBNR w KQkq e6 0 2",
	}

	for _, fen := range fens {
		pos, err := ParseFEN(fen)
		if err != nil {
			t.Fatal(err)
		}

		all := pos.GenerateMoves(GenAll)
		captures := pos.GenerateMoves(GenCaptures)
		quiets := pos.GenerateMoves(GenQuiets)

		if captures.Len()+quiets.Len() != all.Len() {
			t.Errorf("%s: %d captures + %d quiets != %d all",
				fen, captures.Len(), quiets.Len(), all.Len())
		}

		for _, m := range captures.Slice() {
			if !m.IsCapture() && !m.IsPromotion() {
				t.Errorf("%s: %s in captures mode is neither capture nor promotion", fen, m)
			}
			if !all.Contains(m) {
				t.Errorf("%s: capture %s missing from full generation", fen, m)
			}
		}
		for _, m := range quiets.Slice() {
			if m.IsCapture() || m.IsPromotion() {
				t.Errorf("%s: %s in quiets mode is a capture or promotion", fen, m)
			}
			if !all.Contains(m) {
				t.Errorf("%s: quiet %s missing from full generation", fen, m)
			}
		}
	}
}

// TestDoubleCheckOnlyKingMoves: under double check every legal move is
// a king move.
func TestDoubleCheckOnlyKingMoves(t *testing.T) {
	// Knight on d3 and bishop on h4 both give check.
	pos, err := ParseFEN("4k3/8/8/8/7b/3n4/8/4K3 w - - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	if !pos.InCheck() || !pos.DoubleCheck {
		t.Fatal("expected double check")
	}

	for _, m := range pos.GenerateLegalMoves().Slice() {
		if m.Piece.Type() != King {
			t.Errorf("non-king move %s generated during double check", m)
		}
	}
}

// TestPinnedKnightImmobile: a knight pinned against the king has no
// legal moves.
func TestPinnedKnightImmobile(t *testing.T) {
	// White rook e1 pins the e3 knight against the king on e8.
	pos, err := ParseFEN("4k3/8/8/8/8/4n3/8/4R1K1 b - - 0 1")
	if err != nil {
		t.Fatal(err)
	}

	for _, m := range pos.GenerateLegalMoves().Slice() {
		if m.From == E3 {
			t.Errorf("pinned knight move %s generated", m)
		}
	}
}

// TestCastlingThroughCheckForbidden: the king may not castle across an
// attacked square.
func TestCastlingThroughCheckForbidden(t *testing.T) {
	// Black rook on f8 covers f1.
	pos, err := ParseFEN("4kr2/8/8/8/8/8/8/4K2R w K - 0 1")
	if err != nil {
		t.Fatal(err)
	}

	for _, m := range pos.GenerateLegalMoves().Slice() {
		if m.Kind == Castle {
			t.Errorf("castling %s generated through an attacked square", m)
		}
	}

	// With the rook elsewhere the castle is available.
	pos, err = ParseFEN("r3k3/8/8/8/8/8/8/4K2R w K - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	found := false
	for _, m := range pos.GenerateLegalMoves().Slice() {
		if m.Kind == Castle && m.String() == "e1g1" {
			found = true
		}
	}
	if !found {
		t.Error("legal kingside castle not generated")
	}
}
