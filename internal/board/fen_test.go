package board

import "testing"

func TestFENRoundTrip(t *testing.T) {
	fens := []string{
		StartFEN,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
		"rnbqkbnr/pppp1ppp/8/4p3/4P3/8/PPPP1PPP/RNBQKBNR w KQkq e6 0 2",
		"8/8/8/4k3/8/4K3/8/8 b - - 12 34",
	}

	for _, fen := range fens {
		t.Run(fen, func(t *testing.T) {
			pos, err := ParseFEN(fen)
			if err != nil {
				t.Fatalf("ParseFEN: %v", err)
			}
			if got := pos.ToFEN(); got != fen {
				t.Errorf("round trip: got %q, want %q", got, fen)
			}
		})
	}
}

func TestFENErrors(t *testing.T) {
	bad := []string{
		"",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR",           // missing fields
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP w KQkq - 0 1",       // 7 ranks
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR x KQkq - 0 1", // bad side
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w XQkq - 0 1", // bad castling
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq z9 0 1", // bad ep
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - x 1",  // bad clock
		"9/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1",     // bad rank
		"nbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1",  // short rank 8
	}

	for _, fen := range bad {
		if _, err := ParseFEN(fen); err == nil {
			t.Errorf("ParseFEN(%q): expected error", fen)
		}
	}
}

func TestStartPositionState(t *testing.T) {
	pos := NewPosition()

	if pos.SideToMove != White {
		t.Error("wrong side to move")
	}
	if pos.CastlingRights != AllCastling {
		t.Error("wrong castling rights")
	}
	if pos.EnPassant != NoSquare {
		t.Error("unexpected en passant square")
	}
	if pos.AllOccupied.PopCount() != 32 {
		t.Errorf("expected 32 pieces, got %d", pos.AllOccupied.PopCount())
	}
	if pos.KingSquare[White] != E1 || pos.KingSquare[Black] != E8 {
		t.Error("wrong king squares")
	}
	if pos.GamePhase != 24 {
		t.Errorf("game phase = %d, want 24", pos.GamePhase)
	}
	if pos.Hash != pos.ComputeHash() {
		t.Error("hash mismatch")
	}
	if pos.InCheck() {
		t.Error("start position flagged in check")
	}
}
