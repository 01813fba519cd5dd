package engine

import (
	"testing"

	"github.com/hailam/gorook/internal/board"
)

// drainPicker collects every move the picker yields.
func drainPicker(pos *board.Position, tables *SearchTables, ttMove board.Move, capturesOnly bool) []board.Move {
	mode := board.GenAll
	if capturesOnly {
		mode = board.GenCaptures
	}
	legal := pos.GenerateMoves(mode)

	var mp MovePicker
	mp.Init(pos, tables, 0, ttMove, capturesOnly, legal)

	var out []board.Move
	for {
		m, ok := mp.Next()
		if !ok {
			return out
		}
		out = append(out, m)
	}
}

// TestPickerYieldsAllLegalMovesOnce: over all stages, the picker must
// produce exactly the legal move set with no duplicates.
func TestPickerYieldsAllLegalMovesOnce(t *testing.T) {
	fens := []string{
		board.StartFEN,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8",
	}

	for _, fen := range fens {
		pos, err := board.ParseFEN(fen)
		if err != nil {
			t.Fatal(err)
		}

		legal := pos.GenerateLegalMoves()
		yielded := drainPicker(pos, NewSearchTables(), board.NoMove, false)

		if len(yielded) != legal.Len() {
			t.Errorf("%s: yielded %d moves, legal %d", fen, len(yielded), legal.Len())
		}

		seen := make(map[board.Move]bool)
		for _, m := range yielded {
			if seen[m] {
				t.Errorf("%s: move %s yielded twice", fen, m)
			}
			seen[m] = true
			if !legal.Contains(m) {
				t.Errorf("%s: yielded illegal move %s", fen, m)
			}
		}
	}
}

// TestPickerTTMoveFirst: a legal TT move must come out first and not
// reappear later.
func TestPickerTTMoveFirst(t *testing.T) {
	pos := board.NewPosition()
	legal := pos.GenerateLegalMoves()
	ttMove := board.NoMove
	for _, m := range legal.Slice() {
		if m.String() == "d2d4" {
			ttMove = m
		}
	}
	if ttMove == board.NoMove {
		t.Fatal("d2d4 not found")
	}

	yielded := drainPicker(pos, NewSearchTables(), ttMove, false)
	if yielded[0] != ttMove {
		t.Errorf("TT move not yielded first: got %s", yielded[0])
	}
	for _, m := range yielded[1:] {
		if m == ttMove {
			t.Error("TT move yielded twice")
		}
	}
}

// TestPickerKillerOrdering: a killer quiet move is tried before other
// quiets.
func TestPickerKillerOrdering(t *testing.T) {
	pos := board.NewPosition()
	legal := pos.GenerateLegalMoves()

	var killer board.Move
	for _, m := range legal.Slice() {
		if m.String() == "b1c3" {
			killer = m
		}
	}
	tables := NewSearchTables()
	tables.StoreKiller(killer, 0)

	yielded := drainPicker(pos, tables, board.NoMove, false)

	// No captures exist at the start position, so the killer leads.
	if yielded[0] != killer {
		t.Errorf("killer not yielded first: got %s", yielded[0])
	}
}

// TestPickerGoodCapturesBeforeQuiets: with a hanging queen on the
// board, the winning capture leads.
func TestPickerGoodCapturesBeforeQuiets(t *testing.T) {
	pos, err := board.ParseFEN("1k6/8/8/3q4/8/8/3R4/3K4 w - - 0 1")
	if err != nil {
		t.Fatal(err)
	}

	yielded := drainPicker(pos, NewSearchTables(), board.NoMove, false)
	if len(yielded) == 0 {
		t.Fatal("no moves yielded")
	}
	if yielded[0].String() != "d2d5" {
		t.Errorf("winning capture not first: got %s", yielded[0])
	}
}

// TestPickerBadCapturesLast: a losing capture must come after quiets.
func TestPickerBadCapturesLast(t *testing.T) {
	// Rxd5 loses the exchange against the defending e6 pawn.
	pos, err := board.ParseFEN("1k6/8/4p3/3p4/8/8/3R4/3K4 w - - 0 1")
	if err != nil {
		t.Fatal(err)
	}

	yielded := drainPicker(pos, NewSearchTables(), board.NoMove, false)
	last := yielded[len(yielded)-1]
	if last.String() != "d2d5" {
		t.Errorf("losing capture not last: got %s", last)
	}
}

// TestPickerCapturesOnlyMode: captures-only mode yields captures and
// promotions, nothing else.
func TestPickerCapturesOnlyMode(t *testing.T) {
	pos, err := board.ParseFEN("rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8")
	if err != nil {
		t.Fatal(err)
	}

	yielded := drainPicker(pos, NewSearchTables(), board.NoMove, true)
	if len(yielded) == 0 {
		t.Fatal("no captures yielded")
	}
	for _, m := range yielded {
		if !m.IsCapture() && !m.IsPromotion() {
			t.Errorf("captures-only mode yielded quiet move %s", m)
		}
	}
}
