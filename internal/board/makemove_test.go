package board

import "testing"

var roundTripFENs = []string{
	StartFEN,
	"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
	"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
	"r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1",
	"rnbqkbnr/pppp1ppp/8/4p3/4P3/8/PPPP1PPP/RNBQKBNR w KQkq e6 0 2",
	"4k3/8/8/8/8/8/4P3/4K3 w - - 0 1",
}

type posFingerprint struct {
	fen       string
	hash      uint64
	squares   [64]Piece
	pieces    [2][6]Bitboard
	occupied  [2]Bitboard
	all       Bitboard
	psqt      [2]Weight
	phase     int
	kings     [2]Square
	castling  CastlingRights
	enPassant Square
	halfMove  int
	fullMove  int
}

func fingerprint(p *Position) posFingerprint {
	return posFingerprint{
		fen:       p.ToFEN(),
		hash:      p.Hash,
		squares:   p.Squares,
		pieces:    p.Pieces,
		occupied:  p.Occupied,
		all:       p.AllOccupied,
		psqt:      p.PSQT,
		phase:     p.GamePhase,
		kings:     p.KingSquare,
		castling:  p.CastlingRights,
		enPassant: p.EnPassant,
		halfMove:  p.HalfMoveClock,
		fullMove:  p.FullMoveNumber,
	}
}

// TestMakeUnmakeRoundTrip verifies that unmake restores every field of
// the position, PSQT accumulators and Zobrist key included, for every
// legal move of every test position.
func TestMakeUnmakeRoundTrip(t *testing.T) {
	for _, fen := range roundTripFENs {
		pos, err := ParseFEN(fen)
		if err != nil {
			t.Fatalf("Failed to parse FEN %q: %v", fen, err)
		}

		before := fingerprint(pos)

		for _, m := range pos.GenerateLegalMoves().Slice() {
			pos.MakeMove(m)
			pos.UnmakeMove(m)

			after := fingerprint(pos)
			if before != after {
				t.Errorf("%s: position not restored after %v\nbefore: %+v\nafter:  %+v",
					fen, m, before, after)
			}
		}
	}
}

// TestIncrementalHash plays out a full line and checks the incremental
// Zobrist key against a scratch recomputation after every make.
func TestIncrementalHash(t *testing.T) {
	pos := NewPosition()

	line := []string{"e2e4", "e7e5", "g1f3", "b8c6", "f1b5", "g8f6",
		"e1g1", "f6e4", "d2d4", "e4d6", "b5c6", "d7c6", "d4e5", "d6f5"}

	for _, ms := range line {
		m := findMove(t, pos, ms)
		pos.MakeMove(m)
		if pos.Hash != pos.ComputeHash() {
			t.Fatalf("after %s: incremental hash %016x != recomputed %016x",
				ms, pos.Hash, pos.ComputeHash())
		}
	}
}

// TestNullMoveRoundTrip checks make/unmake of the null move.
func TestNullMoveRoundTrip(t *testing.T) {
	pos, err := ParseFEN("rnbqkbnr/pppp1ppp/8/4p3/4P3/8/PPPP1PPP/RNBQKBNR w KQkq e6 0 2")
	if err != nil {
		t.Fatal(err)
	}

	before := fingerprint(pos)
	pos.MakeNullMove()
	if pos.SideToMove != Black {
		t.Error("null move did not flip the side to move")
	}
	if pos.EnPassant != NoSquare {
		t.Error("null move did not clear en passant")
	}
	if pos.Hash != pos.ComputeHash() {
		t.Error("hash inconsistent after null move")
	}
	pos.UnmakeNullMove()
	if after := fingerprint(pos); before != after {
		t.Errorf("position not restored after null move\nbefore: %+v\nafter:  %+v", before, after)
	}
}

// TestRepetitionCounting verifies that game-root makes feed the
// repetition counter while search makes do not.
func TestRepetitionCounting(t *testing.T) {
	pos := NewPosition()

	shuffle := []string{"g1f3", "g8f6", "f3g1", "f6g8"}
	for i := 0; i < 2; i++ {
		for _, ms := range shuffle {
			pos.MakeMove(findMove(t, pos, ms))
		}
	}

	if got := pos.RepetitionCount(); got != 3 {
		t.Errorf("repetition count = %d, want 3", got)
	}
	if !pos.IsDraw() {
		t.Error("threefold repetition not flagged as draw")
	}

	// Search makes must not disturb the counter.
	search := pos.Copy()
	search.InSearch = true
	for i := 0; i < 2; i++ {
		for _, ms := range shuffle {
			search.MakeMove(findMove(t, search, ms))
		}
	}
	if got := search.RepetitionCount(); got != 3 {
		t.Errorf("search makes changed repetition count: got %d, want 3", got)
	}
}

func findMove(t *testing.T, pos *Position, s string) Move {
	t.Helper()
	for _, m := range pos.GenerateLegalMoves().Slice() {
		if m.String() == s {
			return m
		}
	}
	t.Fatalf("move %s not legal in %s", s, pos.ToFEN())
	return NoMove
}
