package book

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/hailam/gorook/internal/board"
)

func TestPolyglotHashConsistency(t *testing.T) {
	pos := board.NewPosition()
	hash1 := pos.PolyglotHash()
	hash2 := pos.PolyglotHash()

	if hash1 != hash2 {
		t.Errorf("PolyglotHash not consistent: %x != %x", hash1, hash2)
	}

	m := board.NoMove
	for _, lm := range pos.GenerateLegalMoves().Slice() {
		if lm.String() == "e2e4" {
			m = lm
		}
	}
	pos.MakeMove(m)
	hash3 := pos.PolyglotHash()
	if hash1 == hash3 {
		t.Error("PolyglotHash should change after a move")
	}

	pos.UnmakeMove(m)
	if pos.PolyglotHash() != hash1 {
		t.Error("PolyglotHash not restored after unmake")
	}
}

// writeEntry appends one 16-byte Polyglot record.
func writeEntry(buf *bytes.Buffer, key uint64, move, weight uint16) {
	binary.Write(buf, binary.BigEndian, key)
	binary.Write(buf, binary.BigEndian, move)
	binary.Write(buf, binary.BigEndian, weight)
	binary.Write(buf, binary.BigEndian, uint32(0)) // learn, ignored
}

func TestBookLoadAndProbe(t *testing.T) {
	pos := board.NewPosition()
	key := pos.PolyglotHash()

	// e2e4 in Polyglot encoding:
	// move = to_file | to_rank<<3 | from_file<<6 | from_rank<<9
	e2e4 := uint16(4 | (3 << 3) | (4 << 6) | (1 << 9))

	var buf bytes.Buffer
	writeEntry(&buf, key, e2e4, 100)

	b, err := LoadPolyglotReader(&buf)
	if err != nil {
		t.Fatalf("Failed to load book: %v", err)
	}

	if b.Size() != 1 {
		t.Errorf("Expected book size 1, got %d", b.Size())
	}

	move, found := b.Probe(pos)
	if !found {
		t.Fatal("Expected to find move in book")
	}
	if move.From != board.E2 || move.To != board.E4 {
		t.Errorf("Expected e2e4, got %s", move)
	}
	if move.Kind != board.Quiet {
		t.Errorf("e2e4 should resolve to a quiet move, got kind %d", move.Kind)
	}
}

func TestBookCastlingReencoding(t *testing.T) {
	// Position where white can castle kingside; Polyglot encodes O-O
	// as e1-takes-h1.
	pos, err := board.ParseFEN("r3k2r/pppppppp/8/8/8/8/PPPPPPPP/R3K2R w KQkq - 0 1")
	if err != nil {
		t.Fatal(err)
	}

	e1h1 := uint16(7 | (0 << 3) | (4 << 6) | (0 << 9))

	var buf bytes.Buffer
	writeEntry(&buf, pos.PolyglotHash(), e1h1, 10)

	b, err := LoadPolyglotReader(&buf)
	if err != nil {
		t.Fatal(err)
	}

	move, found := b.Probe(pos)
	if !found {
		t.Fatal("castling entry not found")
	}
	if move.Kind != board.Castle || move.String() != "e1g1" {
		t.Errorf("expected castling move e1g1, got %s (kind %d)", move, move.Kind)
	}
}

func TestBookMiss(t *testing.T) {
	b := New()
	pos := board.NewPosition()

	move, found := b.Probe(pos)
	if found {
		t.Error("Expected book miss on empty book")
	}
	if move != board.NoMove {
		t.Errorf("Expected NoMove on miss, got %s", move)
	}
}

func TestBookIllegalEntrySkipped(t *testing.T) {
	pos := board.NewPosition()

	// a1a8 is not legal at the start; the probe must reject it.
	a1a8 := uint16(0 | (7 << 3) | (0 << 6) | (0 << 9))

	var buf bytes.Buffer
	writeEntry(&buf, pos.PolyglotHash(), a1a8, 50)

	b, err := LoadPolyglotReader(&buf)
	if err != nil {
		t.Fatal(err)
	}

	if _, found := b.Probe(pos); found {
		t.Error("illegal book entry must not produce a move")
	}
}
