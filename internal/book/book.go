// Package book reads Polyglot opening books: 16-byte big-endian
// records of (position key, move, weight, learn).
package book

import (
	"encoding/binary"
	"io"
	"math/rand"
	"os"
	"sort"

	"github.com/hailam/gorook/internal/board"
)

// Entry is a single weighted book move.
type Entry struct {
	From, To board.Square
	Promo    board.PieceType // NoPieceType when not a promotion
	Weight   uint16
}

// Book is an opening book keyed by Polyglot hash.
type Book struct {
	entries map[uint64][]Entry
}

// New creates an empty book.
func New() *Book {
	return &Book{entries: make(map[uint64][]Entry)}
}

// LoadPolyglot loads a Polyglot book from a file.
func LoadPolyglot(filename string) (*Book, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return LoadPolyglotReader(file)
}

// LoadPolyglotReader loads a Polyglot book from a reader.
func LoadPolyglotReader(r io.Reader) (*Book, error) {
	b := New()

	// 8 bytes key, 2 bytes move, 2 bytes weight, 4 bytes learn (ignored).
	var rec [16]byte

	for {
		_, err := io.ReadFull(r, rec[:])
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		key := binary.BigEndian.Uint64(rec[0:8])
		moveData := binary.BigEndian.Uint16(rec[8:10])
		weight := binary.BigEndian.Uint16(rec[10:12])

		b.entries[key] = append(b.entries[key], decodeEntry(moveData, weight))
	}

	return b, nil
}

// decodeEntry unpacks the Polyglot move encoding:
// bits 0-5 to square, 6-11 from square, 12-14 promotion
// (0=none, 1=knight, 2=bishop, 3=rook, 4=queen).
func decodeEntry(data, weight uint16) Entry {
	toFile := int(data & 7)
	toRank := int((data >> 3) & 7)
	fromFile := int((data >> 6) & 7)
	fromRank := int((data >> 9) & 7)
	promo := (data >> 12) & 7

	from := board.NewSquare(fromFile, fromRank)
	to := board.NewSquare(toFile, toRank)

	// Polyglot encodes castling as king-captures-rook; rewrite to the
	// king's two-square hop.
	switch {
	case from == board.E1 && to == board.H1:
		to = board.G1
	case from == board.E1 && to == board.A1:
		to = board.C1
	case from == board.E8 && to == board.H8:
		to = board.G8
	case from == board.E8 && to == board.A8:
		to = board.C8
	}

	e := Entry{From: from, To: to, Promo: board.NoPieceType, Weight: weight}
	if promo > 0 && promo <= 4 {
		promoTypes := [5]board.PieceType{board.NoPieceType, board.Knight, board.Bishop, board.Rook, board.Queen}
		e.Promo = promoTypes[promo]
	}
	return e
}

// Probe looks the position up and returns a legal book move using
// weighted random selection among the stored entries.
func (b *Book) Probe(pos *board.Position) (board.Move, bool) {
	if b == nil {
		return board.NoMove, false
	}

	entries, ok := b.entries[pos.PolyglotHash()]
	if !ok || len(entries) == 0 {
		return board.NoMove, false
	}

	sorted := make([]Entry, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Weight > sorted[j].Weight
	})

	totalWeight := uint32(0)
	for _, e := range sorted {
		totalWeight += uint32(e.Weight)
	}

	chosen := sorted[0]
	if totalWeight > 0 {
		r := rand.Uint32() % totalWeight
		cumulative := uint32(0)
		for _, e := range sorted {
			cumulative += uint32(e.Weight)
			if r < cumulative {
				chosen = e
				break
			}
		}
	}

	if m := matchLegal(pos, chosen); m != board.NoMove {
		return m, true
	}
	// The chosen entry does not match a legal move (corrupt book or
	// key collision); fall back to any entry that does.
	for _, e := range sorted {
		if m := matchLegal(pos, e); m != board.NoMove {
			return m, true
		}
	}
	return board.NoMove, false
}

// matchLegal resolves a book entry against the legal move list, picking
// up the correct variant flags (castling, en passant, captures).
func matchLegal(pos *board.Position, e Entry) board.Move {
	for _, m := range pos.GenerateLegalMoves().Slice() {
		if m.From != e.From || m.To != e.To {
			continue
		}
		if e.Promo == board.NoPieceType {
			if !m.IsPromotion() {
				return m
			}
		} else if m.IsPromotion() && m.Promo == e.Promo {
			return m
		}
	}
	return board.NoMove
}

// Size returns the number of unique positions in the book.
func (b *Book) Size() int {
	if b == nil {
		return 0
	}
	return len(b.entries)
}
