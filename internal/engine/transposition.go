package engine

import (
	"fmt"

	"github.com/hailam/gorook/internal/board"
)

// Bound indicates the type of score stored in a table entry.
type Bound uint8

const (
	BoundExact Bound = iota
	BoundLower       // Failed high (beta cutoff)
	BoundUpper       // Failed low
)

// Entry is a transposition table entry. The full 64-bit key is kept
// for equality; the index is key mod table length.
type Entry struct {
	Key   uint64
	Move  board.Move
	Score int32
	Depth int8
	Bound Bound
}

// Table is a fixed-size, single-bucket transposition table with an
// always-replace-deeper policy.
type Table struct {
	entries []Entry
}

// NewTable creates a transposition table of the given size in MB.
func NewTable(sizeMB int) *Table {
	t := &Table{}
	t.Resize(sizeMB)
	return t
}

// Resize reallocates the table for a new size in MB, dropping all entries.
func (t *Table) Resize(sizeMB int) {
	const entrySize = 24
	numEntries := sizeMB * 1024 * 1024 / entrySize
	if numEntries < 1 {
		numEntries = 1
	}
	t.entries = make([]Entry, numEntries)
}

// Clear drops all entries.
func (t *Table) Clear() {
	for i := range t.entries {
		t.entries[i] = Entry{}
	}
}

// Probe returns the entry for the key, if one is stored.
func (t *Table) Probe(key uint64) (Entry, bool) {
	e := t.entries[key%uint64(len(t.entries))]
	if e.Key == key && e.Depth > 0 {
		return e, true
	}
	return Entry{}, false
}

// Store saves a search result. The new entry replaces the old one only
// when its depth is strictly greater.
func (t *Table) Store(key uint64, depth, score int, bound Bound, best board.Move) {
	e := &t.entries[key%uint64(len(t.entries))]
	if int(e.Depth) >= depth && e.Key != 0 {
		return
	}
	*e = Entry{
		Key:   key,
		Move:  best,
		Score: int32(score),
		Depth: int8(depth),
		Bound: bound,
	}
}

// Hashfull returns the permille of sampled entries in use.
func (t *Table) Hashfull() int {
	sample := 1000
	if sample > len(t.entries) {
		sample = len(t.entries)
	}
	used := 0
	for i := 0; i < sample; i++ {
		if t.entries[i].Depth > 0 {
			used++
		}
	}
	return used * 1000 / sample
}

// Mate scores are stored relative to the mating side and adjusted by
// the probing ply on both paths, so a hit at a different ply still
// reports the correct distance to mate.

// ScoreToTT adjusts a score for storage at the given ply.
func ScoreToTT(score, ply int) int {
	if score > MateValue-MaxPly {
		return score + ply
	}
	if score < -MateValue+MaxPly {
		return score - ply
	}
	return score
}

// ScoreFromTT adjusts a stored score for the probing ply.
func ScoreFromTT(score, ply int) int {
	if score > MateValue-MaxPly {
		return score - ply
	}
	if score < -MateValue+MaxPly {
		return score + ply
	}
	return score
}

func (t *Table) String() string {
	return fmt.Sprintf("tt[%d entries]", len(t.entries))
}
