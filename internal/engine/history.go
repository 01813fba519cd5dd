package engine

import (
	"github.com/hailam/gorook/internal/board"
)

const maxExtensions = 16

// SearchTables holds the per-search move-ordering state: killer moves,
// butterfly history, capture history and two planes of continuation
// history, plus the per-ply eval and move stacks the search records as
// it descends.
type SearchTables struct {
	killers [MaxPly][2]board.Move

	// history[color][from][to], updated by depth*depth on quiet cutoffs.
	history [2][64][64]int32

	// captureHistory[attacker piece][to][victim piece type].
	captureHistory [12][64][6]int32

	// contHistory[plane][prev piece][prev to][piece][to], plane 0 keyed
	// by the move one ply back, plane 1 by the move two plies back.
	contHistory *[2][12][64][12][64]int32

	evalStack [MaxPly]int
	evalSet   [MaxPly]bool
	moveStack [MaxPly]board.Move
}

// NewSearchTables allocates zeroed search tables.
func NewSearchTables() *SearchTables {
	return &SearchTables{contHistory: &[2][12][64][12][64]int32{}}
}

// Clear resets all tables for a new game.
func (st *SearchTables) Clear() {
	*st.contHistory = [2][12][64][12][64]int32{}
	st.history = [2][64][64]int32{}
	st.captureHistory = [12][64][6]int32{}
	for i := range st.killers {
		st.killers[i][0] = board.NoMove
		st.killers[i][1] = board.NoMove
	}
}

// ResetStacks clears the per-ply eval and move stacks before a search.
func (st *SearchTables) ResetStacks() {
	for i := range st.evalSet {
		st.evalSet[i] = false
		st.moveStack[i] = board.NoMove
	}
}

// StoreKiller records a quiet move that caused a beta cutoff. Two
// distinct killers are kept per ply.
func (st *SearchTables) StoreKiller(m board.Move, ply int) {
	if ply >= MaxPly {
		return
	}
	if st.killers[ply][0] != m {
		st.killers[ply][1] = st.killers[ply][0]
		st.killers[ply][0] = m
	}
}

// Killers returns the killer pair for a ply.
func (st *SearchTables) Killers(ply int) [2]board.Move {
	return st.killers[ply]
}

// HistoryScore returns the butterfly history score for a quiet move.
func (st *SearchTables) HistoryScore(c board.Color, m board.Move) int32 {
	return st.history[c][m.From][m.To]
}

// AddHistory rewards (or penalizes) a quiet move by depth squared.
func (st *SearchTables) AddHistory(c board.Color, m board.Move, depth int, penalize bool) {
	bonus := int32(depth * depth)
	if penalize {
		bonus = -bonus
	}
	st.history[c][m.From][m.To] += bonus
}

// CaptureHistoryScore returns the capture history score for a capture.
func (st *SearchTables) CaptureHistoryScore(m board.Move) int32 {
	return st.captureHistory[m.Piece][m.To][m.Victim.Type()]
}

// AddCaptureHistory rewards a capture by depth squared.
func (st *SearchTables) AddCaptureHistory(m board.Move, depth int, penalize bool) {
	if !m.IsCapture() {
		return
	}
	bonus := int32(depth * depth)
	if penalize {
		bonus = -bonus
	}
	st.captureHistory[m.Piece][m.To][m.Victim.Type()] += bonus
}

// ContHistScore returns the summed continuation-history score of a move
// in the context of the moves made one and two plies back.
func (st *SearchTables) ContHistScore(ply int, m board.Move) int32 {
	var score int32
	for back := 1; back <= 2; back++ {
		if ply-back < 0 {
			break
		}
		prev := st.moveStack[ply-back]
		if prev == board.NoMove {
			continue
		}
		score += st.contHistory[back-1][prev.Piece][prev.To][m.Piece][m.To]
	}
	return score
}

// AddContHist rewards (or penalizes) a quiet move in the context of the
// previous one and two moves by depth squared.
func (st *SearchTables) AddContHist(ply int, m board.Move, depth int, penalize bool) {
	bonus := int32(depth * depth)
	if penalize {
		bonus = -bonus
	}
	for back := 1; back <= 2; back++ {
		if ply-back < 0 {
			break
		}
		prev := st.moveStack[ply-back]
		if prev == board.NoMove {
			continue
		}
		st.contHistory[back-1][prev.Piece][prev.To][m.Piece][m.To] += bonus
	}
}

// SetEval records the static eval for a ply; in check the slot is
// disabled instead.
func (st *SearchTables) SetEval(ply, eval int, inCheck bool) {
	if inCheck {
		st.evalSet[ply] = false
		return
	}
	st.evalStack[ply] = eval
	st.evalSet[ply] = true
}

// Improving reports whether the static eval at this ply is better than
// it was two (or, failing that, four) plies ago.
func (st *SearchTables) Improving(ply int) bool {
	if !st.evalSet[ply] {
		return false
	}
	if ply >= 2 && st.evalSet[ply-2] {
		if st.evalStack[ply] > st.evalStack[ply-2] {
			return true
		}
	}
	if ply >= 4 && st.evalSet[ply-4] {
		if st.evalStack[ply] > st.evalStack[ply-4] {
			return true
		}
	}
	return false
}
