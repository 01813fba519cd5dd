// Package engine implements the search: iterative-deepening negamax
// alpha-beta with quiescence, a transposition table, a staged move
// picker and the selective-search heuristics.
package engine

import (
	"github.com/hailam/gorook/internal/board"
)

// Search score constants. MateValue leaves room for the ±ply
// adjustment over the maximum search depth below Infinity.
const (
	Infinity  = 30000
	MateValue = 29000
	MaxPly    = 256
)

// Evaluate returns the static evaluation of the position in centipawns
// from the side to move: the tapered piece-square accumulators mixed by
// game phase.
func Evaluate(pos *board.Position) int {
	mg := pos.GamePhase
	if mg > 24 {
		mg = 24
	}
	eg := 24 - mg

	mgScore := pos.PSQT[board.White].MG - pos.PSQT[board.Black].MG
	egScore := pos.PSQT[board.White].EG - pos.PSQT[board.Black].EG
	score := (mgScore*mg + egScore*eg) / 24

	if pos.SideToMove == board.Black {
		return -score
	}
	return score
}

// IsMateScore reports whether a score encodes a forced mate.
func IsMateScore(score int) bool {
	if score < 0 {
		score = -score
	}
	return score > MateValue-MaxPly
}
