package engine

import (
	"github.com/hailam/gorook/internal/board"
)

// Move ordering score bases.
const (
	baseCapture   = 10000000
	basePromotion = baseCapture - 1000
)

// pickStage enumerates the lazy stages of the move picker.
type pickStage uint8

const (
	stageTTMove pickStage = iota
	stageGenCaptures
	stageGoodCaptures
	stageKiller1
	stageKiller2
	stageGenQuiets
	stageQuiets
	stageBadCaptures
	stageDone
)

// MovePicker yields the moves of a node one at a time in search order:
// TT move, winning captures, killers, quiets by history, losing
// captures. It is an explicit state machine over a scratch buffer, fed
// from the node's legal move list.
type MovePicker struct {
	pos          *board.Position
	tables       *SearchTables
	ply          int
	ttMove       board.Move
	killers      [2]board.Move
	capturesOnly bool
	stage        pickStage

	legal *board.MoveList

	captures []board.Move
	capScore []int32
	quiets   []board.Move
	quiScore []int32
	bad      []board.Move
	badScore []int32

	capBuf, quiBuf, badBuf [board.MaxMoves]board.Move
	capSBuf, quiSBuf       [board.MaxMoves]int32
	badSBuf                [board.MaxMoves]int32
}

// Init prepares the picker for a node. legal must hold the node's legal
// moves (all of them in full mode, the capture subset in captures-only
// mode, as produced by GenerateMoves).
func (mp *MovePicker) Init(pos *board.Position, tables *SearchTables, ply int, ttMove board.Move, capturesOnly bool, legal *board.MoveList) {
	mp.pos = pos
	mp.tables = tables
	mp.ply = ply
	mp.ttMove = ttMove
	mp.capturesOnly = capturesOnly
	mp.stage = stageTTMove
	mp.legal = legal
	mp.killers = tables.Killers(ply)
	mp.captures = mp.capBuf[:0]
	mp.capScore = mp.capSBuf[:0]
	mp.quiets = mp.quiBuf[:0]
	mp.quiScore = mp.quiSBuf[:0]
	mp.bad = mp.badBuf[:0]
	mp.badScore = mp.badSBuf[:0]
}

// Next returns the next move to search, or false when exhausted.
func (mp *MovePicker) Next() (board.Move, bool) {
	for {
		switch mp.stage {
		case stageTTMove:
			mp.stage = stageGenCaptures
			if mp.ttMove != board.NoMove && mp.legal.Contains(mp.ttMove) {
				if !mp.capturesOnly || mp.ttMove.IsCapture() || mp.ttMove.IsPromotion() {
					return mp.ttMove, true
				}
			}

		case stageGenCaptures:
			for _, m := range mp.legal.Slice() {
				if m == mp.ttMove {
					continue
				}
				if m.IsCapture() {
					mp.captures = append(mp.captures, m)
					mp.capScore = append(mp.capScore, mp.captureScore(m))
				} else if m.IsPromotion() {
					mp.captures = append(mp.captures, m)
					mp.capScore = append(mp.capScore, int32(basePromotion+board.PieceValue[m.Promo]))
				}
			}
			mp.stage = stageGoodCaptures

		case stageGoodCaptures:
			for len(mp.captures) > 0 {
				i := maxIndex(mp.capScore)
				m := mp.captures[i]
				// Losing captures are held back for the final stage.
				if m.IsCapture() && mp.pos.SEE(m) < 0 {
					mp.bad = append(mp.bad, m)
					mp.badScore = append(mp.badScore, int32(10*m.Victim.Value()-m.Piece.Value()))
					mp.removeCapture(i)
					continue
				}
				mp.removeCapture(i)
				return m, true
			}
			if mp.capturesOnly {
				mp.stage = stageDone
			} else {
				mp.stage = stageKiller1
			}

		case stageKiller1:
			mp.stage = stageKiller2
			if k := mp.killers[0]; mp.yieldableKiller(k) {
				return k, true
			}

		case stageKiller2:
			mp.stage = stageGenQuiets
			if k := mp.killers[1]; mp.yieldableKiller(k) {
				return k, true
			}

		case stageGenQuiets:
			for _, m := range mp.legal.Slice() {
				if m == mp.ttMove || m == mp.killers[0] || m == mp.killers[1] {
					continue
				}
				if m.IsQuiet() {
					mp.quiets = append(mp.quiets, m)
					score := mp.tables.HistoryScore(mp.pos.SideToMove, m) + mp.tables.ContHistScore(mp.ply, m)
					mp.quiScore = append(mp.quiScore, score)
				}
			}
			mp.stage = stageQuiets

		case stageQuiets:
			if len(mp.quiets) > 0 {
				i := maxIndex(mp.quiScore)
				m := mp.quiets[i]
				last := len(mp.quiets) - 1
				mp.quiets[i] = mp.quiets[last]
				mp.quiScore[i] = mp.quiScore[last]
				mp.quiets = mp.quiets[:last]
				mp.quiScore = mp.quiScore[:last]
				return m, true
			}
			mp.stage = stageBadCaptures

		case stageBadCaptures:
			if len(mp.bad) > 0 {
				i := maxIndex(mp.badScore)
				m := mp.bad[i]
				last := len(mp.bad) - 1
				mp.bad[i] = mp.bad[last]
				mp.badScore[i] = mp.badScore[last]
				mp.bad = mp.bad[:last]
				mp.badScore = mp.badScore[:last]
				return m, true
			}
			mp.stage = stageDone

		case stageDone:
			return board.NoMove, false
		}
	}
}

// captureScore orders captures by most-valuable-victim,
// least-valuable-attacker, biased by capture history.
func (mp *MovePicker) captureScore(m board.Move) int32 {
	return int32(baseCapture+10*m.Victim.Value()-m.Piece.Value()) + mp.tables.CaptureHistoryScore(m)
}

func (mp *MovePicker) yieldableKiller(k board.Move) bool {
	return k != board.NoMove && k != mp.ttMove && k.IsQuiet() && mp.legal.Contains(k)
}

func (mp *MovePicker) removeCapture(i int) {
	last := len(mp.captures) - 1
	mp.captures[i] = mp.captures[last]
	mp.capScore[i] = mp.capScore[last]
	mp.captures = mp.captures[:last]
	mp.capScore = mp.capScore[:last]
}

func maxIndex(scores []int32) int {
	best := 0
	for i := 1; i < len(scores); i++ {
		if scores[i] > scores[best] {
			best = i
		}
	}
	return best
}
