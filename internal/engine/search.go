package engine

import (
	"math"
	"time"

	"github.com/hailam/gorook/internal/board"
)

// Selective-search tuning constants.
const (
	razorDepth  = 2
	razorMargin = 200

	rfpMaxDepth        = 8
	rfpMarginImproving = 50
	rfpMargin          = 100

	seePruneFactor = 25
)

// futilityMargin is indexed by depth-1 for depths 1 and 2.
var futilityMargin = [2]int{150, 300}

// PVTable is the triangular principal-variation table.
type PVTable struct {
	length [MaxPly]int
	moves  [MaxPly][MaxPly]board.Move
}

// Searcher runs the negamax alpha-beta search on a single position.
type Searcher struct {
	pos    *board.Position
	tt     *Table
	tables *SearchTables

	nodes      uint64
	stopped    bool
	start      time.Time
	limit      time.Duration
	extensions int

	pv PVTable
}

// NewSearcher creates a searcher bound to a transposition table.
func NewSearcher(tt *Table) *Searcher {
	return &Searcher{
		tt:     tt,
		tables: NewSearchTables(),
	}
}

// Nodes returns the number of nodes visited by the last search.
func (s *Searcher) Nodes() uint64 {
	return s.nodes
}

// ClearTables resets the move-ordering state (for ucinewgame).
func (s *Searcher) ClearTables() {
	s.tables.Clear()
}

// Prepare binds the searcher to a position and time budget. A zero
// limit means no deadline.
func (s *Searcher) Prepare(pos *board.Position, limit time.Duration) {
	s.pos = pos
	s.nodes = 0
	s.stopped = false
	s.start = time.Now()
	s.limit = limit
	s.extensions = 0
	s.tables.ResetStacks()
}

// PV returns the principal variation of the last completed iteration.
func (s *Searcher) PV() []board.Move {
	pv := make([]board.Move, s.pv.length[0])
	copy(pv, s.pv.moves[0][:s.pv.length[0]])
	return pv
}

// timeUp is the only cooperative checkpoint: when the deadline passes,
// every frame unwinds returning 0 and the driver discards the
// incomplete iteration.
func (s *Searcher) timeUp() bool {
	if s.stopped {
		return true
	}
	if s.limit > 0 && s.nodes&1023 == 0 && time.Since(s.start) >= s.limit {
		s.stopped = true
	}
	return s.stopped
}

// SearchRoot runs a full-window search to the given depth and returns
// the score. The PV holds the move sequence.
func (s *Searcher) SearchRoot(depth int) int {
	return s.negamax(depth, 0, -Infinity, Infinity, true)
}

// lmrDepth computes the reduced depth for a late quiet move.
func lmrDepth(depth, moveCount int, improving bool) int {
	d := float64(depth)
	i := float64(moveCount)
	reduced := d - (0.7844 + math.Log(d)*math.Log(i)/2.4696)
	if !improving {
		reduced--
	}
	nd := int(reduced)
	if nd < 1 {
		nd = 1
	}
	if nd > depth {
		nd = depth
	}
	return nd
}

func (s *Searcher) negamax(depth, ply, alpha, beta int, allowNull bool) int {
	if s.timeUp() {
		return 0
	}

	s.nodes++
	s.pv.length[ply] = ply

	if depth <= 0 {
		return s.quiescence(ply, alpha, beta)
	}
	if ply >= MaxPly-1 {
		return Evaluate(s.pos)
	}

	moves := s.pos.GenerateLegalMoves()
	inCheck := s.pos.InCheck()

	if moves.Len() == 0 {
		if inCheck {
			return -MateValue + ply
		}
		return 0
	}

	if s.pos.IsDraw() {
		return 0
	}

	ttMove := board.NoMove
	if e, ok := s.tt.Probe(s.pos.Hash); ok {
		ttMove = e.Move
		if ply > 0 && int(e.Depth) >= depth {
			score := ScoreFromTT(int(e.Score), ply)
			switch e.Bound {
			case BoundExact:
				return score
			case BoundLower:
				if score >= beta {
					return score
				}
			case BoundUpper:
				if score <= alpha {
					return score
				}
			}
		}
	}

	staticEval := Evaluate(s.pos)
	s.tables.SetEval(ply, staticEval, inCheck)
	improving := s.tables.Improving(ply)

	// Check extension, bounded by a running budget from the root.
	ext := 0
	if inCheck && s.extensions < maxExtensions {
		ext = 1
		s.extensions++
		defer func() { s.extensions-- }()
	}

	// Razoring: hopeless shallow nodes drop straight to quiescence. The
	// root is exempt so that every iteration records a PV.
	if ply > 0 && depth <= razorDepth && !inCheck && staticEval+razorMargin < beta {
		value := s.quiescence(ply, alpha, beta)
		if value < beta {
			return value
		}
	}

	// Reverse futility: a comfortable static margin over beta stands.
	if depth <= rfpMaxDepth && !inCheck {
		margin := rfpMargin
		if improving {
			margin = rfpMarginImproving
		}
		if staticEval-margin*depth >= beta {
			return staticEval
		}
	}

	// Null move: passing the turn and still beating beta at reduced
	// depth proves the position strong enough to prune. Not in check,
	// not in pawn endgames, never anywhere inside a null-move subtree.
	if allowNull && !inCheck && depth >= 3 && s.pos.HasNonPawnMaterial() {
		r := 3
		if depth > 10 {
			r = 5
		} else if depth > 6 {
			r = 4
		}
		s.pos.MakeNullMove()
		score := -s.negamax(depth-1-r, ply+1, -beta, -beta+1, false)
		s.pos.UnmakeNullMove()
		if s.stopped {
			return 0
		}
		if score >= beta {
			return score
		}
	}

	// Internal iterative reduction when the TT offers no move.
	if ttMove == board.NoMove && depth > 5 {
		depth -= 2
	}

	var mp MovePicker
	mp.Init(s.pos, s.tables, ply, ttMove, false, moves)

	bestMove := board.NoMove
	bound := BoundUpper
	moveCount := 0
	quietCount := 0

	var quietsTried [board.MaxMoves]board.Move
	quietsTriedN := 0

	for {
		m, ok := mp.Next()
		if !ok {
			break
		}
		if s.timeUp() {
			return 0
		}

		isQuiet := m.IsQuiet()

		// Prune badly losing captures at low depth.
		if m.IsCapture() && m != ttMove && moveCount > 1 && !inCheck &&
			alpha > -MateValue+500 &&
			s.pos.SEE(m) < -seePruneFactor*depth*depth {
			continue
		}

		if isQuiet && moveCount > 0 {
			// Move-count pruning: late quiets at shallow depth.
			if depth < 4 && abs(alpha) < MateValue-100 {
				factor := 2
				if improving {
					factor = 1
				}
				if quietCount > (3+depth*depth)/factor {
					continue
				}
			}
			// Futility: quiets cannot rescue a hopeless static eval.
			if depth <= 2 && !inCheck && staticEval <= alpha-futilityMargin[depth-1] {
				continue
			}
		}
		if isQuiet {
			quietCount++
		}

		s.pos.MakeMove(m)
		s.tables.moveStack[ply] = m

		newDepth := depth - 1 + ext
		var score int
		if moveCount == 0 {
			score = -s.negamax(newDepth, ply+1, -beta, -alpha, allowNull)
		} else {
			// PVS: zero-window first, reduced for late quiets.
			searchDepth := newDepth
			if isQuiet && depth >= 3 {
				if rd := lmrDepth(depth, moveCount, improving); rd < newDepth {
					searchDepth = rd
				}
			}
			score = -s.negamax(searchDepth, ply+1, -alpha-1, -alpha, allowNull)
			if score > alpha && searchDepth < newDepth {
				score = -s.negamax(newDepth, ply+1, -alpha-1, -alpha, allowNull)
			}
			if score > alpha && score < beta {
				score = -s.negamax(newDepth, ply+1, -beta, -alpha, allowNull)
			}
		}

		s.pos.UnmakeMove(m)
		if s.stopped {
			return 0
		}
		moveCount++

		if score >= beta {
			s.tt.Store(s.pos.Hash, depth, ScoreToTT(score, ply), BoundLower, m)

			if isQuiet {
				s.tables.StoreKiller(m, ply)
				s.tables.AddHistory(s.pos.SideToMove, m, depth, false)
				s.tables.AddContHist(ply, m, depth, false)
			} else {
				s.tables.AddCaptureHistory(m, depth, false)
			}
			// The quiets tried before the cutoff move were not good
			// enough; push their ordering scores down.
			for i := 0; i < quietsTriedN; i++ {
				s.tables.AddHistory(s.pos.SideToMove, quietsTried[i], depth, true)
				s.tables.AddContHist(ply, quietsTried[i], depth, true)
			}
			return score
		}

		if isQuiet {
			quietsTried[quietsTriedN] = m
			quietsTriedN++
		}

		if score > alpha {
			alpha = score
			bestMove = m
			bound = BoundExact

			s.pv.moves[ply][ply] = m
			for j := ply + 1; j < s.pv.length[ply+1]; j++ {
				s.pv.moves[ply][j] = s.pv.moves[ply+1][j]
			}
			s.pv.length[ply] = s.pv.length[ply+1]
		}
	}

	s.tt.Store(s.pos.Hash, depth, ScoreToTT(alpha, ply), bound, bestMove)
	return alpha
}

// quiescence resolves captures until the position is quiet, using the
// standing-pat evaluation as a lower bound.
func (s *Searcher) quiescence(ply, alpha, beta int) int {
	if s.timeUp() {
		return 0
	}

	s.nodes++

	if ply >= MaxPly-1 {
		return Evaluate(s.pos)
	}

	standPat := Evaluate(s.pos)
	if standPat >= beta {
		return standPat
	}
	if standPat > alpha {
		alpha = standPat
	}
	best := standPat

	ttMove := board.NoMove
	if e, ok := s.tt.Probe(s.pos.Hash); ok {
		ttMove = e.Move
		score := ScoreFromTT(int(e.Score), ply)
		switch e.Bound {
		case BoundExact:
			return score
		case BoundLower:
			if score >= beta {
				return score
			}
		case BoundUpper:
			if score <= alpha {
				return score
			}
		}
	}

	moves := s.pos.GenerateMoves(board.GenCaptures)

	var mp MovePicker
	mp.Init(s.pos, s.tables, ply, ttMove, true, moves)

	for {
		m, ok := mp.Next()
		if !ok {
			break
		}

		// Losing captures are not worth resolving here.
		if m != ttMove && m.IsCapture() && s.pos.SEE(m) < 0 {
			continue
		}

		s.pos.MakeMove(m)
		s.tables.moveStack[ply] = m
		score := -s.quiescence(ply+1, -beta, -alpha)
		s.pos.UnmakeMove(m)

		if s.stopped {
			return 0
		}

		if score >= beta {
			return score
		}
		if score > best {
			best = score
		}
		if score > alpha {
			alpha = score
		}
	}

	return best
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
