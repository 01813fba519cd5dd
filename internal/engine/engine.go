package engine

import (
	"time"

	"github.com/hailam/gorook/internal/board"
	"github.com/hailam/gorook/internal/book"
)

// Limits constrains a search: a fixed depth, a fixed move time, or the
// clock state from the UCI "go" command.
type Limits struct {
	Depth    int
	MoveTime time.Duration
	WTime    time.Duration
	BTime    time.Duration
	WInc     time.Duration
	BInc     time.Duration
	Infinite bool
}

// Info reports the state of a completed iteration to the UCI layer.
type Info struct {
	Depth    int
	Score    int
	Nodes    uint64
	Time     time.Duration
	Hashfull int
	PV       []board.Move
}

// Result is the outcome of a search.
type Result struct {
	BestMove board.Move
	Ponder   board.Move
	Score    int
	Depth    int
	Nodes    uint64
	BookHit  bool
}

// Engine owns the transposition table and searcher and drives
// iterative deepening under a time budget.
type Engine struct {
	tt       *Table
	searcher *Searcher
	book     *book.Book
	ownBook  bool

	// OnInfo, when set, is called after every completed iteration.
	OnInfo func(Info)
}

// New creates an engine with a transposition table of the given size in MB.
func New(hashMB int) *Engine {
	tt := NewTable(hashMB)
	return &Engine{
		tt:       tt,
		searcher: NewSearcher(tt),
	}
}

// SetBook installs an opening book.
func (e *Engine) SetBook(b *book.Book) {
	e.book = b
}

// SetOwnBook enables or disables book probing.
func (e *Engine) SetOwnBook(use bool) {
	e.ownBook = use
}

// ResizeHash reallocates the transposition table.
func (e *Engine) ResizeHash(sizeMB int) {
	e.tt.Resize(sizeMB)
}

// NewGame clears the transposition table and ordering state.
func (e *Engine) NewGame() {
	e.tt.Clear()
	e.searcher.ClearTables()
}

// budget computes the time to spend on this move: movetime verbatim,
// otherwise remaining/40 + increment/2, clamped. Zero means no deadline.
func budget(limits Limits, us board.Color) time.Duration {
	if limits.Infinite {
		return 0
	}
	if limits.MoveTime > 0 {
		return limits.MoveTime
	}

	remaining, inc := limits.WTime, limits.WInc
	if us == board.Black {
		remaining, inc = limits.BTime, limits.BInc
	}
	if remaining <= 0 {
		return 0
	}

	b := remaining/40 + inc/2
	if ceiling := remaining * 8 / 10; b > ceiling {
		b = ceiling
	}
	if b < 10*time.Millisecond {
		b = 10 * time.Millisecond
	}
	return b
}

// Search finds the best move for the position under the given limits.
// The caller's position is not mutated.
func (e *Engine) Search(pos *board.Position, limits Limits) Result {
	if e.ownBook && e.book != nil {
		if m, ok := e.book.Probe(pos); ok {
			return Result{BestMove: m, BookHit: true}
		}
	}

	searchPos := pos.Copy()
	searchPos.InSearch = true

	moveTime := budget(limits, pos.SideToMove)
	maxDepth := limits.Depth
	if maxDepth <= 0 || maxDepth >= MaxPly {
		maxDepth = 64
	}

	s := e.searcher
	s.Prepare(searchPos, moveTime)

	var res Result
	start := time.Now()

	for depth := 1; depth <= maxDepth; depth++ {
		// A new iteration only starts while less than half the budget
		// is spent; a deeper pass would rarely complete.
		if moveTime > 0 && time.Since(start)*2 > moveTime {
			break
		}

		score := s.SearchRoot(depth)
		if s.stopped {
			// The interrupted iteration is discarded; the deepest
			// completed one stands.
			break
		}

		pv := s.PV()
		if len(pv) == 0 {
			break
		}

		res.BestMove = pv[0]
		if len(pv) > 1 {
			res.Ponder = pv[1]
		} else {
			res.Ponder = board.NoMove
		}
		res.Score = score
		res.Depth = depth
		res.Nodes = s.Nodes()

		if e.OnInfo != nil {
			e.OnInfo(Info{
				Depth:    depth,
				Score:    score,
				Nodes:    s.Nodes(),
				Time:     time.Since(start),
				Hashfull: e.tt.Hashfull(),
				PV:       pv,
			})
		}

		if IsMateScore(score) {
			break
		}
	}

	if res.BestMove == board.NoMove {
		// Timed out before depth 1 completed: fall back to any legal move.
		legal := pos.GenerateLegalMoves()
		if legal.Len() > 0 {
			res.BestMove = legal.Get(0)
		}
	}

	return res
}

// Perft exposes the move-count self-test on the engine for the UCI layer.
func (e *Engine) Perft(pos *board.Position, depth int) ([]string, uint64) {
	return board.PerftDivide(pos, depth)
}
