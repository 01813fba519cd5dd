// Package uci implements the Universal Chess Interface text protocol
// on standard I/O.
package uci

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/hailam/gorook/internal/board"
	"github.com/hailam/gorook/internal/book"
	"github.com/hailam/gorook/internal/engine"
	"github.com/hailam/gorook/internal/storage"
)

// UCI dispatches protocol commands to the engine.
type UCI struct {
	engine   *engine.Engine
	position *board.Position
	store    *storage.Storage // nil when persistence is unavailable
	prefs    *storage.Preferences
}

// New creates a UCI handler. store may be nil.
func New(eng *engine.Engine, store *storage.Storage, prefs *storage.Preferences) *UCI {
	if prefs == nil {
		prefs = storage.DefaultPreferences()
	}
	return &UCI{
		engine:   eng,
		position: board.NewPosition(),
		store:    store,
		prefs:    prefs,
	}
}

// Run reads commands line by line until quit or EOF. Malformed input is
// reported on stderr and never terminates the session.
func (u *UCI) Run() {
	scanner := bufio.NewScanner(os.Stdin)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		parts := strings.Fields(line)
		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "uci":
			u.handleUCI()
		case "isready":
			fmt.Println("readyok")
		case "ucinewgame":
			u.handleNewGame()
		case "position":
			u.handlePosition(args)
		case "go":
			u.handleGo(args)
		case "perft":
			u.handlePerft(args)
		case "d":
			fmt.Println(u.position.String())
		case "setoption":
			u.handleSetOption(args)
		case "quit":
			u.handleQuit()
		default:
			fmt.Fprintf(os.Stderr, "info string unknown command: %s\n", line)
		}
	}

	u.shutdown()
}

func (u *UCI) handleUCI() {
	fmt.Println("id name GoRook")
	fmt.Println("id author the GoRook developers")
	fmt.Println()
	fmt.Printf("option name Hash type spin default %d min 1 max 1024\n", u.prefs.HashMB)
	fmt.Printf("option name OwnBook type check default %v\n", u.prefs.OwnBook)
	fmt.Println("option name BookFile type string default <empty>")
	fmt.Println("uciok")
}

func (u *UCI) handleNewGame() {
	u.engine.NewGame()
	u.position = board.NewPosition()
}

// handlePosition parses "position (startpos|fen <fen>) [moves ...]" and
// applies the moves through make, so the repetition counter tracks the
// actual game history.
func (u *UCI) handlePosition(args []string) {
	if len(args) == 0 {
		return
	}

	var moveStart int

	switch args[0] {
	case "startpos":
		u.position = board.NewPosition()
		moveStart = 1
	case "fen":
		fenEnd := len(args)
		for i, arg := range args {
			if arg == "moves" {
				fenEnd = i
				break
			}
		}
		pos, err := board.ParseFEN(strings.Join(args[1:fenEnd], " "))
		if err != nil {
			fmt.Fprintf(os.Stderr, "info string invalid FEN: %v\n", err)
			return
		}
		u.position = pos
		moveStart = fenEnd
	default:
		fmt.Fprintf(os.Stderr, "info string invalid position command\n")
		return
	}

	if moveStart < len(args) && args[moveStart] == "moves" {
		for _, moveStr := range args[moveStart+1:] {
			m := u.parseMove(moveStr)
			if m == board.NoMove {
				fmt.Fprintf(os.Stderr, "info string invalid move: %s\n", moveStr)
				return
			}
			u.position.MakeMove(m)
		}
	}
}

// parseMove resolves a long-algebraic move string against the legal
// move list of the current position.
func (u *UCI) parseMove(moveStr string) board.Move {
	if len(moveStr) < 4 || len(moveStr) > 5 {
		return board.NoMove
	}

	from, err := board.ParseSquare(moveStr[0:2])
	if err != nil {
		return board.NoMove
	}
	to, err := board.ParseSquare(moveStr[2:4])
	if err != nil {
		return board.NoMove
	}

	promo := board.NoPieceType
	if len(moveStr) == 5 {
		switch moveStr[4] {
		case 'q':
			promo = board.Queen
		case 'r':
			promo = board.Rook
		case 'b':
			promo = board.Bishop
		case 'n':
			promo = board.Knight
		default:
			return board.NoMove
		}
	}

	for _, m := range u.position.GenerateLegalMoves().Slice() {
		if m.From != from || m.To != to {
			continue
		}
		if promo == board.NoPieceType {
			if !m.IsPromotion() {
				return m
			}
		} else if m.IsPromotion() && m.Promo == promo {
			return m
		}
	}

	return board.NoMove
}

func (u *UCI) handleGo(args []string) {
	limits := parseGoLimits(args)

	u.engine.OnInfo = func(info engine.Info) {
		u.sendInfo(info)
	}

	start := time.Now()
	res := u.engine.Search(u.position, limits)

	if u.store != nil {
		if err := u.store.RecordSearch(res.Nodes, time.Since(start), res.BookHit); err != nil {
			fmt.Fprintf(os.Stderr, "info string stats not saved: %v\n", err)
		}
	}

	if res.BestMove == board.NoMove {
		fmt.Println("bestmove 0000")
		return
	}
	if res.Ponder != board.NoMove {
		fmt.Printf("bestmove %s ponder %s\n", res.BestMove, res.Ponder)
	} else {
		fmt.Printf("bestmove %s\n", res.BestMove)
	}
}

func parseGoLimits(args []string) engine.Limits {
	limits := engine.Limits{}

	ms := func(s string) time.Duration {
		n, _ := strconv.Atoi(s)
		return time.Duration(n) * time.Millisecond
	}

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "depth":
			if i+1 < len(args) {
				limits.Depth, _ = strconv.Atoi(args[i+1])
				i++
			}
		case "movetime":
			if i+1 < len(args) {
				limits.MoveTime = ms(args[i+1])
				i++
			}
		case "wtime":
			if i+1 < len(args) {
				limits.WTime = ms(args[i+1])
				i++
			}
		case "btime":
			if i+1 < len(args) {
				limits.BTime = ms(args[i+1])
				i++
			}
		case "winc":
			if i+1 < len(args) {
				limits.WInc = ms(args[i+1])
				i++
			}
		case "binc":
			if i+1 < len(args) {
				limits.BInc = ms(args[i+1])
				i++
			}
		case "infinite":
			limits.Infinite = true
		}
	}

	// A bare "go" gets a sane fixed budget instead of an unbounded search.
	if !limits.Infinite && limits.Depth == 0 && limits.MoveTime == 0 &&
		limits.WTime == 0 && limits.BTime == 0 {
		limits.MoveTime = 5 * time.Second
	}

	return limits
}

func (u *UCI) sendInfo(info engine.Info) {
	var parts []string

	parts = append(parts, fmt.Sprintf("depth %d", info.Depth))

	if info.Score > engine.MateValue-engine.MaxPly {
		mateIn := (engine.MateValue - info.Score + 1) / 2
		parts = append(parts, fmt.Sprintf("score mate %d", mateIn))
	} else if info.Score < -engine.MateValue+engine.MaxPly {
		mateIn := -(engine.MateValue + info.Score + 1) / 2
		parts = append(parts, fmt.Sprintf("score mate %d", mateIn))
	} else {
		parts = append(parts, fmt.Sprintf("score cp %d", info.Score))
	}

	parts = append(parts, fmt.Sprintf("nodes %d", info.Nodes))
	parts = append(parts, fmt.Sprintf("time %d", info.Time.Milliseconds()))
	if info.Time > 0 {
		nps := uint64(float64(info.Nodes) / info.Time.Seconds())
		parts = append(parts, fmt.Sprintf("nps %d", nps))
	}
	if info.Hashfull > 0 {
		parts = append(parts, fmt.Sprintf("hashfull %d", info.Hashfull))
	}

	if len(info.PV) > 0 {
		pvStrs := make([]string, len(info.PV))
		for i, m := range info.PV {
			pvStrs[i] = m.String()
		}
		parts = append(parts, "pv "+strings.Join(pvStrs, " "))
	}

	fmt.Printf("info %s\n", strings.Join(parts, " "))
}

func (u *UCI) handlePerft(args []string) {
	depth := 5
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 1 {
			fmt.Fprintf(os.Stderr, "info string invalid perft depth\n")
			return
		}
		depth = n
	}

	start := time.Now()
	lines, total := u.engine.Perft(u.position, depth)
	elapsed := time.Since(start)

	for _, line := range lines {
		fmt.Println(line)
	}
	fmt.Printf("\nNodes: %d\n", total)
	fmt.Printf("Time: %v\n", elapsed)
}

func (u *UCI) handleSetOption(args []string) {
	var name, value string
	readingName := false
	readingValue := false

	for _, arg := range args {
		switch arg {
		case "name":
			readingName = true
			readingValue = false
		case "value":
			readingName = false
			readingValue = true
		default:
			if readingName {
				if name != "" {
					name += " "
				}
				name += arg
			} else if readingValue {
				if value != "" {
					value += " "
				}
				value += arg
			}
		}
	}

	switch strings.ToLower(name) {
	case "hash":
		mb, err := strconv.Atoi(value)
		if err != nil || mb < 1 || mb > 1024 {
			fmt.Fprintf(os.Stderr, "info string invalid Hash value: %s\n", value)
			return
		}
		u.engine.ResizeHash(mb)
		u.prefs.HashMB = mb
	case "ownbook":
		u.prefs.OwnBook = strings.EqualFold(value, "true")
		u.engine.SetOwnBook(u.prefs.OwnBook)
	case "bookfile":
		if value == "" || value == "<empty>" {
			return
		}
		b, err := book.LoadPolyglot(value)
		if err != nil {
			fmt.Fprintf(os.Stderr, "info string book not loaded: %v\n", err)
			return
		}
		u.engine.SetBook(b)
		u.prefs.BookFile = value
	default:
		fmt.Fprintf(os.Stderr, "info string unknown option: %s\n", name)
	}
}

func (u *UCI) handleQuit() {
	u.shutdown()
	os.Exit(0)
}

func (u *UCI) shutdown() {
	if u.store == nil {
		return
	}
	if err := u.store.SavePreferences(u.prefs); err != nil {
		fmt.Fprintf(os.Stderr, "info string preferences not saved: %v\n", err)
	}
	u.store.Close()
	u.store = nil
}
