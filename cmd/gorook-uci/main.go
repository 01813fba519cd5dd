// Command gorook-uci runs the GoRook chess engine over the Universal
// Chess Interface on standard I/O.
package main

import (
	"flag"
	"log"

	"github.com/hailam/gorook/internal/book"
	"github.com/hailam/gorook/internal/engine"
	"github.com/hailam/gorook/internal/storage"
	"github.com/hailam/gorook/internal/uci"
)

var (
	hashMB   = flag.Int("hash", 0, "transposition table size in MB (overrides stored preference)")
	bookPath = flag.String("book", "", "polyglot opening book file (overrides stored preference)")
)

func main() {
	flag.Parse()

	// Persistence is best-effort: a locked or unwritable database
	// leaves the engine fully functional with defaults.
	store, err := storage.Open()
	if err != nil {
		log.Printf("persistent storage unavailable: %v", err)
		store = nil
	}

	prefs := storage.DefaultPreferences()
	if store != nil {
		if loaded, err := store.LoadPreferences(); err == nil {
			prefs = loaded
		} else {
			log.Printf("preferences not loaded: %v", err)
		}
	}

	if *hashMB > 0 {
		prefs.HashMB = *hashMB
	}
	if *bookPath != "" {
		prefs.BookFile = *bookPath
		prefs.OwnBook = true
	}

	eng := engine.New(prefs.HashMB)
	eng.SetOwnBook(prefs.OwnBook)

	if prefs.BookFile != "" {
		if b, err := book.LoadPolyglot(prefs.BookFile); err == nil {
			eng.SetBook(b)
		} else {
			log.Printf("opening book not loaded: %v", err)
		}
	}

	uci.New(eng, store, prefs).Run()
}
