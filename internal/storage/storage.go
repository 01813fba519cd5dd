package storage

import (
	"encoding/json"
	"time"

	"github.com/dgraph-io/badger/v4"
)

const (
	keyPreferences = "preferences"
	keyStats       = "stats"
)

// Preferences stores the engine settings that survive across sessions
// and seed the UCI option defaults.
type Preferences struct {
	HashMB   int       `json:"hash_mb"`
	OwnBook  bool      `json:"own_book"`
	BookFile string    `json:"book_file"`
	LastUsed time.Time `json:"last_used"`
}

// DefaultPreferences returns the defaults advertised over UCI.
func DefaultPreferences() *Preferences {
	return &Preferences{
		HashMB:  64,
		OwnBook: false,
	}
}

// Stats accumulates engine usage counters across sessions.
type Stats struct {
	Searches   int           `json:"searches"`
	Nodes      uint64        `json:"nodes"`
	BookHits   int           `json:"book_hits"`
	TimeSpent  time.Duration `json:"time_spent"`
	LastSearch time.Time     `json:"last_search"`
}

// Storage wraps BadgerDB for persistent engine state.
type Storage struct {
	db *badger.DB
}

// Open opens (or creates) the engine database in the platform data dir.
func Open() (*Storage, error) {
	dbDir, err := DatabaseDir()
	if err != nil {
		return nil, err
	}

	opts := badger.DefaultOptions(dbDir)
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}

	return &Storage{db: db}, nil
}

// OpenAt opens a database at an explicit directory (used by tests).
func OpenAt(dir string) (*Storage, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &Storage{db: db}, nil
}

// Close closes the database.
func (s *Storage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SavePreferences persists the engine preferences.
func (s *Storage) SavePreferences(prefs *Preferences) error {
	prefs.LastUsed = time.Now()

	data, err := json.Marshal(prefs)
	if err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(keyPreferences), data)
	})
}

// LoadPreferences loads the preferences, returning defaults when none
// are stored yet.
func (s *Storage) LoadPreferences() (*Preferences, error) {
	prefs := DefaultPreferences()

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(keyPreferences))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, prefs)
		})
	})

	return prefs, err
}

// SaveStats persists the usage counters.
func (s *Storage) SaveStats(stats *Stats) error {
	data, err := json.Marshal(stats)
	if err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(keyStats), data)
	})
}

// LoadStats loads the usage counters, returning zeroes when none are
// stored yet.
func (s *Storage) LoadStats() (*Stats, error) {
	stats := &Stats{}

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(keyStats))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, stats)
		})
	})

	return stats, err
}

// RecordSearch folds one search into the stored counters.
func (s *Storage) RecordSearch(nodes uint64, elapsed time.Duration, bookHit bool) error {
	stats, err := s.LoadStats()
	if err != nil {
		return err
	}

	stats.Searches++
	stats.Nodes += nodes
	stats.TimeSpent += elapsed
	stats.LastSearch = time.Now()
	if bookHit {
		stats.BookHits++
	}

	return s.SaveStats(stats)
}
