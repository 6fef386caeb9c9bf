package storage

import (
	"encoding/binary"
	"encoding/json"
	"log"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/hailam/athena/internal/errors"
)

// Storage keys
const (
	keyPreferences = "preferences"
	keyStats       = "stats"
	keyGameSeq     = "seq/game"
	prefixGame     = "game/"
)

// seqBandwidth is how many game IDs badger leases at a time.
const seqBandwidth = 16

// Preferences stores engine settings between runs.
type Preferences struct {
	Depth    int       `json:"depth"`
	Verbose  bool      `json:"verbose"`
	MaxPlies int       `json:"max_plies"`
	LastUsed time.Time `json:"last_used"`
}

// DefaultPreferences returns the preferences used before any are saved.
func DefaultPreferences() *Preferences {
	return &Preferences{
		Depth:    4,
		MaxPlies: 300,
	}
}

// GameRecord is a finished (or abandoned) game.
type GameRecord struct {
	ID          uint64        `json:"id"`
	StartFEN    string        `json:"start_fen"`
	FinalFEN    string        `json:"final_fen"`
	Moves       []string      `json:"moves"`
	SAN         []string      `json:"san"`
	Result      string        `json:"result"`
	Termination string        `json:"termination"`
	Depth       int           `json:"depth"`
	PlayedAt    time.Time     `json:"played_at"`
	Duration    time.Duration `json:"duration"`
}

// GameStats aggregates every saved game.
type GameStats struct {
	GamesPlayed   int            `json:"games_played"`
	WhiteWins     int            `json:"white_wins"`
	BlackWins     int            `json:"black_wins"`
	Draws         int            `json:"draws"`
	Unfinished    int            `json:"unfinished"`
	ByTermination map[string]int `json:"by_termination"`
	TotalPlies    int            `json:"total_plies"`
	LongestGame   int            `json:"longest_game"`
	TotalPlayTime time.Duration  `json:"total_play_time"`
}

// NewGameStats returns empty game statistics
func NewGameStats() *GameStats {
	return &GameStats{ByTermination: make(map[string]int)}
}

// add folds rec into the statistics.
func (s *GameStats) add(rec *GameRecord) {
	s.GamesPlayed++
	switch rec.Result {
	case "1-0":
		s.WhiteWins++
	case "0-1":
		s.BlackWins++
	case "1/2-1/2":
		s.Draws++
	default:
		s.Unfinished++
	}
	if rec.Termination != "" {
		s.ByTermination[rec.Termination]++
	}
	s.TotalPlies += len(rec.Moves)
	if len(rec.Moves) > s.LongestGame {
		s.LongestGame = len(rec.Moves)
	}
	s.TotalPlayTime += rec.Duration
}

// DrawRate returns the share of drawn games as a percentage (0-100).
func (s *GameStats) DrawRate() float64 {
	if s.GamesPlayed == 0 {
		return 0
	}
	return float64(s.Draws) / float64(s.GamesPlayed) * 100
}

// AveragePlies returns the mean game length.
func (s *GameStats) AveragePlies() float64 {
	if s.GamesPlayed == 0 {
		return 0
	}
	return float64(s.TotalPlies) / float64(s.GamesPlayed)
}

// Storage wraps BadgerDB for persistent storage
type Storage struct {
	db  *badger.DB
	seq *badger.Sequence
}

// NewStorage opens the database in the default data directory.
func NewStorage() (*Storage, error) {
	dbDir, err := GetDatabaseDir()
	if err != nil {
		return nil, err
	}
	return Open(dbDir)
}

// Open opens (creating if needed) the database in dir.
func Open(dir string) (*Storage, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil // Disable logging

	s, err := open(opts)
	if err != nil {
		return nil, errors.Wrapf(err, "open database %s", dir)
	}
	log.Printf("[Storage] database directory: %s", dir)
	return s, nil
}

// OpenInMemory opens a database that lives only as long as the process.
func OpenInMemory() (*Storage, error) {
	return open(badger.DefaultOptions("").WithInMemory(true).WithLogger(nil))
}

func open(opts badger.Options) (*Storage, error) {
	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	seq, err := db.GetSequence([]byte(keyGameSeq), seqBandwidth)
	if err != nil {
		db.Close()
		return nil, err
	}
	return &Storage{db: db, seq: seq}, nil
}

// Close closes the database
func (s *Storage) Close() error {
	if s.seq != nil {
		if err := s.seq.Release(); err != nil {
			log.Printf("[Storage] releasing game sequence: %v", err)
		}
	}
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SavePreferences saves engine preferences
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

// LoadPreferences loads engine preferences, returns defaults if not found
func (s *Storage) LoadPreferences() (*Preferences, error) {
	prefs := DefaultPreferences()

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(keyPreferences))
		if err == badger.ErrKeyNotFound {
			return nil // Use defaults
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

// gameKey orders records by ID under prefixGame.
func gameKey(id uint64) []byte {
	key := make([]byte, len(prefixGame)+8)
	copy(key, prefixGame)
	binary.BigEndian.PutUint64(key[len(prefixGame):], id)
	return key
}

// SaveGame stores rec under a fresh ID and folds it into the statistics.
// It sets rec.ID, and rec.PlayedAt when zero.
func (s *Storage) SaveGame(rec *GameRecord) (uint64, error) {
	next, err := s.seq.Next()
	if err != nil {
		return 0, errors.Wrap(err, "allocate game id")
	}
	rec.ID = next + 1 // IDs start at 1
	if rec.PlayedAt.IsZero() {
		rec.PlayedAt = time.Now()
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return 0, err
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		stats, err := loadStats(txn)
		if err != nil {
			return err
		}
		stats.add(rec)
		statsData, err := json.Marshal(stats)
		if err != nil {
			return err
		}
		if err := txn.Set(gameKey(rec.ID), data); err != nil {
			return err
		}
		return txn.Set([]byte(keyStats), statsData)
	})
	if err != nil {
		return 0, errors.Wrapf(err, "save game %d", rec.ID)
	}
	return rec.ID, nil
}

// LoadGame returns the record stored under id.
func (s *Storage) LoadGame(id uint64) (*GameRecord, error) {
	var rec GameRecord
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(gameKey(id))
		if err == badger.ErrKeyNotFound {
			return errors.Wrapf(errors.ErrGameNotFound, "game %d", id)
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &rec)
		})
	})
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// DeleteGame removes the record stored under id. Statistics are kept.
func (s *Storage) DeleteGame(id uint64) error {
	return s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(gameKey(id)); err == badger.ErrKeyNotFound {
			return errors.Wrapf(errors.ErrGameNotFound, "game %d", id)
		} else if err != nil {
			return err
		}
		return txn.Delete(gameKey(id))
	})
}

// ListGames returns up to limit records, newest first. A limit of 0 or less
// returns every record.
func (s *Storage) ListGames(limit int) ([]*GameRecord, error) {
	var games []*GameRecord
	prefix := []byte(prefixGame)

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		opts.Reverse = true
		it := txn.NewIterator(opts)
		defer it.Close()

		// the largest key with this prefix sorts before prefix+0xFF
		seek := append([]byte(prefixGame), 0xFF)
		for it.Seek(seek); it.ValidForPrefix(prefix); it.Next() {
			if limit > 0 && len(games) >= limit {
				break
			}
			rec := &GameRecord{}
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, rec)
			})
			if err != nil {
				return err
			}
			games = append(games, rec)
		}
		return nil
	})

	return games, err
}

func loadStats(txn *badger.Txn) (*GameStats, error) {
	stats := NewGameStats()
	item, err := txn.Get([]byte(keyStats))
	if err == badger.ErrKeyNotFound {
		return stats, nil // Use empty stats
	}
	if err != nil {
		return nil, err
	}
	err = item.Value(func(val []byte) error {
		return json.Unmarshal(val, stats)
	})
	if stats.ByTermination == nil {
		stats.ByTermination = make(map[string]int)
	}
	return stats, err
}

// LoadStats loads game statistics, returns empty stats if not found
func (s *Storage) LoadStats() (*GameStats, error) {
	var stats *GameStats
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		stats, err = loadStats(txn)
		return err
	})
	return stats, err
}
