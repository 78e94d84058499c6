// Package index is the append-only side store for sentiment-scored news
// items. Writes are best-effort: callers log and continue on failure, a lost
// entry never affects the user-facing response.
package index

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"os"
	"time"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/ternarybob/arbor"

	"github.com/tickerlens/tickerlens/internal/sentiment"
)

// entryTTL bounds index growth: badger drops entries once they expire, so the
// store is self-evicting and needs no compaction of our own.
const entryTTL = 30 * 24 * time.Hour

// Entry is one indexed news item, keyed by a hash of its title.
type Entry struct {
	ID        string          `json:"id"`
	Title     string          `json:"title"`
	URL       string          `json:"url"`
	Summary   string          `json:"summary"`
	Sentiment sentiment.Label `json:"sentiment"`
	StoredAt  time.Time       `json:"stored_at"`
}

// Store wraps the badger database holding index entries.
type Store struct {
	db     *badger.DB
	logger arbor.ILogger
}

// Open opens (or creates) the index database at path.
func Open(path string, logger arbor.ILogger) (*Store, error) {
	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("failed to create index directory: %w", err)
	}

	options := badger.DefaultOptions(path)
	options.Logger = nil // arbor handles logging

	db, err := badger.Open(options)
	if err != nil {
		return nil, fmt.Errorf("failed to open index database: %w", err)
	}

	logger.Debug().Str("path", path).Msg("Sentiment index opened")

	return &Store{db: db, logger: logger}, nil
}

// Key derives the index key for a news title.
func Key(title string) string {
	sum := sha256.Sum256([]byte(title))
	return fmt.Sprintf("%x", sum)
}

// Put upserts an entry under the hash of its title. Concurrent puts across
// unrelated requests are safe; last write wins per key.
func (s *Store) Put(title, url, summary string, label sentiment.Label) error {
	entry := Entry{
		ID:        Key(title),
		Title:     title,
		URL:       url,
		Summary:   summary,
		Sentiment: label,
		StoredAt:  time.Now(),
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to encode index entry: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		e := badger.NewEntry([]byte(entry.ID), data).WithTTL(entryTTL)
		return txn.SetEntry(e)
	})
}

// Get retrieves an entry by key. Missing or expired entries return
// badger.ErrKeyNotFound.
func (s *Store) Get(id string) (*Entry, error) {
	var entry Entry
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(id))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &entry)
		})
	})
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
