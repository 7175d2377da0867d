package badger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"
	"github.com/nyx-solutions-team/briefly-app-sub002/core"
	"github.com/nyx-solutions-team/briefly-app-sub002/snapshot"
)

// Store is the BadgerDB-backed snapshot store.
type Store struct {
	db     *badger.DB
	logger *slog.Logger
}

var _ snapshot.Store = (*Store)(nil)

// badgerLoggerAdapter adapts slog.Logger to badger.Logger interface.
type badgerLoggerAdapter struct {
	logger *slog.Logger
}

var _ badger.Logger = (*badgerLoggerAdapter)(nil)

func (bl *badgerLoggerAdapter) Errorf(msg string, items ...any) {
	bl.logger.Error(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Warningf(msg string, items ...any) {
	bl.logger.Warn(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Infof(msg string, items ...any) {
	bl.logger.Info(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Debugf(msg string, items ...any) {
	bl.logger.Debug(fmt.Sprintf(msg, items...))
}

// OpenStore opens a snapshot store at the specified path.
// Creates the directory if it doesn't exist. Pass inMemory=true for an
// ephemeral store (tests, cache-less sessions).
// Returns the snapshot.Store interface to keep consumers decoupled from
// BadgerDB specifics.
func OpenStore(filePath string, inMemory bool) (snapshot.Store, error) {
	var opts badger.Options

	if inMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		info, err := os.Stat(filePath)
		if err != nil {
			if os.IsNotExist(err) {
				if err := os.MkdirAll(filePath, 0755); err != nil {
					return nil, err
				}
				info, err = os.Stat(filePath)
				if err != nil {
					return nil, err
				}
			} else {
				return nil, err
			}
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("%s is not a directory", filePath)
		}
		opts = badger.DefaultOptions(filePath)
	}

	opts.Logger = &badgerLoggerAdapter{logger: slog.Default()}
	opts.Compression = options.None

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}

	return &Store{
		db:     db,
		logger: slog.Default(),
	}, nil
}

// envelope is the persisted value: the page in its JSON wire form plus the
// save timestamp.
type envelope struct {
	SavedAt time.Time       `json:"savedAt"`
	Page    *core.QueuePage `json:"page"`
}

// SavePage stores a queue page under the query key.
func (s *Store) SavePage(ctx context.Context, key core.QueryKey, page *core.QueuePage) error {
	if s.db.IsClosed() {
		return snapshot.ErrStoreClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	value, err := json.Marshal(envelope{SavedAt: time.Now().UTC(), Page: page})
	if err != nil {
		return fmt.Errorf("%w: %w", snapshot.ErrSerializationFailed, err)
	}

	return s.db.Update(func(tx *badger.Txn) error {
		return tx.Set(makePageKey(key), value)
	})
}

// LoadPage retrieves the cached page for the query key.
func (s *Store) LoadPage(ctx context.Context, key core.QueryKey) (*core.QueuePage, time.Time, error) {
	if s.db.IsClosed() {
		return nil, time.Time{}, snapshot.ErrStoreClosed
	}
	if err := ctx.Err(); err != nil {
		return nil, time.Time{}, err
	}

	var env envelope
	err := s.db.View(func(tx *badger.Txn) error {
		item, err := tx.Get(makePageKey(key))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return snapshot.ErrNoSnapshot
			}
			return err
		}
		return item.Value(func(value []byte) error {
			if err := json.Unmarshal(value, &env); err != nil {
				return fmt.Errorf("%w: %w", snapshot.ErrSerializationFailed, err)
			}
			return nil
		})
	})
	if err != nil {
		return nil, time.Time{}, err
	}
	return env.Page, env.SavedAt, nil
}

// Close closes the underlying BadgerDB database.
func (s *Store) Close() error {
	return s.db.Close()
}
