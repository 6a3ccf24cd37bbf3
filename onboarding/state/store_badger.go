package state

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog/log"
)

const maxConflictRetries = 3

type BadgerConfig struct {
	Dir      string `envconfig:"DIR" default:"./data/onboarding"`
	InMemory bool   `split_words:"true" default:"false"`
}

// BadgerStore keeps sessions in an embedded Badger database. One key per
// company, one transaction per write.
type BadgerStore struct {
	db        *badger.DB
	keyPrefix string
}

func NewBadgerStore(cfg BadgerConfig) (*BadgerStore, error) {
	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		path := strings.TrimSpace(cfg.Dir)
		if path == "" {
			return nil, errors.New("badger dir is required")
		}
		opts = badger.DefaultOptions(path)
	}
	opts = opts.WithLogger(badgerLogger{})

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}
	return &BadgerStore{db: db, keyPrefix: defaultStoreKeyPrefix}, nil
}

func (s *BadgerStore) Load(ctx context.Context, companyID int) (*Session, error) {
	key, err := sessionKey(s.keyPrefix, companyID)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var raw []byte
	err = s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return ErrSessionNotFound
			}
			return err
		}
		raw, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		return nil, err
	}
	return decodeSession(raw)
}

func (s *BadgerStore) CreateIfAbsent(ctx context.Context, companyID int, now time.Time) (*Session, bool, error) {
	key, err := sessionKey(s.keyPrefix, companyID)
	if err != nil {
		return nil, false, err
	}

	var (
		out     *Session
		created bool
	)
	err = s.update(ctx, func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err == nil {
			raw, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			out, err = decodeSession(raw)
			created = false
			return err
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}

		fresh := NewSession(companyID, now)
		payload, err := encodeSession(fresh)
		if err != nil {
			return err
		}
		if err := txn.Set([]byte(key), payload); err != nil {
			return err
		}
		out, created = fresh, true
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return out, created, nil
}

func (s *BadgerStore) Save(ctx context.Context, st *Session) error {
	payload, expected, err := encodeNextVersion(st)
	if err != nil {
		return err
	}
	key, err := sessionKey(s.keyPrefix, st.CompanyID)
	if err != nil {
		return err
	}
	err = s.update(ctx, func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		switch {
		case err == nil:
			raw, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			current, err := storedVersion(raw)
			if err != nil {
				return err
			}
			if current != expected {
				return fmt.Errorf("%w: company %d at version %d, have %d", ErrVersionConflict, st.CompanyID, current, expected)
			}
		case !errors.Is(err, badger.ErrKeyNotFound):
			return err
		}
		return txn.Set([]byte(key), payload)
	})
	if err != nil {
		return err
	}
	st.Version = expected + 1
	return nil
}

func (s *BadgerStore) Delete(ctx context.Context, companyID int) error {
	key, err := sessionKey(s.keyPrefix, companyID)
	if err != nil {
		return err
	}
	return s.update(ctx, func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
}

func (s *BadgerStore) Close() error {
	return s.db.Close()
}

// update retries on ErrConflict; the closure must be safe to run again.
func (s *BadgerStore) update(ctx context.Context, fn func(txn *badger.Txn) error) error {
	var err error
	for attempt := 0; attempt < maxConflictRetries; attempt++ {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		err = s.db.Update(fn)
		if !errors.Is(err, badger.ErrConflict) {
			return err
		}
	}
	return fmt.Errorf("badger update after %d attempts: %w", maxConflictRetries, err)
}

type badgerLogger struct{}

func (badgerLogger) Errorf(format string, args ...any) {
	log.Error().Str("component", "badger").Msgf(strings.TrimSpace(format), args...)
}

func (badgerLogger) Warningf(format string, args ...any) {
	log.Warn().Str("component", "badger").Msgf(strings.TrimSpace(format), args...)
}

func (badgerLogger) Infof(format string, args ...any) {
	log.Debug().Str("component", "badger").Msgf(strings.TrimSpace(format), args...)
}

func (badgerLogger) Debugf(format string, args ...any) {
	log.Trace().Str("component", "badger").Msgf(strings.TrimSpace(format), args...)
}
