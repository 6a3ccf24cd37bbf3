package state

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	DriverBadger   = "badger"
	DriverPostgres = "postgres"
	DriverUpstash  = "upstash"
	DriverMemory   = "memory"
)

// StoreConfig is read with prefix ONBOARDING_STORE.
type StoreConfig struct {
	Driver    string `envconfig:"DRIVER" default:"badger"`
	KeyPrefix string `split_words:"true" default:"onboarding:session:"`
	// TTL only applies to the upstash driver and is off by default, so
	// sessions are kept until deleted. Setting it is an operator choice to
	// cap Redis storage: an expired session loses its rollback checkpoints
	// and the company has to start onboarding again.
	TTL time.Duration `envconfig:"TTL" default:"0s"`

	Badger   BadgerConfig       `envconfig:"BADGER"`
	Postgres PostgresConfig     `envconfig:"POSTGRES"`
	Upstash  UpstashRedisConfig `envconfig:"UPSTASH"`
}

// Open builds the Store named by cfg.Driver.
func Open(ctx context.Context, cfg StoreConfig) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Driver)) {
	case "", DriverBadger:
		st, err := NewBadgerStore(cfg.Badger)
		if err != nil {
			return nil, err
		}
		if p := strings.TrimSpace(cfg.KeyPrefix); p != "" {
			st.keyPrefix = p
		}
		return st, nil
	case DriverPostgres:
		return NewPostgresStore(ctx, cfg.Postgres)
	case DriverUpstash:
		if cfg.TTL > 0 {
			log.Warn().
				Dur("ttl", cfg.TTL).
				Msg("onboarding sessions will expire; expired sessions cannot be rolled back")
		}
		return NewUpstashRedisStore(cfg.Upstash, WithKeyPrefix(cfg.KeyPrefix), WithTTL(cfg.TTL))
	case DriverMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown onboarding store driver %q", cfg.Driver)
	}
}
