package blob

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

type repository struct {
	l     log.Logger
	db    *sqlx.DB
	store string
}

// NewRepository initializes a new blob repository for the given store name, backed by sqlite
func NewRepository(l log.Logger, db *sqlx.DB, store string) (*repository, error) {
	if store == "" {
		return nil, errors.New("store name can't be empty")
	}
	return &repository{
		l:     l,
		db:    db,
		store: store,
	}, nil
}

// Get returns the decoded value for a given key
func (s *repository) Get(ctx context.Context, key string, v interface{}) (bool, error) {
	var entry Entry
	err := s.db.GetContext(ctx, &entry, "SELECT store, key, value, updated_at FROM blobs WHERE store=$1 AND key=$2", s.store, key)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, errors.Wrapf(err, "reading blob %s/%s", s.store, key)
	}
	if err := json.Unmarshal(entry.Value, v); err != nil {
		return false, errors.Wrapf(ErrUndecodable, "decoding blob %s/%s: %s", s.store, key, err)
	}
	return true, nil
}

// SetJSON sets a blob, the last write wins
func (s *repository) SetJSON(ctx context.Context, key string, v interface{}) error {
	b, err := json.Marshal(v)
	if err != nil {
		return errors.Wrapf(err, "encoding blob %s/%s", s.store, key)
	}
	_, err = s.db.NamedExecContext(ctx, `INSERT INTO blobs (store, key, value, updated_at) VALUES (:store, :key, :value, :updated_at)
		ON CONFLICT (store, key) DO UPDATE SET value=excluded.value, updated_at=excluded.updated_at`,
		map[string]interface{}{
			"store":      s.store,
			"key":        key,
			"value":      b,
			"updated_at": time.Now().UTC().Format(time.RFC3339Nano),
		})
	if err != nil {
		return errors.Wrapf(err, "writing blob %s/%s", s.store, key)
	}
	level.Debug(s.l).Log("msg", "blob written", "store", s.store, "key", key, "bytes", len(b))
	return nil
}
