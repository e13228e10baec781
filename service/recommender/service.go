package recommender

import (
	"context"
	"strings"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/pkg/errors"
	"golang.org/x/sync/singleflight"

	"github.com/dewey/blog-functions/blob"
	"github.com/dewey/blog-functions/recommendation"
)

const (
	// DefaultTTL is how long recommendations for a post are served from the store before asking upstream again
	DefaultTTL = 24 * time.Hour
	// DefaultTimeout bounds a single call to the upstream recommendation API
	DefaultTimeout = 5 * time.Second
)

// ErrMissingPath is returned if no path was given, that's a usage error and not an empty result
var ErrMissingPath = errors.New("no path")

// Service is an interface for the recommendation cache service
type Service interface {
	Recommendations(ctx context.Context, path string) ([]recommendation.Recommendation, error)
	Refresh(ctx context.Context, path string) ([]recommendation.Recommendation, error)
}

// Entry is what we keep in the store for every post that was ever asked for
type Entry struct {
	Recommendations []recommendation.Recommendation `json:"recommendations"`
	CachedAt        time.Time                       `json:"cached"`
}

// Fresh reports if the entry is younger than ttl at the given time
func (e Entry) Fresh(now time.Time, ttl time.Duration) bool {
	return now.Sub(e.CachedAt) < ttl
}

func (e Entry) recommendations() []recommendation.Recommendation {
	if e.Recommendations == nil {
		return []recommendation.Recommendation{}
	}
	return e.Recommendations
}

type service struct {
	l        log.Logger
	store    blob.Store
	upstream recommendation.Repository
	baseURL  string
	ttl      time.Duration
	timeout  time.Duration
	now      func() time.Time
	sf       singleflight.Group
}

// NewService initializes a new recommendation cache service. baseURL is the origin of the site, it's used to turn
// relative paths into the object IDs known to the recommendation index.
func NewService(l log.Logger, store blob.Store, upstream recommendation.Repository, baseURL string, ttl time.Duration, timeout time.Duration) *service {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &service{
		l:        l,
		store:    store,
		upstream: upstream,
		baseURL:  strings.TrimRight(baseURL, "/"),
		ttl:      ttl,
		timeout:  timeout,
		now:      time.Now,
	}
}

// Key returns the normalized lookup key for a path
func (s *service) Key(path string) string {
	if strings.HasPrefix(path, s.baseURL+"/") {
		return path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return s.baseURL + path
}

// Recommendations returns the related posts for path. Apart from ErrMissingPath it never returns an error, if
// something goes wrong we serve what we have or an empty list.
func (s *service) Recommendations(ctx context.Context, path string) ([]recommendation.Recommendation, error) {
	if path == "" {
		return nil, ErrMissingPath
	}
	key := s.Key(path)

	var entry Entry
	found, err := s.store.Get(ctx, key, &entry)
	switch {
	case errors.Is(err, blob.ErrUndecodable):
		// A value we can't read is as good as no value, the fresh result replaces it
		level.Warn(s.l).Log("msg", "stored recommendations unreadable, treating as miss", "key", key, "err", err)
		return s.collapse(ctx, key, nil), nil
	case err != nil:
		// Without a store we still answer, we just can't remember the result
		level.Error(s.l).Log("msg", "store unavailable, fetching without cache", "key", key, "err", err)
		return s.fetch(ctx, key, nil, false), nil
	}
	if found && entry.Fresh(s.now(), s.ttl) {
		level.Debug(s.l).Log("msg", "cache hit", "key", key, "cached", entry.CachedAt)
		return entry.recommendations(), nil
	}
	level.Debug(s.l).Log("msg", "cache miss", "key", key, "found", found)

	var stale *Entry
	if found {
		stale = &entry
	}
	return s.collapse(ctx, key, stale), nil
}

// Refresh asks upstream for new recommendations even if the stored ones are still fresh
func (s *service) Refresh(ctx context.Context, path string) ([]recommendation.Recommendation, error) {
	if path == "" {
		return nil, ErrMissingPath
	}
	key := s.Key(path)

	var stale *Entry
	var entry Entry
	found, err := s.store.Get(ctx, key, &entry)
	if err != nil && !errors.Is(err, blob.ErrUndecodable) {
		level.Error(s.l).Log("msg", "store unavailable, refreshing without cache", "key", key, "err", err)
		return s.fetch(ctx, key, nil, false), nil
	}
	if found {
		stale = &entry
	}
	return s.collapse(ctx, key, stale), nil
}

// collapse makes sure concurrent misses for the same key within this process only call upstream once. The shared
// fetch doesn't stop when the caller that started it goes away, the others are still waiting for it.
func (s *service) collapse(ctx context.Context, key string, stale *Entry) []recommendation.Recommendation {
	shared := context.WithoutCancel(ctx)
	v, _, joined := s.sf.Do(key, func() (interface{}, error) {
		return s.fetch(shared, key, stale, true), nil
	})
	if joined {
		level.Debug(s.l).Log("msg", "joined in-flight fetch", "key", key)
	}
	return v.([]recommendation.Recommendation)
}

// fetch calls upstream and writes the result back if persist is set. On upstream failures the stale entry is served
// if there is one.
func (s *service) fetch(ctx context.Context, key string, stale *Entry, persist bool) []recommendation.Recommendation {
	upstreamCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	recos, err := s.upstream.Related(upstreamCtx, key)
	switch {
	case errors.Is(err, recommendation.ErrNotFound):
		// Remember that there's nothing, so we don't ask again until the entry expires
		recos = []recommendation.Recommendation{}
	case err != nil:
		level.Error(s.l).Log("msg", "fetching recommendations from upstream", "key", key, "err", err)
		if stale != nil {
			level.Info(s.l).Log("msg", "serving stale recommendations", "key", key, "cached", stale.CachedAt)
			return stale.recommendations()
		}
		return []recommendation.Recommendation{}
	}
	recos = recommendation.Clean(recos)
	level.Info(s.l).Log("msg", "fetched recommendations", "key", key, "count", len(recos))

	if persist {
		if err := s.store.SetJSON(ctx, key, Entry{Recommendations: recos, CachedAt: s.now()}); err != nil {
			level.Error(s.l).Log("msg", "writing recommendations to store", "key", key, "err", err)
		}
	}
	return recos
}
