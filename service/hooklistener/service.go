package hooklistener

import (
	"context"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/mmcdole/gofeed"
	"github.com/pkg/errors"

	"github.com/dewey/blog-functions/feed"
	"github.com/dewey/blog-functions/service/recommender"
)

// Service is an interface for a incoming hook listener service
type Service interface {
	ValidToken(token string) (bool, error)
	RefreshLatest(ctx context.Context) (int, error)
}

type service struct {
	l            log.Logger
	fr           feed.Repository
	rs           recommender.Service
	feedURL      string
	hookToken    string
	refreshCount int
	newBackOff   func() backoff.BackOff
}

// NewService initializes a new hook listener service. After every deploy the recommendations of the newest
// refreshCount posts are fetched again, so new posts show up as related content without waiting for the cache to expire.
func NewService(l log.Logger, fr feed.Repository, rs recommender.Service, feedURL string, hookToken string, refreshCount int) *service {
	return &service{
		l:            l,
		fr:           fr,
		rs:           rs,
		feedURL:      feedURL,
		hookToken:    hookToken,
		refreshCount: refreshCount,
		newBackOff: func() backoff.BackOff {
			return backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 3)
		},
	}
}

// ValidToken checks if the given token is a valid token. Only we can trigger logic via the received webhook.
func (s *service) ValidToken(token string) (bool, error) {
	if s.hookToken == "" {
		return false, errors.New("no hook token configured")
	}
	if token != "" && token == s.hookToken {
		return true, nil
	}
	return false, nil
}

// RefreshLatest refreshes the recommendations of the newest posts in the feed and returns how many were refreshed
func (s *service) RefreshLatest(ctx context.Context) (int, error) {
	var items []*gofeed.Item
	// The feed is served by the deploy that just finished, the CDN sometimes needs a moment
	err := backoff.RetryNotify(func() error {
		var err error
		items, err = s.fr.Entries(ctx, s.feedURL)
		return err
	}, backoff.WithContext(s.newBackOff(), ctx), func(err error, next time.Duration) {
		level.Info(s.l).Log("msg", "fetching feed failed, retrying", "err", err, "next", next)
	})
	if err != nil {
		return 0, errors.Wrap(err, "fetching feed")
	}

	var refreshed int
	for _, path := range latestPaths(items, s.refreshCount) {
		recos, err := s.rs.Refresh(ctx, path)
		if err != nil {
			level.Error(s.l).Log("msg", "refreshing recommendations", "path", path, "err", err)
			continue
		}
		level.Info(s.l).Log("msg", "refreshed recommendations", "path", path, "count", len(recos))
		refreshed++
	}
	return refreshed, nil
}

// latestPaths returns the paths of the first n items that have a usable link
func latestPaths(items []*gofeed.Item, n int) []string {
	var paths []string
	for _, item := range items {
		if len(paths) >= n {
			break
		}
		if item == nil || item.Link == "" {
			continue
		}
		u, err := url.Parse(item.Link)
		if err != nil || u.Path == "" {
			continue
		}
		paths = append(paths, u.Path)
	}
	return paths
}
