package feed

import (
	"context"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/mmcdole/gofeed"
	"github.com/pkg/errors"
)

type repository struct {
	l log.Logger
}

// NewRepository initializes a new feed repository
func NewRepository(l log.Logger) *repository {
	return &repository{
		l: l,
	}
}

// Entries returns the items of the feed in the order the site publishes them, which is newest first for our blog
func (s *repository) Entries(ctx context.Context, feedURL string) ([]*gofeed.Item, error) {
	// Parsers keep state while parsing, every call gets its own
	fp := gofeed.NewParser()
	feed, err := fp.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing feed %s", feedURL)
	}
	level.Debug(s.l).Log("msg", "parsed feed", "feed_url", feedURL, "items", len(feed.Items))
	return feed.Items, nil
}
