package recommendation

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/pkg/errors"
)

const (
	// Threshold is the minimum relevance score a related post needs to be recommended
	Threshold = 40
	// MaxRecommendations is the upper bound of recommendations returned for a single post
	MaxRecommendations = 5
)

// ErrNotFound is returned by a Repository if the upstream API doesn't know the subject at all
var ErrNotFound = errors.New("no recommendations for subject")

// Repository is an interface for an upstream recommendation API
type Repository interface {
	// Related returns up to MaxRecommendations posts related to subject, most relevant first.
	Related(ctx context.Context, subject string) ([]Recommendation, error)
}

// Recommendation is a single related post
type Recommendation struct {
	Date  time.Time `json:"date"`
	URL   string    `json:"url"`
	Title string    `json:"title"`
}

// UnmarshalJSON accepts every date format hitDate does, values stored by older versions of the site used plain dates
func (r *Recommendation) UnmarshalJSON(b []byte) error {
	var raw struct {
		Date  hitDate `json:"date"`
		URL   string  `json:"url"`
		Title string  `json:"title"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*r = Recommendation{
		Date:  time.Time(raw.Date),
		URL:   raw.URL,
		Title: raw.Title,
	}
	return nil
}

// Valid reports if a recommendation can be shown to a reader
func (r Recommendation) Valid() bool {
	return r.URL != "" && r.Title != ""
}

// Clean drops invalid recommendations and caps the list at MaxRecommendations. It never returns nil, so an empty
// result still encodes as an empty JSON array.
func Clean(recos []Recommendation) []Recommendation {
	out := make([]Recommendation, 0, len(recos))
	for _, r := range recos {
		if !r.Valid() {
			continue
		}
		out = append(out, r)
		if len(out) == MaxRecommendations {
			break
		}
	}
	return out
}

// hitDate accepts the date formats we've had in the index over the years: RFC 3339, plain dates and unix seconds.
// Anything else decodes to the zero time, a post with an odd date is still worth recommending.
type hitDate time.Time

func (d *hitDate) UnmarshalJSON(b []byte) error {
	var raw interface{}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*d = hitDate(parseDate(raw))
	return nil
}

func parseDate(raw interface{}) time.Time {
	switch v := raw.(type) {
	case float64:
		return time.Unix(int64(v), 0).UTC()
	case string:
		for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"} {
			if t, err := time.Parse(layout, v); err == nil {
				return t
			}
		}
		if secs, err := strconv.ParseInt(v, 10, 64); err == nil {
			return time.Unix(secs, 0).UTC()
		}
	}
	return time.Time{}
}
