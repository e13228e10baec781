package recommendation

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dghubble/sling"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/pkg/errors"
)

type algoliaRepository struct {
	l         log.Logger
	s         *sling.Sling
	indexName string
}

type recommendRequest struct {
	Requests []recommendQuery `json:"requests"`
}

type recommendQuery struct {
	IndexName          string          `json:"indexName"`
	Model              string          `json:"model"`
	ObjectID           string          `json:"objectID"`
	Threshold          int             `json:"threshold"`
	MaxRecommendations int             `json:"maxRecommendations"`
	QueryParameters    queryParameters `json:"queryParameters"`
}

type queryParameters struct {
	AttributesToRetrieve []string `json:"attributesToRetrieve"`
}

type recommendResponse struct {
	Results []struct {
		Hits []hit `json:"hits"`
	} `json:"results"`
}

type hit struct {
	Date  hitDate `json:"date"`
	URL   string  `json:"url"`
	Title string  `json:"title"`
}

// algoliaError is the body Algolia sends with non 2xx responses
type algoliaError struct {
	Message string `json:"message"`
	Status  int    `json:"status"`
}

// NewAlgoliaRepository initializes a new repository for the Algolia Recommend API. An empty baseURL defaults to the
// DSN host of the application.
func NewAlgoliaRepository(l log.Logger, c *http.Client, baseURL string, appID string, apiKey string, indexName string) *algoliaRepository {
	if baseURL == "" {
		baseURL = fmt.Sprintf("https://%s-dsn.algolia.net/", appID)
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	return &algoliaRepository{
		l: l,
		s: sling.New().Client(c).Base(baseURL).
			Set("X-Algolia-Application-Id", appID).
			Set("X-Algolia-API-Key", apiKey),
		indexName: indexName,
	}
}

func (s *algoliaRepository) Related(ctx context.Context, subject string) ([]Recommendation, error) {
	body := recommendRequest{
		Requests: []recommendQuery{
			{
				IndexName:          s.indexName,
				Model:              "related-products",
				ObjectID:           subject,
				Threshold:          Threshold,
				MaxRecommendations: MaxRecommendations,
				QueryParameters: queryParameters{
					AttributesToRetrieve: []string{"title", "date", "url"},
				},
			},
		},
	}
	req, err := s.s.New().Post("1/indexes/*/recommendations").BodyJSON(body).Request()
	if err != nil {
		return nil, errors.Wrap(err, "building recommendation request")
	}

	var res recommendResponse
	var apiErr algoliaError
	resp, err := s.s.Do(req.WithContext(ctx), &res, &apiErr)
	// Algolia answers unknown object IDs with a 404, that's a valid empty result and not a failure
	if (resp != nil && resp.StatusCode == http.StatusNotFound) || apiErr.Status == http.StatusNotFound {
		level.Debug(s.l).Log("msg", "subject unknown to recommendation api", "subject", subject)
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "requesting recommendations")
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errors.Errorf("unexpected status code %d from recommendation api: %s", resp.StatusCode, apiErr.Message)
	}
	if len(res.Results) == 0 {
		return []Recommendation{}, nil
	}

	recos := make([]Recommendation, 0, len(res.Results[0].Hits))
	for _, h := range res.Results[0].Hits {
		recos = append(recos, Recommendation{
			Date:  time.Time(h.Date),
			URL:   h.URL,
			Title: h.Title,
		})
	}
	return Clean(recos), nil
}
