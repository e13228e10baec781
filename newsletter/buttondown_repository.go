package newsletter

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/dghubble/sling"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/pkg/errors"
)

// DefaultBaseURL is the root of the Buttondown API
const DefaultBaseURL = "https://api.buttondown.email/"

type buttondownRepository struct {
	l log.Logger
	s *sling.Sling
}

type subscriberParams struct {
	Type string `url:"type,omitempty"`
}

type subscriberList struct {
	Count int `json:"count"`
}

type subscribeRequest struct {
	Email string `json:"email_address"`
}

// NewButtondownRepository initializes a new repository for the Buttondown API
func NewButtondownRepository(l log.Logger, c *http.Client, baseURL string, apiKey string) *buttondownRepository {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &buttondownRepository{
		l: l,
		s: sling.New().Client(c).Base(baseURL).Set("Authorization", "Token "+apiKey),
	}
}

func (s *buttondownRepository) Subscribe(ctx context.Context, email string) (json.RawMessage, error) {
	req, err := s.s.New().Post("v1/subscribers").BodyJSON(subscribeRequest{Email: email}).Request()
	if err != nil {
		return nil, errors.Wrap(err, "building subscribe request")
	}
	var res, failure json.RawMessage
	resp, err := s.s.Do(req.WithContext(ctx), &res, &failure)
	if err != nil {
		return nil, errors.Wrap(err, "subscribing")
	}
	switch {
	case resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnprocessableEntity:
		level.Info(s.l).Log("msg", "subscription refused", "status_code", resp.StatusCode, "response", string(failure))
		return failure, ErrInvalidEmail
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return failure, errors.Errorf("unexpected status code %d from buttondown", resp.StatusCode)
	}
	level.Info(s.l).Log("msg", "new subscriber", "status_code", resp.StatusCode)
	return res, nil
}

func (s *buttondownRepository) SubscriberCount(ctx context.Context) (int, error) {
	req, err := s.s.New().Get("v1/subscribers").QueryStruct(subscriberParams{Type: "regular"}).Request()
	if err != nil {
		return 0, errors.Wrap(err, "building subscriber request")
	}
	var res subscriberList
	var failure json.RawMessage
	resp, err := s.s.Do(req.WithContext(ctx), &res, &failure)
	if err != nil {
		return 0, errors.Wrap(err, "listing subscribers")
	}
	if resp.StatusCode != http.StatusOK {
		return 0, errors.Errorf("unexpected status code %d from buttondown: %s", resp.StatusCode, string(failure))
	}
	return res.Count, nil
}
