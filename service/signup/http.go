package signup

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/pkg/errors"

	"github.com/dewey/blog-functions/newsletter"
)

type statsResponse struct {
	ButtondownCount int `json:"buttondownCount"`
}

// NewSignupHandler initializes a new newsletter signup API handler
func NewSignupHandler(l log.Logger, nr newsletter.Repository) *chi.Mux {
	r := chi.NewRouter()

	r.Group(func(r chi.Router) {
		r.Get("/", signupHandler(l, nr))
		r.Post("/", signupHandler(l, nr))
	})

	return r
}

// NewStatsHandler initializes a new newsletter stats API handler
func NewStatsHandler(l log.Logger, nr newsletter.Repository) *chi.Mux {
	r := chi.NewRouter()
	r.Get("/", statsHandler(l, nr))
	return r
}

func signupHandler(l log.Logger, nr newsletter.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		email := r.URL.Query().Get("email")
		if email == "" {
			http.Error(w, "email query parameter required", http.StatusBadRequest)
			return
		}
		res, err := nr.Subscribe(r.Context(), email)
		if err != nil && !errors.Is(err, newsletter.ErrInvalidEmail) {
			level.Error(l).Log("msg", "subscribing to newsletter", "err", err)
			http.Error(w, "Error", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
		}
		w.Write(res)
	}
}

func statsHandler(l log.Logger, nr newsletter.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		n, err := nr.SubscriberCount(r.Context())
		if err != nil {
			level.Error(l).Log("msg", "counting subscribers", "err", err)
			http.Error(w, "Error", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(statsResponse{ButtondownCount: n}); err != nil {
			level.Error(l).Log("err", errors.Wrap(err, "encoding stats"))
		}
	}
}
