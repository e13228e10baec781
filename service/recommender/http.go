package recommender

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/pkg/errors"
)

// NewHandler initializes a new recommendation API handler
func NewHandler(l log.Logger, s Service) *chi.Mux {
	r := chi.NewRouter()

	r.Group(func(r chi.Router) {
		r.Get("/", recommendationsHandler(l, s))
	})

	return r
}

func recommendationsHandler(l log.Logger, s Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		recos, err := s.Recommendations(r.Context(), r.URL.Query().Get("path"))
		if err != nil {
			if errors.Is(err, ErrMissingPath) {
				w.Header().Set("Content-Type", "text/plain; charset=utf-8")
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte("No path!"))
				return
			}
			w.WriteHeader(http.StatusInternalServerError)
			level.Error(l).Log("err", err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(recos); err != nil {
			level.Error(l).Log("err", errors.Wrap(err, "encoding recommendations"))
		}
	}
}
