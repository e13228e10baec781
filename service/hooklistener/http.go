package hooklistener

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

// NewHandler initializes a new incoming hook API handler
func NewHandler(l log.Logger, s Service) *chi.Mux {
	r := chi.NewRouter()

	r.Group(func(r chi.Router) {
		r.Post("/{token}", deployHookHandler(l, s))
	})

	return r
}

func deployHookHandler(l log.Logger, s Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Checking if token is the one we configured
		valid, err := s.ValidToken(chi.URLParam(r, "token"))
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			level.Error(l).Log("err", err)
			return
		}
		if !valid {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		var p DeployPayload
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil && err != io.EOF {
			w.WriteHeader(http.StatusBadRequest)
			level.Error(l).Log("msg", "decoding deploy payload", "err", err)
			return
		}
		if !p.IsActionable() {
			level.Debug(l).Log("msg", "ignoring deploy hook", "state", p.State, "context", p.Context)
			w.WriteHeader(http.StatusNoContent)
			return
		}
		level.Info(l).Log("msg", "received valid deploy hook", "deploy_id", p.ID, "summary", p.Describe())

		n, err := s.RefreshLatest(r.Context())
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			level.Error(l).Log("err", err)
			return
		}
		level.Info(l).Log("msg", "deploy hook handled", "refreshed", n)
		w.WriteHeader(http.StatusAccepted)
	}
}
