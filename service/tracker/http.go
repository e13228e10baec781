package tracker

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"github.com/dewey/blog-functions/blob"
)

// LogKey is the key the analytics log is kept under in the tracker store
const LogKey = "log"

// NewHandler initializes a new handler exposing the analytics log
func NewHandler(l log.Logger, store blob.Store) *chi.Mux {
	r := chi.NewRouter()
	r.Get("/", logHandler(l, store))
	return r
}

func logHandler(l log.Logger, store blob.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var v json.RawMessage
		found, err := store.Get(r.Context(), LogKey, &v)
		if err != nil {
			level.Error(l).Log("msg", "reading analytics log", "err", err)
			http.Error(w, "Error", http.StatusInternalServerError)
			return
		}
		if !found {
			v = json.RawMessage("null")
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(v)
	}
}
