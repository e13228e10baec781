package moon

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/pkg/errors"

	"github.com/dewey/blog-functions/moonphase"
)

// maxSize keeps people from asking us for absurdly large icons
const maxSize = 1024

type phaseResponse struct {
	Date  string          `json:"date"`
	Phase moonphase.Phase `json:"phase"`
	Age   float64         `json:"age"`
}

// NewHandler initializes a new moon phase API handler. now is used if a request doesn't ask for a specific date.
func NewHandler(l log.Logger, now func() time.Time) *chi.Mux {
	r := chi.NewRouter()

	r.Group(func(r chi.Router) {
		r.Get("/", iconHandler(l, now))
		r.Get("/phase", phaseHandler(l, now))
	})

	return r
}

func iconHandler(l log.Logger, now func() time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		t, err := dateParam(r, now)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		size := float64(moonphase.DefaultSize)
		if v := r.URL.Query().Get("size"); v != "" {
			size, err = strconv.ParseFloat(v, 64)
			if err != nil || size <= 0 || size > maxSize {
				http.Error(w, "size has to be a number between 0 and 1024", http.StatusBadRequest)
				return
			}
		}

		phase := moonphase.CurrentPhase(t)
		level.Debug(l).Log("msg", "rendering moon icon", "date", t.Format("2006-01-02"), "phase", phase)
		w.Header().Set("Content-Type", "image/svg+xml")
		w.Header().Set("Cache-Control", "public, max-age=3600")
		w.Write([]byte(moonphase.NewIcon(phase, size, r.URL.Query().Get("color")).SVG()))
	}
}

func phaseHandler(l log.Logger, now func() time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		t, err := dateParam(r, now)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(phaseResponse{
			Date:  t.Format("2006-01-02"),
			Phase: moonphase.CurrentPhase(t),
			Age:   moonphase.Age(t),
		}); err != nil {
			level.Error(l).Log("err", errors.Wrap(err, "encoding moon phase"))
		}
	}
}

// dateParam returns the date from the query, dates without a time are taken as midnight UTC
func dateParam(r *http.Request, now func() time.Time) (time.Time, error) {
	v := r.URL.Query().Get("date")
	if v == "" {
		return now(), nil
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, nil
	}
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return time.Time{}, errors.Errorf("invalid date %q, use YYYY-MM-DD", v)
	}
	return t, nil
}
