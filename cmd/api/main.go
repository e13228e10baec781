package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/peterbourgon/ff/v3"

	"github.com/dewey/blog-functions/blob"
	"github.com/dewey/blog-functions/feed"
	"github.com/dewey/blog-functions/newsletter"
	"github.com/dewey/blog-functions/recommendation"
	"github.com/dewey/blog-functions/service/hooklistener"
	"github.com/dewey/blog-functions/service/moon"
	"github.com/dewey/blog-functions/service/recommender"
	"github.com/dewey/blog-functions/service/signup"
	"github.com/dewey/blog-functions/service/tracker"
)

type maxBytesHandler struct {
	h http.Handler
	n int64
}

func (h *maxBytesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.n)
	h.h.ServeHTTP(w, r)
}

func main() {
	fs := flag.NewFlagSet("blog-functions", flag.ExitOnError)
	var (
		environment       = fs.String("environment", "develop", "the environment we are running in")
		port              = fs.String("port", "8080", "the port blog-functions is running on")
		baseURL           = fs.String("base-url", "https://www.example.com", "the origin of the blog, used to build recommendation keys")
		databasePath      = fs.String("database-path", "blog-functions.db", "the path to the sqlite database holding the blob stores")
		algoliaAppID      = fs.String("algolia-app-id", "", "the algolia application id")
		algoliaAPIKey     = fs.String("algolia-api-key", "", "the algolia api key")
		algoliaIndex      = fs.String("algolia-index", "blog", "the algolia index holding the posts")
		recommendationTTL = fs.Duration("recommendation-ttl", recommender.DefaultTTL, "how long recommendations are served from the cache")
		upstreamTimeout   = fs.Duration("upstream-timeout", recommender.DefaultTimeout, "the timeout for a single call to the recommendation api")
		buttondownKey     = fs.String("buttondown-key", "", "the buttondown api key")
		feedURL           = fs.String("feed-url", "https://www.example.com/feed.xml", "the direct url to the feed index")
		hookToken         = fs.String("hook-token", "changeme", "the secret token for the deploy hook, to prevent other people from hitting the hook")
		refreshCount      = fs.Int("refresh-count", 3, "how many of the newest posts get new recommendations after a deploy")
	)

	ff.Parse(fs, os.Args[1:],
		ff.WithConfigFileFlag("config"),
		ff.WithConfigFileParser(ff.PlainParser),
		ff.WithEnvVarPrefix("BF"),
	)

	// Most platforms hand us the port without our prefix
	if os.Getenv("PORT") != "" {
		*port = os.Getenv("PORT")
	}

	l := log.NewLogfmtLogger(log.NewSyncWriter(os.Stderr))
	switch strings.ToLower(*environment) {
	case "development":
		l = level.NewFilter(l, level.AllowInfo())
	case "prod":
		l = level.NewFilter(l, level.AllowError())
	}
	l = log.With(l, "ts", log.DefaultTimestampUTC, "caller", log.DefaultCaller)

	db, err := sqlx.Open("sqlite3", *databasePath)
	if err != nil {
		level.Error(l).Log("msg", "error opening database", "err", err)
		return
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		level.Error(l).Log("msg", "error pinging database", "err", err)
		return
	}
	if err := blob.Migrate(db); err != nil {
		level.Error(l).Log("msg", "error migrating database", "err", err)
		return
	}

	recommendationStore, err := blob.NewRepository(l, db, "recommendations")
	if err != nil {
		level.Error(l).Log("err", err)
		return
	}
	trackerStore, err := blob.NewRepository(l, db, "tracker")
	if err != nil {
		level.Error(l).Log("err", err)
		return
	}

	httpClient := &http.Client{Timeout: 30 * time.Second}

	var upstream recommendation.Repository
	switch {
	case *algoliaAppID != "" && *algoliaAPIKey != "":
		upstream = recommendation.NewAlgoliaRepository(l, httpClient, "", *algoliaAppID, *algoliaAPIKey, *algoliaIndex)
		level.Info(l).Log("msg", "using algolia for recommendations", "algolia_app_id", *algoliaAppID, "algolia_index", *algoliaIndex)
	case *environment == "develop":
		// For local development we inject a mock repository, that way we can test the caching logic without credentials
		upstream = recommendation.NewMockRepository(l)
	default:
		level.Error(l).Log("err", "no recommendation api configured. make sure to set up algolia")
		return
	}
	recommenderService := recommender.NewService(l, recommendationStore, upstream, *baseURL, *recommendationTTL, *upstreamTimeout)

	// Set up HTTP API
	r := chi.NewRouter()
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("blog-functions"))
	})

	r.Mount("/api/get-recommendations", recommender.NewHandler(l, recommenderService))
	r.Mount("/api/moon", moon.NewHandler(l, time.Now))
	r.Mount("/api/log", tracker.NewHandler(l, trackerStore))

	if *buttondownKey != "" {
		nr := newsletter.NewButtondownRepository(l, httpClient, newsletter.DefaultBaseURL, *buttondownKey)
		r.Mount("/api/newsletter-signup", signup.NewSignupHandler(l, nr))
		r.Mount("/api/get-stats", signup.NewStatsHandler(l, nr))
	} else {
		level.Info(l).Log("msg", "no buttondown key configured, newsletter endpoints are disabled")
	}

	listenerService := hooklistener.NewService(l, feed.NewRepository(l), recommenderService, *feedURL, *hookToken, *refreshCount)
	r.Mount("/incoming-hooks", hooklistener.NewHandler(l, listenerService))

	level.Info(l).Log("msg", fmt.Sprintf("blog-functions is running on :%s", *port), "environment", *environment)

	// Set up webserver and set max body size to 1MB, nothing we receive is larger than a deploy payload
	err = http.ListenAndServe(fmt.Sprintf(":%s", *port), &maxBytesHandler{h: r, n: (1 * 1024 * 1024)})
	if err != nil {
		level.Error(l).Log("err", err)
		return
	}
}
