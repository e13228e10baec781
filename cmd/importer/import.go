package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"github.com/dewey/blog-functions/blob"
)

// Imports an export of a hosted blob store into the sqlite database. The export is a JSON object mapping every key to
// its stored value.
func main() {
	fs := flag.NewFlagSet("importer", flag.ExitOnError)
	var (
		databasePath = fs.String("database-path", "blog-functions.db", "the path to the sqlite database holding the blob stores")
		store        = fs.String("store", "recommendations", "the name of the store to import into")
		exportPath   = fs.String("export-path", "export.json", "the path to the exported store")
	)
	fs.Parse(os.Args[1:])

	l := log.NewLogfmtLogger(log.NewSyncWriter(os.Stderr))
	l = level.NewFilter(l, level.AllowInfo())
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

	f, err := os.Open(*exportPath)
	if err != nil {
		level.Error(l).Log("err", err)
		return
	}
	defer f.Close()

	var export map[string]json.RawMessage
	if err := json.NewDecoder(f).Decode(&export); err != nil {
		level.Error(l).Log("msg", "error decoding export", "err", err)
		return
	}

	repo, err := blob.NewRepository(l, db, *store)
	if err != nil {
		level.Error(l).Log("err", err)
		return
	}
	var imported int
	for key, value := range export {
		if err := repo.SetJSON(context.Background(), key, value); err != nil {
			level.Error(l).Log("msg", "error importing blob", "key", key, "err", err)
			continue
		}
		imported++
	}
	level.Info(l).Log("msg", "import finished", "store", *store, "imported", imported, "total", len(export))
}
