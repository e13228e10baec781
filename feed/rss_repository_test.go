package feed

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/go-kit/log"
)

const rss = `<?xml version="1.0" encoding="utf-8"?>
<rss version="2.0">
  <channel>
    <title>Blog</title>
    <link>https://www.example.com/</link>
    <item>
      <title>Newest</title>
      <link>https://www.example.com/2024/01/02/newest</link>
      <guid>https://www.example.com/2024/01/02/newest</guid>
      <pubDate>Tue, 02 Jan 2024 10:00:00 GMT</pubDate>
    </item>
    <item>
      <title>Older</title>
      <link>https://www.example.com/2024/01/01/older</link>
      <guid>https://www.example.com/2024/01/01/older</guid>
      <pubDate>Mon, 01 Jan 2024 10:00:00 GMT</pubDate>
    </item>
  </channel>
</rss>`

func TestEntries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		fmt.Fprint(w, rss)
	}))
	defer srv.Close()

	items, err := NewRepository(log.NewNopLogger()).Entries(context.Background(), srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 2 {
		t.Fatalf("got %d items, want 2", len(items))
	}
	if items[0].Link != "https://www.example.com/2024/01/02/newest" {
		t.Errorf("got %s, want newest post first", items[0].Link)
	}
}

func TestEntriesBrokenFeed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	if _, err := NewRepository(log.NewNopLogger()).Entries(context.Background(), srv.URL); err == nil {
		t.Error("expected an error for a broken feed")
	}
}

func TestEntriesConcurrent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		fmt.Fprint(w, rss)
	}))
	defer srv.Close()

	fr := NewRepository(log.NewNopLogger())
	var wg sync.WaitGroup
	errs := make([]error, 8)
	counts := make([]int, 8)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			items, err := fr.Entries(context.Background(), srv.URL)
			errs[i], counts[i] = err, len(items)
		}(i)
	}
	wg.Wait()
	for i := range errs {
		if errs[i] != nil {
			t.Errorf("call %d: %v", i, errs[i])
		}
		if counts[i] != 2 {
			t.Errorf("call %d: got %d items, want 2", i, counts[i])
		}
	}
}
