package resolver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"sync/atomic"
	"testing"
	"time"

	"lyrics-resolver-go/cache"
	"lyrics-resolver-go/services/providers/lrclib"
)

// fakeUpstream is a scriptable stand-in for the lyrics lookup service
type fakeUpstream struct {
	server   *httptest.Server
	requests int64

	getHandler    func(w http.ResponseWriter, r *http.Request)
	searchHandler func(w http.ResponseWriter, r *http.Request)
}

func newFakeUpstream(t *testing.T) *fakeUpstream {
	t.Helper()
	f := &fakeUpstream{}
	mux := http.NewServeMux()
	mux.HandleFunc("/api/get", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&f.requests, 1)
		if f.getHandler != nil {
			f.getHandler(w, r)
			return
		}
		http.NotFound(w, r)
	})
	mux.HandleFunc("/api/search", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&f.requests, 1)
		if f.searchHandler != nil {
			f.searchHandler(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte("[]"))
	})
	f.server = httptest.NewServer(mux)
	t.Cleanup(f.server.Close)
	return f
}

func (f *fakeUpstream) requestCount() int64 {
	return atomic.LoadInt64(&f.requests)
}

func (f *fakeUpstream) newResolver(opts ...Option) *Resolver {
	client := lrclib.NewClient(f.server.URL, "", time.Second, nil)
	return New(client, cache.New(cache.DefaultCapacity), opts...)
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func TestResolve_ExactMatchFirst(t *testing.T) {
	upstream := newFakeUpstream(t)
	upstream.getHandler = func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("track_name") != "Hello" {
			http.NotFound(w, r)
			return
		}
		writeJSON(w, lrclib.Record{
			TrackName:    "Hello",
			ArtistName:   "Adele",
			Duration:     295,
			PlainLyrics:  "Hello, it's me",
			SyncedLyrics: "[00:05.00]Hello, it's me",
		})
	}

	r := upstream.newResolver()
	result, err := r.Resolve(context.Background(), Query{Title: "Hello", Artist: "Adele", DurationMs: 295000})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if result.PlainText != "Hello, it's me" {
		t.Errorf("Unexpected plain text: %q", result.PlainText)
	}
	if len(result.SyncedLines) != 1 || result.SyncedLines[0].TimestampMs != 5000 {
		t.Errorf("Unexpected synced lines: %+v", result.SyncedLines)
	}
	if result.Source != lrclib.SourceName {
		t.Errorf("Unexpected source: %q", result.Source)
	}
	if got := upstream.requestCount(); got != 1 {
		t.Errorf("Expected a single upstream call, got %d", got)
	}
}

func TestResolve_ExactRetriesWithoutDuration(t *testing.T) {
	upstream := newFakeUpstream(t)
	upstream.getHandler = func(w http.ResponseWriter, r *http.Request) {
		// only the duration-less retry matches
		if r.URL.Query().Get("duration") != "" {
			http.NotFound(w, r)
			return
		}
		writeJSON(w, lrclib.Record{TrackName: "Hello", ArtistName: "Adele", PlainLyrics: "Hello, it's me"})
	}

	r := upstream.newResolver()
	result, err := r.Resolve(context.Background(), Query{Title: "Hello", Artist: "Adele", DurationMs: 295000})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if result.PlainText != "Hello, it's me" {
		t.Errorf("Unexpected plain text: %q", result.PlainText)
	}
	if got := upstream.requestCount(); got != 2 {
		t.Errorf("Expected exact call plus one retry, got %d calls", got)
	}
}

func TestResolve_FallsBackToFuzzySearch(t *testing.T) {
	upstream := newFakeUpstream(t)
	// exact lookups all miss
	upstream.searchHandler = func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, []lrclib.Record{
			{TrackName: "Wrong", ArtistName: "X", Instrumental: true},
			{TrackName: "Hello", ArtistName: "Adele", Duration: 295, PlainLyrics: "Hello, it's me"},
		})
	}

	r := upstream.newResolver()
	result, err := r.Resolve(context.Background(), Query{Title: "Hello", Artist: "Adele", DurationMs: 295000})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if result.PlainText != "Hello, it's me" {
		t.Errorf("Unexpected plain text: %q", result.PlainText)
	}
}

func TestResolve_CacheHitSkipsNetwork(t *testing.T) {
	upstream := newFakeUpstream(t)
	upstream.getHandler = func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, lrclib.Record{TrackName: "Hello", ArtistName: "Adele", PlainLyrics: "Hello, it's me"})
	}

	r := upstream.newResolver()
	q := Query{Title: "Hello", Artist: "Adele", TrackID: "track-1"}

	first, err := r.Resolve(context.Background(), q)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	callsAfterFirst := upstream.requestCount()

	second, err := r.Resolve(context.Background(), q)
	if err != nil {
		t.Fatalf("Unexpected error on second resolve: %v", err)
	}

	if got := upstream.requestCount(); got != callsAfterFirst {
		t.Errorf("Second resolve made %d extra upstream calls", got-callsAfterFirst)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("Cached result differs: %+v vs %+v", first, second)
	}
}

func TestResolve_CacheKeyUsesRawStrings(t *testing.T) {
	upstream := newFakeUpstream(t)
	upstream.getHandler = func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, lrclib.Record{TrackName: "Hello", PlainLyrics: "words"})
	}

	r := upstream.newResolver()

	q := Query{Title: "Hello (Official Video)", Artist: "AdeleVEVO"}
	if _, err := r.Resolve(context.Background(), q); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	// cached under the raw pair, not the cleaned one
	if !r.IsCached(q) {
		t.Error("Expected raw-string key to be cached")
	}
	if r.IsCached(Query{Title: "Hello", Artist: "Adele"}) {
		t.Error("Cleaned-string key should not be cached")
	}
}

func TestResolve_NullLiteralTreatedAsAbsent(t *testing.T) {
	upstream := newFakeUpstream(t)
	upstream.getHandler = func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, lrclib.Record{
			TrackName:    "Hello",
			PlainLyrics:  "null",
			SyncedLyrics: "[00:05.00]Hello, it's me",
		})
	}

	r := upstream.newResolver()
	result, err := r.Resolve(context.Background(), Query{Title: "Hello", Artist: "Adele"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	// plain text is rebuilt from synced lines, never the literal "null"
	if result.PlainText != "Hello, it's me" {
		t.Errorf("Expected plain text from synced lines, got %q", result.PlainText)
	}
}

func TestResolve_AllVariationsExhausted(t *testing.T) {
	upstream := newFakeUpstream(t)
	// defaults: every get 404s, every search returns []

	r := upstream.newResolver()
	result, err := r.Resolve(context.Background(), Query{Title: "No Such Song", Artist: "Nobody"})
	if err != ErrNotFound {
		t.Fatalf("Expected ErrNotFound, got result=%+v err=%v", result, err)
	}

	// failures are never cached, so a retry is possible
	if r.IsCached(Query{Title: "No Such Song", Artist: "Nobody"}) {
		t.Error("Failure must not be cached")
	}
}

func TestResolve_InstrumentalOnlyFails(t *testing.T) {
	upstream := newFakeUpstream(t)
	upstream.getHandler = func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, lrclib.Record{TrackName: "Interlude", Instrumental: true})
	}
	upstream.searchHandler = func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, []lrclib.Record{{TrackName: "Interlude", Instrumental: true, PlainLyrics: "la la"}})
	}

	r := upstream.newResolver()
	if _, err := r.Resolve(context.Background(), Query{Title: "Interlude", Artist: "Band"}); err != ErrNotFound {
		t.Fatalf("Expected ErrNotFound for instrumental-only candidates, got %v", err)
	}
}

func TestResolve_ResultAlwaysDisplayable(t *testing.T) {
	upstream := newFakeUpstream(t)
	upstream.getHandler = func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, lrclib.Record{TrackName: "Blank", PlainLyrics: "   \n \t "})
	}

	r := upstream.newResolver()
	result, err := r.Resolve(context.Background(), Query{Title: "Blank", Artist: "X"})
	if err == nil {
		if !result.HasDisplayableContent() {
			t.Fatalf("Resolve returned a non-displayable result: %+v", result)
		}
	} else if err != ErrNotFound {
		t.Fatalf("Unexpected error: %v", err)
	}
}

func TestResolveAsync(t *testing.T) {
	upstream := newFakeUpstream(t)
	upstream.getHandler = func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, lrclib.Record{TrackName: "Hello", PlainLyrics: "words"})
	}

	r := upstream.newResolver()
	outcome := <-r.ResolveAsync(context.Background(), Query{Title: "Hello", Artist: "Adele"})
	if outcome.Err != nil {
		t.Fatalf("Unexpected error: %v", outcome.Err)
	}
	if outcome.Result == nil || outcome.Result.PlainText != "words" {
		t.Errorf("Unexpected result: %+v", outcome.Result)
	}
}

func TestPrefetch_WarmsCache(t *testing.T) {
	upstream := newFakeUpstream(t)
	upstream.getHandler = func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, lrclib.Record{TrackName: "Hello", PlainLyrics: "words"})
	}

	r := upstream.newResolver()
	q := Query{Title: "Hello", Artist: "Adele", TrackID: "warm-1"}
	r.Prefetch(q)

	deadline := time.Now().Add(3 * time.Second)
	for !r.IsCached(q) {
		if time.Now().After(deadline) {
			t.Fatal("Prefetch did not warm the cache in time")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestPrefetch_SwallowsFailures(t *testing.T) {
	upstream := newFakeUpstream(t)
	// every strategy fails

	r := upstream.newResolver()
	q := Query{Title: "No Such Song", Artist: "Nobody", TrackID: "cold-1"}
	r.Prefetch(q)

	time.Sleep(200 * time.Millisecond)
	if r.IsCached(q) {
		t.Error("Failed prefetch must not touch the cache")
	}
}

func TestGetCached_NeverResolves(t *testing.T) {
	upstream := newFakeUpstream(t)

	r := upstream.newResolver()
	if got := r.GetCached(Query{Title: "Hello", Artist: "Adele"}); got != nil {
		t.Errorf("Expected nil for uncached query, got %+v", got)
	}
	if upstream.requestCount() != 0 {
		t.Errorf("GetCached must not hit the network, made %d calls", upstream.requestCount())
	}
}
