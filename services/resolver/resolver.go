package resolver

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"strings"
	"time"

	"lyrics-resolver-go/cache"
	"lyrics-resolver-go/logcolors"
	"lyrics-resolver-go/services/providers/lrclib"

	log "github.com/sirupsen/logrus"
	"github.com/xrash/smetrics"
)

var (
	errNoCandidates   = errors.New("no candidates returned")
	errNoUsableLyrics = errors.New("no usable lyrics in candidates")
)

// prefetchTimeout bounds background warm-up resolutions.
const prefetchTimeout = 30 * time.Second

// Resolver turns a noisy (title, artist, duration) triple into lyrics by
// trying progressively looser query variations against the lookup service
// and caching whatever resolves. Safe for concurrent use; the cache is the
// only shared state. Concurrent requests for the same uncached key are not
// deduplicated.
type Resolver struct {
	client  *lrclib.Client
	store   *cache.LyricsCache
	weights ScoreWeights
	source  string
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithScoreWeights overrides the default ranking weights.
func WithScoreWeights(w ScoreWeights) Option {
	return func(r *Resolver) { r.weights = w }
}

// WithSourceName overrides the source identifier stamped on results.
func WithSourceName(name string) Option {
	return func(r *Resolver) { r.source = name }
}

// New creates a resolver around a lookup client and a result cache. The
// cache is injected rather than global so tests get a fresh one each run.
func New(client *lrclib.Client, store *cache.LyricsCache, opts ...Option) *Resolver {
	r := &Resolver{
		client:  client,
		store:   store,
		weights: DefaultScoreWeights(),
		source:  lrclib.SourceName,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve finds the best lyrics for q. Returns ErrNotFound only after every
// generated variation has been tried; individual strategy failures are
// logged and skipped, never surfaced.
func (r *Resolver) Resolve(ctx context.Context, q Query) (*Result, error) {
	key := q.CacheKey()

	if cached, ok := r.lookupCache(key); ok {
		log.Infof("%s Hit for key %q", logcolors.LogCacheLyrics, key)
		return cached, nil
	}

	variations := GenerateVariations(q)
	log.Infof("%s Resolving %q / %q (%d variations)", logcolors.LogSearch, q.Title, q.Artist, len(variations))

	for _, v := range variations {
		result, err := r.tryVariation(ctx, q, v)
		if err != nil {
			log.Debugf("%s %s %q / %q: %v", logcolors.LogFallback, v.Strategy, v.Title, v.Artist, err)
			continue
		}
		log.Infof("%s Resolved %q via %s query %q (confidence %.2f)",
			logcolors.LogSuccess, key, v.Strategy, v.Title, result.MatchScore)
		r.storeResult(key, result)
		return result, nil
	}

	log.Infof("%s All variations exhausted for %q", logcolors.LogLyrics, key)
	return nil, ErrNotFound
}

// ResolveAsync runs Resolve on a background goroutine and delivers the
// outcome on the returned channel. The channel is buffered, so discarding
// it never leaks the worker.
func (r *Resolver) ResolveAsync(ctx context.Context, q Query) <-chan Outcome {
	ch := make(chan Outcome, 1)
	go func() {
		result, err := r.Resolve(ctx, q)
		ch <- Outcome{Result: result, Err: err}
		close(ch)
	}()
	return ch
}

// Prefetch warms the cache for q in the background. Errors are swallowed
// entirely; a failed prefetch leaves the cache untouched so a later real
// request retries from scratch.
func (r *Resolver) Prefetch(q Query) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), prefetchTimeout)
		defer cancel()
		if _, err := r.Resolve(ctx, q); err != nil {
			log.Debugf("%s Discarded failure for %q: %v", logcolors.LogPrefetch, q.CacheKey(), err)
		}
	}()
}

// IsCached reports whether q's key is cached, without side effects.
func (r *Resolver) IsCached(q Query) bool {
	return r.store.Contains(q.CacheKey())
}

// GetCached returns the cached result for q, or nil. Never triggers
// resolution.
func (r *Resolver) GetCached(q Query) *Result {
	result, ok := r.lookupCache(q.CacheKey())
	if !ok {
		return nil
	}
	return result
}

func (r *Resolver) lookupCache(key string) (*Result, bool) {
	raw, ok := r.store.Get(key)
	if !ok {
		return nil, false
	}
	var result Result
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		log.Warnf("%s Dropping undecodable entry for key %q: %v", logcolors.LogCache, key, err)
		r.store.Delete(key)
		return nil, false
	}
	return &result, true
}

// storeResult writes through to the cache. Only fully resolved, displayable
// results ever reach this point.
func (r *Resolver) storeResult(key string, result *Result) {
	data, err := json.Marshal(result)
	if err != nil {
		log.Errorf("%s Failed to marshal result for key %q: %v", logcolors.LogCacheLyrics, key, err)
		return
	}
	r.store.Set(key, string(data))
}

// tryVariation executes one variation. Every failure class (transport,
// bad status, empty body, no candidates, nothing usable) comes back as a
// plain error meaning "move on to the next variation".
func (r *Resolver) tryVariation(ctx context.Context, q Query, v Variation) (*Result, error) {
	switch v.Strategy {
	case StrategyExactMatch:
		return r.tryExact(ctx, q, v)
	default:
		return r.tryFuzzy(ctx, q, v)
	}
}

func (r *Resolver) tryExact(ctx context.Context, q Query, v Variation) (*Result, error) {
	durationSec := 0
	if q.DurationMs > 0 {
		durationSec = int(math.Round(float64(q.DurationMs) / 1000.0))
	}

	rec, err := r.client.Get(ctx, v.Title, v.Artist, durationSec)
	if err != nil && durationSec > 0 {
		// retry once without the duration constraint for a looser match
		rec, err = r.client.Get(ctx, v.Title, v.Artist, 0)
	}
	if err != nil {
		return nil, err
	}
	if rec.Instrumental || !rec.HasLyrics() {
		return nil, errNoUsableLyrics
	}
	return r.buildResult(v, rec)
}

func (r *Resolver) tryFuzzy(ctx context.Context, q Query, v Variation) (*Result, error) {
	query := v.Title
	if v.Artist != "" {
		query = v.Title + " " + v.Artist
	}

	records, err := r.client.Search(ctx, query)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, errNoCandidates
	}

	best, score := rankCandidates(records, float64(q.DurationMs)/1000.0, r.weights)
	if best == nil {
		return nil, errNoUsableLyrics
	}
	log.Debugf("%s %q by %q (score %d, %d candidates)",
		logcolors.LogBestMatch, best.TrackName, best.ArtistName, score, len(records))

	return r.buildResult(v, best)
}

// buildResult parses the winning record into the cacheable artifact and
// enforces the displayable-content invariant.
func (r *Resolver) buildResult(v Variation, rec *lrclib.Record) (*Result, error) {
	result := &Result{Source: r.source}

	if synced := ParseSyncedLyrics(rec.Synced()); hasNonBlankLine(synced) {
		result.SyncedLines = synced
	}

	result.PlainText = strings.TrimSpace(rec.Plain())
	if result.PlainText == "" && result.SyncedLines != nil {
		result.PlainText = plainTextFromLines(result.SyncedLines)
	}

	if !result.HasDisplayableContent() {
		return nil, errNoUsableLyrics
	}

	result.MatchScore = matchConfidence(v.Title, v.Artist, rec)
	return result, nil
}

// matchConfidence compares the winning record against the query with
// Jaro-Winkler similarity. Informational only: selection has already
// happened by the time this runs.
func matchConfidence(title, artist string, rec *lrclib.Record) float64 {
	titleSim := smetrics.JaroWinkler(strings.ToLower(title), strings.ToLower(rec.TrackName), 0.7, 4)
	if artist == "" {
		return titleSim
	}
	artistSim := smetrics.JaroWinkler(strings.ToLower(artist), strings.ToLower(rec.ArtistName), 0.7, 4)
	return 0.6*titleSim + 0.4*artistSim
}
