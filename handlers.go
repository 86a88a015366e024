package main

import (
	"errors"
	"net/http"
	"strconv"

	"lyrics-resolver-go/logcolors"
	"lyrics-resolver-go/services/resolver"

	log "github.com/sirupsen/logrus"
)

// queryFromRequest builds a resolver query from request parameters.
// Short and long parameter aliases are both accepted.
func queryFromRequest(r *http.Request) resolver.Query {
	title := r.URL.Query().Get("s") + r.URL.Query().Get("song") + r.URL.Query().Get("title")
	artist := r.URL.Query().Get("a") + r.URL.Query().Get("artist")
	durationStr := r.URL.Query().Get("d") + r.URL.Query().Get("duration")
	trackID := r.URL.Query().Get("id") + r.URL.Query().Get("trackId")

	durationMs := 0
	if durationStr != "" {
		if parsed, err := strconv.Atoi(durationStr); err == nil && parsed > 0 {
			durationMs = parsed
		}
	}

	return resolver.Query{
		Title:      title,
		Artist:     artist,
		DurationMs: durationMs,
		TrackID:    trackID,
	}
}

func getLyrics(w http.ResponseWriter, r *http.Request) {
	q := queryFromRequest(r)
	if q.Title == "" && q.Artist == "" {
		http.Error(w, "Song title or artist name not provided", http.StatusUnprocessableEntity)
		return
	}

	cacheStatus := "MISS"
	if engine.IsCached(q) {
		cacheStatus = "HIT"
	}

	result, err := engine.Resolve(r.Context(), q)
	if err != nil {
		if errors.Is(err, resolver.ErrNotFound) {
			Respond(w).SetCacheStatus(cacheStatus).Status(http.StatusNotFound, map[string]interface{}{
				"error": "Lyrics not available for this track",
			})
			return
		}
		log.Errorf("%s Resolution failed: %v", logcolors.LogRequest, err)
		Respond(w).Status(http.StatusInternalServerError, map[string]interface{}{
			"error": err.Error(),
		})
		return
	}

	Respond(w).SetCacheStatus(cacheStatus).SetSource(result.Source).JSON(result)
}

// prefetchLyrics warms the cache in the background; the outcome is never
// reported to the caller.
func prefetchLyrics(w http.ResponseWriter, r *http.Request) {
	q := queryFromRequest(r)
	if q.Title == "" && q.Artist == "" {
		http.Error(w, "Song title or artist name not provided", http.StatusUnprocessableEntity)
		return
	}

	engine.Prefetch(q)
	Respond(w).Status(http.StatusAccepted, map[string]interface{}{
		"status": "prefetch scheduled",
	})
}

// getCachedLyrics reads the cache directly without ever triggering a
// resolution.
func getCachedLyrics(w http.ResponseWriter, r *http.Request) {
	q := queryFromRequest(r)
	if q.CacheKey() == "|" {
		http.Error(w, "No cache key derivable from request", http.StatusUnprocessableEntity)
		return
	}

	result := engine.GetCached(q)
	if result == nil {
		Respond(w).SetCacheStatus("MISS").Status(http.StatusNotFound, map[string]interface{}{
			"error": "Not cached",
		})
		return
	}

	Respond(w).SetCacheStatus("HIT").SetSource(result.Source).JSON(result)
}

func getCacheDump(w http.ResponseWriter, r *http.Request) {
	// Token-guarded: cache contents can reveal what users listened to
	if conf.Configuration.CacheAccessToken == "" ||
		r.Header.Get("Authorization") != conf.Configuration.CacheAccessToken {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	hits, misses, numKeys, sizeKB := cacheStore().Stats()

	dump := CacheDumpResponse{
		NumberOfKeys: numKeys,
		SizeInKB:     sizeKB,
		Performance: CachePerformance{
			Hits:    hits,
			Misses:  misses,
			HitRate: hitRate(hits, misses),
		},
	}
	cacheStore().Range(func(key, value string) bool {
		dump.Cache = append(dump.Cache, CacheDumpEntry{Key: key, Value: value})
		return true
	})

	Respond(w).JSON(dump)
}

func getHealthStatus(w http.ResponseWriter, r *http.Request) {
	hits, misses, numKeys, _ := cacheStore().Stats()

	Respond(w).JSON(map[string]interface{}{
		"status": "ok",
		"cache": map[string]interface{}{
			"keys":     numKeys,
			"hits":     hits,
			"misses":   misses,
			"hit_rate": hitRate(hits, misses),
		},
	})
}

func helpHandler(w http.ResponseWriter, r *http.Request) {
	Respond(w).JSON(map[string]interface{}{
		"help": "Use /getLyrics to resolve lyrics for a song. Provide the title and artist as query parameters, " +
			"optionally with duration in milliseconds and a stable track id. " +
			"Example: /getLyrics?s=Shape%20of%20You&a=Ed%20Sheeran&d=233712&id=abc123. " +
			"Use /prefetch with the same parameters to warm the cache, and /cached to read without resolving.",
	})
}

func hitRate(hits, misses uint64) float64 {
	total := hits + misses
	if total == 0 {
		return 0
	}
	return float64(hits) / float64(total) * 100
}
