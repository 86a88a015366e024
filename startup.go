package main

import (
	"time"

	"lyrics-resolver-go/cache"
	"lyrics-resolver-go/circuitbreaker"
	"lyrics-resolver-go/logcolors"
	"lyrics-resolver-go/services/providers/lrclib"
	"lyrics-resolver-go/services/resolver"

	log "github.com/sirupsen/logrus"
)

// store backs the resolver and the /cache and /health endpoints
var store *cache.LyricsCache

func cacheStore() *cache.LyricsCache {
	return store
}

// buildResolver wires the cache, circuit breaker, lookup client and engine
// from configuration.
func buildResolver() (*resolver.Resolver, error) {
	cfg := conf.Configuration

	if cfg.CacheDBPath != "" {
		var err error
		store, err = cache.NewPersistent(cfg.CacheCapacity, cfg.CacheDBPath, conf.FeatureFlags.CacheCompression)
		if err != nil {
			return nil, err
		}
	} else {
		store = cache.New(cfg.CacheCapacity)
		log.Infof("%s In-memory cache initialized (capacity: %d)", logcolors.LogCacheInit, cfg.CacheCapacity)
	}

	breaker := circuitbreaker.New(circuitbreaker.Config{
		Name:      "lrclib",
		Threshold: cfg.CircuitBreakerThreshold,
		Cooldown:  time.Duration(cfg.CircuitBreakerCooldownSecs) * time.Second,
	})

	client := lrclib.NewClient(
		cfg.LyricsBaseURL,
		cfg.UserAgent,
		time.Duration(cfg.LyricsTimeoutSeconds)*time.Second,
		breaker,
	)

	log.Infof("%s Lyrics lookup service: %s (timeout: %ds)",
		logcolors.LogConfig, cfg.LyricsBaseURL, cfg.LyricsTimeoutSeconds)

	return resolver.New(client, store), nil
}
