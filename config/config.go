package config

import (
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	log "github.com/sirupsen/logrus"
)

var conf = mustLoad()

type Config struct {
	Configuration struct {
		Port                string `envconfig:"PORT" default:"8080"`
		RateLimitPerSecond  int    `envconfig:"RATE_LIMIT_PER_SECOND" default:"2"`
		RateLimitBurstLimit int    `envconfig:"RATE_LIMIT_BURST_LIMIT" default:"5"`
		CacheAccessToken    string `envconfig:"CACHE_ACCESS_TOKEN" default:""`

		// Lyrics lookup service
		LyricsBaseURL        string `envconfig:"LYRICS_BASE_URL" default:"https://lrclib.net"`
		LyricsTimeoutSeconds int    `envconfig:"LYRICS_TIMEOUT_SECONDS" default:"8"`
		UserAgent            string `envconfig:"USER_AGENT" default:"lyrics-resolver-go/1.0"`

		// Result cache
		CacheCapacity int    `envconfig:"CACHE_CAPACITY" default:"50"`
		CacheDBPath   string `envconfig:"CACHE_DB_PATH" default:""` // empty disables persistence

		CircuitBreakerThreshold    int `envconfig:"CIRCUIT_BREAKER_THRESHOLD" default:"5"`       // Consecutive failures before circuit opens
		CircuitBreakerCooldownSecs int `envconfig:"CIRCUIT_BREAKER_COOLDOWN_SECS" default:"300"` // Seconds to wait before retrying
	}

	FeatureFlags struct {
		CacheCompression bool `envconfig:"FF_CACHE_COMPRESSION" default:"true"`
	}
}

// load loads the configuration from the environment.
func load() (Config, error) {
	err := godotenv.Load()
	if err != nil {
		log.Warnf("Error loading env config: %v", err)
	}

	cfg := Config{}
	err = envconfig.Process("", &cfg)
	return cfg, err
}

func mustLoad() Config {
	c, err := load()
	if err != nil {
		log.WithError(err).Warnf("Unable to load configuration")
	}

	return c
}

func Get() Config {
	return conf
}
