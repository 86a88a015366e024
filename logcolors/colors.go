package logcolors

// ANSI color codes for log prefixes
const (
	Reset  = "\033[0m"
	Green  = "\033[32m"
	Blue   = "\033[34m"
	Purple = "\033[35m"
	Cyan   = "\033[36m"
	Red    = "\033[31m"
)

// Cache-related log prefixes
const (
	LogCacheInit   = Blue + "[Cache:Init]" + Reset
	LogCache       = Blue + "[Cache]" + Reset
	LogCacheLyrics = Green + "[Cache:Lyrics]" + Reset
	LogCacheEvict  = Cyan + "[Cache:Evict]" + Reset
)

// Resolver log prefixes
const (
	LogRequest   = Purple + "[Request]" + Reset
	LogSearch    = Blue + "[Search]" + Reset
	LogHTTP      = Cyan + "[HTTP]" + Reset
	LogMatch     = Green + "[Match]" + Reset
	LogSuccess   = Green + "[Success]" + Reset
	LogLyrics    = Blue + "[Lyrics]" + Reset
	LogBestMatch = Green + "[Best Match]" + Reset
	LogFallback  = Cyan + "[Fallback]" + Reset
	LogPrefetch  = Cyan + "[Prefetch]" + Reset
	LogWarning   = Red + "[Warning]" + Reset
)

// Server/Init log prefixes
const (
	LogServer    = Green + "[Server]" + Reset
	LogConfig    = Cyan + "[Config]" + Reset
	LogRateLimit = Purple + "[RateLimit]" + Reset
)

// CircuitBreakerPrefix returns a colored circuit breaker prefix with the given name
func CircuitBreakerPrefix(name string) string {
	return Purple + "[CircuitBreaker:" + name + "]" + Reset
}
