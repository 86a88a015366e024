package resolver

import (
	"errors"
	"strings"
)

// ErrNotFound is the terminal failure: every generated query variation was
// tried and none produced displayable lyrics.
var ErrNotFound = errors.New("lyrics not found")

// Strategy selects which upstream endpoint a query variation targets.
type Strategy int

const (
	// StrategyExactMatch hits the exact-lookup endpoint with separate
	// title/artist/duration parameters.
	StrategyExactMatch Strategy = iota
	// StrategyFuzzySearch hits the free-text search endpoint with title
	// and artist combined into one query string.
	StrategyFuzzySearch
	// StrategyFuzzyTitleOnly hits the search endpoint with the title alone,
	// for uploads where the channel name is not the recording artist.
	StrategyFuzzyTitleOnly
)

func (s Strategy) String() string {
	switch s {
	case StrategyExactMatch:
		return "exact"
	case StrategyFuzzySearch:
		return "fuzzy"
	case StrategyFuzzyTitleOnly:
		return "fuzzy-title-only"
	default:
		return "unknown"
	}
}

// Query is the caller-supplied description of the track to resolve.
// Title and artist are taken as-is (usually noisy video metadata).
type Query struct {
	Title      string
	Artist     string
	DurationMs int    // 0 when unknown
	TrackID    string // opaque; used as cache key when present
}

// CacheKey derives the cache key: the track id when the caller supplied
// one, else the raw "title|artist" pair. Deliberately unnormalized so
// repeated identical calls hit the cache before any cleaning runs.
func (q Query) CacheKey() string {
	if q.TrackID != "" {
		return q.TrackID
	}
	return q.Title + "|" + q.Artist
}

// Variation is one candidate query to try against the lookup service.
type Variation struct {
	Title    string
	Artist   string // empty for title-only strategies
	Strategy Strategy
}

// Line is a single time-synced lyric line. Text may be empty for
// instrumental breaks.
type Line struct {
	TimestampMs int64  `json:"timestampMs"`
	Text        string `json:"text"`
}

// Result is the resolved, cacheable artifact.
type Result struct {
	// PlainText is always populated when any usable lyric was found.
	PlainText string `json:"plainText"`
	// SyncedLines is present only when synced data parsed to at least one
	// non-blank line, ordered ascending by timestamp.
	SyncedLines []Line `json:"syncedLines,omitempty"`
	// Source names the lookup service that produced the result.
	Source string `json:"source"`
	// MatchScore is an informational confidence value in [0,1] comparing
	// the winning candidate against the query. It plays no part in
	// candidate selection.
	MatchScore float64 `json:"matchScore,omitempty"`
}

// HasDisplayableContent reports whether at least one non-blank line exists
// in either representation. Results failing this check are never returned
// or cached.
func (r *Result) HasDisplayableContent() bool {
	if r == nil {
		return false
	}
	for _, line := range strings.Split(r.PlainText, "\n") {
		if strings.TrimSpace(line) != "" {
			return true
		}
	}
	for _, line := range r.SyncedLines {
		if strings.TrimSpace(line.Text) != "" {
			return true
		}
	}
	return false
}

// Outcome carries an asynchronous resolution result.
type Outcome struct {
	Result *Result
	Err    error
}
