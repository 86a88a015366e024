package resolver

import (
	"math"
	"strings"
	"unicode"

	"lyrics-resolver-go/services/providers/lrclib"
)

// ScoreWeights holds the additive ranking weights. The exact constants are
// tunable, but the relative ordering must hold: synced lyrics outweigh
// everything else, script bias outweighs the duration tiers, and the length
// bonus stays mild.
type ScoreWeights struct {
	Synced         int // synced lyrics present and non-blank
	DurationClose  int // |diff| <= 3s
	DurationNear   int // |diff| <= 10s
	DurationLoose  int // |diff| <= 30s
	LengthPerChars int // plain-lyrics characters per +1
	LengthCap      int // cap on the length bonus
	LatinScript    int // Latin-letter fraction above 0.5
}

// DefaultScoreWeights returns the reference weighting.
func DefaultScoreWeights() ScoreWeights {
	return ScoreWeights{
		Synced:         15,
		DurationClose:  10,
		DurationNear:   7,
		DurationLoose:  3,
		LengthPerChars: 100,
		LengthCap:      5,
		LatinScript:    8,
	}
}

// scoreCandidate computes the additive score for one candidate.
// targetDurationSec <= 0 disables the duration proximity bonus.
func (w ScoreWeights) scoreCandidate(rec *lrclib.Record, targetDurationSec float64) int {
	score := 0

	if strings.TrimSpace(rec.Synced()) != "" {
		score += w.Synced
	}

	if targetDurationSec > 0 && rec.Duration > 0 {
		diff := math.Abs(rec.Duration - targetDurationSec)
		switch {
		case diff <= 3:
			score += w.DurationClose
		case diff <= 10:
			score += w.DurationNear
		case diff <= 30:
			score += w.DurationLoose
		}
	}

	lengthBonus := len(rec.Plain()) / w.LengthPerChars
	if lengthBonus > w.LengthCap {
		lengthBonus = w.LengthCap
	}
	score += lengthBonus

	text := rec.Plain()
	if strings.TrimSpace(text) == "" {
		text = rec.Synced()
	}
	if latinFraction(text) > 0.5 {
		score += w.LatinScript
	}

	return score
}

// rankCandidates picks the best usable candidate. Instrumental records and
// records with no lyric fields are skipped. Ties keep the first-seen
// candidate in original response order. Returns nil when nothing is usable.
func rankCandidates(records []lrclib.Record, targetDurationSec float64, w ScoreWeights) (*lrclib.Record, int) {
	var best *lrclib.Record
	bestScore := -1

	for i := range records {
		rec := &records[i]
		if rec.Instrumental || !rec.HasLyrics() {
			continue
		}
		score := w.scoreCandidate(rec, targetDurationSec)
		if score > bestScore {
			bestScore = score
			best = rec
		}
	}

	return best, bestScore
}

// latinFraction returns the share of Latin-script letters among all letters
// in s. Non-letter runes are ignored.
func latinFraction(s string) float64 {
	var letters, latin int
	for _, r := range s {
		if !unicode.IsLetter(r) {
			continue
		}
		letters++
		if unicode.Is(unicode.Latin, r) {
			latin++
		}
	}
	if letters == 0 {
		return 0
	}
	return float64(latin) / float64(letters)
}
