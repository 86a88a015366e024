package resolver

import "strings"

// GenerateVariations produces the ordered, deduplicated list of queries to
// try for q. Order encodes priority: the most specific, most likely correct
// queries come first and progressively looser fallbacks last.
func GenerateVariations(q Query) []Variation {
	cleanedTitle := CleanTitle(q.Title)
	cleanedArtist := CleanArtist(q.Artist)
	coreName := CoreSongName(q.Title)

	var (
		variations []Variation
		seen       = make(map[Variation]struct{})
	)
	add := func(v Variation) {
		v.Title = strings.TrimSpace(v.Title)
		v.Artist = strings.TrimSpace(v.Artist)
		if v.Title == "" {
			return
		}
		if _, dup := seen[v]; dup {
			return
		}
		seen[v] = struct{}{}
		variations = append(variations, v)
	}

	// 1. exact lookup with the cleaned pair
	add(Variation{Title: cleanedTitle, Artist: cleanedArtist, Strategy: StrategyExactMatch})

	// 2. fuzzy search with the cleaned pair
	add(Variation{Title: cleanedTitle, Artist: cleanedArtist, Strategy: StrategyFuzzySearch})

	// 3. fuzzy search with the aggressively extracted core name
	if coreName != cleanedTitle {
		add(Variation{Title: coreName, Artist: cleanedArtist, Strategy: StrategyFuzzySearch})
	}

	// 4. title alone, for uploads where the channel is not the artist
	add(Variation{Title: cleanedTitle, Strategy: StrategyFuzzyTitleOnly})

	// 5. artist embedded in the title ("Artist - Song")
	if artist, song, ok := SplitArtistTitle(q.Title); ok {
		add(Variation{Title: song, Artist: artist, Strategy: StrategyFuzzySearch})
		add(Variation{Title: song, Artist: artist, Strategy: StrategyExactMatch})
	}

	// 6. core name alone
	if coreName != cleanedTitle {
		add(Variation{Title: coreName, Strategy: StrategyFuzzyTitleOnly})
	}

	// 7. the raw, uncleaned title as a last resort
	if raw := strings.TrimSpace(q.Title); raw != cleanedTitle {
		add(Variation{Title: raw, Strategy: StrategyFuzzyTitleOnly})
	}

	// 8. cleaned title with any feat. clause removed
	if noFeat := StripFeatClause(cleanedTitle); noFeat != cleanedTitle {
		add(Variation{Title: noFeat, Artist: cleanedArtist, Strategy: StrategyFuzzySearch})
	}

	return variations
}
