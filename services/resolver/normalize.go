package resolver

import (
	"regexp"
	"strings"
)

var (
	// Bracketed presentation tags: "(Official Video)", "[HD]", "(Lyrical)",
	// "(From "Movie")", "(Original Motion Picture Soundtrack)" and friends.
	annotationRegexes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\s*[(\[][^()\[\]]*\b(?:official|music\s+video|lyric(?:s|al)?(?:\s+video)?|visuali[sz]er|audio|video|mv|m/v|hd|full\s+hd|4k|8k|2160p|1080p|720p|full\s+(?:song|video)|original\s+motion\s+picture\s+soundtrack|soundtrack)\b[^()\[\]]*[)\]]`),
		regexp.MustCompile(`(?i)\s*\(\s*from\s+["“'][^)]*\)`),
	}

	// "(feat. X)" / "[ft X]" variants, normalized to a bare " feat. X"
	parenFeatRegex = regexp.MustCompile(`(?i)\s*[(\[]\s*(?:featuring|feat\.?|ft\.?)\s+([^)\]]*)[)\]]`)
	// bare "ft." / "featuring" variants mid-title
	bareFeatRegex = regexp.MustCompile(`(?i)\s+(?:featuring|feat\.?|ft\.?)\s+`)

	// trailing "- Official ..." suffixes that survive bracket stripping
	trailingOfficialRegex = regexp.MustCompile(`(?i)\s*-\s*official\b.*$`)

	// channel suffixes on artist names: "- Topic", "VEVO", "Official", "Music"
	artistSuffixRegex = regexp.MustCompile(`(?i)(?:\s*-\s*topic|\s?vevo|\s+official|\s+music(?:\s+channel)?)\s*$`)

	whitespaceRegex = regexp.MustCompile(`\s+`)

	// stoplist for pipe-separated title segments (noise around the song name)
	segmentNoiseRegex = regexp.MustCompile(`(?i)\b(?:official|full\s+video|video\s+song|lyrics?|lyric\s+video|audio|hd|4k|movie|film|soundtrack)\b`)

	// suffix noise deciding which side of an "A - B" split is the song
	dashNoiseRegex = regexp.MustCompile(`(?i)\b(?:official|video|audio|full\s+song)\b`)

	// a canonical " feat. ..." clause, removed for the loosest fallback query
	featClauseRegex = regexp.MustCompile(`(?i)\s*[(\[]?\s*feat\.\s+[^()\[\]|]*[)\]]?`)
)

// titleSeparators are tried in order when looking for an embedded
// "Artist - Song" prefix.
var titleSeparators = []string{" - ", " – ", " — ", ": "}

// CleanTitle strips presentation noise from a raw video title without
// destroying the song name. Pure and idempotent; a title with nothing to
// strip comes back unchanged aside from whitespace collapse.
func CleanTitle(title string) string {
	t := title

	// drop trailing pipe-separated channel/promo segments
	if i := strings.Index(t, "|"); i >= 0 {
		t = t[:i]
	}

	for _, re := range annotationRegexes {
		t = re.ReplaceAllString(t, " ")
	}

	t = trailingOfficialRegex.ReplaceAllString(t, "")
	t = parenFeatRegex.ReplaceAllString(t, " feat. $1")
	t = bareFeatRegex.ReplaceAllString(t, " feat. ")

	t = whitespaceRegex.ReplaceAllString(t, " ")
	return strings.TrimSpace(t)
}

// CleanArtist collapses whitespace and strips channel-name suffixes
// ("- Topic", "VEVO", "Official", "Music") from an uploader/artist string.
func CleanArtist(artist string) string {
	a := strings.TrimSpace(whitespaceRegex.ReplaceAllString(artist, " "))

	for {
		stripped := strings.TrimSpace(artistSuffixRegex.ReplaceAllString(a, ""))
		if stripped == "" || stripped == a {
			break
		}
		a = stripped
	}
	return a
}

// CoreSongName aggressively reduces a title to the probable song name.
// Best-effort only: it widens the search net and is never trusted as
// ground truth.
func CoreSongName(title string) string {
	working := strings.TrimSpace(title)

	// Pipe segments: keep the first one that is not pure promo noise.
	// Each segment is cleaned first so a tag like "(Official Video)" does
	// not disqualify the segment that carries the actual song name.
	if segments := strings.Split(working, "|"); len(segments) > 1 {
		for _, segment := range segments {
			cleaned := CleanTitle(segment)
			if cleaned == "" {
				continue
			}
			if segmentNoiseRegex.MatchString(cleaned) {
				continue
			}
			working = cleaned
			break
		}
	}

	// Single "A - B" split: figure out which side is the song.
	if parts := strings.Split(working, " - "); len(parts) == 2 {
		first := strings.TrimSpace(parts[0])
		second := strings.TrimSpace(parts[1])
		switch {
		case dashNoiseRegex.MatchString(second):
			working = first
		case wordCount(first) <= 2 && wordCount(second) >= 2:
			// short prefix, substantial suffix: assume "Artist - Song"
			working = second
		default:
			working = first
		}
	}

	return CleanTitle(working)
}

// SplitArtistTitle detects a leading artist name embedded in the title
// ("Arijit Singh - Tum Hi Ho"). Returns ok=false when no separator splits
// the title into a plausible artist/song pair.
func SplitArtistTitle(title string) (artist, song string, ok bool) {
	for _, sep := range titleSeparators {
		parts := strings.Split(title, sep)
		if len(parts) != 2 {
			continue
		}
		candidate := strings.TrimSpace(parts[0])
		rest := strings.TrimSpace(parts[1])
		if candidate == "" || rest == "" {
			continue
		}
		if wordCount(candidate) > 4 {
			continue
		}
		cleaned := CleanTitle(rest)
		if cleaned == "" {
			continue
		}
		return candidate, cleaned, true
	}
	return "", "", false
}

// StripFeatClause removes a canonical " feat. ..." clause from a cleaned
// title. Returns the input unchanged when no clause is present.
func StripFeatClause(title string) string {
	t := featClauseRegex.ReplaceAllString(title, " ")
	t = whitespaceRegex.ReplaceAllString(t, " ")
	return strings.TrimSpace(t)
}

func wordCount(s string) int {
	return len(strings.Fields(s))
}
