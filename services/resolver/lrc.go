package resolver

import (
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// LRC timestamp line: [mm:ss.xx] trailing text. Lines that do not match
// (metadata headers like [ar:...], blank lines) are silently dropped.
var lrcLineRegex = regexp.MustCompile(`^\s*\[(\d+):(\d+(?:\.\d+)?)\]\s?(.*)$`)

// ParseSyncedLyrics parses raw LRC-format text into time-ordered lines.
// Out-of-order input is sorted (stable, so ties keep their original order).
// Zero matching lines just means "no synced lyrics available", never an
// error.
func ParseSyncedLyrics(raw string) []Line {
	var lines []Line

	for _, physical := range strings.Split(raw, "\n") {
		m := lrcLineRegex.FindStringSubmatch(physical)
		if m == nil {
			continue
		}
		minutes, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		seconds, err := strconv.ParseFloat(m[2], 64)
		if err != nil {
			continue
		}
		timestampMs := int64(minutes)*60000 + int64(math.Round(seconds*1000))
		if timestampMs < 0 {
			continue
		}
		lines = append(lines, Line{
			TimestampMs: timestampMs,
			Text:        strings.TrimSpace(m[3]),
		})
	}

	sort.SliceStable(lines, func(i, j int) bool {
		return lines[i].TimestampMs < lines[j].TimestampMs
	})
	return lines
}

// hasNonBlankLine reports whether any parsed line carries visible text.
func hasNonBlankLine(lines []Line) bool {
	for _, line := range lines {
		if strings.TrimSpace(line.Text) != "" {
			return true
		}
	}
	return false
}

// plainTextFromLines joins synced lines into a plain-text body, used when a
// record has synced lyrics but no plain variant.
func plainTextFromLines(lines []Line) string {
	parts := make([]string, len(lines))
	for i, line := range lines {
		parts[i] = line.Text
	}
	return strings.TrimSpace(strings.Join(parts, "\n"))
}
