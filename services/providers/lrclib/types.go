package lrclib

import "strings"

// Record is one candidate as returned by the lookup service. The exact
// endpoint returns a single object, the search endpoint an array of them.
type Record struct {
	ID           int64   `json:"id,omitempty"`
	TrackName    string  `json:"trackName"`
	ArtistName   string  `json:"artistName"`
	AlbumName    string  `json:"albumName,omitempty"`
	Duration     float64 `json:"duration"`
	Instrumental bool    `json:"instrumental"`
	PlainLyrics  string  `json:"plainLyrics"`
	SyncedLyrics string  `json:"syncedLyrics"`
}

// Plain returns the plain lyrics with the literal "null" string treated as
// absent. Some upstream decoders stringify JSON null instead of omitting it.
func (r *Record) Plain() string {
	return denull(r.PlainLyrics)
}

// Synced returns the raw LRC text, with the same "null" guard as Plain.
func (r *Record) Synced() string {
	return denull(r.SyncedLyrics)
}

// HasLyrics reports whether the record carries at least one non-blank
// lyric field.
func (r *Record) HasLyrics() bool {
	return strings.TrimSpace(r.Plain()) != "" || strings.TrimSpace(r.Synced()) != ""
}

func denull(s string) string {
	if strings.TrimSpace(s) == "null" {
		return ""
	}
	return s
}
