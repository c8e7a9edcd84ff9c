// Package media defines shared types for the pokeflix application.
package media

import "fmt"

// Episode is what a page yields: the stream to fetch and where to file it.
type Episode struct {
	StreamURL string // HLS master playlist (…playlist.m3u8)
	Series    string // Header text without its paragraph
	Title     string // Header <small> text
}

// DisplayTitle returns "Series - Title", dropping empty parts.
func (e Episode) DisplayTitle() string {
	switch {
	case e.Series != "" && e.Title != "":
		return fmt.Sprintf("%s - %s", e.Series, e.Title)
	case e.Series != "":
		return e.Series
	case e.Title != "":
		return e.Title
	default:
		return "untitled"
	}
}
