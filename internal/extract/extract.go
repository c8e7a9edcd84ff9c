// Package extract pulls the stream URL and header text out of a page and
// combines them into the argument string consumed by the download workflow.
package extract

import (
	"regexp"
	"strings"

	"github.com/rs/zerolog/log"

	"pokeflix/internal/media"
	"pokeflix/internal/page"
)

// Marker is the first, unquoted token of every combined string.
const Marker = "script.py"

const (
	headerSelector    = "div.page-header > h2"
	paragraphSelector = "p"
	subtitleSelector  = "small"
)

// streamPattern matches the HLS playlist URL embedded in inline scripts.
// The body is lazy so the match ends at the first playlist.m3u8.
var streamPattern = regexp.MustCompile(`https?://[^\s"'<>]+?playlist\.m3u8`)

// Result holds the values discovered on a page. Empty fields were not found.
type Result struct {
	StreamURL string
	Series    string
	Title     string
}

// Extract searches doc for the stream URL and the header text. It never
// modifies doc and never fails; values that cannot be found are left empty.
func Extract(doc page.Document) Result {
	var r Result

	for i, script := range doc.Scripts() {
		if m := streamPattern.FindString(script); m != "" {
			r.StreamURL = m
			log.Debug().Int("script", i).Str("url", m).Msg("stream URL found")
			break
		}
	}

	header, ok := doc.Root().FindFirst(headerSelector)
	if !ok {
		log.Debug().Str("selector", headerSelector).Msg("header not found")
		return r
	}

	// The clone loses its paragraph and subtitle so only the title text remains.
	// The subtitle is looked up first so it is the same <small> reported as
	// Title; if it sits inside the paragraph it leaves with it.
	clone := header.Clone()
	small, hasSmall := clone.FindFirst(subtitleSelector)
	if p, ok := clone.FindFirst(paragraphSelector); ok {
		clone.RemoveChild(p)
	}
	if hasSmall {
		clone.RemoveChild(small)
	}
	r.Series = strings.TrimSpace(clone.Text())

	if small, ok := header.FindFirst(subtitleSelector); ok {
		r.Title = strings.TrimSpace(small.Text())
	}

	return r
}

// Found reports whether anything beyond the marker was discovered.
func (r Result) Found() bool {
	return r.StreamURL != "" || r.Series != "" || r.Title != ""
}

// Tokens returns the marker followed by each discovered value, quoted, in
// discovery order: stream URL, series, title.
func (r Result) Tokens() []string {
	tokens := []string{Marker}
	for _, v := range []string{r.StreamURL, r.Series, r.Title} {
		if v != "" {
			tokens = append(tokens, Quote(v))
		}
	}
	return tokens
}

// String returns the combined, space-separated argument string.
func (r Result) String() string {
	return strings.Join(r.Tokens(), " ")
}

// Episode converts the result for the download and player packages.
func (r Result) Episode() media.Episode {
	return media.Episode{
		StreamURL: r.StreamURL,
		Series:    r.Series,
		Title:     r.Title,
	}
}

var quoteEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// Quote wraps v in double quotes, escaping embedded quotes and backslashes.
func Quote(v string) string {
	return `"` + quoteEscaper.Replace(v) + `"`
}
