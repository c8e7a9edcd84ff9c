package extract

import (
	"errors"
	"fmt"

	"github.com/mattn/go-shellwords"

	"pokeflix/internal/media"
)

var (
	// ErrNoMarker means the string does not start with Marker.
	ErrNoMarker = errors.New("missing " + Marker + " marker")

	// ErrNoStream means the string carries no stream URL.
	ErrNoStream = errors.New("no stream URL")
)

// Parse splits a combined string produced by Result.String back into an
// episode. The stream URL must be present; series and title are optional.
func Parse(combined string) (media.Episode, error) {
	args, err := shellwords.Parse(combined)
	if err != nil {
		return media.Episode{}, fmt.Errorf("splitting arguments: %w", err)
	}
	if len(args) == 0 || args[0] != Marker {
		return media.Episode{}, ErrNoMarker
	}
	args = args[1:]

	if len(args) == 0 || !streamPattern.MatchString(args[0]) {
		return media.Episode{}, ErrNoStream
	}

	ep := media.Episode{StreamURL: args[0]}
	if len(args) > 1 {
		ep.Series = args[1]
	}
	if len(args) > 2 {
		ep.Title = args[2]
	}
	return ep, nil
}
