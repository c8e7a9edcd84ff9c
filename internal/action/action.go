// Package action runs one copy cycle: load the active document, extract the
// episode values, and place the combined string on the clipboard.
package action

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"pokeflix/internal/clipboard"
	"pokeflix/internal/extract"
	"pokeflix/internal/source"
)

// ResetDelay is how long a result label stays up before reverting to idle.
const ResetDelay = 2 * time.Second

// Outcome is the user-visible result of a cycle.
type Outcome int

const (
	Idle Outcome = iota
	Copied
	NotFound
	CopyFailed
	Error
)

// Label returns the button text for the outcome.
func (o Outcome) Label() string {
	switch o {
	case Copied:
		return "Copied!"
	case NotFound:
		return "Not Found"
	case CopyFailed:
		return "Copy Failed"
	case Error:
		return "Error!"
	default:
		return "Copy Value"
	}
}

func (o Outcome) String() string {
	switch o {
	case Idle:
		return "idle"
	case Copied:
		return "copied"
	case NotFound:
		return "not_found"
	case CopyFailed:
		return "copy_failed"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// Report describes a finished cycle.
type Report struct {
	Outcome Outcome
	Result  extract.Result
	Err     error
}

// Run executes a single cycle. It never retries; each call is independent.
//
// A page that yields nothing beyond the marker is reported as NotFound and the
// clipboard is left untouched.
func Run(ctx context.Context, src source.Source, clip clipboard.Writer) Report {
	logger := log.With().Str("component", "action").Str("source", src.Name()).Logger()

	doc, err := src.Load(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("loading document")
		return Report{Outcome: Error, Err: err}
	}

	result := extract.Extract(doc)
	if !result.Found() {
		logger.Info().Msg("no values were found on the page")
		return Report{Outcome: NotFound, Result: result}
	}

	combined := result.String()
	if err := clip.Write(ctx, combined); err != nil {
		if !errors.Is(err, clipboard.ErrWriteFailed) {
			err = errors.Join(clipboard.ErrWriteFailed, err)
		}
		logger.Error().Err(err).Str("clipboard", clip.Name()).Msg("failed to copy")
		return Report{Outcome: CopyFailed, Result: result, Err: err}
	}

	logger.Info().Str("clipboard", clip.Name()).Str("value", combined).Msg("copied")
	return Report{Outcome: Copied, Result: result}
}
