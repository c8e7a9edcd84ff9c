// Package player launches a media player on an extracted stream.
// All player invocations use exec.CommandContext with explicit argument
// slices; page text never passes through a shell.
package player

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"

	"pokeflix/internal/media"
	"pokeflix/internal/sanitize"
)

// Player is the interface for media player implementations.
type Player interface {
	// Play blocks until the player exits.
	Play(ctx context.Context, ep media.Episode) error

	// Name returns the player name.
	Name() string

	// Available checks if the player binary exists in PATH.
	Available() bool
}

// New creates a player by name.
func New(name string) Player {
	switch name {
	case "mpv":
		return &MPV{}
	case "vlc":
		return &VLC{}
	case "iina", "celluloid":
		return &Generic{name: name}
	default:
		return &MPV{} // Default to mpv
	}
}

// run starts a player attached to the terminal. A non-zero exit is how most
// players report the user closing the window, so it is not an error.
func run(ctx context.Context, name string, ep media.Episode, args []string) error {
	if err := sanitize.StreamURL(ep.StreamURL); err != nil {
		return fmt.Errorf("invalid stream URL: %w", err)
	}

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Stdin = os.Stdin

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil
		}
		return fmt.Errorf("running %s: %w", name, err)
	}
	return nil
}
