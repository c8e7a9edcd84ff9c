package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"pokeflix/internal/action"
	"pokeflix/internal/source"
	"pokeflix/internal/ui"
)

// popupRun is the default command: the one-button popup.
func popupRun(cmd *cobra.Command, args []string) error {
	arg := sourceArg(args)
	interactive, err := popupMode(arg, term.IsTerminal(int(os.Stdin.Fd())))
	if err != nil {
		return err
	}
	if !interactive {
		log.Debug().Msg("stdin is not a terminal, running a single copy cycle")
		return copyRun(cmd, args)
	}

	clip, err := newClipboard()
	if err != nil {
		return err
	}
	if clip.Name() == "stdout" {
		return fmt.Errorf("the stdout clipboard would draw over the popup; use 'pokeflix copy' instead")
	}

	// Log lines would tear the popup; keep them in a file when debugging.
	if cfg.Debug {
		path := filepath.Join(os.TempDir(), "pokeflix-debug.log")
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
		if err != nil {
			return fmt.Errorf("opening debug log: %w", err)
		}
		defer f.Close()
		log.Logger = zerolog.New(f).With().Timestamp().Logger()
		fmt.Fprintf(os.Stderr, "debug log: %s\n", path)
	} else {
		log.Logger = zerolog.Nop()
	}

	src := source.FromArg(arg, cfg.BrowserURL)
	return ui.Run(cmd.Context(), "pokeflix · "+src.Name(), func(ctx context.Context) action.Report {
		return action.Run(ctx, src, clip)
	})
}

// popupMode decides whether the popup can run. A piped stdin always falls
// back to a single copy cycle, which is also how "-" pages are read.
func popupMode(arg string, stdinTerminal bool) (interactive bool, err error) {
	if !stdinTerminal {
		return false, nil
	}
	if arg == "-" {
		return false, fmt.Errorf("stdin is a terminal; pipe a page into 'pokeflix -' or pass a file")
	}
	return true, nil
}
