package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"pokeflix/internal/action"
	"pokeflix/internal/source"
)

var copyCmd = &cobra.Command{
	Use:   "copy [page.html | - | browser]",
	Short: "Run one copy cycle without the popup",
	Args:  cobra.MaximumNArgs(1),
	RunE:  copyRun,
}

func copyRun(cmd *cobra.Command, args []string) error {
	clip, err := newClipboard()
	if err != nil {
		return err
	}

	src := source.FromArg(sourceArg(args), cfg.BrowserURL)
	rep := action.Run(cmd.Context(), src, clip)

	fmt.Fprintln(os.Stderr, rep.Outcome.Label())

	switch rep.Outcome {
	case action.Copied:
		return nil
	case action.NotFound:
		return errors.New("no values were found on the page")
	default:
		return fmt.Errorf("%s: %w", rep.Outcome, rep.Err)
	}
}
