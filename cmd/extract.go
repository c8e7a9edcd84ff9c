package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"pokeflix/internal/extract"
	"pokeflix/internal/source"
)

var flagJSON bool

var extractCmd = &cobra.Command{
	Use:   "extract [page.html | - | browser]",
	Short: "Print the combined string instead of copying it",
	Args:  cobra.MaximumNArgs(1),
	RunE:  extractRun,
}

func init() {
	extractCmd.Flags().BoolVarP(&flagJSON, "json", "j", false, "Output the extracted values as JSON")
}

func extractRun(cmd *cobra.Command, args []string) error {
	src := source.FromArg(sourceArg(args), cfg.BrowserURL)
	doc, err := src.Load(cmd.Context())
	if err != nil {
		return err
	}

	result := extract.Extract(doc)

	if flagJSON {
		out := map[string]interface{}{
			"stream_url": result.StreamURL,
			"series":     result.Series,
			"title":      result.Title,
			"tokens":     result.Tokens(),
			"combined":   result.String(),
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	fmt.Println(result.String())
	return nil
}
