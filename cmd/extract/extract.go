package extract

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/avirtanen/agentlab/internal/conf"
	"github.com/avirtanen/agentlab/internal/extract"
)

// Command creates the extract command for one-shot heuristic extraction.
func Command(settings *conf.Settings) *cobra.Command {
	return &cobra.Command{
		Use:   "extract [notes.txt]",
		Short: "Extract action items from a text file or stdin",
		Long:  "Run the heuristic extractor over the given file, or stdin when no file is given, and print one action item per line.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExtract(cmd, args)
		},
	}
}

func runExtract(cmd *cobra.Command, args []string) error {
	var text []byte
	var err error

	if len(args) == 1 {
		text, err = os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", args[0], err)
		}
	} else {
		text, err = io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
	}

	for _, item := range extract.NewHeuristicExtractor().Extract(string(text)) {
		fmt.Fprintln(cmd.OutOrStdout(), item)
	}

	return nil
}
