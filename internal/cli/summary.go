package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jjmejia/micode-manager-sub000/internal/usecase"
)

var summaryJSON bool

var summaryCmd = &cobra.Command{
	Use:   "summary [path]",
	Short: "List the one-line description of every source file",
	Long: `Print the summary line of each file's main documentation block.
Only the main block is read, so this is fast on large trees.

Examples:
  micode-docs summary
  micode-docs summary lib/ --json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSummary,
}

func init() {
	rootCmd.AddCommand(summaryCmd)
	summaryCmd.Flags().BoolVar(&summaryJSON, "json", false, "output as JSON")
}

func runSummary(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	path, err := resolveDir(args)
	if err != nil {
		return err
	}

	// summaries bypass the cache
	eng, err := newEngine(cfg, GetRootDir(), false)
	if err != nil {
		return err
	}
	defer eng.Close()

	summaryUC := usecase.NewSummaryUseCase(newWalker(cfg), eng.extract)
	summaries, err := summaryUC.Summaries(path, newProgress("Reading", summaryJSON))
	if err != nil {
		return fmt.Errorf("summary failed: %w", err)
	}

	if summaryJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(summaries)
	}

	st := newStyles()
	for _, s := range summaries {
		rel := relTo(path, s.Identity)
		switch {
		case s.Error != "":
			fmt.Printf("%s  %s\n", st.path.Render(rel), st.err.Render(s.Error))
		case s.Summary == "":
			fmt.Printf("%s  %s\n", st.path.Render(rel), st.hint.Render("(no summary)"))
		default:
			fmt.Printf("%s  %s\n", st.path.Render(rel), s.Summary)
		}
	}
	return nil
}
