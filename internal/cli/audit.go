package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jjmejia/micode-manager-sub000/internal/domain"
	"github.com/jjmejia/micode-manager-sub000/internal/usecase"
)

var (
	auditJSON    bool
	auditStrict  bool
	auditNoCache bool
)

var auditCmd = &cobra.Command{
	Use:   "audit [path]",
	Short: "Check documentation completeness across a directory",
	Long: `Extract every matching file and report missing summaries, authors and
parameter documentation. With --strict the command fails when any warning
or error is found.

Examples:
  micode-docs audit
  micode-docs audit lib/ --strict
  micode-docs audit --json > audit.json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAudit,
}

func init() {
	rootCmd.AddCommand(auditCmd)
	auditCmd.Flags().BoolVar(&auditJSON, "json", false, "output as JSON")
	auditCmd.Flags().BoolVar(&auditStrict, "strict", false, "exit with an error when the audit is not clean")
	auditCmd.Flags().BoolVar(&auditNoCache, "no-cache", false, "extract without reading or writing the cache")
}

func runAudit(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	path, err := resolveDir(args)
	if err != nil {
		return err
	}

	eng, err := newEngine(cfg, GetRootDir(), !auditNoCache)
	if err != nil {
		return err
	}
	defer eng.Close()

	auditUC := usecase.NewAuditUseCase(newWalker(cfg), eng.extract)
	result, err := auditUC.Audit(path, newProgress("Auditing", auditJSON))
	if err != nil {
		return fmt.Errorf("audit failed: %w", err)
	}

	if auditJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			return err
		}
	} else {
		printAudit(path, result)
	}

	if auditStrict && !result.Clean() {
		return errAuditFailed
	}
	return nil
}

func printAudit(root string, result *usecase.AuditResult) {
	st := newStyles()

	for _, unit := range result.Units {
		if len(unit.Warnings) == 0 && len(unit.Errors) == 0 {
			continue
		}
		rel := relTo(root, unit.Identity)
		fmt.Println(st.path.Render(rel))
		for _, e := range unit.Errors {
			fmt.Printf("  %s %s\n", st.err.Render("error"), e)
		}
		for _, w := range unit.Warnings {
			fmt.Printf("  %s %s\n", st.warn.Render(string(w.Code)), w.Message)
		}
	}

	fmt.Printf("\n%s\n", st.header.Render("Audit complete:"))
	fmt.Printf("  %s %d\n", st.label.Render("Files scanned: "), result.FilesScanned)
	fmt.Printf("  %s %d\n", st.label.Render("Declarations:  "), result.Declarations)
	fmt.Printf("  %s %d\n", st.label.Render("Warnings:      "), result.Warnings)
	fmt.Printf("  %s %d\n", st.label.Render("Errors:        "), result.Errors)
	fmt.Printf("  %s %s\n", st.label.Render("Cache:         "), provenanceLine(result.Provenance))

	if result.Clean() {
		fmt.Println("\n" + st.ok.Render("All documentation complete."))
	}
}

func provenanceLine(counts map[domain.Provenance]int) string {
	return fmt.Sprintf("%d fresh, %d memory, %d disk",
		counts[domain.ProvenanceFresh], counts[domain.ProvenanceMemory], counts[domain.ProvenanceDisk])
}
