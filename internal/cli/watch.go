package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/jjmejia/micode-manager-sub000/internal/adapter/watcher"
	"github.com/jjmejia/micode-manager-sub000/internal/usecase"
)

var watchDebounce time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch [path]",
	Short: "Re-audit source files as they change",
	Long: `Watch a directory and audit each changed file after edits settle.
Fresh models are written to the cache, so later doc and audit runs are served
from it. Stop with Ctrl-C.

Examples:
  micode-docs watch
  micode-docs watch lib/ --debounce 1s`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", watcher.DefaultDebounce, "quiet period before changed files are audited")
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	path, err := resolveDir(args)
	if err != nil {
		return err
	}

	eng, err := newEngine(cfg, GetRootDir(), true)
	if err != nil {
		return err
	}
	defer eng.Close()

	auditUC := usecase.NewAuditUseCase(newWalker(cfg), eng.extract)
	st := newStyles()
	logger := log.Default().WithPrefix("watch")

	onChange := func(paths []string) {
		var present []string
		for _, p := range paths {
			if _, err := os.Stat(p); err != nil {
				logger.Info("removed", "path", relTo(path, p))
				continue
			}
			present = append(present, p)
		}
		if eng.cache != nil {
			eng.cache.Forget()
		}
		if len(present) == 0 {
			return
		}

		result := auditUC.AuditFiles(present, nil)
		for _, unit := range result.Units {
			rel := relTo(path, unit.Identity)
			if len(unit.Warnings) == 0 && len(unit.Errors) == 0 {
				fmt.Printf("%s %s\n", st.ok.Render("ok"), rel)
				continue
			}
			fmt.Println(st.path.Render(rel))
			for _, e := range unit.Errors {
				fmt.Printf("  %s %s\n", st.err.Render("error"), e)
			}
			for _, w := range unit.Warnings {
				fmt.Printf("  %s %s\n", st.warn.Render(string(w.Code)), w.Message)
			}
		}
	}

	w, err := watcher.New(path, newWalker(cfg), onChange, watcher.WithDebounce(watchDebounce))
	if err != nil {
		return fmt.Errorf("failed to watch %s: %w", path, err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	w.Start(ctx)
	fmt.Fprintf(os.Stderr, "Watching %s (Ctrl-C to stop)\n", path)

	<-ctx.Done()
	w.Stop()
	return nil
}

func relTo(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return path
	}
	return rel
}
