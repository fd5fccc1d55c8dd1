package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jjmejia/micode-manager-sub000/internal/adapter/render"
	"github.com/jjmejia/micode-manager-sub000/internal/domain"
)

var (
	docName    string
	docFormat  string
	docNoCache bool
	docOutput  string
)

var docCmd = &cobra.Command{
	Use:   "doc <file>",
	Short: "Render the documentation of one source file",
	Long: `Extract the documentation comments of a file and render them.

Formats:
  html      HTML fragment (default)
  markdown  Markdown document
  term      Markdown styled for the terminal
  json      the extracted document model

Examples:
  micode-docs doc src/Mailer.php
  micode-docs doc src/Mailer.php --name send --format term
  micode-docs doc src/Mailer.php --format json -o mailer.json`,
	Args: cobra.ExactArgs(1),
	RunE: runDoc,
}

func init() {
	rootCmd.AddCommand(docCmd)
	docCmd.Flags().StringVarP(&docName, "name", "n", "", "show a single declaration")
	docCmd.Flags().StringVarP(&docFormat, "format", "f", "html", "output format: html, markdown, term, json")
	docCmd.Flags().BoolVar(&docNoCache, "no-cache", false, "extract without reading or writing the cache")
	docCmd.Flags().StringVarP(&docOutput, "output", "o", "", "write to file instead of stdout")
}

func runDoc(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	path, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("invalid path: %w", err)
	}

	eng, err := newEngine(cfg, GetRootDir(), !docNoCache)
	if err != nil {
		return err
	}
	defer eng.Close()

	model := eng.extract.ExtractFile(path)
	if docName != "" {
		model = model.Filter(docName)
	}

	out, err := renderModel(model, docFormat)
	if err != nil {
		return err
	}

	if docOutput != "" {
		if err := os.WriteFile(docOutput, []byte(out), 0644); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Documentation written to %s (%s)\n", docOutput, model.Provenance)
		return nil
	}
	fmt.Print(out)
	return nil
}

func renderModel(model *domain.DocumentModel, format string) (string, error) {
	cfg := GetConfig()

	switch format {
	case "html":
		var opts []render.Option
		if cfg.Render.Formatter == "markdown" {
			opts = append(opts, render.WithFormatter(render.NewGoldmarkFormatter()))
		}
		return render.NewHTMLRenderer(opts...).Render(model), nil
	case "markdown", "md":
		return render.Markdown(model), nil
	case "term":
		return render.Terminal(model, cfg.Render.Width)
	case "json":
		data, err := json.MarshalIndent(model, "", "  ")
		if err != nil {
			return "", fmt.Errorf("failed to encode model: %w", err)
		}
		return string(data) + "\n", nil
	default:
		return "", fmt.Errorf("unknown format %q (available: html, markdown, term, json)", format)
	}
}
