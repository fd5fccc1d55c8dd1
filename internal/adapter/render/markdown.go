package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/jjmejia/micode-manager-sub000/internal/domain"
)

// Markdown renders model as a Markdown document with the same layout as
// the HTML view.
func Markdown(model *domain.DocumentModel) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", model.Identity)
	if model.Target != "" {
		fmt.Fprintf(&b, "_%s_\n\n", model.Target)
	}

	for _, e := range model.Errors {
		fmt.Fprintf(&b, "> **error:** %s\n", e)
	}
	if len(model.Errors) > 0 {
		b.WriteString("\n")
	}
	for _, w := range model.Warnings {
		fmt.Fprintf(&b, "- **%s** %s\n", w.Code, w.Message)
	}
	if len(model.Warnings) > 0 {
		b.WriteString("\n")
	}

	if !model.MainAttached && !model.Main.IsEmpty() {
		markdownBlock(&b, model.Main)
	}
	for _, decl := range model.Declarations {
		fmt.Fprintf(&b, "## %s `%s`\n\n", decl.Kind, Signature(decl))
		markdownBlock(&b, decl.Doc)
	}
	return b.String()
}

func markdownBlock(b *strings.Builder, doc domain.DocBlock) {
	if doc.Summary != "" {
		b.WriteString(doc.Summary + "\n\n")
	}
	if doc.Description != "" {
		b.WriteString(doc.Description + "\n\n")
	}
	if len(doc.Params) > 0 {
		b.WriteString("| Parameter | Type | Description |\n|---|---|---|\n")
		for _, p := range doc.Params {
			fmt.Fprintf(b, "| `%s` | %s | %s |\n", p.Name, p.Type, tableCell(p.Description))
		}
		b.WriteString("\n")
	}
	if doc.Return != nil {
		fmt.Fprintf(b, "**Returns** `%s`", doc.Return.Type)
		if doc.Return.Description != "" {
			b.WriteString(" " + doc.Return.Description)
		}
		b.WriteString("\n\n")
	}
	for _, t := range TagList(doc) {
		fmt.Fprintf(b, "- **%s:** %s\n", t.Name, t.Value.String())
	}
	if len(TagList(doc)) > 0 {
		b.WriteString("\n")
	}
}

func tableCell(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", `\|`)
}

// Terminal renders model for a terminal through glamour. A width of zero
// disables word wrapping.
func Terminal(model *domain.DocumentModel, width int) (string, error) {
	opts := []glamour.TermRendererOption{glamour.WithAutoStyle()}
	if width > 0 {
		opts = append(opts, glamour.WithWordWrap(width))
	}
	renderer, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return "", fmt.Errorf("failed to create terminal renderer: %w", err)
	}
	return renderer.Render(Markdown(model))
}
