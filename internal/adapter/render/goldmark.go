package render

import (
	"bytes"
	"html"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	gmhtml "github.com/yuin/goldmark/renderer/html"

	"github.com/jjmejia/micode-manager-sub000/internal/port"
)

// NewGoldmarkFormatter returns a Formatter that treats doc text as
// CommonMark with GitHub extensions. Raw HTML in comments is allowed through
// goldmark and then sanitized.
func NewGoldmarkFormatter() port.Formatter {
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(gmhtml.WithUnsafe()),
	)
	policy := bluemonday.UGCPolicy()

	return func(text string) string {
		var buf bytes.Buffer
		if err := md.Convert([]byte(text), &buf); err != nil {
			return "<p>" + html.EscapeString(text) + "</p>\n"
		}
		return policy.Sanitize(buf.String())
	}
}
