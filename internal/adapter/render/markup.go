package render

import (
	"fmt"
	"html"
	"strings"

	"github.com/jjmejia/micode-manager-sub000/internal/adapter/docblock"
)

// Markup is the built-in Formatter. It understands "#" headings, "-", "*",
// "+" and "N." lists, ">" quotes, fenced code and soft-wrapped paragraphs.
func Markup(text string) string {
	m := &markup{}
	lines := docblock.Coalesce(strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n"), "")
	for _, line := range lines {
		m.line(line)
	}
	m.finish()
	return m.out.String()
}

type markup struct {
	out       strings.Builder
	container string
	fence     string
	code      []string
}

func (m *markup) line(line string) {
	if m.fence != "" {
		if strings.TrimSpace(line) == m.fence {
			m.closeFence()
			return
		}
		m.code = append(m.code, line)
		return
	}

	if marker := docblock.FenceMarker(line); marker != "" {
		m.open("")
		m.fence = marker
		return
	}
	if strings.TrimSpace(line) == "" {
		m.open("")
		return
	}
	if level, text, ok := docblock.Heading(line); ok {
		m.open("")
		if level > 6 {
			level = 6
		}
		fmt.Fprintf(&m.out, "<h%d>%s</h%d>\n", level, inline(text), level)
		return
	}
	if ordered, text, ok := docblock.ListItem(line); ok {
		if ordered {
			m.open("ol")
		} else {
			m.open("ul")
		}
		fmt.Fprintf(&m.out, "<li>%s</li>\n", inline(text))
		return
	}
	if text, ok := docblock.Quote(line); ok {
		m.open("blockquote")
		if text != "" {
			fmt.Fprintf(&m.out, "<p>%s</p>\n", inline(text))
		}
		return
	}

	m.open("")
	fmt.Fprintf(&m.out, "<p>%s</p>\n", inline(strings.TrimSpace(line)))
}

// open switches to container, closing the current one when it differs.
// An empty container closes everything.
func (m *markup) open(container string) {
	if m.container == container {
		return
	}
	if m.container != "" {
		fmt.Fprintf(&m.out, "</%s>\n", m.container)
	}
	if container != "" {
		fmt.Fprintf(&m.out, "<%s>\n", container)
	}
	m.container = container
}

func (m *markup) closeFence() {
	m.out.WriteString("<pre><code>")
	m.out.WriteString(html.EscapeString(strings.Join(m.code, "\n")))
	m.out.WriteString("</code></pre>\n")
	m.fence = ""
	m.code = nil
}

func (m *markup) finish() {
	if m.fence != "" {
		m.closeFence()
	}
	m.open("")
}

// inline escapes text and turns `backtick` spans into code elements.
func inline(text string) string {
	parts := strings.Split(text, "`")
	if len(parts) < 3 {
		return html.EscapeString(text)
	}
	var b strings.Builder
	for i, part := range parts {
		switch {
		case i%2 == 0:
			b.WriteString(html.EscapeString(part))
		case i == len(parts)-1:
			// unbalanced trailing backtick
			b.WriteString("`" + html.EscapeString(part))
		default:
			b.WriteString("<code>" + html.EscapeString(part) + "</code>")
		}
	}
	return b.String()
}
