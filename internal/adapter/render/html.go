package render

import (
	"fmt"
	"html"
	"sort"
	"strings"

	"github.com/jjmejia/micode-manager-sub000/internal/domain"
	"github.com/jjmejia/micode-manager-sub000/internal/port"
)

// HTMLRenderer renders DocumentModels as HTML fragments.
type HTMLRenderer struct {
	format port.Formatter
}

type Option func(*HTMLRenderer)

// WithFormatter replaces the built-in Markup formatter used for summaries,
// descriptions and tag text.
func WithFormatter(f port.Formatter) Option {
	return func(r *HTMLRenderer) {
		if f != nil {
			r.format = f
		}
	}
}

func NewHTMLRenderer(opts ...Option) *HTMLRenderer {
	r := &HTMLRenderer{format: Markup}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render produces the title, errors, warnings and main block, followed by
// the target declaration when model.Target is set (detail view) or every
// declaration otherwise (overview).
func (r *HTMLRenderer) Render(model *domain.DocumentModel) string {
	var b strings.Builder
	b.WriteString("<div class=\"docs\">\n")

	b.WriteString("<header class=\"docs-title\">\n")
	fmt.Fprintf(&b, "<h1>%s</h1>\n", html.EscapeString(model.Identity))
	if model.Target != "" {
		fmt.Fprintf(&b, "<p class=\"docs-target\">%s</p>\n", html.EscapeString(model.Target))
	}
	b.WriteString("</header>\n")

	if len(model.Errors) > 0 {
		b.WriteString("<ul class=\"docs-errors\">\n")
		for _, e := range model.Errors {
			fmt.Fprintf(&b, "<li>%s</li>\n", html.EscapeString(e))
		}
		b.WriteString("</ul>\n")
	}
	if len(model.Warnings) > 0 {
		b.WriteString("<ul class=\"docs-warnings\">\n")
		for _, w := range model.Warnings {
			fmt.Fprintf(&b, "<li class=\"%s\">%s</li>\n", html.EscapeString(string(w.Code)), html.EscapeString(w.Message))
		}
		b.WriteString("</ul>\n")
	}

	// an attached main block is rendered with its declaration
	if !model.MainAttached && !model.Main.IsEmpty() {
		b.WriteString("<section class=\"docs-main\">\n")
		b.WriteString(r.RenderBlock(model.Main))
		b.WriteString("</section>\n")
	}

	for _, decl := range model.Declarations {
		r.declaration(&b, decl)
	}

	b.WriteString("</div>\n")
	return b.String()
}

func (r *HTMLRenderer) declaration(b *strings.Builder, decl domain.Declaration) {
	fmt.Fprintf(b, "<section class=\"docs-decl %s\" id=\"%s\">\n",
		html.EscapeString(string(decl.Kind)), html.EscapeString(anchor(decl.Name)))
	fmt.Fprintf(b, "<h2><span class=\"kind\">%s</span> <code>%s</code></h2>\n",
		html.EscapeString(string(decl.Kind)), html.EscapeString(Signature(decl)))
	b.WriteString(r.RenderBlock(decl.Doc))
	b.WriteString("</section>\n")
}

// RenderBlock renders a single DocBlock.
func (r *HTMLRenderer) RenderBlock(doc domain.DocBlock) string {
	var b strings.Builder
	if doc.Summary != "" {
		fmt.Fprintf(&b, "<div class=\"summary\">\n%s</div>\n", r.format(doc.Summary))
	}
	if doc.Description != "" {
		fmt.Fprintf(&b, "<div class=\"description\">\n%s</div>\n", r.format(doc.Description))
	}

	if len(doc.Params) > 0 {
		b.WriteString("<dl class=\"params\">\n")
		for _, p := range doc.Params {
			fmt.Fprintf(&b, "<dt><code>%s</code> <span class=\"type\">%s</span></dt>\n",
				html.EscapeString(p.Name), html.EscapeString(p.Type))
			if p.Description != "" {
				fmt.Fprintf(&b, "<dd>%s</dd>\n", r.format(p.Description))
			}
		}
		b.WriteString("</dl>\n")
	}
	if doc.Return != nil {
		fmt.Fprintf(&b, "<div class=\"return\"><span class=\"type\">%s</span>", html.EscapeString(doc.Return.Type))
		if doc.Return.Description != "" {
			b.WriteString("\n" + r.format(doc.Return.Description))
		}
		b.WriteString("</div>\n")
	}

	tags := TagList(doc)
	if len(tags) > 0 {
		b.WriteString("<dl class=\"tags\">\n")
		for _, t := range tags {
			fmt.Fprintf(&b, "<dt>%s</dt>\n", html.EscapeString(t.Name))
			for _, v := range t.Value.Values() {
				fmt.Fprintf(&b, "<dd>%s</dd>\n", html.EscapeString(v))
			}
		}
		b.WriteString("</dl>\n")
	}
	return b.String()
}

// Tag is a named tag field in display order.
type Tag struct {
	Name  string
	Value domain.TagValue
}

// TagList returns the scalar tags followed by the other tags sorted by name.
func TagList(doc domain.DocBlock) []Tag {
	var tags []Tag
	for _, t := range []Tag{
		{"author", doc.Author},
		{"since", doc.Since},
		{"version", doc.Version},
		{"link", doc.Link},
		{"todo", doc.Todo},
	} {
		if !t.Value.IsZero() {
			tags = append(tags, t)
		}
	}
	names := make([]string, 0, len(doc.Other))
	for name := range doc.Other {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		tags = append(tags, Tag{Name: name, Value: doc.Other[name]})
	}
	return tags
}

// Signature formats a declaration header: name(args) for functions, the name
// followed by its free-form clause otherwise.
func Signature(decl domain.Declaration) string {
	if decl.Kind == domain.KindFunction {
		return decl.Name + "(" + decl.Args + ")"
	}
	if decl.Args == "" {
		return decl.Name
	}
	return decl.Name + " " + decl.Args
}

func anchor(name string) string {
	return "decl-" + strings.ToLower(strings.Map(func(r rune) rune {
		if r == ' ' || r == '$' || r == '\\' {
			return '-'
		}
		return r
	}, name))
}
