package docblock

import (
	"strings"
	"unicode"

	"github.com/jjmejia/micode-manager-sub000/internal/domain"
)

// TagHandler merges new raw tag content into the tag's current value.
type TagHandler func(current *domain.TagValue, content string)

type Option func(*Parser)

// WithTagHandler routes every occurrence of tag to h instead of the default
// scalar or list handling. The param and return tags cannot be overridden.
func WithTagHandler(tag string, h TagHandler) Option {
	return func(p *Parser) {
		if h != nil {
			p.handlers[strings.ToLower(tag)] = h
		}
	}
}

// Parser turns the verbatim text of one doc comment into a DocBlock.
type Parser struct {
	tags     domain.TagGrammar
	handlers map[string]TagHandler
}

func NewParser(tags domain.TagGrammar, opts ...Option) *Parser {
	p := &Parser{
		tags:     tags,
		handlers: make(map[string]TagHandler),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse never fails: lines it cannot interpret are dropped.
func (p *Parser) Parse(raw string) domain.DocBlock {
	var doc domain.DocBlock
	lines := Coalesce(p.physicalLines(raw), p.tags.TagStart)

	var (
		description []string
		tagName     string
		tagBody     []string
		inTag       bool
		fence       string
	)
	closeTag := func() {
		if inTag {
			p.dispatch(&doc, tagName, strings.Join(tagBody, "\n"))
		}
		inTag = false
		tagName = ""
		tagBody = nil
	}

	for _, line := range lines {
		if fence != "" {
			if inTag {
				tagBody = append(tagBody, line)
			} else {
				description = append(description, line)
			}
			if strings.TrimSpace(line) == fence {
				fence = ""
			}
			continue
		}

		trimmed := strings.TrimSpace(line)
		if IsTag(trimmed, p.tags.TagStart) {
			closeTag()
			name, content := splitTag(trimmed[len(p.tags.TagStart):])
			tagName = strings.ToLower(name)
			tagBody = []string{content}
			inTag = true
			continue
		}
		// a blank line ends the open tag; paragraphs stay newline-joined
		if trimmed == "" {
			closeTag()
			continue
		}

		if m := FenceMarker(line); m != "" {
			fence = m
		}
		switch {
		case inTag:
			tagBody = append(tagBody, trimmed)
		case doc.Summary == "" && fence == "" && len(description) == 0:
			doc.Summary = trimmed
		default:
			description = append(description, line)
		}
	}
	closeTag()

	doc.Description = strings.TrimRight(strings.Join(description, "\n"), "\n")
	return doc
}

// physicalLines strips the line marker from every line. The first line,
// which follows the comment opener, is exempt from the marker rule.
func (p *Parser) physicalLines(raw string) []string {
	marker := p.tags.LineMarker
	var out []string
	for i, line := range strings.Split(strings.ReplaceAll(raw, "\r\n", "\n"), "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case i == 0:
			if trimmed == "" {
				continue
			}
			if marker != "" {
				trimmed = strings.TrimSpace(strings.TrimPrefix(trimmed, marker))
			}
			out = append(out, trimmed)
		case marker == "":
			out = append(out, strings.TrimRight(line, " \t"))
		case strings.HasPrefix(trimmed, marker):
			content := strings.TrimPrefix(trimmed[len(marker):], " ")
			out = append(out, strings.TrimRight(content, " \t"))
		}
	}
	return out
}

func (p *Parser) dispatch(doc *domain.DocBlock, name, content string) {
	content = strings.TrimSpace(content)
	switch name {
	case "":
		return
	case strings.ToLower(p.tags.ParamTag):
		p.param(doc, content)
		return
	case strings.ToLower(p.tags.ReturnTag):
		p.ret(doc, content)
		return
	}

	field := scalarField(doc, name)
	if h, ok := p.handlers[name]; ok {
		if field != nil {
			h(field, content)
			return
		}
		v := doc.Other[name]
		h(&v, content)
		if !v.IsZero() {
			setOther(doc, name, v)
		}
		return
	}
	if field != nil {
		field.Add(content)
		return
	}
	v := doc.Other[name]
	v.Add(content)
	setOther(doc, name, v)
}

func (p *Parser) param(doc *domain.DocBlock, content string) {
	if p.tags.ParamPattern == nil {
		return
	}
	m := p.tags.ParamPattern.FindStringSubmatch(content)
	if m == nil || len(m) < 3 {
		return
	}
	param := domain.Param{Type: m[1], Name: m[2]}
	if len(m) > 3 {
		param.Description = strings.TrimSpace(m[3])
	}
	for i := range doc.Params {
		if doc.Params[i].Name == param.Name {
			doc.Params[i] = param
			return
		}
	}
	doc.Params = append(doc.Params, param)
}

func (p *Parser) ret(doc *domain.DocBlock, content string) {
	if p.tags.ReturnPattern == nil {
		return
	}
	m := p.tags.ReturnPattern.FindStringSubmatch(content)
	if m == nil || len(m) < 2 {
		return
	}
	r := &domain.Return{Type: m[1]}
	if len(m) > 2 {
		r.Description = strings.TrimSpace(m[2])
	}
	doc.Return = r
}

func splitTag(s string) (name, content string) {
	idx := strings.IndexFunc(s, unicode.IsSpace)
	if idx < 0 {
		return s, ""
	}
	return s[:idx], strings.TrimSpace(s[idx:])
}

func scalarField(doc *domain.DocBlock, name string) *domain.TagValue {
	switch name {
	case "author":
		return &doc.Author
	case "since":
		return &doc.Since
	case "version":
		return &doc.Version
	case "todo":
		return &doc.Todo
	case "link":
		return &doc.Link
	}
	return nil
}

func setOther(doc *domain.DocBlock, name string, v domain.TagValue) {
	if doc.Other == nil {
		doc.Other = make(map[string]domain.TagValue)
	}
	doc.Other[name] = v
}
