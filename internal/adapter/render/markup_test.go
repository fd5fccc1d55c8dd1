package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMarkup(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "paragraphs coalesce soft wraps",
			in:   "first line\ncontinues here.\n\nSecond <b>.",
			want: "<p>first line continues here.</p>\n<p>Second &lt;b&gt;.</p>\n",
		},
		{
			name: "heading level follows marker count",
			in:   "## Usage",
			want: "<h2>Usage</h2>\n",
		},
		{
			name: "list style switch reopens container",
			in:   "- a\n- b\n1. c",
			want: "<ul>\n<li>a</li>\n<li>b</li>\n</ul>\n<ol>\n<li>c</li>\n</ol>\n",
		},
		{
			name: "quote closes on paragraph",
			in:   "> quoted\n> more\nplain.",
			want: "<blockquote>\n<p>quoted</p>\n<p>more</p>\n</blockquote>\n<p>plain.</p>\n",
		},
		{
			name: "fence escapes and keeps layout",
			in:   "```\nif a < b {\n  x()\n}\n```",
			want: "<pre><code>if a &lt; b {\n  x()\n}</code></pre>\n",
		},
		{
			name: "fence closes only on identical marker",
			in:   "````\n```\n````\nafter.",
			want: "<pre><code>```</code></pre>\n<p>after.</p>\n",
		},
		{
			name: "unterminated fence and list close at end",
			in:   "- item\n~~~\ncode",
			want: "<ul>\n<li>item</li>\n</ul>\n<pre><code>code</code></pre>\n",
		},
		{
			name: "inline code",
			in:   "Call `load()` first.",
			want: "<p>Call <code>load()</code> first.</p>\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Markup(tt.in))
		})
	}
}
