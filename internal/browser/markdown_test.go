package browser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMarkdown(t *testing.T) {
	tests := []struct {
		name   string
		markup string
		want   string
	}{
		{
			name:   "headings and paragraphs",
			markup: `<html><head><title>T</title></head><body><h1>Lighthouse  Cafe</h1><p>Fresh   coffee</p></body></html>`,
			want:   "# Lighthouse Cafe\n\nFresh coffee",
		},
		{
			name:   "links and buttons",
			markup: `<nav><a href="#" data-path="/menu">Menu</a><button aria-label="Order now"></button></nav>`,
			want:   "[Menu] [Order now]",
		},
		{
			name:   "emphasis inline",
			markup: `<p>We <strong>love</strong> <em>waves</em></p>`,
			want:   "We **love** _waves_",
		},
		{
			name:   "unordered list",
			markup: `<ul><li>One</li><li>Two <a>more</a></li></ul>`,
			want:   "- One\n- Two [more]",
		},
		{
			name:   "ordered list",
			markup: `<ol><li>First</li><li>Second</li></ol>`,
			want:   "1. First\n2. Second",
		},
		{
			name:   "image placeholder",
			markup: `<div class="image hero" data-keyword="sunset" data-width="800"></div>`,
			want:   "[image: sunset]",
		},
		{
			name:   "form controls",
			markup: `<form><input name="email" placeholder="Your email"><input type="hidden" name="t"><input type="submit" value="Join"></form>`,
			want:   "[input: Your email] [Join]",
		},
		{
			name:   "scripts and styles dropped",
			markup: `<body><style>p{}</style><p>Visible</p><script>alert(1)</script></body>`,
			want:   "Visible",
		},
		{
			name:   "table rows",
			markup: `<table><tr><th>Day</th><th>Hours</th></tr><tr><td>Mon</td><td>9-5</td></tr></table>`,
			want:   "Day | Hours\nMon | 9-5",
		},
		{
			name:   "horizontal rule",
			markup: `<p>a</p><hr><p>b</p>`,
			want:   "a\n\n---\n\nb",
		},
		{
			name:   "empty",
			markup: "",
			want:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Markdown(tt.markup))
		})
	}
}
