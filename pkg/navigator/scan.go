package navigator

import (
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Scan parses markup and extracts its title, actionable elements and image
// placeholders. Malformed markup is parsed leniently; Scan never fails.
//
// Actionable elements are links, buttons, any element carrying
// data-navigate, and forms (labelled by their submit control).
func Scan(markup string) Page {
	p := Page{HTML: markup}

	doc, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return p
	}

	for n := range doc.Descendants() {
		if n.Type != html.ElementNode {
			continue
		}
		switch {
		case n.DataAtom == atom.Title:
			if p.Title == "" {
				p.Title = textContent(n)
			}
		case n.DataAtom == atom.Form:
			p.Actions = append(p.Actions, formAction(n))
		case n.DataAtom == atom.A, n.DataAtom == atom.Button, hasAttr(n, "data-navigate"):
			p.Actions = append(p.Actions, Action{
				Kind:      n.Data,
				Path:      attr(n, "data-path"),
				Text:      textContent(n),
				AriaLabel: attr(n, "aria-label"),
				Title:     attr(n, "title"),
			})
		case hasClass(n, "image"):
			p.Images = append(p.Images, Image{
				Keyword: attr(n, "data-keyword"),
				Width:   atoi(attr(n, "data-width")),
				Height:  atoi(attr(n, "data-height")),
			})
		}
	}
	return p
}

// formAction labels a form by its first submit control.
func formAction(form *html.Node) Action {
	a := Action{Kind: KindForm, Path: attr(form, "data-path")}
	for n := range form.Descendants() {
		if n.Type != html.ElementNode || !strings.EqualFold(attr(n, "type"), "submit") {
			continue
		}
		a.Text = textContent(n)
		if a.Text == "" && n.DataAtom == atom.Input {
			a.Text = strings.TrimSpace(attr(n, "value"))
		}
		return a
	}
	a.Text = formSubmission
	return a
}

// textContent returns the node's text with runs of whitespace collapsed.
// Script and style bodies are skipped.
func textContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			b.WriteString(n.Data)
			b.WriteByte(' ')
			return
		case html.ElementNode:
			if n.DataAtom == atom.Script || n.DataAtom == atom.Style {
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(b.String()), " ")
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasAttr(n *html.Node, key string) bool {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return true
		}
	}
	return false
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

func atoi(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(strings.TrimSuffix(s, "px")))
	if err != nil {
		return 0
	}
	return n
}
