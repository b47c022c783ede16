package browser

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Markdown converts generated page markup into markdown suitable for terminal
// rendering. Links and buttons become bracketed labels, image placeholders
// become "[image: keyword]" and scripts, styles and the document head are
// dropped.
func Markdown(markup string) string {
	doc, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return ""
	}

	root := doc
	for n := range doc.Descendants() {
		if n.Type == html.ElementNode && n.DataAtom == atom.Body {
			root = n
			break
		}
	}

	var w mdWriter
	w.children(root)
	return w.String()
}

type mdWriter struct {
	b strings.Builder
}

func (w *mdWriter) children(n *html.Node) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		w.node(c)
	}
}

func (w *mdWriter) node(n *html.Node) {
	switch n.Type {
	case html.TextNode:
		w.text(n.Data)
		return
	case html.ElementNode:
	default:
		w.children(n)
		return
	}

	if hasClass(n, "image") {
		w.inline("[image: " + firstNonEmpty(attr(n, "data-keyword"), "placeholder") + "]")
		return
	}

	switch n.DataAtom {
	case atom.Script, atom.Style, atom.Head, atom.Noscript, atom.Svg, atom.Template:
	case atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
		level := int(n.Data[1] - '0')
		w.block(strings.Repeat("#", level) + " " + inlineText(n))
	case atom.A, atom.Button:
		w.inline("[" + firstNonEmpty(inlineText(n), attr(n, "aria-label"), attr(n, "title"), "link") + "]")
	case atom.Strong, atom.B:
		w.inline("**" + inlineText(n) + "**")
	case atom.Em, atom.I:
		w.inline("_" + inlineText(n) + "_")
	case atom.Code:
		w.inline("`" + inlineText(n) + "`")
	case atom.Img:
		w.inline("[image: " + firstNonEmpty(attr(n, "alt"), "image") + "]")
	case atom.Input, atom.Textarea, atom.Select:
		if strings.EqualFold(attr(n, "type"), "hidden") {
			return
		}
		if strings.EqualFold(attr(n, "type"), "submit") {
			w.inline("[" + firstNonEmpty(attr(n, "value"), "Submit") + "]")
			return
		}
		w.inline("[input: " + firstNonEmpty(attr(n, "placeholder"), attr(n, "name"), n.Data) + "]")
	case atom.Br:
		w.b.WriteString("\n")
	case atom.Hr:
		w.block("---")
	case atom.Ul, atom.Ol:
		w.list(n, n.DataAtom == atom.Ol)
	case atom.Tr:
		w.row(n)
	case atom.P, atom.Div, atom.Section, atom.Article, atom.Header, atom.Footer,
		atom.Main, atom.Nav, atom.Aside, atom.Form, atom.Table, atom.Blockquote,
		atom.Figure, atom.Li, atom.Pre:
		w.b.WriteString("\n\n")
		w.children(n)
		w.b.WriteString("\n\n")
	default:
		w.children(n)
	}
}

func (w *mdWriter) list(n *html.Node, ordered bool) {
	w.b.WriteString("\n\n")
	i := 0
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode || c.DataAtom != atom.Li {
			continue
		}
		i++
		if ordered {
			fmt.Fprintf(&w.b, "\n%d. ", i)
		} else {
			w.b.WriteString("\n- ")
		}
		for cc := c.FirstChild; cc != nil; cc = cc.NextSibling {
			w.node(cc)
		}
	}
	w.b.WriteString("\n\n")
}

func (w *mdWriter) row(n *html.Node) {
	var cells []string
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && (c.DataAtom == atom.Td || c.DataAtom == atom.Th) {
			cells = append(cells, inlineText(c))
		}
	}
	w.b.WriteString("\n" + strings.Join(cells, " | "))
}

func (w *mdWriter) block(s string) {
	w.b.WriteString("\n\n" + s + "\n\n")
}

func (w *mdWriter) inline(s string) {
	w.b.WriteString(" " + s + " ")
}

func (w *mdWriter) text(s string) {
	w.b.WriteString(s)
}

// String returns the markdown with spaces collapsed on every line and at
// most one blank line between blocks.
func (w *mdWriter) String() string {
	var out []string
	blank := true
	for _, line := range strings.Split(w.b.String(), "\n") {
		line = strings.Join(strings.Fields(line), " ")
		if line == "" {
			if !blank {
				out = append(out, "")
			}
			blank = true
			continue
		}
		out = append(out, line)
		blank = false
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}

// inlineText returns the node's text with whitespace collapsed.
func inlineText(n *html.Node) string {
	var parts []string
	for d := range n.Descendants() {
		if d.Type == html.TextNode && !insideSkipped(d, n) {
			parts = append(parts, d.Data)
		}
	}
	return strings.Join(strings.Fields(strings.Join(parts, " ")), " ")
}

func insideSkipped(n, root *html.Node) bool {
	for p := n.Parent; p != nil && p != root; p = p.Parent {
		if p.DataAtom == atom.Script || p.DataAtom == atom.Style {
			return true
		}
	}
	return false
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
