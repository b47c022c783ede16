package navigator

import (
	"strings"

	"github.com/achneerov/dreamrender/pkg/pagecache"
)

// Element kinds reported on actions.
const (
	KindLink   = "a"
	KindButton = "button"
	KindForm   = "form"
)

// formSubmission labels a form without a submit control.
const formSubmission = "Form submission"

// Action is an actionable element of a rendered page. Actions are only
// valid while the page they were scanned from is displayed.
type Action struct {
	// Kind is the element's tag name, or KindForm for form submissions.
	Kind string

	// Path is the element's data-path attribute.
	Path string

	// Text is the element's visible text with whitespace collapsed.
	Text string

	AriaLabel string
	Title     string

	epoch uint64
}

// Key returns the page cache key of the page this action leads to.
func (a Action) Key() string {
	return pagecache.DeriveKey(a.Path, a.Text, a.AriaLabel, a.Title)
}

// Label returns the human-readable target sent to the generator: the path
// when present, otherwise the first non-blank label.
func (a Action) Label() string {
	if a.Path != "" {
		return a.Path
	}
	for _, l := range []string{a.Text, a.AriaLabel, a.Title} {
		if t := strings.TrimSpace(l); t != "" {
			return t
		}
	}
	return "Unnamed link"
}

// Image is an image placeholder the model emitted instead of a literal
// image reference.
type Image struct {
	Keyword string
	Width   int
	Height  int
}

// Page is a rendered page.
type Page struct {
	// Key is the cache key the page is stored under.
	Key string

	// HTML is the sanitized markup.
	HTML string

	// Title is the document title, empty when the markup has none.
	Title string

	Actions []Action
	Images  []Image
}
