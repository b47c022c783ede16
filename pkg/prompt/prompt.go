// Package prompt builds the model requests for initial and navigation page
// generation.
package prompt

import (
	"fmt"
	"strings"
)

// pageRules lists the structural requirements shared by every generated page.
const pageRules = `- Make it fully responsive so it looks good on mobile devices (media queries, flexible layouts, readable font sizes).
- Every button and link MUST carry a data-path attribute holding an imaginary path that describes where it leads (for example data-path="/about", data-path="/products/category1", data-path="/contact").
- For images, emit div elements with class="image" and the data attributes data-keyword (search term), data-width and data-height (pixels), for example <div class="image" data-keyword="sunset beach" data-width="1200" data-height="800"></div>. Images are resolved by the client; do NOT use <img> tags.`

const outputRule = "Return ONLY raw HTML, no markdown, no explanations."

// Initial returns the prompt for the first page of a session, themed around
// keyword.
func Initial(keyword string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Create a random, creative, visually stunning website with a theme related to: %q. ", keyword)
	b.WriteString("The HTML must be complete with <!DOCTYPE html>, head and body tags, inline CSS and inline JavaScript.\n\n")
	b.WriteString("IMPORTANT:\n")
	b.WriteString(pageRules)
	fmt.Fprintf(&b, "\n- Use the theme %q creatively to inspire the design, content and overall aesthetic.\n\n", keyword)
	b.WriteString(outputRule)
	return b.String()
}

// Navigation returns the prompt for the page reached by action from
// previousHTML. cachedPages names pages the visitor can already return to.
func Navigation(previousHTML, action string, cachedPages []string) string {
	var b strings.Builder
	b.WriteString("Here is the previous page HTML that the user was viewing:\n\n")
	b.WriteString(previousHTML)
	fmt.Fprintf(&b, "\n\nThe user clicked on a button with this text/path: %q\n\n", action)
	b.WriteString("Generate the next page as complete HTML. Make sure to:\n")
	b.WriteString("- Match the design style, color scheme and aesthetic of the previous page.\n")
	b.WriteString("- Create a logical next page for the element that was clicked.\n")
	b.WriteString("- Include complete HTML with <!DOCTYPE html>, head, body, inline CSS and inline JavaScript.\n")
	b.WriteString(pageRules)
	b.WriteString("\n")
	b.WriteString(visitedPages(cachedPages))
	b.WriteString("\n")
	b.WriteString(outputRule)
	return b.String()
}

// visitedPages tells the model which pages already exist so links back to
// them reuse the exact same label.
func visitedPages(pages []string) string {
	if len(pages) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("\nPREVIOUSLY VISITED PAGES (the user can go back to these):\n")
	for _, p := range pages {
		fmt.Fprintf(&b, "- %q\n", p)
	}
	b.WriteString("\nIf you create navigation back to these pages, use the exact same text.\n")
	return b.String()
}
