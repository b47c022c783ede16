// Package sanitize turns raw model output into markup that can be rendered.
package sanitize

import (
	"regexp"
	"strings"
)

var (
	// fencePattern matches a triple-backtick fence marker and one line break.
	// A language tag is consumed only when it ends its line, except for html
	// which may run straight into the markup.
	fencePattern = regexp.MustCompile("```(?:[A-Za-z0-9_+-]+[ \t]*\r?\n|(?i:html)\r?\n?|\r?\n)?")

	// thinkPattern matches a reasoning span including its content.
	thinkPattern = regexp.MustCompile(`(?is)<think\b[^>]*>.*?</think\s*>`)
)

// Sanitize strips code fences and <think> spans from raw model output and
// trims the surrounding whitespace. It is idempotent.
func Sanitize(raw string) string {
	if raw == "" {
		return ""
	}

	out := raw
	for {
		next := thinkPattern.ReplaceAllString(fencePattern.ReplaceAllString(out, ""), "")
		if next == out {
			break
		}
		out = next
	}
	return strings.TrimSpace(out)
}
