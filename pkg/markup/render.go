// Package markup renders the AirNote note syntax to an HTML fragment.
//
// Supported syntax:
//
//	## Header
//	**bold**
//	*italic*
//	-strikethrough-
//	_underline_
//	- list item
//
// The input is HTML-escaped once before any rule runs, which is the only
// XSS defense the output relies on. Inline rules are resolved by a single
// left-to-right scan that consults a fixed priority table: at each position
// the first rule whose opener matches and whose closer exists on the same
// line wins. Emitted tags are never scanned again.
package markup

import "strings"

// Rule describes one inline syntax element.
type Rule struct {
	Name  string
	Delim string // opener and closer
	Open  string
	Close string
}

const (
	headingPrefix = "## "
	headingOpen   = `<h2 class="note-heading">`
	headingClose  = "</h2>"

	listPrefix = "- "
	listOpen   = `<li class="note-item">`
	listClose  = "</li>"

	lineBreak = "<br />"
)

// rules is ordered by priority, highest first.
var rules = []Rule{
	{Name: "bold", Delim: "**", Open: `<strong class="note-bold">`, Close: "</strong>"},
	{Name: "italic", Delim: "*", Open: `<em class="note-italic">`, Close: "</em>"},
	{Name: "strike", Delim: "-", Open: `<span class="note-strike">`, Close: "</span>"},
	{Name: "underline", Delim: "_", Open: `<span class="note-underline">`, Close: "</span>"},
}

var escaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// Rules returns the inline rule table in priority order.
func Rules() []Rule {
	out := make([]Rule, len(rules))
	copy(out, rules)
	return out
}

// Escape replaces the HTML-significant characters &, < and > with entities.
func Escape(text string) string {
	return escaper.Replace(text)
}

// Render converts note markup to an HTML fragment. It never fails.
func Render(text string) string {
	if text == "" {
		return ""
	}

	lines := strings.Split(Escape(text), "\n")

	var b strings.Builder
	b.Grow(len(text) * 2)
	for i, line := range lines {
		if i > 0 {
			b.WriteString(lineBreak)
		}
		renderLine(&b, line)
	}
	return b.String()
}

func renderLine(b *strings.Builder, line string) {
	switch {
	case strings.HasPrefix(line, headingPrefix):
		b.WriteString(headingOpen)
		renderInline(b, line[len(headingPrefix):])
		b.WriteString(headingClose)

	case strings.HasPrefix(line, listPrefix) && !spanStartsAt(line, 0):
		// A strikethrough that claims the leading dash wins over the list item.
		b.WriteString(listOpen)
		renderInline(b, line[len(listPrefix):])
		b.WriteString(listClose)

	default:
		renderInline(b, line)
	}
}

func renderInline(b *strings.Builder, s string) {
	for i := 0; i < len(s); {
		r, end, ok := matchAt(s, i, len(rules))
		if !ok {
			b.WriteByte(s[i])
			i++
			continue
		}
		rule := rules[r]
		b.WriteString(rule.Open)
		renderInline(b, s[i+len(rule.Delim):end])
		b.WriteString(rule.Close)
		i = end + len(rule.Delim)
	}
}

func spanStartsAt(s string, i int) bool {
	_, _, ok := matchAt(s, i, len(rules))
	return ok
}

// matchAt tries the first limit rules at position i.
// It returns the winning rule index and the offset of its closer.
func matchAt(s string, i, limit int) (rule, closer int, ok bool) {
	for r := 0; r < limit; r++ {
		delim := rules[r].Delim
		if !strings.HasPrefix(s[i:], delim) {
			continue
		}
		if j := findCloser(s, i+len(delim), r); j >= 0 {
			return r, j, true
		}
	}
	return -1, -1, false
}

// findCloser returns the offset of the shortest closer for rule r at or after
// from. Spans of higher-priority rules are skipped as a whole.
func findCloser(s string, from, r int) int {
	delim := rules[r].Delim
	for k := from; k < len(s); {
		if hr, end, ok := matchAt(s, k, r); ok {
			k = end + len(rules[hr].Delim)
			continue
		}
		if strings.HasPrefix(s[k:], delim) {
			return k
		}
		k++
	}
	return -1
}
