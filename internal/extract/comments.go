package extract

import (
	"strings"

	"getdocs/internal/model"
)

// Normalize merges the documentation comments leading a declaration site into
// one description. Consecutive `///` comments join with a single space;
// `/** */` blocks keep their internal newlines and join with a blank line
// between blocks. A blank source line before a comment run discards
// everything accumulated before it, so only the nearest contiguous run
// survives. Non-documentation comments are ignored. Never fails; a nil
// declaration yields "".
func Normalize(decl *model.Declaration) string {
	if decl == nil {
		return ""
	}
	var parts []string
	lastWasLine := false
	for _, c := range decl.Comments {
		if c.BlankBefore {
			parts = parts[:0]
			lastWasLine = false
		}
		if c.Block {
			text, ok := stripBlockMarkers(c.Text)
			if !ok {
				lastWasLine = false
				continue
			}
			parts = append(parts, text)
			lastWasLine = false
			continue
		}
		text, ok := stripLineMarker(c.Text)
		if !ok {
			lastWasLine = false
			continue
		}
		if lastWasLine && len(parts) > 0 {
			if text != "" {
				parts[len(parts)-1] = strings.TrimRight(parts[len(parts)-1]+" "+text, " ")
			}
		} else {
			parts = append(parts, text)
		}
		lastWasLine = true
	}
	return StripCommentPrefix(strings.Join(parts, "\n\n"))
}

// stripLineMarker unwraps a `///` documentation comment. Plain `//` comments
// are not documentation.
func stripLineMarker(text string) (string, bool) {
	if !strings.HasPrefix(text, "///") {
		return "", false
	}
	return strings.TrimSpace(text[3:]), true
}

// stripBlockMarkers unwraps a `/** */` documentation block. Plain `/* */`
// comments are not documentation.
func stripBlockMarkers(text string) (string, bool) {
	if !strings.HasPrefix(text, "/**") || !strings.HasSuffix(text, "*/") || len(text) < 5 {
		return "", false
	}
	body := text[3 : len(text)-2]
	body = strings.TrimPrefix(body, "\r\n")
	body = strings.TrimPrefix(body, "\n")
	return strings.TrimRight(body, " \t\r\n"), true
}

// StripCommentPrefix removes the common leading indentation/decoration
// prefix (spaces, tabs, `*`) shared by every line after the first, then
// trims trailing blank lines. Applying it twice equals applying it once.
func StripCommentPrefix(text string) string {
	lines := strings.Split(text, "\n")
	if len(lines) > 1 {
		// Decoration-only lines (whitespace and stars) carry no content and
		// would shorten the shared prefix, so they are blanked instead.
		prefix, found := "", false
		for _, line := range lines[1:] {
			if decorationOnly(line) {
				continue
			}
			dec := decorationPrefix(line)
			if !found {
				prefix, found = dec, true
				continue
			}
			prefix = commonPrefix(prefix, dec)
			if prefix == "" {
				break
			}
		}
		for i, line := range lines {
			if decorationOnly(line) {
				lines[i] = ""
				continue
			}
			if prefix != "" {
				lines[i] = strings.TrimPrefix(line, prefix)
			}
		}
	}
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// decorationOnly reports a line holding nothing but whitespace and stars.
func decorationOnly(line string) bool {
	return strings.Trim(line, " \t*\r") == ""
}

// decorationPrefix is the leading run of whitespace and `*` characters.
func decorationPrefix(line string) string {
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case ' ', '\t', '*':
		default:
			return line[:i]
		}
	}
	return line
}

func commonPrefix(a, b string) string {
	max := len(a)
	if len(b) < max {
		max = len(b)
	}
	i := 0
	for i < max && a[i] == b[i] {
		i++
	}
	return a[:i]
}
