package extract

import "strings"

// Comment is a located natural-language fragment inside a code cell: the
// owning line number, the raw line, and the trimmed content after the
// first '#'. Comments only live for one extraction/replacement pass.
type Comment struct {
	// Line is the 0-based line number within the cell source.
	Line int
	// Text is the full original line.
	Text string
	// Content is the trimmed comment text after the first '#'.
	Content string
}

// Comments extracts the '#' line comments from code, one per line at most.
// Only the first '#' of a line is considered, and it counts as a comment
// marker only when the text before it contains an even number of both
// single and double quotes. That is a line-local heuristic, not a lexer:
// a '#' inside a multi-line string literal, or behind escaped quotes,
// will be misread. Comments whose content is empty or begins with another
// '#' (hard dividers like '#####') are excluded.
func Comments(code string) []Comment {
	var comments []Comment

	for i, line := range strings.Split(code, "\n") {
		idx := strings.Index(line, "#")
		if idx < 0 {
			continue
		}
		before := line[:idx]
		if strings.Count(before, `"`)%2 != 0 || strings.Count(before, "'")%2 != 0 {
			continue
		}
		content := strings.TrimSpace(line[idx+1:])
		if content == "" || strings.HasPrefix(content, "#") {
			continue
		}
		comments = append(comments, Comment{Line: i, Text: line, Content: content})
	}

	return comments
}

// HasTranslatableComments reports whether code contains at least one
// comment whose content is natural language rather than skippable
// structure.
func HasTranslatableComments(code string) bool {
	if strings.TrimSpace(code) == "" {
		return false
	}
	for _, c := range Comments(code) {
		content := strings.TrimSpace(c.Content)
		if content != "" && !ShouldSkip(content) {
			return true
		}
	}
	return false
}

// ReplaceComments substitutes each extracted comment's content with the
// matching entry of contents, preserving everything up to and including
// the '#'. contents must line up 1:1 with Comments(code); on a count
// mismatch the code is returned unchanged and ok is false, which callers
// should treat as a warning rather than a failure.
func ReplaceComments(code string, contents []string) (string, bool) {
	comments := Comments(code)
	if len(comments) != len(contents) {
		return code, false
	}
	if len(comments) == 0 {
		return code, true
	}

	lines := strings.Split(code, "\n")
	for i, c := range comments {
		idx := strings.Index(c.Text, "#")
		lines[c.Line] = c.Text[:idx+1] + " " + contents[i]
	}
	return strings.Join(lines, "\n"), true
}
