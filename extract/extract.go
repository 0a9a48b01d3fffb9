// Package extract decides which spans of notebook text are worth sending
// to a translation provider, and locates the translatable comments inside
// code cells.
//
// Classification is a pure function over the text. Structural content
// (URLs, identifiers, bare numbers, shell variables, constants) and
// code-only fragments are filtered out so provider calls are spent on
// natural language. The checks are independent sufficient conditions;
// their order never changes the answer.
package extract

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// skipPatterns lists structural text shapes that must never be sent for
// translation. Matching is anchored at the start of the trimmed text.
var skipPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^\d+$`),                      // numbers only
	regexp.MustCompile(`^https?://`),                 // URLs
	regexp.MustCompile(`^\S+@\S+\.\S+`),              // email addresses
	regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`),   // variable names
	regexp.MustCompile(`^\$[A-Za-z_][A-Za-z0-9_]*$`), // shell variables
	regexp.MustCompile(`^[A-Z_][A-Z0-9_]*$`),         // constants
}

var (
	fencedCodeRe = regexp.MustCompile("(?s)```.*?```")
	inlineCodeRe = regexp.MustCompile("`[^`]+`")
	punctRunRe   = regexp.MustCompile(`[{}()\[\];,.]`)
	bareNumberRe = regexp.MustCompile(`\b\d+\b`)
	operatorRe   = regexp.MustCompile(`[=+\-*/<>!&|]`)
	markdownRe   = regexp.MustCompile(`[#*_\[\]()!-]`)
)

// ShouldSkip reports whether text carries no natural language worth
// translating: empty or whitespace-only text, structural patterns, very
// short fragments without a letter, and spans that are only code.
func ShouldSkip(text string) bool {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return true
	}

	for _, re := range skipPatterns {
		if re.MatchString(trimmed) {
			return true
		}
	}

	if utf8.RuneCountInString(trimmed) <= 2 && !containsLetter(trimmed) {
		return true
	}

	return onlyCode(trimmed)
}

// onlyCode reports whether text contains nothing but code. Fenced and
// inline code spans are removed, punctuation, bare numbers and operator
// characters are blanked out, and whatever tokens survive must include at
// least two meaningful words (longer than two characters, not all-caps).
func onlyCode(text string) bool {
	stripped := fencedCodeRe.ReplaceAllString(text, "")
	stripped = inlineCodeRe.ReplaceAllString(stripped, "")
	stripped = punctRunRe.ReplaceAllString(stripped, " ")
	stripped = bareNumberRe.ReplaceAllString(stripped, " ")
	stripped = operatorRe.ReplaceAllString(stripped, " ")

	meaningful := 0
	for _, word := range strings.Fields(stripped) {
		if utf8.RuneCountInString(word) > 2 && !allUpper(word) {
			meaningful++
		}
	}
	return meaningful < 2
}

// HasTranslatableContent reports whether markdown text still contains
// natural-language prose after code spans and markdown punctuation are
// stripped: at least two tokens longer than two characters that each
// contain a letter. Any alphabetic script counts, not only Latin.
func HasTranslatableContent(markdown string) bool {
	if strings.TrimSpace(markdown) == "" {
		return false
	}

	stripped := fencedCodeRe.ReplaceAllString(markdown, "")
	stripped = inlineCodeRe.ReplaceAllString(stripped, "")
	stripped = markdownRe.ReplaceAllString(stripped, " ")

	meaningful := 0
	for _, word := range strings.Fields(stripped) {
		if utf8.RuneCountInString(word) > 2 && containsLetter(word) {
			meaningful++
			if meaningful >= 2 {
				return true
			}
		}
	}
	return false
}

// containsLetter reports whether s contains at least one letter from any
// script.
func containsLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}

// allUpper reports whether s has at least one cased letter and no
// lowercase letters, the usual shape of acronyms and constants.
func allUpper(s string) bool {
	hasUpper := false
	for _, r := range s {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsUpper(r) {
			hasUpper = true
		}
	}
	return hasUpper
}
