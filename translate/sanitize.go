package translate

import "strings"

// CellSeparator is the literal token used to pack multiple cell texts into
// one provider request and to unpack the response. The batch prompt documents
// it to the model; both sides must use the exact same token.
const CellSeparator = "---CELL_SEPARATOR---"

// unwantedPrefixes are preamble phrases models like to add despite being told
// not to. Checked case-insensitively in order; the first match is stripped.
var unwantedPrefixes = []string{
	"Here are the translations:",
	"Here is the translation:",
	"Translated texts:",
	"Translated text:",
	"Translations:",
	"Translation:",
	"번역:",
	"번역 결과:",
	"다음은 번역입니다:",
	"翻译:",
	"翻訳:",
	"Traductions:",
	"Übersetzungen:",
	"Traducciones:",
	"The translations are:",
	"Translation results:",
}

// unwantedSuffixes are postamble phrases, handled symmetrically.
var unwantedSuffixes = []string{
	"End of translations.",
	"Translation complete.",
	"번역 완료.",
	"翻译完成。",
	"翻訳完了。",
}

// cleanResponse trims a raw model response and strips at most one known
// preamble phrase and one known postamble phrase.
func cleanResponse(response string) string {
	cleaned := strings.TrimSpace(response)

	for _, prefix := range unwantedPrefixes {
		if len(cleaned) >= len(prefix) && strings.EqualFold(cleaned[:len(prefix)], prefix) {
			cleaned = strings.TrimSpace(cleaned[len(prefix):])
			break
		}
	}

	for _, suffix := range unwantedSuffixes {
		if len(cleaned) >= len(suffix) && strings.EqualFold(cleaned[len(cleaned)-len(suffix):], suffix) {
			cleaned = strings.TrimSpace(cleaned[:len(cleaned)-len(suffix)])
			break
		}
	}

	return cleaned
}

// stripWrappingQuotes removes a single pair of matching quote characters
// when they wrap the entire string.
func stripWrappingQuotes(text string) string {
	if len(text) < 2 {
		return text
	}
	first, last := text[0], text[len(text)-1]
	if first == last && (first == '"' || first == '\'') {
		return strings.TrimSpace(text[1 : len(text)-1])
	}
	return text
}

// stripCodeFence removes a markdown code fence wrapping the entire string,
// dropping the opening fence line (including any language tag) and the
// closing fence line.
func stripCodeFence(text string) string {
	if !strings.HasPrefix(text, "```") || !strings.HasSuffix(text, "```") {
		return text
	}
	lines := strings.Split(text, "\n")
	if strings.HasPrefix(lines[0], "```") {
		lines = lines[1:]
	}
	if len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "```" {
		lines = lines[:len(lines)-1]
	}
	return strings.Join(lines, "\n")
}
