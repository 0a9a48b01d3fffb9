package translate

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// ---------------------------------------------------------------------------
// Prompt templates
// ---------------------------------------------------------------------------
//
// Templates carry {{targetLang}}, {{baseRules}}, {{polishing}}, and
// {{terminology}} placeholders resolved by renderPrompt. The rendered prompt
// goes into the provider request's system slot; the cell text itself is the
// user message.

const baseRules = `CRITICAL RULES:
- Keep brand names (AWS, Amazon, Microsoft, Google, Apple, etc.) untranslated
- Keep cloud service names (AWS Lambda, Amazon S3, Google Cloud Storage, etc.) untranslated
- Keep company names, person names, and product names untranslated
- Keep technical terms that are commonly used in English (API, SDK, CLI, etc.)
- Keep programming language keywords, function names, and variable names untranslated
- Keep library/package names (pandas, numpy, matplotlib, sklearn, etc.) untranslated
- Keep file paths, URLs, and email addresses untranslated
- Keep time expressions, currency amounts, and numbers untranslated
- Preserve formatting markers (bullets, numbers, etc.)

JUPYTER NOTEBOOK SPECIFIC RULES:
- Translate markdown text content naturally
- In code snippets within markdown, translate ONLY comments and docstrings to {{targetLang}}
- Keep all code syntax, variable names, function names, and keywords unchanged
- Translate explanatory text but preserve technical accuracy
- Maintain code block formatting and syntax highlighting markers

TRANSLATION REQUIREMENTS:
- ALWAYS translate Japanese katakana words (e.g., カタカナ) to the target language
- ALWAYS translate short text fragments, even if they are only 2-5 characters
- Do NOT skip translation of any text based on length or format`

const markdownPromptTemplate = `You are a professional translator specializing in technical documentation and Jupyter notebooks. Translate the following markdown content to {{targetLang}}.

{{baseRules}}

MARKDOWN SPECIFIC RULES:
- Preserve all markdown formatting (headers, lists, links, code blocks, etc.)
- Translate text content while keeping markdown syntax intact
- For inline code snippets, translate comments and docstrings but keep code unchanged
- For code blocks, translate only comments and docstrings within the code
- Maintain proper markdown structure and readability

FINAL OUTPUT REQUIREMENTS:
- Return ONLY the translated markdown content with NO additional explanations, comments, or metadata
- Do NOT include phrases like "Here is the translation:" or "Translated text:"
- Do NOT add quotation marks around the result
- ENSURE every translated sentence ends with proper punctuation marks (., ?, !)
- Double-check that no sentence is left without ending punctuation{{polishing}}{{terminology}}

Respond with the translated markdown content only:`

const batchPromptTemplate = `You are a professional translator specializing in technical documentation and Jupyter notebooks. Translate the following markdown cells to {{targetLang}}.

{{baseRules}}

MARKDOWN SPECIFIC RULES:
- Preserve all markdown formatting (headers, lists, links, code blocks, etc.)
- Translate text content while keeping markdown syntax intact
- For inline code snippets, translate comments and docstrings but keep code unchanged
- For code blocks, translate only comments and docstrings within the code
- Maintain proper markdown structure and readability

BATCH TRANSLATION FORMAT:
- Each markdown cell is separated by "---CELL_SEPARATOR---"
- Return translations in the SAME ORDER, separated by "---CELL_SEPARATOR---"
- Return ONLY the translated markdown cells with NO additional explanations, comments, or metadata
- Do NOT include phrases like "Here is the translation:" or "Translated text:"
- Do NOT add quotation marks around the results
- ENSURE every translated sentence ends with proper punctuation marks (., ?, !)
- Double-check that no sentence is left without ending punctuation{{polishing}}{{terminology}}

Input format:
Markdown Cell 1
---CELL_SEPARATOR---
Markdown Cell 2
---CELL_SEPARATOR---
Markdown Cell 3

Expected output format:
Translated Markdown Cell 1
---CELL_SEPARATOR---
Translated Markdown Cell 2
---CELL_SEPARATOR---
Translated Markdown Cell 3

Respond with the translated markdown cells only:`

const commentPromptTemplate = `You are a professional translator specializing in code documentation. Translate the following code comment to {{targetLang}}.

CRITICAL RULES FOR COMMENT TRANSLATION:
- Keep brand names, technical terms, and proper nouns untranslated
- Keep variable names, function names, and library/package names untranslated
- Keep file paths, URLs, and command-line flags untranslated
- Preserve markers like TODO or FIXME at the start of the comment

FINAL OUTPUT REQUIREMENTS:
- Return ONLY the translated comment text with NO additional explanations or metadata
- Do NOT include a leading '#' marker, it is added back automatically
- Do NOT wrap the result in quotes or code fences{{polishing}}{{terminology}}

Respond with the translated comment text only:`

const polishingRules = `
- Focus on natural, fluent translation rather than literal word-for-word translation
- Adapt expressions and idioms to sound natural in the target language
- Maintain the original meaning while making it sound like native content
- Use appropriate tone and style for the target language and context
- For technical documentation, use clear and precise language`

// koreanStyleRules are style constraints that only make sense for Korean
// targets and are appended after the terminology table.
const koreanStyleRules = `

NATURAL KOREAN EXPRESSIONS:
- Use "~하겠습니다" instead of "~할 것입니다" for future intentions
- Use "~해보겠습니다" instead of "~해볼 것입니다" for trying actions
- Use "~살펴보겠습니다" instead of "~살펴볼 것입니다" for examining
- Use "~만들어보겠습니다" instead of "~만들어볼 것입니다" for creating
- Use "~시작하겠습니다" instead of "~시작할 것입니다" for beginning
- Use "~생성하겠습니다" instead of "~생성할 것입니다" for generating
- Examples: "Let's create" → "만들어보겠습니다", "We'll generate" → "생성하겠습니다"

PUNCTUATION RULES (STRICTLY ENFORCE):
- EVERY Korean sentence MUST end with proper punctuation (period ., question mark ?, exclamation mark !)
- ALL sentences ending with Korean verbs MUST have a period:
  * "있습니다" → "있습니다."
  * "합니다" → "합니다."
  * "됩니다" → "됩니다."
  * "습니다" → "습니다."
  * "겠습니다" → "겠습니다."
  * "했습니다" → "했습니다."
  * "입니다" → "입니다."
- NEVER leave Korean sentences without ending punctuation
- Check EVERY sentence ending and add appropriate punctuation
- This is MANDATORY for proper Korean grammar

AVOID LITERAL TRANSLATIONS:
- "In this tutorial, we've successfully:" → "이 튜토리얼에서는 다음을 성공적으로 수행했습니다:" (NOT "우리는 성공적으로:")
- "We have learned:" → "다음을 학습했습니다:" (NOT "우리는 학습했습니다:")
- "We will explore:" → "다음을 살펴보겠습니다:" (NOT "우리는 살펴볼 것입니다:")
- "We can see that:" → "다음을 확인할 수 있습니다:" (NOT "우리는 볼 수 있습니다:")
- "We've built:" → "구축했습니다:" (NOT "우리는 구축했습니다:")
- Avoid overusing "우리는" - use natural Korean sentence structures instead

PERSON NAMES - DO NOT TRANSLATE:
- Keep ALL person names in original English
- Do NOT translate names to Korean phonetic equivalents
- Names should remain exactly as: "Daekeun Kim", "Gil-dong Hong", etc.

CODE COMMENTS AND DOCSTRINGS:
- Translate comments (# This is a comment → # 이것은 주석입니다)
- Translate docstrings ("""This function does...""" → """이 함수는...을 수행합니다""")
- Keep code structure and indentation intact`

// KoreanTerminology is the built-in glossary applied when the target language
// is Korean and no explicit glossary is configured.
var KoreanTerminology = map[string]string{
	"Machine Learning":            "머신 러닝",
	"Deep Learning":               "딥 러닝",
	"Data Science":                "데이터 사이언스",
	"Artificial Intelligence":     "인공지능",
	"Neural Network":              "신경망",
	"Natural Language Processing": "자연어 처리",
	"Computer Vision":             "컴퓨터 비전",
	"Big Data":                    "빅 데이터",
	"Cloud Computing":             "클라우드 컴퓨팅",
	"DevOps":                      "DevOps",
	"MLOps":                       "MLOps",
	"API":                         "API",
	"SDK":                         "SDK",
	"CLI":                         "CLI",
	"AWS":                         "AWS",
	"Amazon":                      "Amazon",
}

// LoadGlossary reads a YAML file mapping source terms to fixed
// target-language translations.
func LoadGlossary(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading glossary: %w", err)
	}
	glossary := map[string]string{}
	if err := yaml.Unmarshal(data, &glossary); err != nil {
		return nil, fmt.Errorf("parsing glossary %s: %w", path, err)
	}
	return glossary, nil
}

// ---------------------------------------------------------------------------
// Prompt rendering
// ---------------------------------------------------------------------------

func (o *Options) markdownPrompt() string { return o.renderPrompt(markdownPromptTemplate) }
func (o *Options) batchPrompt() string    { return o.renderPrompt(batchPromptTemplate) }
func (o *Options) commentPrompt() string  { return o.renderPrompt(commentPromptTemplate) }

// renderPrompt resolves all placeholders. {{targetLang}} is replaced last so
// that occurrences inside the base rules resolve too.
func (o *Options) renderPrompt(template string) string {
	out := strings.ReplaceAll(template, "{{baseRules}}", baseRules)
	out = strings.ReplaceAll(out, "{{polishing}}", o.polishingInstruction())
	out = strings.ReplaceAll(out, "{{terminology}}", o.terminologyRules())
	return strings.ReplaceAll(out, "{{targetLang}}", o.effectiveLangName())
}

func (o *Options) polishingInstruction() string {
	if o.Literal {
		return ""
	}
	return polishingRules
}

// terminologyRules renders the glossary as prompt rules. With no explicit
// glossary, Korean targets fall back to KoreanTerminology and other languages
// get no terminology block. Terms are sorted so prompts stay deterministic.
func (o *Options) terminologyRules() string {
	pairs := o.Glossary
	if len(pairs) == 0 {
		if o.effectiveLanguage() != "ko" {
			return ""
		}
		pairs = KoreanTerminology
	}

	terms := make([]string, 0, len(pairs))
	for term := range pairs {
		terms = append(terms, term)
	}
	sort.Strings(terms)

	var b strings.Builder
	b.WriteString("\n\nTERMINOLOGY CONSISTENCY:\n")
	for _, term := range terms {
		fmt.Fprintf(&b, "- \"%s\" → \"%s\" (consistently use this term)\n", term, pairs[term])
	}
	b.WriteString("- Use the SAME translation for the SAME English term throughout the entire notebook")
	if o.effectiveLanguage() == "ko" {
		b.WriteString(koreanStyleRules)
	}
	return b.String()
}
