// Package translate implements AI-powered translation of Jupyter notebook
// cells. Markdown cells are grouped into batched provider requests joined by
// a separator token; a failed batch degrades to one request per cell, and a
// failed single request degrades to pass-through of the original text. Code
// cells are handled per comment so that counts always line up for
// reinsertion.
package translate

import (
	"context"
	"strings"

	"github.com/daekeun-ml/ipynb-translator/extract"
	"github.com/daekeun-ml/ipynb-translator/langmeta"
	"github.com/daekeun-ml/ipynb-translator/provider"
)

// ---------------------------------------------------------------------------
// Outcomes
// ---------------------------------------------------------------------------

// Status classifies how a cell's text was produced.
type Status int

const (
	// StatusTranslated means the provider returned a translation.
	StatusTranslated Status = iota
	// StatusSkipped means the cell had no translatable content and the
	// provider was never called.
	StatusSkipped
	// StatusUnavailable means translation was attempted but failed; the
	// original text is passed through.
	StatusUnavailable
)

// Outcome is the per-cell result of a translation call. Text is always
// usable: the translation on success, the original text otherwise.
type Outcome struct {
	Text   string
	Status Status
	// Reason describes the failure when Status is StatusUnavailable.
	Reason string
}

// Texts flattens outcomes to their final texts, in order.
func Texts(outcomes []Outcome) []string {
	texts := make([]string, len(outcomes))
	for i, o := range outcomes {
		texts[i] = o.Text
	}
	return texts
}

// ---------------------------------------------------------------------------
// Translation options
// ---------------------------------------------------------------------------

// Options controls the translation behavior. The zero value translates to
// Korean with polishing enabled. New copies the Options, so an Engine's
// configuration cannot change after construction.
type Options struct {
	// Language is the target language code (e.g., "ko", "ja").
	Language string
	// LanguageName is the human-readable name used in prompts (e.g.,
	// "Korean"). Empty means resolve from Language.
	LanguageName string
	// MaxTokens caps the provider response length per request. Default: 4000.
	MaxTokens int
	// Temperature is the sampling temperature. Default: 0.1.
	Temperature float32
	// Literal disables the polishing instructions, producing a more
	// word-for-word translation.
	Literal bool
	// Glossary maps source terms to fixed target-language translations.
	// Empty means the built-in Korean terminology for Korean targets.
	Glossary map[string]string
	// OnProgress is called after each cell during per-cell translation.
	OnProgress func(done, total int)
	// OnLog emits log messages during translation.
	OnLog func(format string, args ...any)
	// OnError emits error messages during translation.
	OnError func(format string, args ...any)
}

func (o *Options) log(format string, args ...any) {
	if o.OnLog != nil {
		o.OnLog(format, args...)
	}
}

func (o *Options) logError(format string, args ...any) {
	if o.OnError != nil {
		o.OnError(format, args...)
	} else if o.OnLog != nil {
		o.OnLog(format, args...)
	}
}

func (o *Options) progress(done, total int) {
	if o.OnProgress != nil {
		o.OnProgress(done, total)
	}
}

func (o *Options) effectiveLanguage() string {
	if o.Language != "" {
		return o.Language
	}
	return "ko"
}

func (o *Options) effectiveLangName() string {
	if o.LanguageName != "" {
		return o.LanguageName
	}
	return langmeta.Name(o.effectiveLanguage())
}

func (o *Options) effectiveMaxTokens() int {
	if o.MaxTokens > 0 {
		return o.MaxTokens
	}
	return 4000
}

func (o *Options) effectiveTemperature() float32 {
	if o.Temperature > 0 {
		return o.Temperature
	}
	return 0.1
}

// ---------------------------------------------------------------------------
// Engine
// ---------------------------------------------------------------------------

// Engine translates notebook cells through a provider. All calls are
// synchronous; the caller decides how many cells go into one batch.
type Engine struct {
	provider provider.Provider
	opts     Options
}

// New creates an Engine. The options are copied; opts may be nil for
// defaults.
func New(p provider.Provider, opts *Options) *Engine {
	e := &Engine{provider: p}
	if opts != nil {
		e.opts = *opts
	}
	return e
}

// callOne performs a single provider round trip with the rendered system
// prompt and returns the trimmed raw response.
func (e *Engine) callOne(ctx context.Context, system, user string) (string, error) {
	resp, err := e.provider.Invoke(ctx, provider.Request{
		System:      system,
		User:        user,
		MaxTokens:   e.opts.effectiveMaxTokens(),
		Temperature: e.opts.effectiveTemperature(),
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(resp), nil
}

// ---------------------------------------------------------------------------
// Markdown cells
// ---------------------------------------------------------------------------

// TranslateOne translates a single markdown cell. Cells with no translatable
// content are returned unchanged without a provider call. Provider failures
// degrade to pass-through of the original text.
func (e *Engine) TranslateOne(ctx context.Context, text string) Outcome {
	if extract.ShouldSkip(text) {
		return Outcome{Text: text, Status: StatusSkipped}
	}

	resp, err := e.callOne(ctx, e.opts.markdownPrompt(), text)
	if err != nil {
		e.opts.logError("translation failed: %v", err)
		return Outcome{Text: text, Status: StatusUnavailable, Reason: err.Error()}
	}

	return Outcome{Text: stripWrappingQuotes(cleanResponse(resp)), Status: StatusTranslated}
}

// TranslateBatch translates markdown cells in one provider request. Cells
// with no translatable content are excluded from the request and passed
// through; the rest are joined with CellSeparator, sent once, and the
// response is split back and reassembled in the original positions. If the
// batch call fails, every cell is retried individually. The result always
// has the same length and order as texts.
func (e *Engine) TranslateBatch(ctx context.Context, texts []string) []Outcome {
	if len(texts) == 0 {
		return nil
	}

	skip := make([]bool, len(texts))
	var translatable []string
	for i, text := range texts {
		if extract.ShouldSkip(text) {
			skip[i] = true
			continue
		}
		translatable = append(translatable, text)
	}

	outcomes := make([]Outcome, len(texts))
	if len(translatable) == 0 {
		for i, text := range texts {
			outcomes[i] = Outcome{Text: text, Status: StatusSkipped}
		}
		return outcomes
	}

	e.opts.log("batch translating %d of %d cells", len(translatable), len(texts))

	resp, err := e.callOne(ctx, e.opts.batchPrompt(), strings.Join(translatable, CellSeparator))
	if err != nil {
		e.opts.logError("batch translation failed: %v", err)
		return e.fallbackIndividual(ctx, texts)
	}

	parts := e.parseBatch(resp, len(translatable))

	// Reassemble in original order, consuming parts for non-skipped cells.
	// If the model returned fewer parts than requested, the remaining cells
	// keep their original text; extra parts are ignored.
	next := 0
	for i, text := range texts {
		if skip[i] {
			outcomes[i] = Outcome{Text: text, Status: StatusSkipped}
			continue
		}
		if next < len(parts) {
			outcomes[i] = Outcome{Text: parts[next], Status: StatusTranslated}
			next++
			continue
		}
		outcomes[i] = Outcome{Text: text, Status: StatusUnavailable, Reason: "batch response ran short"}
	}
	return outcomes
}

// parseBatch cleans a batch response and splits it on CellSeparator. A count
// mismatch is logged but not enforced; reassembly handles short responses.
func (e *Engine) parseBatch(response string, expected int) []string {
	parts := strings.Split(cleanResponse(response), CellSeparator)
	for i, part := range parts {
		parts[i] = strings.TrimSpace(part)
	}
	if len(parts) != expected {
		e.opts.logError("expected %d parts in batch response, got %d", expected, len(parts))
	}
	return parts
}

// fallbackIndividual translates every cell with its own provider request.
// Per-cell failures degrade to pass-through; the fallback itself never
// fails, and there is no second retry of the batch.
func (e *Engine) fallbackIndividual(ctx context.Context, texts []string) []Outcome {
	e.opts.log("falling back to individual translation for %d cells", len(texts))

	outcomes := make([]Outcome, len(texts))
	for i, text := range texts {
		outcomes[i] = e.TranslateOne(ctx, text)
		e.opts.progress(i+1, len(texts))
	}
	return outcomes
}

// ---------------------------------------------------------------------------
// Code cells
// ---------------------------------------------------------------------------

// TranslateCodeComments translates the line comments of one code cell,
// leaving all code untouched. Comments are translated one by one so the
// translated count always matches the extracted count; a comment whose
// translation fails keeps its original text. On any reinsertion problem the
// cell is returned unchanged.
func (e *Engine) TranslateCodeComments(ctx context.Context, code string) string {
	if !extract.HasTranslatableComments(code) {
		return code
	}

	comments := extract.Comments(code)
	contents := make([]string, len(comments))
	for i, c := range comments {
		contents[i] = c.Content
		if extract.ShouldSkip(c.Content) {
			continue
		}
		resp, err := e.callOne(ctx, e.opts.commentPrompt(), c.Content)
		if err != nil {
			e.opts.logError("comment translation failed on line %d: %v", c.Line+1, err)
			continue
		}
		translated := stripWrappingQuotes(stripCodeFence(cleanResponse(resp)))
		if translated != "" {
			contents[i] = translated
		}
	}

	updated, ok := extract.ReplaceComments(code, contents)
	if !ok {
		e.opts.logError("comment count mismatch, keeping code cell unchanged")
		return code
	}
	return updated
}

// TranslateCodeCells translates comments in each code cell independently.
// There is no cross-cell batching: comment counts must match per cell.
func (e *Engine) TranslateCodeCells(ctx context.Context, codes []string) []string {
	if len(codes) == 0 {
		return nil
	}

	e.opts.log("translating comments in %d code cells", len(codes))

	results := make([]string, len(codes))
	for i, code := range codes {
		results[i] = e.TranslateCodeComments(ctx, code)
		e.opts.progress(i+1, len(codes))
	}
	return results
}
