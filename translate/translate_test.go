// Package translate contains tests for the translation engine.
package translate

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/daekeun-ml/ipynb-translator/provider"
)

// fakeProvider returns scripted responses in call order. A nil entry in errs
// means the call succeeds with the corresponding response.
type fakeProvider struct {
	responses []string
	errs      []error
	calls     []provider.Request
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) Invoke(_ context.Context, req provider.Request) (string, error) {
	i := len(f.calls)
	f.calls = append(f.calls, req)
	if i < len(f.errs) && f.errs[i] != nil {
		return "", f.errs[i]
	}
	if i < len(f.responses) {
		return f.responses[i], nil
	}
	return "", errors.New("no scripted response")
}

// ---------------------------------------------------------------------------
// TranslateOne
// ---------------------------------------------------------------------------

func TestTranslateOne_SkipsWithoutProviderCall(t *testing.T) {
	f := &fakeProvider{}
	e := New(f, &Options{Language: "ko"})

	for _, text := range []string{"", "   ", "https://example.com", "my_variable", "$HOME", "MAX_RETRIES", "42", "x = 1"} {
		got := e.TranslateOne(context.Background(), text)
		if got.Status != StatusSkipped {
			t.Errorf("TranslateOne(%q).Status = %v, want StatusSkipped", text, got.Status)
		}
		if got.Text != text {
			t.Errorf("TranslateOne(%q).Text = %q, want unchanged", text, got.Text)
		}
	}
	if len(f.calls) != 0 {
		t.Errorf("provider called %d times for skipped text, want 0", len(f.calls))
	}
}

func TestTranslateOne_TranslatesAndSanitizes(t *testing.T) {
	f := &fakeProvider{responses: []string{`Here is the translation: "안녕하세요 세계입니다."`}}
	e := New(f, &Options{Language: "ko"})

	got := e.TranslateOne(context.Background(), "Hello world everyone")
	if got.Status != StatusTranslated {
		t.Fatalf("Status = %v, want StatusTranslated", got.Status)
	}
	if got.Text != "안녕하세요 세계입니다." {
		t.Errorf("Text = %q, want sanitized translation", got.Text)
	}

	if len(f.calls) != 1 {
		t.Fatalf("provider called %d times, want 1", len(f.calls))
	}
	req := f.calls[0]
	if req.User != "Hello world everyone" {
		t.Errorf("user message = %q, want the raw cell text", req.User)
	}
	if !strings.Contains(req.System, "Korean") {
		t.Errorf("system prompt does not name the target language:\n%s", req.System)
	}
	if req.MaxTokens != 4000 {
		t.Errorf("MaxTokens = %d, want default 4000", req.MaxTokens)
	}
	if req.Temperature != 0.1 {
		t.Errorf("Temperature = %v, want default 0.1", req.Temperature)
	}
}

func TestTranslateOne_ProviderErrorPassesThrough(t *testing.T) {
	f := &fakeProvider{errs: []error{errors.New("rate limited")}}

	var errLogs []string
	e := New(f, &Options{
		Language: "ko",
		OnError:  func(format string, args ...any) { errLogs = append(errLogs, format) },
	})

	got := e.TranslateOne(context.Background(), "Hello world everyone")
	if got.Status != StatusUnavailable {
		t.Fatalf("Status = %v, want StatusUnavailable", got.Status)
	}
	if got.Text != "Hello world everyone" {
		t.Errorf("Text = %q, want original text", got.Text)
	}
	if got.Reason == "" {
		t.Error("Reason is empty, want the provider error")
	}
	if len(errLogs) != 1 {
		t.Errorf("got %d error logs, want 1", len(errLogs))
	}
}

// ---------------------------------------------------------------------------
// TranslateBatch
// ---------------------------------------------------------------------------

func TestTranslateBatch_FiltersSkippedCells(t *testing.T) {
	f := &fakeProvider{responses: []string{"Bonjour le monde"}}
	e := New(f, &Options{Language: "fr"})

	texts := []string{"# setup", "Hello world", "x = 1"}
	got := e.TranslateBatch(context.Background(), texts)

	if len(got) != 3 {
		t.Fatalf("got %d outcomes, want 3", len(got))
	}
	if len(f.calls) != 1 {
		t.Fatalf("provider called %d times, want 1", len(f.calls))
	}
	if f.calls[0].User != "Hello world" {
		t.Errorf("batch request body = %q, want only the translatable cell", f.calls[0].User)
	}

	want := []Outcome{
		{Text: "# setup", Status: StatusSkipped},
		{Text: "Bonjour le monde", Status: StatusTranslated},
		{Text: "x = 1", Status: StatusSkipped},
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("outcome[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestTranslateBatch_SplitsResponseInOrder(t *testing.T) {
	f := &fakeProvider{responses: []string{"X---CELL_SEPARATOR---Y"}}
	e := New(f, &Options{Language: "fr"})

	texts := []string{"The quick brown fox", "Jumps over lazy dogs"}
	got := e.TranslateBatch(context.Background(), texts)

	if len(f.calls) != 1 {
		t.Fatalf("provider called %d times, want 1", len(f.calls))
	}
	if want := "The quick brown fox" + CellSeparator + "Jumps over lazy dogs"; f.calls[0].User != want {
		t.Errorf("batch request body = %q, want %q", f.calls[0].User, want)
	}
	if got[0].Text != "X" || got[1].Text != "Y" {
		t.Errorf("texts = [%q, %q], want [X, Y]", got[0].Text, got[1].Text)
	}
	if got[0].Status != StatusTranslated || got[1].Status != StatusTranslated {
		t.Errorf("statuses = [%v, %v], want both StatusTranslated", got[0].Status, got[1].Status)
	}
}

func TestTranslateBatch_FallsBackToIndividualCalls(t *testing.T) {
	batchErr := errors.New("batch exploded")
	f := &fakeProvider{
		errs:      []error{batchErr, nil, errors.New("second cell failed")},
		responses: []string{"", "X", ""},
	}

	var progress []int
	e := New(f, &Options{
		Language:   "fr",
		OnProgress: func(done, total int) { progress = append(progress, done) },
	})

	texts := []string{"The quick brown fox", "Jumps over lazy dogs"}
	got := e.TranslateBatch(context.Background(), texts)

	// One failed batch call, then one call per cell.
	if len(f.calls) != 3 {
		t.Fatalf("provider called %d times, want 3", len(f.calls))
	}
	if got[0].Text != "X" || got[0].Status != StatusTranslated {
		t.Errorf("outcome[0] = %+v, want translated X", got[0])
	}
	if got[1].Text != "Jumps over lazy dogs" || got[1].Status != StatusUnavailable {
		t.Errorf("outcome[1] = %+v, want original preserved", got[1])
	}
	if len(progress) != 2 || progress[1] != 2 {
		t.Errorf("progress calls = %v, want [1 2]", progress)
	}
}

func TestTranslateBatch_ShortResponseKeepsRemainingCells(t *testing.T) {
	// Two translatable cells but the model returns a single part.
	f := &fakeProvider{responses: []string{"X"}}
	e := New(f, &Options{Language: "fr"})

	texts := []string{"The quick brown fox", "Jumps over lazy dogs"}
	got := e.TranslateBatch(context.Background(), texts)

	if got[0].Text != "X" || got[0].Status != StatusTranslated {
		t.Errorf("outcome[0] = %+v, want translated X", got[0])
	}
	if got[1].Text != "Jumps over lazy dogs" || got[1].Status != StatusUnavailable {
		t.Errorf("outcome[1] = %+v, want original with StatusUnavailable", got[1])
	}
}

func TestTranslateBatch_AllSkippedMakesNoCalls(t *testing.T) {
	f := &fakeProvider{}
	e := New(f, &Options{Language: "ko"})

	texts := []string{"https://example.com", "x = 1", "42"}
	got := e.TranslateBatch(context.Background(), texts)

	if len(f.calls) != 0 {
		t.Errorf("provider called %d times, want 0", len(f.calls))
	}
	for i, o := range got {
		if o.Status != StatusSkipped || o.Text != texts[i] {
			t.Errorf("outcome[%d] = %+v, want skipped pass-through", i, o)
		}
	}
}

func TestTranslateBatch_AlwaysFailingProviderIsIdentity(t *testing.T) {
	f := &fakeProvider{errs: []error{
		errors.New("down"), errors.New("down"), errors.New("down"), errors.New("down"),
	}}
	e := New(f, &Options{Language: "ko"})

	texts := []string{"# setup", "Hello world everyone", "More translatable prose here", "x = 1"}
	got := e.TranslateBatch(context.Background(), texts)

	if len(got) != len(texts) {
		t.Fatalf("got %d outcomes, want %d", len(got), len(texts))
	}
	for i, o := range got {
		if o.Text != texts[i] {
			t.Errorf("outcome[%d].Text = %q, want original %q", i, o.Text, texts[i])
		}
	}
	// One batch call plus one fallback call per translatable cell.
	if len(f.calls) != 3 {
		t.Errorf("provider called %d times, want 3", len(f.calls))
	}
}

func TestTranslateBatch_Empty(t *testing.T) {
	e := New(&fakeProvider{}, nil)
	if got := e.TranslateBatch(context.Background(), nil); got != nil {
		t.Errorf("TranslateBatch(nil) = %v, want nil", got)
	}
}

// ---------------------------------------------------------------------------
// Code cells
// ---------------------------------------------------------------------------

func TestTranslateCodeComments_TranslatesOnlyComments(t *testing.T) {
	code := "import pandas as pd\n" +
		"df = pd.read_csv('data.csv')  # load the training data\n" +
		"print(df.shape)"

	f := &fakeProvider{responses: []string{"학습 데이터를 불러옵니다."}}
	e := New(f, &Options{Language: "ko"})

	got := e.TranslateCodeComments(context.Background(), code)

	want := "import pandas as pd\n" +
		"df = pd.read_csv('data.csv')  # 학습 데이터를 불러옵니다.\n" +
		"print(df.shape)"
	if got != want {
		t.Errorf("TranslateCodeComments:\ngot  %q\nwant %q", got, want)
	}
	if len(f.calls) != 1 {
		t.Fatalf("provider called %d times, want 1", len(f.calls))
	}
	if f.calls[0].User != "load the training data" {
		t.Errorf("user message = %q, want the comment content only", f.calls[0].User)
	}
}

func TestTranslateCodeComments_SkipsNonTranslatableComments(t *testing.T) {
	code := "url = 'https://example.com'  # https://docs.example.com\n" +
		"rate = 0.5  # learning rate for the optimizer"

	f := &fakeProvider{responses: []string{"옵티마이저의 학습률입니다."}}
	e := New(f, &Options{Language: "ko"})

	got := e.TranslateCodeComments(context.Background(), code)

	if len(f.calls) != 1 {
		t.Fatalf("provider called %d times, want 1 (URL comment skipped)", len(f.calls))
	}
	if !strings.Contains(got, "# https://docs.example.com") {
		t.Errorf("URL comment was altered:\n%s", got)
	}
	if !strings.Contains(got, "# 옵티마이저의 학습률입니다.") {
		t.Errorf("translatable comment was not replaced:\n%s", got)
	}
}

func TestTranslateCodeComments_FailedCommentKeepsOriginal(t *testing.T) {
	code := "x = 1  # count the number of retries"

	f := &fakeProvider{errs: []error{errors.New("down")}}
	e := New(f, &Options{Language: "ko"})

	got := e.TranslateCodeComments(context.Background(), code)
	if got != code {
		t.Errorf("got %q, want code unchanged on provider failure", got)
	}
}

func TestTranslateCodeComments_NoCommentsMakesNoCalls(t *testing.T) {
	f := &fakeProvider{}
	e := New(f, &Options{Language: "ko"})

	code := "import numpy as np\nprint(np.zeros(3))"
	if got := e.TranslateCodeComments(context.Background(), code); got != code {
		t.Errorf("got %q, want unchanged", got)
	}
	if len(f.calls) != 0 {
		t.Errorf("provider called %d times, want 0", len(f.calls))
	}
}

func TestTranslateCodeCells_PerCellResults(t *testing.T) {
	f := &fakeProvider{responses: []string{"첫 번째 주석입니다.", "두 번째 주석입니다."}}
	e := New(f, &Options{Language: "ko"})

	codes := []string{
		"a = 1  # first comment goes here",
		"print(a)",
		"b = 2  # second comment goes here",
	}
	got := e.TranslateCodeCells(context.Background(), codes)

	if len(got) != 3 {
		t.Fatalf("got %d results, want 3", len(got))
	}
	if got[1] != "print(a)" {
		t.Errorf("cell without comments changed: %q", got[1])
	}
	if !strings.Contains(got[0], "첫 번째 주석입니다.") || !strings.Contains(got[2], "두 번째 주석입니다.") {
		t.Errorf("comments not translated per cell: %q, %q", got[0], got[2])
	}
}

// ---------------------------------------------------------------------------
// Outcome helpers
// ---------------------------------------------------------------------------

func TestTexts(t *testing.T) {
	outcomes := []Outcome{
		{Text: "a", Status: StatusSkipped},
		{Text: "b", Status: StatusTranslated},
	}
	got := Texts(outcomes)
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("Texts = %v, want [a b]", got)
	}
}
