package extract

import "testing"

func TestShouldSkip(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want bool
	}{
		{name: "empty", text: "", want: true},
		{name: "whitespace only", text: "  \n\t ", want: true},
		{name: "pure number", text: "12345", want: true},
		{name: "url", text: "https://example.com/data.csv", want: true},
		{name: "http url", text: "http://example.com", want: true},
		{name: "email", text: "user@example.com", want: true},
		{name: "identifier", text: "my_variable", want: true},
		{name: "shell variable", text: "$AWS_PROFILE", want: true},
		{name: "constant", text: "MAX_RETRIES", want: true},
		{name: "short symbol", text: "->", want: true},
		{name: "short punctuation", text: "??", want: true},
		{name: "assignment", text: "x = 1", want: true},
		{name: "heading marker only", text: "# Setup", want: true},
		{name: "fenced code only", text: "```python\nx = 1\nprint(x)\n```", want: true},
		{name: "acronym soup", text: "AWS EC2 S3", want: true},
		{name: "abbreviation", text: "i.e.", want: true},
		{name: "plain sentence", text: "Hello world", want: false},
		{name: "sentence around inline code", text: "Run `pip install pandas` before starting", want: false},
		{name: "korean sentence", text: "안녕하세요 여러분 환영합니다", want: false},
		{name: "prose with numbers", text: "There are 42 rows in the dataset", want: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := ShouldSkip(tc.text); got != tc.want {
				t.Fatalf("ShouldSkip(%q) = %v, want %v", tc.text, got, tc.want)
			}
		})
	}
}

func TestHasTranslatableContent(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want bool
	}{
		{name: "empty", text: "", want: false},
		{name: "whitespace", text: "   ", want: false},
		{name: "bare heading", text: "# Title", want: false},
		{name: "heading with prose", text: "# Introduction\nThis notebook walks through the basics.", want: true},
		{name: "inline code only", text: "`fit()` `predict()`", want: false},
		{name: "fenced block only", text: "```\nimport numpy as np\n```", want: false},
		{name: "prose after fence", text: "```\nx = 1\n```\nNow inspect the resulting values carefully.", want: true},
		{name: "korean prose", text: "이 노트북은 간단한 예제입니다", want: true},
		{name: "short tokens", text: "a bc de f", want: false},
		{name: "list of links", text: "- [a](http://x)\n- [b](http://y)", want: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := HasTranslatableContent(tc.text); got != tc.want {
				t.Fatalf("HasTranslatableContent(%q) = %v, want %v", tc.text, got, tc.want)
			}
		})
	}
}
