package extract

import "testing"

func TestComments(t *testing.T) {
	t.Parallel()

	code := "#!/usr/bin/env python3\n" +
		"# load the dataset\n" +
		"value = 3  # total count\n" +
		"s = \"# not a comment\"\n" +
		"url = 'http://x#frag'  # unreachable note\n" +
		"#####\n" +
		"#\n" +
		"y = 2\n"

	got := Comments(code)
	want := []Comment{
		{Line: 0, Text: "#!/usr/bin/env python3", Content: "!/usr/bin/env python3"},
		{Line: 1, Text: "# load the dataset", Content: "load the dataset"},
		{Line: 2, Text: "value = 3  # total count", Content: "total count"},
	}

	if len(got) != len(want) {
		t.Fatalf("Comments() returned %d comments, want %d: %#v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("comment %d = %#v, want %#v", i, got[i], want[i])
		}
	}
}

func TestCommentsQuoteHeuristic(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		line  string
		found bool
	}{
		{name: "hash inside double quotes", line: `print("# literal")`, found: false},
		{name: "hash inside single quotes", line: `print('#tag')`, found: false},
		{name: "comment after closed string", line: `s = "text"  # explain`, found: true},
		{name: "comment after closed single", line: `c = 'x'  # a char`, found: true},
		{name: "plain comment", line: "# plain", found: true},
		{name: "hash only", line: "#", found: false},
		{name: "double hash divider", line: "## Section", found: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Comments(tc.line)
			if found := len(got) == 1; found != tc.found {
				t.Fatalf("Comments(%q) found=%v, want %v (%#v)", tc.line, found, tc.found, got)
			}
		})
	}
}

func TestHasTranslatableComments(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		code string
		want bool
	}{
		{name: "empty", code: "", want: false},
		{name: "no comments", code: "x = 1\ny = 2\n", want: false},
		{name: "prose comment", code: "x = 1  # increment the counter\n", want: true},
		{name: "url comment", code: "x = 1  # https://example.com\n", want: false},
		{name: "numeric comment", code: "x = 1  # 123\n", want: false},
		{name: "divider only", code: "#####\nx = 1\n", want: false},
		{name: "korean comment", code: "x = 1  # 카운터를 하나 증가시킵니다\n", want: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := HasTranslatableComments(tc.code); got != tc.want {
				t.Fatalf("HasTranslatableComments(%q) = %v, want %v", tc.code, got, tc.want)
			}
		})
	}
}

func TestReplaceComments(t *testing.T) {
	t.Parallel()

	code := "# load config\n" +
		"value = 3  # total count\n" +
		"    value += 1  # bump it\n"

	t.Run("round trip with original contents", func(t *testing.T) {
		comments := Comments(code)
		contents := make([]string, len(comments))
		for i, c := range comments {
			contents[i] = c.Content
		}
		got, ok := ReplaceComments(code, contents)
		if !ok {
			t.Fatal("ReplaceComments reported mismatch on matching counts")
		}
		if got != code {
			t.Fatalf("round trip changed code:\ngot  %q\nwant %q", got, code)
		}
	})

	t.Run("translation preserves prefix and indentation", func(t *testing.T) {
		got, ok := ReplaceComments(code, []string{"설정을 불러옵니다", "총 개수", "하나 증가"})
		if !ok {
			t.Fatal("ReplaceComments reported mismatch on matching counts")
		}
		want := "# 설정을 불러옵니다\n" +
			"value = 3  # 총 개수\n" +
			"    value += 1  # 하나 증가\n"
		if got != want {
			t.Fatalf("ReplaceComments mismatch:\ngot  %q\nwant %q", got, want)
		}
	})

	t.Run("count mismatch returns input unchanged", func(t *testing.T) {
		got, ok := ReplaceComments(code, []string{"only one"})
		if ok {
			t.Fatal("ReplaceComments reported ok on mismatched counts")
		}
		if got != code {
			t.Fatalf("mismatch altered code: got %q", got)
		}
	})

	t.Run("no comments", func(t *testing.T) {
		got, ok := ReplaceComments("x = 1\n", nil)
		if !ok || got != "x = 1\n" {
			t.Fatalf("ReplaceComments on commentless code = (%q, %v), want input and ok", got, ok)
		}
	})
}
