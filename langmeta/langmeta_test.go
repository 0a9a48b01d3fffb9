package langmeta

import (
	"sort"
	"testing"
)

func TestCanonicalize(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{in: "zh_cn", want: "zh-CN"},
		{in: " ZH-tw ", want: "zh-TW"},
		{in: "ko", want: "ko"},
		{in: "", want: ""},
	}

	for _, tc := range cases {
		got := canonicalize(tc.in)
		if got != tc.want {
			t.Fatalf("canonicalize(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestResolve(t *testing.T) {
	t.Run("exact match", func(t *testing.T) {
		got := Resolve("zh-TW")
		if got.Name != "Chinese (Traditional)" || got.Flag == "" {
			t.Fatalf("unexpected result: %#v", got)
		}
	})

	t.Run("normalized match", func(t *testing.T) {
		got := Resolve("zh_cn")
		if got.Name != "Chinese (Simplified)" || got.Flag == "" {
			t.Fatalf("unexpected result: %#v", got)
		}
	})

	t.Run("base fallback", func(t *testing.T) {
		got := Resolve("ko-KR")
		if got.Name != "Korean" || got.Flag != "🇰🇷" {
			t.Fatalf("unexpected fallback result: %#v", got)
		}
	})

	t.Run("unknown passthrough", func(t *testing.T) {
		got := Resolve("zz-ZZ")
		if got.Name != "zz-ZZ" || got.Flag != "" {
			t.Fatalf("unexpected unknown result: %#v", got)
		}
	})
}

func TestName(t *testing.T) {
	if got := Name("fa"); got != "Persian (Farsi)" {
		t.Fatalf("Name(%q) = %q, want %q", "fa", got, "Persian (Farsi)")
	}
	if got := Name("xx"); got != "xx" {
		t.Fatalf("Name(%q) = %q, want %q", "xx", got, "xx")
	}
}

func TestSupported(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{in: "ko", want: true},
		{in: "zh-CN", want: true},
		{in: "zh_cn", want: true},
		{in: "ko-KR", want: false},
		{in: "xx", want: false},
	}

	for _, tc := range cases {
		if got := Supported(tc.in); got != tc.want {
			t.Fatalf("Supported(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestCodes(t *testing.T) {
	codes := Codes()
	if len(codes) != len(Registry) {
		t.Fatalf("Codes() returned %d entries, want %d", len(codes), len(Registry))
	}
	if !sort.StringsAreSorted(codes) {
		t.Fatalf("Codes() not sorted: %v", codes)
	}
}
