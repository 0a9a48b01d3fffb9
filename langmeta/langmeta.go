// Package langmeta provides a shared language metadata registry
// (English names and emoji flags) used for prompt building and CLI UI.
package langmeta

import (
	"sort"
	"strings"
)

// Meta describes language display metadata.
type Meta struct {
	// Name is the English language name, e.g. "Korean".
	// Prompts address the model with this name.
	Name string
	// Flag is the emoji flag shown in CLI listings.
	Flag string
}

// Registry contains the supported target languages.
// Locale variants are resolved in Resolve() via normalization and base fallback.
var Registry = map[string]Meta{
	"ar":    {Name: "Arabic", Flag: "🇸🇦"},
	"bg":    {Name: "Bulgarian", Flag: "🇧🇬"},
	"bn":    {Name: "Bengali", Flag: "🇧🇩"},
	"cs":    {Name: "Czech", Flag: "🇨🇿"},
	"da":    {Name: "Danish", Flag: "🇩🇰"},
	"de":    {Name: "German", Flag: "🇩🇪"},
	"el":    {Name: "Greek", Flag: "🇬🇷"},
	"en":    {Name: "English", Flag: "🇺🇸"},
	"es":    {Name: "Spanish", Flag: "🇪🇸"},
	"et":    {Name: "Estonian", Flag: "🇪🇪"},
	"fa":    {Name: "Persian (Farsi)", Flag: "🇮🇷"},
	"fi":    {Name: "Finnish", Flag: "🇫🇮"},
	"fr":    {Name: "French", Flag: "🇫🇷"},
	"gu":    {Name: "Gujarati", Flag: "🇮🇳"},
	"he":    {Name: "Hebrew", Flag: "🇮🇱"},
	"hi":    {Name: "Hindi", Flag: "🇮🇳"},
	"hr":    {Name: "Croatian", Flag: "🇭🇷"},
	"hu":    {Name: "Hungarian", Flag: "🇭🇺"},
	"id":    {Name: "Indonesian", Flag: "🇮🇩"},
	"it":    {Name: "Italian", Flag: "🇮🇹"},
	"ja":    {Name: "Japanese", Flag: "🇯🇵"},
	"kn":    {Name: "Kannada", Flag: "🇮🇳"},
	"ko":    {Name: "Korean", Flag: "🇰🇷"},
	"lt":    {Name: "Lithuanian", Flag: "🇱🇹"},
	"lv":    {Name: "Latvian", Flag: "🇱🇻"},
	"ml":    {Name: "Malayalam", Flag: "🇮🇳"},
	"mr":    {Name: "Marathi", Flag: "🇮🇳"},
	"ms":    {Name: "Malay", Flag: "🇲🇾"},
	"nl":    {Name: "Dutch", Flag: "🇳🇱"},
	"no":    {Name: "Norwegian", Flag: "🇳🇴"},
	"pa":    {Name: "Punjabi", Flag: "🇮🇳"},
	"pl":    {Name: "Polish", Flag: "🇵🇱"},
	"pt":    {Name: "Portuguese", Flag: "🇵🇹"},
	"ro":    {Name: "Romanian", Flag: "🇷🇴"},
	"ru":    {Name: "Russian", Flag: "🇷🇺"},
	"sk":    {Name: "Slovak", Flag: "🇸🇰"},
	"sl":    {Name: "Slovenian", Flag: "🇸🇮"},
	"sr":    {Name: "Serbian", Flag: "🇷🇸"},
	"sv":    {Name: "Swedish", Flag: "🇸🇪"},
	"sw":    {Name: "Swahili", Flag: "🇹🇿"},
	"ta":    {Name: "Tamil", Flag: "🇮🇳"},
	"te":    {Name: "Telugu", Flag: "🇮🇳"},
	"th":    {Name: "Thai", Flag: "🇹🇭"},
	"tl":    {Name: "Filipino (Tagalog)", Flag: "🇵🇭"},
	"tr":    {Name: "Turkish", Flag: "🇹🇷"},
	"uk":    {Name: "Ukrainian", Flag: "🇺🇦"},
	"ur":    {Name: "Urdu", Flag: "🇵🇰"},
	"vi":    {Name: "Vietnamese", Flag: "🇻🇳"},
	"zh":    {Name: "Chinese (Simplified)", Flag: "🇨🇳"},
	"zh-CN": {Name: "Chinese (Simplified)", Flag: "🇨🇳"},
	"zh-TW": {Name: "Chinese (Traditional)", Flag: "🇹🇼"},
}

func canonicalize(lang string) string {
	normalized := strings.ReplaceAll(strings.TrimSpace(lang), "_", "-")
	if normalized == "" {
		return ""
	}
	parts := strings.Split(normalized, "-")
	parts[0] = strings.ToLower(parts[0])
	if len(parts) >= 2 {
		parts[1] = strings.ToUpper(parts[1])
	}
	return strings.Join(parts, "-")
}

// Resolve returns best-effort language metadata for language codes,
// supporting variants like pt_BR, pt-BR, and locale fallbacks.
func Resolve(lang string) Meta {
	if m, ok := Registry[lang]; ok {
		return m
	}
	normalized := canonicalize(lang)
	if m, ok := Registry[normalized]; ok {
		return m
	}
	if parts := strings.SplitN(normalized, "-", 2); len(parts) == 2 {
		if m, ok := Registry[parts[0]]; ok {
			return m
		}
	}
	return Meta{Name: lang, Flag: ""}
}

// Name returns the English name for a language code, falling back to
// the code itself when the language is unknown.
func Name(lang string) string {
	return Resolve(lang).Name
}

// Supported reports whether a language code maps to a registry entry,
// either exactly or after normalization (ko_KR counts as ko-KR, not ko).
func Supported(lang string) bool {
	if _, ok := Registry[lang]; ok {
		return true
	}
	_, ok := Registry[canonicalize(lang)]
	return ok
}

// Codes returns all registered language codes in sorted order.
func Codes() []string {
	codes := make([]string, 0, len(Registry))
	for code := range Registry {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}
