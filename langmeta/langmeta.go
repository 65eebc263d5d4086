// Package langmeta provides display metadata for the locales that
// Chromium-based builds ship paks for.
package langmeta

import "strings"

// Meta describes locale display metadata.
type Meta struct {
	Name string
	// RTL is set for right-to-left scripts.
	RTL bool
}

// Direction returns "rtl" or "ltr".
func (m Meta) Direction() string {
	if m.RTL {
		return "rtl"
	}
	return "ltr"
}

// Registry contains canonical locale metadata.
// Variants are resolved in Resolve() via normalization and base fallback.
var Registry = map[string]Meta{
	"am":        {Name: "Amharic"},
	"ar":        {Name: "Arabic", RTL: true},
	"bg":        {Name: "Bulgarian"},
	"bn":        {Name: "Bengali"},
	"ca":        {Name: "Catalan"},
	"cs":        {Name: "Czech"},
	"da":        {Name: "Danish"},
	"de":        {Name: "German"},
	"el":        {Name: "Greek"},
	"en-GB":     {Name: "English (UK)"},
	"en-US":     {Name: "English (US)"},
	"es":        {Name: "Spanish"},
	"es-419":    {Name: "Spanish (Latin America)"},
	"et":        {Name: "Estonian"},
	"fa":        {Name: "Persian", RTL: true},
	"fake-bidi": {Name: "Fake bidirectional (test)", RTL: true},
	"fi":        {Name: "Finnish"},
	"fil":       {Name: "Filipino"},
	"fr":        {Name: "French"},
	"gu":        {Name: "Gujarati"},
	"he":        {Name: "Hebrew", RTL: true},
	"hi":        {Name: "Hindi"},
	"hr":        {Name: "Croatian"},
	"hu":        {Name: "Hungarian"},
	"id":        {Name: "Indonesian"},
	"it":        {Name: "Italian"},
	"ja":        {Name: "Japanese"},
	"kk":        {Name: "Kazakh"},
	"kn":        {Name: "Kannada"},
	"ko":        {Name: "Korean"},
	"ku":        {Name: "Kurdish", RTL: true},
	"lt":        {Name: "Lithuanian"},
	"lv":        {Name: "Latvian"},
	"ml":        {Name: "Malayalam"},
	"mr":        {Name: "Marathi"},
	"ms":        {Name: "Malay"},
	"nb":        {Name: "Norwegian Bokmål"},
	"nl":        {Name: "Dutch"},
	"pl":        {Name: "Polish"},
	"pt-BR":     {Name: "Portuguese (Brazil)"},
	"pt-PT":     {Name: "Portuguese (Portugal)"},
	"ro":        {Name: "Romanian"},
	"ru":        {Name: "Russian"},
	"sk":        {Name: "Slovak"},
	"sl":        {Name: "Slovenian"},
	"sr":        {Name: "Serbian"},
	"sv":        {Name: "Swedish"},
	"sw":        {Name: "Swahili"},
	"ta":        {Name: "Tamil"},
	"te":        {Name: "Telugu"},
	"th":        {Name: "Thai"},
	"tr":        {Name: "Turkish"},
	"uk":        {Name: "Ukrainian"},
	"ur":        {Name: "Urdu", RTL: true},
	"vi":        {Name: "Vietnamese"},
	"zh-CN":     {Name: "Chinese (Simplified)"},
	"zh-TW":     {Name: "Chinese (Traditional)"},
}

// canonicalize turns pt_br / PT-br into pt-BR. Three-digit region codes
// (es-419) and longer subtags are left alone.
func canonicalize(lang string) string {
	normalized := strings.ReplaceAll(strings.TrimSpace(lang), "_", "-")
	if normalized == "" {
		return ""
	}
	parts := strings.Split(normalized, "-")
	parts[0] = strings.ToLower(parts[0])
	if len(parts) >= 2 && len(parts[1]) == 2 {
		parts[1] = strings.ToUpper(parts[1])
	}
	return strings.Join(parts, "-")
}

// Resolve returns best-effort metadata for a locale, supporting variants
// like pt_BR and base-language fallback (de-AT -> de). Unknown locales
// get their own code as name.
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
	return Meta{Name: lang}
}

// Known reports whether lang (after normalization) is in the registry.
func Known(lang string) bool {
	_, ok := Registry[canonicalize(lang)]
	return ok
}
