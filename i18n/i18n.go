// Package i18n translates repak's own usage and status messages.
//
// It wraps gotext behind T() and N(). Catalogs are embedded from
// locales/{lang}/LC_MESSAGES/repak.po and loaded once by Init(); before
// that, and for languages without a catalog, messages pass through
// unchanged.
package i18n

import (
	"embed"
	"fmt"
	"os"
	"strings"

	"github.com/leonelquinteros/gotext"
)

// locales embeds the compiled .po/.mo translation files.
//
//go:embed all:locales
var locales embed.FS

const domain = "repak"

// po is the gotext locale object used for translations.
var po *gotext.Locale

// Init loads the catalog for lang. If lang is empty, it is taken from
// REPAK_LANG, then LANGUAGE, LC_ALL, LC_MESSAGES, LANG.
func Init(lang string) {
	if lang == "" {
		lang = detectLanguage()
	}

	po = gotext.NewLocaleFSWithPath(lang, locales, "locales")
	po.AddDomain(domain)
	po.SetDomain(domain)
}

// T translates a string. If no translation is available, returns the
// original string unchanged (standard gettext passthrough behavior).
// The result is never formatted: gotext only applies printf verbs when
// arguments are passed, so a '%' in msgid is returned as is.
func T(msgid string) string {
	if po == nil {
		return msgid
	}
	return po.Get(msgid)
}

// Tf translates format and applies args to it in one pass.
func Tf(format string, args ...any) string {
	if po == nil {
		return fmt.Sprintf(format, args...)
	}
	return po.Get(format, args...)
}

// N translates a string with plural forms.
func N(singular, plural string, n int) string {
	if po == nil {
		if n == 1 {
			return singular
		}
		return plural
	}
	return po.GetN(singular, plural, n)
}

func detectLanguage() string {
	// REPAK_LANG, then GNU gettext priority: LANGUAGE > LC_ALL > LC_MESSAGES > LANG
	for _, env := range []string{"REPAK_LANG", "LANGUAGE", "LC_ALL", "LC_MESSAGES", "LANG"} {
		if val := os.Getenv(env); val != "" {
			// LANGUAGE can be a colon-separated list; take the first
			if env == "LANGUAGE" {
				parts := strings.SplitN(val, ":", 2)
				val = parts[0]
			}
			// Strip encoding suffix (e.g. "ru_RU.UTF-8" -> "ru_RU")
			if idx := strings.IndexByte(val, '.'); idx >= 0 {
				val = val[:idx]
			}
			// "C" and "POSIX" mean no translation
			if val == "C" || val == "POSIX" || val == "" {
				continue
			}
			return val
		}
	}
	return "en"
}
