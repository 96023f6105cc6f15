// Package i18n localizes shipkit's own user-facing messages.
//
// It wraps gotext behind small T() and N() helpers. Catalogs live under
// locales/{lang}/LC_MESSAGES/shipkit.po and are embedded into the binary,
// so the tool needs no installed message files at runtime.
package i18n

import (
	"embed"
	"os"
	"strings"

	"github.com/leonelquinteros/gotext"
)

//go:embed all:locales
var locales embed.FS

// domain is the gettext domain name for shipkit.
const domain = "shipkit"

var catalog *gotext.Locale

// Init loads the message catalog. An empty lang auto-detects from the
// LANGUAGE, LC_ALL, LC_MESSAGES and LANG environment variables, in GNU
// gettext priority order. Call once at startup before T() or N().
func Init(lang string) {
	if lang == "" {
		lang = detectLanguage()
	}

	catalog = gotext.NewLocaleFSWithPath(lang, locales, "locales")
	catalog.AddDomain(domain)
	catalog.SetDomain(domain)
}

// T translates a message, returning it unchanged when no translation
// exists (gettext passthrough behavior).
func T(msgid string) string {
	if catalog == nil {
		return msgid
	}
	return catalog.Get(msgid)
}

// N translates a message with plural forms.
func N(singular, plural string, n int) string {
	if catalog == nil {
		if n == 1 {
			return singular
		}
		return plural
	}
	return catalog.GetN(singular, plural, n)
}

// detectLanguage picks the user's language from the environment.
func detectLanguage() string {
	for _, env := range []string{"LANGUAGE", "LC_ALL", "LC_MESSAGES", "LANG"} {
		val := os.Getenv(env)
		if val == "" {
			continue
		}
		// LANGUAGE may be a colon-separated preference list.
		if env == "LANGUAGE" {
			val, _, _ = strings.Cut(val, ":")
		}
		// Strip encoding suffix ("de_DE.UTF-8" -> "de_DE").
		if idx := strings.IndexByte(val, '.'); idx >= 0 {
			val = val[:idx]
		}
		if val == "C" || val == "POSIX" || val == "" {
			continue
		}
		return val
	}
	return "en"
}
