// Package i18n localizes locfill's own user-facing messages.
//
// It wraps gotext behind small T() and N() helpers. The compiled
// translation catalogs are embedded in the binary and loaded once at
// startup via Init().
package i18n

import (
	"embed"
	"os"
	"strings"

	"github.com/leonelquinteros/gotext"
)

// locales embeds the translation catalogs:
// locales/{lang}/LC_MESSAGES/locfill.po
//
//go:embed all:locales
var locales embed.FS

// domain is the gettext domain name for locfill.
const domain = "locfill"

var catalog *gotext.Locale

// Init loads the message catalog. An empty lang auto-detects from
// LANGUAGE, LC_ALL, LC_MESSAGES, LANG, in GNU gettext priority order.
// Call once at program startup.
func Init(lang string) {
	if lang == "" {
		lang = detectLanguage()
	}
	catalog = gotext.NewLocaleFSWithPath(lang, locales, "locales")
	catalog.AddDomain(domain)
	catalog.SetDomain(domain)
}

// T translates a message, returning it unchanged when no translation
// exists (gettext passthrough).
func T(msgid string) string {
	if catalog == nil {
		return msgid
	}
	return catalog.Get(msgid)
}

// N translates with plural forms selected by n.
func N(singular, plural string, n int) string {
	if catalog == nil {
		if n == 1 {
			return singular
		}
		return plural
	}
	return catalog.GetN(singular, plural, n)
}

// detectLanguage picks the user's language from the environment,
// following GNU gettext conventions.
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
		// Strip the encoding suffix ("uk_UA.UTF-8" -> "uk_UA").
		if i := strings.IndexByte(val, '.'); i >= 0 {
			val = val[:i]
		}
		if val == "C" || val == "POSIX" || val == "" {
			continue
		}
		return val
	}
	return "en"
}
