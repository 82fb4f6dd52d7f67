// Package calendar derives the calendar_locale value for a target
// locale. Month and weekday names are locale-formatting data, not free
// text, so they come from locale-aware date formatting instead of
// machine translation; only the single word "Today" goes through the
// translation provider.
package calendar

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/goodsign/monday"
	"golang.org/x/text/language"

	"github.com/loctools/locfill/loctree"
)

// Translator is the single-string translation call the derivation needs
// for the "Today" entry.
type Translator interface {
	Translate(ctx context.Context, text, targetLang string) (string, error)
}

// referenceSunday is a fixed Sunday used to enumerate weekday names in
// Sunday-first order.
var referenceSunday = time.Date(2017, time.January, 1, 12, 0, 0, 0, time.UTC)

// Derive builds the calendar_locale tree for a locale: long and short
// month names (12 each), long and short weekday names (7 each, starting
// from Sunday), and the word "Today" translated into the locale.
//
// The provider call uses the locale tag as given; date formatting uses
// FormattingTag, which remaps the Literary Chinese tag to the general
// Chinese tag since no calendar data exists for the literary variant.
func Derive(ctx context.Context, tr Translator, locale string) (*loctree.Tree, error) {
	loc := mondayLocale(FormattingTag(locale))

	months := make(loctree.List, 0, 12)
	monthsShort := make(loctree.List, 0, 12)
	for m := time.January; m <= time.December; m++ {
		// Mid-month keeps the date well clear of timezone edges.
		d := time.Date(2017, m, 15, 12, 0, 0, 0, time.UTC)
		months = append(months, loctree.String(monday.Format(d, "January", loc)))
		monthsShort = append(monthsShort, loctree.String(monday.Format(d, "Jan", loc)))
	}

	days := make(loctree.List, 0, 7)
	daysShort := make(loctree.List, 0, 7)
	for i := 0; i < 7; i++ {
		d := referenceSunday.AddDate(0, 0, i)
		days = append(days, loctree.String(monday.Format(d, "Monday", loc)))
		daysShort = append(daysShort, loctree.String(monday.Format(d, "Mon", loc)))
	}

	today, err := tr.Translate(ctx, "Today", locale)
	if err != nil {
		return nil, fmt.Errorf("translating calendar greeting: %w", err)
	}

	tree := loctree.NewTree()
	tree.Set("months", months)
	tree.Set("months_short", monthsShort)
	tree.Set("days", days)
	tree.Set("days_short", daysShort)
	tree.Set("today", loctree.String(today))
	return tree, nil
}

// FormattingTag returns the locale tag to use for date formatting.
// Literary Chinese (lzh) has no calendar data of its own and maps to the
// general Chinese tag; every other tag is passed through unchanged.
func FormattingTag(locale string) string {
	base := locale
	if i := strings.IndexAny(base, "-_"); i >= 0 {
		base = base[:i]
	}
	if strings.EqualFold(base, "lzh") {
		return "zh"
	}
	return locale
}

// mondayLocales caches the supported locale list and a matcher over it.
// The first entry is en_US so unmatched tags fall back to English.
var mondayLocales, mondayMatcher = func() ([]monday.Locale, language.Matcher) {
	supported := monday.ListLocales()

	locales := make([]monday.Locale, 0, len(supported)+1)
	tags := make([]language.Tag, 0, len(supported)+1)
	locales = append(locales, monday.LocaleEnUS)
	tags = append(tags, language.AmericanEnglish)

	for _, loc := range supported {
		if loc == monday.LocaleEnUS {
			continue
		}
		tag, err := language.Parse(strings.ReplaceAll(string(loc), "_", "-"))
		if err != nil {
			continue
		}
		locales = append(locales, loc)
		tags = append(tags, tag)
	}
	return locales, language.NewMatcher(tags)
}()

// mondayLocale maps a locale tag to the closest supported monday locale,
// falling back to en_US.
func mondayLocale(locale string) monday.Locale {
	tag, err := language.Parse(strings.ReplaceAll(locale, "_", "-"))
	if err != nil {
		return monday.LocaleEnUS
	}
	_, index, conf := mondayMatcher.Match(tag)
	if conf == language.No {
		return monday.LocaleEnUS
	}
	return mondayLocales[index]
}
