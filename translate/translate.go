// Package translate implements the incremental translation pipeline:
// the structure-preserving tree translator and the per-locale
// orchestrator that diffs the source against each target file, machine-
// translates only the missing keys, merges, and persists the result.
package translate

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/loctools/locfill/calendar"
	"github.com/loctools/locfill/loctree"
)

// CalendarKey is the special top-level key whose value is derived from
// the locale instead of machine-translated: calendar names are locale-
// formatting data, not free text.
const CalendarKey = "calendar_locale"

// Translator is the single-string translation call the pipeline is built
// on. The azure client implements it; tests use stubs.
type Translator interface {
	Translate(ctx context.Context, text, targetLang string) (string, error)
}

// ---------------------------------------------------------------------------
// Options
// ---------------------------------------------------------------------------

// Options controls the translation behavior.
type Options struct {
	// Provider performs the single-string translation calls.
	Provider Translator
	// MaxConcurrent bounds concurrent provider calls within one locale
	// (default 4).
	MaxConcurrent int
	// OnLog emits progress messages.
	OnLog func(format string, args ...any)
	// OnError emits error messages.
	OnError func(format string, args ...any)
	// OnProgress is called after each translated string leaf.
	OnProgress func(locale string, done, total int)
	// Verbose additionally logs every translated key.
	Verbose bool
}

func (o *Options) log(format string, args ...any) {
	if o.OnLog != nil {
		o.OnLog(format, args...)
	}
}

func (o *Options) logError(format string, args ...any) {
	if o.OnError != nil {
		o.OnError(format, args...)
	} else if o.OnLog != nil {
		o.OnLog(format, args...)
	}
}

func (o *Options) effectiveMaxConcurrent() int {
	if o.MaxConcurrent > 0 {
		return o.MaxConcurrent
	}
	return 4
}

// ---------------------------------------------------------------------------
// Tree translator
// ---------------------------------------------------------------------------

// TranslateTree translates every string leaf of tree into locale,
// preserving the tree's shape exactly: key sets, nesting, list lengths
// and element positions are unchanged, and non-string scalars come back
// untouched. All string leaves (object values and list elements alike)
// are dispatched through one bounded worker group; output order is taken
// from the input tree, never from completion order.
func TranslateTree(ctx context.Context, tree *loctree.Tree, locale string, opts Options) (*loctree.Tree, error) {
	texts := collectStrings(tree)
	results := make([]string, len(texts))

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(opts.effectiveMaxConcurrent())
	var done atomic.Int32
	for i, text := range texts {
		i, text := i, text
		eg.Go(func() error {
			out, err := opts.Provider.Translate(ctx, text, locale)
			if err != nil {
				return err
			}
			results[i] = out
			n := int(done.Add(1))
			if opts.Verbose {
				opts.log("  [%s] %q -> %q", locale, text, out)
			}
			if opts.OnProgress != nil {
				opts.OnProgress(locale, n, len(texts))
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	translated, rest := rebuildTree(tree, results)
	if len(rest) != 0 {
		// Walk order is deterministic, so this cannot happen unless the
		// tree was mutated concurrently.
		return nil, fmt.Errorf("internal error: %d unconsumed translations", len(rest))
	}
	return translated, nil
}

// collectStrings gathers every translatable string leaf in depth-first
// tree order. rebuildTree consumes the translated results in the same
// order, which is what keeps the two passes aligned.
func collectStrings(tree *loctree.Tree) []string {
	var texts []string
	for _, k := range tree.Keys() {
		v, _ := tree.Get(k)
		texts = append(texts, collectValue(v)...)
	}
	return texts
}

func collectValue(v loctree.Value) []string {
	switch val := v.(type) {
	case loctree.String:
		return []string{string(val)}
	case loctree.List:
		var texts []string
		for _, el := range val {
			texts = append(texts, collectValue(el)...)
		}
		return texts
	case *loctree.Tree:
		return collectStrings(val)
	default:
		return nil
	}
}

func rebuildTree(tree *loctree.Tree, results []string) (*loctree.Tree, []string) {
	out := loctree.NewTree()
	for _, k := range tree.Keys() {
		v, _ := tree.Get(k)
		var nv loctree.Value
		nv, results = rebuildValue(v, results)
		out.Set(k, nv)
	}
	return out, results
}

func rebuildValue(v loctree.Value, results []string) (loctree.Value, []string) {
	switch val := v.(type) {
	case loctree.String:
		return loctree.String(results[0]), results[1:]
	case loctree.List:
		out := make(loctree.List, len(val))
		for i, el := range val {
			out[i], results = rebuildValue(el, results)
		}
		return out, results
	case *loctree.Tree:
		return rebuildTree(val, results)
	default:
		// Scalars pass through by identity.
		return v, results
	}
}

// ---------------------------------------------------------------------------
// Locale orchestrator
// ---------------------------------------------------------------------------

// RunOptions configures a full multi-locale run.
type RunOptions struct {
	Options
	// Codec reads and writes the locale files.
	Codec Codec
	// TargetPath maps a locale to its file path.
	TargetPath func(locale string) string
}

// RunAll processes the configured locales strictly sequentially: locale
// i+1 does not start until locale i's diff→translate→merge→persist
// pipeline has completed. The first unrecoverable translation failure
// aborts the whole run; files persisted for earlier locales are kept.
func RunAll(ctx context.Context, source *loctree.Tree, locales []string, opts RunOptions) error {
	for _, locale := range locales {
		if err := runLocale(ctx, source, locale, opts); err != nil {
			opts.logError("locale %s failed: %v", locale, err)
			return err
		}
	}
	opts.log("all %d locales are up to date", len(locales))
	return nil
}

// runLocale runs the pipeline for one locale. Persistence happens once,
// after the whole missing subtree translated successfully, so a failed
// run never leaves a half-written file behind.
func runLocale(ctx context.Context, source *loctree.Tree, locale string, opts RunOptions) error {
	path := opts.TargetPath(locale)

	existing, err := loadExisting(opts.Codec, path)
	if err != nil {
		return err
	}

	missing := loctree.Diff(source, existing)
	if missing.IsEmpty() {
		opts.log("[%s] nothing to translate, skipping", locale)
		return nil
	}
	opts.log("[%s] translating %d missing strings", locale, missing.StringLeafCount())

	translated, err := TranslateTree(ctx, missing, locale, opts.Options)
	if err != nil {
		return err
	}

	merged := loctree.Merge(existing, translated)

	// The calendar block is derived from the locale, never taken from
	// the machine translation output.
	if _, ok := missing.Get(CalendarKey); ok {
		cal, err := calendar.Derive(ctx, opts.Provider, locale)
		if err != nil {
			return err
		}
		merged.Set(CalendarKey, cal)
	}

	if err := opts.Codec.WriteFile(merged, path); err != nil {
		return fmt.Errorf("persisting %s: %w", path, err)
	}
	opts.log("[%s] wrote %s", locale, path)
	return nil
}

// loadExisting reads the target locale file, treating a missing file as
// an empty tree.
func loadExisting(codec Codec, path string) (*loctree.Tree, error) {
	existing, err := codec.ParseFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return loctree.NewTree(), nil
		}
		return nil, err
	}
	return existing, nil
}
