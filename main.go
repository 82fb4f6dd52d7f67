// locfill — incremental locale-file translation: diffs a source-of-truth
// localization file against each target locale file and machine-translates
// only the missing keys.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/loctools/locfill/azure"
	"github.com/loctools/locfill/config"
	"github.com/loctools/locfill/i18n"
	"github.com/loctools/locfill/lockfile"
	"github.com/loctools/locfill/loctree"
	"github.com/loctools/locfill/translate"
)

// Version information (set via -ldflags during build)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// ANSI colors
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[0;31m"
	colorGreen  = "\033[0;32m"
	colorYellow = "\033[1;33m"
	colorBlue   = "\033[0;34m"
)

func logInfo(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorBlue+"[INFO]"+colorReset+" "+format+"\n", args...)
}

func logSuccess(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorGreen+"[OK]"+colorReset+" "+format+"\n", args...)
}

func logWarning(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorYellow+"[WARN]"+colorReset+" "+format+"\n", args...)
}

func logError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorRed+"[ERROR]"+colorReset+" "+format+"\n", args...)
}

// ---------------------------------------------------------------------------
// Global flags
// ---------------------------------------------------------------------------

var (
	rootDir string
	verbose bool
)

// ---------------------------------------------------------------------------
// Root command
// ---------------------------------------------------------------------------

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "locfill",
		Short: "Fill in missing translations in locale files",
		Long: `locfill — incremental locale-file translation.

Reads a source-of-truth localization file (.json or .js module), diffs it
against each configured target locale file, translates only the missing
keys via the Azure Translator API, and writes the merged result back in
the source's format. Keys already present in a target file are never
touched, even if the source text changed.

Commands:
  translate   Translate missing keys for all configured locales
  status      Show per-locale missing-key counts (no writes, no API calls)
  init        Create a default .locfill.yaml`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&rootDir, "root", ".", "Project root directory")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log every translated key")

	root.AddCommand(
		newTranslateCmd(),
		newStatusCmd(),
		newInitCmd(),
		newVersionCmd(),
	)

	return root
}

func main() {
	i18n.Init("")

	if err := newRootCmd().Execute(); err != nil {
		logError("%v", err)
		os.Exit(1)
	}
}

// ---------------------------------------------------------------------------
// Startup plumbing shared by translate and status
// ---------------------------------------------------------------------------

// setup loads .env and the config, and resolves the format codec and the
// parsed source tree. A missing config is materialized with placeholder
// values; a missing source file or unknown extension is fatal before any
// locale work starts.
func setup() (*config.Config, translate.Codec, *loctree.Tree, error) {
	if err := godotenv.Load(filepath.Join(rootDir, ".env")); err != nil {
		logWarning("%s", i18n.T("No .env file found, relying on the process environment"))
	}

	cfg, created, err := config.Load(rootDir)
	if err != nil {
		return nil, nil, nil, err
	}
	if created {
		logWarning(i18n.T("No .locfill.yaml found, created one with placeholder values: %s"),
			filepath.Join(rootDir, config.FileName))
	}

	codec, err := translate.CodecForPath(cfg.Source)
	if err != nil {
		return nil, nil, nil, err
	}

	source, err := codec.ParseFile(cfg.Source)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("loading source file: %w", err)
	}

	return cfg, codec, source, nil
}

// ---------------------------------------------------------------------------
// translate (the full pipeline)
// ---------------------------------------------------------------------------

func newTranslateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "translate",
		Short: "Translate missing keys for all configured locales",
		Long: `Runs the full pipeline, one locale at a time: diff the source tree
against the locale's file (a missing file counts as empty), translate the
missing keys, merge without touching existing translations, and rewrite
the file. The first translation failure (after retries) aborts the run;
files written for earlier locales are kept.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, codec, source, err := setup()
			if err != nil {
				return err
			}

			lock, err := lockfile.Acquire(cfg.OutputDir)
			if err != nil {
				return err
			}
			defer lock.Release()

			provider := azure.New(os.Getenv(cfg.APIKeyEnv), os.Getenv(cfg.RegionEnv))
			if cfg.Endpoint != "" {
				provider.Endpoint = cfg.Endpoint
			}
			provider.RetryCount = cfg.RetryCount
			provider.RetryDelay = cfg.RetryDelay()
			provider.OnLog = logWarning
			if provider.APIKey == "" {
				logWarning("environment variable %s is empty, provider calls will likely fail", cfg.APIKeyEnv)
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			logInfo(i18n.T("Translating %d locales from %s"), len(cfg.Locales), cfg.Source)

			opts := translate.RunOptions{
				Options: translate.Options{
					Provider:      provider,
					MaxConcurrent: cfg.MaxConcurrent,
					OnLog:         logInfo,
					OnError:       logError,
					Verbose:       verbose,
				},
				Codec:      codec,
				TargetPath: cfg.TargetPath,
			}
			if err := translate.RunAll(ctx, source, cfg.Locales, opts); err != nil {
				return err
			}

			logSuccess("%s", i18n.T("All locales are up to date"))
			return nil
		},
	}
}

// ---------------------------------------------------------------------------
// status (read-only: per-locale missing counts)
// ---------------------------------------------------------------------------

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show per-locale missing-key counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, codec, source, err := setup()
			if err != nil {
				return err
			}

			fmt.Printf("source: %s (%d strings)\n", cfg.Source, source.StringLeafCount())

			for _, locale := range cfg.Locales {
				path := cfg.TargetPath(locale)

				existing := loctree.NewTree()
				if _, statErr := os.Stat(path); statErr == nil {
					existing, err = codec.ParseFile(path)
					if err != nil {
						return err
					}
				}

				missing := loctree.Diff(source, existing)
				if missing.IsEmpty() {
					fmt.Printf("  %s%-8s%s complete\n", colorGreen, locale, colorReset)
					continue
				}
				fmt.Printf("  %s%-8s%s %d missing\n", colorYellow, locale, colorReset, missing.StringLeafCount())
			}
			return nil
		},
	}
}

// ---------------------------------------------------------------------------
// init (create a default config)
// ---------------------------------------------------------------------------

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create a default .locfill.yaml",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := filepath.Join(rootDir, config.FileName)
			if _, err := os.Stat(path); err == nil {
				logInfo("%s already exists", path)
				return nil
			}
			if err := config.Default().Write(path); err != nil {
				return err
			}
			logSuccess("created %s — edit it before the first run", path)
			return nil
		},
	}
}

// ---------------------------------------------------------------------------
// version
// ---------------------------------------------------------------------------

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("locfill version %s\n", version)
			fmt.Printf("  commit:    %s\n", commit)
			fmt.Printf("  built:     %s\n", date)
		},
	}
}
