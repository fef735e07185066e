// l10nsync: collects the strings passed to Localize() in the game source
// and synchronizes them into the per-language JSON files under
// data/languages/, keeping every translation already on record.
package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/teeworlds-community/l10nsync/config"
	"github.com/teeworlds-community/l10nsync/extract"
	"github.com/teeworlds-community/l10nsync/i18n"
	"github.com/teeworlds-community/l10nsync/langfile"
	"github.com/teeworlds-community/l10nsync/langmeta"
	"github.com/teeworlds-community/l10nsync/merge"
)

// Version information (set via -ldflags during build)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// ---------------------------------------------------------------------------
// Logging
// ---------------------------------------------------------------------------

var logOut io.Writer = color.Error

var (
	tagInfo    = color.New(color.FgBlue)
	tagSuccess = color.New(color.FgGreen)
	tagWarning = color.New(color.FgYellow, color.Bold)
	tagError   = color.New(color.FgRed)
	tagHeader  = color.New(color.FgBlue)
)

func logLine(tag *color.Color, label, format string, args ...any) {
	fmt.Fprintf(logOut, "%s %s\n", tag.Sprint(label), fmt.Sprintf(format, args...))
}

func logInfo(format string, args ...any) {
	logLine(tagInfo, "[INFO]", format, args...)
}

func logSuccess(format string, args ...any) {
	logLine(tagSuccess, "[OK]", format, args...)
}

func logWarning(format string, args ...any) {
	logLine(tagWarning, "[WARN]", format, args...)
}

func logError(format string, args ...any) {
	logLine(tagError, "[ERROR]", format, args...)
}

func setupColor() {
	if os.Getenv("NO_COLOR") != "" {
		color.NoColor = true
		return
	}
	fd := os.Stderr.Fd()
	color.NoColor = !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd)
}

// ---------------------------------------------------------------------------
// Global flag
// ---------------------------------------------------------------------------

var rootDir string

// ---------------------------------------------------------------------------
// Root command
// ---------------------------------------------------------------------------

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "l10nsync",
		Short: "Synchronize Localize() strings into language files",
		Long: `l10nsync: synchronize Localize() strings into language files.

Scans the source tree for Localize("...") and Localize("...", "context")
calls and rewrites every language file so it lists exactly the strings found,
keeping existing translations. Run it without arguments before a build.

Commands:
  (none)      Update every language file
  status      Show per-language translation statistics
  check       Fail if any language file is out of date
  version     Show version information

Settings are read from .l10nsync.yaml in the project root when present.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupColor()
			i18n.Init("")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSync(rootDir)
		},
	}

	root.PersistentFlags().StringVar(&rootDir, "root", ".", "Project root directory")

	root.AddCommand(
		newStatusCmd(),
		newCheckCmd(),
		newVersionCmd(),
	)

	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		logError("%v", err)
		os.Exit(1)
	}
}

// ---------------------------------------------------------------------------
// version
// ---------------------------------------------------------------------------

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Display version, commit hash, and build date.`,
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "l10nsync version %s\n", version)
			fmt.Fprintf(out, "  commit:    %s\n", commit)
			fmt.Fprintf(out, "  built:     %s\n", date)
		},
	}
}

// ---------------------------------------------------------------------------
// sync (default command)
// ---------------------------------------------------------------------------

func runSync(root string) error {
	cfg, err := config.Load(root)
	if err != nil {
		return err
	}

	scanned, err := scanSources(cfg)
	if err != nil {
		return err
	}

	files, err := langfile.ListLanguageFiles(cfg.AbsLanguagesDir(), cfg.IndexFile)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		logWarning(i18n.T("No language files found in %s"), cfg.AbsLanguagesDir())
		return nil
	}

	for _, path := range files {
		res, err := syncLanguageFile(path, scanned.Keys, cfg)
		if err != nil {
			logError(i18n.T("Failed on %s"), path)
			return err
		}
		reportResult(path, res)
	}

	logSuccess(i18n.N("Updated %d language file", "Updated %d language files", len(files)), len(files))
	return nil
}

// scanSources collects the keys referenced under the configured source dir.
func scanSources(cfg *config.Config) (*extract.Result, error) {
	dec, err := extract.NewDecoder(cfg.FallbackEncoding)
	if err != nil {
		return nil, err
	}

	srcDir := cfg.AbsSourceDir()
	logInfo(i18n.T("Scanning for source files in: %s"), srcDir)

	res, err := extract.Scan(srcDir, extract.Options{
		Extensions:  cfg.Extensions,
		SkipSegment: cfg.SkipSegment,
		Decoder:     dec,
	})
	if err != nil {
		return nil, err
	}

	if len(res.SourceFiles) == 0 {
		logWarning(i18n.T("No source files found (supported: %s)"), strings.Join(cfg.Extensions, ", "))
	} else {
		logInfo(i18n.T("Found %d source files (%s)"), len(res.SourceFiles), extract.DescribeFiles(res.SourceFiles))
	}
	logSuccess(i18n.N("Extracted %d string", "Extracted %d strings", res.Keys.Translatable()), res.Keys.Translatable())
	return res, nil
}

// mergeLanguageFile loads path and merges it with keys without writing.
func mergeLanguageFile(path string, keys *extract.KeySet, cfg *config.Config) (*merge.Result, error) {
	old, err := langfile.ParseFile(path)
	if err != nil {
		return nil, err
	}
	res, err := merge.Merge(keys, old, merge.Options{ArchiveStale: cfg.ArchiveStale})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return res, nil
}

func syncLanguageFile(path string, keys *extract.KeySet, cfg *config.Config) (*merge.Result, error) {
	res, err := mergeLanguageFile(path, keys, cfg)
	if err != nil {
		return nil, err
	}
	if err := res.File.WriteFile(path, marshalOptions(cfg)); err != nil {
		return nil, err
	}
	return res, nil
}

func marshalOptions(cfg *config.Config) langfile.MarshalOptions {
	return langfile.MarshalOptions{EscapeNonASCII: cfg.Escape()}
}

func reportResult(path string, res *merge.Result) {
	name := filepath.Base(path)
	s := res.Stats
	logSuccess(i18n.T("%s: %d/%d translated (%d%%)"), name, s.Translated, s.Total, s.Percent())
	if s.Recovered > 0 {
		logInfo(i18n.N("%s: recovered %d translation from older entries", "%s: recovered %d translations from older entries", s.Recovered), name, s.Recovered)
	}
	if s.Archived > 0 {
		logInfo(i18n.N("%s: archived %d stale translation", "%s: archived %d stale translations", s.Archived), name, s.Archived)
	}
	if s.Dropped > 0 {
		logWarning(i18n.N("%s: dropped %d translation no longer found in source", "%s: dropped %d translations no longer found in source", s.Dropped), name, s.Dropped)
	}
}

// ---------------------------------------------------------------------------
// check (CI: fail when a language file is out of date)
// ---------------------------------------------------------------------------

var errOutOfDate = errors.New("language files are out of date")

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Fail if any language file is out of date",
		Long: `Run the same merge as the default command, in memory, and compare the
result with the files on disk. Nothing is written. Exits with status 1 and
lists the files that would change.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(rootDir)
		},
	}
}

func runCheck(root string) error {
	cfg, err := config.Load(root)
	if err != nil {
		return err
	}
	scanned, err := scanSources(cfg)
	if err != nil {
		return err
	}
	files, err := langfile.ListLanguageFiles(cfg.AbsLanguagesDir(), cfg.IndexFile)
	if err != nil {
		return err
	}

	var stale []string
	for _, path := range files {
		res, err := mergeLanguageFile(path, scanned.Keys, cfg)
		if err != nil {
			logError(i18n.T("Failed on %s"), path)
			return err
		}
		want, err := res.File.Marshal(marshalOptions(cfg))
		if err != nil {
			return fmt.Errorf("encoding %s: %w", path, err)
		}
		have, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		if !bytes.Equal(have, want) {
			logWarning(i18n.T("Out of date: %s"), path)
			stale = append(stale, path)
		}
	}

	if len(stale) > 0 {
		return fmt.Errorf("%d %w; run l10nsync to update them", len(stale), errOutOfDate)
	}
	logSuccess("%s", i18n.T("All language files are up to date"))
	return nil
}

// ---------------------------------------------------------------------------
// status (read-only statistics)
// ---------------------------------------------------------------------------

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show per-language translation statistics",
		Long: `Scan the sources and show, for every language file, how many strings
are translated, how many are still blank, and how many translations would be
dropped because their string is gone from the source. Does not modify any
files.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(rootDir)
		},
	}
}

// statusRow is one line of the status table.
type statusRow struct {
	code  string
	name  string
	flag  string
	stats merge.Stats
}

func runStatus(root string) error {
	cfg, err := config.Load(root)
	if err != nil {
		return err
	}
	scanned, err := scanSources(cfg)
	if err != nil {
		return err
	}
	files, err := langfile.ListLanguageFiles(cfg.AbsLanguagesDir(), cfg.IndexFile)
	if err != nil {
		return err
	}

	index, err := langfile.ParseIndex(cfg.AbsIndexFile())
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return err
		}
		logWarning(i18n.T("No index file at %s, using built-in language names"), cfg.AbsIndexFile())
	}

	var rows []statusRow
	for _, path := range files {
		res, err := mergeLanguageFile(path, scanned.Keys, cfg)
		if err != nil {
			logError(i18n.T("Failed on %s"), path)
			return err
		}
		rows = append(rows, describeLanguage(langfile.LanguageCode(path), index, res.Stats))
	}

	printStatus(logOut, rows, scanned.Keys.Translatable())
	return nil
}

func describeLanguage(code string, index *langfile.Index, stats merge.Stats) statusRow {
	meta := langmeta.Resolve(code)
	row := statusRow{code: code, name: meta.Name, flag: meta.Flag, stats: stats}
	if l, ok := index.Lookup(code); ok {
		if l.Name != "" {
			row.name = l.Name
		}
		if m := langmeta.Resolve(l.Code); m.Flag != "" {
			row.flag = m.Flag
		}
	}
	return row
}

func printStatus(w io.Writer, rows []statusRow, total int) {
	fmt.Fprintf(w, "\n%s\n", tagHeader.Sprint(i18n.T("Translation Statistics")))
	fmt.Fprintln(w, strings.Repeat("─", 72))

	width := len("Lang")
	for _, r := range rows {
		if len(r.code) > width {
			width = len(r.code)
		}
	}

	fmt.Fprintf(w, "%-*s %-12s %-10s %-8s %-8s %s\n", width, "Lang", "Translated", "Untrans.", "Stale", "Percent", "Name")
	fmt.Fprintln(w, strings.Repeat("─", 72))
	for _, r := range rows {
		s := r.stats
		name := r.name
		if r.flag != "" {
			name = r.flag + " " + name
		}
		fmt.Fprintf(w, "%-*s %-12d %-10d %-8d %s %s\n",
			width, r.code, s.Translated, s.Untranslated, s.Dropped+s.Archived, progress(s.Percent()), name)
	}
	fmt.Fprintln(w, strings.Repeat("─", 72))
	fmt.Fprintf(w, i18n.T("Source strings: %d")+"\n\n", total)
}

// progress colors a percentage: red below 50, yellow below 100, green at 100.
func progress(percent int) string {
	text := fmt.Sprintf("%d%%", percent)
	pad := strings.Repeat(" ", max(0, 8-len(text)))
	switch {
	case percent >= 100:
		return color.GreenString("%s", text) + pad
	case percent >= 50:
		return color.YellowString("%s", text) + pad
	default:
		return color.RedString("%s", text) + pad
	}
}
