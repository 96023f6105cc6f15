// shipkit — App Store shipping kit: fastlane metadata export and
// .strings → .xcstrings consolidation.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/chessduo/shipkit/backup"
	"github.com/chessduo/shipkit/config"
	"github.com/chessduo/shipkit/i18n"
	"github.com/chessduo/shipkit/metadata"
	"github.com/chessduo/shipkit/stringsfile"
	"github.com/chessduo/shipkit/xcstrings"
	"github.com/spf13/cobra"
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
// Consolidation defaults
// ---------------------------------------------------------------------------

const (
	defaultProjectDir = "ChessDuo"
	defaultBasename   = "Localizable"
	defaultSourceLang = "en"
	defaultVersion    = "1.0"
	defaultBackupExt  = ".bak"
)

// ---------------------------------------------------------------------------
// Global flag
// ---------------------------------------------------------------------------

var rootDir string

// loadConfig reads the optional .shipkit.yaml from the project root.
// A missing file yields an empty config; a broken one is fatal.
func loadConfig() *config.ShipkitFile {
	sf, err := config.Load(rootDir)
	if err != nil {
		logError("%v", err)
		os.Exit(1)
	}
	if sf == nil {
		return &config.ShipkitFile{}
	}
	return sf
}

// resolvePath anchors a relative path at the project root.
func resolvePath(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(rootDir, p)
}

// firstNonEmpty implements the flag > config file > default precedence.
func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// ---------------------------------------------------------------------------
// Root command
// ---------------------------------------------------------------------------

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "shipkit",
		Short: "App Store shipping kit: metadata export and string catalog consolidation",
		Long: `shipkit — App Store shipping kit.

Turns the plain-text sources a small app project actually maintains into
the structured formats the publishing pipeline needs:

  export       Write fastlane metadata (name, subtitle, keywords,
               promotional text, description per locale) from the
               listing copy text file
  consolidate  Merge <locale>.lproj/*.strings files into one Apple
               .xcstrings string catalog and archive the originals
  status       Show discovered locales and translation coverage

Defaults can be set per project in a .shipkit.yaml file; command-line
flags override it.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global persistent flag — inherited by all subcommands
	root.PersistentFlags().StringVar(&rootDir, "root", ".", "Project root directory")

	root.AddCommand(
		newExportCmd(),
		newConsolidateCmd(),
		newStatusCmd(),
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
// version (display version information)
// ---------------------------------------------------------------------------

func newVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Display version, commit hash, and build date.`,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("shipkit version %s\n", version)
			fmt.Printf("  commit:    %s\n", commit)
			fmt.Printf("  built:     %s\n", date)
		},
	}

	return cmd
}

// ---------------------------------------------------------------------------
// export (listing copy -> fastlane metadata tree)
// ---------------------------------------------------------------------------

func newExportCmd() *cobra.Command {
	var (
		source string
		out    string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export store listing copy to the fastlane metadata layout",
		Long: `Export App Store listing copy to fastlane metadata files.

Reads a text file with one "== Language ==" block per language, each
holding Name/Subtitle/Keywords/Promotional Text lines and a free-text
description, and writes <out>/<locale>/{name,subtitle,keywords,
promotional_text,description}.txt for every recognized language.

Unrecognized languages are skipped and missing fields become empty
files — the export is best-effort and never fails on malformed copy.
Existing files are overwritten.`,
		Run: func(cmd *cobra.Command, args []string) {
			runExport(source, out)
		},
	}

	cmd.Flags().StringVar(&source, "source", "", "Listing copy text file (default \""+metadata.DefaultSource+"\")")
	cmd.Flags().StringVar(&out, "out", "", "Metadata output root (default \""+metadata.DefaultOut+"\")")

	return cmd
}

func runExport(source, out string) {
	cfg := loadConfig()
	source = resolvePath(firstNonEmpty(source, cfg.Metadata.Source, metadata.DefaultSource))
	out = resolvePath(firstNonEmpty(out, cfg.Metadata.Out, metadata.DefaultOut))

	records, err := metadata.Export(source, out)
	if err != nil {
		logError("%v", err)
		os.Exit(1)
	}

	for _, rec := range records {
		logInfo("%s: name=%q subtitle=%q keywords=%d chars", rec.Locale, rec.Name, rec.Subtitle, len(rec.Keywords))
	}

	logInfo(i18n.N("Exported %d locale", "Exported %d locales", len(records)), len(records))
	logSuccess(i18n.T("Export complete -> %s/<locale>/*.txt"), out)
}

// ---------------------------------------------------------------------------
// consolidate (.strings -> .xcstrings)
// ---------------------------------------------------------------------------

func newConsolidateCmd() *cobra.Command {
	var (
		projectDir string
		basename   string
		output     string
		sourceLang string
		catVersion string
		backupExt  string

		dryRun      bool
		noBackup    bool
		keepBackups bool
	)

	cmd := &cobra.Command{
		Use:   "consolidate",
		Short: "Merge per-locale .strings files into one .xcstrings catalog",
		Long: `Consolidate <locale>.lproj/<basename>.strings files into a single
Apple .xcstrings string catalog.

Key order in the catalog follows the source language file; keys that
only exist in other locales are appended in first-seen order. After the
catalog is written, the original .strings files are renamed with the
backup extension so Xcode stops picking them up. A pre-existing backup
aborts the run unless --keep-backups is given.

The output file is always written before any rename, so an aborted run
never loses an original.

Examples:
  # Preview everything without touching the file system
  shipkit consolidate --dry-run

  # Consolidate a different target
  shipkit consolidate --project-dir MyApp --basename InfoPlist`,
		Run: func(cmd *cobra.Command, args []string) {
			os.Exit(runConsolidate(consolidateArgs{
				projectDir: projectDir, basename: basename, output: output,
				sourceLang: sourceLang, version: catVersion, backupExt: backupExt,
				dryRun: dryRun, noBackup: noBackup, keepBackups: keepBackups,
			}))
		},
	}

	cmd.Flags().StringVar(&projectDir, "project-dir", "", "Directory containing <locale>.lproj folders (default \""+defaultProjectDir+"\")")
	cmd.Flags().StringVar(&basename, "basename", "", "Base name of the .strings files (default \""+defaultBasename+"\")")
	cmd.Flags().StringVar(&output, "output", "", "Output .xcstrings path (default <project-dir>/<basename>.xcstrings)")
	cmd.Flags().StringVar(&sourceLang, "source-language", "", "Source/development language code (default \""+defaultSourceLang+"\")")
	cmd.Flags().StringVar(&catVersion, "version", "", "Version string to embed (default \""+defaultVersion+"\")")
	cmd.Flags().StringVar(&backupExt, "backup-extension", "", "Extension appended when archiving originals (default \""+defaultBackupExt+"\")")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Preview actions without writing or renaming")
	cmd.Flags().BoolVar(&noBackup, "no-backup", false, "Don't rename/archive the original .strings files")
	cmd.Flags().BoolVar(&keepBackups, "keep-backups", false, "If backups already exist, keep them and continue")

	return cmd
}

type consolidateArgs struct {
	projectDir, basename, output   string
	sourceLang, version, backupExt string
	dryRun, noBackup, keepBackups  bool
}

func runConsolidate(a consolidateArgs) int {
	cfg := loadConfig()

	projectDir := resolvePath(firstNonEmpty(a.projectDir, cfg.Strings.ProjectDir, defaultProjectDir))
	basename := firstNonEmpty(a.basename, cfg.Strings.Basename, defaultBasename)
	sourceLang := firstNonEmpty(a.sourceLang, cfg.Strings.SourceLanguage, defaultSourceLang)
	catVersion := firstNonEmpty(a.version, cfg.Strings.Version, defaultVersion)
	backupExt := firstNonEmpty(a.backupExt, cfg.Strings.BackupExtension, defaultBackupExt)

	output := firstNonEmpty(a.output, cfg.Strings.Output)
	if output == "" {
		output = filepath.Join(projectDir, basename+".xcstrings")
	} else {
		output = resolvePath(output)
	}

	locales, err := stringsfile.Discover(projectDir, basename)
	if err != nil {
		logError("%v", err)
		return 1
	}
	if len(locales) == 0 {
		logError(i18n.T("No %s.strings files found in %s"), basename, projectDir)
		return 1
	}

	codes := make([]string, len(locales))
	for i, loc := range locales {
		codes[i] = loc.Code
	}
	logInfo(i18n.T("Discovered locales: %s"), strings.Join(codes, ", "))

	var data []xcstrings.LocaleData
	sourceFound := false
	for _, loc := range locales {
		f, err := stringsfile.ParseFile(loc.Path)
		if err != nil {
			logError("%v", err)
			return 1
		}
		for _, w := range f.Warnings {
			logWarning("%s: %s", loc.Path, w)
		}
		logInfo(i18n.T("Parsed %d entries from %s"), len(f.Values), loc.Path)

		if loc.Code == sourceLang {
			sourceFound = true
		}
		data = append(data, xcstrings.LocaleData{
			Code:   loc.Code,
			Keys:   f.Keys(),
			Values: f.Values,
		})
	}

	if !sourceFound {
		logWarning("Source language %s not found among locales; proceeding anyway", sourceLang)
	}

	catalog := xcstrings.Build(data, sourceLang, catVersion)

	logInfo("Will write %s (%d keys, %d localized entries)", output, len(catalog.Keys()), catalog.LocalizedCount())
	if a.dryRun {
		logInfo(i18n.T("Dry run: skipped writing output"))
	} else {
		if err := catalog.WriteFile(output); err != nil {
			logError("%v", err)
			return 1
		}
		logSuccess(i18n.T("Wrote %s"), output)
	}

	if a.noBackup {
		logInfo("Skipping backup of original .strings files (--no-backup)")
		return 0
	}

	paths := make([]string, len(locales))
	for i, loc := range locales {
		paths[i] = loc.Path
	}

	err = backup.Apply(backup.Plan(paths, backupExt), backup.Options{
		DryRun:       a.dryRun,
		KeepExisting: a.keepBackups,
		OnMove: func(m backup.Move) {
			logInfo("[MOVE] %s -> %s", m.From, m.To)
		},
		OnSkip: func(m backup.Move) {
			logInfo("Keeping existing backup: %s", m.To)
		},
	})
	if err != nil {
		logError("%v", err)
		return 1
	}

	return 0
}

// ---------------------------------------------------------------------------
// status (read-only: locales + coverage)
// ---------------------------------------------------------------------------

func newStatusCmd() *cobra.Command {
	var (
		projectDir string
		basename   string
		sourceLang string
	)

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show discovered locales and translation coverage",
		Long: `Show discovered .lproj locales, per-locale entry counts, coverage
relative to the source language, and whether the metadata source file
and an .xcstrings catalog are present. Does not modify any files.`,
		Run: func(cmd *cobra.Command, args []string) {
			runStatus(projectDir, basename, sourceLang)
		},
	}

	cmd.Flags().StringVar(&projectDir, "project-dir", "", "Directory containing <locale>.lproj folders (default \""+defaultProjectDir+"\")")
	cmd.Flags().StringVar(&basename, "basename", "", "Base name of the .strings files (default \""+defaultBasename+"\")")
	cmd.Flags().StringVar(&sourceLang, "source-language", "", "Source/development language code (default \""+defaultSourceLang+"\")")

	return cmd
}

func runStatus(projectDir, basename, sourceLang string) {
	cfg := loadConfig()

	projectDir = resolvePath(firstNonEmpty(projectDir, cfg.Strings.ProjectDir, defaultProjectDir))
	basename = firstNonEmpty(basename, cfg.Strings.Basename, defaultBasename)
	sourceLang = firstNonEmpty(sourceLang, cfg.Strings.SourceLanguage, defaultSourceLang)

	fmt.Fprintf(os.Stderr, "\n%sProject%s\n", colorBlue, colorReset)
	fmt.Fprintln(os.Stderr, strings.Repeat("─", 60))

	absRoot, _ := filepath.Abs(rootDir)
	fmt.Fprintf(os.Stderr, "  Root:        %s\n", absRoot)
	fmt.Fprintf(os.Stderr, "  Project dir: %s\n", projectDir)
	fmt.Fprintf(os.Stderr, "  Basename:    %s\n", basename)
	fmt.Fprintf(os.Stderr, "  Source lang: %s\n", sourceLang)

	catalogPath := resolvePath(cfg.Strings.Output)
	if catalogPath == "" {
		catalogPath = filepath.Join(projectDir, basename+".xcstrings")
	}
	if fileExists(catalogPath) {
		fmt.Fprintf(os.Stderr, "  Catalog:     %s (exists)\n", catalogPath)
	} else {
		fmt.Fprintf(os.Stderr, "  Catalog:     %s (not written yet)\n", catalogPath)
	}
	fmt.Fprintln(os.Stderr)

	showStringsStats(projectDir, basename, sourceLang)
	showMetadataStatus(cfg)
}

func showStringsStats(projectDir, basename, sourceLang string) {
	locales, err := stringsfile.Discover(projectDir, basename)
	if err != nil || len(locales) == 0 {
		logInfo("No %s.strings files found in %s", basename, projectDir)
		return
	}

	// Parse everything up front; the source language sets the baseline.
	files := make(map[string]*stringsfile.File, len(locales))
	for _, loc := range locales {
		f, err := stringsfile.ParseFile(loc.Path)
		if err != nil {
			logWarning("%s: %v", loc.Path, err)
			continue
		}
		files[loc.Code] = f
	}

	srcTotal := 0
	if src, ok := files[sourceLang]; ok {
		srcTotal = len(src.Values)
	}

	fmt.Fprintf(os.Stderr, "%sString Statistics%s\n", colorBlue, colorReset)
	fmt.Fprintln(os.Stderr, strings.Repeat("─", 60))
	fmt.Fprintf(os.Stderr, "\n%-10s %-10s %-10s %-8s\n", "Locale", "Entries", "Missing", "Coverage")
	fmt.Fprintln(os.Stderr, strings.Repeat("─", 42))

	for _, loc := range locales {
		f, ok := files[loc.Code]
		if !ok {
			fmt.Fprintf(os.Stderr, "%-10s %-10s %-10s %-8s\n", loc.Code, "error", "-", "-")
			continue
		}

		if srcTotal == 0 {
			fmt.Fprintf(os.Stderr, "%-10s %-10d %-10s %-8s\n", loc.Code, len(f.Values), "-", "-")
			continue
		}

		missing := 0
		if src := files[sourceLang]; src != nil {
			for _, k := range src.Keys() {
				if _, ok := f.Values[k]; !ok {
					missing++
				}
			}
		}
		percent := (srcTotal - missing) * 100 / srcTotal
		fmt.Fprintf(os.Stderr, "%-10s %-10d %-10d %d%%\n", loc.Code, len(f.Values), missing, percent)
	}

	fmt.Fprintln(os.Stderr, strings.Repeat("─", 42))
	if srcTotal > 0 {
		fmt.Fprintf(os.Stderr, "Source keys (%s): %d\n", sourceLang, srcTotal)
	} else {
		logWarning("Source language %s not found among locales", sourceLang)
	}
	fmt.Fprintln(os.Stderr)
}

func showMetadataStatus(cfg *config.ShipkitFile) {
	source := resolvePath(firstNonEmpty(cfg.Metadata.Source, metadata.DefaultSource))

	fmt.Fprintf(os.Stderr, "%sStore Listing Copy%s\n", colorBlue, colorReset)
	fmt.Fprintln(os.Stderr, strings.Repeat("─", 60))

	if !fileExists(source) {
		fmt.Fprintf(os.Stderr, "  %s: not found\n\n", source)
		return
	}

	data, err := os.ReadFile(source)
	if err != nil {
		logWarning("%s: %v", source, err)
		return
	}

	var known, unknown []string
	for _, b := range metadata.Split(string(data)) {
		if code, ok := metadata.Resolve(b.Language); ok {
			known = append(known, fmt.Sprintf("%s (%s)", b.Language, code))
		} else {
			unknown = append(unknown, b.Language)
		}
	}

	fmt.Fprintf(os.Stderr, "  Source:      %s\n", source)
	fmt.Fprintf(os.Stderr, "  Languages:   %s\n", strings.Join(known, ", "))
	if len(unknown) > 0 {
		fmt.Fprintf(os.Stderr, "  Skipped:     %s (no locale mapping)\n", strings.Join(unknown, ", "))
	}
	fmt.Fprintln(os.Stderr)
}
