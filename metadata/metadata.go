// Package metadata implements exporting App Store listing copy into the
// fastlane metadata directory layout.
//
// The source is a single text file with one block per language:
//
//	== English ==
//	Name: ChessDuo
//	Subtitle: Chess on one device
//	Keywords: chess,board,duo
//	Promotional Text: Play with a friend.
//
//	Long description text...
//
// Each recognized language block is written as
// <out>/<locale>/{name,subtitle,keywords,promotional_text,description}.txt.
// Languages without a locale mapping are skipped; missing fields become
// empty files. The export is best-effort by design: it never fails on
// malformed blocks, only on I/O errors.
package metadata

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// DefaultSource is the conventional name of the listing copy file.
const DefaultSource = "app-names-and-store-info.txt"

// DefaultOut is the fastlane metadata root directory.
const DefaultOut = "fastlane/metadata"

// Locales maps language header names to App Store locale codes.
// Only these languages are exported.
var Locales = map[string]string{
	"German":             "de-DE",
	"English":            "en-US",
	"Spanish":            "es-ES",
	"French":             "fr-FR",
	"Simplified Chinese": "zh-Hans",
}

// headerRe matches a language header line: == <Language Name> ==
// The line must end right after the closing marker.
var headerRe = regexp.MustCompile(`\n==[ \t]*(.+?)[ \t]*==\n`)

// fieldRes matches the four single-line fields, anchored at line start.
var fieldRes = map[string]*regexp.Regexp{
	"Name":             regexp.MustCompile(`(?m)^Name:[ \t]*(.*)$`),
	"Subtitle":         regexp.MustCompile(`(?m)^Subtitle:[ \t]*(.*)$`),
	"Keywords":         regexp.MustCompile(`(?m)^Keywords:[ \t]*(.*)$`),
	"Promotional Text": regexp.MustCompile(`(?m)^Promotional Text:[ \t]*(.*)$`),
}

// promoMarkerRe locates the bare promotional-text marker line that
// delimits the description within a block. A line carrying an inline
// value is not a marker; such blocks fall back to the whole-block
// description.
var promoMarkerRe = regexp.MustCompile(`(?m)^Promotional Text:[ \t]*$`)

// ---------------------------------------------------------------------------
// Types
// ---------------------------------------------------------------------------

// Block is one language section of the source file.
type Block struct {
	// Language is the header name, whitespace-trimmed (e.g. "English").
	Language string
	// Content is the raw text between this header and the next one.
	Content string
}

// Record holds the five listing fields for one target locale, ready to
// be written to disk.
type Record struct {
	Locale          string
	Name            string
	Subtitle        string
	Keywords        string
	PromotionalText string
	Description     string
}

// ---------------------------------------------------------------------------
// Parsing
// ---------------------------------------------------------------------------

// Split cuts the source text into language blocks. Text before the first
// header is discarded. Block order follows the source file.
func Split(text string) []Block {
	// A header on the very first line still needs a preceding newline
	// for the pattern to apply.
	text = "\n" + text

	matches := headerRe.FindAllStringSubmatchIndex(text, -1)
	blocks := make([]Block, 0, len(matches))

	for i, m := range matches {
		name := text[m[2]:m[3]]
		start := m[1]
		end := len(text)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}
		blocks = append(blocks, Block{Language: name, Content: text[start:end]})
	}

	return blocks
}

// Resolve maps a language header name to its App Store locale code.
func Resolve(language string) (string, bool) {
	code, ok := Locales[language]
	return code, ok
}

// ExtractRecord pulls the five listing fields out of one block's content.
func ExtractRecord(locale, content string) Record {
	field := func(name string) string {
		m := fieldRes[name].FindStringSubmatch(content)
		if m == nil {
			return ""
		}
		return strings.TrimSpace(m[1])
	}

	return Record{
		Locale:          locale,
		Name:            field("Name"),
		Subtitle:        field("Subtitle"),
		Keywords:        field("Keywords"),
		PromotionalText: field("Promotional Text"),
		Description:     extractDescription(content),
	}
}

// extractDescription returns the free-text description of a block: every
// line strictly after the line that follows a bare "Promotional Text:"
// marker line. Without such a marker (including blocks that carry the
// promotional text inline on the field line) the whole block is the
// description, which duplicates the field lines into it — kept for
// compatibility with existing source files that never set a marker.
func extractDescription(content string) string {
	loc := promoMarkerRe.FindStringIndex(content)
	if loc == nil {
		return normalizeDescription(content)
	}

	after := content[loc[1]:]
	lines := strings.Split(after, "\n")
	// lines[0] is the remainder of the marker line, lines[1] the line
	// immediately following it; the description starts after both.
	if len(lines) > 2 {
		lines = lines[2:]
	} else {
		lines = nil
	}
	return normalizeDescription(strings.Join(lines, "\n"))
}

// normalizeDescription strips leading whitespace from every line, trims
// surrounding blank lines, and guarantees exactly one trailing newline.
func normalizeDescription(desc string) string {
	lines := strings.Split(desc, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimLeft(l, " \t")
	}
	return strings.TrimSpace(strings.Join(lines, "\n")) + "\n"
}

// ---------------------------------------------------------------------------
// Export
// ---------------------------------------------------------------------------

// files maps output file names to their Record field.
func (r *Record) files() map[string]string {
	return map[string]string{
		"name.txt":             r.Name + "\n",
		"subtitle.txt":         r.Subtitle + "\n",
		"keywords.txt":         r.Keywords + "\n",
		"promotional_text.txt": r.PromotionalText + "\n",
		"description.txt":      r.Description,
	}
}

// WriteFiles writes the five metadata files under <outRoot>/<locale>/.
// Existing files are overwritten.
func (r *Record) WriteFiles(outRoot string) error {
	dir := filepath.Join(outRoot, r.Locale)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}

	for name, content := range r.files() {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
	}
	return nil
}

// Export reads the source file and writes metadata for every recognized
// language block. It returns the records written, in source order.
func Export(srcPath, outRoot string) ([]Record, error) {
	data, err := os.ReadFile(srcPath)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", srcPath, err)
	}

	var records []Record
	for _, b := range Split(string(data)) {
		locale, ok := Resolve(b.Language)
		if !ok {
			continue
		}
		rec := ExtractRecord(locale, b.Content)
		if err := rec.WriteFiles(outRoot); err != nil {
			return records, err
		}
		records = append(records, rec)
	}

	return records, nil
}
