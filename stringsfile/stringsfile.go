// Package stringsfile implements reading of Apple .strings resource files.
//
// Format: one entry per line, "key" = "value"; with optional // line
// comments and single-line /* block */ comments. Multi-line values are
// not supported — each line is parsed independently. Escape handling is
// deliberately limited to \" , \n , backslash-newline and \\ so that
// multi-byte text is never run through a general unicode-escape decoder.
//
// The File type keeps keys in document order; duplicate keys keep their
// first position but the later value wins. Lines the parser cannot make
// sense of are collected as warnings, never treated as fatal.
package stringsfile

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// lprojSuffix is the locale folder naming convention (<locale>.lproj).
const lprojSuffix = ".lproj"

// entryRe matches a single "key" = "value"; line with an optional
// trailing // comment. Keys are non-empty, values may be empty.
var entryRe = regexp.MustCompile(`^\s*"((?:\\.|[^"\\])+)"\s*=\s*"((?:\\.|[^"\\])*)"\s*;\s*(?://.*)?$`)

// blockCommentRe matches a line that is exactly one /* ... */ comment.
var blockCommentRe = regexp.MustCompile(`^\s*/\*.*\*/\s*$`)

// ---------------------------------------------------------------------------
// File model
// ---------------------------------------------------------------------------

// Warning describes a non-fatal problem found while parsing.
type Warning struct {
	// Line is the 1-based line number in the source file.
	Line int
	// Message describes the problem.
	Message string
}

func (w Warning) String() string {
	return fmt.Sprintf("line %d: %s", w.Line, w.Message)
}

// File represents a parsed .strings file.
type File struct {
	// Values maps key -> translated value.
	Values map[string]string
	// Warnings lists skipped lines and duplicate keys.
	Warnings []Warning

	// keys preserves first-seen key order.
	keys []string
}

// Keys returns the keys in document (first-seen) order.
func (f *File) Keys() []string {
	return f.keys
}

// ---------------------------------------------------------------------------
// Parsing
// ---------------------------------------------------------------------------

// ParseFile reads and parses a .strings file from disk.
func ParseFile(path string) (*File, error) {
	in, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	defer in.Close()
	return Parse(in)
}

// Parse parses .strings content from a reader.
func Parse(r io.Reader) (*File, error) {
	f := &File{Values: make(map[string]string)}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 1024*1024), 1024*1024)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		raw := scanner.Text()
		line := strings.TrimSpace(raw)

		if line == "" || strings.HasPrefix(line, "//") || blockCommentRe.MatchString(line) {
			continue
		}

		m := entryRe.FindStringSubmatch(line)
		if m == nil {
			f.Warnings = append(f.Warnings, Warning{
				Line:    lineNum,
				Message: fmt.Sprintf("unparsed line: %s", raw),
			})
			continue
		}

		key := unescape(m[1])
		value := unescape(m[2])

		if _, exists := f.Values[key]; exists {
			f.Warnings = append(f.Warnings, Warning{
				Line:    lineNum,
				Message: fmt.Sprintf("duplicate key %q (overwriting)", key),
			})
		} else {
			f.keys = append(f.keys, key)
		}
		f.Values[key] = value
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading .strings content: %w", err)
	}

	return f, nil
}

// unescape resolves the limited escape set used in .strings literals,
// scanning left to right: a backslash pair is consumed as one unit, so
// `\\n` yields a literal backslash followed by 'n', not a newline.
// General unicode escapes are intentionally left alone.
func unescape(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			switch s[i+1] {
			case '"':
				b.WriteByte('"')
				i++
			case 'n':
				b.WriteByte('\n')
				i++
			case '\n':
				b.WriteByte('\n')
				i++
			case '\\':
				b.WriteByte('\\')
				i++
			default:
				b.WriteByte(s[i])
			}
		} else {
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

// ---------------------------------------------------------------------------
// Discovery
// ---------------------------------------------------------------------------

// Locale is one discovered per-locale resource file.
type Locale struct {
	// Code is the locale identifier (lproj folder name without suffix).
	Code string
	// Path is the resource file location.
	Path string
}

// Discover scans the immediate subdirectories of projectDir for
// <locale>.lproj folders containing <basename>.strings and returns them
// in folder-name order (os.ReadDir yields entries sorted by name, so
// "de-DE.lproj" precedes "de.lproj"). This order also fixes the locale
// order inside the consolidated catalog.
func Discover(projectDir, basename string) ([]Locale, error) {
	entries, err := os.ReadDir(projectDir)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", projectDir, err)
	}

	var locales []Locale
	for _, e := range entries {
		if !e.IsDir() || !strings.HasSuffix(e.Name(), lprojSuffix) {
			continue
		}
		code := strings.TrimSuffix(e.Name(), lprojSuffix)
		path := filepath.Join(projectDir, e.Name(), basename+".strings")
		if info, err := os.Stat(path); err != nil || info.IsDir() {
			continue
		}
		locales = append(locales, Locale{Code: code, Path: path})
	}

	return locales, nil
}
