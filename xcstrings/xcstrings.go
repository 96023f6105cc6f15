// Package xcstrings implements building and writing Apple String Catalog
// (.xcstrings) files from per-locale key/value tables.
//
// The simplified structure written here is sufficient for Xcode to import:
//
//	{
//	  "sourceLanguage": "en",
//	  "version": "1.0",
//	  "strings": {
//	    "key": {
//	      "extractionState": "manual",
//	      "localizations": {
//	        "en": { "stringUnit": { "state": "translated", "value": "Base text" } }
//	      }
//	    }
//	  }
//	}
//
// Key order is significant and preserved: source-language keys first, in
// source-file order, then keys found only in other locales in first-seen
// order. encoding/json maps would re-sort keys, so serialization is
// written by hand, the same way the i18next format is handled elsewhere.
package xcstrings

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// ExtractionStateManual marks entries populated by this tool rather than
// by Xcode's automatic string extraction.
const ExtractionStateManual = "manual"

// StateTranslated is the translation state recorded for every imported
// value; freshness detection is out of scope.
const StateTranslated = "translated"

// ---------------------------------------------------------------------------
// Model
// ---------------------------------------------------------------------------

// LocaleData is one locale's parsed resource table, with keys in
// document order.
type LocaleData struct {
	Code   string
	Keys   []string
	Values map[string]string
}

// Entry is one catalog key with its per-locale translations. Only locales
// whose resource file actually contained the key are present.
type Entry struct {
	ExtractionState string
	// locales holds the locale codes in catalog order.
	locales []string
	// values maps locale code -> translated value.
	values map[string]string
}

// Locales returns the entry's locale codes in catalog order.
func (e *Entry) Locales() []string {
	return e.locales
}

// Value returns the translation for a locale, if present.
func (e *Entry) Value(locale string) (string, bool) {
	v, ok := e.values[locale]
	return v, ok
}

// Catalog is a consolidated multi-locale string catalog.
type Catalog struct {
	SourceLanguage string
	Version        string

	// keys holds the catalog key order.
	keys    []string
	entries map[string]*Entry
}

// Keys returns the catalog keys in order.
func (c *Catalog) Keys() []string {
	return c.keys
}

// Entry returns the entry for a key, or nil.
func (c *Catalog) Entry(key string) *Entry {
	return c.entries[key]
}

// LocalizedCount returns the total number of per-locale values across
// all entries.
func (c *Catalog) LocalizedCount() int {
	n := 0
	for _, e := range c.entries {
		n += len(e.locales)
	}
	return n
}

// ---------------------------------------------------------------------------
// Building
// ---------------------------------------------------------------------------

// Build merges per-locale tables into one catalog. Key order privileges
// the source language's file order; keys present only in other locales
// follow in first-seen order. When the source language is absent from
// the input, order degrades to first-seen across all locales.
func Build(data []LocaleData, sourceLanguage, version string) *Catalog {
	c := &Catalog{
		SourceLanguage: sourceLanguage,
		Version:        version,
		entries:        make(map[string]*Entry),
	}

	seen := make(map[string]bool)
	add := func(key string) {
		if !seen[key] {
			seen[key] = true
			c.keys = append(c.keys, key)
		}
	}

	for _, ld := range data {
		if ld.Code == sourceLanguage {
			for _, k := range ld.Keys {
				add(k)
			}
		}
	}
	for _, ld := range data {
		if ld.Code == sourceLanguage {
			continue
		}
		for _, k := range ld.Keys {
			add(k)
		}
	}

	for _, key := range c.keys {
		e := &Entry{
			ExtractionState: ExtractionStateManual,
			values:          make(map[string]string),
		}
		for _, ld := range data {
			if v, ok := ld.Values[key]; ok {
				e.locales = append(e.locales, ld.Code)
				e.values[ld.Code] = v
			}
		}
		c.entries[key] = e
	}

	return c
}

// ---------------------------------------------------------------------------
// Serialization
// ---------------------------------------------------------------------------

// Marshal renders the catalog as pretty-printed JSON with 2-space
// indentation, stable key order and no ASCII or HTML escaping.
func (c *Catalog) Marshal() []byte {
	var b strings.Builder

	b.WriteString("{\n")
	fmt.Fprintf(&b, "  \"sourceLanguage\": %s,\n", jsonString(c.SourceLanguage))
	fmt.Fprintf(&b, "  \"version\": %s,\n", jsonString(c.Version))

	if len(c.keys) == 0 {
		b.WriteString("  \"strings\": {}\n}")
		return []byte(b.String())
	}

	b.WriteString("  \"strings\": {\n")
	for i, key := range c.keys {
		e := c.entries[key]

		fmt.Fprintf(&b, "    %s: {\n", jsonString(key))
		fmt.Fprintf(&b, "      \"extractionState\": %s,\n", jsonString(e.ExtractionState))

		if len(e.locales) == 0 {
			b.WriteString("      \"localizations\": {}\n")
		} else {
			b.WriteString("      \"localizations\": {\n")
			for j, loc := range e.locales {
				fmt.Fprintf(&b, "        %s: {\n", jsonString(loc))
				b.WriteString("          \"stringUnit\": {\n")
				fmt.Fprintf(&b, "            \"state\": %s,\n", jsonString(StateTranslated))
				fmt.Fprintf(&b, "            \"value\": %s\n", jsonString(e.values[loc]))
				b.WriteString("          }\n")
				b.WriteString("        }")
				if j < len(e.locales)-1 {
					b.WriteByte(',')
				}
				b.WriteByte('\n')
			}
			b.WriteString("      }\n")
		}

		b.WriteString("    }")
		if i < len(c.keys)-1 {
			b.WriteByte(',')
		}
		b.WriteByte('\n')
	}
	b.WriteString("  }\n}")

	return []byte(b.String())
}

// WriteFile writes the catalog to disk as UTF-8 JSON.
func (c *Catalog) WriteFile(path string) error {
	if err := os.WriteFile(path, c.Marshal(), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// jsonString encodes a string as a JSON literal without escaping HTML
// characters or non-ASCII text.
func jsonString(s string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	// Encode always succeeds for plain strings.
	_ = enc.Encode(s)
	return strings.TrimSuffix(buf.String(), "\n")
}
