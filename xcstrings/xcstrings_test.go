package xcstrings

import (
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func twoLocaleData() []LocaleData {
	// Discovery order is sorted by locale code, so de before en.
	return []LocaleData{
		{
			Code: "de",
			Keys: []string{"Hello", "OnlyGerman"},
			Values: map[string]string{
				"Hello":      "Hallo",
				"OnlyGerman": "Nur hier",
			},
		},
		{
			Code: "en",
			Keys: []string{"Hello", "Bye"},
			Values: map[string]string{
				"Hello": "Hi",
				"Bye":   "Bye!",
			},
		},
	}
}

func TestBuildOrderingAndSparseLocales(t *testing.T) {
	c := Build(twoLocaleData(), "en", "1.0")

	// Source-language keys first in file order, then extras first-seen.
	wantKeys := []string{"Hello", "Bye", "OnlyGerman"}
	if !reflect.DeepEqual(c.Keys(), wantKeys) {
		t.Fatalf("Keys = %v, want %v", c.Keys(), wantKeys)
	}

	hello := c.Entry("Hello")
	if hello == nil {
		t.Fatal("Hello entry missing")
	}
	if hello.ExtractionState != ExtractionStateManual {
		t.Fatalf("extraction state = %q", hello.ExtractionState)
	}
	if !reflect.DeepEqual(hello.Locales(), []string{"de", "en"}) {
		t.Fatalf("Hello locales = %v, want [de en]", hello.Locales())
	}
	if v, _ := hello.Value("en"); v != "Hi" {
		t.Fatalf("Hello/en = %q, want Hi", v)
	}
	if v, _ := hello.Value("de"); v != "Hallo" {
		t.Fatalf("Hello/de = %q, want Hallo", v)
	}

	// No synthesized entries for locales that lack the key.
	bye := c.Entry("Bye")
	if !reflect.DeepEqual(bye.Locales(), []string{"en"}) {
		t.Fatalf("Bye locales = %v, want [en]", bye.Locales())
	}
	if _, ok := bye.Value("de"); ok {
		t.Fatal("Bye must not have a de value")
	}

	if got := c.LocalizedCount(); got != 4 {
		t.Fatalf("LocalizedCount = %d, want 4", got)
	}
}

func TestBuildWithoutSourceLanguageUsesDiscoveryOrder(t *testing.T) {
	c := Build(twoLocaleData(), "fr", "1.0")

	wantKeys := []string{"Hello", "OnlyGerman", "Bye"}
	if !reflect.DeepEqual(c.Keys(), wantKeys) {
		t.Fatalf("Keys = %v, want %v", c.Keys(), wantKeys)
	}
}

func TestMarshalStableOutput(t *testing.T) {
	c := Build([]LocaleData{
		{
			Code:   "de",
			Keys:   []string{"Greeting"},
			Values: map[string]string{"Greeting": "Grüße & <Willkommen>"},
		},
		{
			Code:   "en",
			Keys:   []string{"Greeting"},
			Values: map[string]string{"Greeting": "Hi"},
		},
	}, "en", "2.3")

	got := string(c.Marshal())

	want := `{
  "sourceLanguage": "en",
  "version": "2.3",
  "strings": {
    "Greeting": {
      "extractionState": "manual",
      "localizations": {
        "de": {
          "stringUnit": {
            "state": "translated",
            "value": "Grüße & <Willkommen>"
          }
        },
        "en": {
          "stringUnit": {
            "state": "translated",
            "value": "Hi"
          }
        }
      }
    }
  }
}`

	if got != want {
		t.Fatalf("Marshal output:\n%s\nwant:\n%s", got, want)
	}

	// The output must also be valid JSON with the expected shape.
	var parsed struct {
		SourceLanguage string `json:"sourceLanguage"`
		Version        string `json:"version"`
		Strings        map[string]struct {
			ExtractionState string `json:"extractionState"`
			Localizations   map[string]struct {
				StringUnit struct {
					State string `json:"state"`
					Value string `json:"value"`
				} `json:"stringUnit"`
			} `json:"localizations"`
		} `json:"strings"`
	}
	if err := json.Unmarshal([]byte(got), &parsed); err != nil {
		t.Fatalf("Marshal produced invalid JSON: %v", err)
	}
	if parsed.Strings["Greeting"].Localizations["de"].StringUnit.Value != "Grüße & <Willkommen>" {
		t.Fatalf("round-trip value = %q", parsed.Strings["Greeting"].Localizations["de"].StringUnit.Value)
	}
	if parsed.Strings["Greeting"].Localizations["en"].StringUnit.State != StateTranslated {
		t.Fatal("state must be translated")
	}
}

func TestMarshalEmptyCatalog(t *testing.T) {
	c := Build(nil, "en", "1.0")

	want := `{
  "sourceLanguage": "en",
  "version": "1.0",
  "strings": {}
}`
	if got := string(c.Marshal()); got != want {
		t.Fatalf("Marshal = %q, want %q", got, want)
	}
}

func TestMarshalEscapesControlCharacters(t *testing.T) {
	c := Build([]LocaleData{
		{
			Code:   "en",
			Keys:   []string{"Multi"},
			Values: map[string]string{"Multi": "line one\nline \"two\""},
		},
	}, "en", "1.0")

	got := string(c.Marshal())
	if !strings.Contains(got, `"line one\nline \"two\""`) {
		t.Fatalf("newline/quote not escaped in output:\n%s", got)
	}
	if err := json.Unmarshal([]byte(got), &map[string]any{}); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Localizable.xcstrings")

	c := Build(twoLocaleData(), "en", "1.0")
	if err := c.WriteFile(path); err != nil {
		t.Fatalf("WriteFile error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != string(c.Marshal()) {
		t.Fatal("file content differs from Marshal output")
	}
}
