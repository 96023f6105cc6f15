package i18n

import "testing"

func TestDetectLanguage(t *testing.T) {
	tests := []struct {
		name     string
		language string
		lcAll    string
		lang     string
		want     string
	}{
		{name: "LANGUAGE list takes the first entry", language: "de:en", want: "de"},
		{name: "LC_ALL strips encoding", lcAll: "ru_RU.UTF-8", want: "ru_RU"},
		{name: "C locale is skipped", lcAll: "C", lang: "fr_FR", want: "fr_FR"},
		{name: "nothing set falls back to en", want: "en"},
	}

	for _, tc := range tests {
		t.Setenv("LANGUAGE", tc.language)
		t.Setenv("LC_ALL", tc.lcAll)
		t.Setenv("LC_MESSAGES", "")
		t.Setenv("LANG", tc.lang)

		if got := detectLanguage(); got != tc.want {
			t.Fatalf("%s: detectLanguage() = %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestTranslationPassthroughBeforeInit(t *testing.T) {
	catalog = nil

	if got := T("Wrote %s"); got != "Wrote %s" {
		t.Fatalf("T before Init = %q", got)
	}
	if got := N("one", "many", 2); got != "many" {
		t.Fatalf("N before Init = %q", got)
	}
}

func TestEmbeddedGermanCatalog(t *testing.T) {
	Init("de")

	if got := T("Wrote %s"); got != "%s geschrieben" {
		t.Fatalf("T = %q", got)
	}
	if got := T("not in the catalog"); got != "not in the catalog" {
		t.Fatalf("unknown msgid must pass through, got %q", got)
	}
	if got := N("Exported %d locale", "Exported %d locales", 1); got != "%d Sprache exportiert" {
		t.Fatalf("N(1) = %q", got)
	}
	if got := N("Exported %d locale", "Exported %d locales", 3); got != "%d Sprachen exportiert" {
		t.Fatalf("N(3) = %q", got)
	}
}
