package backup

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestPlanAppendsExtension(t *testing.T) {
	moves := Plan([]string{"a/en.strings", "a/de.strings"}, ".bak")

	want := []Move{
		{From: "a/en.strings", To: "a/en.strings.bak"},
		{From: "a/de.strings", To: "a/de.strings.bak"},
	}
	if !reflect.DeepEqual(moves, want) {
		t.Fatalf("Plan = %+v, want %+v", moves, want)
	}
}

func TestApplyRenamesAndReportsMoves(t *testing.T) {
	dir := t.TempDir()
	orig := filepath.Join(dir, "Localizable.strings")
	writeFile(t, orig, "content")

	var reported []Move
	err := Apply(Plan([]string{orig}, ".bak"), Options{
		OnMove: func(m Move) { reported = append(reported, m) },
	})
	if err != nil {
		t.Fatalf("Apply error: %v", err)
	}

	if len(reported) != 1 || reported[0].To != orig+".bak" {
		t.Fatalf("reported moves = %+v", reported)
	}
	if _, err := os.Stat(orig); !os.IsNotExist(err) {
		t.Fatal("original still exists after rename")
	}
	data, err := os.ReadFile(orig + ".bak")
	if err != nil || string(data) != "content" {
		t.Fatalf("backup content = %q, err = %v", data, err)
	}
}

func TestApplyExistingBackupIsFatal(t *testing.T) {
	dir := t.TempDir()
	orig := filepath.Join(dir, "Localizable.strings")
	writeFile(t, orig, "current")
	writeFile(t, orig+".bak", "stale")

	err := Apply(Plan([]string{orig}, ".bak"), Options{})
	if err == nil {
		t.Fatal("Apply must fail on an existing backup")
	}

	// Neither file may be touched.
	data, _ := os.ReadFile(orig)
	if string(data) != "current" {
		t.Fatalf("original modified: %q", data)
	}
	data, _ = os.ReadFile(orig + ".bak")
	if string(data) != "stale" {
		t.Fatalf("backup modified: %q", data)
	}
}

func TestApplyKeepExistingSkips(t *testing.T) {
	dir := t.TempDir()
	archived := filepath.Join(dir, "en.strings")
	fresh := filepath.Join(dir, "de.strings")
	writeFile(t, archived, "new en")
	writeFile(t, archived+".bak", "old en")
	writeFile(t, fresh, "de")

	var skipped, moved []Move
	err := Apply(Plan([]string{archived, fresh}, ".bak"), Options{
		KeepExisting: true,
		OnMove:       func(m Move) { moved = append(moved, m) },
		OnSkip:       func(m Move) { skipped = append(skipped, m) },
	})
	if err != nil {
		t.Fatalf("Apply error: %v", err)
	}

	if len(skipped) != 1 || skipped[0].From != archived {
		t.Fatalf("skipped = %+v", skipped)
	}
	if len(moved) != 1 || moved[0].From != fresh {
		t.Fatalf("moved = %+v", moved)
	}

	// The already-archived original stays; its stale backup is untouched.
	if data, _ := os.ReadFile(archived); string(data) != "new en" {
		t.Fatalf("archived original modified: %q", data)
	}
	if data, _ := os.ReadFile(archived + ".bak"); string(data) != "old en" {
		t.Fatalf("stale backup modified: %q", data)
	}
	if _, err := os.Stat(fresh + ".bak"); err != nil {
		t.Fatalf("fresh file not archived: %v", err)
	}
}

func TestApplyDryRunReportsPlanWithoutChanges(t *testing.T) {
	dir := t.TempDir()
	orig := filepath.Join(dir, "Localizable.strings")
	writeFile(t, orig, "content")

	var reported []Move
	err := Apply(Plan([]string{orig}, ".bak"), Options{
		DryRun: true,
		OnMove: func(m Move) { reported = append(reported, m) },
	})
	if err != nil {
		t.Fatalf("Apply error: %v", err)
	}

	// Identical plan is reported, nothing is renamed.
	if len(reported) != 1 {
		t.Fatalf("reported = %+v, want one move", reported)
	}
	if _, err := os.Stat(orig); err != nil {
		t.Fatalf("dry run touched the original: %v", err)
	}
	if _, err := os.Stat(orig + ".bak"); !os.IsNotExist(err) {
		t.Fatal("dry run created a backup")
	}
}
