package main

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestCompareTablesIdentical(t *testing.T) {
	a := csvTable{Headers: []string{"x", "y"}, Rows: [][]string{{"1", "2"}, {"3", "4"}}}
	diffs, summary := compareTables(a, a, 20)
	if summary != "" || len(diffs) != 0 {
		t.Fatalf("expected identical, got %q with %d diffs", summary, len(diffs))
	}
}

func TestCompareTablesCellDiff(t *testing.T) {
	a := csvTable{Headers: []string{"x", "y"}, Rows: [][]string{{"1", "2"}}}
	b := csvTable{Headers: []string{"x", "y"}, Rows: [][]string{{"1", "9"}}}
	diffs, summary := compareTables(a, b, 20)
	if summary != "1 differing cells" {
		t.Fatalf("unexpected summary: %q", summary)
	}
	if len(diffs) != 1 || diffs[0].Column != "y" || diffs[0].A != "2" || diffs[0].B != "9" {
		t.Fatalf("unexpected diffs: %+v", diffs)
	}
}

func TestCompareTablesMaxDiffsCapsReporting(t *testing.T) {
	a := csvTable{Headers: []string{"x"}, Rows: [][]string{{"1"}, {"2"}, {"3"}}}
	b := csvTable{Headers: []string{"x"}, Rows: [][]string{{"a"}, {"b"}, {"c"}}}
	diffs, summary := compareTables(a, b, 2)
	if len(diffs) != 2 {
		t.Fatalf("expected 2 reported diffs, got %d", len(diffs))
	}
	if summary != "3 differing cells" {
		t.Fatalf("unexpected summary: %q", summary)
	}
}

func TestCompareTablesShapeMismatch(t *testing.T) {
	a := csvTable{Headers: []string{"x"}}
	b := csvTable{Headers: []string{"x", "y"}}
	if _, summary := compareTables(a, b, 20); summary == "" {
		t.Fatal("expected column count mismatch")
	}

	c := csvTable{Headers: []string{"x"}, Rows: [][]string{{"1"}}}
	d := csvTable{Headers: []string{"x"}}
	if _, summary := compareTables(c, d, 20); summary == "" {
		t.Fatal("expected row count mismatch")
	}
}

func TestLoadCSVStripsBOMAndRaggedRows(t *testing.T) {
	path := writeFile(t, "a.csv", "\xEF\xBB\xBFx,y\n1\n")
	tbl, err := loadCSV(path)
	if err != nil {
		t.Fatalf("loadCSV: %v", err)
	}
	if tbl.Headers[0] != "x" {
		t.Fatalf("BOM not stripped: %q", tbl.Headers[0])
	}
	if cell(tbl.Rows[0], 1) != "" {
		t.Fatalf("expected short row to read as empty cell")
	}
}
