package main

import (
	"bytes"
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
)

// diff-output compares two delimited artifacts cell by cell and exits
// non-zero when they differ. Meant for checking that two pipeline runs
// over the same input produce identical files.

type csvTable struct {
	Path    string
	Headers []string
	Rows    [][]string
}

type cellDiff struct {
	Row    int
	Column string
	A, B   string
}

func main() {
	maxDiffs := flag.Int("max-diffs", 20, "Stop reporting after this many differing cells")
	flag.Parse()
	if flag.NArg() != 2 {
		fmt.Fprintln(os.Stderr, "usage: diff-output [flags] <a.csv> <b.csv>")
		os.Exit(2)
	}

	a, err := loadCSV(flag.Arg(0))
	if err != nil {
		fatalf("read %s: %v", flag.Arg(0), err)
	}
	b, err := loadCSV(flag.Arg(1))
	if err != nil {
		fatalf("read %s: %v", flag.Arg(1), err)
	}

	diffs, summary := compareTables(a, b, *maxDiffs)
	for _, d := range diffs {
		fmt.Printf("row %d col %s: %q != %q\n", d.Row, d.Column, d.A, d.B)
	}
	if summary != "" {
		fmt.Fprintln(os.Stderr, summary)
		os.Exit(1)
	}
	fmt.Printf("identical: %d rows, %d columns\n", len(a.Rows), len(a.Headers))
}

func compareTables(a, b csvTable, maxDiffs int) ([]cellDiff, string) {
	if len(a.Headers) != len(b.Headers) {
		return nil, fmt.Sprintf("column count differs: %d vs %d", len(a.Headers), len(b.Headers))
	}
	for i := range a.Headers {
		if a.Headers[i] != b.Headers[i] {
			return nil, fmt.Sprintf("header %d differs: %q vs %q", i, a.Headers[i], b.Headers[i])
		}
	}
	if len(a.Rows) != len(b.Rows) {
		return nil, fmt.Sprintf("row count differs: %d vs %d", len(a.Rows), len(b.Rows))
	}
	var diffs []cellDiff
	total := 0
	for ri := range a.Rows {
		for ci, h := range a.Headers {
			av := cell(a.Rows[ri], ci)
			bv := cell(b.Rows[ri], ci)
			if av == bv {
				continue
			}
			total++
			if len(diffs) < maxDiffs {
				diffs = append(diffs, cellDiff{Row: ri, Column: h, A: av, B: bv})
			}
		}
	}
	if total > 0 {
		return diffs, fmt.Sprintf("%d differing cells", total)
	}
	return nil, ""
}

func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}

func loadCSV(path string) (csvTable, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return csvTable{}, err
	}
	b = bytes.TrimPrefix(b, []byte{0xEF, 0xBB, 0xBF})
	r := csv.NewReader(bytes.NewReader(b))
	r.FieldsPerRecord = -1
	headers, err := r.Read()
	if err != nil {
		return csvTable{}, err
	}
	var rows [][]string
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return csvTable{}, err
		}
		rows = append(rows, rec)
	}
	return csvTable{Path: path, Headers: headers, Rows: rows}, nil
}

func fatalf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
