package output

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mlexport/internal/report"
)

func TestWriteCSV(t *testing.T) {
	tbl := report.NewTable("a", "b", "c")
	tbl.Append(report.Row{"a": "plain", "b": "has, comma", "c": `has "quote"`})
	tbl.Append(report.Row{"a": "next"}) // missing cells render empty

	path := filepath.Join(t.TempDir(), "out.csv")
	require.NoError(t, WriteCSV(path, tbl))

	got, err := os.ReadFile(path)
	require.NoError(t, err)

	want := "\xEF\xBB\xBF" +
		"a,b,c\n" +
		`plain,"has, comma","has ""quote"""` + "\n" +
		"next,,\n"
	assert.Equal(t, want, string(got))
}

func TestWriteCSVEmptyTableWritesHeaderOnly(t *testing.T) {
	tbl := report.NewTable("x", "y")
	path := filepath.Join(t.TempDir(), "empty.csv")
	require.NoError(t, WriteCSV(path, tbl))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "\xEF\xBB\xBFx,y\n", string(got))
}

func TestWriteCSVQuotesNewlines(t *testing.T) {
	tbl := report.NewTable("a")
	tbl.Append(report.Row{"a": "line1\nline2"})
	path := filepath.Join(t.TempDir(), "nl.csv")
	require.NoError(t, WriteCSV(path, tbl))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "\xEF\xBB\xBFa\n\"line1\nline2\"\n", string(got))
}
