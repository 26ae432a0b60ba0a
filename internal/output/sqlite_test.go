package output

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mlexport/internal/report"
)

func TestWriteSQLiteRoundTrip(t *testing.T) {
	tbl := report.NewTable(report.ColSubmissionID, "response")
	tbl.Append(report.Row{report.ColSubmissionID: "id1", "response": "3"})
	tbl.Append(report.Row{report.ColSubmissionID: "id2"}) // missing -> NULL

	path := filepath.Join(t.TempDir(), "out.sqlite")
	require.NoError(t, WriteSQLite(path, []SQLiteTable{{Name: "report_long", Table: tbl}}))

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()

	rows, err := db.Query(`SELECT activity_submission_id, response FROM report_long ORDER BY activity_submission_id`)
	require.NoError(t, err)
	defer rows.Close()

	type rec struct {
		id   string
		resp sql.NullString
	}
	var got []rec
	for rows.Next() {
		var r rec
		require.NoError(t, rows.Scan(&r.id, &r.resp))
		got = append(got, r)
	}
	require.NoError(t, rows.Err())

	require.Len(t, got, 2)
	assert.Equal(t, "id1", got[0].id)
	assert.True(t, got[0].resp.Valid)
	assert.Equal(t, "3", got[0].resp.String)
	assert.False(t, got[1].resp.Valid)
}

func TestWriteSQLiteOverwritesExisting(t *testing.T) {
	tbl := report.NewTable("a")
	tbl.Append(report.Row{"a": "1"})
	path := filepath.Join(t.TempDir(), "out.sqlite")

	require.NoError(t, WriteSQLite(path, []SQLiteTable{{Name: "t", Table: tbl}}))
	require.NoError(t, WriteSQLite(path, []SQLiteTable{{Name: "t", Table: tbl}}))

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM t`).Scan(&n))
	assert.Equal(t, 1, n)
}
