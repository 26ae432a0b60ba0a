package output

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"mlexport/internal/report"
)

// SQLiteTable names one table to materialize in the artifact database.
type SQLiteTable struct {
	Name  string
	Table *report.Table
}

// WriteSQLite rewrites the artifact database from scratch. Every column is
// TEXT; missing cells become NULL, preserving the missing/empty
// distinction the delimited outputs flatten.
func WriteSQLite(path string, tables []SQLiteTable) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	_ = os.Remove(path)
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return err
	}
	defer db.Close()

	for _, tab := range tables {
		if err := writeSQLiteTable(db, tab.Name, tab.Table); err != nil {
			return fmt.Errorf("write table %s: %w", tab.Name, err)
		}
	}
	return nil
}

func writeSQLiteTable(db *sql.DB, name string, t *report.Table) error {
	if len(t.Columns) == 0 {
		return nil
	}
	var defs, qCols []string
	for _, c := range t.Columns {
		defs = append(defs, fmt.Sprintf("%q TEXT", c))
		qCols = append(qCols, fmt.Sprintf("%q", c))
	}
	if _, err := db.Exec(fmt.Sprintf("DROP TABLE IF EXISTS %q", name)); err != nil {
		return err
	}
	if _, err := db.Exec(fmt.Sprintf("CREATE TABLE %q (", name) + strings.Join(defs, ",") + ")"); err != nil {
		return err
	}
	ph := strings.TrimRight(strings.Repeat("?,", len(t.Columns)), ",")
	stmt, err := db.Prepare(fmt.Sprintf("INSERT INTO %q (", name) + strings.Join(qCols, ",") + ") VALUES (" + ph + ")")
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, row := range t.Rows {
		args := make([]any, 0, len(t.Columns))
		for _, c := range t.Columns {
			if v, ok := row.Get(c); ok {
				args = append(args, v)
			} else {
				args = append(args, nil)
			}
		}
		if _, err := stmt.Exec(args...); err != nil {
			return err
		}
	}
	if t.HasColumn(report.ColSubmissionID) {
		idx := fmt.Sprintf("CREATE INDEX IF NOT EXISTS %q ON %q(%q)",
			"idx_"+name+"_submission", name, report.ColSubmissionID)
		if _, err := db.Exec(idx); err != nil {
			return err
		}
	}
	return nil
}
