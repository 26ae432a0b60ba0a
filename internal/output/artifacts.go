package output

import (
	"strings"

	"mlexport/internal/report"
	"mlexport/internal/transform"
)

// Artifact file names.
const (
	FileMerged     = "report_merged.csv"
	FileDictionary = "applet_dictionary.csv"
	FileOptions    = "options.csv"
	FileLong       = "report_long.csv"
	FileLongDebug  = "report_long_debug.csv"
	FileWide       = "report_wide.csv"
	FileProfile    = "profile.md"
	FileSQLite     = "mlexport.sqlite"
)

// Dictionary deduplicates the applet dictionary projection of the merged
// export, in first-seen row order. A missing projection column is a fatal
// configuration error, reported with the column name.
func Dictionary(t *report.Table) (*report.Table, error) {
	if t.Empty() && !t.HasColumn(report.ColOptions) {
		return report.NewTable(report.DictionaryColumns...), nil
	}
	proj, err := t.Select(report.DictionaryColumns...)
	if err != nil {
		return nil, err
	}
	out := report.NewTable(proj.Columns...)
	seen := make(map[string]struct{}, len(proj.Rows))
	for _, row := range proj.Rows {
		parts := make([]string, 0, len(proj.Columns)*2)
		for _, c := range proj.Columns {
			v, ok := row.Get(c)
			parts = append(parts, v, boolMark(ok))
		}
		key := strings.Join(parts, "\x1f")
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out.Append(row)
	}
	return out, nil
}

func boolMark(ok bool) string {
	if ok {
		return "+"
	}
	return "-"
}

// OptionsTable explodes each dictionary row into one row per parsed
// option, with the option's name, position value, and score side by side.
// Rows whose options string is missing or unrecognized contribute nothing.
func OptionsTable(dictionary *report.Table) *report.Table {
	columns := append(append([]string{}, report.DictionaryColumns...),
		"option_name", "option_value", "option_score")
	out := report.NewTable(columns...)
	for _, row := range dictionary.Rows {
		options, ok := row.Get(report.ColOptions)
		if !ok {
			continue
		}
		parsed := transform.ParseOptions(options)
		for _, entry := range parsed.Entries {
			exploded := row.Clone()
			exploded["option_name"] = entry.Name
			exploded["option_value"] = entry.Value
			if entry.Score != "" {
				exploded["option_score"] = entry.Score
			}
			out.Append(exploded)
		}
	}
	return out
}

// debugColumns are the raw/decoded/mapped columns kept side by side in the
// diagnostic long output and dropped from the plain long output.
var debugColumns = []string{
	report.ColResponse,
	report.ColFormattedResponse,
	report.ColResponseValues,
	report.ColResponseScores,
}

// Long projects the processed long table for the plain artifact: the
// intermediate decode/map columns are dropped, merged_responses stands in
// for the response.
func Long(t *report.Table) *report.Table {
	out := &report.Table{Columns: append([]string(nil), t.Columns...), Rows: t.Rows}
	for _, c := range debugColumns {
		if c == report.ColResponse {
			continue
		}
		out = dropped(out, c)
	}
	return out
}

// LongDebug returns the processed long table unchanged; it already carries
// response, formatted_response, response_values, response_scores and
// merged_responses next to each other for verification.
func LongDebug(t *report.Table) *report.Table {
	return t
}

// dropped removes a column without mutating the shared rows: the column
// list is copied, rows are projected lazily at write time via the column
// list, so delete is schema-only.
func dropped(t *report.Table, col string) *report.Table {
	idx := t.ColumnIndex(col)
	if idx < 0 {
		return t
	}
	cols := append([]string{}, t.Columns[:idx]...)
	cols = append(cols, t.Columns[idx+1:]...)
	return &report.Table{Columns: cols, Rows: t.Rows}
}
