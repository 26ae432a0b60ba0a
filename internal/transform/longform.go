// Package transform implements the sequential table transformations:
// long-form reshape of score columns, response decoding, score/value
// mapping against the options metadata, and the wide pivot.
package transform

import (
	"strings"

	"go.uber.org/zap"

	"mlexport/internal/report"
)

// Names the scoring exports use for composite activity scores.
const (
	finalScoreItem     = "Final SubScale Score"
	finalScoreTextItem = "Optional text for Final SubScale Score"
	lookupTextPrefix   = "Optional text for "
)

// scoreKind classifies a reshaped score column.
type scoreKind int

const (
	kindSubscale scoreKind = iota
	kindFinalScore
	kindFinalScoreText
	kindLookupText
)

// classifyScoreColumn buckets a score column name by exact or prefix
// match. For lookup-text columns the returned detail is the subscale name.
func classifyScoreColumn(name string) (scoreKind, string) {
	switch {
	case name == finalScoreItem:
		return kindFinalScore, ""
	case name == finalScoreTextItem:
		return kindFinalScoreText, ""
	case strings.HasPrefix(name, lookupTextPrefix):
		return kindLookupText, strings.TrimPrefix(name, lookupTextPrefix)
	default:
		return kindSubscale, name
	}
}

// longItemName rewrites a score column name into its long-form item name.
func longItemName(name string) string {
	kind, detail := classifyScoreColumn(name)
	switch kind {
	case kindFinalScore:
		return "activity_score"
	case kindFinalScoreText:
		return "activity_score_lookup_text"
	case kindLookupText:
		return "subscale_lookup_text_" + detail
	default:
		return "subscale_name_" + detail
	}
}

// Longform reshapes the score/subscale columns into long-format rows and
// appends them to the original rows. The legacy user column is dropped
// first when present. With no score columns the reshape is a no-op and the
// input table is returned unchanged.
func Longform(t *report.Table, log *zap.Logger) *report.Table {
	t.DropColumn(report.ColLegacyUser)

	valueVars := report.ScoreColumns(t)
	if len(valueVars) == 0 {
		log.Debug("no score columns present, skipping long-form reshape")
		return t
	}

	idVars := t.Intersect(append([]string{report.ColSubmissionID}, report.IdentifierColumns...))
	log.Debug("reshaping score columns",
		zap.Int("columns", len(valueVars)),
		zap.Int("id_vars", len(idVars)))

	out := report.NewTable(t.Columns...)
	out.AddColumn(report.ColItem)
	out.AddColumn(report.ColResponse)
	out.Rows = append(out.Rows, t.Rows...)

	// Unpivot column by column, as a melt does; rows without a value
	// carry no information and are pruned.
	for _, v := range valueVars {
		item := longItemName(v)
		for _, row := range t.Rows {
			val, ok := row.Get(v)
			if !ok {
				continue
			}
			long := make(report.Row, len(idVars)+6)
			for _, id := range idVars {
				if s, present := row.Get(id); present {
					long[id] = s
				}
			}
			long[report.ColItem] = item
			long[report.ColResponse] = val
			// Reshaped rows never had per-item metadata.
			long[report.ColItemID] = ""
			long[report.ColPrompt] = ""
			long[report.ColOptions] = ""
			long[report.ColRawScore] = ""
			out.Append(long)
		}
	}
	for _, c := range []string{report.ColItemID, report.ColPrompt, report.ColOptions, report.ColRawScore} {
		out.AddColumn(c)
	}
	return out
}
