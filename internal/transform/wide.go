package transform

import (
	"strings"

	"go.uber.org/zap"

	"mlexport/internal/report"
)

// MergeResponses adds merged_responses as the first non-missing of
// response_scores, response_values, formatted_response. Strict priority,
// never combined.
func MergeResponses(t *report.Table) {
	t.AddColumn(report.ColMergedResponses)
	precedence := []string{
		report.ColResponseScores,
		report.ColResponseValues,
		report.ColFormattedResponse,
	}
	for _, row := range t.Rows {
		for _, col := range precedence {
			if v, ok := row.Get(col); ok {
				row[report.ColMergedResponses] = v
				break
			}
		}
	}
}

// wideGroup accumulates one output row during the pivot.
type wideGroup struct {
	ids   map[string]string // grouping column values
	subs  []string          // contributing submission ids, deduplicated
	seen  map[string]struct{}
	cells map[string]string // derived item column -> last merged response
}

// BuildWide pivots the long table into one row per identifier group.
// Missing grouping cells are filled with the empty string first so rows
// with partially missing identifiers still group; the empty string is a
// valid key, distinct from missing. Duplicate values for one derived
// column within a group resolve last-wins. Submission ids of every
// contributing row are joined with "|".
func BuildWide(t *report.Table, log *zap.Logger) *report.Table {
	groupCols := t.Intersect(report.IdentifierColumns)

	var order []string
	groups := make(map[string]*wideGroup)
	var derived []string
	derivedSeen := make(map[string]struct{})

	for _, row := range t.Rows {
		keyParts := make([]string, len(groupCols))
		vals := make(map[string]string, len(groupCols))
		for i, c := range groupCols {
			v := row.Value(c) // missing fills as ""
			keyParts[i] = v
			vals[c] = v
		}
		key := strings.Join(keyParts, "\x1f")

		g, ok := groups[key]
		if !ok {
			g = &wideGroup{
				ids:   vals,
				seen:  make(map[string]struct{}),
				cells: make(map[string]string),
			}
			groups[key] = g
			order = append(order, key)
		}

		if sub, okSub := row.Get(report.ColSubmissionID); okSub {
			if _, dup := g.seen[sub]; !dup {
				g.seen[sub] = struct{}{}
				g.subs = append(g.subs, sub)
			}
		}

		col := wideColumnName(row)
		if _, known := derivedSeen[col]; !known {
			derivedSeen[col] = struct{}{}
			derived = append(derived, col)
		}
		if merged, okM := row.Get(report.ColMergedResponses); okM {
			g.cells[col] = merged
		}
	}

	// Column order is pinned: grouping columns in schema order, the
	// joined submission ids, then derived columns in first-seen order.
	columns := append(append([]string{}, groupCols...), report.ColSubmissionID)
	columns = append(columns, derived...)
	out := report.NewTable(columns...)

	for _, key := range order {
		g := groups[key]
		row := make(report.Row, len(columns))
		for c, v := range g.ids {
			row[c] = v
		}
		row[report.ColSubmissionID] = strings.Join(g.subs, "|")
		for c, v := range g.cells {
			row[c] = v
		}
		out.Append(row)
	}
	log.Info("built wide table",
		zap.Int("groups", len(out.Rows)),
		zap.Int("item_columns", len(derived)))
	return out
}

// wideColumnName derives the pivot column name from the row's activity and
// item identifiers. An empty item_id drops the trailing segment entirely.
func wideColumnName(row report.Row) string {
	var b strings.Builder
	b.WriteString("activityName[")
	b.WriteString(row.Value(report.ColActivityName))
	b.WriteString("]_itemName[")
	b.WriteString(row.Value(report.ColItem))
	b.WriteString("]")
	if id := row.Value(report.ColItemID); id != "" {
		b.WriteString("_itemId[")
		b.WriteString(id)
		b.WriteString("]")
	}
	return b.String()
}
