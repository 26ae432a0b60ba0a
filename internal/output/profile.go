package output

import (
	"fmt"
	"sort"
	"strings"

	"mlexport/internal/report"
)

const profileTopN = 20

// BuildProfile renders a markdown summary of the merged export: dataset
// shape, per-source-file row counts, per-column missingness, and value
// counts for the activity and item columns. Used for eyeballing an
// export before trusting the derivative tables.
func BuildProfile(merged, long, wide *report.Table, files []report.FileStat) string {
	lines := []string{
		"# Survey export profile",
		"",
		"## Dataset shape",
		fmt.Sprintf("- Merged rows: %d", len(merged.Rows)),
		fmt.Sprintf("- Merged columns: %d", len(merged.Columns)),
		fmt.Sprintf("- Long rows: %d", len(long.Rows)),
		fmt.Sprintf("- Wide rows: %d", len(wide.Rows)),
		fmt.Sprintf("- Wide columns: %d", len(wide.Columns)),
		"",
	}

	if len(files) > 0 {
		lines = append(lines, "## Source files")
		for _, f := range files {
			lines = append(lines, fmt.Sprintf("- `%s`: %d rows", f.Name, f.Rows))
		}
		lines = append(lines, "")
	}

	if len(merged.Rows) > 0 {
		lines = append(lines, fmt.Sprintf("## Missingness (top %d columns)", profileTopN))
		type miss struct {
			col string
			pct float64
		}
		misses := make([]miss, 0, len(merged.Columns))
		for _, col := range merged.Columns {
			absent := 0
			for _, row := range merged.Rows {
				if !row.Has(col) {
					absent++
				}
			}
			misses = append(misses, miss{col, float64(absent) * 100 / float64(len(merged.Rows))})
		}
		sort.SliceStable(misses, func(i, j int) bool {
			if misses[i].pct != misses[j].pct {
				return misses[i].pct > misses[j].pct
			}
			return misses[i].col < misses[j].col
		})
		for i := 0; i < len(misses) && i < profileTopN; i++ {
			lines = append(lines, fmt.Sprintf("- `%s`: %.1f%% missing", misses[i].col, misses[i].pct))
		}
		lines = append(lines, "")
	}

	for _, col := range []string{report.ColActivityName, report.ColItem} {
		if !merged.HasColumn(col) {
			continue
		}
		counts := map[string]int{}
		for _, row := range merged.Rows {
			k := "<missing>"
			if v, ok := row.Get(col); ok {
				k = v
			}
			counts[k]++
		}
		type kv struct {
			k string
			v int
		}
		items := make([]kv, 0, len(counts))
		for k, v := range counts {
			items = append(items, kv{k, v})
		}
		sort.Slice(items, func(i, j int) bool {
			if items[i].v == items[j].v {
				return items[i].k < items[j].k
			}
			return items[i].v > items[j].v
		})
		lines = append(lines, fmt.Sprintf("## Value counts: `%s` (top %d)", col, profileTopN))
		for i := 0; i < len(items) && i < profileTopN; i++ {
			lines = append(lines, fmt.Sprintf("- %s: %d", items[i].k, items[i].v))
		}
		lines = append(lines, "")
	}

	return strings.Join(lines, "\n")
}
