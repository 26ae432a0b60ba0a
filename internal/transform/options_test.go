package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"mlexport/internal/report"
)

const scoreOptions = "1: 0 (score: 0), 2: 1 (score: 2), 3: 2 (score: 3)"

func TestParseOptionsScoreTable(t *testing.T) {
	p := ParseOptions(scoreOptions)
	require.Equal(t, OptionsScoreTable, p.Kind)
	assert.Equal(t, map[string]string{"0": "0", "1": "2", "2": "3"}, p.Scores)
	require.Len(t, p.Entries, 3)
	assert.Equal(t, OptionEntry{Name: "1", Value: "0", Score: "0"}, p.Entries[0])
}

func TestParseOptionsScoreTableLabelKeyedEntriesSkipped(t *testing.T) {
	// Entries without a ": " position token contribute nothing.
	p := ParseOptions("Good (score: 2), Bad (score: 0)")
	require.Equal(t, OptionsScoreTable, p.Kind)
	assert.Empty(t, p.Scores)
}

func TestParseOptionsSlider(t *testing.T) {
	p := ParseOptions("Min: 0, Max: 10")
	require.Equal(t, OptionsRangeSlider, p.Kind)
	assert.Equal(t, 10, p.Max)
	assert.Len(t, p.Entries, 11)
	assert.Equal(t, OptionEntry{Name: "0", Value: "0", Score: "0"}, p.Entries[0])
}

func TestParseOptionsLabelTable(t *testing.T) {
	p := ParseOptions("Never: 0, Sometimes: 1, Often: 2")
	require.Equal(t, OptionsLabelTable, p.Kind)
	assert.Equal(t, map[string]string{"0": "Never", "1": "Sometimes", "2": "Often"}, p.Labels)
}

func TestParseOptionsUnrecognized(t *testing.T) {
	assert.Equal(t, OptionsUnrecognized, ParseOptions("free text prompt").Kind)
	assert.Equal(t, OptionsUnrecognized, ParseOptions("").Kind)
}

func mapOne(t *testing.T, options, response string) report.Row {
	t.Helper()
	tbl := report.NewTable(report.ColOptions, report.ColResponse)
	row := report.Row{}
	if options != "\x00" {
		row[report.ColOptions] = options
	}
	if response != "\x00" {
		row[report.ColResponse] = response
	}
	tbl.Append(row)
	MapScoresValues(tbl, zap.NewNop())
	return tbl.Rows[0]
}

func TestMapScoreTableResponse(t *testing.T) {
	row := mapOne(t, scoreOptions, "value: 2")
	assert.Equal(t, "3", row.Value(report.ColResponseScores))
	assert.False(t, row.Has(report.ColResponseValues))
}

func TestMapScoreTableMultiSelect(t *testing.T) {
	row := mapOne(t, scoreOptions, "value: 0, 2")
	assert.Equal(t, "0, 3", row.Value(report.ColResponseScores))
}

func TestMapScoreTableUnknownPositionIsNA(t *testing.T) {
	row := mapOne(t, "Good (score: 2)", "value: 1")
	assert.Equal(t, "N/A", row.Value(report.ColResponseScores))
}

func TestMapSliderResponse(t *testing.T) {
	row := mapOne(t, "Min: 0, Max: 10", "value: 7")
	assert.Equal(t, "7", row.Value(report.ColResponseValues))
	assert.False(t, row.Has(report.ColResponseScores))
}

func TestMapSliderMultiDigitJoinsCharacters(t *testing.T) {
	row := mapOne(t, "Min: 0, Max: 12", "value: 10")
	assert.Equal(t, "1, 0", row.Value(report.ColResponseValues))
}

func TestMapLabelTableResponse(t *testing.T) {
	row := mapOne(t, "Never: 0, Sometimes: 1, Often: 2", "value: 1")
	assert.Equal(t, "Sometimes", row.Value(report.ColResponseValues))
}

func TestMapLabelTableUnknownPositionFallsBack(t *testing.T) {
	row := mapOne(t, "Never: 0, Often: 2", "value: 9")
	assert.Equal(t, "9", row.Value(report.ColResponseValues))
}

func TestMapMissingOptionsOrResponse(t *testing.T) {
	row := mapOne(t, "\x00", "value: 1")
	assert.False(t, row.Has(report.ColResponseScores))
	assert.False(t, row.Has(report.ColResponseValues))

	row = mapOne(t, scoreOptions, "\x00")
	assert.False(t, row.Has(report.ColResponseScores))
}

func TestMapDegenerateSliderKeepsPreviousRowOutputs(t *testing.T) {
	tbl := report.NewTable(report.ColOptions, report.ColResponse)
	tbl.Append(report.Row{report.ColOptions: scoreOptions, report.ColResponse: "value: 2"})
	tbl.Append(report.Row{report.ColOptions: "Min: 0, Max: 1", report.ColResponse: "value: 1"})
	MapScoresValues(tbl, zap.NewNop())

	// A Max <= 1 slider assigns nothing; the prior iteration's outputs
	// carry into this row.
	assert.Equal(t, "3", tbl.Rows[1].Value(report.ColResponseScores))
	assert.False(t, tbl.Rows[1].Has(report.ColResponseValues))
}

func TestMapPreservesRowOrder(t *testing.T) {
	tbl := report.NewTable(report.ColSubmissionID, report.ColOptions, report.ColResponse)
	for _, id := range []string{"a", "b", "c"} {
		tbl.Append(report.Row{
			report.ColSubmissionID: id,
			report.ColOptions:      scoreOptions,
			report.ColResponse:     "value: 1",
		})
	}
	MapScoresValues(tbl, zap.NewNop())
	for i, id := range []string{"a", "b", "c"} {
		assert.Equal(t, id, tbl.Rows[i].Value(report.ColSubmissionID))
	}
}
