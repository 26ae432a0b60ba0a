package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"mlexport/internal/report"
)

func TestFormatResponse(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
		ok   bool
	}{
		{"geo", "geo: lat (52.5201) / long (13.4051)", "52.5201/13.4051", true},
		{"geo malformed passes through", "geo: broken", "geo: broken", true},
		{"value", "value: 2", "2", true},
		{"date", "date: 2024-01-02", "2024-01-02", true},
		{"time", "time: hr 7, min 5", "07:05", true},
		{"time no comma", "time: hr 7 min 5", "07:05", true},
		{"time malformed", "time: later", "", false},
		{"time range", "time_range: from (hr 9, min 30) / to (hr 10, min 0)", "09:30/10:00", true},
		{"time range malformed", "time_range: whenever", "", false},
		{"untagged passthrough", "just text", "just text", true},
		{"empty string is a value", "", "", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := FormatResponse(tc.in, true)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestFormatResponseMissingPropagates(t *testing.T) {
	_, ok := FormatResponse("", false)
	assert.False(t, ok)
}

func TestFormatResponseIdempotentOnDecodedTimes(t *testing.T) {
	decoded, ok := FormatResponse("time: hr 9, min 30", true)
	assert.True(t, ok)
	again, ok := FormatResponse(decoded, true)
	assert.True(t, ok)
	assert.Equal(t, decoded, again)
}

func TestFormatResponsesColumn(t *testing.T) {
	tbl := report.NewTable(report.ColResponse)
	tbl.Append(report.Row{report.ColResponse: "value: 3"})
	tbl.Append(report.Row{}) // missing response
	FormatResponses(tbl)

	assert.True(t, tbl.HasColumn(report.ColFormattedResponse))
	assert.Equal(t, "3", tbl.Rows[0].Value(report.ColFormattedResponse))
	assert.False(t, tbl.Rows[1].Has(report.ColFormattedResponse))
}

func TestConvertTimestamps(t *testing.T) {
	tbl := report.NewTable(report.ColStartTime)
	tbl.Append(report.Row{report.ColStartTime: "1700000000000"})
	tbl.Append(report.Row{report.ColStartTime: "not a number"})
	tbl.Append(report.Row{})
	ConvertTimestamps(tbl, zap.NewNop())

	assert.Equal(t, "2023-11-14 22:13:20.000", tbl.Rows[0].Value(report.ColStartTime))
	// Not-a-time input becomes the empty string, still present.
	v, ok := tbl.Rows[1].Get(report.ColStartTime)
	assert.True(t, ok)
	assert.Equal(t, "", v)
	// A cell missing on input stays missing.
	assert.False(t, tbl.Rows[2].Has(report.ColStartTime))
}

func TestAddLocalTimes(t *testing.T) {
	tbl := report.NewTable(report.ColStartTime, report.ColTimezone)
	tbl.Append(report.Row{report.ColStartTime: "1700000000000", report.ColTimezone: "-300"})
	tbl.Append(report.Row{report.ColStartTime: "1700000000000"}) // missing offset counts as zero
	AddLocalTimes(tbl)

	local := report.ColStartTime + "_local"
	assert.True(t, tbl.HasColumn(local))
	assert.Equal(t, "2023-11-14 17:13:20.000", tbl.Rows[0].Value(local))
	assert.Equal(t, "2023-11-14 22:13:20.000", tbl.Rows[1].Value(local))
}
