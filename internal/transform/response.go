package transform

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"mlexport/internal/report"
)

var (
	reGeo       = regexp.MustCompile(`geo: lat \((.+?)\) / long \((.+?)\)`)
	reTime      = regexp.MustCompile(`hr (\d+),? min (\d+)`)
	reNoiseChar = regexp.MustCompile(`[a-zA-Z\s+()_:]`)
)

// decoded is a cell-level result: a value, or missing.
type decoded struct {
	value string
	ok    bool
}

func present(v string) decoded { return decoded{value: v, ok: true} }

var missing = decoded{}

// responseDecoder pairs a tag predicate with its decoder. Decoders return
// handled=false to pass the value on to the rest of the chain.
type responseDecoder struct {
	name   string
	match  func(string) bool
	decode func(string) (decoded, bool)
}

// responseDecoders is evaluated in fixed priority order; the first decoder
// that handles a value wins.
var responseDecoders = []responseDecoder{
	{
		name:  "geo",
		match: contains("geo:"),
		decode: func(s string) (decoded, bool) {
			m := reGeo.FindStringSubmatch(s)
			if m == nil {
				// Tagged but malformed coordinates fall through
				// to the remaining tag checks.
				return missing, false
			}
			return present(m[1] + "/" + m[2]), true
		},
	},
	{
		name:   "value",
		match:  contains("value:"),
		decode: func(s string) (decoded, bool) { return present(stripTag(s, "value:")), true },
	},
	{
		name:   "date",
		match:  contains("date:"),
		decode: func(s string) (decoded, bool) { return present(stripTag(s, "date:")), true },
	},
	{
		name:  "time",
		match: contains("time:"),
		decode: func(s string) (decoded, bool) {
			m := reTime.FindStringSubmatch(s)
			if m == nil {
				return missing, true
			}
			return present(padClock(m[1], m[2])), true
		},
	},
	{
		name:  "time_range",
		match: contains("time_range:"),
		decode: func(s string) (decoded, bool) {
			return decodeTimeRange(s), true
		},
	},
}

func contains(tag string) func(string) bool {
	return func(s string) bool { return strings.Contains(s, tag) }
}

// stripTag removes the first occurrence of the tag token and returns the
// trimmed remainder.
func stripTag(s, tag string) string {
	return strings.TrimSpace(strings.Replace(s, tag, "", 1))
}

func padClock(hour, minute string) string {
	h, _ := strconv.Atoi(hour)
	m, _ := strconv.Atoi(minute)
	return fmt.Sprintf("%02d:%02d", h, m)
}

// decodeTimeRange normalizes a decorated time range such as
// "time_range: (hr 9, min 30) / (hr 10, min 0)" to "09:30/10:00". Any
// parse failure yields missing rather than an error.
func decodeTimeRange(s string) decoded {
	stripped := reNoiseChar.ReplaceAllString(s, "")
	stripped = strings.ReplaceAll(stripped, ",", ":")
	parts := strings.Split(stripped, "/")
	if len(parts) != 2 {
		return missing
	}
	out := make([]string, 2)
	for i, p := range parts {
		hm := strings.Split(p, ":")
		if len(hm) != 2 {
			return missing
		}
		h, err := strconv.Atoi(hm[0])
		if err != nil {
			return missing
		}
		m, err := strconv.Atoi(hm[1])
		if err != nil {
			return missing
		}
		out[i] = fmt.Sprintf("%02d:%02d", h, m)
	}
	return present(out[0] + "/" + out[1])
}

// FormatResponse decodes one raw response payload. Missing input
// propagates; a value no decoder claims passes through unchanged.
func FormatResponse(raw string, ok bool) (string, bool) {
	if !ok {
		return "", false
	}
	for _, d := range responseDecoders {
		if !d.match(raw) {
			continue
		}
		res, handled := d.decode(raw)
		if handled {
			return res.value, res.ok
		}
	}
	return raw, true
}

// FormatResponses adds the formatted_response column.
func FormatResponses(t *report.Table) {
	t.AddColumn(report.ColFormattedResponse)
	for _, row := range t.Rows {
		raw, ok := row.Get(report.ColResponse)
		if v, present := FormatResponse(raw, ok); present {
			row[report.ColFormattedResponse] = v
		}
	}
}

// TimestampLayout is the textual form of converted epoch timestamps.
const TimestampLayout = "2006-01-02 15:04:05.000"

// epochToTimestamp formats a millisecond-epoch numeric string as UTC.
func epochToTimestamp(s string) (string, bool) {
	ms, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return "", false
	}
	return time.UnixMilli(ms).UTC().Format(TimestampLayout), true
}

// ConvertTimestamps rewrites the three UTC epoch columns in place.
// Non-numeric values coerce to the empty string, staying present; a cell
// missing on input stays missing.
func ConvertTimestamps(t *report.Table, log *zap.Logger) {
	coerced := 0
	for _, col := range report.TimeColumns {
		if !t.HasColumn(col) {
			continue
		}
		for _, row := range t.Rows {
			raw, ok := row.Get(col)
			if !ok {
				continue
			}
			if ts, valid := epochToTimestamp(raw); valid {
				row[col] = ts
			} else {
				row[col] = ""
				coerced++
			}
		}
	}
	if coerced > 0 {
		log.Debug("coerced non-numeric timestamps to empty", zap.Int("cells", coerced))
	}
}

// AddLocalTimes derives <col>_local columns by shifting each epoch by the
// row's timezone offset in minutes. Missing or non-numeric offsets count
// as zero. Must run before ConvertTimestamps rewrites the epoch columns.
func AddLocalTimes(t *report.Table) {
	for _, col := range report.TimeColumns {
		if !t.HasColumn(col) {
			continue
		}
		local := col + "_local"
		t.AddColumn(local)
		for _, row := range t.Rows {
			raw, ok := row.Get(col)
			if !ok {
				continue
			}
			ms, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
			if err != nil {
				continue
			}
			offset := int64(0)
			if o, okO := row.Get(report.ColTimezone); okO {
				if mins, errO := strconv.ParseFloat(strings.TrimSpace(o), 64); errO == nil {
					offset = int64(mins * 60 * 1000)
				}
			}
			row[local] = time.UnixMilli(ms + offset).UTC().Format(TimestampLayout)
		}
	}
}
