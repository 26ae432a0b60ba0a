package transform

import (
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"mlexport/internal/report"
)

// OptionsKind classifies an item's options metadata string.
type OptionsKind int

const (
	OptionsUnrecognized OptionsKind = iota
	OptionsScoreTable
	OptionsRangeSlider
	OptionsLabelTable
)

func (k OptionsKind) String() string {
	switch k {
	case OptionsScoreTable:
		return "score-table"
	case OptionsRangeSlider:
		return "range-slider"
	case OptionsLabelTable:
		return "label-table"
	default:
		return "unrecognized"
	}
}

// OptionEntry is one parsed answer choice.
type OptionEntry struct {
	Name  string
	Value string
	Score string // "" when the option carries no score
}

// ParsedOptions is the classified form of an options string. Scores and
// Labels are keyed by the option's position token, which is how responses
// reference choices.
type ParsedOptions struct {
	Kind    OptionsKind
	Entries []OptionEntry
	Scores  map[string]string
	Labels  map[string]string
	Max     int // slider upper bound
}

var (
	reSlider     = regexp.MustCompile(`^Min: 0, Max: (\d+)$`)
	reLabelToken = regexp.MustCompile(`^\s*(.+?):\s*(.+?)\s*$`)
)

// ParseOptions classifies an options string by substring presence in
// priority order: score-bearing, then range-bearing, then generic
// "label: value" pairs. The format has no fixed schema; anything else is
// Unrecognized.
func ParseOptions(options string) ParsedOptions {
	trimmed := strings.TrimSpace(options)
	switch {
	case strings.Contains(trimmed, "score: "):
		return parseScoreTable(trimmed)
	case reSlider.MatchString(trimmed):
		m := reSlider.FindStringSubmatch(trimmed)
		max, _ := strconv.Atoi(m[1])
		return parseSlider(max)
	case strings.Contains(trimmed, ": "):
		return parseLabelTable(trimmed)
	default:
		return ParsedOptions{Kind: OptionsUnrecognized}
	}
}

// parseScoreTable recovers position→score pairs from "... (score: N)"
// segments. The decomposition mirrors the export's quirks exactly: options
// split on "),", the position token is whatever follows the first ": " in
// the left part, so label-only entries ("Good (score: 2)") contribute
// nothing.
func parseScoreTable(options string) ParsedOptions {
	p := ParsedOptions{Kind: OptionsScoreTable, Scores: map[string]string{}}
	for _, seg := range strings.Split(options, "),") {
		if !strings.Contains(seg, "(score") {
			continue
		}
		parts := strings.SplitN(seg, "(score", 2)
		if !strings.Contains(parts[0], ": ") || !strings.Contains(parts[1], ": ") {
			continue
		}
		name := strings.TrimSpace(strings.Split(parts[0], ": ")[0])
		pos := strings.TrimSpace(strings.Split(parts[0], ": ")[1])
		score := strings.Trim(strings.Split(parts[1], ": ")[1], " )")
		p.Scores[pos] = score
		p.Entries = append(p.Entries, OptionEntry{Name: name, Value: pos, Score: score})
	}
	return p
}

// parseSlider materializes the 0..max range the way the export's own
// option listing does: each position names and scores itself.
func parseSlider(max int) ParsedOptions {
	p := ParsedOptions{Kind: OptionsRangeSlider, Max: max}
	for n := 0; n <= max; n++ {
		s := strconv.Itoa(n)
		p.Entries = append(p.Entries, OptionEntry{Name: s, Value: s, Score: s})
	}
	return p
}

// parseLabelTable extracts label→position pairs from comma-delimited
// "label: position" tokens, keyed by position.
func parseLabelTable(options string) ParsedOptions {
	p := ParsedOptions{Kind: OptionsLabelTable, Labels: map[string]string{}}
	for _, token := range strings.Split(options, ",") {
		m := reLabelToken.FindStringSubmatch(token)
		if m == nil {
			continue
		}
		label, pos := m[1], m[2]
		p.Labels[pos] = label
		p.Entries = append(p.Entries, OptionEntry{Name: label, Value: pos})
	}
	return p
}

// responsePositions parses the response's comma-separated position list,
// found after its ": " prefix. A response without the prefix is malformed
// for this purpose.
func responsePositions(response string) ([]string, bool) {
	parts := strings.Split(strings.TrimSpace(response), ": ")
	if len(parts) < 2 {
		return nil, false
	}
	raw := strings.Split(parts[1], ",")
	out := make([]string, len(raw))
	for i, p := range raw {
		out[i] = strings.TrimSpace(p)
	}
	return out, true
}

// MapScoresValues resolves each row's response against its options,
// producing the response_scores and response_values columns. Row order is
// preserved exactly; a row that fails any parse yields missing outputs and
// processing continues.
//
// The range-slider branch keeps a legacy quirk: a "Min: 0, Max: M" options
// string with M <= 1 assigns nothing for that row, leaving the previous
// row's outputs in place. See DESIGN.md.
func MapScoresValues(t *report.Table, log *zap.Logger) {
	t.AddColumn(report.ColResponseValues)
	t.AddColumn(report.ColResponseScores)

	var prevScore, prevValue decoded
	for _, row := range t.Rows {
		score, value := mapRow(row, prevScore, prevValue)
		if score.ok {
			row[report.ColResponseScores] = score.value
		}
		if value.ok {
			row[report.ColResponseValues] = value.value
		}
		prevScore, prevValue = score, value
	}
	log.Debug("mapped response scores and values", zap.Int("rows", len(t.Rows)))
}

func mapRow(row report.Row, prevScore, prevValue decoded) (score, value decoded) {
	options, okO := row.Get(report.ColOptions)
	response, okR := row.Get(report.ColResponse)
	if !okO || !okR {
		return missing, missing
	}

	parsed := ParseOptions(options)
	switch parsed.Kind {
	case OptionsScoreTable:
		positions, ok := responsePositions(response)
		if !ok {
			return missing, missing
		}
		mapped := make([]string, len(positions))
		for i, pos := range positions {
			if s, found := parsed.Scores[pos]; found {
				mapped[i] = s
			} else {
				mapped[i] = "N/A"
			}
		}
		return present(strings.Join(mapped, ", ")), missing

	case OptionsRangeSlider:
		if parsed.Max <= 1 {
			// No assignment for this branch; the previous
			// iteration's outputs persist for this row.
			return prevScore, prevValue
		}
		rest := strings.Replace(response, "value: ", "", 1)
		return missing, present(joinCharacters(rest))

	case OptionsLabelTable:
		positions, ok := responsePositions(response)
		if !ok {
			return missing, missing
		}
		fallback := strings.Replace(response, "value: ", "", 1)
		mapped := make([]string, len(positions))
		for i, pos := range positions {
			if l, found := parsed.Labels[pos]; found {
				mapped[i] = l
			} else {
				mapped[i] = fallback
			}
		}
		return missing, present(strings.Join(mapped, ", "))

	default:
		return missing, missing
	}
}

// joinCharacters joins the characters of s with ", ". Slider responses are
// single numeric strings in practice, so the join is a passthrough there;
// the verbatim behavior is kept for anything longer.
func joinCharacters(s string) string {
	runes := []rune(s)
	parts := make([]string, len(runes))
	for i, r := range runes {
		parts[i] = string(r)
	}
	return strings.Join(parts, ", ")
}
