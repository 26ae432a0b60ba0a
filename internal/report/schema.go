package report

// Column names of the survey export schema. The source files carry an
// unnamed leading column holding the submission id; the loader renames it
// to ColSubmissionID and suffixes the three duration-boundary columns
// with _utc.
const (
	ColSubmissionID  = "activity_submission_id"
	ColScheduledTime = "activity_scheduled_time_utc"
	ColStartTime     = "activity_start_time_utc"
	ColEndTime       = "activity_end_time_utc"
	ColTimezone      = "timezone_offset"

	ColItemID   = "item_id"
	ColItem     = "item"
	ColPrompt   = "prompt"
	ColOptions  = "options"
	ColResponse = "response"
	ColRawScore = "rawScore"

	ColActivityName = "activity_name"

	// Columns derived by the transform stages.
	ColFormattedResponse = "formatted_response"
	ColResponseValues    = "response_values"
	ColResponseScores    = "response_scores"
	ColMergedResponses   = "merged_responses"
)

// ColLegacyUser identifies submissions from pre-migration accounts; it is
// dropped when present.
const ColLegacyUser = "legacy_user_id"

// IdentifierColumns is the fixed submission-level identifier set. Together
// with ColSubmissionID these never get reshaped; without it they form the
// wide-format grouping key. Any of them may be absent from a given export.
var IdentifierColumns = []string{
	"activity_flow_submission_id",
	ColScheduledTime,
	ColStartTime,
	ColEndTime,
	"flag",
	"secret_user_id",
	"userId",
	"source_user_subject_id",
	"source_user_secret_id",
	"source_user_nickname",
	"source_user_relation",
	"source_user_tag",
	"target_user_subject_id",
	"target_user_secret_id",
	"target_user_nickname",
	"target_user_tag",
	"input_user_subject_id",
	"input_user_secret_id",
	"input_user_nickname",
	"activity_id",
	ColActivityName,
	"activity_flow_id",
	"activity_flow_name",
	"version",
	"reviewing_id",
	"event_id",
	ColTimezone,
}

// ItemColumns carry per-item data and sit between the identifiers and any
// appended score/subscale columns in the source header.
var ItemColumns = []string{
	ColItemID,
	ColItem,
	ColPrompt,
	ColOptions,
	ColResponse,
	ColRawScore,
}

// TimeColumns hold millisecond-epoch timestamps in the raw export.
var TimeColumns = []string{ColScheduledTime, ColStartTime, ColEndTime}

// DictionaryColumns is the applet dictionary projection.
var DictionaryColumns = []string{
	"version",
	"activity_flow_id",
	"activity_flow_name",
	"activity_id",
	ColActivityName,
	ColItemID,
	ColItem,
	ColPrompt,
	ColOptions,
}

// columnRenames maps raw export headers to their canonical names.
var columnRenames = map[string]string{
	"activity_scheduled_time": ColScheduledTime,
	"activity_start_time":     ColStartTime,
	"activity_end_time":       ColEndTime,
}

func isItemColumn(name string) bool {
	for _, c := range ItemColumns {
		if c == name {
			return true
		}
	}
	return false
}

// ScoreColumns returns the long-form reshape candidates: every column
// positioned after timezone_offset, excluding the per-item columns. When
// timezone_offset itself is absent there are no candidates.
func ScoreColumns(t *Table) []string {
	idx := t.ColumnIndex(ColTimezone)
	if idx < 0 {
		return nil
	}
	var out []string
	for _, c := range t.Columns[idx+1:] {
		if isItemColumn(c) || c == ColLegacyUser {
			continue
		}
		out = append(out, c)
	}
	return out
}
