package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/text/encoding"

	"mlexport/internal/report"
)

// gen-sample-export writes deterministic synthetic report*.csv files in
// the legacy encoding, shaped like a real survey export. Useful for
// exercising the pipeline end to end without real participant data.

const (
	defaultOutput = "testdata/sample"
	defaultSeed   = int64(20260829)
)

var sourceHeaders = []string{
	"id",
	"activity_flow_submission_id",
	"activity_scheduled_time",
	"activity_start_time",
	"activity_end_time",
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
	"activity_name",
	"activity_flow_id",
	"activity_flow_name",
	"version",
	"reviewing_id",
	"event_id",
	"timezone_offset",
	"item_id",
	"item",
	"prompt",
	"options",
	"response",
	"rawScore",
	"Final SubScale Score",
	"Optional text for Final SubScale Score",
}

var sampleItems = []struct {
	name, prompt, options string
	responses             []string
}{
	{
		"mood_scale", "How are you feeling today?",
		"1: Bad (score: 0), 2: Okay (score: 1), 3: Good (score: 2)",
		[]string{"value: 1", "value: 2", "value: 3"},
	},
	{
		"energy_slider", "Rate your energy level",
		"Min: 0, Max: 10",
		[]string{"value: 4", "value: 7", "value: 10"},
	},
	{
		"wake_time", "When did you wake up?",
		"",
		[]string{"time: hr 7, min 30", "time: hr 6, min 5"},
	},
	{
		"lunch_window", "When did you eat lunch?",
		"",
		[]string{"time_range: from (hr 12, min 0) / to (hr 12, min 45)"},
	},
	{
		"home_location", "Where are you right now?",
		"",
		[]string{"geo: lat (52.5201) / long (13.4051)"},
	},
	{
		"free_text", "Anything else to report? (café, naïveté allowed)",
		"",
		[]string{"value: slept poorly", "value: all good"},
	},
}

func main() {
	outDir := flag.String("output-dir", defaultOutput, "Directory for the generated report files")
	seed := flag.Int64("seed", defaultSeed, "Deterministic generation seed")
	files := flag.Int("files", 2, "Number of report files to generate")
	submissions := flag.Int("submissions", 5, "Submissions per file")
	encoding := flag.String("encoding", report.DefaultEncoding, "Charset to encode the files in")
	flag.Parse()

	enc, ok := report.Encodings[strings.ToLower(*encoding)]
	if !ok {
		fatalf("unknown encoding %q", *encoding)
	}

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		fatalf("mkdir: %v", err)
	}

	rng := rand.New(rand.NewSource(*seed))
	for fi := 0; fi < *files; fi++ {
		path := filepath.Join(*outDir, fmt.Sprintf("report_%d.csv", fi+1))
		if err := writeReportFile(path, rng, *submissions, fi, enc); err != nil {
			fatalf("write %s: %v", path, err)
		}
		fmt.Printf("wrote %s\n", path)
	}
}

func writeReportFile(path string, rng *rand.Rand, submissions, fileIdx int, enc encoding.Encoding) error {
	var sb strings.Builder
	writeRecord(&sb, sourceHeaders)

	for s := 0; s < submissions; s++ {
		subID := fmt.Sprintf("sub-%d-%03d", fileIdx+1, s+1)
		userID := fmt.Sprintf("user-%02d", rng.Intn(4)+1)
		start := int64(1700000000000) + rng.Int63n(90*24*3600*1000)
		end := start + int64(rng.Intn(1800)+60)*1000
		offset := []string{"-300", "0", "60", "120"}[rng.Intn(4)]

		base := map[string]string{
			"id":                          subID,
			"activity_flow_submission_id": "flow-" + subID,
			"activity_scheduled_time":     strconv.FormatInt(start-600000, 10),
			"activity_start_time":         strconv.FormatInt(start, 10),
			"activity_end_time":           strconv.FormatInt(end, 10),
			"secret_user_id":              userID,
			"userId":                      userID + "-uuid",
			"activity_id":                 "act-001",
			"activity_name":               "Daily Check-in",
			"activity_flow_id":            "flow-001",
			"activity_flow_name":          "Morning Flow",
			"version":                     "1.2.0",
			"timezone_offset":             offset,
		}

		for _, item := range sampleItems {
			row := make([]string, 0, len(sourceHeaders))
			for _, h := range sourceHeaders {
				switch h {
				case "item_id":
					row = append(row, item.name+"-id")
				case "item":
					row = append(row, item.name)
				case "prompt":
					row = append(row, item.prompt)
				case "options":
					row = append(row, item.options)
				case "response":
					row = append(row, item.responses[rng.Intn(len(item.responses))])
				case "rawScore":
					row = append(row, "")
				case "Final SubScale Score":
					row = append(row, strconv.Itoa(rng.Intn(10)))
				case "Optional text for Final SubScale Score":
					row = append(row, "")
				default:
					row = append(row, base[h])
				}
			}
			writeRecord(&sb, row)
		}
	}

	encoded, err := enc.NewEncoder().Bytes([]byte(sb.String()))
	if err != nil {
		return err
	}
	return os.WriteFile(path, encoded, 0o644)
}

func writeRecord(sb *strings.Builder, rec []string) {
	for i, field := range rec {
		if i > 0 {
			sb.WriteByte(',')
		}
		if strings.ContainsAny(field, ",\"\n\r") {
			sb.WriteByte('"')
			sb.WriteString(strings.ReplaceAll(field, `"`, `""`))
			sb.WriteByte('"')
		} else {
			sb.WriteString(field)
		}
	}
	sb.WriteString("\r\n")
}

func fatalf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
